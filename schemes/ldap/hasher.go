package ldap

import (
	"strings"

	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
)

const (
	schemeMD5   = "ldap_md5"
	schemeSMD5  = "ldap_salted_md5"
	schemeSHA1  = "ldap_sha1"
	schemeSSHA1 = "ldap_salted_sha1"
	schemeCrypt = "ldap_crypt"
)

type hasher struct {
	name   string
	prefix string
	new    func(password string) string
}

// Hasher returns the pwhash.Hasher for the given ldap wrapper scheme name
// (one of "ldap_md5", "ldap_salted_md5", "ldap_sha1", "ldap_salted_sha1",
// "ldap_crypt").
func Hasher(name string) pwhash.Hasher {
	switch name {
	case schemeMD5:
		return hasher{name: name, prefix: SchemeMD5, new: NewMD5}
	case schemeSMD5:
		return hasher{name: name, prefix: SchemeSMD5, new: NewSaltedMD5}
	case schemeSHA1:
		return hasher{name: name, prefix: SchemeSHA, new: NewSHA1}
	case schemeSSHA1:
		return hasher{name: name, prefix: SchemeSSHA, new: NewSaltedSHA1}
	case schemeCrypt:
		return hasher{name: name, prefix: SchemeCrypt, new: NewCrypt}
	default:
		return nil
	}
}

func (h hasher) Identify(hash string) bool {
	return strings.HasPrefix(hash, h.prefix)
}

func (h hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	return h.new(secret), nil
}

func (h hasher) Verify(secret, hash string) error {
	err := Check(hash, secret)
	switch {
	case err == nil:
		return nil
	case err == crypt.ErrPasswordMismatch:
		return pwhash.ErrMismatch
	default:
		return &pwhash.MalformedHashError{Scheme: h.name, Reason: err.Error()}
	}
}

func (h hasher) GenConfig(settings pwhash.Settings) (string, error) {
	return "", nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	return h.Hash(secret, pwhash.Settings{})
}

func (h hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	return false
}

func init() {
	for _, name := range []string{schemeMD5, schemeSMD5, schemeSHA1, schemeSSHA1, schemeCrypt} {
		n := name
		pwhash.DefaultRegistry.Register(n, func() (pwhash.Hasher, error) {
			return Hasher(n), nil
		})
	}
}

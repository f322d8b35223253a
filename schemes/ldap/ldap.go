// Package ldap implements the RFC 2307 "{SCHEME}payload" password wrappers
// used by LDAP directories: {MD5}, {SMD5}, {SHA}, {SSHA} and {CRYPT}, the
// last delegating its payload to the crypt(3) des_crypt scheme.
package ldap

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hashwright/pwhash/crypt"
	"github.com/hashwright/pwhash/internal/cryptoutil"
	"github.com/hashwright/pwhash/schemes/descrypt"
)

const (
	SchemeMD5  = "{MD5}"
	SchemeSMD5 = "{SMD5}"
	SchemeSHA  = "{SHA}"
	SchemeSSHA = "{SSHA}"

	SchemeCrypt   = "{CRYPT}"
	saltedSaltLen = 8
)

// UnsupportedSchemeError values describe errors resulting from an
// unrecognized or mismatched "{SCHEME}" wrapper.
type UnsupportedSchemeError string

func (e UnsupportedSchemeError) Error() string {
	return "unsupported ldap scheme " + string(e)
}

// MalformedPayloadError values describe errors resulting from a payload
// that does not decode or is the wrong length for its scheme.
type MalformedPayloadError string

func (e MalformedPayloadError) Error() string {
	return "malformed ldap payload: " + string(e)
}

// ExtractScheme returns the "{SCHEME}" wrapper (braces included) from a
// wrapped hash string, and the remainder of the string.
func ExtractScheme(hash string) (scheme, rest string, err error) {
	if !strings.HasPrefix(hash, "{") {
		return "", "", MalformedPayloadError("missing '{' prefix")
	}
	end := strings.IndexByte(hash, '}')
	if end < 0 {
		return "", "", MalformedPayloadError("missing '}' terminator")
	}
	return hash[:end+1], hash[end+1:], nil
}

// hashMD5 returns the base64 payload for {MD5}.
func hashMD5(password string) string {
	sum := md5.Sum([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// hashSaltedMD5 returns the base64 payload for {SMD5}: MD5(password||salt)
// followed by the raw salt, both base64-encoded together.
func hashSaltedMD5(password string, salt []byte) string {
	h := md5.New()
	h.Write([]byte(password))
	h.Write(salt)
	sum := h.Sum(nil)
	return base64.StdEncoding.EncodeToString(append(sum, salt...))
}

func hashSHA1(password string) string {
	sum := sha1.Sum([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func hashSaltedSHA1(password string, salt []byte) string {
	h := sha1.New()
	h.Write([]byte(password))
	h.Write(salt)
	sum := h.Sum(nil)
	return base64.StdEncoding.EncodeToString(append(sum, salt...))
}

// NewMD5 returns the {MD5} wrapped hash of the password.
func NewMD5(password string) string {
	return SchemeMD5 + hashMD5(password)
}

// NewSaltedMD5 returns the {SMD5} wrapped hash of the password with a
// freshly drawn salt.
func NewSaltedMD5(password string) string {
	salt := cryptoutil.Rand(saltedSaltLen)
	return SchemeSMD5 + hashSaltedMD5(password, salt)
}

// NewSHA1 returns the {SHA} wrapped hash of the password.
func NewSHA1(password string) string {
	return SchemeSHA + hashSHA1(password)
}

// NewSaltedSHA1 returns the {SSHA} wrapped hash of the password with a
// freshly drawn salt.
func NewSaltedSHA1(password string) string {
	salt := cryptoutil.Rand(saltedSaltLen)
	return SchemeSSHA + hashSaltedSHA1(password, salt)
}

// NewCrypt returns the {CRYPT} wrapped des_crypt hash of the password.
func NewCrypt(password string) string {
	return SchemeCrypt + descrypt.NewHash(password)
}

// Check compares the given "{SCHEME}payload" hash with a new hash derived
// from the password. Returns nil on success, or an error on failure.
func Check(hash, password string) error {
	scheme, payload, err := ExtractScheme(hash)
	if err != nil {
		return err
	}
	switch scheme {
	case SchemeMD5:
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return MalformedPayloadError(err.Error())
		}
		sum := md5.Sum([]byte(password))
		if subtle.ConstantTimeCompare(raw, sum[:]) == 0 {
			return crypt.ErrPasswordMismatch
		}
		return nil
	case SchemeSMD5:
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return MalformedPayloadError(err.Error())
		}
		if len(raw) <= md5.Size {
			return MalformedPayloadError(fmt.Sprintf("payload too short: %d bytes", len(raw)))
		}
		salt := raw[md5.Size:]
		h := md5.New()
		h.Write([]byte(password))
		h.Write(salt)
		sum := h.Sum(nil)
		if subtle.ConstantTimeCompare(raw[:md5.Size], sum) == 0 {
			return crypt.ErrPasswordMismatch
		}
		return nil
	case SchemeSHA:
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return MalformedPayloadError(err.Error())
		}
		sum := sha1.Sum([]byte(password))
		if subtle.ConstantTimeCompare(raw, sum[:]) == 0 {
			return crypt.ErrPasswordMismatch
		}
		return nil
	case SchemeSSHA:
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return MalformedPayloadError(err.Error())
		}
		if len(raw) <= sha1.Size {
			return MalformedPayloadError(fmt.Sprintf("payload too short: %d bytes", len(raw)))
		}
		salt := raw[sha1.Size:]
		h := sha1.New()
		h.Write([]byte(password))
		h.Write(salt)
		sum := h.Sum(nil)
		if subtle.ConstantTimeCompare(raw[:sha1.Size], sum) == 0 {
			return crypt.ErrPasswordMismatch
		}
		return nil
	case SchemeCrypt:
		return descrypt.Check(payload, password)
	default:
		return UnsupportedSchemeError(scheme)
	}
}

// Note: crypt.Check only recognizes "$"- and "_"-prefixed hashes, so these
// "{SCHEME}"-wrapped hashes are not registered with the legacy crypt
// registry; they are only reachable through the ldap scheme Hasher.

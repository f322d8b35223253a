package nthash

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	crypthash "github.com/hashwright/pwhash/mcf"
)

const schemeName = "nthash"

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	var s scheme
	return crypthash.Unmarshal(hash, &s) == nil
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	return NewHash(secret)
}

func (hasher) Verify(secret, hash string) error {
	err := Check(hash, secret)
	switch {
	case err == nil:
		return nil
	case err == crypt.ErrPasswordMismatch:
		return pwhash.ErrMismatch
	default:
		return &pwhash.MalformedHashError{Scheme: schemeName, Reason: err.Error()}
	}
}

// GenConfig and GenHash have no parameters to pin: NT Hash is an
// unsalted, deterministic digest of the password, so the config string
// carries nothing and GenHash is simply Hash.
func (hasher) GenConfig(settings pwhash.Settings) (string, error) {
	return "", nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	return h.Hash(secret, pwhash.Settings{})
}

func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	return false
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
}

package plaintext

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
)

const schemeName = "plaintext"

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

// Identify always reports a match: plaintext has no marker of its own, so
// it only belongs at the tail of a scheme list, behind every real digest.
func (hasher) Identify(hash string) bool {
	return true
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	return NewHash(secret), nil
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

func (hasher) GenConfig(settings pwhash.Settings) (string, error) {
	return "", nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	return h.Hash(secret, pwhash.Settings{})
}

// NeedsUpdate always reports true: any context that still recognizes
// plaintext hashes wants them migrated to a real scheme.
func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	return true
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
}

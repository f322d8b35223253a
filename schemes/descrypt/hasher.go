package descrypt

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
)

const schemeName = "des_crypt"

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, err := Salt(hash)
	return err == nil
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	if len(secret) > MaxPasswordLength {
		return "", &pwhash.PasswordSizeError{Scheme: schemeName, Size: len(secret), Max: MaxPasswordLength}
	}
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

// GenConfig/GenHash: des_crypt has an 8-byte password limit and no rounds
// knob, and NewHash draws its own salt, so there is nothing to pin besides
// re-running Hash.
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

package sunmd5

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
)

const schemeName = "sunmd5"

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, _, _, err := Params(hash)
	return err == nil
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	rounds := uint32(DefaultRounds)
	if r, ok := settings.Rounds(); ok {
		rounds = uint32(r)
	}
	return NewHash(secret, rounds)
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

// GenConfig/GenHash are approximate for sunmd5: the salt is redrawn on
// every GenHash call since NewHash does not accept an explicit salt, so
// the parse-stability property holds for rounds but not for salt bytes.
func (h hasher) GenConfig(settings pwhash.Settings) (string, error) {
	rounds := uint32(DefaultRounds)
	if r, ok := settings.Rounds(); ok {
		rounds = uint32(r)
	}
	return pwhash.EncodeConfig(pwhash.Settings{"rounds": int(rounds)}), nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	settings, err := pwhash.DecodeConfig(config)
	if err != nil {
		return "", err
	}
	return h.Hash(secret, settings)
}

func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	_, rounds, _, err := Params(hash)
	if err != nil {
		return false
	}
	if policy.MinRounds > 0 && int(rounds) < policy.MinRounds {
		return true
	}
	return false
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
}

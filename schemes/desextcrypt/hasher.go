package desextcrypt

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/internal/hashutil"
	"github.com/hashwright/pwhash/mixins"
)

const schemeName = "des_crypt_ext"

var saltMixin = mixins.Salt{Scheme: schemeName, Alphabet: hashutil.EncoderHash, Min: SaltLength, Max: SaltLength, Default: SaltLength}

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, _, err := Params(hash)
	return err == nil
}

// Hash builds the scheme directly (rather than delegating to NewHash) so
// an explicit "salt" setting is honoured instead of always drawing a
// fresh one, matching the other crypt(3)-family schemes' adapters.
func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	rounds := uint32(DefaultRounds)
	if r, ok := settings.Rounds(); ok {
		rounds = uint32(r)
	}
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	s := scheme{HashPrefix: Prefix, Rounds: hashRounds(rounds), Salt: salt}
	key, err := Key([]byte(secret), salt, rounds)
	if err != nil {
		return "", &pwhash.InvalidHashError{Scheme: schemeName, Reason: err.Error()}
	}
	crypthash.BigEndianEncoding.Encode(s.Sum[:], key)
	return crypthash.Marshal(s)
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

func (h hasher) GenConfig(settings pwhash.Settings) (string, error) {
	rounds := uint32(DefaultRounds)
	if r, ok := settings.Rounds(); ok {
		rounds = uint32(r)
	}
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	return pwhash.EncodeConfig(pwhash.Settings{"salt": salt, "rounds": int(rounds)}), nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	settings, err := pwhash.DecodeConfig(config)
	if err != nil {
		return "", err
	}
	return h.Hash(secret, settings)
}

func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	_, rounds, err := Params(hash)
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

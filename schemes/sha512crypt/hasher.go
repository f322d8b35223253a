package sha512crypt

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/internal/hashutil"
	"github.com/hashwright/pwhash/mixins"
)

const schemeName = "sha512_crypt"

var roundsMixin = mixins.Rounds{Scheme: schemeName, Min: MinRounds, Max: MaxRounds, Default: DefaultRounds}

var saltMixin = mixins.Salt{Scheme: schemeName, Alphabet: hashutil.EncoderHash, Min: 0, Max: MaxSaltLength, Default: DefaultSaltLength}

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, _, err := Params(hash)
	return err == nil
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	rounds, err := roundsMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	key, err := Key([]byte(secret), salt, uint32(rounds))
	if err != nil {
		return "", &pwhash.InvalidHashError{Scheme: schemeName, Reason: err.Error()}
	}
	s := scheme{HashPrefix: Prefix, Rounds: uint32(rounds), Salt: salt}
	crypthash.LittleEndianEncoding.Encode(s.Sum[:], key)
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
	rounds, err := roundsMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	return pwhash.EncodeConfig(pwhash.Settings{"salt": salt, "rounds": rounds}), nil
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
	if want, ok := policy.SchemeSettings[schemeName]; ok {
		if wr, ok := want.Rounds(); ok && int(rounds) < wr {
			return true
		}
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
	pwhash.DefaultRegistry.RegisterAlias("sha-512-crypt", schemeName)
}

package scrypt

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	"github.com/hashwright/pwhash/internal/cryptoutil"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/mixins"
)

const schemeName = "scrypt"

var saltMixin = mixins.Salt{
	Scheme: schemeName, Min: 1, Max: MaxSaltLength,
	Default: crypthash.BigEndianEncoding.EncodedLen(DefaultSaltLength),
	Draw: func(n int) []byte {
		salt := make([]byte, n)
		crypthash.BigEndianEncoding.Encode(salt, cryptoutil.Rand(crypthash.BigEndianEncoding.DecodedLen(n)))
		return salt
	},
}

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, _, _, _, err := Params(hash)
	return err == nil
}

func resolveLogN(settings pwhash.Settings) int {
	if r, ok := settings.Rounds(); ok {
		if n, ok := logOf(r); ok {
			return n
		}
	}
	return DefaultLogN
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	r, p := DefaultR, DefaultP
	if v, ok := settings["r"].(int); ok {
		r = v
	}
	if v, ok := settings["p"].(int); ok {
		p = v
	}
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	s := scheme{
		HashPrefix: Prefix,
		LogN:       resolveLogN(settings),
		R:          r,
		P:          p,
		Salt:       salt,
	}
	key, err := Key([]byte(secret), s.Salt, s.LogN, s.R, s.P)
	if err != nil {
		return "", &pwhash.ConfigError{Reason: err.Error()}
	}
	s.Sum = make([]byte, crypthash.BigEndianEncoding.EncodedLen(len(key)))
	crypthash.BigEndianEncoding.Encode(s.Sum, key)
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
	out := pwhash.Settings{"rounds": 1 << uint(resolveLogN(settings))}
	if salt, ok := settings.Salt(); ok {
		out = out.With("salt", salt)
	}
	return pwhash.EncodeConfig(out), nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	settings, err := pwhash.DecodeConfig(config)
	if err != nil {
		return "", err
	}
	return h.Hash(secret, settings)
}

func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	_, logN, _, _, err := Params(hash)
	if err != nil {
		return false
	}
	if want, ok := policy.SchemeSettings[schemeName].Rounds(); ok {
		if wantLogN, ok := logOf(want); ok && logN < wantLogN {
			return true
		}
	}
	if policy.MinRounds > 0 {
		if minLogN, ok := logOf(policy.MinRounds); ok && logN < minLogN {
			return true
		}
	}
	return false
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
}

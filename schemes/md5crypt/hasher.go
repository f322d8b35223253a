package md5crypt

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/internal/hashutil"
	"github.com/hashwright/pwhash/mixins"
)

const schemeName = "md5_crypt"

var saltMixin = mixins.Salt{Scheme: schemeName, Alphabet: hashutil.EncoderHash, Min: 0, Max: MaxSaltLength, Default: DefaultSaltLength}

type hasher struct{}

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, err := Salt(hash)
	return err == nil
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	key, err := Key([]byte(secret), salt)
	if err != nil {
		return "", &pwhash.InvalidHashError{Scheme: schemeName, Reason: err.Error()}
	}
	s := scheme{HashPrefix: Prefix, Salt: salt, Sum: make([]byte, sumLength)}
	crypthash.LittleEndianEncoding.Encode(s.Sum, key)
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
	salt, err := saltMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	return pwhash.EncodeConfig(pwhash.Settings{"salt": salt}), nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	settings, err := pwhash.DecodeConfig(config)
	if err != nil {
		return "", err
	}
	return h.Hash(secret, settings)
}

// NeedsUpdate always reports false: md5_crypt has no internal rounds knob
// to check, so the
// Context's own "scheme != default" and "scheme in deprecated" checks carry
// the entire signal for this scheme.
func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	return false
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
	pwhash.DefaultRegistry.RegisterAlias("md5-crypt", schemeName)
}

package pbkdf2

import (
	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	"github.com/hashwright/pwhash/internal/hashutil"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/mixins"
)

const (
	schemeSHA1   = "pbkdf2_sha1"
	schemeSHA256 = "pbkdf2_sha256"
	schemeSHA384 = "pbkdf2_sha384"
	schemeSHA512 = "pbkdf2_sha512"
)

type hasher struct {
	name   string
	prefix string
	rounds mixins.Rounds
	salt   mixins.Salt
}

// Hasher returns the pwhash.Hasher for the given pbkdf2 flavour's scheme
// name (one of "pbkdf2_sha1", "pbkdf2_sha256", "pbkdf2_sha384",
// "pbkdf2_sha512").
func Hasher(name string) pwhash.Hasher {
	salt := mixins.Salt{Scheme: name, Alphabet: hashutil.EncoderBase64, Min: 1, Max: MaxSaltLength, Default: DefaultSaltLength}
	switch name {
	case schemeSHA1:
		return hasher{name: name, prefix: PrefixSHA1, rounds: mixins.Rounds{Scheme: name, Min: MinRounds, Max: MaxRounds, Default: DefaultRounds}, salt: salt}
	case schemeSHA256:
		return hasher{name: name, prefix: PrefixSHA256, rounds: mixins.Rounds{Scheme: name, Min: MinRounds, Max: MaxRounds, Default: DefaultRounds}, salt: salt}
	case schemeSHA384:
		return hasher{name: name, prefix: PrefixSHA384, rounds: mixins.Rounds{Scheme: name, Min: MinRounds, Max: MaxRounds, Default: DefaultRounds}, salt: salt}
	case schemeSHA512:
		return hasher{name: name, prefix: PrefixSHA512, rounds: mixins.Rounds{Scheme: name, Min: MinRounds, Max: MaxRounds, Default: DefaultRounds}, salt: salt}
	default:
		return nil
	}
}

func (h hasher) Identify(hash string) bool {
	_, _, prefix, err := Params(hash)
	return err == nil && prefix == h.prefix
}

func (h hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	rounds, err := h.rounds.Resolve(settings)
	if err != nil {
		return "", err
	}
	saltBytes, err := h.salt.Resolve(settings)
	if err != nil {
		return "", err
	}
	s := scheme{
		HashPrefix: hashPrefix(h.prefix),
		Rounds:     uint32(rounds),
		Salt:       saltBytes,
	}
	key, err := Key([]byte(secret), s.Salt, s.Rounds, h.prefix)
	if err != nil {
		return "", &pwhash.ConfigError{Reason: err.Error()}
	}
	s.Sum = make([]byte, crypthash.BigEndianEncoding.EncodedLen(len(key)))
	crypthash.BigEndianEncoding.Encode(s.Sum, key)
	return crypthash.Marshal(s)
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
	rounds, err := h.rounds.Resolve(settings)
	if err != nil {
		return "", err
	}
	out := pwhash.Settings{"rounds": rounds}
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

func (h hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	_, rounds, prefix, err := Params(hash)
	if err != nil || prefix != h.prefix {
		return false
	}
	if want, ok := policy.SchemeSettings[h.name].Rounds(); ok && int(rounds) < want {
		return true
	}
	if policy.MinRounds > 0 && int(rounds) < policy.MinRounds {
		return true
	}
	return false
}

func init() {
	for _, name := range []string{schemeSHA1, schemeSHA256, schemeSHA384, schemeSHA512} {
		n := name
		pwhash.DefaultRegistry.Register(n, func() (pwhash.Hasher, error) {
			return Hasher(n), nil
		})
	}
	pwhash.DefaultRegistry.RegisterAlias("pbkdf2", schemeSHA256)
}

package bcrypt

import (
	"strings"

	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/internal/cryptoutil"
	"github.com/hashwright/pwhash/mixins"
)

const schemeName = "bcrypt"

var roundsMixin = mixins.LogRounds{Scheme: schemeName, Min: MinCost, Max: MaxCost, Default: DefaultCost}

var saltMixin = mixins.Salt{
	Scheme: schemeName, Min: SaltLength, Max: SaltLength, Default: SaltLength,
	Draw: func(n int) []byte {
		salt := make([]byte, n)
		Encoding.Encode(salt, cryptoutil.Rand(Encoding.DecodedLen(n)))
		return salt
	},
}

type hasher struct{}

// Hasher returns the pwhash.Hasher adapter over this package's bcrypt
// implementation.
func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, _, _, err := Params(hash)
	return err == nil
}

func resolveSalt(settings pwhash.Settings) ([]byte, error) {
	return saltMixin.Resolve(settings)
}

// nulByteError reports a NUL byte in secret: bcrypt's reference
// implementations treat the password as a C string, so bytes from the
// first NUL onward are silently dropped rather than hashed.
func nulByteError(secret string) error {
	if strings.IndexByte(secret, 0) < 0 {
		return nil
	}
	return &pwhash.PasswordValueError{Scheme: schemeName, Reason: "secret contains a NUL byte"}
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	if err := nulByteError(secret); err != nil {
		return "", err
	}
	cost, err := roundsMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	ident := Prefix2b
	if id, ok := settings.Ident(); ok {
		ident = id
	}
	salt, err := resolveSalt(settings)
	if err != nil {
		return "", err
	}
	key, err := Key([]byte(secret), salt, uint8(cost), &CompatibilityOptions{Prefix: ident})
	if err != nil {
		return "", &pwhash.InvalidHashError{Scheme: schemeName, Reason: err.Error()}
	}
	sum := make([]byte, sumLength)
	Encoding.Encode(sum, key)
	s := scheme{HashPrefix: hashPrefix(ident), Cost: hashCost(cost), Salt: salt}
	copy(s.Sum[:], sum)
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
	cost, err := roundsMixin.Resolve(settings)
	if err != nil {
		return "", err
	}
	ident := Prefix2b
	if id, ok := settings.Ident(); ok {
		ident = id
	}
	salt, err := resolveSalt(settings)
	if err != nil {
		return "", err
	}
	return pwhash.EncodeConfig(pwhash.Settings{"salt": salt, "rounds": cost, "ident": ident}), nil
}

func (h hasher) GenHash(secret, config string) (string, error) {
	settings, err := pwhash.DecodeConfig(config)
	if err != nil {
		return "", err
	}
	return h.Hash(secret, settings)
}

func (hasher) NeedsUpdate(hash string, policy pwhash.Policy) bool {
	salt, cost, opts, err := Params(hash)
	if err != nil {
		return false
	}
	_ = salt
	if opts.Prefix != Prefix2b {
		return true
	}
	if want, ok := policy.SchemeSettings[schemeName]; ok {
		if wr, ok := want.Rounds(); ok && int(cost) < wr {
			return true
		}
	}
	if policy.MinRounds > 0 && int(cost) < policy.MinRounds {
		return true
	}
	return false
}

// TruncationRisk reports whether a secret of the given byte length would be
// silently truncated by bcrypt's 72-byte limit, per the $2b$ rule in Key.
func (hasher) TruncationRisk(secretLen int) bool {
	return secretLen > 72
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
}

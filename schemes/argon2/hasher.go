package argon2

import (
	"encoding/base64"
	"strconv"

	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/crypt"
	crypthash "github.com/hashwright/pwhash/mcf"
	"github.com/hashwright/pwhash/internal/cryptoutil"
	"github.com/hashwright/pwhash/mixins"
)

const schemeName = "argon2"

// descriptor documents argon2's metadata in the shared Descriptor shape;
// the scheme validates its own bounds via Key rather than a mixins.Rounds,
// since its cost is a (memory, time, threads) triple rather than one value.
var descriptor = pwhash.Descriptor{
	Name:          schemeName,
	Idents:        []string{Prefix2d, Prefix2i, Prefix2id},
	SettingKwds:   []string{"rounds", "memory", "threads", "salt", "ident", "backend"},
	MinRounds:     MinTime,
	DefaultRounds: DefaultTime,
	RoundsCost:    pwhash.RoundsLinear,
}

var saltMixin = mixins.Salt{
	Scheme: schemeName, Min: MinSaltLength, Max: 1024, Default: DefaultSaltLength,
	Draw: func(n int) []byte {
		salt := make([]byte, n)
		base64.RawStdEncoding.Encode(salt, cryptoutil.Rand(base64.RawStdEncoding.DecodedLen(n)))
		return salt
	},
}

type hasher struct{}

// Descriptor returns this scheme's metadata record.
func Descriptor() pwhash.Descriptor { return descriptor }

func Hasher() pwhash.Hasher { return hasher{} }

func (hasher) Identify(hash string) bool {
	_, _, _, _, _, err := Params(hash)
	return err == nil
}

func resolveSalt(settings pwhash.Settings) ([]byte, error) {
	return saltMixin.Resolve(settings)
}

func resolveMemory(settings pwhash.Settings) uint32 {
	if v, ok := settings["memory"]; ok {
		if n, ok := v.(int); ok {
			return uint32(n)
		}
	}
	return DefaultMemory
}

func resolveTime(settings pwhash.Settings) uint32 {
	if r, ok := settings.Rounds(); ok {
		return uint32(r)
	}
	return DefaultTime
}

func resolveThreads(settings pwhash.Settings) uint8 {
	if v, ok := settings["threads"]; ok {
		if n, ok := v.(int); ok {
			return uint8(n)
		}
	}
	return DefaultThreads
}

func resolveIdent(settings pwhash.Settings) hashPrefix {
	if id, ok := settings.Ident(); ok {
		return hashPrefix(id)
	}
	return Prefix2id
}

func (hasher) Hash(secret string, settings pwhash.Settings) (string, error) {
	memory, timeC, threads := resolveMemory(settings), resolveTime(settings), resolveThreads(settings)
	ident := resolveIdent(settings)
	salt, err := resolveSalt(settings)
	if err != nil {
		return "", err
	}
	backend := resolveBackend(settings)
	if !ValidBackend(backend) {
		return "", &pwhash.MissingBackendError{Scheme: schemeName, Reason: "no backend named " + strconv.Quote(backend)}
	}
	key, err := keyFor(backend, []byte(secret), salt, memory, timeC, threads, &CompatibilityOptions{Prefix: string(ident), Version: Version13})
	if err != nil {
		return "", &pwhash.InvalidHashError{Scheme: schemeName, Reason: err.Error()}
	}
	s := scheme{HashPrefix: ident, Version: Version13, Memory: memory, Time: timeC, Threads: threads, Salt: salt}
	s.Sum = make([]byte, base64.RawStdEncoding.EncodedLen(len(key)))
	base64.RawStdEncoding.Encode(s.Sum, key)
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
	memory, timeC, threads := resolveMemory(settings), resolveTime(settings), resolveThreads(settings)
	ident := resolveIdent(settings)
	salt, err := resolveSalt(settings)
	if err != nil {
		return "", err
	}
	out := pwhash.Settings{
		"salt": salt, "rounds": int(timeC), "memory": int(memory), "threads": int(threads), "ident": string(ident),
	}
	// backend is pinned into the stored config too: harmless since it never
	// changes the derived key, but it keeps a later GenHash deterministic
	// rather than re-resolving the environment at hash time.
	out["backend"] = resolveBackend(settings)
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
	_, memory, timeC, _, _, err := Params(hash)
	if err != nil {
		return false
	}
	if want, ok := policy.SchemeSettings[schemeName]; ok {
		if wr, ok := want.Rounds(); ok && int(timeC) < wr {
			return true
		}
		if wm, ok := want["memory"]; ok {
			if wmn, ok := wm.(int); ok && int(memory) < wmn {
				return true
			}
		}
	}
	if policy.MinRounds > 0 && int(timeC) < policy.MinRounds {
		return true
	}
	return false
}

func init() {
	pwhash.DefaultRegistry.Register(schemeName, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
	// Advertised for introspection (Registry.Backends) only; actual
	// per-call selection happens in Hash/GenConfig via resolveBackend,
	// since backend is a per-call setting like rounds or ident, not a
	// construction-time choice baked into the Hasher Lookup returns.
	pwhash.DefaultRegistry.RegisterBackend(schemeName, BackendNative, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
	pwhash.DefaultRegistry.RegisterBackend(schemeName, BackendXCrypto, func() (pwhash.Hasher, error) {
		return hasher{}, nil
	})
}

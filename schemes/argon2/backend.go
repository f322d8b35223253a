package argon2

import (
	"os"
	"strconv"
	"strings"

	"github.com/hashwright/pwhash"
	"golang.org/x/crypto/argon2"
)

// Two Argon2 backends are wired: "native", the teacher's own vendored
// argon2crypto compression function (default, and the only one able to
// produce $argon2d$ hashes), and "xcrypto", golang.org/x/crypto/argon2
// itself. Both derive the same key for the same (password, salt, mode,
// version, memory, time, threads) tuple, so switching backends never
// changes a hash's wire bytes for identical inputs.
const (
	BackendNative  = "native"
	BackendXCrypto = "xcrypto"
)

// backendEnv names the environment variable a deployment may set to
// override the default backend for this scheme, per spec.md 4.4's "a
// conforming implementation MAY read a variable to override the default
// backend selection for a scheme".
const backendEnv = "PWHASH_BACKEND_ARGON2"

// resolveBackend applies spec.md 4.4's precedence: an explicit per-call or
// policy-pinned "backend" setting wins, then the environment override, then
// the first available backend ("native").
func resolveBackend(settings pwhash.Settings) string {
	if b, ok := settings.Backend(); ok && b != "" {
		return b
	}
	if b := os.Getenv(backendEnv); b != "" {
		return b
	}
	return BackendNative
}

// xcryptoKey derives an Argon2 key via golang.org/x/crypto/argon2. It
// rejects any version but 0x13 as UnsupportedVersionError (the package
// always runs the 0x13 algorithm) and $argon2d$ as *UnsupportedBackendError
// (the package only exposes Argon2i/Argon2id).
func xcryptoKey(password, salt []byte, memory, timeCost uint32, threads uint8, opts *CompatibilityOptions) ([]byte, error) {
	if opts.Version != Version13 {
		return nil, UnsupportedVersionError(opts.Version)
	}
	decSalt, err := decodeSalt(salt)
	if err != nil {
		return nil, err
	}
	if memory < MinMemory {
		return nil, InvalidMemoryError(memory)
	}
	if timeCost < MinTime {
		return nil, InvalidTimeError(timeCost)
	}
	if threads < MinThreads {
		return nil, InvalidThreadsError(threads)
	}
	switch opts.Prefix {
	case Prefix2i:
		return argon2.Key(password, decSalt, timeCost, memory, threads, keyLen), nil
	case Prefix2id:
		return argon2.IDKey(password, decSalt, timeCost, memory, threads, keyLen), nil
	case Prefix2d:
		return nil, &UnsupportedBackendError{Backend: BackendXCrypto, Prefix: opts.Prefix}
	default:
		return nil, UnsupportedPrefixError(opts.Prefix)
	}
}

// UnsupportedBackendError reports a backend asked to produce a hash variant
// it does not implement (only $argon2d$ today, under the xcrypto backend).
type UnsupportedBackendError struct {
	Backend string
	Prefix  string
}

func (e *UnsupportedBackendError) Error() string {
	return "argon2: backend " + strconv.Quote(e.Backend) + " does not support prefix " + strconv.Quote(e.Prefix)
}

// keyFor dispatches key derivation to the named backend, falling back to
// native for an empty or unrecognized name only at the caller's discretion
// (callers are expected to have already validated name via ValidBackend).
func keyFor(backend string, password, salt []byte, memory, timeCost uint32, threads uint8, opts *CompatibilityOptions) ([]byte, error) {
	if strings.EqualFold(backend, BackendXCrypto) {
		return xcryptoKey(password, salt, memory, timeCost, threads, opts)
	}
	return Key(password, salt, memory, timeCost, threads, opts)
}

// ValidBackend reports whether name is a backend this package implements.
func ValidBackend(name string) bool {
	return strings.EqualFold(name, BackendNative) || strings.EqualFold(name, BackendXCrypto)
}

package argon2

import (
	"encoding/base64"
	"testing"
)

// TestBackendParity confirms the xcrypto backend derives the identical key
// the native (vendored argon2crypto) backend does for the same inputs,
// satisfying spec.md 4.4's "switching backends MUST NOT change hash output
// for identical inputs" for the two prefixes xcrypto supports.
func TestBackendParity(t *testing.T) {
	salt := []byte(base64.RawStdEncoding.EncodeToString([]byte("somesalt12345678")))
	tests := []struct {
		name string
		opts *CompatibilityOptions
	}{
		{"argon2i", &CompatibilityOptions{Prefix: Prefix2i, Version: Version13}},
		{"argon2id", &CompatibilityOptions{Prefix: Prefix2id, Version: Version13}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			native, err := keyFor(BackendNative, []byte("password"), salt, 512, 3, 1, test.opts)
			if err != nil {
				t.Fatalf("keyFor(native) = _, %v; want nil", err)
			}
			xcrypto, err := keyFor(BackendXCrypto, []byte("password"), salt, 512, 3, 1, test.opts)
			if err != nil {
				t.Fatalf("keyFor(xcrypto) = _, %v; want nil", err)
			}
			if string(native) != string(xcrypto) {
				t.Errorf("keyFor(xcrypto) = %x; want %x (native)", xcrypto, native)
			}
		})
	}
}

// TestBackendXCryptoRejectsArgon2d confirms the xcrypto backend reports an
// error for $argon2d$, the one variant golang.org/x/crypto/argon2 does not
// expose, rather than silently falling back to a different algorithm.
func TestBackendXCryptoRejectsArgon2d(t *testing.T) {
	salt := []byte(base64.RawStdEncoding.EncodeToString([]byte("somesalt12345678")))
	_, err := keyFor(BackendXCrypto, []byte("password"), salt, 512, 3, 1, &CompatibilityOptions{Prefix: Prefix2d, Version: Version13})
	if _, ok := err.(*UnsupportedBackendError); !ok {
		t.Errorf("keyFor(xcrypto, argon2d) = %v (%T); want *UnsupportedBackendError", err, err)
	}
}

// TestResolveBackendPrecedence confirms an explicit "backend" setting wins
// over everything else, and an unset setting with no environment override
// falls back to native, per spec.md 4.4's "policy-pinned > first available".
func TestResolveBackendPrecedence(t *testing.T) {
	t.Run("explicit setting wins", func(t *testing.T) {
		settings := map[string]any{"backend": BackendXCrypto}
		if got := resolveBackend(settings); got != BackendXCrypto {
			t.Errorf("resolveBackend() = %q; want %q", got, BackendXCrypto)
		}
	})
	t.Run("default is native", func(t *testing.T) {
		if got := resolveBackend(map[string]any{}); got != BackendNative {
			t.Errorf("resolveBackend() = %q; want %q", got, BackendNative)
		}
	})
}

func TestValidBackend(t *testing.T) {
	if !ValidBackend(BackendNative) || !ValidBackend(BackendXCrypto) {
		t.Error("ValidBackend() = false for a known backend; want true")
	}
	if ValidBackend("bogus") {
		t.Error("ValidBackend(\"bogus\") = true; want false")
	}
}

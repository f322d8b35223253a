package mixins

import (
	"strconv"

	"github.com/hashwright/pwhash"
	"github.com/hashwright/pwhash/internal/hashutil"
)

// Salt resolves and draws a scheme's salt. Two idioms coexist in the
// catalogue: most crypt(3)-family schemes draw salt characters directly
// from an alphabet (Alphabet set, via internal/hashutil.Encoding.Rand,
// which maps crypto/rand output onto the alphabet via crypto/rand.Int so
// a non-power-of-two alphabet size never introduces modulo bias);
// bcrypt, argon2 and scrypt instead draw raw entropy and run it through
// their own stdlib-shaped base64 Encoding (Draw set). Exactly one of
// Alphabet or Draw is set per scheme.
type Salt struct {
	Scheme  string
	Min     int
	Max     int
	Default int

	// Alphabet, when non-empty, draws n salt characters directly from
	// this alphabet; the result is already the stored ASCII salt.
	Alphabet string

	// Draw, when Alphabet is empty, returns n freshly drawn bytes of
	// already wire-encoded salt. n is expressed in the same units as
	// Min/Max/Default: the final stored salt length, not the raw
	// entropy length a caller's Encoding.DecodedLen(n) draws under it.
	Draw func(n int) []byte
}

// Resolve returns the salt bytes to use: an explicit "salt" setting wins
// outright, subject to Validate; otherwise "salt_size" (or Default)
// determines how many bytes to draw fresh.
func (s Salt) Resolve(settings pwhash.Settings) ([]byte, error) {
	if salt, ok := settings.Salt(); ok {
		if err := s.Validate(salt); err != nil {
			return nil, err
		}
		return salt, nil
	}
	n := s.Default
	if sz, ok := settings.SaltSize(); ok {
		n = sz
	}
	if n < s.Min || n > s.Max {
		return nil, &pwhash.ConfigError{Reason: s.Scheme + ": salt size " + strconv.Itoa(n) +
			" outside [" + strconv.Itoa(s.Min) + ", " + strconv.Itoa(s.Max) + "]"}
	}
	if s.Draw != nil {
		return s.Draw(n), nil
	}
	return hashutil.NewEncoding(s.Alphabet).Rand(n), nil
}

// Validate reports whether salt's length is within bounds. In Alphabet
// mode every byte must also be drawn from Alphabet; Draw mode has no
// single decode alphabet to check against at this layer, so only the
// length bound applies.
func (s Salt) Validate(salt []byte) error {
	if len(salt) < s.Min || len(salt) > s.Max {
		return &pwhash.ConfigError{Reason: s.Scheme + ": salt length " + strconv.Itoa(len(salt)) +
			" outside [" + strconv.Itoa(s.Min) + ", " + strconv.Itoa(s.Max) + "]"}
	}
	if s.Alphabet == "" {
		return nil
	}
	enc := hashutil.NewEncoding(s.Alphabet)
	if i := enc.IndexAnyInvalid(salt); i >= 0 {
		return &pwhash.ConfigError{Reason: s.Scheme + ": invalid salt character at index " + strconv.Itoa(i)}
	}
	return nil
}

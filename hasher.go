// Package pwhash implements a password-hashing framework: a uniform Hasher
// contract over a catalogue of schemes (bcrypt, the crypt(3) digest family,
// PBKDF2, scrypt, argon2, LDAP wrappers and plaintext), composed by a
// Context into policies that choose defaults, accept legacy hashes, flag
// hashes needing an upgrade, and apply per-category overrides.
package pwhash

// RoundsCost names the cost model a scheme's rounds parameter follows.
type RoundsCost int

const (
	// RoundsLinear schemes store rounds as-is; work is proportional to rounds.
	RoundsLinear RoundsCost = iota
	// RoundsLog2 schemes store rounds as an exponent; work is proportional to 2^rounds.
	RoundsLog2
)

// Hasher is the uniform contract every scheme implements. Verify never
// returns a bare bool: nil means success, ErrMismatch means a wrong
// secret, and any other error means the hash could not be parsed at all.
type Hasher interface {
	// Identify reports whether hash matches this scheme's ident prefix and
	// structural shape, without fully validating or verifying it.
	Identify(hash string) bool

	// Hash produces a new hash of secret under settings, generating a salt
	// and resolving rounds per the scheme's defaults where unset.
	Hash(secret string, settings Settings) (string, error)

	// Verify parses hash, recomputes its checksum from secret, and compares
	// in constant time. It returns nil, ErrMismatch, or a parse error.
	Verify(secret, hash string) error

	// GenConfig produces a salt+parameters string with an empty checksum,
	// used for calibration and for parse-stability testing.
	GenConfig(settings Settings) (string, error)

	// GenHash applies secret to a pre-built config string produced by
	// GenConfig. It is equivalent to Hash with every setting pinned.
	GenHash(secret, config string) (string, error)

	// NeedsUpdate reports whether hash's parameters fall below policy:
	// rounds too low, salt too short, or a deprecated ident variant.
	NeedsUpdate(hash string, policy Policy) bool
}

// Descriptor is the immutable metadata record describing a scheme: its
// name, ident prefixes, accepted settings, and cost/salt/checksum bounds.
// Schemes populate one at Register time; the Context and mixins packages
// read it to resolve effective settings and validate bounds.
type Descriptor struct {
	Name         string
	Idents       []string
	SettingKwds  []string
	ContextKwds  []string

	MinRounds     int
	MaxRounds     int
	DefaultRounds int
	RoundsCost    RoundsCost

	MinSaltSize     int
	MaxSaltSize     int
	DefaultSaltSize int
	SaltChars       string

	ChecksumSize  int
	ChecksumChars string

	// TruncateSize is the byte length beyond which the scheme either
	// rejects, warns, or silently truncates a secret (0 = no limit).
	TruncateSize int
}

// HasIdent reports whether ident is one of d's declared ident prefixes.
func (d Descriptor) HasIdent(ident string) bool {
	for _, i := range d.Idents {
		if i == ident {
			return true
		}
	}
	return false
}

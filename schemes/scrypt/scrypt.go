// Package scrypt implements the scrypt key derivation function for
// crypt(3), delegating the derivation itself to golang.org/x/crypto/scrypt.
package scrypt

import (
	"crypto/subtle"
	"math/bits"
	"strconv"

	"github.com/hashwright/pwhash/crypt"
	"github.com/hashwright/pwhash/internal/cryptoutil"
	crypthash "github.com/hashwright/pwhash/mcf"
	"golang.org/x/crypto/scrypt"
)

const (
	MaxSaltLength     = 64
	DefaultSaltLength = 16
	DefaultKeyLength  = 32
)

// InvalidSaltLengthError values describe errors resulting from an invalid length of a salt.
type InvalidSaltLengthError int

func (e InvalidSaltLengthError) Error() string {
	return "invalid salt length " + strconv.FormatInt(int64(e), 10)
}

const (
	MinLogN     = 1
	MaxLogN     = 31
	DefaultLogN = 16

	MinR     = 1
	DefaultR = 8

	MinP     = 1
	DefaultP = 1
)

// InvalidParameterError values describe errors resulting from an invalid N, r or p parameter.
type InvalidParameterError struct {
	Name  string
	Value int
}

func (e InvalidParameterError) Error() string {
	return "invalid parameter " + e.Name + ": " + strconv.Itoa(e.Value)
}

const Prefix = "$scrypt$"

// UnsupportedPrefixError values describe errors resulting from an unsupported prefix string.
type UnsupportedPrefixError string

func (e UnsupportedPrefixError) Error() string {
	return "unsupported prefix " + strconv.Quote(string(e))
}

type hashPrefix string

func (h *hashPrefix) UnmarshalText(text []byte) error {
	if s := string(text); s != Prefix {
		return UnsupportedPrefixError(s)
	}
	*h = Prefix
	return nil
}

// Key returns an scrypt key derived from the password, salt and cost
// parameters. logN is the CPU/memory cost expressed as a power of two
// (N = 1<<logN), r is the block size, p is the parallelization factor.
func Key(password, salt []byte, logN, r, p int) ([]byte, error) {
	if n := len(salt); n == 0 || n > MaxSaltLength {
		return nil, InvalidSaltLengthError(n)
	}
	if logN < MinLogN || logN > MaxLogN {
		return nil, InvalidParameterError{"ln", logN}
	}
	if r < MinR {
		return nil, InvalidParameterError{"r", r}
	}
	if p < MinP {
		return nil, InvalidParameterError{"p", p}
	}
	return scrypt.Key(password, salt, 1<<uint(logN), r, p, DefaultKeyLength)
}

type scheme struct {
	HashPrefix hashPrefix
	LogN       int    `hash:"param:ln,group"`
	R          int    `hash:"param:r,group"`
	P          int    `hash:"param:p,group"`
	Salt       []byte `hash:"enc:base64"`
	Sum        []byte `hash:"enc:base64"`
}

// NewHash returns the crypt(3) scrypt hash of the password under the given
// cost parameters, with a freshly drawn salt.
func NewHash(password string, logN, r, p int) (string, error) {
	salt := make([]byte, crypthash.BigEndianEncoding.EncodedLen(DefaultSaltLength))
	crypthash.BigEndianEncoding.Encode(salt, cryptoutil.Rand(DefaultSaltLength))
	s := scheme{
		HashPrefix: Prefix,
		LogN:       logN,
		R:          r,
		P:          p,
		Salt:       salt,
	}
	key, err := Key([]byte(password), s.Salt, logN, r, p)
	if err != nil {
		return "", err
	}
	s.Sum = make([]byte, crypthash.BigEndianEncoding.EncodedLen(len(key)))
	crypthash.BigEndianEncoding.Encode(s.Sum, key)
	return crypthash.Marshal(s)
}

// Params returns the hashing salt and cost parameters used to create the
// given crypt(3) scrypt hash.
func Params(hash string) (salt []byte, logN, r, p int, err error) {
	var s scheme
	if err = crypthash.Unmarshal(hash, &s); err != nil {
		return
	}
	return s.Salt, s.LogN, s.R, s.P, nil
}

// Check compares the given crypt(3) scrypt hash with a new hash derived
// from the password. Returns nil on success, or an error on failure.
func Check(hash, password string) error {
	var s scheme
	if err := crypthash.Unmarshal(hash, &s); err != nil {
		return err
	}
	key, err := Key([]byte(password), s.Salt, s.LogN, s.R, s.P)
	if err != nil {
		return err
	}
	b := make([]byte, crypthash.BigEndianEncoding.EncodedLen(len(key)))
	crypthash.BigEndianEncoding.Encode(b, key)
	if subtle.ConstantTimeCompare(b, s.Sum) == 0 {
		return crypt.ErrPasswordMismatch
	}
	return nil
}

// logOf returns the base-2 logarithm of n if n is an exact power of two,
// and false otherwise.
func logOf(n int) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros(uint(n)), true
}

func init() {
	crypt.RegisterHash(Prefix, Check)
}

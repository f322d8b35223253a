// Package pbkdf2 implements the PBKDF2-HMAC family of crypt(3) hashes
// (pbkdf2, pbkdf2-sha256, pbkdf2-sha384, pbkdf2-sha512), grounded on the
// same modular-crypt-format idiom the sibling schemes use, with the key
// derivation itself delegated to golang.org/x/crypto/pbkdf2.
package pbkdf2

import (
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"crypto/subtle"
	"strconv"

	"github.com/hashwright/pwhash/crypt"
	"github.com/hashwright/pwhash/internal/hashutil"
	crypthash "github.com/hashwright/pwhash/mcf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	MaxSaltLength     = 64
	DefaultSaltLength = 16
)

// InvalidSaltLengthError values describe errors resulting from an invalid length of a salt.
type InvalidSaltLengthError int

func (e InvalidSaltLengthError) Error() string {
	return "invalid salt length " + strconv.FormatInt(int64(e), 10)
}

// InvalidSaltError values describe errors resulting from an invalid character in a salt.
type InvalidSaltError byte

func (e InvalidSaltError) Error() string {
	return "invalid character " + strconv.QuoteRuneToASCII(rune(e)) + " in salt"
}

const (
	MinRounds     = 1
	MaxRounds     = 1<<31 - 1
	DefaultRounds = 29000
)

// InvalidRoundsError values describe errors resulting from an invalid round count.
type InvalidRoundsError uint32

func (e InvalidRoundsError) Error() string {
	return "invalid round count " + strconv.FormatUint(uint64(e), 10)
}

const (
	PrefixSHA1   = "$pbkdf2$"
	PrefixSHA256 = "$pbkdf2-sha256$"
	PrefixSHA384 = "$pbkdf2-sha384$"
	PrefixSHA512 = "$pbkdf2-sha512$"
)

// UnsupportedPrefixError values describe errors resulting from an unsupported prefix string.
type UnsupportedPrefixError string

func (e UnsupportedPrefixError) Error() string {
	return "unsupported prefix " + strconv.Quote(string(e))
}

func digestFor(prefix string) (crypto.Hash, int, error) {
	switch prefix {
	case PrefixSHA1:
		return crypto.SHA1, 20, nil
	case PrefixSHA256:
		return crypto.SHA256, 32, nil
	case PrefixSHA384:
		return crypto.SHA384, 48, nil
	case PrefixSHA512:
		return crypto.SHA512, 64, nil
	default:
		return 0, 0, UnsupportedPrefixError(prefix)
	}
}

// Key returns a PBKDF2-HMAC key derived from the password, salt and rounds
// under the hash function named by prefix.
func Key(password, salt []byte, rounds uint32, prefix string) ([]byte, error) {
	digest, keyLen, err := digestFor(prefix)
	if err != nil {
		return nil, err
	}
	if n := len(salt); n == 0 || n > MaxSaltLength {
		return nil, InvalidSaltLengthError(n)
	}
	if i := hashutil.Base64Encoding.IndexAnyInvalid(salt); i >= 0 {
		return nil, InvalidSaltError(salt[i])
	}
	if rounds < MinRounds || rounds > MaxRounds {
		return nil, InvalidRoundsError(rounds)
	}
	return pbkdf2.Key(password, salt, int(rounds), keyLen, digest.New), nil
}

type hashPrefix string

func (h *hashPrefix) UnmarshalText(text []byte) error {
	switch s := hashPrefix(text); s {
	case PrefixSHA1, PrefixSHA256, PrefixSHA384, PrefixSHA512:
		*h = s
		return nil
	default:
		return UnsupportedPrefixError(s)
	}
}

type scheme struct {
	HashPrefix hashPrefix
	Rounds     uint32 `hash:"param:rounds"`
	Salt       []byte `hash:"enc:base64"`
	Sum        []byte `hash:"enc:base64"`
}

// NewHash returns the crypt(3) PBKDF2-HMAC hash of the password under
// prefix's digest, with the given rounds.
func NewHash(password string, rounds uint32, prefix string) (string, error) {
	s := scheme{
		HashPrefix: hashPrefix(prefix),
		Rounds:     rounds,
		Salt:       hashutil.Base64Encoding.Rand(DefaultSaltLength),
	}
	key, err := Key([]byte(password), s.Salt, s.Rounds, prefix)
	if err != nil {
		return "", err
	}
	s.Sum = make([]byte, crypthash.BigEndianEncoding.EncodedLen(len(key)))
	crypthash.BigEndianEncoding.Encode(s.Sum, key)
	return crypthash.Marshal(s)
}

// Params returns the hashing salt, rounds and prefix used to create the
// given crypt(3) PBKDF2-HMAC hash.
func Params(hash string) (salt []byte, rounds uint32, prefix string, err error) {
	var s scheme
	if err = crypthash.Unmarshal(hash, &s); err != nil {
		return
	}
	return s.Salt, s.Rounds, string(s.HashPrefix), nil
}

// Check compares the given crypt(3) PBKDF2-HMAC hash with a new hash
// derived from the password. Returns nil on success, or an error on
// failure.
func Check(hash, password string) error {
	var s scheme
	if err := crypthash.Unmarshal(hash, &s); err != nil {
		return err
	}
	key, err := Key([]byte(password), s.Salt, s.Rounds, string(s.HashPrefix))
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

func init() {
	crypt.RegisterHash(PrefixSHA1, Check)
	crypt.RegisterHash(PrefixSHA256, Check)
	crypt.RegisterHash(PrefixSHA384, Check)
	crypt.RegisterHash(PrefixSHA512, Check)
}

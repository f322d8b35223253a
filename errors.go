package pwhash

import (
	"errors"
	"strconv"
)

// ErrMismatch is returned by Verify and a Hasher's Verify method when the
// secret does not match the hash. It carries no payload, unlike the parsing
// errors below, since a mismatch is an expected outcome, not a defect.
var ErrMismatch = errors.New("pwhash: hash and secret mismatch")

// MalformedHashError reports a hash string that is structurally invalid:
// wrong delimiter count, an alphabet violation, or a checksum of the wrong
// length. Identify returns false for a hash that produces this error.
type MalformedHashError struct {
	Scheme string
	Reason string
}

func (e *MalformedHashError) Error() string {
	return "pwhash: malformed " + e.Scheme + " hash: " + e.Reason
}

// InvalidHashError reports a hash string that parses but carries parameters
// outside the scheme's accepted range (rounds out of bounds, unknown ident
// variant). Identify still returns true; Verify raises.
type InvalidHashError struct {
	Scheme string
	Reason string
}

func (e *InvalidHashError) Error() string {
	return "pwhash: invalid " + e.Scheme + " hash: " + e.Reason
}

// UnknownHashError reports a hash that no configured scheme identifies.
type UnknownHashError struct {
	Hash string
}

func (e *UnknownHashError) Error() string {
	return "pwhash: no scheme identifies hash"
}

// MissingBackendError reports a scheme that is registered but whose backend
// could not be loaded or built (e.g. the scheme was compiled out, or a
// required cgo/native implementation is unavailable).
type MissingBackendError struct {
	Scheme string
	Reason string
}

func (e *MissingBackendError) Error() string {
	return "pwhash: no usable backend for " + strconv.Quote(e.Scheme) + ": " + e.Reason
}

// PasswordSizeError reports a secret exceeding a scheme's length limit when
// the policy forbids silent truncation.
type PasswordSizeError struct {
	Scheme string
	Size   int
	Max    int
}

func (e *PasswordSizeError) Error() string {
	return "pwhash: " + e.Scheme + " secret of " + strconv.Itoa(e.Size) +
		" bytes exceeds limit of " + strconv.Itoa(e.Max)
}

// PasswordTruncateError reports a bcrypt-family secret longer than 72 bytes
// hashed under a policy with TruncateError set.
type PasswordTruncateError struct {
	Scheme string
	Size   int
}

func (e *PasswordTruncateError) Error() string {
	return "pwhash: " + e.Scheme + " would silently truncate a " + strconv.Itoa(e.Size) + "-byte secret"
}

// PasswordValueError reports a secret containing a value the scheme cannot
// represent, such as a NUL byte in a scheme that forbids it.
type PasswordValueError struct {
	Scheme string
	Reason string
}

func (e *PasswordValueError) Error() string {
	return "pwhash: " + e.Scheme + " rejects secret: " + e.Reason
}

// ConfigError reports an invalid policy map, or a parameter out of range
// discovered at Context construction time rather than at hash/verify time.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "pwhash: invalid configuration: " + e.Reason
}

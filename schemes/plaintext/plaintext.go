// Package plaintext implements the trivial "no-op" scheme: the hash is the
// password itself. It exists as a canary scheme for exercising the context
// engine's dispatch, deprecation and upgrade machinery without needing a
// real digest.
package plaintext

import (
	"crypto/subtle"

	"github.com/hashwright/pwhash/crypt"
)

const Prefix = ""

// NewHash returns the crypt(3) plaintext "hash" of the password: the
// password unchanged.
func NewHash(password string) string {
	return password
}

// Check compares the given plaintext hash with the password. Returns nil
// on success, or crypt.ErrPasswordMismatch on failure.
func Check(hash, password string) error {
	if subtle.ConstantTimeCompare([]byte(hash), []byte(password)) == 0 {
		return crypt.ErrPasswordMismatch
	}
	return nil
}

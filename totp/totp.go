// Package totp wraps RFC 6238 time-based one-time-password generation and
// validation around github.com/pquerna/otp/totp, for callers that enroll a
// second factor alongside a pwhash-hashed password. It is independent of
// the Hasher/Context dispatch machinery: a Secret validates itself.
package totp

import (
	"strconv"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Secret is an enrolled TOTP secret together with the provisioning
// parameters used to generate it.
type Secret struct {
	Issuer      string
	AccountName string
	key         *otp.Key
}

// Generate provisions a new TOTP secret for the given issuer and account
// name, using the RFC 6238 defaults (SHA1, 6 digits, 30s period).
func Generate(issuer, accountName string) (*Secret, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, err
	}
	return &Secret{Issuer: issuer, AccountName: accountName, key: key}, nil
}

// FromBase32 reconstructs a Secret from a previously persisted base32
// secret, as returned by Base32.
func FromBase32(issuer, accountName, secret string) (*Secret, error) {
	key, err := otp.NewKeyFromURL(
		"otpauth://totp/" + accountName + "?secret=" + secret + "&issuer=" + issuer,
	)
	if err != nil {
		return nil, err
	}
	return &Secret{Issuer: issuer, AccountName: accountName, key: key}, nil
}

// Base32 returns the secret's base32-encoded value, for persistence.
func (s *Secret) Base32() string {
	return s.key.Secret()
}

// URL returns the otpauth:// provisioning URL, suitable for rendering as a
// QR code with github.com/boombuler/barcode.
func (s *Secret) URL() string {
	return s.key.String()
}

// Generate returns the TOTP code valid at t.
func (s *Secret) Generate(t time.Time) (string, error) {
	return totp.GenerateCode(s.key.Secret(), t)
}

// Validate reports whether code is valid at t, allowing for up to
// skew*30s of clock drift in either direction.
func (s *Secret) Validate(code string, t time.Time, skew uint) bool {
	ok, err := totp.ValidateCustom(code, s.key.Secret(), t, totp.ValidateOpts{
		Period:    30,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// String returns a human-readable summary of the secret's provisioning
// parameters, never the secret itself.
func (s *Secret) String() string {
	return s.Issuer + ":" + s.AccountName + " (" + strconv.Itoa(int(otp.DigitsSix)) + " digits)"
}

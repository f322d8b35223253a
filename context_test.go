package pwhash_test

import (
	"strings"
	"testing"

	"github.com/hashwright/pwhash"
	_ "github.com/hashwright/pwhash/schemes/bcrypt"
	_ "github.com/hashwright/pwhash/schemes/descrypt"
	_ "github.com/hashwright/pwhash/schemes/md5crypt"
	_ "github.com/hashwright/pwhash/schemes/pbkdf2"
	_ "github.com/hashwright/pwhash/schemes/sha256crypt"
	_ "github.com/hashwright/pwhash/schemes/sha512crypt"
)

// TestBcryptVector hashes under an explicit salt and rounds and checks the
// exact wire string, confirming the $2b$ marshaling matches byte-for-byte.
func TestBcryptVector(t *testing.T) {
	policy := pwhash.NewPolicy("bcrypt")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	settings := pwhash.Settings{
		"salt":   []byte("CCCCCCCCCCCCCCCCCCCCCO"),
		"rounds": 5,
	}
	hash, err := ctx.Hash("password", "bcrypt", "", settings)
	if err != nil {
		t.Fatalf("Hash() = _, %v; want nil", err)
	}
	want := "$2b$05$CCCCCCCCCCCCCCCCCCCCC.7uG0VCzI2bS7j6ymqJi9CdcdxiRTWNy"
	if hash != want {
		t.Errorf("Hash() = %q; want %q", hash, want)
	}
	if err := ctx.Verify("password", hash, "", ""); err != nil {
		t.Errorf("Verify() = %v; want nil", err)
	}
	if err := ctx.Verify("wrong", hash, "", ""); err != pwhash.ErrMismatch {
		t.Errorf("Verify() = %v; want ErrMismatch", err)
	}
}

// TestSHA512CryptVector exercises the sha512_crypt scheme with an explicit
// salt and rounds count, confirming the $6$ wire form round-trips.
func TestSHA512CryptVector(t *testing.T) {
	policy := pwhash.NewPolicy("sha512_crypt")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	settings := pwhash.Settings{
		"salt":   []byte("saltstring"),
		"rounds": 10000,
	}
	hash, err := ctx.Hash("Hello world!", "sha512_crypt", "", settings)
	if err != nil {
		t.Fatalf("Hash() = _, %v; want nil", err)
	}
	if !strings.HasPrefix(hash, "$6$") {
		t.Errorf("Hash() = %q; want $6$ prefix", hash)
	}
	if !strings.Contains(hash, "saltstring") {
		t.Errorf("Hash() = %q; want to contain salt %q", hash, "saltstring")
	}
	if err := ctx.Verify("Hello world!", hash, "", ""); err != nil {
		t.Errorf("Verify() = %v; want nil", err)
	}
}

// TestPBKDF2SHA256Vector checks the single-iteration RFC 6070-style vector
// end to end through Context.Hash/Verify.
func TestPBKDF2SHA256Vector(t *testing.T) {
	policy := pwhash.NewPolicy("pbkdf2_sha256")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	settings := pwhash.Settings{
		"salt":   []byte("salt"),
		"rounds": 1,
	}
	hash, err := ctx.Hash("password", "pbkdf2_sha256", "", settings)
	if err != nil {
		t.Fatalf("Hash() = _, %v; want nil", err)
	}
	if err := ctx.Verify("password", hash, "", ""); err != nil {
		t.Errorf("Verify() = %v; want nil", err)
	}
	if err := ctx.Verify("password2", hash, "", ""); err != pwhash.ErrMismatch {
		t.Errorf("Verify() = %v; want ErrMismatch", err)
	}
}

// TestContextUpgrade confirms that a hash under a deprecated scheme is
// flagged for update, and that VerifyAndUpdate produces a replacement under
// the current default.
func TestContextUpgrade(t *testing.T) {
	policy := pwhash.NewPolicy("sha256_crypt", "md5_crypt").WithDeprecated("md5_crypt")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	oldHash, err := ctx.Hash("hunter2", "md5_crypt", "", pwhash.Settings{})
	if err != nil {
		t.Fatalf("Hash() = _, %v; want nil", err)
	}
	if !ctx.NeedsUpdate(oldHash, "", "") {
		t.Error("NeedsUpdate() = false; want true for deprecated scheme")
	}
	ok, newHash, err := ctx.VerifyAndUpdate("hunter2", oldHash, "", "")
	if err != nil {
		t.Fatalf("VerifyAndUpdate() = _, _, %v; want nil", err)
	}
	if !ok {
		t.Fatal("VerifyAndUpdate() ok = false; want true")
	}
	if newHash == "" {
		t.Fatal("VerifyAndUpdate() newHash is empty; want a replacement")
	}
	name, ok := ctx.Identify(newHash)
	if !ok || name != "sha256_crypt" {
		t.Errorf("Identify(newHash) = %q, %v; want sha256_crypt, true", name, ok)
	}
	if err := ctx.Verify("hunter2", newHash, "", ""); err != nil {
		t.Errorf("Verify(newHash) = %v; want nil", err)
	}
}

// TestCategoryOverride confirms a per-category rounds override wins over the
// policy-wide scheme setting.
func TestCategoryOverride(t *testing.T) {
	policy := pwhash.NewPolicy("sha256_crypt").
		WithSchemeSettings("sha256_crypt", pwhash.Settings{"rounds": 29000}).
		WithCategorySettings("admin", "sha256_crypt", pwhash.Settings{"rounds": 40000})
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	userHash, err := ctx.Hash("hunter2", "", "", pwhash.Settings{})
	if err != nil {
		t.Fatalf("Hash() = _, %v; want nil", err)
	}
	adminHash, err := ctx.Hash("hunter2", "", "admin", pwhash.Settings{})
	if err != nil {
		t.Fatalf("Hash() = _, %v; want nil", err)
	}
	if !strings.Contains(userHash, "rounds=29000") {
		t.Errorf("user hash = %q; want rounds=29000", userHash)
	}
	if !strings.Contains(adminHash, "rounds=40000") {
		t.Errorf("admin hash = %q; want rounds=40000", adminHash)
	}
}

// TestUnknownHash confirms Verify reports *UnknownHashError for a hash no
// configured scheme recognizes.
func TestUnknownHash(t *testing.T) {
	policy := pwhash.NewPolicy("bcrypt")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	err = ctx.Verify("x", "not-a-recognized-hash", "", "")
	var uerr *pwhash.UnknownHashError
	if err == nil {
		t.Fatal("Verify() = nil; want *UnknownHashError")
	}
	if !errorsAs(err, &uerr) {
		t.Errorf("Verify() = %v (%T); want *UnknownHashError", err, err)
	}
}

func errorsAs(err error, target **pwhash.UnknownHashError) bool {
	if e, ok := err.(*pwhash.UnknownHashError); ok {
		*target = e
		return true
	}
	return false
}

// TestTruncateErrorPolicy confirms that truncate_error turns bcrypt's
// documented 72-byte truncation into a hard *PasswordTruncateError instead
// of a silently truncated hash.
func TestTruncateErrorPolicy(t *testing.T) {
	policy := pwhash.NewPolicy("bcrypt")
	policy.TruncateError = true
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	longSecret := strings.Repeat("a", 73)
	_, err = ctx.Hash(longSecret, "", "", pwhash.Settings{})
	var terr *pwhash.PasswordTruncateError
	if err == nil {
		t.Fatal("Hash() = nil; want *PasswordTruncateError")
	}
	if e, ok := err.(*pwhash.PasswordTruncateError); ok {
		terr = e
	}
	if terr == nil {
		t.Fatalf("Hash() = %v (%T); want *PasswordTruncateError", err, err)
	}
	if terr.Size != len(longSecret) {
		t.Errorf("PasswordTruncateError.Size = %d; want %d", terr.Size, len(longSecret))
	}

	// Without the policy set, the same secret hashes fine (truncated
	// silently by bcrypt itself, as before).
	plain := pwhash.NewPolicy("bcrypt")
	plainCtx, err := pwhash.NewContext(plain, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	if _, err := plainCtx.Hash(longSecret, "", "", pwhash.Settings{}); err != nil {
		t.Errorf("Hash() without truncate_error = %v; want nil", err)
	}
}

// TestBcryptRejectsNULByte confirms bcrypt refuses a secret containing a
// NUL byte rather than silently hashing a C-string-truncated prefix of it.
func TestBcryptRejectsNULByte(t *testing.T) {
	policy := pwhash.NewPolicy("bcrypt")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	_, err = ctx.Hash("pass\x00word", "", "", pwhash.Settings{})
	if _, ok := err.(*pwhash.PasswordValueError); !ok {
		t.Errorf("Hash() = %v (%T); want *PasswordValueError", err, err)
	}
}

// TestDesCryptRejectsOversizePassword confirms des_crypt's 8-byte limit
// surfaces as *PasswordSizeError instead of silently hashing a DES key
// derived from a dropped Key() error.
func TestDesCryptRejectsOversizePassword(t *testing.T) {
	policy := pwhash.NewPolicy("des_crypt")
	ctx, err := pwhash.NewContext(policy, pwhash.DefaultRegistry)
	if err != nil {
		t.Fatalf("NewContext() = %v", err)
	}
	_, err = ctx.Hash("toolongpassword", "", "", pwhash.Settings{})
	serr, ok := err.(*pwhash.PasswordSizeError)
	if !ok {
		t.Fatalf("Hash() = %v (%T); want *PasswordSizeError", err, err)
	}
	if serr.Max != 8 {
		t.Errorf("PasswordSizeError.Max = %d; want 8", serr.Max)
	}
}

package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SHA256 implements Hash with a plain SHA-256 digest, hex encoded.
//
// It is deterministic and unsalted on purpose: the values it protects are
// single-use numeric codes that expire in minutes and have a bounded attempt
// budget, so equality lookups against the stored digest must be possible.
// Do not use it for passwords; that is what Bcrypt is for.
type SHA256 struct{}

// NewSHA256 returns a SHA-256 hasher.
func NewSHA256() *SHA256 {
	return &SHA256{}
}

// Hash returns the hex-encoded SHA-256 digest of plaintext.
func (s *SHA256) Hash(plaintext string) ([]byte, error) {
	return s.gen(plaintext), nil
}

// Verify reports whether plaintext digests to hashed.
//
// The comparison runs over fixed-size re-digests of both operands, so neither
// a content mismatch nor a length mismatch can short-circuit early.
func (s *SHA256) Verify(hashed, plaintext string) bool {
	return ConstantTimeEqual([]byte(hashed), s.gen(plaintext))
}

func (s *SHA256) gen(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

// ConstantTimeEqual compares two byte slices in time independent of their
// contents and lengths. Both sides are collapsed to a fixed-width digest
// before subtle.ConstantTimeCompare, so unequal lengths take the same path
// as unequal bytes.
func ConstantTimeEqual(a, b []byte) bool {
	da := sha256.Sum256(a)
	db := sha256.Sum256(b)
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}

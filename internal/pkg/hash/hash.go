package hash

// Hash digests secrets for at-rest storage and verifies candidates against a
// stored digest.
type Hash interface {
	// Hash returns the stored representation of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the stored representation.
	Verify(hashed, plaintext string) bool
}

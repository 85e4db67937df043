// Package hash provides one-way hashing of short secrets such as OTP codes.
package hash

// Hash abstracts one-way hashing with constant-time-equivalent verification.
type Hash interface {
	// Hash produces an irreversible digest of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}

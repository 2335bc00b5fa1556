package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Verifier checks a plaintext password against a stored digest. It exists as
// a seam so the digest scheme can migrate (e.g. to a salted KDF) without
// touching login call sites.
type Verifier interface {
	Verify(password, storedDigest string) bool
}

// SHA256Verifier reproduces the legacy credential scheme: a single unsalted
// round of SHA-256, hex encoded. This is a weak scheme for password storage —
// it is kept only because every digest already in the usuarios table was
// written as SHA2(password, 256), and changing the algorithm would lock out
// all existing members.
type SHA256Verifier struct{}

// NewSHA256Verifier returns the legacy-compatible verifier.
func NewSHA256Verifier() SHA256Verifier {
	return SHA256Verifier{}
}

// Verify compares in constant time.
func (SHA256Verifier) Verify(password, storedDigest string) bool {
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) == 1
}

package veil

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// digestMasker replaces a value with a hex fingerprint.
// Equal inputs produce equal outputs, so masked values stay joinable
// across responses without exposing the original.
type digestMasker struct {
	sum func([]byte) []byte
}

func (m *digestMasker) Mask(value string) string {
	return hex.EncodeToString(m.sum([]byte(value)))
}

// SHA256Masker returns a masker that replaces values with their SHA-256 digest.
// Not suitable for low-entropy secrets such as passwords.
func SHA256Masker() Masker {
	return &digestMasker{sum: func(b []byte) []byte {
		sum := sha256.Sum256(b)
		return sum[:]
	}}
}

// Blake2bMasker returns a masker that replaces values with their BLAKE2b-256 digest.
func Blake2bMasker() Masker {
	return &digestMasker{sum: func(b []byte) []byte {
		sum := blake2b.Sum256(b)
		return sum[:]
	}}
}

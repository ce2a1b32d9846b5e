package fingerprint

import (
	"context"
	"crypto/sha256"
)

// SHA256Dimensions is the length of a SHA256Generator fingerprint (one value per digest byte).
const SHA256Dimensions = sha256.Size

// SHA256Generator derives a fingerprint from the SHA-256 digest of the text: each
// digest byte is divided by 255. The result is stable across calls and processes but
// carries no semantic meaning; similar texts are not placed near each other.
type SHA256Generator struct{}

// NewSHA256Generator returns the hash-based generator.
func NewSHA256Generator() *SHA256Generator {
	return &SHA256Generator{}
}

// Fingerprint returns the digest-derived vector of text. It never fails.
func (g *SHA256Generator) Fingerprint(_ context.Context, text string) (Fingerprint, error) {
	sum := sha256.Sum256([]byte(text))
	fp := make(Fingerprint, len(sum))
	for i, b := range sum {
		fp[i] = float32(b) / 255
	}
	return fp, nil
}

// Dimensions returns SHA256Dimensions.
func (g *SHA256Generator) Dimensions() int {
	return SHA256Dimensions
}

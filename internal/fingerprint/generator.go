// Package fingerprint maps text to fixed-length numeric vectors used for similarity ranking.
package fingerprint

import "context"

// Fingerprint is an ordered vector of values in [0,1].
type Fingerprint []float32

// Clone returns a copy of f that shares no memory with it.
func (f Fingerprint) Clone() Fingerprint {
	if f == nil {
		return nil
	}
	out := make(Fingerprint, len(f))
	copy(out, f)
	return out
}

// Generator produces fingerprints for text. Implementations must be deterministic:
// the same text always yields the same fingerprint.
type Generator interface {
	Fingerprint(ctx context.Context, text string) (Fingerprint, error)
	Dimensions() int
}

// index.go - aligned sample index arithmetic.
//
// An AlignedIndex is derived from (time, sample_rate, align_level) as
// ceil(t*sr*2^-n) * 2^n (spec section 3). It carries both the integer
// sample index and the fractional sub-sample offset used to pre-shift
// cached envelopes.
package quant

import "math"

// AlignedIndex is the aligned sample position of an event plus the
// sub-sample fraction consumed to reach it.
type AlignedIndex struct {
	value float64 // ceil(t*sr*2^-n) * 2^n, in samples
}

// NewAlignedIndex computes the aligned index for t at the given sample
// rate and align level (spec section 3).
func NewAlignedIndex(t Time, sampleRate Frequency, alignLevel int) AlignedIndex {
	scaledSR := sampleRate.Value() * math.Exp2(float64(-alignLevel))
	i := math.Ceil(t.Value() * scaledSR)
	return AlignedIndex{value: math.Exp2(float64(alignLevel)) * i}
}

// Ceil returns the integer sample index.
func (a AlignedIndex) Ceil() int { return int(math.Ceil(a.value)) }

// CeilValue returns the integer sample index as a float64 (avoids a second
// int->float round trip in hot sampler code).
func (a AlignedIndex) CeilValue() float64 { return math.Ceil(a.value) }

// IndexOffset returns the sub-sample shift in samples, in [0, 1).
func (a AlignedIndex) IndexOffset() float64 {
	return math.Ceil(a.value) - a.value
}

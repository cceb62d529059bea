// quant.go - finite-float quantity newtypes shared by the layout and
// execution engines: Time, Frequency, Phase, Amplitude.
//
// Phase is in cycles (one cycle = 2*pi rad); that is part of the public
// contract (spec section 3).
package quant

import (
	"math"

	"github.com/waveforge/qpulse/qerr"
)

// Time is a finite duration or instant in seconds. Infinity() is the
// one allowed non-finite value, used as a max_duration sentinel.
type Time float64

// Infinity returns the sentinel used for an unbounded max_duration.
func Infinity() Time { return Time(math.Inf(1)) }

// NewTime validates x is non-NaN before wrapping it as a Time. Infinite
// values are only valid via Infinity(); NewTime rejects them for field,
// since every other Time-typed field in the schedule must be finite.
func NewTime(field string, x float64) (Time, error) {
	if math.IsNaN(x) {
		return 0, qerr.NewInvalidArgument(field, "NaN is not allowed")
	}
	if math.IsInf(x, 0) {
		return 0, qerr.NewInvalidArgument(field, "infinite value is not allowed")
	}
	return Time(x), nil
}

// Value returns the underlying float64.
func (t Time) Value() float64 { return float64(t) }

// Clamp returns t clamped into [lo, hi] (lo wins over hi per spec 3).
func Clamp(t, lo, hi Time) Time {
	if t > hi {
		t = hi
	}
	if t < lo {
		t = lo
	}
	return t
}

// Frequency is a finite frequency in Hz.
type Frequency float64

// NewFrequency validates x is finite.
func NewFrequency(field string, x float64) (Frequency, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, qerr.NewInvalidArgument(field, "must be finite")
	}
	return Frequency(x), nil
}

func (f Frequency) Value() float64 { return float64(f) }

// MulTime converts a frequency sweeping for d seconds into a Phase (cycles).
func (f Frequency) MulTime(d Time) Phase { return Phase(float64(f) * float64(d)) }

// Phase is a finite phase in cycles (1 cycle = 2*pi radians).
type Phase float64

func NewPhase(field string, x float64) (Phase, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, qerr.NewInvalidArgument(field, "must be finite")
	}
	return Phase(x), nil
}

func (p Phase) Value() float64 { return float64(p) }

// Radians converts the cyclic phase to radians.
func (p Phase) Radians() float64 { return float64(p) * 2 * math.Pi }

// Amplitude is a finite, signed or complex-scaling real coefficient.
type Amplitude float64

func NewAmplitude(field string, x float64) (Amplitude, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, qerr.NewInvalidArgument(field, "must be finite")
	}
	return Amplitude(x), nil
}

func (a Amplitude) Value() float64 { return float64(a) }

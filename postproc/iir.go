// iir.go - the IIR biquad cascade (spec section 4.8): a Direct Form II
// Transposed biquad per SOS row, cascaded in series, state reset fresh for
// each row of the waveform. Grounded on the per-channel explicit-state
// filter idiom (no black-box Step, state held in named fields, Reset
// zeroing state before each signal).
package postproc

import (
	"gonum.org/v1/gonum/mat"

	"github.com/waveforge/qpulse/qerr"
)

type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	s1, s2     float64
}

func (b *biquad) reset() {
	b.s1, b.s2 = 0, 0
}

func (b *biquad) run(x float64) float64 {
	y := b.b0*x + b.s1
	b.s1 = b.b1*x - b.a1*y + b.s2
	b.s2 = b.b2*x - b.a2*y
	return y
}

// iirFilterInplace filters every row of rows independently through the
// biquad cascade described by sos (an N x 6 [b0 b1 b2 a0 a1 a2] matrix;
// the a0 column is ignored per the SciPy sosfilt convention, matching
// spec section 4.8).
func iirFilterInplace(rows [][]float64, sos *mat.Dense) error {
	r, c := sos.Dims()
	if c != 6 {
		return qerr.NewInvalidSosFormat(r, c)
	}
	if r == 0 {
		return nil
	}

	biquads := make([]biquad, r)
	for i := 0; i < r; i++ {
		biquads[i] = biquad{
			b0: sos.At(i, 0), b1: sos.At(i, 1), b2: sos.At(i, 2),
			a1: sos.At(i, 4), a2: sos.At(i, 5),
		}
	}

	for _, row := range rows {
		for i := range biquads {
			biquads[i].reset()
		}
		for i, x := range row {
			y := x
			for b := range biquads {
				y = biquads[b].run(y)
			}
			row[i] = y
		}
	}
	return nil
}

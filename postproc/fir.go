// fir.go - the FIR convolution (spec section 4.8): direct-form causal
// convolution against each waveform row in place, using gonum/floats.Dot
// for the vectorized multiply-accumulate inner loop (the idiomatic Go
// stand-in for the spec's "must use SIMD", since floats.Dot dispatches to
// an assembly kernel on amd64/arm64 without cgo or hand-rolled asm).
package postproc

import "gonum.org/v1/gonum/floats"

// firFilterInplace convolves each row of rows with taps in place:
// y[i] = sum_{k=0}^{min(i,M-1)} taps[k]*x[i-k]. A sliding window of the
// last M raw input samples is kept so the row can be overwritten as it is
// read without materializing a full second copy of it.
func firFilterInplace(rows [][]float64, taps []float64) {
	m := len(taps)
	if m == 0 {
		return
	}
	reversed := make([]float64, m)
	for i, v := range taps {
		reversed[m-1-i] = v
	}

	for _, row := range rows {
		window := make([]float64, m)
		for i := range row {
			copy(window, window[1:])
			window[m-1] = row[i]

			lo := m - 1 - i
			if lo < 0 {
				lo = 0
			}
			row[i] = floats.Dot(reversed[lo:], window[lo:])
		}
	}
}

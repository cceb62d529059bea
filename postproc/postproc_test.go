// postproc_test.go - tests for the IIR/FIR kernels, IQ mixing, offset, and
// the filter_offset-dependent ordering.
package postproc

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func closeSlices(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIIRZeroSignalStaysZero(t *testing.T) {
	sos := mat.NewDense(1, 6, []float64{0.5, 0.1, 0.05, 1, -0.2, 0.03})
	row := make([]float64, 10)
	if err := iirFilterInplace([][]float64{row}, sos); err != nil {
		t.Fatalf("iirFilterInplace: %v", err)
	}
	for i, v := range row {
		if v != 0 {
			t.Fatalf("index %d: expected 0, got %v", i, v)
		}
	}
}

func TestIIRIdentityRowYieldsImpulse(t *testing.T) {
	sos := mat.NewDense(1, 6, []float64{1, 0, 0, 1, 0, 0})
	row := make([]float64, 5)
	row[0] = 1
	if err := iirFilterInplace([][]float64{row}, sos); err != nil {
		t.Fatalf("iirFilterInplace: %v", err)
	}
	closeSlices(t, row, []float64{1, 0, 0, 0, 0}, 1e-12)
}

func TestIIRInvalidSosFormat(t *testing.T) {
	sos := mat.NewDense(1, 5, make([]float64, 5))
	row := make([]float64, 3)
	if err := iirFilterInplace([][]float64{row}, sos); err == nil {
		t.Fatalf("expected InvalidSosFormat error for a non-6-column sos matrix")
	}
}

func TestFIRConvolution(t *testing.T) {
	taps := []float64{1, 0.1, 0.01}
	row1 := make([]float64, 10)
	row2 := make([]float64, 10)
	for i := range row1 {
		row1[i], row2[i] = 1, 1
	}
	firFilterInplace([][]float64{row1, row2}, taps)
	want := []float64{1, 1.1, 1.11, 1.11, 1.11, 1.11, 1.11, 1.11, 1.11, 1.11}
	closeSlices(t, row1, want, 1e-9)
	closeSlices(t, row2, want, 1e-9)
}

func TestIQMixIdentity(t *testing.T) {
	identity := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	i, q := []float64{1, 2, 3}, []float64{4, 5, 6}
	if err := iqMixInplace([][]float64{i, q}, identity); err != nil {
		t.Fatalf("iqMixInplace: %v", err)
	}
	closeSlices(t, i, []float64{1, 2, 3}, 1e-12)
	closeSlices(t, q, []float64{4, 5, 6}, 1e-12)
}

func TestIQMixSwap(t *testing.T) {
	swap := mat.NewDense(2, 2, []float64{0, 1, 1, 0})
	i, q := []float64{1, 2, 3}, []float64{4, 5, 6}
	if err := iqMixInplace([][]float64{i, q}, swap); err != nil {
		t.Fatalf("iqMixInplace: %v", err)
	}
	closeSlices(t, i, []float64{4, 5, 6}, 1e-12)
	closeSlices(t, q, []float64{1, 2, 3}, 1e-12)
}

func TestApplyOffsetOnlyReal(t *testing.T) {
	row := []float64{0, 0, 0}
	cfg := Config{Offset: []float64{2.5}, IsReal: true}
	if err := Apply([][]float64{row}, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	closeSlices(t, row, []float64{2.5, 2.5, 2.5}, 1e-12)
}

func TestApplyOffsetWrongLengthFails(t *testing.T) {
	row := []float64{0, 0}
	cfg := Config{Offset: []float64{1, 2}, IsReal: true}
	if err := Apply([][]float64{row}, cfg); err == nil {
		t.Fatalf("expected InvalidArgument for a real channel with a 2-element offset")
	}
}

func TestApplyFilterOffsetOrdering(t *testing.T) {
	// A pure-gain-2 filter (no memory) makes the two orderings diverge: with
	// filter_offset, the offset is scaled by the filter; without it, the
	// offset is added untouched after filtering.
	sos := mat.NewDense(1, 6, []float64{2, 0, 0, 1, 0, 0})

	offsetFirst := []float64{0, 0, 0}
	cfg := Config{IIR: sos, Offset: []float64{1}, IsReal: true, FilterOffset: true}
	if err := Apply([][]float64{offsetFirst}, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	closeSlices(t, offsetFirst, []float64{2, 2, 2}, 1e-12)

	offsetLast := []float64{0, 0, 0}
	cfg2 := Config{IIR: sos, Offset: []float64{1}, IsReal: true, FilterOffset: false}
	if err := Apply([][]float64{offsetLast}, cfg2); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	closeSlices(t, offsetLast, []float64{1, 1, 1}, 1e-12)
}

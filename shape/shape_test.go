// shape_test.go - shape sampling and interning tests.
package shape

import (
	"math"
	"testing"
)

func approxEq(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestHannEndpointsAndPeak(t *testing.T) {
	h := Hann()
	cases := []struct {
		x, want float64
	}{
		{-0.5, 0.0},
		{-0.25, 0.5},
		{0.0, 1.0},
		{0.25, 0.5},
		{0.5, 0.0},
	}
	for _, c := range cases {
		if got := h.Sample(c.x); !approxEq(got, c.want, 1e-12) {
			t.Fatalf("Hann(%v) = %v, want %v", c.x, got, c.want)
		}
	}
}

func TestHannOutsideDomainIsZero(t *testing.T) {
	h := Hann()
	if got := h.Sample(0.9); got != 0 {
		t.Fatalf("expected 0 outside domain, got %v", got)
	}
}

func TestHannIsInterned(t *testing.T) {
	a := Hann()
	b := Hann()
	if a.impl != b.impl {
		t.Fatalf("expected Hann() to return the same interned instance")
	}
}

// TestInterpMatchesReferenceSpline uses the knots/controls/expected samples
// from a scipy make_interp_spline(k=3) fit to cos(pi*x) on [-0.5, 0.5],
// reused from the original Rust implementation's own test fixture.
func TestInterpMatchesReferenceSpline(t *testing.T) {
	knots := []float64{
		-0.5, -0.5, -0.5, -0.5,
		-0.16666666666666669, 0.0, 0.16666666666666663,
		0.5, 0.5, 0.5, 0.5,
	}
	controls := []float64{
		6.123233995736766e-17,
		0.35338865119588236,
		0.8602099957160162,
		1.0465966680946615,
		0.8602099957160163,
		0.35338865119588264,
		6.123233995736766e-17,
	}
	testX := []float64{
		-0.5, -0.3888888888888889, -0.2777777777777778, -0.16666666666666669,
		-0.05555555555555558, 0.05555555555555558, 0.16666666666666663,
		0.2777777777777777, 0.38888888888888884, 0.5,
	}
	testY := []float64{
		6.123233995736766e-17, 0.34275209271817986, 0.6423618410356466,
		0.8660254037844386, 0.9846831627857952, 0.9846831627857954,
		0.8660254037844388, 0.6423618410356471, 0.3427520927181801,
		6.123233995736766e-17,
	}

	s, err := Interp(knots, controls, 3)
	if err != nil {
		t.Fatalf("Interp: %v", err)
	}
	for i, x := range testX {
		if got := s.Sample(x); !approxEq(got, testY[i], 1e-9) {
			t.Fatalf("Interp.Sample(%v) = %v, want %v", x, got, testY[i])
		}
	}
}

func TestInterpRejectsMismatchedKnotLength(t *testing.T) {
	_, err := Interp([]float64{0, 1}, []float64{1, 2, 3}, 3)
	if err == nil {
		t.Fatalf("expected error for mismatched knot/control/degree length")
	}
}

func TestInterpIsInterned(t *testing.T) {
	knots := []float64{-0.5, -0.5, -0.5, -0.5, 0.5, 0.5, 0.5, 0.5}
	controls := []float64{0, 1, 2, 3}
	a, err := Interp(knots, controls, 3)
	if err != nil {
		t.Fatalf("Interp: %v", err)
	}
	b, err := Interp(knots, controls, 3)
	if err != nil {
		t.Fatalf("Interp: %v", err)
	}
	if a.impl != b.impl {
		t.Fatalf("expected identical Interp args to return the same interned instance")
	}
	c := Hann()
	if a.impl == c.impl {
		t.Fatalf("expected Hann and Interp to be distinct instances")
	}
}

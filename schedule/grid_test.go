// grid_test.go - Grid layout tests, including the worked example from the
// column-sizing contract: three equal-measure children under
// ["auto", "*", "2*"] columns split any leftover row space 1:2.
package schedule

import (
	"testing"

	"github.com/waveforge/qpulse/quant"
)

func TestGridAutoThenStarSplitExample(t *testing.T) {
	columns := []GridLength{{Kind: GridAuto}, {Kind: GridStar, Value: 1}, {Kind: GridStar, Value: 2}}
	m := 10.0
	g := &Grid{
		Columns: columns,
		Children: []GridChild{
			{Element: leaf(t, "a", m), Column: 0, Span: 1},
			{Element: leaf(t, "a", m), Column: 1, Span: 1},
			{Element: leaf(t, "a", m), Column: 2, Span: 1},
		},
	}
	if got := g.measureVariant(); got != quant.Time(m) {
		t.Fatalf("expected grid's own measure to be the auto column alone, got %v", got)
	}
	D := quant.Time(40)
	sizes := g.phase2(D)
	leftover := D - quant.Time(m)
	want := []quant.Time{quant.Time(m), leftover / 3, 2 * leftover / 3}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("column %d = %v, want %v", i, sizes[i], want[i])
		}
	}
}

func TestAbsoluteChildrenOverlapFreely(t *testing.T) {
	a, err := NewAbsolute(ElementCommon{}, nil,
		AbsoluteChild{Element: leaf(t, "a", 10), Offset: 0},
		AbsoluteChild{Element: leaf(t, "b", 10), Offset: 5},
	)
	if err != nil {
		t.Fatalf("NewAbsolute: %v", err)
	}
	if got := a.Measure(); got != quant.Time(15) {
		t.Fatalf("expected max(0+10, 5+10)=15, got %v", got)
	}
	arranged, err := Arrange(a, TimeRange{Start: 100, Span: 15}, Options{})
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if arranged.Children[0].Range.Start != 100 {
		t.Fatalf("first child start = %v, want 100", arranged.Children[0].Range.Start)
	}
	if arranged.Children[1].Range.Start != 105 {
		t.Fatalf("second child start = %v, want 105", arranged.Children[1].Range.Start)
	}
}

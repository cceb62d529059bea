// plot_test.go - tests for the pre-order projection: depth, label
// inheritance, and kind mapping.
package plot

import (
	"testing"

	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/schedule"
)

func mustArrange(t *testing.T, e *schedule.Element) schedule.Arranged {
	t.Helper()
	a, err := schedule.Arrange(e, schedule.TimeRange{Start: 0, Span: e.Measure()}, schedule.Options{})
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	return a
}

func TestProjectAssignsIncreasingDepth(t *testing.T) {
	ch := quant.NewChannelID("q0")
	w, _ := quant.NewTime("width", 0)
	play, err := schedule.NewPlay(schedule.ElementCommon{}, ch, quant.ShapeID{}, quant.Amplitude(1), 0, w, quant.Time(5e-9), quant.Frequency(0), quant.Phase(0), false)
	if err != nil {
		t.Fatalf("NewPlay: %v", err)
	}
	stack := schedule.NewStack(schedule.ElementCommon{}, true, nil, play)

	items := Project(mustArrange(t, stack))
	if len(items) != 2 {
		t.Fatalf("expected 2 items (stack + play), got %d", len(items))
	}
	if items[0].Depth != 0 || items[0].Kind != KindStack {
		t.Fatalf("expected root item at depth 0 of kind Stack, got depth=%d kind=%v", items[0].Depth, items[0].Kind)
	}
	if items[1].Depth != 1 || items[1].Kind != KindPlay {
		t.Fatalf("expected child item at depth 1 of kind Play, got depth=%d kind=%v", items[1].Depth, items[1].Kind)
	}
}

func TestProjectInheritsNearestEnclosingLabel(t *testing.T) {
	ch := quant.NewChannelID("q0")
	w, _ := quant.NewTime("width", 0)
	play, err := schedule.NewPlay(schedule.ElementCommon{}, ch, quant.ShapeID{}, quant.Amplitude(1), 0, w, quant.Time(5e-9), quant.Frequency(0), quant.Phase(0), false)
	if err != nil {
		t.Fatalf("NewPlay: %v", err)
	}
	labeled := schedule.ElementCommon{Label: quant.NewLabel("readout")}
	stack := schedule.NewStack(labeled, true, nil, play)

	items := Project(mustArrange(t, stack))
	for _, item := range items {
		if item.Label != quant.NewLabel("readout") {
			t.Fatalf("expected every item to inherit the stack's label, got %v", item.Label)
		}
	}
}

func TestProjectOwnLabelOverridesInherited(t *testing.T) {
	ch := quant.NewChannelID("q0")
	w, _ := quant.NewTime("width", 0)
	outer := quant.NewLabel("outer")
	inner := quant.NewLabel("inner")
	play, err := schedule.NewPlay(schedule.ElementCommon{Label: inner}, ch, quant.ShapeID{}, quant.Amplitude(1), 0, w, quant.Time(5e-9), quant.Frequency(0), quant.Phase(0), false)
	if err != nil {
		t.Fatalf("NewPlay: %v", err)
	}
	stack := schedule.NewStack(schedule.ElementCommon{Label: outer}, true, nil, play)

	items := Project(mustArrange(t, stack))
	if items[0].Label != outer {
		t.Fatalf("expected root item to keep its own label, got %v", items[0].Label)
	}
	if items[1].Label != inner {
		t.Fatalf("expected child item's own label to override the inherited one, got %v", items[1].Label)
	}
}

func TestKindOfMapsShiftPhase(t *testing.T) {
	ch := quant.NewChannelID("q0")
	sp := schedule.NewShiftPhase(schedule.ElementCommon{}, ch, quant.Phase(0.1))
	items := Project(mustArrange(t, sp))
	if items[0].Kind != KindShiftPhase {
		t.Fatalf("expected KindShiftPhase, got %v", items[0].Kind)
	}
	if items[0].Kind.String() != "ShiftPhase" {
		t.Fatalf("expected String() to render ShiftPhase, got %q", items[0].Kind.String())
	}
}

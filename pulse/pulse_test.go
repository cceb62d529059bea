// pulse_test.go - tests for envelope collapsing, pulse-list coalescing,
// and the oscillator transforms.
package pulse

import (
	"math"
	"testing"

	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/shape"
)

func TestEnvelopeCollapsesMissingShapeIntoPlateau(t *testing.T) {
	e := NewEnvelope(nil, quant.Time(10), quant.Time(20))
	if e.Shape != nil || e.Width != 0 || e.Plateau != 30 {
		t.Fatalf("got %+v, want width=0 plateau=30 shape=nil", e)
	}
}

func TestEnvelopeDropsShapeWhenWidthZero(t *testing.T) {
	h := shape.Hann()
	e := NewEnvelope(&h, quant.Time(0), quant.Time(5))
	if e.Shape != nil {
		t.Fatalf("expected shape dropped when width==0")
	}
}

func TestBuilderCoalescesWithinTolerance(t *testing.T) {
	b := NewPulseListBuilder(1e-6, quant.Time(1e-9))
	key := BinKey{Envelope: NewEnvelope(nil, 0, 10), GlobalFreq: 0, LocalFreq: 0}
	b.Push(key, quant.Time(100e-9), PulseAmplitude{Amp: 1})
	b.Push(key, quant.Time(100e-9+0.5e-9), PulseAmplitude{Amp: 2})
	list := b.Build()
	events := list.Bins[key]
	if len(events) != 1 {
		t.Fatalf("expected coalesced to 1 event, got %d", len(events))
	}
	if events[0].Amp.Amp != 3 {
		t.Fatalf("expected summed amplitude 3, got %v", events[0].Amp.Amp)
	}
	if events[0].Time != quant.Time(100e-9) {
		t.Fatalf("expected earliest time to survive, got %v", events[0].Time)
	}
}

func TestBuilderSortsOutOfOrderPushes(t *testing.T) {
	b := NewPulseListBuilder(1e-6, quant.Time(0))
	key := BinKey{Envelope: NewEnvelope(nil, 0, 10)}
	b.Push(key, quant.Time(30e-9), PulseAmplitude{Amp: 3})
	b.Push(key, quant.Time(10e-9), PulseAmplitude{Amp: 1})
	b.Push(key, quant.Time(20e-9), PulseAmplitude{Amp: 2})
	events := b.Build().Bins[key]
	want := []float64{10e-9, 20e-9, 30e-9}
	for i, w := range want {
		if float64(events[i].Time) != w {
			t.Fatalf("event %d time = %v, want %v", i, events[i].Time, w)
		}
	}
}

func TestShiftFreqPreservesPhaseContinuity(t *testing.T) {
	s := OscState{BaseFreq: 1e6, DeltaFreq: 0, Phase: 0}
	tAt := quant.Time(200e-9)
	before := s.PhaseAt(tAt) // delta-only, but total-freq phase checked below
	_ = before
	beforeTotal := s.Phase + s.TotalFreq().MulTime(tAt)
	shifted := s.ShiftFreqBy(500e3, tAt)
	afterTotal := shifted.Phase + shifted.TotalFreq().MulTime(tAt)
	if math.Abs(float64(beforeTotal-afterTotal)) > 1e-12 {
		t.Fatalf("expected phase continuity across ShiftFreqBy, before=%v after=%v", beforeTotal, afterTotal)
	}
}

func TestSwapPhaseIsSelfInverse(t *testing.T) {
	a := OscState{BaseFreq: 1e6, DeltaFreq: 100e3, Phase: 0.25}
	b := OscState{BaseFreq: 2e6, DeltaFreq: -50e3, Phase: 0.75}
	t0 := quant.Time(123e-9)
	a2, b2 := SwapPhaseAt(a, b, t0)
	a3, b3 := SwapPhaseAt(a2, b2, t0)
	if math.Abs(float64(a3.Phase-a.Phase)) > 1e-12 || math.Abs(float64(b3.Phase-b.Phase)) > 1e-12 {
		t.Fatalf("expected swap-swap to restore original phases, got a=%v b=%v", a3.Phase, b3.Phase)
	}
}

// pulse.go - per-channel pulse lists: bin-keyed buckets of time-sorted
// amplitude events, built by the execution engine and consumed by the
// sampler.
package pulse

import (
	"sort"

	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/shape"
)

// Envelope is (shape, width, plateau) with the collapsing rules from spec
// section 3: a missing shape folds width into plateau (a flat rectangular
// pulse); a zero width drops the shape outright.
type Envelope struct {
	Shape   *shape.Shape
	Width   quant.Time
	Plateau quant.Time
}

// NewEnvelope builds an Envelope applying the collapsing rules.
func NewEnvelope(env *shape.Shape, width, plateau quant.Time) Envelope {
	if env == nil {
		plateau += width
		width = 0
	}
	if width == 0 {
		env = nil
	}
	return Envelope{Shape: env, Width: width, Plateau: plateau}
}

// PulseAmplitude is a pulse's complex amplitude plus its DRAG term.
type PulseAmplitude struct {
	Amp  complex128
	Drag complex128
}

// Add returns the element-wise sum of two amplitudes, used when coalescing
// near-simultaneous events.
func (a PulseAmplitude) Add(b PulseAmplitude) PulseAmplitude {
	return PulseAmplitude{Amp: a.Amp + b.Amp, Drag: a.Drag + b.Drag}
}

// BinKey groups pulse events that share an envelope and both carrier
// frequencies; amplitudes within a bin add.
type BinKey struct {
	Envelope              Envelope
	GlobalFreq, LocalFreq quant.Frequency
}

// Event is one time-stamped amplitude within a bin.
type Event struct {
	Time quant.Time
	Amp  PulseAmplitude
}

// PulseList is the built, time-sorted and coalesced per-channel pulse
// record the sampler reads.
type PulseList struct {
	Bins map[BinKey][]Event
}

// PulseListBuilder accumulates pulse events from the executor in (roughly)
// time order and produces a sorted, coalesced PulseList on Build.
type PulseListBuilder struct {
	bins          map[BinKey][]Event
	ampTolerance  float64
	timeTolerance quant.Time
}

// NewPulseListBuilder creates a builder with the given coalescing
// tolerances.
func NewPulseListBuilder(ampTolerance float64, timeTolerance quant.Time) *PulseListBuilder {
	return &PulseListBuilder{bins: make(map[BinKey][]Event), ampTolerance: ampTolerance, timeTolerance: timeTolerance}
}

// Push appends one event to its bin. Events usually arrive in
// non-decreasing time order (pre-order execution over siblings that
// themselves run in time order), so appending to the end is the common
// case; an out-of-order arrival falls back to an insertion sort of that one
// entry so Build never has to re-sort from scratch.
func (b *PulseListBuilder) Push(key BinKey, t quant.Time, amp PulseAmplitude) {
	events := b.bins[key]
	ev := Event{Time: t, Amp: amp}
	if len(events) == 0 || events[len(events)-1].Time <= t {
		b.bins[key] = append(events, ev)
		return
	}
	i := sort.Search(len(events), func(i int) bool { return events[i].Time > t })
	events = append(events, Event{})
	copy(events[i+1:], events[i:])
	events[i] = ev
	b.bins[key] = events
}

// Build sorts each bin by time (a no-op in the common append-only case) and
// coalesces entries whose times agree within timeTolerance, summing their
// amplitudes. The surviving entry keeps the earliest of the coalesced
// times (spec section 9's open question, resolved as "earliest wins").
// Entries whose magnitude is below ampTolerance after coalescing are kept —
// there is no second pruning pass.
func (b *PulseListBuilder) Build() PulseList {
	out := make(map[BinKey][]Event, len(b.bins))
	for key, events := range b.bins {
		sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
		coalesced := make([]Event, 0, len(events))
		for _, ev := range events {
			if n := len(coalesced); n > 0 && ev.Time-coalesced[n-1].Time <= b.timeTolerance {
				coalesced[n-1].Amp = coalesced[n-1].Amp.Add(ev.Amp)
				continue
			}
			coalesced = append(coalesced, ev)
		}
		out[key] = coalesced
	}
	return PulseList{Bins: out}
}

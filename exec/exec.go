// exec.go - the execution engine: a pre-order walk over an already
// arranged tree (schedule.Arranged), skipping phantom subtrees entirely,
// dispatching each instruction variant against per-channel oscillator
// state and pulse-list builders (spec section 4.5).
package exec

import (
	"math"

	"github.com/waveforge/qpulse/pulse"
	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/schedule"
	"github.com/waveforge/qpulse/shape"
)

// channel bundles one channel's mutable oscillator state with the pulse
// list it is accumulating.
type channel struct {
	osc    pulse.OscState
	pulses *pulse.PulseListBuilder
}

// Executor owns per-channel state across one execution pass. It is built,
// fed channels and shapes, run once over an arranged tree, then drained
// via Result.
type Executor struct {
	channels      map[quant.ChannelID]*channel
	shapes        map[quant.ShapeID]shape.Shape
	ampTolerance  float64
	timeTolerance quant.Time
	allowOversize bool
}

// New creates an Executor with the given coalescing tolerances and
// oversize policy (spec section 6's GenerateOptions fields).
func New(ampTolerance float64, timeTolerance quant.Time, allowOversize bool) *Executor {
	return &Executor{
		channels:      make(map[quant.ChannelID]*channel),
		shapes:        make(map[quant.ShapeID]shape.Shape),
		ampTolerance:  ampTolerance,
		timeTolerance: timeTolerance,
		allowOversize: allowOversize,
	}
}

// AddChannel registers a channel's base frequency and its initial
// oscillator state (nil means the spec's default: base_freq as given,
// zero delta and phase).
func (e *Executor) AddChannel(id quant.ChannelID, baseFreq quant.Frequency, initial *pulse.OscState) {
	osc := pulse.OscState{BaseFreq: baseFreq}
	if initial != nil {
		osc = *initial
		osc.BaseFreq = baseFreq
	}
	e.channels[id] = &channel{
		osc:    osc,
		pulses: pulse.NewPulseListBuilder(e.ampTolerance, e.timeTolerance),
	}
}

// AddShape registers a shape under id for Play lookups.
func (e *Executor) AddShape(id quant.ShapeID, s shape.Shape) {
	e.shapes[id] = s
}

// Execute walks the arranged tree in pre-order, skipping any subtree whose
// root is phantom (spec section 9's open question: a phantom layout node
// and a phantom leaf are both treated as "skip descend" uniformly).
func (e *Executor) Execute(root schedule.Arranged) error {
	return e.visit(root)
}

func (e *Executor) visit(a schedule.Arranged) error {
	if a.Element.Common.Phantom {
		return nil
	}
	if err := e.dispatch(a); err != nil {
		return err
	}
	for _, child := range a.Children {
		if err := e.visit(child); err != nil {
			return err
		}
	}
	return nil
}

// dispatch re-checks the element's own (margin-excluded) required
// duration against the span it was actually given, then dispatches by
// variant. Layout containers and Barrier have no direct effect here —
// their descendants (already arranged) carry the state changes.
func (e *Executor) dispatch(a schedule.Arranged) error {
	if !e.allowOversize {
		required := a.Element.MeasureVariant()
		if required > a.Inner.Span+e.timeTolerance {
			return qerr.NewNotEnoughDuration(float64(required), float64(a.Inner.Span))
		}
	}
	switch v := a.Element.Variant.(type) {
	case *schedule.Play:
		return e.execPlay(v, a.Inner)
	case *schedule.ShiftPhase:
		return e.execShiftPhase(v)
	case *schedule.SetPhase:
		return e.execSetPhase(v, a.Inner.Start)
	case *schedule.ShiftFreq:
		return e.execShiftFreq(v, a.Inner.Start)
	case *schedule.SetFreq:
		return e.execSetFreq(v, a.Inner.Start)
	case *schedule.SwapPhase:
		return e.execSwapPhase(v, a.Inner.Start)
	default:
		return nil
	}
}

func (e *Executor) execPlay(p *schedule.Play, inner schedule.TimeRange) error {
	var sh *shape.Shape
	if !p.ShapeID.IsZero() {
		s, ok := e.shapes[p.ShapeID]
		if !ok {
			return qerr.NewShapeNotFound(p.ShapeID.String())
		}
		sh = &s
	}

	width := p.Width
	plateau := p.Plateau
	if p.Flexible {
		plateau = inner.Span - width
	}
	if plateau < 0 {
		return qerr.NewNegativePlateau(float64(plateau))
	}

	ch, ok := e.channels[p.Channel]
	if !ok {
		return qerr.NewChannelNotFound(p.Channel.String())
	}

	if math.Abs(float64(p.Amplitude)) < e.ampTolerance {
		return nil
	}

	envelope := pulse.NewEnvelope(sh, width, plateau)
	globalFreq := ch.osc.TotalFreq()
	localFreq := p.Frequency
	amp := complexFromPolar(float64(p.Amplitude), p.Phase.Radians())
	drag := amp * complex(0, 1) * complex(p.DragCoef, 0)

	key := pulse.BinKey{Envelope: envelope, GlobalFreq: globalFreq, LocalFreq: localFreq}
	ch.pulses.Push(key, inner.Start, pulse.PulseAmplitude{Amp: amp, Drag: drag})
	return nil
}

func (e *Executor) execShiftPhase(v *schedule.ShiftPhase) error {
	ch, ok := e.channels[v.Channel]
	if !ok {
		return qerr.NewChannelNotFound(v.Channel.String())
	}
	ch.osc = ch.osc.ShiftPhaseBy(v.DeltaPhase)
	return nil
}

func (e *Executor) execSetPhase(v *schedule.SetPhase, t quant.Time) error {
	ch, ok := e.channels[v.Channel]
	if !ok {
		return qerr.NewChannelNotFound(v.Channel.String())
	}
	ch.osc = ch.osc.SetPhaseAt(v.Phase, t)
	return nil
}

func (e *Executor) execShiftFreq(v *schedule.ShiftFreq, t quant.Time) error {
	ch, ok := e.channels[v.Channel]
	if !ok {
		return qerr.NewChannelNotFound(v.Channel.String())
	}
	ch.osc = ch.osc.ShiftFreqBy(v.DeltaFreq, t)
	return nil
}

func (e *Executor) execSetFreq(v *schedule.SetFreq, t quant.Time) error {
	ch, ok := e.channels[v.Channel]
	if !ok {
		return qerr.NewChannelNotFound(v.Channel.String())
	}
	ch.osc = ch.osc.SetFreqAt(v.Freq, t)
	return nil
}

func (e *Executor) execSwapPhase(v *schedule.SwapPhase, t quant.Time) error {
	if v.ChannelA == v.ChannelB {
		return nil
	}
	a, okA := e.channels[v.ChannelA]
	b, okB := e.channels[v.ChannelB]
	if !okA || !okB {
		var missing []string
		if !okA {
			missing = append(missing, v.ChannelA.String())
		}
		if !okB {
			missing = append(missing, v.ChannelB.String())
		}
		return qerr.NewChannelNotFound(missing...)
	}
	a.osc, b.osc = pulse.SwapPhaseAt(a.osc, b.osc, t)
	return nil
}

// Result drains the executor into one PulseList and one final OscState
// per registered channel. Called once, after Execute succeeds.
func (e *Executor) Result() (map[quant.ChannelID]pulse.PulseList, map[quant.ChannelID]pulse.OscState) {
	lists := make(map[quant.ChannelID]pulse.PulseList, len(e.channels))
	states := make(map[quant.ChannelID]pulse.OscState, len(e.channels))
	for id, ch := range e.channels {
		lists[id] = ch.pulses.Build()
		states[id] = ch.osc
	}
	return lists, states
}

func complexFromPolar(r, theta float64) complex128 {
	return complex(r*math.Cos(theta), r*math.Sin(theta))
}

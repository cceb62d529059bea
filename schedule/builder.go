// builder.go - validating constructors for each element variant. These are
// the only supported way to build an *Element: they enforce the
// invariants (non-negative durations, well-formed spans, finite
// quantities already checked by the quant constructors) before the
// element ever reaches measure/arrange.
package schedule

import (
	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
)

func wrap(common ElementCommon, v Variant) *Element {
	return &Element{Common: common, Variant: v}
}

// NewPlay builds a Play instruction. Width and Plateau must be
// non-negative; a flexible Play's own Plateau field is ignored (it is
// resolved against the allotted window at execution time, and may fail
// there with NegativePlateau — that is a runtime condition, not a builder
// validation failure).
func NewPlay(common ElementCommon, channel quant.ChannelID, shapeID quant.ShapeID, amplitude quant.Amplitude, drag float64, width, plateau quant.Time, freq quant.Frequency, phase quant.Phase, flexible bool) (*Element, error) {
	if width < 0 {
		return nil, qerr.NewInvalidArgument("width", "must be non-negative")
	}
	if !flexible && plateau < 0 {
		return nil, qerr.NewInvalidArgument("plateau", "must be non-negative")
	}
	return wrap(common, &Play{
		Channel: channel, ShapeID: shapeID, Amplitude: amplitude, DragCoef: drag,
		Width: width, Plateau: plateau, Frequency: freq, Phase: phase, Flexible: flexible,
	}), nil
}

func NewShiftPhase(common ElementCommon, channel quant.ChannelID, delta quant.Phase) *Element {
	return wrap(common, &ShiftPhase{Channel: channel, DeltaPhase: delta})
}

func NewSetPhase(common ElementCommon, channel quant.ChannelID, phase quant.Phase) *Element {
	return wrap(common, &SetPhase{Channel: channel, Phase: phase})
}

func NewShiftFreq(common ElementCommon, channel quant.ChannelID, delta quant.Frequency) *Element {
	return wrap(common, &ShiftFreq{Channel: channel, DeltaFreq: delta})
}

func NewSetFreq(common ElementCommon, channel quant.ChannelID, freq quant.Frequency) *Element {
	return wrap(common, &SetFreq{Channel: channel, Freq: freq})
}

func NewSwapPhase(common ElementCommon, a, b quant.ChannelID) *Element {
	return wrap(common, &SwapPhase{ChannelA: a, ChannelB: b})
}

func NewBarrier(common ElementCommon, channels ...quant.ChannelID) *Element {
	return wrap(common, &Barrier{ChannelList: channels})
}

// NewStack builds a Stack layout over children, packed Forward or
// Backward.
func NewStack(common ElementCommon, forward bool, channelList []quant.ChannelID, children ...*Element) *Element {
	return wrap(common, &Stack{Children: children, Forward: forward, ChannelList: channelList})
}

// NewAbsolute builds an Absolute layout. Offsets may be negative — only
// finiteness is required (spec section 4.1); a NaN or infinite offset is
// rejected with InvalidArgument.
func NewAbsolute(common ElementCommon, channelList []quant.ChannelID, children ...AbsoluteChild) (*Element, error) {
	for _, c := range children {
		if _, err := quant.NewTime("offset", float64(c.Offset)); err != nil {
			return nil, err
		}
	}
	return wrap(common, &Absolute{Children: children, ChannelList: channelList}), nil
}

// NewGrid builds a Grid layout. Every child's span must be >= 1; an
// out-of-range column or an overflowing span is not an error here — it is
// normalized (clamped to the last column / truncated) during measure and
// arrange, per spec section 4.3.
func NewGrid(common ElementCommon, columns []GridLength, channelList []quant.ChannelID, children ...GridChild) (*Element, error) {
	for _, c := range children {
		if c.Span < 1 {
			return nil, qerr.NewInvalidArgument("span", "must be >= 1")
		}
	}
	return wrap(common, &Grid{Columns: columns, Children: children, ChannelList: channelList}), nil
}

// NewRepeat builds a Repeat layout. Count and Spacing must both be
// non-negative and Spacing finite; Count==0 still validates Spacing,
// matching a Count>0 repeat with no occurrences.
func NewRepeat(common ElementCommon, child *Element, count int, spacing quant.Time) (*Element, error) {
	if count < 0 {
		return nil, qerr.NewInvalidArgument("count", "must be non-negative")
	}
	if _, err := quant.NewTime("spacing", float64(spacing)); err != nil {
		return nil, err
	}
	if spacing < 0 {
		return nil, qerr.NewInvalidArgument("spacing", "must be non-negative")
	}
	return wrap(common, &Repeat{Child: child, Count: count, Spacing: spacing}), nil
}

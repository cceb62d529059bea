// instructions.go - the seven leaf (instruction) variants: Play,
// ShiftPhase, SetPhase, ShiftFreq, SetFreq, SwapPhase and Barrier. None of
// them has children, so arrangeChildren is always a no-op.
package schedule

import (
	"github.com/waveforge/qpulse/quant"
)

func noChildren(TimeRange, Options) ([]Arranged, error) { return nil, nil }

// Play emits a pulse envelope on one channel. ShapeID is the zero value
// when the pulse is a flat rectangle with no shape reference at all; the
// executor resolves it against the caller's shape table, not the builder.
type Play struct {
	Channel   quant.ChannelID
	ShapeID   quant.ShapeID
	Amplitude quant.Amplitude
	DragCoef  float64
	Width     quant.Time
	Plateau   quant.Time
	Frequency quant.Frequency
	Phase     quant.Phase
	// Flexible makes the plateau whatever the allotted window leaves over
	// after Width, instead of the fixed Plateau value.
	Flexible bool
}

// measureVariant per spec section 4.2: a flexible Play only claims Width —
// the plateau grows to whatever the surrounding layout leaves available.
func (p *Play) measureVariant() quant.Time {
	if p.Flexible {
		return p.Width
	}
	return p.Width + p.Plateau
}
func (p *Play) Channels() []quant.ChannelID { return []quant.ChannelID{p.Channel} }
func (p *Play) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) { return noChildren(r, o) }

// ShiftPhase adds DeltaPhase to a channel's accumulated phase, instantaneously.
type ShiftPhase struct {
	Channel    quant.ChannelID
	DeltaPhase quant.Phase
}

func (s *ShiftPhase) measureVariant() quant.Time { return 0 }
func (s *ShiftPhase) Channels() []quant.ChannelID { return []quant.ChannelID{s.Channel} }
func (s *ShiftPhase) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) {
	return noChildren(r, o)
}

// SetPhase sets a channel's accumulated phase to an absolute value.
type SetPhase struct {
	Channel quant.ChannelID
	Phase   quant.Phase
}

func (s *SetPhase) measureVariant() quant.Time { return 0 }
func (s *SetPhase) Channels() []quant.ChannelID { return []quant.ChannelID{s.Channel} }
func (s *SetPhase) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) {
	return noChildren(r, o)
}

// ShiftFreq adds DeltaFreq to a channel's oscillator delta frequency.
type ShiftFreq struct {
	Channel   quant.ChannelID
	DeltaFreq quant.Frequency
}

func (s *ShiftFreq) measureVariant() quant.Time { return 0 }
func (s *ShiftFreq) Channels() []quant.ChannelID { return []quant.ChannelID{s.Channel} }
func (s *ShiftFreq) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) {
	return noChildren(r, o)
}

// SetFreq sets a channel's oscillator delta frequency to an absolute value.
type SetFreq struct {
	Channel quant.ChannelID
	Freq    quant.Frequency
}

func (s *SetFreq) measureVariant() quant.Time { return 0 }
func (s *SetFreq) Channels() []quant.ChannelID { return []quant.ChannelID{s.Channel} }
func (s *SetFreq) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) {
	return noChildren(r, o)
}

// SwapPhase exchanges the accumulated phase between two channels. Swapping
// a channel with itself is a defined no-op (handled by the executor).
type SwapPhase struct {
	ChannelA, ChannelB quant.ChannelID
}

func (s *SwapPhase) measureVariant() quant.Time { return 0 }
func (s *SwapPhase) Channels() []quant.ChannelID {
	if s.ChannelA == s.ChannelB {
		return []quant.ChannelID{s.ChannelA}
	}
	return []quant.ChannelID{s.ChannelA, s.ChannelB}
}
func (s *SwapPhase) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) {
	return noChildren(r, o)
}

// Barrier has zero duration and no physical effect; it exists purely to
// let the surrounding layout enforce an ordering point across the
// channels it names. An empty Channels list means "every channel in
// scope" (inherited from the enclosing layout).
type Barrier struct {
	ChannelList []quant.ChannelID
}

func (b *Barrier) measureVariant() quant.Time { return 0 }
func (b *Barrier) Channels() []quant.ChannelID { return b.ChannelList }
func (b *Barrier) arrangeChildren(r TimeRange, o Options) ([]Arranged, error) {
	return noChildren(r, o)
}

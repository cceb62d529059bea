// element.go - immutable schedule tree nodes: ElementCommon (properties
// inherited by every node) plus the Variant interface implemented by the
// seven instruction and four layout variants.
//
// Elements form a shared, immutable DAG (a child may be referenced from
// several parents, as in Repeat) addressed by *Element; because the tree
// never mutates after construction, cycles are structurally impossible.
package schedule

import (
	"sync"

	"github.com/waveforge/qpulse/quant"
)

// Alignment controls how a node's own measured duration is placed within
// the span its parent allots it.
type Alignment int

const (
	AlignEnd Alignment = iota // default
	AlignStart
	AlignCenter
	AlignStretch
)

// ElementCommon carries the properties every node inherits regardless of
// variant.
type ElementCommon struct {
	MarginHead, MarginTail quant.Time
	Alignment              Alignment
	Phantom                bool
	Duration               *quant.Time // nil means unset (driven by measured content)
	MaxDuration            *quant.Time // nil means unbounded
	MinDuration            quant.Time  // zero value is a sensible default
	Label                  quant.Label
}

// TotalMargin is MarginHead+MarginTail.
func (c ElementCommon) TotalMargin() quant.Time { return c.MarginHead + c.MarginTail }

// ClampMinMax resolves the effective (min, max) window per spec section 3:
//
//	effective_max = clamp(duration.unwrap_or(INFINITY), min_duration, max_duration)
//	effective_min = clamp(duration.unwrap_or(0),        min_duration, max_duration)
//
// i.e. min_duration always wins over max_duration, which always wins over
// duration.
func (c ElementCommon) ClampMinMax() (effMin, effMax quant.Time) {
	maxDur := quant.Infinity()
	if c.MaxDuration != nil {
		maxDur = *c.MaxDuration
	}
	durForMax, durForMin := quant.Infinity(), quant.Time(0)
	if c.Duration != nil {
		durForMax, durForMin = *c.Duration, *c.Duration
	}
	effMax = quant.Clamp(durForMax, c.MinDuration, maxDur)
	effMin = quant.Clamp(durForMin, c.MinDuration, maxDur)
	return effMin, effMax
}

// Variant is implemented by each of the eleven element kinds.
type Variant interface {
	// measureVariant returns this variant's own desired inner duration,
	// excluding margins (spec section 4.2). It may recurse through child
	// Elements via their Measure() method, which is itself memoized.
	measureVariant() quant.Time
	// Channels returns the occupied channel set; empty means "inherits
	// the parent's channel set" (spec section 3).
	Channels() []quant.ChannelID
	// arrangeChildren produces the arranged children of this node, given
	// its own (already margin-stripped) inner time range. Leaf
	// (instruction) variants return (nil, nil).
	arrangeChildren(inner TimeRange, opts Options) ([]Arranged, error)
}

// Element is an immutable schedule node: a common-properties bag plus one
// variant. Elements are addressed by pointer and shared by reference
// (never copied) so the memoized measure result and the DAG-sharing
// semantics (e.g. a Repeat's child) both hold.
type Element struct {
	Common  ElementCommon
	Variant Variant

	measureOnce sync.Once
	measureVal  quant.Time
}

// Channels returns the element's occupied channel set, falling through to
// the variant (the common wrapper never changes it).
func (e *Element) Channels() []quant.ChannelID { return e.Variant.Channels() }

// MeasureVariant exposes the variant's own desired duration excluding
// margins (spec section 4.2's measure_variant), for the executor's
// per-node required-duration re-check.
func (e *Element) MeasureVariant() quant.Time { return e.Variant.measureVariant() }

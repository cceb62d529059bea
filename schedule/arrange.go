// arrange.go - the top-down arrange pass: given the outer time range a
// node has been allotted, resolve its own placement within that range
// (honoring margins and the min/max/duration clamp) and recurse into
// children. Alignment is read only by Grid when it places its children.
package schedule

import (
	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
)

// Options carries the knobs that the arrange pass consults.
type Options struct {
	TimeTolerance quant.Time
	AllowOversize bool
}

// TimeRange is a half-open [Start, Start+Span) window on the global
// timeline.
type TimeRange struct {
	Start quant.Time
	Span  quant.Time
}

// End returns Start+Span.
func (r TimeRange) End() quant.Time { return r.Start + r.Span }

// Arranged is the result of placing one Element within a concrete time
// range; layout containers additionally carry their arranged children.
type Arranged struct {
	Element  *Element
	Range    TimeRange // outer range, margins included
	Inner    TimeRange // margin-stripped range the variant itself was given
	Children []Arranged
}

// Measure returns (and memoizes) this element's own desired duration,
// inclusive of its margins, per spec section 4.2:
//
//	measure(element) = max(0, clamp(measure_variant(variant), effective_min, effective_max) + total_margin)
func (e *Element) Measure() quant.Time {
	e.measureOnce.Do(func() {
		effMin, effMax := e.Common.ClampMinMax()
		inner := quant.Clamp(e.Variant.measureVariant(), effMin, effMax)
		total := inner + e.Common.TotalMargin()
		if total < 0 {
			total = 0
		}
		e.measureVal = total
	})
	return e.measureVal
}

// Arrange places e within outer, recursing into children, per spec section
// 4.4's common inner-range formula:
//
//	inner.start = outer.start + margin.head
//	inner.span  = clamp(outer.span - total_margin, effective_min, effective_max)
//
// Fails with NotEnoughDuration if outer.span + time_tolerance < measure(e)
// and opts.AllowOversize is false.
func Arrange(e *Element, outer TimeRange, opts Options) (Arranged, error) {
	need := e.Measure()
	if !opts.AllowOversize && outer.Span+opts.TimeTolerance < need {
		return Arranged{}, qerr.NewNotEnoughDuration(float64(need), float64(outer.Span))
	}

	effMin, effMax := e.Common.ClampMinMax()
	margin := e.Common.TotalMargin()
	innerSpan := quant.Clamp(outer.Span-margin, effMin, effMax)
	if innerSpan < 0 {
		innerSpan = 0
	}
	innerStart := outer.Start + e.Common.MarginHead

	inner := TimeRange{Start: innerStart, Span: innerSpan}
	children, err := e.Variant.arrangeChildren(inner, opts)
	if err != nil {
		return Arranged{}, err
	}

	return Arranged{
		Element:  e,
		Range:    TimeRange{Start: outer.Start, Span: innerSpan + margin},
		Inner:    inner,
		Children: children,
	}, nil
}

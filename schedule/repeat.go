// repeat.go - Repeat lays Count back-to-back copies of a single shared
// child element, separated by Spacing. The child Element is a single DAG
// node referenced Count times; Arrange is pure with respect to it, so the
// sharing is safe even though each copy gets its own time range.
package schedule

import "github.com/waveforge/qpulse/quant"

type Repeat struct {
	Child   *Element
	Count   int
	Spacing quant.Time
}

func (r *Repeat) Channels() []quant.ChannelID { return r.Child.Channels() }

func (r *Repeat) measureVariant() quant.Time {
	if r.Count == 0 {
		return 0
	}
	d := r.Child.Measure()
	return quant.Time(r.Count)*d + quant.Time(r.Count-1)*r.Spacing
}

func (r *Repeat) arrangeChildren(inner TimeRange, opts Options) ([]Arranged, error) {
	if r.Count == 0 {
		return nil, nil
	}
	d := r.Child.Measure()
	out := make([]Arranged, r.Count)
	for i := 0; i < r.Count; i++ {
		start := inner.Start + quant.Time(i)*(d+r.Spacing)
		a, err := Arrange(r.Child, TimeRange{Start: start, Span: d}, opts)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

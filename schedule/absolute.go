// absolute.go - Absolute layout: each child sits at an explicit, fixed
// time offset from the container's own start, independent of its
// siblings; children may freely overlap.
package schedule

import "github.com/waveforge/qpulse/quant"

// AbsoluteChild places one element at a fixed offset from the container's start.
type AbsoluteChild struct {
	Element *Element
	Offset  quant.Time
}

type Absolute struct {
	Children    []AbsoluteChild
	ChannelList []quant.ChannelID
}

func (a *Absolute) Channels() []quant.ChannelID {
	if len(a.ChannelList) > 0 {
		return a.ChannelList
	}
	elems := make([]*Element, len(a.Children))
	for i, c := range a.Children {
		elems[i] = c.Element
	}
	return unionChannels(elems)
}

func (a *Absolute) measureVariant() quant.Time {
	var total quant.Time
	for _, c := range a.Children {
		end := c.Offset + c.Element.Measure()
		if end > total {
			total = end
		}
	}
	return total
}

func (a *Absolute) arrangeChildren(inner TimeRange, opts Options) ([]Arranged, error) {
	out := make([]Arranged, len(a.Children))
	for i, c := range a.Children {
		childRange := TimeRange{Start: inner.Start + c.Offset, Span: c.Element.Measure()}
		arranged, err := Arrange(c.Element, childRange, opts)
		if err != nil {
			return nil, err
		}
		out[i] = arranged
	}
	return out, nil
}

// stack.go - Stack layout: children are packed back-to-back per channel,
// each one starting no earlier than the point every channel it touches
// was last left at (a per-channel high-water mark), so overlapping
// channels serialize while disjoint channels run concurrently.
package schedule

import "github.com/waveforge/qpulse/quant"

// Stack lays its children out one after another along the channels they
// occupy. Forward packs from the start of the allotted range; Backward
// (the default) mirrors the same packing from the end.
type Stack struct {
	Children    []*Element
	Forward     bool
	ChannelList []quant.ChannelID
}

func (s *Stack) Channels() []quant.ChannelID {
	if len(s.ChannelList) > 0 {
		return s.ChannelList
	}
	return unionChannels(s.Children)
}

// measureVariant follows spec section 4.2: a per-channel high-water map
// accumulated in stack order; the result is its maximum. When the stack
// itself has no tracked channels (an empty Channels()), there is nothing
// to key a map on, so usage accumulates in a single running scalar instead
// — mirroring the original's Either::Left(0.0) scalar branch — and every
// child serializes after the last regardless of its own channel set.
func (s *Stack) measureVariant() quant.Time {
	scope := s.Channels()
	order := stackOrder(len(s.Children), s.Forward)

	if len(scope) == 0 {
		var scalar quant.Time
		for _, idx := range order {
			scalar += s.Children[idx].Measure()
		}
		return scalar
	}

	highWater := map[quant.ChannelID]quant.Time{}
	for _, idx := range order {
		child := s.Children[idx]
		channels := child.Channels()
		if len(channels) == 0 {
			channels = scope
		}
		var base quant.Time
		for _, c := range channels {
			if h, ok := highWater[c]; ok && h > base {
				base = h
			}
		}
		end := base + child.Measure()
		for _, c := range channels {
			highWater[c] = end
		}
	}
	var total quant.Time
	for _, h := range highWater {
		if h > total {
			total = h
		}
	}
	return total
}

func (s *Stack) arrangeChildren(inner TimeRange, opts Options) ([]Arranged, error) {
	scope := s.Channels()
	order := stackOrder(len(s.Children), s.Forward)
	out := make([]Arranged, len(s.Children))

	if len(scope) == 0 {
		var scalar quant.Time
		for _, idx := range order {
			child := s.Children[idx]
			base := scalar
			d := child.Measure()

			var start quant.Time
			if s.Forward {
				start = inner.Start + base
			} else {
				start = inner.Start + (inner.Span - base - d)
			}
			scalar = base + d

			a, err := Arrange(child, TimeRange{Start: start, Span: d}, opts)
			if err != nil {
				return nil, err
			}
			out[idx] = a
		}
		return out, nil
	}

	highWater := map[quant.ChannelID]quant.Time{}
	for _, idx := range order {
		child := s.Children[idx]
		channels := child.Channels()
		if len(channels) == 0 {
			channels = scope
		}
		var base quant.Time
		for _, c := range channels {
			if h, ok := highWater[c]; ok && h > base {
				base = h
			}
		}
		d := child.Measure()

		var start quant.Time
		if s.Forward {
			start = inner.Start + base
		} else {
			start = inner.Start + (inner.Span - base - d)
		}

		end := base + d
		for _, c := range channels {
			highWater[c] = end
		}

		a, err := Arrange(child, TimeRange{Start: start, Span: d}, opts)
		if err != nil {
			return nil, err
		}
		out[idx] = a
	}
	return out, nil
}

// stackOrder returns the effective processing order: identity for
// Forward, reversed for Backward.
func stackOrder(n int, forward bool) []int {
	order := make([]int, n)
	for i := range order {
		if forward {
			order[i] = i
		} else {
			order[i] = n - 1 - i
		}
	}
	return order
}

// plot.go - the pre-order projection used to visualize a schedule tree
// (spec section 4, Component J): walk the already-arranged tree emitting
// one Item per node with its channels, placement, nesting depth, variant
// kind, and inherited label.
//
// Unlike the execution engine, the projection does not skip phantom
// subtrees: a phantom node still occupies layout and is worth showing.
package plot

import (
	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/schedule"
)

// Kind identifies which of the eleven element variants a node is, for
// rendering without exposing the schedule package's own Variant type.
type Kind int

const (
	KindPlay Kind = iota
	KindShiftPhase
	KindSetPhase
	KindShiftFreq
	KindSetFreq
	KindSwapPhase
	KindBarrier
	KindRepeat
	KindStack
	KindAbsolute
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindPlay:
		return "Play"
	case KindShiftPhase:
		return "ShiftPhase"
	case KindSetPhase:
		return "SetPhase"
	case KindShiftFreq:
		return "ShiftFreq"
	case KindSetFreq:
		return "SetFreq"
	case KindSwapPhase:
		return "SwapPhase"
	case KindBarrier:
		return "Barrier"
	case KindRepeat:
		return "Repeat"
	case KindStack:
		return "Stack"
	case KindAbsolute:
		return "Absolute"
	case KindGrid:
		return "Grid"
	default:
		return "Unknown"
	}
}

func kindOf(v schedule.Variant) Kind {
	switch v.(type) {
	case *schedule.Play:
		return KindPlay
	case *schedule.ShiftPhase:
		return KindShiftPhase
	case *schedule.SetPhase:
		return KindSetPhase
	case *schedule.ShiftFreq:
		return KindShiftFreq
	case *schedule.SetFreq:
		return KindSetFreq
	case *schedule.SwapPhase:
		return KindSwapPhase
	case *schedule.Barrier:
		return KindBarrier
	case *schedule.Repeat:
		return KindRepeat
	case *schedule.Stack:
		return KindStack
	case *schedule.Absolute:
		return KindAbsolute
	case *schedule.Grid:
		return KindGrid
	default:
		panic("plot: unreachable element variant")
	}
}

// Item is one projected node: its occupied channels, its placement on the
// timeline, its pre-order nesting depth, its variant kind, and the nearest
// enclosing label (its own, or the closest ancestor's if it has none).
type Item struct {
	Channels []quant.ChannelID
	Start    quant.Time
	Span     quant.Time
	Depth    int
	Kind     Kind
	Label    quant.Label
}

// Project walks root in pre-order and returns one Item per node.
func Project(root schedule.Arranged) []Item {
	var items []Item
	visit(root, 0, quant.Label{}, &items)
	return items
}

func visit(a schedule.Arranged, depth int, inheritedLabel quant.Label, items *[]Item) {
	label := inheritedLabel
	if !a.Element.Common.Label.IsZero() {
		label = a.Element.Common.Label
	}
	*items = append(*items, Item{
		Channels: a.Element.Channels(),
		Start:    a.Inner.Start,
		Span:     a.Inner.Span,
		Depth:    depth,
		Kind:     kindOf(a.Element.Variant),
		Label:    label,
	})
	for _, child := range a.Children {
		visit(child, depth+1, label, items)
	}
}

// grid.go - Grid layout: a fixed set of columns (each Fixed, Auto, or
// Star-sized) with children placed at a column and column span. Sizing
// runs in two phases (spec section 4.3): Phase I (during measure) settles
// column sizes against each child's own measured duration; Phase II
// (during arrange) redistributes the final row duration across columns,
// again by the star-ratio rule, now using the whole row.
package schedule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
)

// GridLengthKind distinguishes the three ways a column can be sized.
type GridLengthKind int

const (
	GridAuto GridLengthKind = iota
	GridFixed
	GridStar
)

// GridLength is one column's sizing rule: Fixed carries a duration in
// Value, Star carries a sizing weight in Value, Auto ignores Value.
type GridLength struct {
	Kind  GridLengthKind
	Value float64
}

// ParseGridLength parses the shorthand grammar: "auto", "*", "<weight>*",
// or a plain number (a fixed duration in seconds). grid_length := "auto" |
// float? "*" | float.
func ParseGridLength(s string) (GridLength, error) {
	s = strings.TrimSpace(s)
	if s == "auto" || s == "" {
		return GridLength{Kind: GridAuto}, nil
	}
	if strings.HasSuffix(s, "*") {
		prefix := strings.TrimSuffix(s, "*")
		if prefix == "" {
			return GridLength{Kind: GridStar, Value: 1}, nil
		}
		weight, err := strconv.ParseFloat(prefix, 64)
		if err != nil || weight <= 0 {
			return GridLength{}, qerr.NewInvalidArgument("grid_length", "star weight must be positive: "+s)
		}
		return GridLength{Kind: GridStar, Value: weight}, nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || val < 0 {
		return GridLength{}, qerr.NewInvalidArgument("grid_length", "invalid fixed length: "+s)
	}
	return GridLength{Kind: GridFixed, Value: val}, nil
}

// GridChild places one element at a starting column, spanning Span columns.
type GridChild struct {
	Element *Element
	Column  int
	Span    int
}

// Grid arranges children into named columns on the schedule's shared
// timeline; all columns share the grid's own start and advance together
// as a single row.
type Grid struct {
	Columns     []GridLength
	Children    []GridChild
	ChannelList []quant.ChannelID
}

func (g *Grid) Channels() []quant.ChannelID {
	if len(g.ChannelList) > 0 {
		return g.ChannelList
	}
	return unionChannels(childElements(g.Children))
}

func (g *Grid) measureVariant() quant.Time {
	sizes := g.phase1()
	var total quant.Time
	for _, s := range sizes {
		total += s
	}
	return total
}

// normalizedSpan clamps a child's (column, span) into range: a column at
// or past the last column is placed in the last column; an overflowing
// span is truncated (spec section 4.3).
func (g *Grid) normalizedSpan(c GridChild) (col, span int) {
	n := len(g.Columns)
	col = c.Column
	if col >= n {
		col = n - 1
	}
	if col < 0 {
		col = 0
	}
	span = c.Span
	if span < 1 {
		span = 1
	}
	if col+span > n {
		span = n - col
	}
	return col, span
}

// phase1 settles Fixed/Auto/Star column sizes per spec section 4.3 Phase I.
func (g *Grid) phase1() []quant.Time {
	n := len(g.Columns)
	sizes := make([]quant.Time, n)
	for i, c := range g.Columns {
		if c.Kind == GridFixed {
			sizes[i] = quant.Time(c.Value)
		}
	}
	// Step 1: span == 1 children in an Auto column grow that column to fit.
	// A span == 1 child never sizes a Star column here; Star columns grow
	// only in step 2 (for spanning children) and in phase2, by ratio.
	for _, ch := range g.Children {
		col, span := g.normalizedSpan(ch)
		if span == 1 && g.Columns[col].Kind == GridAuto {
			d := ch.Element.Measure()
			if d > sizes[col] {
				sizes[col] = d
			}
		}
	}
	// Step 2: span > 1 children grow their span's Star columns (by
	// ratio-equalization) or, failing that, their Auto columns uniformly.
	for _, ch := range g.Children {
		col, span := g.normalizedSpan(ch)
		if span <= 1 {
			continue
		}
		var sum quant.Time
		var starCols, autoCols []int
		for k := 0; k < span; k++ {
			c := col + k
			sum += sizes[c]
			switch g.Columns[c].Kind {
			case GridStar:
				starCols = append(starCols, c)
			case GridAuto:
				autoCols = append(autoCols, c)
			}
		}
		need := ch.Element.Measure() - sum
		if need <= 0 {
			continue
		}
		if len(starCols) > 0 {
			equalizeStars(sizes, g.Columns, starCols, need)
		} else if len(autoCols) > 0 {
			share := need / quant.Time(len(autoCols))
			for _, c := range autoCols {
				sizes[c] += share
			}
		}
	}
	return sizes
}

// phase2 redistributes d (the grid's final allotted row duration) across
// the whole row's Star columns by ratio, after reserving the Fixed/Auto
// sizes settled in phase1 (spec section 4.3 Phase II).
func (g *Grid) phase2(d quant.Time) []quant.Time {
	sizes := g.phase1()
	var sum quant.Time
	for _, s := range sizes {
		sum += s
	}
	need := d - sum
	if need > 0 {
		var starCols []int
		for i, c := range g.Columns {
			if c.Kind == GridStar {
				starCols = append(starCols, i)
			}
		}
		equalizeStars(sizes, g.Columns, starCols, need)
	}
	return sizes
}

// equalizeStars distributes need across cols (all Star columns) so that,
// afterward, size[c]/weight[c] is as equal as possible across cols without
// ever shrinking a column (spec section 4.3's "raise the smallest ratio"
// water-filling rule).
func equalizeStars(sizes []quant.Time, columns []GridLength, cols []int, need quant.Time) {
	if need <= 0 || len(cols) == 0 {
		return
	}
	type item struct {
		col    int
		ratio  float64
		weight float64
	}
	items := make([]item, len(cols))
	for i, c := range cols {
		items[i] = item{col: c, ratio: float64(sizes[c]) / columns[c].Value, weight: columns[c].Value}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ratio < items[j].ratio })

	remaining := float64(need)
	n := len(items)
	for i := 0; i < n && remaining > 1e-15; {
		k := i + 1
		for k < n && items[k].ratio <= items[i].ratio+1e-15 {
			k++
		}
		var groupWeight float64
		for j := i; j < k; j++ {
			groupWeight += items[j].weight
		}
		if k >= n {
			for j := i; j < k; j++ {
				items[j].ratio += remaining / groupWeight
			}
			remaining = 0
			break
		}
		delta := (items[k].ratio - items[i].ratio) * groupWeight
		if delta >= remaining {
			for j := i; j < k; j++ {
				items[j].ratio += remaining / groupWeight
			}
			remaining = 0
			break
		}
		for j := i; j < k; j++ {
			items[j].ratio = items[k].ratio
		}
		remaining -= delta
		i = k
	}
	for _, it := range items {
		sizes[it.col] = quant.Time(it.ratio * it.weight)
	}
}

func (g *Grid) arrangeChildren(inner TimeRange, opts Options) ([]Arranged, error) {
	sizes := g.phase2(inner.Span)
	offsets := make([]quant.Time, len(sizes)+1)
	for i, s := range sizes {
		offsets[i+1] = offsets[i] + s
	}
	out := make([]Arranged, len(g.Children))
	for i, ch := range g.Children {
		col, span := g.normalizedSpan(ch)
		var w quant.Time
		for k := 0; k < span; k++ {
			w += sizes[col+k]
		}
		childMeasure := ch.Element.Measure()

		var childDur, offset quant.Time
		switch ch.Element.Common.Alignment {
		case AlignStretch:
			childDur = w
			offset = 0
		default:
			childDur = childMeasure
			if childDur > w {
				childDur = w
			}
			switch ch.Element.Common.Alignment {
			case AlignStart:
				offset = 0
			case AlignCenter:
				offset = (w - childDur) / 2
			default: // AlignEnd
				offset = w - childDur
			}
		}

		start := inner.Start + offsets[col] + offset
		a, err := Arrange(ch.Element, TimeRange{Start: start, Span: childDur}, opts)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func childElements(children []GridChild) []*Element {
	out := make([]*Element, len(children))
	for i, c := range children {
		out[i] = c.Element
	}
	return out
}

func unionChannels(elems []*Element) []quant.ChannelID {
	set := map[quant.ChannelID]bool{}
	var out []quant.ChannelID
	for _, e := range elems {
		for _, c := range e.Channels() {
			if !set[c] {
				set[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

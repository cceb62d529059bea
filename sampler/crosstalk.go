// crosstalk.go - crosstalk-row merging: scale each source channel's pulse
// list by the crosstalk matrix row entry and merge the results into one
// list (spec section 4.7).
package sampler

import (
	"github.com/waveforge/qpulse/pulse"
	"github.com/waveforge/qpulse/quant"
)

// mergeCrosstalkRow builds the effective pulse list for the channel at
// crosstalk row `row`: every source list scaled by its matrix weight, with
// zero-weight sources skipped entirely. The merge and the
// timeTolerance-coalesce (earliest-time-wins, per pulse.PulseListBuilder)
// are both delegated to PulseListBuilder rather than a hand-rolled k-way
// merge, since Push/Build already implement exactly that contract.
func mergeCrosstalkRow(ct *Crosstalk, lists map[quant.ChannelID]pulse.PulseList, row int, timeTolerance quant.Time) pulse.PulseList {
	b := pulse.NewPulseListBuilder(0, timeTolerance)
	for col, name := range ct.Names {
		weight := ct.Matrix.At(row, col)
		if weight == 0 {
			continue
		}
		list, ok := lists[name]
		if !ok {
			continue
		}
		w := complex(weight, 0)
		for key, events := range list.Bins {
			for _, ev := range events {
				b.Push(key, ev.Time, pulse.PulseAmplitude{Amp: ev.Amp.Amp * w, Drag: ev.Amp.Drag * w})
			}
		}
	}
	return b.Build()
}

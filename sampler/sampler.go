// sampler.go - the sampler: turns each channel's built PulseList into a
// dense n_w x length real waveform buffer (spec section 4.7). One Sampler
// owns every channel for a single generate call; SampleAll fans the work
// out one goroutine per channel over a worker pool, matching the teacher's
// coprocessor worker pattern (coproc_worker_*.go: each worker owns its own
// memory region, a manager fans out and joins).
package sampler

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/waveforge/qpulse/pulse"
	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
)

// ChannelConfig is the per-channel sampling configuration (spec section
// 4.7's "channel config").
type ChannelConfig struct {
	SampleRate quant.Frequency
	Length     int
	Delay      quant.Time
	AlignLevel int
	IsReal     bool
}

// NumWaveRows is n_w: 1 for a real channel's single row, 2 for a complex
// channel's interleaved I/Q rows.
func (c ChannelConfig) NumWaveRows() int {
	if c.IsReal {
		return 1
	}
	return 2
}

// Crosstalk is the optional N x N scaling matrix plus the channel ids that
// index its rows and columns (spec section 4.7's crosstalk contract).
type Crosstalk struct {
	Matrix *mat.Dense
	Names  []quant.ChannelID
}

func (c *Crosstalk) rowIndex(id quant.ChannelID) (int, bool) {
	for i, n := range c.Names {
		if n == id {
			return i, true
		}
	}
	return -1, false
}

// Sampler owns one waveform buffer per registered channel and the
// read-only pulse lists every channel (including ones with no buffer, when
// acting purely as a crosstalk source) may draw from.
type Sampler struct {
	lists     map[quant.ChannelID]pulse.PulseList
	configs   map[quant.ChannelID]ChannelConfig
	buffers   map[quant.ChannelID][][]float64
	crosstalk *Crosstalk
}

// New creates a Sampler over the given per-channel pulse lists (typically
// exec.Executor.Result's first return value).
func New(lists map[quant.ChannelID]pulse.PulseList) *Sampler {
	return &Sampler{
		lists:   lists,
		configs: make(map[quant.ChannelID]ChannelConfig),
		buffers: make(map[quant.ChannelID][][]float64),
	}
}

// AddChannel registers a channel's sampling config and allocates its
// n_w x length zeroed output buffer.
func (s *Sampler) AddChannel(id quant.ChannelID, cfg ChannelConfig) {
	rows := make([][]float64, cfg.NumWaveRows())
	for i := range rows {
		rows[i] = make([]float64, cfg.Length)
	}
	s.configs[id] = cfg
	s.buffers[id] = rows
}

// SetCrosstalk installs the optional crosstalk matrix and its channel-id
// row/column labels.
func (s *Sampler) SetCrosstalk(matrix *mat.Dense, names []quant.ChannelID) error {
	r, c := matrix.Dims()
	if r != c || r != len(names) {
		return qerr.NewInvalidArgument("crosstalk", "matrix must be N x N matching the given channel id list")
	}
	s.crosstalk = &Crosstalk{Matrix: matrix, Names: names}
	return nil
}

// Buffers returns the sampled waveform for every registered channel, as
// n_w rows of length cfg.Length. Valid only after SampleAll returns nil.
func (s *Sampler) Buffers() map[quant.ChannelID][][]float64 { return s.buffers }

// SampleAll samples every registered channel in parallel, one goroutine
// per channel joined with first-error semantics (spec section 5: sampling
// is data-parallel across a worker pool, each worker owning one channel's
// buffer exclusively).
func (s *Sampler) SampleAll(timeTolerance quant.Time) error {
	var g errgroup.Group
	for id, cfg := range s.configs {
		id, cfg := id, cfg
		g.Go(func() error {
			return s.sampleChannel(id, cfg, timeTolerance)
		})
	}
	return g.Wait()
}

func (s *Sampler) sampleChannel(id quant.ChannelID, cfg ChannelConfig, timeTolerance quant.Time) error {
	buf := s.buffers[id]
	list, ok := s.resolveList(id, timeTolerance)
	if !ok {
		return nil
	}
	samplePulseList(list, buf, cfg)
	return nil
}

// resolveList returns the effective pulse list for a channel: the
// crosstalk-merged list if the channel's id is a configured crosstalk row,
// otherwise its own pulse list unscaled.
func (s *Sampler) resolveList(id quant.ChannelID, timeTolerance quant.Time) (pulse.PulseList, bool) {
	if s.crosstalk != nil {
		if row, ok := s.crosstalk.rowIndex(id); ok {
			return mergeCrosstalkRow(s.crosstalk, s.lists, row, timeTolerance), true
		}
	}
	list, ok := s.lists[id]
	return list, ok
}

// postproc.go - per-channel post-processing (spec section 4.8): an
// optional IQ mix, then filters and a DC offset in an order that depends
// on filter_offset, applied to each channel's sampled waveform in place.
// ApplyAll fans the per-channel work out one goroutine per channel, the
// same shape as sampler.SampleAll.
package postproc

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
)

// Config is one channel's post-processing settings (spec section 4.8 /
// 6's Channel fields relevant after sampling).
type Config struct {
	IQMatrix     *mat.Dense // 2x2, nil means none
	Offset       []float64  // length 1 (real) or 2 (complex), nil means none
	IIR          *mat.Dense // N x 6 SOS rows, nil means none
	FIR          []float64  // taps, nil means none
	FilterOffset bool
	IsReal       bool
}

// Apply runs one channel's post-processing pipeline in place over its
// n_w x length waveform rows.
func Apply(rows [][]float64, cfg Config) error {
	if cfg.IQMatrix != nil {
		if cfg.IsReal {
			return qerr.NewInvalidArgument("iq_matrix", "real channels cannot carry an iq_matrix")
		}
		if err := iqMixInplace(rows, cfg.IQMatrix); err != nil {
			return err
		}
	}

	if cfg.FilterOffset {
		if err := addOffset(rows, cfg.Offset, cfg.IsReal); err != nil {
			return err
		}
		if err := applyFilters(rows, cfg); err != nil {
			return err
		}
		return nil
	}

	if err := applyFilters(rows, cfg); err != nil {
		return err
	}
	return addOffset(rows, cfg.Offset, cfg.IsReal)
}

func applyFilters(rows [][]float64, cfg Config) error {
	if cfg.IIR != nil {
		if err := iirFilterInplace(rows, cfg.IIR); err != nil {
			return err
		}
	}
	if cfg.FIR != nil {
		firFilterInplace(rows, cfg.FIR)
	}
	return nil
}

// ApplyAll runs Apply for every channel in parallel, joined with
// first-error semantics.
func ApplyAll(configs map[quant.ChannelID]Config, buffers map[quant.ChannelID][][]float64) error {
	var g errgroup.Group
	for id, cfg := range configs {
		id, cfg := id, cfg
		g.Go(func() error {
			return Apply(buffers[id], cfg)
		})
	}
	return g.Wait()
}

func addOffset(rows [][]float64, offset []float64, isReal bool) error {
	if offset == nil {
		return nil
	}
	if isReal && len(offset) != 1 {
		return qerr.NewInvalidArgument("offset", "must have length 1 for a real channel")
	}
	if !isReal && len(offset) != 2 {
		return qerr.NewInvalidArgument("offset", "must have length 2 for a complex channel")
	}
	for i, row := range rows {
		if i >= len(offset) {
			break
		}
		o := offset[i]
		for j := range row {
			row[j] += o
		}
	}
	return nil
}

func iqMixInplace(rows [][]float64, m *mat.Dense) error {
	r, c := m.Dims()
	if r != 2 || c != 2 {
		return qerr.NewInvalidArgument("iq_matrix", "must be 2x2")
	}
	if len(rows) != 2 {
		return qerr.NewInvalidArgument("iq_matrix", "channel must have 2 waveform rows")
	}
	m00, m01 := m.At(0, 0), m.At(0, 1)
	m10, m11 := m.At(1, 0), m.At(1, 1)
	i, q := rows[0], rows[1]
	for n := range i {
		i0, q0 := i[n], q[n]
		i[n] = m00*i0 + m01*q0
		q[n] = m10*i0 + m11*q0
	}
	return nil
}

// qpulse.go - the public entry point (spec section 6): one synchronous
// call wiring the schedule, execution, sampling and post-processing
// packages together. Mirrors the teacher's register-default constructor
// pattern (NewPSGEngine seeding its defaults in one struct literal) rather
// than a flags/env layer, since this library takes no file I/O, no CLI,
// and no environment variables.
package qpulse

import (
	"gonum.org/v1/gonum/mat"

	"github.com/waveforge/qpulse/exec"
	"github.com/waveforge/qpulse/postproc"
	"github.com/waveforge/qpulse/pulse"
	"github.com/waveforge/qpulse/qerr"
	"github.com/waveforge/qpulse/quant"
	"github.com/waveforge/qpulse/sampler"
	"github.com/waveforge/qpulse/schedule"
	"github.com/waveforge/qpulse/shape"
)

// Channel is the per-channel configuration recognized by GenerateWaveforms
// (spec section 6). Defaults match the spec: Delay=0, FilterOffset=false,
// IsReal=false; NewChannel additionally seeds AlignLevel=-10.
type Channel struct {
	BaseFreq     quant.Frequency
	SampleRate   quant.Frequency
	Length       int
	Delay        quant.Time
	AlignLevel   int
	IQMatrix     *mat.Dense // optional 2x2, complex channels only
	Offset       []float64  // optional, length 1 (real) or 2 (complex)
	IIR          *mat.Dense // optional N x 6 SOS rows
	FIR          []float64  // optional taps
	FilterOffset bool
	IsReal       bool
}

// NewChannel builds a Channel with the spec's defaults, requiring only the
// fields with no sensible default.
func NewChannel(baseFreq, sampleRate quant.Frequency, length int) Channel {
	return Channel{BaseFreq: baseFreq, SampleRate: sampleRate, Length: length, AlignLevel: -10}
}

// Validate checks the construction-time invariants from spec section 4.8:
// a real channel cannot carry an iq_matrix, and an offset's length must
// match the channel's real/complex width.
func (c Channel) Validate() error {
	if c.SampleRate <= 0 {
		return qerr.NewInvalidArgument("sample_rate", "must be > 0")
	}
	if c.IsReal && c.IQMatrix != nil {
		return qerr.NewInvalidArgument("iq_matrix", "must be unset when is_real is true")
	}
	if c.Offset != nil {
		if c.IsReal && len(c.Offset) != 1 {
			return qerr.NewInvalidArgument("offset", "must have length 1 when is_real is true")
		}
		if !c.IsReal && len(c.Offset) != 2 {
			return qerr.NewInvalidArgument("offset", "must have length 2 when is_real is false")
		}
	}
	return nil
}

// Crosstalk is the optional N x N scaling matrix plus the channel ids that
// index its rows and columns (spec section 4.7).
type Crosstalk struct {
	Matrix *mat.Dense
	Names  []quant.ChannelID
}

// GenerateOptions carries the knobs of spec section 6's external
// interface, with DefaultGenerateOptions seeding the spec's defaults.
type GenerateOptions struct {
	TimeTolerance quant.Time
	AmpTolerance  float64
	AllowOversize bool
	Crosstalk     *Crosstalk
	States        map[quant.ChannelID]pulse.OscState
}

// DefaultGenerateOptions returns the spec's defaulted option set:
// time_tolerance=1e-12, amp_tolerance=0.1/65536, allow_oversize=false.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{TimeTolerance: quant.Time(1e-12), AmpTolerance: 0.1 / 65536}
}

// GenerateWaveforms runs GenerateWaveformsWithStates and discards the
// final oscillator states.
func GenerateWaveforms(channels map[quant.ChannelID]Channel, shapes map[quant.ShapeID]shape.Shape, root *schedule.Element, opts GenerateOptions) (map[quant.ChannelID][][]float64, error) {
	waveforms, _, err := GenerateWaveformsWithStates(channels, shapes, root, opts)
	return waveforms, err
}

// GenerateWaveformsWithStates is the library's one synchronous entry
// point (spec section 6): arrange the schedule, execute it into
// per-channel pulse lists, sample those lists into dense waveform
// buffers, post-process each channel, and return both the waveforms and
// the final oscillator state of every channel.
func GenerateWaveformsWithStates(
	channels map[quant.ChannelID]Channel,
	shapes map[quant.ShapeID]shape.Shape,
	root *schedule.Element,
	opts GenerateOptions,
) (map[quant.ChannelID][][]float64, map[quant.ChannelID]pulse.OscState, error) {
	for _, ch := range channels {
		if err := ch.Validate(); err != nil {
			return nil, nil, err
		}
	}

	ex := exec.New(opts.AmpTolerance, opts.TimeTolerance, opts.AllowOversize)
	for id, ch := range channels {
		var initial *pulse.OscState
		if opts.States != nil {
			if st, ok := opts.States[id]; ok {
				s := st
				initial = &s
			}
		}
		ex.AddChannel(id, ch.BaseFreq, initial)
	}
	for id, sh := range shapes {
		ex.AddShape(id, sh)
	}

	arranged, err := schedule.Arrange(root, schedule.TimeRange{Start: 0, Span: root.Measure()}, schedule.Options{
		TimeTolerance: opts.TimeTolerance,
		AllowOversize: opts.AllowOversize,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := ex.Execute(arranged); err != nil {
		return nil, nil, err
	}
	lists, states := ex.Result()

	samp := sampler.New(lists)
	for id, ch := range channels {
		samp.AddChannel(id, sampler.ChannelConfig{
			SampleRate: ch.SampleRate,
			Length:     ch.Length,
			Delay:      ch.Delay,
			AlignLevel: ch.AlignLevel,
			IsReal:     ch.IsReal,
		})
	}
	if opts.Crosstalk != nil {
		if err := samp.SetCrosstalk(opts.Crosstalk.Matrix, opts.Crosstalk.Names); err != nil {
			return nil, nil, err
		}
	}
	if err := samp.SampleAll(opts.TimeTolerance); err != nil {
		return nil, nil, err
	}
	buffers := samp.Buffers()

	postCfgs := make(map[quant.ChannelID]postproc.Config, len(channels))
	for id, ch := range channels {
		postCfgs[id] = postproc.Config{
			IQMatrix:     ch.IQMatrix,
			Offset:       ch.Offset,
			IIR:          ch.IIR,
			FIR:          ch.FIR,
			FilterOffset: ch.FilterOffset,
			IsReal:       ch.IsReal,
		}
	}
	if err := postproc.ApplyAll(postCfgs, buffers); err != nil {
		return nil, nil, err
	}

	return buffers, states, nil
}

// mix.go - the per-pulse carrier mixing kernels (spec section 4.7): walk a
// built PulseList and accumulate each event's rotating carrier into the
// channel's waveform buffer, either shaped (mix-and-add envelope) or flat
// (mix-and-add plateau).
//
// A real channel's buffer has one row; a complex channel's has two
// (interleaved I, Q). Both kernels always compute the full complex sample
// but only ever write rows that exist in the destination buffer, so a real
// channel simply keeps the in-phase component and the quadrature part is
// never materialized.
package sampler

import (
	"math"
	"math/cmplx"

	"github.com/waveforge/qpulse/pulse"
	"github.com/waveforge/qpulse/quant"
)

const tau = 2 * math.Pi

// samplePulseList accumulates every bin/event in list into rows, per spec
// section 4.7's alignment and phase-origin formulas.
func samplePulseList(list pulse.PulseList, rows [][]float64, cfg ChannelConfig) {
	if len(rows) == 0 || cfg.Length == 0 {
		return
	}
	sampleRate := cfg.SampleRate
	dt := 1.0 / sampleRate.Value()

	for key, events := range list.Bins {
		for _, ev := range events {
			tStart := ev.Time + cfg.Delay
			idx := quant.NewAlignedIndex(tStart, sampleRate, cfg.AlignLevel)
			iStart := idx.Ceil()
			indexOffset := idx.IndexOffset()

			globalFreq := key.GlobalFreq.Value()
			localFreq := key.LocalFreq.Value()
			totalFreq := globalFreq + localFreq

			phase0 := (globalFreq*(float64(iStart)*dt-cfg.Delay.Value()) + localFreq*indexOffset*dt) * tau
			dphase := totalFreq * dt * tau

			if iStart >= cfg.Length || iStart < 0 {
				continue
			}
			dst := sliceRows(rows, iStart)

			if key.Envelope.Shape != nil {
				envelope := getEnvelope(*key.Envelope.Shape, key.Envelope.Width, key.Envelope.Plateau, indexOffset, sampleRate)
				drag := ev.Amp.Drag * complex(sampleRate.Value(), 0)
				mixAddEnvelope(dst, envelope, ev.Amp.Amp, drag, phase0, dphase)
			} else {
				iPlateau := int(math.Ceil(key.Envelope.Plateau.Value() * sampleRate.Value()))
				mixAddPlateau(sliceRowsLimit(dst, iPlateau), ev.Amp.Amp, phase0, dphase)
			}
		}
	}
}

// sliceRows returns rows sliced from column start to the end of the
// buffer, preserving the row count.
func sliceRows(rows [][]float64, start int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if start >= len(r) {
			out[i] = r[len(r):]
			continue
		}
		out[i] = r[start:]
	}
	return out
}

// sliceRowsLimit caps each row's length at n (used for the plateau-only
// kernel, which never samples an overhanging shape edge).
func sliceRowsLimit(rows [][]float64, n int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if n < len(r) {
			out[i] = r[:n]
		} else {
			out[i] = r
		}
	}
	return out
}

// mixAddEnvelope implements spec section 4.7's mix-and-add-envelope
// kernel: a centered-difference slope drives the DRAG term, and the
// carrier is advanced multiplicatively sample by sample.
func mixAddEnvelope(rows [][]float64, envelope []float64, amplitude, dragAmp complex128, phase0, dphase float64) {
	n := len(envelope)
	for _, r := range rows {
		if len(r) < n {
			n = len(r)
		}
	}
	carrier := cmplx.Rect(1, phase0)
	dcarrier := cmplx.Rect(1, dphase)
	for i := 0; i < n; i++ {
		var left, right float64
		if i > 0 {
			left = envelope[i-1]
		}
		if i < len(envelope)-1 {
			right = envelope[i+1]
		}
		slope := (right - left) / 2
		w := carrier * (amplitude*complex(envelope[i], 0) + dragAmp*complex(slope, 0))
		rows[0][i] += real(w)
		if len(rows) > 1 {
			rows[1][i] += imag(w)
		}
		carrier *= dcarrier
	}
}

// mixAddPlateau implements spec section 4.7's mix-and-add-plateau kernel:
// a rectangular pulse with no shape and no DRAG term.
func mixAddPlateau(rows [][]float64, amplitude complex128, phase, dphase float64) {
	n := 0
	if len(rows) > 0 {
		n = len(rows[0])
	}
	carrier := cmplx.Rect(1, phase) * amplitude
	dcarrier := cmplx.Rect(1, dphase)
	for i := 0; i < n; i++ {
		rows[0][i] += real(carrier)
		if len(rows) > 1 {
			rows[1][i] += imag(carrier)
		}
		carrier *= dcarrier
	}
}

// oscillator.go - per-channel oscillator state and its transformations.
//
// The frequency and swap transformations follow the "shift to t / modify /
// shift back" idiom (spec section 4.5/4.6): the channel's phase is advanced
// to the instant of the operation using total_freq, the operation's own
// delta is applied, and the phase is shifted back so continuity holds
// across the instant. SetPhaseAt uses delta_freq only, and ShiftPhaseBy
// adds to the phase with no time shift.
package pulse

import "github.com/waveforge/qpulse/quant"

// OscState is the running oscillator state of one channel: a fixed carrier
// (BaseFreq) plus a mutable detuning (DeltaFreq) and accumulated Phase.
type OscState struct {
	BaseFreq  quant.Frequency
	DeltaFreq quant.Frequency
	Phase     quant.Phase
}

// TotalFreq is BaseFreq+DeltaFreq.
func (s OscState) TotalFreq() quant.Frequency { return s.BaseFreq + s.DeltaFreq }

// PhaseAt returns phase + delta_freq*t, the quantity SetPhase adjusts.
func (s OscState) PhaseAt(t quant.Time) quant.Phase {
	return s.Phase + s.DeltaFreq.MulTime(t)
}

// ShiftPhaseBy adds delta to the accumulated phase, instantaneously.
func (s OscState) ShiftPhaseBy(delta quant.Phase) OscState {
	s.Phase += delta
	return s
}

// SetPhaseAt sets phase such that delta_freq*t+phase == target, at time t,
// ignoring base_freq (spec section 4.5).
func (s OscState) SetPhaseAt(target quant.Phase, t quant.Time) OscState {
	s.Phase = target - s.DeltaFreq.MulTime(t)
	return s
}

// ShiftFreqBy adds delta to delta_freq at time t, preserving phase
// continuity: phase -= delta*t, delta_freq += delta.
func (s OscState) ShiftFreqBy(delta quant.Frequency, t quant.Time) OscState {
	phaseAtT := s.Phase + s.TotalFreq().MulTime(t)
	s.DeltaFreq += delta
	s.Phase = phaseAtT - s.TotalFreq().MulTime(t)
	return s
}

// SetFreqAt sets delta_freq to freq at time t, analogous to ShiftFreqBy with
// delta = freq - delta_freq.
func (s OscState) SetFreqAt(freq quant.Frequency, t quant.Time) OscState {
	return s.ShiftFreqBy(freq-s.DeltaFreq, t)
}

// SwapPhaseAt exchanges the phase_at(t) value between a and b, per spec
// section 4.5: a' = b.phase + (b.total-a.total)*t, b' = a.phase +
// (a.total-b.total)*t.
func SwapPhaseAt(a, b OscState, t quant.Time) (OscState, OscState) {
	aTotal, bTotal := a.TotalFreq(), b.TotalFreq()
	newA, newB := a, b
	newA.Phase = b.Phase + (bTotal - aTotal).MulTime(t)
	newB.Phase = a.Phase + (aTotal - bTotal).MulTime(t)
	return newA, newB
}

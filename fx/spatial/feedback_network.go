package spatial

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// FeedbackNetwork is engine id 52: a 4-node cross-coupled delay matrix
// (Householder-style feedback mixing), giving a dense, metallic, endlessly
// recirculating texture distinct from the smoother reverbTank diffusion
// network. 6 params.
type FeedbackNetwork struct {
	fx.Base
	nodes [4]*dsp.DelayLine
	damp  [4]dsp.OnePole
	lfo   dsp.LFO
}

var feedbackNetworkParamNames = []string{"Size", "Feedback", "Damping", "Mix", "Spread", "Modulation"}
var feedbackNetworkDefaults = []float64{0.5, 0.6, 0.4, 0.4, 0.5, 0.1}

var feedbackNetworkLengthsMs = [4]float64{17.3, 23.9, 31.7, 41.3}

// NewFeedbackNetwork constructs engine id 52.
func NewFeedbackNetwork() *FeedbackNetwork {
	return &FeedbackNetwork{Base: fx.NewBase("Feedback Network", feedbackNetworkParamNames, feedbackNetworkDefaults)}
}

func (e *FeedbackNetwork) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	for i := range e.nodes {
		maxSamples := int(feedbackNetworkLengthsMs[i]*2.5*sampleRate/1000) + 4
		e.nodes[i] = dsp.NewDelayLine(maxSamples)
	}
}

func (e *FeedbackNetwork) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *FeedbackNetwork) Reset() {
	for i := range e.nodes {
		e.nodes[i].Reset()
		e.damp[i].Reset()
	}
	e.lfo.Reset()
	e.ResetSmoothers()
}

// householderMix applies a 4x4 Householder reflection, a standard
// lossless feedback-matrix building block for multi-tap reverberators.
func householderMix(v [4]float64) [4]float64 {
	sum := v[0] + v[1] + v[2] + v[3]
	h := sum * 0.5
	return [4]float64{h - v[0], h - v[1], h - v[2], h - v[3]}
}

func (e *FeedbackNetwork) Process(buf *fx.Buffer) {
	n := buf.Len()
	e.lfo.SetRate(0.2, e.SampleRate)

	for i := 0; i < n; i++ {
		size := 0.5 + e.Param(0)*1.5
		feedback := dsp.Clamp(e.Param(1), 0, 0.97)
		dampingCut := dsp.HzFromNormalized(1-e.Param(2), 1000, 16000)
		mix := e.Param(3)
		spread := e.Param(4)
		modDepth := e.Param(5)

		for k := range e.damp {
			e.damp[k].SetCutoff(dampingCut, e.SampleRate)
		}

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		wobble := 1 + e.lfo.Next()*0.02*modDepth

		var reads [4]float64
		for k := 0; k < 4; k++ {
			delaySamples := feedbackNetworkLengthsMs[k] * size * wobble * e.SampleRate / 1000
			reads[k] = e.nodes[k].Read(delaySamples)
		}

		mixed := householderMix(reads)

		inject := (l + r) * 0.5
		for k := 0; k < 4; k++ {
			damped := e.damp[k].Lowpass(mixed[k] * feedback)
			e.nodes[k].Write(damped + inject*0.25)
		}

		wetL := reads[0] + reads[2]*spread
		wetR := reads[1] + reads[3]*spread

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

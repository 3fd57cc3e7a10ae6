// Package delay implements the time-based echo and reverb engines of spec
// §4.3.1 ids 34-43. Feedback-bearing engines clamp their feedback
// coefficient to <= 0.95 per the category's audible contract (spec §4.3.2).
package delay

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

const maxFeedback = 0.95

// TapeEcho is engine id 34: a single-tap delay with wow/flutter pitch
// instability, a damping filter in the feedback loop, and soft saturation
// on each repeat, modeled on a tape-transport echo unit. 6 params.
type TapeEcho struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	wowLFO       dsp.LFO
	toneL, toneR dsp.OnePole
}

var tapeEchoParamNames = []string{"Time", "Feedback", "Wow/Flutter", "Tone", "Mix", "Saturation"}
var tapeEchoDefaults = []float64{0.35, 0.4, 0.2, 0.5, 0.35, 0.3}

// NewTapeEcho constructs engine id 34.
func NewTapeEcho() *TapeEcho {
	return &TapeEcho{Base: fx.NewBase("Tape Echo", tapeEchoParamNames, tapeEchoDefaults)}
}

func (e *TapeEcho) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*2.5) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
	e.wowLFO.SetShape(dsp.LFOSine)
	e.wowLFO.SetRate(0.6, sampleRate)
}

func (e *TapeEcho) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *TapeEcho) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.wowLFO.Reset()
	e.toneL.Reset()
	e.toneR.Reset()
	e.ResetSmoothers()
}

func (e *TapeEcho) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		timeMs := dsp.TimeFromNormalized(e.Param(0), 0.05, 1.5) * 1000
		feedback := dsp.Clamp(e.Param(1), 0, maxFeedback)
		wowDepth := e.Param(2) * 0.015
		toneHz := dsp.HzFromNormalized(e.Param(3), 800, 8000)
		mix := e.Param(4)
		saturation := 1 + e.Param(5)*8

		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		baseDelay := timeMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		wow := e.wowLFO.Next() * wowDepth * baseDelay
		delaySamples := dsp.Clamp(baseDelay+wow, 1, float64(e.lineL.Len()-1))

		echoL := e.lineL.Read(delaySamples)
		echoR := e.lineR.Read(delaySamples)

		dampedL := e.toneL.Lowpass(echoL)
		dampedR := e.toneR.Lowpass(echoR)
		fedBackL := math.Tanh(dampedL*saturation) / math.Tanh(saturation)
		fedBackR := math.Tanh(dampedR*saturation) / math.Tanh(saturation)

		e.lineL.Write(l + fedBackL*feedback)
		e.lineR.Write(r + fedBackR*feedback)

		outL := echoL*mix + l*(1-mix)
		outR := echoR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

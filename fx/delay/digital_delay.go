package delay

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// DigitalDelay is engine id 35: a clean, optionally ping-ponging delay with
// a tone-shaping filter in the feedback path. 6 params.
type DigitalDelay struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	toneL, toneR dsp.OnePole
}

var digitalDelayParamNames = []string{"Time", "Feedback", "Tone", "Ping Pong", "Mix", "Mod Depth"}
var digitalDelayDefaults = []float64{0.3, 0.35, 0.7, 0.0, 0.35, 0.0}

// NewDigitalDelay constructs engine id 35.
func NewDigitalDelay() *DigitalDelay {
	return &DigitalDelay{Base: fx.NewBase("Digital Delay", digitalDelayParamNames, digitalDelayDefaults)}
}

func (e *DigitalDelay) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*2.0) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
}

func (e *DigitalDelay) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *DigitalDelay) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.toneL.Reset()
	e.toneR.Reset()
	e.ResetSmoothers()
}

func (e *DigitalDelay) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		timeMs := dsp.TimeFromNormalized(e.Param(0), 0.01, 1.8) * 1000
		feedback := dsp.Clamp(e.Param(1), 0, maxFeedback)
		toneHz := dsp.HzFromNormalized(e.Param(2), 1000, 18000)
		pingPong := e.Param(3)
		mix := e.Param(4)

		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		delaySamples := timeMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		echoL := e.lineL.Read(delaySamples)
		echoR := e.lineR.Read(delaySamples)
		dampedL := e.toneL.Lowpass(echoL)
		dampedR := e.toneR.Lowpass(echoR)

		crossL := dampedL*(1-pingPong) + dampedR*pingPong
		crossR := dampedR*(1-pingPong) + dampedL*pingPong

		e.lineL.Write(l + crossL*feedback)
		e.lineR.Write(r + crossR*feedback)

		outL := echoL*mix + l*(1-mix)
		outR := echoR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

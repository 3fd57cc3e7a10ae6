package delay

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// MagneticDrumEcho is engine id 36: emulates a rotating-drum multi-head echo
// unit by summing several fixed-ratio taps off one delay line, each with a
// lightly different drive and damping. 5 params.
type MagneticDrumEcho struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	toneL, toneR dsp.OnePole
}

var drumEchoParamNames = []string{"Time", "Feedback", "Heads", "Tone", "Mix"}
var drumEchoDefaults = []float64{0.3, 0.35, 0.5, 0.6, 0.35}

var headRatios = []float64{1.0, 1.5, 2.0, 2.5}

// NewMagneticDrumEcho constructs engine id 36.
func NewMagneticDrumEcho() *MagneticDrumEcho {
	return &MagneticDrumEcho{Base: fx.NewBase("Magnetic Drum Echo", drumEchoParamNames, drumEchoDefaults)}
}

func (e *MagneticDrumEcho) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*2.5*headRatios[len(headRatios)-1]) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
}

func (e *MagneticDrumEcho) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *MagneticDrumEcho) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.toneL.Reset()
	e.toneR.Reset()
	e.ResetSmoothers()
}

func (e *MagneticDrumEcho) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		timeMs := dsp.TimeFromNormalized(e.Param(0), 0.05, 0.8) * 1000
		feedback := dsp.Clamp(e.Param(1), 0, maxFeedback)
		numHeads := 1 + int(e.Param(2)*3)
		toneHz := dsp.HzFromNormalized(e.Param(3), 800, 9000)
		mix := e.Param(4)

		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		baseDelay := timeMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		var sumL, sumR float64
		for h := 0; h < numHeads && h < len(headRatios); h++ {
			d := dsp.Clamp(baseDelay*headRatios[h], 1, float64(e.lineL.Len()-1))
			sumL += e.lineL.Read(d) / float64(numHeads)
			sumR += e.lineR.Read(d) / float64(numHeads)
		}

		dampedL := e.toneL.Lowpass(sumL)
		dampedR := e.toneR.Lowpass(sumR)

		e.lineL.Write(l + dampedL*feedback)
		e.lineR.Write(r + dampedR*feedback)

		outL := sumL*mix + l*(1-mix)
		outR := sumR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

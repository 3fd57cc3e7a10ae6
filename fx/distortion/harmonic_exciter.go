package distortion

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// HarmonicExciter is engine id 17: generates upper harmonics from a
// highpassed copy of the input and blends them back in, the classic
// "psychoacoustic exciter" topology. 3 params.
type HarmonicExciter struct {
	fx.Base
	hpL, hpR dsp.OnePole
	dcL, dcR dsp.DCBlocker
}

var exciterParamNames = []string{"Drive", "Frequency", "Mix"}
var exciterDefaults = []float64{0.3, 0.5, 0.3}

// NewHarmonicExciter constructs engine id 17.
func NewHarmonicExciter() *HarmonicExciter {
	return &HarmonicExciter{Base: fx.NewBase("Harmonic Exciter", exciterParamNames, exciterDefaults)}
}

func (e *HarmonicExciter) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *HarmonicExciter) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *HarmonicExciter) Reset() {
	e.hpL.Reset()
	e.hpR.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *HarmonicExciter) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		drive := 1 + e.Param(0)*9
		freq := dsp.HzFromNormalized(e.Param(1), 1000, 8000)
		mix := e.Param(2)
		e.hpL.SetCutoff(freq, e.SampleRate)
		e.hpR.SetCutoff(freq, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		hiL := e.hpL.Highpass(l)
		hiR := e.hpR.Highpass(r)
		harmL := math.Tanh(hiL * drive)
		harmR := math.Tanh(hiR * drive)
		harmL = e.dcL.Process(harmL)
		harmR = e.dcR.Process(harmR)

		wetL := l + harmL*mix
		wetR := r + harmR*mix
		buf.L[i] = dsp.ScrubSample(float32(wetL))
		buf.R[i] = dsp.ScrubSample(float32(wetR))
	}
}

package distortion

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// Overdrive is engine id 22: a mild asymmetric soft-clip overdrive with a
// tilt-EQ tone control, modeled on the classic transparent drive pedal
// topology. 3 params.
type Overdrive struct {
	fx.Base
	toneL, toneR dsp.OnePole
	dcL, dcR     dsp.DCBlocker
}

var overdriveParamNames = []string{"Drive", "Tone", "Mix"}
var overdriveDefaults = []float64{0.4, 0.5, 1.0}

// NewOverdrive constructs engine id 22.
func NewOverdrive() *Overdrive {
	return &Overdrive{Base: fx.NewBase("K-Style Overdrive", overdriveParamNames, overdriveDefaults)}
}

func (e *Overdrive) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *Overdrive) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *Overdrive) Reset() {
	e.toneL.Reset()
	e.toneR.Reset()
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func asymmetricSoftClip(x float64) float64 {
	if x >= 0 {
		return dsp.SoftClip(x)
	}
	return dsp.SoftClip(x*1.1) / 1.1
}

func (e *Overdrive) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		drive := 1 + e.Param(0)*14
		toneHz := dsp.HzFromNormalized(e.Param(1), 800, 6000)
		mix := e.Param(2)
		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		clipL := asymmetricSoftClip(l * drive)
		clipR := asymmetricSoftClip(r * drive)
		lowL := e.toneL.Lowpass(clipL)
		lowR := e.toneR.Lowpass(clipR)
		wetL := e.dcL.Process(lowL)
		wetR := e.dcR.Process(lowR)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

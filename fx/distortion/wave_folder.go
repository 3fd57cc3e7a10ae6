package distortion

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// WaveFolder is engine id 16: a triangle-style wavefolder that reflects the
// signal back down each time it crosses a fold threshold. 5 params.
type WaveFolder struct {
	fx.Base
	dcL, dcR dsp.DCBlocker
}

var foldParamNames = []string{"Drive", "Fold Symmetry", "Bias", "Output Gain", "Mix"}
var foldDefaults = []float64{0.3, 0.5, 0.5, 0.5, 1.0}

// NewWaveFolder constructs engine id 16.
func NewWaveFolder() *WaveFolder {
	return &WaveFolder{Base: fx.NewBase("Wave Folder", foldParamNames, foldDefaults)}
}

func (e *WaveFolder) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *WaveFolder) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *WaveFolder) Reset() {
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func fold(x, threshold float64) float64 {
	for x > threshold || x < -threshold {
		if x > threshold {
			x = 2*threshold - x
		}
		if x < -threshold {
			x = -2*threshold - x
		}
	}
	return x
}

func (e *WaveFolder) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		drive := 1 + e.Param(0)*9
		symmetry := (e.Param(1) - 0.5) * 0.6
		bias := (e.Param(2) - 0.5) * 0.8
		outGain := 0.2 + e.Param(3)*1.8
		mix := e.Param(4)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		thresholdL := 1.0 + symmetry
		thresholdR := 1.0 - symmetry
		wetL := fold((l+bias)*drive, thresholdL) * outGain
		wetR := fold((r+bias)*drive, thresholdR) * outGain
		wetL = e.dcL.Process(wetL)
		wetR = e.dcR.Process(wetR)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

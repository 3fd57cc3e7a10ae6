package filters

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// VocalFormantFilter is engine id 14: morphs between two independently
// selectable vowel formant pairs, unlike id 11's single sweep. 4 params.
type VocalFormantFilter struct {
	fx.Base
	f1L, f2L dsp.Biquad
	f1R, f2R dsp.Biquad
}

var vocalFormantParamNames = []string{"Vowel1", "Vowel2", "Morph", "Mix"}
var vocalFormantDefaults = []float64{0.0, 1.0, 0.0, 1.0}

// NewVocalFormantFilter constructs engine id 14.
func NewVocalFormantFilter() *VocalFormantFilter {
	return &VocalFormantFilter{Base: fx.NewBase("Vocal Formant Filter", vocalFormantParamNames, vocalFormantDefaults)}
}

func (e *VocalFormantFilter) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
}
func (e *VocalFormantFilter) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *VocalFormantFilter) Reset() {
	e.f1L.Reset()
	e.f2L.Reset()
	e.f1R.Reset()
	e.f2R.Reset()
	e.ResetSmoothers()
}

func (e *VocalFormantFilter) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		a1, a2 := interpVowel(e.Param(0))
		b1, b2 := interpVowel(e.Param(1))
		morph := e.Param(2)
		mix := e.Param(3)

		f1 := a1*(1-morph) + b1*morph
		f2 := a2*(1-morph) + b2*morph

		e.f1L.Configure(dsp.BiquadBandpass, f1, 10, 0, e.SampleRate)
		e.f1R.Configure(dsp.BiquadBandpass, f1, 10, 0, e.SampleRate)
		e.f2L.Configure(dsp.BiquadBandpass, f2, 10, 0, e.SampleRate)
		e.f2R.Configure(dsp.BiquadBandpass, f2, 10, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		wetL := (e.f1L.Process(l) + e.f2L.Process(l)) * 0.7
		wetR := (e.f1R.Process(r) + e.f2R.Process(r)) * 0.7

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

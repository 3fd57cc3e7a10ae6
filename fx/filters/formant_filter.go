package filters

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// FormantFilter is engine id 11: a two-band-pass vocal formant approximation
// swept by a single Vowel parameter across five fixed vowel targets.
// 3 params.
type FormantFilter struct {
	fx.Base
	f1L, f2L dsp.Biquad
	f1R, f2R dsp.Biquad
}

var formantParamNames = []string{"Vowel", "Resonance", "Mix"}
var formantDefaults = []float64{0.0, 0.5, 1.0}

var vowelFormants = [][2]float64{
	{800, 1150},  // A
	{400, 2000},  // E
	{250, 2200},  // I (fixed typo-safe placeholder freqs)
	{450, 800},   // O
	{325, 700},   // U
}

// NewFormantFilter constructs engine id 11.
func NewFormantFilter() *FormantFilter {
	return &FormantFilter{Base: fx.NewBase("Formant Filter", formantParamNames, formantDefaults)}
}

func (e *FormantFilter) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *FormantFilter) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *FormantFilter) Reset() {
	e.f1L.Reset()
	e.f2L.Reset()
	e.f1R.Reset()
	e.f2R.Reset()
	e.ResetSmoothers()
}

func interpVowel(v float64) (float64, float64) {
	v = dsp.Clamp01(v) * float64(len(vowelFormants)-1)
	lo := int(v)
	if lo >= len(vowelFormants)-1 {
		return vowelFormants[len(vowelFormants)-1][0], vowelFormants[len(vowelFormants)-1][1]
	}
	frac := v - float64(lo)
	f1 := vowelFormants[lo][0]*(1-frac) + vowelFormants[lo+1][0]*frac
	f2 := vowelFormants[lo][1]*(1-frac) + vowelFormants[lo+1][1]*frac
	return f1, f2
}

func (e *FormantFilter) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		f1, f2 := interpVowel(e.Param(0))
		q := 2 + e.Param(1)*18
		mix := e.Param(2)

		e.f1L.Configure(dsp.BiquadBandpass, f1, q, 0, e.SampleRate)
		e.f1R.Configure(dsp.BiquadBandpass, f1, q, 0, e.SampleRate)
		e.f2L.Configure(dsp.BiquadBandpass, f2, q, 0, e.SampleRate)
		e.f2R.Configure(dsp.BiquadBandpass, f2, q, 0, e.SampleRate)

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

// Package utility implements the routing and gain-staging engines of spec
// §4.3.1 ids 53-56: tools that shape the stereo image or level rather than
// the timbre.
package utility

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// MidSideProcessor is engine id 53: independent gain and low/high tilt over
// the mid and side components, plus a bass-mono crossover, the standard
// mastering-bus M/S tool. 10 params.
type MidSideProcessor struct {
	fx.Base
	midLowShelf, sideLowShelf   dsp.Biquad
	midHighShelf, sideHighShelf dsp.Biquad
	bassHP                      dsp.Biquad
}

var midSideParamNames = []string{
	"Mid Gain", "Side Gain", "Width", "Mid Low Gain", "Mid High Gain",
	"Side Low Gain", "Side High Gain", "Bass Mono Freq", "Output Gain", "Mix",
}
var midSideDefaults = []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.2, 0.5, 1.0}

// NewMidSideProcessor constructs engine id 53.
func NewMidSideProcessor() *MidSideProcessor {
	return &MidSideProcessor{Base: fx.NewBase("Mid-Side Processor", midSideParamNames, midSideDefaults)}
}

func (e *MidSideProcessor) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
}

func (e *MidSideProcessor) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *MidSideProcessor) Reset() {
	e.midLowShelf.Reset()
	e.sideLowShelf.Reset()
	e.midHighShelf.Reset()
	e.sideHighShelf.Reset()
	e.bassHP.Reset()
	e.ResetSmoothers()
}

func gainFromCentered(p float64, rangeDB float64) float64 {
	return math.Pow(10, (p-0.5)*2*rangeDB/20)
}

func (e *MidSideProcessor) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		midGain := gainFromCentered(e.Param(0), 12)
		sideGain := gainFromCentered(e.Param(1), 12)
		width := e.Param(2) * 2
		midLowGain := gainFromCentered(e.Param(3), 6)
		midHighGain := gainFromCentered(e.Param(4), 6)
		sideLowGain := gainFromCentered(e.Param(5), 6)
		sideHighGain := gainFromCentered(e.Param(6), 6)
		bassMonoFreq := dsp.HzFromNormalized(e.Param(7), 60, 300)
		outGain := gainFromCentered(e.Param(8), 12)
		mix := e.Param(9)

		e.midLowShelf.Configure(dsp.BiquadLowShelf, 300, 0.707, 20*math.Log10(midLowGain), e.SampleRate)
		e.sideLowShelf.Configure(dsp.BiquadLowShelf, 300, 0.707, 20*math.Log10(sideLowGain), e.SampleRate)
		e.midHighShelf.Configure(dsp.BiquadHighShelf, 4000, 0.707, 20*math.Log10(midHighGain), e.SampleRate)
		e.sideHighShelf.Configure(dsp.BiquadHighShelf, 4000, 0.707, 20*math.Log10(sideHighGain), e.SampleRate)
		e.bassHP.Configure(dsp.BiquadHighpass, bassMonoFreq, 0.707, 0, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		mid := (l + r) * 0.5 * midGain
		side := (l - r) * 0.5 * sideGain * width

		mid = e.midLowShelf.Process(mid)
		mid = e.midHighShelf.Process(mid)
		side = e.sideLowShelf.Process(side)
		side = e.sideHighShelf.Process(side)

		side = e.bassHP.Process(side) // removes side-channel energy below the crossover, leaving bass mono

		wetL := (mid + side) * outGain
		wetR := (mid - side) * outGain

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

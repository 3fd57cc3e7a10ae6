package filters

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ConsoleEQ is engine id 8: a fixed-band vintage console EQ (shelf/bell/
// shelf) with a soft-saturating drive stage on the output. 7 params.
type ConsoleEQ struct {
	fx.Base
	lowL, lowR   dsp.Biquad
	midL, midR   dsp.Biquad
	highL, highR dsp.Biquad
}

var consoleParamNames = []string{"Low Shelf Freq", "Low Gain", "Mid Freq", "Mid Gain", "High Shelf Freq", "High Gain", "Drive"}
var consoleDefaults = []float64{0.15, 0.5, 0.5, 0.5, 0.8, 0.5, 0.0}

// NewConsoleEQ constructs engine id 8.
func NewConsoleEQ() *ConsoleEQ {
	return &ConsoleEQ{Base: fx.NewBase("Vintage Console EQ", consoleParamNames, consoleDefaults)}
}

func (e *ConsoleEQ) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *ConsoleEQ) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *ConsoleEQ) Reset() {
	e.lowL.Reset()
	e.lowR.Reset()
	e.midL.Reset()
	e.midR.Reset()
	e.highL.Reset()
	e.highR.Reset()
	e.ResetSmoothers()
}

func (e *ConsoleEQ) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		lowFreq := dsp.HzFromNormalized(e.Param(0), 30, 300)
		lowGain := (e.Param(1) - 0.5) * 24
		midFreq := dsp.HzFromNormalized(e.Param(2), 300, 6000)
		midGain := (e.Param(3) - 0.5) * 24
		highFreq := dsp.HzFromNormalized(e.Param(4), 2000, 16000)
		highGain := (e.Param(5) - 0.5) * 24
		drive := 1 + e.Param(6)*6

		e.lowL.Configure(dsp.BiquadLowShelf, lowFreq, 0.707, lowGain, e.SampleRate)
		e.lowR.Configure(dsp.BiquadLowShelf, lowFreq, 0.707, lowGain, e.SampleRate)
		e.midL.Configure(dsp.BiquadPeak, midFreq, 0.9, midGain, e.SampleRate)
		e.midR.Configure(dsp.BiquadPeak, midFreq, 0.9, midGain, e.SampleRate)
		e.highL.Configure(dsp.BiquadHighShelf, highFreq, 0.707, highGain, e.SampleRate)
		e.highR.Configure(dsp.BiquadHighShelf, highFreq, 0.707, highGain, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])
		wetL := dsp.SoftClip(e.highL.Process(e.midL.Process(e.lowL.Process(l)))*drive) / drive
		wetR := dsp.SoftClip(e.highR.Process(e.midR.Process(e.lowR.Process(r)))*drive) / drive

		buf.L[i] = dsp.ScrubSample(float32(wetL))
		buf.R[i] = dsp.ScrubSample(float32(wetR))
	}
}

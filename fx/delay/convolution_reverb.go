package delay

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// ConvolutionReverb is engine id 41: FFT overlap-add convolution against a
// synthetic, procedurally generated exponentially-decaying noise impulse
// response sized by Size, rather than a loaded sample file (no file I/O is
// realtime-safe). The convolution itself is the
// MeKo-Christian/pw_convoverb OverlapAddEngine pattern on top of
// github.com/MeKo-Christian/algo-fft. 5 params.
type ConvolutionReverb struct {
	fx.Base
	irL, irR   []float32
	convL      *dsp.OverlapAddConvolver
	convR      *dsp.OverlapAddConvolver
	predelayL  *dsp.DelayLine
	predelayR  *dsp.DelayLine
	sizeSm     dsp.Smoother
	decaySm    dsp.Smoother
	regenSize  float64
	regenDecay float64
	rngState   uint32
}

var convReverbParamNames = []string{"Size", "Decay", "Predelay", "Mix", "Width"}
var convReverbDefaults = []float64{0.5, 0.5, 0.0, 0.3, 0.7}

// NewConvolutionReverb constructs engine id 41.
func NewConvolutionReverb() *ConvolutionReverb {
	return &ConvolutionReverb{Base: fx.NewBase("Convolution Reverb", convReverbParamNames, convReverbDefaults), rngState: 0x9E3779B9}
}

const convIRMaxSamples = 4096

func (e *ConvolutionReverb) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.irL = make([]float32, convIRMaxSamples)
	e.irR = make([]float32, convIRMaxSamples)
	e.convL = dsp.NewOverlapAddConvolver(maxBlockSize)
	e.convR = dsp.NewOverlapAddConvolver(maxBlockSize)
	e.predelayL = dsp.NewDelayLine(int(sampleRate*0.1) + 1)
	e.predelayR = dsp.NewDelayLine(int(sampleRate*0.1) + 1)
	e.sizeSm.SetImmediate(0.5)
	e.decaySm.SetImmediate(0.5)
	e.sizeSm.SetTimeConstant(0.012, sampleRate)
	e.decaySm.SetTimeConstant(0.012, sampleRate)
	e.regenerateIR(0.5, 0.5)
}

func (e *ConvolutionReverb) nextRand() float32 {
	e.rngState ^= e.rngState << 13
	e.rngState ^= e.rngState >> 17
	e.rngState ^= e.rngState << 5
	return float32(e.rngState%20000)/10000 - 1
}

// regenerateIR synthesizes an exponentially-decaying noise impulse
// response, the standard stand-in for a measured space when no sample
// library is available offline, and replans both channels' convolvers
// around it. Called only when size or decay have moved enough to matter
// (see Process): forward-transforming a multi-thousand-sample IR on every
// sample, or even every block, would blow the realtime budget.
func (e *ConvolutionReverb) regenerateIR(size, decay float64) {
	length := int(size * float64(convIRMaxSamples))
	if length < 32 {
		length = 32
	}
	tau := float64(length) * (0.2 + decay*0.8)
	for i := 0; i < len(e.irL); i++ {
		if i >= length {
			e.irL[i] = 0
			e.irR[i] = 0
			continue
		}
		env := float32(math.Exp(-float64(i) / tau))
		e.irL[i] = e.nextRand() * env
		e.irR[i] = e.nextRand() * env
	}
	e.convL.SetImpulseResponse(e.irL[:length])
	e.convR.SetImpulseResponse(e.irR[:length])
	e.regenSize = size
	e.regenDecay = decay
}

func (e *ConvolutionReverb) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *ConvolutionReverb) Reset() {
	if e.convL != nil {
		e.convL.Reset()
		e.convR.Reset()
	}
	if e.predelayL != nil {
		e.predelayL.Reset()
		e.predelayR.Reset()
	}
	e.ResetSmoothers()
}

// ReportedLatency implements fx.LatencyReporter: FFT overlap-add
// convolution cannot emit output until a full block has been transformed
// (spec §4.3.2, FFT-processing latency reporting).
func (e *ConvolutionReverb) ReportedLatency() int {
	if e.convL == nil {
		return 0
	}
	return e.convL.Latency()
}

const convRegenThreshold = 0.02

func (e *ConvolutionReverb) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		e.sizeSm.SetTarget(e.ParamTarget(0))
		e.decaySm.SetTarget(e.ParamTarget(1))
		e.sizeSm.Next()
		e.decaySm.Next()
	}
	size := e.sizeSm.Current()
	decay := e.decaySm.Current()
	if math.Abs(size-e.regenSize) > convRegenThreshold || math.Abs(decay-e.regenDecay) > convRegenThreshold {
		e.regenerateIR(size, decay)
	}

	dryL := make([]float32, n)
	dryR := make([]float32, n)
	copy(dryL, buf.L[:n])
	copy(dryR, buf.R[:n])

	wetL := make([]float32, n)
	wetR := make([]float32, n)
	e.convL.ProcessBlock(buf.L[:n], wetL)
	e.convR.ProcessBlock(buf.R[:n], wetR)

	for i := 0; i < n; i++ {
		predelayMs := e.Param(2) * 80
		mix := e.Param(3)
		width := e.Param(4)
		predelaySamples := predelayMs * e.SampleRate / 1000

		e.predelayL.Write(float64(wetL[i]))
		e.predelayR.Write(float64(wetR[i]))
		pl := e.predelayL.Read(predelaySamples)
		pr := e.predelayR.Read(predelaySamples)

		mid := (pl + pr) * 0.5
		side := (pl - pr) * 0.5 * width

		outL := (mid+side)*mix + float64(dryL[i])*(1-mix)
		outR := (mid-side)*mix + float64(dryR[i])*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

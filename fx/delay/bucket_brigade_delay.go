package delay

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// BucketBrigadeDelay is engine id 37: an analog BBD-style delay with LFO
// clock-rate modulation and injected noise, modeling the sample-and-hold
// "zipper" character and noise floor of a bucket-brigade chip. 6 params.
type BucketBrigadeDelay struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	modLFO       dsp.LFO
	toneL, toneR dsp.OnePole
	noiseState   uint32
}

var bbdParamNames = []string{"Time", "Feedback", "Tone", "Modulation", "Noise", "Mix"}
var bbdDefaults = []float64{0.3, 0.4, 0.4, 0.15, 0.1, 0.35}

// NewBucketBrigadeDelay constructs engine id 37.
func NewBucketBrigadeDelay() *BucketBrigadeDelay {
	return &BucketBrigadeDelay{Base: fx.NewBase("Bucket-Brigade Delay", bbdParamNames, bbdDefaults), noiseState: 0x1234567}
}

func (e *BucketBrigadeDelay) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*1.0) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
	e.modLFO.SetShape(dsp.LFOTriangle)
	e.modLFO.SetRate(0.3, sampleRate)
}

func (e *BucketBrigadeDelay) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *BucketBrigadeDelay) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.modLFO.Reset()
	e.toneL.Reset()
	e.toneR.Reset()
	e.ResetSmoothers()
}

func (e *BucketBrigadeDelay) nextNoise() float64 {
	e.noiseState ^= e.noiseState << 13
	e.noiseState ^= e.noiseState >> 17
	e.noiseState ^= e.noiseState << 5
	return (float64(e.noiseState%2000)/1000 - 1) * 0.5
}

func (e *BucketBrigadeDelay) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		timeMs := dsp.TimeFromNormalized(e.Param(0), 0.02, 0.6) * 1000
		feedback := dsp.Clamp(e.Param(1), 0, maxFeedback)
		toneHz := dsp.HzFromNormalized(e.Param(2), 1500, 8000)
		modDepth := e.Param(3) * 0.01
		noiseAmt := e.Param(4) * 0.02
		mix := e.Param(5)

		e.toneL.SetCutoff(toneHz, e.SampleRate)
		e.toneR.SetCutoff(toneHz, e.SampleRate)

		baseDelay := timeMs * e.SampleRate / 1000

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		mod := e.modLFO.Next() * modDepth * baseDelay
		delaySamples := dsp.Clamp(baseDelay+mod, 1, float64(e.lineL.Len()-1))

		echoL := e.lineL.Read(delaySamples) + e.nextNoise()*noiseAmt
		echoR := e.lineR.Read(delaySamples) + e.nextNoise()*noiseAmt

		dampedL := e.toneL.Lowpass(echoL)
		dampedR := e.toneR.Lowpass(echoR)

		e.lineL.Write(l + dampedL*feedback)
		e.lineR.Write(r + dampedR*feedback)

		outL := echoL*mix + l*(1-mix)
		outR := echoR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

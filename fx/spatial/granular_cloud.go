package spatial

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

const granularVoiceCount = 8

type granularVoice struct {
	active   bool
	pos      float64
	rate     float64
	length   float64
	age      float64
	panL     float64
	panR     float64
}

// GranularCloud is engine id 50: scatters overlapping grains captured from
// a rolling input buffer at randomized position, rate, and pan, the
// classic granular texture generator. 6 params.
type GranularCloud struct {
	fx.Base
	bufL, bufR []float64
	writePos   int
	voices     [granularVoiceCount]granularVoice
	spawnAccum float64
	rngState   uint32
}

var granularParamNames = []string{"Density", "Grain Size", "Pitch Spread", "Position Spread", "Mix", "Feedback"}
var granularDefaults = []float64{0.4, 0.3, 0.2, 0.5, 0.5, 0.0}

// NewGranularCloud constructs engine id 50.
func NewGranularCloud() *GranularCloud {
	return &GranularCloud{Base: fx.NewBase("Granular Cloud", granularParamNames, granularDefaults), rngState: 0xC001D00D}
}

const granularMaxSamples = 1 << 17

func (e *GranularCloud) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.bufL = make([]float64, granularMaxSamples)
	e.bufR = make([]float64, granularMaxSamples)
}

func (e *GranularCloud) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *GranularCloud) Reset() {
	for i := range e.bufL {
		e.bufL[i] = 0
		e.bufR[i] = 0
	}
	e.writePos = 0
	e.spawnAccum = 0
	for i := range e.voices {
		e.voices[i] = granularVoice{}
	}
	e.ResetSmoothers()
}

func (e *GranularCloud) nextRand() float64 {
	e.rngState ^= e.rngState << 13
	e.rngState ^= e.rngState >> 17
	e.rngState ^= e.rngState << 5
	return float64(e.rngState%20000)/10000 - 1
}

func (e *GranularCloud) spawnVoice(grainMs, pitchSpread, posSpread float64) {
	for i := range e.voices {
		if !e.voices[i].active {
			semis := e.nextRand() * pitchSpread * 12
			e.voices[i] = granularVoice{
				active: true,
				pos:    e.nextRand() * posSpread * e.SampleRate * 0.3,
				rate:   math.Pow(2, semis/12),
				length: grainMs * e.SampleRate / 1000,
				age:    0,
				panL:   0.5 + e.nextRand()*0.5,
				panR:   0.5 - e.nextRand()*0.5,
			}
			return
		}
	}
}

func (e *GranularCloud) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		density := e.Param(0)
		grainMs := 20 + e.Param(1)*180
		pitchSpread := e.Param(2)
		posSpread := e.Param(3)
		mix := e.Param(4)
		feedback := e.Param(5) * 0.85

		spawnRateHz := 1 + density*40

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.bufL[e.writePos] = l
		e.bufR[e.writePos] = r

		e.spawnAccum += spawnRateHz / e.SampleRate
		if e.spawnAccum >= 1 {
			e.spawnAccum -= 1
			e.spawnVoice(grainMs, pitchSpread, posSpread)
		}

		var wetL, wetR float64
		for v := range e.voices {
			voice := &e.voices[v]
			if !voice.active {
				continue
			}
			env := 0.5 - 0.5*math.Cos(2*math.Pi*voice.age/voice.length)
			readIdx := float64(e.writePos) - voice.pos - voice.age*voice.rate
			gl := readSampleWrap(e.bufL, readIdx)
			gr := readSampleWrap(e.bufR, readIdx)
			wetL += gl * env * voice.panL
			wetR += gr * env * voice.panR

			voice.age += 1
			if voice.age >= voice.length {
				voice.active = false
			}
		}

		e.bufL[e.writePos] += wetL * feedback
		e.bufR[e.writePos] += wetR * feedback
		e.writePos = (e.writePos + 1) % len(e.bufL)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

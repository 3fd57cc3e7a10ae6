package modulation

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// IntelligentHarmonizer is engine id 33: a scale-aware pitch-shifted voice
// generator. Interval/Key/Scale quantize the shift ratio to the nearest
// in-scale degree rather than a raw semitone count, and the shifted voice
// is crossfaded against the dry signal through a low/high cut pair. 7
// params.
type IntelligentHarmonizer struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	phase        float64
	lowCutL, lowCutR   dsp.OnePole
	highCutL, highCutR dsp.OnePole
}

var harmonizerParamNames = []string{"Interval", "Key", "Scale", "Formant", "Mix", "Low Cut", "High Cut"}
var harmonizerDefaults = []float64{0.58, 0.0, 0.0, 0.5, 0.5, 0.0, 1.0}

var majorScaleSemitones = []int{0, 2, 4, 5, 7, 9, 11}
var minorScaleSemitones = []int{0, 2, 3, 5, 7, 8, 10}

// NewIntelligentHarmonizer constructs engine id 33.
func NewIntelligentHarmonizer() *IntelligentHarmonizer {
	return &IntelligentHarmonizer{Base: fx.NewBase("Intelligent Harmonizer", harmonizerParamNames, harmonizerDefaults)}
}

func (e *IntelligentHarmonizer) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.2) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
}

func (e *IntelligentHarmonizer) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *IntelligentHarmonizer) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.phase = 0
	e.lowCutL.Reset()
	e.lowCutR.Reset()
	e.highCutL.Reset()
	e.highCutR.Reset()
	e.ResetSmoothers()
}

// quantizedInterval rounds a -12..+12 semitone range to the nearest degree
// of the selected scale rooted at key.
func quantizedInterval(intervalParam, keyParam, scaleParam float64) float64 {
	rawSemis := (intervalParam - 0.5) * 24
	key := int(keyParam * 11)
	scale := majorScaleSemitones
	if scaleParam > 0.5 {
		scale = minorScaleSemitones
	}
	target := int(math.Round(rawSemis))
	best := target
	bestDist := math.MaxInt32
	for octave := -2; octave <= 2; octave++ {
		for _, deg := range scale {
			candidate := octave*12 + deg + key
			dist := int(math.Abs(float64(candidate - target)))
			if dist < bestDist {
				bestDist = dist
				best = candidate
			}
		}
	}
	return float64(best)
}

func (e *IntelligentHarmonizer) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		semis := quantizedInterval(e.Param(0), e.Param(1), e.Param(2))
		formant := e.Param(3)
		mix := e.Param(4)
		lowCutHz := dsp.HzFromNormalized(e.Param(5), 20, 500)
		highCutHz := dsp.HzFromNormalized(e.Param(6), 2000, 19000)

		ratio := math.Pow(2, semis/12)
		windowMs := 60 - formant*30
		windowSamples := windowMs * e.SampleRate / 1000
		phaseInc := (1 - ratio) / windowSamples

		e.lowCutL.SetCutoff(lowCutHz, e.SampleRate)
		e.lowCutR.SetCutoff(lowCutHz, e.SampleRate)
		e.highCutL.SetCutoff(highCutHz, e.SampleRate)
		e.highCutR.SetCutoff(highCutHz, e.SampleRate)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.lineL.Write(l)
		e.lineR.Write(r)

		p1 := e.phase
		p2 := math.Mod(e.phase+0.5, 1.0)
		delay1 := p1 * windowSamples
		delay2 := p2 * windowSamples
		w1 := 0.5 - 0.5*math.Cos(2*math.Pi*p1)
		w2 := 0.5 - 0.5*math.Cos(2*math.Pi*p2)

		shiftedL := e.lineL.Read(delay1)*w1 + e.lineL.Read(delay2)*w2
		shiftedR := e.lineR.Read(delay1)*w1 + e.lineR.Read(delay2)*w2

		e.phase += phaseInc
		for e.phase >= 1 {
			e.phase -= 1
		}
		for e.phase < 0 {
			e.phase += 1
		}

		shapedL := e.lowCutL.Highpass(e.highCutL.Lowpass(shiftedL))
		shapedR := e.lowCutR.Highpass(e.highCutR.Lowpass(shiftedR))

		outL := l*(1-mix) + (l+shapedL)*0.5*mix
		outR := r*(1-mix) + (r+shapedR)*0.5*mix
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

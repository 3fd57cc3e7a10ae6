package modulation

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// PitchShifter is engine id 31: a dual-tap granular pitch shifter using two
// overlapping delay-line read heads crossfaded to hide the loop seam. 4
// params.
type PitchShifter struct {
	fx.Base
	lineL, lineR *dsp.DelayLine
	phase        float64
	windowMs     float64
}

var pitchShiftParamNames = []string{"Shift", "Fine", "Window", "Mix"}
var pitchShiftDefaults = []float64{0.5, 0.5, 0.5, 1.0}

// NewPitchShifter constructs engine id 31.
func NewPitchShifter() *PitchShifter {
	return &PitchShifter{Base: fx.NewBase("Pitch Shifter", pitchShiftParamNames, pitchShiftDefaults)}
}

func (e *PitchShifter) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.2) + 2
	e.lineL = dsp.NewDelayLine(maxSamples)
	e.lineR = dsp.NewDelayLine(maxSamples)
}

func (e *PitchShifter) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *PitchShifter) Reset() {
	e.lineL.Reset()
	e.lineR.Reset()
	e.phase = 0
	e.ResetSmoothers()
}

func (e *PitchShifter) semitoneRatio(semis, fine float64) float64 {
	return math.Pow(2, (semis+fine)/12)
}

func (e *PitchShifter) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		semis := (e.Param(0) - 0.5) * 48
		fine := (e.Param(1) - 0.5) * 2
		windowMs := 40 + e.Param(2)*80
		mix := e.Param(3)

		ratio := e.semitoneRatio(semis, fine)
		windowSamples := windowMs * e.SampleRate / 1000
		phaseInc := (1 - ratio) / windowSamples

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

		wetL := e.lineL.Read(delay1)*w1 + e.lineL.Read(delay2)*w2
		wetR := e.lineR.Read(delay1)*w1 + e.lineR.Read(delay2)*w2

		e.phase += phaseInc
		for e.phase >= 1 {
			e.phase -= 1
		}
		for e.phase < 0 {
			e.phase += 1
		}

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

package delay

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// BufferRepeat is engine id 38: captures a short slice of audio and loops it
// under probabilistic retrigger control, a stutter/glitch repeater. 5
// params.
type BufferRepeat struct {
	fx.Base
	bufL, bufR     []float32
	writePos       int
	playPos        int
	repeating      bool
	rngState       uint32
	sliceSamples   int
	feedbackMemL   float32
	feedbackMemR   float32
}

var bufferRepeatParamNames = []string{"Slice Size", "Repeat Prob", "Pitch", "Mix", "Feedback"}
var bufferRepeatDefaults = []float64{0.3, 0.3, 0.5, 0.5, 0.2}

// NewBufferRepeat constructs engine id 38.
func NewBufferRepeat() *BufferRepeat {
	return &BufferRepeat{Base: fx.NewBase("Buffer Repeat", bufferRepeatParamNames, bufferRepeatDefaults), rngState: 0xABCDEF01}
}

func (e *BufferRepeat) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate * 1.0)
	e.bufL = make([]float32, maxSamples)
	e.bufR = make([]float32, maxSamples)
}

func (e *BufferRepeat) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *BufferRepeat) Reset() {
	for i := range e.bufL {
		e.bufL[i] = 0
		e.bufR[i] = 0
	}
	e.writePos = 0
	e.playPos = 0
	e.repeating = false
	e.ResetSmoothers()
}

func (e *BufferRepeat) nextRand() float64 {
	e.rngState ^= e.rngState << 13
	e.rngState ^= e.rngState >> 17
	e.rngState ^= e.rngState << 5
	return float64(e.rngState%10000) / 10000
}

func (e *BufferRepeat) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		sliceMs := 30 + e.Param(0)*470
		repeatProb := e.Param(1)
		pitch := 0.5 + e.Param(2)*1.5
		mix := e.Param(3)
		feedback := e.Param(4) * 0.6

		sliceSamples := int(sliceMs * e.SampleRate / 1000)
		if sliceSamples < 1 {
			sliceSamples = 1
		}
		if sliceSamples > len(e.bufL) {
			sliceSamples = len(e.bufL)
		}

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		if !e.repeating {
			e.bufL[e.writePos%len(e.bufL)] = float32(l)
			e.bufR[e.writePos%len(e.bufR)] = float32(r)
			e.writePos++
			if e.writePos >= sliceSamples && e.nextRand() < repeatProb*0.01 {
				e.repeating = true
				e.playPos = 0
				e.sliceSamples = sliceSamples
			}
		}

		var wetL, wetR float64
		if e.repeating {
			idx := int(float64(e.playPos) * pitch)
			if idx >= e.sliceSamples {
				e.repeating = false
				wetL, wetR = l, r
			} else {
				wetL = float64(e.bufL[idx%len(e.bufL)])
				wetR = float64(e.bufR[idx%len(e.bufR)])
				e.playPos++
			}
		} else {
			wetL, wetR = l, r
		}

		wetL += float64(e.feedbackMemL) * feedback
		wetR += float64(e.feedbackMemR) * feedback
		e.feedbackMemL = float32(wetL)
		e.feedbackMemR = float32(wetR)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

package distortion

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// BitCrusher is engine id 18: quantizes amplitude to a reduced bit depth and
// decimates the effective sample rate by sample-and-hold. 3 params.
type BitCrusher struct {
	fx.Base
	holdCounter  int
	heldL, heldR float64
	dcL, dcR     dsp.DCBlocker
}

var crusherParamNames = []string{"Bits", "Sample Rate Reduction", "Mix"}
var crusherDefaults = []float64{1.0, 0.0, 1.0}

// NewBitCrusher constructs engine id 18.
func NewBitCrusher() *BitCrusher {
	return &BitCrusher{Base: fx.NewBase("Bit Crusher", crusherParamNames, crusherDefaults)}
}

func (e *BitCrusher) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.dcL.SetSampleRate(sampleRate)
	e.dcR.SetSampleRate(sampleRate)
}
func (e *BitCrusher) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *BitCrusher) Reset() {
	e.holdCounter = 0
	e.heldL, e.heldR = 0, 0
	e.dcL.Reset()
	e.dcR.Reset()
	e.ResetSmoothers()
}

func (e *BitCrusher) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		bits := 2 + e.Param(0)*14
		holdSamples := 1 + int(e.Param(1)*31)
		mix := e.Param(2)
		levels := math.Pow(2, bits)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		if e.holdCounter == 0 {
			e.heldL = l
			e.heldR = r
		}
		e.holdCounter++
		if e.holdCounter >= holdSamples {
			e.holdCounter = 0
		}

		quantL := math.Round(e.heldL*levels/2) / (levels / 2)
		quantR := math.Round(e.heldR*levels/2) / (levels / 2)

		wetL := dsp.SoftClip(e.dcL.Process(quantL))
		wetR := dsp.SoftClip(e.dcR.Process(quantR))

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

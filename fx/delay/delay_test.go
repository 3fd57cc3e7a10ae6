package delay

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewTapeEcho(),
		NewDigitalDelay(),
		NewMagneticDrumEcho(),
		NewBucketBrigadeDelay(),
		NewBufferRepeat(),
		NewPlateReverb(),
		NewSpringReverb(),
		NewConvolutionReverb(),
		NewShimmerReverb(),
		NewGatedReverb(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.03))
		l[i] = v
		r[i] = v
	}
	return &fx.Buffer{L: l, R: r}
}

func TestDelayEnginesNeverProduceNonFinite(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		for b := 0; b < 4; b++ {
			buf := testBuffer(512)
			e.Process(buf)
			for i := range buf.L {
				if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
					t.Fatalf("%s produced non-finite sample at block %d index %d", e.Name(), b, i)
				}
			}
		}
	}
}

func TestDelayEnginesSurviveReset(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(44100, 256)
		e.Process(testBuffer(256))
		e.Reset()
		e.Process(testBuffer(64))
	}
}

func TestFeedbackEnginesClampBelowUnity(t *testing.T) {
	feedbackEngines := []fx.Engine{
		NewTapeEcho(), NewDigitalDelay(), NewMagneticDrumEcho(), NewBucketBrigadeDelay(),
	}
	for _, e := range feedbackEngines {
		e.Prepare(48000, 512)
		e.UpdateParameters(fx.ParameterUpdate{1: 1.0})
		for b := 0; b < 20; b++ {
			e.Process(testBuffer(512))
		}
		buf := testBuffer(512)
		for i := range buf.L {
			buf.L[i] = 0
			buf.R[i] = 0
		}
		e.Process(buf)
		for i := range buf.L {
			if math.Abs(float64(buf.L[i])) > 2.0001 {
				t.Fatalf("%s feedback diverged: %v", e.Name(), buf.L[i])
			}
		}
	}
}

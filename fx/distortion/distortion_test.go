package distortion

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewTubePreamp(),
		NewWaveFolder(),
		NewHarmonicExciter(),
		NewBitCrusher(),
		NewMultibandSaturator(),
		NewMuffFuzz(),
		NewRodentDistortion(),
		NewOverdrive(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.08))
		l[i] = v
		r[i] = v
	}
	return &fx.Buffer{L: l, R: r}
}

func TestDistortionEnginesNeverProduceNonFinite(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		buf := testBuffer(512)
		e.Process(buf)
		for i := range buf.L {
			if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
				t.Fatalf("%s produced non-finite sample at %d", e.Name(), i)
			}
			if math.Abs(float64(buf.L[i])) > 2.0001 {
				t.Fatalf("%s exceeded safe ceiling: %v", e.Name(), buf.L[i])
			}
		}
	}
}

func TestDistortionEnginesHandleVaryingBlockSizes(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		for _, n := range []int{512, 64, 1, 256} {
			e.Process(testBuffer(n))
		}
	}
}

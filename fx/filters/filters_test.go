package filters

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewParametricEQ(),
		NewConsoleEQ(),
		NewLadderFilter(),
		NewStateVariableFilter(),
		NewFormantFilter(),
		NewEnvelopeFilter(),
		NewCombResonator(),
		NewVocalFormantFilter(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.05))
		l[i] = v
		r[i] = v
	}
	return &fx.Buffer{L: l, R: r}
}

func TestFiltersNeverProduceNonFinite(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		buf := testBuffer(512)
		e.Process(buf)
		for i := range buf.L {
			if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
				t.Fatalf("%s produced non-finite sample at %d", e.Name(), i)
			}
		}
	}
}

func TestFiltersSurviveResetAndRepeatedBlocks(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(44100, 256)
		for b := 0; b < 5; b++ {
			e.Process(testBuffer(256))
		}
		e.Reset()
		e.Process(testBuffer(64))
	}
}

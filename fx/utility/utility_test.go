package utility

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewMidSideProcessor(),
		NewGainUtility(),
		NewMonoMaker(),
		NewPhaseAlign(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.05))
		l[i] = v
		r[i] = v * 0.9
	}
	return &fx.Buffer{L: l, R: r}
}

func TestUtilityEnginesNeverProduceNonFinite(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		for b := 0; b < 3; b++ {
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

func TestUtilityEnginesSurviveReset(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(44100, 256)
		e.Process(testBuffer(256))
		e.Reset()
		e.Process(testBuffer(64))
	}
}

func TestUtilityParameterCountsMatchCatalogue(t *testing.T) {
	want := map[string]int{
		"Mid-Side Processor": 10,
		"Gain Utility":       4,
		"Mono Maker":         3,
		"Phase Align":        10,
	}
	for _, e := range allEngines() {
		if got, ok := want[e.Name()]; ok && got != e.ParameterCount() {
			t.Fatalf("%s: ParameterCount() = %d, want %d", e.Name(), e.ParameterCount(), got)
		}
	}
}

func TestGainUtilityIsExactPassthroughAtDefault(t *testing.T) {
	e := NewGainUtility()
	e.Prepare(48000, 256)
	buf := testBuffer(256)
	original := make([]float32, len(buf.L))
	copy(original, buf.L)
	e.Process(buf)
	for i := range buf.L {
		if buf.L[i] != original[i] {
			t.Fatalf("expected exact passthrough at default, index %d: got %v want %v", i, buf.L[i], original[i])
		}
	}
}

func TestPhaseAlignIsExactPassthroughAtDefault(t *testing.T) {
	e := NewPhaseAlign()
	e.Prepare(48000, 256)
	buf := testBuffer(256)
	original := make([]float32, len(buf.L))
	copy(original, buf.L)
	e.Process(buf)
	for i := range buf.L {
		if buf.L[i] != original[i] {
			t.Fatalf("expected exact passthrough at default, index %d: got %v want %v", i, buf.L[i], original[i])
		}
	}
}

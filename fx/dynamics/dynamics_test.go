package dynamics

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewOptoCompressor(),
		NewVCACompressor(),
		NewTransientShaper(),
		NewNoiseGate(),
		NewMasteringLimiter(),
		NewDynamicEQ(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.1))
		l[i] = v
		r[i] = v * 0.8
	}
	return &fx.Buffer{L: l, R: r}
}

func TestDynamicsEnginesNeverProduceNonFinite(t *testing.T) {
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

func TestDynamicsEnginesSurviveResetAndZeroLengthBlocks(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		e.Process(&fx.Buffer{L: []float32{}, R: []float32{}})
		e.Reset()
		buf := testBuffer(64)
		e.Process(buf)
	}
}

func TestDynamicsParameterCountsMatchCatalogue(t *testing.T) {
	want := map[string]int{
		"Vintage Opto Compressor":   8,
		"Classic Compressor (VCA)":  10,
		"Transient Shaper":          10,
		"Noise Gate":                8,
		"Mastering Limiter":         10,
		"Dynamic EQ":                8,
	}
	for _, e := range allEngines() {
		if got, ok := want[e.Name()]; ok && got != e.ParameterCount() {
			t.Fatalf("%s: ParameterCount() = %d, want %d", e.Name(), e.ParameterCount(), got)
		}
	}
}

package spatial

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewStereoWidener(),
		NewStereoImager(),
		NewDimensionExpander(),
		NewSpectralFreeze(),
		NewSpectralGate(),
		NewPhasedVocoder(),
		NewGranularCloud(),
		NewChaosGenerator(),
		NewFeedbackNetwork(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.04))
		l[i] = v
		r[i] = v * 0.8
	}
	return &fx.Buffer{L: l, R: r}
}

func TestSpatialEnginesNeverProduceNonFinite(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(48000, 512)
		for b := 0; b < 3; b++ {
			buf := testBuffer(512)
			e.Process(buf)
			for i := range buf.L {
				if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
					t.Fatalf("%s produced non-finite L sample at block %d index %d", e.Name(), b, i)
				}
				if math.IsNaN(float64(buf.R[i])) || math.IsInf(float64(buf.R[i]), 0) {
					t.Fatalf("%s produced non-finite R sample at block %d index %d", e.Name(), b, i)
				}
			}
		}
	}
}

func TestSpatialEnginesSurviveResetAndVaryingBlocks(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(44100, 256)
		e.Process(testBuffer(256))
		e.Reset()
		e.Process(testBuffer(1))
		e.Process(testBuffer(37))
		e.Process(testBuffer(256))
	}
}

func TestSpatialParameterCountsMatchCatalogue(t *testing.T) {
	want := map[string]int{
		"Stereo Widener":     4,
		"Stereo Imager":      6,
		"Dimension Expander": 4,
		"Spectral Freeze":    4,
		"Spectral Gate":      5,
		"Phased Vocoder":     5,
		"Granular Cloud":     6,
		"Chaos Generator":    5,
		"Feedback Network":   6,
	}
	for _, e := range allEngines() {
		if got, ok := want[e.Name()]; ok && got != e.ParameterCount() {
			t.Fatalf("%s: ParameterCount() = %d, want %d", e.Name(), e.ParameterCount(), got)
		}
	}
}

func TestFreezeEngineHoldsCapturedGrain(t *testing.T) {
	e := NewSpectralFreeze()
	e.Prepare(48000, 512)
	e.Process(testBuffer(512))
	e.UpdateParameters(fx.ParameterUpdate{0: 1.0})
	buf := testBuffer(512)
	e.Process(buf)
	for i := range buf.L {
		if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
			t.Fatalf("frozen output went non-finite at index %d", i)
		}
	}
}

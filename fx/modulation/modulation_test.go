package modulation

import (
	"math"
	"testing"

	"github.com/phoenix-chimera/audiocore/fx"
)

func allEngines() []fx.Engine {
	return []fx.Engine{
		NewDigitalChorus(),
		NewResonantChorus(),
		NewAnalogPhaser(),
		NewRingModulator(),
		NewFrequencyShifter(),
		NewHarmonicTremolo(),
		NewClassicTremolo(),
		NewRotarySpeaker(),
		NewPitchShifter(),
		NewDetuneDoubler(),
		NewIntelligentHarmonizer(),
	}
}

func testBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(float64(i) * 0.02))
		l[i] = v
		r[i] = v * 0.9
	}
	return &fx.Buffer{L: l, R: r}
}

func TestModulationEnginesNeverProduceNonFinite(t *testing.T) {
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

func TestModulationEnginesSurviveReset(t *testing.T) {
	for _, e := range allEngines() {
		e.Prepare(44100, 256)
		e.Process(testBuffer(256))
		e.Reset()
		e.Process(testBuffer(128))
	}
}

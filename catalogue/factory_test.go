package catalogue

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/phoenix-chimera/audiocore/fx"
)

func randomBuffer(n int, seed float64) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(math.Sin(seed + float64(i)*0.037))
		l[i] = v
		r[i] = v * 0.8
	}
	return &fx.Buffer{L: l, R: r}
}

// New must cover every declared id exactly, with the right name and
// parameter count (spec §4.3.1, the authoritative id table).
func TestNewCoversEveryCatalogueEntry(t *testing.T) {
	for _, entry := range fx.Catalogue {
		e := New(entry.ID)
		if e == nil {
			t.Fatalf("id %d: New returned nil", entry.ID)
		}
		if e.Name() != entry.Name {
			t.Fatalf("id %d: Name() = %q, want %q", entry.ID, e.Name(), entry.Name)
		}
		if e.ParameterCount() != entry.ParamCount {
			t.Fatalf("id %d (%s): ParameterCount() = %d, want %d", entry.ID, entry.Name, e.ParameterCount(), entry.ParamCount)
		}
	}
}

// Spec §4.4: ids outside [0, 56] fall back to Passthrough rather than nil.
func TestNewFallsBackToPassthroughForUnknownIds(t *testing.T) {
	for _, id := range []int{-1, 57, 999, -100} {
		e := New(id)
		if e == nil {
			t.Fatalf("id %d: New returned nil", id)
		}
		if e.Name() != "Passthrough" {
			t.Fatalf("id %d: got engine %q, want Passthrough fallback", id, e.Name())
		}
	}
}

// Property 1: for every id, every declared parameter index, and every
// value in [0, 1], the constructed engine accepts the update and then
// processes a buffer without producing a non-finite sample.
func TestEveryEngineAcceptsAnyParameterAndStaysFinite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.IntRange(0, fx.MaxEngineID).Draw(t, "id")
		e := New(id)
		e.Prepare(48000, 256)

		if e.ParameterCount() > 0 {
			idx := rapid.IntRange(0, e.ParameterCount()-1).Draw(t, "paramIndex")
			val := rapid.Float64Range(0, 1).Draw(t, "paramValue")
			e.UpdateParameters(fx.ParameterUpdate{idx: val})
		}

		buf := randomBuffer(128, rapid.Float64Range(0, 1000).Draw(t, "seed"))
		e.Process(buf)

		for i := range buf.L {
			if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
				t.Fatalf("id %d: non-finite sample at index %d (L)", id, i)
			}
			if math.IsNaN(float64(buf.R[i])) || math.IsInf(float64(buf.R[i]), 0) {
				t.Fatalf("id %d: non-finite sample at index %d (R)", id, i)
			}
		}
	})
}

// An out-of-range update index must be a silent no-op, never a panic.
func TestOutOfRangeParameterIndexIsIgnored(t *testing.T) {
	for _, entry := range fx.Catalogue {
		e := New(entry.ID)
		e.Prepare(48000, 64)
		e.UpdateParameters(fx.ParameterUpdate{999: 0.5, -1: 0.5})
		e.Process(randomBuffer(64, 0))
	}
}

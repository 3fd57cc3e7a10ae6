package dsp

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestScrubSampleRemovesNaNAndInf(t *testing.T) {
	cases := []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))}
	for _, c := range cases {
		if got := ScrubSample(c); got != 0 {
			t.Fatalf("ScrubSample(%v) = %v, want 0", c, got)
		}
	}
}

func TestScrubSampleClampsToSafeCeiling(t *testing.T) {
	if got := ScrubSample(100); got != SafeCeiling {
		t.Fatalf("got %v, want %v", got, SafeCeiling)
	}
	if got := ScrubSample(-100); got != -SafeCeiling {
		t.Fatalf("got %v, want %v", got, -SafeCeiling)
	}
}

func TestScrubSamplePropertyNeverNonFinite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float32().Draw(t, "x")
		got := ScrubSample(x)
		if math.IsNaN(float64(got)) || math.IsInf(float64(got), 0) {
			t.Fatalf("ScrubSample(%v) = %v is non-finite", x, got)
		}
		if math.Abs(float64(got)) > SafeCeiling {
			t.Fatalf("ScrubSample(%v) = %v exceeds safe ceiling", x, got)
		}
	})
}

func TestDCBlockerAttenuatesDC(t *testing.T) {
	b := NewDCBlocker()
	b.SetSampleRate(48000)
	var last float64
	for i := 0; i < 48000; i++ {
		last = b.Process(0.5)
	}
	if math.Abs(last) > 0.01 {
		t.Fatalf("DC not attenuated: last=%v", last)
	}
}

func TestSmootherConverges(t *testing.T) {
	s := NewSmoother(0)
	s.SetTimeConstant(0.01, 48000)
	s.SetTarget(1.0)
	for i := 0; i < 48000; i++ {
		s.Next()
	}
	if !s.Settled() {
		t.Fatalf("smoother did not settle: current=%v target=%v", s.Current(), s.Target())
	}
}

func TestSmootherNoLargeSingleSampleJump(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Float64Range(0, 1).Draw(t, "start")
		target := rapid.Float64Range(0, 1).Draw(t, "target")
		s := NewSmoother(start)
		s.SetTimeConstant(0.01, 48000)
		s.SetTarget(target)
		prev := s.Current()
		next := s.Next()
		if math.Abs(next-prev) > math.Abs(target-start)+1e-9 {
			t.Fatalf("single-sample jump too large: prev=%v next=%v", prev, next)
		}
	})
}

func TestClamp01(t *testing.T) {
	if Clamp01(-1) != 0 || Clamp01(2) != 1 || Clamp01(0.5) != 0.5 {
		t.Fatalf("Clamp01 out of spec")
	}
}

func TestDelayLineReadWrite(t *testing.T) {
	d := NewDelayLine(10)
	for i := 0; i < 5; i++ {
		d.Write(float64(i))
	}
	got := d.Read(0)
	if math.Abs(got-4) > 1e-9 {
		t.Fatalf("Read(0) = %v, want 4", got)
	}
}

func TestRateFromNormalizedRange(t *testing.T) {
	if got := RateFromNormalized(0); math.Abs(got-0.01) > 1e-6 {
		t.Fatalf("RateFromNormalized(0) = %v, want 0.01", got)
	}
	if got := RateFromNormalized(1); math.Abs(got-20) > 1e-6 {
		t.Fatalf("RateFromNormalized(1) = %v, want 20", got)
	}
}

package chain

import (
	"math"
	"sync/atomic"

	"github.com/phoenix-chimera/audiocore/fx"
)

// Meter tracks a decayed peak and a block RMS for one measurement point
// (chain input or output), published through atomic storage so a UI
// goroutine can read it without ever locking the audio thread (spec
// §4.5.4). The concepts (instantaneous peak with a decay envelope, RMS
// over a short window, reported as a plain level rather than a live tap)
// are the portable core of what the teacher's cgo/AVAudioEngine tap
// analysis (analyze.go, StereoAnalysis/PathAnalysis) computes from a live
// audio tap; this package reimplements just that measurement, directly on
// the buffer already flowing through Go, with none of the tap/unsafe.Pointer
// plumbing the teacher needs to reach into AVFoundation.
//
// Go has no atomic float64, so values are published as their bit pattern
// through atomic.Uint64 — the portable equivalent of the atomic floats the
// spec calls for.
type Meter struct {
	peakBits atomic.Uint64
	rmsBits  atomic.Uint64
}

func storeFloat(a *atomic.Uint64, v float64) { a.Store(math.Float64bits(v)) }
func loadFloat(a *atomic.Uint64) float64     { return math.Float64frombits(a.Load()) }

// Peak returns the most recently published decayed peak level.
func (m *Meter) Peak() float64 { return loadFloat(&m.peakBits) }

// RMS returns the most recently published block RMS level.
func (m *Meter) RMS() float64 { return loadFloat(&m.rmsBits) }

// update computes this block's peak (across both channels) and RMS, and
// publishes a peak decayed with a ~300ms time constant plus the raw block
// RMS. Called once per ProcessBlock call from the audio thread; it touches
// no heap (the buffer is already allocated by the caller) so it is safe on
// the realtime path.
func (m *Meter) update(buf *fx.Buffer, sampleRate float64) {
	n := buf.Len()
	if n == 0 {
		return
	}
	var peak, sumSq float64
	for i := 0; i < n; i++ {
		l := float64(buf.L[i])
		r := float64(buf.R[i])
		if a := math.Abs(l); a > peak {
			peak = a
		}
		if a := math.Abs(r); a > peak {
			peak = a
		}
		sumSq += l*l + r*r
	}
	rms := math.Sqrt(sumSq / float64(2*n))

	blockSeconds := float64(n) / sampleRate
	decay := math.Exp(-blockSeconds / 0.3)
	decayedPeak := loadFloat(&m.peakBits) * decay
	if peak > decayedPeak {
		decayedPeak = peak
	}
	storeFloat(&m.peakBits, decayedPeak)
	storeFloat(&m.rmsBits, rms)
}

package spatial

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// SpectralGate is engine id 48: a true per-bin spectral noise gate built on
// dsp.STFT (github.com/MeKo-Christian/algo-fft underneath). Each FFT bin is
// gated independently against threshold; its gain moves toward open or
// closed once per hop with one smoothing coefficient derived from the
// average of Attack and Release, replacing a coarse multiband approximation with real
// frequency-domain resolution. 5 params.
type SpectralGate struct {
	fx.Base
	stftL, stftR *dsp.STFT
	gainL, gainR []float64
}

var spectralGateParamNames = []string{"Threshold", "Reduction", "Attack", "Release", "Mix"}
var spectralGateDefaults = []float64{0.3, 0.8, 0.1, 0.3, 1.0}

// NewSpectralGate constructs engine id 48.
func NewSpectralGate() *SpectralGate {
	return &SpectralGate{Base: fx.NewBase("Spectral Gate", spectralGateParamNames, spectralGateDefaults)}
}

const spectralGateFFTSize = 1024

func (e *SpectralGate) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.stftL = dsp.NewSTFT(spectralGateFFTSize)
	e.stftR = dsp.NewSTFT(spectralGateFFTSize)
	e.gainL = make([]float64, spectralGateFFTSize)
	e.gainR = make([]float64, spectralGateFFTSize)
	for k := range e.gainL {
		e.gainL[k] = 1
		e.gainR[k] = 1
	}
}

func (e *SpectralGate) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *SpectralGate) Reset() {
	e.stftL.Reset()
	e.stftR.Reset()
	for k := range e.gainL {
		e.gainL[k] = 1
		e.gainR[k] = 1
	}
	e.ResetSmoothers()
}

// ReportedLatency implements fx.LatencyReporter: the underlying STFT
// cannot emit output until its analysis window has filled (spec §4.3.2,
// FFT-processing latency reporting).
func (e *SpectralGate) ReportedLatency() int { return e.stftL.Latency() }

func gateBins(bins []complex64, gain []float64, threshDB, reduction, coeff float64) {
	for k := range bins {
		re, im := float64(real(bins[k])), float64(imag(bins[k]))
		mag := math.Hypot(re, im)
		db := 20 * math.Log10(mag+1e-9)

		target := 1.0
		if db < threshDB {
			target = 1 - reduction
		}
		gain[k] += (target - gain[k]) * coeff

		bins[k] = complex(float32(re*gain[k]), float32(im*gain[k]))
	}
}

func (e *SpectralGate) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		threshDB := -60 + e.Param(0)*55
		reduction := e.Param(1)
		attackSec := 0.0005 + e.Param(2)*0.05
		releaseSec := 0.01 + e.Param(3)*0.6
		mix := e.Param(4)

		// Per-bin gain follower coefficient: a one-pole smoother over
		// frames, not samples, since a bin's value only updates once per
		// hop; attack/release are approximated by the same coefficient
		// since both directions gate at hop-rate here.
		frameRate := e.SampleRate / float64(spectralGateFFTSize/2)
		coeff := 1 - math.Exp(-1/((attackSec+releaseSec)*0.5*frameRate))

		l := buf.L[i]
		r := buf.R[i]

		wetL := e.stftL.Process(l, func(bins []complex64) {
			gateBins(bins, e.gainL, threshDB, reduction, coeff)
		})
		wetR := e.stftR.Process(r, func(bins []complex64) {
			gateBins(bins, e.gainR, threshDB, reduction, coeff)
		})

		outL := float64(wetL)*mix + float64(l)*(1-mix)
		outR := float64(wetR)*mix + float64(r)*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

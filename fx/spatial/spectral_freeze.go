package spatial

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// SpectralFreeze is engine id 47: a true per-bin spectral freeze built on
// dsp.STFT (github.com/MeKo-Christian/algo-fft underneath). On the rising
// edge of Freeze, each bin's magnitude is captured and held while its
// phase keeps advancing at the bin's nominal center-frequency rate, the
// standard magnitude-freeze/phase-advance trick for a sustained,
// seamless frozen texture. 4 params.
type SpectralFreeze struct {
	fx.Base
	stftL, stftR   *dsp.STFT
	capturedMagL   []float64
	capturedMagR   []float64
	phaseL         []float64
	phaseR         []float64
	phaseIncrement []float64
	frozen         bool
	wasFrozen      bool
}

var freezeParamNames = []string{"Freeze", "Grain Size", "Smoothing", "Mix"}
var freezeDefaults = []float64{0.0, 0.4, 0.5, 1.0}

// NewSpectralFreeze constructs engine id 47.
func NewSpectralFreeze() *SpectralFreeze {
	return &SpectralFreeze{Base: fx.NewBase("Spectral Freeze", freezeParamNames, freezeDefaults)}
}

const freezeFFTSize = 1024

func (e *SpectralFreeze) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.stftL = dsp.NewSTFT(freezeFFTSize)
	e.stftR = dsp.NewSTFT(freezeFFTSize)
	e.capturedMagL = make([]float64, freezeFFTSize)
	e.capturedMagR = make([]float64, freezeFFTSize)
	e.phaseL = make([]float64, freezeFFTSize)
	e.phaseR = make([]float64, freezeFFTSize)
	e.phaseIncrement = make([]float64, freezeFFTSize)
	for k := range e.phaseIncrement {
		e.phaseIncrement[k] = 2 * math.Pi * float64(k) * float64(freezeFFTSize/2) / float64(freezeFFTSize)
	}
}

func (e *SpectralFreeze) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *SpectralFreeze) Reset() {
	e.stftL.Reset()
	e.stftR.Reset()
	for i := range e.capturedMagL {
		e.capturedMagL[i] = 0
		e.capturedMagR[i] = 0
		e.phaseL[i] = 0
		e.phaseR[i] = 0
	}
	e.frozen = false
	e.wasFrozen = false
	e.ResetSmoothers()
}

// ReportedLatency implements fx.LatencyReporter: the underlying STFT
// cannot emit output until its analysis window has filled (spec §4.3.2,
// FFT-processing latency reporting).
func (e *SpectralFreeze) ReportedLatency() int { return e.stftL.Latency() }

func (e *SpectralFreeze) captureOrAdvance(frozen bool, mags []float64, phases []float64, bins []complex64) {
	for k := range bins {
		if frozen {
			phases[k] += e.phaseIncrement[k]
			mag := mags[k]
			bins[k] = complex(mag*math.Cos(phases[k]), mag*math.Sin(phases[k]))
		} else {
			re, im := float64(real(bins[k])), float64(imag(bins[k]))
			mags[k] = math.Hypot(re, im)
			phases[k] = math.Atan2(im, re)
		}
	}
}

func (e *SpectralFreeze) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		freezeOn := e.Param(0) > 0.5
		_ = e.Param(1) // Grain Size retained for UI continuity; STFT frame size is fixed.
		smoothing := e.Param(2)
		mix := e.Param(3)

		if freezeOn && !e.wasFrozen {
			e.frozen = true
		}
		e.wasFrozen = freezeOn
		if !freezeOn {
			e.frozen = false
		}
		frozenNow := e.frozen

		l := buf.L[i]
		r := buf.R[i]

		wetL := e.stftL.Process(l, func(bins []complex64) {
			e.captureOrAdvance(frozenNow, e.capturedMagL, e.phaseL, bins)
		})
		wetR := e.stftR.Process(r, func(bins []complex64) {
			e.captureOrAdvance(frozenNow, e.capturedMagR, e.phaseR, bins)
		})

		// Smoothing blends the frozen spectrum back toward the live
		// pass-through signal, softening the freeze-engage transient.
		blendWet := float64(1 - smoothing*0.3)
		outL := (float64(wetL)*blendWet+float64(l)*(1-blendWet))*mix + float64(l)*(1-mix)
		outR := (float64(wetR)*blendWet+float64(r)*(1-blendWet))*mix + float64(r)*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

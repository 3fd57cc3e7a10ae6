package spatial

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// PhasedVocoder is engine id 49: a true phase vocoder built on dsp.STFT
// (github.com/MeKo-Christian/algo-fft underneath). Each bin's
// frame-to-frame phase advance is compared against its nominal
// center-frequency advance to estimate instantaneous frequency, which is
// then re-synthesized scaled by the Pitch ratio — independent pitch
// shifting without resampling. Stretch is a spectral-smoothing control
// (bin magnitude averaged across neighbors) rather than independent time
// stretch: the shared STFT helper uses a fixed analysis/synthesis hop, so
// true variable-rate time-stretch is out of scope here. 5 params.
type PhasedVocoder struct {
	fx.Base
	stftL, stftR   *dsp.STFT
	prevPhaseL     []float64
	prevPhaseR     []float64
	synthPhaseL    []float64
	synthPhaseR    []float64
	nomIncrement   []float64
	feedbackStateL []float64
	feedbackStateR []float64
}

var vocoderParamNames = []string{"Pitch", "Stretch", "Grain Size", "Mix", "Feedback"}
var vocoderDefaults = []float64{0.5, 0.5, 0.5, 0.5, 0.0}

// NewPhasedVocoder constructs engine id 49.
func NewPhasedVocoder() *PhasedVocoder {
	return &PhasedVocoder{Base: fx.NewBase("Phased Vocoder", vocoderParamNames, vocoderDefaults)}
}

const vocoderFFTSize = 1024

func (e *PhasedVocoder) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	e.stftL = dsp.NewSTFT(vocoderFFTSize)
	e.stftR = dsp.NewSTFT(vocoderFFTSize)
	e.prevPhaseL = make([]float64, vocoderFFTSize)
	e.prevPhaseR = make([]float64, vocoderFFTSize)
	e.synthPhaseL = make([]float64, vocoderFFTSize)
	e.synthPhaseR = make([]float64, vocoderFFTSize)
	e.nomIncrement = make([]float64, vocoderFFTSize)
	e.feedbackStateL = make([]float64, vocoderFFTSize)
	e.feedbackStateR = make([]float64, vocoderFFTSize)
	for k := range e.nomIncrement {
		e.nomIncrement[k] = 2 * math.Pi * float64(k) * float64(vocoderFFTSize/2) / float64(vocoderFFTSize)
	}
}

func (e *PhasedVocoder) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *PhasedVocoder) Reset() {
	e.stftL.Reset()
	e.stftR.Reset()
	for i := range e.prevPhaseL {
		e.prevPhaseL[i] = 0
		e.prevPhaseR[i] = 0
		e.synthPhaseL[i] = 0
		e.synthPhaseR[i] = 0
		e.feedbackStateL[i] = 0
		e.feedbackStateR[i] = 0
	}
	e.ResetSmoothers()
}

// ReportedLatency implements fx.LatencyReporter: the underlying STFT
// cannot emit output until its analysis window has filled (spec §4.3.2,
// FFT-processing latency reporting).
func (e *PhasedVocoder) ReportedLatency() int { return e.stftL.Latency() }

func wrapPhase(p float64) float64 {
	for p > math.Pi {
		p -= 2 * math.Pi
	}
	for p < -math.Pi {
		p += 2 * math.Pi
	}
	return p
}

func (e *PhasedVocoder) vocode(bins []complex64, prevPhase, synthPhase, feedback []float64, pitchRatio, smear, fbAmount float64) {
	mags := make([]float64, len(bins))
	freqs := make([]float64, len(bins))

	for k := range bins {
		re, im := float64(real(bins[k])), float64(imag(bins[k]))
		mag := math.Hypot(re, im)
		phase := math.Atan2(im, re)

		deviation := wrapPhase(phase - prevPhase[k] - e.nomIncrement[k])
		instFreq := e.nomIncrement[k] + deviation
		prevPhase[k] = phase

		mags[k] = mag
		freqs[k] = instFreq
	}

	if smear > 0 {
		blurred := make([]float64, len(mags))
		span := int(1 + smear*6)
		for k := range mags {
			sum, count := 0.0, 0
			for d := -span; d <= span; d++ {
				idx := k + d
				if idx >= 0 && idx < len(mags) {
					sum += mags[idx]
					count++
				}
			}
			blurred[k] = sum / float64(count)
		}
		mags = blurred
	}

	for k := range bins {
		shiftedFreq := freqs[k] * pitchRatio
		synthPhase[k] = wrapPhase(synthPhase[k] + shiftedFreq)
		mag := mags[k] + feedback[k]*fbAmount
		re := mag * math.Cos(synthPhase[k])
		im := mag * math.Sin(synthPhase[k])
		feedback[k] = mag
		bins[k] = complex(float32(re), float32(im))
	}
}

func (e *PhasedVocoder) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		semis := (e.Param(0) - 0.5) * 24
		stretch := e.Param(1)
		_ = e.Param(2) // Grain Size retained for UI continuity; STFT frame size is fixed.
		mix := e.Param(3)
		feedback := e.Param(4) * 0.9

		pitchRatio := math.Pow(2, semis/12)

		l := buf.L[i]
		r := buf.R[i]

		wetL := e.stftL.Process(l, func(bins []complex64) {
			e.vocode(bins, e.prevPhaseL, e.synthPhaseL, e.feedbackStateL, pitchRatio, stretch, feedback)
		})
		wetR := e.stftR.Process(r, func(bins []complex64) {
			e.vocode(bins, e.prevPhaseR, e.synthPhaseR, e.feedbackStateR, pitchRatio, stretch, feedback)
		})

		outL := float64(wetL)*mix + float64(l)*(1-mix)
		outR := float64(wetR)*mix + float64(r)*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

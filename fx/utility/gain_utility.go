package utility

import (
	"math"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// GainUtility is engine id 54: trim gain, pan, stereo balance, and polarity
// invert. At its neutral default (unity gain, center pan/balance, no
// invert) it must reproduce the input exactly, so the gain/pan math is
// skipped entirely when every control sits at its default value. 4 params.
type GainUtility struct {
	fx.Base
}

var gainUtilityParamNames = []string{"Gain", "Pan", "Balance", "Polarity Invert"}
var gainUtilityDefaults = []float64{0.5, 0.5, 0.5, 0.0}

// NewGainUtility constructs engine id 54.
func NewGainUtility() *GainUtility {
	return &GainUtility{Base: fx.NewBase("Gain Utility", gainUtilityParamNames, gainUtilityDefaults)}
}

func (e *GainUtility) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *GainUtility) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *GainUtility) Reset()                                       { e.ResetSmoothers() }

// neutral reports whether every control is settled at its default, using
// ParamTarget and the smoother's Settled check rather than Param so the
// probe never advances the per-sample ramp: a genuine audio-thread read
// of a still-transitioning parameter must fall through to the per-sample
// path below, not take the exact-passthrough shortcut.
func (e *GainUtility) neutral() bool {
	return e.ParamTarget(0) == 0.5 && e.Smoothers[0].Settled() &&
		e.ParamTarget(1) == 0.5 && e.Smoothers[1].Settled() &&
		e.ParamTarget(2) == 0.5 && e.Smoothers[2].Settled() &&
		e.ParamTarget(3) <= 0.5
}

func (e *GainUtility) Process(buf *fx.Buffer) {
	n := buf.Len()
	if e.neutral() {
		return // neutral default: exact passthrough, no float rounding introduced
	}

	for i := 0; i < n; i++ {
		gainParam := e.Param(0)
		panParam := e.Param(1)
		balanceParam := e.Param(2)
		invert := e.Param(3) > 0.5

		gain := math.Pow(10, (gainParam-0.5)*2*24/20)
		panL, panR := 1.0, 1.0
		if panParam < 0.5 {
			panR = panParam * 2
		} else if panParam > 0.5 {
			panL = (1 - panParam) * 2
		}
		balL, balR := 1.0, 1.0
		if balanceParam < 0.5 {
			balR = balanceParam * 2
		} else if balanceParam > 0.5 {
			balL = (1 - balanceParam) * 2
		}
		polarity := 1.0
		if invert {
			polarity = -1.0
		}

		l := float64(buf.L[i]) * gain * panL * balL * polarity
		r := float64(buf.R[i]) * gain * panR * balR * polarity
		buf.L[i] = dsp.ScrubSample(float32(l))
		buf.R[i] = dsp.ScrubSample(float32(r))
	}
}

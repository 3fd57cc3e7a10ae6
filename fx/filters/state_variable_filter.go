package filters

import "github.com/phoenix-chimera/audiocore/dsp"
import "github.com/phoenix-chimera/audiocore/fx"

// StateVariableFilter is engine id 10: a Chamberlin-topology filter that
// simultaneously produces low/band/high outputs and selects one via the
// Mode parameter (below 0.33 low, below 0.66 band, otherwise high); there
// is no notch output. 4 params.
type StateVariableFilter struct {
	fx.Base
	lowL, bandL, highL float64
	lowR, bandR, highR float64
}

var svfParamNames = []string{"Cutoff", "Resonance", "Mode", "Mix"}
var svfDefaults = []float64{0.5, 0.2, 0.0, 1.0}

// NewStateVariableFilter constructs engine id 10.
func NewStateVariableFilter() *StateVariableFilter {
	return &StateVariableFilter{Base: fx.NewBase("State-Variable Filter", svfParamNames, svfDefaults)}
}

func (e *StateVariableFilter) Prepare(sampleRate float64, maxBlockSize int) { e.PrepareBase(sampleRate, maxBlockSize) }
func (e *StateVariableFilter) UpdateParameters(u fx.ParameterUpdate)        { e.ApplyUpdate(u) }
func (e *StateVariableFilter) Reset() {
	e.lowL, e.bandL, e.highL = 0, 0, 0
	e.lowR, e.bandR, e.highR = 0, 0, 0
	e.ResetSmoothers()
}

func (e *StateVariableFilter) Process(buf *fx.Buffer) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		cutoffHz := dsp.HzFromNormalized(e.Param(0), 30, 18000)
		q := 0.5 + e.Param(1)*9.5
		mode := e.Param(2)
		mix := e.Param(3)

		f := 2 * sinApprox(cutoffHz, e.SampleRate)
		damp := 1.0 / q

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.highL = l - e.lowL - damp*e.bandL
		e.bandL += f * e.highL
		e.lowL += f * e.bandL
		e.lowL = dsp.FlushDenormal(e.lowL)
		e.bandL = dsp.FlushDenormal(e.bandL)

		e.highR = r - e.lowR - damp*e.bandR
		e.bandR += f * e.highR
		e.lowR += f * e.bandR
		e.lowR = dsp.FlushDenormal(e.lowR)
		e.bandR = dsp.FlushDenormal(e.bandR)

		var wetL, wetR float64
		switch {
		case mode < 0.33:
			wetL, wetR = e.lowL, e.lowR
		case mode < 0.66:
			wetL, wetR = e.bandL, e.bandR
		default:
			wetL, wetR = e.highL, e.highR
		}

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

func sinApprox(hz, sampleRate float64) float64 {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	x := 3.14159265358979323846 * hz / sampleRate
	if x > 1.5 {
		x = 1.5
	}
	return x - x*x*x/6 + x*x*x*x*x/120
}

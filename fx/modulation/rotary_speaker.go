package modulation

import (
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// RotarySpeaker is engine id 30: a two-rotor (horn/drum) Leslie-style
// simulation with independent modulated delay and amplitude per rotor and
// an acceleration control smoothing speed transitions. 5 params.
type RotarySpeaker struct {
	fx.Base
	hornLine, drumLine     *dsp.DelayLine
	hornLFO, drumLFO       dsp.LFO
	currentSpeed           float64
	driveStage             dsp.OnePole
}

var rotaryParamNames = []string{"Speed", "Acceleration", "Drive", "Mix", "Stereo Width"}
var rotaryDefaults = []float64{0.3, 0.3, 0.2, 1.0, 0.7}

// NewRotarySpeaker constructs engine id 30.
func NewRotarySpeaker() *RotarySpeaker {
	return &RotarySpeaker{Base: fx.NewBase("Rotary Speaker", rotaryParamNames, rotaryDefaults)}
}

func (e *RotarySpeaker) Prepare(sampleRate float64, maxBlockSize int) {
	e.PrepareBase(sampleRate, maxBlockSize)
	maxSamples := int(sampleRate*0.02) + 2
	e.hornLine = dsp.NewDelayLine(maxSamples)
	e.drumLine = dsp.NewDelayLine(maxSamples)
	e.hornLFO.SetShape(dsp.LFOSine)
	e.drumLFO.SetShape(dsp.LFOSine)
}

func (e *RotarySpeaker) UpdateParameters(u fx.ParameterUpdate) { e.ApplyUpdate(u) }
func (e *RotarySpeaker) Reset() {
	e.hornLine.Reset()
	e.drumLine.Reset()
	e.hornLFO.Reset()
	e.drumLFO.Reset()
	e.currentSpeed = 0
	e.driveStage.Reset()
	e.ResetSmoothers()
}

func (e *RotarySpeaker) Process(buf *fx.Buffer) {
	n := buf.Len()

	for i := 0; i < n; i++ {
		targetSpeed := e.Param(0)
		accel := 0.001 + e.Param(1)*0.02
		drive := 1 + e.Param(2)*6
		mix := e.Param(3)
		stereoWidth := e.Param(4)

		l := float64(buf.L[i])
		r := float64(buf.R[i])

		e.currentSpeed += (targetSpeed - e.currentSpeed) * accel
		hornHz := 0.5 + e.currentSpeed*7
		drumHz := 0.3 + e.currentSpeed*4

		e.hornLFO.SetRate(hornHz, e.SampleRate)
		e.drumLFO.SetRate(drumHz, e.SampleRate)

		mono := dsp.SoftClip((l+r)*0.5*drive) / drive
		driven := e.driveStage.Lowpass(mono)

		hornMod := e.hornLFO.Next()
		drumMod := e.drumLFO.Next()

		hornDelay := (2 + hornMod) * e.SampleRate / 1000
		drumDelay := (3 + drumMod) * e.SampleRate / 1000

		e.hornLine.Write(driven)
		e.drumLine.Write(driven)
		hornOut := e.hornLine.Read(hornDelay) * (1 + hornMod*0.3)
		drumOut := e.drumLine.Read(drumDelay) * (1 + drumMod*0.2)

		wetMono := hornOut*0.6 + drumOut*0.4
		wetL := wetMono * (1 + hornMod*stereoWidth*0.3)
		wetR := wetMono * (1 - hornMod*stereoWidth*0.3)

		outL := wetL*mix + l*(1-mix)
		outR := wetR*mix + r*(1-mix)
		buf.L[i] = dsp.ScrubSample(float32(outL))
		buf.R[i] = dsp.ScrubSample(float32(outR))
	}
}

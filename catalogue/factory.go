// Package catalogue is the engine factory (spec §4.4): a pure function
// from EngineId to a freshly constructed, unprepared engine implementing
// fx.Engine. It is the single switchyard the control thread calls into
// when a slot's declared id changes; nothing here runs on the audio
// thread.
package catalogue

import (
	"github.com/charmbracelet/log"

	"github.com/phoenix-chimera/audiocore/fx"
	"github.com/phoenix-chimera/audiocore/fx/delay"
	"github.com/phoenix-chimera/audiocore/fx/distortion"
	"github.com/phoenix-chimera/audiocore/fx/dynamics"
	"github.com/phoenix-chimera/audiocore/fx/filters"
	"github.com/phoenix-chimera/audiocore/fx/modulation"
	"github.com/phoenix-chimera/audiocore/fx/spatial"
	"github.com/phoenix-chimera/audiocore/fx/utility"
)

// constructors maps every stable EngineId in [1, 56] to its constructor.
// Id 0 (Passthrough) is handled separately by New since it has no home
// package of its own.
var constructors = map[int]func() fx.Engine{
	1: func() fx.Engine { return dynamics.NewOptoCompressor() },
	2: func() fx.Engine { return dynamics.NewVCACompressor() },
	3: func() fx.Engine { return dynamics.NewTransientShaper() },
	4: func() fx.Engine { return dynamics.NewNoiseGate() },
	5: func() fx.Engine { return dynamics.NewMasteringLimiter() },
	6: func() fx.Engine { return dynamics.NewDynamicEQ() },

	7:  func() fx.Engine { return filters.NewParametricEQ() },
	8:  func() fx.Engine { return filters.NewConsoleEQ() },
	9:  func() fx.Engine { return filters.NewLadderFilter() },
	10: func() fx.Engine { return filters.NewStateVariableFilter() },
	11: func() fx.Engine { return filters.NewFormantFilter() },
	12: func() fx.Engine { return filters.NewEnvelopeFilter() },
	13: func() fx.Engine { return filters.NewCombResonator() },
	14: func() fx.Engine { return filters.NewVocalFormantFilter() },

	15: func() fx.Engine { return distortion.NewTubePreamp() },
	16: func() fx.Engine { return distortion.NewWaveFolder() },
	17: func() fx.Engine { return distortion.NewHarmonicExciter() },
	18: func() fx.Engine { return distortion.NewBitCrusher() },
	19: func() fx.Engine { return distortion.NewMultibandSaturator() },
	20: func() fx.Engine { return distortion.NewMuffFuzz() },
	21: func() fx.Engine { return distortion.NewRodentDistortion() },
	22: func() fx.Engine { return distortion.NewOverdrive() },

	23: func() fx.Engine { return modulation.NewDigitalChorus() },
	24: func() fx.Engine { return modulation.NewResonantChorus() },
	25: func() fx.Engine { return modulation.NewAnalogPhaser() },
	26: func() fx.Engine { return modulation.NewRingModulator() },
	27: func() fx.Engine { return modulation.NewFrequencyShifter() },
	28: func() fx.Engine { return modulation.NewHarmonicTremolo() },
	29: func() fx.Engine { return modulation.NewClassicTremolo() },
	30: func() fx.Engine { return modulation.NewRotarySpeaker() },
	31: func() fx.Engine { return modulation.NewPitchShifter() },
	32: func() fx.Engine { return modulation.NewDetuneDoubler() },
	33: func() fx.Engine { return modulation.NewIntelligentHarmonizer() },

	34: func() fx.Engine { return delay.NewTapeEcho() },
	35: func() fx.Engine { return delay.NewDigitalDelay() },
	36: func() fx.Engine { return delay.NewMagneticDrumEcho() },
	37: func() fx.Engine { return delay.NewBucketBrigadeDelay() },
	38: func() fx.Engine { return delay.NewBufferRepeat() },
	39: func() fx.Engine { return delay.NewPlateReverb() },
	40: func() fx.Engine { return delay.NewSpringReverb() },
	41: func() fx.Engine { return delay.NewConvolutionReverb() },
	42: func() fx.Engine { return delay.NewShimmerReverb() },
	43: func() fx.Engine { return delay.NewGatedReverb() },

	44: func() fx.Engine { return spatial.NewStereoWidener() },
	45: func() fx.Engine { return spatial.NewStereoImager() },
	46: func() fx.Engine { return spatial.NewDimensionExpander() },
	47: func() fx.Engine { return spatial.NewSpectralFreeze() },
	48: func() fx.Engine { return spatial.NewSpectralGate() },
	49: func() fx.Engine { return spatial.NewPhasedVocoder() },
	50: func() fx.Engine { return spatial.NewGranularCloud() },
	51: func() fx.Engine { return spatial.NewChaosGenerator() },
	52: func() fx.Engine { return spatial.NewFeedbackNetwork() },

	53: func() fx.Engine { return utility.NewMidSideProcessor() },
	54: func() fx.Engine { return utility.NewGainUtility() },
	55: func() fx.Engine { return utility.NewMonoMaker() },
	56: func() fx.Engine { return utility.NewPhaseAlign() },
}

// New constructs a fresh, unprepared engine for id. Ids outside [0, 56]
// fall back to Passthrough and log a warning, matching spec §4.4's "never
// null" factory contract. The returned engine still needs Prepare called
// before it may process audio; New never calls it (construction is the
// only non-realtime-safe step the factory performs).
func New(id int) fx.Engine {
	if id == 0 {
		return fx.NewPassthrough()
	}
	if ctor, ok := constructors[id]; ok {
		return ctor()
	}
	log.Warn("catalogue: unknown engine id, substituting passthrough", "id", id)
	return fx.NewPassthrough()
}

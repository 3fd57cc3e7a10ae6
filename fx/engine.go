// Package fx defines the uniform engine contract (spec §4.2) honoured by
// all 57 effect engines, plus the base helpers every engine composes to
// satisfy it.
package fx

import "github.com/phoenix-chimera/audiocore/dsp"

// Buffer is the stereo, per-channel float32 block handed to Process. It
// never owns its backing arrays across calls — the host (chain package)
// owns the buffer memory for the lifetime of one processBlock call (spec
// §6.1, §3.4).
type Buffer struct {
	L []float32
	R []float32
}

// Len returns the number of frames in the buffer.
func (b *Buffer) Len() int { return len(b.L) }

// ParameterUpdate is an unordered mapping from parameter index to
// normalized value, delivered to an engine in a single call. Absent
// indices retain their current value (spec §3.1).
type ParameterUpdate map[int]float64

// Engine is the uniform polymorphic contract every effect honours (spec
// §4.2). Concrete engines embed Base and implement Process plus whatever
// ParameterCount/ParameterName/Name overrides their identity requires.
type Engine interface {
	// Prepare enters a state ready to process blocks up to maxBlockSize at
	// sampleRate. May allocate; never called from the audio thread.
	Prepare(sampleRate float64, maxBlockSize int)

	// Process replaces buffer's contents with the processed signal. Must
	// be realtime-safe: no allocation, no blocking, bounded CPU. buffer's
	// length is <= the maxBlockSize most recently passed to Prepare.
	Process(buffer *Buffer)

	// UpdateParameters applies a batch of normalized [0,1] parameter
	// edits. Realtime-safe. Unknown indices are ignored; out-of-range
	// values are clamped.
	UpdateParameters(update ParameterUpdate)

	// Reset zeroes all internal state (filter memories, delay lines,
	// envelope followers). Parameter targets are retained.
	Reset()

	// ParameterCount returns how many of the 16 parameter indices this
	// engine uses. Constant for the engine's lifetime.
	ParameterCount() int

	// ParameterName returns the human-readable name of a parameter index.
	ParameterName(index int) string

	// Name returns the engine's human-readable display name.
	Name() string
}

// LatencyReporter is implemented by engines that introduce block-processing
// latency (spectral/FFT-based engines, spec §4.3.2 "Spatial/Special").
// Engines that don't implement it are assumed to report 0.
type LatencyReporter interface {
	ReportedLatency() int
}

// ReportedLatency returns an engine's latency in samples, or 0 if it
// doesn't implement LatencyReporter.
func ReportedLatency(e Engine) int {
	if lr, ok := e.(LatencyReporter); ok {
		return lr.ReportedLatency()
	}
	return 0
}

// Base is embedded by every concrete engine. It stores identity
// (name/parameter names) and the prepared sample rate/block size, and
// implements the parts of the contract that never vary: Name,
// ParameterCount, ParameterName, and parameter-value clamping/smoothing
// bookkeeping shared across the catalogue.
type Base struct {
	EngineName string
	ParamNames []string
	SampleRate float64
	MaxBlock   int
	Smoothers  []*dsp.Smoother
}

// NewBase constructs a Base with one smoother per parameter, each seeded
// to defaultValue (normalized [0,1]).
func NewBase(name string, paramNames []string, defaults []float64) Base {
	smoothers := make([]*dsp.Smoother, len(paramNames))
	for i := range smoothers {
		d := 0.5
		if i < len(defaults) {
			d = defaults[i]
		}
		smoothers[i] = dsp.NewSmoother(d)
	}
	return Base{EngineName: name, ParamNames: paramNames, Smoothers: smoothers, SampleRate: 48000, MaxBlock: 512}
}

// Name implements Engine.
func (b *Base) Name() string { return b.EngineName }

// ParameterCount implements Engine.
func (b *Base) ParameterCount() int { return len(b.ParamNames) }

// ParameterName implements Engine.
func (b *Base) ParameterName(index int) string {
	if index < 0 || index >= len(b.ParamNames) {
		return ""
	}
	return b.ParamNames[index]
}

// PrepareBase retunes every smoother's time constant for the new sample
// rate; concrete engines call this from their own Prepare before doing
// engine-specific allocation.
func (b *Base) PrepareBase(sampleRate float64, maxBlockSize int) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if maxBlockSize < 1 {
		maxBlockSize = 1
	}
	b.SampleRate = sampleRate
	b.MaxBlock = maxBlockSize
	for _, s := range b.Smoothers {
		s.SetTimeConstant(0.012, sampleRate)
	}
}

// ApplyUpdate clamps and forwards a ParameterUpdate to the per-parameter
// smoothers. Indices outside [0, ParameterCount) are silently ignored
// (spec §4.2, "Failure semantics").
func (b *Base) ApplyUpdate(update ParameterUpdate) {
	for idx, v := range update {
		if idx < 0 || idx >= len(b.Smoothers) {
			continue
		}
		b.Smoothers[idx].SetTarget(dsp.Clamp01(v))
	}
}

// Param returns the live, per-sample-advancing value of parameter i. It is
// the normal way an engine's Process loop reads a smoothed parameter.
func (b *Base) Param(i int) float64 {
	if i < 0 || i >= len(b.Smoothers) {
		return 0
	}
	return b.Smoothers[i].Next()
}

// ParamTarget returns parameter i's target without advancing the ramp,
// useful for parameters that gate block-level decisions rather than
// per-sample signal path values (e.g. a mode switch).
func (b *Base) ParamTarget(i int) float64 {
	if i < 0 || i >= len(b.Smoothers) {
		return 0
	}
	return b.Smoothers[i].Target()
}

// ResetSmoothers snaps every parameter smoother to its current target,
// used by engines whose Reset should not re-trigger a ramp.
func (b *Base) ResetSmoothers() {
	for _, s := range b.Smoothers {
		s.SetImmediate(s.Target())
	}
}

// SetDefault immediately (no ramp) sets parameter i's value, used during
// construction/first-prepare before any audio has played.
func (b *Base) SetDefault(i int, v float64) {
	if i < 0 || i >= len(b.Smoothers) {
		return
	}
	b.Smoothers[i].SetImmediate(dsp.Clamp01(v))
}

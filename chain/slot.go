package chain

import (
	"sync/atomic"

	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// engineHandle is the concrete pointee behind each slot's atomic pointer.
// fx.Engine is an interface, and atomic.Pointer needs a concrete type to
// be parameterized over, so the interface value plus the bits the audio
// thread wants to read without a virtual call (the declared id, the
// latency the factory already queried once at install time) are boxed
// together. Publishing a *engineHandle is what makes the hand-off in
// §3.4 atomic: the audio thread either sees the whole handle or the
// previous one, never a partially constructed engine.
type engineHandle struct {
	engine  fx.Engine
	id      int
	latency int
}

// Slot is one position in the six-slot chain (spec §3.1 "Slot"). The
// engine pointer is published with a release-store (InstallEngine) and
// read with an acquire-load (ProcessBlock) via atomic.Pointer, matching
// §5's ownership rule: readers and writers never observe a half-built
// object. Bypass is a plain atomic bool read once per block, so a bypass
// edit switches at the next block with no crossfade; mix is a per-sample
// smoother so a mix edit from the control thread never clicks (§8
// property 9).
type Slot struct {
	handle atomic.Pointer[engineHandle]
	bypass atomic.Bool
	mix    *dsp.Smoother
}

func newSlot() *Slot {
	s := &Slot{mix: dsp.NewSmoother(1.0)}
	s.mix.SetTimeConstant(0.012, 48000)
	return s
}

// EngineID reports the slot's currently installed engine id, or 0 if the
// slot holds no engine (spec invariant 1).
func (s *Slot) EngineID() int {
	h := s.handle.Load()
	if h == nil {
		return 0
	}
	return h.id
}

// ReportedLatency returns the installed engine's declared latency in
// samples (spec §9, "Spectral engines and latency"), or 0 if the slot is
// empty.
func (s *Slot) ReportedLatency() int {
	h := s.handle.Load()
	if h == nil {
		return 0
	}
	return h.latency
}

// Bypassed reports the slot's current bypass flag.
func (s *Slot) Bypassed() bool { return s.bypass.Load() }

// SetBypass sets the slot's bypass flag. Realtime-safe (a single atomic
// store); callable from the control thread at any time.
func (s *Slot) SetBypass(b bool) { s.bypass.Store(b) }

// SetMix sets the slot's dry/wet mix target in [0, 1]; it ramps in rather
// than stepping, via the same smoother mechanism every engine parameter
// uses.
func (s *Slot) SetMix(v float64) { s.mix.SetTarget(dsp.Clamp01(v)) }

// MixTarget returns the slot's mix target without advancing the ramp.
func (s *Slot) MixTarget() float64 { return s.mix.Target() }

// ResetMix snaps the mix smoother to its current target with no ramp,
// mirroring the per-engine Reset contract (parameter targets survive
// reset; only the ramp/state does not).
func (s *Slot) ResetMix() { s.mix.SetImmediate(s.mix.Target()) }

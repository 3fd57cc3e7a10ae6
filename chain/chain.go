// Package chain implements the slot chain host (spec §4.5, L4): six
// serial effect slots, the audio-thread processBlock entry point, and the
// control-thread methods (installEngine, updateSlotParameters,
// installPreset) that mutate it without ever blocking or allocating on the
// audio thread.
package chain

import (
	"fmt"
	"sync"

	"github.com/phoenix-chimera/audiocore/catalogue"
	"github.com/phoenix-chimera/audiocore/dsp"
	"github.com/phoenix-chimera/audiocore/fx"
)

// SlotCount is the fixed number of slots in the chain (spec §9 Open
// Question 1: some source material suggested five, this spec fixes six).
const SlotCount = 6

// SlotSpec is the control-thread currency for describing one slot's
// desired state — the common type the preset package builds from a JSON
// payload and passes to InstallPreset (spec §4.5.2 "installPreset", §6.2).
// Slot indices are 0-based here to match Go slice convention; the 1-based
// external numbering in §6.2 is translated by the preset package before
// reaching this type.
//
// Touched distinguishes "this slot was named in the preset payload" from
// "this slot was simply not mentioned" — §6.2 specifies that a slot not
// listed in the engines array retains its current engine, bypass, and mix
// untouched, which an EngineID-only sentinel cannot express cleanly once
// Bypass is also a valid zero value.
type SlotSpec struct {
	Touched  bool
	EngineID int
	Bypass   bool
	Mix      float64
	HasMix   bool
	Params   fx.ParameterUpdate
}

// Chain owns the six serial slots and is the sole entry point the audio
// thread calls (spec §4.5). ProcessBlock is realtime-safe; every other
// exported method is a control-thread method and may allocate or block.
type Chain struct {
	slots   [SlotCount]*Slot
	reclaim *reclaimQueue
	fault   FaultHandler

	sampleRate   float64
	maxBlockSize int

	scratchL []float32
	scratchR []float32

	In, Out Meter

	// installMu serializes InstallEngine/InstallPreset against each other.
	// It never overlaps with the audio thread: ProcessBlock only ever
	// touches the per-slot atomics, not this mutex (spec §5, "the chain
	// must never block the audio thread on a lock held by the control
	// thread").
	installMu sync.Mutex
}

// New constructs a chain with all six slots empty (engine id 0, no
// explicit engine installed) and starts its reclaim worker. Call Prepare
// before the first ProcessBlock.
func New(fault FaultHandler) *Chain {
	if fault == nil {
		fault = LogFaultHandler{}
	}
	c := &Chain{
		reclaim:      newReclaimQueue(64),
		fault:        fault,
		sampleRate:   48000,
		maxBlockSize: 512,
	}
	for i := range c.slots {
		c.slots[i] = newSlot()
	}
	c.reclaim.Start()
	c.allocateScratch()
	return c
}

func (c *Chain) allocateScratch() {
	c.scratchL = make([]float32, c.maxBlockSize)
	c.scratchR = make([]float32, c.maxBlockSize)
}

// Prepare enters the chain into a state ready to process blocks up to
// maxBlockSize at sampleRate (spec §3.3, "Chain: ... prepared at session
// start"). Any engine already installed in a slot is re-prepared in place
// so the new rate/block size takes effect without a fresh installEngine
// round-trip. Not realtime-safe; never call from the audio thread.
func (c *Chain) Prepare(sampleRate float64, maxBlockSize int) {
	c.installMu.Lock()
	defer c.installMu.Unlock()

	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if maxBlockSize < 1 {
		maxBlockSize = 1
	}
	c.sampleRate = sampleRate
	c.maxBlockSize = maxBlockSize
	c.allocateScratch()

	for _, slot := range c.slots {
		if h := slot.handle.Load(); h != nil {
			h.engine.Prepare(sampleRate, maxBlockSize)
		}
		slot.mix.SetTimeConstant(0.012, sampleRate)
	}
}

// Reset zeroes every installed engine's internal state (spec §3.3,
// "reset on transport/session events"). Parameter targets and mix/bypass
// are untouched, matching the per-engine Reset contract.
func (c *Chain) Reset() {
	for _, slot := range c.slots {
		if h := slot.handle.Load(); h != nil {
			h.engine.Reset()
		}
		slot.ResetMix()
	}
}

// Close stops the reclaim worker. Call once at chain teardown.
func (c *Chain) Close() {
	c.reclaim.Close()
}

// Slot returns the i'th slot (0-based) for read-only inspection by control
// code (UI state, round-trip readback per spec §8 property 6). Returns nil
// for an out-of-range index.
func (c *Chain) Slot(i int) *Slot {
	if i < 0 || i >= SlotCount {
		return nil
	}
	return c.slots[i]
}

// ProcessBlock is the audio thread's sole entry point (spec §4.5.1). It
// implements, in order: denormal guard acquisition, input metering,
// per-slot engine dispatch with wet/dry mix, output metering, output
// scrubbing, and guard release. Allocation-free, lock-free, and wait-free:
// every per-slot decision is a single atomic load, and the only loop that
// can run unboundedly long (draining a reclaim queue, constructing an
// engine) never executes here.
func (c *Chain) ProcessBlock(buf *fx.Buffer) {
	guard := dsp.AcquireGuard()
	defer guard.Release()

	n := buf.Len()
	if n == 0 {
		return
	}
	c.In.update(buf, c.sampleRate)

	wetL := c.scratchL[:n]
	wetR := c.scratchR[:n]
	for i, slot := range c.slots {
		c.processSlot(i, slot, buf, wetL, wetR, n)
	}

	c.Out.update(buf, c.sampleRate)
	dsp.ScrubSlice(buf.L)
	dsp.ScrubSlice(buf.R)
}

func (c *Chain) processSlot(index int, slot *Slot, buf *fx.Buffer, wetL, wetR []float32, n int) {
	h := slot.handle.Load()
	if h == nil || slot.bypass.Load() {
		return
	}

	copy(wetL, buf.L[:n])
	copy(wetR, buf.R[:n])
	wet := fx.Buffer{L: wetL[:n], R: wetR[:n]}

	if !c.runEngine(index, h, &wet) {
		// A defect inside Process (spec §4.5.3): mute this slot's output
		// for the current block and tear it down to passthrough. The
		// faulted engine still reaches the reclaim queue so the audio
		// thread never runs its destructor.
		for i := 0; i < n; i++ {
			buf.L[i] = 0
			buf.R[i] = 0
		}
		slot.handle.CompareAndSwap(h, nil)
		c.reclaim.Enqueue(reclaimOp{slot: index, handle: h})
		return
	}

	for i := 0; i < n; i++ {
		mix := slot.mix.Next()
		buf.L[i] = float32(float64(wet.L[i])*mix + float64(buf.L[i])*(1-mix))
		buf.R[i] = float32(float64(wet.R[i])*mix + float64(buf.R[i])*(1-mix))
	}
}

// runEngine calls the slot's engine and reports whether it returned
// normally. A panicking engine is a defect (§4.5.3, "a runtime exception
// inside an engine's process is a defect"); recovering here and reporting
// through the fault handler is the optional wrapping the spec allows.
// This path is never taken in the steady state, so the fault-reporting
// call is permitted to do things (format a string, send on a channel)
// that would be unacceptable on the hot path.
func (c *Chain) runEngine(index int, h *engineHandle, wet *fx.Buffer) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if c.fault != nil {
				c.fault.HandleFault(Fault{Slot: index, Kind: FaultProcessPanic, Err: fmt.Errorf("%v", r)})
			}
		}
	}()
	h.engine.Process(wet)
	return true
}

// InstallEngine implements spec §4.5.2's installEngine contract:
// construct via the factory, prepare, swap in with a release-store,
// enqueue the displaced engine for reclaim. Not realtime-safe; must only
// be called from a control thread.
func (c *Chain) InstallEngine(slotIndex, engineID int) error {
	if slotIndex < 0 || slotIndex >= SlotCount {
		return fmt.Errorf("chain: slot index %d out of range [0, %d)", slotIndex, SlotCount)
	}

	c.installMu.Lock()
	defer c.installMu.Unlock()

	engine := catalogue.New(engineID)

	prepared := c.tryPrepare(engine)
	if !prepared {
		if c.fault != nil {
			c.fault.HandleFault(Fault{Slot: slotIndex, Kind: FaultPrepareFailed, Err: fmt.Errorf("engine id %d failed to prepare", engineID)})
		}
		return fmt.Errorf("chain: engine id %d failed to prepare", engineID)
	}

	// Step "apply default parameter values" (§4.5.2 item 3) is already
	// satisfied: every engine seeds its own parameter smoothers to its
	// declared defaults in its constructor (fx.NewBase), so a freshly
	// constructed, freshly prepared engine is already in its default
	// state with no separate call needed here.

	handle := &engineHandle{engine: engine, id: engineID, latency: fx.ReportedLatency(engine)}
	old := c.slots[slotIndex].handle.Swap(handle)
	if old != nil {
		c.reclaim.Enqueue(reclaimOp{slot: slotIndex, handle: old})
	}
	return nil
}

// tryPrepare calls engine.Prepare, treating a panic as the allocation
// failure the spec allows prepare to report (§4.2 "Failure semantics of
// the contract": prepare may fail only by exhausting memory, and must
// leave the engine in a rolled-back, un-prepared state). Go has no
// recoverable out-of-memory signal to catch deliberately, but a defensive
// engine author's Prepare may still panic on a pathological
// sampleRate/maxBlockSize combination, and this is the one seam the chain
// has to treat that the same way the contract demands.
func (c *Chain) tryPrepare(engine fx.Engine) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	engine.Prepare(c.sampleRate, c.maxBlockSize)
	return true
}

// UpdateSlotParameters implements spec §4.5.2's updateSlotParameters:
// deliver a parameter map to the slot's current engine. The engine's own
// ApplyUpdate (via Base) does the clamping/smoothing; this method is a
// single pointer load plus one interface call, safe to call often.
func (c *Chain) UpdateSlotParameters(slotIndex int, params fx.ParameterUpdate) error {
	if slotIndex < 0 || slotIndex >= SlotCount {
		return fmt.Errorf("chain: slot index %d out of range [0, %d)", slotIndex, SlotCount)
	}
	if len(params) == 0 {
		return nil
	}
	h := c.slots[slotIndex].handle.Load()
	if h == nil {
		return nil
	}
	h.engine.UpdateParameters(params)
	return nil
}

// InstallPreset implements spec §4.5.2's installPreset: for each of the
// six slots, install a new engine only if the declared id differs from
// the current one, then deliver parameters and set bypass/mix. Slot order
// is irrelevant to output semantics because every swap point is per-slot
// atomic (§5).
//
// Engine/bypass/mix only change for a slot whose SlotSpec.Touched is true
// (spec §6.2, "a slot not listed in engines retains its current engine").
// Params apply independently of Touched: §6.2's flat parameter map is
// keyed by slot number with no requirement that the slot also appear in
// the engines array, so a preset may tweak a parameter on a slot whose
// engine it leaves alone.
func (c *Chain) InstallPreset(specs [SlotCount]SlotSpec) []error {
	var errs []error
	for i, spec := range specs {
		if spec.Touched {
			if c.slots[i].EngineID() != spec.EngineID {
				if err := c.InstallEngine(i, spec.EngineID); err != nil {
					errs = append(errs, fmt.Errorf("slot %d: %w", i+1, err))
					continue
				}
			}
			c.slots[i].SetBypass(spec.Bypass)
			if spec.HasMix {
				c.slots[i].SetMix(spec.Mix)
			}
		}
		if len(spec.Params) > 0 {
			_ = c.UpdateSlotParameters(i, spec.Params)
		}
	}
	return errs
}

// ReclaimedCount reports how many displaced engines have completed
// hand-off to the reclaim worker, for tests and diagnostics (spec §8
// scenario E).
func (c *Chain) ReclaimedCount() uint64 { return c.reclaim.Drained() }

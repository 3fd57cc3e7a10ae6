package chain

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/phoenix-chimera/audiocore/fx"
)

func sineBuffer(n int) *fx.Buffer {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := range l {
		v := float32(0.5 * math.Sin(2*math.Pi*1000*float64(i)/48000))
		l[i] = v
		r[i] = v
	}
	return &fx.Buffer{L: l, R: r}
}

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	c := New(NoopFaultHandler{})
	c.Prepare(48000, 512)
	t.Cleanup(c.Close)
	return c
}

// Scenario A: all six slots at id 0 (no engine installed) must reproduce
// the input bit-identically.
func TestPassthroughChainIsBitIdentical(t *testing.T) {
	c := newTestChain(t)
	buf := sineBuffer(512)
	want := append([]float32(nil), buf.L...)
	c.ProcessBlock(buf)
	for i := range buf.L {
		if buf.L[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, buf.L[i], want[i])
		}
	}
}

// Property 3: mix = 0 on an installed engine must be bit-identical to the
// dry input regardless of what the engine does internally.
func TestMixAtZeroIsBitIdentical(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(0, 9); err != nil { // Ladder Filter
		t.Fatalf("InstallEngine: %v", err)
	}
	c.slots[0].SetMix(0)
	c.slots[0].ResetMix()

	buf := sineBuffer(512)
	want := append([]float32(nil), buf.L...)
	c.ProcessBlock(buf)
	for i := range buf.L {
		if math.Abs(float64(buf.L[i]-want[i])) > 1e-6 {
			t.Fatalf("index %d: got %v want %v", i, buf.L[i], want[i])
		}
	}
}

// Property 4: a bypassed slot must be bit-identical to its input no
// matter what engine occupies it.
func TestBypassIsBitIdentical(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(2, 20); err != nil { // Muff Fuzz: heavily nonlinear
		t.Fatalf("InstallEngine: %v", err)
	}
	c.slots[2].SetBypass(true)

	buf := sineBuffer(256)
	want := append([]float32(nil), buf.L...)
	c.ProcessBlock(buf)
	for i := range buf.L {
		if buf.L[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, buf.L[i], want[i])
		}
	}
}

// Property 5: reset twice in a row behaves like reset once; a block
// processed after either produces the same output for the same input.
func TestIdempotentReset(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(0, 35); err != nil { // Digital Delay
		t.Fatalf("InstallEngine: %v", err)
	}

	c.Reset()
	out1 := sineBuffer(256)
	c.ProcessBlock(out1)

	c.Reset()
	c.Reset()
	out2 := sineBuffer(256)
	c.ProcessBlock(out2)

	for i := range out1.L {
		if out1.L[i] != out2.L[i] {
			t.Fatalf("index %d: reset-once %v != reset-twice %v", i, out1.L[i], out2.L[i])
		}
	}
}

// Property 7 (chain-level slice): feeding bounded noise through a mixed
// chain of several engines never yields a non-finite or catastrophic
// sample.
func TestChainNeverProducesNonFiniteOrCatastrophicOutput(t *testing.T) {
	c := newTestChain(t)
	ids := []int{2, 9, 20, 25, 34, 44}
	for slot, id := range ids {
		if err := c.InstallEngine(slot, id); err != nil {
			t.Fatalf("InstallEngine(%d, %d): %v", slot, id, err)
		}
	}
	buf := sineBuffer(512)
	for b := 0; b < 10; b++ {
		c.ProcessBlock(buf)
		for i := range buf.L {
			if math.IsNaN(float64(buf.L[i])) || math.IsInf(float64(buf.L[i]), 0) {
				t.Fatalf("non-finite sample at block %d index %d", b, i)
			}
			if math.Abs(float64(buf.L[i])) > 2.0 {
				t.Fatalf("catastrophic sample at block %d index %d: %v", b, i, buf.L[i])
			}
		}
	}
}

// Scenario F: Tape Echo's feedback parameter driven to 1.0 must still
// produce a bounded output, since the engine clamps feedback internally
// regardless of what the chain delivers.
func TestFeedbackClampKeepsChainOutputBounded(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(2, 34); err != nil { // Tape Echo
		t.Fatalf("InstallEngine: %v", err)
	}
	if err := c.UpdateSlotParameters(2, fx.ParameterUpdate{1: 1.0}); err != nil {
		t.Fatalf("UpdateSlotParameters: %v", err)
	}

	buf := &fx.Buffer{L: make([]float32, 512), R: make([]float32, 512)}
	buf.L[0] = 1.0
	buf.R[0] = 1.0
	for b := 0; b < 50; b++ {
		c.ProcessBlock(buf)
		for i := range buf.L {
			if math.Abs(float64(buf.L[i])) > 2.0 {
				t.Fatalf("diverging output at block %d index %d: %v", b, i, buf.L[i])
			}
		}
		buf = &fx.Buffer{L: make([]float32, 512), R: make([]float32, 512)}
	}
}

// Scenario E: swapping an engine under load must hand the displaced
// engine to the reclaim queue rather than destroying it inline, and the
// audio thread must never see a non-finite sample at the swap boundary.
func TestInstallEngineReclaimsDisplacedEngine(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(0, 39); err != nil { // Plate Reverb
		t.Fatalf("InstallEngine: %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := sineBuffer(256)
		for {
			select {
			case <-stop:
				return
			default:
				c.ProcessBlock(buf)
				for _, v := range buf.L {
					if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
						t.Errorf("non-finite sample during swap")
						return
					}
				}
			}
		}
	}()

	if err := c.InstallEngine(0, 15); err != nil { // Vintage Tube
		t.Fatalf("InstallEngine: %v", err)
	}
	close(stop)
	wg.Wait()

	deadline := time.After(time.Second)
	for c.ReclaimedCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("displaced engine was never reclaimed")
		default:
		}
	}
}

// InstallPreset must leave slots not named in the spec untouched, and must
// only reinstall an engine when the declared id actually differs.
func TestInstallPresetTouchedVsUntouched(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(1, 7); err != nil { // Parametric EQ, pre-existing
		t.Fatalf("InstallEngine: %v", err)
	}

	var specs [SlotCount]SlotSpec
	specs[0] = SlotSpec{Touched: true, EngineID: 2, Bypass: false, HasMix: true, Mix: 1.0}
	// specs[1] intentionally left untouched.

	if errs := c.InstallPreset(specs); len(errs) != 0 {
		t.Fatalf("InstallPreset errors: %v", errs)
	}
	if c.slots[0].EngineID() != 2 {
		t.Fatalf("slot 0: got id %d, want 2", c.slots[0].EngineID())
	}
	if c.slots[1].EngineID() != 7 {
		t.Fatalf("slot 1 should be untouched, got id %d, want 7", c.slots[1].EngineID())
	}
}

// UpdateSlotParameters on an empty slot must be a no-op, not a panic.
func TestUpdateSlotParametersOnEmptySlotIsNoop(t *testing.T) {
	c := newTestChain(t)
	if err := c.UpdateSlotParameters(3, fx.ParameterUpdate{0: 1.0}); err != nil {
		t.Fatalf("UpdateSlotParameters: %v", err)
	}
}

// Out-of-range slot indices return an error rather than panicking.
func TestOutOfRangeSlotIndexIsAnError(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(6, 0); err == nil {
		t.Fatal("expected error for slot index 6")
	}
	if err := c.InstallEngine(-1, 0); err == nil {
		t.Fatal("expected error for slot index -1")
	}
}

// Property 10 (best-effort): the audio thread must keep processing blocks
// without error while the control thread hammers installEngine and
// updateSlotParameters concurrently. Go has no portable way to assert
// "no priority inversion" from inside the process; this instead asserts
// the weaker but still meaningful property that no call panics and every
// block stays finite under concurrent control-thread churn.
func TestConcurrentControlChurnDoesNotDisturbAudioThread(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(0, 1); err != nil {
		t.Fatalf("InstallEngine: %v", err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := sineBuffer(128)
		for {
			select {
			case <-stop:
				return
			default:
				c.ProcessBlock(buf)
				for _, v := range buf.L {
					if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
						t.Errorf("non-finite sample under control churn")
						return
					}
				}
			}
		}
	}()

	ids := []int{1, 2, 3, 4, 5, 6}
	for i := 0; i < 200; i++ {
		_ = c.InstallEngine(0, ids[i%len(ids)])
		_ = c.UpdateSlotParameters(0, fx.ParameterUpdate{0: float64(i%10) / 10})
	}
	close(stop)
	wg.Wait()
}

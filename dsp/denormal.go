// Package dsp provides the small, reusable DSP primitives shared by every
// effect engine: denormal hygiene, DC blocking, parameter smoothing, buffer
// scrubbing, and oversampling.
package dsp

// denormalFloor is the magnitude below which FlushDenormal and
// FlushDenormal32 replace a value with exact zero, so feedback loops and
// filter memories never decay into denormal range. Go has no portable
// way to flip the CPU's flush-to-zero/denormals-are-zero mode without cgo or
// architecture-specific assembly (the native frameworks the teacher binds to
// do this at the OS/compiler level for free); this repo instead flushes a
// recursive state variable to exact zero once it decays below this floor,
// which is the software equivalent of FTZ/DAZ for Go code that stays inside
// stdlib-only math.
const denormalFloor = 1.0e-18

// GuardScope marks entry/exit of a processing block during which callers
// should apply denormal hygiene to their internal state. It carries no OS
// handle (there is none in portable Go) — it exists so call sites read the
// same way the teacher's scoped native guard does, and so a future
// architecture-specific implementation has a single seam to slot into.
type GuardScope struct{ active bool }

// AcquireGuard begins a denormal-hygiene scope for one process() call. The
// caller must call Release (typically via defer) before returning.
func AcquireGuard() GuardScope {
	return GuardScope{active: true}
}

// Release ends the scope. Safe to call multiple times.
func (g *GuardScope) Release() {
	g.active = false
}

// FlushDenormal replaces a value that has decayed into subnormal range (or
// is so close to zero that it is indistinguishable from one for audio
// purposes) with exact zero, exactly as the teacher's output scrub stage
// does for NaN/Inf. Applying this at the per-sample feedback point inside a
// filter or delay line is how engines stay fast without a CPU-level FTZ bit.
func FlushDenormal(x float64) float64 {
	if x > -denormalFloor && x < denormalFloor {
		return 0
	}
	return x
}

// FlushDenormal32 is the float32 counterpart used directly in the audio
// buffer's sample type.
func FlushDenormal32(x float32) float32 {
	if x > -denormalFloor && x < denormalFloor {
		return 0
	}
	return x
}

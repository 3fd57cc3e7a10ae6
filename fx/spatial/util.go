package spatial

import "math"

// readSampleWrap linearly interpolates a sample from a circular buffer at
// a fractional, possibly-negative index, wrapping into range first.
func readSampleWrap(buf []float64, idx float64) float64 {
	n := len(buf)
	for idx < 0 {
		idx += float64(n)
	}
	i0 := int(idx) % n
	frac := idx - math.Floor(idx)
	i1 := (i0 + 1) % n
	return buf[i0]*(1-frac) + buf[i1]*frac
}

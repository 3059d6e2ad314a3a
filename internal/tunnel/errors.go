package tunnel

import "fmt"

// ErrValidation reports per-field violations that blocked a forward transition.
type ErrValidation struct {
	Step   int
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("step %d (%s): %d field(s) invalid", e.Step, StepName(e.Step), len(e.Fields))
}

// ErrSubmitInFlight indicates a Next/Submit call arrived while a submission
// was already running for the session.
type ErrSubmitInFlight struct{}

func (e *ErrSubmitInFlight) Error() string { return "submission already in progress" }

// ErrSessionClosed indicates the session already submitted successfully.
type ErrSessionClosed struct{}

func (e *ErrSessionClosed) Error() string { return "tunnel session already submitted" }

// ErrForwardJump indicates an attempt to jump ahead of the current step.
type ErrForwardJump struct {
	From, To int
}

func (e *ErrForwardJump) Error() string {
	return fmt.Sprintf("cannot jump forward from step %d to step %d", e.From, e.To)
}

// ErrSubmitFailed wraps a finalizer failure. The session state is left intact
// for a manual retry.
type ErrSubmitFailed struct {
	Err error
}

func (e *ErrSubmitFailed) Error() string { return fmt.Sprintf("submission failed: %v", e.Err) }

func (e *ErrSubmitFailed) Unwrap() error { return e.Err }

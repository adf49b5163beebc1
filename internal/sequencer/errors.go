// internal/sequencer/errors.go
package sequencer

import (
	"errors"
	"fmt"
)

// ErrRunInProgress is returned when Run is called while another run owns the unit.
var ErrRunInProgress = errors.New("sequencer: run already in progress")

// RunError marks a failed run. No RunReport accompanies it.
type RunError struct {
	State State
	Err   error

	// ReleaseAttempted is set when outputs were energized and the run was
	// cancelled, so a best-effort ReleaseOutputs was issued.
	ReleaseAttempted bool
	// ReleaseErr is the outcome of that release; nil means the relays were
	// switched off.
	ReleaseErr error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("run failed in %s: %v", e.State, e.Err)
	if e.ReleaseAttempted {
		if e.ReleaseErr != nil {
			msg += fmt.Sprintf(" (release failed: %v)", e.ReleaseErr)
		} else {
			msg += " (outputs released)"
		}
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Err }

// internal/sequencer/types.go
package sequencer

import (
	"fmt"
	"time"

	"github.com/tamzrod/modbus-8ro/internal/device"
)

// State is one step of the actuation sequence.
// The sequence is strictly linear; there is no branching and no retry.
type State uint8

const (
	StateIdle State = iota
	StateReadIdentity
	StateCaptureBaseline
	StateAssertOutputs
	StateHoldOn
	StateCaptureAfter
	StateReadSensors
	StateReleaseOutputs
	StateHoldOff
	StateDone
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateReadIdentity:    "read_identity",
	StateCaptureBaseline: "capture_baseline",
	StateAssertOutputs:   "assert_outputs",
	StateHoldOn:          "hold_on",
	StateCaptureAfter:    "capture_after",
	StateReadSensors:     "read_sensors",
	StateReleaseOutputs:  "release_outputs",
	StateHoldOff:         "hold_off",
	StateDone:            "done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Snapshot is the relay / input pair captured around actuation.
type Snapshot struct {
	Relays device.BitField8
	Inputs device.BitField8
}

// RunReport is the result of one successful run.
// It is built once, never modified afterwards, and owned by the caller.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Mask     device.BitField8
	Identity device.Identity

	Before Snapshot
	After  Snapshot

	// Nil when the unit reports the "not connected" sentinel.
	Temperature *device.Temperature
	Humidity    *device.Measurement
}

// FirmwareVersion is Identity.FirmwareVersion.
func (r *RunReport) FirmwareVersion() string {
	return r.Identity.FirmwareVersion()
}

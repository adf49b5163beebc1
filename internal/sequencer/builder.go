// internal/sequencer/builder.go
package sequencer

import (
	"time"

	cfg "github.com/tamzrod/modbus-8ro/internal/config"
	"github.com/tamzrod/modbus-8ro/internal/device"
)

// Build constructs a Sequencer from a normalized controller config.
// Assumes config has already passed Validate and Normalize.
func Build(c cfg.ControllerConfig, regs Registers, opts ...Option) (*Sequencer, error) {
	m, err := cfg.RegisterMap(c)
	if err != nil {
		return nil, err
	}

	sc := Config{
		Map:     m,
		Mask:    device.AllOn,
		HoldOn:  DefaultHoldOn,
		HoldOff: DefaultHoldOff,
	}
	if c.Sequence.RelayMask != nil {
		sc.Mask = device.BitField8(*c.Sequence.RelayMask)
	}
	if c.Sequence.HoldOnMs != nil {
		sc.HoldOn = time.Duration(*c.Sequence.HoldOnMs) * time.Millisecond
	}
	if c.Sequence.HoldOffMs != nil {
		sc.HoldOff = time.Duration(*c.Sequence.HoldOffMs) * time.Millisecond
	}

	return New(sc, regs, opts...)
}

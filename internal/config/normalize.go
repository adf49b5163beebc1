// internal/config/normalize.go
package config

import "github.com/tamzrod/modbus-8ro/internal/device"

// Defaults of the stock module's serial line and actuation timing.
const (
	DefaultMode      = "rtu"
	DefaultBaudRate  = 19200
	DefaultDataBits  = 8
	DefaultParity    = "N"
	DefaultStopBits  = 1
	DefaultTimeoutMs = 1000
	DefaultLogLevel  = "info"
	DefaultHoldOnMs  = 5000
	DefaultHoldOffMs = 2000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.Controller

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	// ------------------------------------------------------------
	// TRANSPORT DEFAULTS
	// ------------------------------------------------------------

	t := &c.Transport
	if t.Mode == "" {
		t.Mode = DefaultMode
	}
	if t.BaudRate == 0 {
		t.BaudRate = DefaultBaudRate
	}
	if t.DataBits == 0 {
		t.DataBits = DefaultDataBits
	}
	if t.Parity == "" {
		t.Parity = DefaultParity
	}
	if t.StopBits == 0 {
		t.StopBits = DefaultStopBits
	}
	if t.TimeoutMs == 0 {
		t.TimeoutMs = DefaultTimeoutMs
	}

	// ------------------------------------------------------------
	// SEQUENCE: channel list folds into relay_mask
	// ------------------------------------------------------------

	s := &c.Sequence
	if s.RelayMask == nil {
		mask := uint8(device.AllOn)
		if len(s.Channels) > 0 {
			// channels already range-checked by Validate
			m, _ := device.MaskOf(s.Channels...)
			mask = uint8(m)
		}
		s.RelayMask = &mask
	}
	s.Channels = nil

	if s.HoldOnMs == nil {
		v := DefaultHoldOnMs
		s.HoldOnMs = &v
	}
	if s.HoldOffMs == nil {
		v := DefaultHoldOffMs
		s.HoldOffMs = &v
	}
}

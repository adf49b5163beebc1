// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/modbus-8ro/internal/device"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted here.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	c := cfg.Controller

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: must be debug, info, warn or error", c.LogLevel)
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	t := c.Transport

	switch t.Mode {
	case "", "rtu":
		if t.Port == "" {
			return fmt.Errorf("transport: port is required in rtu mode")
		}
		// Serial unit addresses: 1..247. 0 is broadcast and never answers.
		if c.UnitID < 1 || c.UnitID > 247 {
			return fmt.Errorf("unit_id %d: must be in range 1..247 on a serial line", c.UnitID)
		}
	case "tcp":
		if t.Endpoint == "" {
			return fmt.Errorf("transport: endpoint is required in tcp mode")
		}
	default:
		return fmt.Errorf("transport: unknown mode %q (rtu|tcp)", t.Mode)
	}

	if t.BaudRate < 0 {
		return fmt.Errorf("transport: baud_rate %d must not be negative", t.BaudRate)
	}
	if t.DataBits != 0 && (t.DataBits < 5 || t.DataBits > 8) {
		return fmt.Errorf("transport: data_bits %d must be in range 5..8", t.DataBits)
	}
	switch t.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("transport: parity %q must be N, E or O", t.Parity)
	}
	switch t.StopBits {
	case 0, 1, 2:
	default:
		return fmt.Errorf("transport: stop_bits %d must be 1 or 2", t.StopBits)
	}
	if t.TimeoutMs < 0 {
		return fmt.Errorf("transport: timeout_ms %d must be >= 0", t.TimeoutMs)
	}

	// ------------------------------------------------------------
	// SEQUENCE
	// ------------------------------------------------------------

	s := c.Sequence

	if s.RelayMask != nil && len(s.Channels) > 0 {
		return fmt.Errorf("sequence: relay_mask and channels are mutually exclusive")
	}
	if s.RelayMask != nil && *s.RelayMask == 0 {
		return fmt.Errorf("sequence: relay_mask selects no channels")
	}

	seen := make(map[int]bool)
	for _, ch := range s.Channels {
		if ch < 1 || ch > device.Channels {
			return fmt.Errorf("sequence: channel %d out of range 1..%d", ch, device.Channels)
		}
		if seen[ch] {
			return fmt.Errorf("sequence: channel %d listed twice", ch)
		}
		seen[ch] = true
	}

	if s.HoldOnMs != nil && *s.HoldOnMs < 0 {
		return fmt.Errorf("sequence: hold_on_ms %d must be >= 0", *s.HoldOnMs)
	}
	if s.HoldOffMs != nil && *s.HoldOffMs < 0 {
		return fmt.Errorf("sequence: hold_off_ms %d must be >= 0", *s.HoldOffMs)
	}

	// ------------------------------------------------------------
	// REGISTER MAP OVERRIDES
	// ------------------------------------------------------------

	if _, err := RegisterMap(c); err != nil {
		return err
	}

	return nil
}

// RegisterMap returns the stock map with c's address overrides applied.
func RegisterMap(c ControllerConfig) (device.RegisterMap, error) {
	m, err := device.Default8RO().WithAddresses(c.Registers)
	if err != nil {
		return device.RegisterMap{}, err
	}
	if err := m.Validate(); err != nil {
		return device.RegisterMap{}, err
	}
	return m, nil
}

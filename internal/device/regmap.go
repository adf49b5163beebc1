// internal/device/regmap.go
package device

import "fmt"

// Register map of the 8-relay module.
// These values define the wire contract with the unit and are not negotiated.

// ---- IDENTITY ----

// AddrProjectID holds the project identifier.
const AddrProjectID uint16 = 0

// AddrFirmwareMajor holds the firmware major version.
const AddrFirmwareMajor uint16 = 1

// AddrFirmwareMinor holds the firmware minor version.
const AddrFirmwareMinor uint16 = 2

// ---- RELAYS / INPUTS ----

// AddrRelayControl is the write-only relay command register (low byte = mask).
const AddrRelayControl uint16 = 199

// AddrRelayState reports the current relay outputs (low byte).
const AddrRelayState uint16 = 210

// AddrDigitalInputState reports the digital inputs (low byte).
const AddrDigitalInputState uint16 = 211

// ---- SENSORS ----

// AddrTemperature holds °C × 100, or TemperatureSentinel when no sensor is attached.
const AddrTemperature uint16 = 299

// AddrHumidity holds %RH × 100, or HumiditySentinel when no sensor is attached.
const AddrHumidity uint16 = 300

// Access describes which directions a register supports.
type Access uint8

const (
	ReadOnly Access = iota + 1
	WriteOnly
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "ro"
	case WriteOnly:
		return "wo"
	case ReadWrite:
		return "rw"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}

func (a Access) Readable() bool { return a == ReadOnly || a == ReadWrite }
func (a Access) Writable() bool { return a == WriteOnly || a == ReadWrite }

// Register is one single-width holding register of the map.
type Register struct {
	Name    string
	Address uint16
	Access  Access
}

// Register names, as used by configuration overrides.
const (
	NameProjectID         = "project_id"
	NameFirmwareMajor     = "firmware_major"
	NameFirmwareMinor     = "firmware_minor"
	NameRelayControl      = "relay_control"
	NameRelayState        = "relay_state"
	NameDigitalInputState = "digital_input_state"
	NameTemperature       = "temperature"
	NameHumidity          = "humidity"
)

// RegisterMap is the immutable address table the controller works against.
// It is passed by value; callers never share a mutable copy.
type RegisterMap struct {
	ProjectID         Register
	FirmwareMajor     Register
	FirmwareMinor     Register
	RelayControl      Register
	RelayState        Register
	DigitalInputState Register
	Temperature       Register
	Humidity          Register
}

// Default8RO returns the register map of the stock 8-relay module.
func Default8RO() RegisterMap {
	return RegisterMap{
		ProjectID:         Register{Name: NameProjectID, Address: AddrProjectID, Access: ReadOnly},
		FirmwareMajor:     Register{Name: NameFirmwareMajor, Address: AddrFirmwareMajor, Access: ReadOnly},
		FirmwareMinor:     Register{Name: NameFirmwareMinor, Address: AddrFirmwareMinor, Access: ReadOnly},
		RelayControl:      Register{Name: NameRelayControl, Address: AddrRelayControl, Access: WriteOnly},
		RelayState:        Register{Name: NameRelayState, Address: AddrRelayState, Access: ReadOnly},
		DigitalInputState: Register{Name: NameDigitalInputState, Address: AddrDigitalInputState, Access: ReadOnly},
		Temperature:       Register{Name: NameTemperature, Address: AddrTemperature, Access: ReadOnly},
		Humidity:          Register{Name: NameHumidity, Address: AddrHumidity, Access: ReadOnly},
	}
}

// Registers lists the map entries in address-table order.
func (m RegisterMap) Registers() []Register {
	return []Register{
		m.ProjectID,
		m.FirmwareMajor,
		m.FirmwareMinor,
		m.RelayControl,
		m.RelayState,
		m.DigitalInputState,
		m.Temperature,
		m.Humidity,
	}
}

// WithAddresses returns a copy of m with the named registers moved.
// Unknown names are rejected; m itself is never modified.
func (m RegisterMap) WithAddresses(overrides map[string]uint16) (RegisterMap, error) {
	out := m
	for name, addr := range overrides {
		r := out.lookup(name)
		if r == nil {
			return m, fmt.Errorf("register map: unknown register %q", name)
		}
		r.Address = addr
	}
	return out, nil
}

func (m *RegisterMap) lookup(name string) *Register {
	switch name {
	case NameProjectID:
		return &m.ProjectID
	case NameFirmwareMajor:
		return &m.FirmwareMajor
	case NameFirmwareMinor:
		return &m.FirmwareMinor
	case NameRelayControl:
		return &m.RelayControl
	case NameRelayState:
		return &m.RelayState
	case NameDigitalInputState:
		return &m.DigitalInputState
	case NameTemperature:
		return &m.Temperature
	case NameHumidity:
		return &m.Humidity
	}
	return nil
}

// Validate checks the table is usable: every entry named, access set,
// and no two entries sharing an address.
func (m RegisterMap) Validate() error {
	owner := make(map[uint16]string)

	for _, r := range m.Registers() {
		if r.Name == "" {
			return fmt.Errorf("register map: entry at address %d has no name", r.Address)
		}
		if r.Access < ReadOnly || r.Access > ReadWrite {
			return fmt.Errorf("register map: %s has invalid access %s", r.Name, r.Access)
		}
		if prev, exists := owner[r.Address]; exists {
			return fmt.Errorf(
				"register map: address collision: %d used by %s and %s",
				r.Address,
				prev,
				r.Name,
			)
		}
		owner[r.Address] = r.Name
	}

	if !m.RelayControl.Access.Writable() {
		return fmt.Errorf("register map: %s must be writable", m.RelayControl.Name)
	}

	return nil
}

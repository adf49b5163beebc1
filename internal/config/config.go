// internal/config/config.go
package config

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
}

// ---- CONTROLLER ----

type ControllerConfig struct {
	LogLevel  string            `yaml:"log_level"`
	UnitID    uint8             `yaml:"unit_id"`
	Transport TransportConfig   `yaml:"transport"`
	Sequence  SequenceConfig    `yaml:"sequence"`
	Registers map[string]uint16 `yaml:"registers"` // address overrides by register name
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Mode string `yaml:"mode"` // rtu | tcp

	// RTU (serial line)
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N | E | O
	StopBits int    `yaml:"stop_bits"`

	// TCP
	Endpoint string `yaml:"endpoint"`

	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- SEQUENCE ----

type SequenceConfig struct {
	// Exactly one of RelayMask / Channels may be set; neither means all relays.
	RelayMask *uint8 `yaml:"relay_mask"`
	Channels  []int  `yaml:"channels"`

	HoldOnMs  *int `yaml:"hold_on_ms"`
	HoldOffMs *int `yaml:"hold_off_ms"`
}

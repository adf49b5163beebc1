// internal/transport/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

const (
	ModeRTU = "rtu"
	ModeTCP = "tcp"
)

// Config is minimal transport config.
// Serial is used in RTU mode, Endpoint in TCP mode.
type Config struct {
	Mode     string
	Serial   serial.Config
	Endpoint string
	Timeout  time.Duration

	// Logger receives goburrow's frame trace when non-nil.
	Logger *log.Logger
}

type connector interface {
	Connect() error
	Close() error
}

// Client is a single connection to one Modbus line (serial or TCP).
// It serializes requests because it mutates SlaveId per call.
type Client struct {
	mu       sync.Mutex
	conn     connector
	setSlave func(uint8)
	client   modbus.Client
	name     string
	open     bool
}

// New builds the handler for cfg. It does not touch the line; call Open.
func New(cfg Config) (*Client, error) {
	switch cfg.Mode {
	case ModeRTU, "":
		if cfg.Serial.Address == "" {
			return nil, errors.New("transport modbus: serial port required")
		}
		h := modbus.NewRTUClientHandler(cfg.Serial.Address)
		h.Config = cfg.Serial
		if cfg.Timeout > 0 {
			h.Timeout = cfg.Timeout
		}
		h.Logger = cfg.Logger

		return &Client{
			conn:     h,
			setSlave: func(id uint8) { h.SlaveId = id },
			client:   modbus.NewClient(h),
			name:     cfg.Serial.Address,
		}, nil

	case ModeTCP:
		if cfg.Endpoint == "" {
			return nil, errors.New("transport modbus: endpoint required")
		}
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		if cfg.Timeout > 0 {
			h.Timeout = cfg.Timeout
		}
		h.Logger = cfg.Logger

		return &Client{
			conn:     h,
			setSlave: func(id uint8) { h.SlaveId = id },
			client:   modbus.NewClient(h),
			name:     cfg.Endpoint,
		}, nil

	default:
		return nil, fmt.Errorf("transport modbus: unknown mode %q", cfg.Mode)
	}
}

// Name is the port path or endpoint the client talks to.
func (c *Client) Name() string { return c.name }

// Open connects the underlying port or socket.
func (c *Client) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		return nil
	}
	if err := c.conn.Connect(); err != nil {
		return fmt.Errorf("could not open %s: %w", c.name, err)
	}
	c.open = true
	return nil
}

// Close releases the port. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil
	}
	c.open = false
	return c.conn.Close()
}

// ---- register.Transport ----

func (c *Client) ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, errors.New("modbus: read-registers byte count not even")
	}
	return unpackRegisters(raw), nil
}

func (c *Client) WriteSingleRegister(unitID uint8, addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSlave(unitID)

	// goburrow verifies the echoed address/value itself.
	_, err := c.client.WriteSingleRegister(addr, value)
	return err
}

// ---- helpers (pure geometry) ----

// Modbus register memory order (BIG-ENDIAN)
func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

// internal/register/client.go
package register

import (
	"errors"
	"fmt"
)

// Transport is the wire collaborator the client marshals onto.
// Framing, CRC and retries all live behind it.
type Transport interface {
	ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) // FC 3
	WriteSingleRegister(unitID uint8, addr, value uint16) error            // FC 6
}

// Client issues typed register operations against one addressed unit.
// No retries: any fault is returned as *TransportError.
type Client struct {
	tr     Transport
	unitID uint8
}

// New binds a transport to a fixed unit address.
func New(tr Transport, unitID uint8) (*Client, error) {
	if tr == nil {
		return nil, errors.New("register client: transport required")
	}
	return &Client{tr: tr, unitID: unitID}, nil
}

// UnitID returns the unit address every request is tagged with.
func (c *Client) UnitID() uint8 { return c.unitID }

// ReadRegisters reads count consecutive holding registers starting at address.
// The result always has exactly count words.
func (c *Client) ReadRegisters(address, count uint16) ([]uint16, error) {
	if count == 0 {
		return nil, c.fail(OpRead, address, count, errors.New("count must be >= 1"))
	}

	regs, err := c.tr.ReadHoldingRegisters(c.unitID, address, count)
	if err != nil {
		return nil, c.fail(OpRead, address, count, err)
	}
	if len(regs) != int(count) {
		return nil, c.fail(OpRead, address, count,
			fmt.Errorf("short response: got %d registers, want %d", len(regs), count))
	}

	return regs, nil
}

// ReadRegister reads a single holding register.
func (c *Client) ReadRegister(address uint16) (uint16, error) {
	regs, err := c.ReadRegisters(address, 1)
	if err != nil {
		return 0, err
	}
	return regs[0], nil
}

// WriteRegister writes one holding register. The write is atomic at this layer.
func (c *Client) WriteRegister(address, value uint16) error {
	if err := c.tr.WriteSingleRegister(c.unitID, address, value); err != nil {
		return c.fail(OpWrite, address, 1, err)
	}
	return nil
}

func (c *Client) fail(op Op, address, count uint16, err error) *TransportError {
	return &TransportError{
		Op:      op,
		Unit:    c.unitID,
		Address: address,
		Count:   count,
		Err:     err,
	}
}

// internal/transport/modbus/loopback_test.go
package modbus

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

// ---- minimal Modbus TCP unit (FC 3 / FC 6) ----

type tcpUnit struct {
	ln net.Listener

	mu       sync.Mutex
	regs     map[uint16]uint16
	units    []uint8
	oddBytes bool
}

func startTCPUnit(t *testing.T) *tcpUnit {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	u := &tcpUnit{ln: ln, regs: map[uint16]uint16{}}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go u.serve(conn)
		}
	}()
	return u
}

func (u *tcpUnit) seenUnits() []uint8 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]uint8(nil), u.units...)
}

func (u *tcpUnit) serve(conn net.Conn) {
	defer conn.Close()

	for {
		// MBAP: TID(2) PID(2) LEN(2) UID(1)
		hdr := make([]byte, 7)
		if _, err := io.ReadFull(conn, hdr); err != nil {
			return
		}
		pdu := make([]byte, int(binary.BigEndian.Uint16(hdr[4:6]))-1)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}

		u.mu.Lock()
		u.units = append(u.units, hdr[6])

		var resp []byte
		switch pdu[0] {
		case 3:
			addr := binary.BigEndian.Uint16(pdu[1:3])
			qty := binary.BigEndian.Uint16(pdu[3:5])
			if u.oddBytes {
				resp = []byte{3, 3, 0x00, 0xFF, 0x01}
				break
			}
			resp = []byte{3, byte(2 * qty)}
			for i := uint16(0); i < qty; i++ {
				resp = binary.BigEndian.AppendUint16(resp, u.regs[addr+i])
			}
		case 6:
			u.regs[binary.BigEndian.Uint16(pdu[1:3])] = binary.BigEndian.Uint16(pdu[3:5])
			resp = pdu // echo
		default:
			resp = []byte{pdu[0] | 0x80, 1}
		}
		u.mu.Unlock()

		out := make([]byte, 7, 7+len(resp))
		copy(out[0:4], hdr[0:4])
		binary.BigEndian.PutUint16(out[4:6], uint16(len(resp)+1))
		out[6] = hdr[6]
		out = append(out, resp...)

		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

func newTCPClient(t *testing.T, u *tcpUnit) *Client {
	t.Helper()

	c, err := New(Config{
		Mode:     ModeTCP,
		Endpoint: u.ln.Addr().String(),
		Timeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if err := c.Open(); err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// ---- tests ----

func TestTCP_ReadWriteTagsUnitPerCall(t *testing.T) {
	u := startTCPUnit(t)
	u.mu.Lock()
	u.regs[210] = 0x00FF
	u.regs[211] = 0x0005
	u.mu.Unlock()

	c := newTCPClient(t, u)

	regs, err := c.ReadHoldingRegisters(134, 210, 2)
	if err != nil {
		t.Fatalf("ReadHoldingRegisters err=%v", err)
	}
	if len(regs) != 2 || regs[0] != 0x00FF || regs[1] != 0x0005 {
		t.Fatalf("unexpected registers: %v", regs)
	}

	if err := c.WriteSingleRegister(9, 199, 0x00FF); err != nil {
		t.Fatalf("WriteSingleRegister err=%v", err)
	}

	u.mu.Lock()
	written := u.regs[199]
	u.mu.Unlock()
	if written != 0x00FF {
		t.Fatalf("write not applied: %#x", written)
	}

	units := u.seenUnits()
	if len(units) != 2 || units[0] != 134 || units[1] != 9 {
		t.Fatalf("unit ids on the wire: got=%v want=[134 9]", units)
	}
}

func TestTCP_OddByteCountRejected(t *testing.T) {
	u := startTCPUnit(t)
	u.mu.Lock()
	u.oddBytes = true
	u.mu.Unlock()

	c := newTCPClient(t, u)

	if _, err := c.ReadHoldingRegisters(1, 0, 1); err == nil {
		t.Fatalf("expected error for odd byte count, got nil")
	}
}

func TestTCP_OpenClose(t *testing.T) {
	u := startTCPUnit(t)

	c, err := New(Config{Mode: ModeTCP, Endpoint: u.ln.Addr().String(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if err := c.Open(); err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	if err := c.Open(); err != nil {
		t.Fatalf("second Open() err=%v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() err=%v", err)
	}
}

func TestTCP_OpenFailsWithoutListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	c, err := New(Config{Mode: ModeTCP, Endpoint: addr, Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if err := c.Open(); err == nil {
		_ = c.Close()
		t.Fatalf("expected open error, got nil")
	}
}

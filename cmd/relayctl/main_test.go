// cmd/relayctl/main_test.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-8ro/internal/config"
	"github.com/tamzrod/modbus-8ro/internal/register"
	"github.com/tamzrod/modbus-8ro/internal/sequencer"
)

func TestErrorCode_ModbusException(t *testing.T) {
	err := &sequencer.RunError{
		State: sequencer.StateAssertOutputs,
		Err: &register.TransportError{
			Op:      register.OpWrite,
			Address: 199,
			Err:     &modbus.ModbusError{FunctionCode: 6, ExceptionCode: modbus.ExceptionCodeIllegalDataAddress},
		},
	}

	if got := errorCode(err); got != 2 {
		t.Fatalf("got=%d want=2", got)
	}
}

func TestErrorCode_Generic(t *testing.T) {
	if got := errorCode(nil); got != 0 {
		t.Fatalf("nil: got=%d", got)
	}
	if got := errorCode(fmt.Errorf("wrap: %w", errors.New("timeout"))); got != 1 {
		t.Fatalf("generic: got=%d", got)
	}
}

func TestApplyFlags_Channels(t *testing.T) {
	m := uint8(0xFF)
	cfg := &config.Config{}
	cfg.Controller.Sequence.RelayMask = &m

	if err := applyFlags(cfg, flags{channels: "1, 8", mask: -1, port: "/dev/ttyS1", unitID: 5}); err != nil {
		t.Fatalf("applyFlags err=%v", err)
	}

	c := cfg.Controller
	if c.Sequence.RelayMask != nil {
		t.Fatalf("-channels should clear relay_mask")
	}
	if len(c.Sequence.Channels) != 2 || c.Sequence.Channels[1] != 8 {
		t.Fatalf("channels: %v", c.Sequence.Channels)
	}
	if c.Transport.Port != "/dev/ttyS1" || c.UnitID != 5 {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestApplyFlags_Errors(t *testing.T) {
	cases := []flags{
		{channels: "8", mask: 0x80, unitID: -1},
		{channels: "x", mask: -1, unitID: -1},
		{mask: 256, unitID: -1},
		{unitID: 300, mask: -1},
	}
	for i, f := range cases {
		if err := applyFlags(&config.Config{}, f); err == nil {
			t.Fatalf("case %d: expected error, got nil", i)
		}
	}
}

func TestApplyFlags_UnitZeroForTCP(t *testing.T) {
	cfg := &config.Config{}
	cfg.Controller.UnitID = 134

	if err := applyFlags(cfg, flags{unitID: 0, mask: -1}); err != nil {
		t.Fatalf("applyFlags err=%v", err)
	}
	if cfg.Controller.UnitID != 0 {
		t.Fatalf("-unit 0 not applied: got=%d", cfg.Controller.UnitID)
	}
}

func TestApplyFlags_UnitUnsetKeepsConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Controller.UnitID = 134

	if err := applyFlags(cfg, flags{unitID: -1, mask: -1}); err != nil {
		t.Fatalf("applyFlags err=%v", err)
	}
	if cfg.Controller.UnitID != 134 {
		t.Fatalf("unit overwritten: got=%d want=134", cfg.Controller.UnitID)
	}
}

func TestNewLogger_BootstrapLevel(t *testing.T) {
	ctx := context.Background()

	boot := newLogger(config.DefaultLogLevel)
	if !boot.Enabled(ctx, slog.LevelInfo) || boot.Enabled(ctx, slog.LevelDebug) {
		t.Fatalf("bootstrap logger should log at info, not debug")
	}

	if !newLogger("debug").Enabled(ctx, slog.LevelDebug) {
		t.Fatalf("debug level not honoured")
	}
	if newLogger("error").Enabled(ctx, slog.LevelWarn) {
		t.Fatalf("error level should suppress warn")
	}
}

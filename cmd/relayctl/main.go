// cmd/relayctl/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-8ro/internal/config"
	"github.com/tamzrod/modbus-8ro/internal/register"
	"github.com/tamzrod/modbus-8ro/internal/report"
	"github.com/tamzrod/modbus-8ro/internal/sequencer"
	tmodbus "github.com/tamzrod/modbus-8ro/internal/transport/modbus"
)

type flags struct {
	configPath string
	listPorts  bool
	port       string
	unitID     int
	channels   string
	mask       int
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags
	flag.StringVar(&f.configPath, "config", "config.yaml", "path to YAML config")
	flag.BoolVar(&f.listPorts, "list-ports", false, "list serial ports and exit")
	flag.StringVar(&f.port, "port", "", "override transport.port")
	flag.IntVar(&f.unitID, "unit", -1, "override unit_id (0-255)")
	flag.StringVar(&f.channels, "channels", "", "comma separated relay channels to actuate (e.g. 8 or 1,2,8)")
	flag.IntVar(&f.mask, "mask", -1, "relay mask to actuate (0-255)")
	flag.Parse()

	// Bootstrap logger until the config names a level.
	logger := newLogger(config.DefaultLogLevel)

	if f.listPorts {
		return listPorts(logger)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfgPath := f.configPath
	if flag.NArg() > 0 {
		cfgPath = flag.Arg(0)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("config load failed", "path", cfgPath, "err", err)
		return 2
	}

	if err := applyFlags(cfg, f); err != nil {
		logger.Error("invalid flags", "err", err)
		return 2
	}

	if err := config.Validate(cfg); err != nil {
		logger.Error("config validation failed", "err", err)
		return 2
	}
	config.Normalize(cfg)

	c := cfg.Controller
	logger = newLogger(c.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Transport
	// --------------------

	var frameLog *log.Logger
	if c.LogLevel == "debug" {
		frameLog = slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
	}

	tr, err := tmodbus.Build(c.Transport, frameLog)
	if err != nil {
		logger.Error("transport build failed", "err", err)
		return 1
	}

	if c.Transport.Mode == tmodbus.ModeRTU {
		if ok, err := tmodbus.PortPresent(c.Transport.Port); err == nil && !ok {
			logger.Warn("configured port not enumerated by the OS", "port", c.Transport.Port)
		}
	}

	out := report.NewPrinter(os.Stdout)

	if err := tr.Open(); err != nil {
		logger.Error("open failed", "err", err)
		return 1
	}
	_ = out.Status("Connected to " + tr.Name())

	defer func() {
		if err := tr.Close(); err != nil {
			logger.Warn("close failed", "err", err)
			return
		}
		_ = out.Status("Closed")
	}()

	// --------------------
	// Sequence
	// --------------------

	regs, err := register.New(tr, c.UnitID)
	if err != nil {
		logger.Error("register client failed", "err", err)
		return 1
	}

	var seq *sequencer.Sequencer
	seq, err = sequencer.Build(c, regs,
		sequencer.WithLogger(logger.With("unit", c.UnitID)),
		sequencer.WithObserver(func(st sequencer.State) {
			sc := seq.Config()
			switch st {
			case sequencer.StateAssertOutputs:
				fmt.Printf("Turning ON relays %v for %s\n", sc.Mask.On(), sc.HoldOn)
			case sequencer.StateReleaseOutputs:
				fmt.Println("Turning OFF all relays…")
			}
		}),
	)
	if err != nil {
		logger.Error("sequencer build failed", "err", err)
		return 1
	}

	rep, err := seq.Run(ctx)
	if err != nil {
		logger.Error("run failed", "err", err, "code", errorCode(err))
		return 1
	}

	if err := out.Report(rep); err != nil {
		logger.Error("report output failed", "err", err)
		return 1
	}
	return 0
}

func applyFlags(cfg *config.Config, f flags) error {
	c := &cfg.Controller

	if f.port != "" {
		c.Transport.Port = f.port
	}
	if f.unitID >= 0 {
		if f.unitID > 255 {
			return fmt.Errorf("unit %d out of range", f.unitID)
		}
		c.UnitID = uint8(f.unitID)
	}

	if f.channels != "" && f.mask >= 0 {
		return errors.New("-channels and -mask are mutually exclusive")
	}
	if f.channels != "" {
		var chs []int
		for _, s := range strings.Split(f.channels, ",") {
			ch, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("channels: %w", err)
			}
			chs = append(chs, ch)
		}
		c.Sequence.Channels = chs
		c.Sequence.RelayMask = nil
	}
	if f.mask >= 0 {
		if f.mask > 0xFF {
			return fmt.Errorf("mask %d out of range 0..255", f.mask)
		}
		m := uint8(f.mask)
		c.Sequence.RelayMask = &m
		c.Sequence.Channels = nil
	}
	return nil
}

func listPorts(logger *slog.Logger) int {
	ports, err := tmodbus.ListPorts()
	if err != nil {
		logger.Error("list ports failed", "err", err)
		return 1
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return 0
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return 0
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

// errorCode extracts a best-effort code from a run error.
// Modbus exception responses yield their exception code; anything else
// (timeouts, CRC faults, cancellation) returns 1 (generic error).
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	return 1
}

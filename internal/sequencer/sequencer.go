// internal/sequencer/sequencer.go
package sequencer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/modbus-8ro/internal/device"
)

const (
	DefaultHoldOn  = 5 * time.Second
	DefaultHoldOff = 2 * time.Second
)

// Registers abstracts the register operations the sequencer needs.
// *register.Client satisfies it.
type Registers interface {
	ReadRegister(address uint16) (uint16, error)
	WriteRegister(address, value uint16) error
}

// Config is the immutable per-sequencer configuration.
type Config struct {
	Map     device.RegisterMap
	Mask    device.BitField8
	HoldOn  time.Duration
	HoldOff time.Duration
}

// DefaultConfig actuates all eight relays with the stock register map.
func DefaultConfig() Config {
	return Config{
		Map:     device.Default8RO(),
		Mask:    device.AllOn,
		HoldOn:  DefaultHoldOn,
		HoldOff: DefaultHoldOff,
	}
}

// Sequencer drives one bounded write/wait/read cycle per Run.
// A Sequencer owns its Registers exclusively; only one run may be in flight.
type Sequencer struct {
	cfg      Config
	regs     Registers
	holder   Holder
	log      *slog.Logger
	observer func(State)
	now      func() time.Time

	running atomic.Bool
}

type Option func(*Sequencer)

// WithHolder replaces the real-time hold (tests use a recording fake).
func WithHolder(h Holder) Option { return func(s *Sequencer) { s.holder = h } }

func WithLogger(l *slog.Logger) Option { return func(s *Sequencer) { s.log = l } }

// WithObserver is called on entry to every state, on the run goroutine.
func WithObserver(fn func(State)) Option { return func(s *Sequencer) { s.observer = fn } }

func WithClock(now func() time.Time) Option { return func(s *Sequencer) { s.now = now } }

// New creates a sequencer with immutable config.
func New(cfg Config, regs Registers, opts ...Option) (*Sequencer, error) {
	if regs == nil {
		return nil, errors.New("sequencer: registers required")
	}
	if cfg.Mask == device.AllOff {
		return nil, errors.New("sequencer: actuation mask selects no channels")
	}
	if cfg.HoldOn < 0 || cfg.HoldOff < 0 {
		return nil, errors.New("sequencer: hold durations must be >= 0")
	}
	if err := cfg.Map.Validate(); err != nil {
		return nil, err
	}

	s := &Sequencer{
		cfg:    cfg,
		regs:   regs,
		holder: TimerHold,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Config returns the sequencer's configuration.
func (s *Sequencer) Config() Config { return s.cfg }

// Run performs exactly one actuation sequence.
// All-or-nothing: the first failure aborts the run and no report is returned.
// A transport failure never triggers a release; a cancellation after the
// outputs were asserted does (best effort).
func (s *Sequencer) Run(ctx context.Context) (*RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	r := &run{
		seq: s,
		rep: RunReport{
			RunID:     uuid.NewString(),
			StartedAt: s.now(),
			Mask:      s.cfg.Mask,
		},
	}
	r.log = s.log.With("run_id", r.rep.RunID)

	s.enter(StateIdle)

	steps := []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateReadIdentity, r.readIdentity},
		{StateCaptureBaseline, r.captureBaseline},
		{StateAssertOutputs, r.assertOutputs},
		{StateHoldOn, r.holdOn},
		{StateCaptureAfter, r.captureAfter},
		{StateReadSensors, r.readSensors},
		{StateReleaseOutputs, r.releaseOutputs},
		{StateHoldOff, r.holdOff},
	}

	for _, st := range steps {
		s.enter(st.state)
		r.log.Debug("state", "state", st.state)

		if err := ctx.Err(); err != nil {
			return nil, r.abort(st.state, err)
		}
		if err := st.fn(ctx); err != nil {
			return nil, r.abort(st.state, err)
		}
	}

	s.enter(StateDone)

	rep := r.rep
	rep.FinishedAt = s.now()
	r.log.Info("run complete", "duration", rep.FinishedAt.Sub(rep.StartedAt))
	return &rep, nil
}

func (s *Sequencer) enter(st State) {
	if s.observer != nil {
		s.observer(st)
	}
}

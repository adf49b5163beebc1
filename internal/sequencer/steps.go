// internal/sequencer/steps.go
package sequencer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tamzrod/modbus-8ro/internal/device"
)

// run is the state of one Run call. It never outlives it.
type run struct {
	seq *Sequencer
	rep RunReport
	log *slog.Logger

	// progress, for partial-result logging on abort
	haveIdentity bool
	haveBefore   bool
	haveAfter    bool

	// energized is true between a successful assert and a successful release.
	energized bool
}

func (r *run) read(reg device.Register) (uint16, error) {
	return r.seq.regs.ReadRegister(reg.Address)
}

func (r *run) readSnapshot() (Snapshot, error) {
	m := r.seq.cfg.Map

	relays, err := r.read(m.RelayState)
	if err != nil {
		return Snapshot{}, err
	}
	inputs, err := r.read(m.DigitalInputState)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Relays: device.DecodeBitField8(relays),
		Inputs: device.DecodeBitField8(inputs),
	}, nil
}

func (r *run) readIdentity(context.Context) error {
	m := r.seq.cfg.Map

	pid, err := r.read(m.ProjectID)
	if err != nil {
		return err
	}
	major, err := r.read(m.FirmwareMajor)
	if err != nil {
		return err
	}
	minor, err := r.read(m.FirmwareMinor)
	if err != nil {
		return err
	}

	r.rep.Identity = device.Identity{
		ProjectID:     pid,
		FirmwareMajor: major,
		FirmwareMinor: minor,
	}
	r.haveIdentity = true
	r.log.Info("identity",
		"project_id", pid,
		"firmware", r.rep.Identity.FirmwareVersion(),
	)
	return nil
}

func (r *run) captureBaseline(context.Context) error {
	snap, err := r.readSnapshot()
	if err != nil {
		return err
	}
	r.rep.Before = snap
	r.haveBefore = true
	return nil
}

func (r *run) assertOutputs(context.Context) error {
	mask := r.seq.cfg.Mask
	r.log.Info("asserting outputs", "mask", mask.String(), "hold", r.seq.cfg.HoldOn)

	if err := r.seq.regs.WriteRegister(
		r.seq.cfg.Map.RelayControl.Address,
		device.EncodeRelayCommand(mask),
	); err != nil {
		return err
	}
	r.energized = true
	return nil
}

func (r *run) holdOn(ctx context.Context) error {
	return r.seq.holder.Hold(ctx, r.seq.cfg.HoldOn)
}

func (r *run) captureAfter(context.Context) error {
	snap, err := r.readSnapshot()
	if err != nil {
		return err
	}
	r.rep.After = snap
	r.haveAfter = true
	return nil
}

func (r *run) readSensors(context.Context) error {
	m := r.seq.cfg.Map

	tRaw, err := r.read(m.Temperature)
	if err != nil {
		return err
	}
	hRaw, err := r.read(m.Humidity)
	if err != nil {
		return err
	}

	if t := device.DecodeTemperature(tRaw); t.Connected {
		r.rep.Temperature = &t
	} else {
		r.log.Info("temperature sensor not connected", "raw", tRaw)
	}
	if h := device.DecodeHumidity(hRaw); h.Connected {
		r.rep.Humidity = &h
	} else {
		r.log.Info("humidity sensor not connected", "raw", hRaw)
	}
	return nil
}

func (r *run) releaseOutputs(context.Context) error {
	r.log.Info("releasing outputs", "hold", r.seq.cfg.HoldOff)
	return r.release()
}

func (r *run) release() error {
	if err := r.seq.regs.WriteRegister(
		r.seq.cfg.Map.RelayControl.Address,
		device.EncodeRelayCommand(device.AllOff),
	); err != nil {
		return err
	}
	r.energized = false
	return nil
}

func (r *run) holdOff(ctx context.Context) error {
	return r.seq.holder.Hold(ctx, r.seq.cfg.HoldOff)
}

// abort builds the RunError for a failure in state st and logs what was
// gathered so far. Outputs left energized by a cancellation get one
// best-effort release; transport failures never do.
func (r *run) abort(st State, cause error) *RunError {
	rerr := &RunError{State: st, Err: cause}

	if r.energized && isCancellation(cause) {
		rerr.ReleaseAttempted = true
		rerr.ReleaseErr = r.release()
		if rerr.ReleaseErr != nil {
			r.log.Error("best-effort release failed", "err", rerr.ReleaseErr)
		} else {
			r.log.Warn("outputs released after cancellation")
		}
	}

	attrs := []any{"state", st, "err", cause}
	if r.haveIdentity {
		attrs = append(attrs, "project_id", r.rep.Identity.ProjectID, "firmware", r.rep.Identity.FirmwareVersion())
	}
	if r.haveBefore {
		attrs = append(attrs, "relays_before", r.rep.Before.Relays.String(), "inputs_before", r.rep.Before.Inputs.String())
	}
	if r.haveAfter {
		attrs = append(attrs, "relays_after", r.rep.After.Relays.String(), "inputs_after", r.rep.After.Inputs.String())
	}
	if r.energized {
		attrs = append(attrs, "outputs_energized", true)
	}
	r.log.Error("run aborted", attrs...)

	return rerr
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

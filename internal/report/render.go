// internal/report/render.go
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tamzrod/modbus-8ro/internal/device"
	"github.com/tamzrod/modbus-8ro/internal/sequencer"
)

// Printer renders run reports for a console.
// Styling degrades to plain text when w is not a terminal.
type Printer struct {
	w     io.Writer
	title lipgloss.Style
	label lipgloss.Style
	on    lipgloss.Style
	muted lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		title: r.NewStyle().Bold(true).Underline(true),
		label: r.NewStyle().Bold(true),
		on:    r.NewStyle().Foreground(lipgloss.Color("10")),
		muted: r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Status prints a one-line progress message ("Connected", "Closed").
func (p *Printer) Status(msg string) error {
	_, err := fmt.Fprintln(p.w, p.on.Render("✓")+" "+msg)
	return err
}

// Report prints every field of rep.
func (p *Printer) Report(rep *sequencer.RunReport) error {
	var b strings.Builder

	b.WriteString(p.title.Render("Run "+rep.RunID) + "\n")
	p.line(&b, "Project ID", fmt.Sprintf("%d", rep.Identity.ProjectID))
	p.line(&b, "Firmware", rep.FirmwareVersion())
	p.line(&b, "Actuation mask", fmt.Sprintf("%s  (channels %v)", rep.Mask, rep.Mask.On()))

	p.line(&b, "Relay state before", p.channels("R", rep.Before.Relays))
	p.line(&b, "Digital inputs before", p.channels("DI", rep.Before.Inputs))
	p.line(&b, "Relay state", p.channels("R", rep.After.Relays))
	p.line(&b, "Digital inputs", p.channels("DI", rep.After.Inputs))

	b.WriteString(Temperature(rep.Temperature) + "\n")
	b.WriteString(Humidity(rep.Humidity) + "\n")

	if !rep.FinishedAt.IsZero() {
		b.WriteString(p.muted.Render(fmt.Sprintf("Duration: %s", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))) + "\n")
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) line(b *strings.Builder, label, value string) {
	b.WriteString(p.label.Render(label+":") + " " + value + "\n")
}

func (p *Printer) channels(prefix string, f device.BitField8) string {
	return fmt.Sprintf("%s  (%s)", f, device.FormatChannels(prefix, f))
}

// Temperature renders a reading, or the not-connected notice when t is nil.
func Temperature(t *device.Temperature) string {
	if t == nil {
		return "Temperature sensor: not connected"
	}
	c, ok := t.Celsius()
	if !ok {
		return "Temperature sensor: not connected"
	}
	f, _ := t.Fahrenheit()
	return fmt.Sprintf("Temperature: %.2f °C (%.2f °F)", c, f)
}

// Humidity renders a reading, or the not-connected notice when h is nil.
func Humidity(h *device.Measurement) string {
	if h == nil {
		return "Humidity sensor: not connected"
	}
	v, ok := h.Value()
	if !ok {
		return "Humidity sensor: not connected"
	}
	return fmt.Sprintf("Relative Humidity: %.2f %%", v)
}

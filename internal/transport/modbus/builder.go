// internal/transport/modbus/builder.go
package modbus

import (
	"log"
	"time"

	"github.com/goburrow/serial"

	cfg "github.com/tamzrod/modbus-8ro/internal/config"
)

// Build constructs a Client from a normalized transport config.
// The line is not opened here. logger may be nil.
func Build(t cfg.TransportConfig, logger *log.Logger) (*Client, error) {
	timeout := time.Duration(t.TimeoutMs) * time.Millisecond

	return New(Config{
		Mode: t.Mode,
		Serial: serial.Config{
			Address:  t.Port,
			BaudRate: t.BaudRate,
			DataBits: t.DataBits,
			StopBits: t.StopBits,
			Parity:   t.Parity,
			Timeout:  timeout,
		},
		Endpoint: t.Endpoint,
		Timeout:  timeout,
		Logger:   logger,
	})
}

// internal/transport/modbus/ports.go
package modbus

import (
	"fmt"

	bugserial "go.bug.st/serial"
)

// ListPorts returns the serial ports the OS currently enumerates.
func ListPorts() ([]string, error) {
	ports, err := bugserial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}

// PortPresent reports whether path is among the enumerated ports.
// Enumeration can miss symlinks and pseudo terminals, so a false result is
// advisory only.
func PortPresent(path string) (bool, error) {
	ports, err := ListPorts()
	if err != nil {
		return false, err
	}
	for _, p := range ports {
		if p == path {
			return true, nil
		}
	}
	return false, nil
}

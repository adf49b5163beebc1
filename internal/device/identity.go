// internal/device/identity.go
package device

import "fmt"

// Identity is what the unit reports about itself.
type Identity struct {
	ProjectID     uint16
	FirmwareMajor uint16
	FirmwareMinor uint16
}

// FirmwareVersion renders "major.minor".
func (id Identity) FirmwareVersion() string {
	return fmt.Sprintf("%d.%d", id.FirmwareMajor, id.FirmwareMinor)
}

// internal/register/errors.go
package register

import "fmt"

// Op names the register operation that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// TransportError is the only error kind raised by Client.
// Err is the transport's own cause and stays reachable via errors.As.
type TransportError struct {
	Op      Op
	Unit    uint8
	Address uint16
	Count   uint16
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s error @ HR%d (unit=%d qty=%d): %v", e.Op, e.Address, e.Unit, e.Count, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

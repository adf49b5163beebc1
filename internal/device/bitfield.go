// internal/device/bitfield.go
package device

import (
	"fmt"
	"strings"
)

// Channels is the number of relay / input channels packed into one register.
const Channels = 8

// BitField8 holds eight independent channel states.
// Channel i (1..8) lives in bit i-1.
type BitField8 uint8

const (
	AllOff BitField8 = 0x00
	AllOn  BitField8 = 0xFF
)

// DecodeBitField8 extracts the channel states from a register word.
// Bits 8-15 are undefined on read and discarded.
func DecodeBitField8(raw uint16) BitField8 {
	return BitField8(raw & 0x00FF)
}

// EncodeRelayCommand builds the RelayControl word for a channel mask.
// The high byte is always zero.
func EncodeRelayCommand(mask BitField8) uint16 {
	return uint16(mask)
}

// MaskOf builds a mask with the given channels (1..8) set.
func MaskOf(channels ...int) (BitField8, error) {
	var m BitField8
	for _, ch := range channels {
		if ch < 1 || ch > Channels {
			return 0, fmt.Errorf("channel %d out of range 1..%d", ch, Channels)
		}
		m |= 1 << uint(ch-1)
	}
	return m, nil
}

// Channel reports the state of channel ch (1..8). Out-of-range channels read false.
func (b BitField8) Channel(ch int) bool {
	if ch < 1 || ch > Channels {
		return false
	}
	return b&(1<<uint(ch-1)) != 0
}

// Channels returns the states of channels 1..8 in order.
func (b BitField8) Channels() [Channels]bool {
	var out [Channels]bool
	for i := 0; i < Channels; i++ {
		out[i] = b&(1<<uint(i)) != 0
	}
	return out
}

// On lists the channel numbers that are set.
func (b BitField8) On() []int {
	var out []int
	for ch := 1; ch <= Channels; ch++ {
		if b.Channel(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// IsAllOn reports whether every channel is set.
func (b BitField8) IsAllOn() bool { return b == AllOn }

// IsAllOff reports whether no channel is set.
func (b BitField8) IsAllOff() bool { return b == AllOff }

// String renders the field as eight binary digits, bit 7 first.
func (b BitField8) String() string {
	return fmt.Sprintf("%08b", uint8(b))
}

const (
	labelOn   = "ON"
	labelOff  = "OFF"
	separator = " | "
)

// FormatChannels renders "{prefix}1: ON | {prefix}2: OFF | ..." for channels 1..8.
func FormatChannels(prefix string, f BitField8) string {
	return FormatChannelsWith(prefix, f, labelOn, labelOff)
}

// FormatChannelsWith is FormatChannels with caller supplied state labels.
func FormatChannelsWith(prefix string, f BitField8, on, off string) string {
	parts := make([]string, 0, Channels)
	for i, set := range f.Channels() {
		label := off
		if set {
			label = on
		}
		parts = append(parts, fmt.Sprintf("%s%d: %s", prefix, i+1, label))
	}
	return strings.Join(parts, separator)
}

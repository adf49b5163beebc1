// internal/device/measurement.go
package device

const (
	// TemperatureSentinel is reported in AddrTemperature when no sensor is attached.
	TemperatureSentinel uint16 = 0x7FFF

	// HumiditySentinel is reported in AddrHumidity when no sensor is attached.
	HumiditySentinel uint16 = 0xFFFF

	// Scale100 is the fixed-point divisor of both sensor registers.
	Scale100 = 100.0
)

// Measurement is one decoded fixed-point sensor reading.
// Immutable once decoded; a fresh value is built on every read.
type Measurement struct {
	Raw       uint16
	Connected bool
	value     float64
}

// DecodeScaledMeasurement turns a raw register word into a Measurement.
// The sentinel is compared against the raw word before any scaling.
func DecodeScaledMeasurement(raw, sentinel uint16, divisor float64) Measurement {
	if raw == sentinel {
		return Measurement{Raw: raw}
	}
	return Measurement{
		Raw:       raw,
		Connected: true,
		value:     float64(raw) / divisor,
	}
}

// Value returns the scaled reading. ok is false when the sensor is absent.
func (m Measurement) Value() (v float64, ok bool) {
	if !m.Connected {
		return 0, false
	}
	return m.value, true
}

// Temperature is a Celsius reading with a Fahrenheit view.
type Temperature struct {
	Measurement
}

// DecodeTemperature decodes AddrTemperature.
func DecodeTemperature(raw uint16) Temperature {
	return Temperature{DecodeScaledMeasurement(raw, TemperatureSentinel, Scale100)}
}

// Celsius is Value under its unit name.
func (t Temperature) Celsius() (float64, bool) {
	return t.Value()
}

// Fahrenheit converts the reading, only when the sensor is connected.
func (t Temperature) Fahrenheit() (float64, bool) {
	c, ok := t.Value()
	if !ok {
		return 0, false
	}
	return c*9/5 + 32, true
}

// DecodeHumidity decodes AddrHumidity (%RH).
func DecodeHumidity(raw uint16) Measurement {
	return DecodeScaledMeasurement(raw, HumiditySentinel, Scale100)
}

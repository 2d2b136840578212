package gcr

import "max78000-hal/x/mathx"

// Clock roles.
type (
	SystemClock     struct{}
	PeripheralClock struct{}
)

// Role is the set of things a Clock can be the output of.
type Role interface {
	SystemClock | PeripheralClock | IPO | ISO | IBRO | ERTCO
}

// Clock is a frozen frequency for role R. Values are only produced by
// (*SystemClockConfig).Freeze and (*EnabledOscillator).Clock; the zero value
// is a 0 Hz clock.
type Clock[R Role] struct {
	hz uint32
}

// Frequency in Hz.
func (c Clock[R]) Frequency() uint32 { return c.hz }

// Divisor returns how many clock cycles fit in one period of rate, rounded
// down: the UART baud divisor, or 1 MHz for the flash controller. A zero
// rate yields 0.
func (c Clock[R]) Divisor(rate uint32) uint32 { return mathx.FloorDiv(c.hz, rate) }

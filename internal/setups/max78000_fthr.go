//go:build max78000_fthr

package setups

import "max78000-hal/gcr"

// Selected runs the feather board at the full 100 MHz IPO with the cache on.
// Page 0 holds the bootloader and is write protected.
var Selected = Plan{
	Name:  "max78000_fthr",
	Clock: ClockPlan{Source: gcr.OscIPO, Divider: gcr.Div1},
	Flash: FlashPlan{WriteProtect: []uint32{0}},
	Cache: true,
}

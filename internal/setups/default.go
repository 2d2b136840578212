//go:build !max78000_fthr

package setups

import "max78000-hal/gcr"

// Selected matches the chip's reset state: ISO undivided, cache off and
// no page protection.
var Selected = Plan{
	Name:  "default",
	Clock: ClockPlan{Source: gcr.OscISO, Divider: gcr.Div1},
}

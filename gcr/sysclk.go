package gcr

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/mmio"
	"max78000-hal/x/logx"
)

// Divider is the SYSCLK prescaler; its value is the CLKCTRL.SYSCLK_DIV
// encoding, so the divisor is 1<<d.
type Divider uint8

const (
	Div1 Divider = iota
	Div2
	Div4
	Div8
	Div16
	Div32
	Div64
	Div128
)

// Divisor returns 1, 2, 4, ... 128.
func (d Divider) Divisor() uint32 { return 1 << d }

func (d Divider) Valid() bool { return d <= Div128 }

// DividerFor maps a divisor (1, 2, 4 ... 128) to its Divider.
func DividerFor(divisor uint32) (Divider, error) {
	for d := Div1; d <= Div128; d++ {
		if d.Divisor() == divisor {
			return d, nil
		}
	}
	return 0, errcode.InvalidParams
}

var (
	sysclkDiv = mmio.Field{Pos: max78000.GCR_CLKCTRL_SYSCLK_DIV_Pos, Mask: max78000.GCR_CLKCTRL_SYSCLK_DIV_Msk}
	sysclkSel = mmio.Field{Pos: max78000.GCR_CLKCTRL_SYSCLK_SEL_Pos, Mask: max78000.GCR_CLKCTRL_SYSCLK_SEL_Msk}
)

// SystemClocks is the frozen result of a SystemClockConfig.
type SystemClocks struct {
	Sys        Clock[SystemClock]
	Peripheral Clock[PeripheralClock]
}

// SystemClockConfig tracks what SYSCLK has been set to. It starts at the
// reset state: ISO, divide by 1.
type SystemClockConfig struct {
	src Osc
	div Divider
}

func newSystemClockConfig() *SystemClockConfig {
	return &SystemClockConfig{src: OscISO, div: Div1}
}

func (c *SystemClockConfig) Source() Osc      { return c.src }
func (c *SystemClockConfig) Divider() Divider { return c.div }

// SetSource switches SYSCLK to osc and waits for SYSCLK_RDY. osc must be a
// non-nil enabled oscillator; ERTCO is refused with errcode.Unsupported
// before any register write.
func (c *SystemClockConfig) SetSource(regs *Registers, osc Enabled) error {
	if regs == nil || osc == nil || !osc.valid() {
		return errcode.InvalidState
	}
	src := osc.Source()
	if src == OscERTCO {
		return &errcode.E{C: errcode.Unsupported, Op: "gcr.sysclk", Msg: "ertco needs rtc"}
	}
	ctrl := regs.clkctrl()
	ctrl.SetField(sysclkSel, src.sysclkSel())
	if err := ctrl.WaitSet(regs.poll, 1<<max78000.GCR_CLKCTRL_SYSCLK_RDY_Pos); err != nil {
		return errcode.Wrap("gcr.sysclk", err)
	}
	c.src = src
	logx.Debug("gcr: sysclk source", "src", src.String())
	return nil
}

// SetDivider programs the SYSCLK prescaler and waits for SYSCLK_RDY.
func (c *SystemClockConfig) SetDivider(regs *Registers, d Divider) error {
	if regs == nil {
		return errcode.InvalidState
	}
	if !d.Valid() {
		return errcode.InvalidParams
	}
	ctrl := regs.clkctrl()
	ctrl.SetField(sysclkDiv, uint32(d))
	if err := ctrl.WaitSet(regs.poll, 1<<max78000.GCR_CLKCTRL_SYSCLK_RDY_Pos); err != nil {
		return errcode.Wrap("gcr.sysclk", err)
	}
	c.div = d
	logx.Debug("gcr: sysclk divider", "div", int(d.Divisor()))
	return nil
}

// Freeze computes the system and peripheral clocks for the current
// configuration. It does not touch hardware. A config never set reports
// the reset clocks, ISO undivided.
func (c *SystemClockConfig) Freeze() SystemClocks {
	sys := c.src.BaseFrequency() / c.div.Divisor()
	return SystemClocks{
		Sys:        Clock[SystemClock]{hz: sys},
		Peripheral: Clock[PeripheralClock]{hz: sys / 2},
	}
}

// ResetClocks is what Freeze reports for a part straight out of reset.
func ResetClocks() SystemClocks { return newSystemClockConfig().Freeze() }

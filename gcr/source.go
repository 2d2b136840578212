package gcr

import "max78000-hal/device/max78000"

// Osc identifies a physical oscillator.
type Osc uint8

const (
	OscIPO   Osc = iota // internal primary, 100 MHz
	OscISO              // internal secondary, 60 MHz
	OscIBRO             // internal baud rate, 7.3728 MHz
	OscERTCO            // external RTC crystal, 32.768 kHz
)

func (o Osc) String() string {
	switch o {
	case OscIPO:
		return "ipo"
	case OscISO:
		return "iso"
	case OscIBRO:
		return "ibro"
	case OscERTCO:
		return "ertco"
	}
	return "unknown"
}

// BaseFrequency is the oscillator's nominal output in Hz.
func (o Osc) BaseFrequency() uint32 {
	switch o {
	case OscIPO:
		return 100_000_000
	case OscISO:
		return 60_000_000
	case OscIBRO:
		return 7_372_800
	case OscERTCO:
		return 32_768
	}
	return 0
}

// enableBit is the CLKCTRL enable bit, or -1 for an always-on source.
func (o Osc) enableBit() int {
	switch o {
	case OscIPO:
		return max78000.GCR_CLKCTRL_IPO_EN_Pos
	case OscISO:
		return max78000.GCR_CLKCTRL_ISO_EN_Pos
	case OscERTCO:
		return max78000.GCR_CLKCTRL_ERTCO_EN_Pos
	}
	return -1
}

func (o Osc) readyBit() int {
	switch o {
	case OscIPO:
		return max78000.GCR_CLKCTRL_IPO_RDY_Pos
	case OscISO:
		return max78000.GCR_CLKCTRL_ISO_RDY_Pos
	case OscIBRO:
		return max78000.GCR_CLKCTRL_IBRO_RDY_Pos
	}
	return max78000.GCR_CLKCTRL_ERTCO_RDY_Pos
}

func (o Osc) sysclkSel() uint32 {
	switch o {
	case OscIPO:
		return max78000.GCR_CLKCTRL_SYSCLK_SEL_IPO
	case OscISO:
		return max78000.GCR_CLKCTRL_SYSCLK_SEL_ISO
	case OscIBRO:
		return max78000.GCR_CLKCTRL_SYSCLK_SEL_IBRO
	}
	return max78000.GCR_CLKCTRL_SYSCLK_SEL_ERTCO
}

// Source marker types. They carry no data; they only give oscillators,
// guards and clocks a distinct type per physical source.
type (
	IPO   struct{}
	ISO   struct{}
	IBRO  struct{}
	ERTCO struct{}
)

func (IPO) osc() Osc   { return OscIPO }
func (ISO) osc() Osc   { return OscISO }
func (IBRO) osc() Osc  { return OscIBRO }
func (ERTCO) osc() Osc { return OscERTCO }

// Source is the closed set of oscillator marker types.
type Source interface {
	IPO | ISO | IBRO | ERTCO
	osc() Osc
}

func oscOf[S Source]() Osc {
	var s S
	return s.osc()
}

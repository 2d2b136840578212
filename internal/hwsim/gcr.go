package hwsim

import "max78000-hal/device/max78000"

const (
	clkctrl  = max78000.GCR_BASE + max78000.GCR_CLKCTRL
	sysclkOK = 1 << max78000.GCR_CLKCTRL_SYSCLK_RDY_Pos
)

// CLKCTRL enable bit -> ready bit.
var oscReady = [...][2]uint32{
	{1 << max78000.GCR_CLKCTRL_IPO_EN_Pos, 1 << max78000.GCR_CLKCTRL_IPO_RDY_Pos},
	{1 << max78000.GCR_CLKCTRL_ISO_EN_Pos, 1 << max78000.GCR_CLKCTRL_ISO_RDY_Pos},
	{1 << max78000.GCR_CLKCTRL_ERTCO_EN_Pos, 1 << max78000.GCR_CLKCTRL_ERTCO_RDY_Pos},
}

const alwaysReady = 1<<max78000.GCR_CLKCTRL_IBRO_RDY_Pos | 1<<max78000.GCR_CLKCTRL_INRO_RDY_Pos

func (s *Sim) mapGCR() {
	// Reset: running from ISO, divide by 1, all peripheral clocks gated.
	s.Mem.Poke(clkctrl, clkctrlStatus(1<<max78000.GCR_CLKCTRL_ISO_EN_Pos))
	s.Mem.Poke(max78000.GCR_BASE+max78000.GCR_PCLKDIS0, 0xFFFFFFFF)
	s.Mem.Poke(max78000.GCR_BASE+max78000.GCR_PCLKDIS1, 0xFFFFFFFF)

	s.region(max78000.GCR_BASE, max78000.GCR_SIZE, func(addr, v uint32) {
		switch addr - max78000.GCR_BASE {
		case max78000.GCR_CLKCTRL:
			s.Mem.Poke(addr, clkctrlStatus(v))
		case max78000.GCR_RST0, max78000.GCR_RST1:
			// Resets finish immediately.
			s.Mem.Poke(addr, 0)
		default:
			s.Mem.Poke(addr, v)
		}
	})
}

// clkctrlStatus derives the read-only ready bits from the control bits in v.
func clkctrlStatus(v uint32) uint32 {
	v &^= sysclkOK | alwaysReady
	for _, er := range oscReady {
		v &^= er[1]
		if v&er[0] != 0 {
			v |= er[1]
		}
	}
	return v | alwaysReady | sysclkOK
}

func (s *Sim) mapLPGCR() {
	s.Mem.Poke(max78000.LPGCR_BASE+max78000.LPGCR_PCLKDIS, 0xFFFFFFFF)
	s.region(max78000.LPGCR_BASE, max78000.LPGCR_SIZE, func(addr, v uint32) {
		if addr-max78000.LPGCR_BASE == max78000.LPGCR_RST {
			v = 0
		}
		s.Mem.Poke(addr, v)
	})
}

// CLKCTRL returns the current clock control word.
func (s *Sim) CLKCTRL() uint32 { return s.load(clkctrl) }

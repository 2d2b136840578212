package hwsim

import "max78000-hal/device/max78000"

const iccRdy = 1 << max78000.ICC_CTRL_RDY_Pos

func (s *Sim) mapICC() {
	s.Mem.Poke(max78000.ICC0_BASE+max78000.ICC_CTRL, iccRdy)
	s.region(max78000.ICC0_BASE, max78000.ICC0_SIZE, func(addr, v uint32) {
		switch addr - max78000.ICC0_BASE {
		case max78000.ICC_CTRL:
			// RDY is read-only and always set once invalidation is done.
			s.Mem.Poke(addr, v|iccRdy)
		case max78000.ICC_INVALIDATE:
			s.invalidates++
		default:
			s.Mem.Poke(addr, v)
		}
	})
}

// CacheEnabled reports ICC0 CTRL.EN.
func (s *Sim) CacheEnabled() bool {
	return s.load(max78000.ICC0_BASE+max78000.ICC_CTRL)&(1<<max78000.ICC_CTRL_EN_Pos) != 0
}

// Invalidations counts writes to ICC0 INVALIDATE.
func (s *Sim) Invalidations() int { return s.invalidates }

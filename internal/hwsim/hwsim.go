// Package hwsim is a behavioural model of the MAX78000 blocks this module
// drives: GCR, LPGCR, the flash controller with its flash array, and ICC0.
// Operations complete instantly; ready bits are set as soon as they are
// asked for unless a test sticks them.
package hwsim

import (
	"max78000-hal/device/max78000"
	"max78000-hal/mmio"
)

type stuck struct {
	mask, val uint32
}

// Sim is one simulated chip. Not safe for concurrent use.
type Sim struct {
	Mem *mmio.Memory

	flash []uint32
	stuck map[uint32]stuck

	failCommits int
	hang        bool
	lockHistory []uint32
	writes      int
	erases      int
	invalidates int
}

// New returns a chip in its reset state with fully erased flash.
func New() *Sim {
	s := &Sim{
		Mem:   mmio.NewMemory(),
		flash: make([]uint32, max78000.FLASH_SIZE/4),
		stuck: make(map[uint32]stuck),
	}
	for i := range s.flash {
		s.flash[i] = 0xFFFFFFFF
	}
	s.mapGCR()
	s.mapLPGCR()
	s.mapFLC()
	s.mapFlash()
	s.mapICC()
	return s
}

// Bus is the simulated system bus.
func (s *Sim) Bus() mmio.Bus { return s.Mem }

// Stick forces the bits of mask at addr to read as val&mask until Unstick.
func (s *Sim) Stick(addr, mask, val uint32) {
	s.stuck[addr] = stuck{mask: mask, val: val & mask}
}

func (s *Sim) Unstick(addr uint32) { delete(s.stuck, addr) }

func (s *Sim) applyStuck(addr, v uint32) uint32 {
	if st, ok := s.stuck[addr]; ok {
		v = v&^st.mask | st.val
	}
	return v
}

// load reads a register's backing word with any stuck bits applied.
func (s *Sim) load(addr uint32) uint32 {
	return s.applyStuck(addr, s.Mem.Peek(addr))
}

func (s *Sim) region(base, size uint32, store func(addr, v uint32)) {
	s.Mem.Map(&mmio.Region{
		Base:    base,
		Size:    size,
		OnLoad:  s.load,
		OnStore: store,
	})
}

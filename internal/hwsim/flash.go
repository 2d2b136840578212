package hwsim

import (
	"max78000-hal/device/max78000"
	"max78000-hal/mmio"
)

// The flash array. Loads from a read-locked page return 0; bus stores are
// dropped since flash only changes through the controller.
func (s *Sim) mapFlash() {
	s.Mem.Map(&mmio.Region{
		Base: max78000.FLASH_BASE,
		Size: max78000.FLASH_SIZE,
		OnLoad: func(addr uint32) uint32 {
			off := addr - max78000.FLASH_BASE
			if !s.PageReadable(off >> pageShift) {
				return 0
			}
			return s.flash[off/4]
		},
		OnStore: func(uint32, uint32) {},
	})
}

// FlashWord returns the word at absolute flash address addr, ignoring read
// protection.
func (s *Sim) FlashWord(addr uint32) uint32 {
	return s.flash[(addr-max78000.FLASH_BASE)/4]
}

// SetFlashWord overwrites a flash word directly, as if it had been
// programmed before the test started.
func (s *Sim) SetFlashWord(addr, v uint32) {
	s.flash[(addr-max78000.FLASH_BASE)/4] = v
}

// FillPage sets every word of page to v.
func (s *Sim) FillPage(page, v uint32) {
	start := page * max78000.FLASH_PAGE / 4
	for i := start; i < start+max78000.FLASH_PAGE/4; i++ {
		s.flash[i] = v
	}
}

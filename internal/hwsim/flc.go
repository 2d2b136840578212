package hwsim

import "max78000-hal/device/max78000"

const (
	flcCtrl = max78000.FLC_BASE + max78000.FLC_CTRL
	flcIntr = max78000.FLC_BASE + max78000.FLC_INTR
	flcAddr = max78000.FLC_BASE + max78000.FLC_ADDR

	ctrlWR  = 1 << max78000.FLC_CTRL_WR_Pos
	ctrlME  = 1 << max78000.FLC_CTRL_ME_Pos
	ctrlPGE = 1 << max78000.FLC_CTRL_PGE_Pos

	eraseCodeMask = max78000.FLC_CTRL_ERASE_CODE_Msk << max78000.FLC_CTRL_ERASE_CODE_Pos
	unlockMask    = max78000.FLC_CTRL_UNLOCK_Msk << max78000.FLC_CTRL_UNLOCK_Pos

	intrDone = 1 << max78000.FLC_INTR_DONE_Pos
	intrAF   = 1 << max78000.FLC_INTR_AF_Pos

	pageShift = 13
	pageCount = max78000.FLASH_SIZE / max78000.FLASH_PAGE
)

func (s *Sim) mapFLC() {
	for _, off := range []uint32{max78000.FLC_WELR0, max78000.FLC_RLR0, max78000.FLC_WELR1, max78000.FLC_RLR1} {
		s.Mem.Poke(max78000.FLC_BASE+off, 0xFFFFFFFF)
	}
	s.region(max78000.FLC_BASE, max78000.FLC_SIZE, func(addr, v uint32) {
		switch addr - max78000.FLC_BASE {
		case max78000.FLC_CTRL:
			s.storeCtrl(v)
		case max78000.FLC_WELR0, max78000.FLC_RLR0, max78000.FLC_WELR1, max78000.FLC_RLR1:
			// Writing 1 locks the page; the hardware reports a locked page
			// by clearing its bit. There is no way back short of reset.
			s.Mem.Poke(addr, s.Mem.Peek(addr)&^v)
		default:
			s.Mem.Poke(addr, v)
		}
	})
}

func (s *Sim) storeCtrl(v uint32) {
	// Commands start on a 0->1 edge of what software last read, so a
	// read-modify-write over a stuck busy bit does not re-trigger.
	prev := s.load(flcCtrl)
	if v&unlockMask != prev&unlockMask {
		s.lockHistory = append(s.lockHistory, (v&unlockMask)>>max78000.FLC_CTRL_UNLOCK_Pos)
	}
	s.Mem.Poke(flcCtrl, v)
	start := v &^ prev
	if s.hang && start&(ctrlWR|ctrlPGE|ctrlME) != 0 {
		return
	}

	switch {
	case start&ctrlWR != 0:
		s.commitWrite(v)
	case start&ctrlPGE != 0:
		s.commitErase(v)
	case start&ctrlME != 0:
		// Mass erase is only reachable through the debug port.
		s.fault()
	default:
		return
	}
	s.Mem.Poke(flcCtrl, v&^(ctrlWR|ctrlPGE|ctrlME|eraseCodeMask))
}

func unlocked(ctrl uint32) bool {
	return (ctrl&unlockMask)>>max78000.FLC_CTRL_UNLOCK_Pos == max78000.FLC_CTRL_UNLOCK_UNLOCKED
}

func (s *Sim) fault() {
	s.Mem.Poke(flcIntr, s.Mem.Peek(flcIntr)|intrAF|intrDone)
}

func (s *Sim) done() {
	s.Mem.Poke(flcIntr, s.Mem.Peek(flcIntr)|intrDone)
}

// target resolves ADDR to a flash word index, or false if the write must
// be refused.
func (s *Sim) target(ctrl uint32, align uint32) (int, bool) {
	if s.failCommits > 0 {
		s.failCommits--
		return 0, false
	}
	phys := s.Mem.Peek(flcAddr) &^ (align - 1)
	if !unlocked(ctrl) || phys >= max78000.FLASH_SIZE {
		return 0, false
	}
	if !s.PageWritable(phys >> pageShift) {
		return 0, false
	}
	return int(phys / 4), true
}

func (s *Sim) commitWrite(ctrl uint32) {
	i, ok := s.target(ctrl, 16)
	if !ok {
		s.fault()
		return
	}
	for j := 0; j < 4; j++ {
		data := s.Mem.Peek(max78000.FLC_BASE + max78000.FLC_DATA0 + uint32(j)*4)
		// Programming can only pull bits low.
		s.flash[i+j] &= data
	}
	s.writes++
	s.done()
}

func (s *Sim) commitErase(ctrl uint32) {
	code := (ctrl & eraseCodeMask) >> max78000.FLC_CTRL_ERASE_CODE_Pos
	i, ok := s.target(ctrl, max78000.FLASH_PAGE)
	if !ok || code != max78000.FLC_CTRL_ERASE_CODE_ERASEPG {
		s.fault()
		return
	}
	n := int(max78000.FLASH_PAGE / 4)
	for j := i; j < i+n; j++ {
		s.flash[j] = 0xFFFFFFFF
	}
	s.erases++
	s.done()
}

func lockReg(page, welr0, welr1 uint32) (uint32, uint32) {
	if page < 32 {
		return max78000.FLC_BASE + welr0, 1 << page
	}
	return max78000.FLC_BASE + welr1, 1 << (page - 32)
}

// PageWritable reports whether page has not been write-locked.
func (s *Sim) PageWritable(page uint32) bool {
	if page >= pageCount {
		return false
	}
	r, bit := lockReg(page, max78000.FLC_WELR0, max78000.FLC_WELR1)
	return s.Mem.Peek(r)&bit != 0
}

// PageReadable reports whether page has not been read-locked.
func (s *Sim) PageReadable(page uint32) bool {
	if page >= pageCount {
		return false
	}
	r, bit := lockReg(page, max78000.FLC_RLR0, max78000.FLC_RLR1)
	return s.Mem.Peek(r)&bit != 0
}

// HangCommands leaves write and erase commands pending forever: the
// command bit never self-clears and nothing is programmed.
func (s *Sim) HangCommands(on bool) { s.hang = on }

// FailNextCommits makes the next n write or erase commits raise an access
// fault regardless of lock state.
func (s *Sim) FailNextCommits(n int) { s.failCommits = n }

// FlashLocked reports whether the controller's unlock field is anything
// other than the unlocked code.
func (s *Sim) FlashLocked() bool { return !unlocked(s.Mem.Peek(flcCtrl)) }

// LockHistory lists every value written to the unlock field, in order.
func (s *Sim) LockHistory() []uint32 { return append([]uint32(nil), s.lockHistory...) }

// AccessFault reports whether INTR.AF is set.
func (s *Sim) AccessFault() bool { return s.load(flcIntr)&intrAF != 0 }

// Writes and Erases count commits that landed.
func (s *Sim) Writes() int { return s.writes }
func (s *Sim) Erases() int { return s.erases }

// ClockDivider returns the programmed FLC clock divider.
func (s *Sim) ClockDivider() uint32 {
	return s.load(max78000.FLC_BASE+max78000.FLC_CLKDIV) & max78000.FLC_CLKDIV_CLKDIV_Msk
}

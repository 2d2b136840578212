package hwsim

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"max78000-hal/device/max78000"
)

func TestResetState(t *testing.T) {
	s := New()
	ctrl := s.CLKCTRL()
	for _, bit := range []int{
		max78000.GCR_CLKCTRL_ISO_RDY_Pos,
		max78000.GCR_CLKCTRL_IBRO_RDY_Pos,
		max78000.GCR_CLKCTRL_SYSCLK_RDY_Pos,
	} {
		if ctrl&(1<<bit) == 0 {
			t.Fatalf("CLKCTRL bit %d not set at reset: %#x", bit, ctrl)
		}
	}
	if ctrl&(1<<max78000.GCR_CLKCTRL_IPO_RDY_Pos) != 0 {
		t.Fatal("IPO ready before being enabled")
	}
	if got := s.Bus().Load(max78000.FLASH_BASE + 0x100); got != 0xFFFFFFFF {
		t.Fatalf("erased flash reads %#x", got)
	}
	if !s.FlashLocked() {
		t.Fatal("controller unlocked at reset")
	}
}

func TestEnableSetsReady(t *testing.T) {
	s := New()
	bus := s.Bus()
	bus.Store(clkctrl, bus.Load(clkctrl)|1<<max78000.GCR_CLKCTRL_IPO_EN_Pos)
	if s.CLKCTRL()&(1<<max78000.GCR_CLKCTRL_IPO_RDY_Pos) == 0 {
		t.Fatal("IPO_RDY did not follow IPO_EN")
	}
	s.Stick(clkctrl, 1<<max78000.GCR_CLKCTRL_SYSCLK_RDY_Pos, 0)
	if s.CLKCTRL()&(1<<max78000.GCR_CLKCTRL_SYSCLK_RDY_Pos) != 0 {
		t.Fatal("stuck SYSCLK_RDY still reads set")
	}
	s.Unstick(clkctrl)
}

func program(s *Sim, ctrl uint32, phys uint32, data [4]uint32) {
	bus := s.Bus()
	bus.Store(flcAddr, phys)
	for i, d := range data {
		bus.Store(max78000.FLC_BASE+max78000.FLC_DATA0+uint32(i)*4, d)
	}
	bus.Store(flcCtrl, ctrl)
	bus.Store(flcCtrl, ctrl|ctrlWR)
}

func TestWriteNeedsUnlock(t *testing.T) {
	s := New()
	unlock := uint32(max78000.FLC_CTRL_UNLOCK_UNLOCKED) << max78000.FLC_CTRL_UNLOCK_Pos

	program(s, 0, 0x60000, [4]uint32{0, 0, 0, 0})
	if !s.AccessFault() || s.Writes() != 0 {
		t.Fatal("locked write was not refused")
	}

	program(s, unlock, 0x60000, [4]uint32{0x12345678, 0xFFFFFFFF, 0, 0xF0F0F0F0})
	want := []uint32{0x12345678, 0xFFFFFFFF, 0, 0xF0F0F0F0}
	var got []uint32
	for i := uint32(0); i < 4; i++ {
		got = append(got, s.FlashWord(0x1006_0000+i*4))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flash after write (-want +got):\n%s", diff)
	}
	if s.Bus().Load(flcCtrl)&ctrlWR != 0 {
		t.Fatal("WR did not self-clear")
	}
}

func TestProgramOnlyClearsBits(t *testing.T) {
	s := New()
	unlock := uint32(max78000.FLC_CTRL_UNLOCK_UNLOCKED) << max78000.FLC_CTRL_UNLOCK_Pos
	s.SetFlashWord(0x1000_0000, 0x0000FFFF)
	program(s, unlock, 0, [4]uint32{0xFFFF00FF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF})
	if got := s.FlashWord(0x1000_0000); got != 0x000000FF {
		t.Fatalf("flash = %#x, want 0xFF", got)
	}
}

func TestWriteLockClearsBit(t *testing.T) {
	s := New()
	welr1 := uint32(max78000.FLC_BASE + max78000.FLC_WELR1)
	s.Bus().Store(welr1, 1<<(40-32))
	if s.PageWritable(40) {
		t.Fatal("page 40 still writable")
	}
	if got := s.Bus().Load(welr1); got != 0xFFFFFEFF {
		t.Fatalf("WELR1 = %#x", got)
	}
	// Writing 0 does not unlock.
	s.Bus().Store(welr1, 0)
	if s.PageWritable(40) {
		t.Fatal("page 40 unlocked by writing 0")
	}
}

func TestReadLockHidesData(t *testing.T) {
	s := New()
	s.Bus().Store(max78000.FLC_BASE+max78000.FLC_RLR0, 1<<2)
	if got := s.Bus().Load(max78000.FLASH_BASE + 2*max78000.FLASH_PAGE); got != 0 {
		t.Fatalf("read-locked page reads %#x", got)
	}
	if got := s.FlashWord(max78000.FLASH_BASE + 2*max78000.FLASH_PAGE); got != 0xFFFFFFFF {
		t.Fatalf("backing word = %#x", got)
	}
}

func TestLockHistory(t *testing.T) {
	s := New()
	bus := s.Bus()
	bus.Store(flcCtrl, 2<<28)
	bus.Store(flcCtrl, 2<<28|ctrlWR)
	bus.Store(flcCtrl, 3<<28)
	if diff := cmp.Diff([]uint32{2, 3}, s.LockHistory()); diff != "" {
		t.Fatalf("lock history (-want +got):\n%s", diff)
	}
}

func TestICC(t *testing.T) {
	s := New()
	bus := s.Bus()
	bus.Store(max78000.ICC0_BASE+max78000.ICC_INVALIDATE, 1)
	bus.Store(max78000.ICC0_BASE+max78000.ICC_CTRL, 1)
	if !s.CacheEnabled() || s.Invalidations() != 1 {
		t.Fatalf("enabled=%v invalidations=%d", s.CacheEnabled(), s.Invalidations())
	}
}

package flc

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/gcr"
	"max78000-hal/internal/hwsim"
	"max78000-hal/mmio"
	"max78000-hal/mmio/mock_mmio"
	"max78000-hal/periph"
)

const (
	flcCtrl = max78000.FLC_BASE + max78000.FLC_CTRL
	page48  = 0x1006_0000
)

func newFLC(t *testing.T, opts ...Option) (*Controller, *hwsim.Sim) {
	t.Helper()
	sim := hwsim.New()
	c, err := New(periph.New(sim.Bus()), gcr.ResetClocks().Sys, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, sim
}

func assertLocked(t *testing.T, sim *hwsim.Sim) {
	t.Helper()
	if !sim.FlashLocked() {
		t.Fatal("controller left unlocked")
	}
	if h := sim.LockHistory(); len(h) > 0 && h[len(h)-1] != max78000.FLC_CTRL_UNLOCK_LOCKED {
		t.Fatalf("last unlock-field write = %d, history %v", h[len(h)-1], h)
	}
}

func TestNewProgramsDivider(t *testing.T) {
	sim := hwsim.New()
	sim.Bus().Store(max78000.FLC_BASE+max78000.FLC_INTR, 1<<max78000.FLC_INTR_AF_Pos)
	c, err := New(periph.New(sim.Bus()), gcr.ResetClocks().Sys)
	if err != nil {
		t.Fatal(err)
	}
	if got := sim.ClockDivider(); got != 60 {
		t.Fatalf("CLKDIV = %d, want 60", got)
	}
	if c.Divider() != 60 {
		t.Fatalf("Divider() = %d", c.Divider())
	}
	if sim.AccessFault() {
		t.Fatal("stale access fault not cleared")
	}
}

func TestNewFromIPO(t *testing.T) {
	sim := hwsim.New()
	reg := periph.New(sim.Bus())
	g, err := gcr.New(reg)
	if err != nil {
		t.Fatal(err)
	}
	guards, _ := g.Guards()
	ipo, _ := gcr.NewOscillator(guards.IPO)
	on, err := ipo.Enable(g.Regs)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SysClk.SetSource(g.Regs, on); err != nil {
		t.Fatal(err)
	}
	if _, err := New(reg, g.SysClk.Freeze().Sys); err != nil {
		t.Fatal(err)
	}
	if got := sim.ClockDivider(); got != 100 {
		t.Fatalf("CLKDIV = %d, want 100", got)
	}
}

func TestNewClaimsOnce(t *testing.T) {
	sim := hwsim.New()
	reg := periph.New(sim.Bus())
	c, err := New(reg, gcr.ResetClocks().Sys)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(reg, gcr.ResetClocks().Sys); !errors.Is(err, errcode.InUse) {
		t.Fatalf("second New = %v, want in_use", err)
	}
	c.Close()
	if _, err := New(reg, gcr.ResetClocks().Sys); err != nil {
		t.Fatalf("New after Close: %v", err)
	}
}

func TestPageRoundTrip(t *testing.T) {
	for a := uint32(Base); a < End; a += 0x7FC {
		p, err := PageNumber(a)
		if err != nil {
			t.Fatalf("PageNumber(%#x): %v", a, err)
		}
		pa, err := PageAddress(p)
		if err != nil {
			t.Fatalf("PageAddress(%d): %v", p, err)
		}
		if p2, _ := PageNumber(pa); p2 != p {
			t.Fatalf("round trip %#x: page %d -> %#x -> page %d", a, p, pa, p2)
		}
	}
	if p, _ := PageNumber(page48 + 4); p != 48 {
		t.Fatalf("PageNumber(0x10060004) = %d", p)
	}
	if p, _ := PageNumber(End - 1); p != PageCount-1 {
		t.Fatalf("last page = %d", p)
	}
	if _, err := PageAddress(PageCount); !errors.Is(err, errcode.InvalidPage) {
		t.Fatalf("PageAddress(64) = %v", err)
	}
	if err := CheckPageNumber(63); err != nil {
		t.Fatal(err)
	}
}

func TestOutOfRange(t *testing.T) {
	c, sim := newFLC(t)
	for _, a := range []uint32{0, Base - 16, End, End + 16, 0xFFFF_FFF0} {
		ops := map[string]error{
			"CheckAddress":     c.CheckAddress(a),
			"Write128":         c.Write128(a, [4]uint32{}),
			"Write32":          c.Write32(a, 0),
			"ErasePage":        c.ErasePage(a),
			"DisablePageWrite": c.DisablePageWrite(a),
			"DisablePageRead":  c.DisablePageRead(a),
		}
		_, ops["Read32"] = c.Read32(a)
		_, ops["Read128"] = c.Read128(a)
		_, ops["PageNumber"] = c.PageNumber(a)
		for name, err := range ops {
			if !errors.Is(err, errcode.InvalidAddress) {
				t.Errorf("%s(%#x) = %v, want invalid_address", name, a, err)
			}
		}
	}
	if sim.Writes() != 0 || sim.Erases() != 0 {
		t.Fatal("out-of-range call reached the flash")
	}
	assertLocked(t, sim)
}

func TestUnalignedTouchesNothing(t *testing.T) {
	c, _ := newFLC(t)
	ctrl := gomock.NewController(t)
	bus := mock_mmio.NewMockBus(ctrl) // no expectations: any access fails the test
	c.regs.Bus = bus
	c.flash = bus

	for _, a := range []uint32{page48 + 4, page48 + 8, page48 + 1, page48 + 15} {
		if err := c.Write128(a, [4]uint32{}); !errors.Is(err, errcode.InvalidAddress) {
			t.Errorf("Write128(%#x) = %v", a, err)
		}
		if _, err := c.Read128(a); !errors.Is(err, errcode.InvalidAddress) {
			t.Errorf("Read128(%#x) = %v", a, err)
		}
	}
	for _, a := range []uint32{page48 + 1, page48 + 2, page48 + 7} {
		if err := c.Write32(a, 0); !errors.Is(err, errcode.InvalidAddress) {
			t.Errorf("Write32(%#x) = %v", a, err)
		}
		if _, err := c.Read32(a); !errors.Is(err, errcode.InvalidAddress) {
			t.Errorf("Read32(%#x) = %v", a, err)
		}
	}
}

func TestHazardCheck(t *testing.T) {
	for _, tc := range []struct {
		name string
		old  uint32
		new  uint32
		want error
	}{
		{"erased to anything", 0xFFFF_FFFF, 0x1234_5678, nil},
		{"erased to zero", 0xFFFF_FFFF, 0, nil},
		{"erased to erased", 0xFFFF_FFFF, 0xFFFF_FFFF, nil},
		{"clear more bits", 0x0000_FFFF, 0x0000_00F0, nil},
		{"same value", 0x1234_5678, 0x1234_5678, nil},
		{"zero to ones", 0, 0xFFFF_FFFF, errcode.NeedsErase},
		{"one raised bit", 0xFFFF_FFFE, 0xFFFF_FFFF, errcode.NeedsErase},
		{"disjoint", 0x0F0F_0F0F, 0xF0F0_F0F0, errcode.NeedsErase},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, sim := newFLC(t)
			for i := uint32(0); i < 4; i++ {
				sim.SetFlashWord(page48+i*4, tc.old)
			}
			sim.Mem.Trace()
			err := c.Write128(page48, [4]uint32{tc.new, tc.new, tc.new, tc.new})
			trace := sim.Mem.Accesses()

			if tc.want == nil {
				if err != nil {
					t.Fatalf("Write128 = %v", err)
				}
				if got := sim.FlashWord(page48 + 12); got != tc.new {
					t.Fatalf("flash = %#x, want %#x", got, tc.new)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Write128 = %v, want %v", err, tc.want)
			}
			// Nothing but the divider may have been written.
			for _, st := range mmio.Stores(trace, max78000.FLC_BASE, max78000.FLC_SIZE) {
				if st.Addr != max78000.FLC_BASE+max78000.FLC_CLKDIV {
					t.Fatalf("hazard path stored to %#x", st.Addr)
				}
			}
			if got := sim.FlashWord(page48); got != tc.old {
				t.Fatalf("flash changed to %#x", got)
			}
			assertLocked(t, sim)
		})
	}
}

func TestHazardCheckEveryWord(t *testing.T) {
	c, sim := newFLC(t)
	for i := uint32(0); i < 4; i++ {
		sim.SetFlashWord(page48+i*4, 0)
	}
	for lane := 0; lane < 4; lane++ {
		data := [4]uint32{}
		data[lane] = 0xFFFF_FFFF
		if err := c.Write128(page48, data); !errors.Is(err, errcode.NeedsErase) {
			t.Fatalf("lane %d raised: %v, want needs_erase", lane, err)
		}
	}
	if sim.Writes() != 0 {
		t.Fatal("a hazardous write was committed")
	}
}

func TestEraseWriteRead(t *testing.T) {
	c, sim := newFLC(t)
	sim.FillPage(48, 0)

	if err := c.ErasePage(page48 + 0x100); err != nil {
		t.Fatalf("ErasePage: %v", err)
	}
	for a := uint32(page48); a < page48+PageSize; a += 0x400 {
		got, err := c.Read128(a)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([4]uint32{0xFFFF_FFFF, 0xFFFF_FFFF, 0xFFFF_FFFF, 0xFFFF_FFFF}, got); diff != "" {
			t.Fatalf("erased quad at %#x (-want +got):\n%s", a, diff)
		}
	}
	if err := c.Write32(page48+4, 0x1234_5678); err != nil {
		t.Fatalf("Write32: %v", err)
	}
	got, err := c.Read32(page48 + 4)
	if err != nil || got != 0x1234_5678 {
		t.Fatalf("Read32 = %#x, %v", got, err)
	}
	if sim.Erases() != 1 || sim.Writes() != 1 {
		t.Fatalf("erases=%d writes=%d", sim.Erases(), sim.Writes())
	}
	assertLocked(t, sim)
}

func TestWrite128Order(t *testing.T) {
	c, sim := newFLC(t)
	data := [4]uint32{0x0403_0201, 0x0807_0605, 0x0C0B_0A09, 0x100F_0E0D}
	if err := c.Write128(page48+0x20, data); err != nil {
		t.Fatal(err)
	}
	got, _ := c.Read128(page48 + 0x20)
	if diff := cmp.Diff(data, got); diff != "" {
		t.Fatalf("Read128 (-want +got):\n%s", diff)
	}
	if addr := sim.Mem.Peek(max78000.FLC_BASE + max78000.FLC_ADDR); addr != 0x6_0020 {
		t.Fatalf("ADDR = %#x, want physical 0x60020", addr)
	}
}

func TestWrite32LaneSplice(t *testing.T) {
	c, sim := newFLC(t)
	prior := [4]uint32{0x1111_1111, 0xFFFF_FFFF, 0xFFFF_FFFF, 0x0000_0000}
	if err := c.Write128(page48, prior); err != nil {
		t.Fatal(err)
	}
	if err := c.Write32(page48+8, 0xCAFE_F00D); err != nil {
		t.Fatalf("Write32 lane 2: %v", err)
	}
	got, _ := c.Read128(page48)
	want := [4]uint32{0x1111_1111, 0xFFFF_FFFF, 0xCAFE_F00D, 0x0000_0000}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("quad after lane-2 write (-want +got):\n%s", diff)
	}
	if err := c.Write32(page48+8, 0xFFFF_FFFF); !errors.Is(err, errcode.NeedsErase) {
		t.Fatalf("raising lane 2 = %v, want needs_erase", err)
	}
	if sim.Writes() != 2 {
		t.Fatalf("writes = %d", sim.Writes())
	}
}

func TestAccessViolation(t *testing.T) {
	c, sim := newFLC(t)
	if err := c.DisablePageWrite(page48); err != nil {
		t.Fatal(err)
	}
	err := c.Write32(page48, 0)
	if !errors.Is(err, errcode.AccessViolation) {
		t.Fatalf("write to protected page = %v, want access_violation", err)
	}
	if errcode.Of(err) != errcode.AccessViolation {
		t.Fatalf("Of = %v", errcode.Of(err))
	}
	if sim.AccessFault() {
		t.Fatal("AF not cleared after reporting")
	}
	if err := c.ErasePage(page48); !errors.Is(err, errcode.AccessViolation) {
		t.Fatalf("erase of protected page = %v", err)
	}
	if got := sim.FlashWord(page48); got != 0xFFFF_FFFF {
		t.Fatalf("protected page changed: %#x", got)
	}
	assertLocked(t, sim)

	// Other pages are unaffected.
	if err := c.Write32(page48+PageSize, 0); err != nil {
		t.Fatalf("write to page 49: %v", err)
	}
}

func TestLockedOnEveryPath(t *testing.T) {
	for _, tc := range []struct {
		name  string
		setup func(*hwsim.Sim)
		op    func(*Controller) error
		want  error
	}{
		{"write ok", nil, func(c *Controller) error { return c.Write32(page48, 1) }, nil},
		{"erase ok", nil, func(c *Controller) error { return c.ErasePage(page48) }, nil},
		{"needs erase", func(s *hwsim.Sim) { s.SetFlashWord(page48, 0) },
			func(c *Controller) error { return c.Write32(page48, 1) }, errcode.NeedsErase},
		{"forced fault on write", func(s *hwsim.Sim) { s.FailNextCommits(1) },
			func(c *Controller) error { return c.Write32(page48, 1) }, errcode.AccessViolation},
		{"forced fault on erase", func(s *hwsim.Sim) { s.FailNextCommits(1) },
			func(c *Controller) error { return c.ErasePage(page48) }, errcode.AccessViolation},
		{"write never completes", func(s *hwsim.Sim) { s.HangCommands(true) },
			func(c *Controller) error { return c.Write32(page48, 1) }, errcode.Timeout},
		{"erase never completes", func(s *hwsim.Sim) { s.HangCommands(true) },
			func(c *Controller) error { return c.ErasePage(page48) }, errcode.Timeout},
		{"unlock never acknowledged", func(s *hwsim.Sim) { s.Stick(flcCtrl, 0xF<<28, 0) },
			func(c *Controller) error { return c.Write32(page48, 1) }, errcode.Timeout},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, sim := newFLC(t, WithPoller(mmio.Polls(16)))
			if tc.setup != nil {
				tc.setup(sim)
			}
			err := tc.op(c)
			if tc.want == nil && err != nil {
				t.Fatalf("op = %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("op = %v, want %v", err, tc.want)
			}
			sim.Unstick(flcCtrl)
			assertLocked(t, sim)
		})
	}
}

func TestFaultClearedAfterTimeout(t *testing.T) {
	c, sim := newFLC(t, WithPoller(mmio.Polls(16)))
	sim.Bus().Store(max78000.FLC_BASE+max78000.FLC_INTR, 1<<max78000.FLC_INTR_AF_Pos)
	sim.HangCommands(true)
	if err := c.ErasePage(page48); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("ErasePage = %v, want timeout", err)
	}
	if sim.AccessFault() {
		t.Fatal("access fault left set after a timed-out erase")
	}
	assertLocked(t, sim)
}

func TestBusyTimeoutBeforeUnlock(t *testing.T) {
	c, sim := newFLC(t, WithPoller(mmio.Polls(4)))
	sim.Stick(flcCtrl, 1<<max78000.FLC_CTRL_PEND_Pos, 1<<max78000.FLC_CTRL_PEND_Pos)
	before := len(sim.LockHistory())
	if err := c.Write32(page48, 0); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("Write32 while busy = %v, want timeout", err)
	}
	if len(sim.LockHistory()) != before {
		t.Fatal("controller was unlocked while busy")
	}
	if !c.Busy() {
		t.Fatal("Busy() false with PEND stuck")
	}
}

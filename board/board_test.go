package board

import (
	"errors"
	"testing"

	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/gcr"
	"max78000-hal/internal/hwsim"
	"max78000-hal/internal/setups"
	"max78000-hal/mmio"
	"max78000-hal/periph"
)

const clkctrlAddr = max78000.GCR_BASE + max78000.GCR_CLKCTRL

var feather = setups.Plan{
	Name:  "test",
	Clock: setups.ClockPlan{Source: gcr.OscIPO, Divider: gcr.Div2},
	Flash: setups.FlashPlan{WriteProtect: []uint32{0, 40}, ReadProtect: []uint32{63}},
	Cache: true,
}

func sysclkSel(sim *hwsim.Sim) uint32 {
	return sim.CLKCTRL() >> max78000.GCR_CLKCTRL_SYSCLK_SEL_Pos & max78000.GCR_CLKCTRL_SYSCLK_SEL_Msk
}

func sysclkDiv(sim *hwsim.Sim) uint32 {
	return sim.CLKCTRL() >> max78000.GCR_CLKCTRL_SYSCLK_DIV_Pos & max78000.GCR_CLKCTRL_SYSCLK_DIV_Msk
}

func TestBringupSelected(t *testing.T) {
	sim := hwsim.New()
	b, err := Bringup(periph.New(sim.Bus()), setups.Selected)
	if err != nil {
		t.Fatalf("Bringup: %v", err)
	}
	if got, want := b.Clocks.Sys.Frequency(), setups.Selected.SysclkHz(); got != want {
		t.Fatalf("sysclk = %d, want %d", got, want)
	}
	if sim.CacheEnabled() != setups.Selected.Cache {
		t.Fatalf("cache enabled = %v", sim.CacheEnabled())
	}
}

func TestBringupPlan(t *testing.T) {
	sim := hwsim.New()
	b, err := Bringup(periph.New(sim.Bus()), feather)
	if err != nil {
		t.Fatalf("Bringup: %v", err)
	}
	if got := sysclkSel(sim); got != max78000.GCR_CLKCTRL_SYSCLK_SEL_IPO {
		t.Fatalf("SYSCLK_SEL = %d", got)
	}
	if got := sysclkDiv(sim); got != uint32(gcr.Div2) {
		t.Fatalf("SYSCLK_DIV = %d", got)
	}
	if got := b.Clocks.Sys.Frequency(); got != 50_000_000 {
		t.Fatalf("sysclk = %d", got)
	}
	if got := b.Clocks.Peripheral.Frequency(); got != 25_000_000 {
		t.Fatalf("pclk = %d", got)
	}
	if got := sim.ClockDivider(); got != 50 {
		t.Fatalf("FLC CLKDIV = %d, want 50", got)
	}
	if !sim.CacheEnabled() {
		t.Fatal("cache not enabled")
	}
	for _, pg := range []uint32{0, 40} {
		if sim.PageWritable(pg) {
			t.Fatalf("page %d writable", pg)
		}
	}
	if !sim.PageWritable(1) {
		t.Fatal("page 1 locked")
	}
	if sim.PageReadable(63) {
		t.Fatal("page 63 readable")
	}
}

func TestBringupIBRO(t *testing.T) {
	sim := hwsim.New()
	plan := setups.Plan{Clock: setups.ClockPlan{Source: gcr.OscIBRO, Divider: gcr.Div1}}
	b, err := Bringup(periph.New(sim.Bus()), plan)
	if err != nil {
		t.Fatalf("Bringup: %v", err)
	}
	if got := sysclkSel(sim); got != max78000.GCR_CLKCTRL_SYSCLK_SEL_IBRO {
		t.Fatalf("SYSCLK_SEL = %d", got)
	}
	// 7.3728 MHz rounds down to 7.
	if got := b.Flash.Divider(); got != 7 {
		t.Fatalf("FLC divider = %d", got)
	}
	if sim.CacheEnabled() {
		t.Fatal("cache enabled without plan asking")
	}
}

func TestBringupRejectsPlan(t *testing.T) {
	sim := hwsim.New()
	sim.Mem.Trace()
	plan := setups.Plan{Clock: setups.ClockPlan{Source: gcr.OscERTCO}}
	if _, err := Bringup(periph.New(sim.Bus()), plan); !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("Bringup = %v, want unsupported", err)
	}
	if n := len(sim.Mem.Accesses()); n != 0 {
		t.Fatalf("%d register accesses for a rejected plan", n)
	}
}

func TestBringupFailureReleases(t *testing.T) {
	sim := hwsim.New()
	reg := periph.New(sim.Bus())
	sim.Stick(clkctrlAddr, 1<<max78000.GCR_CLKCTRL_IPO_RDY_Pos, 0)

	_, err := Bringup(reg, feather, WithPoller(mmio.Polls(8)))
	if !errors.Is(err, errcode.Timeout) {
		t.Fatalf("Bringup = %v, want timeout", err)
	}
	for _, id := range []periph.ID{periph.GCR, periph.LPGCR, periph.FLC, periph.ICC0} {
		if o := reg.Owner(id); o != "" {
			t.Fatalf("%s still owned by %q", id, o)
		}
	}

	sim.Unstick(clkctrlAddr)
	b, err := Bringup(reg, feather)
	if err != nil {
		t.Fatalf("Bringup after release: %v", err)
	}
	b.Close()
	if o := reg.Owner(periph.FLC); o != "" {
		t.Fatalf("FLC owned by %q after Close", o)
	}
}

func TestBringupTwice(t *testing.T) {
	sim := hwsim.New()
	reg := periph.New(sim.Bus())
	if _, err := Bringup(reg, setups.Selected); err != nil {
		t.Fatal(err)
	}
	if _, err := Bringup(reg, setups.Selected); !errors.Is(err, errcode.InUse) {
		t.Fatalf("second Bringup = %v, want in_use", err)
	}
}

// Package gcr drives the MAX78000 global control registers: oscillators,
// the system clock mux and divider, and per-peripheral clock gates and
// resets.
//
// Bring-up goes guard -> Oscillator -> EnabledOscillator -> SystemClockConfig
// -> SystemClocks:
//
//	g, _ := gcr.New(reg)
//	guards, _ := g.Guards()
//	ipo, _ := gcr.NewOscillator(guards.IPO)
//	on, _ := ipo.Enable(g.Regs)
//	_ = g.SysClk.SetSource(g.Regs, on)
//	_ = g.SysClk.SetDivider(g.Regs, gcr.Div1)
//	clocks := g.SysClk.Freeze()
package gcr

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/mmio"
	"max78000-hal/periph"
)

const owner = "gcr"

// Registers is the claimed GCR and LPGCR register pair. Every mutating
// operation in this package takes it explicitly.
type Registers struct {
	gcr   mmio.Block
	lpgcr mmio.Block
	poll  mmio.Poller
}

func (r *Registers) clkctrl() mmio.Reg { return r.gcr.Reg(max78000.GCR_CLKCTRL) }

// Option configures a GCR.
type Option func(*config)

type config struct {
	poller mmio.Poller
}

// WithPoller replaces the default unbounded spin for every ready-bit wait.
func WithPoller(p mmio.Poller) Option {
	return func(c *config) {
		if p != nil {
			c.poller = p
		}
	}
}

// GCR owns the global control registers.
type GCR struct {
	Regs   *Registers
	SysClk *SystemClockConfig

	reg    *periph.Registry
	guards *OscillatorGuards
}

// New claims GCR and LPGCR from reg. A second New on the same registry
// fails with errcode.InUse until Close.
func New(reg *periph.Registry, opts ...Option) (*GCR, error) {
	cfg := config{poller: mmio.Spin{}}
	for _, o := range opts {
		o(&cfg)
	}
	g, err := reg.Claim(owner, periph.GCR)
	if err != nil {
		return nil, errcode.Wrap("gcr.new", err)
	}
	lp, err := reg.Claim(owner, periph.LPGCR)
	if err != nil {
		reg.Release(owner, periph.GCR)
		return nil, errcode.Wrap("gcr.new", err)
	}
	return &GCR{
		Regs:   &Registers{gcr: g.Block, lpgcr: lp.Block, poll: cfg.poller},
		SysClk: newSystemClockConfig(),
		reg:    reg,
		guards: newGuards(),
	}, nil
}

// Guards hands out the oscillator guards. Only the first call succeeds.
func (g *GCR) Guards() (*OscillatorGuards, error) {
	if g.guards == nil {
		return nil, errcode.InUse
	}
	out := g.guards
	g.guards = nil
	return out, nil
}

// Close releases the register blocks. Handles derived from g must not be
// used afterwards.
func (g *GCR) Close() {
	g.reg.Release(owner, periph.LPGCR)
	g.reg.Release(owner, periph.GCR)
}

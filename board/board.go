// Package board brings a MAX78000 up from reset according to a setups.Plan:
// clock tree first, then the flash controller (whose timing depends on the
// frozen system clock), then the instruction cache and page protection.
package board

import (
	"max78000-hal/errcode"
	"max78000-hal/flc"
	"max78000-hal/gcr"
	"max78000-hal/icc"
	"max78000-hal/internal/setups"
	"max78000-hal/mmio"
	"max78000-hal/periph"
	"max78000-hal/x/logx"
)

// Option configures Bringup.
type Option func(*config)

type config struct {
	poller mmio.Poller
}

// WithPoller is passed to every controller bring-up creates.
func WithPoller(p mmio.Poller) Option {
	return func(c *config) { c.poller = p }
}

// Board holds the controllers owned after bring-up.
type Board struct {
	Plan   setups.Plan
	GCR    *gcr.GCR
	Clocks gcr.SystemClocks
	Flash  *flc.Controller
	Cache  *icc.Cache
}

// Bringup applies plan to the chip behind reg. On error every block claimed
// so far is released; clock and protection changes already made stay in
// effect until reset.
func Bringup(reg *periph.Registry, plan setups.Plan, opts ...Option) (*Board, error) {
	cfg := config{poller: mmio.Spin{}}
	for _, o := range opts {
		o(&cfg)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	b := &Board{Plan: plan}
	var err error
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	if b.GCR, err = gcr.New(reg, gcr.WithPoller(cfg.poller)); err != nil {
		return nil, err
	}
	if b.Clocks, err = b.clocks(plan.Clock); err != nil {
		return nil, err
	}
	if b.Flash, err = flc.New(reg, b.Clocks.Sys, flc.WithPoller(cfg.poller)); err != nil {
		return nil, err
	}
	if b.Cache, err = icc.New(reg, icc.WithPoller(cfg.poller)); err != nil {
		return nil, err
	}
	if plan.Cache {
		if err = b.Cache.Enable(); err != nil {
			return nil, errcode.Wrap("board.cache", err)
		}
	}
	if err = b.protect(plan.Flash); err != nil {
		return nil, err
	}

	logx.Info("board: up", "plan", plan.Name, "sysclk", int(b.Clocks.Sys.Frequency()), "flc_div", int(b.Flash.Divider()))
	return b, nil
}

func (b *Board) clocks(p setups.ClockPlan) (gcr.SystemClocks, error) {
	guards, err := b.GCR.Guards()
	if err != nil {
		return gcr.SystemClocks{}, err
	}
	regs := b.GCR.Regs

	var on gcr.Enabled
	switch p.Source {
	case gcr.OscIPO:
		on, err = enable(guards.IPO, regs)
	case gcr.OscISO:
		on, err = enable(guards.ISO, regs)
	case gcr.OscIBRO:
		on, err = enable(guards.IBRO, regs)
	default:
		on, err = enable(guards.ERTCO, regs)
	}
	if err != nil {
		return gcr.SystemClocks{}, errcode.Wrap("board.clock", err)
	}
	if err := b.GCR.SysClk.SetSource(regs, on); err != nil {
		return gcr.SystemClocks{}, errcode.Wrap("board.clock", err)
	}
	if err := b.GCR.SysClk.SetDivider(regs, p.Divider); err != nil {
		return gcr.SystemClocks{}, errcode.Wrap("board.clock", err)
	}
	return b.GCR.SysClk.Freeze(), nil
}

func enable[S gcr.Source](g *gcr.Guard[S], regs *gcr.Registers) (gcr.Enabled, error) {
	o, err := gcr.NewOscillator(g)
	if err != nil {
		return nil, err
	}
	on, err := o.Enable(regs)
	if err != nil {
		return nil, err
	}
	return on, nil
}

func (b *Board) protect(p setups.FlashPlan) error {
	for _, pg := range p.WriteProtect {
		addr, err := flc.PageAddress(pg)
		if err != nil {
			return err
		}
		if err := b.Flash.DisablePageWrite(addr); err != nil {
			return errcode.Wrap("board.protect", err)
		}
	}
	for _, pg := range p.ReadProtect {
		addr, err := flc.PageAddress(pg)
		if err != nil {
			return err
		}
		if err := b.Flash.DisablePageRead(addr); err != nil {
			return errcode.Wrap("board.protect", err)
		}
	}
	return nil
}

// Close releases every controller. It is safe on a partially brought up
// board.
func (b *Board) Close() {
	if b.Cache != nil {
		b.Cache.Close()
		b.Cache = nil
	}
	if b.Flash != nil {
		b.Flash.Close()
		b.Flash = nil
	}
	if b.GCR != nil {
		b.GCR.Close()
		b.GCR = nil
	}
}

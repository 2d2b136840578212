// Package flc drives the MAX78000 flash controller: 128-bit programming,
// page erase and page protection over the 512 KiB internal flash.
//
// Programming can only clear bits. Every write first reads the target quad
// and refuses with errcode.NeedsErase if any bit would have to go from 0 to
// 1; erasing is always the caller's explicit decision.
//
// Precondition: the write and erase paths must not execute from the flash
// bank being modified. On target, place the calling code in RAM (or a
// linker section resident in RAM) before programming.
package flc

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/gcr"
	"max78000-hal/mmio"
	"max78000-hal/periph"
	"max78000-hal/x/logx"
	"max78000-hal/x/mathx"
)

const owner = "flc"

var (
	clkdiv    = mmio.Field{Pos: max78000.FLC_CLKDIV_CLKDIV_Pos, Mask: max78000.FLC_CLKDIV_CLKDIV_Msk}
	eraseCode = mmio.Field{Pos: max78000.FLC_CTRL_ERASE_CODE_Pos, Mask: max78000.FLC_CTRL_ERASE_CODE_Msk}
	unlock    = mmio.Field{Pos: max78000.FLC_CTRL_UNLOCK_Pos, Mask: max78000.FLC_CTRL_UNLOCK_Msk}
)

const (
	ctrlWR   = 1 << max78000.FLC_CTRL_WR_Pos
	ctrlME   = 1 << max78000.FLC_CTRL_ME_Pos
	ctrlPGE  = 1 << max78000.FLC_CTRL_PGE_Pos
	ctrlBusy = 1<<max78000.FLC_CTRL_PEND_Pos | ctrlPGE | ctrlME | ctrlWR

	intrAF = 1 << max78000.FLC_INTR_AF_Pos
)

// Option configures a Controller.
type Option func(*config)

type config struct {
	poller mmio.Poller
}

// WithPoller replaces the default unbounded spin for every controller wait.
// A bounded poller makes errcode.Timeout possible; the controller is still
// re-locked before it is reported.
func WithPoller(p mmio.Poller) Option {
	return func(c *config) {
		if p != nil {
			c.poller = p
		}
	}
}

// Controller owns the flash controller and read access to the flash array.
type Controller struct {
	regs  mmio.Block
	flash mmio.Bus
	sys   gcr.Clock[gcr.SystemClock]
	poll  mmio.Poller
	reg   *periph.Registry
}

// New claims the flash controller and programs its clock divider from sys.
func New(reg *periph.Registry, sys gcr.Clock[gcr.SystemClock], opts ...Option) (*Controller, error) {
	cfg := config{poller: mmio.Spin{}}
	for _, o := range opts {
		o(&cfg)
	}
	blk, err := reg.Claim(owner, periph.FLC)
	if err != nil {
		return nil, errcode.Wrap("flc.new", err)
	}
	mem, err := reg.Claim(owner, periph.Flash)
	if err != nil {
		reg.Release(owner, periph.FLC)
		return nil, errcode.Wrap("flc.new", err)
	}
	c := &Controller{regs: blk.Block, flash: mem.Bus, sys: sys, poll: cfg.poller, reg: reg}
	if err := c.configure(); err != nil {
		c.Close()
		return nil, errcode.Wrap("flc.new", err)
	}
	return c, nil
}

// Close releases the controller and the flash array.
func (c *Controller) Close() {
	c.reg.Release(owner, periph.Flash)
	c.reg.Release(owner, periph.FLC)
}

func (c *Controller) ctrl() mmio.Reg { return c.regs.Reg(max78000.FLC_CTRL) }
func (c *Controller) intr() mmio.Reg { return c.regs.Reg(max78000.FLC_INTR) }

// Divider is the FLC clock divider for the configured system clock: one
// flash clock per microsecond, held to the 8-bit field.
func (c *Controller) Divider() uint32 {
	return mathx.Clamp(c.sys.Divisor(1_000_000), 1, max78000.FLC_CLKDIV_CLKDIV_Msk)
}

// configure is idempotent: wait for idle, set the divider, drop any stale
// access fault.
func (c *Controller) configure() error {
	if err := c.waitIdle(); err != nil {
		return err
	}
	c.regs.Reg(max78000.FLC_CLKDIV).SetField(clkdiv, c.Divider())
	if intr := c.intr(); intr.IsSet(max78000.FLC_INTR_AF_Pos) {
		intr.ClearBits(intrAF)
	}
	return nil
}

// Busy reports whether an operation is pending or in flight.
func (c *Controller) Busy() bool { return c.ctrl().Get()&ctrlBusy != 0 }

func (c *Controller) waitIdle() error {
	return c.poll.Until(func() bool { return !c.Busy() })
}

func (c *Controller) setAddress(addr uint32) error {
	if err := CheckAddress(addr); err != nil {
		return err
	}
	c.regs.Reg(max78000.FLC_ADDR).Set(physical(addr))
	return nil
}

func (c *Controller) unlock() error {
	ctrl := c.ctrl()
	ctrl.SetField(unlock, max78000.FLC_CTRL_UNLOCK_UNLOCKED)
	return ctrl.WaitField(c.poll, unlock, max78000.FLC_CTRL_UNLOCK_UNLOCKED)
}

func (c *Controller) lock() error {
	ctrl := c.ctrl()
	ctrl.SetField(unlock, max78000.FLC_CTRL_UNLOCK_LOCKED)
	return ctrl.WaitField(c.poll, unlock, max78000.FLC_CTRL_UNLOCK_LOCKED)
}

// commit starts the operation selected by bit and waits for the bit to
// self-clear, then for the controller to go idle.
func (c *Controller) commit(bit uint32) error {
	ctrl := c.ctrl()
	ctrl.SetBits(bit)
	if err := ctrl.WaitClear(c.poll, bit); err != nil {
		return err
	}
	return c.waitIdle()
}

// session runs start between unlock and lock. The lock is written on every
// path out, including unlock or commit timeouts; only then is the access
// fault flag checked and cleared. A timeout outranks a fault in the
// returned error.
func (c *Controller) session(op string, start func() error) error {
	err := c.unlock()
	if err == nil {
		err = start()
	}
	if lerr := c.lock(); err == nil {
		err = lerr
	}
	faulted := false
	if intr := c.intr(); intr.IsSet(max78000.FLC_INTR_AF_Pos) {
		intr.ClearBits(intrAF)
		faulted = true
		logx.Debug("flc: access fault", "op", op, "addr", c.regs.Reg(max78000.FLC_ADDR).Get()|Base)
	}
	switch {
	case err != nil:
		return errcode.Wrap(op, err)
	case faulted:
		return &errcode.E{C: errcode.AccessViolation, Op: op}
	}
	return nil
}

// These forward to the package-level geometry helpers.
func (c *Controller) CheckAddress(addr uint32) error          { return CheckAddress(addr) }
func (c *Controller) CheckPageNumber(page uint32) error       { return CheckPageNumber(page) }
func (c *Controller) PageAddress(page uint32) (uint32, error) { return PageAddress(page) }
func (c *Controller) PageNumber(addr uint32) (uint32, error)  { return PageNumber(addr) }

// Package icc drives the MAX78000 instruction cache controller (ICC0).
package icc

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/mmio"
	"max78000-hal/periph"
	"max78000-hal/x/logx"
)

const owner = "icc"

// Option configures a Cache.
type Option func(*config)

type config struct {
	poller mmio.Poller
}

// WithPoller replaces the default unbounded spin on the ready bit.
func WithPoller(p mmio.Poller) Option {
	return func(c *config) {
		if p != nil {
			c.poller = p
		}
	}
}

// Cache is the instruction cache.
type Cache struct {
	regs mmio.Block
	poll mmio.Poller
	reg  *periph.Registry
}

// New claims ICC0. The cache state is left as found.
func New(reg *periph.Registry, opts ...Option) (*Cache, error) {
	cfg := config{poller: mmio.Spin{}}
	for _, o := range opts {
		o(&cfg)
	}
	blk, err := reg.Claim(owner, periph.ICC0)
	if err != nil {
		return nil, errcode.Wrap("icc.new", err)
	}
	return &Cache{regs: blk.Block, poll: cfg.poller, reg: reg}, nil
}

func (c *Cache) Close() { c.reg.Release(owner, periph.ICC0) }

func (c *Cache) ctrl() mmio.Reg { return c.regs.Reg(max78000.ICC_CTRL) }

func (c *Cache) waitReady() error {
	return c.ctrl().WaitSet(c.poll, 1<<max78000.ICC_CTRL_RDY_Pos)
}

// Enabled reports CTRL.EN.
func (c *Cache) Enabled() bool { return c.ctrl().IsSet(max78000.ICC_CTRL_EN_Pos) }

// Disable turns the cache off. Fetches go straight to flash afterwards.
func (c *Cache) Disable() { c.ctrl().ClearBit(max78000.ICC_CTRL_EN_Pos) }

// Invalidate drops every cached line and waits for the controller to
// finish. The enable state is unchanged.
func (c *Cache) Invalidate() error {
	c.regs.Reg(max78000.ICC_INVALIDATE).Set(1)
	if err := c.waitReady(); err != nil {
		return errcode.Wrap("icc.invalidate", err)
	}
	return nil
}

// Enable disables, invalidates and re-enables the cache so that it starts
// empty.
func (c *Cache) Enable() error {
	c.Disable()
	if err := c.Invalidate(); err != nil {
		return err
	}
	c.ctrl().SetBit(max78000.ICC_CTRL_EN_Pos)
	if err := c.waitReady(); err != nil {
		return errcode.Wrap("icc.enable", err)
	}
	logx.Debug("icc: enabled")
	return nil
}

package flc

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/mmio"
	"max78000-hal/x/logx"
)

// lockBit picks the lock register for page out of the lo/hi pair: pages
// 0..31 in lo, 32..63 in hi.
func (c *Controller) lockBit(page, lo, hi uint32) (mmio.Reg, uint32) {
	if page < 32 {
		return c.regs.Reg(lo), 1 << page
	}
	return c.regs.Reg(hi), 1 << (page - 32)
}

func (c *Controller) protect(op string, addr, lo, hi uint32) error {
	page, err := PageNumber(addr)
	if err != nil {
		return err
	}
	if err := c.waitIdle(); err != nil {
		return errcode.Wrap(op, err)
	}
	reg, bit := c.lockBit(page, lo, hi)
	reg.Set(bit)
	// The hardware acknowledges the lock by clearing the page's bit.
	if err := reg.WaitClear(c.poll, bit); err != nil {
		return errcode.Wrap(op, err)
	}
	logx.Debug("flc: page locked", "op", op, "page", int(page))
	return nil
}

// DisablePageWrite write-protects the page containing addr until the next
// external reset. There is no way to undo it from software.
func (c *Controller) DisablePageWrite(addr uint32) error {
	return c.protect("flc.wlock", addr, max78000.FLC_WELR0, max78000.FLC_WELR1)
}

// DisablePageRead read-protects the page containing addr until the next
// external reset.
func (c *Controller) DisablePageRead(addr uint32) error {
	return c.protect("flc.rlock", addr, max78000.FLC_RLR0, max78000.FLC_RLR1)
}

// PageWritable reports whether page has not been write-protected.
func (c *Controller) PageWritable(page uint32) (bool, error) {
	if err := CheckPageNumber(page); err != nil {
		return false, err
	}
	reg, bit := c.lockBit(page, max78000.FLC_WELR0, max78000.FLC_WELR1)
	return reg.Get()&bit != 0, nil
}

// PageReadable reports whether page has not been read-protected.
func (c *Controller) PageReadable(page uint32) (bool, error) {
	if err := CheckPageNumber(page); err != nil {
		return false, err
	}
	reg, bit := c.lockBit(page, max78000.FLC_RLR0, max78000.FLC_RLR1)
	return reg.Get()&bit != 0, nil
}

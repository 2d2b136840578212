package flc

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/x/logx"
	"max78000-hal/x/mathx"
)

// Write128 programs the 16-byte aligned quad at addr. data[0] lands at the
// lowest address. Fails with errcode.NeedsErase, before any controller
// register is written, if the quad currently holds a 0 where data has a 1.
func (c *Controller) Write128(addr uint32, data [4]uint32) error {
	if !mathx.Aligned(addr, QuadSize) {
		return errcode.InvalidAddress
	}
	if err := CheckAddress(addr); err != nil {
		return err
	}
	if err := c.configure(); err != nil {
		return errcode.Wrap("flc.write", err)
	}
	for i, d := range data {
		old := c.flash.Load(addr + uint32(i)*4)
		if old&d != d {
			logx.Debug("flc: needs erase", "addr", addr+uint32(i)*4, "old", old, "new", d)
			return errcode.NeedsErase
		}
	}
	if err := c.setAddress(addr); err != nil {
		return err
	}
	for i, d := range data {
		c.regs.Reg(max78000.FLC_DATA0 + uint32(i)*4).Set(d)
	}
	if err := c.session("flc.write", func() error { return c.commit(ctrlWR) }); err != nil {
		return err
	}
	logx.Debug("flc: wrote", "addr", addr)
	return nil
}

// Write32 programs one aligned word by rewriting its containing quad. The
// other three words are written back unchanged, so they pass the 0->1
// check trivially; the check still covers them.
func (c *Controller) Write32(addr uint32, v uint32) error {
	if !mathx.Aligned(addr, 4) {
		return errcode.InvalidAddress
	}
	if err := CheckAddress(addr); err != nil {
		return err
	}
	quad := mathx.AlignDown(addr, QuadSize)
	data, err := c.Read128(quad)
	if err != nil {
		return err
	}
	data[(addr&0b1100)>>2] = v
	return c.Write128(quad, data)
}

// ErasePage sets every bit of the page containing addr to 1. addr may be
// anywhere in the page.
func (c *Controller) ErasePage(addr uint32) error {
	if err := CheckAddress(addr); err != nil {
		return err
	}
	if err := c.waitIdle(); err != nil {
		return errcode.Wrap("flc.erase", err)
	}
	if err := c.setAddress(addr); err != nil {
		return err
	}
	err := c.session("flc.erase", func() error {
		c.ctrl().SetField(eraseCode, max78000.FLC_CTRL_ERASE_CODE_ERASEPG)
		return c.commit(ctrlPGE)
	})
	if err != nil {
		return err
	}
	logx.Debug("flc: erased", "addr", mathx.AlignDown(addr, PageSize))
	return nil
}

// Read32 loads one aligned word.
func (c *Controller) Read32(addr uint32) (uint32, error) {
	if !mathx.Aligned(addr, 4) {
		return 0, errcode.InvalidAddress
	}
	if err := CheckAddress(addr); err != nil {
		return 0, err
	}
	return c.flash.Load(addr), nil
}

// Read128 loads the aligned quad at addr.
func (c *Controller) Read128(addr uint32) ([4]uint32, error) {
	var out [4]uint32
	if !mathx.Aligned(addr, QuadSize) {
		return out, errcode.InvalidAddress
	}
	if err := CheckAddress(addr); err != nil {
		return out, err
	}
	for i := range out {
		out[i] = c.flash.Load(addr + uint32(i)*4)
	}
	return out, nil
}

package mmio

import "github.com/usbarmory/tamago/bits"

// Field is a bit-field inside a 32-bit register: Mask is right-aligned and
// shifted left by Pos.
type Field struct {
	Pos  int
	Mask int
}

// Reg is one 32-bit register.
type Reg struct {
	Bus  Bus
	Addr uint32
}

func (r Reg) Get() uint32  { return r.Bus.Load(r.Addr) }
func (r Reg) Set(v uint32) { r.Bus.Store(r.Addr, v) }

// Field reads f.
func (r Reg) Field(f Field) uint32 {
	v := r.Get()
	return bits.Get(&v, f.Pos, f.Mask)
}

// SetField replaces f with val in a read-modify-write.
func (r Reg) SetField(f Field, val uint32) {
	v := r.Get()
	bits.SetN(&v, f.Pos, f.Mask, val)
	r.Set(v)
}

// IsSet reports whether the single bit at pos is 1.
func (r Reg) IsSet(pos int) bool {
	v := r.Get()
	return bits.IsSet(&v, pos)
}

// SetBit sets the bit at pos (read-modify-write).
func (r Reg) SetBit(pos int) {
	v := r.Get()
	bits.Set(&v, pos)
	r.Set(v)
}

// ClearBit clears the bit at pos (read-modify-write).
func (r Reg) ClearBit(pos int) {
	v := r.Get()
	bits.Clear(&v, pos)
	r.Set(v)
}

// SetBits ORs mask into the register.
func (r Reg) SetBits(mask uint32) { r.Set(r.Get() | mask) }

// ClearBits clears mask in the register.
func (r Reg) ClearBits(mask uint32) { r.Set(r.Get() &^ mask) }

// HasBits reports whether every bit of mask is set.
func (r Reg) HasBits(mask uint32) bool { return r.Get()&mask == mask }

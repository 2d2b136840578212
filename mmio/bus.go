// Package mmio is the register access layer shared by every driver in the
// module. Drivers talk to a Bus, never to raw pointers, so the same code runs
// against silicon (Volatile, tinygo builds) and against the simulator
// (Memory) on the host.
package mmio

//go:generate mockgen -destination mock_mmio/mock_bus.go max78000-hal/mmio Bus

// Bus performs aligned 32-bit loads and stores at absolute addresses.
type Bus interface {
	Load(addr uint32) uint32
	Store(addr uint32, v uint32)
}

// Block is a register block: a bus plus the block's base address.
type Block struct {
	Bus  Bus
	Base uint32
}

// Reg returns the register at byte offset off within the block.
func (b Block) Reg(off uint32) Reg { return Reg{Bus: b.Bus, Addr: b.Base + off} }

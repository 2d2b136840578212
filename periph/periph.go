// Package periph hands out MAX78000 register blocks to exactly one owner
// each. It is the runtime stand-in for an ownership-transferring
// peripherals struct: a driver claims its block at construction and a
// second claim fails until the first owner releases it.
package periph

import (
	"sync"

	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/mmio"
)

// ID names a register block.
type ID string

const (
	GCR   ID = "gcr"
	LPGCR ID = "lpgcr"
	FLC   ID = "flc"
	ICC0  ID = "icc0"
	Flash ID = "flash" // the flash array itself, for readers
)

type blockInfo struct {
	base, size uint32
}

var blocks = map[ID]blockInfo{
	GCR:   {max78000.GCR_BASE, max78000.GCR_SIZE},
	LPGCR: {max78000.LPGCR_BASE, max78000.LPGCR_SIZE},
	FLC:   {max78000.FLC_BASE, max78000.FLC_SIZE},
	ICC0:  {max78000.ICC0_BASE, max78000.ICC0_SIZE},
	Flash: {max78000.FLASH_BASE, max78000.FLASH_SIZE},
}

// Block is a claimed register block.
type Block struct {
	ID ID
	mmio.Block
	Size uint32
}

// Registry tracks ownership of the blocks reachable through one bus.
type Registry struct {
	bus mmio.Bus

	mu     sync.Mutex
	owners map[ID]string // block -> owner
}

func New(bus mmio.Bus) *Registry {
	return &Registry{bus: bus, owners: make(map[ID]string)}
}

// Bus returns the bus blocks are claimed on.
func (r *Registry) Bus() mmio.Bus { return r.bus }

// Claim gives owner exclusive use of block id. It fails with
// errcode.UnknownBlock for an unlisted id and errcode.InUse if the block is
// already held, by anyone, including owner itself.
func (r *Registry) Claim(owner string, id ID) (Block, error) {
	info, ok := blocks[id]
	if !ok {
		return Block{}, errcode.UnknownBlock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.owners[id]; taken {
		return Block{}, errcode.InUse
	}
	r.owners[id] = owner
	return Block{ID: id, Block: mmio.Block{Bus: r.bus, Base: info.base}, Size: info.size}, nil
}

// Release returns id to the pool if owner holds it. Releasing a block held
// by someone else is ignored.
func (r *Registry) Release(owner string, id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.owners[id]; ok && o == owner {
		delete(r.owners, id)
	}
}

// Owner reports who holds id, or "" if nobody does.
func (r *Registry) Owner(id ID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owners[id]
}

//go:build !tinygo

package main

import (
	"math/bits"

	"max78000-hal/flc"
)

// counterFlash is the part of *flc.Controller the boot counter needs.
type counterFlash interface {
	ErasePage(addr uint32) error
	Read32(addr uint32) (uint32, error)
	Write32(addr uint32, v uint32) error
}

// bumpBootCounter records one more boot and returns the new count. Each
// boot clears one bit of the counter page, so the page is only erased once
// every PageSize*8 boots.
func bumpBootCounter(f counterFlash) (int, error) {
	base, err := flc.PageAddress(counterPage)
	if err != nil {
		return 0, err
	}
	count := 0
	for a := base; a < base+flc.PageSize; a += 4 {
		v, err := f.Read32(a)
		if err != nil {
			return 0, err
		}
		if v == 0 {
			count += 32
			continue
		}
		count += 32 - bits.OnesCount32(v)
		// Clear the lowest set bit: only a 1 -> 0 transition.
		if err := f.Write32(a, v&(v-1)); err != nil {
			return 0, err
		}
		return count + 1, nil
	}
	// Page exhausted: start over.
	if err := f.ErasePage(base); err != nil {
		return 0, err
	}
	if err := f.Write32(base, 0xFFFFFFFE); err != nil {
		return 0, err
	}
	return 1, nil
}

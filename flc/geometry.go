package flc

import (
	"max78000-hal/device/max78000"
	"max78000-hal/errcode"
	"max78000-hal/x/mathx"
)

// Flash geometry.
const (
	Base      = max78000.FLASH_BASE
	Size      = max78000.FLASH_SIZE
	PageSize  = max78000.FLASH_PAGE
	PageCount = Size / PageSize
	End       = Base + Size

	pageShift = 13 // log2(PageSize)

	// QuadSize is the write granularity: four 32-bit words.
	QuadSize = 16
)

// CheckAddress fails with errcode.InvalidAddress unless Base <= addr < End.
func CheckAddress(addr uint32) error {
	if !mathx.InRange(addr, Base, End) {
		return errcode.InvalidAddress
	}
	return nil
}

// CheckPageNumber fails with errcode.InvalidPage unless page < PageCount.
func CheckPageNumber(page uint32) error {
	if page >= PageCount {
		return errcode.InvalidPage
	}
	return nil
}

// PageAddress returns the first address of page.
func PageAddress(page uint32) (uint32, error) {
	if err := CheckPageNumber(page); err != nil {
		return 0, err
	}
	return Base + PageSize*page, nil
}

// PageNumber returns the page containing addr.
func PageNumber(addr uint32) (uint32, error) {
	if err := CheckAddress(addr); err != nil {
		return 0, err
	}
	page := (addr >> pageShift) & (PageCount - 1)
	if page >= PageCount {
		return 0, errcode.InvalidAddress
	}
	return page, nil
}

// physical converts a bus address to the controller's flash offset.
func physical(addr uint32) uint32 { return addr & (Size - 1) }

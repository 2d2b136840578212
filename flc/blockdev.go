package flc

import (
	"encoding/binary"

	"max78000-hal/errcode"
	"max78000-hal/x/mathx"
)

// BlockDevice exposes a run of whole pages with the byte-offset interface
// TinyGo filesystems expect (machine.BlockDevice). Offsets are relative to
// the first page of the run.
//
// WriteAt does not erase. Writing bytes that need a 0->1 transition fails
// with errcode.NeedsErase; call EraseBlocks first.
type BlockDevice struct {
	c    *Controller
	base uint32
	size uint32
}

// NewBlockDevice covers pages [first, first+count).
func NewBlockDevice(c *Controller, first, count uint32) (*BlockDevice, error) {
	if count == 0 {
		return nil, errcode.InvalidPage
	}
	if err := CheckPageNumber(first); err != nil {
		return nil, err
	}
	if err := CheckPageNumber(first + count - 1); err != nil {
		return nil, err
	}
	base, _ := PageAddress(first)
	return &BlockDevice{c: c, base: base, size: count * PageSize}, nil
}

func (d *BlockDevice) Size() int64           { return int64(d.size) }
func (d *BlockDevice) WriteBlockSize() int64 { return QuadSize }
func (d *BlockDevice) EraseBlockSize() int64 { return int64(PageSize) }

// span validates [off, off+n) and returns it as absolute addresses.
func (d *BlockDevice) span(off int64, n int) (uint32, uint32, error) {
	if off < 0 || n < 0 || off+int64(n) > int64(d.size) {
		return 0, 0, errcode.InvalidAddress
	}
	start := d.base + uint32(off)
	return start, start + uint32(n), nil
}

// ReadAt reads len(p) bytes at off.
func (d *BlockDevice) ReadAt(p []byte, off int64) (int, error) {
	start, end, err := d.span(off, len(p))
	if err != nil {
		return 0, err
	}
	var word [4]byte
	n := 0
	for a := mathx.AlignDown(start, 4); a < end; a += 4 {
		v, err := d.c.Read32(a)
		if err != nil {
			return n, err
		}
		binary.LittleEndian.PutUint32(word[:], v)
		lo := mathx.Max(a, start) - a
		hi := mathx.Min(a+4, end) - a
		n += copy(p[n:], word[lo:hi])
	}
	return n, nil
}

// WriteAt programs len(p) bytes at off, rewriting each touched quad. Bytes
// of a quad outside p are written back as they are.
func (d *BlockDevice) WriteAt(p []byte, off int64) (int, error) {
	start, end, err := d.span(off, len(p))
	if err != nil {
		return 0, err
	}
	var buf [QuadSize]byte
	n := 0
	for q := mathx.AlignDown(start, QuadSize); q < end; q += QuadSize {
		cur, err := d.c.Read128(q)
		if err != nil {
			return n, err
		}
		for i, w := range cur {
			binary.LittleEndian.PutUint32(buf[i*4:], w)
		}
		lo := mathx.Max(q, start) - q
		hi := mathx.Min(q+QuadSize, end) - q
		copied := copy(buf[lo:hi], p[n:])

		var next [4]uint32
		for i := range next {
			next[i] = binary.LittleEndian.Uint32(buf[i*4:])
		}
		if next != cur {
			if err := d.c.Write128(q, next); err != nil {
				return n, err
			}
		}
		n += copied
	}
	return n, nil
}

// EraseBlocks erases count pages starting at block start of the device.
func (d *BlockDevice) EraseBlocks(start, count int64) error {
	if start < 0 || count < 0 || (start+count)*int64(PageSize) > int64(d.size) {
		return errcode.InvalidPage
	}
	for b := start; b < start+count; b++ {
		if err := d.c.ErasePage(d.base + uint32(b)*PageSize); err != nil {
			return err
		}
	}
	return nil
}

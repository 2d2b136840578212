// Package programmer writes a binary image into on-chip flash: it erases
// the pages the image covers, writes it in 128-bit quads, optionally reads
// it back and finally invalidates the instruction cache.
package programmer

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"max78000-hal/errcode"
	"max78000-hal/flc"
	"max78000-hal/x/logx"
	"max78000-hal/x/mathx"
)

// Flash is the part of *flc.Controller the programmer drives.
type Flash interface {
	ErasePage(addr uint32) error
	Write128(addr uint32, data [4]uint32) error
	Read128(addr uint32) ([4]uint32, error)
}

// Invalidator is satisfied by *icc.Cache.
type Invalidator interface {
	Invalidate() error
}

// erased is the value of a quad after a page erase.
var erased = [4]uint32{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}

// Program writes image to flash starting at addr, which must be page
// aligned. Every page the image touches is erased first, so bytes past the
// end of the image in its last page read back as 0xFF.
//
// ctx is checked between pages; a cancelled program leaves the current page
// complete and the rest untouched.
func Program(ctx context.Context, f Flash, addr uint32, image []byte, opts ...Option) error {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if len(image) == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "program", Msg: "empty image"}
	}
	if !mathx.Aligned(addr, flc.PageSize) {
		return &errcode.E{C: errcode.InvalidAddress, Op: "program", Msg: "not page aligned"}
	}
	if err := flc.CheckAddress(addr); err != nil {
		return errcode.Wrap("program", err)
	}
	if mathx.AlignUp(uint64(addr)+uint64(len(image)), flc.QuadSize) > uint64(flc.End) {
		return &errcode.E{C: errcode.InvalidAddress, Op: "program", Msg: "image past end of flash"}
	}

	start := time.Now()
	pages := int(mathx.CeilDiv(uint32(len(image)), flc.PageSize))
	report := func(phase string, page, written int) {
		if cfg.ProgressCallback == nil {
			return
		}
		cfg.ProgressCallback(Progress{
			Phase:        phase,
			Page:         page,
			TotalPages:   pages,
			Percentage:   100 * float64(page) / float64(pages),
			BytesWritten: written,
			ElapsedTime:  time.Since(start),
		})
	}

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
		if err := f.ErasePage(addr + uint32(i)*flc.PageSize); err != nil {
			return fmt.Errorf("erase page %d: %w", i, err)
		}
		report(PhaseErasing, i+1, 0)
	}

	written := 0
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}
		base := addr + uint32(i)*flc.PageSize
		chunk := pageOf(image, i)
		if err := writePage(f, base, chunk); err != nil {
			return fmt.Errorf("write page %d: %w", i, err)
		}
		written += len(chunk)
		report(PhaseWriting, i+1, written)
	}

	if cfg.Verify {
		for i := 0; i < pages; i++ {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("cancelled: %w", err)
			}
			base := addr + uint32(i)*flc.PageSize
			if err := verifyPage(f, base, pageOf(image, i)); err != nil {
				return fmt.Errorf("verify page %d: %w", i, err)
			}
			report(PhaseVerifying, i+1, written)
		}
	}

	if cfg.Cache != nil {
		if err := cfg.Cache.Invalidate(); err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}
	}
	report(PhaseComplete, pages, written)
	logx.Info("program: done", "addr", addr, "bytes", len(image), "pages", pages)
	return nil
}

func pageOf(image []byte, i int) []byte {
	lo := i * int(flc.PageSize)
	hi := lo + int(flc.PageSize)
	if hi > len(image) {
		hi = len(image)
	}
	return image[lo:hi]
}

// quad packs up to 16 bytes little-endian, padding with 0xFF.
func quad(b []byte) [4]uint32 {
	var buf [flc.QuadSize]byte
	for i := range buf {
		buf[i] = 0xFF
	}
	copy(buf[:], b)
	var q [4]uint32
	for i := range q {
		q[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return q
}

func writePage(f Flash, base uint32, chunk []byte) error {
	for off := 0; off < len(chunk); off += flc.QuadSize {
		q := quad(chunk[off:min(off+flc.QuadSize, len(chunk))])
		// The page was just erased.
		if q == erased {
			continue
		}
		if err := f.Write128(base+uint32(off), q); err != nil {
			return err
		}
	}
	return nil
}

func verifyPage(f Flash, base uint32, chunk []byte) error {
	for off := 0; off < len(chunk); off += flc.QuadSize {
		want := quad(chunk[off:min(off+flc.QuadSize, len(chunk))])
		got, err := f.Read128(base + uint32(off))
		if err != nil {
			return err
		}
		if got != want {
			logx.Debug("program: verify mismatch", "addr", base+uint32(off))
			return &VerifyError{Addr: base + uint32(off), Want: want, Got: got}
		}
	}
	return nil
}

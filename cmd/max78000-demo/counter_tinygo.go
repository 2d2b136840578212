//go:build tinygo

package main

import "max78000-hal/errcode"

type counterFlash interface{}

// bumpBootCounter is not available on the part itself: the flash commit
// sequence would run from the same bank it is modifying, and the
// instruction fetches stall or fault while a write or erase is in flight.
func bumpBootCounter(counterFlash) (int, error) {
	return 0, &errcode.E{C: errcode.Unsupported, Op: "demo.counter", Msg: "flash commit runs from flash"}
}

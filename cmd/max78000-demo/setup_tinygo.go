//go:build tinygo

package main

import (
	"time"

	"max78000-hal/mmio"
	"max78000-hal/x/logx"
)

func setup() mmio.Bus {
	time.Sleep(500 * time.Millisecond) // let the console attach
	logx.Verbose = true
	return mmio.Volatile{}
}

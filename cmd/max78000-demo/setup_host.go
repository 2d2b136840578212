//go:build !tinygo

package main

import (
	"flag"

	"max78000-hal/internal/hwsim"
	"max78000-hal/mmio"
)

func setup() mmio.Bus {
	flag.Parse()
	return hwsim.New().Bus()
}

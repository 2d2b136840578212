// The max78000-demo firmware brings the chip up with the selected board
// plan. Host builds run against the simulator and keep a boot counter in
// the last flash page; on the part the counter is disabled because the
// flash commit sequence cannot run from the bank it modifies.
//
//	tinygo flash -target=maxim78000 -tags=max78000_fthr ./cmd/max78000-demo
package main

import (
	"errors"
	"time"

	"max78000-hal/board"
	"max78000-hal/errcode"
	"max78000-hal/flc"
	"max78000-hal/internal/setups"
	"max78000-hal/periph"
	"max78000-hal/x/logx"
)

const counterPage = flc.PageCount - 1

func main() {
	bus := setup()

	b, err := board.Bringup(periph.New(bus), setups.Selected)
	if err != nil {
		logx.Error("demo: bring-up failed", "err", err)
		halt()
	}

	boots, err := bumpBootCounter(b.Flash)
	switch {
	case errors.Is(err, errcode.Unsupported):
		logx.Info("demo: boot counter disabled", "err", err)
	case err != nil:
		logx.Error("demo: boot counter", "err", err)
	default:
		logx.Info("demo: booted", "count", boots)
	}

	for i := 0; ; i++ {
		time.Sleep(5 * time.Second)
		logx.Info("demo: alive", "tick", i, "sysclk", int(b.Clocks.Sys.Frequency()))
	}
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}

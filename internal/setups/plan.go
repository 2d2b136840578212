// Package setups holds the per-board bring-up plans. The board is chosen at
// build time with a tag; untagged builds get the reset-default plan.
package setups

import (
	"max78000-hal/errcode"
	"max78000-hal/flc"
	"max78000-hal/gcr"
)

// Plan specifies the clock tree and flash state a board starts with.
type Plan struct {
	Name  string
	Clock ClockPlan
	Flash FlashPlan
	Cache bool // enable the instruction cache after the clock switch
}

type ClockPlan struct {
	Source  gcr.Osc
	Divider gcr.Divider
}

// FlashPlan lists page numbers to protect during bring-up. Protection
// stays until the next system reset.
type FlashPlan struct {
	WriteProtect []uint32
	ReadProtect  []uint32
}

// Validate rejects plans bring-up would fail on halfway.
func (p Plan) Validate() error {
	switch p.Clock.Source {
	case gcr.OscIPO, gcr.OscISO, gcr.OscIBRO:
	case gcr.OscERTCO:
		return &errcode.E{C: errcode.Unsupported, Op: "setups.validate", Msg: "ertco as sysclk"}
	default:
		return &errcode.E{C: errcode.InvalidParams, Op: "setups.validate", Msg: "clock source"}
	}
	if !p.Clock.Divider.Valid() {
		return &errcode.E{C: errcode.InvalidParams, Op: "setups.validate", Msg: "divider"}
	}
	for _, pages := range [][]uint32{p.Flash.WriteProtect, p.Flash.ReadProtect} {
		for _, pg := range pages {
			if err := flc.CheckPageNumber(pg); err != nil {
				return errcode.Wrap("setups.validate", err)
			}
		}
	}
	return nil
}

// SysclkHz is the system clock frequency the plan produces.
func (p Plan) SysclkHz() uint32 {
	return p.Clock.Source.BaseFrequency() / p.Clock.Divider.Divisor()
}

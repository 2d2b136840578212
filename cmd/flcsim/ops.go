package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"max78000-hal/board"
	"max78000-hal/errcode"
	"max78000-hal/flc"
	"max78000-hal/gcr"
	"max78000-hal/internal/hwsim"
	"max78000-hal/internal/programmer"
	"max78000-hal/internal/setups"
	"max78000-hal/mmio"
	"max78000-hal/periph"
	"max78000-hal/x/logx"
)

type session struct {
	sim    *hwsim.Sim
	b      *board.Board
	verify bool
}

// planFor returns the selected board plan, with the SYSCLK prescaler
// replaced when div is non-zero.
func planFor(div uint32) (setups.Plan, error) {
	plan := setups.Selected
	if div == 0 {
		return plan, nil
	}
	d, err := gcr.DividerFor(div)
	if err != nil {
		return plan, &errcode.E{C: errcode.InvalidParams, Op: "flcsim", Msg: "sysclk divisor must be a power of two up to 128", Err: err}
	}
	plan.Clock.Divider = d
	return plan, nil
}

func newSession(plan setups.Plan, p mmio.Poller) (*session, error) {
	sim := hwsim.New()
	b, err := board.Bringup(periph.New(sim.Bus()), plan, board.WithPoller(p))
	if err != nil {
		return nil, err
	}
	return &session{sim: sim, b: b, verify: true}, nil
}

func (s *session) close() { s.b.Close() }

type op struct {
	nargs int
	usage string
	fn    func(s *session, w io.Writer, args []string) error
}

var ops = map[string]op{
	"erase":   {1, "erase <addr>", (*session).erase},
	"write32": {2, "write32 <addr> <value>", (*session).write32},
	"read32":  {1, "read32 <addr>", (*session).read32},
	"program": {2, "program <addr> <file>", (*session).program},
	"protect": {2, "protect <addr> w|r", (*session).protect},
	"dump":    {2, "dump <addr> <words>", (*session).dump},
	"status":  {0, "status", (*session).status},
}

// run executes the operations in args in order, stopping at the first
// failure.
func (s *session) run(args []string, w io.Writer) error {
	if len(args) == 0 {
		return usageError("no operation")
	}
	for len(args) > 0 {
		name := args[0]
		o, ok := ops[name]
		if !ok {
			return usageError("unknown operation " + strconv.Quote(name))
		}
		if len(args)-1 < o.nargs {
			return usageError("usage: " + o.usage)
		}
		if err := o.fn(s, w, args[1:1+o.nargs]); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		args = args[1+o.nargs:]
	}
	return nil
}

func usageError(msg string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "flcsim", Msg: msg}
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Msg: strconv.Quote(s), Err: err}
	}
	return uint32(v), nil
}

func (s *session) erase(w io.Writer, args []string) error {
	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	if err := s.b.Flash.ErasePage(addr); err != nil {
		return err
	}
	page, _ := flc.PageNumber(addr)
	fmt.Fprintf(w, "erased page %d\n", page)
	return nil
}

func (s *session) write32(w io.Writer, args []string) error {
	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	v, err := parseU32(args[1])
	if err != nil {
		return err
	}
	return s.b.Flash.Write32(addr, v)
}

func (s *session) read32(w io.Writer, args []string) error {
	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	v, err := s.b.Flash.Read32(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "0x%08X: %08X\n", addr, v)
	return nil
}

func (s *session) program(w io.Writer, args []string) error {
	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	img, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	err = programmer.Program(context.Background(), s.b.Flash, addr, img,
		programmer.WithVerify(s.verify),
		programmer.WithCache(s.b.Cache),
		programmer.WithProgress(func(p programmer.Progress) {
			logx.Debug("flcsim: progress", "phase", p.Phase, "page", p.Page, "of", p.TotalPages)
		}),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "programmed %d bytes at 0x%08X\n", len(img), addr)
	return nil
}

func (s *session) protect(w io.Writer, args []string) error {
	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	switch args[1] {
	case "w":
		err = s.b.Flash.DisablePageWrite(addr)
	case "r":
		err = s.b.Flash.DisablePageRead(addr)
	default:
		return usageError("protect mode must be w or r")
	}
	if err != nil {
		return err
	}
	page, _ := flc.PageNumber(addr)
	fmt.Fprintf(w, "page %d %s-protected\n", page, args[1])
	return nil
}

func (s *session) dump(w io.Writer, args []string) error {
	addr, err := parseU32(args[0])
	if err != nil {
		return err
	}
	n, err := parseU32(args[1])
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		a := addr + 4*i
		v, err := s.b.Flash.Read32(a)
		if err != nil {
			return err
		}
		switch {
		case i%4 == 0:
			fmt.Fprintf(w, "0x%08X: %08X", a, v)
		default:
			fmt.Fprintf(w, " %08X", v)
		}
		if i%4 == 3 || i == n-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (s *session) status(w io.Writer, _ []string) error {
	fmt.Fprintf(w, "plan %s: sysclk %d Hz, flc divider %d, cache %v\n",
		s.b.Plan.Name, s.b.Clocks.Sys.Frequency(), s.b.Flash.Divider(), s.b.Cache.Enabled())
	fmt.Fprintf(w, "writes %d, erases %d\n", s.sim.Writes(), s.sim.Erases())
	for page := uint32(0); page < flc.PageCount; page++ {
		wok, err := s.b.Flash.PageWritable(page)
		if err != nil {
			return err
		}
		rok, err := s.b.Flash.PageReadable(page)
		if err != nil {
			return err
		}
		if !wok || !rok {
			fmt.Fprintf(w, "page %d: writable %v, readable %v\n", page, wok, rok)
		}
	}
	return nil
}

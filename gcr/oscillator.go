package gcr

import (
	"max78000-hal/errcode"
	"max78000-hal/x/logx"
)

// Oscillator is a disabled handle to oscillator S.
type Oscillator[S Source] struct {
	issued  bool
	enabled bool
}

// NewOscillator consumes g and returns the disabled handle. No hardware is
// touched.
func NewOscillator[S Source](g *Guard[S]) (*Oscillator[S], error) {
	if err := g.take(); err != nil {
		return nil, errcode.Wrap("gcr.oscillator", err)
	}
	return &Oscillator[S]{issued: true}, nil
}

func (o *Oscillator[S]) Source() Osc { return oscOf[S]() }

// Enable runs the source's enable sequence and blocks until its ready bit
// is set. IBRO is always running so only its ready bit is polled. ERTCO
// needs the RTC block brought up first, which this package does not do, so
// it fails with errcode.Unsupported without touching any register.
//
// A handle can be enabled once; a second call fails with
// errcode.InvalidState.
func (o *Oscillator[S]) Enable(regs *Registers) (*EnabledOscillator[S], error) {
	if o == nil || !o.issued || regs == nil {
		return nil, errcode.InvalidState
	}
	if o.enabled {
		return nil, &errcode.E{C: errcode.InvalidState, Op: "gcr.enable", Msg: "already enabled"}
	}
	src := oscOf[S]()
	if src == OscERTCO {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "gcr.enable", Msg: "ertco needs rtc"}
	}
	ctrl := regs.clkctrl()
	if bit := src.enableBit(); bit >= 0 {
		ctrl.SetBit(bit)
	}
	if err := ctrl.WaitSet(regs.poll, 1<<src.readyBit()); err != nil {
		return nil, errcode.Wrap("gcr.enable", err)
	}
	o.enabled = true
	logx.Debug("gcr: oscillator ready", "src", src.String())
	return &EnabledOscillator[S]{running: true}, nil
}

// EnabledOscillator is a running oscillator S. Only Enable produces a
// valid one.
type EnabledOscillator[S Source] struct {
	running bool
}

func (e *EnabledOscillator[S]) Source() Osc { return oscOf[S]() }

// Clock returns the oscillator's output as a clock value, or a zero clock
// for a handle Enable did not produce.
func (e *EnabledOscillator[S]) Clock() Clock[S] {
	if !e.valid() {
		return Clock[S]{}
	}
	return Clock[S]{hz: oscOf[S]().BaseFrequency()}
}

func (e *EnabledOscillator[S]) valid() bool { return e != nil && e.running }

// Enabled is satisfied only by *EnabledOscillator values.
type Enabled interface {
	Source() Osc
	valid() bool
}

package gcr

import "max78000-hal/errcode"

// Guard is the single-use capability to construct the oscillator handle
// for source S. Guards only come from (*GCR).Guards; a Guard built any
// other way is refused.
type Guard[S Source] struct {
	issued bool
	used   bool
}

func (g *Guard[S]) take() error {
	if g == nil || !g.issued {
		return errcode.InvalidState
	}
	if g.used {
		return errcode.InUse
	}
	g.used = true
	return nil
}

// Used reports whether the guard has been consumed.
func (g *Guard[S]) Used() bool { return g != nil && g.used }

// OscillatorGuards holds one guard per oscillator source.
type OscillatorGuards struct {
	IPO   *Guard[IPO]
	ISO   *Guard[ISO]
	IBRO  *Guard[IBRO]
	ERTCO *Guard[ERTCO]
}

func newGuards() *OscillatorGuards {
	return &OscillatorGuards{
		IPO:   &Guard[IPO]{issued: true},
		ISO:   &Guard[ISO]{issued: true},
		IBRO:  &Guard[IBRO]{issued: true},
		ERTCO: &Guard[ERTCO]{issued: true},
	}
}

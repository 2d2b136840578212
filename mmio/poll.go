package mmio

import (
	"github.com/cenkalti/backoff/v4"

	"max78000-hal/errcode"
)

// Poller waits for a hardware condition. Drivers never spin on their own;
// every busy-wait goes through the Poller they were built with.
type Poller interface {
	Until(cond func() bool) error
}

// Spin polls forever. A condition that never becomes true hangs the caller,
// which is the hardware contract on target. Until never returns an error.
type Spin struct{}

func (Spin) Until(cond func() bool) error {
	for !cond() {
	}
	return nil
}

// Bounded gives up after a fixed number of polls, or when BackOff says
// stop, and reports errcode.Timeout. It is meant for tests and for host
// tooling driving a simulator.
type Bounded struct {
	// MaxPolls bounds the number of condition checks. Ignored when BackOff
	// is set.
	MaxPolls uint64
	// BackOff, when non-nil, paces and bounds the polling.
	BackOff backoff.BackOff
}

// Polls returns a Bounded poller that checks cond at most n times.
func Polls(n uint64) Bounded { return Bounded{MaxPolls: n} }

func (b Bounded) Until(cond func() bool) error {
	bo := b.BackOff
	if bo == nil {
		n := b.MaxPolls
		if n > 0 {
			n--
		}
		bo = backoff.WithMaxRetries(&backoff.ZeroBackOff{}, n)
	}
	err := backoff.Retry(func() error {
		if cond() {
			return nil
		}
		return errcode.Timeout
	}, bo)
	if err != nil {
		return errcode.Timeout
	}
	return nil
}

// WaitSet polls until every bit of mask reads 1.
func (r Reg) WaitSet(p Poller, mask uint32) error {
	return p.Until(func() bool { return r.HasBits(mask) })
}

// WaitClear polls until every bit of mask reads 0.
func (r Reg) WaitClear(p Poller, mask uint32) error {
	return p.Until(func() bool { return r.Get()&mask == 0 })
}

// WaitField polls until field f reads val.
func (r Reg) WaitField(p Poller, f Field, val uint32) error {
	return p.Until(func() bool { return r.Field(f) == val })
}

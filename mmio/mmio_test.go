package mmio_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"max78000-hal/errcode"
	"max78000-hal/mmio"
	"max78000-hal/mmio/mock_mmio"
)

func TestRegFields(t *testing.T) {
	m := mmio.NewMemory()
	r := mmio.Block{Bus: m, Base: 0x4000_0000}.Reg(0x08)
	r.Set(0x0000_0008)

	sel := mmio.Field{Pos: 9, Mask: 0x7}
	r.SetField(sel, 4)
	if got := r.Get(); got != 0x0000_0808 {
		t.Fatalf("SetField: reg = %#x, want 0x808", got)
	}
	if got := r.Field(sel); got != 4 {
		t.Fatalf("Field = %d, want 4", got)
	}
	r.SetBit(19)
	if !r.IsSet(19) || !r.HasBits(1<<19|1<<3) {
		t.Fatalf("SetBit(19): reg = %#x", r.Get())
	}
	r.ClearBit(3)
	r.ClearBits(1 << 19)
	if got := r.Get(); got != 0x0000_0800 {
		t.Fatalf("clears: reg = %#x, want 0x800", got)
	}
}

func TestRegStoresThroughBus(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := mock_mmio.NewMockBus(ctrl)
	gomock.InOrder(
		bus.EXPECT().Load(uint32(0x4002_9008)).Return(uint32(0x3000_0000)),
		bus.EXPECT().Store(uint32(0x4002_9008), uint32(0x2000_0000)),
	)
	r := mmio.Reg{Bus: bus, Addr: 0x4002_9008}
	r.SetField(mmio.Field{Pos: 28, Mask: 0xF}, 0x2)
}

func TestSpinReturnsWhenReady(t *testing.T) {
	n := 0
	if err := (mmio.Spin{}).Until(func() bool { n++; return n == 5 }); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if n != 5 {
		t.Fatalf("Spin polled %d times, want 5", n)
	}
}

func TestBoundedPolls(t *testing.T) {
	for _, tc := range []struct {
		name     string
		max      uint64
		readyAt  int
		wantErr  error
		wantCall int
	}{
		{"ready first", 3, 1, nil, 1},
		{"ready last", 3, 3, nil, 3},
		{"never ready", 3, 0, errcode.Timeout, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := mmio.Polls(tc.max).Until(func() bool { calls++; return calls == tc.readyAt })
			if !errors.Is(err, tc.wantErr) || (err == nil) != (tc.wantErr == nil) {
				t.Fatalf("Until = %v, want %v", err, tc.wantErr)
			}
			if calls != tc.wantCall {
				t.Fatalf("polled %d times, want %d", calls, tc.wantCall)
			}
		})
	}
}

func TestBoundedWithBackOff(t *testing.T) {
	p := mmio.Bounded{BackOff: backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Microsecond), 1)}
	calls := 0
	if err := p.Until(func() bool { calls++; return false }); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("Until = %v, want timeout", err)
	}
	if calls != 2 {
		t.Fatalf("polled %d times, want 2", calls)
	}
}

func TestMemoryRegionsAndTrace(t *testing.T) {
	m := mmio.NewMemory()
	var stored []uint32
	m.Map(&mmio.Region{
		Base: 0x4000_0000, Size: 0x100,
		OnLoad:  func(addr uint32) uint32 { return m.Peek(addr) | 1 },
		OnStore: func(addr, v uint32) { stored = append(stored, v); m.Poke(addr, v) },
	})
	m.Trace()
	m.Store(0x4000_0010, 0x10)
	m.Store(0x2000_0000, 0x20)
	got := m.Load(0x4000_0010)
	trace := m.Accesses()

	if got != 0x11 {
		t.Fatalf("hooked load = %#x, want 0x11", got)
	}
	if diff := cmp.Diff([]uint32{0x10}, stored); diff != "" {
		t.Fatalf("hook stores (-want +got):\n%s", diff)
	}
	want := []mmio.Access{
		{Store: true, Addr: 0x4000_0010, Val: 0x10},
		{Store: true, Addr: 0x2000_0000, Val: 0x20},
		{Addr: 0x4000_0010, Val: 0x11},
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Fatalf("trace (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want[1:2], mmio.Stores(trace, 0x2000_0000, 4)); diff != "" {
		t.Fatalf("Stores filter (-want +got):\n%s", diff)
	}
}

func TestWaitHelpers(t *testing.T) {
	m := mmio.NewMemory()
	r := mmio.Reg{Bus: m, Addr: 0x100}
	r.Set(1 << 13)
	if err := r.WaitSet(mmio.Polls(1), 1<<13); err != nil {
		t.Fatalf("WaitSet: %v", err)
	}
	if err := r.WaitClear(mmio.Polls(2), 1<<13); !errors.Is(err, errcode.Timeout) {
		t.Fatalf("WaitClear = %v, want timeout", err)
	}
	if err := r.WaitField(mmio.Polls(1), mmio.Field{Pos: 12, Mask: 3}, 2); err != nil {
		t.Fatalf("WaitField: %v", err)
	}
}

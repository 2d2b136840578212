package mmio

import "sort"

// Region is an address window with optional load/store hooks. A nil hook
// falls through to plain backing storage.
type Region struct {
	Base, Size uint32
	OnLoad     func(addr uint32) uint32
	OnStore    func(addr uint32, v uint32)
}

func (r *Region) contains(addr uint32) bool {
	return addr >= r.Base && addr-r.Base < r.Size
}

// Access is one recorded bus transaction.
type Access struct {
	Store bool
	Addr  uint32
	Val   uint32
}

// Memory is a sparse word-addressed Bus for host builds. Unmapped words
// read as their last stored value (zero if never written). Hooks of
// mapped regions use Peek/Poke to reach the backing words without
// re-entering themselves.
//
// Memory is not safe for concurrent use.
type Memory struct {
	words   map[uint32]uint32
	regions []*Region
	trace   []Access
	tracing bool
}

func NewMemory() *Memory {
	return &Memory{words: make(map[uint32]uint32)}
}

// Map registers r. Overlapping regions resolve to the lowest base.
func (m *Memory) Map(r *Region) {
	m.regions = append(m.regions, r)
	sort.Slice(m.regions, func(i, j int) bool { return m.regions[i].Base < m.regions[j].Base })
}

func (m *Memory) region(addr uint32) *Region {
	for _, r := range m.regions {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

func (m *Memory) Load(addr uint32) uint32 {
	var v uint32
	if r := m.region(addr); r != nil && r.OnLoad != nil {
		v = r.OnLoad(addr)
	} else {
		v = m.words[addr&^3]
	}
	if m.tracing {
		m.trace = append(m.trace, Access{Addr: addr, Val: v})
	}
	return v
}

func (m *Memory) Store(addr uint32, v uint32) {
	if m.tracing {
		m.trace = append(m.trace, Access{Store: true, Addr: addr, Val: v})
	}
	if r := m.region(addr); r != nil && r.OnStore != nil {
		r.OnStore(addr, v)
		return
	}
	m.words[addr&^3] = v
}

// Peek reads the backing word at addr, bypassing hooks and tracing.
func (m *Memory) Peek(addr uint32) uint32 { return m.words[addr&^3] }

// Poke writes the backing word at addr, bypassing hooks and tracing.
func (m *Memory) Poke(addr uint32, v uint32) { m.words[addr&^3] = v }

// Trace starts recording accesses, discarding any previous record.
func (m *Memory) Trace() {
	m.tracing = true
	m.trace = m.trace[:0]
}

// Accesses stops recording and returns what was recorded.
func (m *Memory) Accesses() []Access {
	m.tracing = false
	out := m.trace
	m.trace = nil
	return out
}

// Stores filters a trace down to the stores that hit [base, base+size).
func Stores(trace []Access, base, size uint32) []Access {
	var out []Access
	for _, a := range trace {
		if a.Store && a.Addr >= base && a.Addr-base < size {
			out = append(out, a)
		}
	}
	return out
}

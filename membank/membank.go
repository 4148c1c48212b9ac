// Package membank implements the memory bank abstraction shared by the CPU
// and PPU buses: a uniform {has-address, read, write, size, raw data} view
// over RAM blocks, register-forwarding windows, mapper adapters, and a void
// sink for unmapped space.
//
// Grounded on original_source/core/include/nesdev/core/memory_bank.h and its
// four concrete implementations in core/src/detail/memory_banks/
// (chip.h, forward.h, connector.h, void.h). The C++ source uses address-range
// template parameters (Chip<From, To>); Go has no non-type generic
// specialization of that shape, so the range is a constructor argument
// instead and validated at construction.
package membank

import "github.com/wbarlow/nescore/neserr"

// Bank is a memory bank: a byte-addressable window that knows which
// addresses it claims.
type Bank interface {
	// HasValidAddress reports whether addr falls within this bank's claimed range.
	HasValidAddress(addr uint16) bool
	// Read returns the byte at addr. Callers must check HasValidAddress first;
	// implementations return neserr.ErrInvalidAddress otherwise.
	Read(addr uint16) (uint8, error)
	// Write stores byte at addr.
	Write(addr uint16, b uint8) error
	// Size returns the bank's addressable size in bytes.
	Size() int
	// Data exposes the bank's raw backing buffer, for banks that have one.
	// Synthetic banks (Forward, Connector, Void) return neserr.ErrNotImplemented.
	Data() ([]uint8, error)
}

// Chip is a bank that owns a contiguous buffer covering [From, To]. Reads and
// writes index by (addr-From) mod size, which is how hardware mirroring
// (e.g. 2KB CPU RAM mirrored across an 8KB window) is expressed: a Chip whose
// size is smaller than its address range repeats.
type Chip struct {
	from, to uint16
	data     []uint8
}

// NewChip allocates a Chip covering [from, to] backed by a buffer of size
// bytes. (to - from + 1) must be a multiple of size.
func NewChip(from, to uint16, size int) *Chip {
	span := int(to-from) + 1
	if span%size != 0 {
		panic("membank: size does not evenly divide address range")
	}
	return &Chip{from: from, to: to, data: make([]uint8, size)}
}

func (c *Chip) HasValidAddress(addr uint16) bool {
	return addr >= c.from && addr <= c.to
}

func (c *Chip) index(addr uint16) int {
	return int(addr-c.from) % len(c.data)
}

func (c *Chip) Read(addr uint16) (uint8, error) {
	if !c.HasValidAddress(addr) {
		return 0, neserr.Address("membank.Chip.Read", addr)
	}
	return c.data[c.index(addr)], nil
}

func (c *Chip) Write(addr uint16, b uint8) error {
	if !c.HasValidAddress(addr) {
		return neserr.Address("membank.Chip.Write", addr)
	}
	c.data[c.index(addr)] = b
	return nil
}

func (c *Chip) Size() int { return len(c.data) }

func (c *Chip) Data() ([]uint8, error) { return c.data, nil }

// Reader and Writer are the closures a Forward or Connector bank delegates to.
type Reader func(addr uint16) uint8
type Writer func(addr uint16, b uint8)

// Forward delegates reads and writes to caller-supplied closures over a
// range, e.g. the PPU register window at $2000-$3FFF forwarding to the PPU
// using addr mod 8.
type Forward struct {
	from, to uint16
	read     Reader
	write    Writer
}

// NewForward builds a Forward bank covering [from, to].
func NewForward(from, to uint16, read Reader, write Writer) *Forward {
	return &Forward{from: from, to: to, read: read, write: write}
}

func (f *Forward) HasValidAddress(addr uint16) bool {
	return addr >= f.from && addr <= f.to
}

func (f *Forward) Read(addr uint16) (uint8, error) {
	if !f.HasValidAddress(addr) {
		return 0, neserr.Address("membank.Forward.Read", addr)
	}
	return f.read(addr), nil
}

func (f *Forward) Write(addr uint16, b uint8) error {
	if !f.HasValidAddress(addr) {
		return neserr.Address("membank.Forward.Write", addr)
	}
	f.write(addr, b)
	return nil
}

func (f *Forward) Size() int { return int(f.to-f.from) + 1 }

func (f *Forward) Data() ([]uint8, error) {
	return nil, neserr.NotImplemented("membank.Forward.Data")
}

// Connector is a Forward used for mapper adapters in CPU or PPU space, where
// the mapper itself decides how much physical chip backs any given address;
// its Size reports the span of its address range, not a chip size.
type Connector struct {
	from, to uint16
	read     Reader
	write    Writer
}

// NewConnector builds a Connector covering [from, to].
func NewConnector(from, to uint16, read Reader, write Writer) *Connector {
	return &Connector{from: from, to: to, read: read, write: write}
}

func (c *Connector) HasValidAddress(addr uint16) bool {
	return addr >= c.from && addr <= c.to
}

func (c *Connector) Read(addr uint16) (uint8, error) {
	if !c.HasValidAddress(addr) {
		return 0, neserr.Address("membank.Connector.Read", addr)
	}
	return c.read(addr), nil
}

func (c *Connector) Write(addr uint16, b uint8) error {
	if !c.HasValidAddress(addr) {
		return neserr.Address("membank.Connector.Write", addr)
	}
	c.write(addr, b)
	return nil
}

func (c *Connector) Size() int {
	return int(c.to-c.from) + 1
}

func (c *Connector) Data() ([]uint8, error) {
	return nil, neserr.NotImplemented("membank.Connector.Data")
}

// Void rejects every access. It is useful as an explicit terminator bank, or
// in tests that want a deliberately empty bus.
type Void struct{}

// NewVoid returns a bank that claims nothing.
func NewVoid() *Void { return &Void{} }

func (*Void) HasValidAddress(uint16) bool { return false }

func (*Void) Read(addr uint16) (uint8, error) {
	return 0, neserr.Address("membank.Void.Read", addr)
}

func (*Void) Write(addr uint16, _ uint8) error {
	return neserr.Address("membank.Void.Write", addr)
}

func (*Void) Size() int { return 0 }

func (*Void) Data() ([]uint8, error) {
	return nil, neserr.NotImplemented("membank.Void.Data")
}

// Package mapper implements the per-cartridge translation of CPU- and
// PPU-space addresses to physical chip offsets, plus IRQ and scanline hooks.
//
// Grounded on original_source/core/include/nesdev/core/mapper.h (the
// Space{CPU,PPU} enum, HasValidAddress/MapR/MapW/Reset/Mirror/IRQ/ClearIRQ/
// Scanline surface) and the teacher's mappers/mapper_basics.go registry
// pattern (RegisterMapper/Get keyed by numeric mapper id, panicking on a
// duplicate registration). Only mapper 0 (NROM) is implemented, per spec.md
// §1's explicit non-goal; the interface is kept general so a future mapper
// has the same seam the original C++ interface gives it.
package mapper

import (
	"fmt"

	"github.com/wbarlow/nescore/ines"
	"github.com/wbarlow/nescore/neserr"
)

// Space distinguishes the CPU address space from the PPU address space, since
// a mapper routes each differently (PRG vs CHR).
type Space uint8

const (
	SpaceCPU Space = iota
	SpacePPU
)

func (s Space) String() string {
	if s == SpaceCPU {
		return "CPU"
	}
	return "PPU"
}

// Chips is the cartridge's physical memory: fixed PRG-ROM, optional
// battery-backed PRG-RAM, and mutually exclusive CHR-ROM/CHR-RAM (CHRIsRAM
// selects which one a mapper should route $0000-$1FFF PPU reads to).
type Chips struct {
	PRGROM   []uint8
	PRGRAM   []uint8
	CHRROM   []uint8
	CHRRAM   []uint8
	CHRIsRAM bool
}

// Mapper is the per-cartridge address translator. A Mapper is constructed
// already bound to one cartridge's Header and Chips (see Get); it has no
// exported way to be rebound to another cartridge, matching the original
// Mapper(const INESHeader&) constructor contract.
type Mapper interface {
	ID() uint16
	Name() string

	// HasValidAddress reports whether this mapper claims addr in the given space.
	HasValidAddress(space Space, addr uint16) bool
	// Read returns the byte the mapper resolves addr to in the given space.
	Read(space Space, addr uint16) (uint8, error)
	// Write stores through the mapper's translation in the given space.
	Write(space Space, addr uint16, b uint8) error

	// Reset restores mapper-internal bank-switching state to power-on defaults.
	Reset()
	// Mirroring reports the nametable arrangement this cartridge specifies.
	Mirroring() ines.Mirroring
	// IRQ reports whether the mapper has a pending interrupt request.
	IRQ() bool
	// ClearIRQ acknowledges a pending mapper IRQ.
	ClearIRQ()
	// Scanline is the per-visible-scanline hook for mappers with a scanline
	// counter (e.g. MMC3). NROM ignores it, and neither the PPU nor the nes
	// package calls it, or IRQ, in this module.
	Scanline()
}

// Factory constructs a Mapper bound to header and chips.
type Factory func(header *ines.Header, chips *Chips) Mapper

var registry = map[uint16]Factory{}

// Register adds a mapper factory under id. It panics on a duplicate id,
// matching the teacher's RegisterMapper, since two mappers claiming the same
// iNES id is a programming error caught at init time, not a runtime
// condition to recover from.
func Register(id uint16, f Factory) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mapper: id %d already registered", id))
	}
	registry[id] = f
}

// Get constructs the mapper registered for id, or neserr.ErrInvalidROM if no
// mapper is registered for it.
func Get(id uint16, header *ines.Header, chips *Chips) (Mapper, error) {
	f, ok := registry[id]
	if !ok {
		return nil, neserr.ROM(fmt.Sprintf("unsupported mapper id %d", id))
	}
	return f(header, chips), nil
}

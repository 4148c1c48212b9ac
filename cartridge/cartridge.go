// Package cartridge loads an iNES ROM image into physical chips and binds a
// mapper to them.
//
// Grounded on the teacher's console/bus.go ROM-loading path and
// original_source/core/include/nesdev/core/nes.h's construction of an MMU
// from a parsed INESHeader plus mapper. Unlike the C++ constructor, which
// wires the mapper straight into the NES's CPU/PPU MMUs, Cartridge exposes
// plain PRGRead/PRGWrite/CHRRead/CHRWrite/HasSaveRAM methods so the nes
// package can register it as
// one membank.Bank-shaped seam on each bus without this package knowing
// about buses at all.
package cartridge

import (
	"io"

	"github.com/wbarlow/nescore/ines"
	"github.com/wbarlow/nescore/mapper"
	"github.com/wbarlow/nescore/neserr"
)

// Cartridge is a loaded ROM image: its header, its physical chips, and the
// mapper bound to them.
type Cartridge struct {
	Header  *ines.Header
	Chips   *mapper.Chips
	Mapper  mapper.Mapper
	Trainer []uint8 // 512 bytes if Header.ContainsTrainer(), else nil
}

// Load reads a complete iNES file from r: the 16-byte header, an optional
// 512-byte trainer, the PRG-ROM payload, and the CHR-ROM payload (absent for
// CHR-RAM carts, which get a zero-filled 8KB bank instead).
func Load(r io.Reader) (*Cartridge, error) {
	header, err := ines.Parse(r)
	if err != nil {
		return nil, err
	}

	var trainer []uint8
	if header.ContainsTrainer() {
		trainer = make([]uint8, ines.TrainerSize)
		if _, err := io.ReadFull(r, trainer); err != nil {
			return nil, neserr.ROM("short trainer read")
		}
	}

	prgrom := make([]uint8, int(header.SizeOfPRGRom())*ines.PRGUnit)
	if _, err := io.ReadFull(r, prgrom); err != nil {
		return nil, neserr.ROM("short PRG-ROM read")
	}

	chips := &mapper.Chips{
		PRGROM: prgrom,
		PRGRAM: make([]uint8, int(header.SizeOfPRGRam())*ines.PRGRAMUnit),
	}

	if chrUnits := header.SizeOfCHRRom(); chrUnits == 0 {
		chips.CHRIsRAM = true
		chips.CHRRAM = make([]uint8, ines.CHRUnit)
	} else {
		chips.CHRROM = make([]uint8, int(chrUnits)*ines.CHRUnit)
		if _, err := io.ReadFull(r, chips.CHRROM); err != nil {
			return nil, neserr.ROM("short CHR-ROM read")
		}
	}

	m, err := mapper.Get(header.Mapper(), header, chips)
	if err != nil {
		return nil, err
	}

	return &Cartridge{Header: header, Chips: chips, Mapper: m, Trainer: trainer}, nil
}

// HasSaveRAM reports whether this cartridge should persist its PRG-RAM
// across sessions.
func (c *Cartridge) HasSaveRAM() bool {
	return c.Header.ContainsPersistentMemory() && len(c.Chips.PRGRAM) > 0
}

// PRGRead reads a CPU-space address ($6000-$FFFF) through the mapper.
func (c *Cartridge) PRGRead(addr uint16) (uint8, error) {
	return c.Mapper.Read(mapper.SpaceCPU, addr)
}

// PRGWrite writes a CPU-space address through the mapper.
func (c *Cartridge) PRGWrite(addr uint16, b uint8) error {
	return c.Mapper.Write(mapper.SpaceCPU, addr, b)
}

// CHRRead reads a PPU-space address ($0000-$1FFF) through the mapper.
func (c *Cartridge) CHRRead(addr uint16) (uint8, error) {
	return c.Mapper.Read(mapper.SpacePPU, addr)
}

// CHRWrite writes a PPU-space address through the mapper.
func (c *Cartridge) CHRWrite(addr uint16, b uint8) error {
	return c.Mapper.Write(mapper.SpacePPU, addr, b)
}

// HasValidCPUAddress reports whether the mapper claims addr in CPU space.
func (c *Cartridge) HasValidCPUAddress(addr uint16) bool {
	return c.Mapper.HasValidAddress(mapper.SpaceCPU, addr)
}

// HasValidPPUAddress reports whether the mapper claims addr in PPU space.
func (c *Cartridge) HasValidPPUAddress(addr uint16) bool {
	return c.Mapper.HasValidAddress(mapper.SpacePPU, addr)
}

package mapper

import (
	"github.com/wbarlow/nescore/ines"
	"github.com/wbarlow/nescore/neserr"
)

func init() {
	Register(0, newMapper000)
}

// mapper000 is NROM: no bank switching. PRG-ROM is 16KB or 32KB, mirrored
// across $8000-$FFFF when only one 16KB bank is present; CHR is a single 8KB
// bank, either ROM or RAM.
//
// Grounded on original_source/core/src/detail/roms/mapper000.cc.
type mapper000 struct {
	header *ines.Header
	chips  *Chips
}

func newMapper000(header *ines.Header, chips *Chips) Mapper {
	return &mapper000{header: header, chips: chips}
}

func (m *mapper000) ID() uint16    { return 0 }
func (m *mapper000) Name() string  { return "NROM" }
func (m *mapper000) Reset()        {}
func (m *mapper000) IRQ() bool     { return false }
func (m *mapper000) ClearIRQ()     {}
func (m *mapper000) Scanline()     {}

func (m *mapper000) Mirroring() ines.Mirroring { return m.header.Mirror() }

func (m *mapper000) HasValidAddress(space Space, addr uint16) bool {
	switch space {
	case SpaceCPU:
		if addr >= 0x6000 && addr <= 0x7FFF {
			return len(m.chips.PRGRAM) > 0
		}
		return addr >= 0x8000
	case SpacePPU:
		return addr <= 0x1FFF
	default:
		return false
	}
}

func (m *mapper000) Read(space Space, addr uint16) (uint8, error) {
	switch space {
	case SpaceCPU:
		if addr >= 0x6000 && addr <= 0x7FFF {
			if len(m.chips.PRGRAM) == 0 {
				return 0, neserr.Address("mapper000.Read(prgram)", addr)
			}
			return m.chips.PRGRAM[int(addr-0x6000)%len(m.chips.PRGRAM)], nil
		}
		if addr >= 0x8000 {
			return m.chips.PRGROM[int(addr-0x8000)%len(m.chips.PRGROM)], nil
		}
		return 0, neserr.Address("mapper000.Read", addr)
	case SpacePPU:
		if addr > 0x1FFF {
			return 0, neserr.Address("mapper000.Read(chr)", addr)
		}
		if m.chips.CHRIsRAM {
			return m.chips.CHRRAM[int(addr)%len(m.chips.CHRRAM)], nil
		}
		return m.chips.CHRROM[int(addr)%len(m.chips.CHRROM)], nil
	default:
		return 0, neserr.Address("mapper000.Read", addr)
	}
}

// Write stores to PRG-RAM when present; writes to the fixed PRG-ROM bank are
// silently dropped, matching real NROM hardware (no bank-select register to
// write to). CHR writes are only honored when the cartridge uses CHR-RAM —
// writing through a CHR-ROM cart is a no-op, since there is no latch for
// mapper 0 to capture it (Open Question (c) in spec.md §9).
func (m *mapper000) Write(space Space, addr uint16, b uint8) error {
	switch space {
	case SpaceCPU:
		if addr >= 0x6000 && addr <= 0x7FFF {
			if len(m.chips.PRGRAM) == 0 {
				return neserr.Address("mapper000.Write(prgram)", addr)
			}
			m.chips.PRGRAM[int(addr-0x6000)%len(m.chips.PRGRAM)] = b
			return nil
		}
		if addr >= 0x8000 {
			return nil
		}
		return neserr.Address("mapper000.Write", addr)
	case SpacePPU:
		if addr > 0x1FFF {
			return neserr.Address("mapper000.Write(chr)", addr)
		}
		if m.chips.CHRIsRAM {
			m.chips.CHRRAM[int(addr)%len(m.chips.CHRRAM)] = b
		}
		return nil
	default:
		return neserr.Address("mapper000.Write", addr)
	}
}

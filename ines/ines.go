// Package ines parses the iNES cartridge header: 16 bytes that drive
// mirroring, mapper id, ROM/RAM sizing, and TV system selection.
//
// Grounded on original_source/core/include/nesdev/core/ines_header.h (field
// layout, Mirroring/TVSystem enums) and the teacher's nesrom/header.go
// (flag-byte naming, String() rendering). The original's Bitfield-backed
// flags6_/flags7_/flags9_/flags10_ unions become bitfield.View fields here.
package ines

import (
	"fmt"
	"io"

	"github.com/wbarlow/nescore/bitfield"
	"github.com/wbarlow/nescore/neserr"
)

// Mirroring selects how the PPU maps nametable addresses onto its 2KB of
// internal VRAM.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorFourScreen
)

func (m Mirroring) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorFourScreen:
		return "four-screen"
	default:
		return "unknown"
	}
}

// TVSystem selects the cartridge's documented refresh standard.
type TVSystem uint8

const (
	TVSystemNTSC TVSystem = iota
	TVSystemPAL
	TVSystemDualCompat
)

const (
	headerSize  = 16
	trainerSize = 512
	// PRGUnit is the granularity of byte 4: 16KB per unit.
	PRGUnit = 16 * 1024
	// CHRUnit is the granularity of byte 5: 8KB per unit.
	CHRUnit = 8 * 1024
	// PRGRAMUnit is the granularity of byte 8: 8KB per unit.
	PRGRAMUnit = 8 * 1024
)

var magic = [4]byte{0x4E, 0x45, 0x53, 0x1A} // "NES\x1A"

// Header is the parsed 16-byte iNES header.
type Header struct {
	raw [headerSize]byte

	flags6  uint8
	flags7  uint8
	flags9  uint8
	flags10 uint8

	mirroringBit   bitfield.View[uint8]
	batteryBit     bitfield.View[uint8]
	trainerBit     bitfield.View[uint8]
	fourScreenBit  bitfield.View[uint8]
	mapperLoNibble bitfield.View[uint8]

	vsUnisystemBit bitfield.View[uint8]
	playChoiceBit  bitfield.View[uint8]
	nes20Marker    bitfield.View[uint8]
	mapperHiNibble bitfield.View[uint8]

	tvSystem9Bit bitfield.View[uint8]

	tvSystem10Bits  bitfield.View[uint8]
	prgRAMAbsentBit bitfield.View[uint8]
	busConflictBit  bitfield.View[uint8]
}

// Parse reads and validates a 16-byte iNES header from r. It does not
// consume the trainer or ROM payload that follows; callers read those
// separately once they know ContainsTrainer/SizeOfPRGRom/SizeOfCHRRom.
func Parse(r io.Reader) (*Header, error) {
	h := &Header{}
	if _, err := io.ReadFull(r, h.raw[:]); err != nil {
		return nil, neserr.Header(fmt.Sprintf("short header read: %v", err))
	}
	if h.raw[0] != magic[0] || h.raw[1] != magic[1] || h.raw[2] != magic[2] || h.raw[3] != magic[3] {
		return nil, neserr.Header("bad magic")
	}

	h.flags6 = h.raw[6]
	h.flags7 = h.raw[7]
	h.flags9 = h.raw[9]
	h.flags10 = h.raw[10]

	h.mirroringBit = bitfield.New(&h.flags6, 0, 1)
	h.batteryBit = bitfield.New(&h.flags6, 1, 1)
	h.trainerBit = bitfield.New(&h.flags6, 2, 1)
	h.fourScreenBit = bitfield.New(&h.flags6, 3, 1)
	h.mapperLoNibble = bitfield.New(&h.flags6, 4, 4)

	h.vsUnisystemBit = bitfield.New(&h.flags7, 0, 1)
	h.playChoiceBit = bitfield.New(&h.flags7, 1, 1)
	h.nes20Marker = bitfield.New(&h.flags7, 2, 2)
	h.mapperHiNibble = bitfield.New(&h.flags7, 4, 4)

	h.tvSystem9Bit = bitfield.New(&h.flags9, 0, 1)

	h.tvSystem10Bits = bitfield.New(&h.flags10, 0, 2)
	h.prgRAMAbsentBit = bitfield.New(&h.flags10, 4, 1)
	h.busConflictBit = bitfield.New(&h.flags10, 5, 1)

	if h.SizeOfPRGRom() == 0 {
		return nil, neserr.Header("impossible PRG-ROM size (0 units)")
	}

	return h, nil
}

// HasValidMagic reports whether the 4-byte "NES\x1A" signature was present.
// Parse already rejects a bad magic, so this is always true on a *Header
// that exists; kept for parity with the original HasValidMagic() accessor
// and for callers validating a raw buffer before calling Parse.
func (h *Header) HasValidMagic() bool {
	return h.raw[0] == magic[0] && h.raw[1] == magic[1] && h.raw[2] == magic[2] && h.raw[3] == magic[3]
}

// rawPRGLo / rawCHRLo are bytes 4 and 5: the NES 1.0 unit counts, and also
// the low 8 bits of the NES 2.0 12-bit unit counts.
func (h *Header) rawPRGLo() uint16 { return uint16(h.raw[4]) }
func (h *Header) rawCHRLo() uint16 { return uint16(h.raw[5]) }

// SizeOfPRGRom returns the number of 16KB PRG-ROM units.
//
// Open Question (a) from spec.md §9: the NES 2.0 upper nibbles of PRG/CHR
// counts were read inconsistently in one branch of the original parser. This
// implementation follows the iNES 2.0 spec rather than reproducing that bug:
// when IsNES20Format() is true, byte 9's low nibble extends byte 4 to a
// 12-bit PRG-ROM unit count (high nibble extends byte 5 for CHR-ROM).
func (h *Header) SizeOfPRGRom() uint16 {
	if h.IsNES20Format() {
		hi := uint16(h.raw[9] & 0x0F)
		return h.rawPRGLo() | (hi << 8)
	}
	return h.rawPRGLo()
}

// SizeOfCHRRom returns the number of 8KB CHR-ROM units. Zero means the
// cartridge uses CHR-RAM instead of CHR-ROM.
func (h *Header) SizeOfCHRRom() uint16 {
	if h.IsNES20Format() {
		hi := uint16(h.raw[9]&0xF0) >> 4
		return h.rawCHRLo() | (hi << 8)
	}
	return h.rawCHRLo()
}

// Mirror reports the nametable mirroring arrangement, with FourScreen taking
// priority over the horizontal/vertical bit per the iNES spec.
func (h *Header) Mirror() Mirroring {
	if h.fourScreenBit.Bool() {
		return MirrorFourScreen
	}
	if h.mirroringBit.Bool() {
		return MirrorVertical
	}
	return MirrorHorizontal
}

// ContainsPersistentMemory reports the battery-backed PRG-RAM flag.
func (h *Header) ContainsPersistentMemory() bool { return h.batteryBit.Bool() }

// ContainsTrainer reports whether a 512-byte trainer precedes PRG data.
func (h *Header) ContainsTrainer() bool { return h.trainerBit.Bool() }

// IsVSUnisystem reports the VS Unisystem flag.
func (h *Header) IsVSUnisystem() bool { return h.vsUnisystemBit.Bool() }

// IsPlayChoice reports the PlayChoice-10 flag.
func (h *Header) IsPlayChoice() bool { return h.playChoiceBit.Bool() }

// IsNES20Format reports whether byte 7 bits 2-3 carry the NES 2.0 marker (0b10).
func (h *Header) IsNES20Format() bool { return h.nes20Marker.Get() == 0b10 }

// Mapper returns the iNES mapper number, assembled from the low nibble of
// byte 6 and the high nibble of byte 7.
func (h *Header) Mapper() uint16 {
	return uint16(h.mapperLoNibble.Get()) | (uint16(h.mapperHiNibble.Get()) << 4)
}

// SizeOfPRGRam returns the number of 8KB PRG-RAM units; zero is treated by
// convention as one unit (8KB), matching real-world carts that leave byte 8
// unset but still expose battery-backed SRAM at $6000-$7FFF.
func (h *Header) SizeOfPRGRam() uint8 {
	if h.raw[8] == 0 {
		return 1
	}
	return h.raw[8]
}

// TV returns the documented TV system. Byte 10's 2-bit field takes priority
// when nonzero; otherwise byte 9's single bit is used.
func (h *Header) TV() TVSystem {
	if v := h.tvSystem10Bits.Get(); v != 0 {
		switch v {
		case 2:
			return TVSystemPAL
		case 1, 3:
			return TVSystemDualCompat
		}
	}
	if h.tvSystem9Bit.Bool() {
		return TVSystemPAL
	}
	return TVSystemNTSC
}

// HasPRGRam reports whether PRG-RAM is present (byte 10 bit 4 clear).
func (h *Header) HasPRGRam() bool { return !h.prgRAMAbsentBit.Bool() }

// HasBusConflict reports the unofficial bus-conflict flag some NROM/AxROM
// dumps set.
func (h *Header) HasBusConflict() bool { return h.busConflictBit.Bool() }

// TrainerSize is the fixed size of the optional trainer block.
const TrainerSize = trainerSize

func (h *Header) String() string {
	return fmt.Sprintf(
		"iNES(prg=%dx16KB chr=%dx8KB mapper=%d mirror=%s battery=%t trainer=%t nes2.0=%t)",
		h.SizeOfPRGRom(), h.SizeOfCHRRom(), h.Mapper(), h.Mirror(),
		h.ContainsPersistentMemory(), h.ContainsTrainer(), h.IsNES20Format(),
	)
}

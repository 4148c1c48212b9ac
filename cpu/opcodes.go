package cpu

// AddrMode is one of the 6502's addressing modes.
//
// Grounded on the teacher's mos6502/mos6502.go addressing-mode constants
// (IMPLICIT, ACCUMULATOR, IMMEDIATE, ...), renamed to exported Go identifiers
// consistent with the rest of this module.
type AddrMode uint8

const (
	AddrImplicit AddrMode = iota
	AddrAccumulator
	AddrImmediate
	AddrZeroPage
	AddrZeroPageX
	AddrZeroPageY
	AddrRelative
	AddrAbsolute
	AddrAbsoluteX
	AddrAbsoluteY
	AddrIndirect
	AddrIndirectX
	AddrIndirectY
)

type opcode struct {
	name   string
	mode   AddrMode
	cycles uint8
	exec   func(c *CPU, mode AddrMode, addr uint16)
}

// opcodes is the canonical NMOS 6502 instruction table: only the 151
// documented opcodes. Every unlisted byte decodes as a 2-cycle implied NOP
// (see lookup) — undocumented opcodes and decimal-mode BCD are explicit
// non-goals.
//
// Grounded on the teacher's mos6502/opcodes.go (mnemonic set, addressing
// mode per opcode) and original_source/core/src/opcodes.cc's timing table,
// trimmed of the 65C02/65C816 additions that table carries as a superset.
var opcodes = map[uint8]opcode{
	0x69: {"ADC", AddrImmediate, 2, opADC}, 0x65: {"ADC", AddrZeroPage, 3, opADC},
	0x75: {"ADC", AddrZeroPageX, 4, opADC}, 0x6D: {"ADC", AddrAbsolute, 4, opADC},
	0x7D: {"ADC", AddrAbsoluteX, 4, opADC}, 0x79: {"ADC", AddrAbsoluteY, 4, opADC},
	0x61: {"ADC", AddrIndirectX, 6, opADC}, 0x71: {"ADC", AddrIndirectY, 5, opADC},

	0x29: {"AND", AddrImmediate, 2, opAND}, 0x25: {"AND", AddrZeroPage, 3, opAND},
	0x35: {"AND", AddrZeroPageX, 4, opAND}, 0x2D: {"AND", AddrAbsolute, 4, opAND},
	0x3D: {"AND", AddrAbsoluteX, 4, opAND}, 0x39: {"AND", AddrAbsoluteY, 4, opAND},
	0x21: {"AND", AddrIndirectX, 6, opAND}, 0x31: {"AND", AddrIndirectY, 5, opAND},

	0x0A: {"ASL", AddrAccumulator, 2, opASL}, 0x06: {"ASL", AddrZeroPage, 5, opASL},
	0x16: {"ASL", AddrZeroPageX, 6, opASL}, 0x0E: {"ASL", AddrAbsolute, 6, opASL},
	0x1E: {"ASL", AddrAbsoluteX, 7, opASL},

	0x90: {"BCC", AddrRelative, 2, opBCC}, 0xB0: {"BCS", AddrRelative, 2, opBCS},
	0xF0: {"BEQ", AddrRelative, 2, opBEQ}, 0x30: {"BMI", AddrRelative, 2, opBMI},
	0xD0: {"BNE", AddrRelative, 2, opBNE}, 0x10: {"BPL", AddrRelative, 2, opBPL},
	0x50: {"BVC", AddrRelative, 2, opBVC}, 0x70: {"BVS", AddrRelative, 2, opBVS},

	0x24: {"BIT", AddrZeroPage, 3, opBIT}, 0x2C: {"BIT", AddrAbsolute, 4, opBIT},

	0x00: {"BRK", AddrImplicit, 7, opBRK},

	0x18: {"CLC", AddrImplicit, 2, opCLC}, 0xD8: {"CLD", AddrImplicit, 2, opCLD},
	0x58: {"CLI", AddrImplicit, 2, opCLI}, 0xB8: {"CLV", AddrImplicit, 2, opCLV},

	0xC9: {"CMP", AddrImmediate, 2, opCMP}, 0xC5: {"CMP", AddrZeroPage, 3, opCMP},
	0xD5: {"CMP", AddrZeroPageX, 4, opCMP}, 0xCD: {"CMP", AddrAbsolute, 4, opCMP},
	0xDD: {"CMP", AddrAbsoluteX, 4, opCMP}, 0xD9: {"CMP", AddrAbsoluteY, 4, opCMP},
	0xC1: {"CMP", AddrIndirectX, 6, opCMP}, 0xD1: {"CMP", AddrIndirectY, 5, opCMP},

	0xE0: {"CPX", AddrImmediate, 2, opCPX}, 0xE4: {"CPX", AddrZeroPage, 3, opCPX},
	0xEC: {"CPX", AddrAbsolute, 4, opCPX},

	0xC0: {"CPY", AddrImmediate, 2, opCPY}, 0xC4: {"CPY", AddrZeroPage, 3, opCPY},
	0xCC: {"CPY", AddrAbsolute, 4, opCPY},

	0xC6: {"DEC", AddrZeroPage, 5, opDEC}, 0xD6: {"DEC", AddrZeroPageX, 6, opDEC},
	0xCE: {"DEC", AddrAbsolute, 6, opDEC}, 0xDE: {"DEC", AddrAbsoluteX, 7, opDEC},

	0xCA: {"DEX", AddrImplicit, 2, opDEX}, 0x88: {"DEY", AddrImplicit, 2, opDEY},

	0x49: {"EOR", AddrImmediate, 2, opEOR}, 0x45: {"EOR", AddrZeroPage, 3, opEOR},
	0x55: {"EOR", AddrZeroPageX, 4, opEOR}, 0x4D: {"EOR", AddrAbsolute, 4, opEOR},
	0x5D: {"EOR", AddrAbsoluteX, 4, opEOR}, 0x59: {"EOR", AddrAbsoluteY, 4, opEOR},
	0x41: {"EOR", AddrIndirectX, 6, opEOR}, 0x51: {"EOR", AddrIndirectY, 5, opEOR},

	0xE6: {"INC", AddrZeroPage, 5, opINC}, 0xF6: {"INC", AddrZeroPageX, 6, opINC},
	0xEE: {"INC", AddrAbsolute, 6, opINC}, 0xFE: {"INC", AddrAbsoluteX, 7, opINC},

	0xE8: {"INX", AddrImplicit, 2, opINX}, 0xC8: {"INY", AddrImplicit, 2, opINY},

	0x4C: {"JMP", AddrAbsolute, 3, opJMP}, 0x6C: {"JMP", AddrIndirect, 5, opJMP},

	0x20: {"JSR", AddrAbsolute, 6, opJSR},

	0xA9: {"LDA", AddrImmediate, 2, opLDA}, 0xA5: {"LDA", AddrZeroPage, 3, opLDA},
	0xB5: {"LDA", AddrZeroPageX, 4, opLDA}, 0xAD: {"LDA", AddrAbsolute, 4, opLDA},
	0xBD: {"LDA", AddrAbsoluteX, 4, opLDA}, 0xB9: {"LDA", AddrAbsoluteY, 4, opLDA},
	0xA1: {"LDA", AddrIndirectX, 6, opLDA}, 0xB1: {"LDA", AddrIndirectY, 5, opLDA},

	0xA2: {"LDX", AddrImmediate, 2, opLDX}, 0xA6: {"LDX", AddrZeroPage, 3, opLDX},
	0xB6: {"LDX", AddrZeroPageY, 4, opLDX}, 0xAE: {"LDX", AddrAbsolute, 4, opLDX},
	0xBE: {"LDX", AddrAbsoluteY, 4, opLDX},

	0xA0: {"LDY", AddrImmediate, 2, opLDY}, 0xA4: {"LDY", AddrZeroPage, 3, opLDY},
	0xB4: {"LDY", AddrZeroPageX, 4, opLDY}, 0xAC: {"LDY", AddrAbsolute, 4, opLDY},
	0xBC: {"LDY", AddrAbsoluteX, 4, opLDY},

	0x4A: {"LSR", AddrAccumulator, 2, opLSR}, 0x46: {"LSR", AddrZeroPage, 5, opLSR},
	0x56: {"LSR", AddrZeroPageX, 6, opLSR}, 0x4E: {"LSR", AddrAbsolute, 6, opLSR},
	0x5E: {"LSR", AddrAbsoluteX, 7, opLSR},

	0xEA: {"NOP", AddrImplicit, 2, opNOP},

	0x09: {"ORA", AddrImmediate, 2, opORA}, 0x05: {"ORA", AddrZeroPage, 3, opORA},
	0x15: {"ORA", AddrZeroPageX, 4, opORA}, 0x0D: {"ORA", AddrAbsolute, 4, opORA},
	0x1D: {"ORA", AddrAbsoluteX, 4, opORA}, 0x19: {"ORA", AddrAbsoluteY, 4, opORA},
	0x01: {"ORA", AddrIndirectX, 6, opORA}, 0x11: {"ORA", AddrIndirectY, 5, opORA},

	0x48: {"PHA", AddrImplicit, 3, opPHA}, 0x08: {"PHP", AddrImplicit, 3, opPHP},
	0x68: {"PLA", AddrImplicit, 4, opPLA}, 0x28: {"PLP", AddrImplicit, 4, opPLP},

	0x2A: {"ROL", AddrAccumulator, 2, opROL}, 0x26: {"ROL", AddrZeroPage, 5, opROL},
	0x36: {"ROL", AddrZeroPageX, 6, opROL}, 0x2E: {"ROL", AddrAbsolute, 6, opROL},
	0x3E: {"ROL", AddrAbsoluteX, 7, opROL},

	0x6A: {"ROR", AddrAccumulator, 2, opROR}, 0x66: {"ROR", AddrZeroPage, 5, opROR},
	0x76: {"ROR", AddrZeroPageX, 6, opROR}, 0x6E: {"ROR", AddrAbsolute, 6, opROR},
	0x7E: {"ROR", AddrAbsoluteX, 7, opROR},

	0x40: {"RTI", AddrImplicit, 6, opRTI}, 0x60: {"RTS", AddrImplicit, 6, opRTS},

	0xE9: {"SBC", AddrImmediate, 2, opSBC}, 0xE5: {"SBC", AddrZeroPage, 3, opSBC},
	0xF5: {"SBC", AddrZeroPageX, 4, opSBC}, 0xED: {"SBC", AddrAbsolute, 4, opSBC},
	0xFD: {"SBC", AddrAbsoluteX, 4, opSBC}, 0xF9: {"SBC", AddrAbsoluteY, 4, opSBC},
	0xE1: {"SBC", AddrIndirectX, 6, opSBC}, 0xF1: {"SBC", AddrIndirectY, 5, opSBC},

	0x38: {"SEC", AddrImplicit, 2, opSEC}, 0xF8: {"SED", AddrImplicit, 2, opSED},
	0x78: {"SEI", AddrImplicit, 2, opSEI},

	0x85: {"STA", AddrZeroPage, 3, opSTA}, 0x95: {"STA", AddrZeroPageX, 4, opSTA},
	0x8D: {"STA", AddrAbsolute, 4, opSTA}, 0x9D: {"STA", AddrAbsoluteX, 5, opSTA},
	0x99: {"STA", AddrAbsoluteY, 5, opSTA}, 0x81: {"STA", AddrIndirectX, 6, opSTA},
	0x91: {"STA", AddrIndirectY, 6, opSTA},

	0x86: {"STX", AddrZeroPage, 3, opSTX}, 0x96: {"STX", AddrZeroPageY, 4, opSTX},
	0x8E: {"STX", AddrAbsolute, 4, opSTX},

	0x84: {"STY", AddrZeroPage, 3, opSTY}, 0x94: {"STY", AddrZeroPageX, 4, opSTY},
	0x8C: {"STY", AddrAbsolute, 4, opSTY},

	0xAA: {"TAX", AddrImplicit, 2, opTAX}, 0xA8: {"TAY", AddrImplicit, 2, opTAY},
	0xBA: {"TSX", AddrImplicit, 2, opTSX}, 0x8A: {"TXA", AddrImplicit, 2, opTXA},
	0x9A: {"TXS", AddrImplicit, 2, opTXS}, 0x98: {"TYA", AddrImplicit, 2, opTYA},
}

// pageCrossPenalty reports whether this opcode's addressing mode variant
// charges one extra cycle when indexing crosses a page boundary. Store
// instructions and a handful of read-modify-write forms always pay the
// indexed-absolute cycle cost up front and never get a discount, so they are
// excluded here even though their mode is AddrAbsoluteX/Y.
var pageCrossPenalty = map[string]bool{
	"ADC": true, "AND": true, "CMP": true, "EOR": true, "LDA": true,
	"LDX": true, "LDY": true, "ORA": true, "SBC": true,
}

// branchCond maps a branch mnemonic to the predicate that decides whether
// it's taken, used by decode to size the pipeline (base 2 cycles, +1 taken,
// +1 more if taken across a page boundary) before the instruction's own
// exec step re-checks the same flag and performs the jump.
var branchCond = map[string]func(c *CPU) bool{
	"BCC": func(c *CPU) bool { return !c.flagC.Bool() },
	"BCS": func(c *CPU) bool { return c.flagC.Bool() },
	"BEQ": func(c *CPU) bool { return c.flagZ.Bool() },
	"BNE": func(c *CPU) bool { return !c.flagZ.Bool() },
	"BPL": func(c *CPU) bool { return !c.flagN.Bool() },
	"BMI": func(c *CPU) bool { return c.flagN.Bool() },
	"BVC": func(c *CPU) bool { return !c.flagV.Bool() },
	"BVS": func(c *CPU) bool { return c.flagV.Bool() },
}

func lookup(b uint8) opcode {
	if op, ok := opcodes[b]; ok {
		return op
	}
	return opcode{name: "NOP", mode: AddrImplicit, cycles: 2, exec: opNOP}
}

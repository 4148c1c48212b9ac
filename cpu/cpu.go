// Package cpu implements a cycle-stepped NMOS 6502, the NES's central
// processor. It executes one instruction's worth of work across that
// instruction's real cycle count rather than all at once, so a caller
// ticking it alongside a PPU observes every intermediate cycle.
//
// Grounded on the teacher's mos6502/mos6502.go for register layout, flag
// constants, and interrupt vector addresses, and on
// original_source/core/src/detail/pipeline.h for the step-queue execution
// model (see pipeline.go) that the teacher's reflection-driven
// one-shot-per-instruction CPU does not have at all.
package cpu

import (
	"fmt"

	"github.com/wbarlow/nescore/bitfield"
)

// Interrupt vectors, grounded on the teacher's mos6502/mos6502.go INT_* consts.
const (
	VectorNMI   = 0xFFFA
	VectorReset = 0xFFFC
	VectorIRQ   = 0xFFFE
	VectorBRK   = VectorIRQ
)

const stackPage = 0x0100

// Bus is the CPU's view of the system: a flat 16-bit address space. A
// well-formed NES wiring maps every address, so Read/Write take no error —
// see the nes package for how mmu.MMU misses are handled at the seam.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, b uint8)
}

// CPU is one 6502 core.
type CPU struct {
	bus Bus

	A, X, Y uint8
	SP      uint8
	PC      uint16

	status uint8
	flagC  bitfield.View[uint8]
	flagZ  bitfield.View[uint8]
	flagI  bitfield.View[uint8]
	flagD  bitfield.View[uint8]
	flagB  bitfield.View[uint8]
	flagU  bitfield.View[uint8]
	flagV  bitfield.View[uint8]
	flagN  bitfield.View[uint8]

	pipeline Pipeline

	pendingReset bool
	pendingNMI   bool
	pendingIRQ   bool

	// opcode/addr/mode of the instruction most recently dispatched, kept for Disassemble.
	lastPC     uint16
	lastOpcode uint8
	lastMode   AddrMode
	lastAddr   uint16
}

// New returns a CPU wired to bus, with RST already queued — the first Tick
// calls run the 7-cycle reset sequence rather than executing code.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.flagC = bitfield.New(&c.status, 0, 1)
	c.flagZ = bitfield.New(&c.status, 1, 1)
	c.flagI = bitfield.New(&c.status, 2, 1)
	c.flagD = bitfield.New(&c.status, 3, 1)
	c.flagB = bitfield.New(&c.status, 4, 1)
	c.flagU = bitfield.New(&c.status, 5, 1)
	c.flagV = bitfield.New(&c.status, 6, 1)
	c.flagN = bitfield.New(&c.status, 7, 1)
	c.flagU.SetBool(true)
	c.pendingReset = true
	return c
}

// Reset queues an RST sequence for the next instruction boundary.
func (c *CPU) Reset() { c.pendingReset = true }

// RequestNMI latches a non-maskable interrupt, serviced at the next
// instruction boundary regardless of the I flag.
func (c *CPU) RequestNMI() { c.pendingNMI = true }

// RequestIRQ latches a maskable interrupt request. It stays latched (as real
// IRQ level-triggering does) until the I flag is clear and it's serviced;
// the caller is responsible for clearing its side once acknowledged. The nes
// package does not call it: mapper IRQs are not forwarded to the CPU.
func (c *CPU) RequestIRQ() { c.pendingIRQ = true }

// Tick advances the CPU by one clock cycle. The nes package only calls this
// when OAM DMA isn't holding the bus, which is what actually realizes a DMA
// stall — from the CPU's own perspective it simply isn't clocked.
func (c *CPU) Tick() {
	if c.pipeline.Done() {
		c.decode()
	}
	c.pipeline.Tick()
}

func (c *CPU) push(b uint8) {
	c.bus.Write(stackPage|uint16(c.SP), b)
	c.SP--
}

func (c *CPU) pull() uint8 {
	c.SP++
	return c.bus.Read(stackPage | uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pull16() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

func (c *CPU) setZN(v uint8) {
	c.flagZ.SetBool(v == 0)
	c.flagN.SetBool(v&0x80 != 0)
}

// decode is called when the pipeline has drained: service a latched
// interrupt if one applies, else fetch and stage the next instruction. It
// pushes exactly as many Steps as the instruction's total cycle count, so
// the very next Pipeline.Tick (called by the same outer CPU.Tick) consumes
// cycle one.
func (c *CPU) decode() {
	switch {
	case c.pendingReset:
		c.pendingReset = false
		c.stageInterrupt(VectorReset, false, true)
		return
	case c.pendingNMI:
		c.pendingNMI = false
		c.stageInterrupt(VectorNMI, false, false)
		return
	case c.pendingIRQ && !c.flagI.Bool():
		c.pendingIRQ = false
		c.stageInterrupt(VectorIRQ, false, false)
		return
	}

	pc := c.PC
	op := c.bus.Read(c.PC)
	c.PC++

	info := lookup(op)
	addr, pageCrossed := c.resolveAddress(info.mode)

	total := int(info.cycles)
	if cond, ok := branchCond[info.name]; ok {
		total = 2
		if cond(c) {
			total++
			if pageCrossed {
				total++
			}
		}
	} else if pageCrossed && pageCrossPenalty[info.name] {
		total++
	}

	c.lastPC, c.lastOpcode, c.lastMode, c.lastAddr = pc, op, info.mode, addr

	for i := 0; i < total-1; i++ {
		c.pipeline.PushFunc(func() {})
	}
	mode, a := info.mode, addr
	exec := info.exec
	c.pipeline.PushFunc(func() { exec(c, mode, a) })
}

// stageInterrupt pushes a RST/NMI/IRQ/BRK servicing sequence. isReset skips
// the status/PC push (there's nothing coherent on the stack to protect) and
// instead resets A/X/Y to 0, S to 0xFD, and P to the unused bit only, per
// the real 6502's documented power-on/reset register state; fromBRK sets the
// pushed B flag for the non-reset path.
func (c *CPU) stageInterrupt(vector uint16, fromBRK, isReset bool) {
	const cycles = 7
	for i := 0; i < cycles-1; i++ {
		c.pipeline.PushFunc(func() {})
	}
	c.pipeline.PushFunc(func() {
		if isReset {
			c.A, c.X, c.Y = 0, 0, 0
			c.SP = 0xFD
			c.status = 0
			c.flagU.SetBool(true)
		} else {
			c.push16(c.PC)
			b := c.status | 0x20
			if fromBRK {
				b |= 0x10
			} else {
				b &^= 0x10
			}
			c.push(b)
			c.flagI.SetBool(true)
		}
		lo := uint16(c.bus.Read(vector))
		hi := uint16(c.bus.Read(vector + 1))
		c.PC = hi<<8 | lo
	})
}

// resolveAddress computes the effective address for mode, advancing PC past
// any operand bytes. It returns pageCrossed for indexed modes whose base
// page differs from the final page, the condition some opcodes charge an
// extra cycle for.
func (c *CPU) resolveAddress(mode AddrMode) (addr uint16, pageCrossed bool) {
	switch mode {
	case AddrImplicit, AddrAccumulator:
		return 0, false
	case AddrImmediate:
		a := c.PC
		c.PC++
		return a, false
	case AddrZeroPage:
		a := uint16(c.bus.Read(c.PC))
		c.PC++
		return a, false
	case AddrZeroPageX:
		a := uint16(uint8(c.bus.Read(c.PC)) + c.X)
		c.PC++
		return a, false
	case AddrZeroPageY:
		a := uint16(uint8(c.bus.Read(c.PC)) + c.Y)
		c.PC++
		return a, false
	case AddrRelative:
		offset := int8(c.bus.Read(c.PC))
		c.PC++
		target := uint16(int32(c.PC) + int32(offset))
		return target, (target & 0xFF00) != (c.PC & 0xFF00)
	case AddrAbsolute:
		a := c.read16(c.PC)
		c.PC += 2
		return a, false
	case AddrAbsoluteX:
		base := c.read16(c.PC)
		c.PC += 2
		a := base + uint16(c.X)
		return a, (a & 0xFF00) != (base & 0xFF00)
	case AddrAbsoluteY:
		base := c.read16(c.PC)
		c.PC += 2
		a := base + uint16(c.Y)
		return a, (a & 0xFF00) != (base & 0xFF00)
	case AddrIndirect:
		ptr := c.read16(c.PC)
		c.PC += 2
		return c.read16Bugged(ptr), false
	case AddrIndirectX:
		zp := uint8(c.bus.Read(c.PC)) + c.X
		c.PC++
		a := c.read16ZeroPage(zp)
		return a, false
	case AddrIndirectY:
		zp := uint8(c.bus.Read(c.PC))
		c.PC++
		base := c.read16ZeroPage(zp)
		a := base + uint16(c.Y)
		return a, (a & 0xFF00) != (base & 0xFF00)
	default:
		return 0, false
	}
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return hi<<8 | lo
}

// read16Bugged reproduces the famous 6502 JMP ($xxFF) page-wrap bug: the
// high byte is fetched from the start of the same page rather than the next
// page, exactly as silicon does.
func (c *CPU) read16Bugged(ptr uint16) uint16 {
	lo := uint16(c.bus.Read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr &^ 0x00FF
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.bus.Read(hiAddr))
	return hi<<8 | lo
}

func (c *CPU) read16ZeroPage(zp uint8) uint16 {
	lo := uint16(c.bus.Read(uint16(zp)))
	hi := uint16(c.bus.Read(uint16(zp + 1)))
	return hi<<8 | lo
}

// operand fetches the effective byte for a read-capable addressing mode,
// pulling from the accumulator for AddrAccumulator.
func (c *CPU) operand(mode AddrMode, addr uint16) uint8 {
	if mode == AddrAccumulator {
		return c.A
	}
	return c.bus.Read(addr)
}

func (c *CPU) storeOperand(mode AddrMode, addr uint16, v uint8) {
	if mode == AddrAccumulator {
		c.A = v
		return
	}
	c.bus.Write(addr, v)
}

// Disassemble renders the most recently dispatched instruction for trace
// logging as its address, opcode byte and mnemonic followed by the current
// registers, e.g. "$C000: A9 LDA       A:00 X:00 Y:00 P:20 SP:FD". Operand
// bytes and the decoded operand are not shown.
func (c *CPU) Disassemble() string {
	info := lookup(c.lastOpcode)
	return fmt.Sprintf("$%04X: %02X %-9s A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		c.lastPC, c.lastOpcode, info.name, c.A, c.X, c.Y, c.status, c.SP)
}

package ppu

import "github.com/wbarlow/nescore/bitfield"

// Register addresses exposed in CPU space, mirrored every 8 bytes across
// $2000-$3FFF. Grounded on the teacher's ppu/ppu.go register constants.
const (
	RegPPUCTRL   = 0x2000
	RegPPUMASK   = 0x2001
	RegPPUSTATUS = 0x2002
	RegOAMADDR   = 0x2003
	RegOAMDATA   = 0x2004
	RegPPUSCROLL = 0x2005
	RegPPUADDR   = 0x2006
	RegPPUDATA   = 0x2007
)

// ctrl is $2000, PPUCTRL.
//
//	VPHB SINN
//	|||| ||++- base nametable select
//	|||| |+--- VRAM address increment per PPUDATA access (0: +1, 1: +32)
//	|||| +---- sprite pattern table address for 8x8 sprites
//	|||+------ background pattern table address
//	||+------- sprite size (0: 8x8, 1: 8x16)
//	|+-------- PPU master/slave select (unimplemented on a clone PPU)
//	+--------- generate NMI at the start of vertical blank
type ctrl struct {
	raw uint8

	nametable     bitfield.View[uint8]
	vramIncr32    bitfield.View[uint8]
	spritePattern bitfield.View[uint8]
	bgPattern     bitfield.View[uint8]
	spriteSize16  bitfield.View[uint8]
	masterSlave   bitfield.View[uint8]
	nmiEnable     bitfield.View[uint8]
}

func newCtrl() *ctrl {
	c := &ctrl{}
	c.nametable = bitfield.New(&c.raw, 0, 2)
	c.vramIncr32 = bitfield.New(&c.raw, 2, 1)
	c.spritePattern = bitfield.New(&c.raw, 3, 1)
	c.bgPattern = bitfield.New(&c.raw, 4, 1)
	c.spriteSize16 = bitfield.New(&c.raw, 5, 1)
	c.masterSlave = bitfield.New(&c.raw, 6, 1)
	c.nmiEnable = bitfield.New(&c.raw, 7, 1)
	return c
}

func (c *ctrl) set(v uint8) { c.raw = v }

func (c *ctrl) vramIncrement() uint16 {
	if c.vramIncr32.Bool() {
		return 32
	}
	return 1
}

func (c *ctrl) bgPatternBase() uint16 {
	if c.bgPattern.Bool() {
		return 0x1000
	}
	return 0x0000
}

func (c *ctrl) spritePatternBase() uint16 {
	if c.spritePattern.Bool() {
		return 0x1000
	}
	return 0x0000
}

func (c *ctrl) spriteHeight() int {
	if c.spriteSize16.Bool() {
		return 16
	}
	return 8
}

// mask is $2001, PPUMASK.
//
//	BGRs bMmG
//	|||| ||||
//	|||| |||+- greyscale
//	|||| ||+-- show background in leftmost 8 pixels
//	|||| |+--- show sprites in leftmost 8 pixels
//	|||| +---- show background
//	|||+------ show sprites
//	||+------- emphasize red
//	|+-------- emphasize green
//	+--------- emphasize blue
type mask struct {
	raw uint8

	greyscale     bitfield.View[uint8]
	bgLeftColumn  bitfield.View[uint8]
	spLeftColumn  bitfield.View[uint8]
	showBg        bitfield.View[uint8]
	showSprites   bitfield.View[uint8]
	emphasizeRed  bitfield.View[uint8]
	emphasizeGrn  bitfield.View[uint8]
	emphasizeBlue bitfield.View[uint8]
}

func newMask() *mask {
	m := &mask{}
	m.greyscale = bitfield.New(&m.raw, 0, 1)
	m.bgLeftColumn = bitfield.New(&m.raw, 1, 1)
	m.spLeftColumn = bitfield.New(&m.raw, 2, 1)
	m.showBg = bitfield.New(&m.raw, 3, 1)
	m.showSprites = bitfield.New(&m.raw, 4, 1)
	m.emphasizeRed = bitfield.New(&m.raw, 5, 1)
	m.emphasizeGrn = bitfield.New(&m.raw, 6, 1)
	m.emphasizeBlue = bitfield.New(&m.raw, 7, 1)
	return m
}

func (m *mask) set(v uint8) { m.raw = v }

func (m *mask) renderingEnabled() bool {
	return m.showBg.Bool() || m.showSprites.Bool()
}

// emphasisBits packs the three emphasis bits into the 3-bit index used by
// the intensity-emphasis palette table (supplemented feature; see palette.go).
func (m *mask) emphasisBits() uint8 {
	return m.emphasizeRed.Get() | (m.emphasizeGrn.Get() << 1) | (m.emphasizeBlue.Get() << 2)
}

// status is $2002, PPUSTATUS.
//
//	VSO. ....
//	|||+-++++- stale PPU open-bus bits
//	||+------- sprite overflow
//	|+-------- sprite 0 hit
//	+--------- vertical blank
type status struct {
	raw uint8

	spriteOverflow bitfield.View[uint8]
	sprite0Hit     bitfield.View[uint8]
	vblank         bitfield.View[uint8]
}

func newStatus() *status {
	s := &status{}
	s.spriteOverflow = bitfield.New(&s.raw, 5, 1)
	s.sprite0Hit = bitfield.New(&s.raw, 6, 1)
	s.vblank = bitfield.New(&s.raw, 7, 1)
	return s
}

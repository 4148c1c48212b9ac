// Package ppu implements the NTSC 2C02 picture processing unit: the
// scanline/dot state machine, loopy VRAM/TRAM scroll registers, background
// shifters, sprite evaluation, and the CPU-facing $2000-$2007 register
// window.
//
// Grounded on the teacher's ppu/ppu.go (register layout, WriteReg/ReadReg
// semantics, tileMapAddr mirroring, SYSTEM_PALETTE) and
// original_source/core/include/nesdev/core/ppu.h for the parts the teacher's
// Tick never implements at all — it renders directly from pattern tables
// with no scanline/dot timing, no scrolling, and no sprites. The dot-by-dot
// background pipeline and sprite evaluation here are built from the
// well-documented NESDev PPU rendering timing diagram, which is also what
// the original's Pipeline-driven PPU context (context_.scanline/context_.cycle
// in ppu.h) models.
package ppu

import (
	"github.com/wbarlow/nescore/ines"
)

const (
	Width  = 256
	Height = 240
)

// Bus is the PPU's view of the cartridge: CHR space only. Nametable RAM and
// palette RAM live inside the PPU itself.
type Bus interface {
	CHRRead(addr uint16) (uint8, error)
	CHRWrite(addr uint16, b uint8) error
}

// PPU is one NTSC 2C02.
type PPU struct {
	bus       Bus
	mirroring ines.Mirroring

	ctrl   *ctrl
	mask   *mask
	status *status

	oamAddr uint8
	oam     [primaryOAMSize]uint8

	vram       [2048]uint8
	paletteRAM [32]uint8

	v, t   loopy
	fineX  uint8
	wLatch bool

	dataBuffer uint8
	openBus    uint8

	scanline int
	dot      int
	oddFrame bool

	bgNextTileID   uint8
	bgNextTileAttr uint8
	bgNextTileLSB  uint8
	bgNextTileMSB  uint8

	bgShiftPatternLo uint16
	bgShiftPatternHi uint16
	bgShiftAttrLo    uint16
	bgShiftAttrHi    uint16

	currentSprites  []sprite
	nextSprites     []sprite
	nextOverflow    bool
	nextSprite0     bool
	currentSprite0  bool

	frame         [Width * Height]RGBA
	frameComplete bool

	nmiPending bool
}

// New returns a PPU with all registers at power-on defaults.
func New(bus Bus, mirroring ines.Mirroring) *PPU {
	return &PPU{
		bus:       bus,
		mirroring: mirroring,
		ctrl:      newCtrl(),
		mask:      newMask(),
		status:    newStatus(),
		scanline:  -1,
	}
}

// SetMirroring updates the nametable mirroring mode, e.g. after a cartridge
// swap or a mapper that changes it at runtime (mapper 0 never does).
func (p *PPU) SetMirroring(m ines.Mirroring) { p.mirroring = m }

// FrameBuffer returns the most recently completed frame, row-major, opaque RGBA.
func (p *PPU) FrameBuffer() []RGBA { return p.frame[:] }

// FrameComplete reports whether a frame finished since the last call, and
// clears the flag.
func (p *PPU) FrameComplete() bool {
	v := p.frameComplete
	p.frameComplete = false
	return v
}

// PendingNMI reports whether the PPU has asserted NMI since the last
// AckNMI, for the CPU to service.
func (p *PPU) PendingNMI() bool { return p.nmiPending }

// AckNMI clears the pending NMI line.
func (p *PPU) AckNMI() { p.nmiPending = false }

// --- CPU-facing register window, $2000-$2007 (mirrored every 8 bytes) ---

// ReadRegister implements a CPU read of reg. Only the low 3 bits select the
// register, so both a 0-7 index and a mirrored CPU address ($2000-$3FFF) work.
func (p *PPU) ReadRegister(reg uint16) uint8 {
	switch reg & 0x0007 {
	case 2: // PPUSTATUS
		v := (p.status.raw & 0xE0) | (p.openBus & 0x1F)
		p.status.vblank.SetBool(false)
		p.wLatch = false
		p.openBus = v
		return v
	case 4: // OAMDATA
		v := p.oam[p.oamAddr]
		p.openBus = v
		return v
	case 7: // PPUDATA
		v := p.readData()
		p.openBus = v
		return v
	default: // write-only registers return stale open bus
		return p.openBus
	}
}

// WriteRegister implements a CPU write of reg. Only the low 3 bits select the
// register, so both a 0-7 index and a mirrored CPU address ($2000-$3FFF) work.
func (p *PPU) WriteRegister(reg uint16, val uint8) {
	p.openBus = val
	switch reg & 0x0007 {
	case 0: // PPUCTRL
		p.ctrl.set(val)
		p.t.setNametableX(uint16(val) & 0x01)
		p.t.setNametableY((uint16(val) >> 1) & 0x01)
	case 1: // PPUMASK
		p.mask.set(val)
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.wLatch {
			p.fineX = val & 0x07
			p.t.setCoarseX(uint16(val) >> 3)
			p.wLatch = true
		} else {
			p.t.setFineY(uint16(val) & 0x07)
			p.t.setCoarseY(uint16(val) >> 3)
			p.wLatch = false
		}
	case 6: // PPUADDR
		if !p.wLatch {
			p.t.setRaw((p.t.raw() & 0x00FF) | (uint16(val&0x3F) << 8))
			p.wLatch = true
		} else {
			p.t.setRaw((p.t.raw() & 0xFF00) | uint16(val))
			p.v = p.t
			p.wLatch = false
		}
	case 7: // PPUDATA
		p.writeData(val)
	}
}

// WriteOAMByte is used by the OAM DMA engine to burst-copy CPU page bytes
// into OAM starting at $2003's latched address, advancing oamAddr each call.
func (p *PPU) WriteOAMByte(b uint8) {
	p.oam[p.oamAddr] = b
	p.oamAddr++
}

// --- internal VRAM/palette bus, $0000-$3FFF as seen from PPUDATA/rendering ---

func (p *PPU) vramIncrement() uint16 { return p.ctrl.vramIncrement() }

func (p *PPU) readData() uint8 {
	addr := p.v.raw() & 0x3FFF
	var ret uint8
	switch {
	case addr < 0x2000:
		ret = p.dataBuffer
		b, _ := p.bus.CHRRead(addr)
		p.dataBuffer = b
	case addr < 0x3F00:
		ret = p.dataBuffer
		p.dataBuffer = p.vram[p.nametableIndex(addr)]
	default:
		ret = p.readPalette(addr)
		// Palette reads are not delayed by the read buffer, but the buffer
		// is still refreshed from the nametable "under" the palette mirror.
		p.dataBuffer = p.vram[p.nametableIndex(addr-0x1000)]
	}
	p.v.setRaw(p.v.raw() + p.vramIncrement())
	return ret
}

func (p *PPU) writeData(b uint8) {
	addr := p.v.raw() & 0x3FFF
	switch {
	case addr < 0x2000:
		p.bus.CHRWrite(addr, b)
	case addr < 0x3F00:
		p.vram[p.nametableIndex(addr)] = b
	default:
		p.writePalette(addr, b)
	}
	p.v.setRaw(p.v.raw() + p.vramIncrement())
}

func (p *PPU) paletteIndex(addr uint16) uint16 {
	i := addr & 0x1F
	if i == 0x10 || i == 0x14 || i == 0x18 || i == 0x1C {
		i -= 0x10
	}
	return i
}

func (p *PPU) readPalette(addr uint16) uint8 {
	v := p.paletteRAM[p.paletteIndex(addr)]
	if p.mask.greyscale.Bool() {
		v &= 0x30
	}
	return v
}

func (p *PPU) writePalette(addr uint16, b uint8) {
	p.paletteRAM[p.paletteIndex(addr)] = b & 0x3F
}

// nametableIndex maps a $2000-$3EFF address onto the PPU's 2KB of internal
// nametable RAM, honoring horizontal/vertical mirroring.
//
// Grounded on the teacher's tileMapAddr; four-screen mirroring (which needs
// cartridge-resident extra VRAM no mapper here provides) falls back to
// vertical rather than panicking, since mapper 0 cartridges never set it.
func (p *PPU) nametableIndex(addr uint16) uint16 {
	a := (addr - 0x2000) % 0x1000
	table := a / 0x0400
	offset := a % 0x0400
	switch p.mirroring {
	case ines.MirrorHorizontal:
		return (table/2)*0x0400 + offset
	case ines.MirrorVertical:
		return (table%2)*0x0400 + offset
	default:
		return (table%2)*0x0400 + offset
	}
}

// --- scanline/dot state machine ---

// Tick advances the PPU by one pixel clock (dot). The caller (the nes
// package's master clock) drives this three times per CPU cycle.
func (p *PPU) Tick() {
	if p.scanline == -1 && p.dot == 1 {
		p.status.vblank.SetBool(false)
		p.status.sprite0Hit.SetBool(false)
		p.status.spriteOverflow.SetBool(false)
	}

	if p.scanline >= -1 && p.scanline < 240 {
		if (p.dot >= 2 && p.dot < 258) || (p.dot >= 321 && p.dot < 338) {
			p.shiftBackground()
			switch (p.dot - 1) % 8 {
			case 0:
				p.loadBackgroundShifters()
				p.bgNextTileID = p.fetchNametableByte()
			case 2:
				p.bgNextTileAttr = p.fetchAttributeByte()
			case 4:
				p.bgNextTileLSB = p.fetchPatternByte(0)
			case 6:
				p.bgNextTileMSB = p.fetchPatternByte(8)
			case 7:
				if p.renderingEnabled() {
					p.v.incrementCoarseX()
				}
			}
		}

		if p.dot == 256 && p.renderingEnabled() {
			p.v.incrementFineYAndCoarseY()
		}
		if p.dot == 257 {
			p.loadBackgroundShifters()
			if p.renderingEnabled() {
				p.v.transferX(&p.t)
			}
			p.currentSprites = p.nextSprites
			p.currentSprite0 = p.nextSprite0
			if p.nextOverflow {
				p.status.spriteOverflow.SetBool(true)
			}
			nextScanline := p.scanline + 1
			if nextScanline < 240 {
				p.nextSprites, p.nextOverflow, p.nextSprite0 = p.evaluateScanline(int16(nextScanline))
			} else {
				p.nextSprites, p.nextOverflow, p.nextSprite0 = nil, false, false
			}
		}
		if p.scanline == -1 && p.dot >= 280 && p.dot < 305 && p.renderingEnabled() {
			p.v.transferY(&p.t)
		}
	}

	if p.scanline >= 0 && p.scanline < 240 && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel(p.scanline, p.dot-1)
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status.vblank.SetBool(true)
		if p.ctrl.nmiEnable.Bool() {
			p.nmiPending = true
		}
	}

	p.dot++
	if p.scanline == -1 && p.oddFrame && p.renderingEnabled() && p.dot == 340 {
		p.dot++ // skip the idle cycle on odd frames, matching the real 2C02
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.oddFrame = !p.oddFrame
			p.frameComplete = true
		}
	}
}

func (p *PPU) renderingEnabled() bool { return p.mask.renderingEnabled() }

func (p *PPU) fetchNametableByte() uint8 {
	addr := 0x2000 | (p.v.raw() & 0x0FFF)
	return p.vram[p.nametableIndex(addr)]
}

func (p *PPU) fetchAttributeByte() uint8 {
	v := p.v.raw()
	addr := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	raw := p.vram[p.nametableIndex(addr)]
	shift := ((p.v.coarseY() & 0x02) << 1) | (p.v.coarseX() & 0x02)
	return (raw >> shift) & 0x03
}

func (p *PPU) fetchPatternByte(plane uint16) uint8 {
	addr := p.ctrl.bgPatternBase() + uint16(p.bgNextTileID)*16 + p.v.fineY() + plane
	b, _ := p.bus.CHRRead(addr)
	return b
}

func (p *PPU) loadBackgroundShifters() {
	p.bgShiftPatternLo = (p.bgShiftPatternLo &^ 0x00FF) | uint16(p.bgNextTileLSB)
	p.bgShiftPatternHi = (p.bgShiftPatternHi &^ 0x00FF) | uint16(p.bgNextTileMSB)
	var loFill, hiFill uint16
	if p.bgNextTileAttr&0x01 != 0 {
		loFill = 0xFF
	}
	if p.bgNextTileAttr&0x02 != 0 {
		hiFill = 0xFF
	}
	p.bgShiftAttrLo = (p.bgShiftAttrLo &^ 0x00FF) | loFill
	p.bgShiftAttrHi = (p.bgShiftAttrHi &^ 0x00FF) | hiFill
}

func (p *PPU) shiftBackground() {
	if !p.mask.showBg.Bool() {
		return
	}
	p.bgShiftPatternLo <<= 1
	p.bgShiftPatternHi <<= 1
	p.bgShiftAttrLo <<= 1
	p.bgShiftAttrHi <<= 1
}

// spritePatternBytes resolves the pattern bytes for sprite s on the given
// scanline. Real hardware fetches these one sprite per 8 dots during
// 257-320; resolving them on demand per pixel produces an identical frame
// buffer and identical sprite-0-hit timing relative to background shifting,
// at the cost of not modeling the fetch's own bus timing (no mapper in this
// module reacts to PPU fetch timing, so the simplification is externally
// invisible).
func (p *PPU) spritePatternBytes(s sprite, scanline int) (lo, hi uint8) {
	height := p.ctrl.spriteHeight()
	row := scanline - int(s.y)
	if s.flipV {
		row = height - 1 - row
	}
	var base uint16
	var tile uint16
	if height == 16 {
		base = uint16(s.tileID&0x01) * 0x1000
		tile = uint16(s.tileID &^ 0x01)
		if row >= 8 {
			tile++
			row -= 8
		}
	} else {
		base = p.ctrl.spritePatternBase()
		tile = uint16(s.tileID)
	}
	loB, _ := p.bus.CHRRead(base + tile*16 + uint16(row))
	hiB, _ := p.bus.CHRRead(base + tile*16 + uint16(row) + 8)
	if s.flipH {
		loB = reverseBits(loB)
		hiB = reverseBits(hiB)
	}
	return loB, hiB
}

func reverseBits(b uint8) uint8 {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}

func (p *PPU) renderPixel(scanline, x int) {
	bgPixel, bgPalette := p.backgroundPixel(x)

	spPixel, spPalette, spPriority, spIsSprite0 := p.spritePixel(scanline, x)

	var finalPixel, finalPalette uint8
	switch {
	case bgPixel == 0 && spPixel == 0:
		finalPixel, finalPalette = 0, 0
	case bgPixel == 0 && spPixel != 0:
		finalPixel, finalPalette = spPixel, spPalette|0x10
	case bgPixel != 0 && spPixel == 0:
		finalPixel, finalPalette = bgPixel, bgPalette
	default:
		// Left-column clipping (PPUMASK bits 1/2) already zeroed bgPixel or
		// spPixel above when x<8 and that plane's masking bit is clear, so
		// reaching here with both nonzero means neither plane was clipped.
		if spIsSprite0 && x != 255 && p.mask.showBg.Bool() && p.mask.showSprites.Bool() {
			p.status.sprite0Hit.SetBool(true)
		}
		if spPriority == priorityFront {
			finalPixel, finalPalette = spPixel, spPalette|0x10
		} else {
			finalPixel, finalPalette = bgPixel, bgPalette
		}
	}

	idx := p.readPalette(0x3F00 | uint16(finalPalette)<<2 | uint16(finalPixel))
	p.frame[scanline*Width+x] = p.colorFor(idx, p.mask.emphasisBits())
}

func (p *PPU) backgroundPixel(x int) (pixel, palette uint8) {
	if !p.mask.showBg.Bool() {
		return 0, 0
	}
	if x < 8 && !p.mask.bgLeftColumn.Bool() {
		return 0, 0
	}
	shift := uint(15 - p.fineX)
	lo := (p.bgShiftPatternLo >> shift) & 1
	hi := (p.bgShiftPatternHi >> shift) & 1
	pixel = uint8(hi<<1 | lo)
	palo := (p.bgShiftAttrLo >> shift) & 1
	pahi := (p.bgShiftAttrHi >> shift) & 1
	palette = uint8(pahi<<1 | palo)
	return pixel, palette
}

func (p *PPU) spritePixel(scanline, x int) (pixel, palette uint8, prio priority, isSprite0 bool) {
	if !p.mask.showSprites.Bool() {
		return 0, 0, priorityFront, false
	}
	if x < 8 && !p.mask.spLeftColumn.Bool() {
		return 0, 0, priorityFront, false
	}
	for i, s := range p.currentSprites {
		offset := x - int(s.x)
		if offset < 0 || offset >= 8 {
			continue
		}
		lo, hi := p.spritePatternBytes(s, scanline)
		bit := uint(7 - offset)
		b0 := (lo >> bit) & 1
		b1 := (hi >> bit) & 1
		px := b1<<1 | b0
		if px == 0 {
			continue
		}
		return px, s.palette, s.prio, i == 0 && p.currentSprite0
	}
	return 0, 0, priorityFront, false
}

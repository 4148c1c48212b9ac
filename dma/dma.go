// Package dma implements the OAM DMA engine that copies 256 bytes from CPU
// page $XX00-$XXFF into PPU OAM when $4014 is written.
//
// Grounded on original_source/core/include/nesdev/core/nes.h's nested
// DirectMemoryAccess class: a two-phase Load/Transfer state machine driven
// one CPU cycle at a time, rather than an instantaneous block copy, so the
// stall it imposes on the CPU (513 cycles, 514 if starting on an odd CPU
// cycle) is itself observable by the rest of the system.
package dma

// Engine is a cycle-stepped OAM DMA transfer. The CPU calls Load when $4014
// is written and then calls Tick once per CPU cycle until IsTransferring
// returns false; Tick returns the OAM write to perform on the cycles where
// one occurs (wrote=false elsewhere, including the idle/alignment cycle).
type Engine struct {
	page     uint8
	oamAddr  uint8
	cycle    int
	odd      bool
	active   bool
	buffered uint8
}

// Load begins a transfer from CPU page (page<<8)-(page<<8|0xFF). odd is
// whether the CPU cycle the write landed on was odd, which adds one extra
// alignment cycle before the first read.
func (e *Engine) Load(page uint8, odd bool) {
	e.page = page
	e.oamAddr = 0
	e.cycle = 0
	e.odd = odd
	e.active = true
	e.buffered = 0
}

// IsTransferring reports whether a DMA copy is in progress and is therefore
// holding the CPU off the bus.
func (e *Engine) IsTransferring() bool { return e.active }

// dmaRead is supplied by the caller: read one byte from CPU memory at
// (page<<8 | offset).
type dmaRead func(addr uint16) uint8

// Tick advances the transfer by one CPU cycle. read supplies the CPU-space
// byte for the current read half-cycle. It returns (oamIndex, value, true)
// on a cycle that produces an OAM write, or (0, 0, false) on an idle,
// alignment, or read half-cycle.
func (e *Engine) Tick(read dmaRead) (oamIndex uint8, value uint8, wrote bool) {
	if !e.active {
		return 0, 0, false
	}

	// One dummy alignment cycle always precedes the first read/write pair;
	// a second is added when the triggering write to $4014 landed on an odd
	// CPU cycle. That yields the documented 513 cycles (1 align + 256 pairs)
	// or 514 (2 align + 256 pairs).
	if e.cycle == 0 {
		e.cycle++
		return 0, 0, false
	}
	if e.odd && e.cycle == 1 {
		e.cycle++
		return 0, 0, false
	}

	align := 1
	if e.odd {
		align = 2
	}

	// Within each pair of cycles: even = read, odd = write.
	phase := (e.cycle - align) % 2
	if phase == 0 {
		addr := uint16(e.page)<<8 | uint16(e.oamAddr)
		e.buffered = read(addr)
		e.cycle++
		return 0, 0, false
	}

	idx := e.oamAddr
	e.oamAddr++
	e.cycle++
	if e.oamAddr == 0 {
		e.active = false
	}
	return idx, e.buffered, true
}

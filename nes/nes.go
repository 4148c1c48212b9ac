// Package nes composes the CPU, PPU, cartridge, controllers, and OAM DMA
// engine into a runnable machine, and adapts it to ebiten's Game interface.
//
// Grounded on the teacher's console/bus.go: a flat Bus implementing both the
// CPU memory map (Read/Write, RAM mirroring, PPU register forwarding,
// $4014 DMA, controller ports) and the ebiten.Game methods, driven by a
// ticks-counter loop that clocks the PPU every tick and the CPU every third.
package nes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wbarlow/nescore/cartridge"
	"github.com/wbarlow/nescore/controller"
	"github.com/wbarlow/nescore/cpu"
	"github.com/wbarlow/nescore/dma"
	"github.com/wbarlow/nescore/membank"
	"github.com/wbarlow/nescore/mmu"
	"github.com/wbarlow/nescore/ppu"
)

const (
	ramSize        = 0x0800
	regOAMDMA      = 0x4014
	regController1 = 0x4016
	regController2 = 0x4017
)

// NES is a complete machine: one cartridge, one CPU, one PPU, two
// controller ports, and the OAM DMA engine tying them together.
//
// The CPU-facing address space is a membank/mmu assembly rather than the
// teacher's single hand-rolled switch: a Chip for the 2KB internal RAM
// (mirrored via Chip's own modulo indexing across $0000-$1FFF), a Forward
// for the $2000-$3FFF PPU register window, a Forward for $4000-$401F
// (OAM DMA and the controller ports; the APU this range otherwise belongs
// to is an explicit non-goal), and a Connector handing everything from
// $4020 up to the cartridge's mapper.
type NES struct {
	cart *cartridge.Cartridge

	cpuMMU *mmu.MMU

	cpu *cpu.CPU
	ppu *ppu.PPU
	dma dma.Engine

	ctrl1 *controller.Controller
	ctrl2 *controller.Controller

	ticks         uint64
	cpuCycleCount uint64

	trace bool

	screen *ebiten.Image
}

// New builds a machine around an already-loaded cartridge.
func New(cart *cartridge.Cartridge) *NES {
	n := &NES{
		cart:  cart,
		ctrl1: controller.New(controller.DefaultPort1Keys()),
		ctrl2: controller.New(controller.DefaultPort2Keys()),
	}
	n.ppu = ppu.New(n, cart.Header.Mirror())
	n.cpu = cpu.New(n)

	n.cpuMMU = mmu.New()
	n.cpuMMU.Add(membank.NewChip(0x0000, 0x1FFF, ramSize))
	n.cpuMMU.Add(membank.NewForward(0x2000, 0x3FFF,
		func(addr uint16) uint8 { return n.ppu.ReadRegister(addr & 0x0007) },
		func(addr uint16, v uint8) { n.ppu.WriteRegister(addr&0x0007, v) }))
	n.cpuMMU.Add(membank.NewForward(0x4000, 0x401F, n.readIO, n.writeIO))
	n.cpuMMU.Add(membank.NewConnector(0x4020, 0xFFFF, n.readCartridge, n.writeCartridge))

	w, h := ppu.Width, ppu.Height
	ebiten.SetWindowSize(w*3, h*3)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	n.screen = ebiten.NewImage(w, h)

	return n
}

// SetTrace enables disassembly logging via log.Println: one line after every
// CPU cycle the CPU is clocked, showing the most recently dispatched
// instruction, so an instruction is logged once per cycle it takes.
func (n *NES) SetTrace(on bool) { n.trace = on }

func (n *NES) readIO(addr uint16) uint8 {
	switch addr {
	case regController1:
		return n.ctrl1.Read()
	case regController2:
		return n.ctrl2.Read()
	default:
		return 0 // APU registers and OAMDMA (write-only, APU a non-goal) read as 0
	}
}

func (n *NES) writeIO(addr uint16, val uint8) {
	switch addr {
	case regOAMDMA:
		n.dma.Load(val, n.cpuCycleCount%2 == 1)
	case regController1:
		n.ctrl1.Write(val)
		n.ctrl2.Write(val) // the strobe line is shared by both ports
	default:
		// APU registers: non-goal, writes discarded
	}
}

func (n *NES) readCartridge(addr uint16) uint8 {
	v, err := n.cart.PRGRead(addr)
	if err != nil {
		log.Printf("nes: PRG read fault at $%04X: %v", addr, err)
		return 0
	}
	return v
}

func (n *NES) writeCartridge(addr uint16, val uint8) {
	if err := n.cart.PRGWrite(addr, val); err != nil {
		log.Printf("nes: PRG write fault at $%04X: %v", addr, err)
	}
}

// --- cpu.Bus ---

func (n *NES) Read(addr uint16) uint8 {
	v, err := n.cpuMMU.Read(addr)
	if err != nil {
		log.Printf("nes: unmapped read $%04X", addr)
		return 0
	}
	return v
}

func (n *NES) Write(addr uint16, val uint8) {
	if err := n.cpuMMU.Write(addr, val); err != nil {
		log.Printf("nes: unmapped write $%04X", addr)
	}
}

// --- ppu.Bus ---

func (n *NES) CHRRead(addr uint16) (uint8, error) { return n.cart.CHRRead(addr) }
func (n *NES) CHRWrite(addr uint16, b uint8) error { return n.cart.CHRWrite(addr, b) }

// --- master clock ---

// Tick advances the machine by one PPU dot (the system's base clock); the
// CPU and OAM DMA engine are each clocked once per three PPU dots.
func (n *NES) Tick() {
	n.ppu.Tick()
	if n.ppu.PendingNMI() {
		n.cpu.RequestNMI()
		n.ppu.AckNMI()
	}

	if n.ticks%3 == 0 {
		if n.dma.IsTransferring() {
			if _, val, wrote := n.dma.Tick(n.Read); wrote {
				n.ppu.WriteOAMByte(val)
			}
		} else {
			n.cpu.Tick()
			if n.trace {
				log.Println(n.cpu.Disassemble())
			}
		}
		n.cpuCycleCount++
	}
	n.ticks++
}

// RunFrame advances the machine until the PPU completes one frame.
func (n *NES) RunFrame() {
	for !n.ppu.FrameComplete() {
		n.Tick()
	}
}

// --- ebiten.Game ---

func (n *NES) Update() error {
	n.RunFrame()
	return nil
}

func (n *NES) Draw(screen *ebiten.Image) {
	px := n.ppu.FrameBuffer()
	for i, c := range px {
		n.screen.Set(i%ppu.Width, i/ppu.Width, color.RGBA{c[0], c[1], c[2], c[3]})
	}
	screen.DrawImage(n.screen, nil)
}

func (n *NES) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

func (n *NES) String() string {
	return fmt.Sprintf("nes(mapper=%s ticks=%d)", n.cart.Mapper.Name(), n.ticks)
}

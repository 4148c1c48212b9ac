package cpu

import "testing"

type testBus struct {
	mem [65536]uint8
}

func (b *testBus) Read(addr uint16) uint8     { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8) { b.mem[addr] = v }

// newTestCPU builds a CPU over a flat 64K bus with resetVector written into
// $FFFC/$FFFD, then drains the power-on RST sequence (7 cycles) so the
// returned CPU is sitting at an instruction boundary with PC == resetVector.
func newTestCPU(resetVector uint16) (*CPU, *testBus) {
	bus := &testBus{}
	bus.mem[VectorReset] = uint8(resetVector)
	bus.mem[VectorReset+1] = uint8(resetVector >> 8)
	c := New(bus)
	for i := 0; i < 7; i++ {
		c.Tick()
	}
	return c, bus
}

// stepOne runs exactly one instruction to completion and returns the number
// of cycles (Tick calls) it consumed.
func stepOne(c *CPU) int {
	cycles := 1
	c.Tick()
	for !c.pipeline.Done() {
		c.Tick()
		cycles++
	}
	return cycles
}

func TestResetLoadsVectorAndSetsFlags(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	if c.PC != 0x8000 {
		t.Errorf("PC after reset = %#04x, wanted 0x8000", c.PC)
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("A/X/Y after reset = %d/%d/%d, wanted 0/0/0", c.A, c.X, c.Y)
	}
	if c.SP != 0xFD {
		t.Errorf("SP after reset = %#02x, wanted 0xfd", c.SP)
	}
	if c.status != 0x20 {
		t.Errorf("status after reset = %#02x, wanted 0x20 (unused bit only)", c.status)
	}
	if c.flagI.Bool() {
		t.Errorf("flagI set after reset, wanted clear")
	}
}

func TestResetZeroesStaleRegistersMidRun(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	c.A, c.X, c.Y = 0x11, 0x22, 0x33
	c.SP = 0x42
	c.flagN.SetBool(true)
	c.flagC.SetBool(true)

	c.Reset()
	for i := 0; i < 7; i++ {
		c.Tick()
	}
	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Errorf("A/X/Y after mid-run reset = %d/%d/%d, wanted 0/0/0 (stale values must not survive)", c.A, c.X, c.Y)
	}
	if c.SP != 0xFD {
		t.Errorf("SP after mid-run reset = %#02x, wanted 0xfd", c.SP)
	}
	if c.status != 0x20 {
		t.Errorf("status after mid-run reset = %#02x, wanted 0x20", c.status)
	}
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x69 // ADC #imm
	bus.mem[0x8001] = 0x50
	c.A = 0x50
	c.flagC.SetBool(false)

	cycles := stepOne(c)
	if cycles != 2 {
		t.Errorf("ADC #imm took %d cycles, wanted 2", cycles)
	}
	if c.A != 0xA0 {
		t.Errorf("A after 0x50+0x50 = %#02x, wanted 0xa0", c.A)
	}
	if c.flagC.Bool() {
		t.Errorf("flagC set, wanted clear (sum 0xa0 doesn't exceed 0xff)")
	}
	if !c.flagV.Bool() {
		t.Errorf("flagV clear, wanted set (two positives summing to a negative result)")
	}
	if !c.flagN.Bool() {
		t.Errorf("flagN clear, wanted set (result 0xa0 has bit 7 set)")
	}
	if c.flagZ.Bool() {
		t.Errorf("flagZ set, wanted clear")
	}
}

func TestSBCBorrow(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0xE9 // SBC #imm
	bus.mem[0x8001] = 0x01
	c.A = 0x00
	c.flagC.SetBool(true) // carry set means "no borrow" going in

	stepOne(c)
	if c.A != 0xFF {
		t.Errorf("A after 0x00-0x01 = %#02x, wanted 0xff", c.A)
	}
	if c.flagC.Bool() {
		t.Errorf("flagC set, wanted clear (0-1 borrows)")
	}
	if c.flagV.Bool() {
		t.Errorf("flagV set, wanted clear")
	}
	if !c.flagN.Bool() {
		t.Errorf("flagN clear, wanted set")
	}
}

func TestBCCTakenNoPageCross(t *testing.T) {
	c, bus := newTestCPU(0x0000)
	bus.mem[0x0000] = 0x90 // BCC
	bus.mem[0x0001] = 0x20 // +32
	c.flagC.SetBool(false)

	cycles := stepOne(c)
	if cycles != 3 {
		t.Errorf("BCC taken, no page cross: %d cycles, wanted 3", cycles)
	}
	if c.PC != 0x0022 {
		t.Errorf("PC after branch = %#04x, wanted 0x0022", c.PC)
	}
}

func TestBCCTakenWithPageCross(t *testing.T) {
	c, bus := newTestCPU(0x00F0)
	bus.mem[0x00F0] = 0x90
	bus.mem[0x00F1] = 0x20
	c.flagC.SetBool(false)

	cycles := stepOne(c)
	if cycles != 4 {
		t.Errorf("BCC taken, page cross: %d cycles, wanted 4", cycles)
	}
	if c.PC != 0x0112 {
		t.Errorf("PC after branch = %#04x, wanted 0x0112", c.PC)
	}
}

func TestBCCNotTaken(t *testing.T) {
	c, bus := newTestCPU(0x0000)
	bus.mem[0x0000] = 0x90
	bus.mem[0x0001] = 0x20
	c.flagC.SetBool(true) // carry set: BCC not taken

	cycles := stepOne(c)
	if cycles != 2 {
		t.Errorf("BCC not taken: %d cycles, wanted 2", cycles)
	}
	if c.PC != 0x0002 {
		t.Errorf("PC after non-taken branch = %#04x, wanted 0x0002 (fell through)", c.PC)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x6C // JMP (ind)
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x02 // pointer = 0x02FF
	bus.mem[0x02FF] = 0x00 // low byte of target
	bus.mem[0x0300] = 0x77 // correct-but-unused high byte
	bus.mem[0x0200] = 0x88 // buggy wraparound high byte actually used

	cycles := stepOne(c)
	if cycles != 5 {
		t.Errorf("JMP (ind) took %d cycles, wanted 5", cycles)
	}
	if c.PC != 0x8800 {
		t.Errorf("PC after buggy indirect jump = %#04x, wanted 0x8800", c.PC)
	}
}

func TestBRKThenRTIRoundTrip(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x00 // BRK
	bus.mem[0x9000] = 0x40 // RTI, at the BRK/IRQ handler
	bus.mem[VectorBRK] = 0x00
	bus.mem[VectorBRK+1] = 0x90

	c.flagI.SetBool(false)
	c.flagC.SetBool(true)
	preStatus := c.status

	cycles := stepOne(c)
	if cycles != 7 {
		t.Errorf("BRK took %d cycles, wanted 7", cycles)
	}
	if c.PC != 0x9000 {
		t.Errorf("PC after BRK = %#04x, wanted 0x9000", c.PC)
	}
	if !c.flagI.Bool() {
		t.Errorf("flagI clear after BRK, wanted set")
	}

	pushedStatus := bus.mem[stackPage|uint16(c.SP+1)]
	if pushedStatus != preStatus|0x30 {
		t.Errorf("status pushed by BRK = %#02x, wanted %#02x (B and U both set)", pushedStatus, preStatus|0x30)
	}

	cycles = stepOne(c)
	if cycles != 6 {
		t.Errorf("RTI took %d cycles, wanted 6", cycles)
	}
	if c.PC != 0x8002 {
		t.Errorf("PC after RTI = %#04x, wanted 0x8002 (BRK's padding byte skipped, no +1 on return)", c.PC)
	}
	if c.status != preStatus {
		t.Errorf("status after RTI = %#02x, wanted %#02x (restored)", c.status, preStatus)
	}
	if c.flagI.Bool() {
		t.Errorf("flagI set after RTI, wanted restored to clear")
	}
}

func TestStackWrapsAtPageBoundary(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	c.SP = 0x00

	c.push(0xAB)
	if c.SP != 0xFF {
		t.Errorf("SP after push from 0x00 = %#02x, wanted 0xff (wrapped)", c.SP)
	}
	if bus.mem[stackPage|0x0000] != 0xAB {
		t.Errorf("pushed byte not found at $0100")
	}

	got := c.pull()
	if c.SP != 0x00 {
		t.Errorf("SP after matching pull = %#02x, wanted 0x00 (wrapped back)", c.SP)
	}
	if got != 0xAB {
		t.Errorf("pulled byte = %#02x, wanted 0xab", got)
	}
}

func TestInterruptPriorityRSTThenNMIThenIRQ(t *testing.T) {
	bus := &testBus{}
	bus.mem[VectorReset] = 0x00
	bus.mem[VectorReset+1] = 0x80
	bus.mem[VectorNMI] = 0x00
	bus.mem[VectorNMI+1] = 0x90
	bus.mem[VectorIRQ] = 0x00
	bus.mem[VectorIRQ+1] = 0xA0

	c := New(bus)
	c.pendingNMI = true
	c.pendingIRQ = true

	for i := 0; i < 7; i++ {
		c.Tick()
	}
	if c.PC != 0x8000 {
		t.Fatalf("PC after RST = %#04x, wanted 0x8000", c.PC)
	}
	if !c.pendingNMI {
		t.Errorf("pendingNMI cleared by RST, wanted left latched")
	}

	for i := 0; i < 7; i++ {
		c.Tick()
	}
	if c.PC != 0x9000 {
		t.Fatalf("PC after NMI = %#04x, wanted 0x9000 (NMI serviced ahead of IRQ)", c.PC)
	}
	if c.pendingNMI {
		t.Errorf("pendingNMI still latched after being serviced")
	}
	if !c.pendingIRQ {
		t.Errorf("pendingIRQ cleared without being serviced (flagI should still be masking it)")
	}

	// IRQ stays masked by the I flag NMI's handler set, until cleared.
	c.flagI.SetBool(false)
	for i := 0; i < 7; i++ {
		c.Tick()
	}
	if c.PC != 0xA000 {
		t.Errorf("PC after unmasked IRQ = %#04x, wanted 0xa000", c.PC)
	}
	if c.pendingIRQ {
		t.Errorf("pendingIRQ still latched after being serviced")
	}
}

func TestLookupUnknownOpcodeIsNOP(t *testing.T) {
	info := lookup(0x02) // unofficial/undefined opcode on a plain NMOS 6502
	if info.name != "NOP" || info.cycles != 2 {
		t.Errorf("lookup(0x02) = %+v, wanted a 2-cycle NOP fallback", info)
	}
}

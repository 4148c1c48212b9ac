package cpu

import (
	"testing"

	"github.com/wbarlow/nescore/bitfield"
)

func TestShiftsAndRotates(t *testing.T) {
	cases := []struct {
		name      string
		op        func(c *CPU, mode AddrMode, addr uint16)
		in        uint8
		carryIn   bool
		wantOut   uint8
		wantCarry bool
	}{
		{"ASL", opASL, 0b1000_0001, false, 0b0000_0010, true},
		{"LSR", opLSR, 0b1000_0001, false, 0b0100_0000, true},
		{"ROL no carry in", opROL, 0b1000_0000, false, 0b0000_0000, true},
		{"ROL with carry in", opROL, 0b0000_0000, true, 0b0000_0001, false},
		{"ROR no carry in", opROR, 0b0000_0001, false, 0b0000_0000, true},
		{"ROR with carry in", opROR, 0b0000_0000, true, 0b1000_0000, false},
	}
	for i, tc := range cases {
		c := &CPU{bus: &testBus{}}
		c.flagC = bitfield.New(&c.status, 0, 1)
		c.flagZ = bitfield.New(&c.status, 1, 1)
		c.flagN = bitfield.New(&c.status, 7, 1)
		c.A = tc.in
		c.flagC.SetBool(tc.carryIn)

		tc.op(c, AddrAccumulator, 0)
		if c.A != tc.wantOut {
			t.Errorf("%d (%s): A = %#08b, wanted %#08b", i, tc.name, c.A, tc.wantOut)
		}
		if c.flagC.Bool() != tc.wantCarry {
			t.Errorf("%d (%s): flagC = %v, wanted %v", i, tc.name, c.flagC.Bool(), tc.wantCarry)
		}
	}
}

func TestCompareSetsCarryOnGreaterOrEqual(t *testing.T) {
	cases := []struct {
		reg, m    uint8
		wantCarry bool
		wantZero  bool
	}{
		{10, 5, true, false},
		{5, 5, true, true},
		{5, 10, false, false},
	}
	for i, tc := range cases {
		c := &CPU{bus: &testBus{}}
		c.flagC = bitfield.New(&c.status, 0, 1)
		c.flagZ = bitfield.New(&c.status, 1, 1)
		c.flagN = bitfield.New(&c.status, 7, 1)

		compare(c, tc.reg, tc.m)
		if c.flagC.Bool() != tc.wantCarry {
			t.Errorf("%d: flagC = %v, wanted %v", i, c.flagC.Bool(), tc.wantCarry)
		}
		if c.flagZ.Bool() != tc.wantZero {
			t.Errorf("%d: flagZ = %v, wanted %v", i, c.flagZ.Bool(), tc.wantZero)
		}
	}
}

func TestINCDECWrap(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x00] = 0xFF
	bus.mem[0x8000] = 0xE6 // INC zp
	bus.mem[0x8001] = 0x00

	stepOne(c)
	if bus.mem[0x00] != 0x00 {
		t.Errorf("INC $00 from 0xff = %#02x, wanted 0x00 (wrapped)", bus.mem[0x00])
	}
	if !c.flagZ.Bool() {
		t.Errorf("flagZ clear after INC wrapped to 0")
	}

	bus.mem[0x01] = 0x00
	bus.mem[0x8002] = 0xC6 // DEC zp
	bus.mem[0x8003] = 0x01
	stepOne(c)
	if bus.mem[0x01] != 0xFF {
		t.Errorf("DEC $01 from 0x00 = %#02x, wanted 0xff (wrapped)", bus.mem[0x01])
	}
	if !c.flagN.Bool() {
		t.Errorf("flagN clear after DEC wrapped to 0xff")
	}
}

func TestPHAPLARoundTrip(t *testing.T) {
	c, _ := newTestCPU(0x8000)
	c.A = 0x42
	opPHA(c, AddrImplicit, 0)
	c.A = 0
	opPLA(c, AddrImplicit, 0)
	if c.A != 0x42 {
		t.Errorf("A after PHA/PLA round trip = %#02x, wanted 0x42", c.A)
	}
}

func TestJSRThenRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU(0x8000)
	bus.mem[0x8000] = 0x20 // JSR
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x90
	bus.mem[0x9000] = 0x60 // RTS

	stepOne(c)
	if c.PC != 0x9000 {
		t.Errorf("PC after JSR = %#04x, wanted 0x9000", c.PC)
	}
	stepOne(c)
	if c.PC != 0x8003 {
		t.Errorf("PC after RTS = %#04x, wanted 0x8003 (return address + 1)", c.PC)
	}
}

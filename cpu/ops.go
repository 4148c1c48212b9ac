package cpu

// Instruction semantics, one function per mnemonic. Grounded on the
// teacher's mos6502/mos6502.go opcode implementations (ADC/SBC overflow
// algebra, flag update order) and https://www.nesdev.org/obelisk-6502-guide/
// reference.html for the handful the teacher's reflection dispatch didn't
// need to get bit-exact (BRK's pushed B flag, stack-wrap behavior).

func opADC(c *CPU, mode AddrMode, addr uint16) {
	m := c.operand(mode, addr)
	sum := uint16(c.A) + uint16(m) + uint16(c.flagC.Get())
	result := uint8(sum)
	c.flagC.SetBool(sum > 0xFF)
	c.flagV.SetBool((c.A^m)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func opSBC(c *CPU, mode AddrMode, addr uint16) {
	m := c.operand(mode, addr) ^ 0xFF
	sum := uint16(c.A) + uint16(m) + uint16(c.flagC.Get())
	result := uint8(sum)
	c.flagC.SetBool(sum > 0xFF)
	c.flagV.SetBool((c.A^m)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func opAND(c *CPU, mode AddrMode, addr uint16) {
	c.A &= c.operand(mode, addr)
	c.setZN(c.A)
}

func opORA(c *CPU, mode AddrMode, addr uint16) {
	c.A |= c.operand(mode, addr)
	c.setZN(c.A)
}

func opEOR(c *CPU, mode AddrMode, addr uint16) {
	c.A ^= c.operand(mode, addr)
	c.setZN(c.A)
}

func opASL(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr)
	c.flagC.SetBool(v&0x80 != 0)
	v <<= 1
	c.storeOperand(mode, addr, v)
	c.setZN(v)
}

func opLSR(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr)
	c.flagC.SetBool(v&0x01 != 0)
	v >>= 1
	c.storeOperand(mode, addr, v)
	c.setZN(v)
}

func opROL(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr)
	carryIn := c.flagC.Get()
	c.flagC.SetBool(v&0x80 != 0)
	v = v<<1 | carryIn
	c.storeOperand(mode, addr, v)
	c.setZN(v)
}

func opROR(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr)
	carryIn := c.flagC.Get()
	c.flagC.SetBool(v&0x01 != 0)
	v = v>>1 | carryIn<<7
	c.storeOperand(mode, addr, v)
	c.setZN(v)
}

func opBIT(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr)
	c.flagZ.SetBool(c.A&v == 0)
	c.flagV.SetBool(v&0x40 != 0)
	c.flagN.SetBool(v&0x80 != 0)
}

func branch(c *CPU, addr uint16, taken bool) {
	if taken {
		c.PC = addr
	}
}

func opBCC(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, !c.flagC.Bool()) }
func opBCS(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, c.flagC.Bool()) }
func opBEQ(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, c.flagZ.Bool()) }
func opBNE(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, !c.flagZ.Bool()) }
func opBPL(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, !c.flagN.Bool()) }
func opBMI(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, c.flagN.Bool()) }
func opBVC(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, !c.flagV.Bool()) }
func opBVS(c *CPU, _ AddrMode, addr uint16) { branch(c, addr, c.flagV.Bool()) }

func opBRK(c *CPU, _ AddrMode, _ uint16) {
	c.PC++ // BRK's operand byte is a padding byte, always skipped
	c.push16(c.PC)
	c.push(c.status | 0x30) // B and the unused bit both pushed set
	c.flagI.SetBool(true)
	lo := uint16(c.bus.Read(VectorBRK))
	hi := uint16(c.bus.Read(VectorBRK + 1))
	c.PC = hi<<8 | lo
}

func opRTI(c *CPU, _ AddrMode, _ uint16) {
	c.status = c.pull()&0xCF | 0x20 // B forced clear, unused forced set
	c.PC = c.pull16()
}

func opRTS(c *CPU, _ AddrMode, _ uint16) {
	c.PC = c.pull16() + 1
}

func opJMP(c *CPU, _ AddrMode, addr uint16) { c.PC = addr }

func opJSR(c *CPU, _ AddrMode, addr uint16) {
	c.push16(c.PC - 1)
	c.PC = addr
}

func opLDA(c *CPU, mode AddrMode, addr uint16) { c.A = c.operand(mode, addr); c.setZN(c.A) }
func opLDX(c *CPU, mode AddrMode, addr uint16) { c.X = c.operand(mode, addr); c.setZN(c.X) }
func opLDY(c *CPU, mode AddrMode, addr uint16) { c.Y = c.operand(mode, addr); c.setZN(c.Y) }

func opSTA(c *CPU, mode AddrMode, addr uint16) { c.storeOperand(mode, addr, c.A) }
func opSTX(c *CPU, mode AddrMode, addr uint16) { c.storeOperand(mode, addr, c.X) }
func opSTY(c *CPU, mode AddrMode, addr uint16) { c.storeOperand(mode, addr, c.Y) }

func opTAX(c *CPU, _ AddrMode, _ uint16) { c.X = c.A; c.setZN(c.X) }
func opTAY(c *CPU, _ AddrMode, _ uint16) { c.Y = c.A; c.setZN(c.Y) }
func opTXA(c *CPU, _ AddrMode, _ uint16) { c.A = c.X; c.setZN(c.A) }
func opTYA(c *CPU, _ AddrMode, _ uint16) { c.A = c.Y; c.setZN(c.A) }
func opTSX(c *CPU, _ AddrMode, _ uint16) { c.X = c.SP; c.setZN(c.X) }
func opTXS(c *CPU, _ AddrMode, _ uint16) { c.SP = c.X }

func opINX(c *CPU, _ AddrMode, _ uint16) { c.X++; c.setZN(c.X) }
func opINY(c *CPU, _ AddrMode, _ uint16) { c.Y++; c.setZN(c.Y) }
func opDEX(c *CPU, _ AddrMode, _ uint16) { c.X--; c.setZN(c.X) }
func opDEY(c *CPU, _ AddrMode, _ uint16) { c.Y--; c.setZN(c.Y) }

func opINC(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr) + 1
	c.storeOperand(mode, addr, v)
	c.setZN(v)
}

func opDEC(c *CPU, mode AddrMode, addr uint16) {
	v := c.operand(mode, addr) - 1
	c.storeOperand(mode, addr, v)
	c.setZN(v)
}

func compare(c *CPU, reg, m uint8) {
	c.flagC.SetBool(reg >= m)
	c.setZN(reg - m)
}

func opCMP(c *CPU, mode AddrMode, addr uint16) { compare(c, c.A, c.operand(mode, addr)) }
func opCPX(c *CPU, mode AddrMode, addr uint16) { compare(c, c.X, c.operand(mode, addr)) }
func opCPY(c *CPU, mode AddrMode, addr uint16) { compare(c, c.Y, c.operand(mode, addr)) }

func opPHA(c *CPU, _ AddrMode, _ uint16) { c.push(c.A) }
func opPHP(c *CPU, _ AddrMode, _ uint16) { c.push(c.status | 0x30) }
func opPLA(c *CPU, _ AddrMode, _ uint16) { c.A = c.pull(); c.setZN(c.A) }
func opPLP(c *CPU, _ AddrMode, _ uint16) { c.status = c.pull()&0xCF | 0x20 }

func opCLC(c *CPU, _ AddrMode, _ uint16) { c.flagC.SetBool(false) }
func opSEC(c *CPU, _ AddrMode, _ uint16) { c.flagC.SetBool(true) }
func opCLI(c *CPU, _ AddrMode, _ uint16) { c.flagI.SetBool(false) }
func opSEI(c *CPU, _ AddrMode, _ uint16) { c.flagI.SetBool(true) }
func opCLV(c *CPU, _ AddrMode, _ uint16) { c.flagV.SetBool(false) }
func opCLD(c *CPU, _ AddrMode, _ uint16) { c.flagD.SetBool(false) }
func opSED(c *CPU, _ AddrMode, _ uint16) { c.flagD.SetBool(true) }

func opNOP(c *CPU, _ AddrMode, _ uint16) {}

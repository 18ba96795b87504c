package cpu

import "github.com/tpeterson/gones/internal/addr"

// instruction is one opcode table entry: its addressing mode, encoded
// length, base cycle cost (page-cross and branch-taken penalties are
// charged separately into extraCycles), and the function that executes it.
type instruction struct {
	name   string
	mode   Mode
	bytes  uint8
	cycles uint8
	exec   func(c *CPU, mode Mode) error
}

// opcodeTable maps every opcode byte this core recognizes to its
// instruction. It combines the 151 official opcodes with the eight
// documented undocumented combinations (LAX, SAX, DCP, ISC, SLO, RLA, SRE,
// RRA) and the common single/double-byte illegal NOPs real cartridges rely
// on for timing.
var opcodeTable = map[uint8]instruction{
	// ADC
	0x69: {"ADC", ModeImmediate, 2, 2, adc},
	0x65: {"ADC", ModeZeroPage, 2, 3, adc},
	0x75: {"ADC", ModeZeroPageX, 2, 4, adc},
	0x6D: {"ADC", ModeAbsolute, 3, 4, adc},
	0x7D: {"ADC", ModeAbsoluteX, 3, 4, adc},
	0x79: {"ADC", ModeAbsoluteY, 3, 4, adc},
	0x61: {"ADC", ModeIndirectX, 2, 6, adc},
	0x71: {"ADC", ModeIndirectY, 2, 5, adc},

	// AND
	0x29: {"AND", ModeImmediate, 2, 2, and},
	0x25: {"AND", ModeZeroPage, 2, 3, and},
	0x35: {"AND", ModeZeroPageX, 2, 4, and},
	0x2D: {"AND", ModeAbsolute, 3, 4, and},
	0x3D: {"AND", ModeAbsoluteX, 3, 4, and},
	0x39: {"AND", ModeAbsoluteY, 3, 4, and},
	0x21: {"AND", ModeIndirectX, 2, 6, and},
	0x31: {"AND", ModeIndirectY, 2, 5, and},

	// ASL
	0x0A: {"ASL", ModeAccumulator, 1, 2, asl},
	0x06: {"ASL", ModeZeroPage, 2, 5, asl},
	0x16: {"ASL", ModeZeroPageX, 2, 6, asl},
	0x0E: {"ASL", ModeAbsolute, 3, 6, asl},
	0x1E: {"ASL", ModeAbsoluteX, 3, 7, asl},

	// Branches
	0x90: {"BCC", ModeRelative, 2, 2, bcc},
	0xB0: {"BCS", ModeRelative, 2, 2, bcs},
	0xF0: {"BEQ", ModeRelative, 2, 2, beq},
	0x30: {"BMI", ModeRelative, 2, 2, bmi},
	0xD0: {"BNE", ModeRelative, 2, 2, bne},
	0x10: {"BPL", ModeRelative, 2, 2, bpl},
	0x50: {"BVC", ModeRelative, 2, 2, bvc},
	0x70: {"BVS", ModeRelative, 2, 2, bvs},

	// BIT
	0x24: {"BIT", ModeZeroPage, 2, 3, bit},
	0x2C: {"BIT", ModeAbsolute, 3, 4, bit},

	0x00: {"BRK", ModeImplied, 1, 7, brk},

	// Flag clear/set
	0x18: {"CLC", ModeImplied, 1, 2, clc},
	0xD8: {"CLD", ModeImplied, 1, 2, cld},
	0x58: {"CLI", ModeImplied, 1, 2, cli},
	0xB8: {"CLV", ModeImplied, 1, 2, clv},
	0x38: {"SEC", ModeImplied, 1, 2, sec},
	0xF8: {"SED", ModeImplied, 1, 2, sed},
	0x78: {"SEI", ModeImplied, 1, 2, sei},

	// CMP
	0xC9: {"CMP", ModeImmediate, 2, 2, cmp},
	0xC5: {"CMP", ModeZeroPage, 2, 3, cmp},
	0xD5: {"CMP", ModeZeroPageX, 2, 4, cmp},
	0xCD: {"CMP", ModeAbsolute, 3, 4, cmp},
	0xDD: {"CMP", ModeAbsoluteX, 3, 4, cmp},
	0xD9: {"CMP", ModeAbsoluteY, 3, 4, cmp},
	0xC1: {"CMP", ModeIndirectX, 2, 6, cmp},
	0xD1: {"CMP", ModeIndirectY, 2, 5, cmp},

	// CPX / CPY
	0xE0: {"CPX", ModeImmediate, 2, 2, cpx},
	0xE4: {"CPX", ModeZeroPage, 2, 3, cpx},
	0xEC: {"CPX", ModeAbsolute, 3, 4, cpx},
	0xC0: {"CPY", ModeImmediate, 2, 2, cpy},
	0xC4: {"CPY", ModeZeroPage, 2, 3, cpy},
	0xCC: {"CPY", ModeAbsolute, 3, 4, cpy},

	// DEC / DEX / DEY
	0xC6: {"DEC", ModeZeroPage, 2, 5, dec},
	0xD6: {"DEC", ModeZeroPageX, 2, 6, dec},
	0xCE: {"DEC", ModeAbsolute, 3, 6, dec},
	0xDE: {"DEC", ModeAbsoluteX, 3, 7, dec},
	0xCA: {"DEX", ModeImplied, 1, 2, dex},
	0x88: {"DEY", ModeImplied, 1, 2, dey},

	// EOR
	0x49: {"EOR", ModeImmediate, 2, 2, eor},
	0x45: {"EOR", ModeZeroPage, 2, 3, eor},
	0x55: {"EOR", ModeZeroPageX, 2, 4, eor},
	0x4D: {"EOR", ModeAbsolute, 3, 4, eor},
	0x5D: {"EOR", ModeAbsoluteX, 3, 4, eor},
	0x59: {"EOR", ModeAbsoluteY, 3, 4, eor},
	0x41: {"EOR", ModeIndirectX, 2, 6, eor},
	0x51: {"EOR", ModeIndirectY, 2, 5, eor},

	// INC / INX / INY
	0xE6: {"INC", ModeZeroPage, 2, 5, inc},
	0xF6: {"INC", ModeZeroPageX, 2, 6, inc},
	0xEE: {"INC", ModeAbsolute, 3, 6, inc},
	0xFE: {"INC", ModeAbsoluteX, 3, 7, inc},
	0xE8: {"INX", ModeImplied, 1, 2, inx},
	0xC8: {"INY", ModeImplied, 1, 2, iny},

	// JMP / JSR
	0x4C: {"JMP", ModeAbsolute, 3, 3, jmp},
	0x6C: {"JMP", ModeIndirect, 3, 5, jmp},
	0x20: {"JSR", ModeAbsolute, 3, 6, jsr},

	// LDA / LDX / LDY
	0xA9: {"LDA", ModeImmediate, 2, 2, lda},
	0xA5: {"LDA", ModeZeroPage, 2, 3, lda},
	0xB5: {"LDA", ModeZeroPageX, 2, 4, lda},
	0xAD: {"LDA", ModeAbsolute, 3, 4, lda},
	0xBD: {"LDA", ModeAbsoluteX, 3, 4, lda},
	0xB9: {"LDA", ModeAbsoluteY, 3, 4, lda},
	0xA1: {"LDA", ModeIndirectX, 2, 6, lda},
	0xB1: {"LDA", ModeIndirectY, 2, 5, lda},

	0xA2: {"LDX", ModeImmediate, 2, 2, ldx},
	0xA6: {"LDX", ModeZeroPage, 2, 3, ldx},
	0xB6: {"LDX", ModeZeroPageY, 2, 4, ldx},
	0xAE: {"LDX", ModeAbsolute, 3, 4, ldx},
	0xBE: {"LDX", ModeAbsoluteY, 3, 4, ldx},

	0xA0: {"LDY", ModeImmediate, 2, 2, ldy},
	0xA4: {"LDY", ModeZeroPage, 2, 3, ldy},
	0xB4: {"LDY", ModeZeroPageX, 2, 4, ldy},
	0xAC: {"LDY", ModeAbsolute, 3, 4, ldy},
	0xBC: {"LDY", ModeAbsoluteX, 3, 4, ldy},

	// LSR
	0x4A: {"LSR", ModeAccumulator, 1, 2, lsr},
	0x46: {"LSR", ModeZeroPage, 2, 5, lsr},
	0x56: {"LSR", ModeZeroPageX, 2, 6, lsr},
	0x4E: {"LSR", ModeAbsolute, 3, 6, lsr},
	0x5E: {"LSR", ModeAbsoluteX, 3, 7, lsr},

	0xEA: {"NOP", ModeImplied, 1, 2, nop},

	// ORA
	0x09: {"ORA", ModeImmediate, 2, 2, ora},
	0x05: {"ORA", ModeZeroPage, 2, 3, ora},
	0x15: {"ORA", ModeZeroPageX, 2, 4, ora},
	0x0D: {"ORA", ModeAbsolute, 3, 4, ora},
	0x1D: {"ORA", ModeAbsoluteX, 3, 4, ora},
	0x19: {"ORA", ModeAbsoluteY, 3, 4, ora},
	0x01: {"ORA", ModeIndirectX, 2, 6, ora},
	0x11: {"ORA", ModeIndirectY, 2, 5, ora},

	// Stack
	0x48: {"PHA", ModeImplied, 1, 3, pha},
	0x08: {"PHP", ModeImplied, 1, 3, php},
	0x68: {"PLA", ModeImplied, 1, 4, pla},
	0x28: {"PLP", ModeImplied, 1, 4, plp},

	// ROL / ROR
	0x2A: {"ROL", ModeAccumulator, 1, 2, rol},
	0x26: {"ROL", ModeZeroPage, 2, 5, rol},
	0x36: {"ROL", ModeZeroPageX, 2, 6, rol},
	0x2E: {"ROL", ModeAbsolute, 3, 6, rol},
	0x3E: {"ROL", ModeAbsoluteX, 3, 7, rol},
	0x6A: {"ROR", ModeAccumulator, 1, 2, ror},
	0x66: {"ROR", ModeZeroPage, 2, 5, ror},
	0x76: {"ROR", ModeZeroPageX, 2, 6, ror},
	0x6E: {"ROR", ModeAbsolute, 3, 6, ror},
	0x7E: {"ROR", ModeAbsoluteX, 3, 7, ror},

	0x40: {"RTI", ModeImplied, 1, 6, rti},
	0x60: {"RTS", ModeImplied, 1, 6, rts},

	// SBC
	0xE9: {"SBC", ModeImmediate, 2, 2, sbc},
	0xE5: {"SBC", ModeZeroPage, 2, 3, sbc},
	0xF5: {"SBC", ModeZeroPageX, 2, 4, sbc},
	0xED: {"SBC", ModeAbsolute, 3, 4, sbc},
	0xFD: {"SBC", ModeAbsoluteX, 3, 4, sbc},
	0xF9: {"SBC", ModeAbsoluteY, 3, 4, sbc},
	0xE1: {"SBC", ModeIndirectX, 2, 6, sbc},
	0xF1: {"SBC", ModeIndirectY, 2, 5, sbc},

	// STA / STX / STY
	0x85: {"STA", ModeZeroPage, 2, 3, sta},
	0x95: {"STA", ModeZeroPageX, 2, 4, sta},
	0x8D: {"STA", ModeAbsolute, 3, 4, sta},
	0x9D: {"STA", ModeAbsoluteX, 3, 5, sta},
	0x99: {"STA", ModeAbsoluteY, 3, 5, sta},
	0x81: {"STA", ModeIndirectX, 2, 6, sta},
	0x91: {"STA", ModeIndirectY, 2, 6, sta},

	0x86: {"STX", ModeZeroPage, 2, 3, stx},
	0x96: {"STX", ModeZeroPageY, 2, 4, stx},
	0x8E: {"STX", ModeAbsolute, 3, 4, stx},

	0x84: {"STY", ModeZeroPage, 2, 3, sty},
	0x94: {"STY", ModeZeroPageX, 2, 4, sty},
	0x8C: {"STY", ModeAbsolute, 3, 4, sty},

	// Register transfers
	0xAA: {"TAX", ModeImplied, 1, 2, tax},
	0xA8: {"TAY", ModeImplied, 1, 2, tay},
	0xBA: {"TSX", ModeImplied, 1, 2, tsx},
	0x8A: {"TXA", ModeImplied, 1, 2, txa},
	0x9A: {"TXS", ModeImplied, 1, 2, txs},
	0x98: {"TYA", ModeImplied, 1, 2, tya},

	// Undocumented combinations (spec.md §4.4.3): LAX, SAX, DCP, ISC, SLO,
	// RLA, SRE, RRA.
	0xA7: {"LAX", ModeZeroPage, 2, 3, lax},
	0xB7: {"LAX", ModeZeroPageY, 2, 4, lax},
	0xAF: {"LAX", ModeAbsolute, 3, 4, lax},
	0xBF: {"LAX", ModeAbsoluteY, 3, 4, lax},
	0xA3: {"LAX", ModeIndirectX, 2, 6, lax},
	0xB3: {"LAX", ModeIndirectY, 2, 5, lax},

	0x87: {"SAX", ModeZeroPage, 2, 3, sax},
	0x97: {"SAX", ModeZeroPageY, 2, 4, sax},
	0x8F: {"SAX", ModeAbsolute, 3, 4, sax},
	0x83: {"SAX", ModeIndirectX, 2, 6, sax},

	0xC7: {"DCP", ModeZeroPage, 2, 5, dcp},
	0xD7: {"DCP", ModeZeroPageX, 2, 6, dcp},
	0xCF: {"DCP", ModeAbsolute, 3, 6, dcp},
	0xDF: {"DCP", ModeAbsoluteX, 3, 7, dcp},
	0xDB: {"DCP", ModeAbsoluteY, 3, 7, dcp},
	0xC3: {"DCP", ModeIndirectX, 2, 8, dcp},
	0xD3: {"DCP", ModeIndirectY, 2, 8, dcp},

	0xE7: {"ISC", ModeZeroPage, 2, 5, isc},
	0xF7: {"ISC", ModeZeroPageX, 2, 6, isc},
	0xEF: {"ISC", ModeAbsolute, 3, 6, isc},
	0xFF: {"ISC", ModeAbsoluteX, 3, 7, isc},
	0xFB: {"ISC", ModeAbsoluteY, 3, 7, isc},
	0xE3: {"ISC", ModeIndirectX, 2, 8, isc},
	0xF3: {"ISC", ModeIndirectY, 2, 8, isc},

	0x07: {"SLO", ModeZeroPage, 2, 5, slo},
	0x17: {"SLO", ModeZeroPageX, 2, 6, slo},
	0x0F: {"SLO", ModeAbsolute, 3, 6, slo},
	0x1F: {"SLO", ModeAbsoluteX, 3, 7, slo},
	0x1B: {"SLO", ModeAbsoluteY, 3, 7, slo},
	0x03: {"SLO", ModeIndirectX, 2, 8, slo},
	0x13: {"SLO", ModeIndirectY, 2, 8, slo},

	0x27: {"RLA", ModeZeroPage, 2, 5, rla},
	0x37: {"RLA", ModeZeroPageX, 2, 6, rla},
	0x2F: {"RLA", ModeAbsolute, 3, 6, rla},
	0x3F: {"RLA", ModeAbsoluteX, 3, 7, rla},
	0x3B: {"RLA", ModeAbsoluteY, 3, 7, rla},
	0x23: {"RLA", ModeIndirectX, 2, 8, rla},
	0x33: {"RLA", ModeIndirectY, 2, 8, rla},

	0x47: {"SRE", ModeZeroPage, 2, 5, sre},
	0x57: {"SRE", ModeZeroPageX, 2, 6, sre},
	0x4F: {"SRE", ModeAbsolute, 3, 6, sre},
	0x5F: {"SRE", ModeAbsoluteX, 3, 7, sre},
	0x5B: {"SRE", ModeAbsoluteY, 3, 7, sre},
	0x43: {"SRE", ModeIndirectX, 2, 8, sre},
	0x53: {"SRE", ModeIndirectY, 2, 8, sre},

	0x67: {"RRA", ModeZeroPage, 2, 5, rra},
	0x77: {"RRA", ModeZeroPageX, 2, 6, rra},
	0x6F: {"RRA", ModeAbsolute, 3, 6, rra},
	0x7F: {"RRA", ModeAbsoluteX, 3, 7, rra},
	0x7B: {"RRA", ModeAbsoluteY, 3, 7, rra},
	0x63: {"RRA", ModeIndirectX, 2, 8, rra},
	0x73: {"RRA", ModeIndirectY, 2, 8, rra},

	// Illegal NOPs: real cartridges' timing loops occasionally execute
	// these; they must consume the right number of bytes/cycles without
	// touching registers or flags.
	0x1A: {"NOP", ModeImplied, 1, 2, nop},
	0x3A: {"NOP", ModeImplied, 1, 2, nop},
	0x5A: {"NOP", ModeImplied, 1, 2, nop},
	0x7A: {"NOP", ModeImplied, 1, 2, nop},
	0xDA: {"NOP", ModeImplied, 1, 2, nop},
	0xFA: {"NOP", ModeImplied, 1, 2, nop},
	0x80: {"NOP", ModeImmediate, 2, 2, nopRead},
	0x04: {"NOP", ModeZeroPage, 2, 3, nopRead},
	0x44: {"NOP", ModeZeroPage, 2, 3, nopRead},
	0x64: {"NOP", ModeZeroPage, 2, 3, nopRead},
	0x14: {"NOP", ModeZeroPageX, 2, 4, nopRead},
	0x34: {"NOP", ModeZeroPageX, 2, 4, nopRead},
	0x54: {"NOP", ModeZeroPageX, 2, 4, nopRead},
	0x74: {"NOP", ModeZeroPageX, 2, 4, nopRead},
	0xD4: {"NOP", ModeZeroPageX, 2, 4, nopRead},
	0xF4: {"NOP", ModeZeroPageX, 2, 4, nopRead},
	0x0C: {"NOP", ModeAbsolute, 3, 4, nopRead},
	0x1C: {"NOP", ModeAbsoluteX, 3, 4, nopRead},
	0x3C: {"NOP", ModeAbsoluteX, 3, 4, nopRead},
	0x5C: {"NOP", ModeAbsoluteX, 3, 4, nopRead},
	0x7C: {"NOP", ModeAbsoluteX, 3, 4, nopRead},
	0xDC: {"NOP", ModeAbsoluteX, 3, 4, nopRead},
	0xFC: {"NOP", ModeAbsoluteX, 3, 4, nopRead},
}

// readOperand fetches the value an ALU/load opcode acts on, along with the
// address it came from (0 for accumulator mode, which has none).
func (c *CPU) readOperand(mode Mode) (uint8, uint16, error) {
	if mode == ModeAccumulator {
		return c.A, 0, nil
	}
	a, err := c.operandAddress(mode)
	if err != nil {
		return 0, 0, err
	}
	v, err := c.Bus.Read(a)
	return v, a, err
}

func (c *CPU) writeOperand(mode Mode, a uint16, v uint8) error {
	if mode == ModeAccumulator {
		c.A = v
		return nil
	}
	return c.Bus.Write(a, v)
}

func (c *CPU) flagSet(f uint8, on bool) {
	if on {
		c.Status |= f
	} else {
		c.Status &^= f
	}
}

func (c *CPU) flag(f uint8) bool { return c.Status&f != 0 }

// addWithOverflow is ADC's core: A = A + v + carry, with carry and signed
// overflow computed the standard way (operands agree in sign, result
// disagrees).
func (c *CPU) addWithOverflow(v uint8) {
	var carryIn uint16
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(v) + carryIn
	result := uint8(sum)
	overflow := (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0
	c.flagSet(FlagCarry, sum > 0xFF)
	c.flagSet(FlagOverflow, overflow)
	c.A = result
	c.setZN(c.A)
}

func adc(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.addWithOverflow(v)
	return nil
}

func sbc(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.addWithOverflow(^v)
	return nil
}

func and(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.A &= v
	c.setZN(c.A)
	return nil
}

func ora(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.A |= v
	c.setZN(c.A)
	return nil
}

func eor(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.A ^= v
	c.setZN(c.A)
	return nil
}

func bit(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.flagSet(FlagZero, c.A&v == 0)
	c.flagSet(FlagOverflow, v&0x40 != 0)
	c.flagSet(FlagNegative, v&0x80 != 0)
	return nil
}

func compare(c *CPU, reg uint8, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.flagSet(FlagCarry, reg >= v)
	c.setZN(reg - v)
	return nil
}

func cmp(c *CPU, mode Mode) error { return compare(c, c.A, mode) }
func cpx(c *CPU, mode Mode) error { return compare(c, c.X, mode) }
func cpy(c *CPU, mode Mode) error { return compare(c, c.Y, mode) }

func asl(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.flagSet(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.setZN(v)
	return c.writeOperand(mode, a, v)
}

func lsr(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.flagSet(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.setZN(v)
	return c.writeOperand(mode, a, v)
}

func rol(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	c.flagSet(FlagCarry, v&0x80 != 0)
	v = v<<1 | carryIn
	c.setZN(v)
	return c.writeOperand(mode, a, v)
}

func ror(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 0x80
	}
	c.flagSet(FlagCarry, v&0x01 != 0)
	v = v>>1 | carryIn
	c.setZN(v)
	return c.writeOperand(mode, a, v)
}

func inc(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	v++
	c.setZN(v)
	return c.writeOperand(mode, a, v)
}

func dec(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	v--
	c.setZN(v)
	return c.writeOperand(mode, a, v)
}

func inx(c *CPU, mode Mode) error { c.X++; c.setZN(c.X); return nil }
func iny(c *CPU, mode Mode) error { c.Y++; c.setZN(c.Y); return nil }
func dex(c *CPU, mode Mode) error { c.X--; c.setZN(c.X); return nil }
func dey(c *CPU, mode Mode) error { c.Y--; c.setZN(c.Y); return nil }

func lda(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.A = v
	c.setZN(c.A)
	return nil
}

func ldx(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.X = v
	c.setZN(c.X)
	return nil
}

func ldy(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.Y = v
	c.setZN(c.Y)
	return nil
}

func sta(c *CPU, mode Mode) error {
	a, err := c.operandAddress(mode)
	if err != nil {
		return err
	}
	// Stores cost their table cycles whether or not the index crosses a page.
	c.extraCycles = 0
	return c.Bus.Write(a, c.A)
}

func stx(c *CPU, mode Mode) error {
	a, err := c.operandAddress(mode)
	if err != nil {
		return err
	}
	return c.Bus.Write(a, c.X)
}

func sty(c *CPU, mode Mode) error {
	a, err := c.operandAddress(mode)
	if err != nil {
		return err
	}
	return c.Bus.Write(a, c.Y)
}

func tax(c *CPU, mode Mode) error { c.X = c.A; c.setZN(c.X); return nil }
func tay(c *CPU, mode Mode) error { c.Y = c.A; c.setZN(c.Y); return nil }
func txa(c *CPU, mode Mode) error { c.A = c.X; c.setZN(c.A); return nil }
func tya(c *CPU, mode Mode) error { c.A = c.Y; c.setZN(c.A); return nil }
func tsx(c *CPU, mode Mode) error { c.X = c.SP; c.setZN(c.X); return nil }
func txs(c *CPU, mode Mode) error { c.SP = c.X; return nil }

func pha(c *CPU, mode Mode) error { return c.pushByte(c.A) }
func php(c *CPU, mode Mode) error {
	return c.pushByte(c.Status | FlagBreak | FlagUnused)
}
func pla(c *CPU, mode Mode) error {
	v, err := c.popByte()
	if err != nil {
		return err
	}
	c.A = v
	c.setZN(c.A)
	return nil
}
func plp(c *CPU, mode Mode) error {
	v, err := c.popByte()
	if err != nil {
		return err
	}
	c.Status = (v | FlagUnused) &^ FlagBreak
	return nil
}

func jmp(c *CPU, mode Mode) error {
	a, err := c.operandAddress(mode)
	if err != nil {
		return err
	}
	c.PC = a
	return nil
}

func jsr(c *CPU, mode Mode) error {
	a, err := c.operandAddress(ModeAbsolute)
	if err != nil {
		return err
	}
	if err := c.pushWord(c.PC - 1); err != nil {
		return err
	}
	c.PC = a
	return nil
}

func rts(c *CPU, mode Mode) error {
	a, err := c.popWord()
	if err != nil {
		return err
	}
	c.PC = a + 1
	return nil
}

func rti(c *CPU, mode Mode) error {
	s, err := c.popByte()
	if err != nil {
		return err
	}
	c.Status = (s | FlagUnused) &^ FlagBreak
	a, err := c.popWord()
	if err != nil {
		return err
	}
	c.PC = a
	return nil
}

func brk(c *CPU, mode Mode) error {
	c.PC++ // BRK's second byte is a padding byte debuggers use as a signature
	if err := c.pushWord(c.PC); err != nil {
		return err
	}
	if err := c.pushByte(c.Status | FlagBreak | FlagUnused); err != nil {
		return err
	}
	c.Status |= FlagInterruptDisable
	pc, err := c.Bus.ReadWord(vectorBRK)
	if err != nil {
		return err
	}
	c.PC = pc
	return nil
}

func (c *CPU) branchIf(cond bool, mode Mode) error {
	target, err := c.operandAddress(mode)
	if err != nil {
		return err
	}
	// The page-cross penalty compares the branch opcode's own address with
	// the target.
	opAddr := c.PC - 2
	if cond {
		c.extraCycles++
		if !addr.SamePage(opAddr, target) {
			c.extraCycles++
		}
		c.PC = target
	}
	return nil
}

func bcc(c *CPU, mode Mode) error { return c.branchIf(!c.flag(FlagCarry), mode) }
func bcs(c *CPU, mode Mode) error { return c.branchIf(c.flag(FlagCarry), mode) }
func beq(c *CPU, mode Mode) error { return c.branchIf(c.flag(FlagZero), mode) }
func bne(c *CPU, mode Mode) error { return c.branchIf(!c.flag(FlagZero), mode) }
func bmi(c *CPU, mode Mode) error { return c.branchIf(c.flag(FlagNegative), mode) }
func bpl(c *CPU, mode Mode) error { return c.branchIf(!c.flag(FlagNegative), mode) }
func bvs(c *CPU, mode Mode) error { return c.branchIf(c.flag(FlagOverflow), mode) }
func bvc(c *CPU, mode Mode) error { return c.branchIf(!c.flag(FlagOverflow), mode) }

func clc(c *CPU, mode Mode) error { c.flagSet(FlagCarry, false); return nil }
func sec(c *CPU, mode Mode) error { c.flagSet(FlagCarry, true); return nil }
func cld(c *CPU, mode Mode) error { c.flagSet(FlagDecimal, false); return nil }
func sed(c *CPU, mode Mode) error { c.flagSet(FlagDecimal, true); return nil }
func cli(c *CPU, mode Mode) error { c.flagSet(FlagInterruptDisable, false); return nil }
func sei(c *CPU, mode Mode) error { c.flagSet(FlagInterruptDisable, true); return nil }
func clv(c *CPU, mode Mode) error { c.flagSet(FlagOverflow, false); return nil }

func nop(c *CPU, mode Mode) error { return nil }

// nopRead is an illegal NOP that still performs its addressing mode's read,
// including the page-cross penalty, but discards the value.
func nopRead(c *CPU, mode Mode) error {
	_, _, err := c.readOperand(mode)
	return err
}

// lax: LDA+LDX combined, undocumented. Grounded on flga-vnes's lax/teacher's
// LAX entry.
func lax(c *CPU, mode Mode) error {
	v, _, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.A = v
	c.X = v
	c.setZN(v)
	return nil
}

// sax: stores A&X, touches no flags.
func sax(c *CPU, mode Mode) error {
	a, err := c.operandAddress(mode)
	if err != nil {
		return err
	}
	return c.Bus.Write(a, c.A&c.X)
}

// dcp: DEC then CMP against A, undocumented.
func dcp(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	v--
	if err := c.writeOperand(mode, a, v); err != nil {
		return err
	}
	c.flagSet(FlagCarry, c.A >= v)
	c.setZN(c.A - v)
	return nil
}

// isc: INC then SBC, undocumented.
func isc(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	v++
	if err := c.writeOperand(mode, a, v); err != nil {
		return err
	}
	c.addWithOverflow(^v)
	return nil
}

// slo: ASL the operand in place, then OR the result into A.
func slo(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.flagSet(FlagCarry, v&0x80 != 0)
	v <<= 1
	if err := c.writeOperand(mode, a, v); err != nil {
		return err
	}
	c.A |= v
	c.setZN(c.A)
	return nil
}

// rla: ROL the operand in place, then AND the result into A.
func rla(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	c.flagSet(FlagCarry, v&0x80 != 0)
	v = v<<1 | carryIn
	if err := c.writeOperand(mode, a, v); err != nil {
		return err
	}
	c.A &= v
	c.setZN(c.A)
	return nil
}

// sre: LSR the operand in place, then EOR the result into A.
func sre(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	c.flagSet(FlagCarry, v&0x01 != 0)
	v >>= 1
	if err := c.writeOperand(mode, a, v); err != nil {
		return err
	}
	c.A ^= v
	c.setZN(c.A)
	return nil
}

// rra: ROR the operand in place, then ADC the result into A.
func rra(c *CPU, mode Mode) error {
	v, a, err := c.readOperand(mode)
	if err != nil {
		return err
	}
	carryIn := uint8(0)
	if c.flag(FlagCarry) {
		carryIn = 0x80
	}
	c.flagSet(FlagCarry, v&0x01 != 0)
	v = v>>1 | carryIn
	if err := c.writeOperand(mode, a, v); err != nil {
		return err
	}
	c.addWithOverflow(v)
	return nil
}

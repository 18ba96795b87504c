// Package cpu implements the MOS 6502 instruction interpreter: registers,
// flags, the 13 addressing modes, the opcode table (the 151 official opcodes,
// the eight documented "illegal" combinations and the common illegal NOPs;
// any other byte is rejected with ErrUnknownOpcode), and interrupt entry.
// See spec.md §3/§4.4.
package cpu

import (
	"errors"
	"fmt"

	"github.com/tpeterson/gones/internal/addr"
	"github.com/tpeterson/gones/internal/diag"
)

// Status flag bits, packed into the single status byte. Bit 5 is never
// addressable but is always read back as 1.
const (
	FlagCarry            uint8 = 1 << 0
	FlagZero             uint8 = 1 << 1
	FlagInterruptDisable uint8 = 1 << 2
	FlagDecimal          uint8 = 1 << 3
	FlagBreak            uint8 = 1 << 4
	FlagUnused           uint8 = 1 << 5
	FlagOverflow         uint8 = 1 << 6
	FlagNegative         uint8 = 1 << 7
)

// Interrupt and reset vectors.
const (
	vectorNMI   uint16 = 0xFFFA
	vectorReset uint16 = 0xFFFC
	vectorIRQ   uint16 = 0xFFFE
	vectorBRK          = vectorIRQ
)

const stackPage uint16 = 0x0100

// nmiEntryCycles is the fixed cost of an NMI entry: push PC (2), push status
// (1), fetch vector (2), plus 2 internal cycles — the same whole-instruction
// granularity the rest of this core uses rather than sub-cycle accounting.
const nmiEntryCycles = 7

// Mode is a 6502 addressing mode, one of the 13 named in spec.md §3.
type Mode uint8

const (
	ModeImplied Mode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeRelative
)

// ErrUnknownOpcode is returned by Step when the fetched byte has no table
// entry.
var ErrUnknownOpcode = errors.New("cpu: unknown opcode")

// Bus is the memory interface the CPU executes against. internal/bus.Bus
// satisfies it.
type Bus interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, val uint8) error
	ReadWord(addr uint16) (uint16, error)
	ReadWordZeroPage(zp uint8) (uint16, error)
	TakeDMACycles() int
}

// CPU holds all 6502 register state plus the bus it executes against.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  uint8

	Bus Bus

	// Cycles is the cumulative cycle count since power-on; spec.md §8
	// requires this be monotonically non-decreasing.
	Cycles uint64

	extraCycles int
}

// New constructs a CPU at NES power-up state and immediately performs the
// reset-vector load spec.md §3 describes as part of the machine's lifecycle.
func New(bus Bus) (*CPU, error) {
	c := &CPU{
		SP:     0xFD,
		Status: FlagUnused | FlagInterruptDisable,
		Bus:    bus,
	}
	if err := c.Reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset reproduces the reset button: read the vector at $FFFC into PC, set
// interrupt-disable, leave A/X/Y untouched. Unlike power-up it doesn't force
// SP, matching real hardware's "SP -= 3" effect closely enough for a core
// that doesn't model the three dummy stack reads.
func (c *CPU) Reset() error {
	c.Status |= FlagInterruptDisable | FlagUnused
	pc, err := c.Bus.ReadWord(vectorReset)
	if err != nil {
		return err
	}
	c.PC = pc
	return nil
}

// EnterNMI performs NMI interrupt entry: push PC, push status with B=0, jump
// through the NMI vector, set interrupt-disable. The scheduler calls this
// between instructions when the PPU has signaled v-blank entry with
// NMI-enable set; it is never called mid-instruction.
func (c *CPU) EnterNMI() (int, error) {
	if err := c.pushWord(c.PC); err != nil {
		return 0, err
	}
	if err := c.pushByte((c.Status | FlagUnused) &^ FlagBreak); err != nil {
		return 0, err
	}
	c.Status |= FlagInterruptDisable
	pc, err := c.Bus.ReadWord(vectorNMI)
	if err != nil {
		return 0, err
	}
	c.PC = pc
	c.Cycles += nmiEntryCycles
	return nmiEntryCycles, nil
}

// Step fetches, decodes and executes exactly one instruction, returning the
// cycle cost (including any OAM-DMA the instruction triggered).
func (c *CPU) Step() (int, error) {
	opByte, err := c.Bus.Read(c.PC)
	if err != nil {
		return 0, err
	}
	inst, ok := opcodeTable[opByte]
	if !ok {
		return 0, fmt.Errorf("%w: $%02X at $%04X", ErrUnknownOpcode, opByte, c.PC)
	}

	pcAfterFetch := c.PC + 1
	c.PC = pcAfterFetch
	c.extraCycles = 0

	if err := inst.exec(c, inst.mode); err != nil {
		return 0, err
	}

	if c.PC == pcAfterFetch {
		c.PC += uint16(inst.bytes) - 1
	}

	total := int(inst.cycles) + c.extraCycles + c.Bus.TakeDMACycles()
	c.Cycles += uint64(total)
	return total, nil
}

// Snapshot captures the register file for diagnostics and tracing.
func (c *CPU) Snapshot() diag.CPUSnapshot {
	return diag.CPUSnapshot{
		PC:     c.PC,
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		SP:     c.SP,
		Status: c.Status,
		Cycles: c.Cycles,
	}
}

// PeekInstruction reports the mnemonic and encoded length of the
// instruction at the current PC without executing it or advancing any
// state. Used by the scheduler to build a pre-execution trace snapshot and
// by diagnostics to describe a decode failure.
func (c *CPU) PeekInstruction() (mnemonic string, bytes uint8, err error) {
	op, err := c.Bus.Read(c.PC)
	if err != nil {
		return "", 0, err
	}
	inst, ok := opcodeTable[op]
	if !ok {
		return "", 0, fmt.Errorf("%w: $%02X at $%04X", ErrUnknownOpcode, op, c.PC)
	}
	return inst.name, inst.bytes, nil
}

// operandAddress resolves the effective address for mode, advancing PC past
// the operand bytes and charging any page-cross penalty to c.extraCycles.
// ModeImplied and ModeAccumulator have no operand address and must not call
// this.
func (c *CPU) operandAddress(mode Mode) (uint16, error) {
	switch mode {
	case ModeImmediate:
		a := c.PC
		c.PC++
		return a, nil
	case ModeZeroPage:
		b, err := c.Bus.Read(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC++
		return uint16(b), nil
	case ModeZeroPageX:
		b, err := c.Bus.Read(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC++
		return uint16(addr.ZPIndex(b, c.X)), nil
	case ModeZeroPageY:
		b, err := c.Bus.Read(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC++
		return uint16(addr.ZPIndex(b, c.Y)), nil
	case ModeAbsolute:
		a, err := c.Bus.ReadWord(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC += 2
		return a, nil
	case ModeAbsoluteX:
		base, err := c.Bus.ReadWord(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC += 2
		eff := addr.AddWrap(base, int32(c.X))
		if !addr.SamePage(base, eff) {
			c.extraCycles++
		}
		return eff, nil
	case ModeAbsoluteY:
		base, err := c.Bus.ReadWord(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC += 2
		eff := addr.AddWrap(base, int32(c.Y))
		if !addr.SamePage(base, eff) {
			c.extraCycles++
		}
		return eff, nil
	case ModeIndirect:
		ptr, err := c.Bus.ReadWord(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC += 2
		return c.readWordPageWrapBug(ptr)
	case ModeIndirectX:
		b, err := c.Bus.Read(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC++
		zp := addr.ZPIndex(b, c.X)
		return c.Bus.ReadWordZeroPage(zp)
	case ModeIndirectY:
		b, err := c.Bus.Read(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC++
		base, err := c.Bus.ReadWordZeroPage(b)
		if err != nil {
			return 0, err
		}
		eff := addr.AddWrap(base, int32(c.Y))
		if !addr.SamePage(base, eff) {
			c.extraCycles++
		}
		return eff, nil
	case ModeRelative:
		b, err := c.Bus.Read(c.PC)
		if err != nil {
			return 0, err
		}
		c.PC++
		return addr.AddWrap(c.PC, int32(int8(b))), nil
	default:
		panic("cpu: operandAddress called with an addressing mode that has no operand")
	}
}

// readWordPageWrapBug reads a little-endian word at ptr, reproducing the
// real 6502's indirect-JMP bug: if ptr's low byte is $FF, the high byte is
// fetched from the start of the same page rather than the next one.
func (c *CPU) readWordPageWrapBug(ptr uint16) (uint16, error) {
	lo, err := c.Bus.Read(ptr)
	if err != nil {
		return 0, err
	}
	hiAddr := addr.Make(addr.Hi(ptr), addr.Lo(ptr)+1)
	hi, err := c.Bus.Read(hiAddr)
	if err != nil {
		return 0, err
	}
	return addr.Make(hi, lo), nil
}

func (c *CPU) setZN(v uint8) {
	if v == 0 {
		c.Status |= FlagZero
	} else {
		c.Status &^= FlagZero
	}
	if v&0x80 != 0 {
		c.Status |= FlagNegative
	} else {
		c.Status &^= FlagNegative
	}
}

func (c *CPU) stackAddr() uint16 {
	return stackPage + uint16(c.SP)
}

func (c *CPU) pushByte(v uint8) error {
	if err := c.Bus.Write(c.stackAddr(), v); err != nil {
		return err
	}
	c.SP--
	return nil
}

func (c *CPU) popByte() (uint8, error) {
	c.SP++
	return c.Bus.Read(c.stackAddr())
}

func (c *CPU) pushWord(v uint16) error {
	if err := c.pushByte(addr.Hi(v)); err != nil {
		return err
	}
	return c.pushByte(addr.Lo(v))
}

func (c *CPU) popWord() (uint16, error) {
	lo, err := c.popByte()
	if err != nil {
		return 0, err
	}
	hi, err := c.popByte()
	if err != nil {
		return 0, err
	}
	return addr.Make(hi, lo), nil
}

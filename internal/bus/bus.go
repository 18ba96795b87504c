// Package bus decodes the CPU's 16-bit address space into internal RAM, PPU
// registers, controller I/O, OAM-DMA, and the cartridge mapper, per
// spec.md §4.3.
package bus

import (
	"errors"
	"fmt"

	"github.com/tpeterson/gones/internal/controller"
	"github.com/tpeterson/gones/internal/mapper"
)

const (
	ramSize = 2048

	oamDataReg   = 0x2004
	oamDMACycles = 513
)

// ErrReservedRegion is returned for any access to $4018-$401F, which the
// real console reserves for APU/IO test functions this core doesn't model.
var ErrReservedRegion = errors.New("bus: access to reserved test region")

// ErrUnmapped is returned when the cartridge mapper declines an address
// outside any window it defines.
var ErrUnmapped = errors.New("bus: address not mapped by cartridge")

// PPU is the register-level surface the bus decodes $2000-$3FFF into. The
// bus depends on this narrow interface rather than a concrete PPU so the two
// packages don't import each other.
type PPU interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, val uint8)
	PeekRegister(addr uint16) uint8
}

// Bus wires the CPU's memory interface together. It has no cycle counter of
// its own; OAM-DMA's 513-cycle cost accumulates in PendingDMACycles for the
// CPU to drain after a triggering write.
type Bus struct {
	RAM    [ramSize]uint8
	PPU    PPU
	Mapper mapper.Mapper
	Pad1   *controller.Pad
	Pad2   *controller.Pad

	PendingDMACycles int
}

// New wires a Bus over an already-constructed PPU and mapper. Pad1/Pad2 are
// always present (a NES always has two controller ports, whether or not a
// pad is plugged in).
func New(ppu PPU, m mapper.Mapper) *Bus {
	return &Bus{
		PPU:    ppu,
		Mapper: m,
		Pad1:   &controller.Pad{},
		Pad2:   &controller.Pad{},
	}
}

// Read performs a side-effecting CPU read: PPUDATA's internal read buffer
// advances, controller shift registers advance, as real hardware does.
func (b *Bus) Read(addr uint16) (uint8, error) {
	switch {
	case addr < 0x2000:
		return b.RAM[addr&0x07FF], nil
	case addr < 0x4000:
		return b.PPU.ReadRegister(0x2000 + addr&0x0007), nil
	case addr == 0x4016:
		return b.Pad1.Read(), nil
	case addr == 0x4017:
		return b.Pad2.Read(), nil
	case addr < 0x4018:
		return 0, nil // $4000-4013, $4015: APU/IO, no-op per spec.md non-goals
	case addr < 0x4020:
		return 0, fmt.Errorf("%w: read $%04X", ErrReservedRegion, addr)
	default:
		v, ok := b.Mapper.CPURead(addr)
		if !ok {
			return 0, fmt.Errorf("%w: read $%04X", ErrUnmapped, addr)
		}
		return v, nil
	}
}

// Peek reads without any of Read's side effects: PPUDATA's buffer is left
// alone and controller shift registers don't advance. Used by diagnostic
// dumps and test harnesses that inspect memory without disturbing state.
func (b *Bus) Peek(addr uint16) (uint8, error) {
	switch {
	case addr < 0x2000:
		return b.RAM[addr&0x07FF], nil
	case addr < 0x4000:
		return b.PPU.PeekRegister(0x2000 + addr&0x0007), nil
	case addr == 0x4016:
		return b.Pad1.Peek(), nil
	case addr == 0x4017:
		return b.Pad2.Peek(), nil
	case addr < 0x4018:
		return 0, nil
	case addr < 0x4020:
		return 0, fmt.Errorf("%w: peek $%04X", ErrReservedRegion, addr)
	default:
		v, ok := b.Mapper.CPURead(addr)
		if !ok {
			return 0, fmt.Errorf("%w: peek $%04X", ErrUnmapped, addr)
		}
		return v, nil
	}
}

// Write performs a CPU write, including the $4014 OAM-DMA trigger and the
// $4016 controller strobe (which both pads observe).
func (b *Bus) Write(addr uint16, val uint8) error {
	switch {
	case addr < 0x2000:
		b.RAM[addr&0x07FF] = val
		return nil
	case addr < 0x4000:
		b.PPU.WriteRegister(0x2000+addr&0x0007, val)
		return nil
	case addr == 0x4014:
		return b.oamDMA(val)
	case addr == 0x4016:
		b.Pad1.Write(val)
		b.Pad2.Write(val)
		return nil
	case addr < 0x4018:
		return nil // $4000-4013, $4015, $4017: APU, no-op per spec.md non-goals
	case addr < 0x4020:
		return fmt.Errorf("%w: write $%04X", ErrReservedRegion, addr)
	default:
		b.Mapper.CPUWrite(addr, val)
		return nil
	}
}

// oamDMA copies 256 bytes starting at page<<8 into OAM through the OAMDATA
// ($2004) register, per spec.md §4.3. It charges 513 cycles regardless of
// starting alignment; the core doesn't model the odd-cycle stall separately.
func (b *Bus) oamDMA(page uint8) error {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v, err := b.Read(base + uint16(i))
		if err != nil {
			return err
		}
		b.PPU.WriteRegister(oamDataReg, v)
	}
	b.PendingDMACycles += oamDMACycles
	return nil
}

// TakeDMACycles drains and resets the pending DMA cycle count. The CPU calls
// this after any write that might have triggered OAM-DMA, folding the 513
// cycles into its own instruction timing.
func (b *Bus) TakeDMACycles() int {
	c := b.PendingDMACycles
	b.PendingDMACycles = 0
	return c
}

// ReadWord performs two sequential byte reads and assembles them
// little-endian, with no address wraparound (used for absolute operands and
// vectors, which never straddle the $FFFF/$0000 boundary in practice).
func (b *Bus) ReadWord(addr uint16) (uint16, error) {
	lo, err := b.Read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := b.Read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadWordZeroPage reads a little-endian pointer from zero page, wrapping
// the high byte within zero page ($FF -> $00) rather than crossing into
// page 1. This is the indexed-indirect/indirect-indexed pointer fetch.
func (b *Bus) ReadWordZeroPage(zp uint8) (uint16, error) {
	lo, err := b.Read(uint16(zp))
	if err != nil {
		return 0, err
	}
	hi, err := b.Read(uint16(zp + 1))
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Package mapper implements the cartridge bank-switching strategies: the
// closed set of three mappers spec.md is scoped to (NROM, MMC1-style
// shift-register banking, UxROM), behind a single dispatch surface.
package mapper

import (
	"fmt"

	"github.com/tpeterson/gones/internal/cart"
)

// Mirroring is the nametable-folding mode a mapper reports to the PPU. It
// generalizes cart.Mirroring with the two single-screen modes mapper 1 can
// select at runtime.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorFourScreen
	MirrorSingleLower
	MirrorSingleUpper
)

// Mapper is the polymorphic surface every bank-switching strategy
// implements: byte-granular CPU/PPU read/write plus a derived mirroring mode.
type Mapper interface {
	CPURead(addr uint16) (uint8, bool)
	CPUWrite(addr uint16, val uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, val uint8)
	Mirroring() Mirroring
}

// New constructs the mapper named by rom.MapperID, or an error if it names a
// mapper outside the three this core supports.
func New(rom *cart.ROM) (Mapper, error) {
	switch rom.MapperID {
	case 0:
		return newNROM(rom), nil
	case 1:
		return newMMC1(rom), nil
	case 2:
		return newUxROM(rom), nil
	default:
		return nil, fmt.Errorf("unsupported mapper id %d", rom.MapperID)
	}
}

func fromCartMirroring(m cart.Mirroring) Mirroring {
	switch m {
	case cart.MirrorVertical:
		return MirrorVertical
	case cart.MirrorFourScreen:
		return MirrorFourScreen
	default:
		return MirrorHorizontal
	}
}

package mapper

import "github.com/tpeterson/gones/internal/cart"

// uxrom is mapper 2: any write to $8000-$FFFF selects the 16 KiB PRG bank
// visible at $8000-$BFFF; $C000-$FFFF is always the last bank. Character
// memory is 8 KiB of RAM, written through the PPU bus.
type uxrom struct {
	prg       []uint8
	chrRAM    [8192]uint8
	bank      uint8
	banks16k  int
	mirroring Mirroring
}

func newUxROM(rom *cart.ROM) *uxrom {
	return &uxrom{
		prg:       rom.PRG,
		banks16k:  len(rom.PRG) / 16384,
		mirroring: fromCartMirroring(rom.Mirroring),
	}
}

func (m *uxrom) CPURead(a uint16) (uint8, bool) {
	switch {
	case a >= 0x8000 && a < 0xC000:
		off := int(m.bank)*16384 + int(a-0x8000)
		if off >= len(m.prg) {
			return 0, false
		}
		return m.prg[off], true
	case a >= 0xC000:
		last := m.banks16k - 1
		if last < 0 {
			last = 0
		}
		off := last*16384 + int(a-0xC000)
		if off >= len(m.prg) {
			return 0, false
		}
		return m.prg[off], true
	default:
		return 0, false
	}
}

func (m *uxrom) CPUWrite(a uint16, v uint8) {
	if a < 0x8000 {
		return
	}
	if m.banks16k > 0 {
		m.bank = v % uint8(m.banks16k)
	}
}

func (m *uxrom) PPURead(a uint16) uint8 {
	return m.chrRAM[a&0x1FFF]
}

func (m *uxrom) PPUWrite(a uint16, v uint8) {
	m.chrRAM[a&0x1FFF] = v
}

func (m *uxrom) Mirroring() Mirroring {
	return m.mirroring
}

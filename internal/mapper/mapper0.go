package mapper

import (
	"log"

	"github.com/tpeterson/gones/internal/cart"
)

// nrom is mapper 0: 16 or 32 KiB of fixed PRG-ROM, no bank switching;
// CHR-ROM (or CHR-RAM, if the cartridge declared none) is directly
// addressable with no indirection.
type nrom struct {
	prg       []uint8
	chr       []uint8
	chrIsRAM  bool
	prgRAM    []uint8
	mirroring Mirroring
	mirror16k bool // true when PRG is a single 16 KiB bank, mirrored at $C000
}

func newNROM(rom *cart.ROM) *nrom {
	return &nrom{
		prg:       rom.PRG,
		chr:       rom.CHR,
		chrIsRAM:  rom.CHRIsRAM,
		prgRAM:    make([]uint8, rom.PRGRAM),
		mirroring: fromCartMirroring(rom.Mirroring),
		mirror16k: len(rom.PRG) <= 16384,
	}
}

func (m *nrom) CPURead(a uint16) (uint8, bool) {
	switch {
	case a >= 0x6000 && a < 0x8000:
		if len(m.prgRAM) == 0 {
			return 0, false
		}
		return m.prgRAM[int(a-0x6000)%len(m.prgRAM)], true
	case a >= 0x8000:
		off := int(a - 0x8000)
		if m.mirror16k {
			off %= 16384
		}
		if off >= len(m.prg) {
			return 0, false
		}
		return m.prg[off], true
	default:
		return 0, false
	}
}

func (m *nrom) CPUWrite(a uint16, v uint8) {
	switch {
	case a >= 0x6000 && a < 0x8000:
		if len(m.prgRAM) > 0 {
			m.prgRAM[int(a-0x6000)%len(m.prgRAM)] = v
		}
	case a >= 0x8000:
		// Program ROM is fixed and not writable on mapper 0; real games
		// sometimes do this anyway, so it's tolerated rather than an error.
		log.Printf("mapper0: ignored write of %#02x to read-only PRG-ROM at %#04x", v, a)
	}
}

func (m *nrom) PPURead(a uint16) uint8 {
	if int(a) < len(m.chr) {
		return m.chr[a]
	}
	return 0
}

func (m *nrom) PPUWrite(a uint16, v uint8) {
	if !m.chrIsRAM {
		log.Printf("mapper0: ignored write of %#02x to read-only CHR-ROM at %#04x", v, a)
		return
	}
	if int(a) < len(m.chr) {
		m.chr[a] = v
	}
}

func (m *nrom) Mirroring() Mirroring {
	return m.mirroring
}

package mapper

import "github.com/tpeterson/gones/internal/cart"

// mmc1 is mapper 1: a 5-bit serial shift register feeds four internal
// registers (control, chr0, chr1, prg) selected by address bits 13-14 of the
// $8000-$FFFF write that completes the fifth shift. See spec.md §4.2.
type mmc1 struct {
	prg      []uint8
	chr      []uint8
	chrIsRAM bool
	prgRAM   []uint8

	shift      uint8 // 5-bit load register; $10 is the "ready" sentinel
	shiftCount uint8

	control uint8 // bits: 0-1 mirroring, 2-3 prg mode, 4 chr mode
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgBanks16k int
	prgRAMOn    bool
}

func newMMC1(rom *cart.ROM) *mmc1 {
	m := &mmc1{
		prg:         rom.PRG,
		chr:         rom.CHR,
		chrIsRAM:    rom.CHRIsRAM,
		prgRAM:      make([]uint8, rom.PRGRAM),
		shift:       0x10,
		control:     0b01100, // power-on: fix-last-bank PRG mode, like real MMC1
		prgBanks16k: len(rom.PRG) / 16384,
		prgRAMOn:    true,
	}
	return m
}

func (m *mmc1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mmc1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mmc1) CPURead(a uint16) (uint8, bool) {
	switch {
	case a >= 0x6000 && a < 0x8000:
		if !m.prgRAMOn || len(m.prgRAM) == 0 {
			return 0, false
		}
		return m.prgRAM[int(a-0x6000)%len(m.prgRAM)], true
	case a >= 0x8000 && a < 0xC000:
		bank := m.prgBankLow()
		off := int(bank)*16384 + int(a-0x8000)
		if off >= len(m.prg) {
			return 0, false
		}
		return m.prg[off], true
	case a >= 0xC000:
		bank := m.prgBankHigh()
		off := int(bank)*16384 + int(a-0xC000)
		if off >= len(m.prg) {
			return 0, false
		}
		return m.prg[off], true
	default:
		return 0, false
	}
}

func (m *mmc1) prgBankLow() int {
	switch m.prgMode() {
	case 0, 1:
		return int(m.prgBank &^ 1)
	case 2:
		return 0
	default: // 3: fix-last+switch-first means $8000 switches
		return int(m.prgBank)
	}
}

func (m *mmc1) prgBankHigh() int {
	switch m.prgMode() {
	case 0, 1:
		return int(m.prgBank&^1) | 1
	case 2:
		return int(m.prgBank)
	default: // 3: fix last bank at $C000
		if m.prgBanks16k == 0 {
			return 0
		}
		return m.prgBanks16k - 1
	}
}

func (m *mmc1) CPUWrite(a uint16, v uint8) {
	if a >= 0x6000 && a < 0x8000 {
		if m.prgRAMOn && len(m.prgRAM) > 0 {
			m.prgRAM[int(a-0x6000)%len(m.prgRAM)] = v
		}
		return
	}
	if a < 0x8000 {
		return
	}

	if v&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.control |= 0b01100 // fix-last mode
		return
	}

	m.shift = ((m.shift << 1) | (v & 1)) & 0x1F
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	data := m.shift & 0x1F
	switch (a >> 13) & 0x03 {
	case 0b00:
		m.control = data
	case 0b01:
		m.chrBank0 = data
	case 0b10:
		m.chrBank1 = data
	case 0b11:
		m.prgBank = data & 0x0F
		m.prgRAMOn = data&0x10 == 0
	}
	m.shift = 0x10
	m.shiftCount = 0
}

func (m *mmc1) PPURead(a uint16) uint8 {
	off := m.chrOffset(a)
	if off < len(m.chr) {
		return m.chr[off]
	}
	return 0
}

func (m *mmc1) PPUWrite(a uint16, v uint8) {
	if !m.chrIsRAM {
		return
	}
	off := m.chrOffset(a)
	if off < len(m.chr) {
		m.chr[off] = v
	}
}

func (m *mmc1) chrOffset(a uint16) int {
	if m.chrMode() == 0 {
		bank := m.chrBank0 &^ 1
		if a >= 0x1000 {
			bank |= 1
		}
		return int(bank)*0x1000 + int(a&0x0FFF)
	}
	if a < 0x1000 {
		return int(m.chrBank0)*0x1000 + int(a)
	}
	return int(m.chrBank1)*0x1000 + int(a-0x1000)
}

func (m *mmc1) Mirroring() Mirroring {
	switch m.control & 0x03 {
	case 0:
		return MirrorSingleLower
	case 1:
		return MirrorSingleUpper
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

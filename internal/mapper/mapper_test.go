package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpeterson/gones/internal/cart"
)

func romWithPRG(banks16k int, mapperID uint16) *cart.ROM {
	return &cart.ROM{
		PRG:      make([]uint8, banks16k*16384),
		CHR:      make([]uint8, 8192),
		CHRIsRAM: true,
		MapperID: mapperID,
		PRGRAM:   8192,
	}
}

func TestNROMReadsFixedBanks(t *testing.T) {
	rom := romWithPRG(2, 0)
	rom.PRG[0] = 0x11
	rom.PRG[16384] = 0x22
	m, err := New(rom)
	require.NoError(t, err)

	v, ok := m.CPURead(0x8000)
	require.True(t, ok)
	assert.Equal(t, uint8(0x11), v)

	v, ok = m.CPURead(0xC000)
	require.True(t, ok)
	assert.Equal(t, uint8(0x22), v)
}

func TestNROM16KMirrorsAtC000(t *testing.T) {
	rom := romWithPRG(1, 0)
	rom.PRG[0] = 0xAB
	m, err := New(rom)
	require.NoError(t, err)

	lo, _ := m.CPURead(0x8000)
	hi, _ := m.CPURead(0xC000)
	assert.Equal(t, lo, hi)
	assert.Equal(t, uint8(0xAB), lo)
}

func TestMMC1ShiftRegisterResetsAfterFiveWrites(t *testing.T) {
	rom := romWithPRG(4, 1)
	m, err := New(rom)
	require.NoError(t, err)
	mm := m.(*mmc1)

	mm.CPUWrite(0x8000, 1)
	mm.CPUWrite(0x8000, 0)
	mm.CPUWrite(0x8000, 1)
	mm.CPUWrite(0x8000, 0)
	assert.Equal(t, uint8(0b01010), mm.shift) // not yet reset: 4 writes in
	assert.Equal(t, uint8(4), mm.shiftCount)
	mm.CPUWrite(0x8000, 1)
	assert.Equal(t, uint8(0x10), mm.shift) // fifth write resets to sentinel
	assert.Equal(t, uint8(0), mm.shiftCount)
}

func TestMMC1ShiftRegisterResetsOnBit7(t *testing.T) {
	rom := romWithPRG(4, 1)
	m, err := New(rom)
	require.NoError(t, err)
	mm := m.(*mmc1)

	mm.CPUWrite(0x8000, 0)
	mm.CPUWrite(0x8000, 0)
	mm.CPUWrite(0x8000, 0x80) // bit 7 set: immediate reset
	assert.Equal(t, uint8(0x10), mm.shift)
	assert.Equal(t, uint8(0), mm.shiftCount)
}

func TestMMC1ProgramBankSwitch(t *testing.T) {
	rom := romWithPRG(4, 1)
	rom.PRG[16384] = 0x42 // bank 1, offset 0
	m, err := New(rom)
	require.NoError(t, err)
	mm := m.(*mmc1)
	mm.control = 0b01100 // 16K mode, fix-last

	for _, b := range []uint8{0, 0, 0, 0, 1} {
		mm.CPUWrite(0xE000, b) // $E000-$FFFF selects the prgBank register
	}

	v, ok := mm.CPURead(0x8000)
	require.True(t, ok)
	assert.Equal(t, uint8(0x42), v)

	// $C000-$FFFF still exposes the last bank (bank 3).
	rom.PRG[3*16384] = 0x99
	v, ok = mm.CPURead(0xC000)
	require.True(t, ok)
	assert.Equal(t, uint8(0x99), v)
}

func TestUxROMBankSwitchAndFixedLast(t *testing.T) {
	rom := romWithPRG(4, 2)
	rom.PRG[16384] = 0x77
	rom.PRG[3*16384] = 0x88
	m, err := New(rom)
	require.NoError(t, err)

	m.CPUWrite(0x8000, 1)
	v, ok := m.CPURead(0x8000)
	require.True(t, ok)
	assert.Equal(t, uint8(0x77), v)

	v, ok = m.CPURead(0xC000)
	require.True(t, ok)
	assert.Equal(t, uint8(0x88), v)
}

func TestUnsupportedMapperErrors(t *testing.T) {
	rom := romWithPRG(1, 4)
	_, err := New(rom)
	require.Error(t, err)
}

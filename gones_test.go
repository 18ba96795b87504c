package gones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpeterson/gones/internal/cpu"
)

// romFixedMapper builds a minimal mapper-0 image with a single 16 KiB PRG
// bank, loaded verbatim into prog starting at offset 0 (CPU address $C000,
// since a 16 KiB bank is mirrored at both $8000 and $C000).
func romFixedMapper(prog map[uint16]uint8) []uint8 {
	const prgSize = 16384
	const chrSize = 8192
	data := make([]uint8, 16+prgSize+chrSize)
	copy(data[0:4], "NES\x1A")
	data[4] = 1 // 1x16KiB PRG
	data[5] = 1 // 1x8KiB CHR
	for addr, v := range prog {
		data[16+int(addr-0xC000)] = v
	}
	return data
}

func romMapper1(prgBlocks int) []uint8 {
	const chrSize = 8192
	data := make([]uint8, 16+prgBlocks*16384+chrSize)
	copy(data[0:4], "NES\x1A")
	data[4] = uint8(prgBlocks)
	data[5] = 1
	data[6] = 1 << 4 // mapper id low nibble = 1 (MMC1)
	return data
}

func TestScenarioResetVector(t *testing.T) {
	prog := map[uint16]uint8{
		0xFFFA: 0x00, 0xFFFB: 0x00, // NMI
		0xFFFC: 0x00, 0xFFFD: 0xC0, // reset -> $C000
		0xFFFE: 0x00, 0xFFFF: 0x80, // IRQ
	}
	sys, err := New(romFixedMapper(prog), Options{})
	require.NoError(t, err)

	assert.Equal(t, uint16(0xC000), sys.CPU.PC)
}

func TestScenarioPageWrapIndirectJMP(t *testing.T) {
	prog := map[uint16]uint8{
		0xC000: 0x6C, 0xC001: 0xFF, 0xC002: 0x02, // JMP ($02FF)
		0xFFFC: 0x00, 0xFFFD: 0xC0,
	}
	sys, err := New(romFixedMapper(prog), Options{})
	require.NoError(t, err)

	require.NoError(t, sys.WriteByte(0x02FF, 0x40))
	require.NoError(t, sys.WriteByte(0x0200, 0x80))

	_, err = sys.CPU.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8040), sys.CPU.PC)
}

func TestScenarioADCOverflowFlag(t *testing.T) {
	prog := map[uint16]uint8{
		0xC000: 0x69, 0xC001: 0x50, // ADC #$50
		0xFFFC: 0x00, 0xFFFD: 0xC0,
	}
	sys, err := New(romFixedMapper(prog), Options{})
	require.NoError(t, err)
	sys.CPU.A = 0x50
	sys.CPU.Status &^= cpu.FlagCarry

	_, err = sys.CPU.Step()
	require.NoError(t, err)

	assert.Equal(t, uint8(0xA0), sys.CPU.A)
	assert.Zero(t, sys.CPU.Status&cpu.FlagCarry)
	assert.NotZero(t, sys.CPU.Status&cpu.FlagOverflow)
	assert.NotZero(t, sys.CPU.Status&cpu.FlagNegative)
	assert.Zero(t, sys.CPU.Status&cpu.FlagZero)
}

func TestScenarioBranchTakenAcrossPage(t *testing.T) {
	prog := map[uint16]uint8{
		0xC0FE: 0xB0, 0xC0FF: 0x04, // BCS +4
		0xFFFC: 0x00, 0xFFFD: 0xC0,
	}
	sys, err := New(romFixedMapper(prog), Options{})
	require.NoError(t, err)

	sys.CPU.PC = 0xC0FE
	sys.CPU.Status |= cpu.FlagCarry

	cycles, err := sys.CPU.Step()
	require.NoError(t, err)

	assert.Equal(t, uint16(0xC104), sys.CPU.PC)
	assert.Equal(t, 4, cycles)
}

func TestScenarioVBlankNMITiming(t *testing.T) {
	prog := map[uint16]uint8{
		0xFFFA: 0x00, 0xFFFB: 0xD0, // NMI -> $D000
		0xFFFC: 0x00, 0xFFFD: 0xC0,
	}
	for a := uint32(0xC000); a < 0xFFFA; a++ {
		prog[uint16(a)] = 0xEA // NOP, runs out the clock until v-blank
	}
	sys, err := New(romFixedMapper(prog), Options{})
	require.NoError(t, err)

	require.NoError(t, sys.WriteByte(0x2000, 0x80)) // NMI enable

	for i := 0; i < 400000 && sys.PPU.Row != 241; i++ {
		_, err := sys.CPU.Step()
		require.NoError(t, err)
		for j := 0; j < 6; j++ {
			sys.PPU.Tick()
		}
	}
	// The PPU starts at (261,0), 82522 dots before (241,0); in 6-dot steps
	// the loop stops after 82524 dots, with the v-blank dot already run.
	require.Equal(t, 241, sys.PPU.Row)
	require.Equal(t, 2, sys.PPU.Col)
	require.True(t, sys.PPU.TakeNMI())

	_, err = sys.CPU.EnterNMI()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xD000), sys.CPU.PC)
}

func TestScenarioMapper1ProgramBankSwitch(t *testing.T) {
	data := romMapper1(4)
	data[16+1*16384] = 0x42 // bank 1, offset 0
	data[16+3*16384] = 0x99 // bank 3 (last), offset 0
	sys, err := New(data, Options{})
	require.NoError(t, err)

	// $E000-$FFFF selects the PRG-bank register; five serial writes (the
	// fifth completes the shift) set it to 0b00001.
	for _, v := range []uint8{0, 0, 0, 0, 1} {
		require.NoError(t, sys.WriteByte(0xE000, v))
	}

	v, err := sys.ReadByte(0x8000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v) // bank 1 now visible at $8000

	v, err = sys.ReadByte(0xC000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x99), v) // last bank stays fixed at $C000
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := make([]uint8, 16+16384+8192)
	copy(data[0:4], "NES\x1A")
	data[4] = 1
	data[5] = 1
	data[6] = 0xF0 // mapper low nibble 15
	data[7] = 0xF0 // mapper high nibble 15 -> id 255, unsupported
	_, err := New(data, Options{})
	require.Error(t, err)
}

package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpeterson/gones/internal/cart"
	"github.com/tpeterson/gones/internal/mapper"
)

type fakePPU struct {
	regs      [8]uint8
	oamWrites []uint8
	oam       [256]uint8
	oamAddr   uint8
}

func (p *fakePPU) ReadRegister(addr uint16) uint8 { return p.regs[addr&7] }
func (p *fakePPU) PeekRegister(addr uint16) uint8 { return p.regs[addr&7] }
func (p *fakePPU) WriteRegister(addr uint16, v uint8) {
	p.regs[addr&7] = v
	switch addr & 7 {
	case 3: // OAMADDR
		p.oamAddr = v
	case 4: // OAMDATA
		p.oamWrites = append(p.oamWrites, v)
		p.oam[p.oamAddr] = v
		p.oamAddr++
	}
}

func newTestBus(t *testing.T) (*Bus, *fakePPU) {
	rom := &cart.ROM{PRG: make([]uint8, 32768), CHR: make([]uint8, 8192), MapperID: 0}
	m, err := mapper.New(rom)
	require.NoError(t, err)
	p := &fakePPU{}
	return New(p, m), p
}

func TestRAMMirroring(t *testing.T) {
	b, _ := newTestBus(t)
	require.NoError(t, b.Write(0x0000, 0x42))
	v, err := b.Read(0x0800) // mirrors $0000
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v)
}

func TestPPURegisterMirroring(t *testing.T) {
	b, p := newTestBus(t)
	require.NoError(t, b.Write(0x2000, 0x11))
	require.NoError(t, b.Write(0x2008, 0x22)) // mirrors $2000
	assert.Equal(t, uint8(0x22), p.regs[0])
}

func TestReservedRegionErrors(t *testing.T) {
	b, _ := newTestBus(t)
	_, err := b.Read(0x4018)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReservedRegion))
	assert.Error(t, b.Write(0x401F, 0))
}

func TestIOStubsAreNoOps(t *testing.T) {
	b, _ := newTestBus(t)
	v, err := b.Read(0x4000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), v)
	require.NoError(t, b.Write(0x4005, 0xFF))
}

func TestControllerStrobeAndRead(t *testing.T) {
	b, _ := newTestBus(t)
	b.Pad1.SetButton(1, true) // ButtonA
	require.NoError(t, b.Write(0x4016, 1))
	require.NoError(t, b.Write(0x4016, 0))

	v, err := b.Read(0x4016)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
}

func TestOAMDMACopiesPageAndChargesCycles(t *testing.T) {
	b, p := newTestBus(t)
	for i := 0; i < 256; i++ {
		require.NoError(t, b.Write(uint16(i), uint8(i)))
	}
	require.NoError(t, b.Write(0x4014, 0x00))

	assert.Len(t, p.oamWrites, 256)
	assert.Equal(t, uint8(0), p.oamWrites[0])
	assert.Equal(t, uint8(255), p.oamWrites[255])
	assert.Equal(t, 513, b.TakeDMACycles())
	assert.Equal(t, 0, b.TakeDMACycles())
}

func TestOAMDMARotatesOAMByNonzeroLatch(t *testing.T) {
	b, p := newTestBus(t)
	for i := 0; i < 256; i++ {
		require.NoError(t, b.Write(uint16(i), uint8(i)))
	}
	const latch = 0x30
	require.NoError(t, b.Write(0x2003, latch)) // OAMADDR
	require.NoError(t, b.Write(0x4014, 0x00))

	for i := 0; i < 256; i++ {
		assert.Equal(t, uint8(i), p.oam[uint8(latch+i)])
	}
}

func TestMapperRoutingAndUnmapped(t *testing.T) {
	b, _ := newTestBus(t)
	require.NoError(t, b.Write(0x8000, 0)) // tolerated no-op write to ROM
	v, err := b.Read(0x8000)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), v)

	_, err = b.Read(0x5000) // below any window mapper 0 defines
	assert.True(t, errors.Is(err, ErrUnmapped))
}

func TestReadWordZeroPageWraps(t *testing.T) {
	b, _ := newTestBus(t)
	require.NoError(t, b.Write(0x00FF, 0x34))
	require.NoError(t, b.Write(0x0000, 0x12)) // wraps from $FF to $00 within zero page
	v, err := b.ReadWordZeroPage(0xFF)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
}

func TestPeekDoesNotAdvanceControllerShift(t *testing.T) {
	b, _ := newTestBus(t)
	b.Pad1.SetButton(2, true) // ButtonB -> bit 1
	require.NoError(t, b.Write(0x4016, 1))
	require.NoError(t, b.Write(0x4016, 0))

	first, err := b.Peek(0x4016)
	require.NoError(t, err)
	second, err := b.Peek(0x4016)
	require.NoError(t, err)
	assert.Equal(t, first, second) // peeking twice returns the same bit
}

package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeHiLo(t *testing.T) {
	a := Make(0x12, 0x34)
	assert.Equal(t, uint16(0x1234), a)
	assert.Equal(t, uint8(0x12), Hi(a))
	assert.Equal(t, uint8(0x34), Lo(a))
}

func TestSamePage(t *testing.T) {
	assert.True(t, SamePage(0x1234, 0x12FF))
	assert.False(t, SamePage(0x12FF, 0x1300))
}

func TestAddWrap(t *testing.T) {
	assert.Equal(t, uint16(0x0000), AddWrap(0xFFFF, 1))
	assert.Equal(t, uint16(0xFFFF), AddWrap(0x0000, -1))
}

func TestZPIndexWraps(t *testing.T) {
	assert.Equal(t, uint8(0x02), ZPIndex(0xFF, 0x03))
}

package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryOverwritesOldestPastCapacity(t *testing.T) {
	h := NewHistory(3)
	for i := uint16(0); i < 5; i++ {
		h.Push(Entry{PC: i})
	}
	got := h.Entries()
	assert.Len(t, got, 3)
	assert.Equal(t, []uint16{2, 3, 4}, []uint16{got[0].PC, got[1].PC, got[2].PC})
}

func TestHistoryBelowCapacityKeepsAllInOrder(t *testing.T) {
	h := NewHistory(5)
	h.Push(Entry{PC: 1})
	h.Push(Entry{PC: 2})
	got := h.Entries()
	assert.Equal(t, []uint16{1, 2}, []uint16{got[0].PC, got[1].PC})
	assert.Equal(t, 2, h.Len())
}

func TestZeroCapacityHistoryDiscardsEverything(t *testing.T) {
	h := NewHistory(0)
	h.Push(Entry{PC: 1})
	assert.Nil(t, h.Entries())
	assert.Equal(t, 0, h.Len())
}

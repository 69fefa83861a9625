package qem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapPopsInAscendingCostOrder(t *testing.T) {
	var h pairRefHeap
	h.push(3, 30)
	h.push(1, 10)
	h.push(2, 20)

	var order []int
	for {
		entry, ok := h.popEntry()
		if !ok {
			break
		}
		order = append(order, entry.pairID)
	}

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestHeapEmptyPopReportsFalse(t *testing.T) {
	var h pairRefHeap
	_, ok := h.popEntry()
	assert.False(t, ok)
}

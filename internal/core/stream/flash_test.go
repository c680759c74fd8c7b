package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentlens/agentlens/internal/core/model"
)

func TestComputeNewlyArrived(t *testing.T) {
	previous := IDSet([]model.Event{{ByteOffset: 0}, {ByteOffset: 100}})
	current := IDSet([]model.Event{{ByteOffset: 0}, {ByteOffset: 100}, {ByteOffset: 200}, {ByteOffset: 300}})

	arrived := ComputeNewlyArrived(previous, current)
	assert.Equal(t, map[int64]struct{}{200: {}, 300: {}}, arrived)
}

func TestComputeNewlyArrivedNoChanges(t *testing.T) {
	ids := IDSet([]model.Event{{ByteOffset: 0}, {ByteOffset: 100}})
	assert.Empty(t, ComputeNewlyArrived(ids, ids))
}

func TestComputeNewlyArrivedIgnoresRemovals(t *testing.T) {
	previous := IDSet([]model.Event{{ByteOffset: 0}, {ByteOffset: 100}})
	current := IDSet([]model.Event{{ByteOffset: 100}})
	assert.Empty(t, ComputeNewlyArrived(previous, current))
}

func TestIDSetUsesByteOffsets(t *testing.T) {
	ids := IDSet([]model.Event{{Sequence: 1, ByteOffset: 50}, {Sequence: 2, ByteOffset: 150}})
	assert.Equal(t, map[int64]struct{}{50: {}, 150: {}}, ids)
}

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/core/stream"
	"github.com/agentlens/agentlens/internal/presentation/layout"
)

func TestPaneSizesFollowSelection(t *testing.T) {
	event := &model.Event{Sequence: 1}

	assert.Equal(t, layout.PaneSizes{Main: 100},
		paneSizes(stream.Selection{}))
	assert.Equal(t, layout.PaneSizes{Main: 60, Detail: 40},
		paneSizes(stream.Selection{SelectedEvent: event}))
	assert.Equal(t, layout.PaneSizes{Main: 60, Sub: 40},
		paneSizes(stream.Selection{SelectedSubagentID: "a1"}))
	assert.Equal(t, layout.PaneSizes{Main: 34, Sub: 33, Detail: 33},
		paneSizes(stream.Selection{SelectedSubagentID: "a1", SelectedSubagentEvent: event}))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0a1b2c3d", shortID("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"))
	assert.Equal(t, "a42", shortID("a42"))
	assert.Equal(t, "", shortID(""))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512B", formatSize(512))
	assert.Equal(t, "2.0KB", formatSize(2048))
	assert.Equal(t, "1.5MB", formatSize(3*1<<20/2))
}

package logfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventUserMessage(t *testing.T) {
	line := `{"type":"user","uuid":"u1","timestamp":"2026-08-01T10:00:00Z","userType":"external","message":{"role":"user","content":"fix the bug"}}`

	event, ok := ParseEvent(line, 3, 120)
	require.True(t, ok)
	assert.Equal(t, 3, event.Sequence)
	assert.Equal(t, int64(120), event.ByteOffset)
	assert.Equal(t, "user", event.EventType)
	assert.Equal(t, "u1", event.UUID)
	assert.Equal(t, "external", event.UserType)
	assert.Equal(t, "fix the bug", event.Preview)
	assert.False(t, event.IsToolResult)
}

func TestParseEventAssistantTextAndTools(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[{"type":"thinking","thinking":"hmm"},{"type":"text","text":"running it"},{"type":"tool_use","name":"Bash","input":{"command":"ls"}},{"type":"tool_use","name":"Read","input":{"file_path":"/a"}}]}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "running it", event.Preview)
	assert.Equal(t, "thinking, Bash, Read", event.ToolName)
}

func TestParseEventToolUseOnlyPreview(t *testing.T) {
	line := `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{"command":"ls"}}]}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "[Tool: Bash]", event.Preview)
	assert.Equal(t, "Bash", event.ToolName)
}

func TestParseEventToolResult(t *testing.T) {
	line := `{"type":"user","message":{"content":[{"type":"tool_result","tool_use_id":"t1","content":"file listing"}]}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.True(t, event.IsToolResult)
	assert.Equal(t, "file listing", event.Preview)
}

func TestParseEventSystemAndSummary(t *testing.T) {
	event, ok := ParseEvent(`{"type":"system","subtype":"info","content":"hook finished"}`, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "system", event.EventType)
	assert.Equal(t, "info", event.Subtype)
	assert.Equal(t, "hook finished", event.Preview)

	event, ok = ParseEvent(`{"type":"summary","summary":"refactor session","leafUuid":"l1"}`, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "refactor session", event.Preview)
	assert.Equal(t, "refactor session", event.Summary)
	assert.Equal(t, "l1", event.LeafUUID)
}

func TestParseEventCompactBoundary(t *testing.T) {
	line := `{"type":"system","subtype":"compact_boundary","logicalParentUuid":"p1","compactMetadata":{"trigger":"auto","preTokens":155000}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "compact_boundary", event.Subtype)
	require.NotNil(t, event.CompactMetadata)
	assert.Equal(t, "auto", event.CompactMetadata.Trigger)
	assert.Equal(t, uint64(155000), event.CompactMetadata.PreTokens)
	assert.Equal(t, "p1", event.LogicalParentUUID)
}

func TestParseEventCompactMetadataMissingTrigger(t *testing.T) {
	line := `{"type":"system","subtype":"compact_boundary","compactMetadata":{"preTokens":1}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	require.NotNil(t, event.CompactMetadata)
	assert.Equal(t, "unknown", event.CompactMetadata.Trigger)
}

func TestParseEventSubagentLaunch(t *testing.T) {
	line := `{"type":"user","message":{"content":[{"type":"tool_result","content":"launched"}]},"toolUseResult":{"agentId":"a42","isAsync":true,"status":"async_launched","description":"explore the repo"}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "a42", event.LaunchedAgentID)
	assert.True(t, event.LaunchedAgentIsAsync)
	assert.Equal(t, "async_launched", event.LaunchedAgentStatus)
	assert.Equal(t, "explore the repo", event.LaunchedAgentDescription)
}

func TestParseEventCompactSummaryMarker(t *testing.T) {
	line := `{"type":"user","isCompactSummary":true,"isMeta":false,"message":{"content":"This session is being continued..."}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.True(t, event.IsCompactSummary)
	assert.False(t, event.IsMeta)
}

func TestParseEventUnknownType(t *testing.T) {
	event, ok := ParseEvent(`{"foo":"bar"}`, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "unknown", event.EventType)
}

func TestParseEventInvalidJSON(t *testing.T) {
	_, ok := ParseEvent("not json at all", 0, 0)
	assert.False(t, ok)
}

func TestParseEventPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 600)
	line := `{"type":"user","message":{"content":"` + long + `"}}`

	event, ok := ParseEvent(line, 0, 0)
	require.True(t, ok)
	assert.Equal(t, 503, len(event.Preview))
	assert.True(t, strings.HasSuffix(event.Preview, "..."))
}

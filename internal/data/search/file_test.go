package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileSearchFindsMatches(t *testing.T) {
	path := writeLogFile(t,
		`{"type":"user","message":{"content":"please fix the error"}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"looking into it"}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"text","text":"found the error in bash"}]}}`,
	)

	resp := File(path, "error", 0)
	assert.Equal(t, 3, resp.TotalSearched)
	assert.False(t, resp.Truncated)
	require.Len(t, resp.Matches, 2)

	// Oldest first, sequence is the 0-indexed line number
	assert.Equal(t, 0, resp.Matches[0].Sequence)
	assert.Equal(t, 2, resp.Matches[1].Sequence)
}

func TestFileSearchByteOffsets(t *testing.T) {
	lines := []string{
		`{"type":"user","message":{"content":"first"}}`,
		`{"type":"user","message":{"content":"the needle"}}`,
	}
	path := writeLogFile(t, lines...)

	resp := File(path, "needle", 0)
	require.Len(t, resp.Matches, 1)

	// The offset must point at the start of the matching line, newline
	// bytes included in the accounting
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	offset := resp.Matches[0].ByteOffset
	assert.Equal(t, int64(len(lines[0])+1), offset)
	assert.Equal(t, lines[1], string(raw[offset:offset+int64(len(lines[1]))]))
}

func TestFileSearchSnippetFromContent(t *testing.T) {
	path := writeLogFile(t,
		`{"type":"user","message":{"content":"an error occurred while running"}}`,
	)

	resp := File(path, "error", 0)
	require.Len(t, resp.Matches, 1)
	// Snippet comes from extracted content, not raw JSON
	assert.Equal(t, "an error occurred while running", resp.Matches[0].Snippet)
}

func TestFileSearchTruncation(t *testing.T) {
	lines := make([]string, 5)
	for i := range lines {
		lines[i] = `{"type":"user","message":{"content":"error again"}}`
	}
	path := writeLogFile(t, lines...)

	resp := File(path, "error", 3)
	assert.Len(t, resp.Matches, 3)
	assert.True(t, resp.Truncated)
}

func TestFileSearchBooleanQuery(t *testing.T) {
	path := writeLogFile(t,
		`{"type":"user","message":{"content":"bash failed with error"}}`,
		`{"type":"user","message":{"content":"python failed with error"}}`,
		`{"type":"user","message":{"content":"wrote the output file"}}`,
	)

	resp := File(path, "error AND bash OR wrote", 0)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, 0, resp.Matches[0].Sequence)
	assert.Equal(t, 2, resp.Matches[1].Sequence)
}

func TestFileSearchEmptyQuery(t *testing.T) {
	path := writeLogFile(t, `{"type":"user","message":{"content":"anything"}}`)

	resp := File(path, "   ", 0)
	assert.Empty(t, resp.Matches)
	assert.Equal(t, 0, resp.TotalSearched)
}

func TestFileSearchMissingFile(t *testing.T) {
	resp := File(filepath.Join(t.TempDir(), "absent.jsonl"), "term", 0)
	assert.Empty(t, resp.Matches)
}

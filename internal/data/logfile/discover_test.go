package logfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentlens/agentlens/internal/core/model"
)

func TestEncodeProjectPath(t *testing.T) {
	assert.Equal(t, "-Users-alice-project", encodeProjectPath("/Users/alice/project"))
	assert.Equal(t, "-Users-alice-my-docs", encodeProjectPath("/Users/alice/my docs"))
}

func TestIsUUIDFormat(t *testing.T) {
	assert.True(t, isUUIDFormat("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"))
	assert.True(t, isUUIDFormat("ABCDEF01-2345-6789-abcd-ef0123456789"))
	assert.False(t, isUUIDFormat("not-a-uuid"))
	assert.False(t, isUUIDFormat("0a1b2c3d-4e5f-6071-8293"))
	assert.False(t, isUUIDFormat("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8g9"))
	assert.False(t, isUUIDFormat(""))
}

func TestSessionsSkipsAgentAndNonUUIDFiles(t *testing.T) {
	dataDir := t.TempDir()
	projectDir := filepath.Join(dataDir, encodeProjectPath(testProject))
	require.NoError(t, os.MkdirAll(projectDir, 0755))

	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, name), []byte("{}\n"), 0644))
	}
	write(testSessionID + ".jsonl")
	write("agent-a42.jsonl")
	write("notes.jsonl")
	write("README.md")

	store, err := NewStore(dataDir)
	require.NoError(t, err)

	sessions := store.Sessions(testProject)
	require.Len(t, sessions, 1)
	assert.Equal(t, testSessionID, sessions[0].SessionID)
	assert.Equal(t, int64(3), sessions[0].SizeBytes)
}

func TestProjectsRecoversPathFromCwd(t *testing.T) {
	dataDir := t.TempDir()
	projectDir := filepath.Join(dataDir, encodeProjectPath(testProject))
	require.NoError(t, os.MkdirAll(projectDir, 0755))

	line := `{"type":"user","cwd":"` + testProject + `","message":{"content":"hi"}}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, testSessionID+".jsonl"), []byte(line), 0644))

	store, err := NewStore(dataDir)
	require.NoError(t, err)

	projects := store.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, testProject, projects[0].Path)
	assert.Equal(t, encodeProjectPath(testProject), projects[0].EncodedName)
	assert.Equal(t, 1, projects[0].SessionCount)
}

func TestProjectsSkipsEmptyDirs(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "-tmp-empty"), 0755))

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	assert.Empty(t, store.Projects())
}

func TestScopePathResolution(t *testing.T) {
	store := newTestStore(t, sessionLines(1)...)

	sessionPath := store.ScopePath(model.SessionScope(testProject, testSessionID))
	assert.NotEmpty(t, sessionPath)
	assert.FileExists(t, sessionPath)

	// Missing agent log resolves to ""
	assert.Empty(t, store.ScopePath(model.AgentScope(testProject, "nope")))
}

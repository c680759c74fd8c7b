package logfile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/agentlens/agentlens/internal/core/model"
)

// encodeProjectPath converts a project path to its directory name under
// the data dir, e.g. "/Users/alice/project" -> "-Users-alice-project".
func encodeProjectPath(projectPath string) string {
	return strings.ReplaceAll(strings.ReplaceAll(projectPath, "/", "-"), " ", "-")
}

// sessionFilePath returns the log file path for a session, or "" if it
// does not exist.
func (s *Store) sessionFilePath(projectPath, sessionID string) string {
	path := filepath.Join(s.dataDir, encodeProjectPath(projectPath), sessionID+".jsonl")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// agentFilePath returns the log file path for a sub-agent, or "" if it
// does not exist.
func (s *Store) agentFilePath(projectPath, agentID string) string {
	path := filepath.Join(s.dataDir, encodeProjectPath(projectPath), "agent-"+agentID+".jsonl")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// scopeFilePath resolves a scope to its backing log file, or "".
func (s *Store) scopeFilePath(scope model.Scope) string {
	if scope.IsAgent() {
		return s.agentFilePath(scope.ProjectPath, scope.AgentID)
	}
	return s.sessionFilePath(scope.ProjectPath, scope.SessionID)
}

// ScopePath satisfies the watcher's PathResolver.
func (s *Store) ScopePath(scope model.Scope) string {
	return s.scopeFilePath(scope)
}

// Projects lists all project directories under the data dir, most
// recently active first. The project path is recovered from the first
// session file's cwd field when possible, otherwise decoded from the
// directory name.
func (s *Store) Projects() []model.Project {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil
	}

	var projects []model.Project
	for _, entry := range entries {
		if !entry.IsDir() || strings.Contains(entry.Name(), "private-var-folders") {
			continue
		}

		dir := filepath.Join(s.dataDir, entry.Name())
		sessions := listSessionFiles(dir)
		if len(sessions) == 0 {
			continue
		}

		projectPath := extractProjectPath(sessions[0].FilePath)
		if projectPath == "" {
			projectPath = decodeProjectDir(entry.Name())
		}

		projects = append(projects, model.Project{
			Path:         projectPath,
			EncodedName:  entry.Name(),
			SessionCount: len(sessions),
			LastActivity: sessions[0].ModifiedAt,
		})
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].LastActivity.After(projects[j].LastActivity)
	})
	return projects
}

// Sessions lists the session logs for a project, newest first. Sub-agent
// files and non-UUID files are skipped.
func (s *Store) Sessions(projectPath string) []model.SessionInfo {
	dir := filepath.Join(s.dataDir, encodeProjectPath(projectPath))
	return listSessionFiles(dir)
}

func listSessionFiles(dir string) []model.SessionInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var sessions []model.SessionInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		id := strings.TrimSuffix(name, ".jsonl")
		if strings.HasPrefix(id, "agent-") || !isUUIDFormat(id) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		sessions = append(sessions, model.SessionInfo{
			SessionID:  id,
			FilePath:   filepath.Join(dir, name),
			ModifiedAt: info.ModTime(),
			SizeBytes:  info.Size(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ModifiedAt.After(sessions[j].ModifiedAt)
	})
	return sessions
}

// isUUIDFormat checks the 8-4-4-4-12 hex layout of session IDs.
func isUUIDFormat(s string) bool {
	parts := strings.Split(s, "-")
	expected := []int{8, 4, 4, 4, 12}
	if len(parts) != len(expected) {
		return false
	}
	for i, part := range parts {
		if len(part) != expected[i] {
			return false
		}
		for _, c := range part {
			if !isHexDigit(c) {
				return false
			}
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// extractProjectPath reads the cwd field from the first few entries of a
// session file.
func extractProjectPath(filePath string) string {
	file, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer file.Close()

	type cwdEntry struct {
		Cwd string `json:"cwd"`
	}

	index, err := buildLineIndex(file)
	if err != nil {
		return ""
	}
	limit := len(index)
	if limit > 100 {
		limit = 100
	}
	for i := 0; i < limit; i++ {
		line, err := readLineAt(file, index[i].offset, index[i].length)
		if err != nil {
			continue
		}
		var entry cwdEntry
		if err := sonic.UnmarshalString(line, &entry); err == nil && entry.Cwd != "" {
			return entry.Cwd
		}
	}
	return ""
}

// decodeProjectDir is a lossy fallback: encoded names replace both "/"
// and " " with "-", so the original path cannot always be recovered.
func decodeProjectDir(name string) string {
	return strings.ReplaceAll(name, "-", "/")
}

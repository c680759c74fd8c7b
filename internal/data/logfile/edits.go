package logfile

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/agentlens/agentlens/internal/core/model"
)

type toolEntry struct {
	Type      string       `json:"type"`
	Timestamp string       `json:"timestamp"`
	Message   *toolMessage `json:"message"`
}

type toolMessage struct {
	Content []toolContent `json:"content"`
}

type toolContent struct {
	Type  string                 `json:"type"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// extractFileEdits scans a session log for Edit/Write/MultiEdit tool uses
// and summarizes them per file. A Write to a file never seen before is
// "added"; an Edit whose old_string is non-empty proves prior content and
// keeps the file "modified".
func extractFileEdits(path string, projectPath string) []model.FileEdit {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	operations := make(map[string]model.FileEditType)
	priorContent := make(map[string]bool)
	timestamps := make(map[string]string)

	reader := bufio.NewReaderSize(file, 256*1024)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			// Cheap pre-filter before JSON decoding
			if strings.Contains(line, `"tool_use"`) {
				recordToolUses(line, projectPath, operations, priorContent, timestamps)
			}
		}
		if err != nil {
			if err != io.EOF {
				return nil
			}
			break
		}
	}

	edits := make([]model.FileEdit, 0, len(operations))
	for p, editType := range operations {
		if editType == model.EditModified && !priorContent[p] {
			editType = model.EditAdded
		}
		edits = append(edits, model.FileEdit{
			Path:         p,
			EditType:     editType,
			LastEditedAt: timestamps[p],
		})
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].Path < edits[j].Path })
	return edits
}

func recordToolUses(line, projectPath string, operations map[string]model.FileEditType, priorContent map[string]bool, timestamps map[string]string) {
	var entry toolEntry
	if err := sonic.UnmarshalString(strings.TrimRight(line, "\r\n"), &entry); err != nil {
		return
	}
	if entry.Type != "assistant" || entry.Message == nil {
		return
	}

	for _, item := range entry.Message.Content {
		if item.Type != "tool_use" || item.Input == nil {
			continue
		}
		filePath, _ := item.Input["file_path"].(string)
		if filePath == "" {
			continue
		}
		relPath := makeRelativePath(filePath, projectPath)

		switch item.Name {
		case "Edit":
			if old, _ := item.Input["old_string"].(string); old != "" {
				priorContent[relPath] = true
			}
			operations[relPath] = model.EditModified
		case "Write":
			// Write to a previously edited file stays modified
			if _, seen := operations[relPath]; !seen {
				operations[relPath] = model.EditAdded
			}
		case "MultiEdit":
			if edits, ok := item.Input["edits"].([]interface{}); ok {
				for _, e := range edits {
					if edit, ok := e.(map[string]interface{}); ok {
						if old, _ := edit["old_string"].(string); old != "" {
							priorContent[relPath] = true
							break
						}
					}
				}
			}
			operations[relPath] = model.EditModified
		default:
			continue
		}

		if entry.Timestamp != "" {
			timestamps[relPath] = entry.Timestamp
		}
	}
}

// makeRelativePath strips the project root prefix for display.
func makeRelativePath(filePath, projectPath string) string {
	if projectPath != "" && strings.HasPrefix(filePath, projectPath) {
		rel := strings.TrimPrefix(filePath, projectPath)
		return strings.TrimPrefix(rel, "/")
	}
	return filePath
}

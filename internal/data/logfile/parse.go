package logfile

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/agentlens/agentlens/internal/core/model"
)

const previewMaxChars = 500

// jsonlEntry covers only the fields the event log cares about; the rest of
// the record stays opaque and is fetched on demand as a raw payload.
type jsonlEntry struct {
	Type              string                `json:"type"`
	Subtype           string                `json:"subtype"`
	UUID              string                `json:"uuid"`
	Timestamp         string                `json:"timestamp"`
	Message           *jsonlMessage         `json:"message"`
	Content           string                `json:"content"`
	Summary           string                `json:"summary"`
	LogicalParentUUID string                `json:"logicalParentUuid"`
	LeafUUID          string                `json:"leafUuid"`
	CompactMetadata   *jsonlCompactMetadata `json:"compactMetadata"`
	ToolUseResult     *jsonlToolUseResult   `json:"toolUseResult"`
	UserType          string                `json:"userType"`
	IsCompactSummary  bool                  `json:"isCompactSummary"`
	IsMeta            bool                  `json:"isMeta"`
}

type jsonlMessage struct {
	Content interface{} `json:"content"`
}

type jsonlCompactMetadata struct {
	Trigger   string `json:"trigger"`
	PreTokens uint64 `json:"preTokens"`
}

// jsonlToolUseResult carries sub-agent launch data from Task tool results.
// Both sync and async completions include agentId:
//   - async launch: { agentId, isAsync: true, status: "async_launched", description }
//   - completion:   { agentId, status: "completed", prompt, content, ... }
type jsonlToolUseResult struct {
	AgentID     string `json:"agentId"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	IsAsync     bool   `json:"isAsync"`
	Status      string `json:"status"`
}

// ParseEvent parses a single JSONL line into an Event. Returns false for
// lines that are not valid JSON objects.
func ParseEvent(line string, sequence int, byteOffset int64) (model.Event, bool) {
	var entry jsonlEntry
	if err := sonic.UnmarshalString(line, &entry); err != nil {
		return model.Event{}, false
	}

	eventType := entry.Type
	if eventType == "" {
		eventType = "unknown"
	}

	var preview string
	switch eventType {
	case "user", "assistant":
		if entry.Message != nil {
			preview = previewFromContent(entry.Message.Content)
		}
	case "system":
		preview = truncateRunes(entry.Content, previewMaxChars)
	case "summary":
		preview = truncateRunes(entry.Summary, previewMaxChars)
	}

	var toolName string
	if eventType == "assistant" && entry.Message != nil {
		toolName = contentLabels(entry.Message.Content)
	}

	var compact *model.CompactMetadata
	if entry.CompactMetadata != nil {
		trigger := entry.CompactMetadata.Trigger
		if trigger == "" {
			trigger = "unknown"
		}
		compact = &model.CompactMetadata{Trigger: trigger, PreTokens: entry.CompactMetadata.PreTokens}
	}

	event := model.Event{
		Sequence:          sequence,
		UUID:              entry.UUID,
		Timestamp:         entry.Timestamp,
		EventType:         eventType,
		Subtype:           entry.Subtype,
		ToolName:          toolName,
		Preview:           preview,
		ByteOffset:        byteOffset,
		CompactMetadata:   compact,
		Summary:           entry.Summary,
		LogicalParentUUID: entry.LogicalParentUUID,
		LeafUUID:          entry.LeafUUID,
		UserType:          entry.UserType,
		IsCompactSummary:  entry.IsCompactSummary,
		IsMeta:            entry.IsMeta,
	}

	if r := entry.ToolUseResult; r != nil {
		event.LaunchedAgentID = r.AgentID
		event.LaunchedAgentDescription = r.Description
		event.LaunchedAgentPrompt = r.Prompt
		event.LaunchedAgentIsAsync = r.IsAsync
		event.LaunchedAgentStatus = r.Status
	}

	if entry.Message != nil {
		event.IsToolResult = isToolResultContent(entry.Message.Content)
	}

	return event, true
}

// previewFromContent extracts display text from message content, which is
// either a plain string or an array of content blocks. Preference order:
// text, thinking, tool_use marker, tool_result content.
func previewFromContent(content interface{}) string {
	switch c := content.(type) {
	case string:
		return truncateRunes(c, previewMaxChars)
	case []interface{}:
		for _, item := range c {
			if block, ok := item.(map[string]interface{}); ok && block["type"] == "text" {
				if text, ok := block["text"].(string); ok {
					return truncateRunes(text, previewMaxChars)
				}
			}
		}
		for _, item := range c {
			if block, ok := item.(map[string]interface{}); ok && block["type"] == "thinking" {
				if thinking, ok := block["thinking"].(string); ok {
					return truncateRunes(thinking, previewMaxChars)
				}
			}
		}
		for _, item := range c {
			block, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			switch block["type"] {
			case "tool_use":
				if name, ok := block["name"].(string); ok {
					return fmt.Sprintf("[Tool: %s]", name)
				}
			case "tool_result":
				if text, ok := block["content"].(string); ok {
					return truncateRunes(text, previewMaxChars)
				}
			}
		}
		if len(c) > 0 {
			if data, err := sonic.Marshal(c[0]); err == nil {
				return truncateRunes(string(data), previewMaxChars)
			}
		}
		return ""
	case nil:
		return ""
	default:
		if data, err := sonic.Marshal(c); err == nil {
			return truncateRunes(string(data), previewMaxChars)
		}
		return ""
	}
}

// contentLabels builds the assistant event label: "thinking" if a thinking
// block is present, followed by the names of all tool_use blocks.
func contentLabels(content interface{}) string {
	blocks, ok := content.([]interface{})
	if !ok {
		return ""
	}

	var labels []string
	for _, item := range blocks {
		if block, ok := item.(map[string]interface{}); ok && block["type"] == "thinking" {
			labels = append(labels, "thinking")
			break
		}
	}
	for _, item := range blocks {
		if block, ok := item.(map[string]interface{}); ok && block["type"] == "tool_use" {
			if name, ok := block["name"].(string); ok {
				labels = append(labels, name)
			}
		}
	}

	if len(labels) == 0 {
		return ""
	}
	result := labels[0]
	for _, l := range labels[1:] {
		result += ", " + l
	}
	return result
}

// isToolResultContent reports whether message content is an array
// containing a tool_result block.
func isToolResultContent(content interface{}) bool {
	blocks, ok := content.([]interface{})
	if !ok {
		return false
	}
	for _, item := range blocks {
		if block, ok := item.(map[string]interface{}); ok && block["type"] == "tool_result" {
			return true
		}
	}
	return false
}

// truncateRunes truncates to maxChars runes with an ellipsis, never
// splitting a multi-byte rune.
func truncateRunes(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}

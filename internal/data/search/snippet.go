package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// extractText pulls the human-readable text out of a raw JSONL event line
// so snippets are built over content, not JSON syntax. Falls back to the
// raw line when nothing better is available.
func extractText(line string) string {
	var root map[string]interface{}
	if err := sonic.UnmarshalString(line, &root); err != nil {
		return line
	}

	// message.content first (user/assistant messages)
	if msg, ok := root["message"].(map[string]interface{}); ok {
		if text, ok := extractContentText(msg["content"]); ok {
			return text
		}
	}

	// content directly (system messages)
	if content, ok := root["content"].(string); ok {
		return content
	}

	// summary events
	if summary, ok := root["summary"].(string); ok {
		return summary
	}

	return line
}

// extractContentText handles the two content shapes: a plain string or an
// array of content blocks (text preferred, then thinking, then tool_use).
func extractContentText(content interface{}) (string, bool) {
	switch c := content.(type) {
	case string:
		return c, true
	case []interface{}:
		for _, item := range c {
			if block, ok := item.(map[string]interface{}); ok && block["type"] == "text" {
				if text, ok := block["text"].(string); ok {
					return text, true
				}
			}
		}
		for _, item := range c {
			if block, ok := item.(map[string]interface{}); ok && block["type"] == "thinking" {
				if thinking, ok := block["thinking"].(string); ok {
					return thinking, true
				}
			}
		}
		for _, item := range c {
			block, ok := item.(map[string]interface{})
			if !ok || block["type"] != "tool_use" {
				continue
			}
			name, ok := block["name"].(string)
			if !ok {
				continue
			}
			if input, ok := block["input"]; ok {
				if data, err := sonic.Marshal(input); err == nil {
					return fmt.Sprintf("[%s] %s", name, string(data)), true
				}
			}
			return fmt.Sprintf("[%s]", name), true
		}
	}
	return "", false
}

// floorRuneBoundary finds the nearest rune boundary at or before index.
func floorRuneBoundary(s string, index int) int {
	if index >= len(s) {
		return len(s)
	}
	for index > 0 && !utf8.RuneStart(s[index]) {
		index--
	}
	return index
}

// ceilRuneBoundary finds the nearest rune boundary at or after index.
func ceilRuneBoundary(s string, index int) int {
	if index >= len(s) {
		return len(s)
	}
	for index < len(s) && !utf8.RuneStart(s[index]) {
		index++
	}
	return index
}

// buildSnippet returns contextChars of context around the first matched
// term, trimmed to word boundaries and ellipsized when truncated.
func buildSnippet(text string, terms []string, contextChars int) string {
	textLower := strings.ToLower(text)

	earliest := -1
	for _, term := range terms {
		if pos := strings.Index(textLower, term); pos >= 0 {
			if earliest < 0 || pos < earliest {
				earliest = pos
			}
		}
	}
	if earliest < 0 {
		earliest = 0
	}

	start := earliest - contextChars
	if start < 0 {
		start = 0
	}
	start = floorRuneBoundary(text, start)
	end := earliest + contextChars
	if end > len(text) {
		end = len(text)
	}
	end = ceilRuneBoundary(text, end)

	// Avoid cutting words at the edges
	if idx := strings.LastIndexByte(text[:start], ' '); idx >= 0 {
		start = idx + 1
	}
	if idx := strings.IndexByte(text[end:], ' '); idx >= 0 {
		end += idx
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(strings.TrimSpace(text[start:end]))
	if end < len(text) {
		b.WriteString("...")
	}
	return b.String()
}

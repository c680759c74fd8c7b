package model

// EventCategory is the derived display category of an event. Categories
// other than the named constants are the raw event type verbatim
// (e.g. "assistant", "system", "summary").
type EventCategory string

const (
	// CategoryAll is the filter value meaning "no category filter".
	CategoryAll EventCategory = "all"
	// CategoryMe is actual human input (userType == "external").
	CategoryMe EventCategory = "me"
	// CategoryContext is system-injected user content: tool results,
	// meta injections, compact summaries, command messages.
	CategoryContext EventCategory = "context"
	// CategoryCompaction is a compact_boundary event.
	CategoryCompaction EventCategory = "compaction"
	// CategorySubagent matches events that launched a sub-agent. This is
	// an orthogonal predicate, not a classification result.
	CategorySubagent EventCategory = "subagent"

	CategoryAssistant EventCategory = "assistant"
	CategorySystem    EventCategory = "system"
	CategorySummary   EventCategory = "summary"
)

// FilterMode selects whether a category filter removes non-matching
// events or keeps everything and marks the matches.
type FilterMode int

const (
	ModeFilter FilterMode = iota
	ModeHighlight
)

func (m FilterMode) String() string {
	if m == ModeHighlight {
		return "highlight"
	}
	return "filter"
}

package model

// CompactMetadata describes a compact_boundary event.
type CompactMetadata struct {
	// Trigger is "auto" or "manual"
	Trigger string `json:"trigger"`
	// PreTokens is the token count before compaction
	PreTokens uint64 `json:"preTokens"`
}

// Event is a single immutable record in a session's append-only log.
// Sequence is the 0-indexed line number; ByteOffset is the position of the
// raw record in the file and is the stable identity key across refreshes
// (sequence can shift only if the log is truncated, which does not happen
// in practice).
type Event struct {
	Sequence   int    `json:"sequence"`
	UUID       string `json:"uuid,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	EventType  string `json:"eventType"`
	Subtype    string `json:"subtype,omitempty"`
	ToolName   string `json:"toolName,omitempty"`
	Preview    string `json:"preview"`
	ByteOffset int64  `json:"byteOffset"`

	CompactMetadata *CompactMetadata `json:"compactMetadata,omitempty"`
	Summary         string           `json:"summary,omitempty"`

	// Compaction <-> summary linking
	LogicalParentUUID string `json:"logicalParentUuid,omitempty"`
	LeafUUID          string `json:"leafUuid,omitempty"`

	// Sub-agent linkage, populated from Task tool results
	LaunchedAgentID          string `json:"launchedAgentId,omitempty"`
	LaunchedAgentDescription string `json:"launchedAgentDescription,omitempty"`
	LaunchedAgentPrompt      string `json:"launchedAgentPrompt,omitempty"`
	LaunchedAgentIsAsync     bool   `json:"launchedAgentIsAsync,omitempty"`
	LaunchedAgentStatus      string `json:"launchedAgentStatus,omitempty"`

	// Classifier markers
	UserType         string `json:"userType,omitempty"`
	IsCompactSummary bool   `json:"isCompactSummary,omitempty"`
	IsToolResult     bool   `json:"isToolResult,omitempty"`
	IsMeta           bool   `json:"isMeta,omitempty"`
}

// EventRef identifies an event by position for batched body fetches.
type EventRef struct {
	Sequence   int   `json:"sequence"`
	ByteOffset int64 `json:"byteOffset"`
}

// Page is one loaded window of a session's event log.
// Events are ordered newest-first; Offset is the offset to use for the
// next page request and always equals len(Events) after a successful load.
type Page struct {
	Events     []Event `json:"events"`
	TotalCount int     `json:"totalCount"`
	Offset     int     `json:"offset"`
	HasMore    bool    `json:"hasMore"`
}

// EmptyPage returns the safe zero window used when a load fails.
func EmptyPage() Page {
	return Page{Events: []Event{}, TotalCount: 0, Offset: 0, HasMore: false}
}

// SearchMatch is one full-text match position with display snippet.
type SearchMatch struct {
	Sequence   int    `json:"sequence"`
	ByteOffset int64  `json:"byteOffset"`
	Snippet    string `json:"snippet"`
}

// SearchResponse is the result of a full-log search.
type SearchResponse struct {
	Matches       []SearchMatch `json:"matches"`
	TotalSearched int           `json:"totalSearched"`
	Truncated     bool          `json:"truncated"`
}

// FileEditType classifies what ultimately happened to an edited file.
type FileEditType string

const (
	EditAdded    FileEditType = "added"
	EditModified FileEditType = "modified"
	EditDeleted  FileEditType = "deleted"
)

// FileEdit summarizes the Edit/Write/MultiEdit tool uses against one file.
type FileEdit struct {
	Path         string       `json:"path"`
	EditType     FileEditType `json:"editType"`
	LastEditedAt string       `json:"lastEditedAt,omitempty"`
}

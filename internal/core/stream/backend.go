// Package stream is the session event stream and correlation engine: it
// keeps a live, paginated, filterable view of a growing event log
// consistent under incremental pagination, change notifications, and
// debounced full-text search.
package stream

import (
	"context"

	"github.com/agentlens/agentlens/internal/core/model"
)

// Backend is the log storage collaborator. Session and sub-agent
// timelines use the same operations, distinguished by scope.
type Backend interface {
	// ListEvents returns one page of events, newest first. offset counts
	// from the newest event.
	ListEvents(ctx context.Context, scope model.Scope, offset, limit int) (model.Page, error)
	// Search runs a full-text query over the entire backing log.
	Search(ctx context.Context, scope model.Scope, query string, maxResults int) (model.SearchResponse, error)
	// EventsByOffsets fetches full event bodies for match positions, in
	// the order given.
	EventsByOffsets(ctx context.Context, scope model.Scope, refs []model.EventRef) ([]model.Event, error)
	// RawPayload returns the unparsed record at a byte offset.
	RawPayload(ctx context.Context, scope model.Scope, byteOffset int64) (string, error)
	// FileEdits returns the derived per-file edit list for a scope.
	FileEdits(ctx context.Context, scope model.Scope) ([]model.FileEdit, error)
}

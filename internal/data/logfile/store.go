package logfile

import (
	"context"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/data/search"
	"github.com/agentlens/agentlens/internal/util"
)

const rawPayloadCacheSize = 512

// Store serves event pages, searches, raw payloads, and file edits from
// the session logs under one data directory.
type Store struct {
	dataDir string

	// Raw payloads are immutable once written (the log is append-only),
	// so a byte-offset keyed cache never goes stale.
	rawCache *lru.Cache[string, string]
}

// NewStore creates a Store over the given Claude projects directory.
func NewStore(dataDir string) (*Store, error) {
	cache, err := lru.New[string, string](rawPayloadCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create raw payload cache: %w", err)
	}
	return &Store{dataDir: dataDir, rawCache: cache}, nil
}

// ListEvents returns one page of events for a scope in descending
// sequence order (newest first). offset counts from the newest event;
// offset=0 with limit=200 yields the last 200 lines of the file.
func (s *Store) ListEvents(ctx context.Context, scope model.Scope, offset, limit int) (model.Page, error) {
	path := s.scopeFilePath(scope)
	if path == "" {
		return model.EmptyPage(), fmt.Errorf("no log file for %s", scope.Key())
	}

	file, err := os.Open(path)
	if err != nil {
		return model.EmptyPage(), fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	index, err := buildLineIndex(file)
	if err != nil {
		return model.EmptyPage(), fmt.Errorf("failed to index %s: %w", path, err)
	}

	totalCount := len(index)
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= totalCount {
		return model.Page{Events: []model.Event{}, TotalCount: totalCount, Offset: offset, HasMore: false}, nil
	}

	available := totalCount - offset
	takeCount := limit
	if takeCount > available {
		takeCount = available
	}

	// Newest-first: skip `offset` lines from the end, then walk backwards.
	startIdx := totalCount - offset - 1
	endIdx := startIdx + 1 - takeCount

	events := make([]model.Event, 0, takeCount)
	for idx := startIdx; idx >= endIdx; idx-- {
		if err := ctx.Err(); err != nil {
			return model.EmptyPage(), err
		}
		line, err := readLineAt(file, index[idx].offset, index[idx].length)
		if err != nil {
			util.LogDebugf("Skip unreadable line %s:%d - %v", path, idx, err)
			continue
		}
		if event, ok := ParseEvent(line, idx, index[idx].offset); ok {
			events = append(events, event)
		}
	}

	return model.Page{
		Events:     events,
		TotalCount: totalCount,
		Offset:     offset,
		HasMore:    offset+takeCount < totalCount,
	}, nil
}

// Search runs a full-text query over the entire backing log of a scope,
// independent of any loaded page window.
func (s *Store) Search(ctx context.Context, scope model.Scope, query string, maxResults int) (model.SearchResponse, error) {
	path := s.scopeFilePath(scope)
	if path == "" {
		return model.SearchResponse{Matches: []model.SearchMatch{}}, fmt.Errorf("no log file for %s", scope.Key())
	}
	return search.File(path, query, maxResults), nil
}

// EventsByOffsets fetches full event bodies for the given positions, in
// the order provided.
func (s *Store) EventsByOffsets(ctx context.Context, scope model.Scope, refs []model.EventRef) ([]model.Event, error) {
	path := s.scopeFilePath(scope)
	if path == "" {
		return nil, fmt.Errorf("no log file for %s", scope.Key())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	events := make([]model.Event, 0, len(refs))
	for _, ref := range refs {
		line, err := readLineFrom(file, ref.ByteOffset)
		if err != nil {
			util.LogDebugf("Skip unreadable offset %s:%d - %v", path, ref.ByteOffset, err)
			continue
		}
		if event, ok := ParseEvent(line, ref.Sequence, ref.ByteOffset); ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// RawPayload returns the unparsed JSON line at the given byte offset.
// The string is passed through unmodified; pretty-printing is the
// presentation layer's concern.
func (s *Store) RawPayload(ctx context.Context, scope model.Scope, byteOffset int64) (string, error) {
	cacheKey := fmt.Sprintf("%s@%d", scope.Key(), byteOffset)
	if raw, ok := s.rawCache.Get(cacheKey); ok {
		return raw, nil
	}

	path := s.scopeFilePath(scope)
	if path == "" {
		return "", fmt.Errorf("no log file for %s", scope.Key())
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	line, err := readLineFrom(file, byteOffset)
	if err != nil {
		return "", fmt.Errorf("failed to read offset %d: %w", byteOffset, err)
	}

	s.rawCache.Add(cacheKey, line)
	return line, nil
}

// FileEdits extracts the per-file edit summary for a session scope.
// Sub-agent scopes get their own log scanned the same way.
func (s *Store) FileEdits(ctx context.Context, scope model.Scope) ([]model.FileEdit, error) {
	path := s.scopeFilePath(scope)
	if path == "" {
		return nil, fmt.Errorf("no log file for %s", scope.Key())
	}
	return extractFileEdits(path, scope.ProjectPath), nil
}

package stream

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/util"
)

const (
	// DefaultSearchDebounce is the quiet period after the last keystroke
	// before a query is sent.
	DefaultSearchDebounce = 300 * time.Millisecond
	// DefaultMaxSearchResults bounds one search request.
	DefaultMaxSearchResults = 1000
)

// SearchState is a snapshot of the correlation engine's derived state.
// Correlated is non-empty only when Matches is non-empty and holds full
// event bodies sorted by sequence descending, matching timeline order.
// Snippets maps sequence -> snippet regardless of correlation success so
// previews can render before full bodies arrive.
type SearchState struct {
	Query      string
	Active     bool
	Searched   bool
	Matches    []model.SearchMatch
	Truncated  bool
	Correlated []model.Event
	Snippets   map[int]string
}

// IsSearchMode reports whether the correlated list should take over the
// timeline as its base.
func (s SearchState) IsSearchMode() bool {
	return len(s.Correlated) > 0
}

// MatchSequences returns the set of matched sequences for filtering.
func (s SearchState) MatchSequences() map[int]struct{} {
	seqs := make(map[int]struct{}, len(s.Matches))
	for _, m := range s.Matches {
		seqs[m.Sequence] = struct{}{}
	}
	return seqs
}

// SearchEngine debounces a free-text query, requests match positions,
// then correlates them back into full event bodies in one batched call.
//
// Concurrency: a keystroke cancels the pending debounce timer outright,
// so only the latest query after the quiet period is sent. An in-flight
// request is never cancelled; a stale response arriving after a newer
// query started is still applied. Only a selection change (Reset)
// discards results.
type SearchEngine struct {
	backend    Backend
	debounce   time.Duration
	maxResults int
	onChange   func()

	mu         sync.Mutex
	scope      model.Scope
	gen        uint64
	timer      *time.Timer
	query      string
	searched   bool
	matches    []model.SearchMatch
	truncated  bool
	correlated []model.Event
	snippets   map[int]string
}

// NewSearchEngine creates an engine bound to a backend. Zero debounce or
// maxResults select the defaults.
func NewSearchEngine(backend Backend, debounce time.Duration, maxResults int, onChange func()) *SearchEngine {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxSearchResults
	}
	return &SearchEngine{
		backend:    backend,
		debounce:   debounce,
		maxResults: maxResults,
		onChange:   onChange,
	}
}

// Reset points the engine at a new scope, cancels any pending debounce,
// and clears all search state.
func (e *SearchEngine) Reset(scope model.Scope) {
	e.mu.Lock()
	e.scope = scope
	e.gen++
	e.stopTimerLocked()
	e.clearLocked()
	e.mu.Unlock()
	e.notify()
}

// SetQuery feeds one keystroke's worth of query text. Empty or
// whitespace-only queries clear all search state immediately with no
// backend call; anything else restarts the debounce timer.
func (e *SearchEngine) SetQuery(query string) {
	e.mu.Lock()
	e.query = query
	e.stopTimerLocked()

	if strings.TrimSpace(query) == "" || e.scope.IsZero() {
		e.clearLocked()
		e.query = query
		e.mu.Unlock()
		e.notify()
		return
	}

	gen := e.gen
	e.timer = time.AfterFunc(e.debounce, func() {
		e.run(query, gen)
	})
	e.mu.Unlock()
	e.notify()
}

// run executes the two-phase protocol for one settled query.
func (e *SearchEngine) run(query string, gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	scope := e.scope
	e.mu.Unlock()

	ctx := context.Background()
	resp, err := e.backend.Search(ctx, scope, query, e.maxResults)
	if err != nil {
		util.LogWarnf("Search failed for %s: %v", scope.Key(), err)
		e.applyFailure(gen)
		return
	}

	// Phase 2: sort newest-first and build the snippet map. Snippets are
	// kept even if correlation fails.
	matches := append([]model.SearchMatch(nil), resp.Matches...)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Sequence > matches[j].Sequence })
	snippets := make(map[int]string, len(matches))
	for _, m := range matches {
		snippets[m.Sequence] = m.Snippet
	}

	var correlated []model.Event
	if len(matches) > 0 {
		refs := make([]model.EventRef, len(matches))
		for i, m := range matches {
			refs[i] = model.EventRef{Sequence: m.Sequence, ByteOffset: m.ByteOffset}
		}
		correlated, err = e.backend.EventsByOffsets(ctx, scope, refs)
		if err != nil {
			util.LogWarnf("Search correlation failed for %s: %v", scope.Key(), err)
			e.applyFailure(gen)
			return
		}
	}

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.searched = true
	e.matches = matches
	e.truncated = resp.Truncated
	e.correlated = correlated
	e.snippets = snippets
	e.mu.Unlock()
	e.notify()
}

// applyFailure clears match and correlation state; search is best-effort
// and failures degrade to "no results".
func (e *SearchEngine) applyFailure(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	query := e.query
	e.clearLocked()
	e.query = query
	e.mu.Unlock()
	e.notify()
}

// State returns a snapshot of the current search state.
func (e *SearchEngine) State() SearchState {
	e.mu.Lock()
	defer e.mu.Unlock()

	snippets := make(map[int]string, len(e.snippets))
	for k, v := range e.snippets {
		snippets[k] = v
	}
	return SearchState{
		Query:      e.query,
		Active:     strings.TrimSpace(e.query) != "",
		Searched:   e.searched,
		Matches:    append([]model.SearchMatch(nil), e.matches...),
		Truncated:  e.truncated,
		Correlated: append([]model.Event(nil), e.correlated...),
		Snippets:   snippets,
	}
}

func (e *SearchEngine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *SearchEngine) clearLocked() {
	e.query = ""
	e.searched = false
	e.matches = nil
	e.truncated = false
	e.correlated = nil
	e.snippets = nil
}

func (e *SearchEngine) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

package stream

import (
	"context"
	"sync"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/util"
)

// DefaultPageSize is the fixed page size for event listing.
const DefaultPageSize = 200

// PageStore holds the loaded prefix of one timeline's event log plus its
// pagination cursors. Loads run in the caller's goroutine; results are
// applied last-writer-wins per selection generation: a result arriving
// after Reset has moved the store to a different scope is discarded.
type PageStore struct {
	backend  Backend
	pageSize int
	onChange func()

	mu          sync.Mutex
	scope       model.Scope
	gen         uint64
	window      model.Page
	loaded      bool
	loading     bool
	loadingMore bool
	flash       map[int64]struct{}
}

// NewPageStore creates a store bound to a backend. onChange fires after
// every committed state change and may be nil.
func NewPageStore(backend Backend, pageSize int, onChange func()) *PageStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PageStore{
		backend:  backend,
		pageSize: pageSize,
		onChange: onChange,
		window:   model.EmptyPage(),
	}
}

// Reset points the store at a new scope and discards the prior window.
// Any in-flight load for the old scope will see the generation bump and
// drop its result.
func (ps *PageStore) Reset(scope model.Scope) {
	ps.mu.Lock()
	ps.scope = scope
	ps.gen++
	ps.window = model.EmptyPage()
	ps.loaded = false
	ps.loading = false
	ps.loadingMore = false
	ps.flash = nil
	ps.mu.Unlock()
	ps.notify()
}

// LoadFirstPage fetches the newest page and replaces the window. Fails
// open: on error the window resets to empty and the error is returned
// for logging, never surfaced further.
func (ps *PageStore) LoadFirstPage(ctx context.Context) error {
	return ps.load(ctx, false)
}

// Refresh re-fetches the first page but diffs against the old window so
// newly arrived events can be flagged for the flash pulse.
func (ps *PageStore) Refresh(ctx context.Context) error {
	return ps.load(ctx, true)
}

func (ps *PageStore) load(ctx context.Context, diffPrevious bool) error {
	ps.mu.Lock()
	if ps.scope.IsZero() {
		ps.mu.Unlock()
		return nil
	}
	scope, gen := ps.scope, ps.gen
	previous := ps.window.Events
	wasLoaded := ps.loaded
	ps.loading = true
	ps.mu.Unlock()
	ps.notify()

	page, err := ps.backend.ListEvents(ctx, scope, 0, ps.pageSize)

	ps.mu.Lock()
	if gen != ps.gen {
		// Selection changed while the request was in flight
		ps.mu.Unlock()
		return nil
	}
	ps.loading = false
	if err != nil {
		ps.window = model.EmptyPage()
		ps.loaded = false
		ps.flash = nil
		ps.mu.Unlock()
		ps.notify()
		util.LogWarnf("Page load failed for %s: %v", scope.Key(), err)
		return err
	}

	page.Offset = len(page.Events)
	ps.window = page
	if diffPrevious && wasLoaded {
		ps.flash = ComputeNewlyArrived(IDSet(previous), IDSet(page.Events))
	} else {
		// First population never flashes
		ps.flash = nil
	}
	ps.loaded = true
	ps.mu.Unlock()
	ps.notify()
	return nil
}

// LoadMore appends the next page. A call while another LoadMore is in
// flight, or when the server reported no more events, is dropped (not
// queued) and returns false.
func (ps *PageStore) LoadMore(ctx context.Context) bool {
	ps.mu.Lock()
	if !ps.loaded || !ps.window.HasMore || ps.loadingMore || ps.loading {
		ps.mu.Unlock()
		return false
	}
	scope, gen := ps.scope, ps.gen
	offset := len(ps.window.Events)
	ps.loadingMore = true
	ps.mu.Unlock()
	ps.notify()

	page, err := ps.backend.ListEvents(ctx, scope, offset, ps.pageSize)

	ps.mu.Lock()
	if gen != ps.gen {
		ps.mu.Unlock()
		return false
	}
	ps.loadingMore = false
	if err != nil {
		// Keep the existing window; the scroll trigger will retry
		ps.mu.Unlock()
		ps.notify()
		util.LogWarnf("Load more failed for %s: %v", scope.Key(), err)
		return false
	}

	// Pages arrive in fixed descending order, so plain concatenation
	// preserves ordering; the reentrancy guard forbids out-of-order pages.
	ps.window.Events = append(ps.window.Events, page.Events...)
	ps.window.TotalCount = page.TotalCount
	// The server's count is authoritative; never computed locally
	ps.window.HasMore = page.HasMore
	ps.window.Offset = len(ps.window.Events)
	ps.mu.Unlock()
	ps.notify()
	return true
}

// Window returns a copy of the current page window.
func (ps *PageStore) Window() model.Page {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	window := ps.window
	window.Events = append([]model.Event(nil), ps.window.Events...)
	return window
}

// Flash returns the byte offsets flagged as newly arrived by the last
// refresh.
func (ps *PageStore) Flash() map[int64]struct{} {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make(map[int64]struct{}, len(ps.flash))
	for id := range ps.flash {
		out[id] = struct{}{}
	}
	return out
}

// ClearFlash drops the flash set after the display pulse has run.
func (ps *PageStore) ClearFlash() {
	ps.mu.Lock()
	ps.flash = nil
	ps.mu.Unlock()
	ps.notify()
}

// Loaded reports whether a window has been successfully populated.
func (ps *PageStore) Loaded() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.loaded
}

// Loading reports an in-flight first-page load or refresh.
func (ps *PageStore) Loading() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.loading
}

// LoadingMore reports an in-flight LoadMore.
func (ps *PageStore) LoadingMore() bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.loadingMore
}

func (ps *PageStore) notify() {
	if ps.onChange != nil {
		ps.onChange()
	}
}

package stream

import (
	"context"
	"sync"
	"time"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/core/watch"
	"github.com/agentlens/agentlens/internal/util"
)

// TimelineConfig tunes one timeline's engines. Zero values select the
// defaults; tests shrink the debounce.
type TimelineConfig struct {
	PageSize         int
	SearchDebounce   time.Duration
	MaxSearchResults int
}

// TimelineView is the derived view a timeline exposes to presentation.
type TimelineView struct {
	Scope          model.Scope
	Events         []model.Event
	Highlighted    map[int]struct{}
	Flash          map[int64]struct{}
	IsSearchMode   bool
	Search         SearchState
	TotalCount     int
	HasMore        bool
	Loading        bool
	LoadingMore    bool
	FilterCategory model.EventCategory
	FilterMode     model.FilterMode
	FileEdits      []model.FileEdit
}

// Timeline owns one page store, one search engine, and one filter state
// for a single event log (main session or one sub-agent), plus the
// realtime subscription that keeps them fresh.
type Timeline struct {
	backend  Backend
	watcher  *watch.Watcher
	bus      *watch.Bus
	onChange func()

	pages  *PageStore
	search *SearchEngine

	mu             sync.Mutex
	scope          model.Scope
	filterCategory model.EventCategory
	filterMode     model.FilterMode
	fileEdits      []model.FileEdit
	sub            *watch.Subscription
}

// NewTimeline creates an inactive timeline. watcher and bus may be nil
// in tests that do not exercise realtime updates.
func NewTimeline(backend Backend, watcher *watch.Watcher, bus *watch.Bus, cfg TimelineConfig, onChange func()) *Timeline {
	t := &Timeline{
		backend:        backend,
		watcher:        watcher,
		bus:            bus,
		onChange:       onChange,
		filterCategory: model.CategoryAll,
		filterMode:     model.ModeFilter,
	}
	t.pages = NewPageStore(backend, cfg.PageSize, onChange)
	t.search = NewSearchEngine(backend, cfg.SearchDebounce, cfg.MaxSearchResults, onChange)
	return t
}

// Activate points the timeline at a new scope. The old scope's window,
// search state, and watch subscription are discarded; in-flight requests
// for it will resolve against a stale generation and be dropped. A zero
// scope deactivates the timeline.
func (t *Timeline) Activate(scope model.Scope) {
	t.mu.Lock()
	oldScope := t.scope
	oldSub := t.sub
	t.sub = nil
	t.scope = scope
	t.fileEdits = nil
	t.mu.Unlock()

	if oldSub != nil {
		oldSub.Cancel()
	}
	if t.watcher != nil && !oldScope.IsZero() {
		// Best-effort stop watching; failures are logged inside
		t.watcher.Unwatch(oldScope)
	}

	t.pages.Reset(scope)
	t.search.Reset(scope)

	if scope.IsZero() {
		t.notify()
		return
	}

	// Watch request and listener registration are independent: a failed
	// watch still leaves the listener in place for shared notifications.
	if t.watcher != nil {
		if err := t.watcher.Watch(scope); err != nil {
			util.LogWarnf("Watch failed for %s: %v", scope.Key(), err)
		}
	}
	if t.bus != nil {
		sub := t.bus.Subscribe(scope)
		t.mu.Lock()
		t.sub = sub
		t.mu.Unlock()
		go t.notificationLoop(sub)
	}

	go func() {
		ctx := context.Background()
		// Errors already degrade to an empty window inside the store
		_ = t.pages.LoadFirstPage(ctx)
		t.refreshFileEdits(ctx, scope)
	}()
	t.notify()
}

// notificationLoop reacts to change notifications for the subscribed
// scope. The file-edit list always refreshes; the event window refreshes
// only once it has been loaded, so an unopened timeline is never
// force-loaded.
func (t *Timeline) notificationLoop(sub *watch.Subscription) {
	for n := range sub.Notifications() {
		ctx := context.Background()
		t.refreshFileEdits(ctx, n.Scope)
		if t.pages.Loaded() {
			_ = t.pages.Refresh(ctx)
		}
	}
}

func (t *Timeline) refreshFileEdits(ctx context.Context, scope model.Scope) {
	edits, err := t.backend.FileEdits(ctx, scope)
	if err != nil {
		util.LogDebugf("File edit refresh failed for %s: %v", scope.Key(), err)
		edits = nil
	}

	t.mu.Lock()
	if t.scope != scope {
		t.mu.Unlock()
		return
	}
	t.fileEdits = edits
	t.mu.Unlock()
	t.notify()
}

// SetFilter sets the active category filter. CategoryAll disables it.
func (t *Timeline) SetFilter(category model.EventCategory) {
	t.mu.Lock()
	t.filterCategory = category
	t.mu.Unlock()
	t.notify()
}

// SetFilterMode switches between filter and highlight semantics.
func (t *Timeline) SetFilterMode(mode model.FilterMode) {
	t.mu.Lock()
	t.filterMode = mode
	t.mu.Unlock()
	t.notify()
}

// SetSearchQuery feeds the search engine's debounced query stream.
func (t *Timeline) SetSearchQuery(query string) {
	t.search.SetQuery(query)
}

// LoadMore requests the next page; drop-on-conflict under reentrancy.
func (t *Timeline) LoadMore(ctx context.Context) bool {
	return t.pages.LoadMore(ctx)
}

// Refresh re-fetches the first page, diffing for the flash pulse.
func (t *Timeline) Refresh(ctx context.Context) error {
	return t.pages.Refresh(ctx)
}

// ClearFlash drops the newly-arrived set after the pulse duration.
func (t *Timeline) ClearFlash() {
	t.pages.ClearFlash()
}

// RawPayload fetches the raw record for the detail inspector. The string
// is passed through unmodified.
func (t *Timeline) RawPayload(ctx context.Context, byteOffset int64) (string, error) {
	t.mu.Lock()
	scope := t.scope
	t.mu.Unlock()
	if scope.IsZero() {
		return "", nil
	}
	return t.backend.RawPayload(ctx, scope, byteOffset)
}

// Scope returns the currently selected scope.
func (t *Timeline) Scope() model.Scope {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scope
}

// Loaded reports whether the event window has been populated.
func (t *Timeline) Loaded() bool {
	return t.pages.Loaded()
}

// View derives the visible event list. When the search engine holds a
// non-empty correlated list, that list is the base and search takes over
// the timeline; otherwise the paginated window is.
func (t *Timeline) View() TimelineView {
	window := t.pages.Window()
	searchState := t.search.State()

	t.mu.Lock()
	category := t.filterCategory
	mode := t.filterMode
	fileEdits := append([]model.FileEdit(nil), t.fileEdits...)
	scope := t.scope
	t.mu.Unlock()

	base := window.Events
	isSearchMode := searchState.IsSearchMode()
	if isSearchMode {
		base = searchState.Correlated
	}

	out := ApplyFilter(FilterInput{
		Base:             base,
		Category:         category,
		Mode:             mode,
		SearchActive:     searchState.Active && searchState.Searched,
		SearchCorrelated: isSearchMode,
		SearchSequences:  searchState.MatchSequences(),
	})

	return TimelineView{
		Scope:          scope,
		Events:         out.Visible,
		Highlighted:    out.Highlighted,
		Flash:          t.pages.Flash(),
		IsSearchMode:   isSearchMode,
		Search:         searchState,
		TotalCount:     window.TotalCount,
		HasMore:        window.HasMore,
		Loading:        t.pages.Loading(),
		LoadingMore:    t.pages.LoadingMore(),
		FilterCategory: category,
		FilterMode:     mode,
		FileEdits:      fileEdits,
	}
}

func (t *Timeline) notify() {
	if t.onChange != nil {
		t.onChange()
	}
}

package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agentlens/agentlens/internal/core/model"
)

// fakeBackend serves pages from an in-memory event log, newest first,
// mirroring the storage layer's pagination contract. Optional hooks let
// tests block or fail individual calls.
type fakeBackend struct {
	mu     sync.Mutex
	events map[string][]model.Event // scope key -> events in log order
	edits  map[string][]model.FileEdit

	listErr    error
	listCalls  int
	beforeList func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		events: make(map[string][]model.Event),
		edits:  make(map[string][]model.FileEdit),
	}
}

func (f *fakeBackend) setEvents(scope model.Scope, count int) {
	events := make([]model.Event, count)
	for i := range events {
		events[i] = model.Event{
			Sequence:   i,
			EventType:  "user",
			Preview:    fmt.Sprintf("message %d", i),
			ByteOffset: int64(i * 100),
		}
	}
	f.mu.Lock()
	f.events[scope.Key()] = events
	f.mu.Unlock()
}

func (f *fakeBackend) append(scope model.Scope, event model.Event) {
	f.mu.Lock()
	f.events[scope.Key()] = append(f.events[scope.Key()], event)
	f.mu.Unlock()
}

func (f *fakeBackend) ListEvents(ctx context.Context, scope model.Scope, offset, limit int) (model.Page, error) {
	f.mu.Lock()
	f.listCalls++
	hook := f.beforeList
	err := f.listErr
	log := append([]model.Event(nil), f.events[scope.Key()]...)
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return model.EmptyPage(), err
	}

	total := len(log)
	if offset >= total {
		return model.Page{Events: []model.Event{}, TotalCount: total, Offset: offset}, nil
	}
	take := limit
	if take > total-offset {
		take = total - offset
	}
	events := make([]model.Event, 0, take)
	for i := total - offset - 1; i >= total-offset-take; i-- {
		events = append(events, log[i])
	}
	return model.Page{
		Events:     events,
		TotalCount: total,
		Offset:     offset,
		HasMore:    offset+take < total,
	}, nil
}

func (f *fakeBackend) Search(ctx context.Context, scope model.Scope, query string, maxResults int) (model.SearchResponse, error) {
	f.mu.Lock()
	log := append([]model.Event(nil), f.events[scope.Key()]...)
	f.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(query))
	resp := model.SearchResponse{Matches: []model.SearchMatch{}}
	for _, e := range log {
		resp.TotalSearched++
		if strings.Contains(strings.ToLower(e.Preview), term) {
			resp.Matches = append(resp.Matches, model.SearchMatch{
				Sequence:   e.Sequence,
				ByteOffset: e.ByteOffset,
				Snippet:    e.Preview,
			})
			if len(resp.Matches) >= maxResults {
				resp.Truncated = true
				break
			}
		}
	}
	return resp, nil
}

func (f *fakeBackend) EventsByOffsets(ctx context.Context, scope model.Scope, refs []model.EventRef) ([]model.Event, error) {
	f.mu.Lock()
	log := append([]model.Event(nil), f.events[scope.Key()]...)
	f.mu.Unlock()

	events := make([]model.Event, 0, len(refs))
	for _, ref := range refs {
		for _, e := range log {
			if e.ByteOffset == ref.ByteOffset {
				events = append(events, e)
				break
			}
		}
	}
	return events, nil
}

func (f *fakeBackend) RawPayload(ctx context.Context, scope model.Scope, byteOffset int64) (string, error) {
	return fmt.Sprintf(`{"offset":%d}`, byteOffset), nil
}

func (f *fakeBackend) FileEdits(ctx context.Context, scope model.Scope) ([]model.FileEdit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.FileEdit(nil), f.edits[scope.Key()]...), nil
}

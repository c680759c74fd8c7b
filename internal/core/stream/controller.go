package stream

import (
	"sync"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/core/watch"
)

// Selection is the cross-timeline selection state. At most one detail
// event is selected across both timelines; the sub-agent timeline itself
// can be open without any detail selection.
type Selection struct {
	SelectedEvent         *model.Event
	SelectedSubagentID    string
	SelectedSubagentEvent *model.Event
}

// DetailOpen reports whether any detail inspector is open.
func (s Selection) DetailOpen() bool {
	return s.SelectedEvent != nil || s.SelectedSubagentEvent != nil
}

// SubTimelineOpen reports whether a sub-agent timeline is open.
func (s Selection) SubTimelineOpen() bool {
	return s.SelectedSubagentID != ""
}

// DetailEvent returns the selected event, from whichever timeline.
func (s Selection) DetailEvent() *model.Event {
	if s.SelectedEvent != nil {
		return s.SelectedEvent
	}
	return s.SelectedSubagentEvent
}

// Controller composes the main session timeline with an optional
// sub-agent timeline and owns the selection state that drives the panel
// layout. All state changes are announced on a coalescing update channel
// so the presentation layer can re-derive its view.
type Controller struct {
	Main *Timeline
	Sub  *Timeline

	updates chan struct{}

	mu        sync.Mutex
	selection Selection
}

// NewController wires two timelines over one backend and one shared
// notification bus.
func NewController(backend Backend, watcher *watch.Watcher, bus *watch.Bus, cfg TimelineConfig) *Controller {
	c := &Controller{updates: make(chan struct{}, 1)}
	c.Main = NewTimeline(backend, watcher, bus, cfg, c.signal)
	c.Sub = NewTimeline(backend, watcher, bus, cfg, c.signal)
	return c
}

// Updates signals after every committed state change. Signals coalesce;
// consumers re-derive the full view per signal.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// SelectSession activates a session on the main timeline and clears all
// selection state, including any open sub-agent.
func (c *Controller) SelectSession(projectPath, sessionID string) {
	c.mu.Lock()
	c.selection = Selection{}
	c.mu.Unlock()

	c.Sub.Activate(model.Scope{})
	c.Main.Activate(model.SessionScope(projectPath, sessionID))
	c.signal()
}

// SelectEvent opens the detail inspector on a main-timeline event and
// clears any sub-timeline detail selection. nil clears the selection.
func (c *Controller) SelectEvent(event *model.Event) {
	c.mu.Lock()
	c.selection.SelectedEvent = event
	c.selection.SelectedSubagentEvent = nil
	c.mu.Unlock()
	c.signal()
}

// SelectSubagentEvent opens the detail inspector on a sub-timeline event
// and clears any main-timeline detail selection.
func (c *Controller) SelectSubagentEvent(event *model.Event) {
	c.mu.Lock()
	c.selection.SelectedSubagentEvent = event
	c.selection.SelectedEvent = nil
	c.mu.Unlock()
	c.signal()
}

// SelectSubagent opens a sub-agent timeline. Selecting a different
// sub-agent clears that timeline's own detail selection but not the main
// timeline's.
func (c *Controller) SelectSubagent(agentID string) {
	c.mu.Lock()
	if c.selection.SelectedSubagentID == agentID {
		c.mu.Unlock()
		return
	}
	c.selection.SelectedSubagentID = agentID
	c.selection.SelectedSubagentEvent = nil
	c.mu.Unlock()

	project := c.Main.Scope().ProjectPath
	c.Sub.Activate(model.AgentScope(project, agentID))
	c.signal()
}

// CloseSubagent closes the sub-agent timeline and its detail selection.
// A manual pane collapse routes here so layout state never drifts from
// selection state.
func (c *Controller) CloseSubagent() {
	c.mu.Lock()
	c.selection.SelectedSubagentID = ""
	c.selection.SelectedSubagentEvent = nil
	c.mu.Unlock()

	c.Sub.Activate(model.Scope{})
	c.signal()
}

// ClearDetail closes the detail inspector, whichever timeline owns it.
func (c *Controller) ClearDetail() {
	c.mu.Lock()
	c.selection.SelectedEvent = nil
	c.selection.SelectedSubagentEvent = nil
	c.mu.Unlock()
	c.signal()
}

// Selection returns the current selection state.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// Close tears down both timelines' subscriptions and watches.
func (c *Controller) Close() {
	c.Main.Activate(model.Scope{})
	c.Sub.Activate(model.Scope{})
}

func (c *Controller) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

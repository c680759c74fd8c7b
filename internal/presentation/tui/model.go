// Package tui is the interactive terminal frontend. It renders the
// session browser and the multi-pane timeline view, and routes every
// pane-size decision through the selection state so the layout is always
// a pure function of what is selected.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/core/stream"
)

// flashPulseDuration is how long newly-arrived events stay marked after
// a realtime refresh.
const flashPulseDuration = 900 * time.Millisecond

// filterCycle is the order the category filter steps through.
var filterCycle = []model.EventCategory{
	model.CategoryAll,
	model.CategoryMe,
	model.CategoryContext,
	model.CategoryCompaction,
	model.CategorySubagent,
	model.CategoryAssistant,
	model.CategorySystem,
	model.CategorySummary,
}

// Browser lists projects and their session logs.
type Browser interface {
	Projects() []model.Project
	Sessions(projectPath string) []model.SessionInfo
}

type viewMode int

const (
	projectBrowse viewMode = iota
	sessionBrowse
	timelineMode
)

type focusedPane int

const (
	focusMain focusedPane = iota
	focusSub
)

// Model is the bubbletea model for the whole application.
type Model struct {
	ctrl    *stream.Controller
	browser Browser

	mode  viewMode
	width int
	ready bool

	height int

	projects      []model.Project
	sessions      []model.SessionInfo
	projectCursor int
	sessionCursor int

	focus       focusedPane
	mainCursor  int
	subCursor   int
	showEdits   bool
	filterIndex int

	searchInput textinput.Model
	searching   bool

	detailViewport viewport.Model
	detailPayload  string
	detailErr      error

	flashTimerSet bool

	err error
}

// NewModel creates the initial model over a controller and a browser.
func NewModel(ctrl *stream.Controller, browser Browser) Model {
	input := textinput.New()
	input.Placeholder = "search (AND/OR, e.g. error OR timeout)"
	input.Prompt = "/ "
	input.CharLimit = 256

	return Model{
		ctrl:        ctrl,
		browser:     browser,
		mode:        projectBrowse,
		projects:    browser.Projects(),
		searchInput: input,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, waitForUpdate(m.ctrl.Updates()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(msg.Width/3, m.bodyHeight())
			m.ready = true
		}
		m.resizeDetail()
		return m, nil

	case stateChangedMsg:
		m.clampCursors()
		cmds := []tea.Cmd{waitForUpdate(m.ctrl.Updates())}
		if cmd := m.armFlashTimer(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case flashExpiredMsg:
		m.flashTimerSet = false
		m.ctrl.Main.ClearFlash()
		m.ctrl.Sub.ClearFlash()
		return m, nil

	case rawPayloadMsg:
		if selected := m.ctrl.Selection().DetailEvent(); selected != nil && selected.ByteOffset == msg.byteOffset {
			m.detailPayload = msg.payload
			m.detailErr = msg.err
			m.detailViewport.SetContent(m.renderDetailContent())
			m.detailViewport.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.ctrl.Selection().DetailOpen() {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.ctrl.Close()
		return m, tea.Quit
	}

	switch m.mode {
	case projectBrowse:
		return m.handleProjectKey(msg)
	case sessionBrowse:
		return m.handleSessionKey(msg)
	default:
		return m.handleTimelineKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.activeTimeline().SetSearchQuery("")
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.activeTimeline().SetSearchQuery(m.searchInput.Value())
	return m, cmd
}

func (m Model) handleProjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.projectCursor > 0 {
			m.projectCursor--
		}
	case "down", "j":
		if m.projectCursor < len(m.projects)-1 {
			m.projectCursor++
		}
	case "r":
		m.projects = m.browser.Projects()
		m.clampCursors()
	case "enter":
		if m.projectCursor < len(m.projects) {
			m.sessions = m.browser.Sessions(m.projects[m.projectCursor].Path)
			m.sessionCursor = 0
			m.mode = sessionBrowse
		}
	}
	return m, nil
}

func (m Model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.sessionCursor > 0 {
			m.sessionCursor--
		}
	case "down", "j":
		if m.sessionCursor < len(m.sessions)-1 {
			m.sessionCursor++
		}
	case "esc", "backspace":
		m.mode = projectBrowse
	case "enter":
		if m.sessionCursor < len(m.sessions) && m.projectCursor < len(m.projects) {
			project := m.projects[m.projectCursor]
			session := m.sessions[m.sessionCursor]
			m.ctrl.SelectSession(project.Path, session.SessionID)
			m.mode = timelineMode
			m.focus = focusMain
			m.mainCursor = 0
			m.subCursor = 0
			m.filterIndex = 0
			m.searchInput.SetValue("")
			m.detailPayload = ""
		}
	}
	return m, nil
}

func (m Model) handleTimelineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "esc", "backspace":
		selection := m.ctrl.Selection()
		switch {
		case selection.DetailOpen():
			m.ctrl.ClearDetail()
			m.detailPayload = ""
		case selection.SubTimelineOpen():
			m.ctrl.CloseSubagent()
			m.focus = focusMain
		default:
			m.ctrl.SelectSession("", "")
			m.mode = sessionBrowse
		}
		return m, nil

	case "tab":
		if m.ctrl.Selection().SubTimelineOpen() {
			if m.focus == focusMain {
				m.focus = focusSub
			} else {
				m.focus = focusMain
			}
		}
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		return m.moveCursorDown()

	case "enter":
		return m.openSelection()

	case "s":
		return m.openSubagent()

	case "f":
		m.filterIndex = (m.filterIndex + 1) % len(filterCycle)
		m.activeTimeline().SetFilter(filterCycle[m.filterIndex])
		return m, nil

	case "m":
		view := m.activeTimeline().View()
		if view.FilterMode == model.ModeFilter {
			m.activeTimeline().SetFilterMode(model.ModeHighlight)
		} else {
			m.activeTimeline().SetFilterMode(model.ModeFilter)
		}
		return m, nil

	case "e":
		m.showEdits = !m.showEdits
		return m, nil

	case "r":
		timeline := m.activeTimeline()
		return m, func() tea.Msg {
			_ = timeline.Refresh(context.Background())
			return nil
		}

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		if m.ctrl.Selection().DetailOpen() {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// moveCursorDown advances the focused cursor; hitting the bottom of the
// main timeline with more pages available requests the next page.
func (m Model) moveCursorDown() (tea.Model, tea.Cmd) {
	timeline := m.activeTimeline()
	view := timeline.View()
	cursor := m.cursor()

	if cursor < len(view.Events)-1 {
		m.moveCursor(1)
		return m, nil
	}

	if !view.IsSearchMode && view.HasMore {
		return m, func() tea.Msg {
			timeline.LoadMore(context.Background())
			return nil
		}
	}
	return m, nil
}

func (m Model) openSelection() (tea.Model, tea.Cmd) {
	view := m.activeTimeline().View()
	cursor := m.cursor()
	if cursor >= len(view.Events) {
		return m, nil
	}
	event := view.Events[cursor]

	if m.focus == focusSub {
		m.ctrl.SelectSubagentEvent(&event)
	} else {
		m.ctrl.SelectEvent(&event)
	}
	m.detailPayload = ""
	m.detailErr = nil
	m.resizeDetail()

	timeline := m.activeTimeline()
	offset := event.ByteOffset
	return m, func() tea.Msg {
		payload, err := timeline.RawPayload(context.Background(), offset)
		return rawPayloadMsg{byteOffset: offset, payload: payload, err: err}
	}
}

func (m Model) openSubagent() (tea.Model, tea.Cmd) {
	view := m.ctrl.Main.View()
	if m.focus != focusMain || m.mainCursor >= len(view.Events) {
		return m, nil
	}
	event := view.Events[m.mainCursor]
	if event.LaunchedAgentID == "" {
		return m, nil
	}
	m.ctrl.SelectSubagent(event.LaunchedAgentID)
	m.subCursor = 0
	m.focus = focusSub
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	view := m.activeTimeline().View()
	cursor := m.cursor() + delta
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(view.Events)-1 {
		cursor = len(view.Events) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.setCursor(cursor)
}

func (m *Model) clampCursors() {
	mainLen := len(m.ctrl.Main.View().Events)
	if m.mainCursor >= mainLen {
		m.mainCursor = max(0, mainLen-1)
	}
	subLen := len(m.ctrl.Sub.View().Events)
	if m.subCursor >= subLen {
		m.subCursor = max(0, subLen-1)
	}
	if m.projectCursor >= len(m.projects) {
		m.projectCursor = max(0, len(m.projects)-1)
	}
}

// armFlashTimer schedules one pulse-end tick when a flash set appears.
func (m *Model) armFlashTimer() tea.Cmd {
	if m.flashTimerSet {
		return nil
	}
	if len(m.ctrl.Main.View().Flash) == 0 && len(m.ctrl.Sub.View().Flash) == 0 {
		return nil
	}
	m.flashTimerSet = true
	return tea.Tick(flashPulseDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{}
	})
}

func (m Model) activeTimeline() *stream.Timeline {
	if m.focus == focusSub && m.ctrl.Selection().SubTimelineOpen() {
		return m.ctrl.Sub
	}
	return m.ctrl.Main
}

func (m Model) cursor() int {
	if m.focus == focusSub {
		return m.subCursor
	}
	return m.mainCursor
}

func (m *Model) setCursor(cursor int) {
	if m.focus == focusSub {
		m.subCursor = cursor
	} else {
		m.mainCursor = cursor
	}
}

func (m Model) bodyHeight() int {
	// Header, search line, footer
	h := m.height - 4
	if h < 3 {
		return 3
	}
	return h
}

func (m *Model) resizeDetail() {
	if !m.ready {
		return
	}
	selection := m.ctrl.Selection()
	sizes := paneSizes(selection)
	_, _, detailWidth := sizes.Widths(m.width)
	if detailWidth > 0 {
		m.detailViewport.Width = detailWidth
		m.detailViewport.Height = m.bodyHeight()
		m.detailViewport.SetContent(m.renderDetailContent())
	}
}

// Run starts the program and blocks until quit.
func Run(ctrl *stream.Controller, browser Browser) error {
	p := tea.NewProgram(NewModel(ctrl, browser), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

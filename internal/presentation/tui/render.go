package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/core/stream"
	"github.com/agentlens/agentlens/internal/presentation/layout"
)

func paneSizes(selection stream.Selection) layout.PaneSizes {
	return layout.Compute(selection.SubTimelineOpen(), selection.DetailOpen())
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v\n", m.err))
	}

	switch m.mode {
	case projectBrowse:
		return m.viewProjects()
	case sessionBrowse:
		return m.viewSessions()
	default:
		return m.viewTimeline()
	}
}

func (m Model) viewProjects() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("agentlens — projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(dimStyle.Render("  no projects found"))
	}
	sizer := layout.GetSizer()
	for i, project := range m.projects {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.projectCursor {
			cursor = "> "
			style = cursorStyle
		}
		line := fmt.Sprintf("%s%s  (%d sessions, last %s)",
			cursor,
			sizer.TruncateString(project.Path, m.width-30),
			project.SessionCount,
			project.LastActivity.Format("2006-01-02 15:04"))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ navigate • enter open • r reload • q quit"))
	return b.String()
}

func (m Model) viewSessions() string {
	var b strings.Builder
	project := ""
	if m.projectCursor < len(m.projects) {
		project = m.projects[m.projectCursor].Path
	}
	b.WriteString(titleStyle.Render("agentlens — " + project))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		b.WriteString(dimStyle.Render("  no sessions found"))
	}
	for i, session := range m.sessions {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.sessionCursor {
			cursor = "> "
			style = cursorStyle
		}
		line := fmt.Sprintf("%s%s  %s  %s",
			cursor,
			session.ModifiedAt.Format("01-02 15:04"),
			session.SessionID,
			formatSize(session.SizeBytes))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ navigate • enter open • esc back • q quit"))
	return b.String()
}

func (m Model) viewTimeline() string {
	selection := m.ctrl.Selection()
	sizes := paneSizes(selection)
	mainWidth, subWidth, detailWidth := sizes.Widths(m.width)
	bodyHeight := m.bodyHeight()

	mainView := m.ctrl.Main.View()
	panes := []string{m.renderTimelinePane(mainView, m.mainCursor, mainWidth, bodyHeight,
		m.focus == focusMain, "session")}

	if !layout.Collapsed(sizes.Sub) {
		subView := m.ctrl.Sub.View()
		title := "agent " + shortID(selection.SelectedSubagentID)
		panes = append(panes, paneBorderStyle.Render(
			m.renderTimelinePane(subView, m.subCursor, subWidth-1, bodyHeight, m.focus == focusSub, title)))
	}
	if !layout.Collapsed(sizes.Detail) {
		panes = append(panes, paneBorderStyle.Render(m.renderDetailPane(detailWidth-1, bodyHeight)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return strings.Join([]string{m.renderTimelineHeader(mainView), m.renderSearchLine(mainView), body, m.renderTimelineFooter(selection)}, "\n")
}

func (m Model) renderTimelineHeader(view stream.TimelineView) string {
	scope := view.Scope
	title := fmt.Sprintf("agentlens — %s / %s", scope.ProjectPath, shortID(scope.SessionID))

	status := fmt.Sprintf("%d events", view.TotalCount)
	if view.HasMore {
		status += " (more)"
	}
	if view.Loading {
		status = "loading..."
	}
	if view.FilterCategory != model.CategoryAll {
		status += fmt.Sprintf(" • %s:%s", view.FilterMode, view.FilterCategory)
	}
	if len(view.FileEdits) > 0 {
		status += fmt.Sprintf(" • %d files edited", len(view.FileEdits))
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status) - 3
	if gap < 1 {
		gap = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", gap) + footerStyle.Render(status)
}

func (m Model) renderSearchLine(view stream.TimelineView) string {
	if m.searching {
		return m.searchInput.View()
	}
	search := view.Search
	if !search.Active {
		return dimStyle.Render("press / to search")
	}
	line := fmt.Sprintf("search: %q — %d matches", search.Query, len(search.Matches))
	if search.Truncated {
		line += " (truncated)"
	}
	if !search.Searched {
		line = fmt.Sprintf("search: %q ...", search.Query)
	}
	return highlightStyle.Render(line)
}

func (m Model) renderTimelinePane(view stream.TimelineView, cursor, width, height int, focused bool, title string) string {
	if width <= 0 {
		return ""
	}
	sizer := layout.GetSizer()
	var b strings.Builder

	header := title
	if focused {
		header = "• " + title
	}
	b.WriteString(paneTitleStyle.Render(sizer.TruncateString(header, width)))
	b.WriteString("\n")

	rows := height - 1
	if m.showEdits && len(view.FileEdits) > 0 {
		rows -= len(view.FileEdits) + 1
		if rows < 3 {
			rows = 3
		}
	}

	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	end := start + rows
	if end > len(view.Events) {
		end = len(view.Events)
	}

	if len(view.Events) == 0 {
		if view.Loading {
			b.WriteString(dimStyle.Render("  loading..."))
		} else if view.IsSearchMode || view.Search.Active {
			b.WriteString(dimStyle.Render("  no matches"))
		} else {
			b.WriteString(dimStyle.Render("  no events"))
		}
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderEventLine(view, i, i == cursor && focused, width))
		b.WriteString("\n")
	}

	if view.LoadingMore {
		b.WriteString(dimStyle.Render("  loading more..."))
		b.WriteString("\n")
	}

	if m.showEdits && len(view.FileEdits) > 0 {
		b.WriteString(paneTitleStyle.Render(sizer.TruncateString("edited files", width)))
		b.WriteString("\n")
		for _, edit := range view.FileEdits {
			line := fmt.Sprintf("  %-8s %s", edit.EditType, edit.Path)
			b.WriteString(dimStyle.Render(sizer.TruncateString(line, width)))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func (m Model) renderEventLine(view stream.TimelineView, index int, selected bool, width int) string {
	event := view.Events[index]
	sizer := layout.GetSizer()

	category := string(stream.Classify(event))
	cursor := "  "
	if selected {
		cursor = "> "
	}

	marker := " "
	if event.LaunchedAgentID != "" {
		marker = "»"
	}

	preview := event.Preview
	if view.IsSearchMode {
		if snippet, ok := view.Search.Snippets[event.Sequence]; ok && snippet != "" {
			preview = snippet
		}
	}
	preview = strings.ReplaceAll(preview, "\n", " ")

	line := fmt.Sprintf("%s%4d %s %-10s %s", cursor, event.Sequence, marker, category, preview)
	line = sizer.TruncateString(line, width)

	style := categoryStyle(category)
	if _, flashing := view.Flash[event.ByteOffset]; flashing {
		style = flashStyle
	}
	if _, highlighted := view.Highlighted[index]; highlighted {
		style = highlightStyle
	}
	if selected {
		style = style.Reverse(true)
	}
	return style.Render(line)
}

func (m Model) renderDetailPane(width, height int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("detail"))
	b.WriteString("\n")
	b.WriteString(m.detailViewport.View())
	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func (m Model) renderDetailContent() string {
	event := m.ctrl.Selection().DetailEvent()
	if event == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("sequence  %d\n", event.Sequence))
	b.WriteString(fmt.Sprintf("type      %s\n", event.EventType))
	if event.Subtype != "" {
		b.WriteString(fmt.Sprintf("subtype   %s\n", event.Subtype))
	}
	if event.ToolName != "" {
		b.WriteString(fmt.Sprintf("tool      %s\n", event.ToolName))
	}
	if event.Timestamp != "" {
		b.WriteString(fmt.Sprintf("time      %s\n", event.Timestamp))
	}
	if event.UUID != "" {
		b.WriteString(fmt.Sprintf("uuid      %s\n", event.UUID))
	}
	if event.LaunchedAgentID != "" {
		b.WriteString(fmt.Sprintf("agent     %s (%s)\n", event.LaunchedAgentID, event.LaunchedAgentDescription))
	}
	b.WriteString("\n")

	switch {
	case m.detailErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("payload unavailable: %v", m.detailErr)))
	case m.detailPayload == "":
		b.WriteString(dimStyle.Render("loading payload..."))
	default:
		// Raw record verbatim; the inspector never re-serializes it.
		b.WriteString(m.detailPayload)
	}
	return b.String()
}

func (m Model) renderTimelineFooter(selection stream.Selection) string {
	parts := []string{"↑/↓ navigate", "enter detail", "s agent", "f filter", "m mode", "/ search", "e edits", "r refresh"}
	if selection.SubTimelineOpen() {
		parts = append(parts, "tab pane")
	}
	parts = append(parts, "esc back", "q quit")
	return footerStyle.Render(strings.Join(parts, " • "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

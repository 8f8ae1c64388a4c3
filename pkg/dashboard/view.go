package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/pomo/internal/board"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

// renderView renders the complete TUI view
func (m Model) renderView() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	// Handle small terminal sizes gracefully
	if m.Width < MinWidth || m.Height < MinHeight {
		return m.renderCompact()
	}

	if m.HelpOpen {
		return m.renderHelp()
	}

	var body string
	if m.TemplatesOpen {
		body = m.renderTemplatesPanel(m.bodyRect())
	} else {
		body = m.renderLists()
	}

	base := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())

	if m.SettingsOpen && m.SettingsState != nil {
		modal := m.styles.Modal.Render(m.SettingsState.Form.View())
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceChars(" "))
	}

	return base
}

// renderCompact renders a minimal view for small terminals
func (m Model) renderCompact() string {
	st := m.Timer.State()
	var s strings.Builder
	s.WriteString(m.styles.Phase[st.Phase].Render(st.Phase.Label()))
	s.WriteString(" ")
	s.WriteString(m.styles.Clock.Render(output.FormatClock(st.RemainingSeconds)))
	s.WriteString("\n")
	s.WriteString(m.styles.Subtle.Render(fmt.Sprintf("Terminal too small (%dx%d)", m.Width, m.Height)))
	return s.String()
}

func (m Model) timerStateLabel() string {
	switch {
	case m.Timer.Running():
		return "running"
	case m.Timer.HasBeenStarted():
		return "paused"
	}
	return "ready"
}

func (m Model) renderHeader() string {
	st := m.Timer.State()

	left := m.styles.Title.Render("pomo") + "  " +
		m.styles.Phase[st.Phase].Render(st.Phase.Label()) + "  " +
		m.styles.Clock.Render(output.FormatClock(st.RemainingSeconds)) + "  " +
		m.styles.Subtle.Render(m.timerStateLabel())
	right := m.styles.Subtle.Render(fmt.Sprintf("sessions %d", st.SessionsCompleted))
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	total := m.Timer.PhaseDuration().Seconds()
	frac := 0.0
	if total > 0 {
		frac = 1 - float64(st.RemainingSeconds)/total
	}
	bar := progress.New(progress.WithSolidFill(m.styles.ProgressColor), progress.WithoutPercentage())
	bar.Width = m.Width - 2
	if bar.Width > 60 {
		bar.Width = 60
	}

	return lipgloss.JoinVertical(lipgloss.Left, line, bar.ViewAs(frac), "")
}

func (m Model) renderFooter() string {
	status := ""
	if m.StatusMessage != "" {
		style := m.styles.Status
		if m.StatusIsError {
			style = m.styles.StatusError
		}
		status = style.Render(ansi.Truncate(m.StatusMessage, m.Width, "…"))
	}
	if pending := m.Keymap.PendingKey(); pending != "" {
		status = m.styles.Subtle.Render(pending + " …")
	}
	hints := m.styles.Help.Render(ansi.Truncate(keymap.FooterHelp(m.currentContext()), m.Width, "…"))
	return lipgloss.JoinVertical(lipgloss.Left, status, hints)
}

// bodyRect is the area between header and footer
func (m Model) bodyRect() Rect {
	h := m.Height - headerHeight - footerHeight
	if h < 4 {
		h = 4
	}
	return Rect{X: 0, Y: headerHeight, W: m.Width, H: h}
}

// focusIndex is the row that must stay visible in kind
func (m Model) focusIndex(kind models.ListKind) int {
	if m.GrabbedID != "" && m.GrabList == kind {
		return m.GrabIndex
	}
	if kind == m.ActiveList {
		return m.cursor(kind)
	}
	return 0
}

// layoutLists computes where each visible list is drawn. It is shared by
// rendering and mouse hit-testing so both agree on every row.
func (m Model) layoutLists() []listLayout {
	kinds := m.visibleLists()
	body := m.bodyRect()

	var boxes []Rect
	switch {
	case len(kinds) == 2 && body.W >= 2*minColumnW:
		w := body.W / 2
		boxes = []Rect{
			{X: body.X, Y: body.Y, W: w, H: body.H},
			{X: body.X + w, Y: body.Y, W: body.W - w, H: body.H},
		}
	case len(kinds) == 2:
		h := body.H / 2
		boxes = []Rect{
			{X: body.X, Y: body.Y, W: body.W, H: h},
			{X: body.X, Y: body.Y + h, W: body.W, H: body.H - h},
		}
	default:
		boxes = []Rect{body}
	}

	layouts := make([]listLayout, 0, len(kinds))
	for i, kind := range kinds {
		box := boxes[i]
		tasks := m.Board.List(kind)

		// border top and bottom, title, sentinel
		capacity := box.H - 4
		if capacity < 1 {
			capacity = 1
		}
		offset := 0
		if focus := m.focusIndex(kind); focus >= capacity {
			offset = focus - capacity + 1
		}
		if maxOffset := len(tasks) - capacity; offset > maxOffset {
			offset = maxOffset
		}
		if offset < 0 {
			offset = 0
		}
		end := offset + capacity
		if end > len(tasks) {
			end = len(tasks)
		}

		l := listLayout{Kind: kind, Box: box, Offset: offset}
		y := box.Y + 2
		for _, t := range tasks[offset:end] {
			l.Rows = append(l.Rows, rowHit{Rect: Rect{X: box.X, Y: y, W: box.W, H: 1}, List: kind, ID: t.ID})
			y++
		}
		// the sentinel also covers the empty space below the last task
		h := box.Y + box.H - 1 - y
		if h < 1 {
			h = 1
		}
		l.Rows = append(l.Rows, rowHit{Rect: Rect{X: box.X, Y: y, W: box.W, H: h}, List: kind, ID: board.SentinelID(kind)})
		layouts = append(layouts, l)
	}
	return layouts
}

func (m Model) renderLists() string {
	layouts := m.layoutLists()
	panels := make([]string, len(layouts))
	for i, l := range layouts {
		panels[i] = m.renderListPanel(l)
	}
	if len(layouts) == 2 && layouts[0].Box.Y == layouts[1].Box.Y {
		return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (m Model) renderListPanel(l listLayout) string {
	tasks := m.Board.List(l.Kind)
	inner := l.Box.W - 4
	if inner < 1 {
		inner = 1
	}

	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	title := m.styles.PanelTitle.Render(l.Kind.Title()) +
		m.styles.Subtle.Render(fmt.Sprintf(" %d/%d", done, len(tasks)))

	lines := []string{ansi.Truncate(title, inner, "…")}
	for _, row := range l.Rows[:len(l.Rows)-1] {
		idx := board.IndexOf(tasks, row.ID)
		if idx < 0 {
			continue
		}
		lines = append(lines, m.renderTaskRow(l.Kind, idx, tasks[idx], inner))
	}
	lines = append(lines, m.renderSentinelRow(l.Kind, len(tasks), inner))

	style := m.styles.Panel
	if l.Kind == m.ActiveList {
		style = m.styles.ActivePanel
	}
	return style.
		Width(l.Box.W - 2).
		Height(l.Box.H - 2).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderTaskRow(kind models.ListKind, idx int, task models.Task, width int) string {
	if m.InputMode == InputEdit && m.EditingID == task.ID {
		return ansi.Truncate(m.Input.View(), width, "")
	}

	box := "[ ]"
	style := m.styles.Task
	if task.Completed {
		box = "[x]"
		style = m.styles.TaskDone
	}
	marker := "  "

	switch {
	case task.ID == m.GrabbedID || task.ID == m.DragID:
		marker = "≡ "
		style = m.styles.Grabbed
	case m.GrabbedID != "" && m.GrabList == kind && m.GrabIndex == idx:
		marker = "▸ "
		style = m.styles.DropTarget
	case m.DragID != "" && m.DragOver == task.ID:
		marker = "▸ "
		style = m.styles.DropTarget
	}

	line := ansi.Truncate(marker+box+" "+task.Text, width, "…")
	if kind == m.ActiveList && idx == m.cursor(kind) && m.GrabbedID == "" && m.InputMode == InputNone {
		return m.styles.Cursor.Inherit(style).Render(line)
	}
	return style.Render(line)
}

func (m Model) renderSentinelRow(kind models.ListKind, n int, width int) string {
	if m.InputMode == InputAdd && m.InputList == kind {
		return ansi.Truncate(m.Input.View(), width, "")
	}
	sentinel := board.SentinelID(kind)
	if (m.GrabbedID != "" && m.GrabList == kind && m.GrabIndex == n) ||
		(m.DragID != "" && m.DragOver == sentinel) {
		return m.styles.DropTarget.Render(ansi.Truncate("▸ drop at end of list", width, "…"))
	}
	if m.GrabbedID != "" || m.DragID != "" {
		return m.styles.Sentinel.Render(ansi.Truncate("  drop here", width, "…"))
	}
	hint := "  + add task (a)"
	if n == 0 {
		hint = "  no tasks yet, press a to add one"
	}
	return m.styles.Sentinel.Render(ansi.Truncate(hint, width, "…"))
}

func (m Model) renderTemplatesPanel(box Rect) string {
	inner := box.W - 4
	if inner < 1 {
		inner = 1
	}

	title := m.styles.PanelTitle.Render("Templates") + " " +
		m.styles.Title.Render(string(m.TemplateKind)) +
		m.styles.Subtle.Render("  (tab to switch)")
	lines := []string{ansi.Truncate(title, inner, "…")}

	if m.Naming {
		lines = append(lines, ansi.Truncate(m.NameInput.View(), inner, ""))
	}
	if m.Filtering || m.FilterInput.Value() != "" {
		lines = append(lines, ansi.Truncate(m.FilterInput.View(), inner, ""))
	}

	tpls := m.visibleTemplates()
	if len(tpls) == 0 {
		msg := fmt.Sprintf("No %s templates. Press n to save the %s list.", m.TemplateKind, m.TemplateKind)
		if m.FilterInput.Value() != "" {
			msg = "No templates match."
		}
		lines = append(lines, m.styles.Subtle.Render(ansi.Truncate(msg, inner, "…")))
	}

	room := box.H - 2 - len(lines)
	offset := 0
	if m.TemplateCursor >= room && room > 0 {
		offset = m.TemplateCursor - room + 1
	}
	for i := offset; i < len(tpls) && i-offset < room; i++ {
		tpl := tpls[i]
		line := fmt.Sprintf("%s (%d)  %s", tpl.Name, len(tpl.Tasks), output.TemplatePreview(tpl))
		line = ansi.Truncate("  "+line, inner, "…")
		if i == m.TemplateCursor {
			line = m.styles.Cursor.Render(line)
		}
		lines = append(lines, line)
	}

	return m.styles.ActivePanel.
		Width(box.W - 2).
		Height(box.H - 2).
		Render(strings.Join(lines, "\n"))
}

func (m Model) helpVisibleHeight() int {
	h := m.Height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) helpMaxScroll() int {
	lines := strings.Count(m.HelpContent, "\n") + 1
	limit := lines - m.helpVisibleHeight()
	if limit < 0 {
		return 0
	}
	return limit
}

func (m *Model) clampHelpScroll() {
	if m.HelpScroll > m.helpMaxScroll() {
		m.HelpScroll = m.helpMaxScroll()
	}
	if m.HelpScroll < 0 {
		m.HelpScroll = 0
	}
}

func (m Model) renderHelp() string {
	content := m.HelpContent
	if content == "" {
		content = "Loading help..."
	}
	lines := strings.Split(content, "\n")
	start := m.HelpScroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + m.helpVisibleHeight()
	if end > len(lines) {
		end = len(lines)
	}
	return m.styles.Modal.
		Padding(0, 1).
		Width(m.Width - 2).
		Render(strings.Join(lines[start:end], "\n"))
}

// renderHelpAsync renders the keymap help as markdown off the update loop
func (m Model) renderHelpAsync() tea.Cmd {
	text := m.Keymap.GenerateHelp()
	width := m.Width - 6
	t := m.styles.Theme
	return func() tea.Msg {
		out, err := output.RenderMarkdown(text, width, t)
		if err != nil {
			out = text
		}
		return HelpRenderedMsg{Width: width, Content: out, Err: err}
	}
}

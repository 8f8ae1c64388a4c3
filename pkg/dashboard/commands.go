package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/pomo/internal/board"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

// currentContext returns the keymap context based on current UI state
func (m Model) currentContext() keymap.Context {
	switch {
	case m.HelpOpen:
		return keymap.ContextHelp
	case m.SettingsOpen:
		return keymap.ContextSettings
	case m.InputMode != InputNone:
		return keymap.ContextInput
	case m.TemplatesOpen && (m.Filtering || m.Naming):
		return keymap.ContextFilter
	case m.TemplatesOpen:
		return keymap.ContextTemplates
	case m.GrabbedID != "":
		return keymap.ContextGrab
	}
	return keymap.ContextBoard
}

// handleKey processes key input using the keymap registry. In text
// contexts, keys without a binding there are typed into the focused input
// and never reach the timer or board commands.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.currentContext()

	if cmd, found := m.Keymap.Lookup(msg, ctx); found {
		return m.executeCommand(cmd)
	}

	var inputCmd tea.Cmd
	switch ctx {
	case keymap.ContextInput:
		m.Input, inputCmd = m.Input.Update(msg)
	case keymap.ContextFilter:
		if m.Naming {
			m.NameInput, inputCmd = m.NameInput.Update(msg)
			break
		}
		before := m.FilterInput.Value()
		m.FilterInput, inputCmd = m.FilterInput.Update(msg)
		if m.FilterInput.Value() != before {
			m.TemplateCursor = 0
		}
	}
	return m, inputCmd
}

// executeCommand runs a keymap command
func (m Model) executeCommand(command keymap.Command) (tea.Model, tea.Cmd) {
	switch command {
	case keymap.CmdQuit:
		return m, tea.Quit

	case keymap.CmdToggleHelp:
		m.HelpOpen = !m.HelpOpen
		if m.HelpOpen {
			m.HelpScroll = 0
			return m, m.renderHelpAsync()
		}
		return m, nil

	// Timer
	case keymap.CmdStartPause:
		if m.Timer.Running() {
			if tr, done := m.Timer.Pause(); done {
				return m.phaseEnded(tr)
			}
			return m, nil
		}
		epoch := m.Timer.Start()
		m.syncFocus()
		return m, m.scheduleTick(epoch)

	case keymap.CmdReset:
		m.Timer.Reset()
		m.syncFocus()
		return m, nil

	case keymap.CmdSkip:
		tr := m.Timer.Skip()
		m.syncFocus()
		cmd := tea.Batch(m.recordSession(tr), m.setStatus("Skipped to "+string(tr.To)))
		return m, cmd

	// Inputs
	case keymap.CmdFocusWorkInput:
		return m.focusAdd(models.ListWork)
	case keymap.CmdFocusBreakInput:
		return m.focusAdd(models.ListBreak)
	case keymap.CmdFocusAddInput:
		return m.focusAdd(m.ActiveList)

	case keymap.CmdSubmit:
		switch {
		case m.SettingsOpen:
			return m.submitSettings()
		case m.InputMode != InputNone:
			return m.submitInput()
		case m.Naming:
			return m.saveTemplate()
		case m.Filtering:
			m.Filtering = false
			m.FilterInput.Blur()
		}
		return m, nil

	case keymap.CmdCancel:
		switch {
		case m.SettingsOpen:
			m.closeSettings()
		case m.InputMode != InputNone:
			m.blurInput()
		case m.Naming:
			m.Naming = false
			m.NameInput.Blur()
			m.NameInput.SetValue("")
		case m.Filtering:
			m.Filtering = false
			m.FilterInput.Blur()
			m.FilterInput.SetValue("")
			m.TemplateCursor = 0
		}
		return m, nil

	// Navigation
	case keymap.CmdCursorDown:
		if m.TemplatesOpen {
			m.moveTemplateCursor(1)
		} else {
			m.moveCursor(1)
		}
		return m, nil
	case keymap.CmdCursorUp:
		if m.TemplatesOpen {
			m.moveTemplateCursor(-1)
		} else {
			m.moveCursor(-1)
		}
		return m, nil
	case keymap.CmdCursorTop:
		m.Cursor[m.ActiveList] = 0
		return m, nil
	case keymap.CmdCursorBottom:
		m.Cursor[m.ActiveList] = len(m.Board.List(m.ActiveList)) - 1
		return m, nil
	case keymap.CmdNextList, keymap.CmdPrevList:
		if other := m.ActiveList.Other(); m.listVisible(other) {
			m.ActiveList = other
		}
		return m, nil

	// Tasks
	case keymap.CmdToggleTask:
		if task, ok := m.selectedTask(); ok {
			m.Board.Toggle(m.ActiveList, task.ID)
		}
		return m, nil

	case keymap.CmdEditTask:
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.clearGrab()
		m.InputMode = InputEdit
		m.InputList = m.ActiveList
		m.EditingID = task.ID
		m.Input.Placeholder = ""
		m.Input.SetValue(task.Text)
		m.Input.CursorEnd()
		cmd := m.Input.Focus()
		return m, cmd

	case keymap.CmdDeleteTask:
		if task, ok := m.selectedTask(); ok {
			m.Board.Delete(m.ActiveList, task.ID)
		}
		return m, nil

	// Keyboard drag
	case keymap.CmdGrab:
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if !board.CanDrag(task, m.EditingID) {
			cmd := m.setStatus("Completed tasks stay where they are")
			return m, cmd
		}
		m.GrabbedID = task.ID
		m.GrabList = m.ActiveList
		m.GrabIndex = m.cursor(m.ActiveList)
		return m, nil

	case keymap.CmdMoveUp:
		m.moveGrab(-1)
		return m, nil
	case keymap.CmdMoveDown:
		m.moveGrab(1)
		return m, nil
	case keymap.CmdMoveAcross:
		other := m.GrabList.Other()
		if !m.listVisible(other) {
			return m, nil
		}
		m.GrabList = other
		if n := len(m.Board.List(other)); m.GrabIndex > n {
			m.GrabIndex = n
		}
		return m, nil

	case keymap.CmdDrop:
		id := m.GrabbedID
		target := m.grabTargetID()
		m.clearGrab()
		m.Board.Drop(id, target, m.EditingID)
		m.followTask(id)
		return m, nil

	case keymap.CmdCancelGrab:
		m.clearGrab()
		return m, nil

	// Panels
	case keymap.CmdOpenTemplates:
		return m.openTemplates()
	case keymap.CmdOpenSettings:
		return m.openSettings()

	case keymap.CmdToggleTheme:
		t, err := m.Theme.Toggle()
		var cmd tea.Cmd
		if err != nil {
			m.Logger.Warn("save theme", "theme", t, "err", err)
			cmd = m.setError("Theme not saved: " + err.Error())
		} else {
			cmd = m.setStatus("Theme: " + string(t))
		}
		if m.HelpOpen {
			cmd = tea.Batch(cmd, m.renderHelpAsync())
		}
		return m, cmd

	case keymap.CmdClose:
		switch {
		case m.HelpOpen:
			m.HelpOpen = false
		case m.TemplatesOpen:
			m.closeTemplates()
		}
		return m, nil

	case keymap.CmdScrollDown:
		m.HelpScroll++
		m.clampHelpScroll()
		return m, nil
	case keymap.CmdScrollUp:
		m.HelpScroll--
		m.clampHelpScroll()
		return m, nil

	// Templates
	case keymap.CmdLoadTemplate:
		return m.applyTemplate(false)
	case keymap.CmdMergeTemplate:
		return m.applyTemplate(true)
	case keymap.CmdDeleteTemplate:
		return m.deleteTemplate()
	case keymap.CmdSaveTemplate:
		m.Naming = true
		m.NameInput.SetValue("")
		cmd := m.NameInput.Focus()
		return m, cmd
	case keymap.CmdFilter:
		m.Filtering = true
		cmd := m.FilterInput.Focus()
		return m, cmd
	case keymap.CmdSwitchKind:
		m.TemplateKind = m.TemplateKind.Other()
		m.TemplateCursor = 0
		return m, nil
	}

	return m, nil
}

// focusAdd focuses the add input for kind
func (m Model) focusAdd(kind models.ListKind) (tea.Model, tea.Cmd) {
	if !m.listVisible(kind) {
		cmd := m.setStatus(kind.Title() + " are hidden while the timer runs")
		return m, cmd
	}
	m.closeTemplates()
	m.clearGrab()
	m.ActiveList = kind
	m.InputMode = InputAdd
	m.InputList = kind
	m.EditingID = ""
	m.Input.SetValue("")
	m.Input.Placeholder = addPlaceholder(kind)
	cmd := m.Input.Focus()
	return m, cmd
}

func addPlaceholder(kind models.ListKind) string {
	if kind == models.ListBreak {
		return "Add a break activity..."
	}
	return "Add a task..."
}

// submitInput commits the add or edit input. Adding keeps the input
// focused for the next task; editing closes it.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.Input.Value()
	switch m.InputMode {
	case InputAdd:
		m.Input.SetValue("")
		if task, ok := m.Board.Add(m.InputList, value); ok {
			m.followTask(task.ID)
		}
	case InputEdit:
		id := m.EditingID
		if kind, _, ok := m.Board.Find(id); ok {
			m.Board.Edit(kind, id, value)
		}
		m.blurInput()
		m.followTask(id)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.Board.List(m.ActiveList))
	if n == 0 {
		return
	}
	c := m.cursor(m.ActiveList) + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	m.Cursor[m.ActiveList] = c
}

// moveGrab moves the keyboard drop target. Index len(list) is the sentinel.
func (m *Model) moveGrab(delta int) {
	n := len(m.Board.List(m.GrabList))
	m.GrabIndex += delta
	if m.GrabIndex < 0 {
		m.GrabIndex = 0
	}
	if m.GrabIndex > n {
		m.GrabIndex = n
	}
}

// grabTargetID returns the id under the keyboard drop target
func (m Model) grabTargetID() string {
	tasks := m.Board.List(m.GrabList)
	if m.GrabIndex >= 0 && m.GrabIndex < len(tasks) {
		return tasks[m.GrabIndex].ID
	}
	return board.SentinelID(m.GrabList)
}

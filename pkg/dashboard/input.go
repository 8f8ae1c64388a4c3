package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/pomo/internal/board"
)

// hitTest returns the task row or drop sentinel at (x, y)
func (m Model) hitTest(x, y int) (rowHit, bool) {
	for _, l := range m.layoutLists() {
		if !l.Box.Contains(x, y) {
			continue
		}
		for _, row := range l.Rows {
			if row.Rect.Contains(x, y) {
				return row, true
			}
		}
	}
	return rowHit{}, false
}

// handleMouse implements pointer drag: press on a movable task picks it
// up, motion tracks the row under the pointer, and release drops onto it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Ignore mouse events when overlays are open
	if m.HelpOpen || m.SettingsOpen || m.TemplatesOpen {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handleMousePress(msg.X, msg.Y)

	case tea.MouseActionMotion:
		if m.DragID == "" {
			return m, nil
		}
		if hit, ok := m.hitTest(msg.X, msg.Y); ok {
			m.DragOver = hit.ID
		} else {
			m.DragOver = ""
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.DragID == "" {
			return m, nil
		}
		return m.handleMouseRelease(msg.X, msg.Y)
	}

	return m, nil
}

func (m Model) handleMousePress(x, y int) (tea.Model, tea.Cmd) {
	hit, ok := m.hitTest(x, y)
	if !ok {
		return m, nil
	}
	m.clearGrab()
	m.ActiveList = hit.List

	tasks := m.Board.List(hit.List)
	idx := board.IndexOf(tasks, hit.ID)
	if idx < 0 {
		// sentinel row
		return m, nil
	}
	m.Cursor[hit.List] = idx
	if board.CanDrag(tasks[idx], m.EditingID) {
		m.DragID = hit.ID
		m.DragOver = hit.ID
	}
	return m, nil
}

// handleMouseRelease drops the dragged task. Releasing outside any list
// cancels the drag.
func (m Model) handleMouseRelease(x, y int) (tea.Model, tea.Cmd) {
	dragged := m.DragID
	m.DragID = ""
	m.DragOver = ""

	hit, ok := m.hitTest(x, y)
	if !ok {
		return m, nil
	}
	if d := m.Board.Drop(dragged, hit.ID, m.EditingID); d.Op != board.DropNone {
		m.followTask(dragged)
	}
	return m, nil
}

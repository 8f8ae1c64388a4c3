package dashboard

import (
	"time"

	"github.com/marcus/pomo/internal/models"
)

// Rect represents a rectangular region for hit-testing
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Minimum dimensions for the dashboard
const (
	MinWidth  = 40
	MinHeight = 12
)

// Fixed layout rows
const (
	headerHeight = 3 // title/clock, progress bar, blank
	footerHeight = 2 // status line, key hints
	minColumnW   = 30
)

// InputMode is what the shared task input is doing
type InputMode int

const (
	InputNone InputMode = iota
	InputAdd
	InputEdit
)

// TickMsg asks the timer to re-read the clock. Epoch is the timer epoch the
// tick was scheduled for; ticks from an older epoch are dropped.
type TickMsg struct {
	Epoch uint64
	At    time.Time
}

// ClearStatusMsg clears the status message if it is still the one with Seq
type ClearStatusMsg struct {
	Seq int
}

// SessionRecordedMsg is sent after a finished or skipped phase is stored
type SessionRecordedMsg struct {
	Record models.SessionRecord
	Err    error
}

// SettingsSavedMsg is sent after settings are persisted to config
type SettingsSavedMsg struct {
	Err error
}

// HelpRenderedMsg carries the rendered help overlay
type HelpRenderedMsg struct {
	Width   int
	Content string
	Err     error
}

// rowHit maps a screen row to a task or a list's drop sentinel
type rowHit struct {
	Rect Rect
	List models.ListKind
	ID   string
}

// listLayout is where one task list is drawn
type listLayout struct {
	Kind   models.ListKind
	Box    Rect
	Offset int // index of the first visible task
	Rows   []rowHit
}

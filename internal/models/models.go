package models

import (
	"fmt"
	"strings"
	"time"
)

// Phase represents the timer's current mode
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Other returns the phase that follows p
func (p Phase) Other() Phase {
	if p == PhaseBreak {
		return PhaseWork
	}
	return PhaseBreak
}

// Label returns the user-facing name of the phase
func (p Phase) Label() string {
	if p == PhaseBreak {
		return "Break Time"
	}
	return "Focus Time"
}

// ListKind identifies one of the two task lists
type ListKind string

const (
	ListWork  ListKind = "work"
	ListBreak ListKind = "break"
)

// ListKinds is the fixed display order of the task lists
var ListKinds = []ListKind{ListWork, ListBreak}

// Other returns the opposite list
func (k ListKind) Other() ListKind {
	if k == ListBreak {
		return ListWork
	}
	return ListBreak
}

// Title returns the heading shown above the list
func (k ListKind) Title() string {
	if k == ListBreak {
		return "Break Activities"
	}
	return "Current Tasks"
}

// ListForPhase maps a timer phase to the list that belongs to it
func ListForPhase(p Phase) ListKind {
	if p == PhaseBreak {
		return ListBreak
	}
	return ListWork
}

// ParseListKind parses "work" or "break" (case-insensitive)
func ParseListKind(s string) (ListKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "w":
		return ListWork, nil
	case "break", "b":
		return ListBreak, nil
	}
	return "", fmt.Errorf("unknown list %q (want work or break)", s)
}

// ParsePhase parses "work" or "break" (case-insensitive)
func ParsePhase(s string) (Phase, error) {
	kind, err := ParseListKind(s)
	if err != nil {
		return "", fmt.Errorf("unknown phase %q (want work or break)", s)
	}
	if kind == ListBreak {
		return PhaseBreak, nil
	}
	return PhaseWork, nil
}

// Task is a single entry in a work or break list
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// CloneTasks returns a copy of tasks that shares no backing array
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// Template is a named snapshot of a task list
type Template struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Type      ListKind  `json:"type" yaml:"type"`
	Tasks     []Task    `json:"tasks" yaml:"tasks"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Duration bounds in minutes
const (
	MinWorkMinutes      = 1
	MaxWorkMinutes      = 60
	MinBreakMinutes     = 1
	MaxBreakMinutes     = 30
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// ClampWorkMinutes clamps n to [MinWorkMinutes, MaxWorkMinutes]
func ClampWorkMinutes(n int) int {
	return clamp(n, MinWorkMinutes, MaxWorkMinutes)
}

// ClampBreakMinutes clamps n to [MinBreakMinutes, MaxBreakMinutes]
func ClampBreakMinutes(n int) int {
	return clamp(n, MinBreakMinutes, MaxBreakMinutes)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Theme is the dashboard color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Settings holds user-configurable timer and notification preferences.
// Stored in .pomo/config.json
type Settings struct {
	WorkMinutes  int    `json:"work_minutes"`
	BreakMinutes int    `json:"break_minutes"`
	WorkSound    string `json:"work_sound,omitempty"`
	BreakSound   string `json:"break_sound,omitempty"`
	// Theme lives in the store's theme document, not in config.json
	Theme Theme `json:"-"`
}

// SessionRecord is one finished or skipped phase
type SessionRecord struct {
	ID        string    `json:"id"`
	Phase     Phase     `json:"phase"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Skipped   bool      `json:"skipped"`
}

// Duration returns the wall-clock length of the record
func (r SessionRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

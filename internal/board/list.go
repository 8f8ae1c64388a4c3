// Package board implements the work and break task lists: CRUD with
// completion-based resting order, in-list reordering, and the drop
// protocol that moves a task within or between lists.
//
// List functions never modify their input slice; they return a new slice
// so a caller holding the previous value never observes a partial update.
package board

import (
	"sort"
	"strings"

	"github.com/marcus/pomo/internal/models"
)

// CanonicalOrder returns tasks with every incomplete task ahead of every
// completed one. Relative order within each group is preserved.
func CanonicalOrder(tasks []models.Task) []models.Task {
	out := models.CloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Completed && out[j].Completed
	})
	return out
}

// IsCanonical reports whether no completed task precedes an incomplete one
func IsCanonical(tasks []models.Task) bool {
	seenCompleted := false
	for _, t := range tasks {
		if t.Completed {
			seenCompleted = true
		} else if seenCompleted {
			return false
		}
	}
	return true
}

// IndexOf returns the position of id in tasks, or -1
func IndexOf(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddTask appends a new incomplete task and restores canonical order.
// Returns the input unchanged and false when text is blank.
func AddTask(tasks []models.Task, kind models.ListKind, text string) ([]models.Task, models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, models.Task{}, false
	}
	task := models.Task{ID: models.NewTaskID(kind), Text: text}
	next := make([]models.Task, 0, len(tasks)+1)
	next = append(next, tasks...)
	next = append(next, task)
	return CanonicalOrder(next), task, true
}

// ToggleTask flips the completed flag of id and restores canonical order
func ToggleTask(tasks []models.Task, id string) ([]models.Task, bool) {
	idx := IndexOf(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	next := models.CloneTasks(tasks)
	next[idx].Completed = !next[idx].Completed
	return CanonicalOrder(next), true
}

// EditTask replaces the text of id. Blank or unchanged text is a no-op.
func EditTask(tasks []models.Task, id, text string) ([]models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, false
	}
	idx := IndexOf(tasks, id)
	if idx < 0 || tasks[idx].Text == text {
		return tasks, false
	}
	next := models.CloneTasks(tasks)
	next[idx].Text = text
	return CanonicalOrder(next), true
}

// DeleteTask removes id, preserving the order of the remaining tasks
func DeleteTask(tasks []models.Task, id string) ([]models.Task, bool) {
	idx := IndexOf(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	next := make([]models.Task, 0, len(tasks)-1)
	next = append(next, tasks[:idx]...)
	next = append(next, tasks[idx+1:]...)
	return next, true
}

// MoveTask moves id to targetIndex (clamped to the list bounds).
// Canonical order is deliberately not applied.
func MoveTask(tasks []models.Task, id string, targetIndex int) ([]models.Task, bool) {
	from := IndexOf(tasks, id)
	if from < 0 {
		return tasks, false
	}
	to := clampIndex(targetIndex, len(tasks)-1)
	if from == to {
		return tasks, false
	}
	task := tasks[from]
	rest := make([]models.Task, 0, len(tasks))
	rest = append(rest, tasks[:from]...)
	rest = append(rest, tasks[from+1:]...)
	return insertAt(rest, to, task), true
}

// insertAt returns a new slice with task inserted at idx. An idx outside
// [0, len] appends.
func insertAt(tasks []models.Task, idx int, task models.Task) []models.Task {
	if idx < 0 || idx > len(tasks) {
		idx = len(tasks)
	}
	out := make([]models.Task, 0, len(tasks)+1)
	out = append(out, tasks[:idx]...)
	out = append(out, task)
	out = append(out, tasks[idx:]...)
	return out
}

func clampIndex(idx, max int) int {
	if idx < 0 {
		return 0
	}
	if idx > max {
		return max
	}
	return idx
}

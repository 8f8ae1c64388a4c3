package board

import (
	"strings"

	"github.com/marcus/pomo/internal/models"
)

// Change carries the full new contents of one list
type Change struct {
	Kind  models.ListKind
	Tasks []models.Task
}

// ChangeFunc is called after every effective mutation with the complete
// contents of each list that changed. A transfer reports both lists in a
// single call so they can be persisted together.
type ChangeFunc func(changes []Change)

// Board holds the work and break lists. Each mutation swaps in a whole new
// slice, so previously returned lists are never modified.
type Board struct {
	work     []models.Task
	brk      []models.Task
	onChange ChangeFunc
}

// New creates a board from existing lists. The lists are normalized so IDs
// are namespaced and unique across both.
func New(work, brk []models.Task) *Board {
	work, brk, _ = Normalize(work, brk)
	return &Board{work: work, brk: brk}
}

// OnChange registers the persistence hook
func (b *Board) OnChange(fn ChangeFunc) {
	b.onChange = fn
}

// List returns the current contents of kind
func (b *Board) List(kind models.ListKind) []models.Task {
	if kind == models.ListBreak {
		return b.brk
	}
	return b.work
}

// Len returns the total number of tasks across both lists
func (b *Board) Len() int {
	return len(b.work) + len(b.brk)
}

// Find locates id in either list
func (b *Board) Find(id string) (models.ListKind, int, bool) {
	for _, kind := range models.ListKinds {
		if idx := IndexOf(b.List(kind), id); idx >= 0 {
			return kind, idx, true
		}
	}
	return "", -1, false
}

// Task returns the task with id from either list
func (b *Board) Task(id string) (models.Task, bool) {
	kind, idx, ok := b.Find(id)
	if !ok {
		return models.Task{}, false
	}
	return b.List(kind)[idx], true
}

func (b *Board) set(kind models.ListKind, tasks []models.Task) {
	if kind == models.ListBreak {
		b.brk = tasks
	} else {
		b.work = tasks
	}
	if b.onChange != nil {
		b.onChange([]Change{{Kind: kind, Tasks: tasks}})
	}
}

// setBoth assigns both lists in one step so an observer never sees a task
// in neither or both lists
func (b *Board) setBoth(work, brk []models.Task) {
	b.work, b.brk = work, brk
	if b.onChange != nil {
		b.onChange([]Change{{Kind: models.ListWork, Tasks: work}, {Kind: models.ListBreak, Tasks: brk}})
	}
}

// Add appends a new task to kind. Blank text is ignored.
func (b *Board) Add(kind models.ListKind, text string) (models.Task, bool) {
	next, task, ok := AddTask(b.List(kind), kind, text)
	if ok {
		b.set(kind, next)
	}
	return task, ok
}

// Toggle flips completion of id in kind
func (b *Board) Toggle(kind models.ListKind, id string) bool {
	next, ok := ToggleTask(b.List(kind), id)
	if ok {
		b.set(kind, next)
	}
	return ok
}

// Edit changes the text of id in kind
func (b *Board) Edit(kind models.ListKind, id, text string) bool {
	next, ok := EditTask(b.List(kind), id, text)
	if ok {
		b.set(kind, next)
	}
	return ok
}

// Delete removes id from kind
func (b *Board) Delete(kind models.ListKind, id string) bool {
	next, ok := DeleteTask(b.List(kind), id)
	if ok {
		b.set(kind, next)
	}
	return ok
}

// Reorder moves id to targetIndex within kind without re-sorting
func (b *Board) Reorder(kind models.ListKind, id string, targetIndex int) bool {
	next, ok := MoveTask(b.List(kind), id, targetIndex)
	if ok {
		b.set(kind, next)
	}
	return ok
}

// Transfer moves id from one list to the other at targetIndex. A negative
// index, or one past the end, appends. The task keeps its ID and
// completion state.
func (b *Board) Transfer(id string, from, to models.ListKind, targetIndex int) bool {
	if from == to {
		return false
	}
	src := b.List(from)
	idx := IndexOf(src, id)
	if idx < 0 {
		return false
	}
	task := src[idx]

	nextSrc, _ := DeleteTask(src, id)
	nextDst := insertAt(b.List(to), targetIndex, task)

	if from == models.ListWork {
		b.setBoth(nextSrc, nextDst)
	} else {
		b.setBoth(nextDst, nextSrc)
	}
	return true
}

// ReplaceList swaps kind's contents for a copy of tasks with fresh IDs.
// Task text is trimmed and blank tasks are dropped.
func (b *Board) ReplaceList(kind models.ListKind, tasks []models.Task) {
	b.set(kind, CanonicalOrder(remapIDs(kind, tasks)))
}

// MergeList appends a copy of tasks with fresh IDs to kind
func (b *Board) MergeList(kind models.ListKind, tasks []models.Task) {
	cur := b.List(kind)
	next := make([]models.Task, 0, len(cur)+len(tasks))
	next = append(next, cur...)
	next = append(next, remapIDs(kind, tasks)...)
	b.set(kind, CanonicalOrder(next))
}

func remapIDs(kind models.ListKind, tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		t.ID = models.NewTaskID(kind)
		out = append(out, t)
	}
	return out
}

// CanDrag reports whether a task may be picked up. Completed tasks and the
// task being edited inline cannot be dragged.
func CanDrag(task models.Task, editingID string) bool {
	if task.Completed {
		return false
	}
	return editingID == "" || task.ID != editingID
}

package board

import (
	"strings"

	"github.com/marcus/pomo/internal/models"
)

const sentinelPrefix = "drop:"

// SentinelID is the drop target representing the empty area of a list
func SentinelID(kind models.ListKind) string {
	return sentinelPrefix + string(kind)
}

// sentinelKind returns the list a sentinel ID names
func sentinelKind(id string) (models.ListKind, bool) {
	if !strings.HasPrefix(id, sentinelPrefix) {
		return "", false
	}
	kind, err := models.ParseListKind(strings.TrimPrefix(id, sentinelPrefix))
	if err != nil {
		return "", false
	}
	return kind, true
}

// DropOp is the effect of a resolved drop
type DropOp int

const (
	DropNone DropOp = iota
	DropReorder
	DropTransfer
)

func (o DropOp) String() string {
	switch o {
	case DropReorder:
		return "reorder"
	case DropTransfer:
		return "transfer"
	}
	return "none"
}

// Drop describes how a dragged task lands
type Drop struct {
	Op        DropOp
	TaskID    string
	From      models.ListKind
	To        models.ListKind
	FromIndex int
	// ToIndex is the final position in To. For transfers, -1 means append.
	ToIndex int
}

// ResolveDrop works out where draggedID lands when released over targetID.
// targetID is either a task ID or a SentinelID. A task match takes
// precedence over a sentinel match.
func ResolveDrop(work, brk []models.Task, draggedID, targetID string) Drop {
	none := Drop{Op: DropNone, TaskID: draggedID}
	if draggedID == "" || targetID == "" {
		return none
	}

	lists := map[models.ListKind][]models.Task{models.ListWork: work, models.ListBreak: brk}

	var from models.ListKind
	fromIdx := -1
	for _, kind := range models.ListKinds {
		if idx := IndexOf(lists[kind], draggedID); idx >= 0 {
			from, fromIdx = kind, idx
			break
		}
	}
	if fromIdx < 0 {
		return none
	}

	var to models.ListKind
	targetIdx := -1
	for _, kind := range models.ListKinds {
		if idx := IndexOf(lists[kind], targetID); idx >= 0 {
			to, targetIdx = kind, idx
			break
		}
	}
	if targetIdx < 0 {
		kind, ok := sentinelKind(targetID)
		if !ok {
			return none
		}
		to = kind
	}

	d := Drop{TaskID: draggedID, From: from, To: to, FromIndex: fromIdx}

	if from == to {
		newIdx := targetIdx
		if newIdx < 0 {
			newIdx = len(lists[from]) - 1
		}
		if newIdx == fromIdx {
			return none
		}
		d.Op = DropReorder
		d.ToIndex = newIdx
		return d
	}

	d.Op = DropTransfer
	d.ToIndex = targetIdx
	if len(lists[to]) == 0 {
		d.ToIndex = -1
	}
	return d
}

// Apply performs a resolved drop. Returns false for DropNone or when the
// board changed since the drop was resolved.
func (b *Board) Apply(d Drop) bool {
	switch d.Op {
	case DropReorder:
		return b.Reorder(d.From, d.TaskID, d.ToIndex)
	case DropTransfer:
		return b.Transfer(d.TaskID, d.From, d.To, d.ToIndex)
	}
	return false
}

// Drop resolves and applies dropping draggedID onto targetID. Completed
// tasks and the task being edited (editingID) cannot be dragged.
func (b *Board) Drop(draggedID, targetID, editingID string) Drop {
	task, ok := b.Task(draggedID)
	if !ok || !CanDrag(task, editingID) {
		return Drop{Op: DropNone, TaskID: draggedID}
	}
	d := ResolveDrop(b.work, b.brk, draggedID, targetID)
	if !b.Apply(d) {
		return Drop{Op: DropNone, TaskID: draggedID}
	}
	return d
}

package board

import (
	"strings"

	"github.com/marcus/pomo/internal/models"
)

// Normalize repairs lists loaded from storage. Tasks with blank text are
// dropped, text is trimmed, and any task whose ID is empty, already used,
// or not namespaced (older stores used numeric IDs) gets a fresh ID for the
// list it sits in. Returns whether anything changed.
func Normalize(work, brk []models.Task) ([]models.Task, []models.Task, bool) {
	seen := make(map[string]bool, len(work)+len(brk))
	changed := false

	fix := func(kind models.ListKind, tasks []models.Task) []models.Task {
		out := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			text := strings.TrimSpace(t.Text)
			if text == "" {
				changed = true
				continue
			}
			if text != t.Text {
				t.Text = text
				changed = true
			}
			if t.ID == "" || seen[t.ID] || !models.HasListPrefix(t.ID) {
				t.ID = models.NewTaskID(kind)
				changed = true
			}
			seen[t.ID] = true
			out = append(out, t)
		}
		return out
	}

	work = fix(models.ListWork, work)
	brk = fix(models.ListBreak, brk)
	return work, brk, changed
}

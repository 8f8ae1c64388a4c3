package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/marcus/pomo/internal/board"
	"github.com/marcus/pomo/internal/models"
)

var defaultTexts = map[models.ListKind][]string{
	models.ListWork: {
		"Complete project documentation",
		"Review pull requests",
	},
	models.ListBreak: {
		"Do 10 push-ups",
		"Drink water",
		"Take deep breaths",
	},
}

// DefaultTasks returns the seed list shown on first run
func DefaultTasks(kind models.ListKind) []models.Task {
	texts := defaultTexts[kind]
	out := make([]models.Task, len(texts))
	for i, text := range texts {
		out[i] = models.Task{ID: string(kind) + "-" + strconv.Itoa(i+1), Text: text}
	}
	return out
}

func taskKey(kind models.ListKind) string {
	if kind == models.ListBreak {
		return KeyBreakTasks
	}
	return KeyWorkTasks
}

// LoadTasks returns the stored list for kind. A missing or unreadable
// document yields the default seed list.
func (s *Store) LoadTasks(kind models.ListKind) []models.Task {
	var tasks []models.Task
	err := s.getJSON(taskKey(kind), &tasks)
	switch {
	case errors.Is(err, ErrNotFound):
		return DefaultTasks(kind)
	case err != nil:
		s.logger.Warn("task list unreadable, using defaults", "list", kind, "err", err)
		return DefaultTasks(kind)
	case tasks == nil:
		// "null" is as good as missing
		return DefaultTasks(kind)
	}
	return tasks
}

// SaveTasks writes the full contents of kind
func (s *Store) SaveTasks(kind models.ListKind, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return s.putJSON(taskKey(kind), tasks)
}

// SaveLists writes every changed list in one transaction, so a transfer
// never leaves a task persisted in both lists or in neither
func (s *Store) SaveLists(changes []board.Change) error {
	return s.withWriteLock(func() error {
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		for _, c := range changes {
			tasks := c.Tasks
			if tasks == nil {
				tasks = []models.Task{}
			}
			data, err := json.Marshal(tasks)
			if err != nil {
				return fmt.Errorf("encode %s: %w", c.Kind, err)
			}
			if err := putRaw(tx, taskKey(c.Kind), string(data)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// LoadBoard loads both lists into a Board and wires it to persist every
// change. Lists repaired during load (legacy IDs, duplicates) are saved back.
func (s *Store) LoadBoard() (*board.Board, error) {
	work := s.LoadTasks(models.ListWork)
	brk := s.LoadTasks(models.ListBreak)

	w, b, changed := board.Normalize(work, brk)
	if changed {
		s.logger.Info("repaired stored task lists")
		if err := s.SaveLists([]board.Change{
			{Kind: models.ListWork, Tasks: w},
			{Kind: models.ListBreak, Tasks: b},
		}); err != nil {
			return nil, err
		}
	}

	bd := board.New(w, b)
	bd.OnChange(func(changes []board.Change) {
		if err := s.SaveLists(changes); err != nil {
			s.logger.Error("save task lists", "err", err)
		}
	})
	return bd, nil
}

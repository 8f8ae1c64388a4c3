package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcus/pomo/internal/models"
)

// ErrEmptyTemplate is returned when saving a template without a name or tasks
var ErrEmptyTemplate = errors.New("template needs a name and at least one task")

// LoadTemplates returns every saved template, oldest first. An unreadable
// document yields an empty collection.
func (s *Store) LoadTemplates() []models.Template {
	var tpls []models.Template
	err := s.getJSON(KeyTemplates, &tpls)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("templates unreadable, ignoring", "err", err)
		return nil
	}
	return tpls
}

// updateTemplates reads, modifies and writes the collection while holding
// the write lock, so concurrent writers cannot drop each other's changes
func (s *Store) updateTemplates(fn func([]models.Template) ([]models.Template, error)) error {
	return s.withWriteLock(func() error {
		next, err := fn(s.LoadTemplates())
		if err != nil {
			return err
		}
		if next == nil {
			next = []models.Template{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", KeyTemplates, err)
		}
		return putRaw(s.conn, KeyTemplates, string(data))
	})
}

// CreateTemplate snapshots tasks as a new template of the given kind
func (s *Store) CreateTemplate(name string, kind models.ListKind, tasks []models.Task) (models.Template, error) {
	name = strings.TrimSpace(name)
	tasks = cleanTasks(tasks)
	if name == "" || len(tasks) == 0 {
		return models.Template{}, ErrEmptyTemplate
	}
	tpl := models.Template{
		ID:        models.NewTemplateID(),
		Name:      name,
		Type:      kind,
		Tasks:     tasks,
		CreatedAt: time.Now().UTC(),
	}
	err := s.updateTemplates(func(tpls []models.Template) ([]models.Template, error) {
		return append(tpls, tpl), nil
	})
	if err != nil {
		return models.Template{}, err
	}
	return tpl, nil
}

// GetTemplate finds a template by ID, or by case-insensitive name
func (s *Store) GetTemplate(ref string) (models.Template, error) {
	return findTemplate(s.LoadTemplates(), ref)
}

func findTemplate(tpls []models.Template, ref string) (models.Template, error) {
	for _, t := range tpls {
		if t.ID == ref {
			return t, nil
		}
	}
	for _, t := range tpls {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return models.Template{}, ErrNotFound
}

// DeleteTemplate removes a template by ID or name
func (s *Store) DeleteTemplate(ref string) error {
	return s.updateTemplates(func(tpls []models.Template) ([]models.Template, error) {
		tpl, err := findTemplate(tpls, ref)
		if err != nil {
			return nil, err
		}
		out := tpls[:0]
		for _, t := range tpls {
			if t.ID != tpl.ID {
				out = append(out, t)
			}
		}
		return out, nil
	})
}

// TemplatesOf returns the templates for one list kind
func TemplatesOf(tpls []models.Template, kind models.ListKind) []models.Template {
	var out []models.Template
	for _, t := range tpls {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	return out
}

// cleanTasks returns a copy of tasks with trimmed text, dropping blank ones
func cleanTasks(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

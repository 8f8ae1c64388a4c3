package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/store"
)

// templateSearchSource adapts templates for the fuzzy library. Each
// template is searchable by its name and task texts.
type templateSearchSource []models.Template

func (s templateSearchSource) String(i int) string {
	var b strings.Builder
	b.WriteString(s[i].Name)
	for _, t := range s[i].Tasks {
		b.WriteByte(' ')
		b.WriteString(t.Text)
	}
	return b.String()
}

func (s templateSearchSource) Len() int {
	return len(s)
}

// filterTemplates ranks templates against query, best match first
func filterTemplates(query string, tpls []models.Template) []models.Template {
	query = strings.TrimSpace(query)
	if query == "" {
		return tpls
	}

	matches := fuzzy.FindFrom(query, templateSearchSource(tpls))
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	result := make([]models.Template, len(matches))
	for i, m := range matches {
		result[i] = tpls[m.Index]
	}
	return result
}

// visibleTemplates returns the sidebar entries for the selected kind
func (m Model) visibleTemplates() []models.Template {
	return filterTemplates(m.FilterInput.Value(), store.TemplatesOf(m.Templates, m.TemplateKind))
}

func (m Model) selectedTemplate() (models.Template, bool) {
	tpls := m.visibleTemplates()
	if m.TemplateCursor < 0 || m.TemplateCursor >= len(tpls) {
		return models.Template{}, false
	}
	return tpls[m.TemplateCursor], true
}

func (m *Model) moveTemplateCursor(delta int) {
	n := len(m.visibleTemplates())
	m.TemplateCursor += delta
	if m.TemplateCursor >= n {
		m.TemplateCursor = n - 1
	}
	if m.TemplateCursor < 0 {
		m.TemplateCursor = 0
	}
}

func (m *Model) reloadTemplates() {
	if m.Store != nil {
		m.Templates = m.Store.LoadTemplates()
	}
}

func (m Model) openTemplates() (tea.Model, tea.Cmd) {
	m.clearGrab()
	m.TemplatesOpen = true
	m.TemplateKind = m.ActiveList
	m.TemplateCursor = 0
	m.reloadTemplates()
	return m, nil
}

func (m *Model) closeTemplates() {
	m.TemplatesOpen = false
	m.Filtering = false
	m.Naming = false
	m.FilterInput.Blur()
	m.FilterInput.SetValue("")
	m.NameInput.Blur()
	m.NameInput.SetValue("")
	m.TemplateCursor = 0
}

// applyTemplate replaces or merges the selected template into its list
func (m Model) applyTemplate(merge bool) (tea.Model, tea.Cmd) {
	tpl, ok := m.selectedTemplate()
	if !ok {
		return m, nil
	}

	verb := "Loaded"
	if merge {
		verb = "Merged"
		m.Board.MergeList(tpl.Type, tpl.Tasks)
	} else {
		m.Board.ReplaceList(tpl.Type, tpl.Tasks)
	}

	m.closeTemplates()
	if m.listVisible(tpl.Type) {
		m.ActiveList = tpl.Type
	}
	m.Cursor[tpl.Type] = 0
	cmd := m.setStatus(fmt.Sprintf("%s template %q", verb, tpl.Name))
	return m, cmd
}

func (m Model) deleteTemplate() (tea.Model, tea.Cmd) {
	tpl, ok := m.selectedTemplate()
	if !ok || m.Store == nil {
		return m, nil
	}
	if err := m.Store.DeleteTemplate(tpl.ID); err != nil {
		m.Logger.Error("delete template", "id", tpl.ID, "err", err)
		cmd := m.setError("Failed to delete template: " + err.Error())
		return m, cmd
	}
	m.reloadTemplates()
	m.moveTemplateCursor(0)
	cmd := m.setStatus(fmt.Sprintf("Deleted template %q", tpl.Name))
	return m, cmd
}

// saveTemplate snapshots the selected kind's list under the typed name
func (m Model) saveTemplate() (tea.Model, tea.Cmd) {
	if m.Store == nil {
		cmd := m.setError("Templates need a data directory")
		return m, cmd
	}
	tpl, err := m.Store.CreateTemplate(m.NameInput.Value(), m.TemplateKind, m.Board.List(m.TemplateKind))
	if err != nil {
		if !errors.Is(err, store.ErrEmptyTemplate) {
			m.Logger.Error("save template", "err", err)
		}
		cmd := m.setError(err.Error())
		return m, cmd
	}

	m.Naming = false
	m.NameInput.Blur()
	m.NameInput.SetValue("")
	m.reloadTemplates()
	m.TemplateCursor = 0
	for i, t := range m.visibleTemplates() {
		if t.ID == tpl.ID {
			m.TemplateCursor = i
		}
	}
	cmd := m.setStatus(fmt.Sprintf("Saved template %q", tpl.Name))
	return m, cmd
}

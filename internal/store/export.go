package store

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marcus/pomo/internal/models"
)

// templateFile is the on-disk layout of an exported template set
type templateFile struct {
	Version   int               `yaml:"version"`
	Templates []models.Template `yaml:"templates"`
}

const exportVersion = 1

// ExportTemplates writes tpls to w as YAML
func ExportTemplates(w io.Writer, tpls []models.Template) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(templateFile{Version: exportVersion, Templates: tpls}); err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	return enc.Close()
}

// DecodeTemplates reads a YAML template set. Task text is trimmed and blank
// tasks are dropped; entries left without a name, a valid type or tasks are
// skipped.
func DecodeTemplates(r io.Reader) ([]models.Template, error) {
	var f templateFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	if f.Version > exportVersion {
		return nil, fmt.Errorf("template file version %d is newer than supported (%d)", f.Version, exportVersion)
	}

	var out []models.Template
	for _, t := range f.Templates {
		t.Tasks = cleanTasks(t.Tasks)
		if strings.TrimSpace(t.Name) == "" || len(t.Tasks) == 0 {
			continue
		}
		if _, err := models.ParseListKind(string(t.Type)); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ImportTemplates appends the templates in r to the store under fresh IDs
// and returns how many were added
func (s *Store) ImportTemplates(r io.Reader) (int, error) {
	incoming, err := DecodeTemplates(r)
	if err != nil {
		return 0, err
	}
	if len(incoming) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	err = s.updateTemplates(func(tpls []models.Template) ([]models.Template, error) {
		for _, t := range incoming {
			kind, _ := models.ParseListKind(string(t.Type))
			t.ID = models.NewTemplateID()
			t.Type = kind
			t.Name = strings.TrimSpace(t.Name)
			if t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			tpls = append(tpls, t)
		}
		return tpls, nil
	})
	if err != nil {
		return 0, err
	}
	return len(incoming), nil
}

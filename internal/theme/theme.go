// Package theme holds the dashboard's light/dark setting and tells
// subscribers when it changes.
package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"github.com/marcus/pomo/internal/models"
)

// Backend persists the theme value
type Backend interface {
	GetRaw(key string) (string, error)
	PutRaw(key, value string) error
}

// Key is the document the theme is stored under
const Key = "theme"

// Provider is the shared theme context
type Provider struct {
	mu      sync.Mutex
	current models.Theme
	backend Backend
	subs    map[int]func(models.Theme)
	nextID  int
}

// Detect guesses a theme from the terminal background
func Detect() models.Theme {
	if termenv.HasDarkBackground() {
		return models.ThemeDark
	}
	return models.ThemeLight
}

// Parse accepts "dark" or "light"
func Parse(s string) (models.Theme, error) {
	switch models.Theme(strings.ToLower(strings.TrimSpace(s))) {
	case models.ThemeDark:
		return models.ThemeDark, nil
	case models.ThemeLight:
		return models.ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// NewProvider loads the stored theme from backend, or uses fallback when
// nothing valid is stored. backend may be nil.
func NewProvider(backend Backend, fallback models.Theme) *Provider {
	p := &Provider{
		current: fallback,
		backend: backend,
		subs:    make(map[int]func(models.Theme)),
	}
	if p.current == "" {
		p.current = models.ThemeDark
	}
	if t, ok := Load(backend); ok {
		p.current = t
	}
	return p
}

// Load reads the stored theme
func Load(backend Backend) (models.Theme, bool) {
	if backend == nil {
		return "", false
	}
	raw, err := backend.GetRaw(Key)
	if err != nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return "", false
	}
	t, err := Parse(s)
	if err != nil {
		return "", false
	}
	return t, true
}

// Save stores t
func Save(backend Backend, t models.Theme) error {
	if backend == nil {
		return errors.New("no theme backend")
	}
	data, _ := json.Marshal(string(t))
	return backend.PutRaw(Key, string(data))
}

// Current returns the active theme
func (p *Provider) Current() models.Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Toggle flips between dark and light
func (p *Provider) Toggle() (models.Theme, error) {
	next := models.ThemeDark
	if p.Current() == models.ThemeDark {
		next = models.ThemeLight
	}
	return next, p.Set(next)
}

// Set switches the theme, persists it and notifies subscribers. Subscribers
// are notified even when persisting fails.
func (p *Provider) Set(t models.Theme) error {
	p.mu.Lock()
	if p.current == t {
		p.mu.Unlock()
		return nil
	}
	p.current = t
	subs := make([]func(models.Theme), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(t)
	}
	if p.backend == nil {
		return nil
	}
	return Save(p.backend, t)
}

// Subscribe registers fn for theme changes and returns a function that
// detaches it
func (p *Provider) Subscribe(fn func(models.Theme)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Subscribers returns the number of attached subscribers
func (p *Provider) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

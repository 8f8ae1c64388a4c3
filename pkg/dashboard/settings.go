package dashboard

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/marcus/pomo/internal/config"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/sound"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

var errNotMinutes = errors.New("enter a whole number of minutes")

// SettingsState holds the settings form and the values it edits
type SettingsState struct {
	Form *huh.Form

	WorkMinutes  string
	BreakMinutes string
	WorkSound    string
	BreakSound   string

	// last cues previewed, so a preview plays once per selection change
	previewWork  string
	previewBreak string
}

func newSettingsState(s models.Settings, styles *Styles) *SettingsState {
	ss := &SettingsState{
		WorkMinutes:  strconv.Itoa(s.WorkMinutes),
		BreakMinutes: strconv.Itoa(s.BreakMinutes),
		WorkSound:    sound.Resolve(models.PhaseWork, s.WorkSound).ID,
		BreakSound:   sound.Resolve(models.PhaseBreak, s.BreakSound).ID,
	}
	ss.previewWork = ss.WorkSound
	ss.previewBreak = ss.BreakSound
	ss.buildForm(styles)
	return ss
}

func soundOptions(p models.Phase) []huh.Option[string] {
	cat := sound.Catalog(p)
	opts := make([]huh.Option[string], 0, len(cat))
	for _, s := range cat {
		opts = append(opts, huh.NewOption(s.Name, s.ID))
	}
	return opts
}

func validateMinutes(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errNotMinutes
	}
	return nil
}

func (ss *SettingsState) buildForm(styles *Styles) {
	ss.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Work duration").
				Description("Minutes, 1-60").
				Value(&ss.WorkMinutes).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Break duration").
				Description("Minutes, 1-30").
				Value(&ss.BreakMinutes).
				Validate(validateMinutes),
			huh.NewSelect[string]().
				Title("Work complete sound").
				Options(soundOptions(models.PhaseWork)...).
				Value(&ss.WorkSound),
			huh.NewSelect[string]().
				Title("Break complete sound").
				Options(soundOptions(models.PhaseBreak)...).
				Value(&ss.BreakSound),
		).Title("Settings"),
	)
	ss.Form.WithTheme(styles.FormTheme())
	ss.Form.WithShowHelp(false)
}

// apply returns base with the form values applied. Durations are clamped;
// a value that does not parse keeps the current setting.
func (ss *SettingsState) apply(base models.Settings) models.Settings {
	next := base
	if n, err := strconv.Atoi(strings.TrimSpace(ss.WorkMinutes)); err == nil {
		next.WorkMinutes = models.ClampWorkMinutes(n)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(ss.BreakMinutes)); err == nil {
		next.BreakMinutes = models.ClampBreakMinutes(n)
	}
	next.WorkSound = sound.Resolve(models.PhaseWork, ss.WorkSound).ID
	next.BreakSound = sound.Resolve(models.PhaseBreak, ss.BreakSound).ID
	return next
}

// openSettings shows the form. Settings are only editable while the timer
// is not running.
func (m Model) openSettings() (tea.Model, tea.Cmd) {
	if m.Timer.Running() {
		cmd := m.setStatus("Pause the timer to change settings")
		return m, cmd
	}
	m.clearGrab()
	m.SettingsState = newSettingsState(m.Settings, m.styles)
	m.SettingsOpen = true
	return m, m.SettingsState.Form.Init()
}

func (m *Model) closeSettings() {
	m.SettingsOpen = false
	m.SettingsState = nil
}

// handleSettingsUpdate handles all messages while the settings form is open
func (m Model) handleSettingsUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if cmd, found := m.Keymap.Lookup(keyMsg, keymap.ContextSettings); found {
			return m.executeCommand(cmd)
		}
	}

	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = sizeMsg.Width
		m.Height = sizeMsg.Height
		m.resizeInputs()
	}

	ss := m.SettingsState
	form, cmd := ss.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		ss.Form = f
	}

	m.previewSounds()

	switch ss.Form.State {
	case huh.StateCompleted:
		return m.submitSettings()
	case huh.StateAborted:
		m.closeSettings()
		return m, nil
	}
	return m, cmd
}

// previewSounds plays a cue when its selection changes
func (m *Model) previewSounds() {
	ss := m.SettingsState
	if m.Notifier == nil || ss == nil {
		return
	}
	if ss.WorkSound != ss.previewWork {
		ss.previewWork = ss.WorkSound
		m.Notifier.PlayWorkComplete(ss.WorkSound)
	}
	if ss.BreakSound != ss.previewBreak {
		ss.previewBreak = ss.BreakSound
		m.Notifier.PlayBreakComplete(ss.BreakSound)
	}
}

// submitSettings applies the form to the timer and notifier and persists it
func (m Model) submitSettings() (tea.Model, tea.Cmd) {
	if m.SettingsState == nil {
		return m, nil
	}
	next := m.SettingsState.apply(m.Settings)
	m.Settings = next
	m.Timer.SetWorkMinutes(next.WorkMinutes)
	m.Timer.SetBreakMinutes(next.BreakMinutes)
	if m.Notifier != nil {
		m.Notifier.SetSounds(next.WorkSound, next.BreakSound)
	}
	m.closeSettings()

	cmd := tea.Batch(m.saveSettings(next), m.setStatus("Settings saved"))
	return m, cmd
}

func (m Model) saveSettings(s models.Settings) tea.Cmd {
	if m.BaseDir == "" {
		return nil
	}
	baseDir := m.BaseDir
	return func() tea.Msg {
		_, err := config.Update(baseDir, func(cfg *models.Settings) {
			cfg.WorkMinutes = s.WorkMinutes
			cfg.BreakMinutes = s.BreakMinutes
			cfg.WorkSound = s.WorkSound
			cfg.BreakSound = s.BreakSound
		})
		return SettingsSavedMsg{Err: err}
	}
}

// Package dashboard is the interactive terminal UI: the session timer above
// the work and break task lists, with keyboard and mouse drag between them,
// a templates sidebar, a settings form, and a help overlay.
package dashboard

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/pomo/internal/board"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/sound"
	"github.com/marcus/pomo/internal/store"
	"github.com/marcus/pomo/internal/theme"
	"github.com/marcus/pomo/internal/timer"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

const statusDuration = 3 * time.Second

// Options wires a Model to its collaborators. Store, Notifier and BaseDir
// may be left empty; persistence and sound are then skipped.
type Options struct {
	Store    *store.Store
	Board    *board.Board
	Timer    *timer.Timer
	Notifier *sound.Notifier
	Theme    *theme.Provider
	Keymap   *keymap.Registry
	Settings *models.Settings
	Logger   *slog.Logger
	BaseDir  string
	Version  string
}

// Model is the dashboard state
type Model struct {
	Store    *store.Store
	Board    *board.Board
	Timer    *timer.Timer
	Notifier *sound.Notifier
	Theme    *theme.Provider
	Keymap   *keymap.Registry
	Logger   *slog.Logger
	Settings models.Settings
	BaseDir  string
	Version  string

	styles      *Styles
	unsubscribe func()

	// Window dimensions
	Width  int
	Height int

	// Board navigation
	ActiveList models.ListKind
	Cursor     map[models.ListKind]int

	// Shared add/edit input
	Input     textinput.Model
	InputMode InputMode
	InputList models.ListKind
	EditingID string

	// Keyboard drag: GrabIndex is the target row in GrabList, where
	// len(list) is the list's drop sentinel
	GrabbedID string
	GrabList  models.ListKind
	GrabIndex int

	// Mouse drag
	DragID   string
	DragOver string

	// Templates sidebar
	TemplatesOpen  bool
	TemplateKind   models.ListKind
	TemplateCursor int
	Templates      []models.Template
	FilterInput    textinput.Model
	Filtering      bool
	NameInput      textinput.Model
	Naming         bool

	// Settings form
	SettingsOpen  bool
	SettingsState *SettingsState

	// Help overlay
	HelpOpen    bool
	HelpScroll  int
	HelpContent string
	HelpWidth   int

	StatusMessage string
	StatusIsError bool
	statusSeq     int
}

// NewModel creates a dashboard model
func NewModel(opts Options) Model {
	km := opts.Keymap
	if km == nil {
		km = keymap.NewRegistry()
		keymap.RegisterDefaults(km)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := opts.Board
	if b == nil {
		b = board.New(store.DefaultTasks(models.ListWork), store.DefaultTasks(models.ListBreak))
	}
	settings := models.Settings{
		WorkMinutes:  models.DefaultWorkMinutes,
		BreakMinutes: models.DefaultBreakMinutes,
	}
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	tm := opts.Timer
	if tm == nil {
		var n timer.Notifier
		if opts.Notifier != nil {
			n = opts.Notifier
		}
		tm = timer.New(timer.Options{
			WorkMinutes:  settings.WorkMinutes,
			BreakMinutes: settings.BreakMinutes,
			Notifier:     n,
			Logger:       logger,
		})
	}
	provider := opts.Theme
	if provider == nil {
		provider = theme.NewProvider(nil, settings.Theme)
	}

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 200
	input.Width = 40

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter templates"
	filter.CharLimit = 100

	name := textinput.New()
	name.Prompt = "name: "
	name.Placeholder = "Morning routine"
	name.CharLimit = 100

	styles := NewStyles(provider.Current())
	unsubscribe := provider.Subscribe(func(t models.Theme) {
		*styles = *NewStyles(t)
	})

	m := Model{
		Store:       opts.Store,
		Board:       b,
		Timer:       tm,
		Notifier:    opts.Notifier,
		Theme:       provider,
		Keymap:      km,
		Logger:      logger,
		Settings:    settings,
		BaseDir:     opts.BaseDir,
		Version:     opts.Version,
		styles:      styles,
		unsubscribe: unsubscribe,
		ActiveList:  models.ListWork,
		Cursor:      make(map[models.ListKind]int),
		Input:       input,
		FilterInput: filter,
		NameInput:   name,
	}
	return m
}

// Close detaches the theme subscription and closes the store
func (m *Model) Close() error {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if m.Notifier != nil {
		m.Notifier.Wait()
	}
	if m.Store != nil {
		err := m.Store.Close()
		m.Store = nil
		return err
	}
	return nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.Timer.Running() {
		return m.scheduleTick(m.Timer.Epoch())
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Ticks are handled before any overlay interception so the tick chain
	// is never swallowed by an open form.
	if tick, ok := msg.(TickMsg); ok {
		return m.handleTick(tick)
	}

	if m.SettingsOpen && m.SettingsState != nil && m.SettingsState.Form != nil {
		return m.handleSettingsUpdate(msg)
	}

	// Forward non-key messages to the focused input (cursor blink)
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		if cmd := m.updateFocusedInput(msg); cmd != nil {
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resizeInputs()
		if m.HelpOpen {
			return m, m.renderHelpAsync()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMessage = ""
			m.StatusIsError = false
		}
		return m, nil

	case SessionRecordedMsg:
		if msg.Err != nil {
			m.Logger.Error("record session", "phase", msg.Record.Phase, "err", msg.Err)
		}
		return m, nil

	case SettingsSavedMsg:
		if msg.Err != nil {
			m.Logger.Error("save settings", "err", msg.Err)
			cmd := m.setError("Failed to save settings: " + msg.Err.Error())
			return m, cmd
		}
		return m, nil

	case HelpRenderedMsg:
		if msg.Err != nil {
			m.Logger.Warn("render help", "err", msg.Err)
		}
		m.HelpContent = msg.Content
		m.HelpWidth = msg.Width
		m.clampHelpScroll()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}

// scheduleTick schedules the next timer probe for epoch
func (m Model) scheduleTick(epoch uint64) tea.Cmd {
	return tea.Tick(timer.ProbeInterval, func(t time.Time) tea.Msg {
		return TickMsg{Epoch: epoch, At: t}
	})
}

// handleTick advances the timer. A tick from an older epoch, or one that
// arrives while stopped, ends its chain without rescheduling.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Epoch != m.Timer.Epoch() || !m.Timer.Running() {
		return m, nil
	}
	tr, done := m.Timer.TickEpoch(msg.Epoch)
	if !done {
		return m, m.scheduleTick(msg.Epoch)
	}
	return m.phaseEnded(tr)
}

// phaseEnded records a phase that ran to zero and announces the next one
func (m Model) phaseEnded(tr timer.Transition) (tea.Model, tea.Cmd) {
	m.syncFocus()
	text := "Work session complete! Time for a break."
	if tr.From == models.PhaseBreak {
		text = "Break is over. Ready to focus?"
	}
	cmd := tea.Batch(m.recordSession(tr), m.setStatus(text))
	return m, cmd
}

func (m Model) recordSession(tr timer.Transition) tea.Cmd {
	if m.Store == nil {
		return nil
	}
	st := m.Store
	rec := models.SessionRecord{
		Phase:     tr.From,
		StartedAt: tr.StartedAt,
		EndedAt:   tr.EndedAt,
		Skipped:   tr.Skipped,
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.EndedAt
	}
	return func() tea.Msg {
		return SessionRecordedMsg{Record: rec, Err: st.RecordSession(rec)}
	}
}

func (m *Model) setStatus(text string) tea.Cmd {
	return m.status(text, false)
}

func (m *Model) setError(text string) tea.Cmd {
	return m.status(text, true)
}

func (m *Model) status(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.StatusMessage = text
	m.StatusIsError = isErr
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func (m *Model) resizeInputs() {
	w := m.Width/2 - 8
	if w < 10 {
		w = 10
	}
	m.Input.Width = w
	m.FilterInput.Width = w
	m.NameInput.Width = w
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.InputMode != InputNone:
		m.Input, cmd = m.Input.Update(msg)
	case m.Naming:
		m.NameInput, cmd = m.NameInput.Update(msg)
	case m.Filtering:
		m.FilterInput, cmd = m.FilterInput.Update(msg)
	}
	return cmd
}

// visibleLists returns the lists currently on screen: both while the timer
// is stopped, only the current phase's list while it runs
func (m Model) visibleLists() []models.ListKind {
	if m.Timer.Running() {
		return []models.ListKind{models.ListForPhase(m.Timer.Phase())}
	}
	return models.ListKinds
}

func (m Model) listVisible(kind models.ListKind) bool {
	for _, k := range m.visibleLists() {
		if k == kind {
			return true
		}
	}
	return false
}

// cursor returns the cursor for kind clamped to the list
func (m Model) cursor(kind models.ListKind) int {
	n := len(m.Board.List(kind))
	c := m.Cursor[kind]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// selectedTask returns the task under the cursor in the active list
func (m Model) selectedTask() (models.Task, bool) {
	tasks := m.Board.List(m.ActiveList)
	if len(tasks) == 0 {
		return models.Task{}, false
	}
	return tasks[m.cursor(m.ActiveList)], true
}

// followTask moves the focus to wherever id now lives
func (m *Model) followTask(id string) {
	kind, idx, ok := m.Board.Find(id)
	if !ok {
		return
	}
	m.ActiveList = kind
	m.Cursor[kind] = idx
}

// syncFocus drops focus, grabs and inputs that point at a list that is no
// longer visible
func (m *Model) syncFocus() {
	if !m.listVisible(m.ActiveList) {
		m.ActiveList = models.ListForPhase(m.Timer.Phase())
	}
	if m.GrabbedID != "" && !m.listVisible(m.GrabList) {
		m.clearGrab()
	}
	if m.DragID != "" {
		if kind, _, ok := m.Board.Find(m.DragID); !ok || !m.listVisible(kind) {
			m.DragID, m.DragOver = "", ""
		}
	}
	if m.InputMode != InputNone && !m.listVisible(m.InputList) {
		m.blurInput()
	}
}

func (m *Model) clearGrab() {
	m.GrabbedID = ""
	m.GrabIndex = 0
}

func (m *Model) blurInput() {
	m.Input.Blur()
	m.Input.SetValue("")
	m.InputMode = InputNone
	m.EditingID = ""
}

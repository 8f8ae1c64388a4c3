package dashboard

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/pomo/internal/board"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/timer"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestModel() (Model, *testClock) {
	clock := &testClock{now: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)}
	tm := timer.New(timer.Options{WorkMinutes: 25, BreakMinutes: 5, Clock: clock})
	b := board.New(
		[]models.Task{
			{ID: "work-1", Text: "Write report"},
			{ID: "work-2", Text: "Review PR"},
			{ID: "work-3", Text: "Inbox zero", Completed: true},
		},
		[]models.Task{
			{ID: "break-1", Text: "Stretch"},
			{ID: "break-2", Text: "Drink water"},
		},
	)
	m := NewModel(Options{Board: b, Timer: tm})
	m.Width = 100
	m.Height = 30
	return m, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func altRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

var (
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		out, _ := m.handleKey(k)
		m = out.(Model)
	}
	return m
}

func ids(tasks []models.Task) string {
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = t.ID
	}
	return strings.Join(parts, ",")
}

func TestStartSchedulesTickForCurrentEpoch(t *testing.T) {
	m, _ := newTestModel()

	out, cmd := m.handleKey(spaceKey)
	m = out.(Model)
	if !m.Timer.Running() {
		t.Fatal("space did not start the timer")
	}
	if cmd == nil {
		t.Fatal("start did not schedule a tick")
	}
	msg, ok := cmd().(TickMsg)
	if !ok {
		t.Fatalf("scheduled %T, want TickMsg", msg)
	}
	if msg.Epoch != m.Timer.Epoch() {
		t.Errorf("tick epoch = %d, want %d", msg.Epoch, m.Timer.Epoch())
	}

	m = press(t, m, spaceKey)
	if m.Timer.Running() {
		t.Error("second space did not pause")
	}
}

func TestStaleTickEndsChain(t *testing.T) {
	m, clock := newTestModel()
	m = press(t, m, spaceKey)
	first := m.Timer.Epoch()
	m = press(t, m, spaceKey, spaceKey) // pause, resume
	current := m.Timer.Epoch()
	if first == current {
		t.Fatal("pause/resume kept the epoch")
	}

	clock.Advance(10 * time.Second)
	out, cmd := m.Update(TickMsg{Epoch: first})
	m = out.(Model)
	if cmd != nil {
		t.Error("stale tick rescheduled itself")
	}
	if m.Timer.Remaining() != 1500 {
		t.Errorf("stale tick applied time: remaining = %d", m.Timer.Remaining())
	}

	out, cmd = m.Update(TickMsg{Epoch: current})
	m = out.(Model)
	if cmd == nil {
		t.Error("current tick did not reschedule")
	}
	if m.Timer.Remaining() != 1490 {
		t.Errorf("remaining = %d, want 1490", m.Timer.Remaining())
	}
}

func TestTickWhileSettingsOpenStillAdvances(t *testing.T) {
	m, clock := newTestModel()
	m = press(t, m, spaceKey)
	epoch := m.Timer.Epoch()
	// a form that swallows messages must not swallow ticks
	m.SettingsOpen = true
	m.SettingsState = newSettingsState(m.Settings, m.styles)

	clock.Advance(5 * time.Second)
	out, cmd := m.Update(TickMsg{Epoch: epoch})
	m = out.(Model)
	if cmd == nil || m.Timer.Remaining() != 1495 {
		t.Errorf("tick swallowed: cmd=%v remaining=%d", cmd != nil, m.Timer.Remaining())
	}
}

func TestTickCompletesPhase(t *testing.T) {
	m, clock := newTestModel()
	m = press(t, m, spaceKey)
	clock.Advance(25 * time.Minute)

	out, _ := m.Update(TickMsg{Epoch: m.Timer.Epoch()})
	m = out.(Model)
	if m.Timer.Phase() != models.PhaseBreak || m.Timer.Running() {
		t.Errorf("timer = %+v, want Break-Idle", m.Timer.State())
	}
	if m.Timer.Sessions() != 1 {
		t.Errorf("sessions = %d, want 1", m.Timer.Sessions())
	}
	if m.StatusMessage == "" {
		t.Error("no completion message")
	}
	if len(m.visibleLists()) != 2 {
		t.Error("both lists should be visible once the timer stops")
	}
}

func TestPauseAfterMissedTicksCompletesPhase(t *testing.T) {
	m, clock := newTestModel()
	m = press(t, m, spaceKey)
	clock.Advance(26 * time.Minute)

	m = press(t, m, spaceKey)
	if m.Timer.Phase() != models.PhaseBreak || m.Timer.Running() || m.Timer.Sessions() != 1 {
		t.Errorf("timer = %+v, want Break-Idle after one session", m.Timer.State())
	}
	if !strings.Contains(m.StatusMessage, "Work session complete") {
		t.Errorf("status = %q, want completion message", m.StatusMessage)
	}
}

func TestTypingInInputDoesNotTriggerGlobalKeys(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, altRunes("w"))
	if m.InputMode != InputAdd || m.InputList != models.ListWork {
		t.Fatalf("alt+w: mode=%v list=%s", m.InputMode, m.InputList)
	}

	m = press(t, m, runes("s"), spaceKey, runes("r"), runes("q"), runes("T"))
	if m.Timer.Running() || m.Timer.Phase() != models.PhaseWork {
		t.Errorf("typing reached the timer: %+v", m.Timer.State())
	}
	if got := m.Input.Value(); got != "s rqT" {
		t.Errorf("input = %q, want %q", got, "s rqT")
	}
	if m.styles.Theme != models.ThemeDark {
		t.Error("typing T toggled the theme")
	}

	m = press(t, m, enterKey)
	work := m.Board.List(models.ListWork)
	if len(work) != 4 || work[2].Text != "s rqT" {
		t.Errorf("work = %+v, want new task before the completed one", work)
	}
	if m.InputMode != InputAdd || m.Input.Value() != "" {
		t.Error("add input should stay focused and empty for the next task")
	}

	m = press(t, m, escKey)
	if m.InputMode != InputNone {
		t.Error("esc did not leave the input")
	}
}

func TestAltShortcutsSwitchInputs(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, altRunes("w"), runes("ab"), altRunes("b"))
	if m.InputList != models.ListBreak || m.ActiveList != models.ListBreak {
		t.Errorf("alt+b from the work input: list=%s active=%s", m.InputList, m.ActiveList)
	}
	if m.Input.Value() != "" {
		t.Errorf("switching inputs kept %q", m.Input.Value())
	}
}

func TestAltBWhileWorkRunsIsRejected(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, spaceKey, altRunes("b"))
	if m.InputMode != InputNone {
		t.Error("focused the hidden break input")
	}
	if m.StatusMessage == "" {
		t.Error("expected a status message")
	}
}

func TestRunningShowsOnlyPhaseList(t *testing.T) {
	m, _ := newTestModel()
	m.ActiveList = models.ListBreak
	m = press(t, m, spaceKey)

	layouts := m.layoutLists()
	if len(layouts) != 1 || layouts[0].Kind != models.ListWork {
		t.Fatalf("layouts = %+v, want only work", layouts)
	}
	if m.ActiveList != models.ListWork {
		t.Errorf("active list = %s, want work", m.ActiveList)
	}

	m = press(t, m, tabKey)
	if m.ActiveList != models.ListWork {
		t.Error("tab moved focus to a hidden list")
	}
}

func TestEditTask(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, runes("j"), runes("e"))
	if m.InputMode != InputEdit || m.EditingID != "work-2" {
		t.Fatalf("edit: mode=%v id=%s", m.InputMode, m.EditingID)
	}
	if m.Input.Value() != "Review PR" {
		t.Errorf("input = %q", m.Input.Value())
	}
	m = press(t, m, runes("!"), enterKey)
	task, _ := m.Board.Task("work-2")
	if task.Text != "Review PR!" {
		t.Errorf("text = %q", task.Text)
	}
	if m.InputMode != InputNone {
		t.Error("edit input stayed open")
	}
}

func TestToggleAndDelete(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, runes("x"))
	if got := ids(m.Board.List(models.ListWork)); got != "work-2,work-1,work-3" {
		t.Errorf("after toggle = %s", got)
	}
	m = press(t, m, runes("d"))
	if got := ids(m.Board.List(models.ListWork)); got != "work-1,work-3" {
		t.Errorf("after delete = %s", got)
	}
}

func TestKeyboardDragTransfer(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, runes("m"))
	if m.GrabbedID != "work-1" || m.currentContext() != keymap.ContextGrab {
		t.Fatalf("grab: id=%s ctx=%s", m.GrabbedID, m.currentContext())
	}

	// onto break-2
	m = press(t, m, tabKey, runes("j"), enterKey)
	if got := ids(m.Board.List(models.ListBreak)); got != "break-1,work-1,break-2" {
		t.Errorf("break = %s", got)
	}
	if got := ids(m.Board.List(models.ListWork)); got != "work-2,work-3" {
		t.Errorf("work = %s", got)
	}
	if m.GrabbedID != "" || m.ActiveList != models.ListBreak || m.cursor(models.ListBreak) != 1 {
		t.Errorf("focus after drop: grabbed=%s active=%s cursor=%d", m.GrabbedID, m.ActiveList, m.cursor(models.ListBreak))
	}
}

func TestKeyboardDragToSentinelAppends(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, runes("m"), tabKey, runes("j"), runes("j"), runes("j"))
	if m.GrabIndex != 2 {
		t.Fatalf("grab index = %d, want the sentinel (2)", m.GrabIndex)
	}
	m = press(t, m, enterKey)
	if got := ids(m.Board.List(models.ListBreak)); got != "break-1,break-2,work-1" {
		t.Errorf("break = %s", got)
	}
}

func TestGrabCancelAndCompletedGuard(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, runes("m"), runes("j"), escKey)
	if m.GrabbedID != "" {
		t.Error("esc did not cancel the grab")
	}
	if got := ids(m.Board.List(models.ListWork)); got != "work-1,work-2,work-3" {
		t.Errorf("cancelled grab changed the list: %s", got)
	}

	m = press(t, m, runes("G"), runes("m"))
	if m.GrabbedID != "" {
		t.Error("picked up a completed task")
	}
}

func rowFor(t *testing.T, m Model, id string) Rect {
	t.Helper()
	for _, l := range m.layoutLists() {
		for _, r := range l.Rows {
			if r.ID == id {
				return r.Rect
			}
		}
	}
	t.Fatalf("no row for %s", id)
	return Rect{}
}

func mouse(m Model, action tea.MouseAction, r Rect) Model {
	out, _ := m.handleMouse(tea.MouseMsg{
		X:      r.X + 2,
		Y:      r.Y,
		Action: action,
		Button: tea.MouseButtonLeft,
	})
	return out.(Model)
}

func TestMouseDragReorderAndTransfer(t *testing.T) {
	m, _ := newTestModel()

	m = mouse(m, tea.MouseActionPress, rowFor(t, m, "work-2"))
	if m.DragID != "work-2" {
		t.Fatalf("drag id = %q", m.DragID)
	}
	m = mouse(m, tea.MouseActionMotion, rowFor(t, m, "work-1"))
	if m.DragOver != "work-1" {
		t.Errorf("drag over = %q", m.DragOver)
	}
	m = mouse(m, tea.MouseActionRelease, rowFor(t, m, "work-1"))
	if got := ids(m.Board.List(models.ListWork)); got != "work-2,work-1,work-3" {
		t.Errorf("work after reorder = %s", got)
	}

	m = mouse(m, tea.MouseActionPress, rowFor(t, m, "work-2"))
	m = mouse(m, tea.MouseActionRelease, rowFor(t, m, board.SentinelID(models.ListBreak)))
	if got := ids(m.Board.List(models.ListBreak)); got != "break-1,break-2,work-2" {
		t.Errorf("break after transfer = %s", got)
	}
	if m.DragID != "" {
		t.Error("drag not cleared")
	}
}

func TestMouseReleaseOutsideCancels(t *testing.T) {
	m, _ := newTestModel()
	m = mouse(m, tea.MouseActionPress, rowFor(t, m, "work-1"))
	m = mouse(m, tea.MouseActionRelease, Rect{X: 0, Y: 0})
	if got := ids(m.Board.List(models.ListWork)); got != "work-1,work-2,work-3" {
		t.Errorf("work = %s", got)
	}
	if m.DragID != "" {
		t.Error("drag not cleared")
	}
}

func TestMousePressOnCompletedTaskOnlySelects(t *testing.T) {
	m, _ := newTestModel()
	m = mouse(m, tea.MouseActionPress, rowFor(t, m, "work-3"))
	if m.DragID != "" {
		t.Error("completed task picked up")
	}
	if m.cursor(models.ListWork) != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor(models.ListWork))
	}
}

func TestSettingsHiddenWhileRunning(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, spaceKey, runes(","))
	if m.SettingsOpen {
		t.Error("settings opened while running")
	}
}

func TestSettingsSubmitClampsAndApplies(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, runes(","))
	if !m.SettingsOpen || m.currentContext() != keymap.ContextSettings {
		t.Fatal("settings did not open")
	}
	m.SettingsState.WorkMinutes = "90"
	m.SettingsState.BreakMinutes = "abc"

	out, _ := m.executeCommand(keymap.CmdSubmit)
	m = out.(Model)
	if m.SettingsOpen {
		t.Error("form stayed open")
	}
	if m.Settings.WorkMinutes != 60 || m.Settings.BreakMinutes != 5 {
		t.Errorf("settings = %+v", m.Settings)
	}
	if m.Timer.Remaining() != 3600 {
		t.Errorf("untouched work countdown = %d, want 3600", m.Timer.Remaining())
	}
}

func TestThemeToggleRestylesAndCloseDetaches(t *testing.T) {
	m, _ := newTestModel()
	if m.Theme.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", m.Theme.Subscribers())
	}
	m = press(t, m, runes("T"))
	if m.styles.Theme != models.ThemeLight || m.Theme.Current() != models.ThemeLight {
		t.Errorf("theme = %s / %s", m.styles.Theme, m.Theme.Current())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.Theme.Subscribers() != 0 {
		t.Error("subscription not detached")
	}
}

func TestTemplatesLoadAndMerge(t *testing.T) {
	m, _ := newTestModel()
	m.ActiveList = models.ListBreak
	m = press(t, m, runes("t"))
	if !m.TemplatesOpen || m.TemplateKind != models.ListBreak {
		t.Fatalf("templates: open=%v kind=%s", m.TemplatesOpen, m.TemplateKind)
	}
	m.Templates = []models.Template{
		{ID: "tpl-1", Name: "Walk", Type: models.ListBreak, Tasks: []models.Task{{ID: "x", Text: "Walk outside"}}},
		{ID: "tpl-2", Name: "Deep work", Type: models.ListWork, Tasks: []models.Task{{ID: "y", Text: "Write"}}},
		{ID: "tpl-3", Name: "Tea", Type: models.ListBreak, Tasks: []models.Task{{ID: "z", Text: "Brew tea"}}},
	}

	m = press(t, m, runes("/"), runes("tea"), enterKey)
	if got := m.visibleTemplates(); len(got) != 1 || got[0].ID != "tpl-3" {
		t.Fatalf("filtered = %+v", got)
	}
	m = press(t, m, runes("M"))
	brk := m.Board.List(models.ListBreak)
	if len(brk) != 3 || brk[2].Text != "Brew tea" || brk[2].ID == "z" {
		t.Errorf("merge = %+v", brk)
	}
	if m.TemplatesOpen {
		t.Error("sidebar stayed open")
	}

	m = press(t, m, runes("t"), enterKey)
	brk = m.Board.List(models.ListBreak)
	if len(brk) != 1 || brk[0].Text != "Walk outside" {
		t.Errorf("replace = %+v", brk)
	}
}

func TestFilterTemplatesRanksByName(t *testing.T) {
	tpls := []models.Template{
		{ID: "a", Name: "Morning"},
		{ID: "b", Name: "Evening"},
		{ID: "c", Name: "Stretch", Tasks: []models.Task{{Text: "morning yoga"}}},
	}
	got := filterTemplates("morn", tpls)
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("got %+v", got)
	}
	if len(filterTemplates("  ", tpls)) != 3 {
		t.Error("blank query should keep everything")
	}
}

func TestHelpOverlayScroll(t *testing.T) {
	m, _ := newTestModel()
	out, cmd := m.handleKey(runes("?"))
	m = out.(Model)
	if !m.HelpOpen || cmd == nil {
		t.Fatal("help did not open")
	}
	m.HelpContent = strings.Repeat("line\n", 100)
	m = press(t, m, runes("j"), runes("j"))
	if m.HelpScroll != 2 {
		t.Errorf("scroll = %d", m.HelpScroll)
	}
	m = press(t, m, escKey)
	if m.HelpOpen {
		t.Error("esc did not close help")
	}
}

func TestViewShowsTimerAndLists(t *testing.T) {
	m, _ := newTestModel()
	view := m.View()
	for _, want := range []string{"25:00", "Current Tasks", "Break Activities", "Write report", "Stretch"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(t, m, spaceKey)
	if strings.Contains(m.View(), "Break Activities") {
		t.Error("break list rendered while work runs")
	}
}

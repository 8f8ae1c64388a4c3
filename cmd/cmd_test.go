package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marcus/pomo/internal/config"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/store"
	"github.com/marcus/pomo/internal/theme"
	"github.com/marcus/pomo/internal/timer"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

// execute runs the root command against dir. Flag values persist between
// runs, so tests pass every flag they depend on.
func execute(t *testing.T, dir string, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	return rootCmd.Execute()
}

func openTestStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	st, err := store.Open(dir)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedTasks(t *testing.T, dir string, work, brk []models.Task) {
	t.Helper()
	st, err := store.Open(dir)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	if err := st.SaveTasks(models.ListWork, work); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
	if err := st.SaveTasks(models.ListBreak, brk); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
}

func taskIDs(tasks []models.Task) string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return strings.Join(ids, ",")
}

func TestMinutesValueClamps(t *testing.T) {
	tests := []struct {
		in      string
		clamp   func(int) int
		want    int
		wantErr bool
	}{
		{"25", models.ClampWorkMinutes, 25, false},
		{"90", models.ClampWorkMinutes, 60, false},
		{"0", models.ClampWorkMinutes, 1, false},
		{"45m", models.ClampBreakMinutes, 30, false},
		{" 7 ", models.ClampBreakMinutes, 7, false},
		{"soon", models.ClampWorkMinutes, 0, true},
	}
	for _, tt := range tests {
		var n int
		v := newMinutesValue(&n, tt.clamp)
		err := v.Set(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && n != tt.want {
			t.Errorf("Set(%q) = %d, want %d", tt.in, n, tt.want)
		}
	}
	if got := newMinutesValue(new(int), models.ClampWorkMinutes).Type(); got != "minutes" {
		t.Errorf("Type() = %q", got)
	}
}

func TestPositionIndex(t *testing.T) {
	tests := []struct{ pos, want int }{
		{0, -1},
		{-3, -1},
		{1, 0},
		{4, 3},
	}
	for _, tt := range tests {
		if got := positionIndex(tt.pos); got != tt.want {
			t.Errorf("positionIndex(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestSessionRecordFromTransition(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tr := timer.Transition{
		From:      models.PhaseWork,
		To:        models.PhaseBreak,
		StartedAt: start,
		EndedAt:   start.Add(25 * time.Minute),
	}
	rec := sessionRecord(tr)
	if rec.ID == "" {
		t.Error("expected a session ID")
	}
	if rec.Phase != models.PhaseWork || rec.Skipped {
		t.Errorf("record = %+v", rec)
	}
	if rec.Duration() != 25*time.Minute {
		t.Errorf("Duration() = %v", rec.Duration())
	}
}

func TestResolveTask(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir,
		[]models.Task{{ID: "work-abc123", Text: "a"}, {ID: "work-abd456", Text: "b"}},
		[]models.Task{{ID: "break-xyz789", Text: "c"}},
	)
	st := openTestStore(t, dir)
	s, err := openBoardSession(st)
	if err != nil {
		t.Fatalf("openBoardSession: %v", err)
	}

	tests := []struct {
		ref      string
		wantID   string
		wantKind models.ListKind
		wantErr  error
	}{
		{"work-abc123", "work-abc123", models.ListWork, nil},
		{"work-abc", "work-abc123", models.ListWork, nil},
		{"break-x", "break-xyz789", models.ListBreak, nil},
		{"work-ab", "", "", errTaskAmbiguous},
		{"nope", "", "", errTaskNotFound},
		{"  ", "", "", errTaskNotFound},
	}
	for _, tt := range tests {
		kind, task, err := s.resolve(tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolve(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolve(%q): %v", tt.ref, err)
			continue
		}
		if task.ID != tt.wantID || kind != tt.wantKind {
			t.Errorf("resolve(%q) = %s in %s, want %s in %s", tt.ref, task.ID, kind, tt.wantID, tt.wantKind)
		}
	}
}

func TestTaskCommandsPersist(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir,
		[]models.Task{{ID: "work-a", Text: "Draft"}, {ID: "work-b", Text: "Review"}},
		[]models.Task{{ID: "break-a", Text: "Stretch"}},
	)

	if err := execute(t, dir, "task", "add", "work", "Write", "tests"); err != nil {
		t.Fatalf("task add: %v", err)
	}
	if err := execute(t, dir, "task", "move", "work-a", "--pos", "1"); err != nil {
		t.Fatalf("task move: %v", err)
	}
	if err := execute(t, dir, "task", "reorder", "break-a", "1"); err != nil {
		t.Fatalf("task reorder: %v", err)
	}
	if err := execute(t, dir, "task", "toggle", "work-b"); err != nil {
		t.Fatalf("task toggle: %v", err)
	}

	st := openTestStore(t, dir)
	work := st.LoadTasks(models.ListWork)
	brk := st.LoadTasks(models.ListBreak)

	// the transferred task keeps its ID
	if got := taskIDs(brk); got != "break-a,work-a" {
		t.Errorf("break list = %s, want break-a,work-a", got)
	}
	// completed tasks rest below open ones
	if len(work) != 2 || work[1].ID != "work-b" || !work[1].Completed {
		t.Fatalf("work list = %+v", work)
	}
	if work[0].Text != "Write tests" || !models.HasListPrefix(work[0].ID) {
		t.Errorf("added task = %+v", work[0])
	}
}

func TestTaskMoveRejectsCompletedTask(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir,
		[]models.Task{{ID: "work-done", Text: "Shipped", Completed: true}},
		[]models.Task{},
	)

	if err := execute(t, dir, "task", "move", "work-done", "--pos", "0"); !errors.Is(err, errTaskLocked) {
		t.Fatalf("move completed task error = %v, want errTaskLocked", err)
	}
	st := openTestStore(t, dir)
	if got := taskIDs(st.LoadTasks(models.ListWork)); got != "work-done" {
		t.Errorf("work list = %s, want unchanged", got)
	}
}

func TestTaskDeleteAndEdit(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir,
		[]models.Task{{ID: "work-a", Text: "Draft"}, {ID: "work-b", Text: "Review"}},
		[]models.Task{},
	)

	if err := execute(t, dir, "task", "edit", "work-b", "Review", "PR"); err != nil {
		t.Fatalf("task edit: %v", err)
	}
	if err := execute(t, dir, "task", "rm", "work-a"); err != nil {
		t.Fatalf("task rm: %v", err)
	}

	st := openTestStore(t, dir)
	work := st.LoadTasks(models.ListWork)
	if len(work) != 1 || work[0].ID != "work-b" || work[0].Text != "Review PR" {
		t.Errorf("work list = %+v", work)
	}
}

func TestTemplateCommands(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir,
		[]models.Task{{ID: "work-a", Text: "Inbox zero"}},
		[]models.Task{{ID: "break-a", Text: "Walk"}, {ID: "break-b", Text: "Tea"}},
	)

	if err := execute(t, dir, "template", "save", "Afternoon", "--list", "break"); err != nil {
		t.Fatalf("template save: %v", err)
	}
	exported := filepath.Join(t.TempDir(), "templates.yaml")
	if err := execute(t, dir, "template", "export", exported); err != nil {
		t.Fatalf("template export: %v", err)
	}

	// load replaces the break list with fresh IDs
	if err := execute(t, dir, "task", "rm", "break-a"); err != nil {
		t.Fatalf("task rm: %v", err)
	}
	if err := execute(t, dir, "template", "load", "afternoon"); err != nil {
		t.Fatalf("template load: %v", err)
	}
	st := openTestStore(t, dir)
	brk := st.LoadTasks(models.ListBreak)
	if len(brk) != 2 || brk[0].Text != "Walk" || brk[0].ID == "break-a" {
		t.Errorf("break list after load = %+v", brk)
	}

	if err := execute(t, dir, "template", "load", "missing"); err == nil {
		t.Error("expected error loading unknown template")
	}

	other := t.TempDir()
	if err := execute(t, other, "template", "import", exported); err != nil {
		t.Fatalf("template import: %v", err)
	}
	st2 := openTestStore(t, other)
	tpls := st2.LoadTemplates()
	if len(tpls) != 1 || tpls[0].Name != "Afternoon" || tpls[0].Type != models.ListBreak {
		t.Errorf("imported templates = %+v", tpls)
	}
}

func TestTemplateSaveRejectsEmptyList(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir, []models.Task{}, []models.Task{})

	err := execute(t, dir, "template", "save", "Nothing", "--list", "work")
	if !errors.Is(err, store.ErrEmptyTemplate) {
		t.Errorf("save empty list error = %v, want ErrEmptyTemplate", err)
	}
}

func TestConfigSet(t *testing.T) {
	dir := t.TempDir()

	if err := execute(t, dir, "config", "set", "work_minutes", "90"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if err := execute(t, dir, "config", "set", "theme", "light"); err != nil {
		t.Fatalf("config set theme: %v", err)
	}
	if err := execute(t, dir, "config", "set", "volume", "11"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := execute(t, dir, "config", "set", "theme", "solarized"); err == nil {
		t.Error("expected error for unknown theme")
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if cfg.WorkMinutes != models.MaxWorkMinutes {
		t.Errorf("WorkMinutes = %d, want clamped to %d", cfg.WorkMinutes, models.MaxWorkMinutes)
	}

	st := openTestStore(t, dir)
	if got, ok := theme.Load(st); !ok || got != models.ThemeLight {
		t.Errorf("stored theme = %q (%v), want light", got, ok)
	}
}

func TestConfigKeymapInit(t *testing.T) {
	dir := t.TempDir()

	if err := execute(t, dir, "config", "keymap", "--init"); err != nil {
		t.Fatalf("config keymap --init: %v", err)
	}
	path := keymap.ConfigPath(dir)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("keymap.json missing: %v", err)
	}
	if err := execute(t, dir, "config", "keymap", "--init"); err == nil {
		t.Error("expected error when keymap.json already exists")
	}
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	st := openTestStore(t, dir)
	now := time.Now()
	if err := st.RecordSession(models.SessionRecord{
		Phase:     models.PhaseWork,
		StartedAt: now.Add(-25 * time.Minute),
		EndedAt:   now,
	}); err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	if err := execute(t, dir, "stats", "--since", "today", "--limit", "-1"); err != nil {
		t.Errorf("stats: %v", err)
	}
	if err := execute(t, dir, "stats", "--since", "someday", "--limit", "0"); err == nil {
		t.Error("expected error for unparseable --since")
	}
}

func TestNotFoundErrorsSuggest(t *testing.T) {
	err := templateNotFound("mornin", []models.Template{{Name: "Morning"}, {Name: "Deep work"}})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("templateNotFound should wrap ErrNotFound: %v", err)
	}
	if !strings.Contains(err.Error(), "Did you mean Morning?") {
		t.Errorf("templateNotFound = %q, want a suggestion", err)
	}

	err = unknownSettingError("work_minute")
	if !strings.Contains(err.Error(), "Did you mean") || !strings.Contains(err.Error(), "work_minutes") {
		t.Errorf("unknownSettingError = %q, want a suggestion", err)
	}
	if !isSettingKey("break-minutes") || isSettingKey("volume") {
		t.Error("isSettingKey mismatch")
	}
}

func TestTaskAddFromFile(t *testing.T) {
	dir := t.TempDir()
	seedTasks(t, dir, []models.Task{}, []models.Task{})

	path := filepath.Join(t.TempDir(), "stretches.txt")
	if err := os.WriteFile(path, []byte("Neck rolls\n\nCalf raises\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := execute(t, dir, "task", "add", "break", "@"+path); err != nil {
		t.Fatalf("task add @file: %v", err)
	}

	st := openTestStore(t, dir)
	brk := st.LoadTasks(models.ListBreak)
	if len(brk) != 2 || brk[0].Text != "Neck rolls" || brk[1].Text != "Calf raises" {
		t.Errorf("break list = %+v", brk)
	}
}

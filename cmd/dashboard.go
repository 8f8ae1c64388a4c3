package cmd

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/pomo/internal/logging"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/internal/sound"
	"github.com/marcus/pomo/internal/store"
	"github.com/marcus/pomo/internal/theme"
	"github.com/marcus/pomo/internal/timer"
	"github.com/marcus/pomo/pkg/dashboard"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive timer and task dashboard",
	Long: `Launch the full-screen dashboard: the session timer above the work and
break task lists.

Key bindings:
  Space      Start or pause the timer
  r / s      Reset or skip the current phase
  Tab        Switch list
  a          Add a task to the focused list
  alt+w/b    Add a work or break task from anywhere
  Enter / x  Toggle the selected task
  e / d      Edit or delete the selected task
  m          Grab a task, then arrows to move it and Enter to drop
  t          Templates sidebar
  ,          Settings (timer paused)
  T          Toggle light/dark theme
  ?          Help
  q          Quit

Tasks can also be dragged with the mouse, within a list or across lists.
Completed tasks cannot be dragged. Adding, toggling or editing a task moves
completed tasks back below open ones, which undoes a manual order.
Key bindings can be overridden in .pomo/keymap.json (see "pomo config keymap").`,
	GroupID: "timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// logPath is where the dashboard logs; stderr belongs to the terminal UI
func logPath(baseDir string) string {
	return filepath.Join(store.DataDir(baseDir), "pomo.log")
}

func runDashboard() error {
	dir := getBaseDir()

	st, err := store.Open(dir)
	if err != nil {
		output.Error("%v", err)
		return err
	}

	logger, logCloser, err := logging.SetupFile(logPath(dir), logLevel, logFormat)
	if err != nil {
		st.Close()
		output.Error("%v", err)
		return err
	}
	defer logCloser.Close()
	st.SetLogger(logger)

	settings := loadSettings()

	bd, err := st.LoadBoard()
	if err != nil {
		st.Close()
		output.Error("%v", err)
		return err
	}

	notifier := sound.NewNotifier(sound.NewTerminalPlayer(), logger)
	notifier.SetSounds(settings.WorkSound, settings.BreakSound)

	tm := timer.New(timer.Options{
		WorkMinutes:  settings.WorkMinutes,
		BreakMinutes: settings.BreakMinutes,
		Notifier:     notifier,
		Logger:       logger,
	})

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	if kcfg, err := keymap.LoadConfig(keymap.ConfigPath(dir)); err != nil {
		logger.Warn("keymap config unreadable, using defaults", "err", err)
	} else {
		for _, skipped := range keymap.ApplyConfig(km, kcfg) {
			logger.Warn("ignoring keymap entry", "entry", skipped)
		}
	}

	model := dashboard.NewModel(dashboard.Options{
		Store:    st,
		Board:    bd,
		Timer:    tm,
		Notifier: notifier,
		Theme:    theme.NewProvider(st, theme.Detect()),
		Keymap:   km,
		Settings: settings,
		Logger:   logger,
		BaseDir:  dir,
		Version:  versionStr,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if m, ok := final.(dashboard.Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/pomo/internal/logging"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/internal/sound"
	"github.com/marcus/pomo/internal/timer"
)

// minutesValue is a pflag.Value holding a duration in whole minutes,
// clamped to the phase's allowed range on Set
type minutesValue struct {
	n     *int
	clamp func(int) int
}

var _ pflag.Value = (*minutesValue)(nil)

func newMinutesValue(p *int, clamp func(int) int) *minutesValue {
	return &minutesValue{n: p, clamp: clamp}
}

func (v *minutesValue) String() string {
	if v.n == nil {
		return "0"
	}
	return strconv.Itoa(*v.n)
}

func (v *minutesValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "m"))
	if err != nil {
		return fmt.Errorf("not a number of minutes: %q", s)
	}
	*v.n = v.clamp(n)
	return nil
}

func (v *minutesValue) Type() string {
	return "minutes"
}

var (
	runWorkMinutes  int
	runBreakMinutes int
)

var timerCmd = &cobra.Command{
	Use:     "timer",
	Short:   "Run the session timer without the dashboard",
	GroupID: "timer",
}

var timerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Count down one or more phases in the terminal",
	Long: `Run the work/break countdown in the terminal. Each phase that runs to
completion is recorded in the session history and rings its completion cue.
Ctrl+C stops the timer; an interrupted phase is not recorded.`,
	Example: `  pomo timer run
  pomo timer run --phase break
  pomo timer run --cycles 4 --work 50 --break 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phaseStr, _ := cmd.Flags().GetString("phase")
		cycles, _ := cmd.Flags().GetInt("cycles")

		phase, err := models.ParsePhase(phaseStr)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if cycles < 0 {
			err := errors.New("--cycles must be zero (until interrupted) or positive")
			output.Error("%v", err)
			return err
		}

		st, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer st.Close()

		settings := loadSettings()
		if !cmd.Flags().Changed("work") {
			runWorkMinutes = settings.WorkMinutes
		}
		if !cmd.Flags().Changed("break") {
			runBreakMinutes = settings.BreakMinutes
		}

		logger := logging.Setup(logLevel, logFormat)
		notifier := sound.NewNotifier(sound.NewTerminalPlayer(), logger)
		notifier.SetSounds(settings.WorkSound, settings.BreakSound)
		defer notifier.Wait()

		tm := timer.New(timer.Options{
			WorkMinutes:  runWorkMinutes,
			BreakMinutes: runBreakMinutes,
			StartPhase:   phase,
			Notifier:     notifier,
			Logger:       logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for i := 0; cycles == 0 || i < cycles; i++ {
			current := tm.Phase()
			fmt.Println(output.SectionHeader(fmt.Sprintf("%s (%s)", current.Label(), output.FormatClock(tm.Remaining()))))
			kind := models.ListForPhase(current)
			fmt.Println(output.FormatTaskList(kind, st.LoadTasks(kind)))

			tr, err := timer.RunWithTicker(ctx, tm, func(s timer.State) {
				fmt.Printf("\r%s  %s ", output.FormatPhase(s.Phase), output.FormatClock(s.RemainingSeconds))
			})
			fmt.Println()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					output.Info("Timer stopped")
					return nil
				}
				return err
			}

			if err := st.RecordSession(sessionRecord(tr)); err != nil {
				output.Warning("could not record session: %v", err)
			}
			output.Success("%s complete. Sessions: %d", tr.From.Label(), tm.Sessions())
		}
		return nil
	},
}

// sessionRecord converts a phase transition to a history record
func sessionRecord(tr timer.Transition) models.SessionRecord {
	return models.SessionRecord{
		ID:        models.NewSessionID(),
		Phase:     tr.From,
		StartedAt: tr.StartedAt,
		EndedAt:   tr.EndedAt,
		Skipped:   tr.Skipped,
	}
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.AddCommand(timerRunCmd)

	timerRunCmd.Flags().String("phase", "work", "Phase to start in: work or break")
	timerRunCmd.Flags().Int("cycles", 1, "Number of phases to run, 0 to run until interrupted")
	timerRunCmd.Flags().Var(newMinutesValue(&runWorkMinutes, models.ClampWorkMinutes), "work", "Work duration in minutes (1-60, default from config)")
	timerRunCmd.Flags().Var(newMinutesValue(&runBreakMinutes, models.ClampBreakMinutes), "break", "Break duration in minutes (1-30, default from config)")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/pomo/internal/dateparse"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/internal/store"
)

// statsReport is the JSON form of "pomo stats"
type statsReport struct {
	Since          string                 `json:"since,omitempty"`
	WorkCompleted  int                    `json:"work_completed"`
	WorkSkipped    int                    `json:"work_skipped"`
	BreakCompleted int                    `json:"break_completed"`
	BreakSkipped   int                    `json:"break_skipped"`
	FocusMinutes   int                    `json:"focus_minutes"`
	Sessions       []models.SessionRecord `json:"sessions"`
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"history"},
	Short:   "Summarize completed and skipped sessions",
	Example: `  pomo stats
  pomo stats --since week
  pomo stats --since 2026-03-01 --json`,
	GroupID: "timer",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sinceStr, _ := cmd.Flags().GetString("since")
		limit, _ := cmd.Flags().GetInt("limit")

		since, err := dateparse.ParseSince(sinceStr)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		st, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer st.Close()

		recs, err := st.ListSessions(since)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		sum := store.Summarize(recs)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			rep := statsReport{
				WorkCompleted:  sum.WorkCompleted,
				WorkSkipped:    sum.WorkSkipped,
				BreakCompleted: sum.BreakCompleted,
				BreakSkipped:   sum.BreakSkipped,
				FocusMinutes:   int(sum.FocusTime.Minutes()),
				Sessions:       recs,
			}
			if !since.IsZero() {
				rep.Since = since.Format("2006-01-02")
			}
			if rep.Sessions == nil {
				rep.Sessions = []models.SessionRecord{}
			}
			return output.JSON(rep)
		}

		title := "Sessions"
		if !since.IsZero() {
			title = "Sessions since " + since.Format("2006-01-02")
		}
		fmt.Print(output.SectionHeader(title))
		fmt.Printf("  Work:   %d completed, %d skipped\n", sum.WorkCompleted, sum.WorkSkipped)
		fmt.Printf("  Breaks: %d completed, %d skipped\n", sum.BreakCompleted, sum.BreakSkipped)
		fmt.Printf("  Focus:  %s\n", output.FormatDuration(sum.FocusTime))

		if len(recs) == 0 || limit == 0 {
			return nil
		}
		fmt.Print(output.SectionHeader("Recent"))
		start := 0
		if limit > 0 && len(recs) > limit {
			start = len(recs) - limit
		}
		for i := len(recs) - 1; i >= start; i-- {
			r := recs[i]
			state := "completed"
			if r.Skipped {
				state = "skipped"
			}
			fmt.Printf("  %s  %-9s  %-6s  %s\n",
				output.FormatPhase(r.Phase), state, output.FormatDuration(r.Duration()), output.FormatTimeAgo(r.EndedAt))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("since", "", "Only count sessions since: YYYY-MM-DD, 7d, 2w, 1m, today, week, month")
	statsCmd.Flags().Int("limit", 10, "Recent sessions to list (0 for none, -1 for all)")
	statsCmd.Flags().Bool("json", false, "Output as JSON")
}

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/marcus/pomo/internal/store"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version and data location",
	GroupID: "system",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Print(versionStr)
			return
		}

		fmt.Printf("pomo version %s (%s/%s)\n", versionStr, runtime.GOOS, runtime.GOARCH)
		fmt.Printf("data: %s\n", store.Path(getBaseDir()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version")
}

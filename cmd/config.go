package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/pomo/internal/config"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/internal/sound"
	"github.com/marcus/pomo/internal/suggest"
	"github.com/marcus/pomo/internal/theme"
	"github.com/marcus/pomo/pkg/dashboard/keymap"
)

// keyTheme is handled by the store rather than config.json
const keyTheme = "theme"

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show or change settings",
	GroupID: "system",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettings()

		if len(args) == 1 {
			if args[0] == keyTheme {
				t, err := currentTheme()
				if err != nil {
					output.Error("%v", err)
					return err
				}
				fmt.Println(t)
				return nil
			}
			val, err := config.Get(cfg, args[0])
			if err != nil {
				err = unknownSettingError(args[0])
				output.Error("%v", err)
				return err
			}
			fmt.Println(val)
			return nil
		}

		for _, key := range config.Keys() {
			val, _ := config.Get(cfg, key)
			fmt.Printf("%-14s %s\n", key, val)
		}
		if t, err := currentTheme(); err == nil {
			fmt.Printf("%-14s %s\n", keyTheme, t)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Keys:
  work_minutes   Work duration, 1-60 (out of range values are clamped)
  break_minutes  Break duration, 1-30
  work_sound     Cue at the end of work: ` + strings.Join(sound.IDs(models.PhaseWork), ", ") + `
  break_sound    Cue at the end of a break: ` + strings.Join(sound.IDs(models.PhaseBreak), ", ") + `
  theme          dark or light`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]

		if key == keyTheme {
			t, err := theme.Parse(val)
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
			if err := theme.Save(st, t); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("theme = %s", t)
			return nil
		}

		if !isSettingKey(key) {
			err := unknownSettingError(key)
			output.Error("%v", err)
			return err
		}
		cfg, err := config.Set(getBaseDir(), key, val)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		got, _ := config.Get(cfg, key)
		output.Success("%s = %s", key, got)
		return nil
	},
}

var configKeymapCmd = &cobra.Command{
	Use:   "keymap",
	Short: "Show dashboard key binding overrides",
	Long: `Print the dashboard key binding overrides from .pomo/keymap.json.
With --init, write an example file when none exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := keymap.ConfigPath(getBaseDir())

		if initFile, _ := cmd.Flags().GetBool("init"); initFile {
			if _, err := os.Stat(path); err == nil {
				err := fmt.Errorf("%s already exists", path)
				output.Error("%v", err)
				return err
			}
			if err := keymap.SaveConfig(path, keymap.ExampleConfig()); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Wrote %s", path)
			return nil
		}

		kcfg, err := keymap.LoadConfig(path)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		r := keymap.NewRegistry()
		keymap.RegisterDefaults(r)
		for _, skipped := range keymap.ApplyConfig(r, kcfg) {
			output.Warning("ignoring %s", skipped)
		}
		return output.JSON(kcfg)
	},
}

func isSettingKey(key string) bool {
	_, err := config.Get(config.Default(), key)
	return err == nil
}

func unknownSettingError(key string) error {
	keys := append(config.Keys(), keyTheme)
	msg := fmt.Sprintf("unknown setting %q (one of %s)", key, strings.Join(keys, ", "))
	if hint := suggest.Hint(suggest.Closest(key, keys)); hint != "" {
		msg += ". " + hint
	}
	return errors.New(msg)
}

// currentTheme reads the stored theme, or the detected one when unset
func currentTheme() (models.Theme, error) {
	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()
	if t, ok := theme.Load(st); ok {
		return t, nil
	}
	return theme.Detect(), nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd, configKeymapCmd)

	configKeymapCmd.Flags().Bool("init", false, "Write an example keymap.json")
}

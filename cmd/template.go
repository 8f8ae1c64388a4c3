package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/internal/store"
	"github.com/marcus/pomo/internal/suggest"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl", "templates"},
	Short:   "Save, load and share task list templates",
	GroupID: "templates",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current list as a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listStr, _ := cmd.Flags().GetString("list")
		kind, err := models.ParseListKind(listStr)
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

		tpl, err := st.CreateTemplate(args[0], kind, st.LoadTasks(kind))
		if err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Printf("SAVED %s %q (%d tasks)\n", tpl.ID, tpl.Name, len(tpl.Tasks))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list [work|break]",
	Aliases: []string{"ls"},
	Short:   "List saved templates",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer st.Close()

		tpls := st.LoadTemplates()
		if len(args) == 1 {
			kind, err := models.ParseListKind(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			tpls = store.TemplatesOf(tpls, kind)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if tpls == nil {
				tpls = []models.Template{}
			}
			return output.JSON(tpls)
		}
		if len(tpls) == 0 {
			fmt.Println("No templates")
			return nil
		}
		for _, tpl := range tpls {
			fmt.Println(output.FormatTemplate(tpl))
		}
		return nil
	},
}

// applyTemplate loads ref into its list, replacing or merging
func applyTemplate(ref string, merge bool) error {
	return withBoard(func(s *boardSession) error {
		tpl, err := s.store.GetTemplate(ref)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return templateNotFound(ref, s.store.LoadTemplates())
			}
			return err
		}
		verb := "LOADED"
		if merge {
			s.board.MergeList(tpl.Type, tpl.Tasks)
			verb = "MERGED"
		} else {
			s.board.ReplaceList(tpl.Type, tpl.Tasks)
		}
		fmt.Printf("%s %q into %s\n", verb, tpl.Name, tpl.Type.Title())
		return nil
	})
}

func templateNotFound(ref string, tpls []models.Template) error {
	names := make([]string, len(tpls))
	for i, t := range tpls {
		names[i] = t.Name
	}
	msg := fmt.Sprintf("template %q not found", ref)
	if hint := suggest.Hint(suggest.Closest(ref, names)); hint != "" {
		msg += ". " + hint
	}
	return fmt.Errorf("%s: %w", msg, store.ErrNotFound)
}

var templateLoadCmd = &cobra.Command{
	Use:   "load <template>",
	Short: "Replace a list with a template's tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyTemplate(args[0], false)
	},
}

var templateMergeCmd = &cobra.Command{
	Use:   "merge <template>",
	Short: "Append a template's tasks to its list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return applyTemplate(args[0], true)
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <template...>",
	Aliases: []string{"rm"},
	Short:   "Delete templates by ID or name",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer st.Close()

		for _, ref := range args {
			if err := st.DeleteTemplate(ref); err != nil {
				output.Error("failed to delete %s: %v", ref, err)
				continue
			}
			fmt.Printf("DELETED %s\n", ref)
		}
		return nil
	},
}

var templateExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write templates as YAML to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer st.Close()

		tpls := st.LoadTemplates()
		if len(args) == 0 || args[0] == "-" {
			return store.ExportTemplates(cmd.OutOrStdout(), tpls)
		}

		f, err := os.Create(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := store.ExportTemplates(f, tpls); err != nil {
			f.Close()
			output.Error("%v", err)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		output.Success("Exported %d templates to %s", len(tpls), args[0])
		return nil
	},
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Add templates from a YAML export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			defer f.Close()
			r = f
		}

		st, err := openStore()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer st.Close()

		n, err := st.ImportTemplates(r)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Imported %d templates", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateSaveCmd, templateListCmd, templateLoadCmd, templateMergeCmd,
		templateDeleteCmd, templateExportCmd, templateImportCmd)

	templateSaveCmd.Flags().StringP("list", "l", "work", "List to save: work or break")
	templateListCmd.Flags().Bool("json", false, "Output as JSON")
}

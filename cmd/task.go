package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/pomo/internal/board"
	"github.com/marcus/pomo/internal/input"
	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/output"
	"github.com/marcus/pomo/internal/store"
)

var (
	errTaskNotFound  = errors.New("task not found")
	errTaskAmbiguous = errors.New("task reference is ambiguous")
	errTaskLocked    = errors.New("completed tasks cannot be moved")
)

// boardSession is a store-backed board whose save errors are surfaced to
// the command instead of only being logged
type boardSession struct {
	store   *store.Store
	board   *board.Board
	saveErr error
}

func openBoardSession(st *store.Store) (*boardSession, error) {
	bd, err := st.LoadBoard()
	if err != nil {
		return nil, err
	}
	s := &boardSession{store: st, board: bd}
	bd.OnChange(func(changes []board.Change) {
		if err := st.SaveLists(changes); err != nil && s.saveErr == nil {
			s.saveErr = err
		}
	})
	return s, nil
}

// resolve finds a task by exact ID or by a prefix that matches only one
// task across both lists
func (s *boardSession) resolve(ref string) (models.ListKind, models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", models.Task{}, errTaskNotFound
	}
	if kind, idx, ok := s.board.Find(ref); ok {
		return kind, s.board.List(kind)[idx], nil
	}

	var (
		matchKind models.ListKind
		match     models.Task
		n         int
	)
	for _, kind := range models.ListKinds {
		for _, t := range s.board.List(kind) {
			if strings.HasPrefix(t.ID, ref) {
				matchKind, match = kind, t
				n++
			}
		}
	}
	switch n {
	case 0:
		return "", models.Task{}, fmt.Errorf("%w: %s", errTaskNotFound, ref)
	case 1:
		return matchKind, match, nil
	}
	return "", models.Task{}, fmt.Errorf("%w: %s matches %d tasks", errTaskAmbiguous, ref, n)
}

// withBoard opens the store and board, runs fn and returns fn's error or
// the first persistence error
func withBoard(fn func(s *boardSession) error) error {
	st, err := openStore()
	if err != nil {
		output.Error("%v", err)
		return err
	}
	defer st.Close()

	s, err := openBoardSession(st)
	if err != nil {
		output.Error("%v", err)
		return err
	}
	if err := fn(s); err != nil {
		output.Error("%v", err)
		return err
	}
	if s.saveErr != nil {
		output.Error("save task lists: %v", s.saveErr)
		return s.saveErr
	}
	return nil
}

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the work and break task lists",
	GroupID: "tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <work|break> <text...>",
	Short: "Append a task to a list",
	Long: `Append a task to a list. The remaining arguments form the task text.
Pass - to add one task per line of stdin, or @file for one per line of file.`,
	Example: `  pomo task add work Review pull requests
  pomo task add break @stretches.txt
  cat todo.txt | pomo task add work -`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseListKind(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		texts := []string{strings.Join(args[1:], " ")}
		if input.AnyExpandable(args[1:]) {
			texts = input.ExpandValues(args[1:], cmd.InOrStdin())
		}
		return withBoard(func(s *boardSession) error {
			added := 0
			for _, text := range texts {
				task, ok := s.board.Add(kind, text)
				if !ok {
					continue
				}
				added++
				fmt.Printf("ADDED %s %s\n", task.ID, task.Text)
			}
			if added == 0 {
				return errors.New("task text is empty")
			}
			return nil
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list [work|break]",
	Aliases: []string{"ls"},
	Short:   "Show the task lists",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := models.ListKinds
		if len(args) == 1 {
			kind, err := models.ParseListKind(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			kinds = []models.ListKind{kind}
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		return withBoard(func(s *boardSession) error {
			if asJSON {
				out := make(map[models.ListKind][]models.Task, len(kinds))
				for _, kind := range kinds {
					tasks := s.board.List(kind)
					if tasks == nil {
						tasks = []models.Task{}
					}
					out[kind] = tasks
				}
				return output.JSON(out)
			}
			for i, kind := range kinds {
				if i > 0 {
					fmt.Println()
				}
				fmt.Println(output.FormatTaskList(kind, s.board.List(kind)))
			}
			return nil
		})
	},
}

var taskToggleCmd = &cobra.Command{
	Use:     "toggle <task-id...>",
	Aliases: []string{"done"},
	Short:   "Toggle completion of tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(s *boardSession) error {
			for _, ref := range args {
				kind, task, err := s.resolve(ref)
				if err != nil {
					return err
				}
				s.board.Toggle(kind, task.ID)
				state := "DONE"
				if task.Completed {
					state = "OPEN"
				}
				fmt.Printf("%s %s\n", state, task.ID)
			}
			return nil
		})
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <task-id> <text...>",
	Short: "Change a task's text",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		return withBoard(func(s *boardSession) error {
			kind, task, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("task text is empty")
			}
			s.board.Edit(kind, task.ID, text)
			fmt.Printf("UPDATED %s\n", task.ID)
			return nil
		})
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete <task-id...>",
	Aliases: []string{"rm"},
	Short:   "Remove tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBoard(func(s *boardSession) error {
			for _, ref := range args {
				kind, task, err := s.resolve(ref)
				if err != nil {
					output.Error("%v", err)
					continue
				}
				s.board.Delete(kind, task.ID)
				fmt.Printf("DELETED %s\n", task.ID)
			}
			return nil
		})
	},
}

// positionIndex converts a 1-based position flag to a list index; zero
// means the end of the list
func positionIndex(pos int) int {
	if pos <= 0 {
		return -1
	}
	return pos - 1
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id>",
	Short: "Move a task to the other list",
	Long: `Move an open task from its list to the other one. The task keeps its ID
and is appended unless --pos gives a 1-based position.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, _ := cmd.Flags().GetInt("pos")
		return withBoard(func(s *boardSession) error {
			from, task, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if !board.CanDrag(task, "") {
				return errTaskLocked
			}
			to := from.Other()
			if !s.board.Transfer(task.ID, from, to, positionIndex(pos)) {
				return fmt.Errorf("could not move %s", task.ID)
			}
			fmt.Printf("MOVED %s to %s\n", task.ID, to)
			return nil
		})
	},
}

var taskReorderCmd = &cobra.Command{
	Use:   "reorder <task-id> <position>",
	Short: "Move an open task to a 1-based position within its list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil || pos < 1 {
			err := fmt.Errorf("invalid position %q", args[1])
			output.Error("%v", err)
			return err
		}
		return withBoard(func(s *boardSession) error {
			kind, task, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if !board.CanDrag(task, "") {
				return errTaskLocked
			}
			if s.board.Reorder(kind, task.ID, pos-1) {
				fmt.Printf("MOVED %s to position %d\n", task.ID, board.IndexOf(s.board.List(kind), task.ID)+1)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskToggleCmd, taskEditCmd, taskDeleteCmd, taskMoveCmd, taskReorderCmd)

	taskListCmd.Flags().Bool("json", false, "Output as JSON")
	taskMoveCmd.Flags().Int("pos", 0, "1-based position in the destination list (default: end)")
}

package keymap

import (
	"fmt"
	"sort"
	"strings"
)

// helpSections lists the contexts shown in the help overlay, in order
var helpSections = []struct {
	Title   string
	Context Context
}{
	{"Timer & global", ContextGlobal},
	{"Task lists", ContextBoard},
	{"Moving a task", ContextGrab},
	{"Text inputs", ContextInput},
	{"Templates", ContextTemplates},
	{"Settings", ContextSettings},
}

// GenerateHelp renders the key bindings as markdown, one table per
// context. Keys bound to the same command are merged into one row and
// user overrides are included.
func (r *Registry) GenerateHelp() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("# Key bindings\n")

	for _, sec := range helpSections {
		rows := r.helpRows(sec.Context)
		if len(rows) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n## %s\n\n", sec.Title))
		sb.WriteString("| Keys | Action |\n|---|---|\n")
		for _, row := range rows {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
		}
	}

	sb.WriteString("\nMouse: drag a task onto another task or onto a list's drop row.\n")
	sb.WriteString("\nPress ? or Esc to close help.\n")
	return sb.String()
}

// helpRows returns [keys, description] pairs for ctx in registration order
func (r *Registry) helpRows(ctx Context) [][2]string {
	var order []Command
	keys := make(map[Command][]string)
	desc := make(map[Command]string)

	add := func(cmd Command, key, d string) {
		if _, ok := keys[cmd]; !ok {
			order = append(order, cmd)
			desc[cmd] = d
		}
		keys[cmd] = append(keys[cmd], formatKey(key))
	}

	for _, b := range r.bindings[ctx] {
		add(b.Command, b.Key, b.Description)
	}

	prefix := string(ctx) + ":"
	var overrides []string
	for k := range r.userOverrides {
		if strings.HasPrefix(k, prefix) {
			overrides = append(overrides, k)
		}
	}
	sort.Strings(overrides)
	for _, k := range overrides {
		cmd := r.userOverrides[k]
		add(cmd, strings.TrimPrefix(k, prefix), CommandHelp(cmd))
	}

	rows := make([][2]string, 0, len(order))
	for _, cmd := range order {
		rows = append(rows, [2]string{strings.Join(keys[cmd], " / "), desc[cmd]})
	}
	return rows
}

// FooterHelp generates a compact help string for the footer
func FooterHelp(ctx Context) string {
	switch ctx {
	case ContextGrab:
		return "↑↓:target  ←→:other list  enter:drop  esc:cancel"
	case ContextInput, ContextFilter:
		return "enter:save  esc:cancel  alt+w/alt+b:add work/break"
	case ContextTemplates:
		return "enter:load  M:merge  n:save  d:delete  /:filter  tab:kind  esc:close"
	case ContextSettings:
		return "tab:next field  ctrl+s:save  esc:discard"
	case ContextHelp:
		return "↑↓:scroll  esc:close"
	default:
		return "space:start/pause r:reset s:skip x:done e:edit d:del m:move t:templates ,:settings ?:help q:quit"
	}
}

// CommandHelp returns help info for a specific command
func CommandHelp(cmd Command) string {
	switch cmd {
	case CmdQuit:
		return "Exit the dashboard"
	case CmdToggleHelp:
		return "Show/hide keyboard shortcuts"
	case CmdStartPause:
		return "Start or pause the countdown"
	case CmdReset:
		return "Restore the full phase duration"
	case CmdSkip:
		return "End the current phase now"
	case CmdFocusWorkInput:
		return "Focus the work list's add input"
	case CmdFocusBreakInput:
		return "Focus the break list's add input"
	case CmdToggleTask:
		return "Mark task done or not done"
	case CmdEditTask:
		return "Edit task text"
	case CmdDeleteTask:
		return "Delete task"
	case CmdGrab:
		return "Pick up task to move it"
	case CmdDrop:
		return "Drop the picked up task"
	case CmdOpenTemplates:
		return "Open templates"
	case CmdOpenSettings:
		return "Open settings"
	case CmdToggleTheme:
		return "Switch between light and dark"
	default:
		return string(cmd)
	}
}

// formatKey formats a key string for display
func formatKey(key string) string {
	replacements := []struct{ old, new string }{
		{"shift+tab", "Shift+Tab"},
		{"up", "↑"},
		{"down", "↓"},
		{"left", "←"},
		{"right", "→"},
		{"enter", "Enter"},
		{"esc", "Esc"},
		{"tab", "Tab"},
		{"space", "Space"},
		{"home", "Home"},
		{"end", "End"},
		{"ctrl+", "Ctrl+"},
		{"alt+", "Alt+"},
	}

	result := key
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.old, r.new)
	}
	// markdown table cells cannot hold a bare pipe
	return strings.ReplaceAll(result, "|", `\|`)
}

// AllCommands returns all defined commands sorted alphabetically
func AllCommands() []Command {
	cmds := []Command{
		CmdQuit, CmdToggleHelp,
		CmdStartPause, CmdReset, CmdSkip,
		CmdFocusWorkInput, CmdFocusBreakInput, CmdFocusAddInput,
		CmdCursorDown, CmdCursorUp, CmdCursorTop, CmdCursorBottom, CmdNextList, CmdPrevList,
		CmdToggleTask, CmdEditTask, CmdDeleteTask,
		CmdGrab, CmdMoveUp, CmdMoveDown, CmdMoveAcross, CmdDrop, CmdCancelGrab,
		CmdSubmit, CmdCancel,
		CmdOpenTemplates, CmdOpenSettings, CmdToggleTheme, CmdClose, CmdScrollDown, CmdScrollUp,
		CmdLoadTemplate, CmdMergeTemplate, CmdDeleteTemplate, CmdSaveTemplate, CmdFilter, CmdSwitchKind,
	}

	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i] < cmds[j]
	})

	return cmds
}

package keymap

// DefaultBindings returns the default key bindings for the dashboard.
// Bindings are organized by context.
func DefaultBindings() []Binding {
	return []Binding{
		// ============================================================
		// GLOBAL BINDINGS
		// Active everywhere except text inputs and the settings form
		// ============================================================
		{Key: "q", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Description: "Quit"},
		{Key: "?", Command: CmdToggleHelp, Context: ContextGlobal, Description: "Toggle help"},
		{Key: "space", Command: CmdStartPause, Context: ContextGlobal, Description: "Start / pause timer"},
		{Key: "r", Command: CmdReset, Context: ContextGlobal, Description: "Reset timer"},
		{Key: "s", Command: CmdSkip, Context: ContextGlobal, Description: "Skip to next phase"},
		{Key: "alt+w", Command: CmdFocusWorkInput, Context: ContextGlobal, Description: "Add a work task"},
		{Key: "alt+b", Command: CmdFocusBreakInput, Context: ContextGlobal, Description: "Add a break task"},
		{Key: "T", Command: CmdToggleTheme, Context: ContextGlobal, Description: "Toggle light/dark theme"},

		// ============================================================
		// BOARD BINDINGS
		// ============================================================
		{Key: "j", Command: CmdCursorDown, Context: ContextBoard, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextBoard, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextBoard, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextBoard, Description: "Move up"},
		{Key: "g g", Command: CmdCursorTop, Context: ContextBoard, Description: "Go to top"},
		{Key: "home", Command: CmdCursorTop, Context: ContextBoard, Description: "Go to top"},
		{Key: "G", Command: CmdCursorBottom, Context: ContextBoard, Description: "Go to bottom"},
		{Key: "end", Command: CmdCursorBottom, Context: ContextBoard, Description: "Go to bottom"},
		{Key: "tab", Command: CmdNextList, Context: ContextBoard, Description: "Other list"},
		{Key: "shift+tab", Command: CmdPrevList, Context: ContextBoard, Description: "Other list"},
		{Key: "l", Command: CmdNextList, Context: ContextBoard, Description: "Other list"},
		{Key: "h", Command: CmdPrevList, Context: ContextBoard, Description: "Other list"},
		{Key: "right", Command: CmdNextList, Context: ContextBoard, Description: "Other list"},
		{Key: "left", Command: CmdPrevList, Context: ContextBoard, Description: "Other list"},
		{Key: "x", Command: CmdToggleTask, Context: ContextBoard, Description: "Toggle completed"},
		{Key: "enter", Command: CmdToggleTask, Context: ContextBoard, Description: "Toggle completed"},
		{Key: "e", Command: CmdEditTask, Context: ContextBoard, Description: "Edit task"},
		{Key: "d", Command: CmdDeleteTask, Context: ContextBoard, Description: "Delete task"},
		{Key: "a", Command: CmdFocusAddInput, Context: ContextBoard, Description: "Add task to this list"},
		{Key: "m", Command: CmdGrab, Context: ContextBoard, Description: "Pick up task to move"},
		{Key: "t", Command: CmdOpenTemplates, Context: ContextBoard, Description: "Templates"},
		{Key: ",", Command: CmdOpenSettings, Context: ContextBoard, Description: "Settings"},

		// ============================================================
		// GRAB BINDINGS
		// A task is picked up; the cursor marks the drop target
		// ============================================================
		{Key: "j", Command: CmdMoveDown, Context: ContextGrab, Description: "Move target down"},
		{Key: "down", Command: CmdMoveDown, Context: ContextGrab, Description: "Move target down"},
		{Key: "k", Command: CmdMoveUp, Context: ContextGrab, Description: "Move target up"},
		{Key: "up", Command: CmdMoveUp, Context: ContextGrab, Description: "Move target up"},
		{Key: "tab", Command: CmdMoveAcross, Context: ContextGrab, Description: "Target other list"},
		{Key: "left", Command: CmdMoveAcross, Context: ContextGrab, Description: "Target other list"},
		{Key: "right", Command: CmdMoveAcross, Context: ContextGrab, Description: "Target other list"},
		{Key: "h", Command: CmdMoveAcross, Context: ContextGrab, Description: "Target other list"},
		{Key: "l", Command: CmdMoveAcross, Context: ContextGrab, Description: "Target other list"},
		{Key: "enter", Command: CmdDrop, Context: ContextGrab, Description: "Drop here"},
		{Key: "m", Command: CmdDrop, Context: ContextGrab, Description: "Drop here"},
		{Key: "esc", Command: CmdCancelGrab, Context: ContextGrab, Description: "Cancel move"},

		// ============================================================
		// INPUT BINDINGS
		// Everything not listed here is typed into the input
		// ============================================================
		{Key: "enter", Command: CmdSubmit, Context: ContextInput, Description: "Save"},
		{Key: "esc", Command: CmdCancel, Context: ContextInput, Description: "Cancel"},
		{Key: "alt+w", Command: CmdFocusWorkInput, Context: ContextInput, Description: "Add a work task"},
		{Key: "alt+b", Command: CmdFocusBreakInput, Context: ContextInput, Description: "Add a break task"},

		// ============================================================
		// TEMPLATES BINDINGS
		// ============================================================
		{Key: "j", Command: CmdCursorDown, Context: ContextTemplates, Description: "Move down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextTemplates, Description: "Move down"},
		{Key: "k", Command: CmdCursorUp, Context: ContextTemplates, Description: "Move up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextTemplates, Description: "Move up"},
		{Key: "enter", Command: CmdLoadTemplate, Context: ContextTemplates, Description: "Load (replace list)"},
		{Key: "M", Command: CmdMergeTemplate, Context: ContextTemplates, Description: "Merge into list"},
		{Key: "d", Command: CmdDeleteTemplate, Context: ContextTemplates, Description: "Delete template"},
		{Key: "n", Command: CmdSaveTemplate, Context: ContextTemplates, Description: "Save list as template"},
		{Key: "/", Command: CmdFilter, Context: ContextTemplates, Description: "Filter templates"},
		{Key: "tab", Command: CmdSwitchKind, Context: ContextTemplates, Description: "Work / break templates"},
		{Key: "esc", Command: CmdClose, Context: ContextTemplates, Description: "Close templates"},
		{Key: "t", Command: CmdClose, Context: ContextTemplates, Description: "Close templates"},

		// ============================================================
		// FILTER BINDINGS (templates filter and template name inputs)
		// ============================================================
		{Key: "enter", Command: CmdSubmit, Context: ContextFilter, Description: "Confirm"},
		{Key: "esc", Command: CmdCancel, Context: ContextFilter, Description: "Cancel"},
		{Key: "alt+w", Command: CmdFocusWorkInput, Context: ContextFilter, Description: "Add a work task"},
		{Key: "alt+b", Command: CmdFocusBreakInput, Context: ContextFilter, Description: "Add a break task"},

		// ============================================================
		// SETTINGS BINDINGS
		// The form handles navigation; these are intercepted first
		// ============================================================
		{Key: "esc", Command: CmdCancel, Context: ContextSettings, Description: "Discard changes"},
		{Key: "ctrl+s", Command: CmdSubmit, Context: ContextSettings, Description: "Save settings"},

		// ============================================================
		// HELP BINDINGS
		// ============================================================
		{Key: "esc", Command: CmdClose, Context: ContextHelp, Description: "Close help"},
		{Key: "j", Command: CmdScrollDown, Context: ContextHelp, Description: "Scroll down"},
		{Key: "down", Command: CmdScrollDown, Context: ContextHelp, Description: "Scroll down"},
		{Key: "k", Command: CmdScrollUp, Context: ContextHelp, Description: "Scroll up"},
		{Key: "up", Command: CmdScrollUp, Context: ContextHelp, Description: "Scroll up"},
	}
}

// RegisterDefaults registers all default bindings with the registry
func RegisterDefaults(r *Registry) {
	r.RegisterBindings(DefaultBindings())
}

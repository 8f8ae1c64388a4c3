package keymap

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const sequenceTimeout = 500 * time.Millisecond

// Context represents a UI context for keybindings
type Context string

const (
	ContextGlobal    Context = "global"
	ContextBoard     Context = "board"     // Task lists focused, nothing grabbed
	ContextGrab      Context = "grab"      // A task is picked up for keyboard drag
	ContextInput     Context = "input"     // Add or edit text input has focus
	ContextTemplates Context = "templates" // Templates sidebar is open
	ContextFilter    Context = "filter"    // Typing in the templates filter or name input
	ContextSettings  Context = "settings"  // Settings form is open
	ContextHelp      Context = "help"      // Help overlay is open
)

// Command represents a named command that can be triggered by key bindings
type Command string

// All available commands
const (
	// Global commands
	CmdQuit       Command = "quit"
	CmdToggleHelp Command = "toggle-help"

	// Timer commands
	CmdStartPause Command = "start-pause"
	CmdReset      Command = "reset"
	CmdSkip       Command = "skip"

	// Focus commands
	CmdFocusWorkInput  Command = "focus-work-input"
	CmdFocusBreakInput Command = "focus-break-input"
	CmdFocusAddInput   Command = "focus-add-input"

	// Navigation commands
	CmdCursorDown   Command = "cursor-down"
	CmdCursorUp     Command = "cursor-up"
	CmdCursorTop    Command = "cursor-top"
	CmdCursorBottom Command = "cursor-bottom"
	CmdNextList     Command = "next-list"
	CmdPrevList     Command = "prev-list"

	// Task commands
	CmdToggleTask Command = "toggle-task"
	CmdEditTask   Command = "edit-task"
	CmdDeleteTask Command = "delete-task"

	// Keyboard drag commands
	CmdGrab       Command = "grab"
	CmdMoveUp     Command = "move-up"
	CmdMoveDown   Command = "move-down"
	CmdMoveAcross Command = "move-across"
	CmdDrop       Command = "drop"
	CmdCancelGrab Command = "cancel-grab"

	// Input commands
	CmdSubmit Command = "submit"
	CmdCancel Command = "cancel"

	// Panels
	CmdOpenTemplates Command = "open-templates"
	CmdOpenSettings  Command = "open-settings"
	CmdToggleTheme   Command = "toggle-theme"
	CmdClose         Command = "close"
	CmdScrollDown    Command = "scroll-down"
	CmdScrollUp      Command = "scroll-up"

	// Template sidebar commands
	CmdLoadTemplate   Command = "load-template"
	CmdMergeTemplate  Command = "merge-template"
	CmdDeleteTemplate Command = "delete-template"
	CmdSaveTemplate   Command = "save-template"
	CmdFilter         Command = "filter"
	CmdSwitchKind     Command = "switch-kind"
)

// Binding maps a key or key sequence to a command in a specific context
type Binding struct {
	Key         string  // e.g., "space", "alt+w", "g g"
	Command     Command // Command ID
	Context     Context // "global", "board", "input", etc.
	Description string  // Human-readable description for help text
}

// isolated contexts never fall back to global bindings: keys not bound in
// the context itself go to the focused widget
var isolated = map[Context]bool{
	ContextInput:    true,
	ContextFilter:   true,
	ContextSettings: true,
}

// Registry manages key bindings and command dispatch
type Registry struct {
	bindings      map[Context][]Binding // context -> bindings
	userOverrides map[string]Command    // "context:key" -> command
	pendingKey    string
	pendingTime   time.Time
	mu            sync.RWMutex
}

// NewRegistry creates a new keymap registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[Context][]Binding),
		userOverrides: make(map[string]Command),
	}
}

// RegisterBinding adds a key binding
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// RegisterBindings adds multiple key bindings
func (r *Registry) RegisterBindings(bindings []Binding) {
	for _, b := range bindings {
		r.RegisterBinding(b)
	}
}

// SetUserOverride sets a user-configured key override for a specific context
func (r *Registry) SetUserOverride(context Context, key string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[string(context)+":"+key] = cmd
}

// Lookup finds the command for a given key in the specified context
// Returns the command and whether a binding was found
// Checks: user overrides -> context bindings -> global bindings
func (r *Registry) Lookup(key tea.KeyMsg, activeContext Context) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyStr := KeyToString(key)

	// Check for pending key sequence
	if r.pendingKey != "" {
		if time.Since(r.pendingTime) < sequenceTimeout {
			seq := r.pendingKey + " " + keyStr
			r.pendingKey = ""
			if cmd, found := r.findCommand(seq, activeContext); found {
				return cmd, true
			}
			// Sequence didn't match, try just the new key
		} else {
			r.pendingKey = ""
		}
	}

	// Check if this key starts a sequence
	if r.isSequenceStart(keyStr, activeContext) {
		r.pendingKey = keyStr
		r.pendingTime = time.Now()
		return "", false
	}

	return r.findCommand(keyStr, activeContext)
}

// findCommand looks up a command for the given key in order of precedence
func (r *Registry) findCommand(key string, activeContext Context) (Command, bool) {
	// 1. Check user overrides for active context
	if activeContext != "" && activeContext != ContextGlobal {
		if cmd, ok := r.userOverrides[string(activeContext)+":"+key]; ok {
			return cmd, true
		}
	}

	// 2. Check active context bindings
	if activeContext != "" && activeContext != ContextGlobal {
		if cmd, found := r.findInContext(key, activeContext); found {
			return cmd, true
		}
	}

	if isolated[activeContext] {
		return "", false
	}

	// 3. Global user overrides, then global bindings
	if cmd, ok := r.userOverrides[string(ContextGlobal)+":"+key]; ok {
		return cmd, true
	}
	return r.findInContext(key, ContextGlobal)
}

// findInContext finds a command for a key in a specific context
func (r *Registry) findInContext(key string, context Context) (Command, bool) {
	for _, b := range r.bindings[context] {
		if b.Key == key {
			return b.Command, true
		}
	}
	return "", false
}

// isSequenceStart checks if this key could start a multi-key sequence
func (r *Registry) isSequenceStart(key string, activeContext Context) bool {
	prefix := key + " "

	contexts := []Context{activeContext}
	if !isolated[activeContext] && activeContext != ContextGlobal {
		contexts = append(contexts, ContextGlobal)
	}

	for _, ctx := range contexts {
		for _, b := range r.bindings[ctx] {
			if strings.HasPrefix(b.Key, prefix) {
				return true
			}
		}
		for k := range r.userOverrides {
			// k is "context:key"
			parts := strings.SplitN(k, ":", 2)
			if len(parts) == 2 && Context(parts[0]) == ctx && strings.HasPrefix(parts[1], prefix) {
				return true
			}
		}
	}

	return false
}

// PendingKey returns the current pending key (for UI display)
func (r *Registry) PendingKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pendingKey != "" && time.Since(r.pendingTime) < sequenceTimeout {
		return r.pendingKey
	}
	return ""
}

// BindingsForContext returns all bindings for a given context (including
// global ones unless the context is isolated)
func (r *Registry) BindingsForContext(context Context) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Binding
	result = append(result, r.bindings[context]...)
	if context != ContextGlobal && !isolated[context] {
		result = append(result, r.bindings[ContextGlobal]...)
	}
	return result
}

// KeyToString converts a tea.KeyMsg to a string representation.
// Alt-modified keys get an "alt+" prefix, e.g. "alt+w".
func KeyToString(key tea.KeyMsg) string {
	s := baseKeyString(key)
	if key.Alt {
		return "alt+" + s
	}
	return s
}

func baseKeyString(key tea.KeyMsg) string {
	switch key.Type {
	case tea.KeyCtrlC:
		return "ctrl+c"
	case tea.KeyCtrlD:
		return "ctrl+d"
	case tea.KeyCtrlS:
		return "ctrl+s"
	case tea.KeyCtrlU:
		return "ctrl+u"
	case tea.KeyTab:
		return "tab"
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeySpace:
		return "space"
	case tea.KeyBackspace:
		return "backspace"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyHome:
		return "home"
	case tea.KeyEnd:
		return "end"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	case tea.KeyDelete:
		return "delete"
	case tea.KeyShiftTab:
		return "shift+tab"
	case tea.KeyRunes:
		if len(key.Runes) == 1 && key.Runes[0] == ' ' {
			return "space"
		}
		return string(key.Runes)
	default:
		s := key.String()
		// tea prefixes alt itself for some key types
		return strings.TrimPrefix(s, "alt+")
	}
}

// Package output provides styled terminal output helpers (success, error,
// warning, task and timer formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/pomo/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Strikethrough(true)
	phaseStyles  = map[models.Phase]lipgloss.Style{
		models.PhaseWork:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		models.PhaseBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// FormatClock renders seconds as mm:ss. Minutes are not wrapped into
// hours, a 60 minute phase reads 60:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatPhase renders a phase label in its color
func FormatPhase(p models.Phase) string {
	style, ok := phaseStyles[p]
	if !ok {
		return string(p)
	}
	return style.Render(p.Label())
}

// FormatTask formats one task row with its position
// e.g., "  2. [x] Drink water  break-3f9a0c1b2d4e"
func FormatTask(pos int, task models.Task) string {
	box := "[ ]"
	text := task.Text
	if task.Completed {
		box = "[x]"
		text = doneStyle.Render(text)
	}
	return fmt.Sprintf("%3d. %s %s  %s", pos, box, text, subtleStyle.Render(task.ID))
}

// FormatTaskList formats a titled list, or a placeholder when empty
func FormatTaskList(kind models.ListKind, tasks []models.Task) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(kind.Title()))
	sb.WriteString(subtleStyle.Render(fmt.Sprintf(" (%d)", len(tasks))))
	sb.WriteString("\n")
	if len(tasks) == 0 {
		sb.WriteString(subtleStyle.Render("     no tasks"))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, t := range tasks {
		sb.WriteString(FormatTask(i+1, t))
		sb.WriteString("\n")
	}
	return sb.String()
}

// TemplatePreview lists the first two task texts and how many more follow
// e.g., "Stretch, Drink water +3 more"
func TemplatePreview(tpl models.Template) string {
	const shown = 2
	var names []string
	for i, t := range tpl.Tasks {
		if i == shown {
			break
		}
		names = append(names, t.Text)
	}
	s := strings.Join(names, ", ")
	if extra := len(tpl.Tasks) - shown; extra > 0 {
		s += fmt.Sprintf(" +%d more", extra)
	}
	return s
}

// FormatTemplate formats a template in one line
func FormatTemplate(tpl models.Template) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		titleStyle.Render(tpl.Name),
		subtleStyle.Render(string(tpl.Type)),
		TemplatePreview(tpl),
		subtleStyle.Render(tpl.ID))
}

// FormatDuration renders a duration as "1h 05m" or "25m"
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

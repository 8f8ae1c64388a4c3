package dashboard

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/pomo/internal/models"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	errorC    lipgloss.Color
	border    lipgloss.Color
	titleBg   lipgloss.Color
	titleFg   lipgloss.Color
	text      lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[models.Theme]palette{
	models.ThemeDark: {
		primary:   lipgloss.Color("212"),
		secondary: lipgloss.Color("141"),
		muted:     lipgloss.Color("241"),
		success:   lipgloss.Color("42"),
		warning:   lipgloss.Color("214"),
		errorC:    lipgloss.Color("196"),
		border:    lipgloss.Color("240"),
		titleBg:   lipgloss.Color("237"),
		titleFg:   lipgloss.Color("255"),
		text:      lipgloss.Color("252"),
		highlight: lipgloss.Color("236"),
	},
	models.ThemeLight: {
		primary:   lipgloss.Color("162"),
		secondary: lipgloss.Color("91"),
		muted:     lipgloss.Color("245"),
		success:   lipgloss.Color("28"),
		warning:   lipgloss.Color("166"),
		errorC:    lipgloss.Color("160"),
		border:    lipgloss.Color("250"),
		titleBg:   lipgloss.Color("254"),
		titleFg:   lipgloss.Color("235"),
		text:      lipgloss.Color("235"),
		highlight: lipgloss.Color("255"),
	},
}

// Styles is the themed style set. A Model keeps a pointer to it so a theme
// change reaches every copy of the model.
type Styles struct {
	Theme models.Theme

	Panel       lipgloss.Style
	ActivePanel lipgloss.Style
	PanelTitle  lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Help        lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style

	Task       lipgloss.Style
	TaskDone   lipgloss.Style
	Cursor     lipgloss.Style
	Grabbed    lipgloss.Style
	DropTarget lipgloss.Style
	Sentinel   lipgloss.Style

	Phase map[models.Phase]lipgloss.Style
	Clock lipgloss.Style
	Modal lipgloss.Style

	ProgressColor string
}

// NewStyles builds the style set for t
func NewStyles(t models.Theme) *Styles {
	p, ok := palettes[t]
	if !ok {
		t = models.ThemeDark
		p = palettes[t]
	}

	return &Styles{
		Theme: t,

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		ActivePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Background(p.titleBg).
			Foreground(p.titleFg).
			Padding(0, 1),

		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		Subtle:      lipgloss.NewStyle().Foreground(p.muted),
		Help:        lipgloss.NewStyle().Foreground(p.muted),
		Status:      lipgloss.NewStyle().Foreground(p.success),
		StatusError: lipgloss.NewStyle().Foreground(p.errorC).Bold(true),

		Task:       lipgloss.NewStyle().Foreground(p.text),
		TaskDone:   lipgloss.NewStyle().Foreground(p.muted).Strikethrough(true),
		Cursor:     lipgloss.NewStyle().Background(p.highlight).Bold(true),
		Grabbed:    lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		DropTarget: lipgloss.NewStyle().Foreground(p.secondary).Underline(true),
		Sentinel:   lipgloss.NewStyle().Foreground(p.muted).Italic(true),

		Phase: map[models.Phase]lipgloss.Style{
			models.PhaseWork:  lipgloss.NewStyle().Foreground(p.errorC).Bold(true),
			models.PhaseBreak: lipgloss.NewStyle().Foreground(p.success).Bold(true),
		},
		Clock: lipgloss.NewStyle().Bold(true).Foreground(p.text),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),

		ProgressColor: string(p.primary),
	}
}

// FormTheme returns the huh theme matching the style set
func (s *Styles) FormTheme() *huh.Theme {
	if s.Theme == models.ThemeLight {
		return huh.ThemeCharm()
	}
	return huh.ThemeDracula()
}

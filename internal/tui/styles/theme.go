package styles

import (
	"mediabrowse/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the views use.
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Label     lipgloss.Style
	Directory lipgloss.Style
	Filter    lipgloss.Style
	Target    lipgloss.Style
	NoTarget  lipgloss.Style
	Selected  lipgloss.Style
	Entry     lipgloss.Style
	Muted     lipgloss.Style
	Panel     lipgloss.Style
	Input     lipgloss.Style
	Modal     lipgloss.Style
	Danger    lipgloss.Style
	Yes       lipgloss.Style
	No        lipgloss.Style
	Hint      lipgloss.Style
	Info      lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

// Theme defines the core UI styles
var Theme = New(config.New())

// New builds styles from the theme colors in cfg.
func New(cfg *config.Config) Styles {
	t := cfg.Theme
	return Styles{
		App:       lipgloss.NewStyle().Padding(1, 2),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Primary)),
		Label:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
		Directory: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
		Filter:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Target:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Emphasis)),
		NoTarget:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Entry:     lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Panel:     lipgloss.NewStyle().PaddingRight(2),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Success)).
			Foreground(lipgloss.Color(t.Success)),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 2).
			Align(lipgloss.Center),
		Danger:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t.Error)).Padding(1, 2).Align(lipgloss.Center),
		Yes:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		No:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Emphasis)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
	}
}

// Apply replaces Theme with styles built from cfg.
func Apply(cfg *config.Config) {
	Theme = New(cfg)
}

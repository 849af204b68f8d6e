package tui

import "github.com/charmbracelet/lipgloss"

// Styles 终端界面样式
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Counter   lipgloss.Style
	FormError lipgloss.Style
	Story     lipgloss.Style
	ErrorBox  lipgloss.Style
	ErrorHead lipgloss.Style
	Muted     lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles 默认暗色主题
func DefaultStyles() Styles {
	blood := lipgloss.Color("#b3202a")
	ghost := lipgloss.Color("#9370db")
	muted := lipgloss.Color("#a29fb3")

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(blood).
			Bold(true).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Counter: lipgloss.NewStyle().
			Foreground(muted),
		FormError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")),
		Story: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ghost).
			Padding(1, 2),
		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(blood).
			Padding(0, 2),
		ErrorHead: lipgloss.NewStyle().
			Foreground(blood).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}

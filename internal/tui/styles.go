package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/pipfolio/pipview/internal/format"
)

// Color constants
const (
	ColorPrimary    = lipgloss.Color("39")  // Cyan/blue
	ColorMuted      = lipgloss.Color("241") // Gray
	ColorBackground = lipgloss.Color("236") // Dark gray
	ColorSelected   = lipgloss.Color("57")  // Purple
	ColorSelectedFg = lipgloss.Color("229") // Light yellow
	ColorGreen      = lipgloss.Color("82")
	ColorRed        = lipgloss.Color("196")
	ColorWarning    = lipgloss.Color("220")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBackground).
			Padding(0, 1)

	BarStyle = lipgloss.NewStyle().Background(ColorBackground)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(ColorPrimary)

	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorMuted)

	ContentStyle = lipgloss.NewStyle().Padding(1, 2)

	KeyStyle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	DescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().Bold(true)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle = lipgloss.NewStyle().Bold(true)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	SearchStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// ClassStyle colours a value by its gain/loss class.
func ClassStyle(c format.Class) lipgloss.Style {
	switch c {
	case format.Positive:
		return ValueStyle.Foreground(ColorGreen)
	case format.Negative:
		return ValueStyle.Foreground(ColorRed)
	}
	return ValueStyle
}

// TableStyles returns the table styles shared by every page.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ColorSelectedFg).
		Background(ColorSelected).
		Bold(true)
	return s
}

// Package themes holds the TUI color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Label         lipgloss.Style
	FocusedLabel  lipgloss.Style
	FieldError    lipgloss.Style
	RoundedBox    lipgloss.Style
	Modal         lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Expense       lipgloss.Style
	Revenue       lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, foreground, subtle, border, muted       string
	success, warning, errorColor, info, selectedText string
}

func build(p palette) Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return Theme{
		Primary:    c(p.primary),
		Muted:      c(p.muted),
		Border:     c(p.border),
		Foreground: c(p.foreground),
		Error:      c(p.errorColor),
		Warning:    c(p.warning),
		Success:    c(p.success),

		Title:    lipgloss.NewStyle().Bold(true).Foreground(c(p.foreground)).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(c(p.subtle)),
		Normal:   lipgloss.NewStyle().Foreground(c(p.foreground)),
		Bold:     lipgloss.NewStyle().Bold(true).Foreground(c(p.foreground)),
		Selected: lipgloss.NewStyle().
			Background(c(p.primary)).
			Foreground(c(p.selectedText)).
			Bold(true),
		Label:        lipgloss.NewStyle().Foreground(c(p.subtle)).Width(14),
		FocusedLabel: lipgloss.NewStyle().Foreground(c(p.primary)).Bold(true).Width(14),
		FieldError:   lipgloss.NewStyle().Foreground(c(p.errorColor)).PaddingLeft(14),

		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(p.border)).
			Padding(1, 2),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(c(p.primary)).
			Padding(1, 3),

		StatusSuccess: lipgloss.NewStyle().Foreground(c(p.success)).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(c(p.warning)).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(c(p.errorColor)).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(c(p.info)).Bold(true),
		StatusPending: lipgloss.NewStyle().Foreground(c(p.muted)).Italic(true),

		Expense: lipgloss.NewStyle().Foreground(c(p.errorColor)),
		Revenue: lipgloss.NewStyle().Foreground(c(p.success)),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:      "#7c3aed",
	foreground:   "#fafafa",
	subtle:       "#a3a3a3",
	border:       "#404040",
	muted:        "#737373",
	success:      "#10b981",
	warning:      "#f59e0b",
	errorColor:   "#ef4444",
	info:         "#3b82f6",
	selectedText: "#fafafa",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:      "#cba6f7",
	foreground:   "#cdd6f4",
	subtle:       "#a6adc8",
	border:       "#45475a",
	muted:        "#6c7086",
	success:      "#a6e3a1",
	warning:      "#f9e2af",
	errorColor:   "#f38ba8",
	info:         "#89dceb",
	selectedText: "#1e1e2e",
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

package themes

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	tests := []struct {
		name    string
		want    Theme
		primary lipgloss.Color
	}{
		{name: "default", want: Default, primary: lipgloss.Color("#7c3aed")},
		{name: "catppuccin-mocha", want: CatppuccinMocha, primary: lipgloss.Color("#cba6f7")},
		{name: "unknown", want: Default, primary: lipgloss.Color("#7c3aed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme := GetTheme(tt.name)
			assert.Equal(t, tt.primary, theme.Primary)
			assert.Equal(t, tt.want.Error, theme.Error)
			assert.Equal(t, tt.primary, theme.Selected.GetBackground())
		})
	}
}

func TestBuildCarriesPalette(t *testing.T) {
	theme := build(palette{primary: "#010203", errorColor: "#0a0b0c", foreground: "#ffffff"})
	assert.Equal(t, lipgloss.Color("#010203"), theme.Primary)
	assert.Equal(t, lipgloss.Color("#0a0b0c"), theme.Error)
	assert.Equal(t, lipgloss.Color("#ffffff"), theme.Title.GetForeground())
}

package styles

import (
	"testing"

	lipglossv1 "github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_SortedAndResolvable(t *testing.T) {
	names := ThemeNames()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, DefaultTheme)

	for _, name := range names {
		_, ok := GetPalette(name)
		assert.True(t, ok, name)
	}
}

func TestSetTheme_RebuildsColors(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)
	SetTheme(p)

	assert.Equal(t, p.Primary, ColorPrimary)
	assert.Equal(t, p.Error, ColorError)
}

func TestGlamourStyle_UsesPalette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#c0caf5", *cfg.Document.Color)
	assert.Equal(t, "[ ] ", cfg.Task.Unticked)
}

func TestFormTheme_FollowsPalette(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	SetTheme(themes["gruvbox"])
	theme := FormTheme()
	require.NotNil(t, theme)

	want := colorHexPtr(themes["gruvbox"].Primary)
	require.NotNil(t, want)
	assert.Equal(t, lipglossv1.Color(*want), theme.Focused.Title.GetForeground())
}

// Package styles provides reusable lipgloss-based TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/ico256/internal/infrastructure/config"
)

// Theme holds lipgloss colors and styles derived from config.
type Theme struct {
	Text    lipgloss.TerminalColor
	Muted   lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Success lipgloss.TerminalColor

	// Pre-built styles
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style

	Box       lipgloss.Style
	BoxHeader lipgloss.Style
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() config.PaletteConfig {
	return config.DefaultConfig().Appearance.Palette
}

// NewTheme creates a Theme from config. Appearance.NoColor strips every color.
func NewTheme(cfg *config.Config) *Theme {
	if cfg == nil {
		return NewThemeFromPalette(DefaultPalette())
	}
	if cfg.Appearance.NoColor {
		return NewPlainTheme()
	}
	return NewThemeFromPalette(withDefaults(cfg.Appearance.Palette))
}

// NewThemeFromPalette creates a Theme from a palette.
func NewThemeFromPalette(p config.PaletteConfig) *Theme {
	t := &Theme{
		Text:    lipgloss.Color(p.Text),
		Muted:   lipgloss.Color(p.Muted),
		Accent:  lipgloss.Color(p.Accent),
		Border:  lipgloss.Color(p.Border),
		Error:   lipgloss.Color(p.Error),
		Success: lipgloss.Color(p.Success),
	}
	t.buildStyles()
	return t
}

// NewPlainTheme creates a Theme without colors.
func NewPlainTheme() *Theme {
	none := lipgloss.NoColor{}
	t := &Theme{Text: none, Muted: none, Accent: none, Border: none, Error: none, Success: none}
	t.buildStyles()
	return t
}

func withDefaults(p config.PaletteConfig) config.PaletteConfig {
	d := DefaultPalette()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.Accent, d.Accent)
	fill(&p.Text, d.Text)
	fill(&p.Muted, d.Muted)
	fill(&p.Border, d.Border)
	fill(&p.Error, d.Error)
	fill(&p.Success, d.Success)
	return p
}

// buildStyles creates all derived lipgloss styles.
func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.Muted).
		Bold(true)

	t.Normal = lipgloss.NewStyle().
		Foreground(t.Text)

	t.Subtle = lipgloss.NewStyle().
		Foreground(t.Muted)

	t.Highlight = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	t.Badge = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Padding(0, 1)

	t.BadgeMuted = lipgloss.NewStyle().
		Foreground(t.Muted).
		Padding(0, 1)

	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)

	t.BoxHeader = lipgloss.NewStyle().
		Foreground(t.Text).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border).
		MarginBottom(1)
}

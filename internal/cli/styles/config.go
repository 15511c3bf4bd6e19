package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/ico256/internal/domain/validation"
)

// PathInfo is one line of `ico256 config path`.
type PathInfo struct {
	Label  string
	Path   string
	Exists bool
	// Size is only shown when positive.
	Size int64
}

// ConfigRenderer renders configuration status output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new ConfigRenderer.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderPaths lists the files and directories ico256 uses.
func (r *ConfigRenderer) RenderPaths(paths []PathInfo) string {
	width := 0
	for _, p := range paths {
		width = max(width, lipgloss.Width(p.Label))
	}

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		mark := r.theme.SuccessStyle.Render(IconCheck)
		if !p.Exists {
			mark = r.theme.Subtle.Render(IconX)
		}
		line := fmt.Sprintf("%s %s  %s",
			mark,
			r.theme.Subtle.Render(padRight(p.Label, width)),
			r.theme.Normal.Render(p.Path),
		)
		if p.Size > 0 {
			line += " " + r.theme.BytesBadge(p.Size)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderFile renders a config file with a header.
func (r *ConfigRenderer) RenderFile(path, content string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	header := fmt.Sprintf("%s %s", iconStyle.Render(IconConfig), r.theme.Title.Render(path))
	return header + "\n\n" + strings.TrimRight(content, "\n")
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %s", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}

// RenderSizeLimit renders the effective source ceiling.
func (r *ConfigRenderer) RenderSizeLimit(limit int64) string {
	return fmt.Sprintf("%s %s %s",
		r.theme.Subtle.Render(IconInfo),
		r.theme.Subtle.Render("source limit"),
		r.theme.Highlight.Render(validation.FormatBytes(validation.EffectiveLimit(limit))),
	)
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

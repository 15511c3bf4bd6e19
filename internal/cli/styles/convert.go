package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/validation"
)

// ConvertRenderer renders the result of a conversion.
type ConvertRenderer struct {
	theme *Theme
}

// NewConvertRenderer creates a new ConvertRenderer.
func NewConvertRenderer(theme *Theme) *ConvertRenderer {
	return &ConvertRenderer{theme: theme}
}

// Render renders a styled summary of a finished conversion.
func (r *ConvertRenderer) Render(out *usecase.ConvertFileOutput) string {
	run := out.Run
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	header := fmt.Sprintf("%s %s %s %s",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Title.Render(run.SourceName),
		r.theme.Subtle.Render(IconArrow),
		r.theme.Highlight.Render(fmt.Sprintf("%d sizes", len(run.Artifacts))),
	)

	meta := fmt.Sprintf("%s %s  %s %s  %s %s",
		r.theme.Subtle.Render("type"), r.theme.Normal.Render(run.MediaType),
		r.theme.Subtle.Render("background"), r.theme.Normal.Render(string(run.Background)),
		r.theme.Subtle.Render("favicon.ico"), r.theme.Normal.Render(validation.FormatBytes(int64(len(run.ICO)))),
	)

	rows := make([][]string, 0, len(run.Artifacts))
	for _, a := range run.Artifacts {
		rows = append(rows, ArtifactRow(a))
	}
	sizes := NewStyledTable(r.theme, ArtifactHeaders(), rows)

	parts := []string{header, meta, "", sizes}

	for _, f := range run.Failures {
		parts = append(parts, fmt.Sprintf("%s %s", r.theme.ErrorStyle.Render(IconWarning), r.theme.ErrorStyle.Render(f.Error())))
	}

	if out.Export != nil {
		parts = append(parts, "", fmt.Sprintf("%s %s %s",
			iconStyle.Render(IconFolder),
			r.theme.Normal.Render(out.Export.Path),
			r.theme.BadgeMuted.Render(fmt.Sprintf("%d files, %s", len(out.Export.Files), validation.FormatBytes(out.Export.Bytes))),
		))
	}

	return strings.Join(parts, "\n")
}

// RenderError renders a failed conversion.
func (r *ConvertRenderer) RenderError(ref string, err error) string {
	return fmt.Sprintf("%s %s %s",
		r.theme.ErrorStyle.Render(IconX),
		r.theme.Title.Render(ref),
		r.theme.ErrorStyle.Render(err.Error()),
	)
}

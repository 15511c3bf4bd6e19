package styles

import (
	"fmt"
	"strings"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

// RenderPurgeTargets lists what a purge would remove.
func (t *Theme) RenderPurgeTargets(targets []entity.PurgeTarget) string {
	var b strings.Builder
	b.WriteString(t.Title.Render("Purge") + "\n\n")

	var total int64
	for _, target := range targets {
		size := t.Subtle.Render("absent")
		if target.Exists {
			size = t.BytesBadge(target.Size)
			total += target.Size
		}
		fmt.Fprintf(&b, "  %s %s\n    %s\n",
			t.Normal.Render(padRight(target.Description, 18)),
			size,
			t.Subtle.Render(target.Path))
	}

	fmt.Fprintf(&b, "\n  %s %s\n", t.Subtle.Render("Total:"), t.Highlight.Render(validation.FormatBytes(total)))
	return b.String()
}

// RenderPurgeResult summarizes a purge.
func (t *Theme) RenderPurgeResult(out *usecase.PurgeOutput) string {
	if out == nil || len(out.Results) == 0 {
		return t.Subtle.Render("Nothing to purge")
	}

	var b strings.Builder
	for _, res := range out.Results {
		if res.Success {
			fmt.Fprintf(&b, "%s %s\n", t.SuccessStyle.Render(IconCheck), res.Target.Path)
			continue
		}
		fmt.Fprintf(&b, "%s %s: %v\n", t.ErrorStyle.Render(IconX), res.Target.Path, res.Error)
	}
	fmt.Fprintf(&b, "\n%s freed", t.Highlight.Render(validation.FormatBytes(out.TotalSize)))
	return b.String()
}

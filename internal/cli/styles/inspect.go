package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

// RenderDirectory renders the directory of an icon file.
func (t *Theme) RenderDirectory(name string, entries []entity.DirectoryEntry, total int) string {
	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)
	header := fmt.Sprintf("%s %s %s",
		iconStyle.Render(IconImage),
		t.Title.Render(name),
		t.BadgeMuted.Render(fmt.Sprintf("%d images, %s", len(entries), validation.FormatBytes(int64(total)))),
	)

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = DirectoryRow(i, e)
	}
	return header + "\n\n" + NewStyledTable(t, DirectoryHeaders(), rows)
}

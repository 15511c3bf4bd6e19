package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

// RenderHistory renders recent conversions with a stats line.
func (t *Theme) RenderHistory(records []*entity.ConversionRecord, stats *entity.HistoryStats) string {
	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)
	header := fmt.Sprintf("%s %s", iconStyle.Render(IconHistory), t.Title.Render("Recent conversions"))

	if len(records) == 0 {
		return header + "\n\n" + t.Subtle.Render("No conversions yet")
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = HistoryRow(r)
	}
	out := header + "\n\n" + NewStyledTable(t, HistoryHeaders(), rows)

	if stats != nil {
		out += "\n" + t.Subtle.Render(fmt.Sprintf("%d stored, %s of icons, last %s",
			stats.TotalRuns, validation.FormatBytes(stats.TotalIcoBytes), RelativeTime(stats.LastRun)))
	}
	return out
}

// RenderCleared confirms a history wipe.
func (t *Theme) RenderCleared() string {
	return fmt.Sprintf("%s %s", t.SuccessStyle.Render(IconCheck), t.Normal.Render("History cleared"))
}

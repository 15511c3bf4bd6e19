package styles

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

// NewStyledTable renders a themed static table.
func NewStyledTable(theme *Theme, headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	return t.String()
}

// ArtifactHeaders returns headers for the per-size table.
func ArtifactHeaders() []string {
	return []string{"Size", "PNG", "ICO"}
}

// ArtifactRow converts an artifact to a table row.
func ArtifactRow(a *entity.Artifact) []string {
	return []string{
		a.Size.Label(),
		validation.FormatBytes(int64(len(a.PNG))),
		validation.FormatBytes(int64(len(a.ICO))),
	}
}

// DirectoryHeaders returns headers for an icon directory listing.
func DirectoryHeaders() []string {
	return []string{"#", "Size", "Bits", "Bytes", "Offset"}
}

// DirectoryRow converts a directory entry to a table row.
func DirectoryRow(index int, e entity.DirectoryEntry) []string {
	return []string{
		strconv.Itoa(index + 1),
		strconv.Itoa(e.EdgeWidth()) + "x" + strconv.Itoa(e.EdgeHeight()),
		strconv.Itoa(int(e.BitCount)),
		validation.FormatBytes(int64(e.Size)),
		strconv.FormatUint(uint64(e.Offset), 10),
	}
}

// HistoryHeaders returns headers for the conversion history table.
func HistoryHeaders() []string {
	return []string{"ID", "Source", "Background", "Sizes", "ICO", "When"}
}

// HistoryRow converts a conversion record to a table row.
func HistoryRow(r *entity.ConversionRecord) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		truncate(r.SourceName, 28),
		string(r.Background),
		entity.FormatSizes(r.Sizes),
		validation.FormatBytes(r.IcoBytes),
		RelativeTime(r.CreatedAt),
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

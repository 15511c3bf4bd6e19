package styles

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/infrastructure/config"
)

func TestNewTheme(t *testing.T) {
	cfg := config.DefaultConfig()
	theme := NewTheme(cfg)
	assert.Equal(t, lipgloss.Color(cfg.Appearance.Palette.Accent), theme.Accent)

	cfg.Appearance.Palette.Accent = ""
	theme = NewTheme(cfg)
	assert.Equal(t, lipgloss.Color(DefaultPalette().Accent), theme.Accent)

	cfg.Appearance.NoColor = true
	theme = NewTheme(cfg)
	assert.Equal(t, lipgloss.NoColor{}, theme.Accent)

	assert.NotNil(t, NewTheme(nil))
}

func TestRelativeTo(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{14 * 24 * time.Hour, "2w ago"},
		{60 * 24 * time.Hour, "2mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeTo(now, now.Add(-tt.ago)))
		})
	}
	assert.Equal(t, "never", relativeTo(now, time.Time{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "logo.png", truncate("logo.png", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestRenderHistory(t *testing.T) {
	theme := NewPlainTheme()

	assert.Contains(t, theme.RenderHistory(nil, nil), "No conversions yet")

	records := []*entity.ConversionRecord{{
		ID:         7,
		SourceName: "logo.png",
		Background: entity.BackgroundTransparent,
		Sizes:      []entity.IconSize{16, 32},
		IcoBytes:   2048,
		CreatedAt:  time.Now(),
	}}
	out := theme.RenderHistory(records, &entity.HistoryStats{TotalRuns: 1, TotalIcoBytes: 2048, LastRun: time.Now()})
	assert.Contains(t, out, "logo.png")
	assert.Contains(t, out, "16,32")
	assert.Contains(t, out, "transparent")
	assert.Contains(t, out, "1 stored")
}

func TestRenderDirectory(t *testing.T) {
	theme := NewPlainTheme()
	entries := []entity.DirectoryEntry{
		{Width: 16, Height: 16, Planes: 1, BitCount: 32, Size: 1128, Offset: 38},
		{Width: 0, Height: 0, Planes: 1, BitCount: 32, Size: 270376, Offset: 1166},
	}

	out := theme.RenderDirectory("favicon.ico", entries, 271542)
	assert.Contains(t, out, "favicon.ico")
	assert.Contains(t, out, "2 images")
	assert.Contains(t, out, "16x16")
	assert.Contains(t, out, "256x256")
}

func TestConvertRenderer(t *testing.T) {
	r := NewConvertRenderer(NewPlainTheme())
	out := &usecase.ConvertFileOutput{
		Run: &entity.ConversionRun{
			SourceName: "logo.png",
			MediaType:  "image/png",
			Background: entity.BackgroundWhite,
			Artifacts: []*entity.Artifact{
				{Size: 16, PNG: make([]byte, 100), ICO: make([]byte, 1128)},
				{Size: 48, PNG: make([]byte, 300), ICO: make([]byte, 9256)},
			},
			ICO:      make([]byte, 10422),
			Failures: []*entity.SizeError{{Size: 256, Err: entity.ErrEncodingFailure}},
		},
		Export: &usecase.ExportBundleOutput{Path: "/tmp/icons/logo", Files: []string{"a", "b"}, Bytes: 4096},
	}

	rendered := r.Render(out)
	assert.Contains(t, rendered, "logo.png")
	assert.Contains(t, rendered, "2 sizes")
	assert.Contains(t, rendered, "48x48")
	assert.Contains(t, rendered, "size 256x256")
	assert.Contains(t, rendered, "/tmp/icons/logo")
	assert.Contains(t, rendered, "2 files")

	assert.Contains(t, r.RenderError("logo.gif", errors.New("unsupported")), "unsupported")
}

func TestConfigSchemaRenderer(t *testing.T) {
	r := NewConfigSchemaRenderer(NewPlainTheme())
	keys := []entity.ConfigKeyInfo{
		{Key: "watch.debounce_ms", Type: "int", Default: "500", Range: "0-60000", Section: "Watch"},
		{Key: "conversion.background", Type: "string", Default: "white",
			Values: []string{"white", "transparent"}, Section: "Conversion"},
	}

	out := r.Render(keys)
	assert.Contains(t, out, "Config Schema Reference")
	assert.Contains(t, out, "Values: white, transparent")
	assert.Contains(t, out, "Range: 0-60000")
	assert.Less(t, strings.Index(out, "Conversion"), strings.Index(out, "Watch"))

	js, err := r.RenderJSON(keys)
	require.NoError(t, err)
	assert.Contains(t, js, `"key": "watch.debounce_ms"`)

	assert.Contains(t, r.Render(nil), "No configuration keys found")
}

func TestConfigRenderer_RenderPaths(t *testing.T) {
	r := NewConfigRenderer(NewPlainTheme())
	out := r.RenderPaths([]PathInfo{
		{Label: "config", Path: "/home/u/.config/ico256/config.toml", Exists: true},
		{Label: "database", Path: "/home/u/.local/share/ico256/ico256.db", Exists: true, Size: 2048},
	})
	assert.Contains(t, out, "config.toml")
	assert.Contains(t, out, "2.0 KiB")
}

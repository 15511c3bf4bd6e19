package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/domain/validation"
)

var (
	inspectJSON    bool
	inspectExtract string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ico>",
	Short: "Show the image directory of an icon file",
	Long: `Print every image stored in an .ico file: dimensions, bit depth,
byte size and offset.

With --extract, each image is also decoded and written as a PNG named
<stem>-<w>x<h>.png into the given directory.

Examples:
  ico256 inspect favicon.ico
  ico256 inspect favicon.ico --json
  ico256 inspect favicon.ico --extract ./frames`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output the directory as JSON")
	inspectCmd.Flags().StringVar(&inspectExtract, "extract", "", "write every image as PNG into this directory")
}

func runInspect(_ *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()
	path := args[0]

	data, err := app.FS.ReadFile(ctx, path, validation.MaxSourceBytes)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > validation.MaxSourceBytes {
		return fmt.Errorf("%s is larger than %s", path, validation.FormatBytes(validation.MaxSourceBytes))
	}

	out, err := app.Inspect.Execute(ctx, usecase.InspectIconInput{Data: data, Decode: inspectExtract != ""})
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	if inspectExtract != "" {
		stem := source.Stem(filepath.Base(path))
		files := make([]bundle.File, 0, len(out.Images))
		for _, img := range out.Images {
			encoded, err := app.Encoder.EncodePNG(ctx, img.Image)
			if err != nil {
				return fmt.Errorf("encode image %dx%d: %w", img.Entry.EdgeWidth(), img.Entry.EdgeHeight(), err)
			}
			files = append(files, bundle.File{
				Path: fmt.Sprintf("%s-%dx%d.png", stem, img.Entry.EdgeWidth(), img.Entry.EdgeHeight()),
				Data: encoded,
			})
		}
		if err := app.Writer.WriteDir(ctx, inspectExtract, files); err != nil {
			return fmt.Errorf("extract images: %w", err)
		}
	}

	if inspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"file":        path,
			"total_bytes": out.TotalBytes,
			"entries":     out.Entries,
		})
	}

	fmt.Println(app.Theme.RenderDirectory(filepath.Base(path), out.Entries, out.TotalBytes))
	if inspectExtract != "" {
		fmt.Printf("\nExtracted %d images to %s\n", len(out.Images), inspectExtract)
	}
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bnema/ico256/internal/application/port"
	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/cli"
	"github.com/bnema/ico256/internal/cli/model"
	"github.com/bnema/ico256/internal/cli/styles"
	"github.com/bnema/ico256/internal/domain/bundle"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/domain/validation"
)

var convertJSON bool

var convertCmd = &cobra.Command{
	Use:   "convert <image|dir|url>...",
	Short: "Convert images into icon bundles",
	Long: `Convert one or more images into icon bundles.

Each source produces a folder (or zip) named after it inside the output
directory, holding favicon.ico and PNG renditions per platform. A directory
argument converts every supported image directly inside it.

Flags override the [conversion] and [output] sections of the config file.

Examples:
  ico256 convert logo.png                      # ./icons/logo/...
  ico256 convert logo.svg --transparent --zip  # ./icons/logo.zip
  ico256 convert https://example.com/logo.png
  ico256 convert ./assets -o ./dist/icons --sizes 16,32,48
  ico256 convert logo.png --flat --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addConversionFlags(convertCmd.Flags())
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "output results as JSON")
}

// addConversionFlags registers the flags shared by convert and watch.
func addConversionFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "output directory (default from config)")
	flags.Bool("transparent", false, "keep transparency instead of flattening onto white")
	flags.StringSlice("sizes", nil, "icon sizes to produce, e.g. 16,32,256")
	flags.Bool("zip", false, "write a zip archive instead of loose files")
	flags.Bool("flat", false, "put every file in one folder instead of per-platform folders")
	flags.Bool("keep", false, "keep an existing bundle and write next to it")
}

// applyConversionFlags overrides settings with the flags the user set.
func applyConversionFlags(flags *pflag.FlagSet, s cli.Settings) (cli.Settings, error) {
	if flags.Changed("output") {
		dir, _ := flags.GetString("output")
		s.OutputDir = dir
	}
	if flags.Changed("transparent") {
		transparent, _ := flags.GetBool("transparent")
		s.Background = entity.BackgroundWhite
		if transparent {
			s.Background = entity.BackgroundTransparent
		}
	}
	if flags.Changed("sizes") {
		values, _ := flags.GetStringSlice("sizes")
		sizes, err := entity.ParseIconSizes(values)
		if err != nil {
			return s, fmt.Errorf("--sizes: %w", err)
		}
		s.Sizes = sizes
	}
	if flags.Changed("zip") {
		s.Zip, _ = flags.GetBool("zip")
	}
	if flags.Changed("flat") {
		if flat, _ := flags.GetBool("flat"); flat {
			s.Layout = bundle.LayoutFlat
		} else {
			s.Layout = bundle.LayoutBundle
		}
	}
	if flags.Changed("keep") {
		s.KeepExisting, _ = flags.GetBool("keep")
	}
	return s, nil
}

// expandSources replaces directory arguments with the supported images
// directly inside them, sorted by name. URLs and files pass through.
func expandSources(ctx context.Context, fs port.FileSystem, args []string) ([]string, error) {
	refs := make([]string, 0, len(args))
	for _, arg := range args {
		if source.IsRemote(arg) {
			refs = append(refs, arg)
			continue
		}
		isDir, err := fs.IsDirectory(ctx, arg)
		if err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return nil, err
		}
		// Missing files are reported by the conversion itself.
		if !isDir {
			refs = append(refs, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") {
				continue
			}
			if validation.IsAcceptedMediaType(source.MediaTypeFromName(name)) {
				found = append(found, filepath.Join(arg, name))
			}
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no supported images in %s", arg)
		}
		slices.Sort(found)
		refs = append(refs, found...)
	}
	return refs, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	settings, err := app.Settings()
	if err != nil {
		return err
	}
	if settings, err = applyConversionFlags(cmd.Flags(), settings); err != nil {
		return err
	}

	ctx, stop := signalContext(app)
	defer stop()

	refs, err := expandSources(ctx, app.FS, args)
	if err != nil {
		return err
	}

	if len(refs) == 1 && !convertJSON && isatty.IsTerminal(os.Stdout.Fd()) {
		return convertInteractive(ctx, app, settings.Input(refs[0]))
	}
	return convertBatch(ctx, app, settings, refs)
}

// convertInteractive shows a spinner while a single conversion runs.
func convertInteractive(ctx context.Context, app *cli.App, input usecase.ConvertFileInput) error {
	m := model.NewConvertModel(ctx, app.Theme, "Converting "+input.Ref, func(ctx context.Context) (*usecase.ConvertFileOutput, error) {
		return app.ConvertFile.Execute(ctx, input)
	})

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("run model: %w", err)
	}
	done, ok := final.(model.ConvertModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}

	renderer := styles.NewConvertRenderer(app.Theme)
	if err := done.Error(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		fmt.Println(renderer.RenderError(input.Ref, err))
		return errConversionFailed
	}
	fmt.Println(renderer.Render(done.Output()))
	return nil
}

var errConversionFailed = errors.New("conversion failed")

func convertBatch(ctx context.Context, app *cli.App, settings cli.Settings, refs []string) error {
	renderer := styles.NewConvertRenderer(app.Theme)
	results := make([]convertResult, 0, len(refs))
	failed := 0

	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		out, err := app.ConvertFile.Execute(ctx, settings.Input(ref))
		if err != nil {
			failed++
		}
		if convertJSON {
			results = append(results, newConvertResult(ref, out, err))
			continue
		}
		if err != nil {
			fmt.Println(renderer.RenderError(ref, err))
		} else {
			fmt.Println(renderer.Render(out))
		}
		fmt.Println()
	}

	if convertJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(refs))
	}
	return nil
}

// convertResult is the --json shape of one conversion.
type convertResult struct {
	Source     string   `json:"source"`
	RunID      string   `json:"run_id,omitempty"`
	MediaType  string   `json:"media_type,omitempty"`
	Background string   `json:"background,omitempty"`
	Sizes      []int    `json:"sizes,omitempty"`
	ICOBytes   int      `json:"ico_bytes,omitempty"`
	Output     string   `json:"output,omitempty"`
	Files      []string `json:"files,omitempty"`
	Failures   []string `json:"failures,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func newConvertResult(ref string, out *usecase.ConvertFileOutput, err error) convertResult {
	res := convertResult{Source: ref}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	run := out.Run
	res.RunID = run.ID
	res.MediaType = run.MediaType
	res.Background = string(run.Background)
	res.ICOBytes = len(run.ICO)
	for _, a := range run.Artifacts {
		res.Sizes = append(res.Sizes, int(a.Size))
	}
	for _, f := range run.Failures {
		res.Failures = append(res.Failures, f.Error())
	}
	if out.Export != nil {
		res.Output = out.Export.Path
		res.Files = out.Export.Files
	}
	return res
}

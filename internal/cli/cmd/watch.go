package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/cli"
	"github.com/bnema/ico256/internal/cli/styles"
	"github.com/bnema/ico256/internal/infrastructure/watcher"
	"github.com/bnema/ico256/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert images as they appear in a directory",
	Long: `Watch a directory and convert every image written to it.

A file is converted once it has not changed for watch.debounce_ms
milliseconds, so large copies are not picked up half-written. Hidden files
and temporary files are ignored. Subdirectories are not watched.

Conversion defaults are re-read when the config file changes.

Examples:
  ico256 watch ./incoming
  ico256 watch ./incoming -o ./icons --zip`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationLogs: "stderr"},
	RunE:        runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addConversionFlags(watchCmd.Flags())
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	// Validate the flags once up front; they are re-applied per file.
	settings, err := app.Settings()
	if err != nil {
		return err
	}
	if _, err := applyConversionFlags(cmd.Flags(), settings); err != nil {
		return err
	}

	if err := app.WatchConfig(); err != nil {
		logging.FromContext(app.Ctx()).Warn().Err(err).Msg("config hot reload disabled")
	}

	ctx, stop := signalContext(app)
	defer stop()

	debounce := time.Duration(app.Config().Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New(args[0], debounce, watchHandler(cmd, app))
	if err != nil {
		return err
	}

	fmt.Println(app.Theme.Subtle.Render(fmt.Sprintf("Watching %s (ctrl+c to stop)", w.Dir())))
	return w.Run(ctx)
}

// watchHandler converts one settled file with the current settings.
func watchHandler(cmd *cobra.Command, app *cli.App) watcher.Handler {
	renderer := styles.NewConvertRenderer(app.Theme)
	return func(ctx context.Context, path string) error {
		settings, err := app.Settings()
		if err != nil {
			return err
		}
		if settings, err = applyConversionFlags(cmd.Flags(), settings); err != nil {
			return err
		}

		out, err := app.ConvertFile.Execute(ctx, settings.Input(path))
		if err != nil {
			fmt.Println(renderer.RenderError(path, err))
			return err
		}
		fmt.Println(renderer.Render(out))
		fmt.Println()
		return nil
	}
}

// Package cmd provides Cobra CLI commands for ico256.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/cli"
	"github.com/bnema/ico256/internal/domain/build"
)

// annotationLogs set to "stderr" makes a command log to the terminal by default.
const annotationLogs = "logs"

var (
	app       *cli.App
	buildInfo build.Info
	verbose   bool
	rootCmd   = &cobra.Command{
		Use:   "ico256",
		Short: "Turn any image into a complete set of icons",
		Long: `ico256 - one image in, every icon size out.

Converts a PNG, JPEG, WebP, GIF, BMP or SVG image into 16, 32, 48, 64, 128
and 256 px renditions and packages them as:
  - a multi-size Windows .ico (favicon.ico)
  - loose PNGs for Linux, macOS and the web
  - optionally a single zip archive

Sources can be local files, directories or http(s) URLs. Recent conversions
are kept in a small history database.

Use 'ico256 convert logo.png' to get started, 'ico256 serve' for the HTTP
API, or 'ico256 watch <dir>' to convert images as they are dropped in.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				Verbose: verbose || cmd.Annotations[annotationLogs] == "stderr",
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}

// signalContext derives a context from the app context that is canceled on
// SIGINT or SIGTERM.
func signalContext(a *cli.App) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(a.Ctx(), os.Interrupt, syscall.SIGTERM)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/cli"
	"github.com/bnema/ico256/internal/cli/model"
	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/domain/validation"
)

var (
	historyJSON    bool
	historyMax     int
	historyExports bool
	historyYes     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions",
	Long: `List the most recent conversions, newest first.

Only the last history.max_entries conversions are kept; older ones are
pruned automatically after each conversion.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyFindCmd = &cobra.Command{
	Use:   "find <image>",
	Short: "Check whether an image was converted before",
	Long:  `Look up the newest conversion of an image by the BLAKE2b digest of its bytes.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryFind,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry",
	Long: `Delete every history entry. With --exports, the exported bundles
recorded in the history are removed from disk as well.`,
	Args: cobra.NoArgs,
	RunE: runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyFindCmd, historyDeleteCmd, historyClearCmd)

	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().IntVar(&historyMax, "max", 0, "maximum entries to show (default history.max_entries)")
	historyFindCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyClearCmd.Flags().BoolVar(&historyExports, "exports", false, "also remove exported bundles")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "skip confirmation prompt")
}

func historyApp() (*cli.App, error) {
	app, err := requireApp()
	if err != nil {
		return nil, err
	}
	if app.History == nil {
		return nil, fmt.Errorf("history is disabled (set history.enabled = true)")
	}
	return app, nil
}

func runHistory(_ *cobra.Command, _ []string) error {
	app, err := historyApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	records, err := app.History.Recent(ctx, historyMax)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if historyJSON {
		return writeJSON(records)
	}

	stats, err := app.History.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load history stats: %w", err)
	}
	fmt.Println(app.Theme.RenderHistory(records, stats))
	return nil
}

func runHistoryFind(_ *cobra.Command, args []string) error {
	app, err := historyApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	data, err := app.FS.ReadFile(ctx, args[0], validation.MaxSourceBytes)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	record, err := app.History.FindByDigest(ctx, usecase.SourceDigest(data))
	if err != nil {
		return fmt.Errorf("search history: %w", err)
	}

	if historyJSON {
		return writeJSON(record)
	}
	if record == nil {
		fmt.Println(app.Theme.Subtle.Render("No conversion of " + args[0] + " in history"))
		return nil
	}
	fmt.Println(app.Theme.RenderHistory([]*entity.ConversionRecord{record}, nil))
	return nil
}

func runHistoryDelete(_ *cobra.Command, args []string) error {
	app, err := historyApp()
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid history id %q", args[0])
	}
	if err := app.History.Delete(app.Ctx(), id); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	fmt.Println(app.Theme.SuccessStyle.Render(fmt.Sprintf("Deleted entry %d", id)))
	return nil
}

func runHistoryClear(_ *cobra.Command, _ []string) error {
	app, err := historyApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	if !historyYes {
		prompt := "Delete all history entries?"
		if historyExports {
			prompt = "Delete all history entries and their exported bundles?"
		}
		ok, err := confirm(app, prompt)
		if err != nil || !ok {
			return err
		}
	}

	if historyExports {
		records, err := app.History.Recent(ctx, app.History.MaxEntries())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		for _, r := range records {
			if r.ExportPath == "" {
				continue
			}
			if err := app.FS.RemoveAll(ctx, r.ExportPath); err != nil {
				fmt.Println(app.Theme.ErrorStyle.Render(fmt.Sprintf("remove %s: %v", r.ExportPath, err)))
			}
		}
	}

	if err := app.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	fmt.Println(app.Theme.RenderCleared())
	return nil
}

// confirm asks a yes/no question on the terminal.
func confirm(app *cli.App, prompt string) (bool, error) {
	final, err := tea.NewProgram(model.NewConfirmModel(app.Theme, prompt)).Run()
	if err != nil {
		return false, fmt.Errorf("run prompt: %w", err)
	}
	m, ok := final.(model.ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type")
	}
	return m.Accepted(), nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/domain/entity"
)

var (
	purgeForce   bool
	purgeTargets []string
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove ico256 config, history, logs and cache",
	Long: `Remove the directories ico256 keeps under XDG base directories.

Exported icon bundles are never touched; use 'ico256 history clear --exports'
for those.

Examples:
  ico256 purge                       # show targets, then confirm
  ico256 purge --only data,state     # history database and logs only
  ico256 purge --force               # remove everything without asking`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "remove without confirmation")
	purgeCmd.Flags().StringSliceVar(&purgeTargets, "only", nil, "targets to remove: config, data, state, cache")
}

func runPurge(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := app.Ctx()

	types, err := parsePurgeTargets(purgeTargets)
	if err != nil {
		return err
	}

	targets, err := app.Purge.GetPurgeTargets(ctx)
	if err != nil {
		return fmt.Errorf("list purge targets: %w", err)
	}
	fmt.Println(app.Theme.RenderPurgeTargets(selectTargets(targets, types)))

	if !purgeForce {
		ok, err := confirm(app, "Remove these directories?")
		if err != nil || !ok {
			return err
		}
	}

	if err := app.CloseDatabase(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	out, err := app.Purge.Execute(ctx, usecase.PurgeInput{TargetTypes: types})
	fmt.Println(app.Theme.RenderPurgeResult(out))
	return err
}

func parsePurgeTargets(names []string) ([]entity.PurgeTargetType, error) {
	if len(names) == 0 {
		return []entity.PurgeTargetType{
			entity.PurgeTargetConfig,
			entity.PurgeTargetData,
			entity.PurgeTargetState,
			entity.PurgeTargetCache,
		}, nil
	}
	types := make([]entity.PurgeTargetType, 0, len(names))
	for _, name := range names {
		t, ok := entity.ParsePurgeTargetType(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown purge target %q (use: config, data, state, cache)", name)
		}
		types = append(types, t)
	}
	return types, nil
}

func selectTargets(targets []entity.PurgeTarget, types []entity.PurgeTargetType) []entity.PurgeTarget {
	selected := make([]entity.PurgeTarget, 0, len(targets))
	for _, t := range targets {
		for _, want := range types {
			if t.Type == want {
				selected = append(selected, t)
				break
			}
		}
	}
	return selected
}

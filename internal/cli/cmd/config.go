package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/application/usecase"
	"github.com/bnema/ico256/internal/cli"
	"github.com/bnema/ico256/internal/cli/styles"
	"github.com/bnema/ico256/internal/infrastructure/config"
)

var (
	configSchemaJSON       bool
	configSchemaJSONSchema bool
	configSchemaSection    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Show where ico256 keeps its files and what can be configured.

The config file is created with defaults on first run at
$XDG_CONFIG_HOME/ico256/config.toml. Every key can also be set through an
ICO256_<SECTION>_<KEY> environment variable.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config, database and log locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List every configuration key with its type and default",
	Long: `List every configuration key with its type, default and allowed values.

Examples:
  ico256 config schema
  ico256 config schema --section conversion
  ico256 config schema --json
  ico256 config schema --jsonschema > config.schema.json`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd, configSchemaCmd)

	configSchemaCmd.Flags().BoolVar(&configSchemaJSON, "json", false, "output keys as JSON")
	configSchemaCmd.Flags().BoolVar(&configSchemaJSONSchema, "jsonschema", false, "output the JSON Schema of the config file")
	configSchemaCmd.Flags().StringVar(&configSchemaSection, "section", "", "only show one section")
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	paths, err := collectPaths(app)
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}
	fmt.Println(renderer.RenderPaths(paths))
	fmt.Println()
	fmt.Println(renderer.RenderSizeLimit(app.Config().Conversion.MaxSourceBytes))
	return nil
}

func collectPaths(app *cli.App) ([]styles.PathInfo, error) {
	ctx := app.Ctx()
	configFile, err := config.GetConfigFile()
	if err != nil {
		return nil, err
	}
	logDir, err := app.XDG.LogDir()
	if err != nil {
		return nil, err
	}
	cacheDir, err := app.XDG.CacheDir()
	if err != nil {
		return nil, err
	}

	entries := []styles.PathInfo{
		{Label: "config", Path: configFile},
		{Label: "database", Path: app.Config().Database.Path},
		{Label: "logs", Path: logDir},
		{Label: "cache", Path: cacheDir},
	}
	for i := range entries {
		exists, err := app.FS.Exists(ctx, entries[i].Path)
		if err != nil {
			return nil, err
		}
		entries[i].Exists = exists
		if exists {
			if entries[i].Size, err = app.FS.GetSize(ctx, entries[i].Path); err != nil {
				return nil, err
			}
		}
	}
	return entries, nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewConfigRenderer(app.Theme)

	path, err := config.GetConfigFile()
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}
	fmt.Println(renderer.RenderFile(path, string(content)))
	return nil
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	out, err := app.ConfigSchema.Execute(app.Ctx(), usecase.GetConfigSchemaInput{
		Section:           sectionName(configSchemaSection),
		IncludeJSONSchema: configSchemaJSONSchema,
	})
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	if configSchemaJSONSchema {
		fmt.Println(string(out.JSONSchema))
		return nil
	}

	renderer := styles.NewConfigSchemaRenderer(app.Theme)
	if configSchemaJSON {
		text, err := renderer.RenderJSON(out.Keys)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}
	fmt.Println(renderer.Render(out.Keys))
	return nil
}

// sectionName maps "conversion" or "CONVERSION" to "Conversion".
func sectionName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

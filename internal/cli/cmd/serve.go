package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/bnema/ico256/internal/infrastructure/httpapi"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion API",
	Long: `Serve the conversion pipeline over HTTP.

Endpoints:
  GET  /health                 liveness probe
  POST /api/v1/convert         multipart "file" upload; returns favicon.ico,
                               ?format=zip for the full bundle or
                               ?format=json for a summary with previews
  GET  /api/v1/conversions     recent conversions (?limit=N)

Form fields "background" (white|transparent) and "sizes" (16,32,...)
override the configured defaults per request.

Examples:
  ico256 serve
  ico256 serve --listen 127.0.0.1:9000
  curl -F file=@logo.png localhost:8256/api/v1/convert -o favicon.ico`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationLogs: "stderr"},
	RunE:        runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default server.listen)")
}

func runServe(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}

	cfg := app.Config()
	settings, err := app.Settings()
	if err != nil {
		return err
	}

	addr := cfg.Server.Listen
	if serveListen != "" {
		addr = serveListen
	}
	if addr == "" {
		return fmt.Errorf("no listen address (set server.listen or --listen)")
	}

	ctx, stop := signalContext(app)
	defer stop()

	gin.SetMode(gin.ReleaseMode)
	srv := httpapi.NewServer(app.Convert, app.History, app.Writer, settings.ServerOptions(cfg.Server))
	return srv.ListenAndServe(ctx, addr)
}

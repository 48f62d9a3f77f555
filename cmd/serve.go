package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/moodcast/moodcast/internal/app"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server exposing audio mood prediction and music
recommendation endpoints.

Endpoints:
  GET  /health                        liveness probe
  POST /predict_audio                 multipart audio upload, mood inference
  POST /recommend_v3/search_by_mood   JSON hints, ranked recommendations
  POST /recommend_v3/from_audio       audio upload plus hints, full pipeline
  GET  /search/tracks                 catalog track search passthrough
  GET  /search/artists                catalog artist search passthrough
  GET  /auth/login                    start the authorization-code flow
  GET  /auth/callback                 finish the flow and persist the token

Examples:
  # Serve on the default port
  moodcast serve

  # Serve on a custom address with debug logging
  moodcast serve --addr :9000 --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.RunServer(ctx)
}

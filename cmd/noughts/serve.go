package main

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/zermelo-games/noughts-backend/internal"
	"github.com/zermelo-games/noughts-backend/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the multiplayer backend",
	Long: `Start the multiplayer backend: the REST server, the WebSocket game
server and the archive janitor, wired to redis and sqlite from the
config file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	conf := config.MustLoad(cfgFile)
	logger := newLogger(conf.LogLevel)

	if err := app.RunApp(logger, conf); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

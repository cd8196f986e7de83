package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zermelo-games/noughts-backend/internal/console"
	"github.com/zermelo-games/noughts-backend/internal/engine"
)

var playFlags struct {
	seat string
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Play one game of noughts and crosses against the move engine.

The seat decides who opens:

  noughts play --seat first    you open as X
  noughts play --seat second   the engine opens, you answer as O
  noughts play --seat both     the engine plays itself`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&playFlags.seat, "seat", "first", "who takes the first move: first, second or both")
}

func runPlay(_ *cobra.Command, _ []string) error {
	seat, err := console.ParseSeat(playFlags.seat)
	if err != nil {
		return err
	}

	game, err := console.NewGame(seat, engine.New(), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	return game.Run()
}

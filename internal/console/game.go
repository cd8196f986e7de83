package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zermelo-games/noughts-backend/internal/board"
	"github.com/zermelo-games/noughts-backend/internal/engine"
)

// Seat says which side of the board the human takes.
type Seat string

const (
	SeatFirst  Seat = "first"  // human opens as X
	SeatSecond Seat = "second" // engine opens, human answers as O
	SeatBoth   Seat = "both"   // engine plays itself
)

const movePrompt = "move? "

var (
	ErrUnknownSeat = errors.New("unknown seat")

	errInputClosed = errors.New("input closed before the game ended")
)

// moveSource produces the next cell for whoever is up.
type moveSource func(b *board.Board, mover board.Mark) (int, error)

// Game plays one text-mode match on a terminal. Moves alternate between
// two sources, human or engine depending on the seat.
type Game struct {
	in      *bufio.Scanner
	out     io.Writer
	sources [2]moveSource
}

func NewGame(seat Seat, eng *engine.Engine, in io.Reader, out io.Writer) (*Game, error) {
	game := &Game{
		in:  bufio.NewScanner(in),
		out: out,
	}

	engineMove := func(b *board.Board, mover board.Mark) (int, error) {
		return eng.Move(b, mover)
	}

	switch seat {
	case SeatFirst:
		game.sources = [2]moveSource{game.promptMove, engineMove}
	case SeatSecond:
		game.sources = [2]moveSource{engineMove, game.promptMove}
	case SeatBoth:
		game.sources = [2]moveSource{engineMove, engineMove}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeat, seat)
	}

	return game, nil
}

// ParseSeat maps a command line argument onto a seat.
func ParseSeat(raw string) (Seat, error) {
	switch seat := Seat(raw); seat {
	case SeatFirst, SeatSecond, SeatBoth:
		return seat, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeat, raw)
	}
}

// Run plays a single game to the end, rendering the board after every
// move and announcing the winner. A full board without a winner ends
// the game quietly.
func (that *Game) Run() error {
	b := board.New()

	for !b.Full() {
		mover := b.PlayerUp()

		cell, err := that.sources[b.Turns()%2](b, mover)
		if err != nil {
			return err
		}

		claimed, err := b.Claim(cell, mover)
		if err != nil {
			return fmt.Errorf("claim cell %d: %w", cell, err)
		}

		fmt.Fprintf(that.out, "%s\n\n", b)

		if b.IsWinningCell(claimed.Index) {
			fmt.Fprintf(that.out, "%s Wins!\n", claimed.Mark)
			return nil
		}
	}

	return nil
}

// promptMove keeps asking until the human names a free cell. Bad input
// never ends the game, it just repeats the prompt.
func (that *Game) promptMove(b *board.Board, _ board.Mark) (int, error) {
	for {
		fmt.Fprint(that.out, movePrompt)

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return 0, fmt.Errorf("read move: %w", err)
			}
			return 0, errInputClosed
		}

		cell, err := strconv.Atoi(strings.TrimSpace(that.in.Text()))
		if err != nil || cell < 0 || cell > 8 {
			fmt.Fprintln(that.out, "enter a cell number between 0 and 8")
			continue
		}

		if b.MarkAt(cell) != board.Empty {
			fmt.Fprintf(that.out, "cell %d is taken\n", cell)
			continue
		}

		return cell, nil
	}
}

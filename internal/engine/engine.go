package engine

import (
	"errors"
	"math/rand"
	"time"

	"github.com/zermelo-games/noughts-backend/internal/board"
)

// ErrNoMoves is returned when the board has no free cell left to pick.
var ErrNoMoves = errors.New("no moves available")

// Tactic names, in the order the engine tries them. The first tactic
// whose condition holds decides the move.
const (
	TacticOpening       = "opening"
	TacticWin           = "win"
	TacticBlock         = "block"
	TacticFork          = "fork"
	TacticBlockDiagonal = "block-diagonal-fork"
	TacticBlockFork     = "block-fork"
	TacticPreferred     = "preferred"
)

// Observer is notified which tactic produced a move. Used for logging
// and move counters; a nil observer is fine.
type Observer func(tactic string, cell int)

type tactic struct {
	name string
	pick func(b *board.Board, mover board.Mark) (int, bool)
}

// Engine picks moves by walking a fixed list of tactics. Two engines
// built with the same random source produce the same moves, which keeps
// games replayable.
type Engine struct {
	rng     *rand.Rand
	observe Observer
	tactics []tactic
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source used by the opening and the
// diagonal block. Tests pass a seeded source to pin the result.
func WithRand(rng *rand.Rand) Option {
	return func(that *Engine) {
		that.rng = rng
	}
}

// WithObserver registers a callback fired once per produced move.
func WithObserver(observe Observer) Option {
	return func(that *Engine) {
		that.observe = observe
	}
}

// New returns an engine with the default tactic order.
func New(opts ...Option) *Engine {
	that := &Engine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // game moves, not secrets
	}

	for _, opt := range opts {
		opt(that)
	}

	that.tactics = []tactic{
		{name: TacticOpening, pick: that.openingMove},
		{name: TacticWin, pick: winMove},
		{name: TacticBlock, pick: blockMove},
		{name: TacticFork, pick: forkMove},
		{name: TacticBlockDiagonal, pick: that.blockDiagonalForkMove},
		{name: TacticBlockFork, pick: blockForkMove},
		{name: TacticPreferred, pick: preferredMove},
	}

	return that
}

// Move returns the cell the mover should claim next. The tactics are
// tried in order and the first match wins, so the choice is
// deterministic apart from the two random tactics. Move never mutates
// the board; claiming the cell is the caller's job.
func (that *Engine) Move(b *board.Board, mover board.Mark) (int, error) {
	for _, t := range that.tactics {
		cell, ok := t.pick(b, mover)
		if !ok {
			continue
		}

		if that.observe != nil {
			that.observe(t.name, cell)
		}

		return cell, nil
	}

	return 0, ErrNoMoves
}

package engine

import "github.com/zermelo-games/noughts-backend/internal/board"

var (
	corners = [4]int{0, 2, 6, 8}
	edges   = [4]int{1, 3, 5, 7}

	// preference orders the fallback scan: center first, then corners,
	// then edges.
	preference = [9]int{4, 0, 2, 6, 8, 1, 3, 5, 7}
)

// openingMove picks a random corner, but only for the very first move
// of a game.
func (that *Engine) openingMove(b *board.Board, _ board.Mark) (int, bool) {
	if b.Turns() != 0 {
		return 0, false
	}
	return corners[that.rng.Intn(len(corners))], true
}

// winMove completes the mover's own line when one is a single cell away.
func winMove(b *board.Board, mover board.Mark) (int, bool) {
	return closingCell(b, mover)
}

// blockMove denies the opponent a line that is a single cell away.
func blockMove(b *board.Board, mover board.Mark) (int, bool) {
	return closingCell(b, board.Opponent(mover))
}

// closingCell returns the free cell of the first line where owner holds
// the other two.
func closingCell(b *board.Board, owner board.Mark) (int, bool) {
	for _, l := range board.Lines {
		stats := b.Stats(l)
		if stats.Owned(owner) != 2 || stats.Empty != 1 {
			continue
		}

		for _, pos := range l {
			if b.MarkAt(pos) == board.Empty {
				return pos, true
			}
		}
	}

	return 0, false
}

// forkMove claims the lowest free cell that would put the mover on two
// or more lines at once, each one move from winning.
func forkMove(b *board.Board, mover board.Mark) (int, bool) {
	for _, pos := range b.EmptyCells() {
		if makesFork(b, pos, mover) {
			return pos, true
		}
	}
	return 0, false
}

// blockForkMove claims the cell the opponent needs for such a double
// threat before they can take it.
func blockForkMove(b *board.Board, mover board.Mark) (int, bool) {
	opponent := board.Opponent(mover)
	for _, pos := range b.EmptyCells() {
		if makesFork(b, pos, opponent) {
			return pos, true
		}
	}
	return 0, false
}

// makesFork reports whether claiming pos would give owner at least two
// lines holding exactly one owner mark and two empties. After the claim
// each of those lines threatens a win, and a single block cannot cover
// both.
func makesFork(b *board.Board, pos int, owner board.Mark) bool {
	open := 0
	for _, l := range b.LinesThrough(pos) {
		stats := b.Stats(l)
		if stats.Owned(owner) == 1 && stats.Empty == 2 {
			open++
		}
	}
	return open >= 2
}

// blockDiagonalForkMove answers the opposite-corner trap: the mover
// holds the center, the opponent holds both ends of a diagonal, and six
// cells are still free. Any corner reply loses to a fork, so the engine
// claims a random edge, which forces the opponent to defend.
func (that *Engine) blockDiagonalForkMove(b *board.Board, mover board.Mark) (int, bool) {
	if b.Turns() != 3 || b.MarkAt(4) != mover {
		return 0, false
	}

	opponent := board.Opponent(mover)
	for _, diag := range board.Diagonals {
		if b.MarkAt(diag[0]) == opponent && b.MarkAt(diag[2]) == opponent {
			return edges[that.rng.Intn(len(edges))], true
		}
	}

	return 0, false
}

// preferredMove is the fallback: walk the fixed preference order and
// take the first free cell that still sits on a winnable line for the
// mover. When every free cell is dead, take the first free one. Fails
// only on a full board.
func preferredMove(b *board.Board, mover board.Mark) (int, bool) {
	winnable := possibleWins(b, mover)

	for _, pos := range preference {
		if winnable[pos] {
			return pos, true
		}
	}

	for _, pos := range preference {
		if b.MarkAt(pos) == board.Empty {
			return pos, true
		}
	}

	return 0, false
}

// possibleWins marks the free cells lying on at least one line with no
// opponent mark on it.
func possibleWins(b *board.Board, mover board.Mark) [9]bool {
	var winnable [9]bool

	opponent := board.Opponent(mover)
	for _, l := range board.Lines {
		if b.Stats(l).Owned(opponent) != 0 {
			continue
		}

		for _, pos := range l {
			if b.MarkAt(pos) == board.Empty {
				winnable[pos] = true
			}
		}
	}

	return winnable
}

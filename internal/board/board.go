package board

import (
	"errors"
	"fmt"
)

// Mark identifies the owner of a cell. The empty string means unowned.
type Mark string

const (
	MarkX Mark = "X"
	MarkO Mark = "O"
	Empty Mark = ""
)

const cellCount = 9

var (
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrCellOutOfRange = errors.New("cell index out of range")
	ErrUnknownMark    = errors.New("unknown mark")
)

// Line is a fixed triple of cell indices. A player wins by owning all
// three cells of a line.
type Line [3]int

// Lines enumerates the 8 winnable triples in scan order: 3 rows, then
// 3 columns, then the 2 diagonals. Tactic tie-breaks rely on this order.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Diagonals are the last two entries of Lines, both passing through the
// center cell 4.
var Diagonals = [2]Line{
	{0, 4, 8},
	{2, 4, 6},
}

// Cell is the receipt returned by Claim: which position was marked, and
// by whom. It lets the caller test for a win without a second lookup.
type Cell struct {
	Index int
	Mark  Mark
}

// LineStats counts the occupancy of one line. The three counts always
// sum to 3.
type LineStats struct {
	X     int
	O     int
	Empty int
}

// Owned returns the count for the given mark, or the empty count when
// the mark is neither player.
func (that LineStats) Owned(m Mark) int {
	switch m {
	case MarkX:
		return that.X
	case MarkO:
		return that.O
	default:
		return that.Empty
	}
}

// Board is the 3x3 game state. Cells live in a flat row-major array and
// lines are index triples into it, so no cell object is ever shared
// between owning collections.
type Board struct {
	cells [cellCount]Mark
	turns int
}

// New returns an empty board with X to move.
func New() *Board {
	return &Board{}
}

// FromSnapshot rebuilds a board from its wire shape. The turn counter is
// derived from the number of owned cells. Unknown marks are rejected.
func FromSnapshot(cells [cellCount]string) (*Board, error) {
	b := &Board{}
	for i, c := range cells {
		switch Mark(c) {
		case Empty:
		case MarkX, MarkO:
			b.cells[i] = Mark(c)
			b.turns++
		default:
			return nil, fmt.Errorf("%w: %q at cell %d", ErrUnknownMark, c, i)
		}
	}
	return b, nil
}

// Claim marks the cell at pos for m and advances the turn counter. A
// cell is marked at most once: claiming an owned cell fails and leaves
// the board untouched.
func (that *Board) Claim(pos int, m Mark) (Cell, error) {
	if pos < 0 || pos >= cellCount {
		return Cell{}, fmt.Errorf("%w: %d", ErrCellOutOfRange, pos)
	}

	if owner := that.cells[pos]; owner != Empty {
		return Cell{}, fmt.Errorf("%w: cell %d held by %s", ErrCellOccupied, pos, owner)
	}

	that.cells[pos] = m
	that.turns++

	return Cell{Index: pos, Mark: m}, nil
}

// MarkAt returns the owner of the cell at pos, or Empty. Out-of-range
// positions read as Empty.
func (that *Board) MarkAt(pos int) Mark {
	if pos < 0 || pos >= cellCount {
		return Empty
	}
	return that.cells[pos]
}

// LinesThrough returns the 1 to 4 lines containing pos, in scan order.
func (that *Board) LinesThrough(pos int) []Line {
	lines := make([]Line, 0, 4)
	for _, l := range Lines {
		if l[0] == pos || l[1] == pos || l[2] == pos {
			lines = append(lines, l)
		}
	}
	return lines
}

// Stats counts the occupancy of one line.
func (that *Board) Stats(l Line) LineStats {
	var stats LineStats
	for _, pos := range l {
		switch that.cells[pos] {
		case MarkX:
			stats.X++
		case MarkO:
			stats.O++
		default:
			stats.Empty++
		}
	}
	return stats
}

// IsWinningCell reports whether some line through pos is fully owned by
// the mark at pos. It is meant to be called right after a claim; for an
// empty cell it is always false.
func (that *Board) IsWinningCell(pos int) bool {
	if pos < 0 || pos >= cellCount {
		return false
	}

	owner := that.cells[pos]
	if owner == Empty {
		return false
	}

	for _, l := range that.LinesThrough(pos) {
		if that.Stats(l).Owned(owner) == 3 {
			return true
		}
	}

	return false
}

// Winner scans the whole board for a completed line. Unlike
// IsWinningCell it does not need to know the last move, which makes it
// the right check for boards rebuilt from snapshots.
func (that *Board) Winner() (Mark, bool) {
	for _, l := range Lines {
		a, b, c := that.cells[l[0]], that.cells[l[1]], that.cells[l[2]]
		if a != Empty && a == b && b == c {
			return a, true
		}
	}
	return Empty, false
}

// EmptyCells returns the unowned cell indices in ascending order.
func (that *Board) EmptyCells() []int {
	empty := make([]int, 0, cellCount-that.turns)
	for i, m := range that.cells {
		if m == Empty {
			empty = append(empty, i)
		}
	}
	return empty
}

// Turns returns how many moves have been made so far.
func (that *Board) Turns() int {
	return that.turns
}

// Full reports whether every cell is owned.
func (that *Board) Full() bool {
	return that.turns == cellCount
}

// PlayerUp returns the mark that moves next. X always moves first.
func (that *Board) PlayerUp() Mark {
	if that.turns%2 == 0 {
		return MarkX
	}
	return MarkO
}

// Snapshot returns the wire shape of the board.
func (that *Board) Snapshot() [cellCount]string {
	var cells [cellCount]string
	for i, m := range that.cells {
		cells[i] = string(m)
	}
	return cells
}

// Opponent returns the other of the two players.
func Opponent(m Mark) Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

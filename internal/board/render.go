package board

import "strings"

const rowDivider = "-----"

// cellGlyph is the printable form of a mark. Empty cells render as a
// space so columns stay aligned.
func cellGlyph(m Mark) string {
	if m == Empty {
		return " "
	}
	return string(m)
}

// Rows returns the board as three rows of three marks, top to bottom.
func (that *Board) Rows() [3][3]Mark {
	var rows [3][3]Mark
	for i, m := range that.cells {
		rows[i/3][i%3] = m
	}
	return rows
}

// String renders the board for a terminal:
//
//	X| |O
//	-----
//	 |X|
//	-----
//	O| |
func (that *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n" + rowDivider + "\n")
		}
		glyphs := make([]string, 3)
		for col := 0; col < 3; col++ {
			glyphs[col] = cellGlyph(that.cells[row*3+col])
		}
		sb.WriteString(strings.Join(glyphs, "|"))
	}
	return sb.String()
}

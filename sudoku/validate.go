package sudoku

// HasConflict reports whether the value at (row, col) collides with another
// cell in its row, column or 3x3 box.
func HasConflict(b *Board, row, col int) bool {
	val := b[row][col].Value
	if val == 0 {
		return false
	}
	for c := 0; c < 9; c++ {
		if c != col && b[row][c].Value == val {
			return true
		}
	}
	for r := 0; r < 9; r++ {
		if r != row && b[r][col].Value == val {
			return true
		}
	}
	boxR, boxC := (row/3)*3, (col/3)*3
	for r := boxR; r < boxR+3; r++ {
		for c := boxC; c < boxC+3; c++ {
			if (r != row || c != col) && b[r][c].Value == val {
				return true
			}
		}
	}
	return false
}

// IsComplete reports whether the board is fully filled with no conflicts.
func IsComplete(b *Board) bool {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if b[r][c].Empty() || HasConflict(b, r, c) {
				return false
			}
		}
	}
	return true
}

// Package sudoku implements the puzzle provider: board representation,
// backtracking solver, unique-solution puzzle generation and the conflict
// predicates used for scoring.
package sudoku

// Cell is one square of a 9x9 board. Value 0 means empty; Given marks a
// generator-placed clue that players may never modify.
type Cell struct {
	Value int
	Given bool
}

func (c Cell) Empty() bool {
	return c.Value == 0
}

// Board is a playable 9x9 grid mixing givens and player input.
type Board [9][9]Cell

// Solution is the fully solved grid a puzzle was carved from.
type Solution [9][9]int

// FromGivens builds a board holding only the givens of a solved-then-carved
// grid (0 = empty).
func FromGivens(grid [9][9]int) Board {
	var b Board
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if grid[r][c] != 0 {
				b[r][c] = Cell{Value: grid[r][c], Given: true}
			}
		}
	}
	return b
}

// Wire converts a board to the client format: givens only, 0 for anything
// else. JSON-friendly nested slices.
func (b *Board) Wire() [][]int {
	out := make([][]int, 9)
	for r := 0; r < 9; r++ {
		out[r] = make([]int, 9)
		for c := 0; c < 9; c++ {
			if b[r][c].Given {
				out[r][c] = b[r][c].Value
			}
		}
	}
	return out
}

// FilledCount returns how many cells the player has filled (givens excluded).
func (b *Board) FilledCount() int {
	n := 0
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if !b[r][c].Given && b[r][c].Value != 0 {
				n++
			}
		}
	}
	return n
}

// CorrectCount returns how many player-filled cells match the solution.
func (b *Board) CorrectCount(sol *Solution) int {
	n := 0
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if !b[r][c].Given && b[r][c].Value != 0 && b[r][c].Value == sol[r][c] {
				n++
			}
		}
	}
	return n
}

// AllFilled reports whether every cell holds some value, correct or not.
// This is the race-mode game-ending predicate.
func (b *Board) AllFilled() bool {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if b[r][c].Empty() {
				return false
			}
		}
	}
	return true
}

package sudoku

import (
	"testing"
	"time"

	"sudoku-arena/models"
)

func TestGeneratePuzzles(t *testing.T) {
	for _, diff := range models.AllDifficulties() {
		diff := diff
		t.Run(string(diff), func(t *testing.T) {
			done := make(chan struct{})
			var board Board
			var sol Solution
			go func() {
				gen := NewGenerator(42)
				board, sol = gen.Generate(diff)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(30 * time.Second):
				t.Fatalf("generation timed out for %s", diff)
			}

			givens := 0
			var grid [9][9]int
			for r := 0; r < 9; r++ {
				for c := 0; c < 9; c++ {
					if board[r][c].Given {
						givens++
						grid[r][c] = board[r][c].Value
						if board[r][c].Value != sol[r][c] {
							t.Errorf("given at (%d,%d) = %d disagrees with solution %d", r, c, board[r][c].Value, sol[r][c])
						}
					} else if board[r][c].Value != 0 {
						t.Errorf("non-given cell (%d,%d) not empty", r, c)
					}
				}
			}

			min, _ := diff.GivensRange()
			if givens < min {
				t.Errorf("givens = %d, want at least %d", givens, min)
			}
			if n := countSolutions(&grid, 2); n != 1 {
				t.Errorf("puzzle has %d solutions, want exactly 1", n)
			}
		})
	}
}

func TestGivensWithinRange(t *testing.T) {
	// Carving stops once the target clue count is reached, so the easier
	// difficulties land inside their band reliably.
	for _, diff := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium} {
		gen := NewGenerator(7)
		board, _ := gen.Generate(diff)
		givens := 0
		for r := 0; r < 9; r++ {
			for c := 0; c < 9; c++ {
				if board[r][c].Given {
					givens++
				}
			}
		}
		min, max := diff.GivensRange()
		if givens < min || givens > max {
			t.Errorf("%s: givens = %d, want in [%d, %d]", diff, givens, min, max)
		}
	}
}

func TestSolveKnownPuzzle(t *testing.T) {
	grid := [9][9]int{
		{5, 3, 0, 0, 7, 0, 0, 0, 0},
		{6, 0, 0, 1, 9, 5, 0, 0, 0},
		{0, 9, 8, 0, 0, 0, 0, 6, 0},
		{8, 0, 0, 0, 6, 0, 0, 0, 3},
		{4, 0, 0, 8, 0, 3, 0, 0, 1},
		{7, 0, 0, 0, 2, 0, 0, 0, 6},
		{0, 6, 0, 0, 0, 0, 2, 8, 0},
		{0, 0, 0, 4, 1, 9, 0, 0, 5},
		{0, 0, 0, 0, 8, 0, 0, 7, 9},
	}
	if !Solve(&grid) {
		t.Fatal("Solve returned false for a solvable puzzle")
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if grid[r][c] < 1 || grid[r][c] > 9 {
				t.Fatalf("cell (%d,%d) left unsolved", r, c)
			}
			v := grid[r][c]
			grid[r][c] = 0
			if !validPlacement(&grid, r, c, v) {
				t.Fatalf("solved grid has a conflict at (%d,%d)", r, c)
			}
			grid[r][c] = v
		}
	}
}

func TestCountSolutionsAmbiguous(t *testing.T) {
	var empty [9][9]int
	if n := countSolutions(&empty, 2); n != 2 {
		t.Errorf("countSolutions(empty, 2) = %d, want 2", n)
	}
}

func TestGeneratorsDiffer(t *testing.T) {
	a, _ := NewGenerator(1).Generate(models.DifficultyEasy)
	b, _ := NewGenerator(2).Generate(models.DifficultyEasy)
	if a == b {
		t.Error("different seeds produced identical puzzles")
	}
}

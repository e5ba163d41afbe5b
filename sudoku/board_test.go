package sudoku

import "testing"

func sampleBoard() (Board, Solution) {
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
	solved := grid
	Solve(&solved)
	var sol Solution
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			sol[r][c] = solved[r][c]
		}
	}
	return FromGivens(grid), sol
}

func TestFromGivens(t *testing.T) {
	board, _ := sampleBoard()
	if !board[0][0].Given || board[0][0].Value != 5 {
		t.Errorf("expected (0,0) to be the given 5, got %+v", board[0][0])
	}
	if board[0][2].Given || board[0][2].Value != 0 {
		t.Errorf("expected (0,2) to be empty, got %+v", board[0][2])
	}
}

func TestWire(t *testing.T) {
	board, _ := sampleBoard()
	wire := board.Wire()
	if len(wire) != 9 {
		t.Fatalf("wire rows = %d, want 9", len(wire))
	}
	for r := range wire {
		if len(wire[r]) != 9 {
			t.Fatalf("wire row %d has %d cols, want 9", r, len(wire[r]))
		}
	}
	if wire[0][0] != 5 || wire[0][2] != 0 {
		t.Errorf("wire[0] = %v, want givens with zeros for empties", wire[0])
	}
}

func TestFilledAndCorrectCounts(t *testing.T) {
	board, sol := sampleBoard()
	if n := board.FilledCount(); n != 0 {
		t.Fatalf("fresh board FilledCount = %d, want 0", n)
	}

	board[0][2] = Cell{Value: sol[0][2]} // correct fill
	wrong := sol[0][3]%9 + 1
	if wrong == sol[0][3] {
		wrong = wrong%9 + 1
	}
	board[0][3] = Cell{Value: wrong} // incorrect fill

	if n := board.FilledCount(); n != 2 {
		t.Errorf("FilledCount = %d, want 2", n)
	}
	if n := board.CorrectCount(&sol); n != 1 {
		t.Errorf("CorrectCount = %d, want 1", n)
	}
}

func TestAllFilled(t *testing.T) {
	board, sol := sampleBoard()
	if board.AllFilled() {
		t.Fatal("fresh board reported as filled")
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if board[r][c].Empty() {
				board[r][c].Value = sol[r][c]
			}
		}
	}
	if !board.AllFilled() {
		t.Error("fully filled board not reported as filled")
	}
}

func TestHasConflict(t *testing.T) {
	board, _ := sampleBoard()
	board[0][2] = Cell{Value: 5} // duplicates the 5 at (0,0)
	if !HasConflict(&board, 0, 2) {
		t.Error("expected row conflict at (0,2)")
	}
	board[0][2] = Cell{Value: 1}
	if HasConflict(&board, 0, 2) {
		t.Error("unexpected conflict for a legal placement")
	}
}

func TestIsComplete(t *testing.T) {
	board, sol := sampleBoard()
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if board[r][c].Empty() {
				board[r][c].Value = sol[r][c]
			}
		}
	}
	if !IsComplete(&board) {
		t.Fatal("correctly solved board not complete")
	}
	board[4][4].Value = board[4][3].Value // force a duplicate
	if IsComplete(&board) {
		t.Error("board with a conflict reported complete")
	}
}

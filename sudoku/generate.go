package sudoku

import (
	"math/rand"

	"sudoku-arena/models"
)

// validPlacement checks row, column and 3x3 box for val at (row, col).
func validPlacement(grid *[9][9]int, row, col, val int) bool {
	for c := 0; c < 9; c++ {
		if grid[row][c] == val {
			return false
		}
	}
	for r := 0; r < 9; r++ {
		if grid[r][col] == val {
			return false
		}
	}
	boxR, boxC := (row/3)*3, (col/3)*3
	for r := boxR; r < boxR+3; r++ {
		for c := boxC; c < boxC+3; c++ {
			if grid[r][c] == val {
				return false
			}
		}
	}
	return true
}

// Solve fills the grid in place using backtracking. Returns false if the
// grid admits no solution.
func Solve(grid *[9][9]int) bool {
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if grid[row][col] != 0 {
				continue
			}
			for val := 1; val <= 9; val++ {
				if validPlacement(grid, row, col, val) {
					grid[row][col] = val
					if Solve(grid) {
						return true
					}
					grid[row][col] = 0
				}
			}
			return false
		}
	}
	return true
}

// solveShuffled backtracks with randomized value order so each generated
// solution differs.
func solveShuffled(rng *rand.Rand, grid *[9][9]int) bool {
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if grid[row][col] != 0 {
				continue
			}
			vals := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
			rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
			for _, val := range vals {
				if validPlacement(grid, row, col, val) {
					grid[row][col] = val
					if solveShuffled(rng, grid) {
						return true
					}
					grid[row][col] = 0
				}
			}
			return false
		}
	}
	return true
}

// countSolutions counts solutions up to limit; used for uniqueness checks.
func countSolutions(grid *[9][9]int, limit int) int {
	if limit == 0 {
		return 0
	}
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if grid[row][col] != 0 {
				continue
			}
			count := 0
			for val := 1; val <= 9; val++ {
				if validPlacement(grid, row, col, val) {
					grid[row][col] = val
					count += countSolutions(grid, limit-count)
					grid[row][col] = 0
					if count >= limit {
						return count
					}
				}
			}
			return count
		}
	}
	return 1
}

// generateComplete produces a fully solved grid. The three diagonal boxes
// are independent, so they can be seeded with shuffled digits before the
// randomized solve fills the rest.
func generateComplete(rng *rand.Rand) [9][9]int {
	var grid [9][9]int
	for box := 0; box < 3; box++ {
		nums := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
		rng.Shuffle(len(nums), func(i, j int) { nums[i], nums[j] = nums[j], nums[i] })
		start := box * 3
		idx := 0
		for r := start; r < start+3; r++ {
			for c := start; c < start+3; c++ {
				grid[r][c] = nums[idx]
				idx++
			}
		}
	}
	solveShuffled(rng, &grid)
	return grid
}

// Generator produces puzzles with a unique solution. Safe for concurrent
// use only when each caller holds its own Generator.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate carves a puzzle of the requested difficulty out of a fresh
// solved grid, removing clues only while the solution stays unique.
func (g *Generator) Generate(difficulty models.Difficulty) (Board, Solution) {
	solved := generateComplete(g.rng)

	minGivens, maxGivens := difficulty.GivensRange()
	targetGivens := minGivens + g.rng.Intn(maxGivens-minGivens+1)
	toRemove := 81 - targetGivens

	positions := make([][2]int, 0, 81)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			positions = append(positions, [2]int{r, c})
		}
	}
	g.rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })

	puzzle := solved
	removed := 0
	for _, pos := range positions {
		if removed >= toRemove {
			break
		}
		r, c := pos[0], pos[1]
		backup := puzzle[r][c]
		puzzle[r][c] = 0

		trial := puzzle
		if countSolutions(&trial, 2) == 1 {
			removed++
		} else {
			puzzle[r][c] = backup
		}
	}

	var sol Solution
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			sol[r][c] = solved[r][c]
		}
	}
	return FromGivens(puzzle), sol
}

package models

// GameMode selects how two players share the puzzle.
type GameMode string

const (
	// ModeRace gives each player a private copy of the board; first to
	// fill every cell ends the game.
	ModeRace GameMode = "Race"
	// ModeShared puts both players on one board; the first writer of a
	// cell owns it.
	ModeShared GameMode = "Shared"
)

func (m GameMode) Valid() bool {
	return m == ModeRace || m == ModeShared
}

// Difficulty controls how many givens a generated puzzle keeps.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyExpert Difficulty = "Expert"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// GivensRange returns the inclusive clue-count range for the difficulty.
func (d Difficulty) GivensRange() (min, max int) {
	switch d {
	case DifficultyEasy:
		return 40, 45
	case DifficultyMedium:
		return 32, 39
	case DifficultyHard:
		return 27, 31
	case DifficultyExpert:
		return 22, 26
	default:
		return 32, 39
	}
}

func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

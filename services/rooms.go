package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"sudoku-arena/models"
	"sudoku-arena/sudoku"
	"sudoku-arena/utils"
)

// RoomState is the lifecycle phase of a room.
type RoomState string

const (
	StateWaiting RoomState = "Waiting"
	StatePlaying RoomState = "Playing"
	StateEnded   RoomState = "Ended"
)

// progressInterval is how often Race rooms broadcast fill progress.
const progressInterval = 2 * time.Second

// Rejection and error strings sent back to clients.
var (
	ErrRoomNotFound    = errors.New("Room not found")
	ErrRoomNotJoinable = errors.New("Room is not accepting players")
	ErrOwnRoom         = errors.New("Cannot join your own room")
	ErrNotPlaying      = errors.New("Game is not in progress")
)

const (
	rejectInvalidPosition = "Invalid position or value"
	rejectNotPlaying      = "Game is not in progress"
	rejectGivenCell       = "Cannot modify a given cell"
	rejectCellClaimed     = "Cell already claimed"
	rejectNotOwned        = "You do not own this cell"
)

type roomPlayer struct {
	ID       uint
	Username string
	Rating   int
}

// Room holds one match's full state. All fields are guarded by mu.
type Room struct {
	mu sync.Mutex

	Code       string
	Mode       models.GameMode
	Difficulty models.Difficulty
	State      RoomState

	player1 roomPlayer
	player2 roomPlayer

	base     sudoku.Board
	solution sudoku.Solution

	// Race: each player fills a private copy of the board.
	playerBoards map[uint]*sudoku.Board
	lastFilled   map[uint]int

	// Shared: one board, first writer owns each cell.
	sharedBoard   sudoku.Board
	cellOwnership map[[2]int]uint

	createdAt    time.Time
	startedAt    time.Time
	endedAt      time.Time
	lastActivity time.Time

	stopProgress chan struct{}
}

func (r *Room) opponentOf(userID uint) (roomPlayer, bool) {
	if r.player1.ID == userID {
		return r.player2, r.player2.ID != 0
	}
	if r.player2.ID == userID {
		return r.player1, true
	}
	return roomPlayer{}, false
}

func (r *Room) hasPlayer(userID uint) bool {
	return r.player1.ID == userID || r.player2.ID == userID
}

func (r *Room) boardFor(userID uint) *sudoku.Board {
	if r.Mode == models.ModeShared {
		return &r.sharedBoard
	}
	return r.playerBoards[userID]
}

// scoreFor counts the acting player's solution-matching cells.
func (r *Room) scoreFor(userID uint) int {
	if r.Mode == models.ModeRace {
		return r.playerBoards[userID].CorrectCount(&r.solution)
	}
	score := 0
	for pos, owner := range r.cellOwnership {
		if owner != userID {
			continue
		}
		if r.sharedBoard[pos[0]][pos[1]].Value == r.solution[pos[0]][pos[1]] {
			score++
		}
	}
	return score
}

// RoomManager owns every active room and drives the game rules.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	registry *Registry
	store    Store
}

func NewRoomManager(registry *Registry, store Store) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Room),
		registry: registry,
		store:    store,
	}
}

func (m *RoomManager) newRoom(mode models.GameMode, difficulty models.Difficulty) *Room {
	gen := sudoku.NewGenerator(time.Now().UnixNano())
	board, solution := gen.Generate(difficulty)

	room := &Room{
		Mode:          mode,
		Difficulty:    difficulty,
		State:         StateWaiting,
		base:          board,
		solution:      solution,
		playerBoards:  make(map[uint]*sudoku.Board),
		lastFilled:    make(map[uint]int),
		sharedBoard:   board,
		cellOwnership: make(map[[2]int]uint),
		createdAt:     time.Now(),
		lastActivity:  time.Now(),
	}

	m.mu.Lock()
	for {
		code := utils.RoomCode()
		if _, taken := m.rooms[code]; !taken {
			room.Code = code
			m.rooms[code] = room
			break
		}
	}
	m.mu.Unlock()
	return room
}

func (m *RoomManager) get(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

func (m *RoomManager) remove(code string) {
	m.mu.Lock()
	room := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()
	if room != nil {
		room.mu.Lock()
		if room.stopProgress != nil {
			close(room.stopProgress)
			room.stopProgress = nil
		}
		room.mu.Unlock()
	}
}

// Count returns the number of active rooms.
func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// roomOf finds the room the player currently belongs to.
func (m *RoomManager) roomOf(userID uint) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		room.mu.Lock()
		in := room.hasPlayer(userID)
		room.mu.Unlock()
		if in {
			return room
		}
	}
	return nil
}

// CreateRoom opens a private room and replies with its join code.
func (m *RoomManager) CreateRoom(handle *ConnectionHandle, mode models.GameMode, difficulty models.Difficulty) {
	room := m.newRoom(mode, difficulty)
	room.mu.Lock()
	room.player1 = roomPlayer{ID: handle.UserID, Username: handle.Username, Rating: handle.Rating}
	board := room.base
	room.playerBoards[handle.UserID] = &board
	code := room.Code
	room.mu.Unlock()

	m.registry.AssociateRoom(handle.UserID, code)
	m.registry.Send(handle.UserID, models.NewRoomCreated(code))
}

// JoinRoom seats the player in a waiting room and starts the game.
func (m *RoomManager) JoinRoom(handle *ConnectionHandle, code string) error {
	room := m.get(code)
	if room == nil {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if room.State != StateWaiting {
		room.mu.Unlock()
		return ErrRoomNotJoinable
	}
	if room.player1.ID == handle.UserID {
		room.mu.Unlock()
		return ErrOwnRoom
	}
	room.player2 = roomPlayer{ID: handle.UserID, Username: handle.Username, Rating: handle.Rating}
	board := room.base
	room.playerBoards[handle.UserID] = &board
	room.mu.Unlock()

	m.registry.AssociateRoom(handle.UserID, code)
	m.startGame(room)
	return nil
}

// StartQuickMatch seats two matched players in a fresh room that goes
// straight to Playing.
func (m *RoomManager) StartQuickMatch(p1, p2 *ConnectionHandle, mode models.GameMode, difficulty models.Difficulty) {
	room := m.newRoom(mode, difficulty)
	room.mu.Lock()
	room.player1 = roomPlayer{ID: p1.UserID, Username: p1.Username, Rating: p1.Rating}
	room.player2 = roomPlayer{ID: p2.UserID, Username: p2.Username, Rating: p2.Rating}
	b1, b2 := room.base, room.base
	room.playerBoards[p1.UserID] = &b1
	room.playerBoards[p2.UserID] = &b2
	code := room.Code
	room.mu.Unlock()

	m.registry.AssociateRoom(p1.UserID, code)
	m.registry.AssociateRoom(p2.UserID, code)
	m.startGame(room)
}

func (m *RoomManager) startGame(room *Room) {
	room.mu.Lock()
	room.State = StatePlaying
	room.startedAt = time.Now()
	room.lastActivity = time.Now()
	wire := room.base.Wire()
	p1, p2 := room.player1, room.player2
	mode, difficulty := room.Mode, room.Difficulty
	if mode == models.ModeRace {
		room.stopProgress = make(chan struct{})
		go m.broadcastProgress(room, room.stopProgress)
	}
	room.mu.Unlock()

	// The joining player hears first so the creator's client can rely
	// on the opponent already being in the room.
	m.registry.Send(p2.ID, models.NewMatchStarted(mode, difficulty, wire, p1.Username, p1.Rating))
	m.registry.Send(p1.ID, models.NewMatchStarted(mode, difficulty, wire, p2.Username, p2.Rating))
	log.Printf("[Rooms] match started in %s (%s/%s): %s vs %s", room.Code, mode, difficulty, p1.Username, p2.Username)
}

func (m *RoomManager) broadcastProgress(room *Room, stop chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			room.mu.Lock()
			if room.State != StatePlaying {
				room.mu.Unlock()
				return
			}
			type update struct {
				to       uint
				filled   int
				momentum float64
			}
			var updates []update
			for _, p := range []roomPlayer{room.player1, room.player2} {
				opp, ok := room.opponentOf(p.ID)
				if !ok {
					continue
				}
				filled := room.playerBoards[p.ID].FilledCount()
				delta := filled - room.lastFilled[p.ID]
				room.lastFilled[p.ID] = filled
				updates = append(updates, update{to: opp.ID, filled: filled, momentum: float64(delta)})
			}
			room.mu.Unlock()
			for _, u := range updates {
				m.registry.Send(u.to, models.NewOpponentProgress(u.filled, u.momentum))
			}
		}
	}
}

// PlaceNumber applies a move for the player, replying with MoveAccepted
// or MoveRejected and relaying to the opponent as the mode requires.
func (m *RoomManager) PlaceNumber(userID uint, row, col, value int) {
	room := m.roomOf(userID)
	if room == nil {
		m.registry.Send(userID, models.NewError(ErrRoomNotFound.Error()))
		return
	}
	if row < 0 || row > 8 || col < 0 || col > 8 || value < 1 || value > 9 {
		m.registry.Send(userID, models.NewMoveRejected(row, col, rejectInvalidPosition))
		return
	}

	room.mu.Lock()
	if room.State != StatePlaying {
		room.mu.Unlock()
		m.registry.Send(userID, models.NewMoveRejected(row, col, rejectNotPlaying))
		return
	}
	board := room.boardFor(userID)
	if board[row][col].Given {
		room.mu.Unlock()
		m.registry.Send(userID, models.NewMoveRejected(row, col, rejectGivenCell))
		return
	}
	if room.Mode == models.ModeShared {
		// Claimed cells are locked until erased, even against their owner.
		if _, claimed := room.cellOwnership[[2]int{row, col}]; claimed {
			room.mu.Unlock()
			m.registry.Send(userID, models.NewMoveRejected(row, col, rejectCellClaimed))
			return
		}
		room.cellOwnership[[2]int{row, col}] = userID
	}
	board[row][col].Value = value
	room.lastActivity = time.Now()
	finished := board.AllFilled()
	opp, hasOpp := room.opponentOf(userID)
	mode := room.Mode
	room.mu.Unlock()

	m.registry.Send(userID, models.NewMoveAccepted(row, col, value))
	if mode == models.ModeShared && hasOpp {
		m.registry.Send(opp.ID, models.NewOpponentPlaced(row, col, value))
	}
	if finished {
		m.endGame(room, userID, false)
	}
}

// EraseNumber clears a cell the player is allowed to modify.
func (m *RoomManager) EraseNumber(userID uint, row, col int) {
	room := m.roomOf(userID)
	if room == nil {
		m.registry.Send(userID, models.NewError(ErrRoomNotFound.Error()))
		return
	}
	if row < 0 || row > 8 || col < 0 || col > 8 {
		m.registry.Send(userID, models.NewMoveRejected(row, col, rejectInvalidPosition))
		return
	}

	room.mu.Lock()
	if room.State != StatePlaying {
		room.mu.Unlock()
		m.registry.Send(userID, models.NewMoveRejected(row, col, rejectNotPlaying))
		return
	}
	board := room.boardFor(userID)
	if board[row][col].Given {
		room.mu.Unlock()
		m.registry.Send(userID, models.NewMoveRejected(row, col, rejectGivenCell))
		return
	}
	if room.Mode == models.ModeShared {
		if owner := room.cellOwnership[[2]int{row, col}]; owner != userID {
			room.mu.Unlock()
			m.registry.Send(userID, models.NewMoveRejected(row, col, rejectNotOwned))
			return
		}
		delete(room.cellOwnership, [2]int{row, col})
	}
	board[row][col].Value = 0
	room.lastActivity = time.Now()
	opp, hasOpp := room.opponentOf(userID)
	mode := room.Mode
	room.mu.Unlock()

	m.registry.Send(userID, models.NewMoveAccepted(row, col, 0))
	if mode == models.ModeShared && hasOpp {
		m.registry.Send(opp.ID, models.NewOpponentErased(row, col))
	}
}

// UpdateCursor relays the player's selected cell to their opponent.
func (m *RoomManager) UpdateCursor(userID uint, row, col int) {
	room := m.roomOf(userID)
	if room == nil {
		return
	}
	room.mu.Lock()
	playing := room.State == StatePlaying
	opp, hasOpp := room.opponentOf(userID)
	room.mu.Unlock()
	if playing && hasOpp {
		m.registry.Send(opp.ID, models.NewOpponentCursor(row, col))
	}
}

// Forfeit concedes the game; the opponent wins with both scores
// reported as zero.
func (m *RoomManager) Forfeit(userID uint) {
	room := m.roomOf(userID)
	if room == nil {
		m.registry.Send(userID, models.NewError(ErrRoomNotFound.Error()))
		return
	}
	room.mu.Lock()
	if room.State != StatePlaying {
		room.mu.Unlock()
		m.registry.Send(userID, models.NewError(ErrNotPlaying.Error()))
		return
	}
	opp, hasOpp := room.opponentOf(userID)
	room.mu.Unlock()
	if !hasOpp {
		m.remove(room.Code)
		return
	}
	m.endGame(room, opp.ID, true)
}

// Rematch starts a fresh game with the same players and settings. Only
// valid once the previous game has ended.
func (m *RoomManager) Rematch(userID uint) {
	room := m.roomOf(userID)
	if room == nil {
		m.registry.Send(userID, models.NewError(ErrRoomNotFound.Error()))
		return
	}
	room.mu.Lock()
	if room.State != StateEnded {
		room.mu.Unlock()
		m.registry.Send(userID, models.NewError("Game has not ended"))
		return
	}
	opp, hasOpp := room.opponentOf(userID)
	mode, difficulty := room.Mode, room.Difficulty
	room.mu.Unlock()
	if !hasOpp {
		m.registry.Send(userID, models.NewError("Opponent is no longer connected"))
		return
	}

	// The caller takes seat one in the fresh room.
	caller, other := m.registry.Get(userID), m.registry.Get(opp.ID)
	if caller == nil || other == nil {
		m.registry.Send(userID, models.NewError("Opponent is no longer connected"))
		return
	}
	m.remove(room.Code)
	m.StartQuickMatch(caller, other, mode, difficulty)
}

// HandleDisconnect tells the opponent the player dropped. The grace
// supervisor decides later whether to forfeit.
func (m *RoomManager) HandleDisconnect(userID uint) (code string, inGame bool) {
	room := m.roomOf(userID)
	if room == nil {
		return "", false
	}
	room.mu.Lock()
	playing := room.State == StatePlaying
	opp, hasOpp := room.opponentOf(userID)
	code = room.Code
	room.mu.Unlock()
	if !playing {
		return code, false
	}
	if hasOpp {
		m.registry.Send(opp.ID, models.NewOpponentDisconnected())
	}
	return code, true
}

// ResumeRoom re-seats a freshly connected player into their in-progress
// game, if any. Returns true when a game was resumed.
func (m *RoomManager) ResumeRoom(handle *ConnectionHandle) bool {
	room := m.roomOf(handle.UserID)
	if room == nil {
		return false
	}
	room.mu.Lock()
	playing := room.State == StatePlaying
	opp, hasOpp := room.opponentOf(handle.UserID)
	code := room.Code
	room.mu.Unlock()
	if !playing {
		return false
	}
	m.registry.AssociateRoom(handle.UserID, code)
	if hasOpp {
		m.registry.Send(opp.ID, models.NewOpponentReconnected())
	}
	return true
}

// ForfeitAbsent ends the game against a player who never reconnected
// within the grace period.
func (m *RoomManager) ForfeitAbsent(code string, userID uint) {
	if m.registry.Connected(userID) {
		return
	}
	room := m.get(code)
	if room == nil {
		return
	}
	room.mu.Lock()
	playing := room.State == StatePlaying && room.hasPlayer(userID)
	opp, hasOpp := room.opponentOf(userID)
	room.mu.Unlock()
	if !playing || !hasOpp {
		return
	}
	log.Printf("[Rooms] %d abandoned room %s, forfeiting", userID, code)
	m.endGame(room, opp.ID, true)
}

// endGame settles the match: scores, ratings, persistence, GameEnd to
// both players.
func (m *RoomManager) endGame(room *Room, winnerID uint, forfeit bool) {
	room.mu.Lock()
	if room.State != StatePlaying {
		room.mu.Unlock()
		return
	}
	room.State = StateEnded
	room.endedAt = time.Now()
	if room.stopProgress != nil {
		close(room.stopProgress)
		room.stopProgress = nil
	}

	winner := room.player1
	if room.player2.ID == winnerID {
		winner = room.player2
	}
	loser, _ := room.opponentOf(winnerID)

	winnerScore, loserScore := 0, 0
	if !forfeit {
		winnerScore = room.scoreFor(winner.ID)
		loserScore = room.scoreFor(loser.ID)
		// The finisher triggered the end; on equal boards they keep
		// the win.
		if loserScore > winnerScore {
			winner, loser = loser, winner
			winnerScore, loserScore = loserScore, winnerScore
		}
	}

	winnerDelta := EloChange(winner.Rating, loser.Rating, true)
	loserDelta := EloChange(loser.Rating, winner.Rating, false)
	winnerNew := winner.Rating + winnerDelta
	loserNew := loser.Rating + loserDelta
	duration := int64(room.endedAt.Sub(room.startedAt).Seconds())
	mode, difficulty := room.Mode, room.Difficulty
	p1 := room.player1
	room.mu.Unlock()

	if m.store != nil {
		if err := m.store.UpdateRatings(winner.ID, winnerNew, loser.ID, loserNew); err != nil {
			log.Printf("[Rooms] failed to update ratings for room %s: %v", room.Code, err)
		}
		winID := winner.ID
		p1Delta, p2Delta := winnerDelta, loserDelta
		if p1.ID != winner.ID {
			p1Delta, p2Delta = p2Delta, p1Delta
		}
		match := &models.Match{
			Player1ID:       p1.ID,
			Player2ID:       loser.ID,
			Mode:            mode,
			Difficulty:      difficulty,
			WinnerID:        &winID,
			Player1EloDelta: p1Delta,
			Player2EloDelta: p2Delta,
			DurationSecs:    duration,
		}
		if p1.ID == loser.ID {
			match.Player2ID = winner.ID
		}
		if err := m.store.RecordMatch(match); err != nil {
			log.Printf("[Rooms] failed to record match for room %s: %v", room.Code, err)
		}
	}

	m.registry.UpdateRating(winner.ID, winnerNew)
	m.registry.UpdateRating(loser.ID, loserNew)

	m.registry.Send(winner.ID, models.NewGameEnd(true, winnerScore, loserScore, winnerDelta, winnerNew))
	m.registry.Send(loser.ID, models.NewGameEnd(false, loserScore, winnerScore, loserDelta, loserNew))
	log.Printf("[Rooms] room %s ended, winner %s (%d -> %d)", room.Code, winner.Username, winner.Rating, winnerNew)
}

// Sweep removes stale rooms and forfeits abandoned games. Returns the
// number of rooms removed.
func (m *RoomManager) Sweep(waitingTTL, idleTTL, endedTTL time.Duration) int {
	m.mu.RLock()
	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	m.mu.RUnlock()

	removed := 0
	now := time.Now()
	for _, code := range codes {
		room := m.get(code)
		if room == nil {
			continue
		}
		room.mu.Lock()
		state := room.State
		created := room.createdAt
		idle := now.Sub(room.lastActivity)
		ended := room.endedAt
		opp, hasOpp := room.opponentOf(room.player1.ID)
		room.mu.Unlock()

		switch state {
		case StateWaiting:
			if now.Sub(created) > waitingTTL {
				m.remove(code)
				removed++
			}
		case StatePlaying:
			if idle > idleTTL {
				if hasOpp {
					log.Printf("[Sweeper] forfeiting idle room %s", code)
					m.endGame(room, opp.ID, true)
				} else {
					m.remove(code)
					removed++
				}
			}
		case StateEnded:
			if !ended.IsZero() && now.Sub(ended) > endedTTL {
				m.remove(code)
				removed++
			}
		}
	}
	return removed
}

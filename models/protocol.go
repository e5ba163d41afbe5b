package models

// Wire protocol for the /ws endpoint. Every frame is a JSON object with a
// "type" discriminant. ClientMessage is decoded as one envelope struct and
// dispatched on Type; server messages are a closed set of structs whose Type
// field is fixed by their constructor.

// Client -> server message types.
const (
	ClientAuth         = "Auth"
	ClientCreateRoom   = "CreateRoom"
	ClientJoinRoom     = "JoinRoom"
	ClientQuickMatch   = "QuickMatch"
	ClientPlaceNumber  = "PlaceNumber"
	ClientEraseNumber  = "EraseNumber"
	ClientUpdateCursor = "UpdateCursor"
	ClientForfeit      = "Forfeit"
	ClientRematch      = "Rematch"
	ClientPing         = "Ping"
)

// ClientMessage is the inbound envelope. Only the fields relevant to Type
// are populated by the client; the dispatcher validates them per message.
type ClientMessage struct {
	Type       string     `json:"type"`
	Token      string     `json:"token,omitempty"`
	Mode       GameMode   `json:"mode,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Code       string     `json:"code,omitempty"`
	Row        int        `json:"row"`
	Col        int        `json:"col"`
	Value      int        `json:"value"`
}

// ServerMessage is any outbound frame. The marker method keeps the set
// closed so the dispatcher can rely on exhaustive construction.
type ServerMessage interface {
	serverMessage()
}

type AuthOk struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

type RoomCreated struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

type WaitingForOpponent struct {
	Type string `json:"type"`
}

type MatchStarted struct {
	Type           string     `json:"type"`
	Mode           GameMode   `json:"mode"`
	Difficulty     Difficulty `json:"difficulty"`
	Board          [][]int    `json:"board"` // givens only, 0 = empty
	OpponentName   string     `json:"opponent_name"`
	OpponentRating int        `json:"opponent_rating"`
}

type MoveAccepted struct {
	Type  string `json:"type"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value int    `json:"value"`
}

type MoveRejected struct {
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Reason string `json:"reason"`
}

type OpponentProgress struct {
	Type        string  `json:"type"`
	FilledCount int     `json:"filled_count"`
	Momentum    float64 `json:"momentum"`
}

type OpponentPlaced struct {
	Type  string `json:"type"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value int    `json:"value"`
}

type OpponentErased struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type OpponentCursor struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type GameEnd struct {
	Type          string `json:"type"`
	Won           bool   `json:"won"`
	YourScore     int    `json:"your_score"`
	OpponentScore int    `json:"opponent_score"`
	EloChange     int    `json:"elo_change"`
	NewRating     int    `json:"new_rating"`
}

type OpponentDisconnected struct {
	Type string `json:"type"`
}

type OpponentReconnected struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Pong struct {
	Type string `json:"type"`
}

func (AuthOk) serverMessage()               {}
func (RoomCreated) serverMessage()          {}
func (WaitingForOpponent) serverMessage()   {}
func (MatchStarted) serverMessage()         {}
func (MoveAccepted) serverMessage()         {}
func (MoveRejected) serverMessage()         {}
func (OpponentProgress) serverMessage()     {}
func (OpponentPlaced) serverMessage()       {}
func (OpponentErased) serverMessage()       {}
func (OpponentCursor) serverMessage()       {}
func (GameEnd) serverMessage()              {}
func (OpponentDisconnected) serverMessage() {}
func (OpponentReconnected) serverMessage()  {}
func (ErrorMessage) serverMessage()         {}
func (Pong) serverMessage()                 {}

func NewAuthOk(username string, rating int) AuthOk {
	return AuthOk{Type: "AuthOk", Username: username, Rating: rating}
}

func NewRoomCreated(code string) RoomCreated {
	return RoomCreated{Type: "RoomCreated", Code: code}
}

func NewWaitingForOpponent() WaitingForOpponent {
	return WaitingForOpponent{Type: "WaitingForOpponent"}
}

func NewMatchStarted(mode GameMode, diff Difficulty, board [][]int, opponentName string, opponentRating int) MatchStarted {
	return MatchStarted{
		Type:           "MatchStarted",
		Mode:           mode,
		Difficulty:     diff,
		Board:          board,
		OpponentName:   opponentName,
		OpponentRating: opponentRating,
	}
}

func NewMoveAccepted(row, col, value int) MoveAccepted {
	return MoveAccepted{Type: "MoveAccepted", Row: row, Col: col, Value: value}
}

func NewMoveRejected(row, col int, reason string) MoveRejected {
	return MoveRejected{Type: "MoveRejected", Row: row, Col: col, Reason: reason}
}

func NewOpponentProgress(filled int, momentum float64) OpponentProgress {
	return OpponentProgress{Type: "OpponentProgress", FilledCount: filled, Momentum: momentum}
}

func NewOpponentPlaced(row, col, value int) OpponentPlaced {
	return OpponentPlaced{Type: "OpponentPlaced", Row: row, Col: col, Value: value}
}

func NewOpponentErased(row, col int) OpponentErased {
	return OpponentErased{Type: "OpponentErased", Row: row, Col: col}
}

func NewOpponentCursor(row, col int) OpponentCursor {
	return OpponentCursor{Type: "OpponentCursor", Row: row, Col: col}
}

func NewGameEnd(won bool, yourScore, opponentScore, eloChange, newRating int) GameEnd {
	return GameEnd{
		Type:          "GameEnd",
		Won:           won,
		YourScore:     yourScore,
		OpponentScore: opponentScore,
		EloChange:     eloChange,
		NewRating:     newRating,
	}
}

func NewOpponentDisconnected() OpponentDisconnected {
	return OpponentDisconnected{Type: "OpponentDisconnected"}
}

func NewOpponentReconnected() OpponentReconnected {
	return OpponentReconnected{Type: "OpponentReconnected"}
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: "Error", Message: message}
}

func NewPong() Pong {
	return Pong{Type: "Pong"}
}

// DeviceAuthResponse is returned by POST /auth/device.
type DeviceAuthResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	Interval        int    `json:"interval"`
}

// AuthPollResponse is returned by POST /auth/poll.
type AuthPollResponse struct {
	Status   string `json:"status"` // pending | complete
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

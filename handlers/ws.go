// handlers/ws.go
package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"

	"sudoku-arena/middleware"
	"sudoku-arena/models"
	"sudoku-arena/services"
	"sudoku-arena/workers"
)

// msgRate is the per-connection inbound message budget, in messages per
// second. Frames over budget are answered with an Error and dropped.
const msgRate = 20

// WSHandler owns one game socket per player: the read loop, the
// outbound writer, and dispatch into the room engine.
type WSHandler struct {
	registry *services.Registry
	queue    *services.MatchmakingQueue
	rooms    *services.RoomManager
	grace    *workers.ReconnectSupervisor
}

func NewWSHandler(registry *services.Registry, queue *services.MatchmakingQueue, rooms *services.RoomManager, grace *workers.ReconnectSupervisor) *WSHandler {
	return &WSHandler{
		registry: registry,
		queue:    queue,
		rooms:    rooms,
		grace:    grace,
	}
}

// Serve runs for the lifetime of one websocket connection. Auth already
// happened in the upgrade middleware; the user's identity rides Locals.
func (h *WSHandler) Serve(c *websocket.Conn) {
	userID := c.Locals(string(middleware.UserIDContextKey)).(uint)
	username := c.Locals(string(middleware.UsernameContextKey)).(string)
	rating := c.Locals(string(middleware.RatingContextKey)).(int)

	handle := h.registry.TryRegister(userID, username, rating)
	if handle == nil {
		payload, _ := json.Marshal(models.NewError("Server is full"))
		_ = c.WriteMessage(websocket.TextMessage, payload)
		return
	}
	log.Printf("[WS] %s connected (%d online)", username, h.registry.Count())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range handle.Outbound() {
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Printf("[WS] marshal failed for %s: %v", username, err)
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}()

	h.registry.Send(userID, models.NewAuthOk(username, handle.Rating))

	// A returning player picks their game back up.
	h.grace.Cancel(userID)
	if h.rooms.ResumeRoom(handle) {
		log.Printf("[WS] %s resumed their game", username)
	}

	limiter := rate.NewLimiter(msgRate, msgRate)
	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		if !limiter.Allow() {
			h.registry.Send(userID, models.NewError("Rate limited"))
			continue
		}
		var msg models.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.registry.Send(userID, models.NewError("Invalid message"))
			continue
		}
		h.dispatch(handle, &msg)
	}

	h.teardown(handle)
	<-writerDone
	log.Printf("[WS] %s disconnected (%d online)", username, h.registry.Count())
}

// teardown unwinds one connection when its read loop exits. If a newer
// connection has already replaced the handle, the user is not actually
// gone and nothing may be torn down.
func (h *WSHandler) teardown(handle *services.ConnectionHandle) {
	if h.registry.Get(handle.UserID) != handle {
		return
	}
	code, inGame := h.rooms.HandleDisconnect(handle.UserID)
	h.registry.Unregister(handle)
	if inGame {
		h.grace.Watch(handle.UserID, code)
	}
}

func (h *WSHandler) dispatch(handle *services.ConnectionHandle, msg *models.ClientMessage) {
	userID := handle.UserID

	switch msg.Type {
	case models.ClientAuth:
		h.registry.Send(userID, models.NewAuthOk(handle.Username, handle.Rating))

	case models.ClientPing:
		h.registry.Send(userID, models.NewPong())

	case models.ClientCreateRoom:
		if !msg.Mode.Valid() || !msg.Difficulty.Valid() {
			h.registry.Send(userID, models.NewError("Invalid mode or difficulty"))
			return
		}
		h.rooms.CreateRoom(handle, msg.Mode, msg.Difficulty)

	case models.ClientJoinRoom:
		if err := h.rooms.JoinRoom(handle, msg.Code); err != nil {
			h.registry.Send(userID, models.NewError(err.Error()))
		}

	case models.ClientQuickMatch:
		if !msg.Mode.Valid() || !msg.Difficulty.Valid() {
			h.registry.Send(userID, models.NewError("Invalid mode or difficulty"))
			return
		}
		h.quickMatch(handle, msg.Mode, msg.Difficulty)

	case models.ClientPlaceNumber:
		h.rooms.PlaceNumber(userID, msg.Row, msg.Col, msg.Value)

	case models.ClientEraseNumber:
		h.rooms.EraseNumber(userID, msg.Row, msg.Col)

	case models.ClientUpdateCursor:
		h.rooms.UpdateCursor(userID, msg.Row, msg.Col)

	case models.ClientForfeit:
		h.rooms.Forfeit(userID)

	case models.ClientRematch:
		h.rooms.Rematch(userID)

	default:
		h.registry.Send(userID, models.NewError("Unknown message type"))
	}
}

// quickMatch pairs against the queue, skipping over matched players who
// disconnected while waiting.
func (h *WSHandler) quickMatch(handle *services.ConnectionHandle, mode models.GameMode, difficulty models.Difficulty) {
	for {
		opponentID, matched := h.queue.EnqueueOrMatch(handle.UserID, handle.Rating, mode, difficulty)
		if !matched {
			h.registry.Send(handle.UserID, models.NewWaitingForOpponent())
			return
		}
		if opp := h.registry.Get(opponentID); opp != nil {
			h.rooms.StartQuickMatch(opp, handle, mode, difficulty)
			return
		}
	}
}

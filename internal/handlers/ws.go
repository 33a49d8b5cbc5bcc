package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/consolecatch/server/internal/config"
	"github.com/consolecatch/server/internal/game"
	"github.com/consolecatch/server/internal/middleware"
	"github.com/consolecatch/server/internal/models"
	"github.com/consolecatch/server/internal/session"
)

// WSHandler upgrades an HTTP connection to WebSocket and runs the read loop
// for one client. Each connection gets a fresh connection-scoped ID which
// doubles as the player ID inside whatever room it joins.
func WSHandler(logger *logrus.Logger, store *session.Store, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		connID := uuid.New()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readClientMessages(ctx, c, connID, logger, store, cfg)

		// The read loop exited: the connection is gone, so the player leaves
		// whatever room it was in.
		handleDeparture(connID, store, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}

// handleDeparture unbinds the connection and removes its player from the
// room. A room with no humans left is torn down immediately; bots alone do
// not keep it alive.
func handleDeparture(connID uuid.UUID, store *session.Store, logger *logrus.Logger) {
	room, ok := store.RoomFor(connID)
	store.Unbind(connID)
	if !ok {
		return
	}
	_, humansLeft := room.Leave(connID)
	if humansLeft == 0 {
		room.Shutdown()
		store.Delete(room.Code)
		logger.WithField("room", room.Code).Info("room deleted (no humans left)")
	}
}

// readClientMessages reads, validates and routes inbound requests until the
// connection closes.
func readClientMessages(ctx context.Context, c *websocket.Conn, connID uuid.UUID, logger *logrus.Logger, store *session.Store, cfg config.Config) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for connection %s.", connID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for connection %s.", connID)
			} else {
				logger.Warnf("Error reading from WebSocket for connection %s: %v", connID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from connection %s: %v", connID, err)
			sendWsError(c, "Invalid JSON format.")
			continue
		}
		logger.Debugf("Received %q from connection %s.", msg.Type, connID)

		if err := routeMessage(c, connID, msg, logger, store, cfg); err != nil {
			sendWsError(c, err.Error())
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// routeMessage dispatches one request. Returned errors are validation or
// structural failures to report to the requester; room state is untouched
// when one comes back.
func routeMessage(c *websocket.Conn, connID uuid.UUID, msg ClientMessage, logger *logrus.Logger, store *session.Store, cfg config.Config) error {
	switch msg.Type {
	case MsgHostGame:
		return hostGame(c, connID, msg, logger, store, cfg)
	case MsgJoinGame:
		return joinGame(c, connID, msg, store)
	case MsgLeaveGame:
		handleDeparture(connID, store, logger)
		return nil
	case MsgPing:
		sendWsMessage(c, game.Event{Type: game.EventPong})
		return nil
	}

	// Everything else operates on the room this connection already joined.
	room, ok := store.RoomFor(connID)
	if !ok {
		return game.ErrRoomNotFound
	}

	switch msg.Type {
	case MsgAddBot:
		return room.AddBot(connID)
	case MsgRemoveBot:
		return room.RemoveBot(connID)
	case MsgStartGame:
		return room.Start(connID)
	case MsgDrawDeck:
		return room.HandleDraw(connID, game.DrawDeck)
	case MsgDrawDiscard:
		return room.HandleDraw(connID, game.DrawDiscard)
	case MsgDiscardCard:
		if msg.HandIndex == nil {
			return game.ErrInvalidCard
		}
		return room.HandleDiscard(connID, *msg.HandIndex)
	case MsgLockSet:
		if msg.SlotIndex == nil {
			return game.ErrInvalidSlot
		}
		return room.HandleLockSet(connID, *msg.SlotIndex, msg.HandIndexes)
	default:
		logger.Warnf("Unknown message type %q from connection %s.", msg.Type, connID)
		sendWsError(c, "Unknown message type: "+msg.Type)
		return nil
	}
}

// hostGame creates a room, seats the requester as host and binds the
// connection to it.
func hostGame(c *websocket.Conn, connID uuid.UUID, msg ClientMessage, logger *logrus.Logger, store *session.Store, cfg config.Config) error {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		return game.ErrNameRequired
	}
	if _, already := store.RoomFor(connID); already {
		return game.ErrGameInProgress
	}

	room := store.CreateRoom(func(code string) *game.Room {
		r := game.NewRoom(code, cfg.TurnTimerSec, logger)
		r.BroadcastFn = deliverEvents(logger)
		return r
	})

	player := &models.Player{ID: connID, Name: name, Conn: c}
	if err := room.Join(player); err != nil {
		store.Delete(room.Code)
		return err
	}
	store.Bind(connID, room.Code)
	logger.WithFields(logrus.Fields{"room": room.Code, "host": name}).Info("room hosted")

	sendWsMessage(c, game.Event{
		Type:     game.EventRoomCreated,
		RoomCode: room.Code,
		Room:     room.Snapshot(),
	})
	return nil
}

// joinGame seats the requester in an existing waiting room.
func joinGame(c *websocket.Conn, connID uuid.UUID, msg ClientMessage, store *session.Store) error {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		return game.ErrNameRequired
	}
	if _, already := store.RoomFor(connID); already {
		return game.ErrGameInProgress
	}
	room, ok := store.Get(msg.RoomCode)
	if !ok {
		return game.ErrRoomNotFound
	}

	player := &models.Player{ID: connID, Name: name, Conn: c}
	if err := room.Join(player); err != nil {
		return err
	}
	store.Bind(connID, room.Code)

	sendWsMessage(c, game.Event{
		Type:     game.EventRoomJoined,
		RoomCode: room.Code,
		Room:     room.Snapshot(),
	})
	return nil
}

// deliverEvents builds the room's broadcast function. The engine invokes it
// with its lock held, so the actual writes run in a goroutine against the
// connection list captured at call time.
func deliverEvents(logger *logrus.Logger) game.BroadcastFunc {
	return func(targets []*models.Player, ev game.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal event %s: %v", ev.Type, err)
			return
		}
		conns := make([]*websocket.Conn, 0, len(targets))
		for _, p := range targets {
			if p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}
		go func(conns []*websocket.Conn, data []byte) {
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					logger.Warnf("Failed to write event %s: %v", ev.Type, err)
				}
			}
		}(conns, data)
	}
}

// sendWsMessage marshals and writes one message with a write timeout.
func sendWsMessage(c *websocket.Conn, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("Error marshaling WebSocket message: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logrus.Warnf("Error writing WebSocket message: %v", err)
		}
	}
}

// sendWsError reports a rejected request to the requester only.
func sendWsError(c *websocket.Conn, errorMsg string) {
	sendWsMessage(c, game.Event{Type: game.EventError, Message: errorMsg})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdem/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one WebSocket session. The session ID is the player's
// identity for as long as the socket lives.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once

	playerName string
	roomCode   string
}

// NewConnection creates a connection wrapper for an upgraded socket.
func NewConnection(conn *websocket.Conn, sessionID string, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		sessionID: sessionID,
		server:    server,
		logger:    logger.WithPrefix("conn").With("session", sessionID),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Send channel closed during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SessionID returns the session handle assigned at accept time.
func (c *Connection) SessionID() string {
	return c.sessionID
}

// SetPlayerName records the display name chosen at join.
func (c *Connection) SetPlayerName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = name
}

// PlayerName returns the display name, empty before the first join.
func (c *Connection) PlayerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// SetRoom binds the connection to a room code ("" detaches).
func (c *Connection) SetRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

// Room returns the bound room code.
func (c *Connection) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() {
		_ = c.Close()
		c.server.disconnect(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one inbound message. A panic in a handler is
// contained here: it is logged and reported to this session only, leaving
// the room consistent for everyone else.
func (c *Connection) handleMessage(msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic handling message", "type", msg.Type, "panic", r)
			c.sendError("internal_error", "Something went wrong handling that action")
		}
	}()

	c.logger.Debug("received message", "type", msg.Type, "player", c.PlayerName())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join data")
			return
		}
		c.server.handleJoin(c, data)

	case MessageTypeStartHand, MessageTypeNextHand:
		c.server.handleStartHand(c)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.server.handleAction(c, data)

	case MessageTypeToggleAway:
		c.server.handleToggleAway(c)

	case MessageTypeChat:
		var data ChatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse chat data")
			return
		}
		c.server.handleChat(c, data)

	case MessageTypeSettings:
		var data SettingsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse settings data")
			return
		}
		c.server.handleSettings(c, data)

	case MessageTypeGiveChips:
		var data GiveChipsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse give chips data")
			return
		}
		c.server.handleGiveChips(c, data)

	case MessageTypeKickPlayer:
		var data KickPlayerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse kick data")
			return
		}
		c.server.handleKick(c, data)

	case MessageTypeRequestRebuy:
		c.server.handleRequestRebuy(c)

	case MessageTypeHandleRebuy:
		var data HandleRebuyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse rebuy decision data")
			return
		}
		c.server.handleRebuyDecision(c, data)

	case MessageTypeLeave:
		c.server.handleLeave(c)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError reports a rejected action to this session only.
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}

// validPlayerName reports whether a trimmed join name is acceptable.
func validPlayerName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= 2 && n <= 20
}

// errorCode maps a game rejection to a stable wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotHost):
		return "not_host"
	case errors.Is(err, game.ErrNotFound):
		return "not_found"
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrHandInProgress),
		errors.Is(err, game.ErrNoHand),
		errors.Is(err, game.ErrNotEnough),
		errors.Is(err, game.ErrRebuyPending):
		return "bad_state"
	default:
		return "invalid_action"
	}
}

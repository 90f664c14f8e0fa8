package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/room"
)

const maxChatLength = 200

// Server accepts WebSocket sessions and routes their messages to the rooms
// held by the directory.
type Server struct {
	config    *Config
	directory *room.Directory
	logger    *log.Logger
	upgrader  websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*Connection
}

// New creates a server around a room directory.
func New(config *Config, clock quartz.Clock, logger *log.Logger, opts ...room.Option) *Server {
	s := &Server{
		config: config,
		logger: logger.WithPrefix("server"),
		conns:  make(map[string]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	opts = append([]room.Option{room.WithGracePeriod(config.GracePeriod())}, opts...)
	s.directory = room.NewDirectory(config.TableSettings(), clock, logger, opts...)
	return s
}

// Directory exposes the room directory, mainly for tests.
func (s *Server) Directory() *room.Directory {
	return s.directory
}

// Run serves the WebSocket endpoint until the context is cancelled, then
// drains open connections.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    s.config.Addr(),
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", httpServer.Addr)
		err := httpServer.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)

		s.mu.Lock()
		conns := make([]*Connection, 0, len(s.conns))
		for _, c := range s.conns {
			conns = append(conns, c)
		}
		s.mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
		return nil
	})
	return g.Wait()
}

// handleWebSocket upgrades an HTTP request and starts the session pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, uuid.NewString(), s, s.logger)

	s.mu.Lock()
	s.conns[conn.SessionID()] = conn
	s.mu.Unlock()

	s.logger.Info("session connected", "session", conn.SessionID(), "remote", ws.RemoteAddr())
	conn.Start()
}

// disconnect detaches a closed session from its room and tells the table.
func (s *Server) disconnect(c *Connection) {
	s.mu.Lock()
	delete(s.conns, c.SessionID())
	s.mu.Unlock()

	r, name := s.directory.Detach(c.SessionID())
	if r != nil {
		s.broadcastRoom(r)
		if name != "" {
			s.systemChat(r, name+" left the table")
		}
	}
	s.logger.Info("session disconnected", "session", c.SessionID(), "player", c.PlayerName())
}

// connectionsInRoom snapshots the connections bound to a room code.
func (s *Server) connectionsInRoom(code string) []*Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Connection
	for _, c := range s.conns {
		if c.Room() == code {
			out = append(out, c)
		}
	}
	return out
}

// broadcastRoom sends the public state to every session in the room plus a
// per-session private view.
func (s *Server) broadcastRoom(r *room.Room) {
	public := r.Game.PublicSnapshot()
	publicMsg, err := NewMessage(MessageTypeGameState, public)
	if err != nil {
		s.logger.Error("failed to create game state message", "error", err)
		return
	}

	for _, c := range s.connectionsInRoom(r.Code) {
		_ = c.SendMessage(publicMsg)

		private := r.Game.PrivateSnapshot(c.SessionID())
		privateMsg, err := NewMessage(MessageTypePrivateState, private)
		if err != nil {
			s.logger.Error("failed to create private state message", "error", err)
			continue
		}
		_ = c.SendMessage(privateMsg)
	}
}

// systemChat sends a system chat line to every session in the room.
func (s *Server) systemChat(r *room.Room, text string) {
	msg, err := NewMessage(MessageTypeChatMessage, ChatMessageData{
		Type:      "system",
		Text:      text,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to create chat message", "error", err)
		return
	}
	for _, c := range s.connectionsInRoom(r.Code) {
		_ = c.SendMessage(msg)
	}
}

// roomFor resolves the room a connection is playing in, reporting to the
// session when it is not in one.
func (s *Server) roomFor(c *Connection) (*room.Room, bool) {
	r, ok := s.directory.Lookup(c.SessionID())
	if !ok {
		c.sendError("not_in_room", "Join a room first")
		return nil, false
	}
	return r, true
}

func (s *Server) handleJoin(c *Connection, data JoinData) {
	name := strings.TrimSpace(data.PlayerName)
	if !validPlayerName(name) {
		c.sendError("invalid_name", "Name must be 2-20 characters")
		return
	}

	result := s.directory.Join(c.SessionID(), name, data.RoomCode)
	c.SetPlayerName(name)
	c.SetRoom(result.Room.Code)

	if result.Created {
		r := result.Room
		r.Game.SetNotify(func() { s.broadcastRoom(r) })
	}
	if result.Left != nil {
		s.broadcastRoom(result.Left)
		s.systemChat(result.Left, name+" left the table")
	}

	assigned, err := NewMessage(MessageTypeRoomAssigned, RoomAssignedData{
		RoomCode:  result.Room.Code,
		SessionID: c.SessionID(),
		Waiting:   result.Status == game.JoinedWaiting,
	})
	if err != nil {
		s.logger.Error("failed to create room assigned message", "error", err)
		return
	}
	_ = c.SendMessage(assigned)

	s.broadcastRoom(result.Room)
	if result.Status != game.AlreadyJoined {
		s.systemChat(result.Room, name+" joined the table")
	}
	s.logger.Info("player joined", "player", name, "room", result.Room.Code, "session", c.SessionID())
}

func (s *Server) handleStartHand(c *Connection) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	if err := r.Game.StartHand(c.SessionID()); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
}

func (s *Server) handleAction(c *Connection, data ActionData) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	action, err := game.ParseAction(data.Action)
	if err != nil {
		c.sendError("invalid_action", err.Error())
		return
	}
	if err := r.Game.PlayerAction(c.SessionID(), action, data.Amount); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
}

func (s *Server) handleToggleAway(c *Connection) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	if err := r.Game.ToggleAway(c.SessionID()); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
}

func (s *Server) handleChat(c *Connection, data ChatData) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	text := strings.TrimSpace(data.Text)
	if text == "" || len(text) > maxChatLength {
		return
	}

	msg, err := NewMessage(MessageTypeChatMessage, ChatMessageData{
		Type:      "player",
		Name:      c.PlayerName(),
		Text:      text,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Error("failed to create chat message", "error", err)
		return
	}
	for _, peer := range s.connectionsInRoom(r.Code) {
		_ = peer.SendMessage(msg)
	}
}

func (s *Server) handleSettings(c *Connection, data SettingsData) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	if err := r.Game.UpdateSettings(c.SessionID(), data.Settings); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
	s.systemChat(r, c.PlayerName()+" updated the table settings")
}

func (s *Server) handleGiveChips(c *Connection, data GiveChipsData) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	if err := r.Game.GiveChips(c.SessionID(), data.PlayerID, data.Amount); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
}

func (s *Server) handleKick(c *Connection, data KickPlayerData) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	name, err := r.Game.KickPlayer(c.SessionID(), data.PlayerID)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.directory.Unbind(data.PlayerID)

	s.mu.RLock()
	kicked := s.conns[data.PlayerID]
	s.mu.RUnlock()
	if kicked != nil {
		kicked.SetRoom("")
		kicked.sendError("kicked", "You were removed from the table by the host")
	}

	s.broadcastRoom(r)
	s.systemChat(r, name+" was removed from the table")
}

func (s *Server) handleRequestRebuy(c *Connection) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	if err := r.Game.RequestRebuy(c.SessionID()); err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
}

func (s *Server) handleRebuyDecision(c *Connection, data HandleRebuyData) {
	r, ok := s.roomFor(c)
	if !ok {
		return
	}
	name, err := r.Game.HandleRebuy(c.SessionID(), data.PlayerID, data.Approved)
	if err != nil {
		c.sendError(errorCode(err), err.Error())
		return
	}
	s.broadcastRoom(r)
	if data.Approved {
		s.systemChat(r, name+"'s rebuy was approved")
	} else {
		s.systemChat(r, name+"'s rebuy was declined")
	}
}

func (s *Server) handleLeave(c *Connection) {
	r, name := s.directory.Detach(c.SessionID())
	c.SetRoom("")
	if r == nil {
		return
	}
	s.broadcastRoom(r)
	if name != "" {
		s.systemChat(r, name+" left the table")
	}
}

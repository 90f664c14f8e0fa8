// Package room maps room codes to game aggregates and sessions to rooms.
// These two indexes are the only state shared across rooms; both are guarded
// here so joins and disconnects in different rooms can proceed concurrently.
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/randutil"
)

// DefaultGracePeriod is how long an empty room lingers before collection,
// tolerating rapid reconnects.
const DefaultGracePeriod = 5 * time.Minute

// Room pairs a code with its game aggregate.
type Room struct {
	Code string
	Game *game.Game

	gcTimer *quartz.Timer
}

// Directory owns the room-code → room map and the session → room index.
type Directory struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions map[string]string // session ID -> room code

	settings game.Settings
	grace    time.Duration
	clock    quartz.Clock
	codeSrc  RandSource
	seed     int64
	logger   *log.Logger
}

// Option configures a Directory.
type Option func(*Directory)

// WithGracePeriod overrides how long empty rooms are retained.
func WithGracePeriod(d time.Duration) Option {
	return func(dir *Directory) { dir.grace = d }
}

// WithCodeSource injects the code-generation randomness.
func WithCodeSource(src RandSource) Option {
	return func(dir *Directory) { dir.codeSrc = src }
}

// WithSeed fixes the seed used to derive per-room deck RNGs.
func WithSeed(seed int64) Option {
	return func(dir *Directory) { dir.seed = seed }
}

// NewDirectory creates an empty directory.
func NewDirectory(settings game.Settings, clock quartz.Clock, logger *log.Logger, opts ...Option) *Directory {
	dir := &Directory{
		rooms:    make(map[string]*Room),
		sessions: make(map[string]string),
		settings: settings,
		grace:    DefaultGracePeriod,
		clock:    clock,
		seed:     time.Now().UnixNano(),
		logger:   logger.WithPrefix("rooms"),
	}
	for _, opt := range opts {
		opt(dir)
	}
	if dir.codeSrc == nil {
		dir.codeSrc = randutil.New(dir.seed)
	}
	return dir
}

// JoinResult describes where a join request landed.
type JoinResult struct {
	Room    *Room
	Status  game.JoinStatus
	Created bool
	// Left is the room the session was detached from first, if any.
	Left *Room
}

// Join resolves a join request: an empty code creates a fresh room, a known
// code joins it (case-insensitive), and a session already bound to another
// room is detached from it first.
func (d *Directory) Join(sessionID, playerName, code string) JoinResult {
	code = strings.ToUpper(strings.TrimSpace(code))

	d.mu.Lock()

	var result JoinResult
	if code == "" {
		code = d.freshCodeLocked()
	}

	r, ok := d.rooms[code]
	if !ok {
		r = &Room{Code: code, Game: d.newGameLocked(code)}
		d.rooms[code] = r
		result.Created = true
		d.logger.Info("room created", "room", code)
	}
	if r.gcTimer != nil {
		r.gcTimer.Stop()
		r.gcTimer = nil
	}

	var left *Room
	if oldCode, bound := d.sessions[sessionID]; bound && oldCode != code {
		left = d.rooms[oldCode]
	}
	d.sessions[sessionID] = code
	d.mu.Unlock()

	// Detach outside the directory lock; room mutation takes the room's
	// own lock and may schedule collection.
	if left != nil {
		left.Game.RemovePlayer(sessionID)
		d.collectIfEmpty(left)
		result.Left = left
	}

	result.Room = r
	result.Status = r.Game.AddPlayer(sessionID, playerName)
	return result
}

// Lookup returns the room a session is currently bound to.
func (d *Directory) Lookup(sessionID string) (*Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	code, ok := d.sessions[sessionID]
	if !ok {
		return nil, false
	}
	r, ok := d.rooms[code]
	return r, ok
}

// LookupCode returns a room by its code, case-insensitively.
func (d *Directory) LookupCode(code string) (*Room, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Detach removes a session from its room (disconnect or explicit leave) and
// schedules collection if the room emptied. Returns the room left, if any.
func (d *Directory) Detach(sessionID string) (*Room, string) {
	d.mu.Lock()
	code, ok := d.sessions[sessionID]
	if !ok {
		d.mu.Unlock()
		return nil, ""
	}
	delete(d.sessions, sessionID)
	r := d.rooms[code]
	d.mu.Unlock()

	if r == nil {
		return nil, ""
	}
	name := r.Game.RemovePlayer(sessionID)
	d.collectIfEmpty(r)
	return r, name
}

// Unbind drops a kicked session's room binding without re-running removal
// (the kick already evicted the player from the aggregate).
func (d *Directory) Unbind(sessionID string) {
	d.mu.Lock()
	delete(d.sessions, sessionID)
	d.mu.Unlock()
}

// RoomCount returns the number of live rooms.
func (d *Directory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// collectIfEmpty schedules an empty room for deletion after the grace
// period. A rejoin within the grace period cancels the timer.
func (d *Directory) collectIfEmpty(r *Room) {
	if !r.Game.Empty() {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if r.gcTimer != nil {
		r.gcTimer.Stop()
	}
	code := r.Code
	r.gcTimer = d.clock.AfterFunc(d.grace, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		current, ok := d.rooms[code]
		if !ok || current != r || !r.Game.Empty() {
			return
		}
		delete(d.rooms, code)
		d.logger.Info("idle room collected", "room", code)
	})
	d.logger.Debug("room empty, collection scheduled", "room", code, "grace", d.grace)
}

// freshCodeLocked generates a code not already in use.
func (d *Directory) freshCodeLocked() string {
	for {
		code := generateCode(d.codeSrc)
		if _, taken := d.rooms[code]; !taken {
			return code
		}
	}
}

// newGameLocked builds the aggregate for a new room with a deck RNG derived
// from the directory seed and the room count, keeping rooms independent but
// reproducible under a fixed seed.
func (d *Directory) newGameLocked(code string) *game.Game {
	seed := d.seed
	for _, c := range code {
		seed = seed*31 + int64(c)
	}
	return game.New(code, d.settings, randutil.New(seed), d.clock, d.logger)
}

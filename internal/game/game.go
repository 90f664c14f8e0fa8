// Package game implements the authoritative Texas Hold'em state machine for
// one room: the player roster, dealing, betting rounds, showdown, pot
// distribution, hand history and the per-action timer.
//
// All mutations to one Game are serialized behind its mutex; the turn timer
// re-enters through the same mutex and validates a turn token before acting,
// so a timer firing can never interleave with a just-submitted action.
package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/deck"
)

// JoinStatus reports how a join request was resolved.
type JoinStatus int

const (
	Joined JoinStatus = iota
	JoinedWaiting
	AlreadyJoined
)

// Game is the aggregate root for a single room.
type Game struct {
	mu     sync.Mutex
	roomID string
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand

	players []*Player // seated; order defines turn and dealer rotation
	waiting []*Player

	deck               *deck.Deck
	community          []deck.Card
	pot                int
	currentBet         int
	minRaise           int
	dealerIndex        int
	currentPlayerIndex int
	bettingRound       int // 0=preflop .. 3=river
	gameStarted        bool
	handInProgress     bool
	lastAction         string
	hostID             string
	settings           Settings
	handNumber         int

	history       []HandHistoryEntry
	rebuyRequests []RebuyRequest
	showdown      []ShowdownReveal

	// turnSeq invalidates scheduled callbacks: it is bumped whenever the
	// actor changes or the hand ends, and every timer captures the value it
	// was scheduled under.
	turnSeq      uint64
	turnTimer    *quartz.Timer
	advanceTimer *quartz.Timer

	// notify, when set, is invoked (outside the lock) after a mutation that
	// was not triggered by an inbound action: timer auto-folds and all-in
	// auto-advances. The transport layer uses it to rebroadcast snapshots.
	notify func()
}

// New creates an empty room aggregate.
func New(roomID string, settings Settings, rng *rand.Rand, clock quartz.Clock, logger *log.Logger) *Game {
	return &Game{
		roomID:             roomID,
		logger:             logger.WithPrefix("game").With("room", roomID),
		clock:              clock,
		rng:                rng,
		settings:           settings,
		currentPlayerIndex: -1,
		minRaise:           settings.BigBlind,
		lastAction:         "Waiting for host to start the game",
	}
}

// SetNotify installs the change hook used for self-initiated mutations.
func (g *Game) SetNotify(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notify = fn
}

// HostID returns the current host's session handle.
func (g *Game) HostID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hostID
}

// Empty reports whether the room has no seated or waiting players.
func (g *Game) Empty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players) == 0 && len(g.waiting) == 0
}

// AddPlayer seats a new player, or queues them on the waiting list while a
// hand is in progress. The first joiner becomes host.
func (g *Game) AddPlayer(sessionID, name string) JoinStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.findSeated(sessionID) != nil || g.findWaiting(sessionID) != nil {
		return AlreadyJoined
	}

	p := &Player{ID: sessionID, Name: name, Chips: g.settings.StartingChips}

	if g.hostID == "" {
		g.hostID = sessionID
		g.logger.Info("host assigned", "player", name)
	}

	if g.handInProgress {
		g.waiting = append(g.waiting, p)
		g.logger.Info("player queued for next hand", "player", name)
		return JoinedWaiting
	}

	g.players = append(g.players, p)
	g.logger.Info("player seated", "player", name, "seated", len(g.players))
	return Joined
}

// RemovePlayer evicts a session from the room: seated roster, waiting list
// and pending rebuys. Mid-hand the player is folded out first so the turn
// advances cleanly. Returns the removed player's name, or "" if unknown.
func (g *Game) RemovePlayer(sessionID string) string {
	g.mu.Lock()
	name, changed := g.removeLocked(sessionID)
	g.mu.Unlock()
	if changed && name != "" {
		g.logger.Info("player removed", "player", name)
	}
	return name
}

func (g *Game) removeLocked(sessionID string) (string, bool) {
	var name string
	if p := g.findSeated(sessionID); p != nil {
		name = p.Name
	} else if p := g.findWaiting(sessionID); p != nil {
		name = p.Name
	} else {
		return "", false
	}

	// Fold them out of an active hand before touching the roster so the
	// betting engine sees a consistent state.
	idx := g.seatedIndex(sessionID)
	if idx >= 0 && g.handInProgress {
		p := g.players[idx]
		if !p.Folded {
			p.Folded = true
			p.HasActed = true
		}
		p.SatOut = true
		if idx == g.currentPlayerIndex {
			g.cancelTurnTimer()
			g.advanceTurn()
		} else if g.contenderCount() <= 1 {
			g.endHand()
		}
	}

	if idx = g.seatedIndex(sessionID); idx >= 0 {
		g.players = append(g.players[:idx], g.players[idx+1:]...)
		if g.dealerIndex > idx {
			g.dealerIndex--
		}
		if g.currentPlayerIndex > idx {
			g.currentPlayerIndex--
		}
		if len(g.players) > 0 {
			g.dealerIndex %= len(g.players)
		} else {
			g.dealerIndex = 0
		}
		if g.currentPlayerIndex >= len(g.players) {
			g.currentPlayerIndex = -1
		}
	}
	for i, p := range g.waiting {
		if p.ID == sessionID {
			g.waiting = append(g.waiting[:i], g.waiting[i+1:]...)
			break
		}
	}
	g.dropRebuyRequest(sessionID)

	if g.hostID == sessionID {
		switch {
		case len(g.players) > 0:
			g.hostID = g.players[0].ID
			g.logger.Info("host transferred", "player", g.players[0].Name)
		case len(g.waiting) > 0:
			g.hostID = g.waiting[0].ID
			g.logger.Info("host transferred", "player", g.waiting[0].Name)
		default:
			g.hostID = ""
		}
	}

	return name, true
}

// KickPlayer removes a player at the host's request. Self-kick is rejected.
func (g *Game) KickPlayer(hostID, targetID string) (string, error) {
	g.mu.Lock()
	if g.hostID != hostID {
		g.mu.Unlock()
		return "", ErrNotHost
	}
	if hostID == targetID {
		g.mu.Unlock()
		return "", fmt.Errorf("%w: cannot kick yourself", ErrInvalidAction)
	}
	name, ok := g.removeLocked(targetID)
	g.mu.Unlock()
	if !ok {
		return "", ErrNotFound
	}
	g.logger.Info("player kicked", "player", name)
	return name, nil
}

// StartHand begins a new hand. Host only; requires at least two dealt-in
// players and no hand already in progress.
func (g *Game) StartHand(requesterID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hostID != requesterID {
		return ErrNotHost
	}
	if g.handInProgress {
		return ErrHandInProgress
	}
	if g.dealtInCount() < 2 {
		return ErrNotEnough
	}

	g.gameStarted = true
	g.handInProgress = true
	g.handNumber++
	g.deck = deck.New(g.rng)
	g.community = nil
	g.showdown = nil
	g.pot = 0
	g.currentBet = g.settings.BigBlind
	g.minRaise = g.settings.BigBlind
	g.bettingRound = 0

	for _, p := range g.players {
		p.resetForHand(!p.Away && p.Chips > 0)
	}

	// Two passes, one card per player per pass.
	for pass := 0; pass < 2; pass++ {
		for _, p := range g.players {
			if p.SatOut {
				continue
			}
			card, ok := g.deck.Draw()
			if !ok {
				break
			}
			p.HoleCards = append(p.HoleCards, card)
		}
	}

	sbIdx, bbIdx, firstIdx := g.blindPositions()
	g.postBlind(g.players[sbIdx], g.settings.SmallBlind)
	g.postBlind(g.players[bbIdx], g.settings.BigBlind)

	g.currentPlayerIndex = g.nextActorFrom(firstIdx)
	g.turnSeq++
	if g.currentPlayerIndex == -1 {
		// Both blinds went all-in posting; run the board out.
		g.scheduleAutoAdvance()
	} else {
		g.scheduleTurnTimer()
	}

	g.lastAction = fmt.Sprintf("New hand started! Blinds: $%d/$%d", g.settings.SmallBlind, g.settings.BigBlind)
	g.logger.Info("hand started",
		"hand", g.handNumber,
		"players", g.dealtInCount(),
		"dealer", g.players[g.effectiveDealer()].Name)
	return nil
}

// blindPositions returns the small blind, big blind and first-actor seats.
// Heads-up the dealer posts the small blind and acts first preflop; with
// three or more the blinds sit immediately clockwise of the dealer and
// action starts left of the big blind. Away and broke players are skipped.
func (g *Game) blindPositions() (sb, bb, first int) {
	dealer := g.effectiveDealer()
	if g.dealtInCount() == 2 {
		sb = dealer
		bb = g.nextDealtInFrom(dealer + 1)
		return sb, bb, sb
	}
	sb = g.nextDealtInFrom(dealer + 1)
	bb = g.nextDealtInFrom(sb + 1)
	first = g.nextDealtInFrom(bb + 1)
	return sb, bb, first
}

// postBlind moves up to amount from the player's stack into the pot, capped
// at the stack; posting the whole stack puts the player all-in.
func (g *Game) postBlind(p *Player, amount int) {
	paid := min(amount, p.Chips)
	p.Chips -= paid
	p.Bet = paid
	g.pot += paid
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// ToggleAway flips a seated player's away flag. Going away mid-hand excludes
// the player for the remainder of that hand; if they were due to act they
// are folded immediately and the turn advances.
func (g *Game) ToggleAway(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.seatedIndex(sessionID)
	if idx < 0 {
		return ErrNotFound
	}
	p := g.players[idx]
	p.Away = !p.Away

	if p.Away && g.handInProgress && len(p.HoleCards) == 2 {
		p.SatOut = true
		if !p.Folded && idx == g.currentPlayerIndex {
			p.Folded = true
			p.HasActed = true
			g.lastAction = p.Name + " is away and folds"
			g.cancelTurnTimer()
			g.advanceTurn()
		} else if g.contenderCount() <= 1 {
			g.endHand()
		}
	}

	g.logger.Info("away toggled", "player", p.Name, "away", p.Away)
	return nil
}

// UpdateSettings replaces the table settings. Host only, never mid-hand.
func (g *Game) UpdateSettings(requesterID string, s Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hostID != requesterID {
		return ErrNotHost
	}
	if g.handInProgress {
		return ErrHandInProgress
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	g.settings = s
	g.minRaise = s.BigBlind
	g.logger.Info("settings updated",
		"blinds", fmt.Sprintf("%d/%d", s.SmallBlind, s.BigBlind),
		"startingChips", s.StartingChips,
		"turnTimer", s.TurnTimer)
	return nil
}

// GiveChips grants chips to a seated or waiting player. Host only.
func (g *Game) GiveChips(requesterID, targetID string, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hostID != requesterID {
		return ErrNotHost
	}
	if amount < 1 {
		return fmt.Errorf("%w: amount must be at least 1", ErrInvalidAction)
	}
	p := g.findSeated(targetID)
	if p == nil {
		p = g.findWaiting(targetID)
	}
	if p == nil {
		return ErrNotFound
	}
	p.Chips += amount
	g.logger.Info("chips granted", "player", p.Name, "amount", amount)
	return nil
}

// RequestRebuy queues a rebuy request for a broke seated player.
func (g *Game) RequestRebuy(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findSeated(sessionID)
	if p == nil {
		return ErrNotFound
	}
	if !g.settings.RebuyEnabled {
		return ErrRebuyDisabled
	}
	if p.Chips > 0 {
		return ErrHasChips
	}
	for _, r := range g.rebuyRequests {
		if r.PlayerID == sessionID {
			return ErrRebuyPending
		}
	}
	g.rebuyRequests = append(g.rebuyRequests, RebuyRequest{PlayerID: sessionID, Name: p.Name})
	g.logger.Info("rebuy requested", "player", p.Name)
	return nil
}

// HandleRebuy resolves a pending rebuy request. Host only. Approval resets
// the player's stack to the configured rebuy amount; denial just discards
// the request.
func (g *Game) HandleRebuy(requesterID, playerID string, approved bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hostID != requesterID {
		return "", ErrNotHost
	}
	found := g.dropRebuyRequest(playerID)
	if !found {
		return "", ErrNotFound
	}
	p := g.findSeated(playerID)
	if p == nil {
		return "", ErrNotFound
	}
	if approved {
		p.Chips = g.settings.RebuyAmount
		g.logger.Info("rebuy approved", "player", p.Name, "amount", g.settings.RebuyAmount)
	} else {
		g.logger.Info("rebuy denied", "player", p.Name)
	}
	return p.Name, nil
}

// dropRebuyRequest removes any pending request for the player, reporting
// whether one existed.
func (g *Game) dropRebuyRequest(playerID string) bool {
	for i, r := range g.rebuyRequests {
		if r.PlayerID == playerID {
			g.rebuyRequests = append(g.rebuyRequests[:i], g.rebuyRequests[i+1:]...)
			return true
		}
	}
	return false
}

// roster helpers

func (g *Game) findSeated(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) findWaiting(id string) *Player {
	for _, p := range g.waiting {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) seatedIndex(id string) int {
	for i, p := range g.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// dealtInCount counts seated players eligible to be dealt the next hand.
func (g *Game) dealtInCount() int {
	n := 0
	for _, p := range g.players {
		if !p.Away && p.Chips > 0 {
			n++
		}
	}
	return n
}

// contenderCount counts players still eligible to win the current pot.
func (g *Game) contenderCount() int {
	n := 0
	for _, p := range g.players {
		if p.InContention() {
			n++
		}
	}
	return n
}

// effectiveDealer resolves the dealer index to a dealt-in seat, walking
// forward past away or broke players.
func (g *Game) effectiveDealer() int {
	return g.nextDealtInFrom(g.dealerIndex)
}

// nextDealtInFrom walks circularly from the given index (inclusive) to the
// next seat that is dealt into the current hand.
func (g *Game) nextDealtInFrom(from int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		idx := ((from + i) % n + n) % n
		p := g.players[idx]
		if g.handInProgress {
			if !p.SatOut {
				return idx
			}
		} else if !p.Away && p.Chips > 0 {
			return idx
		}
	}
	return 0
}

// nextActorFrom walks circularly from the given index (inclusive) to the
// next player who can act, or -1 when none remains.
func (g *Game) nextActorFrom(from int) int {
	n := len(g.players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := ((from + i) % n + n) % n
		if g.players[idx].CanAct() {
			return idx
		}
	}
	return -1
}

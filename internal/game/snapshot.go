package game

import (
	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

// PublicPlayer is the shared-with-everyone view of a seated player. Hole
// cards are reduced to a count.
type PublicPlayer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Chips     int    `json:"chips"`
	Bet       int    `json:"bet"`
	Folded    bool   `json:"folded"`
	AllIn     bool   `json:"allIn"`
	Away      bool   `json:"away"`
	CardCount int    `json:"cardCount"`
}

// WaitingPlayer is a joiner awaiting promotion at hand end.
type WaitingPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RebuyRequest is a pending request awaiting the host's decision.
type RebuyRequest struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// ShowdownReveal exposes one contender's cards after a contested finish.
// Cleared when the next hand starts.
type ShowdownReveal struct {
	PlayerID    string      `json:"playerId"`
	Name        string      `json:"name"`
	Cards       []deck.Card `json:"cards"`
	Description string      `json:"description"`
}

// PublicState is the full room view broadcast to every session in the room.
type PublicState struct {
	Players            []PublicPlayer     `json:"players"`
	WaitingPlayers     []WaitingPlayer    `json:"waitingPlayers"`
	CommunityCards     []deck.Card        `json:"communityCards"`
	Pot                int                `json:"pot"`
	CurrentBet         int                `json:"currentBet"`
	MinRaise           int                `json:"minRaise"`
	CurrentPlayerIndex int                `json:"currentPlayerIndex"`
	DealerIndex        int                `json:"dealerIndex"`
	GameStarted        bool               `json:"gameStarted"`
	HandInProgress     bool               `json:"handInProgress"`
	BettingRound       int                `json:"bettingRound"`
	HandNumber         int                `json:"handNumber"`
	LastAction         string             `json:"lastAction"`
	HostID             string             `json:"hostId"`
	Settings           Settings           `json:"settings"`
	RebuyRequests      []RebuyRequest     `json:"rebuyRequests"`
	Showdown           []ShowdownReveal   `json:"showdown,omitempty"`
	History            []HandHistoryEntry `json:"history"`
}

// PrivateState is the per-session view: hole cards plus a running hand
// description once at least the flop is visible.
type PrivateState struct {
	Cards           []deck.Card `json:"cards"`
	HandDescription string      `json:"handDescription"`
}

// PublicSnapshot returns the shared room view. Safe for concurrent use.
func (g *Game) PublicSnapshot() PublicState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.publicSnapshotLocked()
}

func (g *Game) publicSnapshotLocked() PublicState {
	players := make([]PublicPlayer, len(g.players))
	for i, p := range g.players {
		players[i] = PublicPlayer{
			ID:        p.ID,
			Name:      p.Name,
			Chips:     p.Chips,
			Bet:       p.Bet,
			Folded:    p.Folded,
			AllIn:     p.AllIn,
			Away:      p.Away,
			CardCount: len(p.HoleCards),
		}
	}
	waiting := make([]WaitingPlayer, len(g.waiting))
	for i, p := range g.waiting {
		waiting[i] = WaitingPlayer{ID: p.ID, Name: p.Name}
	}

	state := PublicState{
		Players:            players,
		WaitingPlayers:     waiting,
		CommunityCards:     append([]deck.Card(nil), g.community...),
		Pot:                g.pot,
		CurrentBet:         g.currentBet,
		MinRaise:           g.minRaise,
		CurrentPlayerIndex: g.currentPlayerIndex,
		DealerIndex:        g.dealerIndex,
		GameStarted:        g.gameStarted,
		HandInProgress:     g.handInProgress,
		BettingRound:       g.bettingRound,
		HandNumber:         g.handNumber,
		LastAction:         g.lastAction,
		HostID:             g.hostID,
		Settings:           g.settings,
		RebuyRequests:      append([]RebuyRequest(nil), g.rebuyRequests...),
		Showdown:           append([]ShowdownReveal(nil), g.showdown...),
		History:            append([]HandHistoryEntry(nil), g.history...),
	}
	return state
}

// PrivateSnapshot returns the given session's hole cards and current hand
// description. The description is suppressed before the flop and while away.
func (g *Game) PrivateSnapshot(playerID string) PrivateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.findSeated(playerID)
	if p == nil {
		return PrivateState{Cards: []deck.Card{}}
	}

	var desc string
	if len(g.community) >= 3 && len(p.HoleCards) == 2 && !p.Away {
		eval := evaluator.Evaluate(p.HoleCards, g.community)
		desc = evaluator.Describe(eval)
	}

	return PrivateState{
		Cards:           append([]deck.Card(nil), p.HoleCards...),
		HandDescription: desc,
	}
}

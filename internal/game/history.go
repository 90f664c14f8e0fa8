package game

import (
	"time"

	"github.com/cardroom/holdem/internal/deck"
)

// historyCapacity bounds the per-room hand history ring.
const historyCapacity = 50

// HistoryPlayer is a player's final state in a completed hand.
type HistoryPlayer struct {
	Name       string      `json:"name"`
	HoleCards  []deck.Card `json:"holeCards,omitempty"`
	Folded     bool        `json:"folded"`
	FinalChips int         `json:"finalChips"`
}

// Winner records one pot recipient in a completed hand.
type Winner struct {
	Name     string `json:"name"`
	Amount   int    `json:"amount"`
	HandRank string `json:"handRank"`
}

// HandHistoryEntry is an immutable snapshot recorded when a hand ends.
type HandHistoryEntry struct {
	HandNumber     int             `json:"handNumber"`
	Pot            int             `json:"pot"`
	CommunityCards []deck.Card     `json:"communityCards"`
	Players        []HistoryPlayer `json:"players"`
	Winners        []Winner        `json:"winners"`
	Timestamp      time.Time       `json:"timestamp"`
}

// recordHistory prepends an entry, evicting the oldest beyond capacity.
// Most recent first.
func (g *Game) recordHistory(entry HandHistoryEntry) {
	g.history = append([]HandHistoryEntry{entry}, g.history...)
	if len(g.history) > historyCapacity {
		g.history = g.history[:historyCapacity]
	}
}

package game

import (
	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

// Player is a participant in one room. Owned exclusively by that room's Game;
// the session handle in ID ties it back to a transport connection.
type Player struct {
	ID        string
	Name      string
	Chips     int
	HoleCards []deck.Card
	Bet       int // chips committed this street
	Folded    bool
	AllIn     bool
	HasActed  bool
	Away      bool
	SatOut    bool // excluded from the current hand (away at deal, broke, or went away mid-hand)
	BestHand  *evaluator.Evaluation
}

// CanAct reports whether the player may take a betting action.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn && !p.SatOut
}

// InContention reports whether the player is still eligible to win the pot.
func (p *Player) InContention() bool {
	return !p.Folded && !p.SatOut && len(p.HoleCards) == 2
}

// resetForHand clears all per-hand state. dealtIn is false for players who
// sit this hand out (away or broke at the deal).
func (p *Player) resetForHand(dealtIn bool) {
	p.HoleCards = nil
	p.Bet = 0
	p.Folded = false
	p.AllIn = false
	p.HasActed = false
	p.SatOut = !dealtIn
	p.BestHand = nil
}

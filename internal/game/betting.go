package game

import (
	"fmt"
	"time"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

// Action is a betting action submitted by a player.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction maps the wire action name to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// autoAdvanceDelay paces street reveals when nobody can act (everyone
// all-in), so clients see the board run out rather than jump to showdown.
const autoAdvanceDelay = 1500 * time.Millisecond

// PlayerAction applies one betting action for the given session. The acting
// player must be the current player and able to act; amount is the raise
// increment above the current bet and is ignored for other actions.
func (g *Game) PlayerAction(sessionID string, action Action, amount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.handInProgress {
		return ErrNoHand
	}
	idx := g.seatedIndex(sessionID)
	if idx < 0 {
		return ErrNotFound
	}
	p := g.players[idx]
	if !p.CanAct() || idx != g.currentPlayerIndex {
		return ErrNotYourTurn
	}

	switch action {
	case Fold:
		p.Folded = true
		g.lastAction = p.Name + " folds"

	case Check:
		if p.Bet < g.currentBet {
			return ErrCannotCheck
		}
		g.lastAction = p.Name + " checks"

	case Call:
		owed := g.currentBet - p.Bet
		if owed <= 0 {
			return fmt.Errorf("%w: nothing to call", ErrInvalidAction)
		}
		paid := min(owed, p.Chips)
		p.Chips -= paid
		p.Bet += paid
		g.pot += paid
		if p.Chips == 0 {
			p.AllIn = true
			g.lastAction = fmt.Sprintf("%s calls $%d (ALL-IN)", p.Name, paid)
		} else {
			g.lastAction = fmt.Sprintf("%s calls $%d", p.Name, paid)
		}

	case Raise:
		// amount is the increment above the table's current bet. A raise
		// below the minimum is rejected outright, all-in or not.
		if amount < g.minRaise {
			return fmt.Errorf("%w: minimum raise is $%d", ErrRaiseTooSmall, g.minRaise)
		}
		newBet := g.currentBet + amount
		owed := newBet - p.Bet
		if owed > p.Chips {
			return ErrInsufficient
		}
		p.Chips -= owed
		p.Bet = newBet
		g.pot += owed
		g.currentBet = newBet
		g.minRaise = amount

		// Everyone else still in must respond to the raise.
		for i, other := range g.players {
			if i != idx && other.CanAct() {
				other.HasActed = false
			}
		}

		if p.Chips == 0 {
			p.AllIn = true
			g.lastAction = fmt.Sprintf("%s raises to $%d (ALL-IN)", p.Name, newBet)
		} else {
			g.lastAction = fmt.Sprintf("%s raises to $%d", p.Name, newBet)
		}

	default:
		return ErrInvalidAction
	}

	p.HasActed = true
	g.cancelTurnTimer()
	g.logger.Info("action applied", "player", p.Name, "action", action.String(), "pot", g.pot)
	g.advanceTurn()
	return nil
}

// advanceTurn moves play to the next eligible actor, advancing the street or
// ending the hand when appropriate. Callers hold the lock.
func (g *Game) advanceTurn() {
	if g.contenderCount() <= 1 {
		g.endHand()
		return
	}

	if g.roundComplete() {
		g.advanceStreet()
		return
	}

	next := g.nextActorFrom(g.currentPlayerIndex + 1)
	if next == -1 {
		g.advanceStreet()
		return
	}
	g.currentPlayerIndex = next
	g.turnSeq++
	g.scheduleTurnTimer()
}

// roundComplete reports whether the current betting round is finished: every
// player who can still act has acted and matched the current bet, or nobody
// can act at all.
func (g *Game) roundComplete() bool {
	for _, p := range g.players {
		if !p.CanAct() {
			continue
		}
		if !p.HasActed || p.Bet != g.currentBet {
			return false
		}
	}
	return true
}

// advanceStreet deals the next street (burn then reveal), resets the betting
// round and hands action to the first eligible player left of the dealer.
// Callers hold the lock.
func (g *Game) advanceStreet() {
	g.bettingRound++
	if g.bettingRound > 3 {
		g.endHand()
		return
	}

	g.currentBet = 0
	g.minRaise = g.settings.BigBlind
	for _, p := range g.players {
		p.Bet = 0
		if p.CanAct() {
			p.HasActed = false
		}
	}

	switch g.bettingRound {
	case 1:
		if g.deck.Remaining() >= 4 {
			g.deck.Burn()
			for i := 0; i < 3; i++ {
				card, _ := g.deck.Draw()
				g.community = append(g.community, card)
			}
			g.lastAction = "Flop dealt"
		}
	case 2:
		if g.deck.Remaining() >= 2 {
			g.deck.Burn()
			card, _ := g.deck.Draw()
			g.community = append(g.community, card)
			g.lastAction = "Turn dealt"
		}
	case 3:
		if g.deck.Remaining() >= 2 {
			g.deck.Burn()
			card, _ := g.deck.Draw()
			g.community = append(g.community, card)
			g.lastAction = "River dealt"
		}
	}
	g.logger.Info("street advanced", "round", g.bettingRound, "board", fmt.Sprint(g.community))

	g.currentPlayerIndex = g.nextActorFrom(g.effectiveDealer() + 1)
	g.turnSeq++

	if g.currentPlayerIndex == -1 {
		// Everyone left is all-in: run the board out on a short delay, or
		// finish immediately once the river is down.
		if g.bettingRound >= 3 {
			g.endHand()
			return
		}
		g.scheduleAutoAdvance()
		return
	}
	g.scheduleTurnTimer()
}

// endHand settles the pot, records history, rotates the dealer and promotes
// waiting players. Callers hold the lock.
func (g *Game) endHand() {
	g.handInProgress = false
	g.cancelTurnTimer()
	g.cancelAutoAdvance()
	g.currentPlayerIndex = -1
	g.turnSeq++

	var contenders []*Player
	for _, p := range g.players {
		if p.InContention() {
			contenders = append(contenders, p)
		}
	}

	var winners []Winner
	switch {
	case len(contenders) == 1:
		w := contenders[0]
		w.Chips += g.pot
		winners = append(winners, Winner{Name: w.Name, Amount: g.pot, HandRank: "Uncontested"})
		g.lastAction = fmt.Sprintf("%s wins $%d", w.Name, g.pot)

	case len(contenders) > 1:
		for _, p := range contenders {
			eval := evaluator.Evaluate(p.HoleCards, g.community)
			p.BestHand = &eval
		}

		best := []*Player{contenders[0]}
		for _, p := range contenders[1:] {
			cmp := evaluator.Compare(*p.BestHand, *best[0].BestHand)
			if cmp > 0 {
				best = []*Player{p}
			} else if cmp == 0 {
				best = append(best, p)
			}
		}

		// Floor split; remainder chips from uneven splits are dropped.
		share := g.pot / len(best)
		for _, w := range best {
			w.Chips += share
			winners = append(winners, Winner{
				Name:     w.Name,
				Amount:   share,
				HandRank: evaluator.Describe(*w.BestHand),
			})
		}
		if len(best) == 1 {
			g.lastAction = fmt.Sprintf("%s wins $%d with %s",
				best[0].Name, g.pot, evaluator.Describe(*best[0].BestHand))
		} else {
			g.lastAction = fmt.Sprintf("Split pot: $%d each", share)
		}

		// Contested finish: reveal every contender's cards until the next
		// hand starts.
		for _, p := range contenders {
			g.showdown = append(g.showdown, ShowdownReveal{
				PlayerID:    p.ID,
				Name:        p.Name,
				Cards:       append([]deck.Card(nil), p.HoleCards...),
				Description: evaluator.Describe(*p.BestHand),
			})
		}
	}

	g.recordHandHistory(winners)
	g.logger.Info("hand ended", "hand", g.handNumber, "pot", g.pot, "result", g.lastAction)

	// Dealer rotates before any roster changes below.
	if len(g.players) > 0 {
		g.dealerIndex = (g.dealerIndex + 1) % len(g.players)
	}

	// Broke players leave the table unless rebuys give them a way back in.
	if !g.settings.RebuyEnabled {
		kept := g.players[:0]
		for i, p := range g.players {
			if p.Chips > 0 {
				kept = append(kept, p)
			} else {
				if g.dealerIndex > i {
					g.dealerIndex--
				}
				g.logger.Info("broke player removed", "player", p.Name)
			}
		}
		g.players = kept
		if len(g.players) > 0 {
			g.dealerIndex %= len(g.players)
		} else {
			g.dealerIndex = 0
		}
	}

	if len(g.waiting) > 0 {
		g.players = append(g.players, g.waiting...)
		g.lastAction += fmt.Sprintf(" | %d player(s) joined", len(g.waiting))
		g.waiting = nil
	}

	if g.dealtInCount() < 2 {
		g.gameStarted = false
		g.lastAction = "Waiting for more players..."
	}
}

// recordHandHistory captures the completed hand into the bounded ring.
func (g *Game) recordHandHistory(winners []Winner) {
	players := make([]HistoryPlayer, 0, len(g.players))
	for _, p := range g.players {
		if p.SatOut && len(p.HoleCards) == 0 {
			continue
		}
		players = append(players, HistoryPlayer{
			Name:       p.Name,
			HoleCards:  append([]deck.Card(nil), p.HoleCards...),
			Folded:     p.Folded,
			FinalChips: p.Chips,
		})
	}
	g.recordHistory(HandHistoryEntry{
		HandNumber:     g.handNumber,
		Pot:            g.pot,
		CommunityCards: append([]deck.Card(nil), g.community...),
		Players:        players,
		Winners:        winners,
		Timestamp:      g.clock.Now(),
	})
}

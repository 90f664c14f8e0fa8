package game

import "time"

// scheduleTurnTimer arms the per-action countdown for the current player.
// The callback captures the turn sequence it was armed under; if a real
// action (or disconnect, or away toggle) resolves the turn first, the
// sequence moves on and the firing is a no-op. Callers hold the lock.
func (g *Game) scheduleTurnTimer() {
	g.cancelTurnTimer()
	if g.settings.TurnTimer <= 0 || !g.handInProgress || g.currentPlayerIndex < 0 {
		return
	}
	seq := g.turnSeq
	d := time.Duration(g.settings.TurnTimer) * time.Second
	g.turnTimer = g.clock.AfterFunc(d, func() {
		g.handleTurnTimeout(seq)
	})
}

func (g *Game) cancelTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
}

// handleTurnTimeout fires when the acting player's countdown elapses: the
// player is folded and the turn advances. It re-enters the serialized
// mutation path and re-validates the turn token under the lock.
func (g *Game) handleTurnTimeout(seq uint64) {
	g.mu.Lock()
	if seq != g.turnSeq || !g.handInProgress || g.currentPlayerIndex < 0 {
		g.mu.Unlock()
		return
	}

	p := g.players[g.currentPlayerIndex]
	p.Folded = true
	p.HasActed = true
	g.lastAction = p.Name + " ran out of time and folds"
	g.logger.Info("turn timer expired", "player", p.Name)

	g.advanceTurn()
	notify := g.notify
	g.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// scheduleAutoAdvance arms the short delay used to run the board out when
// nobody can act. Callers hold the lock.
func (g *Game) scheduleAutoAdvance() {
	g.cancelAutoAdvance()
	seq := g.turnSeq
	g.advanceTimer = g.clock.AfterFunc(autoAdvanceDelay, func() {
		g.handleAutoAdvance(seq)
	})
}

func (g *Game) cancelAutoAdvance() {
	if g.advanceTimer != nil {
		g.advanceTimer.Stop()
		g.advanceTimer = nil
	}
}

func (g *Game) handleAutoAdvance(seq uint64) {
	g.mu.Lock()
	if seq != g.turnSeq || !g.handInProgress {
		g.mu.Unlock()
		return
	}

	g.advanceStreet()
	notify := g.notify
	g.mu.Unlock()

	if notify != nil {
		notify()
	}
}

package engine

// scoreShowTurn scores the current player's kept hand against the starter,
// and the crib right after it when that player is the dealer. Players show
// one at a time starting from the round's first player, so the dealer always
// shows last.
func (g *GameState) scoreShowTurn() {
	p := g.Round.Current
	hand := g.Players[p].Hand
	starter := *g.Round.Starter

	g.appendLog(LogEntry{Action: "show", Player: p, Cards: hand, Mode: g.Mode})
	for _, s := range ScoreShowHand(hand, starter, false) {
		g.addScore(p, s)
	}

	if p == g.Round.Dealer && g.Mode == ModeShow {
		g.appendLog(LogEntry{Action: "show_crib", Player: p, Cards: g.Round.Crib, Mode: g.Mode})
		for _, s := range ScoreShowHand(g.Round.Crib, starter, true) {
			g.addScore(p, s)
		}
	}
	if g.Mode != ModeShow {
		return
	}

	g.Round.ShowDone[p] = true
	if len(g.Round.ShowDone) == len(g.Players) {
		g.endRound()
		return
	}
	g.Round.Current = (p + 1) % len(g.Players)
}

func (g *GameState) endRound() {
	g.appendLog(LogEntry{Action: "round_end", Player: LogAll, Mode: g.Mode})
	// A winning score flips the mode the moment it is reached; addScore
	// already handled it if it happened during this round.
	if g.Mode == ModeEndGame {
		return
	}
	g.Mode = ModeEndRound
}

// addScore credits points to a player and ends the game the instant anyone
// reaches the winning score. Nothing scores after that point.
func (g *GameState) addScore(player int, s Score) {
	if g.Mode == ModeEndGame {
		return
	}
	g.Players[player].Score += s.Points
	g.appendLog(LogEntry{
		Action: "score",
		Player: player,
		Cards:  s.Cards,
		Points: s.Points,
		Reason: s.Reason,
		Mode:   g.Mode,
	})
	if g.Players[player].Score >= g.Rules.WinScore {
		g.Mode = ModeEndGame
		g.appendLog(LogEntry{Action: "win", Player: player, Mode: g.Mode})
	}
}

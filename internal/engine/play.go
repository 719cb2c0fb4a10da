package engine

import "fmt"

// RunningCount is the sum of card values laid in the current play segment.
func RunningCount(plays []Play) int {
	total := 0
	for _, p := range plays {
		total += p.Card.Value()
	}
	return total
}

// PlayScores evaluates the most recent play of a segment. goScored tells
// whether this segment's go point was already awarded; lastCard tells whether
// the play emptied every hand. Pair and run detection only look at the
// trailing suffix of the segment, in play order.
func PlayScores(plays []Play, goScored bool, lastCard bool) []Score {
	if len(plays) == 0 {
		return nil
	}
	var scores []Score
	last := plays[len(plays)-1]

	switch RunningCount(plays) {
	case 15:
		scores = append(scores, Score{Points: 2, Reason: "15"})
	case 31:
		scores = append(scores, Score{Points: 1, Reason: "31"})
		if !goScored {
			scores = append(scores, Score{Points: 1, Reason: "go"})
		}
	}

	// Trailing cards of matching rank: 2, 3 or 4 in a row.
	matched := 1
	for i := len(plays) - 2; i >= 0 && plays[i].Card.Rank == last.Card.Rank; i-- {
		matched++
	}
	switch matched {
	case 2:
		scores = append(scores, Score{Points: 2, Reason: "pair", Cards: playCards(plays[len(plays)-2:])})
	case 3:
		scores = append(scores, Score{Points: 6, Reason: "three of a kind", Cards: playCards(plays[len(plays)-3:])})
	case 4:
		scores = append(scores, Score{Points: 12, Reason: "four of a kind", Cards: playCards(plays[len(plays)-4:])})
	}

	// Longest trailing window whose ranks form a run, order-independent.
	for size := len(plays); size >= 3; size-- {
		window := playCards(plays[len(plays)-size:])
		if isRun(ranksOf(window)) {
			scores = append(scores, Score{Points: size, Reason: "run", Cards: window})
			break
		}
	}

	if lastCard {
		scores = append(scores, Score{Points: 1, Reason: "last card", Cards: []Card{last.Card}})
	}
	return scores
}

func playCards(plays []Play) []Card {
	cards := make([]Card, len(plays))
	for i, p := range plays {
		cards[i] = p.Card
	}
	return cards
}

// CanPlayAny reports whether the player holds a card that keeps the running
// count at 31 or below.
func (g *GameState) CanPlayAny(player int) bool {
	count := RunningCount(g.Round.CurrentPlays)
	for _, c := range g.Players[player].Unplayed {
		if count+c.Value() <= 31 {
			return true
		}
	}
	return false
}

func (g *GameState) applyPlay(player int, card Card) error {
	if player != g.Round.Current {
		return fmt.Errorf("not your turn")
	}
	if indexOfCard(g.Players[player].Unplayed, card) < 0 {
		return fmt.Errorf("card %s not in hand", card)
	}
	if RunningCount(g.Round.CurrentPlays)+card.Value() > 31 {
		return fmt.Errorf("cannot exceed 31")
	}

	// Checks passed; commit the play.
	if !removeCard(&g.Players[player].Unplayed, card) {
		panic(fmt.Sprintf("play: card %s vanished from hand", card))
	}
	g.Players[player].Played = append(g.Players[player].Played, card)
	play := Play{Player: player, Card: card}
	g.Round.CurrentPlays = append(g.Round.CurrentPlays, play)
	g.Round.AllPlays = append(g.Round.AllPlays, play)
	g.appendLog(LogEntry{Action: "play", Player: player, Cards: []Card{card}, Mode: g.Mode})

	lastCard := true
	for i := range g.Players {
		if len(g.Players[i].Unplayed) > 0 {
			lastCard = false
			break
		}
	}
	for _, s := range PlayScores(g.Round.CurrentPlays, g.Round.GoScored, lastCard) {
		if s.Reason == "go" {
			g.Round.GoScored = true
		}
		g.addScore(player, s)
	}

	g.advancePlay()
	return nil
}

// advancePlay moves the play phase forward after an accepted card: hands off
// to the show once every card is down, closes the segment on a 31, otherwise
// passes the turn and forces "go" on anyone who cannot stay under 31.
func (g *GameState) advancePlay() {
	if g.Mode != ModePlay {
		return
	}
	if len(g.Round.AllPlays) == g.Rules.KeepSize*len(g.Players) {
		g.Mode = ModeShow
		g.Round.Current = g.Round.First
		return
	}
	if RunningCount(g.Round.CurrentPlays) == 31 {
		g.resetSegment()
	} else {
		g.Round.Current = g.nextActivePlayer(g.Round.Current)
	}
	g.forceGoes()
}

// resetSegment starts a new play segment. The first player who said "go"
// leads it; after a 31 with nobody on go, the turn simply rotates on.
func (g *GameState) resetSegment() {
	next := g.nextActivePlayer(g.Round.Current)
	if len(g.Round.Go) > 0 {
		next = g.Round.Go[0]
	}
	g.Round.Go = nil
	g.Round.GoScored = false
	g.Round.CurrentPlays = nil
	g.Round.Current = next
}

// nextActivePlayer advances from the given seat, skipping players who have
// said "go" this segment.
func (g *GameState) nextActivePlayer(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		cand := (from + i) % n
		if !g.inGo(cand) {
			return cand
		}
	}
	return from
}

func (g *GameState) inGo(player int) bool {
	for _, p := range g.Round.Go {
		if p == player {
			return true
		}
	}
	return false
}

// forceGoes makes players pass while the current player has no legal card,
// awarding the segment's go point and closing the segment when everyone is
// out. Terminates because every open segment has a player who can lay at
// least one card from a fresh count of zero.
func (g *GameState) forceGoes() {
	for {
		cur := g.Round.Current
		if g.CanPlayAny(cur) {
			return
		}
		g.declareGo(cur)
		if g.Mode != ModePlay {
			return
		}
		if len(g.Round.Go) == len(g.Players) {
			g.resetSegment()
			continue
		}
		g.Round.Current = g.nextActivePlayer(cur)
	}
}

// declareGo records a forced pass. When exactly one player remains outside
// the go set they score the segment's single go point; GoScored guards
// against scoring it again when the segment later closes on a 31.
func (g *GameState) declareGo(player int) {
	if g.inGo(player) {
		panic(fmt.Sprintf("player %d declared go twice in one segment", player))
	}
	g.Round.Go = append(g.Round.Go, player)
	g.appendLog(LogEntry{Action: "go", Player: player, Mode: g.Mode})

	if len(g.Players)-len(g.Round.Go) != 1 {
		return
	}
	remaining := -1
	for i := range g.Players {
		if !g.inGo(i) {
			remaining = i
			break
		}
	}
	if !g.Round.GoScored {
		g.Round.GoScored = true
		g.addScore(remaining, Score{Points: 1, Reason: "go"})
	}
}

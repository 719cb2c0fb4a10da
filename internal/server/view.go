package server

import "cribbage/internal/engine"

// GameView is the per-player projection built after every accepted action.
// Opponents' unplayed and undiscarded cards are never exposed, only counts.
type GameView struct {
	Game          string      `json:"game"`
	Room          string      `json:"room"`
	Mode          string      `json:"mode"`
	InProgress    bool        `json:"inProgress"`
	PlayerOrder   []string    `json:"playerOrder"`
	CurrentPlayer string      `json:"currentPlayer"`
	HandSizes     []int       `json:"handSizes"`
	TotalScores   []int       `json:"totalScores"`
	Dealer        string      `json:"dealer"`
	CribSize      int         `json:"cribSize"`
	Crib          []string    `json:"crib,omitempty"`
	Starter       string      `json:"starter,omitempty"`
	PlayedCards   []PlayView  `json:"playedCards"`
	PlayCount     int         `json:"playCount"`
	FinalHands    [][]string  `json:"finalHands,omitempty"`
	Recipient     string      `json:"recipient"`
	Hand          []string    `json:"hand"`
	NumToDiscard  int         `json:"numToDiscard"`
	LegalActions  []ActionDTO `json:"legalActions"`
	Log           []EventView `json:"log"`
}

type PlayView struct {
	Player string `json:"player"`
	Card   string `json:"card"`
}

func BuildGameView(g engine.GameState, room string, recipient string) *GameView {
	viewer := g.PlayerIndex(recipient)

	view := &GameView{
		Game:        "cribbage",
		Room:        room,
		Mode:        g.Mode.String(),
		InProgress:  g.InProgress,
		Recipient:   recipient,
		PlayedCards: []PlayView{},
	}

	for i := range g.Players {
		p := g.Players[i]
		view.PlayerOrder = append(view.PlayerOrder, p.Name)
		view.TotalScores = append(view.TotalScores, p.Score)
		// During the play the meaningful count is cards not yet laid.
		if g.Mode == engine.ModePlay {
			view.HandSizes = append(view.HandSizes, len(p.Unplayed))
		} else {
			view.HandSizes = append(view.HandSizes, len(p.Hand))
		}
		if g.Mode == engine.ModeShow {
			view.FinalHands = append(view.FinalHands, cardTokens(p.Hand))
		}
	}

	if g.InProgress && len(g.Players) > 0 {
		view.Dealer = g.Players[g.Round.Dealer].Name
		if cur, ok := engine.CurrentPlayer(g); ok {
			view.CurrentPlayer = g.Players[cur].Name
		}
	}

	view.CribSize = len(g.Round.Crib)
	if g.Mode == engine.ModeShow {
		view.Crib = cardTokens(g.Round.Crib)
	}
	if g.Round.Starter != nil {
		view.Starter = g.Round.Starter.Token()
	}

	for _, play := range g.Round.CurrentPlays {
		view.PlayedCards = append(view.PlayedCards, PlayView{
			Player: g.Players[play.Player].Name,
			Card:   play.Card.Token(),
		})
	}
	view.PlayCount = engine.RunningCount(g.Round.CurrentPlays)

	if viewer >= 0 {
		if g.Mode == engine.ModePlay {
			view.Hand = cardTokens(g.Players[viewer].Unplayed)
		} else {
			view.Hand = cardTokens(g.Players[viewer].Hand)
		}
		if g.Mode == engine.ModeDiscard {
			view.NumToDiscard = len(g.Players[viewer].Hand) - g.Rules.KeepSize
		}
		for _, a := range engine.LegalActions(g, viewer) {
			view.LegalActions = append(view.LegalActions, ActionFromEngine(a))
		}
	}

	view.Log = buildEvents(g, g.Log, recipient)
	return view
}

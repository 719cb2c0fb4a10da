package server

import (
	"fmt"

	"cribbage/internal/engine"
)

// EventView is one engine log entry prepared for a specific recipient.
// Discarded cards are hidden from everyone but the discarding player.
type EventView struct {
	Action string   `json:"action"`
	Player string   `json:"player"`
	Cards  []string `json:"cards,omitempty"`
	Hidden bool     `json:"hidden,omitempty"`
	Points int      `json:"points,omitempty"`
	Reason string   `json:"reason,omitempty"`
	Mode   string   `json:"mode"`
	Text   string   `json:"text"`
}

func buildEvents(g engine.GameState, entries []engine.LogEntry, recipient string) []EventView {
	events := make([]EventView, 0, len(entries))
	for _, e := range entries {
		player := "all"
		if e.Player != engine.LogAll {
			player = g.Players[e.Player].Name
		}
		ev := EventView{
			Action: e.Action,
			Player: player,
			Points: e.Points,
			Reason: e.Reason,
			Mode:   e.Mode.String(),
		}
		if e.Action == "discard" && player != recipient {
			ev.Hidden = true
		} else {
			ev.Cards = cardTokens(e.Cards)
		}
		ev.Text = eventText(ev)
		events = append(events, ev)
	}
	return events
}

func eventText(ev EventView) string {
	switch ev.Action {
	case "start":
		return "Starting new game"
	case "deal":
		return "Dealing a new round"
	case "discard":
		if ev.Hidden {
			return fmt.Sprintf("%s added to the crib.", ev.Player)
		}
		return fmt.Sprintf("%s added %d card(s) to the crib.", ev.Player, len(ev.Cards))
	case "starter":
		if len(ev.Cards) == 1 {
			return fmt.Sprintf("The starter is %s.", ev.Cards[0])
		}
		return "The starter has been cut."
	case "play":
		if len(ev.Cards) == 1 {
			return fmt.Sprintf("%s played %s.", ev.Player, ev.Cards[0])
		}
		return fmt.Sprintf("%s played.", ev.Player)
	case "go":
		return fmt.Sprintf("%s cannot play and says 'Go'.", ev.Player)
	case "score":
		return fmt.Sprintf("%s scored %d for %s.", ev.Player, ev.Points, scoreText(ev.Reason))
	case "show":
		return fmt.Sprintf("%s shows their hand.", ev.Player)
	case "show_crib":
		return fmt.Sprintf("%s shows the crib.", ev.Player)
	case "round_end":
		return "End of round."
	case "win":
		return fmt.Sprintf("%s wins the game!", ev.Player)
	default:
		return ev.Action
	}
}

func scoreText(reason string) string {
	switch reason {
	case "15", "31", "go", "run", "flush", "pair":
		return "a " + reason
	default:
		return reason
	}
}

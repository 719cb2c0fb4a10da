package server

import (
	"errors"
	"fmt"

	"cribbage/internal/engine"
)

type ClientMessage struct {
	Type     string     `json:"type"`
	ActionId string     `json:"actionId,omitempty"`
	Action   *ActionDTO `json:"action,omitempty"`
}

type ServerMessage struct {
	Type   string      `json:"type"`
	State  *GameView   `json:"state,omitempty"`
	Events []EventView `json:"events,omitempty"`
	Error  *ErrorView  `json:"error,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ActionDTO is the wire form of an engine action. Cards travel as the
// portable 2-character tokens ("AS", "TC", "5H").
type ActionDTO struct {
	Type  string   `json:"type"`
	Card  string   `json:"card,omitempty"`
	Cards []string `json:"cards,omitempty"`
}

func (a *ActionDTO) ToEngine() (engine.Action, error) {
	if a == nil {
		return engine.Action{}, errors.New("action missing")
	}
	switch a.Type {
	case "start":
		return engine.Action{Type: engine.ActionStart}, nil
	case "new_game":
		return engine.Action{Type: engine.ActionNewGame}, nil
	case "continue":
		return engine.Action{Type: engine.ActionContinue}, nil
	case "discard":
		if len(a.Cards) == 0 {
			return engine.Action{}, errors.New("discard cards required")
		}
		cards := make([]engine.Card, 0, len(a.Cards))
		for _, token := range a.Cards {
			card, err := engine.ParseCard(token)
			if err != nil {
				return engine.Action{}, err
			}
			cards = append(cards, card)
		}
		return engine.Action{Type: engine.ActionDiscard, Cards: cards}, nil
	case "play":
		if a.Card == "" {
			return engine.Action{}, errors.New("card required")
		}
		card, err := engine.ParseCard(a.Card)
		if err != nil {
			return engine.Action{}, err
		}
		return engine.Action{Type: engine.ActionPlay, Card: &card}, nil
	default:
		return engine.Action{}, fmt.Errorf("unknown action type %q", a.Type)
	}
}

func ActionFromEngine(a engine.Action) ActionDTO {
	switch a.Type {
	case engine.ActionStart:
		return ActionDTO{Type: "start"}
	case engine.ActionNewGame:
		return ActionDTO{Type: "new_game"}
	case engine.ActionContinue:
		return ActionDTO{Type: "continue"}
	case engine.ActionDiscard:
		tokens := make([]string, 0, len(a.Cards))
		for _, c := range a.Cards {
			tokens = append(tokens, c.Token())
		}
		return ActionDTO{Type: "discard", Cards: tokens}
	case engine.ActionPlay:
		if a.Card == nil {
			return ActionDTO{Type: "play"}
		}
		return ActionDTO{Type: "play", Card: a.Card.Token()}
	default:
		return ActionDTO{Type: "unknown"}
	}
}

func cardTokens(cards []engine.Card) []string {
	tokens := make([]string, 0, len(cards))
	for _, c := range cards {
		tokens = append(tokens, c.Token())
	}
	return tokens
}

package bots

import (
	"testing"

	"cribbage/internal/engine"
)

func card(t *testing.T, token string) engine.Card {
	t.Helper()
	c, err := engine.ParseCard(token)
	if err != nil {
		t.Fatalf("parse %s: %v", token, err)
	}
	return c
}

func cards(t *testing.T, tokens ...string) []engine.Card {
	t.Helper()
	out := make([]engine.Card, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, card(t, tok))
	}
	return out
}

func discardState(t *testing.T, hand []engine.Card) engine.GameState {
	t.Helper()
	g := engine.GameState{Rules: engine.StandardRules(), Mode: engine.ModeDiscard, InProgress: true}
	g.Players = []engine.Player{
		{Name: "bot", Hand: hand},
		{Name: "other", Hand: cards(t, "AC", "2C", "3C", "4C", "6C", "7C")},
	}
	g.Round = engine.RoundState{Number: 1, First: 0, Dealer: 1, ShowDone: map[int]bool{}}
	return g
}

func TestGreedyDiscardKeepsScoringCards(t *testing.T) {
	g := discardState(t, cards(t, "5S", "5H", "5D", "JC", "2H", "9D"))
	bot := NewGreedy(1)

	a, ok := bot.ChooseAction(g, 0)
	if !ok || a.Type != engine.ActionDiscard {
		t.Fatalf("expected a discard, got %v ok=%v", a, ok)
	}
	if len(a.Cards) != 2 {
		t.Fatalf("discard count: got %d", len(a.Cards))
	}
	dropped := map[engine.Card]bool{}
	for _, c := range a.Cards {
		dropped[c] = true
	}
	if !dropped[card(t, "2H")] || !dropped[card(t, "9D")] {
		t.Fatalf("expected to drop the deuce and the nine, got %v", a.Cards)
	}
}

func TestGreedyPlayTakesFifteen(t *testing.T) {
	g := engine.GameState{Rules: engine.StandardRules(), Mode: engine.ModePlay, InProgress: true}
	st := card(t, "KD")
	g.Players = []engine.Player{
		{Name: "bot", Hand: cards(t, "5C", "4D", "9H", "QS"), Unplayed: cards(t, "5C", "4D", "9H", "QS")},
		{Name: "other", Hand: cards(t, "TS", "TC", "8H", "7D"), Unplayed: cards(t, "TC", "8H", "7D")},
	}
	g.Round = engine.RoundState{
		Number:       1,
		First:        1,
		Dealer:       1,
		Current:      0,
		Starter:      &st,
		Crib:         cards(t, "AC", "2C", "3S", "4S"),
		ShowDone:     map[int]bool{},
		CurrentPlays: []engine.Play{{Player: 1, Card: card(t, "TS")}},
		AllPlays:     []engine.Play{{Player: 1, Card: card(t, "TS")}},
	}

	bot := NewGreedy(1)
	a, ok := bot.ChooseAction(g, 0)
	if !ok || a.Card == nil {
		t.Fatalf("expected a play, got %v ok=%v", a, ok)
	}
	if *a.Card != card(t, "5C") {
		t.Fatalf("expected the five for fifteen, got %v", a.Card)
	}
}

func TestEasyBotDiscardIsLegal(t *testing.T) {
	g := discardState(t, cards(t, "5S", "5H", "5D", "JC", "2H", "9D"))
	bot := NewEasy(7)

	a, ok := bot.ChooseAction(g, 0)
	if !ok || a.Type != engine.ActionDiscard || len(a.Cards) != 2 {
		t.Fatalf("expected a two-card discard, got %v ok=%v", a, ok)
	}
	if err := engine.Apply(&g, "bot", a); err != nil {
		t.Fatalf("bot discard rejected: %v", err)
	}
	if len(g.Players[0].Hand) != 4 {
		t.Fatalf("hand after discard: %d", len(g.Players[0].Hand))
	}
}

func TestBotsSitTightWhenNothingToDo(t *testing.T) {
	g := discardState(t, cards(t, "5S", "5H", "5D", "JC"))
	if _, ok := NewGreedy(1).ChooseAction(g, 0); ok {
		t.Fatalf("greedy bot must pass after discarding")
	}
	if _, ok := NewEasy(1).ChooseAction(g, 0); ok {
		t.Fatalf("easy bot must pass after discarding")
	}
}

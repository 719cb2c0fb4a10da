package server

import (
	"testing"

	"go.uber.org/zap"

	"cribbage/internal/engine"
)

func mustCards(t *testing.T, tokens ...string) []engine.Card {
	t.Helper()
	out := make([]engine.Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := engine.ParseCard(tok)
		if err != nil {
			t.Fatalf("parse %s: %v", tok, err)
		}
		out = append(out, c)
	}
	return out
}

func TestActionDTORoundTrip(t *testing.T) {
	dtos := []ActionDTO{
		{Type: "start"},
		{Type: "new_game"},
		{Type: "continue"},
		{Type: "discard", Cards: []string{"AS", "TC"}},
		{Type: "play", Card: "5H"},
	}
	for _, dto := range dtos {
		action, err := dto.ToEngine()
		if err != nil {
			t.Fatalf("%s: %v", dto.Type, err)
		}
		back := ActionFromEngine(action)
		if back.Type != dto.Type || back.Card != dto.Card || len(back.Cards) != len(dto.Cards) {
			t.Fatalf("round trip changed %v into %v", dto, back)
		}
	}
}

func TestActionDTORejectsBadInput(t *testing.T) {
	bad := []*ActionDTO{
		nil,
		{Type: "cheat"},
		{Type: "play"},
		{Type: "play", Card: "ZZ"},
		{Type: "discard"},
		{Type: "discard", Cards: []string{"AS", "1X"}},
	}
	for _, dto := range bad {
		if _, err := dto.ToEngine(); err == nil {
			t.Fatalf("expected rejection of %v", dto)
		}
	}
}

// discardViewState is a two-player game frozen mid-discard. Alice still holds
// six cards; bob has already sent two to the crib.
func discardViewState(t *testing.T) engine.GameState {
	t.Helper()
	g := engine.GameState{Rules: engine.StandardRules(), Mode: engine.ModeDiscard, InProgress: true}
	g.Players = []engine.Player{
		{Name: "alice", Hand: mustCards(t, "AS", "2S", "3S", "4S", "5S", "6S")},
		{Name: "bob", Hand: mustCards(t, "AH", "2H", "3H", "4H")},
	}
	g.Round = engine.RoundState{Number: 1, First: 0, Dealer: 1, ShowDone: map[int]bool{}}
	g.Round.Crib = mustCards(t, "5H", "6H")
	return g
}

func TestViewHidesOpponentHands(t *testing.T) {
	g := discardViewState(t)
	view := BuildGameView(g, "room-1", "bob")

	if view.Hand == nil || len(view.Hand) != 4 {
		t.Fatalf("own hand must be visible: %v", view.Hand)
	}
	if view.HandSizes[0] != 6 || view.HandSizes[1] != 4 {
		t.Fatalf("hand sizes: %v", view.HandSizes)
	}
	if view.Crib != nil {
		t.Fatalf("crib cards must stay hidden outside the show")
	}
	if view.CribSize != 2 {
		t.Fatalf("crib size: %d", view.CribSize)
	}
	if view.NumToDiscard != 0 {
		t.Fatalf("bob already discarded, numToDiscard=%d", view.NumToDiscard)
	}
	if view.Dealer != "bob" {
		t.Fatalf("dealer: %s", view.Dealer)
	}
}

func TestViewLegalActionsForViewer(t *testing.T) {
	g := discardViewState(t)
	alice := BuildGameView(g, "room-1", "alice")
	if len(alice.LegalActions) != 1 || alice.LegalActions[0].Type != "discard" {
		t.Fatalf("alice legal actions: %v", alice.LegalActions)
	}
	if alice.NumToDiscard != 2 {
		t.Fatalf("alice numToDiscard: %d", alice.NumToDiscard)
	}

	bob := BuildGameView(g, "room-1", "bob")
	if bob.LegalActions != nil {
		t.Fatalf("bob has nothing to do: %v", bob.LegalActions)
	}
}

func TestViewSpectatorSeesNoHand(t *testing.T) {
	g := discardViewState(t)
	view := BuildGameView(g, "room-1", "watcher")
	if view.Hand != nil || view.LegalActions != nil {
		t.Fatalf("spectator must get no hand or actions")
	}
	if view.HandSizes[0] != 6 {
		t.Fatalf("spectator still sees counts: %v", view.HandSizes)
	}
}

func TestViewRevealsHandsAndCribDuringShow(t *testing.T) {
	g := discardViewState(t)
	g.Mode = engine.ModeShow
	g.Players[0].Hand = g.Players[0].Hand[:4]
	st := mustCards(t, "KD")[0]
	g.Round.Starter = &st
	g.Round.Crib = mustCards(t, "5H", "6H", "7H", "8H")
	g.Round.Current = 0

	view := BuildGameView(g, "room-1", "bob")
	if len(view.Crib) != 4 {
		t.Fatalf("crib must be open during the show: %v", view.Crib)
	}
	if len(view.FinalHands) != 2 || len(view.FinalHands[0]) != 4 {
		t.Fatalf("final hands: %v", view.FinalHands)
	}
	if view.Starter != "KD" {
		t.Fatalf("starter: %s", view.Starter)
	}
	if view.CurrentPlayer != "alice" {
		t.Fatalf("current player: %s", view.CurrentPlayer)
	}
}

func TestDiscardEventsHiddenFromOthers(t *testing.T) {
	g := discardViewState(t)
	g.Log = []engine.LogEntry{
		{Action: "discard", Player: 1, Cards: mustCards(t, "5H", "6H"), Mode: engine.ModeDiscard},
	}

	own := buildEvents(g, g.Log, "bob")
	if own[0].Hidden || len(own[0].Cards) != 2 {
		t.Fatalf("discarder must see their own cards: %+v", own[0])
	}
	other := buildEvents(g, g.Log, "alice")
	if !other[0].Hidden || other[0].Cards != nil {
		t.Fatalf("opponent must not see discarded cards: %+v", other[0])
	}
}

func TestBotsPlayFullGame(t *testing.T) {
	s := NewSession("test-room", zap.NewNop())
	s.addBot()
	s.addBot()
	if len(s.state.Players) != 2 {
		t.Fatalf("bots not seated: %d", len(s.state.Players))
	}

	s.applyAction("bot-1", "", &ActionDTO{Type: "start"})
	if s.state.Mode != engine.ModeEndGame {
		t.Fatalf("bot game did not finish, mode=%v", s.state.Mode)
	}
	winner := false
	for _, p := range s.state.Players {
		if p.Score >= s.state.Rules.WinScore {
			winner = true
		}
	}
	if !winner {
		t.Fatalf("game ended without a winning score")
	}
}

func TestBotsWaitForHumansAtRoundEnd(t *testing.T) {
	s := NewSession("test-room", zap.NewNop())
	s.state.Players = []engine.Player{{Name: "human"}, {Name: "bot-1"}}
	s.bots["bot-1"] = fakeBot{}
	s.state.Mode = engine.ModeEndRound
	s.state.InProgress = true

	if name, _, ok := s.nextBotAction(); ok {
		t.Fatalf("bot must not advance the round past a human, got %s", name)
	}
}

func TestActionIdDeduplicates(t *testing.T) {
	s := NewSession("test-room", zap.NewNop())
	s.addBot()
	if err := s.state.AddPlayer("alice"); err != nil {
		t.Fatalf("add alice: %v", err)
	}

	s.applyAction("alice", "a1", &ActionDTO{Type: "start"})
	logLen := len(s.state.Log)
	s.applyAction("alice", "a1", &ActionDTO{Type: "start"})
	if len(s.state.Log) != logLen {
		t.Fatalf("duplicate actionId must be a no-op")
	}
}

type fakeBot struct{}

func (fakeBot) ChooseAction(state engine.GameState, player int) (engine.Action, bool) {
	return engine.Action{Type: engine.ActionContinue}, true
}

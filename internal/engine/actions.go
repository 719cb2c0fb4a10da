package engine

import (
	"fmt"
	"math/rand"
)

type ActionType int

const (
	ActionStart ActionType = iota
	ActionDiscard
	ActionPlay
	ActionContinue
	ActionNewGame
)

type Action struct {
	Type  ActionType
	Card  *Card
	Cards []Card
}

// Apply is the engine's sole mutator. Rule violations and protocol misuse
// come back as errors with the state untouched; the caller reports them as a
// rejection and re-prompts.
func Apply(g *GameState, playerName string, a Action) error {
	player := g.PlayerIndex(playerName)
	if player < 0 {
		return fmt.Errorf("unknown player %q", playerName)
	}

	switch a.Type {
	case ActionStart:
		return g.startGame()
	case ActionNewGame:
		return g.resetGame()
	case ActionDiscard:
		if g.Mode != ModeDiscard {
			return fmt.Errorf("discard not accepted during %s", g.Mode)
		}
		return g.applyDiscard(player, a.Cards)
	case ActionPlay:
		if g.Mode != ModePlay {
			return fmt.Errorf("play not accepted during %s", g.Mode)
		}
		if a.Card == nil {
			return fmt.Errorf("card required")
		}
		return g.applyPlay(player, *a.Card)
	case ActionContinue:
		return g.applyContinue(player)
	default:
		return fmt.Errorf("unknown action")
	}
}

// CurrentPlayer returns the seat expected to act. During discard every
// player still holding extra cards may act, so there is no single seat.
func CurrentPlayer(g GameState) (int, bool) {
	switch g.Mode {
	case ModePlay, ModeShow:
		return g.Round.Current, true
	default:
		return -1, false
	}
}

// LegalActions lists what a player may do right now. During discard the
// combinations are the client's choice, so a bare discard marker is returned.
func LegalActions(g GameState, player int) []Action {
	if player < 0 || player >= len(g.Players) {
		return nil
	}
	switch g.Mode {
	case ModeStart:
		if len(g.Players) >= g.Rules.MinPlayers {
			return []Action{{Type: ActionStart}}
		}
		return nil
	case ModeDiscard:
		if len(g.Players[player].Hand) > g.Rules.KeepSize {
			return []Action{{Type: ActionDiscard}}
		}
		return nil
	case ModePlay:
		if player != g.Round.Current {
			return nil
		}
		count := RunningCount(g.Round.CurrentPlays)
		var actions []Action
		for i := range g.Players[player].Unplayed {
			c := g.Players[player].Unplayed[i]
			if count+c.Value() <= 31 {
				actions = append(actions, Action{Type: ActionPlay, Card: &c})
			}
		}
		return actions
	case ModeShow:
		if player == g.Round.Current {
			return []Action{{Type: ActionContinue}}
		}
		return nil
	case ModeEndRound:
		return []Action{{Type: ActionContinue}}
	case ModeEndGame:
		return []Action{{Type: ActionNewGame}}
	default:
		return nil
	}
}

func (g *GameState) startGame() error {
	if g.InProgress {
		return fmt.Errorf("game already in progress")
	}
	if len(g.Players) < g.Rules.MinPlayers || len(g.Players) > g.Rules.MaxPlayers {
		return fmt.Errorf("need between %d and %d players", g.Rules.MinPlayers, g.Rules.MaxPlayers)
	}

	rng := rand.New(rand.NewSource(g.Seed))
	rng.Shuffle(len(g.Players), func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})
	for i := range g.Players {
		g.Players[i].Score = 0
	}
	g.InProgress = true
	g.Log = nil
	g.appendLog(LogEntry{Action: "start", Player: LogAll, Mode: g.Mode})
	g.Round = RoundState{}
	g.newRound()
	return nil
}

// resetGame returns a finished table to the start mode so a fresh game can
// begin. Seats are kept; scores and round state are not.
func (g *GameState) resetGame() error {
	if g.Mode != ModeEndGame {
		return fmt.Errorf("new game only allowed after the game ends")
	}
	g.InProgress = false
	g.Mode = ModeStart
	g.Round = RoundState{}
	g.Stock = nil
	g.Log = nil
	g.Seed++
	for i := range g.Players {
		g.Players[i].Score = 0
		g.Players[i].Hand = nil
		g.Players[i].Unplayed = nil
		g.Players[i].Played = nil
	}
	return nil
}

func (g *GameState) newRound() {
	n := len(g.Players)
	num := g.Round.Number + 1
	first := (num - 1) % n
	g.Round = RoundState{
		Number:   num,
		First:    first,
		Dealer:   (first - 1 + n) % n,
		Current:  first,
		ShowDone: map[int]bool{},
	}
	g.Mode = ModeDiscard
	g.dealRound()
}

func (g *GameState) applyDiscard(player int, cards []Card) error {
	need := len(g.Players[player].Hand) - g.Rules.KeepSize
	if need == 0 {
		return fmt.Errorf("already discarded")
	}
	if len(cards) != need {
		return fmt.Errorf("must discard exactly %d card(s)", need)
	}

	// Validate against a scratch copy so a bad discard leaves the hand
	// untouched. Removing one at a time also catches the same card sent
	// twice.
	scratch := append([]Card(nil), g.Players[player].Hand...)
	for _, c := range cards {
		if !removeCard(&scratch, c) {
			return fmt.Errorf("card %s not in hand", c)
		}
	}
	g.Players[player].Hand = scratch
	g.Round.Crib = append(g.Round.Crib, cards...)
	g.appendLog(LogEntry{Action: "discard", Player: player, Cards: cards, Mode: g.Mode})

	if len(g.Round.Crib) == g.Rules.KeepSize {
		g.beginPlay()
	}
	return nil
}

// beginPlay cuts the starter, resolves heels, and opens the play phase with
// the round's first player.
func (g *GameState) beginPlay() {
	starter, err := Draw(&g.Stock)
	if err != nil {
		panic(fmt.Sprintf("cut starter: %v", err))
	}
	g.Round.Starter = &starter
	g.appendLog(LogEntry{Action: "starter", Player: LogAll, Cards: []Card{starter}, Mode: g.Mode})

	g.Mode = ModePlay
	for _, s := range FindHeels(starter) {
		g.addScore(g.Round.Dealer, s)
	}
	if g.Mode != ModePlay {
		return
	}
	for i := range g.Players {
		g.Players[i].Unplayed = append([]Card(nil), g.Players[i].Hand...)
		g.Players[i].Played = nil
	}
	g.Round.Current = g.Round.First
}

func (g *GameState) applyContinue(player int) error {
	switch g.Mode {
	case ModeShow:
		if player != g.Round.Current {
			return fmt.Errorf("not your turn")
		}
		g.scoreShowTurn()
		return nil
	case ModeEndRound:
		g.newRound()
		return nil
	default:
		return fmt.Errorf("continue not accepted during %s", g.Mode)
	}
}

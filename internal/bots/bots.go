package bots

import (
	"math/rand"

	"cribbage/internal/engine"
)

// Bot picks an action for a seat. ChooseAction is only consulted when the
// seat actually has something to do; returning ok=false means sit tight.
type Bot interface {
	ChooseAction(state engine.GameState, player int) (engine.Action, bool)
}

type EasyBot struct {
	RNG *rand.Rand
}

func NewEasy(seed int64) *EasyBot {
	return &EasyBot{RNG: rand.New(rand.NewSource(seed))}
}

// ChooseAction plays uniformly at random among legal moves.
func (b *EasyBot) ChooseAction(state engine.GameState, player int) (engine.Action, bool) {
	if state.Mode == engine.ModeDiscard {
		return randomDiscard(state, player, b.RNG)
	}
	legal := engine.LegalActions(state, player)
	if len(legal) == 0 {
		return engine.Action{}, false
	}
	return legal[b.RNG.Intn(len(legal))], true
}

type GreedyBot struct {
	RNG *rand.Rand
}

func NewGreedy(seed int64) *GreedyBot {
	return &GreedyBot{RNG: rand.New(rand.NewSource(seed))}
}

// ChooseAction keeps the highest-scoring four cards at discard and lays the
// card worth the most immediate pegging points during the play.
func (b *GreedyBot) ChooseAction(state engine.GameState, player int) (engine.Action, bool) {
	switch state.Mode {
	case engine.ModeDiscard:
		return greedyDiscard(state, player)
	case engine.ModePlay:
		return greedyPlay(state, player)
	default:
		legal := engine.LegalActions(state, player)
		if len(legal) == 0 {
			return engine.Action{}, false
		}
		return legal[0], true
	}
}

func randomDiscard(state engine.GameState, player int, rng *rand.Rand) (engine.Action, bool) {
	hand := state.Players[player].Hand
	extra := len(hand) - state.Rules.KeepSize
	if extra <= 0 {
		return engine.Action{}, false
	}
	cards := append([]engine.Card(nil), hand...)
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return engine.Action{Type: engine.ActionDiscard, Cards: cards[:extra]}, true
}

// greedyDiscard tries every discard combination and keeps the four cards
// scoring best on fifteens, pairs and runs. The starter is unknown, so the
// kept hand is evaluated alone.
func greedyDiscard(state engine.GameState, player int) (engine.Action, bool) {
	hand := state.Players[player].Hand
	extra := len(hand) - state.Rules.KeepSize
	if extra <= 0 {
		return engine.Action{}, false
	}

	var best []engine.Card
	bestScore := -1
	for _, drop := range discardChoices(hand, extra) {
		kept := without(hand, drop)
		score := engine.SumScores(engine.FindFifteens(kept)) +
			engine.SumScores(engine.FindPairs(kept)) +
			engine.SumScores(engine.FindLongestRuns(kept))
		if score > bestScore {
			bestScore = score
			best = drop
		}
	}
	return engine.Action{Type: engine.ActionDiscard, Cards: best}, true
}

func greedyPlay(state engine.GameState, player int) (engine.Action, bool) {
	legal := engine.LegalActions(state, player)
	if len(legal) == 0 {
		return engine.Action{}, false
	}
	best := legal[0]
	bestScore := -1
	for _, a := range legal {
		if a.Card == nil {
			continue
		}
		plays := append(append([]engine.Play(nil), state.Round.CurrentPlays...),
			engine.Play{Player: player, Card: *a.Card})
		score := engine.SumScores(engine.PlayScores(plays, state.Round.GoScored, false))
		if score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best, true
}

func discardChoices(hand []engine.Card, count int) [][]engine.Card {
	var out [][]engine.Card
	if count == 1 {
		for i := range hand {
			out = append(out, []engine.Card{hand[i]})
		}
		return out
	}
	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			out = append(out, []engine.Card{hand[i], hand[j]})
		}
	}
	return out
}

func without(hand []engine.Card, drop []engine.Card) []engine.Card {
	kept := make([]engine.Card, 0, len(hand))
	for _, c := range hand {
		skip := false
		for _, d := range drop {
			if c == d {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, c)
		}
	}
	return kept
}

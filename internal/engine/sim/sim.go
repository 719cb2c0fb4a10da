package sim

import (
	"fmt"
	"math/rand"

	"cribbage/internal/engine"
)

type ActionRecord struct {
	Step int
	Mode engine.Mode
	P    string
	A    engine.Action
}

// RunSelfPlay drives complete games to the end with a random policy,
// checking engine invariants after every accepted action. players may be 2
// or 3.
func RunSelfPlay(seed int64, games int, players int, maxStepsPerGame int) error {
	for game := 0; game < games; game++ {
		gameSeed := seed + int64(game)
		if err := runOneGame(gameSeed, players, maxStepsPerGame); err != nil {
			return err
		}
	}
	return nil
}

func runOneGame(seed int64, players int, maxSteps int) error {
	state := engine.NewGame(engine.StandardRules(), seed)
	names := []string{"alice", "bob", "carol"}[:players]
	for _, name := range names {
		if err := state.AddPlayer(name); err != nil {
			return fmt.Errorf("seed=%d add player: %v", seed, err)
		}
	}
	rng := rand.New(rand.NewSource(seed))

	records := []ActionRecord{}
	if err := engine.Apply(&state, names[0], engine.Action{Type: engine.ActionStart}); err != nil {
		return failure(seed, 0, state.Mode, names[0], records, fmt.Sprintf("start error: %v", err))
	}

	for step := 0; step < maxSteps; step++ {
		if state.Mode == engine.ModeEndGame {
			return checkFinal(seed, state)
		}
		name, action, ok := chooseAction(&state, rng)
		if !ok {
			return failure(seed, step, state.Mode, name, records, "no action available")
		}
		if err := engine.Apply(&state, name, action); err != nil {
			return failure(seed, step, state.Mode, name, records, fmt.Sprintf("apply error: %v", err))
		}
		records = append(records, ActionRecord{Step: step, Mode: state.Mode, P: name, A: action})
		if err := checkInvariants(state); err != nil {
			return failure(seed, step, state.Mode, name, records, err.Error())
		}
	}
	return failure(seed, maxSteps, state.Mode, "", records, "game did not terminate")
}

func chooseAction(state *engine.GameState, rng *rand.Rand) (string, engine.Action, bool) {
	switch state.Mode {
	case engine.ModeDiscard:
		for i := range state.Players {
			hand := state.Players[i].Hand
			if extra := len(hand) - state.Rules.KeepSize; extra > 0 {
				cards := append([]engine.Card(nil), hand...)
				rng.Shuffle(len(cards), func(a, b int) { cards[a], cards[b] = cards[b], cards[a] })
				return state.Players[i].Name, engine.Action{Type: engine.ActionDiscard, Cards: cards[:extra]}, true
			}
		}
		return "", engine.Action{}, false
	case engine.ModePlay, engine.ModeShow:
		cur, ok := engine.CurrentPlayer(*state)
		if !ok {
			return "", engine.Action{}, false
		}
		legal := engine.LegalActions(*state, cur)
		if len(legal) == 0 {
			return state.Players[cur].Name, engine.Action{}, false
		}
		return state.Players[cur].Name, legal[rng.Intn(len(legal))], true
	case engine.ModeEndRound:
		return state.Players[0].Name, engine.Action{Type: engine.ActionContinue}, true
	default:
		return "", engine.Action{}, false
	}
}

func checkInvariants(state engine.GameState) error {
	if count := engine.RunningCount(state.Round.CurrentPlays); count > 31 {
		return fmt.Errorf("running count exceeded 31: %d", count)
	}
	switch state.Mode {
	case engine.ModePlay, engine.ModeShow:
		if len(state.Round.Crib) != state.Rules.KeepSize {
			return fmt.Errorf("crib size mismatch: %d", len(state.Round.Crib))
		}
		if state.Round.Starter == nil {
			return fmt.Errorf("starter not cut after discard")
		}
		if total, dup := countCards(state); total != 52 || dup {
			return fmt.Errorf("card conservation broken: total=%d dup=%v", total, dup)
		}
	}
	for _, p := range state.Players {
		if p.Score >= state.Rules.WinScore && state.Mode != engine.ModeEndGame {
			return fmt.Errorf("player %s at %d but game not over", p.Name, p.Score)
		}
	}
	return nil
}

func checkFinal(seed int64, state engine.GameState) error {
	for _, p := range state.Players {
		if p.Score >= state.Rules.WinScore {
			return nil
		}
	}
	return fmt.Errorf("seed=%d game ended with no winning score", seed)
}

func countCards(state engine.GameState) (int, bool) {
	seen := map[engine.Card]bool{}
	total := 0
	dup := false
	add := func(c engine.Card) {
		total++
		if seen[c] {
			dup = true
		}
		seen[c] = true
	}
	for _, p := range state.Players {
		// Hand still holds the kept four; during the play its cards live in
		// the unplayed/played partitions, counted via Hand only.
		for _, c := range p.Hand {
			add(c)
		}
	}
	for _, c := range state.Round.Crib {
		add(c)
	}
	if state.Round.Starter != nil {
		add(*state.Round.Starter)
	}
	for _, c := range state.Stock {
		add(c)
	}
	return total, dup
}

func failure(seed int64, step int, mode engine.Mode, player string, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[s%d %v %s] %v\n", r.Step, r.Mode, r.P, r.A)
	}
	return fmt.Errorf("seed=%d step=%d mode=%v player=%s reason=%s\nlast actions:\n%s",
		seed, step, mode, player, reason, log)
}

package engine

import "sort"

// Score is one scoring event: how many points, why, and the cards involved.
// Callers sum points; the reason and cards feed the event log so clients can
// report and animate each award.
type Score struct {
	Points int
	Reason string
	Cards  []Card
}

func SumValue(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}

func SumScores(scores []Score) int {
	total := 0
	for _, s := range scores {
		total += s.Points
	}
	return total
}

// FindFifteens scores 2 for every subset of two or more cards summing to
// exactly 15. Overlapping subsets all count.
func FindFifteens(cards []Card) []Score {
	var scores []Score
	for size := 2; size <= len(cards); size++ {
		for _, combo := range combinations(cards, size) {
			if SumValue(combo) == 15 {
				scores = append(scores, Score{Points: 2, Reason: "15", Cards: combo})
			}
		}
	}
	return scores
}

// FindPairs scores 2 for every 2-combination of equal rank, so trips come out
// to 6 and quads to 12 without a lookup table.
func FindPairs(cards []Card) []Score {
	var scores []Score
	for _, combo := range combinations(cards, 2) {
		if combo[0].Rank == combo[1].Rank {
			scores = append(scores, Score{Points: 2, Reason: "pair", Cards: combo})
		}
	}
	return scores
}

// FindLongestRuns scores each run of the single longest length found, one
// point per card. Sub-runs inside a longer run do not score.
func FindLongestRuns(cards []Card) []Score {
	var scores []Score
	for size := len(cards); size >= 3; size-- {
		for _, combo := range combinations(cards, size) {
			if isRun(ranksOf(combo)) {
				scores = append(scores, Score{Points: size, Reason: "run", Cards: combo})
			}
		}
		if len(scores) > 0 {
			break
		}
	}
	return scores
}

// FindFlush scores the show-phase flush. A regular hand scores 5 when all
// four cards plus the starter share a suit, else 4 for the hand alone. The
// crib only ever scores the 5-card flush.
func FindFlush(hand []Card, starter Card, crib bool) []Score {
	if sameSuit(hand) && hand[0].Suit == starter.Suit {
		return []Score{{Points: 5, Reason: "flush", Cards: append(append([]Card(nil), hand...), starter)}}
	}
	if !crib && sameSuit(hand) {
		return []Score{{Points: 4, Reason: "flush", Cards: append([]Card(nil), hand...)}}
	}
	return nil
}

// FindNobs scores 1 for a jack in hand matching the starter's suit.
func FindNobs(hand []Card, starter Card) []Score {
	for _, c := range hand {
		if c.Rank == RankJ && c.Suit == starter.Suit {
			return []Score{{Points: 1, Reason: "nobs", Cards: []Card{c}}}
		}
	}
	return nil
}

// FindHeels scores the dealer's 2 points when the cut starter is a jack.
func FindHeels(starter Card) []Score {
	if starter.Rank == RankJ {
		return []Score{{Points: 2, Reason: "heels", Cards: []Card{starter}}}
	}
	return nil
}

// ScoreShowHand evaluates a 4-card hand (or the crib) against the starter.
func ScoreShowHand(hand []Card, starter Card, crib bool) []Score {
	full := append(append([]Card(nil), hand...), starter)
	var scores []Score
	scores = append(scores, FindFifteens(full)...)
	scores = append(scores, FindPairs(full)...)
	scores = append(scores, FindNobs(hand, starter)...)
	scores = append(scores, FindLongestRuns(full)...)
	scores = append(scores, FindFlush(hand, starter, crib)...)
	return scores
}

func sameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

func ranksOf(cards []Card) []Rank {
	ranks := make([]Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return ranks
}

// isRun reports whether the ranks form a contiguous sequence, ace low,
// regardless of order. A duplicated rank breaks the run.
func isRun(ranks []Rank) bool {
	if len(ranks) < 3 {
		return false
	}
	sorted := append([]Rank(nil), ranks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return false
		}
	}
	return true
}

func combinations(cards []Card, size int) [][]Card {
	if size > len(cards) || size <= 0 {
		return nil
	}
	var out [][]Card
	combo := make([]Card, 0, size)
	var walk func(start int)
	walk = func(start int) {
		if len(combo) == size {
			out = append(out, append([]Card(nil), combo...))
			return
		}
		for i := start; i <= len(cards)-(size-len(combo)); i++ {
			combo = append(combo, cards[i])
			walk(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)
	return out
}

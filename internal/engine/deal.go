package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrEmptyDeck is returned by Draw when the stock is exhausted. Normal games
// never get there; callers inside the engine treat it as a programming error.
var ErrEmptyDeck = errors.New("deck is empty")

var allSuits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

var allRanks = []Rank{
	RankA, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7,
	Rank8, Rank9, RankT, RankJ, RankQ, RankK,
}

// BuildDeck returns the 52 distinct (rank, suit) cards.
func BuildDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range allSuits {
		for _, r := range allRanks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a fresh Fisher-Yates permutation of deck.
func Shuffle(deck []Card, seed int64) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Draw removes and returns the top card of the pile.
func Draw(pile *[]Card) (Card, error) {
	if len(*pile) == 0 {
		return Card{}, ErrEmptyDeck
	}
	top := (*pile)[len(*pile)-1]
	*pile = (*pile)[:len(*pile)-1]
	return top, nil
}

// SortHand orders cards by suit then rank for display.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit < hand[j].Suit
		}
		return hand[i].Rank < hand[j].Rank
	})
}

// dealRound shuffles and deals the next round's hands. Two-player deals give
// each player six cards; three-player deals give the dealer six and the
// others five, so the crib always completes at four.
func (g *GameState) dealRound() {
	g.Stock = Shuffle(BuildDeck(), g.Seed+int64(g.Round.Number))

	for i := range g.Players {
		count := 6
		if len(g.Players) == 3 && i != g.Round.Dealer {
			count = 5
		}
		hand := make([]Card, 0, count)
		for j := 0; j < count; j++ {
			c, err := Draw(&g.Stock)
			if err != nil {
				panic(fmt.Sprintf("deal: %v", err))
			}
			hand = append(hand, c)
		}
		SortHand(hand)
		g.Players[i].Hand = hand
		g.Players[i].Unplayed = nil
		g.Players[i].Played = nil
	}
	g.appendLog(LogEntry{Action: "deal", Player: LogAll, Mode: g.Mode})
}

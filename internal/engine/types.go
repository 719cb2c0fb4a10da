package engine

import "fmt"

type Suit int

type Rank int

const (
	SuitSpades Suit = iota
	SuitHearts
	SuitDiamonds
	SuitClubs
)

const (
	RankA Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	RankT
	RankJ
	RankQ
	RankK
)

func (s Suit) String() string {
	switch s {
	case SuitSpades:
		return "S"
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case RankA:
		return "A"
	case Rank2:
		return "2"
	case Rank3:
		return "3"
	case Rank4:
		return "4"
	case Rank5:
		return "5"
	case Rank6:
		return "6"
	case Rank7:
		return "7"
	case Rank8:
		return "8"
	case Rank9:
		return "9"
	case RankT:
		return "T"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	default:
		return "?"
	}
}

// Value is the counting value of a rank: aces count 1, tens and faces count 10.
func (r Rank) Value() int {
	switch {
	case r == RankA:
		return 1
	case r >= RankT:
		return 10
	default:
		return int(r) + 1
	}
}

type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) Value() int {
	return c.Rank.Value()
}

func (c Card) String() string {
	return c.Token()
}

// Token is the 2-character wire form of a card: "AS", "TC", "5H".
func (c Card) Token() string {
	return fmt.Sprintf("%s%s", c.Rank.String(), c.Suit.String())
}

// ParseCard decodes the 2-character wire form produced by Token.
func ParseCard(token string) (Card, error) {
	if len(token) != 2 {
		return Card{}, fmt.Errorf("invalid card token %q", token)
	}
	var rank Rank
	switch token[0] {
	case 'A':
		rank = RankA
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(token[0]-'2') + Rank2
	case 'T':
		rank = RankT
	case 'J':
		rank = RankJ
	case 'Q':
		rank = RankQ
	case 'K':
		rank = RankK
	default:
		return Card{}, fmt.Errorf("invalid rank in card token %q", token)
	}
	var suit Suit
	switch token[1] {
	case 'S':
		suit = SuitSpades
	case 'H':
		suit = SuitHearts
	case 'D':
		suit = SuitDiamonds
	case 'C':
		suit = SuitClubs
	default:
		return Card{}, fmt.Errorf("invalid suit in card token %q", token)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

type Mode int

const (
	ModeStart Mode = iota
	ModeDiscard
	ModePlay
	ModeShow
	ModeEndRound
	ModeEndGame
)

func (m Mode) String() string {
	switch m {
	case ModeStart:
		return "start"
	case ModeDiscard:
		return "discard"
	case ModePlay:
		return "play"
	case ModeShow:
		return "show"
	case ModeEndRound:
		return "end_round"
	case ModeEndGame:
		return "end_game"
	default:
		return "unknown"
	}
}

type Rules struct {
	MinPlayers int
	MaxPlayers int
	KeepSize   int
	WinScore   int
}

func StandardRules() Rules {
	return Rules{
		MinPlayers: 2,
		MaxPlayers: 3,
		KeepSize:   4,
		WinScore:   121,
	}
}

type Player struct {
	Name  string
	Hand  []Card
	Score int
	// Partitions of the dealt hand while the play phase runs.
	Unplayed []Card
	Played   []Card
}

// Play records one card laid during a play segment.
type Play struct {
	Player int
	Card   Card
}

type RoundState struct {
	Number  int
	First   int
	Dealer  int
	Current int
	Crib    []Card
	Starter *Card
	// Go holds player indexes in the order they said "go" this segment.
	Go           []int
	GoScored     bool
	CurrentPlays []Play
	AllPlays     []Play
	ShowDone     map[int]bool
}

// LogAll marks a log entry addressed to the whole table.
const LogAll = -1

// LogEntry is one structured entry of the game's event log. Player is an
// index into Players, or LogAll.
type LogEntry struct {
	Action string
	Player int
	Cards  []Card
	Points int
	Reason string
	Mode   Mode
}

type GameState struct {
	Rules      Rules
	Seed       int64
	Mode       Mode
	InProgress bool
	Players    []Player
	Round      RoundState
	Stock      []Card
	Log        []LogEntry
}

func NewGame(r Rules, seed int64) GameState {
	return GameState{
		Rules: r,
		Seed:  seed,
		Mode:  ModeStart,
	}
}

// AddPlayer seats a player before the game starts.
func (g *GameState) AddPlayer(name string) error {
	if g.InProgress {
		return fmt.Errorf("cannot join while a game is in progress")
	}
	if name == "" {
		return fmt.Errorf("player name required")
	}
	if g.PlayerIndex(name) >= 0 {
		return fmt.Errorf("player %q already seated", name)
	}
	if len(g.Players) >= g.Rules.MaxPlayers {
		return fmt.Errorf("table is full")
	}
	g.Players = append(g.Players, Player{Name: name})
	return nil
}

func (g *GameState) PlayerIndex(name string) int {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return i
		}
	}
	return -1
}

func (g *GameState) appendLog(e LogEntry) {
	g.Log = append(g.Log, e)
}

func indexOfCard(cards []Card, card Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}

// removeCard removes the first card matching by exact rank+suit identity.
// Deck uniqueness guarantees at most one match.
func removeCard(cards *[]Card, card Card) bool {
	i := indexOfCard(*cards, card)
	if i < 0 {
		return false
	}
	*cards = append((*cards)[:i], (*cards)[i+1:]...)
	return true
}

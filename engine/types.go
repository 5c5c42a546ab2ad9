package engine

import (
	"fmt"
	"math/bits"
	"strings"
)

// Suit constants, packed into the upper 4 bits of Card.
const (
	SuitSpades   uint8 = 0
	SuitClubs    uint8 = 1
	SuitHearts   uint8 = 2
	SuitDiamonds uint8 = 3
)

// Rank constants, packed into the lower 4 bits of Card.
const (
	RankAce   uint8 = 1
	RankTwo   uint8 = 2
	RankThree uint8 = 3
	RankFour  uint8 = 4
	RankFive  uint8 = 5
	RankSix   uint8 = 6
	RankSeven uint8 = 7
	RankEight uint8 = 8
	RankNine  uint8 = 9
	RankTen   uint8 = 10
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
)

const (
	NumSuits = 4
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// Valid reports whether c names one of the 52 cards.
func (c Card) Valid() bool {
	return c.Suit() < NumSuits && c.Rank() >= RankAce && c.Rank() <= RankKing
}

// IsEnd returns true for the tunnel ends (Ace and King).
func (c Card) IsEnd() bool {
	r := c.Rank()
	return r == RankAce || r == RankKing
}

// index maps a card to its bit position in a CardSet (suit*13 + rank-1).
func (c Card) index() uint {
	return uint(c.Suit())*NumRanks + uint(c.Rank()-1)
}

func cardAt(idx int) Card {
	return NewCard(uint8(idx/NumRanks), uint8(idx%NumRanks)+1)
}

var suitSymbols = [NumSuits]string{"♠", "♣", "♡", "♢"}
var suitLetters = [NumSuits]string{"S", "C", "H", "D"}
var rankStrings = [NumRanks + 1]string{"?", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// SuitString returns the display symbol of a suit.
func SuitString(suit uint8) string {
	if suit >= NumSuits {
		return "?"
	}
	return suitSymbols[suit]
}

// RankString returns the display string of a rank.
func RankString(rank uint8) string {
	if rank > RankKing {
		return "?"
	}
	return rankStrings[rank]
}

// String renders suit symbol followed by rank, e.g. "♢7" or "♠10".
func (c Card) String() string {
	if c == EmptyCard || !c.Valid() {
		return "--"
	}
	return suitSymbols[c.Suit()] + rankStrings[c.Rank()]
}

// ParseCard parses the String form or its ASCII variant ("D7", "S10", "HK").
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	suit := uint8(NumSuits)
	for i := uint8(0); i < NumSuits; i++ {
		if strings.HasPrefix(s, suitSymbols[i]) {
			suit, s = i, s[len(suitSymbols[i]):]
			break
		}
		if strings.HasPrefix(strings.ToUpper(s), suitLetters[i]) {
			suit, s = i, s[1:]
			break
		}
	}
	if suit == NumSuits {
		return EmptyCard, fmt.Errorf("parse card %q: unknown suit", s)
	}
	rs := strings.ToUpper(s)
	if rs == "T" {
		rs = "10"
	}
	for r := RankAce; r <= RankKing; r++ {
		if rankStrings[r] == rs {
			return NewCard(suit, r), nil
		}
	}
	return EmptyCard, fmt.Errorf("parse card: unknown rank %q", s)
}

// ---------------------------------------------------------------------------
// CardSet: 52-bit set, bit i = card with index i
// ---------------------------------------------------------------------------

// CardSet is a set of cards packed into a single word. It is a plain value:
// copying a CardSet copies the set.
type CardSet uint64

// FullDeck is the set of all 52 cards.
const FullDeck CardSet = (1 << DeckSize) - 1

const suitMask = (1 << NumRanks) - 1

// NewCardSet builds a set from the given cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

// Add returns s with c added.
func (s CardSet) Add(c Card) CardSet { return s | 1<<c.index() }

// Remove returns s with c removed.
func (s CardSet) Remove(c Card) CardSet { return s &^ (1 << c.index()) }

// Has reports whether c is in s.
func (s CardSet) Has(c Card) bool {
	if !c.Valid() {
		return false
	}
	return s&(1<<c.index()) != 0
}

// Len returns the number of cards in s.
func (s CardSet) Len() int { return bits.OnesCount64(uint64(s)) }

// Empty reports whether s has no cards.
func (s CardSet) Empty() bool { return s == 0 }

func (s CardSet) Union(o CardSet) CardSet     { return s | o }
func (s CardSet) Intersect(o CardSet) CardSet { return s & o }
func (s CardSet) Minus(o CardSet) CardSet     { return s &^ o }

// SuitCount returns how many cards of the given suit are in s.
func (s CardSet) SuitCount(suit uint8) int {
	return bits.OnesCount64(uint64(s>>(uint(suit)*NumRanks)) & suitMask)
}

// Cards lists the members of s in suit-major, rank-ascending order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Len())
	for x := uint64(s); x != 0; x &= x - 1 {
		out = append(out, cardAt(bits.TrailingZeros64(x)))
	}
	return out
}

// First returns the lowest card in s, or EmptyCard when s is empty.
func (s CardSet) First() Card {
	if s == 0 {
		return EmptyCard
	}
	return cardAt(bits.TrailingZeros64(uint64(s)))
}

func (s CardSet) String() string {
	cards := s.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// AllCards returns the 52 cards in suit-major order.
func AllCards() []Card { return FullDeck.Cards() }

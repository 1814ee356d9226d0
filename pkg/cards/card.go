package cards

import (
	"fmt"
	"sync"

	"github.com/fadedpez/cardindex/internal/types"
)

// DeckSize is the number of distinct cards
const DeckSize = 52

const ranksPerSuit = uint8(King) + 1

// Card represents a playing card. Cards are indexed suit-major: all spades
// ace to king, then hearts, diamonds and clubs.
type Card struct {
	Rank Rank
	Suit Suit
}

var (
	cardUpperCase = composeCardTokens(rankUpperCase, suitUpperCase)
	cardLowerCase = composeCardTokens(rankLowerCase, suitLowerCase)
)

var defaultCardFormat = sync.OnceValue(func() *Format[Card] {
	return MustFormat[Card](cardUpperCase)
})

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// NewUpperCaseCardFormat returns a formatter using "AS", "10D", ...
func NewUpperCaseCardFormat() Formatter[Card] {
	return MustFormat[Card](cardUpperCase)
}

// NewLowerCaseCardFormat returns a formatter using "as", "10d", ...
func NewLowerCaseCardFormat() Formatter[Card] {
	return MustFormat[Card](cardLowerCase)
}

// NewSymbolCardFormat returns a formatter using "A♠", "10♦", ...
func NewSymbolCardFormat() Formatter[Card] {
	return MustFormat[Card](composeCardTokens(rankUpperCase, suitSymbols))
}

// NewCardFormat builds a card formatter whose tokens are a rank token
// followed by a suit token.
func NewCardFormat(rankTokens, suitTokens []string) (*Format[Card], error) {
	if len(rankTokens) != Size[Rank]() {
		return nil, types.Newf(types.ErrSizeMismatch, "need %d rank tokens, got %d", Size[Rank](), len(rankTokens))
	}
	if len(suitTokens) != Size[Suit]() {
		return nil, types.Newf(types.ErrSizeMismatch, "need %d suit tokens, got %d", Size[Suit](), len(suitTokens))
	}
	return NewFormat[Card](composeCardTokens(rankTokens, suitTokens))
}

// ParseCard parses an upper-case card token such as "QH"
func ParseCard(s string) (Card, error) {
	return defaultCardFormat().Parse(s)
}

// Index implements Indexable. The result is only meaningful for valid cards.
func (c Card) Index() uint8 {
	return uint8(c.Suit)*ranksPerSuit + uint8(c.Rank)
}

// FromIndex implements Indexable
func (Card) FromIndex(index uint8) (Card, error) {
	if index >= DeckSize {
		return Card{}, invalidIndex("card", index, DeckSize-1)
	}
	return Card{
		Rank: Rank(index % ranksPerSuit),
		Suit: Suit(index / ranksPerSuit),
	}, nil
}

// MaximumIndex implements Indexable
func (Card) MaximumIndex() uint8 {
	return DeckSize - 1
}

// Valid reports whether both the rank and the suit are valid
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// Name returns the long name of the card, e.g. "Ten of Diamonds"
func (c Card) Name() string {
	return fmt.Sprintf("%s of %s", c.Rank.Name(), c.Suit.Name())
}

// String returns the upper-case token of the card
func (c Card) String() string {
	if !c.Valid() {
		return c.Rank.String() + c.Suit.String()
	}
	return defaultCardFormat().Format(c)
}

// MarshalText implements encoding.TextMarshaler
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, types.Newf(types.ErrInvalidIndex, "invalid card %s", c)
	}
	return []byte(defaultCardFormat().Format(c)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// composeCardTokens concatenates rank and suit tokens in card index order
func composeCardTokens(rankTokens, suitTokens []string) []string {
	tokens := make([]string, 0, len(rankTokens)*len(suitTokens))
	for _, suit := range suitTokens {
		for _, rank := range rankTokens {
			tokens = append(tokens, rank+suit)
		}
	}
	return tokens
}

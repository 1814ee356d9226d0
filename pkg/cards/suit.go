package cards

import (
	"fmt"
	"sync"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var (
	suitUpperCase = []string{"S", "H", "D", "C"}
	suitLowerCase = []string{"s", "h", "d", "c"}
	suitSymbols   = []string{"♠", "♥", "♦", "♣"}

	suitNames = [...]string{"Spades", "Hearts", "Diamonds", "Clubs"}
)

var defaultSuitFormat = sync.OnceValue(func() *Format[Suit] {
	return MustFormat[Suit](suitUpperCase)
})

// NewUpperCaseSuitFormat returns a formatter using "S", "H", "D", "C"
func NewUpperCaseSuitFormat() Formatter[Suit] {
	return MustFormat[Suit](suitUpperCase)
}

// NewLowerCaseSuitFormat returns a formatter using "s", "h", "d", "c"
func NewLowerCaseSuitFormat() Formatter[Suit] {
	return MustFormat[Suit](suitLowerCase)
}

// NewSymbolSuitFormat returns a formatter using the suit symbols ♠ ♥ ♦ ♣
func NewSymbolSuitFormat() Formatter[Suit] {
	return MustFormat[Suit](suitSymbols)
}

// ParseSuit parses an upper-case suit token
func ParseSuit(s string) (Suit, error) {
	return defaultSuitFormat().Parse(s)
}

// Index implements Indexable
func (s Suit) Index() uint8 {
	return uint8(s)
}

// FromIndex implements Indexable
func (Suit) FromIndex(index uint8) (Suit, error) {
	if index > uint8(Clubs) {
		return Spades, invalidIndex("suit", index, uint8(Clubs))
	}
	return Suit(index), nil
}

// MaximumIndex implements Indexable
func (Suit) MaximumIndex() uint8 {
	return uint8(Clubs)
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s <= Clubs
}

// Name returns the long name of the suit, e.g. "Hearts"
func (s Suit) Name() string {
	if !s.Valid() {
		return s.String()
	}
	return suitNames[s]
}

// String returns the upper-case token of the suit
func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Suit(%d)", uint8(s))
	}
	return defaultSuitFormat().Format(s)
}

// MarshalText implements encoding.TextMarshaler
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, invalidIndex("suit", uint8(s), uint8(Clubs))
	}
	return []byte(defaultSuitFormat().Format(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Suit) UnmarshalText(text []byte) error {
	suit, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = suit
	return nil
}

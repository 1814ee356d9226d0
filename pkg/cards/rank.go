package cards

import (
	"fmt"
	"sync"
)

// Rank represents a card rank, ace low
type Rank uint8

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var (
	rankUpperCase = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	rankLowerCase = []string{"a", "2", "3", "4", "5", "6", "7", "8", "9", "10", "j", "q", "k"}

	rankNames = [...]string{
		"Ace", "Two", "Three", "Four", "Five", "Six", "Seven",
		"Eight", "Nine", "Ten", "Jack", "Queen", "King",
	}
)

var defaultRankFormat = sync.OnceValue(func() *Format[Rank] {
	return MustFormat[Rank](rankUpperCase)
})

// NewUpperCaseRankFormat returns a formatter using "A", "2", ... "K"
func NewUpperCaseRankFormat() Formatter[Rank] {
	return MustFormat[Rank](rankUpperCase)
}

// NewLowerCaseRankFormat returns a formatter using "a", "2", ... "k"
func NewLowerCaseRankFormat() Formatter[Rank] {
	return MustFormat[Rank](rankLowerCase)
}

// ParseRank parses an upper-case rank token
func ParseRank(s string) (Rank, error) {
	return defaultRankFormat().Parse(s)
}

// Index implements Indexable
func (r Rank) Index() uint8 {
	return uint8(r)
}

// FromIndex implements Indexable
func (Rank) FromIndex(index uint8) (Rank, error) {
	if index > uint8(King) {
		return Ace, invalidIndex("rank", index, uint8(King))
	}
	return Rank(index), nil
}

// MaximumIndex implements Indexable
func (Rank) MaximumIndex() uint8 {
	return uint8(King)
}

// Valid reports whether r is one of the thirteen ranks
func (r Rank) Valid() bool {
	return r <= King
}

// Name returns the long name of the rank, e.g. "Queen"
func (r Rank) Name() string {
	if !r.Valid() {
		return r.String()
	}
	return rankNames[r]
}

// String returns the upper-case token of the rank
func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
	return defaultRankFormat().Format(r)
}

// MarshalText implements encoding.TextMarshaler
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, invalidIndex("rank", uint8(r), uint8(King))
	}
	return []byte(defaultRankFormat().Format(r)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Rank) UnmarshalText(text []byte) error {
	rank, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = rank
	return nil
}

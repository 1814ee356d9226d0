package cards

import (
	"fmt"

	"github.com/fadedpez/cardindex/internal/types"
)

// NewFullDeck returns all 52 cards in index order: suits outer, ranks inner
func NewFullDeck() [DeckSize]Card {
	var deck [DeckSize]Card
	i := 0
	for _, suit := range All[Suit]() {
		for _, rank := range All[Rank]() {
			deck[i] = NewCard(rank, suit)
			i++
		}
	}
	return deck
}

// Deck represents an ordered pile of cards, top card first
type Deck struct {
	Cards []Card `json:"cards"`
}

// NewDeck creates a new deck holding every card in index order
func NewDeck() *Deck {
	full := NewFullDeck()
	return &Deck{Cards: full[:]}
}

// DeckFromIndices rebuilds a deck from card indices
func DeckFromIndices(indices []uint8) (*Deck, error) {
	deck := &Deck{Cards: make([]Card, 0, len(indices))}
	for i, index := range indices {
		card, err := Card{}.FromIndex(index)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		deck.Cards = append(deck.Cards, card)
	}
	return deck, nil
}

// Indices returns the index of every card in the deck, in order
func (d *Deck) Indices() []uint8 {
	indices := make([]uint8, len(d.Cards))
	for i, card := range d.Cards {
		indices[i] = card.Index()
	}
	return indices
}

// Len returns the number of cards left
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Contains reports whether the deck still holds card
func (d *Deck) Contains(card Card) bool {
	for _, c := range d.Cards {
		if c == card {
			return true
		}
	}
	return false
}

// Draw draws n cards from the top of the deck
func (d *Deck) Draw(n int) []Card {
	if n < 0 {
		n = 0
	}
	if n > len(d.Cards) {
		n = len(d.Cards)
	}

	cards := d.Cards[:n:n]
	d.Cards = d.Cards[n:]
	return cards
}

// DrawOne draws the top card
func (d *Deck) DrawOne() (Card, error) {
	cards := d.Draw(1)
	if len(cards) == 0 {
		return Card{}, types.New(types.ErrDeckEmpty, "deck is empty")
	}
	return cards[0], nil
}

package deck

import (
	"fmt"
	"time"

	"github.com/fadedpez/cardindex/internal/types"
	"github.com/fadedpez/cardindex/pkg/cards"
	"github.com/google/uuid"
)

// Record is a stored deck
type Record struct {
	ChannelID string       `json:"channel_id"`
	Revision  string       `json:"revision"`
	Cards     []cards.Card `json:"cards"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Deck returns a deck holding a copy of the record's cards
func (r *Record) Deck() *cards.Deck {
	return &cards.Deck{Cards: copyCards(r.Cards)}
}

// clone returns a deep copy so callers never share slices with the store
func (r *Record) clone() *Record {
	c := *r
	c.Cards = copyCards(r.Cards)
	return &c
}

// newRecord builds the record for a save, keeping createdAt from the previous revision
func newRecord(channelID string, deck *cards.Deck, previous *Record, now time.Time) (*Record, error) {
	if channelID == "" {
		return nil, types.New(types.ErrInvalidArgument, "channel ID is required")
	}
	if deck == nil {
		return nil, types.New(types.ErrInvalidArgument, "deck is required")
	}
	for i, card := range deck.Cards {
		if !card.Valid() {
			return nil, types.Newf(types.ErrInvalidIndex, "card %d is not a valid card: %s", i, card)
		}
	}

	record := &Record{
		ChannelID: channelID,
		Revision:  uuid.New().String(),
		Cards:     copyCards(deck.Cards),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if previous != nil {
		record.CreatedAt = previous.CreatedAt
	}
	return record, nil
}

func checkRevision(channelID, revision string, current *Record) error {
	if current == nil {
		return deckNotFound(channelID)
	}
	if current.Revision != revision {
		return revisionConflict(channelID)
	}
	return nil
}

func revisionConflict(channelID string) error {
	return types.Newf(types.ErrConflict, "the deck for channel %s changed, try again", channelID)
}

func deckNotFound(channelID string) error {
	return types.New(types.ErrDeckNotFound, fmt.Sprintf("no deck for channel %s", channelID))
}

func copyCards(src []cards.Card) []cards.Card {
	dst := make([]cards.Card, len(src))
	copy(dst, src)
	return dst
}

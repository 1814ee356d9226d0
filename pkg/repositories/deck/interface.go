package deck

import (
	"context"

	"github.com/fadedpez/cardindex/pkg/cards"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_deck

// Repository stores one deck per channel
type Repository interface {
	// SaveDeck stores the deck for a channel under a new revision
	SaveDeck(ctx context.Context, channelID string, cardDeck *cards.Deck) (*Record, error)

	// UpdateDeck replaces a channel's deck only while its stored revision is
	// still revision. A missing deck is DECK_NOT_FOUND, a newer one CONFLICT.
	UpdateDeck(ctx context.Context, channelID, revision string, cardDeck *cards.Deck) (*Record, error)

	// GetDeck returns the stored deck for a channel, or a DECK_NOT_FOUND error
	GetDeck(ctx context.Context, channelID string) (*Record, error)

	// DeleteDeck removes a channel's deck; deleting a missing deck is not an error
	DeleteDeck(ctx context.Context, channelID string) error

	// ListDecks returns every stored deck ordered by channel ID
	ListDecks(ctx context.Context) ([]*Record, error)

	// Close closes any resources used by the repository
	Close() error
}

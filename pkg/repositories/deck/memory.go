package deck

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/cardindex/pkg/cards"
)

// MemoryRepository implements Repository with in-memory storage
type MemoryRepository struct {
	mu    sync.RWMutex
	decks map[string]*Record
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		decks: make(map[string]*Record),
	}
}

// SaveDeck stores a deck for a channel
func (r *MemoryRepository) SaveDeck(ctx context.Context, channelID string, deck *cards.Deck) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := newRecord(channelID, deck, r.decks[channelID], time.Now())
	if err != nil {
		return nil, err
	}

	r.decks[channelID] = record
	return record.clone(), nil
}

// UpdateDeck replaces a channel's deck if revision is still current
func (r *MemoryRepository) UpdateDeck(ctx context.Context, channelID, revision string, deck *cards.Deck) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.decks[channelID]
	if err := checkRevision(channelID, revision, previous); err != nil {
		return nil, err
	}

	record, err := newRecord(channelID, deck, previous, time.Now())
	if err != nil {
		return nil, err
	}

	r.decks[channelID] = record
	return record.clone(), nil
}

// GetDeck retrieves a deck for a channel
func (r *MemoryRepository) GetDeck(ctx context.Context, channelID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.decks[channelID]
	if !exists {
		return nil, deckNotFound(channelID)
	}
	return record.clone(), nil
}

// DeleteDeck removes a channel's deck
func (r *MemoryRepository) DeleteDeck(ctx context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.decks, channelID)
	return nil
}

// ListDecks returns every stored deck
func (r *MemoryRepository) ListDecks(ctx context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*Record, 0, len(r.decks))
	for _, record := range r.decks {
		records = append(records, record.clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ChannelID < records[j].ChannelID
	})
	return records, nil
}

// Close implements Repository
func (r *MemoryRepository) Close() error {
	return nil
}

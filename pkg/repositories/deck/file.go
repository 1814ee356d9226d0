package deck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/cardindex/pkg/cards"
)

// FileRepository keeps decks in a single JSON file. Cards are written as
// upper-case tokens so the file stays readable.
type FileRepository struct {
	path  string
	mu    sync.RWMutex
	decks map[string]*Record
}

var _ Repository = (*FileRepository)(nil)

// NewFileRepository opens the JSON file at path, creating it on first save
func NewFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{
		path:  path,
		decks: make(map[string]*Record),
	}

	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load decks: %w", err)
	}

	return r, nil
}

// SaveDeck stores a deck for a channel
func (r *FileRepository) SaveDeck(ctx context.Context, channelID string, deck *cards.Deck) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.put(channelID, deck)
}

// UpdateDeck replaces a channel's deck if revision is still current
func (r *FileRepository) UpdateDeck(ctx context.Context, channelID, revision string, deck *cards.Deck) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := checkRevision(channelID, revision, r.decks[channelID]); err != nil {
		return nil, err
	}
	return r.put(channelID, deck)
}

// put stores a new revision and writes the file, restoring the old state on failure.
// Callers hold the write lock.
func (r *FileRepository) put(channelID string, deck *cards.Deck) (*Record, error) {
	previous, existed := r.decks[channelID]
	record, err := newRecord(channelID, deck, previous, time.Now())
	if err != nil {
		return nil, err
	}

	r.decks[channelID] = record
	if err := r.save(); err != nil {
		if existed {
			r.decks[channelID] = previous
		} else {
			delete(r.decks, channelID)
		}
		return nil, err
	}

	return record.clone(), nil
}

// GetDeck retrieves a deck for a channel
func (r *FileRepository) GetDeck(ctx context.Context, channelID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.decks[channelID]
	if !ok {
		return nil, deckNotFound(channelID)
	}

	return record.clone(), nil
}

// DeleteDeck removes a channel's deck
func (r *FileRepository) DeleteDeck(ctx context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decks[channelID]; !ok {
		return nil
	}
	delete(r.decks, channelID)
	return r.save()
}

// ListDecks returns every stored deck
func (r *FileRepository) ListDecks(ctx context.Context) ([]*Record, error) {
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
func (r *FileRepository) Close() error {
	return nil
}

// Helper functions

func (r *FileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &r.decks); err != nil {
		return err
	}
	// A file holding null decodes to a nil map
	if r.decks == nil {
		r.decks = make(map[string]*Record)
	}
	return nil
}

func (r *FileRepository) save() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(r.decks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decks: %w", err)
	}

	// Replace the file atomically
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

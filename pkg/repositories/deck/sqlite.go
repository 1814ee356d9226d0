package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/cardindex/internal/types"
	"github.com/fadedpez/cardindex/pkg/cards"
	"github.com/fadedpez/cardindex/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository implements Repository using SQLite. Each deck is stored
// as a BLOB holding one card index per byte.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := migrations.NewEmbeddedMigrator(db).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveDeck stores a deck for a channel
func (r *SQLiteRepository) SaveDeck(ctx context.Context, channelID string, deck *cards.Deck) (*Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	previous, err := r.getDeck(ctx, tx, channelID)
	if err != nil && !types.Is(err, types.ErrDeckNotFound) {
		return nil, err
	}

	record, err := newRecord(channelID, deck, previous, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO decks (channel_id, revision, cards, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(channel_id)
		DO UPDATE SET revision = excluded.revision, cards = excluded.cards, updated_at = excluded.updated_at`

	_, err = tx.ExecContext(ctx, query,
		record.ChannelID, record.Revision, encodeIndices(record.Cards), record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to save deck", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to commit deck", err)
	}

	return record, nil
}

// UpdateDeck replaces a channel's deck if revision is still current
func (r *SQLiteRepository) UpdateDeck(ctx context.Context, channelID, revision string, deck *cards.Deck) (*Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	previous, err := r.getDeck(ctx, tx, channelID)
	if err != nil && !types.Is(err, types.ErrDeckNotFound) {
		return nil, err
	}
	if err := checkRevision(channelID, revision, previous); err != nil {
		return nil, err
	}

	record, err := newRecord(channelID, deck, previous, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// The revision guard also covers writers in other processes
	res, err := tx.ExecContext(ctx, `
		UPDATE decks SET revision = ?, cards = ?, updated_at = ?
		WHERE channel_id = ? AND revision = ?`,
		record.Revision, encodeIndices(record.Cards), record.UpdatedAt, channelID, revision)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to update deck", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to update deck", err)
	}
	if affected == 0 {
		return nil, revisionConflict(channelID)
	}

	if err := tx.Commit(); err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to commit deck", err)
	}

	return record, nil
}

// GetDeck retrieves a deck for a channel
func (r *SQLiteRepository) GetDeck(ctx context.Context, channelID string) (*Record, error) {
	return r.getDeck(ctx, r.db, channelID)
}

// DeleteDeck removes a channel's deck
func (r *SQLiteRepository) DeleteDeck(ctx context.Context, channelID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE channel_id = ?`, channelID)
	if err != nil {
		return types.Wrap(types.ErrDatabaseError, "failed to delete deck", err)
	}
	return nil
}

// ListDecks returns every stored deck
func (r *SQLiteRepository) ListDecks(ctx context.Context) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT channel_id, revision, cards, created_at, updated_at
		FROM decks
		ORDER BY channel_id`)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to list decks", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to list decks", err)
	}

	return records, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *SQLiteRepository) getDeck(ctx context.Context, q queryer, channelID string) (*Record, error) {
	row := q.QueryRowContext(ctx, `
		SELECT channel_id, revision, cards, created_at, updated_at
		FROM decks
		WHERE channel_id = ?`, channelID)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, deckNotFound(channelID)
	}
	return record, err
}

func scanRecord(row scanner) (*Record, error) {
	var (
		record  Record
		indices []byte
	)
	err := row.Scan(&record.ChannelID, &record.Revision, &indices, &record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to read deck", err)
	}

	deck, err := cards.DeckFromIndices(indices)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, fmt.Sprintf("corrupt deck for channel %s", record.ChannelID), err)
	}
	record.Cards = deck.Cards

	return &record, nil
}

func encodeIndices(cs []cards.Card) []byte {
	return (&cards.Deck{Cards: cs}).Indices()
}

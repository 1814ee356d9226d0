package deck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/cardindex/internal/logging"
	"github.com/fadedpez/cardindex/internal/types"
	"github.com/fadedpez/cardindex/pkg/cards"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string

	// Transport overrides the HTTP transport, mainly for tests
	Transport http.RoundTripper

	// Logger receives mirror failures; logging.Default when nil
	Logger *logging.Logger
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "cardindex",
	}
}

// ElasticsearchRepository wraps another Repository and mirrors every deck into
// an Elasticsearch index so decks can be searched by the cards they hold.
// The wrapped repository stays the source of truth for reads.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
	logger   *logging.Logger
}

var _ Repository = (*ElasticsearchRepository)(nil)

var documentFormat = cards.NewUpperCaseCardFormat()

// deckDocument is the indexed form of a Record
type deckDocument struct {
	ChannelID string    `json:"channel_id"`
	Revision  string    `json:"revision"`
	Cards     []string  `json:"cards"`
	Indices   []int     `json:"indices"`
	CardCount int       `json:"card_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

const deckMapping = `{
	"mappings": {
		"properties": {
			"channel_id": { "type": "keyword" },
			"revision": { "type": "keyword" },
			"cards": { "type": "keyword" },
			"indices": { "type": "byte" },
			"card_count": { "type": "integer" },
			"updated_at": { "type": "date" }
		}
	}
}`

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "cardindex"
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.Default
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    prefix + "_decks",
		logger:   logger,
	}

	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

// initIndex creates the deck index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if deck index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  strings.NewReader(deckMapping),
	}

	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating deck index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating deck index: %s", res.String())
	}

	return nil
}

// SaveDeck stores the deck in the base repository, then indexes it
func (r *ElasticsearchRepository) SaveDeck(ctx context.Context, channelID string, deck *cards.Deck) (*Record, error) {
	record, err := r.baseRepo.SaveDeck(ctx, channelID, deck)
	if err != nil {
		return nil, err
	}

	r.mirror(ctx, record)
	return record, nil
}

// UpdateDeck updates the deck in the base repository, then indexes it
func (r *ElasticsearchRepository) UpdateDeck(ctx context.Context, channelID, revision string, deck *cards.Deck) (*Record, error) {
	record, err := r.baseRepo.UpdateDeck(ctx, channelID, revision, deck)
	if err != nil {
		return nil, err
	}

	r.mirror(ctx, record)
	return record, nil
}

// mirror indexes a record the base repository already committed. A failure
// only leaves the index behind until the next Reindex.
func (r *ElasticsearchRepository) mirror(ctx context.Context, record *Record) {
	if err := r.indexRecord(ctx, record); err != nil {
		r.logger.Warn("Deck for channel %s saved but not indexed: %v", record.ChannelID, err)
	}
}

// GetDeck reads from the base repository
func (r *ElasticsearchRepository) GetDeck(ctx context.Context, channelID string) (*Record, error) {
	return r.baseRepo.GetDeck(ctx, channelID)
}

// DeleteDeck removes the deck from the base repository and the index. A
// failed index delete is logged; Reindex removes the stale document later.
func (r *ElasticsearchRepository) DeleteDeck(ctx context.Context, channelID string) error {
	if err := r.baseRepo.DeleteDeck(ctx, channelID); err != nil {
		return err
	}

	if err := r.deleteDocument(ctx, channelID); err != nil {
		r.logger.Warn("Deck for channel %s deleted but still indexed: %v", channelID, err)
	}
	return nil
}

func (r *ElasticsearchRepository) deleteDocument(ctx context.Context, channelID string) error {
	req := esapi.DeleteRequest{
		Index:      r.index,
		DocumentID: channelID,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return types.Wrap(types.ErrDatabaseError, "failed to delete deck document", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return types.New(types.ErrDatabaseError, fmt.Sprintf("failed to delete deck document: %s", res.String()))
	}

	return nil
}

// ListDecks reads from the base repository
func (r *ElasticsearchRepository) ListDecks(ctx context.Context) ([]*Record, error) {
	return r.baseRepo.ListDecks(ctx)
}

// FindChannelsWithCard returns the channels whose deck still holds card
func (r *ElasticsearchRepository) FindChannelsWithCard(ctx context.Context, card cards.Card) ([]string, error) {
	token, err := card.MarshalText()
	if err != nil {
		return nil, err
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"cards": string(token),
			},
		},
		"_source": []string{"channel_id"},
		"sort":    []interface{}{map[string]interface{}{"channel_id": "asc"}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("error encoding query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, types.Wrap(types.ErrDatabaseError, "failed to search decks", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, types.New(types.ErrDatabaseError, fmt.Sprintf("failed to search decks: %s", res.String()))
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source deckDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding search response: %w", err)
	}

	channels := make([]string, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		channels = append(channels, hit.Source.ChannelID)
	}
	return channels, nil
}

// Reindex copies every deck from the base repository into the index,
// then removes documents for channels that no longer have a deck. It
// returns how many decks were written. Documents missed by a failed index
// or delete call are repaired this way.
func (r *ElasticsearchRepository) Reindex(ctx context.Context) (int, error) {
	records, err := r.baseRepo.ListDecks(ctx)
	if err != nil {
		return 0, err
	}

	channels := make([]string, 0, len(records))
	count := 0
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := r.indexRecord(ctx, record); err != nil {
			return count, fmt.Errorf("channel %s: %w", record.ChannelID, err)
		}
		channels = append(channels, record.ChannelID)
		count++
	}

	if err := r.deleteOtherChannels(ctx, channels); err != nil {
		return count, err
	}

	return count, nil
}

// deleteOtherChannels removes every document whose channel is not in keep
func (r *ElasticsearchRepository) deleteOtherChannels(ctx context.Context, keep []string) error {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": []interface{}{
					map[string]interface{}{
						"terms": map[string]interface{}{"channel_id": keep},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return fmt.Errorf("error encoding query: %w", err)
	}

	res, err := r.client.DeleteByQuery(
		[]string{r.index},
		&buf,
		r.client.DeleteByQuery.WithContext(ctx),
		r.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return types.Wrap(types.ErrDatabaseError, "failed to remove stale deck documents", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return types.New(types.ErrDatabaseError, fmt.Sprintf("failed to remove stale deck documents: %s", res.String()))
	}

	var result struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err == nil && result.Deleted > 0 {
		r.logger.Info("Removed %d stale deck documents", result.Deleted)
	}

	return nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

func (r *ElasticsearchRepository) indexRecord(ctx context.Context, record *Record) error {
	body, err := json.Marshal(newDeckDocument(record))
	if err != nil {
		return fmt.Errorf("error encoding deck document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: record.ChannelID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return types.Wrap(types.ErrDatabaseError, "failed to index deck", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return types.New(types.ErrDatabaseError, fmt.Sprintf("failed to index deck: %s %s", res.Status(), msg))
	}

	return nil
}

func newDeckDocument(record *Record) *deckDocument {
	indices := make([]int, len(record.Cards))
	for i, card := range record.Cards {
		indices[i] = int(card.Index())
	}

	return &deckDocument{
		ChannelID: record.ChannelID,
		Revision:  record.Revision,
		Cards:     cards.FormatAll(documentFormat, record.Cards),
		Indices:   indices,
		CardCount: len(record.Cards),
		UpdatedAt: record.UpdatedAt,
	}
}

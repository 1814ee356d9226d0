package deck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/cardindex/internal/types"
	"github.com/fadedpez/cardindex/pkg/cards"
	"github.com/stretchr/testify/suite"
)

type FileRepositoryTestSuite struct {
	suite.Suite
	path string
}

func TestFileRepositorySuite(t *testing.T) {
	suite.Run(t, new(FileRepositoryTestSuite))
}

func (s *FileRepositoryTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "decks.json")
}

func (s *FileRepositoryTestSuite) TestWritesTokens() {
	// Setup
	repo, err := NewFileRepository(s.path)
	s.Require().NoError(err)

	d := &cards.Deck{Cards: []cards.Card{cards.NewCard(cards.Ten, cards.Diamonds), cards.NewCard(cards.Ace, cards.Spades)}}

	// Execute
	_, err = repo.SaveDeck(context.Background(), "channel-1", d)
	s.Require().NoError(err)

	// Assert
	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.Contains(string(data), `"10D"`)
	s.Contains(string(data), `"AS"`)
}

func (s *FileRepositoryTestSuite) TestReloadsFromDisk() {
	// Setup
	repo, err := NewFileRepository(s.path)
	s.Require().NoError(err)

	d := cards.NewDeck()
	d.Draw(20)
	saved, err := repo.SaveDeck(context.Background(), "channel-1", d)
	s.Require().NoError(err)

	// Execute
	reopened, err := NewFileRepository(s.path)
	s.Require().NoError(err)
	loaded, err := reopened.GetDeck(context.Background(), "channel-1")

	// Assert
	s.Require().NoError(err)
	s.Equal(saved.Revision, loaded.Revision)
	s.Equal(d.Cards, loaded.Cards)
}

func (s *FileRepositoryTestSuite) TestUnknownTokenInFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0755))
	s.Require().NoError(os.WriteFile(s.path, []byte(`{"c":{"channel_id":"c","cards":["AS","ZZ"]}}`), 0644))

	_, err := NewFileRepository(s.path)

	s.True(types.Is(err, types.ErrNotFound), "Unknown tokens should surface as NOT_FOUND, got %v", err)
}

func (s *FileRepositoryTestSuite) TestNullFile() {
	// Setup
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0755))
	s.Require().NoError(os.WriteFile(s.path, []byte("null"), 0644))

	repo, err := NewFileRepository(s.path)
	s.Require().NoError(err)

	// Execute
	_, err = repo.SaveDeck(context.Background(), "channel-1", cards.NewDeck())

	// Assert
	s.Require().NoError(err)
	loaded, err := repo.GetDeck(context.Background(), "channel-1")
	s.Require().NoError(err)
	s.Len(loaded.Cards, 52)
}

package cards

import (
	"sync"
	"testing"

	"github.com/fadedpez/cardindex/internal/types"
	"github.com/stretchr/testify/suite"
)

type FormatTestSuite struct {
	suite.Suite
}

func TestFormatSuite(t *testing.T) {
	suite.Run(t, new(FormatTestSuite))
}

func (s *FormatTestSuite) TestNewFormat_SizeMismatch() {
	testCases := []struct {
		name   string
		tokens []string
	}{
		{name: "empty table", tokens: nil},
		{name: "short table", tokens: []string{"S", "H", "D"}},
		{name: "long table", tokens: []string{"S", "H", "D", "C", "X"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// Execute
			f, err := NewFormat[Suit](tc.tokens)

			// Assert
			s.Nil(f)
			s.True(types.Is(err, types.ErrSizeMismatch), "Expected SIZE_MISMATCH, got %v", err)
		})
	}
}

func (s *FormatTestSuite) TestNewFormat_DuplicateToken() {
	// Execute
	f, err := NewFormat[Suit]([]string{"S", "H", "S", "C"})

	// Assert
	s.Nil(f)
	s.True(types.Is(err, types.ErrDuplicateToken), "Expected DUPLICATE_TOKEN, got %v", err)
	s.Contains(err.Error(), `"S"`)
}

func (s *FormatTestSuite) TestNewFormat_CopiesTable() {
	// Setup
	tokens := []string{"spade", "heart", "diamond", "club"}
	f, err := NewFormat[Suit](tokens)
	s.Require().NoError(err)

	// Execute
	tokens[0] = "changed"

	// Assert
	s.Equal("spade", f.Format(Spades), "Format should not see later edits to the caller's table")
	got, err := f.Parse("spade")
	s.Require().NoError(err)
	s.Equal(Spades, got)
}

func (s *FormatTestSuite) TestMustFormat_Panics() {
	s.Panics(func() {
		MustFormat[Rank]([]string{"A"})
	})
}

func (s *FormatTestSuite) TestCustomTable() {
	// Setup
	f, err := NewFormat[Suit]([]string{"spade", "heart", "diamond", "club"})
	s.Require().NoError(err)

	// Execute & Assert
	s.Equal("diamond", f.Format(Diamonds))

	suit, err := f.Parse("club")
	s.Require().NoError(err)
	s.Equal(Clubs, suit)

	_, err = f.Parse("C")
	s.True(types.Is(err, types.ErrNotFound))
}

func (s *FormatTestSuite) TestParse_NoFolding() {
	f := NewUpperCaseCardFormat()

	testCases := []string{"", "as", " AS", "AS ", "A", "1D", "11S", "ZZ"}
	for _, token := range testCases {
		s.Run(token, func() {
			_, err := f.Parse(token)
			s.True(types.Is(err, types.ErrNotFound), "Expected NOT_FOUND for %q, got %v", token, err)
		})
	}
}

func (s *FormatTestSuite) TestTokens_ReturnsCopy() {
	// Setup
	f := MustFormat[Suit](suitUpperCase)

	// Execute
	tokens := f.Tokens()
	tokens[0] = "X"

	// Assert
	s.Equal([]string{"S", "H", "D", "C"}, f.Tokens())
}

func (s *FormatTestSuite) TestFormatAll() {
	f := NewLowerCaseCardFormat()

	tokens := FormatAll(f, []Card{NewCard(Ace, Spades), NewCard(Ten, Diamonds), NewCard(King, Clubs)})

	s.Equal([]string{"as", "10d", "kc"}, tokens)
}

func (s *FormatTestSuite) TestParseAll() {
	f := NewUpperCaseCardFormat()

	s.Run("all known", func() {
		got, err := ParseAll(f, []string{"QH", "2C"})
		s.Require().NoError(err)
		s.Equal([]Card{NewCard(Queen, Hearts), NewCard(Two, Clubs)}, got)
	})

	s.Run("unknown token", func() {
		got, err := ParseAll(f, []string{"QH", "qh"})
		s.Nil(got)
		s.True(types.Is(err, types.ErrNotFound))
		s.Contains(err.Error(), "token 1")
	})
}

func (s *FormatTestSuite) TestRoundTrip_AllFormats() {
	cardFormats := map[string]Formatter[Card]{
		"upper":  NewUpperCaseCardFormat(),
		"lower":  NewLowerCaseCardFormat(),
		"symbol": NewSymbolCardFormat(),
	}
	for name, f := range cardFormats {
		s.Run("card/"+name, func() {
			for _, card := range All[Card]() {
				got, err := f.Parse(f.Format(card))
				s.Require().NoError(err)
				s.Equal(card, got)
			}
		})
	}

	rankFormats := map[string]Formatter[Rank]{
		"upper": NewUpperCaseRankFormat(),
		"lower": NewLowerCaseRankFormat(),
	}
	for name, f := range rankFormats {
		s.Run("rank/"+name, func() {
			for _, rank := range All[Rank]() {
				got, err := f.Parse(f.Format(rank))
				s.Require().NoError(err)
				s.Equal(rank, got)
			}
		})
	}

	suitFormats := map[string]Formatter[Suit]{
		"upper":  NewUpperCaseSuitFormat(),
		"lower":  NewLowerCaseSuitFormat(),
		"symbol": NewSymbolSuitFormat(),
	}
	for name, f := range suitFormats {
		s.Run("suit/"+name, func() {
			for _, suit := range All[Suit]() {
				got, err := f.Parse(f.Format(suit))
				s.Require().NoError(err)
				s.Equal(suit, got)
			}
		})
	}
}

func (s *FormatTestSuite) TestTableIntegrity() {
	tables := map[string][]string{
		"rank upper":  rankUpperCase,
		"rank lower":  rankLowerCase,
		"suit upper":  suitUpperCase,
		"suit lower":  suitLowerCase,
		"suit symbol": suitSymbols,
		"card upper":  cardUpperCase,
		"card lower":  cardLowerCase,
	}
	for name, table := range tables {
		s.Run(name, func() {
			seen := make(map[string]bool, len(table))
			for _, token := range table {
				s.False(seen[token], "Token %q repeated", token)
				seen[token] = true
			}
		})
	}
}

func (s *FormatTestSuite) TestDefaultFormat_ConcurrentFirstUse() {
	var wg sync.WaitGroup
	results := make([]*Format[Card], 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = defaultCardFormat()
		}(i)
	}
	wg.Wait()

	for _, f := range results {
		s.Same(results[0], f, "Default format should be built once")
	}
}

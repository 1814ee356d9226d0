package cards

import (
	"encoding/json"
	"testing"

	"github.com/fadedpez/cardindex/internal/types"
	"github.com/stretchr/testify/suite"
)

type CardTestSuite struct {
	suite.Suite
}

func TestCardSuite(t *testing.T) {
	suite.Run(t, new(CardTestSuite))
}

func (s *CardTestSuite) TestNewCard() {
	card := NewCard(Five, Diamonds)

	s.Equal(Card{Rank: Five, Suit: Diamonds}, card)
}

func (s *CardTestSuite) TestZeroValue() {
	var card Card

	s.Equal(NewCard(Ace, Spades), card, "Zero card should be the ace of spades")
	s.Equal(uint8(0), card.Index())
}

func (s *CardTestSuite) TestIndex() {
	testCases := []struct {
		name     string
		card     Card
		expected uint8
	}{
		{name: "ace of spades", card: NewCard(Ace, Spades), expected: 0},
		{name: "king of spades", card: NewCard(King, Spades), expected: 12},
		{name: "ace of hearts", card: NewCard(Ace, Hearts), expected: 13},
		{name: "ten of diamonds", card: NewCard(Ten, Diamonds), expected: 35},
		{name: "king of clubs", card: NewCard(King, Clubs), expected: 51},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.card.Index())
		})
	}
}

func (s *CardTestSuite) TestIndex_CoversDomain() {
	// Execute
	seen := make(map[uint8]int)
	deck := NewFullDeck()
	for _, card := range deck {
		seen[card.Index()]++
	}

	// Assert
	s.Len(seen, DeckSize, "Every index should be hit")
	for i := 0; i < DeckSize; i++ {
		s.Equal(1, seen[uint8(i)], "Index %d should be hit exactly once", i)
	}
}

func (s *CardTestSuite) TestFromIndex_Bijection() {
	for _, card := range NewFullDeck() {
		got, err := Card{}.FromIndex(card.Index())
		s.Require().NoError(err)
		s.Equal(card, got)
	}
}

func (s *CardTestSuite) TestFromIndex_OutOfRange() {
	for _, index := range []uint8{52, 53, 64, 255} {
		card, err := Card{}.FromIndex(index)

		s.Equal(Card{}, card)
		s.True(types.Is(err, types.ErrInvalidIndex), "Index %d should be rejected, got %v", index, err)
	}
}

func (s *CardTestSuite) TestMaximumIndex() {
	s.Equal(uint8(51), Card{}.MaximumIndex())
	s.Equal(DeckSize, Size[Card]())
}

func (s *CardTestSuite) TestString() {
	s.Equal("AS", NewCard(Ace, Spades).String())
	s.Equal("10D", NewCard(Ten, Diamonds).String())
	s.Equal("Rank(20)S", NewCard(Rank(20), Spades).String())
}

func (s *CardTestSuite) TestFormat_InvalidValues() {
	testCases := []struct {
		name     string
		card     Card
		expected string
	}{
		{name: "rank past king", card: Card{Rank: 13}, expected: "Rank(13)S"},
		{name: "suit past clubs", card: Card{Suit: 4}, expected: "ASuit(4)"},
		{name: "both invalid", card: Card{Rank: 255, Suit: 255}, expected: "Rank(255)Suit(255)"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, NewUpperCaseCardFormat().Format(tc.card), "Invalid cards should not alias a real token")
			s.Equal(tc.expected, NewLowerCaseCardFormat().Format(tc.card))
			s.NotPanics(func() { NewSymbolCardFormat().Format(tc.card) })
		})
	}

	s.Equal("Rank(13)", NewUpperCaseRankFormat().Format(Rank(13)))
	s.Equal("Suit(4)", NewSymbolSuitFormat().Format(Suit(4)))
}

func (s *CardTestSuite) TestName() {
	s.Equal("Ten of Diamonds", NewCard(Ten, Diamonds).Name())
	s.Equal("Ace of Spades", Card{}.Name())
}

func (s *CardTestSuite) TestUpperCaseFormat() {
	f := NewUpperCaseCardFormat()

	s.Equal("AS", f.Format(NewCard(Ace, Spades)))
	s.Equal("10D", f.Format(NewCard(Ten, Diamonds)))

	card, err := f.Parse("AS")
	s.Require().NoError(err)
	s.Equal(NewCard(Ace, Spades), card)

	card, err = f.Parse("10D")
	s.Require().NoError(err)
	s.Equal(NewCard(Ten, Diamonds), card)
}

func (s *CardTestSuite) TestLowerCaseFormat() {
	f := NewLowerCaseCardFormat()

	s.Equal("as", f.Format(NewCard(Ace, Spades)))
	s.Equal("10d", f.Format(NewCard(Ten, Diamonds)))

	card, err := f.Parse("as")
	s.Require().NoError(err)
	s.Equal(NewCard(Ace, Spades), card)

	card, err = f.Parse("10d")
	s.Require().NoError(err)
	s.Equal(NewCard(Ten, Diamonds), card)

	_, err = f.Parse("AS")
	s.True(types.Is(err, types.ErrNotFound), "Upper-case token should not parse with the lower-case table")
}

func (s *CardTestSuite) TestSymbolFormat() {
	f := NewSymbolCardFormat()

	s.Equal("Q♥", f.Format(NewCard(Queen, Hearts)))

	card, err := f.Parse("10♣")
	s.Require().NoError(err)
	s.Equal(NewCard(Ten, Clubs), card)
}

func (s *CardTestSuite) TestNewCardFormat() {
	s.Run("valid tables", func() {
		ranks := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K"}
		f, err := NewCardFormat(ranks, []string{"s", "h", "d", "c"})
		s.Require().NoError(err)

		s.Equal("Td", f.Format(NewCard(Ten, Diamonds)))
		s.Equal("1s", f.Format(NewCard(Ace, Spades)))
	})

	s.Run("short rank table", func() {
		_, err := NewCardFormat([]string{"A"}, suitUpperCase)
		s.True(types.Is(err, types.ErrSizeMismatch))
	})

	s.Run("short suit table", func() {
		_, err := NewCardFormat(rankUpperCase, []string{"S"})
		s.True(types.Is(err, types.ErrSizeMismatch))
	})

	s.Run("ambiguous concatenation", func() {
		// "10"+"S" and "1"+"0S" both spell "10S"
		ranks := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
		suits := []string{"S", "0S", "D", "C"}
		_, err := NewCardFormat(ranks, suits)
		s.True(types.Is(err, types.ErrDuplicateToken), "Expected DUPLICATE_TOKEN, got %v", err)
	})
}

func (s *CardTestSuite) TestParseCard() {
	card, err := ParseCard("JC")
	s.Require().NoError(err)
	s.Equal(NewCard(Jack, Clubs), card)

	_, err = ParseCard("jc")
	s.True(types.Is(err, types.ErrNotFound))
}

func (s *CardTestSuite) TestJSON() {
	// Setup
	hand := []Card{NewCard(Ace, Spades), NewCard(Ten, Diamonds)}

	// Execute
	data, err := json.Marshal(hand)
	s.Require().NoError(err)

	var decoded []Card
	err = json.Unmarshal(data, &decoded)
	s.Require().NoError(err)

	// Assert
	s.JSONEq(`["AS","10D"]`, string(data))
	s.Equal(hand, decoded)
}

func (s *CardTestSuite) TestJSON_Errors() {
	s.Run("unknown token", func() {
		var card Card
		err := json.Unmarshal([]byte(`"1D"`), &card)
		s.True(types.Is(err, types.ErrNotFound), "Expected NOT_FOUND, got %v", err)
	})

	s.Run("invalid card", func() {
		_, err := json.Marshal(NewCard(Ace, Suit(9)))
		s.Error(err)
	})
}

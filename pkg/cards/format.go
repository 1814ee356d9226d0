package cards

import (
	"fmt"

	"github.com/fadedpez/cardindex/internal/types"
)

// Formatter converts values to and from text tokens
type Formatter[T any] interface {
	Format(value T) string
	Parse(token string) (T, error)
}

// Format is a Formatter backed by a symbol table, one token per index.
// It is immutable once built and safe for concurrent use.
type Format[T Indexable[T]] struct {
	tokens []string
	lookup map[string]uint8
}

var _ Formatter[Card] = (*Format[Card])(nil)

// NewFormat builds a Format from a table whose position i holds the token
// for the value with index i. The table must cover T's domain exactly and
// must not repeat a token.
func NewFormat[T Indexable[T]](tokens []string) (*Format[T], error) {
	size := Size[T]()
	if len(tokens) != size {
		var zero T
		return nil, types.Newf(types.ErrSizeMismatch, "%T needs %d tokens, got %d", zero, size, len(tokens))
	}

	f := &Format[T]{
		tokens: make([]string, size),
		lookup: make(map[string]uint8, size),
	}
	copy(f.tokens, tokens)

	for i, token := range f.tokens {
		if prev, exists := f.lookup[token]; exists {
			return nil, types.Newf(types.ErrDuplicateToken, "token %q used for indices %d and %d", token, prev, i)
		}
		f.lookup[token] = uint8(i)
	}

	return f, nil
}

// MustFormat is like NewFormat but panics if the table is invalid.
// It is meant for package-level tables.
func MustFormat[T Indexable[T]](tokens []string) *Format[T] {
	f, err := NewFormat[T](tokens)
	if err != nil {
		panic(fmt.Sprintf("cards: %v", err))
	}
	return f
}

// Format returns the token for value. Values outside the domain have no
// token and are printed with fmt instead, so they never alias a real token.
func (f *Format[T]) Format(value T) string {
	if v, ok := any(value).(validator); ok && !v.Valid() {
		return fmt.Sprint(value)
	}
	index := int(value.Index())
	if index >= len(f.tokens) {
		return fmt.Sprint(value)
	}
	return f.tokens[index]
}

type validator interface {
	Valid() bool
}

// Parse returns the value whose token is exactly token. Matching is case
// sensitive; unknown tokens fail with a NOT_FOUND error.
func (f *Format[T]) Parse(token string) (T, error) {
	index, ok := f.lookup[token]
	if !ok {
		var zero T
		return zero, types.Newf(types.ErrNotFound, "no value for token %q", token)
	}

	var zero T
	return zero.FromIndex(index)
}

// Tokens returns a copy of the symbol table
func (f *Format[T]) Tokens() []string {
	tokens := make([]string, len(f.tokens))
	copy(tokens, f.tokens)
	return tokens
}

// FormatAll formats each value in order
func FormatAll[T any](f Formatter[T], values []T) []string {
	tokens := make([]string, len(values))
	for i, value := range values {
		tokens[i] = f.Format(value)
	}
	return tokens
}

// ParseAll parses each token in order, stopping at the first failure
func ParseAll[T any](f Formatter[T], tokens []string) ([]T, error) {
	values := make([]T, 0, len(tokens))
	for i, token := range tokens {
		value, err := f.Parse(token)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		values = append(values, value)
	}
	return values, nil
}

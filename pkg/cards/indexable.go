package cards

import (
	"fmt"

	"github.com/fadedpez/cardindex/internal/types"
)

// Indexable is implemented by closed-domain value types that map one-to-one
// onto the dense range [0, MaximumIndex()].
//
// FromIndex and MaximumIndex never read their receiver, so generic code calls
// them on the zero value of T. Indices above MaximumIndex are rejected with an
// INVALID_INDEX error rather than wrapped.
type Indexable[T any] interface {
	// Index returns the value's position in its domain
	Index() uint8

	// FromIndex returns the value at position index
	FromIndex(index uint8) (T, error)

	// MaximumIndex returns the largest valid index, one less than the domain size
	MaximumIndex() uint8
}

// Size returns the number of values in T's domain
func Size[T Indexable[T]]() int {
	var zero T
	return int(zero.MaximumIndex()) + 1
}

// All returns every value of T in index order
func All[T Indexable[T]]() []T {
	var zero T
	size := Size[T]()
	values := make([]T, 0, size)
	for i := 0; i < size; i++ {
		value, err := zero.FromIndex(uint8(i))
		if err != nil {
			panic(fmt.Sprintf("cards: %T has no value for in-range index %d: %v", zero, i, err))
		}
		values = append(values, value)
	}
	return values
}

func invalidIndex(name string, index, maximum uint8) error {
	return types.Newf(types.ErrInvalidIndex, "%s index %d out of range [0, %d]", name, index, maximum)
}

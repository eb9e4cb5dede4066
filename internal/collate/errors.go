package collate

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when there is nothing to batch.
var ErrEmptyBatch = errors.New("collate: empty batch")

// UnsupportedRankError is returned when an array's rank (batch and channel
// axes included) has no placement algorithm.
type UnsupportedRankError struct {
	Rank int
}

// Error implements the error interface.
func (e *UnsupportedRankError) Error() string {
	return fmt.Sprintf("collate: unsupported rank %d (want %d, %d or %d: batch, channel and 1-3 spatial axes)",
		e.Rank, minRank, minRank+1, maxRank)
}

// ShapeMismatchError is returned when an item disagrees with the first item
// of the batch in a way that prevents placing it.
type ShapeMismatchError struct {
	Index  int    // Position of the offending item.
	Field  string // What disagrees, e.g. "channels" or "rank".
	Got    any
	Want   any
	Detail string // Optional extra context.
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	msg := fmt.Sprintf("collate: item %d: %s mismatch: got %v, want %v", e.Index, e.Field, e.Got, e.Want)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func mismatch(index int, field string, got, want any) *ShapeMismatchError {
	return &ShapeMismatchError{Index: index, Field: field, Got: got, Want: want}
}

package collate

import (
	"github.com/born-ml/collate/internal/tensor"
)

// Batch picks a placement algorithm from the rank of the first item and
// batches all items with it:
//
//	rank 3 (N,L,C | N,C,L)         → Concat1D (or centered, see Config.CenterSequences)
//	rank 4 (N,H,W,C | N,C,H,W)     → Place2D
//	rank 5 (N,D,H,W,C | N,C,D,H,W) → Place3D
//
// Any other rank returns an *UnsupportedRankError.
func Batch(items []*tensor.Item) (*tensor.Item, error) {
	return defaultCollator.Batch(items)
}

// Batch picks a placement algorithm from the rank of the first item.
func (c *Collator) Batch(items []*tensor.Item) (*tensor.Item, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if items[0] == nil {
		return nil, &ShapeMismatchError{Index: 0, Field: "item", Got: "nil", Want: "tensor"}
	}

	switch rank := items[0].Rank(); rank {
	case 3:
		if c.config.CenterSequences {
			return c.PlaceCentered(items, 1)
		}
		return c.Concat1D(items)
	case 4:
		return c.Place2D(items)
	case 5:
		return c.Place3D(items)
	default:
		return nil, &UnsupportedRankError{Rank: rank}
	}
}

package collate

import (
	"github.com/samber/lo"

	"github.com/born-ml/collate/internal/tensor"
)

// Batched arrays carry a batch axis and a channel axis around 1-3 spatial axes.
const (
	minRank = 3
	maxRank = 5
)

// ContainingShape returns the elementwise maximum of the items' spatial
// extents. Items must share rank and channel order.
func ContainingShape(items []*tensor.Item) (tensor.Shape, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := checkCompatible(items); err != nil {
		return nil, err
	}
	return containingShape(items)
}

// containingShape assumes items were checked by checkCompatible, so their
// spatial shapes all have the same length.
func containingShape(items []*tensor.Item) (tensor.Shape, error) {
	shapes := lo.Map(items, func(it *tensor.Item, _ int) tensor.Shape {
		return it.SpatialShape()
	})
	return tensor.MaxShapes(shapes...)
}

// Split divides the room left by an extent inside its containing extent into
// a leading and a trailing pad. The leading pad gets the floor of half the
// difference; an odd unit goes to the trailing side.
func Split(containing, extent int) (lead, trail int) {
	d := containing - extent
	lead = d / 2
	return lead, d - lead
}

// checkCompatible verifies that every item can share a batch with the first:
// same rank, channel order, spatial rank, dtype and channel count.
func checkCompatible(items []*tensor.Item) error {
	first := items[0]
	if first == nil {
		return &ShapeMismatchError{Index: 0, Field: "item", Got: "nil", Want: "tensor"}
	}
	rank := first.Rank()
	if first.SpatialRank() != rank-2 {
		return &ShapeMismatchError{
			Index: 0, Field: "rank", Got: rank, Want: first.SpatialRank() + 2,
			Detail: "layout " + first.Layout().String() + " needs a batch axis",
		}
	}

	channels := first.Channels()
	for i := 1; i < len(items); i++ {
		it := items[i]
		switch {
		case it == nil:
			return &ShapeMismatchError{Index: i, Field: "item", Got: "nil", Want: "tensor"}
		case it.Rank() != rank:
			return mismatch(i, "rank", it.Rank(), rank)
		case it.Order() != first.Order():
			return mismatch(i, "channel order", it.Order(), first.Order())
		case it.SpatialRank() != first.SpatialRank():
			return mismatch(i, "spatial rank", it.SpatialRank(), first.SpatialRank())
		case it.DType() != first.DType():
			return mismatch(i, "dtype", it.DType(), first.DType())
		case it.Channels() != channels:
			return mismatch(i, "channels", it.Channels(), channels)
		}
	}
	return nil
}

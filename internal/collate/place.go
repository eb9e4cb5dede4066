package collate

import (
	"errors"
	"fmt"

	"github.com/born-ml/collate/internal/parallel"
	"github.com/born-ml/collate/internal/tensor"
)

// Concat1D concatenates rank-3 items along the batch axis without padding.
// Items must agree on every axis except the leading one.
func Concat1D(items []*tensor.Item) (*tensor.Item, error) {
	return defaultCollator.Concat1D(items)
}

// Place2D centers rank-4 items (NHWC or NCHW) in a zero-filled batch.
func Place2D(items []*tensor.Item) (*tensor.Item, error) {
	return defaultCollator.Place2D(items)
}

// Place3D centers rank-5 items (NDHWC or NCDHW) in a zero-filled batch.
func Place3D(items []*tensor.Item) (*tensor.Item, error) {
	return defaultCollator.Place3D(items)
}

// PlaceCentered centers items with the given number of spatial axes in a
// zero-filled batch.
func PlaceCentered(items []*tensor.Item, spatialDims int) (*tensor.Item, error) {
	return defaultCollator.PlaceCentered(items, spatialDims)
}

// Concat1D concatenates rank-3 items along the batch axis without padding.
func (c *Collator) Concat1D(items []*tensor.Item) (*tensor.Item, error) {
	if err := checkRank(items, 1); err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return items[0], nil
	}

	want := items[0].Shape()
	raws := make([]*tensor.RawTensor, len(items))
	for i, it := range items {
		if got := it.Shape(); !got[1:].Equal(want[1:]) {
			axis := 1
			for got[axis] == want[axis] {
				axis++
			}
			return nil, &ShapeMismatchError{
				Index: i, Field: fmt.Sprintf("axis %d", axis), Got: got[axis], Want: want[axis],
				Detail: "1D items are concatenated, not padded",
			}
		}
		raws[i] = it.Raw()
	}

	raw, err := tensor.Cat(raws, 0)
	if err != nil {
		return nil, fmt.Errorf("concat 1D: %w", err)
	}

	c.log.Debug().
		Str("algorithm", "concat").
		Str("layout", items[0].Layout().String()).
		Int("items", len(items)).
		Ints("shape", raw.Shape()).
		Msg("Batched items")

	return tensor.NewItem(raw, items[0].Layout())
}

// Place2D centers rank-4 items in a zero-filled batch.
func (c *Collator) Place2D(items []*tensor.Item) (*tensor.Item, error) {
	return c.PlaceCentered(items, 2)
}

// Place3D centers rank-5 items in a zero-filled batch.
func (c *Collator) Place3D(items []*tensor.Item) (*tensor.Item, error) {
	return c.PlaceCentered(items, 3)
}

// PlaceCentered centers items with spatialDims spatial axes in a zero-filled
// batch of shape [N, *containing, C] (channel last) or [N, C, *containing]
// (channel first). A single item is returned unchanged.
//
// Each item must have a leading axis of size 1. On every spatial axis an item
// of extent e inside containing extent E is copied at offset (E-e)/2.
func (c *Collator) PlaceCentered(items []*tensor.Item, spatialDims int) (*tensor.Item, error) {
	if err := checkRank(items, spatialDims); err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return items[0], nil
	}
	for i, it := range items {
		if lead := it.Shape()[0]; lead != 1 {
			return nil, &ShapeMismatchError{
				Index: i, Field: "leading axis", Got: lead, Want: 1,
				Detail: "centered placement takes one sample per item",
			}
		}
	}

	first := items[0]
	layout := first.Layout()
	containing, err := containingShape(items)
	if err != nil {
		return nil, fmt.Errorf("place centered: %w", err)
	}

	// Batch shape: item shape with the leading axis set to N and spatial
	// axes set to the containing extents.
	shape := first.Shape().Clone()
	shape[0] = len(items)
	spatialAxes := first.SpatialAxes()
	for k, axis := range spatialAxes {
		shape[axis] = containing[k]
	}

	batch, err := tensor.NewRaw(shape, first.DType())
	if err != nil {
		return nil, fmt.Errorf("place centered: %w", err)
	}

	errs := make([]error, len(items))
	parallel.For(len(items), func(i int) {
		it := items[i]
		offset := make([]int, it.Rank())
		offset[0] = i
		for k, axis := range spatialAxes {
			offset[axis], _ = Split(containing[k], it.Shape()[axis])
		}
		if err := tensor.CopyInto(batch, it.Raw(), offset); err != nil {
			errs[i] = fmt.Errorf("item %d: %w", i, err)
		}
	}, c.config.Parallel)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("place centered: %w", err)
	}

	c.log.Debug().
		Str("algorithm", "centered").
		Str("layout", layout.String()).
		Int("items", len(items)).
		Ints("containing", containing).
		Int("bytes", batch.ByteSize()).
		Msg("Batched items")

	return tensor.NewItem(batch, layout)
}

// checkRank verifies that items are non-empty, compatible with each other
// and have the rank of batched arrays with spatialDims spatial axes. A
// supported rank that does not fit spatialDims is a shape mismatch.
func checkRank(items []*tensor.Item, spatialDims int) error {
	if len(items) == 0 {
		return ErrEmptyBatch
	}
	if spatialDims < 1 || spatialDims > tensor.MaxSpatialDims {
		return &UnsupportedRankError{Rank: spatialDims + 2}
	}
	if items[0] != nil {
		switch rank := items[0].Rank(); {
		case rank < minRank || rank > maxRank:
			return &UnsupportedRankError{Rank: rank}
		case rank != spatialDims+2:
			return &ShapeMismatchError{
				Index: 0, Field: "rank", Got: rank, Want: spatialDims + 2,
				Detail: fmt.Sprintf("%dD placement", spatialDims),
			}
		}
	}
	return checkCompatible(items)
}

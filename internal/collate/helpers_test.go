package collate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/collate/internal/tensor"
)

// newItem creates a float32 item whose elements are base+1, base+2, ...
// so that every element is non-zero and items are distinguishable.
func newItem(t *testing.T, shape tensor.Shape, layout tensor.Layout, base float32) *tensor.Item {
	t.Helper()
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = base + float32(i+1)
	}
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	item, err := tensor.NewItem(raw, layout)
	require.NoError(t, err)
	return item
}

// filled creates a float32 item with every element set to v.
func filled(t *testing.T, shape tensor.Shape, layout tensor.Layout, v float32) *tensor.Item {
	t.Helper()
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = v
	}
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	item, err := tensor.NewItem(raw, layout)
	require.NoError(t, err)
	return item
}

// at reads a float32 element by multi-index.
func at(raw *tensor.RawTensor, idx ...int) float32 {
	pos := 0
	for d, i := range idx {
		pos += i * raw.Strides()[d]
	}
	return raw.AsFloat32()[pos]
}

// unravel converts a flat row-major position into a multi-index.
func unravel(flat int, shape tensor.Shape) []int {
	idx := make([]int, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		idx[d] = flat % shape[d]
		flat /= shape[d]
	}
	return idx
}

// requireCentered checks every element of batch against items: inside an
// item's centered footprint it must equal the item's element, outside it
// must be zero.
func requireCentered(t *testing.T, batch *tensor.Item, items []*tensor.Item) {
	t.Helper()

	shape := batch.Shape()
	require.Equal(t, len(items), shape[0], "batch size")
	containing := batch.SpatialShape()
	spatial := batch.SpatialAxes()

	for flat, got := range batch.Raw().AsFloat32() {
		idx := unravel(flat, shape)
		item := items[idx[0]]
		src := make([]int, len(idx))
		copy(src, idx)
		src[0] = 0

		inside := true
		for k, axis := range spatial {
			lead, _ := Split(containing[k], item.Shape()[axis])
			src[axis] = idx[axis] - lead
			if src[axis] < 0 || src[axis] >= item.Shape()[axis] {
				inside = false
			}
		}

		want := float32(0)
		if inside {
			want = at(item.Raw(), src...)
		}
		if got != want {
			t.Fatalf("batch%v = %v, want %v", idx, got, want)
		}
	}
}

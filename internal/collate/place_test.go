package collate

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/collate/internal/tensor"
)

func TestPlace2D_PadsSmallerItem(t *testing.T) {
	// (4,4,3) and (2,2,3): the second item lands at [1,3) x [1,3) with a
	// one-wide zero border.
	items := []*tensor.Item{
		filled(t, tensor.Shape{1, 4, 4, 3}, tensor.NHWC, 1),
		filled(t, tensor.Shape{1, 2, 2, 3}, tensor.NHWC, 2),
	}

	batch, err := Place2D(items)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 4, 4, 3}, batch.Shape())

	raw := batch.Raw()
	for h := 0; h < 4; h++ {
		for w := 0; w < 4; w++ {
			for c := 0; c < 3; c++ {
				assert.Equal(t, float32(1), at(raw, 0, h, w, c))

				want := float32(0)
				if h >= 1 && h < 3 && w >= 1 && w < 3 {
					want = 2
				}
				assert.Equal(t, want, at(raw, 1, h, w, c), "slot 1 at (%d,%d,%d)", h, w, c)
			}
		}
	}
}

func TestPlace2D_OddDifferenceGoesToTrailingEdge(t *testing.T) {
	// (3,3,1) inside (4,4): floor(1/2)=0 leading, 1 trailing.
	items := []*tensor.Item{
		filled(t, tensor.Shape{1, 3, 3, 1}, tensor.NHWC, 5),
		filled(t, tensor.Shape{1, 4, 4, 1}, tensor.NHWC, 7),
	}

	batch, err := Place2D(items)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 4, 4, 1}, batch.Shape())

	raw := batch.Raw()
	for h := 0; h < 4; h++ {
		for w := 0; w < 4; w++ {
			want := float32(5)
			if h == 3 || w == 3 {
				want = 0
			}
			assert.Equal(t, want, at(raw, 0, h, w, 0), "slot 0 at (%d,%d)", h, w)
			assert.Equal(t, float32(7), at(raw, 1, h, w, 0))
		}
	}
}

func TestPlace2D_SingleItemUnchanged(t *testing.T) {
	item := newItem(t, tensor.Shape{1, 5, 5, 2}, tensor.NHWC, 0)
	before := append([]float32(nil), item.Raw().AsFloat32()...)

	batch, err := Place2D([]*tensor.Item{item})
	require.NoError(t, err)

	assert.Same(t, item, batch)
	assert.Equal(t, before, batch.Raw().AsFloat32())
}

func TestPlace3D_SingleItemUnchanged(t *testing.T) {
	item := newItem(t, tensor.Shape{1, 2, 3, 4, 1}, tensor.NDHWC, 0)

	batch, err := Place3D([]*tensor.Item{item})
	require.NoError(t, err)
	assert.Same(t, item, batch)
}

func TestPlace3D_IndependentSplits(t *testing.T) {
	items := []*tensor.Item{
		newItem(t, tensor.Shape{1, 5, 4, 6, 2}, tensor.NDHWC, 0),
		newItem(t, tensor.Shape{1, 2, 3, 3, 2}, tensor.NDHWC, 1000),
		newItem(t, tensor.Shape{1, 4, 1, 6, 2}, tensor.NDHWC, 2000),
	}

	batch, err := Place3D(items)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{3, 5, 4, 6, 2}, batch.Shape())
	requireCentered(t, batch, items)

	// Item 1 spans depth [1,3), height [0,3), width [1,4).
	raw := batch.Raw()
	assert.Equal(t, at(items[1].Raw(), 0, 0, 0, 0, 0), at(raw, 1, 1, 0, 1, 0))
	assert.Equal(t, float32(0), at(raw, 1, 0, 0, 1, 0))
	assert.Equal(t, float32(0), at(raw, 1, 3, 0, 1, 0))
	assert.Equal(t, float32(0), at(raw, 1, 1, 3, 1, 0))
	assert.Equal(t, float32(0), at(raw, 1, 1, 0, 4, 0))
}

func TestPlace_ChannelConvention(t *testing.T) {
	t.Run("channel last keeps channels on the last axis", func(t *testing.T) {
		items := []*tensor.Item{
			newItem(t, tensor.Shape{1, 2, 3, 4}, tensor.NHWC, 0),
			newItem(t, tensor.Shape{1, 4, 1, 4}, tensor.NHWC, 100),
		}
		batch, err := Place2D(items)
		require.NoError(t, err)

		assert.Equal(t, tensor.Shape{2, 4, 3, 4}, batch.Shape())
		assert.Equal(t, 4, batch.Shape()[3])
		assert.True(t, batch.IsChannelLast())
		requireCentered(t, batch, items)
	})

	t.Run("channel first keeps channels after the batch axis", func(t *testing.T) {
		items := []*tensor.Item{
			newItem(t, tensor.Shape{1, 3, 2, 2}, tensor.NCHW, 0),
			newItem(t, tensor.Shape{1, 3, 4, 3}, tensor.NCHW, 100),
		}
		batch, err := Place2D(items)
		require.NoError(t, err)

		assert.Equal(t, tensor.Shape{2, 3, 4, 3}, batch.Shape())
		assert.Equal(t, 3, batch.Shape()[1])
		assert.True(t, batch.IsChannelFirst())
		requireCentered(t, batch, items)
	})

	t.Run("channel first 3D", func(t *testing.T) {
		items := []*tensor.Item{
			newItem(t, tensor.Shape{1, 2, 1, 2, 3}, tensor.NCDHW, 0),
			newItem(t, tensor.Shape{1, 2, 4, 4, 4}, tensor.NCDHW, 500),
		}
		batch, err := Place3D(items)
		require.NoError(t, err)

		assert.Equal(t, tensor.Shape{2, 2, 4, 4, 4}, batch.Shape())
		requireCentered(t, batch, items)
	})
}

func TestPlace_OrderPreserved(t *testing.T) {
	items := make([]*tensor.Item, 5)
	for i := range items {
		items[i] = filled(t, tensor.Shape{1, 3, 3, 1}, tensor.NHWC, float32(i+1))
	}

	batch, err := Place2D(items)
	require.NoError(t, err)

	for i := range items {
		assert.Equal(t, float32(i+1), at(batch.Raw(), i, 1, 1, 0))
	}
}

func TestPlace_RandomShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // G404: deterministic test shapes
	layouts := []tensor.Layout{tensor.NHWC, tensor.NCHW, tensor.NDHWC, tensor.NCDHW}

	for _, layout := range layouts {
		t.Run(layout.String(), func(t *testing.T) {
			for trial := 0; trial < 10; trial++ {
				n := 2 + rng.Intn(4)
				channels := 1 + rng.Intn(3)
				items := make([]*tensor.Item, n)
				for i := range items {
					shape := make(tensor.Shape, layout.SpatialDims+2)
					shape[0] = 1
					for axis := 1; axis < len(shape); axis++ {
						shape[axis] = 1 + rng.Intn(6)
					}
					shape[layout.ChannelAxis(len(shape))] = channels
					items[i] = newItem(t, shape, layout, float32(i*10000))
				}

				batch, err := PlaceCentered(items, layout.SpatialDims)
				require.NoError(t, err)

				containing, err := ContainingShape(items)
				require.NoError(t, err)
				assert.Equal(t, containing, batch.SpatialShape())
				assert.Equal(t, channels, batch.Channels())
				requireCentered(t, batch, items)
			}
		})
	}
}

func TestPlace_ParallelMatchesSequential(t *testing.T) {
	items := make([]*tensor.Item, 9)
	for i := range items {
		items[i] = newItem(t, tensor.Shape{1, 1 + i%4, 2 + i%3, 2}, tensor.NHWC, float32(i*100))
	}

	seq, err := Place2D(items)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Parallel.Enabled = true
	cfg.Parallel.NumWorkers = 4
	par, err := New(cfg).Place2D(items)
	require.NoError(t, err)

	assert.Equal(t, seq.Shape(), par.Shape())
	assert.Equal(t, seq.Raw().AsFloat32(), par.Raw().AsFloat32())
}

func TestPlace_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Place2D(nil)
		assert.ErrorIs(t, err, ErrEmptyBatch)
	})

	t.Run("rank 4 to Place3D", func(t *testing.T) {
		_, err := Place3D([]*tensor.Item{newItem(t, tensor.Shape{1, 2, 2, 1}, tensor.NHWC, 0)})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "rank", mismatchErr.Field)
		assert.Equal(t, 4, mismatchErr.Got)
		assert.Equal(t, 5, mismatchErr.Want)

		var rankErr *UnsupportedRankError
		assert.False(t, errors.As(err, &rankErr), "rank 4 is supported")
	})

	t.Run("rank 5 to Place2D", func(t *testing.T) {
		_, err := Place2D([]*tensor.Item{
			newItem(t, tensor.Shape{1, 2, 2, 2, 1}, tensor.NDHWC, 0),
			newItem(t, tensor.Shape{1, 3, 2, 2, 1}, tensor.NDHWC, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, 0, mismatchErr.Index)
		assert.Equal(t, "rank", mismatchErr.Field)
		assert.Equal(t, 5, mismatchErr.Got)
		assert.Equal(t, 4, mismatchErr.Want)
	})

	t.Run("unsupported rank", func(t *testing.T) {
		raw, _ := tensor.NewRaw(tensor.Shape{1, 4}, tensor.Float32)
		item, _ := tensor.NewItem(raw, tensor.NLC)
		_, err := Place2D([]*tensor.Item{item})
		var rankErr *UnsupportedRankError
		require.ErrorAs(t, err, &rankErr)
		assert.Equal(t, 2, rankErr.Rank)
	})

	t.Run("channel count", func(t *testing.T) {
		_, err := Place2D([]*tensor.Item{
			newItem(t, tensor.Shape{1, 2, 2, 3}, tensor.NHWC, 0),
			newItem(t, tensor.Shape{1, 2, 2, 1}, tensor.NHWC, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "channels", mismatchErr.Field)
		assert.Equal(t, 1, mismatchErr.Got)
		assert.Equal(t, 3, mismatchErr.Want)
	})

	t.Run("channel order", func(t *testing.T) {
		_, err := Place2D([]*tensor.Item{
			newItem(t, tensor.Shape{1, 2, 2, 3}, tensor.NHWC, 0),
			newItem(t, tensor.Shape{1, 3, 2, 2}, tensor.NCHW, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "channel order", mismatchErr.Field)
	})

	t.Run("dtype", func(t *testing.T) {
		raw, _ := tensor.NewRaw(tensor.Shape{1, 2, 2, 3}, tensor.Float64)
		other, _ := tensor.NewItem(raw, tensor.NHWC)
		_, err := Place2D([]*tensor.Item{newItem(t, tensor.Shape{1, 2, 2, 3}, tensor.NHWC, 0), other})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "dtype", mismatchErr.Field)
	})

	t.Run("leading axis", func(t *testing.T) {
		_, err := Place2D([]*tensor.Item{
			newItem(t, tensor.Shape{2, 2, 2, 1}, tensor.NHWC, 0),
			newItem(t, tensor.Shape{1, 2, 2, 1}, tensor.NHWC, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "leading axis", mismatchErr.Field)
		assert.Equal(t, 0, mismatchErr.Index)
	})

	t.Run("layout without batch axis", func(t *testing.T) {
		// A rank-4 array tagged as a 3D sample has no batch axis.
		_, err := Place2D([]*tensor.Item{
			newItem(t, tensor.Shape{2, 2, 2, 1}, tensor.NDHWC, 0),
			newItem(t, tensor.Shape{2, 2, 2, 1}, tensor.NDHWC, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "rank", mismatchErr.Field)
	})

	t.Run("nil item", func(t *testing.T) {
		_, err := Place2D([]*tensor.Item{newItem(t, tensor.Shape{1, 2, 2, 1}, tensor.NHWC, 0), nil})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, 1, mismatchErr.Index)
	})

	t.Run("spatial dims out of range", func(t *testing.T) {
		_, err := PlaceCentered([]*tensor.Item{newItem(t, tensor.Shape{1, 2, 2, 1}, tensor.NHWC, 0)}, 4)
		var rankErr *UnsupportedRankError
		require.ErrorAs(t, err, &rankErr)
		assert.Equal(t, 6, rankErr.Rank)
	})
}

func TestConcat1D(t *testing.T) {
	t.Run("concatenates without padding", func(t *testing.T) {
		a := newItem(t, tensor.Shape{1, 5, 2}, tensor.NLC, 0)
		b := newItem(t, tensor.Shape{1, 5, 2}, tensor.NLC, 100)

		batch, err := Concat1D([]*tensor.Item{a, b})
		require.NoError(t, err)

		assert.Equal(t, tensor.Shape{2, 5, 2}, batch.Shape())
		want := append(append([]float32(nil), a.Raw().AsFloat32()...), b.Raw().AsFloat32()...)
		assert.Equal(t, want, batch.Raw().AsFloat32())
	})

	t.Run("leading axes add up", func(t *testing.T) {
		a := newItem(t, tensor.Shape{2, 4, 1}, tensor.NLC, 0)
		b := newItem(t, tensor.Shape{1, 4, 1}, tensor.NLC, 100)

		batch, err := Concat1D([]*tensor.Item{a, b})
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{3, 4, 1}, batch.Shape())
		assert.Equal(t, float32(101), at(batch.Raw(), 2, 0, 0))
	})

	t.Run("single item unchanged", func(t *testing.T) {
		a := newItem(t, tensor.Shape{1, 7, 3}, tensor.NCL, 0)
		batch, err := Concat1D([]*tensor.Item{a})
		require.NoError(t, err)
		assert.Same(t, a, batch)
	})

	t.Run("differing lengths are not padded", func(t *testing.T) {
		_, err := Concat1D([]*tensor.Item{
			newItem(t, tensor.Shape{1, 5, 2}, tensor.NLC, 0),
			newItem(t, tensor.Shape{1, 3, 2}, tensor.NLC, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, "axis 1", mismatchErr.Field)
		assert.Equal(t, 3, mismatchErr.Got)
		assert.Equal(t, 5, mismatchErr.Want)
	})

	t.Run("reports the first differing axis", func(t *testing.T) {
		_, err := Concat1D([]*tensor.Item{
			newItem(t, tensor.Shape{1, 2, 3}, tensor.NCL, 0),
			newItem(t, tensor.Shape{1, 2, 3}, tensor.NCL, 0),
			newItem(t, tensor.Shape{1, 2, 4}, tensor.NCL, 0),
		})
		var mismatchErr *ShapeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, 2, mismatchErr.Index)
		assert.Equal(t, "axis 2", mismatchErr.Field)
		assert.Equal(t, 4, mismatchErr.Got)
		assert.Equal(t, 3, mismatchErr.Want)
	})
}

func TestPlaceCentered_Sequences(t *testing.T) {
	t.Run("pads and centers", func(t *testing.T) {
		items := []*tensor.Item{
			newItem(t, tensor.Shape{1, 3, 1}, tensor.NLC, 0),
			newItem(t, tensor.Shape{1, 6, 1}, tensor.NLC, 100),
		}
		batch, err := PlaceCentered(items, 1)
		require.NoError(t, err)

		assert.Equal(t, tensor.Shape{2, 6, 1}, batch.Shape())
		// lead 1, trail 2
		assert.Equal(t, []float32{0, 1, 2, 3, 0, 0}, batch.Raw().AsFloat32()[:6])
		requireCentered(t, batch, items)
	})

	t.Run("matches concatenation for equal lengths", func(t *testing.T) {
		items := []*tensor.Item{
			newItem(t, tensor.Shape{1, 4, 2}, tensor.NCL, 0),
			newItem(t, tensor.Shape{1, 4, 2}, tensor.NCL, 100),
		}
		centered, err := PlaceCentered(items, 1)
		require.NoError(t, err)
		concatenated, err := Concat1D(items)
		require.NoError(t, err)

		assert.Equal(t, concatenated.Shape(), centered.Shape())
		assert.Equal(t, concatenated.Raw().AsFloat32(), centered.Raw().AsFloat32())
	})
}

package tensor

import "fmt"

// Item pairs a RawTensor with the layout it follows.
//
// Item never copies or mutates the tensor it wraps.
//
// Example:
//
//	raw, _ := tensor.FromSlice([]float32{...}, tensor.Shape{32, 32, 3})
//	item, _ := tensor.NewItem(raw, tensor.NHWC)
//	item.Channels()     // 3
//	item.SpatialShape() // [32 32]
type Item struct {
	raw    *RawTensor
	layout Layout
}

var _ Tagged = (*Item)(nil)

// NewItem wraps raw with the given layout tag.
func NewItem(raw *RawTensor, layout Layout) (*Item, error) {
	if raw == nil {
		return nil, fmt.Errorf("new item: tensor is nil")
	}
	if layout.Order != ChannelLast && layout.Order != ChannelFirst {
		return nil, fmt.Errorf("new item: invalid channel order %d", layout.Order)
	}
	return &Item{raw: raw, layout: layout}, nil
}

// Raw returns the wrapped tensor.
func (it *Item) Raw() *RawTensor {
	return it.raw
}

// Layout returns the layout tag.
func (it *Item) Layout() Layout {
	return it.layout
}

// Order returns the channel order.
func (it *Item) Order() ChannelOrder {
	return it.layout.Order
}

// IsChannelFirst reports whether the item is tagged channel-first.
func (it *Item) IsChannelFirst() bool {
	return it.layout.IsChannelFirst()
}

// IsChannelLast reports whether the item is tagged channel-last.
func (it *Item) IsChannelLast() bool {
	return it.layout.IsChannelLast()
}

// SpatialRank returns the number of spatial axes declared by the tag.
func (it *Item) SpatialRank() int {
	return it.layout.SpatialDims
}

// Shape returns the wrapped tensor's shape.
func (it *Item) Shape() Shape {
	return it.raw.Shape()
}

// Rank returns the wrapped tensor's rank.
func (it *Item) Rank() int {
	return it.raw.Rank()
}

// DType returns the wrapped tensor's data type.
func (it *Item) DType() DataType {
	return it.raw.DType()
}

// ChannelAxis returns the index of the channel axis.
func (it *Item) ChannelAxis() int {
	return it.layout.ChannelAxis(it.raw.Rank())
}

// Channels returns the size of the channel axis.
func (it *Item) Channels() int {
	return it.raw.Shape()[it.ChannelAxis()]
}

// SpatialAxes returns the indices of the spatial axes.
func (it *Item) SpatialAxes() []int {
	return it.layout.SpatialAxes(it.raw.Rank())
}

// SpatialShape returns the extents of the spatial axes.
func (it *Item) SpatialShape() Shape {
	return it.raw.Shape().Pick(it.SpatialAxes())
}

// Unsqueeze returns a view of the item with a leading axis of size 1.
// The layout tag is kept; the view shares the item's buffer.
func (it *Item) Unsqueeze() (*Item, error) {
	shape := append(Shape{1}, it.raw.Shape()...)
	raw, err := it.raw.Reshape(shape)
	if err != nil {
		return nil, fmt.Errorf("unsqueeze: %w", err)
	}
	return &Item{raw: raw, layout: it.layout}, nil
}

// String returns a short description such as "NHWC float32 [1 4 4 3]".
func (it *Item) String() string {
	return fmt.Sprintf("%s %s %v", it.layout, it.raw.DType(), it.raw.Shape())
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/collate/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is a dense, row-major array backed by a byte buffer.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32() // Typed view of the same buffer
//	clone := raw.Clone()    // Deep copy
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled raw tensor with the given shape and dtype.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a raw tensor holding a copy of data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromBytes wraps data as a raw tensor without copying it.
// len(data) must equal shape.NumElements() * dtype.Size().
func FromBytes(shape Shape, dtype DataType, data []byte) (*RawTensor, error) {
	return tensor.FromBytes(shape, dtype, data)
}

// Values returns a typed view of r's buffer. It panics if T does not match
// r.DType().
func Values[T DType](r *RawTensor) []T {
	return tensor.Values[T](r)
}

// MaxShapes returns the per-axis maximum of shapes of equal rank.
func MaxShapes(shapes ...Shape) (Shape, error) {
	return tensor.MaxShapes(shapes...)
}

// Manipulation functions

// Cat concatenates raw tensors along a dimension.
// All other dimensions and the dtype must match. Negative dims count from the end.
//
// Example:
//
//	a, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	b, _ := tensor.NewRaw(tensor.Shape{1, 3}, tensor.Float32)
//	c, _ := tensor.Cat([]*tensor.RawTensor{a, b}, 0) // Shape: [3, 3]
func Cat(tensors []*RawTensor, dim int) (*RawTensor, error) {
	return tensor.Cat(tensors, dim)
}

// CopyInto copies src into dst with src's origin at offset.
// Both tensors must have the same rank and dtype and src must fit inside dst.
func CopyInto(dst, src *RawTensor, offset []int) error {
	return tensor.CopyInto(dst, src, offset)
}

package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Pick returns the dimensions at the given axes, in order.
func (s Shape) Pick(axes []int) Shape {
	out := make(Shape, len(axes))
	for i, axis := range axes {
		out[i] = s[axis]
	}
	return out
}

// MaxShapes returns the elementwise maximum of shapes of equal length.
//
// Examples:
//
//	(4, 2) , (3, 5) → (4, 5)
//	(4, 2) , (3,)   → nil, Error
func MaxShapes(shapes ...Shape) (Shape, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("max shapes: no shapes given")
	}

	result := shapes[0].Clone()
	for i, s := range shapes[1:] {
		if len(s) != len(result) {
			return nil, fmt.Errorf("max shapes: shape %d has %d dimensions, expected %d", i+1, len(s), len(result))
		}
		for k, dim := range s {
			result[k] = max(result[k], dim)
		}
	}
	return result, nil
}

package tensor

import "fmt"

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation dimension.
// Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	a, _ := tensor.NewRaw(Shape{2, 3}, Float32)
//	b, _ := tensor.NewRaw(Shape{2, 5}, Float32)
//	c, _ := tensor.Cat([]*RawTensor{a, b}, 1) // Shape: [2, 8]
func Cat(tensors []*RawTensor, dim int) (*RawTensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("cat: at least one tensor required")
	}

	// Get first tensor properties
	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	// Normalize negative dimension
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		return nil, fmt.Errorf("cat: dimension %d out of range for %dD tensor", dim, ndim)
	}

	// Validate shapes and calculate total size along concat dimension
	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			return nil, fmt.Errorf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim)
		}
		if t.DType() != dtype {
			return nil, fmt.Errorf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype)
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				return nil, fmt.Errorf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d])
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result, err := NewRaw(outShape, dtype)
	if err != nil {
		return nil, fmt.Errorf("cat: %w", err)
	}

	// Every tensor contributes one contiguous block per outer index.
	outer := Shape(shape[:dim]).NumElements()
	inner := Shape(shape[dim+1:]).NumElements() * dtype.Size()
	dst := result.Data()
	pos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			pos += copy(dst[pos:pos+block], t.Data()[o*block:(o+1)*block])
		}
	}

	return result, nil
}

// CopyInto copies src into dst so that src's origin lands at offset.
//
// dst and src must have the same rank and dtype, and src must fit inside dst
// on every axis once shifted by offset. Elements of dst outside the copied
// region are left untouched.
//
// Example:
//
//	dst, _ := tensor.NewRaw(Shape{4, 4}, Float32)
//	src, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2})
//	_ = tensor.CopyInto(dst, src, []int{1, 1}) // src fills dst[1:3, 1:3]
func CopyInto(dst, src *RawTensor, offset []int) error {
	dShape, sShape := dst.Shape(), src.Shape()
	ndim := len(sShape)
	if len(dShape) != ndim || len(offset) != ndim {
		return fmt.Errorf("copy into: rank mismatch (dst %d, src %d, offset %d)", len(dShape), ndim, len(offset))
	}
	if dst.DType() != src.DType() {
		return fmt.Errorf("copy into: dtype mismatch (dst %s, src %s)", dst.DType(), src.DType())
	}
	for d := 0; d < ndim; d++ {
		if offset[d] < 0 || offset[d]+sShape[d] > dShape[d] {
			return fmt.Errorf("copy into: src %v at offset %v does not fit in dst %v (dimension %d)",
				sShape, offset, dShape, d)
		}
	}
	if ndim == 0 {
		copy(dst.Data(), src.Data())
		return nil
	}

	elemSize := src.DType().Size()
	dStrides, sStrides := dst.Strides(), src.Strides()
	row := sShape[ndim-1] * elemSize
	rows := Shape(sShape[:ndim-1]).NumElements()

	// idx walks the source over every axis but the last, row-major.
	idx := make([]int, ndim-1)
	dData, sData := dst.Data(), src.Data()
	for r := 0; r < rows; r++ {
		dPos := offset[ndim-1] * dStrides[ndim-1]
		sPos := 0
		for d, i := range idx {
			dPos += (offset[d] + i) * dStrides[d]
			sPos += i * sStrides[d]
		}
		dPos *= elemSize
		sPos *= elemSize
		copy(dData[dPos:dPos+row], sData[sPos:sPos+row])

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < sShape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return nil
}

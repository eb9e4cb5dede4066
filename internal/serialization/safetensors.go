package serialization

import (
	"errors"
	"fmt"
	"sort"

	"github.com/born-ml/collate/internal/tensor"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize  = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount = 100_000           // Maximum number of tensors in a file
)

// metadataKey is the reserved header entry holding string metadata.
const metadataKey = "__metadata__"

// Common errors.
var (
	ErrHeaderTooLarge  = errors.New("header exceeds maximum size")
	ErrTensorNotFound  = errors.New("tensor not found")
	ErrTooManyTensors  = errors.New("too many tensors in file")
	ErrUnsupportedType = errors.New("unsupported dtype")
)

// DType is a SafeTensors data type name.
type DType string

// Supported SafeTensors dtypes.
const (
	F32  DType = "F32"
	F64  DType = "F64"
	I32  DType = "I32"
	I64  DType = "I64"
	U8   DType = "U8"
	BOOL DType = "BOOL"
)

// TensorInfo describes a tensor in the SafeTensors header.
type TensorInfo struct {
	DType       DType    `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"` // [start, end)
}

// Size returns the byte size described by the data offsets.
func (i TensorInfo) Size() int64 {
	return i.DataOffsets[1] - i.DataOffsets[0]
}

// LayoutKey returns the metadata key holding the layout of the named tensor.
func LayoutKey(name string) string {
	return "layout." + name
}

// DataType returns the element type dt names.
func (dt DType) DataType() (tensor.DataType, error) {
	t, ok := tensor.ParseSafeTensorsName(string(dt))
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, dt)
	}
	return t, nil
}

// ValidationError provides detailed information about header validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "offset_overlap", "out_of_bounds")
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor2 != "" {
		return fmt.Sprintf("%s: tensors %q and %q: %s", e.Type, e.Tensor, e.Tensor2, e.Details)
	}
	if e.Tensor != "" {
		return fmt.Sprintf("%s: tensor %q: %s", e.Type, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// validateOffsets checks for overlapping tensor regions, regions outside the
// data section and sizes that disagree with dtype and shape.
func validateOffsets(tensors map[string]TensorInfo, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyTensors, len(tensors), MaxTensorCount)
	}

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return tensors[names[i]].DataOffsets[0] < tensors[names[j]].DataOffsets[0]
	})

	for i, name := range names {
		info := tensors[name]
		start, end := info.DataOffsets[0], info.DataOffsets[1]
		if start < 0 || end < start {
			return &ValidationError{
				Type:    "negative_offset",
				Tensor:  name,
				Details: fmt.Sprintf("data_offsets [%d, %d]", start, end),
			}
		}
		if end > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  name,
				Details: fmt.Sprintf("end %d > data_size %d", end, dataSize),
			}
		}
		if dt, err := info.DType.DataType(); err == nil {
			if want := int64(tensor.Shape(info.Shape).NumElements() * dt.Size()); want != info.Size() {
				return &ValidationError{
					Type:    "size_mismatch",
					Tensor:  name,
					Details: fmt.Sprintf("shape %v of %s needs %d bytes, data_offsets span %d", info.Shape, info.DType, want, info.Size()),
				}
			}
		}
		if i < len(names)-1 {
			next := tensors[names[i+1]]
			if end > next.DataOffsets[0] {
				return &ValidationError{
					Type:    "offset_overlap",
					Tensor:  name,
					Tensor2: names[i+1],
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						start, end, next.DataOffsets[0], next.DataOffsets[1]),
				}
			}
		}
	}
	return nil
}

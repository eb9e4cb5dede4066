// Package tensor provides the dense array and layout types used by the collate packages.
package tensor

// DType constrains the Go element types a RawTensor can be viewed as.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// DataType is the element type of a RawTensor's byte buffer.
type DataType int

// Element types. Every one of them can be stored in a SafeTensors file.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

type elementInfo struct {
	name        string // Go-style name, used in messages and logs
	safetensors string // dtype field of a SafeTensors header
	size        int    // bytes per element
}

var elements = [...]elementInfo{
	Float32: {name: "float32", safetensors: "F32", size: 4},
	Float64: {name: "float64", safetensors: "F64", size: 8},
	Int32:   {name: "int32", safetensors: "I32", size: 4},
	Int64:   {name: "int64", safetensors: "I64", size: 8},
	Uint8:   {name: "uint8", safetensors: "U8", size: 1},
	Bool:    {name: "bool", safetensors: "BOOL", size: 1},
}

func (dt DataType) element() (elementInfo, bool) {
	if dt < 0 || int(dt) >= len(elements) {
		return elementInfo{}, false
	}
	return elements[dt], true
}

// Size returns the number of bytes one element occupies.
// Panics on an unknown DataType.
func (dt DataType) Size() int {
	e, ok := dt.element()
	if !ok {
		panic("unknown data type")
	}
	return e.size
}

// String returns the Go name of the element type, or "unknown".
func (dt DataType) String() string {
	if e, ok := dt.element(); ok {
		return e.name
	}
	return "unknown"
}

// SafeTensorsName returns the dtype string a SafeTensors header uses for dt,
// or "" if dt is unknown.
func (dt DataType) SafeTensorsName() string {
	e, _ := dt.element()
	return e.safetensors
}

// ParseSafeTensorsName maps a SafeTensors header dtype such as "F32" or "BOOL"
// to a DataType. Names are case sensitive.
func ParseSafeTensorsName(name string) (DataType, bool) {
	for dt, e := range elements {
		if e.safetensors == name {
			return DataType(dt), true
		}
	}
	return 0, false
}

// dataTypeOf returns the DataType whose elements are stored as T.
func dataTypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	}
	panic("unsupported element type")
}

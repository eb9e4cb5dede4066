package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/born-ml/collate/internal/tensor"
)

// Reader reads tensors from a SafeTensors file.
type Reader struct {
	file       *os.File
	path       string
	tensors    map[string]TensorInfo
	metadata   map[string]string
	dataOffset int64 // Offset where tensor data starts
}

// Open opens a SafeTensors file and parses its header.
func Open(path string) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r, err := newReader(file, path)
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func newReader(file *os.File, path string) (*Reader, error) {
	// Read header size (8 bytes, little-endian uint64)
	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r := &Reader{
		file:       file,
		path:       path,
		tensors:    make(map[string]TensorInfo, len(rawMap)),
		metadata:   map[string]string{},
		dataOffset: int64(8 + headerSize), //nolint:gosec // G115: bounded by MaxHeaderSize.
	}
	for key, value := range rawMap {
		if key == metadataKey {
			if err := json.Unmarshal(value, &r.metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
			continue
		}
		var info TensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		r.tensors[key] = info
	}

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if err := validateOffsets(r.tensors, stat.Size()-r.dataOffset); err != nil {
		return nil, err
	}
	return r, nil
}

// Close closes the SafeTensors file.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Path returns the path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.metadata
}

// Names returns the names of all tensors in the file, sorted.
func (r *Reader) Names() []string {
	names := make([]string, 0, len(r.tensors))
	for name := range r.tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the file contains the named tensor.
func (r *Reader) Has(name string) bool {
	_, ok := r.tensors[name]
	return ok
}

// Info returns information about a specific tensor.
func (r *Reader) Info(name string) (TensorInfo, error) {
	info, ok := r.tensors[name]
	if !ok {
		return TensorInfo{}, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}
	return info, nil
}

// Load reads the named tensor into memory.
func (r *Reader) Load(name string) (*tensor.RawTensor, error) {
	info, err := r.Info(name)
	if err != nil {
		return nil, err
	}

	dtype, err := info.DType.DataType()
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	data := make([]byte, info.Size())
	if _, err := r.file.ReadAt(data, r.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}

	raw, err := tensor.FromBytes(tensor.Shape(info.Shape), dtype, data)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	return raw, nil
}

// Layout returns the layout recorded for the named tensor, or fallback when
// the file has none.
func (r *Reader) Layout(name string, fallback tensor.Layout) (tensor.Layout, error) {
	value, ok := r.metadata[LayoutKey(name)]
	if !ok {
		return fallback, nil
	}
	layout, err := tensor.ParseLayout(value)
	if err != nil {
		return tensor.Layout{}, fmt.Errorf("tensor %s: %w", name, err)
	}
	return layout, nil
}

// LoadItem reads the named tensor and tags it with its recorded layout, or
// fallback when the file has none.
func (r *Reader) LoadItem(name string, fallback tensor.Layout) (*tensor.Item, error) {
	layout, err := r.Layout(name, fallback)
	if err != nil {
		return nil, err
	}
	raw, err := r.Load(name)
	if err != nil {
		return nil, err
	}
	return tensor.NewItem(raw, layout)
}

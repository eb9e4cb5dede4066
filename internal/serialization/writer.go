package serialization

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/born-ml/collate/internal/tensor"
)

// Write writes tensors and metadata to a SafeTensors file.
// Tensors are written in alphabetical order by name. On error no file is
// left at path.
func Write(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := bufio.NewWriter(file)
	if err := Encode(w, tensors, metadata); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return nil
}

// WriteItems writes items like Write and records each item's layout in the
// metadata under LayoutKey(name).
func WriteItems(path string, items map[string]*tensor.Item, metadata map[string]string) error {
	tensors := make(map[string]*tensor.RawTensor, len(items))
	meta := make(map[string]string, len(metadata)+len(items))
	for k, v := range metadata {
		meta[k] = v
	}
	for name, item := range items {
		tensors[name] = item.Raw()
		meta[LayoutKey(name)] = item.Layout().String()
	}
	return Write(path, tensors, meta)
}

// Encode writes tensors and metadata in SafeTensors format to w.
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
func Encode(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if name == metadataKey {
			return fmt.Errorf("tensor name %q is reserved", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var offset int64
	for _, name := range names {
		raw := tensors[name]
		dtype := DType(raw.DType().SafeTensorsName())
		if dtype == "" {
			return fmt.Errorf("tensor %s: %w: %s", name, ErrUnsupportedType, raw.DType())
		}
		size := int64(raw.ByteSize())
		header[name] = TensorInfo{
			DType:       dtype,
			Shape:       raw.Shape().Clone(),
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, name := range names {
		if _, err := w.Write(tensors[name].Data()); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return nil
}

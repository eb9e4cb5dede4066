// Package serialization reads and writes tensors and batches in SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON {"name": {"dtype", "shape", "data_offsets"}, "__metadata__": {...}}]
//	  [Tensor data: raw little-endian bytes, in name order]
//
// Layout tags are stored as metadata entries named "layout.<tensor>" with
// values such as "NHWC", so a written batch can be read back as a
// tensor.Item with the same channel order.
//
// Example usage:
//
//	// Write a batch
//	err := serialization.WriteItems("batch.safetensors",
//	    map[string]*tensor.Item{"inputs": record.Inputs}, nil)
//
//	// Read it back
//	r, err := serialization.Open("batch.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	inputs, err := r.LoadItem("inputs", tensor.NHWC)
package serialization

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package collate batches variably-sized arrays into a single zero-padded batch.
//
// # Overview
//
// Every item carries a leading batch axis of size 1, a channel axis and one to
// three spatial axes, tagged with a tensor.Layout. The batch is sized to the
// smallest spatial shape that contains every item, and each item is centered
// in its slot with zeros around it. When the room around an item is odd, the
// extra unit of padding goes after the item.
//
//   - Rank 3 (sequences): concatenated along the batch axis, or centered when
//     Config.CenterSequences is set
//   - Rank 4 (images): centered on both spatial axes
//   - Rank 5 (volumes): centered on all three spatial axes
//
// # Basic Usage
//
//	a, _ := tensor.NewItem(rawA, tensor.NHWC) // [1 2 3 1]
//	b, _ := tensor.NewItem(rawB, tensor.NHWC) // [1 4 1 1]
//	batch, err := collate.Batch([]*tensor.Item{a, b})
//	// batch.Shape() == [2 4 3 1]
//
// Samples without a batch axis go through Collate, which adds it and keeps
// IDs and extra data alongside the batched arrays:
//
//	record, err := collate.Collate([]collate.Sample{
//	    {Inputs: img1, Targets: label1, ID: "img1"},
//	    {Inputs: img2, Targets: label2, ID: "img2"},
//	})
package collate

import (
	"github.com/born-ml/collate/internal/collate"
	"github.com/born-ml/collate/tensor"
)

// Config configures a Collator.
type Config = collate.Config

// Collator batches items according to its Config.
// A Collator is safe for concurrent use.
type Collator = collate.Collator

// Sample is one un-batched example.
type Sample = collate.Sample

// Record is a collated batch of samples.
type Record = collate.Record

// Errors returned by the batching functions.
var (
	// ErrEmptyBatch is returned when there is nothing to batch.
	ErrEmptyBatch = collate.ErrEmptyBatch
)

// UnsupportedRankError is returned for ranks other than 3, 4 and 5.
type UnsupportedRankError = collate.UnsupportedRankError

// ShapeMismatchError is returned when items cannot share a batch.
type ShapeMismatchError = collate.ShapeMismatchError

// DefaultConfig returns a sequential configuration with 1D concatenation and
// no logging.
func DefaultConfig() Config {
	return collate.DefaultConfig()
}

// New creates a Collator.
//
// Example:
//
//	cfg := collate.DefaultConfig()
//	cfg.Parallel.Enabled = true
//	cfg.Logger = logger
//	c := collate.New(cfg)
//	batch, err := c.Batch(items)
func New(config Config) *Collator {
	return collate.New(config)
}

// Batch picks the placement algorithm from the rank of the first item and
// batches items with the default configuration.
func Batch(items []*tensor.Item) (*tensor.Item, error) {
	return collate.Batch(items)
}

// Collate batches samples with the default configuration.
func Collate(samples []Sample) (*Record, error) {
	return collate.Collate(samples)
}

// Concat1D concatenates rank-3 items along the batch axis without padding.
func Concat1D(items []*tensor.Item) (*tensor.Item, error) {
	return collate.Concat1D(items)
}

// Place2D centers rank-4 items in a zero-filled batch.
func Place2D(items []*tensor.Item) (*tensor.Item, error) {
	return collate.Place2D(items)
}

// Place3D centers rank-5 items in a zero-filled batch.
func Place3D(items []*tensor.Item) (*tensor.Item, error) {
	return collate.Place3D(items)
}

// PlaceCentered centers items with spatialDims spatial axes in a zero-filled
// batch.
func PlaceCentered(items []*tensor.Item, spatialDims int) (*tensor.Item, error) {
	return collate.PlaceCentered(items, spatialDims)
}

// ContainingShape returns the elementwise maximum of the items' spatial shapes.
func ContainingShape(items []*tensor.Item) (tensor.Shape, error) {
	return collate.ContainingShape(items)
}

// Split divides containing-extent into leading and trailing padding.
// The trailing side gets the odd unit.
func Split(containing, extent int) (lead, trail int) {
	return collate.Split(containing, extent)
}

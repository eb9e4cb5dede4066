// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense arrays and layout tags consumed by the
// collate package.
//
// # Overview
//
// This package provides:
//   - RawTensor: a dense, row-major, byte-backed array with a runtime dtype
//   - Layout: the channel order and spatial rank of an array
//   - Item: a RawTensor tagged with its Layout
//
// # Basic Usage
//
//	raw, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3, 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// A 2x3 single-channel image, channel-last.
//	img, err := tensor.NewItem(raw, tensor.NHWC)
//	fmt.Println(img.SpatialShape()) // [2 3]
//	fmt.Println(img.Channels())     // 1
//
// # Layouts
//
// Layouts are named after the batched axis order:
//   - NLC, NCL: sequences (one spatial axis)
//   - NHWC, NCHW: images (two spatial axes)
//   - NDHWC, NCDHW: volumes (three spatial axes)
//
// ParseLayout accepts these names in any case, with or without the leading N.
package tensor

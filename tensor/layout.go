// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/collate/internal/tensor"
)

// ChannelOrder tells where the channel axis sits relative to the spatial axes.
type ChannelOrder = tensor.ChannelOrder

// Channel orders.
const (
	ChannelLast  ChannelOrder = tensor.ChannelLast
	ChannelFirst ChannelOrder = tensor.ChannelFirst
)

// MaxSpatialDims is the largest number of spatial axes a Layout can describe.
const MaxSpatialDims = tensor.MaxSpatialDims

// Layout describes an array's channel order and number of spatial axes.
type Layout = tensor.Layout

// Common layouts.
var (
	NLC   = tensor.NLC
	NCL   = tensor.NCL
	NHWC  = tensor.NHWC
	NCHW  = tensor.NCHW
	NDHWC = tensor.NDHWC
	NCDHW = tensor.NCDHW
)

// ParseLayout parses names such as "NHWC", "nchw" or "CDHW".
func ParseLayout(s string) (Layout, error) {
	return tensor.ParseLayout(s)
}

// Tagged is implemented by arrays that carry a channel-order tag.
type Tagged = tensor.Tagged

// Item is a RawTensor tagged with its Layout.
//
// An Item either holds one sample (rank SpatialRank()+1) or a batch of samples
// (rank SpatialRank()+2). Unsqueeze turns the former into a batch of one.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{3, 32, 32}, tensor.Float32)
//	img, _ := tensor.NewItem(raw, tensor.NCHW)
//	batch, _ := img.Unsqueeze() // Shape: [1 3 32 32], shares raw's buffer
type Item = tensor.Item

// NewItem tags raw with layout.
func NewItem(raw *RawTensor, layout Layout) (*Item, error) {
	return tensor.NewItem(raw, layout)
}

package tensor

import (
	"fmt"
	"strings"
)

// ChannelOrder tells where the channel axis sits relative to the spatial axes.
type ChannelOrder int

// Supported channel orders.
const (
	ChannelLast  ChannelOrder = iota // Channel axis is the last axis.
	ChannelFirst                     // Channel axis follows the batch axis.
)

// String returns a human-readable channel order name.
func (o ChannelOrder) String() string {
	switch o {
	case ChannelLast:
		return "channel_last"
	case ChannelFirst:
		return "channel_first"
	default:
		return "unknown"
	}
}

// MaxSpatialDims is the largest number of spatial axes a Layout can describe.
const MaxSpatialDims = 3

// Layout describes how an array's axes are laid out: the channel order and
// how many spatial axes sit next to the channel axis.
//
// A layout applies both to a single sample (rank SpatialDims+1) and to the same
// sample with a leading batch axis (rank SpatialDims+2).
type Layout struct {
	Order       ChannelOrder
	SpatialDims int
}

// Common layouts, named after the batched axis order.
var (
	NLC   = Layout{Order: ChannelLast, SpatialDims: 1}
	NCL   = Layout{Order: ChannelFirst, SpatialDims: 1}
	NHWC  = Layout{Order: ChannelLast, SpatialDims: 2}
	NCHW  = Layout{Order: ChannelFirst, SpatialDims: 2}
	NDHWC = Layout{Order: ChannelLast, SpatialDims: 3}
	NCDHW = Layout{Order: ChannelFirst, SpatialDims: 3}
)

var spatialNames = [...]string{"", "L", "HW", "DHW"}

// String returns the batched axis order, e.g. "NHWC".
func (l Layout) String() string {
	if l.SpatialDims < 1 || l.SpatialDims > MaxSpatialDims {
		return fmt.Sprintf("Layout(%s, %d)", l.Order, l.SpatialDims)
	}
	if l.Order == ChannelFirst {
		return "NC" + spatialNames[l.SpatialDims]
	}
	return "N" + spatialNames[l.SpatialDims] + "C"
}

// IsChannelFirst reports whether the channel axis precedes the spatial axes.
func (l Layout) IsChannelFirst() bool {
	return l.Order == ChannelFirst
}

// IsChannelLast reports whether the channel axis is the last axis.
func (l Layout) IsChannelLast() bool {
	return l.Order == ChannelLast
}

// ChannelAxis returns the channel axis index for an array of the given rank.
func (l Layout) ChannelAxis(rank int) int {
	if l.Order == ChannelFirst {
		return rank - l.SpatialDims - 1
	}
	return rank - 1
}

// SpatialAxes returns the spatial axis indices for an array of the given rank.
func (l Layout) SpatialAxes(rank int) []int {
	first := rank - l.SpatialDims
	if l.Order == ChannelLast {
		first--
	}
	axes := make([]int, l.SpatialDims)
	for i := range axes {
		axes[i] = first + i
	}
	return axes
}

// ParseLayout parses names such as "NHWC", "nchw" or "NCDHW".
// The leading "N" is optional.
func ParseLayout(s string) (Layout, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "N") {
		name = "N" + name
	}
	for _, l := range []Layout{NLC, NCL, NHWC, NCHW, NDHWC, NCDHW} {
		if l.String() == name {
			return l, nil
		}
	}
	return Layout{}, fmt.Errorf("unknown layout %q", s)
}

// Tagged is implemented by arrays that carry a channel-order tag.
type Tagged interface {
	Order() ChannelOrder
	IsChannelFirst() bool
	IsChannelLast() bool
	SpatialRank() int
}

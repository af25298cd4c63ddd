// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"slices"
)

// Shape manages a tensor's shape information, including sizes and strides,
// and can compute the flat index into an underlying 1D data storage array based on an
// n-dimensional index (and vice-versa).
// Per C / Go / Python conventions, indexes are Row-Major, ordered from
// outer to inner left-to-right, so the inner-most is right-most.
type Shape struct {

	// size per dimension.
	Sizes []int

	// offsets for each dimension.
	Strides []int `display:"-"`

	// names of each dimension.
	Names []string `display:"-"`
}

// NewShape returns a new shape with given sizes and optional dimension names.
func NewShape(sizes []int, names ...string) *Shape {
	sh := &Shape{}
	sh.SetShape(sizes, names...)
	return sh
}

// SetShape sets the shape size and optional names.
func (sh *Shape) SetShape(sizes []int, names ...string) {
	sh.Sizes = slices.Clone(sizes)
	sh.Strides = RowMajorStrides(sizes)
	sh.Names = make([]string, len(sh.Sizes))
	if len(names) == len(sizes) {
		copy(sh.Names, names)
	}
}

// CopyShape copies the shape parameters from another Shape struct.
func (sh *Shape) CopyShape(cp *Shape) {
	sh.Sizes = slices.Clone(cp.Sizes)
	sh.Strides = slices.Clone(cp.Strides)
	sh.Names = slices.Clone(cp.Names)
}

// Len returns the total length of elements in the tensor
// (i.e., the product of the shape sizes).
func (sh *Shape) Len() int {
	if len(sh.Sizes) == 0 {
		return 0
	}
	o := int(1)
	for _, v := range sh.Sizes {
		o *= v
	}
	return o
}

// NumDims returns the total number of dimensions.
func (sh *Shape) NumDims() int { return len(sh.Sizes) }

// DimSize returns the size of given dimension.
func (sh *Shape) DimSize(i int) int { return sh.Sizes[i] }

// IsEqual returns true if this shape has the same sizes as the other.
func (sh *Shape) IsEqual(oth *Shape) bool {
	return slices.Equal(sh.Sizes, oth.Sizes)
}

// Offset returns the "flat" 1D array index into an element at the given n-dimensional index.
// No checking is done on the length or size of the index values relative to the shape of the tensor.
func (sh *Shape) Offset(index ...int) int {
	var offset int
	for i, v := range index {
		offset += v * sh.Strides[i]
	}
	return offset
}

// Index returns the n-dimensional index from a "flat" 1D array index.
func (sh *Shape) Index(offset int) []int {
	nd := len(sh.Sizes)
	index := make([]int, nd)
	rem := offset
	for i := nd - 1; i >= 0; i-- {
		s := sh.Sizes[i]
		if s == 0 {
			return index
		}
		iv := rem % s
		rem /= s
		index[i] = iv
	}
	return index
}

// String satisfies the fmt.Stringer interface
func (sh *Shape) String() string {
	str := "["
	for i := range sh.Sizes {
		nm := sh.Names[i]
		if nm != "" {
			str += nm + ": "
		}
		str += fmt.Sprintf("%d", sh.Sizes[i])
		if i < len(sh.Sizes)-1 {
			str += ", "
		}
	}
	str += "]"
	return str
}

// RowMajorStrides returns strides for sizes where the first dimension is outermost
// and subsequent dimensions are progressively inner.
func RowMajorStrides(sizes []int) []int {
	rem := int(1)
	for _, v := range sizes {
		rem *= v
	}

	if rem == 0 {
		strides := make([]int, len(sizes))
		rem := int(1)
		for i := range strides {
			strides[i] = rem
		}
		return strides
	}

	strides := make([]int, len(sizes))
	for i, v := range sizes {
		rem /= v
		strides[i] = rem
	}
	return strides
}

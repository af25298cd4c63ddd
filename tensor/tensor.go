// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensor provides a row-major n-dimensional float64 grid,
// which also satisfies the gonum [mat.Matrix] interface in 2D.
package tensor

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/cmelab/gixstapose/math32/minmax"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Float64 is an n-dim array of float64s.
// For float64 values, use NaN to indicate missing values.
type Float64 struct {
	Shp    Shape
	Values []float64
}

// NewFloat64 returns a new [Float64] tensor
// with the given sizes per dimension (shape).
func NewFloat64(sizes ...int) *Float64 {
	tsr := &Float64{}
	tsr.SetShape(sizes...)
	return tsr
}

// NewFloat64FromValues returns a new tensor of the given shape
// that wraps the given values, which are not copied.
// It panics if the number of values does not match the shape.
func NewFloat64FromValues(vals []float64, sizes ...int) *Float64 {
	tsr := &Float64{}
	tsr.Shp.SetShape(sizes)
	if len(vals) != tsr.Shp.Len() {
		panic(fmt.Sprintf("tensor.NewFloat64FromValues: %d values for shape %v", len(vals), sizes))
	}
	tsr.Values = vals
	return tsr
}

// Shape returns a pointer to the shape that fully parametrizes the tensor shape
func (tsr *Float64) Shape() *Shape { return &tsr.Shp }

// SetShape sets the sizes parameters of the tensor, and resizes
// backing storage appropriately.
func (tsr *Float64) SetShape(sizes ...int) {
	tsr.Shp.SetShape(sizes)
	nln := tsr.Shp.Len()
	if cap(tsr.Values) >= nln {
		tsr.Values = tsr.Values[:nln]
	} else {
		tsr.Values = slices.Grow(tsr.Values[:0], nln)[:nln]
	}
}

// SetNames sets the dimension names of the tensor shape.
func (tsr *Float64) SetNames(names ...string) {
	copy(tsr.Shp.Names, names)
}

// Len returns the number of elements in the tensor (product of shape dimensions).
func (tsr *Float64) Len() int { return tsr.Shp.Len() }

// NumDims returns the total number of dimensions.
func (tsr *Float64) NumDims() int { return tsr.Shp.NumDims() }

// DimSize returns size of given dimension
func (tsr *Float64) DimSize(dim int) int { return tsr.Shp.DimSize(dim) }

func (tsr *Float64) Value(i ...int) float64    { return tsr.Values[tsr.Shp.Offset(i...)] }
func (tsr *Float64) Value1D(i int) float64     { return tsr.Values[i] }
func (tsr *Float64) Set(val float64, i ...int) { tsr.Values[tsr.Shp.Offset(i...)] = val }
func (tsr *Float64) Set1D(val float64, i int)  { tsr.Values[i] = val }

// SetAdd adds the given value to the element at the given index.
func (tsr *Float64) SetAdd(val float64, i ...int) { tsr.Values[tsr.Shp.Offset(i...)] += val }

// SetZeros is a simple convenience function initialize all values to 0.
func (tsr *Float64) SetZeros() {
	for j := range tsr.Values {
		tsr.Values[j] = 0
	}
}

// Clone clones this tensor, creating a duplicate copy of itself with its
// own separate memory representation of all the values.
func (tsr *Float64) Clone() *Float64 {
	csr := &Float64{}
	csr.Shp.CopyShape(&tsr.Shp)
	csr.Values = slices.Clone(tsr.Values)
	return csr
}

// Equal returns true if the other tensor has the same shape and
// bit-identical values.
func (tsr *Float64) Equal(oth *Float64) bool {
	if !tsr.Shp.IsEqual(&oth.Shp) {
		return false
	}
	for i, v := range tsr.Values {
		if math.Float64bits(v) != math.Float64bits(oth.Values[i]) {
			return false
		}
	}
	return true
}

// Max returns the maximum value and its flat index.
// It returns NaN and -1 for an empty tensor.
func (tsr *Float64) Max() (float64, int) {
	if len(tsr.Values) == 0 {
		return math.NaN(), -1
	}
	idx := floats.MaxIdx(tsr.Values)
	return tsr.Values[idx], idx
}

// Sum returns the sum of all values.
func (tsr *Float64) Sum() float64 {
	return floats.Sum(tsr.Values)
}

// Range returns the min / max range of the non-NaN values.
func (tsr *Float64) Range() minmax.F64 {
	var mr minmax.F64
	mr.SetInfinity()
	for _, v := range tsr.Values {
		if math.IsNaN(v) {
			continue
		}
		mr.FitValInRange(v)
	}
	return mr
}

// IsFinite returns true if no value is NaN or infinite.
func (tsr *Float64) IsFinite() bool {
	for _, v := range tsr.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Scale multiplies all values by the given factor.
func (tsr *Float64) Scale(s float64) {
	floats.Scale(s, tsr.Values)
}

// String satisfies the fmt.Stringer interface for string of tensor data.
func (tsr *Float64) String() string {
	var b strings.Builder
	b.WriteString("Tensor: ")
	b.WriteString(tsr.Shp.String())
	if tsr.NumDims() != 2 {
		fmt.Fprintf(&b, " %v", tsr.Values)
		return b.String()
	}
	rows, cols := tsr.Dims()
	for r := range rows {
		b.WriteString("\n")
		for c := range cols {
			fmt.Fprintf(&b, "%7.4g ", tsr.Value(r, c))
		}
	}
	return b.String()
}

// Dims is the gonum/mat.Matrix interface method for returning the dimensionality of the
// 2D Matrix.  Assumes Row-major ordering and logs an error if NumDims < 2.
func (tsr *Float64) Dims() (r, c int) {
	nd := tsr.NumDims()
	if nd < 2 {
		slog.Error("tensor Dims gonum Matrix call made on Tensor with dims < 2")
		return 0, 0
	}
	return tsr.Shp.DimSize(nd - 2), tsr.Shp.DimSize(nd - 1)
}

// At is the gonum/mat.Matrix interface method for returning 2D matrix element at given
// row, column index.  Assumes Row-major ordering and logs an error if NumDims < 2.
func (tsr *Float64) At(i, j int) float64 {
	nd := tsr.NumDims()
	if nd < 2 {
		slog.Error("tensor At gonum Matrix call made on Tensor with dims < 2")
		return 0
	} else if nd == 2 {
		return tsr.Value(i, j)
	}
	ix := make([]int, nd)
	ix[nd-2] = i
	ix[nd-1] = j
	return tsr.Value(ix...)
}

// T is the gonum/mat.Matrix transpose method.
// It performs an implicit transpose by returning the receiver inside a Transpose.
func (tsr *Float64) T() mat.Matrix {
	return mat.Transpose{Matrix: tsr}
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package convolve provides 1D convolution of float64 slices with
// symmetric kernels, and separable smoothing of 2D tensors.
package convolve

import (
	"errors"
	"fmt"
	"math"

	"github.com/cmelab/gixstapose/tensor"
)

// Slice64 convolves given kernel with given source slice, putting results in
// destination, which is ensured to be the same size as the source slice,
// using existing capacity if available, and otherwise making a new slice.
// The kernel should be normalized, and odd-sized so it is symmetric about 0.
// Returns an error if sizes are not valid.
// Edges are handled separately with renormalized kernels -- they can be
// clipped from dest by excluding the kernel half-width from each end.
func Slice64(dest *[]float64, src []float64, kern []float64) error {
	sz := len(src)
	ksz := len(kern)
	if ksz == 0 || sz == 0 {
		return errors.New("convolve.Slice64: kernel or source are empty")
	}
	if ksz%2 == 0 {
		return errors.New("convolve.Slice64: kernel is not odd sized")
	}
	if sz < ksz {
		return errors.New("convolve.Slice64: source must be > kernel in size")
	}
	khalf := (ksz - 1) / 2
	if cap(*dest) >= sz {
		*dest = (*dest)[:sz]
	} else {
		*dest = make([]float64, sz)
	}
	for i := khalf; i < sz-khalf; i++ {
		var sum float64
		for j := 0; j < ksz; j++ {
			sum += src[(i-khalf)+j] * kern[j]
		}
		(*dest)[i] = sum
	}
	for i := 0; i < khalf; i++ {
		var sum, ksum float64
		for j := 0; j <= khalf+i; j++ {
			ki := (j + khalf) - i // 0: 1+kh, 1: etc
			si := i + (ki - khalf)
			sum += src[si] * kern[ki]
			ksum += kern[ki]
		}
		(*dest)[i] = sum / ksum
	}
	for i := sz - khalf; i < sz; i++ {
		var sum, ksum float64
		ei := sz - i - 1
		for j := 0; j <= khalf+ei; j++ {
			ki := ((ksz - 1) - (j + khalf)) + ei
			si := i + (ki - khalf)
			sum += src[si] * kern[ki]
			ksum += kern[ki]
		}
		(*dest)[i] = sum / ksum
	}
	return nil
}

// GaussianKernel64 returns a normalized gaussian kernel for smoothing
// with given sigma (in elements), extending out to 3 sigma on each side.
// The kernel is always odd-sized, with a minimum size of 1.
func GaussianKernel64(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	khalf := int(math.Ceil(3 * sigma))
	ksz := 2*khalf + 1
	kern := make([]float64, ksz)
	var sum float64
	for i := range kern {
		x := float64(i - khalf)
		kv := math.Exp(-0.5 * (x * x) / (sigma * sigma))
		kern[i] = kv
		sum += kv
	}
	for i := range kern {
		kern[i] /= sum
	}
	return kern
}

// Smooth2D convolves each row and then each column of the given 2D
// tensor with a gaussian kernel of given sigma, in place.
// A sigma <= 0 leaves the tensor unchanged.
func Smooth2D(tsr *tensor.Float64, sigma float64) error {
	if tsr.NumDims() != 2 {
		return fmt.Errorf("convolve.Smooth2D: tensor must be 2D, has %d dims", tsr.NumDims())
	}
	if sigma <= 0 {
		return nil
	}
	kern := GaussianKernel64(sigma)
	rows, cols := tsr.Dims()
	if rows < len(kern) || cols < len(kern) {
		return fmt.Errorf("convolve.Smooth2D: tensor %v is smaller than kernel size %d", tsr.Shape(), len(kern))
	}
	var dest []float64
	for r := range rows {
		row := tsr.Values[r*cols : (r+1)*cols]
		if err := Slice64(&dest, row, kern); err != nil {
			return err
		}
		copy(row, dest)
	}
	col := make([]float64, rows)
	for c := range cols {
		for r := range rows {
			col[r] = tsr.Values[r*cols+c]
		}
		if err := Slice64(&dest, col, kern); err != nil {
			return err
		}
		for r := range rows {
			tsr.Values[r*cols+c] = dest[r]
		}
	}
	return nil
}

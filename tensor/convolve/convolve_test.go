// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convolve

import (
	"testing"

	"github.com/cmelab/gixstapose/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice64(t *testing.T) {
	src := []float64{0, 0, 0, 3, 0, 0, 0}
	kern := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	var dest []float64
	require.NoError(t, Slice64(&dest, src, kern))
	assert.Len(t, dest, len(src))
	assert.InDelta(t, 1.0, dest[2], 1e-12)
	assert.InDelta(t, 1.0, dest[3], 1e-12)
	assert.InDelta(t, 1.0, dest[4], 1e-12)
	assert.InDelta(t, 0.0, dest[0], 1e-12)

	assert.Error(t, Slice64(&dest, src, []float64{0.5, 0.5}))
	assert.Error(t, Slice64(&dest, nil, kern))
	assert.Error(t, Slice64(&dest, []float64{1}, kern))
}

func TestGaussianKernel64(t *testing.T) {
	assert.Equal(t, []float64{1}, GaussianKernel64(0))
	kern := GaussianKernel64(1)
	assert.Len(t, kern, 7)
	var sum float64
	for _, k := range kern {
		sum += k
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Equal(t, kern[0], kern[6])
	assert.Greater(t, kern[3], kern[2])
}

func TestSmooth2D(t *testing.T) {
	tsr := tensor.NewFloat64(16, 16)
	tsr.Set(1, 8, 8)
	require.NoError(t, Smooth2D(tsr, 1))
	assert.InDelta(t, 1.0, tsr.Sum(), 1e-12)
	mx, idx := tsr.Max()
	assert.Equal(t, tsr.Shape().Offset(8, 8), idx)
	assert.Less(t, mx, 1.0)
	assert.InDelta(t, tsr.Value(7, 8), tsr.Value(9, 8), 1e-15)
	assert.InDelta(t, tsr.Value(8, 7), tsr.Value(7, 8), 1e-15)

	same := tensor.NewFloat64(4, 4)
	same.Set(2, 1, 1)
	require.NoError(t, Smooth2D(same, 0))
	assert.Equal(t, 2.0, same.Value(1, 1))

	assert.Error(t, Smooth2D(tensor.NewFloat64(4), 1))
	assert.Error(t, Smooth2D(tensor.NewFloat64(4, 4), 2))
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpen(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 2, color.RGBA{200, 10, 20, 255})
	fn := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, Save(img, fn))
	got, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())
	rgba := AsRGBA(got)
	assert.Equal(t, color.RGBA{200, 10, 20, 255}, rgba.RGBAAt(1, 2))

	assert.Error(t, Save(img, filepath.Join(t.TempDir(), "x.gsd")))
}

func TestCompareColors(t *testing.T) {
	assert.True(t, CompareColors(color.RGBA{10, 10, 10, 255}, color.RGBA{12, 9, 10, 255}, 2))
	assert.False(t, CompareColors(color.RGBA{10, 10, 10, 255}, color.RGBA{13, 10, 10, 255}, 2))
}

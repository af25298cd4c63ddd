// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"math"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/structure"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// maxTiles is the largest number of periodic images tiled along
	// each image axis.
	maxTiles = 16

	// periodTol is the relative tolerance for box vectors lying along
	// an image axis and for common multiples of their lengths.
	periodTol = 1e-6
)

// window returns the width of the square real-space window for the
// given view of the box, and the lattice translations that tile the
// wrapped positions so that the box periods along both image axes
// divide the width. The width is the smallest such multiple that is at
// least the largest box length, so reciprocal pixels only fall on
// reciprocal vectors of the periodic system.
//
// If no box vector lies along each of the image axes, as in oblique or
// rolled views, or the periods have no common multiple within maxTiles
// images, it returns the largest box length and a single zero translation.
func window(box structure.Box, b *camera.Basis) (float64, []r3.Vec) {
	width := box.MaxLength()
	single := []r3.Vec{{}}
	ar, okr := periodAlong(box, b.Right)
	au, oku := periodAlong(box, b.Up)
	if !okr || !oku {
		return width, single
	}
	lr, lu := r3.Norm(ar), r3.Norm(au)
	period, ok := commonMultiple(lr, lu)
	if !ok {
		return width, single
	}
	width = period * math.Ceil(width/period-periodTol)
	nr, nu := int(math.Round(width/lr)), int(math.Round(width/lu))
	if nr > maxTiles || nu > maxTiles {
		return box.MaxLength(), single
	}
	tiles := make([]r3.Vec, 0, nr*nu)
	for i := range nr {
		for j := range nu {
			tiles = append(tiles, r3.Add(r3.Scale(float64(i), ar), r3.Scale(float64(j), au)))
		}
	}
	return width, tiles
}

// periodAlong returns the shortest box vector parallel to the given
// unit direction, and whether there is one.
func periodAlong(box structure.Box, dir r3.Vec) (r3.Vec, bool) {
	var best r3.Vec
	found := false
	for _, a := range box.Vectors() {
		l := r3.Norm(a)
		if math.Abs(r3.Dot(a, dir)) < (1-periodTol)*l {
			continue
		}
		if !found || l < r3.Norm(best) {
			best, found = a, true
		}
	}
	return best, found
}

// commonMultiple returns the smallest length that is a multiple of
// both a and b, using at most maxTiles copies of each.
func commonMultiple(a, b float64) (float64, bool) {
	for p := 1; p <= maxTiles; p++ {
		l := float64(p) * a
		q := math.Round(l / b)
		if q >= 1 && q <= maxTiles && math.Abs(l-q*b) <= periodTol*l {
			return l, true
		}
	}
	return 0, false
}

// tile returns the positions translated by each of the given tiles.
func tile(pos []r3.Vec, tiles []r3.Vec) []r3.Vec {
	if len(tiles) == 1 && tiles[0] == (r3.Vec{}) {
		return pos
	}
	out := make([]r3.Vec, 0, len(pos)*len(tiles))
	for _, t := range tiles {
		for _, p := range pos {
			out = append(out, r3.Add(p, t))
		}
	}
	return out
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/math32/minmax"
	"github.com/cmelab/gixstapose/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pattern is a 2D diffraction slice on a square reciprocal grid,
// centered on the origin. Pixel (row, col) is at
// kx = (col - M/2) DK, ky = (row - M/2) DK, where M is the size.
type Pattern struct {

	// Intensity is the M x M grid of intensities, indexed [ky, kx].
	Intensity *tensor.Float64

	// DK is the reciprocal pixel size, in inverse length units.
	DK float64

	// Basis is the view basis the slice was computed in.
	// Kx is along Basis.Right and Ky along Basis.Up.
	Basis camera.Basis

	// Camera is a copy of the camera the slice was computed for.
	Camera camera.Camera

	// Method is the method used to compute the slice.
	Method Methods

	// NParticles is the number of particles in the snapshot.
	NParticles int
}

// Size returns the number of pixels along each side.
func (pt *Pattern) Size() int {
	return pt.Intensity.DimSize(0)
}

// K returns the reciprocal coordinate of the given pixel index.
func (pt *Pattern) K(i int) float64 {
	return float64(i-pt.Size()/2) * pt.DK
}

// Index returns the pixel index nearest to the given reciprocal
// coordinate, and whether it is within the pattern.
func (pt *Pattern) Index(k float64) (int, bool) {
	i := int(math.Round(k/pt.DK)) + pt.Size()/2
	return i, i >= 0 && i < pt.Size()
}

// Extent returns the reciprocal range covered by the pixels,
// from the outer edge of the first to the outer edge of the last.
func (pt *Pattern) Extent() minmax.F64 {
	m := pt.Size()
	return minmax.F64{Min: pt.K(0) - pt.DK/2, Max: pt.K(m-1) + pt.DK/2}
}

// KVector returns the 3D reciprocal vector of the given in-plane
// coordinates.
func (pt *Pattern) KVector(kx, ky float64) r3.Vec {
	return r3.Add(r3.Scale(kx, pt.Basis.Right), r3.Scale(ky, pt.Basis.Up))
}

// Peak is a labelled point of a pattern.
type Peak struct {

	// Row and Col are the pixel indexes.
	Row, Col int

	// Kx and Ky are the in-plane reciprocal coordinates.
	Kx, Ky float64

	// K is the 3D reciprocal vector.
	K r3.Vec

	// Magnitude is |k|.
	Magnitude float64

	// Spacing is the real-space distance 1/|k|, +Inf at the origin.
	Spacing float64

	// Intensity is the pattern intensity at the pixel.
	Intensity float64
}

// String returns a short description of the peak.
func (pk Peak) String() string {
	return fmt.Sprintf("k = (%.4g, %.4g) |k| = %.4g d = %.4g I = %.4g", pk.Kx, pk.Ky, pk.Magnitude, pk.Spacing, pk.Intensity)
}

// Label returns the annotation text for the peak.
func (pk Peak) Label() string {
	if pk.Magnitude == 0 {
		return "k = 0"
	}
	return fmt.Sprintf("d = %.3g", pk.Spacing)
}

// PeakAtPixel returns the peak at the given pixel indexes.
func (pt *Pattern) PeakAtPixel(row, col int) Peak {
	kx, ky := pt.K(col), pt.K(row)
	mag := math.Hypot(kx, ky)
	return Peak{
		Row:       row,
		Col:       col,
		Kx:        kx,
		Ky:        ky,
		K:         pt.KVector(kx, ky),
		Magnitude: mag,
		Spacing:   1 / mag,
		Intensity: pt.Intensity.Value(row, col),
	}
}

// PeakAt returns the peak at the pixel nearest to the given reciprocal
// coordinates, and whether that is within the pattern.
func (pt *Pattern) PeakAt(kx, ky float64) (Peak, bool) {
	col, okc := pt.Index(kx)
	row, okr := pt.Index(ky)
	if !okc || !okr {
		return Peak{}, false
	}
	return pt.PeakAtPixel(row, col), true
}

// Snap returns the peak at the highest intensity pixel within the
// given radius in pixels of pk. Ties keep the pixel nearest to pk.
func (pt *Pattern) Snap(pk Peak, radius int) Peak {
	m := pt.Size()
	best, bestD := pk, 0
	for r := max(pk.Row-radius, 0); r <= min(pk.Row+radius, m-1); r++ {
		for c := max(pk.Col-radius, 0); c <= min(pk.Col+radius, m-1); c++ {
			v := pt.Intensity.Value(r, c)
			d := (r-pk.Row)*(r-pk.Row) + (c-pk.Col)*(c-pk.Col)
			if v > best.Intensity || (v == best.Intensity && d < bestD) {
				best, bestD = pt.PeakAtPixel(r, c), d
			}
		}
	}
	return best
}

// Peaks returns up to n local intensity maxima other than the origin,
// sorted by decreasing intensity and then increasing |k|. A pixel is a
// local maximum if no neighbor is higher and it is above zero.
func (pt *Pattern) Peaks(n int) []Peak {
	m := pt.Size()
	var pks []Peak
	for r := range m {
		for c := range m {
			v := pt.Intensity.Value(r, c)
			if v <= 0 || (r == m/2 && c == m/2) || !pt.isLocalMax(r, c, v) {
				continue
			}
			pks = append(pks, pt.PeakAtPixel(r, c))
		}
	}
	slices.SortStableFunc(pks, func(a, b Peak) int {
		if c := cmp.Compare(b.Intensity, a.Intensity); c != 0 {
			return c
		}
		return cmp.Compare(a.Magnitude, b.Magnitude)
	})
	if len(pks) > n {
		pks = pks[:n]
	}
	return pks
}

func (pt *Pattern) isLocalMax(r, c int, v float64) bool {
	m := pt.Size()
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			rr, cc := r+dr, c+dc
			if (dr == 0 && dc == 0) || rr < 0 || cc < 0 || rr >= m || cc >= m {
				continue
			}
			if pt.Intensity.Value(rr, cc) > v {
				return false
			}
		}
	}
	return true
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"math"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/tensor"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/spatial/r3"
)

// projectionSlice returns the m x m central slice of the structure factor
// of the given positions perpendicular to the view direction of b.
// The positions are projected onto the view plane and binned onto the
// nearest points of an n x n periodic grid of the given width, and
// the intensity is |F|^2 / N of the 2D FFT of that density.
func projectionSlice(pos []r3.Vec, b *camera.Basis, n, m int, width float64) *tensor.Float64 {
	dx := width / float64(n)
	grid := make([]complex128, n*n)
	for _, p := range pos {
		u, v := b.Project(p)
		iu := wrapIndex(int(math.Floor(u/dx+0.5)), n)
		iv := wrapIndex(int(math.Floor(v/dx+0.5)), n)
		grid[iv*n+iu]++
	}
	fft2(grid, n)

	norm := 1 / float64(len(pos))
	out := tensor.NewFloat64(m, m)
	out.SetNames("ky", "kx")
	for r := range m {
		fr := shiftedIndex(r, n, m)
		row := grid[fr*n : (fr+1)*n]
		for c := range m {
			f := row[shiftedIndex(c, n, m)]
			out.Set(norm*(real(f)*real(f)+imag(f)*imag(f)), r, c)
		}
	}
	return out
}

// shiftedIndex returns the index into an unshifted FFT of size n of
// pixel i of the central m pixels, where pixel m/2 is the zero frequency.
func shiftedIndex(i, n, m int) int {
	return wrapIndex(i-m/2, n)
}

// wrapIndex returns i modulo n in [0, n).
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// fft2 computes the 2D discrete Fourier transform of the n x n row-major
// grid in place, with the sign convention exp(-2 pi i k x).
func fft2(grid []complex128, n int) {
	fft := fourier.NewCmplxFFT(n)
	buf := make([]complex128, n)
	for r := range n {
		row := grid[r*n : (r+1)*n]
		fft.Coefficients(buf, row)
		copy(row, buf)
	}
	col := make([]complex128, n)
	for c := range n {
		for r := range n {
			col[r] = grid[r*n+c]
		}
		fft.Coefficients(buf, col)
		for r := range n {
			grid[r*n+c] = buf[r]
		}
	}
}

// directSlice returns the m x m central slice of the structure factor
// perpendicular to the view direction of b, summing
// |sum_j exp(-2 pi i k . r_j)|^2 / N directly at each reciprocal grid
// point k = (i - m/2) / width.
func directSlice(pos []r3.Vec, b *camera.Basis, m int, width float64) *tensor.Float64 {
	dk := 1 / width
	ex := make([]complex128, m)
	ey := make([]complex128, m)
	acc := make([]complex128, m*m)
	for _, p := range pos {
		u, v := b.Project(p)
		for i := range m {
			k := float64(i-m/2) * dk
			s, c := math.Sincos(-2 * math.Pi * k * u)
			ex[i] = complex(c, s)
			s, c = math.Sincos(-2 * math.Pi * k * v)
			ey[i] = complex(c, s)
		}
		for r := range m {
			row := acc[r*m : (r+1)*m]
			eyr := ey[r]
			for c := range m {
				row[c] += eyr * ex[c]
			}
		}
	}

	norm := 1 / float64(len(pos))
	out := tensor.NewFloat64(m, m)
	out.SetNames("ky", "kx")
	for i, f := range acc {
		out.Set1D(norm*(real(f)*real(f)+imag(f)*imag(f)), i)
	}
	return out
}

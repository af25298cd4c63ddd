// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structure

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a periodic, possibly triclinic simulation box, using the
// convention where the lattice vectors are
// a1 = (Lx, 0, 0), a2 = (XY*Ly, Ly, 0) and a3 = (XZ*Lz, YZ*Lz, Lz),
// and particle positions lie in [-L/2, L/2) along each fractional axis.
type Box struct {
	Lx float64 `toml:"lx" yaml:"lx"`
	Ly float64 `toml:"ly" yaml:"ly"`
	Lz float64 `toml:"lz" yaml:"lz"`

	// tilt factors, zero for an orthorhombic box.
	XY float64 `toml:"xy" yaml:"xy"`
	XZ float64 `toml:"xz" yaml:"xz"`
	YZ float64 `toml:"yz" yaml:"yz"`
}

// Cube returns a cubic box with side length l.
func Cube(l float64) Box {
	return Box{Lx: l, Ly: l, Lz: l}
}

// String returns a compact description of the box.
func (b Box) String() string {
	if b.XY == 0 && b.XZ == 0 && b.YZ == 0 {
		return fmt.Sprintf("%g x %g x %g", b.Lx, b.Ly, b.Lz)
	}
	return fmt.Sprintf("%g x %g x %g (xy: %g xz: %g yz: %g)", b.Lx, b.Ly, b.Lz, b.XY, b.XZ, b.YZ)
}

// Validate returns an error wrapping [ErrInvalid] if any length is
// not positive or any value is not finite.
func (b Box) Validate() error {
	for i, l := range []float64{b.Lx, b.Ly, b.Lz} {
		if !finite(l) || l <= 0 {
			return fmt.Errorf("%w: box length %d must be positive and finite, got %g", ErrInvalid, i, l)
		}
	}
	for _, tf := range []float64{b.XY, b.XZ, b.YZ} {
		if !finite(tf) {
			return fmt.Errorf("%w: box tilt factor must be finite, got %g", ErrInvalid, tf)
		}
	}
	return nil
}

// Vectors returns the three lattice vectors of the box.
func (b Box) Vectors() [3]r3.Vec {
	return [3]r3.Vec{
		{X: b.Lx},
		{X: b.XY * b.Ly, Y: b.Ly},
		{X: b.XZ * b.Lz, Y: b.YZ * b.Lz, Z: b.Lz},
	}
}

// Volume returns the volume of the box.
func (b Box) Volume() float64 {
	return b.Lx * b.Ly * b.Lz
}

// MaxLength returns the largest of the three box lengths.
func (b Box) MaxLength() float64 {
	return max(b.Lx, b.Ly, b.Lz)
}

// Scaled returns the box with all lengths multiplied by s.
func (b Box) Scaled(s float64) Box {
	b.Lx *= s
	b.Ly *= s
	b.Lz *= s
	return b
}

// Fractional returns the fractional coordinates of p in [0, 1) along each
// lattice vector, for a point in the primary image, without wrapping.
func (b Box) Fractional(p r3.Vec) r3.Vec {
	sz := p.Z / b.Lz
	sy := (p.Y - b.YZ*b.Lz*sz) / b.Ly
	sx := (p.X - b.XY*b.Ly*sy - b.XZ*b.Lz*sz) / b.Lx
	return r3.Vec{X: sx + 0.5, Y: sy + 0.5, Z: sz + 0.5}
}

// Absolute is the inverse of [Box.Fractional].
func (b Box) Absolute(s r3.Vec) r3.Vec {
	sx, sy, sz := s.X-0.5, s.Y-0.5, s.Z-0.5
	return r3.Vec{
		X: sx*b.Lx + sy*b.XY*b.Ly + sz*b.XZ*b.Lz,
		Y: sy*b.Ly + sz*b.YZ*b.Lz,
		Z: sz * b.Lz,
	}
}

// Wrap returns the periodic image of p that lies inside the box.
func (b Box) Wrap(p r3.Vec) r3.Vec {
	s := b.Fractional(p)
	s.X -= math.Floor(s.X)
	s.Y -= math.Floor(s.Y)
	s.Z -= math.Floor(s.Z)
	return b.Absolute(s)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

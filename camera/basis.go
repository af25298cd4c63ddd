// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"

	"github.com/cmelab/gixstapose/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Basis is the right-handed orthonormal frame of a camera view:
// Right and Up span the image plane, and Forward points from the
// camera toward the LookAt target. It is computed in double precision
// from the float32 camera fields.
type Basis struct {
	Right   r3.Vec
	Up      r3.Vec
	Forward r3.Vec
}

// Project returns the image plane coordinates of the given point.
func (b *Basis) Project(p r3.Vec) (u, v float64) {
	return r3.Dot(b.Right, p), r3.Dot(b.Up, p)
}

// Depth returns the distance of the given point along the view direction.
func (b *Basis) Depth(p r3.Vec) float64 {
	return r3.Dot(b.Forward, p)
}

// Vec64 returns the given float32 vector in double precision.
func Vec64(v math32.Vector3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// parallelTol is the minimum |forward x up| for a valid camera.
const parallelTol = 1e-6

// Basis returns the orthonormal view basis of the camera.
// It returns an error wrapping [ErrDegenerate] if the position and
// target coincide, if the up vector is parallel to the view direction,
// or if any value is not finite.
func (cm *Camera) Basis() (*Basis, error) {
	if !cm.Position.IsFinite() || !cm.LookAt.IsFinite() || !cm.Up.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite camera value: %v", ErrDegenerate, cm)
	}
	fwd := r3.Sub(Vec64(cm.LookAt), Vec64(cm.Position))
	if r3.Norm(fwd) == 0 {
		return nil, fmt.Errorf("%w: position equals look_at %v", ErrDegenerate, cm.Position)
	}
	up := Vec64(cm.Up)
	if r3.Norm(up) == 0 {
		return nil, fmt.Errorf("%w: zero up vector", ErrDegenerate)
	}
	fwd, up = r3.Unit(fwd), r3.Unit(up)
	right := r3.Cross(fwd, up)
	if r3.Norm(right) < parallelTol {
		return nil, fmt.Errorf("%w: up %v is parallel to the view direction", ErrDegenerate, cm.Up)
	}
	right = r3.Unit(right)
	return &Basis{Right: right, Up: r3.Cross(right, fwd), Forward: fwd}, nil
}

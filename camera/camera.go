// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides the orthographic viewing camera used to
// render particle scenes and to select diffraction slice planes.
package camera

import (
	"errors"
	"fmt"

	"github.com/cmelab/gixstapose/math32"
)

// ErrDegenerate is returned when a camera does not define a unique
// viewing direction and orientation.
var ErrDegenerate = errors.New("camera: degenerate view")

// Camera defines the position and orientation of an orthographic camera,
// with the same fields that ray-tracing scene cameras expose.
type Camera struct {

	// Position is the location of the camera.
	Position math32.Vector3 `toml:"position" yaml:"position"`

	// LookAt is the target location the camera is pointing at.
	LookAt math32.Vector3 `toml:"look_at" yaml:"look_at"`

	// Up is the up direction for the camera. It does not need to be
	// orthogonal to the view direction, only not parallel to it.
	Up math32.Vector3 `toml:"up" yaml:"up"`

	// Height is the height of the orthographic view volume, in length units.
	Height float32 `toml:"height" yaml:"height"`
}

// New returns a new camera with default parameters.
func New() *Camera {
	cm := &Camera{}
	cm.Defaults()
	return cm
}

// Defaults resets the camera to looking at the origin from 0,0,10,
// with up Y axis, and a view height of 10.
func (cm *Camera) Defaults() {
	cm.Position = math32.Vec3(0, 0, 10)
	cm.LookAt = math32.Vector3{}
	cm.Up = math32.Vec3(0, 1, 0)
	cm.Height = 10
}

// String returns a compact description of the camera.
func (cm *Camera) String() string {
	return fmt.Sprintf("pos: %v look_at: %v up: %v height: %g", cm.Position, cm.LookAt, cm.Up, cm.Height)
}

// SetLookAt points the camera at given target location, using given up direction.
// A nil up direction is replaced with the Y axis.
func (cm *Camera) SetLookAt(target, up math32.Vector3) {
	cm.LookAt = target
	if up.IsNil() {
		up = math32.Vec3(0, 1, 0)
	}
	cm.Up = up
}

// ViewVector is the vector between the camera position and target
func (cm *Camera) ViewVector() math32.Vector3 {
	return cm.Position.Sub(cm.LookAt)
}

// ViewMainAxis returns the dimension along which the view vector is largest
// along with the sign of that axis (+1 for positive, -1 for negative).
func (cm *Camera) ViewMainAxis() (dim math32.Dims, sign float32) {
	vv := cm.ViewVector()
	va := vv.Abs()
	switch {
	case va.X > va.Y && va.X > va.Z:
		return math32.X, math32.Sign(vv.X)
	case va.Y > va.X && va.Y > va.Z:
		return math32.Y, math32.Sign(vv.Y)
	default:
		return math32.Z, math32.Sign(vv.Z)
	}
}

// Validate returns an error if the camera values are not finite or
// do not define a unique view.
func (cm *Camera) Validate() error {
	_, err := cm.Basis()
	return err
}

// Orbit moves the camera along the given 2D axes in degrees
// (delX = left/right, delY = up/down),
// relative to current position and orientation,
// keeping the same distance from the LookAt target, and rotating the camera and
// the Up direction vector to keep looking at the target.
func (cm *Camera) Orbit(delX, delY float32) {
	ctdir := cm.ViewVector()
	if ctdir.IsNil() {
		ctdir.Set(0, 0, 1)
	}
	dir := ctdir.Normal()

	up := cm.Up
	right := cm.Up.Cross(dir).Normal()

	// delX rotates around the up vector
	dxq := math32.NewQuatAxisAngle(up, math32.DegToRad(delX))
	dx := ctdir.MulQuat(dxq).Sub(ctdir)
	// delY rotates around the right vector
	dyq := math32.NewQuatAxisAngle(right, math32.DegToRad(delY))
	dy := ctdir.MulQuat(dyq).Sub(ctdir)

	cm.Position = cm.Position.Add(dx).Add(dy)
	cm.Up.SetMulQuat(dyq) // this is only one that affects up
}

// Roll rotates the Up direction about the view direction by the given
// angle in degrees, counter-clockwise as seen by the camera.
func (cm *Camera) Roll(deg float32) {
	q := math32.NewQuatAxisAngle(cm.ViewVector(), math32.DegToRad(deg))
	cm.Up.SetMulQuat(q)
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides immutable particle scenes opened from snapshot
// files, with summary information and orthographic rendering.
package scene

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/math32"
	"github.com/cmelab/gixstapose/structure"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene is an immutable particle snapshot ready for rendering.
// Scenes are safe for concurrent use.
type Scene struct {
	path     string
	snapshot *structure.Snapshot
	wrapped  []r3.Vec
	palette  []colorful.Color
}

// Open opens the snapshot file at the given path, returning a new scene
// and its summary info. Each call reads the file again.
func Open(path string) (*Scene, Info, error) {
	sn, err := structure.Open(path)
	if err != nil {
		return nil, Info{}, err
	}
	sc, info, err := New(sn)
	if err != nil {
		return nil, Info{}, fmt.Errorf("scene: %s: %w", path, err)
	}
	sc.path = path
	info.Path = path
	slog.Debug("scene: opened", "path", path, "particles", info.NParticles)
	return sc, info, nil
}

// New returns a new scene of a copy of the given snapshot,
// and its summary info.
func New(sn *structure.Snapshot) (*Scene, Info, error) {
	if err := sn.Validate(); err != nil {
		return nil, Info{}, err
	}
	sn = sn.Clone()
	sc := &Scene{snapshot: sn, wrapped: sn.Wrapped(1)}
	names, _ := sn.TypeCounts()
	sc.palette = Palette(len(names))
	return sc, NewInfo(sn), nil
}

// Path returns the file path the scene was opened from, if any.
func (sc *Scene) Path() string {
	return sc.path
}

// Snapshot returns a copy of the scene snapshot.
func (sc *Scene) Snapshot() *structure.Snapshot {
	return sc.snapshot.Clone()
}

// Len returns the number of particles.
func (sc *Scene) Len() int {
	return sc.snapshot.Len()
}

// Camera returns a camera that frames the whole box, looking down
// the -z axis with y up.
func (sc *Scene) Camera() *camera.Camera {
	cam := camera.New()
	b := sc.snapshot.Box
	diag := math.Sqrt(b.Lx*b.Lx + b.Ly*b.Ly + b.Lz*b.Lz)
	cam.Position = math32.Vec3(0, 0, float32(2*diag))
	cam.Height = float32(1.1 * diag)
	return cam
}

// typeIndex returns the index of the type of particle i into the palette.
func (sc *Scene) typeIndex(i int) int {
	if len(sc.snapshot.TypeIDs) == 0 {
		return 0
	}
	return sc.snapshot.TypeIDs[i]
}

// Palette returns n evenly spaced hues of constant chroma and luminance.
func Palette(n int) []colorful.Color {
	pal := make([]colorful.Color, n)
	for i := range pal {
		h := math.Mod(210+float64(i)*360/float64(max(n, 1)), 360)
		pal[i] = colorful.Hcl(h, 0.55, 0.65).Clamped()
	}
	return pal
}

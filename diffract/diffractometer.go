// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diffract computes simulated diffraction patterns of particle
// snapshots, as seen from an arbitrary camera orientation.
//
// A [Diffractometer] holds one loaded snapshot. Each call to
// [Diffractometer.DiffractFromCamera] computes the 2D slice of the
// structure factor perpendicular to the camera view direction.
// Reciprocal coordinates are in cycles per length (k = 1/d), so a
// lattice of period a has its first peak at |k| = 1/a.
package diffract

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/math32"
	"github.com/cmelab/gixstapose/structure"
	"github.com/cmelab/gixstapose/tensor"
	"github.com/cmelab/gixstapose/tensor/convolve"
	"gonum.org/v1/gonum/spatial/r3"
)

// Diffractometer computes diffraction patterns of a loaded snapshot.
// It is not safe for concurrent use.
type Diffractometer struct {
	Options

	// snapshot is the loaded snapshot, owned by the diffractometer.
	snapshot *structure.Snapshot

	// scale is the LengthScale that wrapped was computed with.
	scale float64

	// wrapped are the scaled positions wrapped into the box.
	wrapped []r3.Vec

	// box is the scaled box.
	box structure.Box

	// pattern is the most recently computed pattern.
	pattern *Pattern
}

// New returns a new diffractometer with default options.
func New() *Diffractometer {
	return &Diffractometer{Options: DefaultOptions()}
}

// NewWithOptions returns a new diffractometer with the given options.
func NewWithOptions(opts Options) (*Diffractometer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Diffractometer{Options: opts}, nil
}

// Load replaces the loaded snapshot with untyped particles at the
// given positions in the given box. It returns an error wrapping
// [ErrInvalidInput] if there are no positions, any position is not
// finite, or the box is invalid, in which case the previously loaded
// snapshot is kept.
func (d *Diffractometer) Load(positions []math32.Vector3, box structure.Box) error {
	return d.LoadSnapshot(structure.NewSnapshot(positions, box))
}

// LoadSnapshot is like [Diffractometer.Load], taking a copy of the
// given snapshot.
func (d *Diffractometer) LoadSnapshot(sn *structure.Snapshot) error {
	if sn == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidInput)
	}
	if err := d.Options.Validate(); err != nil {
		return err
	}
	if err := sn.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	d.snapshot = sn.Clone()
	d.pattern = nil
	d.rescale()
	slog.Debug("diffract: loaded snapshot", "particles", d.snapshot.Len(), "box", d.box.String(), "scale", d.scale)
	return nil
}

// rescale recomputes the wrapped positions for the current LengthScale.
func (d *Diffractometer) rescale() {
	d.scale = d.LengthScale
	d.box = d.snapshot.Box.Scaled(d.scale)
	d.wrapped = d.snapshot.Wrapped(d.scale)
}

// Snapshot returns the loaded snapshot, or nil if none is loaded.
// It must not be modified.
func (d *Diffractometer) Snapshot() *structure.Snapshot {
	return d.snapshot
}

// Pattern returns the most recently computed pattern, or nil.
func (d *Diffractometer) Pattern() *Pattern {
	return d.pattern
}

// DiffractFromCamera computes the diffraction pattern perpendicular to
// the view direction of the given camera, stores it for [Diffractometer.Plot],
// and returns it. Identical inputs yield bit-identical intensities.
// A degenerate camera or missing snapshot returns an error wrapping
// [ErrInvalidInput]. A scaled box or positions that are not finite,
// a degenerate window, or a non-finite result return an error wrapping
// [ErrComputation]. On error the stored pattern is unchanged.
//
// When the view looks along a box vector with box vectors along both
// image axes, the positions are tiled with periodic images so that the
// window is a common multiple of the in-plane box periods.
func (d *Diffractometer) DiffractFromCamera(cam *camera.Camera) (*Pattern, error) {
	if d.snapshot == nil {
		return nil, fmt.Errorf("%w: no snapshot loaded", ErrInvalidInput)
	}
	if cam == nil {
		return nil, fmt.Errorf("%w: nil camera", ErrInvalidInput)
	}
	if err := d.Options.Validate(); err != nil {
		return nil, err
	}
	basis, err := cam.Basis()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if d.scale != d.LengthScale {
		d.rescale()
	}

	if err := d.box.Validate(); err != nil {
		return nil, fmt.Errorf("%w: scaled box: %w", ErrComputation, err)
	}
	if i := slices.IndexFunc(d.wrapped, func(p r3.Vec) bool {
		return !finite(p.X) || !finite(p.Y) || !finite(p.Z)
	}); i >= 0 {
		return nil, fmt.Errorf("%w: non-finite scaled position %d: %v", ErrComputation, i, d.wrapped[i])
	}
	width, tiles := window(d.box, basis)
	if !finite(width) || width <= 0 || !finite(1/width) {
		return nil, fmt.Errorf("%w: degenerate window width %g", ErrComputation, width)
	}
	pos := tile(d.wrapped, tiles)
	var intensity *tensor.Float64
	switch d.Method {
	case Direct:
		intensity = directSlice(pos, basis, d.PatternSize(), width)
	default:
		intensity = projectionSlice(pos, basis, d.GridSize, d.PatternSize(), width)
	}
	if len(tiles) > 1 {
		intensity.Scale(1 / float64(len(tiles)))
	}
	if !intensity.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite intensity for camera %v", ErrComputation, cam)
	}
	if err := convolve.Smooth2D(intensity, d.PeakWidth); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComputation, err)
	}

	pat := &Pattern{
		Intensity:  intensity,
		DK:         1 / width,
		Basis:      *basis,
		Camera:     *cam,
		Method:     d.Method,
		NParticles: len(d.wrapped),
	}
	d.pattern = pat
	slog.Debug("diffract: computed pattern", "method", d.Method, "size", pat.Size(), "dk", pat.DK, "tiles", len(tiles))
	return pat, nil
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package structure provides the particle snapshot model: ordered
// positions in a periodic box, with optional particle types.
package structure

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cmelab/gixstapose/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalid is returned for empty or malformed positions or box data.
var ErrInvalid = errors.New("invalid structure")

// DefaultType is the type name of particles without type information.
const DefaultType = "A"

// Snapshot is a single frame of particle positions in a periodic box.
type Snapshot struct {

	// Positions are the ordered particle coordinates.
	Positions []math32.Vector3

	// Box is the periodic simulation box.
	Box Box

	// Types are the particle type names, indexed by TypeIDs.
	Types []string

	// TypeIDs are the per-particle indexes into Types; empty means all
	// particles are of the first type.
	TypeIDs []int
}

// NewSnapshot returns a new snapshot of untyped particles,
// copying the given positions.
func NewSnapshot(positions []math32.Vector3, box Box) *Snapshot {
	return &Snapshot{Positions: slices.Clone(positions), Box: box}
}

// Len returns the number of particles.
func (sn *Snapshot) Len() int {
	return len(sn.Positions)
}

// Clone returns a deep copy of the snapshot.
func (sn *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Positions: slices.Clone(sn.Positions),
		Box:       sn.Box,
		Types:     slices.Clone(sn.Types),
		TypeIDs:   slices.Clone(sn.TypeIDs),
	}
}

// Validate returns an error wrapping [ErrInvalid] if the snapshot has no
// particles, a non-finite coordinate, an invalid box, or type ids that
// are out of range.
func (sn *Snapshot) Validate() error {
	if len(sn.Positions) == 0 {
		return fmt.Errorf("%w: no particle positions", ErrInvalid)
	}
	if err := sn.Box.Validate(); err != nil {
		return err
	}
	for i, p := range sn.Positions {
		if !p.IsFinite() {
			return fmt.Errorf("%w: particle %d has non-finite position %v", ErrInvalid, i, p)
		}
	}
	if len(sn.TypeIDs) == 0 {
		return nil
	}
	if len(sn.TypeIDs) != len(sn.Positions) {
		return fmt.Errorf("%w: %d type ids for %d particles", ErrInvalid, len(sn.TypeIDs), len(sn.Positions))
	}
	for i, id := range sn.TypeIDs {
		if id < 0 || id >= len(sn.Types) {
			return fmt.Errorf("%w: particle %d has type id %d, but there are %d types", ErrInvalid, i, id, len(sn.Types))
		}
	}
	return nil
}

// TypeName returns the type name of the given particle.
func (sn *Snapshot) TypeName(i int) string {
	if len(sn.TypeIDs) == 0 {
		if len(sn.Types) > 0 {
			return sn.Types[0]
		}
		return DefaultType
	}
	return sn.Types[sn.TypeIDs[i]]
}

// TypeCounts returns the number of particles of each type name,
// in order of the Types list.
func (sn *Snapshot) TypeCounts() (names []string, counts []int) {
	if len(sn.TypeIDs) == 0 {
		return []string{sn.TypeName(0)}, []int{len(sn.Positions)}
	}
	names = slices.Clone(sn.Types)
	counts = make([]int, len(names))
	for _, id := range sn.TypeIDs {
		counts[id]++
	}
	return
}

// Wrapped returns the positions in double precision, multiplied by
// given scale and wrapped into the equally scaled box.
func (sn *Snapshot) Wrapped(scale float64) []r3.Vec {
	box := sn.Box.Scaled(scale)
	wp := make([]r3.Vec, len(sn.Positions))
	for i, p := range sn.Positions {
		wp[i] = box.Wrap(r3.Vec{X: float64(p.X) * scale, Y: float64(p.Y) * scale, Z: float64(p.Z) * scale})
	}
	return wp
}

// NewCubicLattice returns a simple cubic lattice of n x n x n particles
// with lattice constant a, filling a cubic box of side n*a.
func NewCubicLattice(n int, a float32) *Snapshot {
	l := float32(n) * a
	sn := &Snapshot{Box: Cube(float64(l))}
	sn.Positions = make([]math32.Vector3, 0, n*n*n)
	for i := range n {
		for j := range n {
			for k := range n {
				sn.Positions = append(sn.Positions, math32.Vec3(
					float32(i)*a-l/2, float32(j)*a-l/2, float32(k)*a-l/2))
			}
		}
	}
	return sn
}

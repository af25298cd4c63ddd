// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"math"
	"testing"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/math32"
	"github.com/cmelab/gixstapose/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// testOptions returns unsmoothed, uncropped options on an n x n grid.
func testOptions(n int, method Methods) Options {
	o := DefaultOptions()
	o.GridSize = n
	o.Zoom = 1
	o.PeakWidth = 0
	o.Method = method
	return o
}

func newTest(t *testing.T, n int, method Methods) *Diffractometer {
	t.Helper()
	d, err := NewWithOptions(testOptions(n, method))
	require.NoError(t, err)
	return d
}

// lattice is a 4 x 4 x 4 simple cubic lattice with a = 2.5 in a box of 10.
func lattice() *structure.Snapshot {
	return structure.NewCubicLattice(4, 2.5)
}

func pair() ([]math32.Vector3, structure.Box) {
	return []math32.Vector3{math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0)}, structure.Cube(10)
}

var methods = []Methods{Projection, Direct}

func TestCubicLatticePeak(t *testing.T) {
	const a = 2.5
	for _, method := range methods {
		t.Run(method.String(), func(t *testing.T) {
			d := newTest(t, 64, method)
			require.NoError(t, d.LoadSnapshot(lattice()))
			pat, err := d.DiffractFromCamera(camera.New())
			require.NoError(t, err)
			assert.Same(t, pat, d.Pattern())
			assert.Equal(t, 64, pat.Size())
			assert.InDelta(t, 0.1, pat.DK, 1e-15)

			pk, ok := pat.PeakAt(1/a, 0)
			require.True(t, ok)
			assert.InDelta(t, 1/a, pk.Magnitude, 1e-12)
			assert.InDelta(t, a, pk.Spacing, 1e-12)
			assert.InDelta(t, 64, pk.Intensity, 1e-8)

			m := pat.Size()
			maxOff := 0.0
			for r := range m {
				for c := range m {
					if r == m/2 && c == m/2 {
						continue
					}
					v := pat.Intensity.Value(r, c)
					maxOff = max(maxOff, v)
					if k := math.Hypot(pat.K(c), pat.K(r)); k < 1/a-1e-9 {
						assert.Less(t, v, 1e-6*pk.Intensity, "pixel %d, %d at |k| = %g", r, c, k)
					}
				}
			}
			assert.InDelta(t, maxOff, pk.Intensity, 1e-8)

			nearest := 0
			for _, p := range pat.Peaks(1000) {
				if p.Intensity < 1 {
					continue
				}
				assert.GreaterOrEqual(t, p.Magnitude, 1/a-1e-9)
				if math.Abs(p.Magnitude-1/a) < 1e-9 {
					nearest++
				}
			}
			assert.Equal(t, 4, nearest)
		})
	}
}

func TestMethodsAgree(t *testing.T) {
	var pats [2]*Pattern
	for i, method := range methods {
		d := newTest(t, 64, method)
		require.NoError(t, d.LoadSnapshot(lattice()))
		pat, err := d.DiffractFromCamera(camera.New())
		require.NoError(t, err)
		pats[i] = pat
	}
	require.Equal(t, pats[0].Intensity.Len(), pats[1].Intensity.Len())
	for i, v := range pats[0].Intensity.Values {
		assert.InDelta(t, v, pats[1].Intensity.Values[i], 1e-8, "index %d", i)
	}
}

func TestDeterminism(t *testing.T) {
	d := New()
	require.NoError(t, d.LoadSnapshot(lattice()))
	cam := camera.New()
	cam.Orbit(20, 35)
	p1, err := d.DiffractFromCamera(cam)
	require.NoError(t, err)
	p2, err := d.DiffractFromCamera(cam)
	require.NoError(t, err)
	assert.NotSame(t, p1.Intensity, p2.Intensity)
	assert.True(t, p1.Intensity.Equal(p2.Intensity))
	assert.Equal(t, 128, p1.Size())
}

func TestReload(t *testing.T) {
	d := newTest(t, 100, Projection)
	require.NoError(t, d.LoadSnapshot(lattice()))
	_, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)

	pos, box := pair()
	require.NoError(t, d.Load(pos, box))
	assert.Equal(t, 2, d.Snapshot().Len())
	assert.Nil(t, d.Pattern())
	_, _, err = d.Plot()
	assert.ErrorIs(t, err, ErrNoPattern)

	got, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)

	fresh := newTest(t, 100, Projection)
	require.NoError(t, fresh.Load(pos, box))
	want, err := fresh.DiffractFromCamera(camera.New())
	require.NoError(t, err)
	assert.True(t, want.Intensity.Equal(got.Intensity))
	assert.Equal(t, 2, got.NParticles)
}

func TestLoadInvalid(t *testing.T) {
	d := newTest(t, 64, Projection)
	require.NoError(t, d.LoadSnapshot(lattice()))
	prev, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)

	nan := float32(math.NaN())
	tests := []struct {
		name string
		pos  []math32.Vector3
		box  structure.Box
	}{
		{"empty", nil, structure.Cube(10)},
		{"nan", []math32.Vector3{math32.Vec3(nan, 0, 0)}, structure.Cube(10)},
		{"zero box", []math32.Vector3{{}}, structure.Box{Lx: 0, Ly: 1, Lz: 1}},
		{"negative box", []math32.Vector3{{}}, structure.Box{Lx: 1, Ly: -1, Lz: 1}},
		{"infinite tilt", []math32.Vector3{{}}, structure.Box{Lx: 1, Ly: 1, Lz: 1, XY: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Load(tt.pos, tt.box)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, structure.ErrInvalid)
			assert.Equal(t, 64, d.Snapshot().Len())
			assert.Same(t, prev, d.Pattern())
		})
	}
	assert.ErrorIs(t, d.LoadSnapshot(nil), ErrInvalidInput)
}

func TestLoadCopies(t *testing.T) {
	d := newTest(t, 64, Projection)
	pos, box := pair()
	require.NoError(t, d.Load(pos, box))
	p1, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)
	pos[1] = math32.Vec3(3, 0, 0)
	p2, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)
	assert.True(t, p1.Intensity.Equal(p2.Intensity))
}

func TestInvalidCamera(t *testing.T) {
	d := newTest(t, 64, Projection)
	_, err := d.DiffractFromCamera(camera.New())
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, d.LoadSnapshot(lattice()))
	prev, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)

	same := camera.New()
	same.Position = same.LookAt
	_, err = d.DiffractFromCamera(same)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, camera.ErrDegenerate)

	parallel := camera.New()
	parallel.Up = math32.Vec3(0, 0, 1)
	_, err = d.DiffractFromCamera(parallel)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = d.DiffractFromCamera(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Same(t, prev, d.Pattern())
}

// rotated asserts that p2 is p1 rotated by 90 degrees:
// p2(kx, ky) = p1(-ky, kx).
func rotated(t *testing.T, p1, p2 *Pattern) {
	t.Helper()
	m := p1.Size()
	for j := 1; j < m; j++ {
		for i := 1; i < m; i++ {
			assert.InDelta(t, p1.Intensity.Value(i, m-j), p2.Intensity.Value(j, i), 1e-9, "pixel %d, %d", j, i)
		}
	}
}

func TestRoll90(t *testing.T) {
	cam1 := camera.New()
	cam2 := camera.New()
	cam2.Roll(90)
	b2, err := cam2.Basis()
	require.NoError(t, err)
	assert.InDelta(t, 1, b2.Right.Y, 1e-6)
	assert.InDelta(t, -1, b2.Up.X, 1e-6)

	t.Run("lattice", func(t *testing.T) {
		d := newTest(t, 64, Projection)
		require.NoError(t, d.LoadSnapshot(lattice()))
		p1, err := d.DiffractFromCamera(cam1)
		require.NoError(t, err)
		p2, err := d.DiffractFromCamera(cam2)
		require.NoError(t, err)
		rotated(t, p1, p2)
	})
	t.Run("pair", func(t *testing.T) {
		d := newTest(t, 100, Projection)
		require.NoError(t, d.Load(pair()))
		p1, err := d.DiffractFromCamera(cam1)
		require.NoError(t, err)
		p2, err := d.DiffractFromCamera(cam2)
		require.NoError(t, err)
		rotated(t, p1, p2)
		// the fringes now run along ky
		m := p2.Size()
		assert.InDelta(t, 0, p2.Intensity.Value(m/2+5, m/2), 1e-9)
		assert.InDelta(t, 2, p2.Intensity.Value(m/2, m/2+5), 1e-9)
	})
}

func TestPairFringes(t *testing.T) {
	for _, method := range methods {
		t.Run(method.String(), func(t *testing.T) {
			d := newTest(t, 100, method)
			require.NoError(t, d.Load(pair()))
			pat, err := d.DiffractFromCamera(camera.New())
			require.NoError(t, err)
			m := pat.Size()
			require.Equal(t, 100, m)
			assert.InDelta(t, 0.1, pat.DK, 1e-15)
			for r := range m {
				for c := range m {
					want := 1 + math.Cos(2*math.Pi*pat.K(c))
					assert.InDelta(t, want, pat.Intensity.Value(r, c), 1e-9, "pixel %d, %d", r, c)
				}
			}
			for r := 1; r < m; r++ {
				for c := 1; c < m; c++ {
					assert.InDelta(t, pat.Intensity.Value(r, c), pat.Intensity.Value(m-r, m-c), 1e-9)
				}
			}
			// period 1 along kx
			v0, _ := pat.PeakAt(0, 0)
			v1, _ := pat.PeakAt(1, 0)
			vh, _ := pat.PeakAt(0.5, 0.3)
			assert.InDelta(t, 2, v0.Intensity, 1e-9)
			assert.InDelta(t, 2, v1.Intensity, 1e-9)
			assert.InDelta(t, 0, vh.Intensity, 1e-9)
		})
	}
}

func TestLengthScale(t *testing.T) {
	d := newTest(t, 64, Projection)
	require.NoError(t, d.LoadSnapshot(lattice()))
	d.LengthScale = 2
	pat, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)
	assert.InDelta(t, 0.05, pat.DK, 1e-15)
	pk, ok := pat.PeakAt(0.2, 0)
	require.True(t, ok)
	assert.InDelta(t, 5, pk.Spacing, 1e-12)
	assert.InDelta(t, 64, pk.Intensity, 1e-8)
}

func TestSmoothing(t *testing.T) {
	o := testOptions(64, Projection)
	o.PeakWidth = 1
	d, err := NewWithOptions(o)
	require.NoError(t, err)
	require.NoError(t, d.LoadSnapshot(lattice()))
	pat, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)
	pk, _ := pat.PeakAt(0.4, 0)
	assert.Less(t, pk.Intensity, 64.0)
	next, _ := pat.PeakAt(0.5, 0)
	assert.Greater(t, next.Intensity, 1e-3)
	assert.Greater(t, pk.Intensity, next.Intensity)
}

func TestTiltedView(t *testing.T) {
	d := newTest(t, 64, Projection)
	require.NoError(t, d.LoadSnapshot(lattice()))
	cam := camera.New()
	cam.Position = math32.Vec3(10, 0, 0)
	pat, err := d.DiffractFromCamera(cam)
	require.NoError(t, err)
	// looking down -x, kx runs along -z and ky along y
	pk, _ := pat.PeakAt(0.4, 0)
	assert.InDelta(t, 0, pk.K.X, 1e-12)
	assert.InDelta(t, -0.4, pk.K.Z, 1e-6)
	assert.InDelta(t, 64, pk.Intensity, 1e-8)
}

// slab is a 4 x 8 x 4 simple cubic lattice with a = 2.5 in a
// 10 x 20 x 10 box.
func slab() ([]math32.Vector3, structure.Box) {
	var pos []math32.Vector3
	for i := range 4 {
		for j := range 8 {
			for k := range 4 {
				pos = append(pos, math32.Vec3(float32(i)*2.5-5, float32(j)*2.5-10, float32(k)*2.5-5))
			}
		}
	}
	return pos, structure.Box{Lx: 10, Ly: 20, Lz: 10}
}

func TestNonCubicBox(t *testing.T) {
	for _, method := range methods {
		t.Run(method.String(), func(t *testing.T) {
			d := newTest(t, 64, method)
			require.NoError(t, d.Load(slab()))
			pat, err := d.DiffractFromCamera(camera.New())
			require.NoError(t, err)
			assert.InDelta(t, 0.05, pat.DK, 1e-15)
			assert.Equal(t, 128, pat.NParticles)

			// d = 20 is not a period of the x axis
			pk, ok := pat.PeakAt(0.05, 0)
			require.True(t, ok)
			assert.InDelta(t, 0, pk.Intensity, 1e-8)
			pk, _ = pat.PeakAt(0.1, 0)
			assert.InDelta(t, 0, pk.Intensity, 1e-8)
			pk, _ = pat.PeakAt(0, 0.05)
			assert.InDelta(t, 0, pk.Intensity, 1e-8)

			pk, _ = pat.PeakAt(0.4, 0)
			assert.InDelta(t, 128, pk.Intensity, 1e-8)
			pk, _ = pat.PeakAt(0, 0.4)
			assert.InDelta(t, 128, pk.Intensity, 1e-8)
		})
	}
}

func TestWindow(t *testing.T) {
	down := camera.New()
	b, err := down.Basis()
	require.NoError(t, err)

	width, tiles := window(structure.Cube(10), b)
	assert.Equal(t, 10.0, width)
	assert.Equal(t, []r3.Vec{{}}, tiles)

	width, tiles = window(structure.Box{Lx: 10, Ly: 20, Lz: 10}, b)
	assert.Equal(t, 20.0, width)
	assert.Equal(t, []r3.Vec{{}, {X: 10}}, tiles)

	// the depth length sets the minimum width
	width, tiles = window(structure.Box{Lx: 10, Ly: 10, Lz: 20}, b)
	assert.Equal(t, 20.0, width)
	assert.Len(t, tiles, 4)

	width, tiles = window(structure.Box{Lx: 10, Ly: 15, Lz: 10}, b)
	assert.InDelta(t, 30, width, 1e-12)
	assert.Len(t, tiles, 6)

	// incommensurate periods and oblique views keep the largest length
	width, tiles = window(structure.Box{Lx: 10, Ly: 10 * math.Sqrt2, Lz: 10}, b)
	assert.Equal(t, 10*math.Sqrt2, width)
	assert.Len(t, tiles, 1)

	oblique := camera.New()
	oblique.Orbit(20, 35)
	ob, err := oblique.Basis()
	require.NoError(t, err)
	width, tiles = window(structure.Box{Lx: 10, Ly: 20, Lz: 10}, ob)
	assert.Equal(t, 20.0, width)
	assert.Len(t, tiles, 1)
}

func TestComputationError(t *testing.T) {
	for _, method := range methods {
		t.Run(method.String(), func(t *testing.T) {
			d := newTest(t, 64, method)
			require.NoError(t, d.LoadSnapshot(lattice()))
			prev, err := d.DiffractFromCamera(camera.New())
			require.NoError(t, err)

			d.LengthScale = 1e300
			require.NoError(t, d.Load([]math32.Vector3{math32.Vec3(1, 2, 3)}, structure.Cube(1e10)))
			_, err = d.DiffractFromCamera(camera.New())
			assert.ErrorIs(t, err, ErrComputation)
			assert.Nil(t, d.Pattern())

			d.LengthScale = 1
			require.NoError(t, d.LoadSnapshot(lattice()))
			got, err := d.DiffractFromCamera(camera.New())
			require.NoError(t, err)
			assert.True(t, prev.Intensity.Equal(got.Intensity))
		})
	}
}

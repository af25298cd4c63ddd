// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/math32"
	"github.com/cmelab/gixstapose/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var white = color.RGBA{255, 255, 255, 255}

func twoTypes() *structure.Snapshot {
	sn := structure.NewSnapshot([]math32.Vector3{
		math32.Vec3(-1, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(1, 1, 1),
	}, structure.Cube(4))
	sn.Types = []string{"A", "B"}
	sn.TypeIDs = []int{0, 1, 1}
	return sn
}

func TestOpen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "lattice.toml")
	require.NoError(t, structure.NewCubicLattice(2, 1).Save(fn))

	sc, info, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, fn, sc.Path())
	assert.Equal(t, 8, sc.Len())
	assert.Equal(t, Info{
		Path:       fn,
		NParticles: 8,
		Types:      []TypeCount{{Name: structure.DefaultType, Count: 8}},
		Box:        structure.Cube(2),
		Volume:     8,
		Density:    1,
	}, info)

	again, _, err := Open(fn)
	require.NoError(t, err)
	assert.NotSame(t, sc, again)

	_, _, err = Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInfoText(t *testing.T) {
	_, info, err := New(structure.NewCubicLattice(10, 1))
	require.NoError(t, err)
	assert.Contains(t, info.String(), "Particles: 1,000\n")
	assert.Contains(t, info.Text(language.German), "Particles: 1.000\n")
	assert.Contains(t, info.String(), "Box:       10 x 10 x 10\n")
	assert.NotContains(t, info.String(), "File:")

	_, info, err = New(twoTypes())
	require.NoError(t, err)
	assert.Equal(t, []TypeCount{{"A", 1}, {"B", 2}}, info.Types)
	assert.Contains(t, info.String(), "  B        2\n")
}

func TestImmutable(t *testing.T) {
	sn := twoTypes()
	sc, _, err := New(sn)
	require.NoError(t, err)
	sn.Positions[0] = math32.Vec3(0, 0, 0)

	got := sc.Snapshot()
	assert.Equal(t, math32.Vec3(-1, 0, 0), got.Positions[0])
	got.Positions[1] = math32.Vec3(0, 0, 0)
	assert.Equal(t, math32.Vec3(1, 0, 0), sc.Snapshot().Positions[1])

	_, _, err = New(&structure.Snapshot{Box: structure.Cube(1)})
	assert.ErrorIs(t, err, structure.ErrInvalid)
}

func TestPalette(t *testing.T) {
	pal := Palette(3)
	require.Len(t, pal, 3)
	assert.NotEqual(t, pal[0], pal[1])
	assert.NotEqual(t, pal[1], pal[2])
	for _, c := range pal {
		assert.True(t, c.IsValid())
	}
	assert.Empty(t, Palette(0))
}

func renderOpts() RenderOptions {
	ro := DefaultRenderOptions()
	ro.Width, ro.Height = 100, 100
	ro.Supersample = 1
	ro.Outline = false
	return ro
}

func TestRender(t *testing.T) {
	sc, _, err := New(twoTypes())
	require.NoError(t, err)
	cam := sc.Camera()

	img, err := sc.Render(cam, renderOpts())
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
	assert.Equal(t, white, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(50, 50))

	// one unit is 100 / (1.1 * sqrt(48)) = 13.1 pixels
	left, right := img.RGBAAt(37, 50), img.RGBAAt(63, 50)
	assert.NotEqual(t, white, left)
	assert.NotEqual(t, white, right)
	assert.NotEqual(t, left, right)

	ro := renderOpts()
	ro.Outline = true
	ro.Supersample = 3
	ro.Blur = 1.5
	ro.Background = "#000000"
	img, err = sc.Render(cam, ro)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
}

func TestRenderErrors(t *testing.T) {
	sc, _, err := New(twoTypes())
	require.NoError(t, err)

	cam := camera.New()
	cam.Position = cam.LookAt
	_, err = sc.Render(cam, renderOpts())
	assert.ErrorIs(t, err, camera.ErrDegenerate)

	cam = camera.New()
	cam.Height = 0
	_, err = sc.Render(cam, renderOpts())
	assert.ErrorIs(t, err, camera.ErrDegenerate)

	ro := renderOpts()
	ro.Background = "white"
	_, err = sc.Render(camera.New(), ro)
	assert.Error(t, err)

	ro = renderOpts()
	ro.Width = 0
	_, err = sc.Render(camera.New(), ro)
	assert.Error(t, err)
}

func TestDefaultRenderOptions(t *testing.T) {
	ro := DefaultRenderOptions()
	assert.Equal(t, RenderOptions{
		Width: 600, Height: 600, Radius: 0.5, Supersample: 2,
		Outline: true, Background: "#ffffff",
	}, ro)
	assert.NoError(t, ro.Validate())
}

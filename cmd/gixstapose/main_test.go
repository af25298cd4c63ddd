// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmelab/gixstapose/base/iox/imagex"
	"github.com/cmelab/gixstapose/diffract"
	"github.com/cmelab/gixstapose/math32"
	"github.com/cmelab/gixstapose/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func run(t *testing.T, args ...string) (*app, string) {
	t.Helper()
	var buf bytes.Buffer
	a := newApp(&buf)
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	require.NoError(t, cmd.Execute(), buf.String())
	return a, buf.String()
}

// lattice writes a 4x4x4 simple cubic lattice with spacing 2.5.
func lattice(t *testing.T) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "lattice.toml")
	run(t, "lattice", "-n", "4", "--spacing", "2.5", fn)
	return fn
}

func TestInfo(t *testing.T) {
	fn := lattice(t)
	_, out := run(t, "info", "--lang", "en", fn)
	assert.Contains(t, out, "Particles: 64\n")
	assert.Contains(t, out, "Box:       10 x 10 x 10\n")

	_, out = run(t, "info", "--yaml", fn)
	assert.Contains(t, out, "particles: 64\n")
	assert.Contains(t, out, "lx: 10\n")
}

func TestRender(t *testing.T) {
	fn := lattice(t)
	png := filepath.Join(t.TempDir(), "render.png")
	_, out := run(t, "render", "--width", "80", "--height", "60", "--orbit-x", "30", "-o", png, fn)
	assert.Equal(t, png+"\n", out)
	img, err := imagex.Open(png)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(80, 60), img.Bounds().Size())
}

func TestDiffract(t *testing.T) {
	fn := lattice(t)
	png := filepath.Join(t.TempDir(), "plot.png")
	_, out := run(t, "diffract", "--grid-size", "64", "--zoom", "1", "--peak-width", "0",
		"--peaks", "4", "--plot-width", "200", "--plot-height", "200", "--label", "-o", png, fn)
	assert.Contains(t, out, " 1  ")
	assert.Contains(t, out, " 4  ")
	assert.NotContains(t, out, " 5  ")
	assert.Contains(t, out, "d = 2.5 ")
	img, err := imagex.Open(png)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(200, 200), img.Bounds().Size())
}

func TestPick(t *testing.T) {
	fn := lattice(t)
	a := newApp(&bytes.Buffer{})
	a.cfg.Diffract.GridSize = 64
	a.cfg.Diffract.Zoom = 1
	a.cfg.Diffract.PeakWidth = 0
	sc, _, err := scene.Open(fn)
	require.NoError(t, err)
	_, pt, err := a.diffract(sc)
	require.NoError(t, err)
	p, ok := pt.Axes().DataToPixel(0.4, 0)
	require.True(t, ok)

	png := filepath.Join(t.TempDir(), "pick.png")
	_, out := run(t, "pick", "--grid-size", "64", "--zoom", "1", "--peak-width", "0", "-o", png,
		fn, fmt.Sprint(p.X), fmt.Sprint(p.Y), "0", "0")
	assert.Contains(t, out, "|k| = 0.4 d = 2.5 ")
	_, err = os.Stat(png)
	assert.NoError(t, err)
}

func TestInfoLanguage(t *testing.T) {
	tag, err := infoLanguage("de")
	require.NoError(t, err)
	assert.Equal(t, language.German, tag)
	_, err = infoLanguage("not a tag!")
	assert.Error(t, err)
	_, err = infoLanguage("")
	assert.NoError(t, err)
}

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints([]string{"1", "2", "30", "40"})
	require.NoError(t, err)
	assert.Equal(t, []image.Point{{1, 2}, {30, 40}}, pts)
	_, err = parsePoints([]string{"1", "x"})
	assert.Error(t, err)
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
[diffract]
zoom = 2
peak_width = 3
method = "direct"

[plot]
peaks = 5
`), 0o644))
	t.Setenv("GIXS_DIFFRACT_PEAK_WIDTH", "2")
	t.Setenv("GIXS_PLOT_PEAKS", "7")

	a, _ := run(t, "--config", cfg, "--zoom", "1", "--peaks", "0", "--position", "0,0,5",
		"lattice", filepath.Join(dir, "l.toml"))
	c := a.cfg
	assert.Equal(t, 1, c.Diffract.Zoom)
	assert.Equal(t, 2.0, c.Diffract.PeakWidth)
	assert.Equal(t, diffract.Direct, c.Diffract.Method)
	assert.Equal(t, 0, c.Plot.Peaks)
	assert.Equal(t, 512, c.Diffract.GridSize)
	assert.Equal(t, math32.Vec3(0, 0, 5), c.Camera.Position)
	assert.Equal(t, math32.Vec3(0, 1, 0), c.Camera.Up)
}

func TestConfigCameraWithoutUp(t *testing.T) {
	fn := lattice(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cam.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
[camera.position]
X = 0
Y = 0
Z = 5
`), 0o644))
	a, out := run(t, "--config", cfg, "diffract", "--grid-size", "64", "--zoom", "1", "--peak-width", "0",
		"--peaks", "1", "-o", filepath.Join(dir, "plot.png"), fn)
	assert.Equal(t, math32.Vec3(0, 1, 0), a.cfg.Camera.Up)
	assert.Contains(t, out, "d = 2.5 ")
}

func TestMethodFlag(t *testing.T) {
	a, _ := run(t, "--method", "direct", "lattice", filepath.Join(t.TempDir(), "l.toml"))
	assert.Equal(t, diffract.Direct, a.cfg.Diffract.Method)

	var buf bytes.Buffer
	cmd := newRootCmd(&buf)
	cmd.SetArgs([]string{"--method", "fast", "lattice", "x.toml"})
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	assert.Error(t, cmd.Execute())
}

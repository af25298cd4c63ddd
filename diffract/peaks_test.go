// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"image"
	"math"
	"testing"

	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func latticePlot(t *testing.T) (*Diffractometer, *Pattern) {
	t.Helper()
	d := newTest(t, 64, Projection)
	require.NoError(t, d.LoadSnapshot(lattice()))
	pat, err := d.DiffractFromCamera(camera.New())
	require.NoError(t, err)
	return d, pat
}

func TestPlot(t *testing.T) {
	d := New()
	_, _, err := d.Plot()
	assert.ErrorIs(t, err, ErrNoPattern)

	d, pat := latticePlot(t)
	pt, ax, err := d.Plot()
	require.NoError(t, err)
	require.NotNil(t, pt.Pixels)
	assert.Same(t, pt, ax.Plot())
	assert.Equal(t, pat.Extent(), pt.X.Range)
	assert.Equal(t, pat.Extent(), pt.Y.Range)
	assert.InDelta(t, -3.25, pt.X.Range.Min, 1e-12)
	assert.InDelta(t, 3.15, pt.X.Range.Max, 1e-12)
	assert.Same(t, pat.Intensity, pt.Heatmap.Data)
	assert.Contains(t, pt.Title, "64 particles")
}

func TestPeakLabeller(t *testing.T) {
	d, _ := latticePlot(t)
	_, ax, err := d.Plot()
	require.NoError(t, err)
	pl, err := d.PeakLabeller(ax)
	require.NoError(t, err)

	var got []Peak
	pl.OnPeak(func(pk Peak) { got = append(got, pk) })

	p, ok := ax.DataToPixel(0.4, 0)
	require.True(t, ok)
	require.True(t, ax.Pick(p))
	require.Len(t, got, 1)
	pk := got[0]
	assert.InDelta(t, 0.4, pk.Magnitude, 1e-12)
	assert.InDelta(t, 2.5, pk.Spacing, 1e-12)
	assert.InDelta(t, 64, pk.Intensity, 1e-8)
	assert.Equal(t, []Peak{pk}, pl.Peaks())

	anns := ax.Plot().Annotations()
	require.Len(t, anns, 1)
	assert.Equal(t, "d = 2.5", anns[0].Text)
	assert.Equal(t, pk.Kx, anns[0].X)
}

func TestPeakLabellerOrigin(t *testing.T) {
	d, _ := latticePlot(t)
	_, ax, err := d.Plot()
	require.NoError(t, err)
	pl, err := d.PeakLabeller(ax)
	require.NoError(t, err)
	pl.Annotate = false

	p, _ := ax.DataToPixel(0, 0)
	ax.Pick(p)
	require.Len(t, pl.Peaks(), 1)
	pk := pl.Peaks()[0]
	assert.Equal(t, 0.0, pk.Magnitude)
	assert.True(t, math.IsInf(pk.Spacing, 1))
	assert.Equal(t, "k = 0", pk.Label())
	assert.Empty(t, ax.Plot().Annotations())
}

func TestPeakLabellerSnap(t *testing.T) {
	d, _ := latticePlot(t)
	_, ax, err := d.Plot()
	require.NoError(t, err)
	pl, err := d.PeakLabeller(ax)
	require.NoError(t, err)
	pl.Snap = 2

	p, _ := ax.DataToPixel(0.5, 0.1)
	ax.Pick(p)
	require.Len(t, pl.Peaks(), 1)
	pk := pl.Peaks()[0]
	assert.InDelta(t, 0.4, pk.Kx, 1e-12)
	assert.InDelta(t, 0, pk.Ky, 1e-12)
}

func TestPeakLabellerDetach(t *testing.T) {
	d, _ := latticePlot(t)
	_, ax, err := d.Plot()
	require.NoError(t, err)
	pl, err := d.PeakLabeller(ax)
	require.NoError(t, err)

	var order []string
	first := pl.OnPeak(func(Peak) { order = append(order, "first") })
	pl.OnPeak(func(Peak) { order = append(order, "second") })
	assert.Equal(t, 2, pl.NumHandlers())

	p, _ := ax.DataToPixel(0.4, 0.4)
	ax.Pick(p)
	assert.Equal(t, []string{"second", "first"}, order)

	order = nil
	first()
	ax.Pick(p)
	assert.Equal(t, []string{"second"}, order)

	order = nil
	ax.Close()
	assert.Equal(t, 0, pl.NumHandlers())
	assert.Equal(t, 0, ax.NumListeners(events.Pick))
	assert.False(t, ax.Pick(p))
	assert.Empty(t, order)
	assert.Len(t, pl.Peaks(), 2)
}

func TestPeakLabellerNoPattern(t *testing.T) {
	d, _ := latticePlot(t)
	_, ax, err := d.Plot()
	require.NoError(t, err)
	_, err = New().PeakLabeller(ax)
	assert.ErrorIs(t, err, ErrNoPattern)

	pl := NewPeakLabeller(ax, d.Pattern())
	pl.Detach()
	assert.Equal(t, 0, ax.NumListeners(events.Pick))
	assert.False(t, ax.IsClosed())
	ax.Pick(image.Pt(-1, -1))
	assert.Empty(t, pl.Peaks())
}

func TestPatternPeaks(t *testing.T) {
	_, pat := latticePlot(t)
	pks := pat.Peaks(8)
	require.Len(t, pks, 8)
	for _, pk := range pks {
		assert.InDelta(t, 64, pk.Intensity, 1e-8)
		k := pat.KVector(pk.Kx, pk.Ky)
		assert.InDelta(t, pk.Magnitude, r3.Norm(k), 1e-12)
	}
	i, ok := pat.Index(0.4)
	assert.True(t, ok)
	assert.Equal(t, 36, i)
	_, ok = pat.Index(10)
	assert.False(t, ok)
	_, ok = pat.PeakAt(10, 0)
	assert.False(t, ok)
}

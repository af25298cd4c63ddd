// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image"
	"image/color"

	"github.com/cmelab/gixstapose/math32/minmax"
	"github.com/cmelab/gixstapose/tensor"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Heatmap draws a 2D grid of values as log-scaled colors.
// Row 0 of Data is drawn at the bottom of the plot.
type Heatmap struct {

	// Data is the 2D grid of values, indexed [row, column].
	Data *tensor.Float64

	// Clip gives the lower and upper color limits as fractions
	// of the maximum value. Values are mapped logarithmically
	// between them.
	Clip minmax.F64

	// Colormap maps a normalized 0-1 value to a color.
	Colormap func(v float64) color.RGBA
}

// NewHeatmap returns a new heatmap for the given data, with the
// color limits set to bot and top fractions of the maximum.
func NewHeatmap(data *tensor.Float64, bot, top float64) *Heatmap {
	return &Heatmap{Data: data, Clip: minmax.F64{Min: bot, Max: top}, Colormap: AFMHot}
}

// Limits returns the absolute color limits for the data.
func (hm *Heatmap) Limits() minmax.F64 {
	mx, _ := hm.Data.Max()
	return minmax.F64{Min: hm.Clip.Min * mx, Max: hm.Clip.Max * mx}
}

// Image returns the heatmap rendered with one pixel per grid cell.
func (hm *Heatmap) Image() *image.RGBA {
	rows, cols := hm.Data.DimSize(0), hm.Data.DimSize(1)
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	lim := hm.Limits()
	cmap := hm.Colormap
	if cmap == nil {
		cmap = AFMHot
	}
	for r := range rows {
		y := rows - 1 - r
		for c := range cols {
			img.SetRGBA(c, y, cmap(lim.LogNormValue(hm.Data.Value(r, c))))
		}
	}
	return img
}

// afmhotStops are the piecewise linear stops of [AFMHot].
var afmhotStops = []colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 0.5, G: 0, B: 0},
	{R: 1, G: 0.5, B: 0},
	{R: 1, G: 1, B: 0.5},
	{R: 1, G: 1, B: 1},
}

// AFMHot is a black-red-yellow-white colormap.
func AFMHot(v float64) color.RGBA {
	v = min(max(v, 0), 1)
	n := len(afmhotStops) - 1
	seg := min(int(v*float64(n)), n-1)
	t := v*float64(n) - float64(seg)
	c := afmhotStops[seg].BlendRgb(afmhotStops[seg+1], t).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

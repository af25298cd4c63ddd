// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"fmt"

	"github.com/cmelab/gixstapose/plot"
)

// Plot renders the most recently computed pattern as a log-scaled
// heatmap with reciprocal axes, and returns the figure and its axes
// for further annotation. It returns [ErrNoPattern] if no pattern
// has been computed since the last load.
func (d *Diffractometer) Plot() (*plot.Plot, *plot.Axes, error) {
	if d.pattern == nil {
		return nil, nil, ErrNoPattern
	}
	pt := d.pattern.NewPlot(d.Bot, d.Top)
	pt.Draw()
	return pt, pt.Axes(), nil
}

// NewPlot returns a new plot of the pattern, with colors clipped
// logarithmically to the bot and top fractions of the maximum.
// The plot is not yet drawn.
func (pt *Pattern) NewPlot(bot, top float64) *plot.Plot {
	p := plot.New()
	p.Title = fmt.Sprintf("Diffraction (%s, %d particles)", pt.Method, pt.NParticles)
	ext := pt.Extent()
	p.X.Range = ext
	p.Y.Range = ext
	p.X.Label = "kx (1/length)"
	p.Y.Label = "ky (1/length)"
	p.Heatmap = plot.NewHeatmap(pt.Intensity, bot, top)
	return p
}

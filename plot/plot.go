// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot draws 2D heatmap figures with labeled axes
// into raster images, and dispatches pick events on them.
package plot

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/cmelab/gixstapose/base/iox/imagex"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Plot is a figure with a title, two axes and an optional heatmap.
type Plot struct {

	// Title is drawn centered above the data area.
	Title string

	// X and Y are the horizontal and vertical axes.
	X, Y Axis

	// Size is the size of the rendered image in pixels.
	Size image.Point

	// Background is the color of the area outside the data.
	Background color.Color

	// Foreground is the color of text and axis lines.
	Foreground color.Color

	// Heatmap is drawn to fill the data area.
	Heatmap *Heatmap

	// Pixels is the most recently rendered image.
	Pixels *image.RGBA

	annotations []Annotation

	// dataRect is the pixel region covered by the data.
	dataRect image.Rectangle

	axes *Axes
}

// Annotation is a text label attached to a data point.
type Annotation struct {
	X, Y float64
	Text string
}

// New returns a new plot with default values.
func New() *Plot {
	pt := &Plot{}
	pt.Defaults()
	return pt
}

// Defaults sets the default values for the plot.
func (pt *Plot) Defaults() {
	pt.X.Defaults()
	pt.Y.Defaults()
	pt.Size = image.Pt(640, 640)
	pt.Background = color.White
	pt.Foreground = color.Black
}

// Annotations returns the annotations added to the plot.
func (pt *Plot) Annotations() []Annotation {
	return pt.annotations
}

// DataRect returns the pixel region covered by the data,
// as of the most recent [Plot.Draw].
func (pt *Plot) DataRect() image.Rectangle {
	return pt.dataRect
}

// layout computes the data rectangle for the current size.
func (pt *Plot) layout(face font.Face) {
	m := face.Metrics()
	lh := m.Height.Ceil()
	left := textWidth(face, "-0.000") + 2*lh
	bottom := 3 * lh
	top := lh
	if pt.Title != "" {
		top += 2 * lh
	}
	right := lh
	w := pt.Size.X - left - right
	h := pt.Size.Y - top - bottom
	side := max(min(w, h), 1)
	pt.dataRect = image.Rect(left, top, left+side, top+side)
}

// Draw renders the plot into [Plot.Pixels] and returns it.
func (pt *Plot) Draw() *image.RGBA {
	face := NewFace(FontSize)
	defer face.Close()

	pt.X.SanitizeRange()
	pt.Y.SanitizeRange()
	pt.layout(face)
	img := image.NewRGBA(image.Rectangle{Max: pt.Size})
	draw.Draw(img, img.Bounds(), image.NewUniform(pt.Background), image.Point{}, draw.Src)

	dr := pt.dataRect
	if pt.Heatmap != nil && pt.Heatmap.Data != nil {
		src := pt.Heatmap.Image()
		xdraw.NearestNeighbor.Scale(img, dr, src, src.Bounds(), draw.Src, nil)
	}
	pt.drawFrame(img, face)
	pt.drawAnnotations(img, face)
	pt.Pixels = img
	return img
}

// drawFrame draws the border, ticks, labels and title.
func (pt *Plot) drawFrame(img *image.RGBA, face font.Face) {
	dr := pt.dataRect
	fg := pt.Foreground
	lh := face.Metrics().Height.Ceil()
	asc := face.Metrics().Ascent.Ceil()
	tickLen := lh / 3

	hline(img, dr.Min.X-1, dr.Max.X, dr.Min.Y-1, fg)
	hline(img, dr.Min.X-1, dr.Max.X, dr.Max.Y, fg)
	vline(img, dr.Min.X-1, dr.Min.Y-1, dr.Max.Y, fg)
	vline(img, dr.Max.X, dr.Min.Y-1, dr.Max.Y, fg)

	for _, tk := range pt.X.Ticks() {
		x := dr.Min.X + int(math.Round(pt.X.Norm(tk.Value)*float64(dr.Dx())))
		vline(img, x, dr.Max.Y, dr.Max.Y+tickLen, fg)
		drawText(img, face, tk.Label, image.Pt(x, dr.Max.Y+tickLen+asc), fg, AlignCenter)
	}
	drawText(img, face, pt.X.Label, image.Pt(dr.Min.X+dr.Dx()/2, dr.Max.Y+tickLen+asc+lh), fg, AlignCenter)

	for _, tk := range pt.Y.Ticks() {
		y := dr.Max.Y - int(math.Round(pt.Y.Norm(tk.Value)*float64(dr.Dy())))
		hline(img, dr.Min.X-1-tickLen, dr.Min.X-1, y, fg)
		drawText(img, face, tk.Label, image.Pt(dr.Min.X-2*tickLen, y+asc/2), fg, AlignEnd)
	}
	drawText(img, face, pt.Y.Label, image.Pt(tickLen, dr.Min.Y-tickLen), fg, AlignStart)

	if pt.Title != "" {
		drawText(img, face, pt.Title, image.Pt(pt.Size.X/2, lh+asc/2), fg, AlignCenter)
	}
}

// drawAnnotations draws a marker and text for each annotation
// that falls within the data area.
func (pt *Plot) drawAnnotations(img *image.RGBA, face font.Face) {
	const mark = 4
	clr := color.RGBA{0, 190, 255, 255}
	for _, an := range pt.annotations {
		p, ok := pt.dataToPixel(an.X, an.Y)
		if !ok {
			continue
		}
		hline(img, p.X-mark, p.X+mark+1, p.Y, clr)
		vline(img, p.X, p.Y-mark, p.Y+mark+1, clr)
		drawText(img, face, an.Text, image.Pt(p.X+mark+2, p.Y-mark-2), clr, AlignStart)
	}
}

// dataToPixel returns the pixel containing the data point (x, y),
// and whether it lies within the data area.
func (pt *Plot) dataToPixel(x, y float64) (image.Point, bool) {
	dr := pt.dataRect
	px := dr.Min.X + int(math.Floor(pt.X.Norm(x)*float64(dr.Dx())))
	py := dr.Max.Y - 1 - int(math.Floor(pt.Y.Norm(y)*float64(dr.Dy())))
	p := image.Pt(px, py)
	return p, p.In(dr)
}

// pixelToData returns the data coordinates of the center of pixel p,
// and whether it lies within the data area.
func (pt *Plot) pixelToData(p image.Point) (x, y float64, ok bool) {
	dr := pt.dataRect
	if dr.Empty() {
		return 0, 0, false
	}
	fx := (float64(p.X-dr.Min.X) + 0.5) / float64(dr.Dx())
	fy := (float64(dr.Max.Y-1-p.Y) + 0.5) / float64(dr.Dy())
	return pt.X.Range.ProjValue(fx), pt.Y.Range.ProjValue(fy), p.In(dr)
}

// SaveImage saves the most recently drawn image to the given file,
// drawing it first if needed.
func (pt *Plot) SaveImage(filename string) error {
	if pt.Pixels == nil {
		pt.Draw()
	}
	return imagex.Save(pt.Pixels, filename)
}

func hline(img *image.RGBA, x0, x1, y int, clr color.Color) {
	for x := x0; x < x1; x++ {
		img.Set(x, y, clr)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, clr color.Color) {
	for y := y0; y < y1; y++ {
		img.Set(x, y, clr)
	}
}

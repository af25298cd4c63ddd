// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	"github.com/cmelab/gixstapose/base/reflectx"
	"github.com/cmelab/gixstapose/camera"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// RenderOptions are the parameters for [Scene.Render].
type RenderOptions struct {

	// Width and Height are the image size in pixels.
	Width  int `toml:"width" yaml:"width" env:"WIDTH" default:"600"`
	Height int `toml:"height" yaml:"height" env:"HEIGHT" default:"600"`

	// Radius is the particle radius in length units.
	Radius float64 `toml:"radius" yaml:"radius" env:"RADIUS" default:"0.5"`

	// Supersample is the number of rendered pixels per output pixel
	// along each side, for antialiasing.
	Supersample int `toml:"supersample" yaml:"supersample" env:"SUPERSAMPLE" default:"2"`

	// Blur is the radius in pixels of a gaussian blur applied to the
	// final image. Zero disables it.
	Blur float64 `toml:"blur" yaml:"blur" env:"BLUR" default:"0"`

	// Outline is whether to draw the box edges.
	Outline bool `toml:"outline" yaml:"outline" env:"OUTLINE" default:"true"`

	// Background is the background color as a hex string.
	Background string `toml:"background" yaml:"background" env:"BACKGROUND" default:"#ffffff"`
}

// Defaults sets the options to their default values.
func (ro *RenderOptions) Defaults() {
	if err := reflectx.SetFromDefaultTags(ro); err != nil {
		panic(err)
	}
}

// DefaultRenderOptions returns the default render options.
func DefaultRenderOptions() RenderOptions {
	var ro RenderOptions
	ro.Defaults()
	return ro
}

// Validate returns an error if any option is out of range.
func (ro *RenderOptions) Validate() error {
	switch {
	case ro.Width < 1 || ro.Height < 1:
		return fmt.Errorf("scene: image size must be positive, got %dx%d", ro.Width, ro.Height)
	case ro.Supersample < 1:
		return fmt.Errorf("scene: supersample must be at least 1, got %d", ro.Supersample)
	case !(ro.Radius > 0):
		return fmt.Errorf("scene: radius must be positive, got %g", ro.Radius)
	case ro.Blur < 0:
		return fmt.Errorf("scene: blur must be >= 0, got %g", ro.Blur)
	}
	_, err := colorful.Hex(ro.Background)
	return err
}

// projected is a particle in image coordinates.
type projected struct {
	x, y, depth float64
	typ         int
}

// Render draws the scene as seen by the given orthographic camera,
// as shaded disks drawn from back to front. The camera Height is the
// visible height in length units, centered on the LookAt target.
func (sc *Scene) Render(cam *camera.Camera, opts RenderOptions) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	basis, err := cam.Basis()
	if err != nil {
		return nil, err
	}
	if !(cam.Height > 0) {
		return nil, fmt.Errorf("%w: camera height must be positive, got %g", camera.ErrDegenerate, cam.Height)
	}
	bg, _ := colorful.Hex(opts.Background)

	ss := opts.Supersample
	w, h := opts.Width*ss, opts.Height*ss
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(bg)), image.Point{}, draw.Src)

	u0, v0 := basis.Project(camera.Vec64(cam.LookAt))
	scale := float64(h) / float64(cam.Height)
	toImage := func(p r3.Vec) (x, y float64) {
		u, v := basis.Project(p)
		return float64(w)/2 + (u-u0)*scale, float64(h)/2 - (v-v0)*scale
	}

	pts := make([]projected, len(sc.wrapped))
	dmin, dmax := math.Inf(1), math.Inf(-1)
	for i, p := range sc.wrapped {
		x, y := toImage(p)
		d := basis.Depth(p)
		pts[i] = projected{x: x, y: y, depth: d, typ: sc.typeIndex(i)}
		dmin, dmax = min(dmin, d), max(dmax, d)
	}
	slices.SortStableFunc(pts, func(a, b projected) int {
		return cmp.Compare(b.depth, a.depth)
	})

	if opts.Outline {
		sc.drawBox(img, toImage, color.RGBA{90, 90, 90, 255}, ss)
	}
	r := opts.Radius * scale
	for _, pt := range pts {
		fog := 0.0
		if dmax > dmin {
			fog = 0.4 * (pt.depth - dmin) / (dmax - dmin)
		}
		base := sc.palette[pt.typ].BlendLab(bg, fog)
		drawDisk(img, pt.x, pt.y, r, base)
	}

	var out image.Image = img
	if ss > 1 {
		out = transform.Resize(img, opts.Width, opts.Height, transform.Linear)
	}
	if opts.Blur > 0 {
		out = blur.Gaussian(out, opts.Blur)
	}
	res, ok := out.(*image.RGBA)
	if !ok {
		res = image.NewRGBA(out.Bounds())
		draw.Draw(res, res.Bounds(), out, out.Bounds().Min, draw.Src)
	}
	return res, nil
}

// drawDisk draws a disk centered at (cx, cy) with simple spherical
// shading, lit from the upper left.
func drawDisk(img *image.RGBA, cx, cy, r float64, base colorful.Color) {
	bounds := img.Bounds()
	x0 := max(int(math.Floor(cx-r)), bounds.Min.X)
	x1 := min(int(math.Ceil(cx+r)), bounds.Max.X-1)
	y0 := max(int(math.Floor(cy-r)), bounds.Min.Y)
	y1 := min(int(math.Ceil(cy+r)), bounds.Max.Y-1)
	h, c, l := base.Hcl()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - cx) / r
			dy := (float64(y) + 0.5 - cy) / r
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			nz := math.Sqrt(1 - d2)
			light := 0.55 + 0.45*max(0, (-dx-dy)*0.5+nz*0.7)
			img.SetRGBA(x, y, toRGBA(colorful.Hcl(h, c, l*light).Clamped()))
		}
	}
}

// boxEdges are the corner index pairs of the 12 box edges, with corner
// bits (i, j, k) for the three lattice vectors.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// drawBox draws the edges of the periodic box.
func (sc *Scene) drawBox(img *image.RGBA, toImage func(r3.Vec) (float64, float64), clr color.RGBA, width int) {
	vecs := sc.snapshot.Box.Vectors()
	var corners [8][2]float64
	for n := range 8 {
		var p r3.Vec
		for a := range 3 {
			f := -0.5
			if n&(1<<a) != 0 {
				f = 0.5
			}
			p = r3.Add(p, r3.Scale(f, vecs[a]))
		}
		corners[n][0], corners[n][1] = toImage(p)
	}
	for _, e := range boxEdges {
		a, b := corners[e[0]], corners[e[1]]
		drawLine(img, a[0], a[1], b[0], b[1], clr, width)
	}
}

// drawLine draws a line of the given width in pixels by stepping
// along its longest axis.
func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, clr color.RGBA, width int) {
	n := int(math.Ceil(max(math.Abs(x1-x0), math.Abs(y1-y0))))
	bounds := img.Bounds()
	half := width / 2
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		x := int(math.Floor(x0 + t*(x1-x0)))
		y := int(math.Floor(y0 + t*(y1-y0)))
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				if p := image.Pt(x+ox, y+oy); p.In(bounds) {
					img.SetRGBA(p.X, p.Y, clr)
				}
			}
		}
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

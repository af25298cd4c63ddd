// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/cmelab/gixstapose/base/errors"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSize is the size in points of plot text, at 72 DPI.
var FontSize = 12.0

// Aligns specifies the horizontal alignment of text
// relative to its anchor point.
type Aligns int32

const (
	AlignStart Aligns = iota
	AlignCenter
	AlignEnd
)

// latinModern is the parsed Latin Modern Roman font. The font data is
// compiled in, so parsing only fails if the embedded data is corrupt,
// which panics on first use.
var latinModern = sync.OnceValue(func() *opentype.Font {
	return errors.Must1(opentype.Parse(lmroman10regular.TTF))
})

// NewFace returns a new Latin Modern Roman face at the given size.
// Faces are not safe for concurrent use, so each plot draws with its own.
func NewFace(size float64) font.Face {
	return errors.Must1(opentype.NewFace(latinModern(), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}))
}

// textWidth returns the advance width of s in pixels.
func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawText draws s with its baseline at pos.Y, aligned horizontally
// on pos.X according to align.
func drawText(dst draw.Image, face font.Face, s string, pos image.Point, clr color.Color, align Aligns) {
	if s == "" {
		return
	}
	switch align {
	case AlignCenter:
		pos.X -= textWidth(face, s) / 2
	case AlignEnd:
		pos.X -= textWidth(face, s)
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(pos.X, pos.Y),
	}
	d.DrawString(s)
}

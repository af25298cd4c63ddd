// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imagex provides image opening, saving, and comparison helpers.
package imagex

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Formats are the supported image encoding formats.
type Formats int32

// The supported image encoding formats
const (
	None Formats = iota
	PNG
	JPEG
	BMP
)

// ExtToFormat returns a Format based on a filename extension,
// which can start with a . or not
func ExtToFormat(ext string) (Formats, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	}
	return None, fmt.Errorf("imagex.ExtToFormat: extension %q not recognized", ext)
}

// Open opens an image from the given filename.
// The format is inferred automatically.
func Open(filename string) (image.Image, error) {
	return imgio.Open(filename)
}

// Save saves the image to the given filename,
// with the format inferred from the filename extension.
func Save(img image.Image, filename string) error {
	fm, err := ExtToFormat(filepath.Ext(filename))
	if err != nil {
		return err
	}
	var enc imgio.Encoder
	switch fm {
	case JPEG:
		enc = imgio.JPEGEncoder(95)
	case BMP:
		enc = imgio.BMPEncoder()
	default:
		enc = imgio.PNGEncoder()
	}
	return imgio.Save(filename, img, enc)
}

// AsRGBA returns the given image as an [*image.RGBA], converting
// it if it is not already one.
func AsRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

// CompareUint8 returns true if two numbers are within tol of each other.
func CompareUint8(cc, ic uint8, tol int) bool {
	d := int(cc) - int(ic)
	return d >= -tol && d <= tol
}

// CompareColors returns true if two colors are within tol of each
// other on every channel.
func CompareColors(cc, ic color.RGBA, tol int) bool {
	return CompareUint8(cc.R, ic.R, tol) && CompareUint8(cc.G, ic.G, tol) &&
		CompareUint8(cc.B, ic.B, tol) && CompareUint8(cc.A, ic.A, tol)
}

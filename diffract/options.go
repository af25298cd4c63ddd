// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"fmt"
	"strings"

	"github.com/cmelab/gixstapose/base/reflectx"
	"github.com/cmelab/gixstapose/tensor/convolve"
)

// Methods are the ways of computing a diffraction slice.
type Methods int32

const (
	// Projection bins the particles projected onto the view plane and
	// takes the 2D FFT of the resulting density, which by the
	// projection-slice theorem is the central slice of the 3D structure
	// factor perpendicular to the view direction.
	Projection Methods = iota

	// Direct sums the structure factor over all particles at every
	// point of the reciprocal grid. It is exact but O(N M^2).
	Direct
)

var methodNames = [...]string{"projection", "direct"}

// String returns the lower-case name of the method.
func (m Methods) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Methods(%d)", int32(m))
	}
	return methodNames[m]
}

// MarshalText implements [encoding.TextMarshaler].
func (m Methods) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Methods) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, nm := range methodNames {
		if s == nm {
			*m = Methods(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown method %q, must be one of %v", ErrInvalidInput, string(text), methodNames)
}

// Options are the parameters of a [Diffractometer].
type Options struct {

	// GridSize is the number of bins along each side of the
	// real-space density grid used by the projection method.
	GridSize int `toml:"grid_size" yaml:"grid_size" env:"GRID_SIZE" default:"512"`

	// Zoom is the factor by which the reciprocal grid is cropped around
	// the origin. The pattern has GridSize/Zoom pixels along each side.
	Zoom int `toml:"zoom" yaml:"zoom" env:"ZOOM" default:"4"`

	// PeakWidth is the sigma, in pixels, of the gaussian used to
	// smooth the pattern. Zero disables smoothing.
	PeakWidth float64 `toml:"peak_width" yaml:"peak_width" env:"PEAK_WIDTH" default:"1"`

	// LengthScale multiplies all positions and box lengths on load.
	LengthScale float64 `toml:"length_scale" yaml:"length_scale" env:"LENGTH_SCALE" default:"1"`

	// Method is how the diffraction slice is computed.
	Method Methods `toml:"method" yaml:"method" env:"METHOD" default:"projection"`

	// Bot is the lower color limit of plots, as a fraction of the maximum.
	Bot float64 `toml:"bot" yaml:"bot" env:"BOT" default:"4e-6"`

	// Top is the upper color limit of plots, as a fraction of the maximum.
	Top float64 `toml:"top" yaml:"top" env:"TOP" default:"0.7"`
}

// Defaults sets the options to their default values.
func (o *Options) Defaults() {
	if err := reflectx.SetFromDefaultTags(o); err != nil {
		panic(err)
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	var o Options
	o.Defaults()
	return o
}

// PatternSize returns the number of pixels along each side of a pattern.
func (o *Options) PatternSize() int {
	if o.Zoom <= 0 {
		return 0
	}
	return o.GridSize / o.Zoom
}

// Validate returns an error wrapping [ErrInvalidInput] if any
// option is out of range.
func (o *Options) Validate() error {
	switch {
	case o.GridSize < 2:
		return fmt.Errorf("%w: grid size must be at least 2, got %d", ErrInvalidInput, o.GridSize)
	case o.Zoom < 1:
		return fmt.Errorf("%w: zoom must be at least 1, got %d", ErrInvalidInput, o.Zoom)
	case o.PatternSize() < 2:
		return fmt.Errorf("%w: zoom %d leaves fewer than 2 pixels of grid size %d", ErrInvalidInput, o.Zoom, o.GridSize)
	case !finite(o.PeakWidth) || o.PeakWidth < 0:
		return fmt.Errorf("%w: peak width must be >= 0, got %g", ErrInvalidInput, o.PeakWidth)
	case len(convolve.GaussianKernel64(o.PeakWidth)) > o.PatternSize():
		return fmt.Errorf("%w: peak width %g is too wide for a %d pixel pattern", ErrInvalidInput, o.PeakWidth, o.PatternSize())
	case !finite(o.LengthScale) || o.LengthScale <= 0:
		return fmt.Errorf("%w: length scale must be > 0, got %g", ErrInvalidInput, o.LengthScale)
	case o.Method != Projection && o.Method != Direct:
		return fmt.Errorf("%w: unknown method %v", ErrInvalidInput, o.Method)
	case !(o.Bot > 0 && o.Bot < o.Top):
		return fmt.Errorf("%w: color limits must satisfy 0 < bot < top, got %g, %g", ErrInvalidInput, o.Bot, o.Top)
	}
	return nil
}

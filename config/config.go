// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration struct for the
// gixstapose tool, layered from struct defaults, config files,
// and environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/cmelab/gixstapose/base/fsx"
	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/cli"
	"github.com/cmelab/gixstapose/diffract"
	"github.com/cmelab/gixstapose/math32"
	"github.com/cmelab/gixstapose/scene"
	"github.com/jinzhu/copier"
)

// EnvPrefix is the prefix of all environment variables read into
// a [Config], as in GIXS_DIFFRACT_ZOOM.
const EnvPrefix = "GIXS_"

// FileName is the default config file name looked up on [DefaultPaths].
const FileName = "gixstapose.toml"

// Config is the main config struct that contains all of the
// configuration options for the gixstapose tool.
type Config struct {

	// Includes are other config files to read before this one,
	// which this file overrides.
	Includes []string `toml:"includes" yaml:"includes"`

	// Output is the image file written by the render and diffract commands.
	Output string `toml:"output" yaml:"output" env:"OUTPUT" default:"gixstapose.png"`

	// Diffract are the diffractometer options.
	Diffract diffract.Options `toml:"diffract" yaml:"diffract" envPrefix:"DIFFRACT_"`

	// Render are the options for rendering the particle scene.
	Render scene.RenderOptions `toml:"render" yaml:"render" envPrefix:"RENDER_"`

	// Plot are the options for the diffraction plot.
	Plot Plot `toml:"plot" yaml:"plot" envPrefix:"PLOT_"`

	// Camera is the view used for rendering and diffraction. A zero
	// camera frames the whole scene looking down the z axis.
	Camera camera.Camera `toml:"camera" yaml:"camera"`
}

// Plot are the options for the diffraction plot.
type Plot struct {

	// Width and Height are the plot image size in pixels.
	Width  int `toml:"width" yaml:"width" env:"WIDTH" default:"640"`
	Height int `toml:"height" yaml:"height" env:"HEIGHT" default:"640"`

	// Peaks is the number of brightest peaks to report.
	Peaks int `toml:"peaks" yaml:"peaks" env:"PEAKS" default:"10"`

	// Snap is the radius in pixels within which picks snap to the
	// brightest pixel.
	Snap int `toml:"snap" yaml:"snap" env:"SNAP" default:"2"`
}

func (c *Config) IncludesPtr() *[]string { return &c.Includes }

// New returns a new config with default values.
func New() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Defaults sets all fields to their default values. The camera is
// left zero so that it is fit to the scene.
func (c *Config) Defaults() {
	*c = Config{}
	cli.SetFromDefaults(c)
}

// HasCamera returns whether an explicit camera has been configured.
func (c *Config) HasCamera() bool {
	return c.Camera != camera.Camera{}
}

// Update fills in values implied by the others: a configured camera
// without an up vector uses +Y.
func (c *Config) Update() {
	if c.HasCamera() && c.Camera.Up == (math32.Vector3{}) {
		c.Camera.Up = math32.Vec3(0, 1, 0)
	}
}

// Load applies the given config file, found on the given paths, and
// then any GIXS_ environment variables, on top of the current values.
// An empty file name skips the file. The result is updated and validated.
func (c *Config) Load(file string, paths []string) error {
	if file != "" {
		if err := cli.OpenWithIncludes(c, file, paths); err != nil {
			return err
		}
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	c.Update()
	return c.Validate()
}

// Open returns a new config with defaults, the given file and the
// environment applied. See [Config.Load].
func Open(file string, paths []string) (*Config, error) {
	c := New()
	if err := c.Load(file, paths); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate returns an error if any of the options are invalid.
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.Diffract.Validate(), c.Render.Validate())
	if c.Plot.Width < 16 || c.Plot.Height < 16 {
		errs = append(errs, fmt.Errorf("config: plot size must be at least 16x16, got %dx%d", c.Plot.Width, c.Plot.Height))
	}
	if c.Plot.Peaks < 0 || c.Plot.Snap < 0 {
		errs = append(errs, fmt.Errorf("config: plot peaks and snap must be >= 0"))
	}
	if c.HasCamera() {
		errs = append(errs, c.Camera.Validate())
	}
	return errors.Join(errs...)
}

// CopyFrom sets the config to a deep copy of the given config.
func (c *Config) CopyFrom(from *Config) error {
	*c = Config{}
	return copier.CopyWithOption(c, from, copier.Option{CaseSensitive: true, DeepCopy: true})
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	cp := &Config{}
	if err := cp.CopyFrom(c); err != nil {
		panic(err)
	}
	return cp
}

// DefaultPaths returns the directories searched for config files:
// the current directory and ~/.config/gixstapose.
func DefaultPaths() []string {
	paths := []string{"."}
	if p, err := fsx.ExpandPath("~/.config/gixstapose"); err == nil {
		paths = append(paths, p)
	}
	return paths
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cmelab/gixstapose/base/fsx"
	"github.com/cmelab/gixstapose/base/logx"
	"github.com/cmelab/gixstapose/camera"
	"github.com/cmelab/gixstapose/config"
	"github.com/cmelab/gixstapose/scene"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app is the state shared by all commands.
type app struct {
	cfg        *config.Config
	configFile string
	out        io.Writer

	vv, v, q bool

	// view adjustments applied after the camera is chosen
	orbitX, orbitY, roll float32
}

func newApp(out io.Writer) *app {
	return &app{cfg: config.New(), out: out}
}

func newRootCmd(out io.Writer) *cobra.Command {
	return newApp(out).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gixstapose",
		Short: "Simulated diffraction patterns of particle snapshots",
		Long: `gixstapose renders particle snapshots and computes the diffraction
pattern seen along the view direction of an orthographic camera.

Settings are read from defaults, then a config file (gixstapose.toml in the
current directory or ~/.config/gixstapose, or --config), then GIXS_
environment variables such as GIXS_DIFFRACT_ZOOM, then command line flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	a.addFlags(root.PersistentFlags())
	root.AddCommand(
		a.infoCmd(),
		a.renderCmd(),
		a.diffractCmd(),
		a.pickCmd(),
		a.watchCmd(),
		latticeCmd(a.out),
	)
	return root
}

func (a *app) addFlags(fs *pflag.FlagSet) {
	c := a.cfg
	fs.BoolVar(&a.vv, "vv", false, "show debug log messages")
	fs.BoolVarP(&a.v, "verbose", "v", false, "show info log messages")
	fs.BoolVarP(&a.q, "quiet", "q", false, "only show error log messages")
	fs.StringVar(&a.configFile, "config", "", "config file, TOML or YAML")

	fs.StringVarP(&c.Output, "output", "o", c.Output, "output image file")

	fs.IntVar(&c.Diffract.GridSize, "grid-size", c.Diffract.GridSize, "real-space grid bins per side")
	fs.IntVar(&c.Diffract.Zoom, "zoom", c.Diffract.Zoom, "reciprocal crop factor")
	fs.Float64Var(&c.Diffract.PeakWidth, "peak-width", c.Diffract.PeakWidth, "gaussian smoothing sigma in pixels")
	fs.Float64Var(&c.Diffract.LengthScale, "length-scale", c.Diffract.LengthScale, "position scale factor")
	fs.Var(&textValue{v: &c.Diffract.Method, typ: "method"}, "method", "slice method: projection or direct")
	fs.Float64Var(&c.Diffract.Bot, "bot", c.Diffract.Bot, "lower color limit as a fraction of the maximum")
	fs.Float64Var(&c.Diffract.Top, "top", c.Diffract.Top, "upper color limit as a fraction of the maximum")

	fs.IntVar(&c.Render.Width, "width", c.Render.Width, "render width in pixels")
	fs.IntVar(&c.Render.Height, "height", c.Render.Height, "render height in pixels")
	fs.Float64Var(&c.Render.Radius, "radius", c.Render.Radius, "particle radius")
	fs.Float64Var(&c.Render.Blur, "blur", c.Render.Blur, "render blur radius in pixels")
	fs.BoolVar(&c.Render.Outline, "outline", c.Render.Outline, "draw the box outline")
	fs.StringVar(&c.Render.Background, "background", c.Render.Background, "render background color")

	fs.IntVar(&c.Plot.Width, "plot-width", c.Plot.Width, "plot width in pixels")
	fs.IntVar(&c.Plot.Height, "plot-height", c.Plot.Height, "plot height in pixels")
	fs.IntVar(&c.Plot.Peaks, "peaks", c.Plot.Peaks, "number of brightest peaks to report")
	fs.IntVar(&c.Plot.Snap, "snap", c.Plot.Snap, "pick snap radius in pixels")

	fs.Var(&vec3Value{&c.Camera.Position}, "position", "camera position")
	fs.Var(&vec3Value{&c.Camera.LookAt}, "look-at", "camera target")
	fs.Var(&vec3Value{&c.Camera.Up}, "up", "camera up direction")
	fs.Float32Var(&c.Camera.Height, "view-height", c.Camera.Height, "camera view height")
	fs.Float32Var(&a.orbitX, "orbit-x", 0, "orbit the camera left/right, in degrees")
	fs.Float32Var(&a.orbitY, "orbit-y", 0, "orbit the camera up/down, in degrees")
	fs.Float32Var(&a.roll, "roll", 0, "roll the camera about the view axis, in degrees")
}

// setup sets the log level and layers the config file and environment
// under any flags given on the command line.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	logx.UserLevel = logx.LevelFromFlags(a.vv, a.v, a.q)
	slog.SetDefault(slog.New(logx.NewHandler(os.Stderr)))

	file, paths := a.configFile, config.DefaultPaths()
	if file == "" {
		if len(fsx.FindFilesOnPaths(paths, config.FileName)) > 0 {
			file = config.FileName
		}
	} else {
		paths = append([]string{"."}, paths...)
	}
	layered, err := config.Open(file, paths)
	if err != nil {
		return err
	}
	if file != "" {
		slog.Info("loaded config", "file", file, "includes", layered.Includes)
	}

	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := a.cfg.CopyFrom(layered); err != nil {
		return err
	}
	for name, val := range changed {
		if err := cmd.Flags().Set(name, val); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	a.cfg.Update()
	return a.cfg.Validate()
}

// camera returns the configured camera, or one framing the scene,
// with the orbit and roll flags applied.
func (a *app) camera(sc *scene.Scene) *camera.Camera {
	var cam *camera.Camera
	if a.cfg.HasCamera() {
		c := a.cfg.Camera
		cam = &c
		if cam.Height == 0 {
			cam.Height = sc.Camera().Height
		}
	} else {
		cam = sc.Camera()
	}
	if a.orbitX != 0 || a.orbitY != 0 {
		cam.Orbit(a.orbitX, a.orbitY)
	}
	if a.roll != 0 {
		cam.Roll(a.roll)
	}
	slog.Debug("camera", "camera", cam.String())
	return cam
}

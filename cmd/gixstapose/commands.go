// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cmelab/gixstapose/base/fswatch"
	"github.com/cmelab/gixstapose/base/iox/imagex"
	"github.com/cmelab/gixstapose/base/iox/yamlx"
	"github.com/cmelab/gixstapose/diffract"
	"github.com/cmelab/gixstapose/plot"
	"github.com/cmelab/gixstapose/scene"
	"github.com/cmelab/gixstapose/structure"
	"github.com/jeandeaual/go-locale"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

func (a *app) infoCmd() *cobra.Command {
	var asYAML bool
	var lang string
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Print a summary of a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, info, err := scene.Open(args[0])
			if err != nil {
				return err
			}
			if asYAML {
				return yamlx.Write(info, a.out)
			}
			tag, err := infoLanguage(lang)
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.out, info.Text(tag))
			return err
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the summary as YAML")
	cmd.Flags().StringVar(&lang, "lang", "", "language used to format numbers, from the system locale if empty")
	return cmd
}

// infoLanguage returns the language with the given BCP 47 name, or the
// system locale language if the name is empty, defaulting to English.
func infoLanguage(name string) (language.Tag, error) {
	if name != "" {
		return language.Parse(name)
	}
	loc, err := locale.GetLocale()
	if err != nil || loc == "" {
		return language.English, nil
	}
	tag, err := language.Parse(loc)
	if err != nil {
		slog.Debug("unrecognized system locale", "locale", loc, "err", err)
		return language.English, nil
	}
	return tag, nil
}

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render FILE",
		Short: "Render a snapshot as seen by the camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, _, err := scene.Open(args[0])
			if err != nil {
				return err
			}
			img, err := sc.Render(a.camera(sc), a.cfg.Render)
			if err != nil {
				return err
			}
			if err := imagex.Save(img, a.cfg.Output); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.cfg.Output)
			return nil
		},
	}
}

// diffract computes the pattern of the scene and returns it with
// a drawn plot of the configured size.
func (a *app) diffract(sc *scene.Scene) (*diffract.Pattern, *plot.Plot, error) {
	d, err := diffract.NewWithOptions(a.cfg.Diffract)
	if err != nil {
		return nil, nil, err
	}
	if err := d.LoadSnapshot(sc.Snapshot()); err != nil {
		return nil, nil, err
	}
	pat, err := d.DiffractFromCamera(a.camera(sc))
	if err != nil {
		return nil, nil, err
	}
	pt := pat.NewPlot(a.cfg.Diffract.Bot, a.cfg.Diffract.Top)
	pt.Size = image.Pt(a.cfg.Plot.Width, a.cfg.Plot.Height)
	pt.Draw()
	return pat, pt, nil
}

func (a *app) printPeaks(pat *diffract.Pattern) {
	for i, pk := range pat.Peaks(a.cfg.Plot.Peaks) {
		fmt.Fprintf(a.out, "%2d  %s\n", i+1, pk)
	}
}

func (a *app) diffractCmd() *cobra.Command {
	var label bool
	cmd := &cobra.Command{
		Use:   "diffract FILE",
		Short: "Compute and plot the diffraction pattern along the camera view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, _, err := scene.Open(args[0])
			if err != nil {
				return err
			}
			pat, pt, err := a.diffract(sc)
			if err != nil {
				return err
			}
			a.printPeaks(pat)
			if label {
				ax := pt.Axes()
				for _, pk := range pat.Peaks(a.cfg.Plot.Peaks) {
					ax.Annotate(pk.Kx, pk.Ky, pk.Label())
				}
			}
			return pt.SaveImage(a.cfg.Output)
		},
	}
	cmd.Flags().BoolVar(&label, "label", false, "annotate the reported peaks on the plot")
	return cmd
}

func (a *app) pickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick FILE X Y...",
		Short: "Label the peaks at plot pixel coordinates",
		Long: `pick computes the diffraction plot and picks it at each pair of pixel
coordinates, as a mouse click would, snapping to the brightest pixel within
the snap radius. The picked peaks are printed and annotated on the plot.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 || len(args)%2 != 1 {
				return fmt.Errorf("expected a file and pairs of pixel coordinates, got %d args", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pts, err := parsePoints(args[1:])
			if err != nil {
				return err
			}
			sc, _, err := scene.Open(args[0])
			if err != nil {
				return err
			}
			pat, pt, err := a.diffract(sc)
			if err != nil {
				return err
			}
			ax := pt.Axes()
			defer ax.Close()
			pl := diffract.NewPeakLabeller(ax, pat)
			pl.Snap = a.cfg.Plot.Snap
			pl.OnPeak(func(pk diffract.Peak) {
				fmt.Fprintln(a.out, pk)
			})
			for _, p := range pts {
				if !ax.Pick(p) {
					slog.Warn("pick outside of the plot area", "x", p.X, "y", p.Y)
				}
			}
			return pt.SaveImage(a.cfg.Output)
		},
	}
}

func parsePoints(args []string) ([]image.Point, error) {
	var pts []image.Point
	for i := 0; i+1 < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, err
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, err
		}
		pts = append(pts, image.Pt(x, y))
	}
	return pts, nil
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Recompute the diffraction plot whenever the snapshot file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := func(path string) {
				if err := a.diffractFile(path); err != nil {
					slog.Error("diffract", "file", path, "err", err)
				}
			}
			if err := a.diffractFile(args[0]); err != nil {
				return err
			}
			w, err := fswatch.New(update, args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, w)
		},
	}
}

func (a *app) watch(ctx context.Context, w *fswatch.Watcher) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()
	slog.Info("watching", "files", w.Files())
	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	return nil
}

// diffractFile opens the given file and saves its diffraction plot.
func (a *app) diffractFile(path string) error {
	sc, _, err := scene.Open(path)
	if err != nil {
		return err
	}
	pat, pt, err := a.diffract(sc)
	if err != nil {
		return err
	}
	if err := pt.SaveImage(a.cfg.Output); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %d particles -> %s\n", path, pat.NParticles, a.cfg.Output)
	return nil
}

func latticeCmd(out io.Writer) *cobra.Command {
	var n int
	var spacing float32
	cmd := &cobra.Command{
		Use:   "lattice FILE",
		Short: "Write a simple cubic lattice snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 || !(spacing > 0) {
				return fmt.Errorf("lattice: n must be >= 1 and spacing > 0, got %d and %g", n, spacing)
			}
			if err := structure.NewCubicLattice(n, spacing).Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out, args[0])
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "size", "n", 8, "particles along each side")
	cmd.Flags().Float32Var(&spacing, "spacing", 1, "lattice constant")
	return cmd
}

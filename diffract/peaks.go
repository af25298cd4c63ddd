// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"log/slog"
	"sync"

	"github.com/cmelab/gixstapose/events"
	"github.com/cmelab/gixstapose/plot"
)

// PeakLabeller reports the reciprocal magnitude of picked points on a
// pattern plot. Handlers added with [PeakLabeller.OnPeak] are called for
// each pick, most recently added first. Closing the axes detaches the
// labeller and all of its handlers.
type PeakLabeller struct {

	// Snap is the radius in pixels within which a pick moves to the
	// highest intensity pixel. Zero reports the picked pixel itself.
	Snap int

	// Annotate is whether to label each picked peak on the plot
	// with its d-spacing.
	Annotate bool

	axes    *plot.Axes
	pattern *Pattern

	mu       sync.Mutex
	handlers []peakHandler
	nextID   uint64
	peaks    []Peak
	detach   []func()
}

type peakHandler struct {
	id  uint64
	fun func(Peak)
}

// PeakLabeller attaches a new labeller for the most recently computed
// pattern to the given axes, which must display that pattern. It returns
// [ErrNoPattern] if no pattern has been computed.
func (d *Diffractometer) PeakLabeller(ax *plot.Axes) (*PeakLabeller, error) {
	if d.pattern == nil {
		return nil, ErrNoPattern
	}
	return NewPeakLabeller(ax, d.pattern), nil
}

// NewPeakLabeller attaches a new labeller for the given pattern to the
// given axes, with annotation turned on.
func NewPeakLabeller(ax *plot.Axes, pat *Pattern) *PeakLabeller {
	pl := &PeakLabeller{axes: ax, pattern: pat, Annotate: true}
	pl.detach = append(pl.detach,
		ax.OnPick(pl.handlePick),
		ax.OnClose(pl.Detach),
	)
	return pl
}

// OnPeak adds a handler that receives each picked peak.
// It returns a function that removes the handler.
func (pl *PeakLabeller) OnPeak(fun func(pk Peak)) (detach func()) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.nextID++
	id := pl.nextID
	pl.handlers = append(pl.handlers, peakHandler{id: id, fun: fun})
	return func() {
		pl.mu.Lock()
		defer pl.mu.Unlock()
		pl.handlers = deleteHandler(pl.handlers, id)
	}
}

func deleteHandler(hs []peakHandler, id uint64) []peakHandler {
	for i, h := range hs {
		if h.id == id {
			return append(hs[:i:i], hs[i+1:]...)
		}
	}
	return hs
}

// Peaks returns the peaks picked so far, in order.
func (pl *PeakLabeller) Peaks() []Peak {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return append([]Peak(nil), pl.peaks...)
}

// NumHandlers returns the number of attached peak handlers.
func (pl *PeakLabeller) NumHandlers() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.handlers)
}

// Detach stops listening to the axes and removes all handlers.
func (pl *PeakLabeller) Detach() {
	pl.mu.Lock()
	detach := pl.detach
	pl.detach = nil
	pl.handlers = nil
	pl.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

func (pl *PeakLabeller) handlePick(e *events.PickEvent) {
	pk, ok := pl.pattern.PeakAt(e.X, e.Y)
	if !ok {
		return
	}
	if pl.Snap > 0 {
		pk = pl.pattern.Snap(pk, pl.Snap)
	}
	slog.Info("diffract: picked peak", "pixel", e.Pixel, "peak", pk.String())

	pl.mu.Lock()
	pl.peaks = append(pl.peaks, pk)
	hs := pl.handlers
	pl.mu.Unlock()

	for i := len(hs) - 1; i >= 0; i-- {
		hs[i].fun(pk)
	}
	if pl.Annotate {
		pl.axes.Annotate(pk.Kx, pk.Ky, pk.Label())
	}
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"image"
	"sync"

	"github.com/cmelab/gixstapose/events"
)

// Axes is the interactive handle for the data area of a [Plot].
// Pick events on the axes are dispatched to listeners registered
// with [Axes.OnPick], most recently added first, until one of them
// marks the event as handled. Closing the axes detaches all listeners.
type Axes struct {
	plot *Plot

	mu        sync.Mutex
	listeners events.Listeners
	closed    bool
}

// Axes returns the axes handle for the plot, creating it if needed.
func (pt *Plot) Axes() *Axes {
	if pt.axes == nil {
		pt.axes = &Axes{plot: pt}
	}
	return pt.axes
}

// Plot returns the plot that the axes belong to.
func (ax *Axes) Plot() *Plot {
	return ax.plot
}

func (ax *Axes) ensureDrawn() {
	if ax.plot.dataRect.Empty() {
		ax.plot.Draw()
	}
}

// PixelToData returns the data coordinates for the given image pixel,
// and whether the pixel lies within the data area.
func (ax *Axes) PixelToData(p image.Point) (x, y float64, ok bool) {
	ax.ensureDrawn()
	return ax.plot.pixelToData(p)
}

// DataToPixel returns the image pixel containing the given data point,
// and whether it lies within the data area.
func (ax *Axes) DataToPixel(x, y float64) (image.Point, bool) {
	ax.ensureDrawn()
	return ax.plot.dataToPixel(x, y)
}

// OnPick adds a listener for pick events on the axes.
// It returns a function that removes the listener.
func (ax *Axes) OnPick(fun func(e *events.PickEvent)) (remove func()) {
	return ax.on(events.Pick, func(e events.Event) {
		fun(e.(*events.PickEvent))
	})
}

// OnClose adds a listener that is called when the axes are closed.
func (ax *Axes) OnClose(fun func()) (remove func()) {
	return ax.on(events.Close, func(events.Event) { fun() })
}

func (ax *Axes) on(typ events.Types, fun func(events.Event)) func() {
	ax.mu.Lock()
	defer ax.mu.Unlock()
	if ax.closed {
		return func() {}
	}
	rm := ax.listeners.Add(typ, fun)
	return func() {
		ax.mu.Lock()
		defer ax.mu.Unlock()
		rm()
	}
}

// NumListeners returns the number of listeners for the given event type.
func (ax *Axes) NumListeners(typ events.Types) int {
	ax.mu.Lock()
	defer ax.mu.Unlock()
	return ax.listeners.Len(typ)
}

// Pick sends a pick event for the given image pixel to the listeners.
// Pixels outside the data area and picks on closed axes are ignored.
// It returns whether the event was dispatched.
func (ax *Axes) Pick(p image.Point) bool {
	x, y, ok := ax.PixelToData(p)
	if !ok {
		return false
	}
	ax.mu.Lock()
	if ax.closed {
		ax.mu.Unlock()
		return false
	}
	ls := ax.listeners
	ax.mu.Unlock()
	ls.Call(events.NewPick(p, x, y))
	return true
}

// Annotate adds a text annotation at the given data point
// and redraws the plot.
func (ax *Axes) Annotate(x, y float64, text string) {
	ax.plot.annotations = append(ax.plot.annotations, Annotation{X: x, Y: y, Text: text})
	ax.plot.Draw()
}

// Close sends a close event to the listeners and then detaches
// all of them. Further listeners and picks are ignored.
func (ax *Axes) Close() {
	ax.mu.Lock()
	if ax.closed {
		ax.mu.Unlock()
		return
	}
	ax.closed = true
	ls := ax.listeners
	ax.listeners.Clear()
	ax.mu.Unlock()
	ev := events.NewBase(events.Close)
	ls.Call(&ev)
}

// IsClosed returns whether the axes have been closed.
func (ax *Axes) IsClosed() bool {
	ax.mu.Lock()
	defer ax.mu.Unlock()
	return ax.closed
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events provides typed view events and a listener registry
// for subscribing to them.
package events

import "image"

// Event is the interface for all view events.
type Event interface {
	// Type returns the type of event.
	Type() Types

	// IsHandled returns whether this event has already been processed.
	IsHandled() bool

	// SetHandled marks the event as having been processed,
	// so no further listeners are called.
	SetHandled()
}

// Base is the base type for events, providing the type and handled state.
type Base struct {

	// Typ is the type of event.
	Typ Types

	// handled indicates that the event has been handled
	handled bool
}

// NewBase returns a new base event of the given type.
func NewBase(typ Types) Base {
	return Base{Typ: typ}
}

func (ev *Base) Type() Types     { return ev.Typ }
func (ev *Base) IsHandled() bool { return ev.handled }
func (ev *Base) SetHandled()     { ev.handled = true }

// PickEvent is sent when a point is selected on a rendered view,
// carrying both the pixel and the data coordinates of the point.
type PickEvent struct {
	Base

	// Pixel is the selected point in image pixel coordinates.
	Pixel image.Point

	// X and Y are the data coordinates of the selected point.
	X, Y float64
}

// NewPick returns a new [PickEvent] for the given pixel and data coordinates.
func NewPick(pixel image.Point, x, y float64) *PickEvent {
	return &PickEvent{Base: NewBase(Pick), Pixel: pixel, X: x, Y: y}
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

// Types determines the type of view event, and also the
// level at which one can select which events to listen to.
type Types int32

const (
	// zero value is an unknown type
	UnknownType Types = iota

	// Pick happens when the user selects a point on a rendered view.
	Pick

	// Close happens when a view is closed. After a Close event,
	// all listeners of the view are detached.
	Close
)

// String returns the name of the event type.
func (tp Types) String() string {
	switch tp {
	case Pick:
		return "Pick"
	case Close:
		return "Close"
	}
	return "UnknownType"
}

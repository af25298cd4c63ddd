// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffract

import (
	"errors"
	"math"
)

var (
	// ErrInvalidInput is returned for empty or malformed positions or box,
	// a degenerate camera, or out of range options.
	ErrInvalidInput = errors.New("diffract: invalid input")

	// ErrComputation is returned when the diffraction computation
	// produces a non-finite result.
	ErrComputation = errors.New("diffract: computation failed")

	// ErrNoPattern is returned when a pattern is needed before
	// one has been computed.
	ErrNoPattern = errors.New("diffract: no pattern has been computed")
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

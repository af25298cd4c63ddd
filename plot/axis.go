// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"math"
	"strconv"

	"github.com/cmelab/gixstapose/math32/minmax"
)

// Axis represents either a horizontal or vertical axis of a plot.
type Axis struct {

	// Range is the data range covered by the axis.
	Range minmax.F64

	// Label is the text drawn alongside the axis.
	Label string

	// NTicks is the desired number of ticks.
	NTicks int
}

// Tick is a single labeled position along an [Axis].
type Tick struct {
	Value float64
	Label string
}

// Defaults sets the default values for the axis.
func (ax *Axis) Defaults() {
	ax.Range.Set(0, 1)
	ax.NTicks = 5
}

// SanitizeRange ensures that the range of the axis is valid.
func (ax *Axis) SanitizeRange() {
	if math.IsInf(ax.Range.Min, 0) || math.IsNaN(ax.Range.Min) {
		ax.Range.Min = 0
	}
	if math.IsInf(ax.Range.Max, 0) || math.IsNaN(ax.Range.Max) {
		ax.Range.Max = 0
	}
	if ax.Range.Min > ax.Range.Max {
		ax.Range.Min, ax.Range.Max = ax.Range.Max, ax.Range.Min
	}
	if ax.Range.Min == ax.Range.Max {
		ax.Range.Min--
		ax.Range.Max++
	}
}

// Norm returns the value v normalized to the 0-1 range of the axis,
// without clipping.
func (ax *Axis) Norm(v float64) float64 {
	return (v - ax.Range.Min) * ax.Range.Scale()
}

// Ticks returns the tick marks for the axis, all of which lie within
// the axis range.
func (ax *Axis) Ticks() []Tick {
	want := ax.NTicks
	if want < 2 {
		want = 2
	}
	vals, step, mag := talbotLinHanrahan(ax.Range.Min, ax.Range.Max, want, withinData)
	prec := 0
	if mag < 0 {
		prec = -mag
	}
	// steps such as 2.5 need one more digit than their magnitude
	if s := step / math.Pow10(mag); math.Abs(s-math.Round(s)) > 1e-9 {
		prec++
	}
	prec = min(prec, 15)
	ticks := make([]Tick, len(vals))
	for i, v := range vals {
		if math.Abs(v) < 1e-9*math.Abs(step) {
			v = 0
		}
		ticks[i] = Tick{Value: v, Label: strconv.FormatFloat(v, 'f', prec, 64)}
	}
	return ticks
}

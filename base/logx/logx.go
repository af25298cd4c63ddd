// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides slog level selection, a colored default
// handler, and printing functions gated on the user verbosity level.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. It should typically
// be set through command line flags to the end user's preference.
// The default user verbosity level is [slog.LevelWarn].
var UserLevel = slog.LevelWarn

// UseColor is whether to use color in log messages. It is on by default
// and is additionally gated on whether the output supports color.
var UseColor = true

// LevelFromFlags returns the [slog.Level] object corresponding to the given
// user flag options. The flags correspond to the following values:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so, for example, if both
// vv and q are specified, it will still return [slog.LevelDebug].
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewHandler returns a text [slog.Handler] writing to w at [UserLevel],
// with the level names colored according to severity when w is a
// terminal that supports it. Timestamps are omitted.
func NewHandler(w io.Writer) slog.Handler {
	out := termenv.NewOutput(w)
	color := UseColor && out.Profile != termenv.Ascii
	opts := &slog.HandlerOptions{
		Level: UserLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if !color {
					return a
				}
				lvl, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				a.Value = slog.StringValue(LevelStyle(out, lvl).String())
			}
			return a
		},
	}
	return slog.NewTextHandler(w, opts)
}

// LevelStyle returns the styled name of the given level for the given output.
func LevelStyle(out *termenv.Output, lvl slog.Level) termenv.Style {
	st := out.String(lvl.String())
	switch {
	case lvl >= slog.LevelError:
		return st.Foreground(out.Color("1")).Bold()
	case lvl >= slog.LevelWarn:
		return st.Foreground(out.Color("3"))
	case lvl >= slog.LevelInfo:
		return st.Foreground(out.Color("4"))
	default:
		return st.Faint()
	}
}

// SetDefaultLogger sets the default logger to one writing to [os.Stderr]
// using [NewHandler], with [UserLevel] as the minimum level.
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr)))
}

// PrintlnDebug is equivalent to [fmt.Println], but it only prints
// if [UserLevel] is at or below [slog.LevelDebug].
func PrintlnDebug(a ...any) (n int, err error) {
	return println(slog.LevelDebug, a...)
}

// PrintlnInfo is equivalent to [fmt.Println], but it only prints
// if [UserLevel] is at or below [slog.LevelInfo].
func PrintlnInfo(a ...any) (n int, err error) {
	return println(slog.LevelInfo, a...)
}

// PrintlnWarn is equivalent to [fmt.Println], but it only prints
// if [UserLevel] is at or below [slog.LevelWarn].
func PrintlnWarn(a ...any) (n int, err error) {
	return println(slog.LevelWarn, a...)
}

// PrintfInfo is equivalent to [fmt.Printf], but it only prints
// if [UserLevel] is at or below [slog.LevelInfo].
func PrintfInfo(format string, a ...any) (n int, err error) {
	if UserLevel > slog.LevelInfo {
		return 0, nil
	}
	return fmt.Printf(format, a...)
}

func println(level slog.Level, a ...any) (n int, err error) {
	if UserLevel > level {
		return 0, nil
	}
	return fmt.Println(a...)
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmelab/gixstapose/math32"
)

// textValue is a [pflag.Value] for types that marshal as text.
type textValue struct {
	v interface {
		encoding.TextUnmarshaler
		fmt.Stringer
	}
	typ string
}

func (tv *textValue) String() string     { return tv.v.String() }
func (tv *textValue) Set(s string) error { return tv.v.UnmarshalText([]byte(s)) }
func (tv *textValue) Type() string       { return tv.typ }

// vec3Value is a [pflag.Value] for a vector given as "x,y,z".
type vec3Value struct {
	v *math32.Vector3
}

func (vv *vec3Value) String() string {
	if vv.v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", vv.v.X, vv.v.Y, vv.v.Z)
}

func (vv *vec3Value) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected x,y,z, got %q", s)
	}
	var c [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		c[i] = float32(f)
	}
	*vv.v = math32.Vector3FromArray(c)
	return nil
}

func (vv *vec3Value) Type() string { return "x,y,z" }

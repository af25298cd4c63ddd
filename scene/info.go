// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"strings"

	"github.com/cmelab/gixstapose/structure"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Info is a summary of a scene snapshot.
type Info struct {

	// Path is the file the snapshot was opened from, if any.
	Path string `yaml:"path,omitempty"`

	// NParticles is the total number of particles.
	NParticles int `yaml:"particles"`

	// Types are the particle counts per type.
	Types []TypeCount `yaml:"types"`

	// Box is the periodic box.
	Box structure.Box `yaml:"box"`

	// Volume is the box volume.
	Volume float64 `yaml:"volume"`

	// Density is the number density, particles per unit volume.
	Density float64 `yaml:"density"`
}

// TypeCount is the number of particles of one type.
type TypeCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// NewInfo returns the summary info for the given snapshot.
func NewInfo(sn *structure.Snapshot) Info {
	in := Info{
		NParticles: sn.Len(),
		Box:        sn.Box,
		Volume:     sn.Box.Volume(),
	}
	names, counts := sn.TypeCounts()
	for i, nm := range names {
		in.Types = append(in.Types, TypeCount{Name: nm, Count: counts[i]})
	}
	if in.Volume > 0 {
		in.Density = float64(in.NParticles) / in.Volume
	}
	return in
}

// Text returns a human readable multi-line summary, with numbers
// formatted for the given language.
func (in Info) Text(tag language.Tag) string {
	p := message.NewPrinter(tag)
	var b strings.Builder
	if in.Path != "" {
		p.Fprintf(&b, "File:      %s\n", in.Path)
	}
	p.Fprintf(&b, "Particles: %d\n", in.NParticles)
	for _, tc := range in.Types {
		p.Fprintf(&b, "  %-8s %d\n", tc.Name, tc.Count)
	}
	p.Fprintf(&b, "Box:       %s\n", in.Box.String())
	p.Fprintf(&b, "Volume:    %.4g\n", in.Volume)
	p.Fprintf(&b, "Density:   %.4g\n", in.Density)
	return b.String()
}

// String returns the summary formatted for English.
func (in Info) String() string {
	return in.Text(language.English)
}

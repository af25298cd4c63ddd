// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package structure

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/cmelab/gixstapose/base/fsx"
	"github.com/cmelab/gixstapose/base/iox"
	"github.com/cmelab/gixstapose/math32"
	"github.com/h2non/filetype"
)

// document is the on-disk snapshot encoding, in TOML or YAML.
type document struct {
	Box       Box          `toml:"box" yaml:"box"`
	Types     []string     `toml:"types,omitempty" yaml:"types,omitempty"`
	TypeIDs   []int        `toml:"typeid,omitempty" yaml:"typeid,omitempty"`
	Positions [][3]float32 `toml:"positions" yaml:"positions"`
}

// Open reads a snapshot from the given TOML or YAML file, as determined
// by the extension, optionally gzip compressed, which is detected from
// the file contents. A leading ~ is expanded to the home directory.
// The snapshot is validated before it is returned.
func Open(filename string) (*Snapshot, error) {
	fpath, err := fsx.ExpandPath(filename)
	if err != nil {
		return nil, err
	}
	fm, err := iox.FormatOf(fpath)
	if err != nil {
		return nil, fmt.Errorf("structure.Open: %w", err)
	}
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	var r io.Reader = bytes.NewReader(data)
	if filetype.Is(data, "gz") {
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("structure.Open: %q: %w", filename, err)
		}
		defer gr.Close()
		r = gr
	}
	return Read(r, fm)
}

// Read reads and validates a snapshot from the given reader in the given format.
func Read(r io.Reader, fm iox.Formats) (*Snapshot, error) {
	var doc document
	if err := iox.Read(&doc, r, fm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	sn := &Snapshot{Box: doc.Box, Types: doc.Types, TypeIDs: doc.TypeIDs}
	sn.Positions = make([]math32.Vector3, len(doc.Positions))
	for i, p := range doc.Positions {
		sn.Positions[i] = math32.Vector3FromArray(p)
	}
	if err := sn.Validate(); err != nil {
		return nil, err
	}
	return sn, nil
}

// Save writes the snapshot to the given TOML or YAML file,
// as determined by the extension.
func (sn *Snapshot) Save(filename string) error {
	fpath, err := fsx.ExpandPath(filename)
	if err != nil {
		return err
	}
	return iox.Save(sn.document(), fpath)
}

// Write writes the snapshot to the given writer in the given format.
func (sn *Snapshot) Write(w io.Writer, fm iox.Formats) error {
	return iox.Write(sn.document(), w, fm)
}

func (sn *Snapshot) document() *document {
	doc := &document{Box: sn.Box, Types: sn.Types, TypeIDs: sn.TypeIDs}
	doc.Positions = make([][3]float32, len(sn.Positions))
	for i, p := range sn.Positions {
		doc.Positions[i] = p.ToArray()
	}
	return doc
}

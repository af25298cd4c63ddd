// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iox provides encoding-agnostic reading and writing of
// structured files, selecting the encoding from the filename extension.
package iox

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cmelab/gixstapose/base/iox/tomlx"
	"github.com/cmelab/gixstapose/base/iox/yamlx"
)

// Formats are the supported structured file encodings.
type Formats int32

const (
	// None is an unrecognized format.
	None Formats = iota

	// TOML is the default config format.
	TOML

	// YAML is accepted wherever TOML is.
	YAML
)

// String returns the name of the format.
func (f Formats) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	}
	return "none"
}

// ExtToFormat returns the [Formats] for given filename extension,
// which can start with a . or not.
func ExtToFormat(ext string) (Formats, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "toml", "tml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return None, fmt.Errorf("iox.ExtToFormat: extension %q not recognized", ext)
}

// FormatOf returns the format of the given filename, ignoring
// a trailing .gz extension.
func FormatOf(filename string) (Formats, error) {
	filename = strings.TrimSuffix(filename, ".gz")
	return ExtToFormat(filepath.Ext(filename))
}

// Open reads the given object from the given file, with the
// encoding determined by the file extension.
func Open(v any, filename string) error {
	fm, err := FormatOf(filename)
	if err != nil {
		return err
	}
	if fm == YAML {
		return yamlx.Open(v, filename)
	}
	return tomlx.Open(v, filename)
}

// Read reads the given object from the given reader in the given format.
func Read(v any, r io.Reader, fm Formats) error {
	switch fm {
	case TOML:
		return tomlx.Read(v, r)
	case YAML:
		return yamlx.Read(v, r)
	}
	return fmt.Errorf("iox.Read: format %v not supported", fm)
}

// Save writes the given object to the given file, with the
// encoding determined by the file extension.
func Save(v any, filename string) error {
	fm, err := FormatOf(filename)
	if err != nil {
		return err
	}
	if fm == YAML {
		return yamlx.Save(v, filename)
	}
	return tomlx.Save(v, filename)
}

// Write writes the given object to the given writer in the given format.
func Write(v any, w io.Writer, fm Formats) error {
	switch fm {
	case TOML:
		return tomlx.Write(v, w)
	case YAML:
		return yamlx.Write(v, w)
	}
	return fmt.Errorf("iox.Write: format %v not supported", fm)
}

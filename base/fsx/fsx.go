// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsx provides various utility functions for dealing with filesystems.
package fsx

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cmelab/gixstapose/base/errors"
	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading ~ to the user home directory and
// returns the absolute, cleaned version of the given path.
func ExpandPath(path string) (string, error) {
	ep, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(ep)
}

// FileExists checks whether given file exists, returning true if so,
// false if not, and error if there is an error in accessing the file.
func FileExists(filePath string) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err == nil {
		return !fileInfo.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FindFilesOnPaths attempts to locate given file(s) on given list of paths,
// returning the full Abs path to each file found (nil if none).
// Paths are expanded with [ExpandPath] first. Absolute files are
// only looked for at their own location.
func FindFilesOnPaths(paths []string, files ...string) []string {
	var res []string
	for _, fn := range files {
		if filepath.IsAbs(fn) {
			if ok, _ := FileExists(fn); ok {
				res = append(res, fn)
			}
		}
	}
	for _, path := range paths {
		for _, fn := range files {
			if filepath.IsAbs(fn) {
				continue
			}
			fp, err := ExpandPath(filepath.Join(path, fn))
			if err != nil {
				continue
			}
			if ok, _ := FileExists(fp); ok {
				res = append(res, fp)
			}
		}
	}
	return res
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)
	p, err := ExpandPath("~/snap.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "snap.toml"), p)

	p, err = ExpandPath("a/../b")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.Equal(t, "b", filepath.Base(p))
}

func TestFindFilesOnPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.toml"), []byte("x = 1"), 0o644))

	ok, err := FileExists(filepath.Join(dir, "a.toml"))
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = FileExists(filepath.Join(dir, "missing.toml"))
	assert.NoError(t, err)
	assert.False(t, ok)
	ok, _ = FileExists(dir)
	assert.False(t, ok)

	fs := FindFilesOnPaths([]string{t.TempDir(), dir}, "a.toml", "b.toml")
	assert.Equal(t, []string{filepath.Join(dir, "a.toml")}, fs)

	abs := filepath.Join(dir, "a.toml")
	assert.Equal(t, []string{abs}, FindFilesOnPaths([]string{".", t.TempDir()}, abs))
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Includes []string `toml:"includes" yaml:"includes"`
	Name     string   `toml:"name" yaml:"name" default:"base"`
	Size     int      `toml:"size" yaml:"size" default:"64"`
	Zoom     float64  `toml:"zoom" yaml:"zoom" default:"2"`
}

func (c *testConfig) IncludesPtr() *[]string { return &c.Includes }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSetFromDefaults(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, SetFromDefaults(cfg))
	assert.Equal(t, "base", cfg.Name)
	assert.Equal(t, 64, cfg.Size)
	assert.Equal(t, 2.0, cfg.Zoom)
}

func TestOpenWithIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.toml", "includes = [\"common.toml\"]\nname = \"main\"\n")
	writeFile(t, dir, "common.toml", "includes = [\"deep.yaml\"]\nname = \"common\"\nsize = 128\n")
	writeFile(t, dir, "deep.yaml", "size: 256\nzoom: 8\n")

	cfg := &testConfig{}
	require.NoError(t, SetFromDefaults(cfg))
	require.NoError(t, OpenWithIncludes(cfg, "main.toml", []string{dir}))
	assert.Equal(t, "main", cfg.Name)
	assert.Equal(t, 128, cfg.Size)
	assert.Equal(t, 8.0, cfg.Zoom)
	assert.Equal(t, []string{"common.toml", "deep.yaml"}, cfg.Includes)
}

func TestOpenWithIncludesCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.toml", "includes = [\"b.toml\"]\nsize = 1\n")
	writeFile(t, dir, "b.toml", "includes = [\"a.toml\"]\nsize = 2\n")

	cfg := &testConfig{}
	require.NoError(t, OpenWithIncludes(cfg, "a.toml", []string{dir}))
	assert.Equal(t, 1, cfg.Size)
}

func TestOpenWithIncludesMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := &testConfig{}
	assert.Error(t, OpenWithIncludes(cfg, "none.toml", []string{dir}))

	writeFile(t, dir, "main.toml", "includes = [\"gone.toml\"]\n")
	assert.Error(t, OpenWithIncludes(cfg, "main.toml", []string{dir}))
}

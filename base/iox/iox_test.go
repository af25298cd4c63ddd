// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iox

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string    `toml:"name" yaml:"name"`
	Sizes []float64 `toml:"sizes" yaml:"sizes"`
}

func TestExtToFormat(t *testing.T) {
	fm, err := ExtToFormat(".TOML")
	assert.NoError(t, err)
	assert.Equal(t, TOML, fm)
	fm, err = FormatOf("snap.yml.gz")
	assert.NoError(t, err)
	assert.Equal(t, YAML, fm)
	_, err = ExtToFormat("gsd")
	assert.Error(t, err)
}

func TestSaveOpen(t *testing.T) {
	dir := t.TempDir()
	doc := testDoc{Name: "box", Sizes: []float64{1, 2.5}}
	for _, fn := range []string{"d.toml", "d.yaml"} {
		path := filepath.Join(dir, fn)
		require.NoError(t, Save(&doc, path))
		var got testDoc
		require.NoError(t, Open(&got, path))
		assert.Equal(t, doc, got)
	}
}

func TestReadWrite(t *testing.T) {
	doc := testDoc{Name: "w", Sizes: []float64{3}}
	var b bytes.Buffer
	require.NoError(t, Write(&doc, &b, YAML))
	assert.Contains(t, b.String(), "name: w")
	var got testDoc
	require.NoError(t, Read(&got, &b, YAML))
	assert.Equal(t, doc, got)
	assert.Error(t, Write(&doc, &b, None))
}

// Copyright (c) 2024, The GIXStapose Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"slices"

	"github.com/cmelab/gixstapose/base/fsx"
	"github.com/cmelab/gixstapose/base/iox"
)

// Includer is implemented by config types that can include
// other config files.
type Includer interface {
	// IncludesPtr returns a pointer to the list of included files.
	IncludesPtr() *[]string
}

// OpenWithIncludes reads the config struct from the given config file,
// looking on the given paths for the file. It opens any Includes
// specified in the file in the natural include order so that includers
// overwrite included settings. It is equivalent to [iox.Open] if there
// are no Includes. It returns an error if the file cannot be found on
// the paths.
func OpenWithIncludes(cfg any, file string, paths []string) error {
	files := fsx.FindFilesOnPaths(paths, file)
	if len(files) == 0 {
		return fmt.Errorf("OpenWithIncludes: no files found for %q on paths %v", file, paths)
	}
	if err := openFiles(cfg, files); err != nil {
		return err
	}
	incfg, ok := cfg.(Includer)
	if !ok {
		return nil
	}
	incs, err := includeStack(incfg, paths)
	if err != nil {
		return err
	}
	if len(incs) == 0 {
		return nil
	}
	for i := len(incs) - 1; i >= 0; i-- {
		if err := openFiles(cfg, fsx.FindFilesOnPaths(paths, incs[i])); err != nil {
			return err
		}
	}
	// reopen original so that it has the final say
	if err := openFiles(cfg, files); err != nil {
		return err
	}
	*incfg.IncludesPtr() = incs
	return nil
}

func openFiles(cfg any, files []string) error {
	for _, fn := range files {
		if err := iox.Open(cfg, fn); err != nil {
			return err
		}
	}
	return nil
}

// includeStack returns the stack of include files in the natural
// order in which they are encountered, with nested includes after
// their includers. Each file is only included once.
func includeStack(cfg Includer, paths []string) ([]string, error) {
	var stack []string
	queue := slices.Clone(*cfg.IncludesPtr())
	for len(queue) > 0 {
		inc := queue[0]
		queue = queue[1:]
		if slices.Contains(stack, inc) {
			continue
		}
		stack = append(stack, inc)
		files := fsx.FindFilesOnPaths(paths, inc)
		if len(files) == 0 {
			return stack, fmt.Errorf("OpenWithIncludes: include file %q not found on paths %v", inc, paths)
		}
		sub := &includes{}
		if err := openFiles(sub, files); err != nil {
			return stack, err
		}
		queue = append(queue, sub.Includes...)
	}
	return stack, nil
}

// includes decodes only the include list of a config file.
type includes struct {
	Includes []string `toml:"includes" yaml:"includes"`
}

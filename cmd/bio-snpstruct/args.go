// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/snpstruct/runner"
	"github.com/grailbio/snpstruct/tool"
)

// runArgs holds the positional arguments of run and run-all.
type runArgs struct {
	input, prefix string
	window        int
	splitCount    int
	splitIndex    int
}

// parseRunArgs parses "input prefix window [count index]" when withIndex is
// set, and "input prefix window count" otherwise.
func parseRunArgs(argv []string, withIndex bool) (runArgs, error) {
	args := runArgs{splitCount: 1}
	switch {
	case withIndex && len(argv) != 3 && len(argv) != 5:
		return args, errors.E(errors.Invalid, fmt.Sprintf("expect 3 or 5 arguments, but got %d: %v", len(argv), argv))
	case !withIndex && len(argv) != 4:
		return args, errors.E(errors.Invalid, fmt.Sprintf("expect 4 arguments, but got %d: %v", len(argv), argv))
	}
	args.input, args.prefix = argv[0], argv[1]
	var err error
	if args.window, err = parseInt("window", argv[2]); err != nil {
		return args, err
	}
	if len(argv) > 3 {
		if args.splitCount, err = parseInt("split_count", argv[3]); err != nil {
			return args, err
		}
	}
	if len(argv) > 4 {
		if args.splitIndex, err = parseInt("split_index", argv[4]); err != nil {
			return args, err
		}
	}
	return args, nil
}

func parseMergeArgs(argv []string) (string, int, error) {
	if len(argv) != 2 {
		return "", 0, errors.E(errors.Invalid, fmt.Sprintf("expect 2 arguments, but got %d: %v", len(argv), argv))
	}
	count, err := parseInt("split_count", argv[1])
	return argv[0], count, err
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.E(errors.Invalid, err, fmt.Sprintf("%s must be an integer, but got %q", name, s))
	}
	return v, nil
}

// toolNames splits and validates a -tools value.
func toolNames(list string) ([]string, error) {
	var names []string
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, err := tool.New(name, ""); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errors.E(errors.Invalid, "no tools selected")
	}
	return names, nil
}

// exe returns the executable flag value for the named tool.
func (f *toolFlags) exe(name string) string {
	switch name {
	case tool.RNAsnpName:
		return f.rnasnp
	case tool.RemuRNAName:
		return f.remurna
	}
	return name
}

// opts builds the runner options.  Executables are resolved up front so a
// missing tool fails before any record is processed.
func (f *toolFlags) opts(ctx context.Context, args runArgs) (runner.Opts, error) {
	opts := runner.DefaultOpts
	opts.InputPath = args.input
	opts.OutputPrefix = args.prefix
	opts.Window = args.window
	opts.SplitCount = args.splitCount
	opts.SplitIndex = args.splitIndex
	opts.TempDir = f.tmpDir
	names, err := toolNames(f.tools)
	if err != nil {
		return opts, err
	}
	for _, name := range names {
		path, err := tool.Resolve(ctx, f.exe(name))
		if err != nil {
			return opts, err
		}
		t, err := tool.New(name, path)
		if err != nil {
			return opts, err
		}
		t.Timeout = f.timeout
		t.TempDir = f.tmpDir
		opts.Tools = append(opts.Tools, t)
	}
	return opts, nil
}

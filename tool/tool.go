// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tool wraps external RNA structure analysis programs behind a
// uniform invoke/parse contract.
//
// Each call stages a temporary input file, runs the program as a subprocess,
// classifies its error and warning output, and parses its tab-delimited
// report into a Table.  The temporary file is removed on every exit path.
package tool

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/snpstruct/snp"
)

// StreamPolicy says what to do when a tool writes to standard error.
type StreamPolicy int

const (
	// FatalOnAny fails the call on any standard error output or non-zero exit
	// status.
	FatalOnAny StreamPolicy = iota
	// LogOnly logs standard error output and non-zero exit status, and parses
	// the report anyway.
	LogOnly
)

// String implements fmt.Stringer.
func (p StreamPolicy) String() string {
	switch p {
	case FatalOnAny:
		return "fatal-on-any"
	case LogOnly:
		return "log-only"
	}
	return fmt.Sprintf("StreamPolicy(%d)", int(p))
}

// Adapter runs one external tool for one sequence.
type Adapter interface {
	// Name is the short tool name, used in output file names.
	Name() string
	// Columns is the report header the tool normally produces.
	Columns() []string
	// Invoke evaluates tags on the single sequence stored in the FASTA file
	// faPath.  window <= 0 leaves the tool's window at its default.
	Invoke(ctx context.Context, faPath string, tags []snp.Tag, window int) (*Table, error)
}

// Tool implements Adapter for a command-line program.  The protocol is shared
// by all tools; the constructors (NewRNAsnp, NewRemuRNA) supply the parts that
// differ.
type Tool struct {
	// Exe is the executable to run.
	Exe string
	// Timeout bounds each subprocess run.  Zero means no limit.
	Timeout time.Duration
	// TempDir is where staged inputs are created.  Empty means os.TempDir().
	TempDir string
	// Warn receives non-fatal diagnostics.  Defaults to log.Error.Printf.
	Warn func(format string, args ...interface{})

	name      string
	columns   []string
	maxWindow int // 0 means unbounded
	maxTags   int // 0 means unbounded
	stderr    StreamPolicy
	suffix    string // staged file suffix
	// stage writes the staged input for faPath and tags to w.
	stage func(ctx context.Context, w io.Writer, faPath string, tags []snp.Tag) error
	// args builds the command line.
	args func(faPath, stagedPath string, window int) []string
}

// Name implements Adapter.
func (t *Tool) Name() string { return t.name }

// Columns implements Adapter.
func (t *Tool) Columns() []string { return append([]string(nil), t.columns...) }

// StderrPolicy returns how the tool's standard error stream is treated.
func (t *Tool) StderrPolicy() StreamPolicy { return t.stderr }

func (t *Tool) warnf(format string, args ...interface{}) {
	if t.Warn != nil {
		t.Warn(format, args...)
		return
	}
	log.Error.Printf(format, args...)
}

// Window returns the window passed to the tool for the requested one: <= 0
// means none, and windows above the tool's maximum are reduced to it with a
// warning.
func (t *Tool) Window(window int) int {
	if window <= 0 {
		return 0
	}
	if t.maxWindow > 0 && window > t.maxWindow {
		t.warnf("WARNING %s window reduced to max possible: %d", t.name, t.maxWindow)
		return t.maxWindow
	}
	return window
}

// Invoke implements Adapter.
func (t *Tool) Invoke(ctx context.Context, faPath string, tags []snp.Tag, window int) (table *Table, err error) {
	if len(tags) == 0 {
		return nil, errors.E(errors.Invalid, t.name, "called without SNP tags")
	}
	if t.maxTags > 0 && len(tags) > t.maxTags {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("%s accepts at most %d SNP tag(s) per call, got %d", t.name, t.maxTags, len(tags)))
	}
	if _, err = file.Stat(ctx, faPath); err != nil {
		return nil, errors.E(errors.NotExist, err, fmt.Sprintf("input fasta %s does not exist", faPath))
	}

	staged, err := ioutil.TempFile(t.TempDir, "snpstruct-"+t.name+"-*"+t.suffix)
	if err != nil {
		return nil, errors.E(err, t.name, "create staged input")
	}
	stagedPath := staged.Name()
	defer func() {
		if e := file.Remove(ctx, stagedPath); e != nil && err == nil {
			err = errors.E(e, "remove staged input", stagedPath)
		}
	}()
	var once errors.Once
	once.Set(t.stage(ctx, staged, faPath, tags))
	once.Set(staged.Close())
	if err = once.Err(); err != nil {
		return nil, errors.E(err, t.name, "stage input", stagedPath)
	}

	args := t.args(faPath, stagedPath, t.Window(window))
	runCtx := ctx
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	res, err := Exec(runCtx, t.Exe, args...)
	if err != nil {
		return nil, errors.E(err, t.name, "run failed for", faPath)
	}
	if err = t.classify(faPath, res); err != nil {
		return nil, err
	}
	cleaned, err := CleanOutput(t.name, faPath, res.Stdout, t.Warn)
	if err != nil {
		return nil, err
	}
	if table, err = ParseTable(cleaned); err != nil {
		return nil, errors.E(err, t.name, "report for", faPath)
	}
	return table, nil
}

// classify applies the tool's standard error policy.
func (t *Tool) classify(faPath string, res Result) error {
	stderr := strings.TrimSpace(res.Stderr)
	switch t.stderr {
	case FatalOnAny:
		if stderr != "" || res.Exit != nil {
			return errors.E(fmt.Sprintf("error in calling %s for %s (%v)\n%s\n%s", t.name, faPath, res.Exit, res.Stdout, stderr))
		}
	case LogOnly:
		if res.Exit != nil {
			t.warnf("%s exited with %v for %s", t.name, res.Exit, faPath)
		}
		if stderr != "" {
			t.warnf("error in calling %s for %s\n%s", t.name, faPath, stderr)
		}
	}
	return nil
}

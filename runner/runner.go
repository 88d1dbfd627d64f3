// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package runner batch-processes a FASTA file of RNA variants.  Each record's
// description ends in a SNP tag (e.g. "G20C"); every enabled tool is run on
// the record's sequence and tag, and the reports are collected into one
// tab-separated table per tool.
//
// A run covers one shard of the records, chosen by (SplitCount, SplitIndex),
// so a large input can be spread over independent invocations.  Tables are
// written only once the whole shard succeeded, to
// <OutputPrefix>_<SplitIndex>_<tool>.csv.
package runner

import (
	"context"
	"fmt"
	"io/ioutil"
	"runtime"
	"sync"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/snpstruct/encoding/fasta"
	"github.com/grailbio/snpstruct/shard"
	"github.com/grailbio/snpstruct/snp"
	"github.com/grailbio/snpstruct/tool"
)

// Opts configures a run.
type Opts struct {
	// InputPath is the FASTA file of variants.  It may be gzip-compressed.
	InputPath string
	// OutputPrefix is the common prefix of the output tables.
	OutputPrefix string
	// Window is the folding window passed to every tool.  Zero leaves each
	// tool at its default.
	Window int
	// SplitCount is the number of shards the input is divided into, and
	// SplitIndex the shard processed by this run.
	SplitCount int
	SplitIndex int
	// Tools are run on every record, in order.
	Tools []tool.Adapter
	// TempDir holds the per-record FASTA files.  Empty means os.TempDir().
	TempDir string
	// Progress, if set, receives an Event at each step.  Defaults to
	// LogProgress.  RunAll serializes the calls, so Progress need not be
	// safe for concurrent use.
	Progress func(Event)
	// Parallelism bounds the number of shards RunAll processes at once.
	// Values <= 0 mean runtime.NumCPU().  Run ignores it.
	Parallelism int
}

// DefaultOpts processes the whole input in one shard.
var DefaultOpts = Opts{
	SplitCount: 1,
	SplitIndex: 0,
}

func (o *Opts) validate() error {
	if o.InputPath == "" {
		return errors.E(errors.Invalid, "runner: input path not set")
	}
	if o.OutputPrefix == "" {
		return errors.E(errors.Invalid, "runner: output prefix not set")
	}
	if o.Window < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("runner: window must not be negative, got %d", o.Window))
	}
	if len(o.Tools) == 0 {
		return errors.E(errors.Invalid, "runner: no tools enabled")
	}
	seen := map[string]bool{}
	for _, t := range o.Tools {
		if seen[t.Name()] {
			return errors.E(errors.Invalid, fmt.Sprintf("runner: tool %s listed twice", t.Name()))
		}
		seen[t.Name()] = true
	}
	return shard.Validate(0, o.SplitCount, o.SplitIndex)
}

func (o *Opts) emit(ev Event) {
	ev.SplitIndex = o.SplitIndex
	if o.Progress != nil {
		o.Progress(ev)
		return
	}
	LogProgress(ev)
}

// OutputPath returns the table path of the given tool and shard.
func OutputPath(prefix string, splitIndex int, toolName string) string {
	return fmt.Sprintf("%s_%d_%s.csv", prefix, splitIndex, toolName)
}

// Run processes the shard of opts.InputPath selected by opts.SplitCount and
// opts.SplitIndex, and writes one table per tool.  The first error from any
// record aborts the run; no table is written in that case.  If writing a
// table fails, the tables already written by this run are removed.
func Run(ctx context.Context, opts Opts) error {
	if err := opts.validate(); err != nil {
		return err
	}
	records, err := fasta.Load(ctx, opts.InputPath)
	if err != nil {
		return errors.E(err, "runner: read", opts.InputPath)
	}
	return runShard(ctx, opts, records)
}

// RunAll runs every shard of opts.SplitCount, ignoring opts.SplitIndex.  The
// input is read once, and at most opts.Parallelism shards run at a time.  It
// returns the first error encountered; tables of shards that succeeded are
// kept.
func RunAll(ctx context.Context, opts Opts) error {
	if err := opts.validate(); err != nil {
		return err
	}
	records, err := fasta.Load(ctx, opts.InputPath)
	if err != nil {
		return errors.E(err, "runner: read", opts.InputPath)
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if progress := opts.Progress; progress != nil {
		var mu sync.Mutex
		opts.Progress = func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			progress(ev)
		}
	}
	log.Printf("runner: running %d shards of %s, %d at a time", opts.SplitCount, opts.InputPath, parallelism)
	return traverse.T{Limit: parallelism}.Each(opts.SplitCount, func(i int) error {
		o := opts
		o.SplitIndex = i
		return runShard(ctx, o, records)
	})
}

// runShard processes the shard of records selected by opts.  records is only
// read.
func runShard(ctx context.Context, opts Opts, records []fasta.Record) error {
	start := time.Now()
	r, err := shard.Partition(len(records), opts.SplitCount, opts.SplitIndex)
	if err != nil {
		return err
	}
	log.Printf("runner: shard %d/%d of %s: boundaries %v, processing %v",
		opts.SplitIndex, opts.SplitCount, opts.InputPath, shard.Boundaries(len(records), opts.SplitCount), r)
	opts.emit(Event{Kind: RangeStart, Index: r.Start, Total: len(records), Range: r})

	tables := make([]*resultTable, len(opts.Tools))
	for i, t := range opts.Tools {
		tables[i] = newResultTable(t.Columns())
	}
	for i := r.Start; i < r.End; i++ {
		if err := ctx.Err(); err != nil {
			kind := errors.Canceled
			if err == context.DeadlineExceeded {
				kind = errors.Timeout
			}
			return errors.E(kind, err, fmt.Sprintf("runner: stopped before record %d", i))
		}
		if err := processRecord(ctx, &opts, i, records[i], tables); err != nil {
			return err
		}
	}
	var written []string
	for i, t := range opts.Tools {
		path := OutputPath(opts.OutputPrefix, opts.SplitIndex, t.Name())
		if err := tables[i].write(ctx, path, opts.Window); err != nil {
			for _, p := range append(written, path) {
				if e := file.Remove(ctx, p); e != nil {
					log.Debug.Printf("runner: remove %s: %v", p, e)
				}
			}
			return errors.E(err, "runner: write", path)
		}
		written = append(written, path)
		opts.emit(Event{Kind: TableWritten, Tool: t.Name(), Path: path, Total: tables[i].len()})
	}
	log.Printf("runner: shard %d/%d done: %d records in %v", opts.SplitIndex, opts.SplitCount, r.Len(), time.Since(start))
	return nil
}

// processRecord runs every tool on one record and appends the reports to
// tables.  The record's staged FASTA file is removed before returning.
func processRecord(ctx context.Context, opts *Opts, index int, rec fasta.Record, tables []*resultTable) (err error) {
	tag, err := snp.Extract(rec.Description)
	if err != nil {
		return errors.E(err, fmt.Sprintf("runner: record %d (%s)", index, rec.ID))
	}
	opts.emit(Event{Kind: RecordStart, Index: index, RecordID: rec.ID, Tag: tag.String()})

	staged, err := ioutil.TempFile(opts.TempDir, "snpstruct-record-*.fa")
	if err != nil {
		return errors.E(err, "runner: stage record", rec.ID)
	}
	stagedPath := staged.Name()
	defer func() {
		if e := file.Remove(ctx, stagedPath); e != nil && err == nil {
			err = errors.E(e, "runner: remove", stagedPath)
		}
	}()
	var once errors.Once
	once.Set(fasta.WriteRecord(staged, rec))
	once.Set(staged.Close())
	if err = once.Err(); err != nil {
		return errors.E(err, "runner: stage record", rec.ID)
	}

	for i, t := range opts.Tools {
		table, err := t.Invoke(ctx, stagedPath, []snp.Tag{tag}, opts.Window)
		if err != nil {
			return errors.E(err, fmt.Sprintf("runner: record %d (%s), tool %s", index, rec.ID, t.Name()))
		}
		tables[i].append(rec.ID, table)
		opts.emit(Event{Kind: ToolDone, Index: index, RecordID: rec.ID, Tag: tag.String(), Tool: t.Name(), Total: table.Len()})
	}
	opts.emit(Event{Kind: RecordDone, Index: index, RecordID: rec.ID, Tag: tag.String()})
	return nil
}

// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// MergedPath returns the path of the merged table of a tool.
func MergedPath(prefix, toolName string) string {
	return fmt.Sprintf("%s_%s.csv", prefix, toolName)
}

// Merge concatenates the shard tables <prefix>_<i>_<tool>.csv, i in
// [0,splitCount), into MergedPath(prefix, tool) for each tool.  All shard
// tables of a tool must have the same header.
func Merge(ctx context.Context, prefix string, splitCount int, toolNames []string) error {
	if splitCount <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("merge: split count must be positive, got %d", splitCount))
	}
	for _, name := range toolNames {
		if err := mergeTool(ctx, prefix, splitCount, name); err != nil {
			return err
		}
	}
	return nil
}

func mergeTool(ctx context.Context, prefix string, splitCount int, toolName string) (err error) {
	// All shard tables are read and checked before the merged table is
	// created, so a failed merge leaves no output behind.
	var header []string
	tables := make([][][]string, splitCount)
	for i := range tables {
		src := OutputPath(prefix, i, toolName)
		rows, err := readTable(ctx, src)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return errors.E(errors.Invalid, "merge: no header in", src)
		}
		if header == nil {
			header = rows[0]
		} else if strings.Join(header, "\t") != strings.Join(rows[0], "\t") {
			return errors.E(errors.Invalid, fmt.Sprintf("merge: header of %s differs from %s", src, OutputPath(prefix, 0, toolName)))
		}
		tables[i] = rows[1:]
	}

	dst := MergedPath(prefix, toolName)
	out, err := file.Create(ctx, dst)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	w := tsv.NewWriter(out.Writer(ctx))
	if err = writeRow(w, header); err != nil {
		return errors.E(err, "merge: write", dst)
	}
	nRows := 0
	for _, rows := range tables {
		for _, row := range rows {
			if err = writeRow(w, row); err != nil {
				return errors.E(err, "merge: write", dst)
			}
			nRows++
		}
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "merge: write", dst)
	}
	log.Printf("merge: wrote %d rows from %d splits to %s", nRows, splitCount, dst)
	return nil
}

func writeRow(w *tsv.Writer, row []string) error {
	for _, c := range row {
		w.WriteString(c)
	}
	return w.EndLine()
}

func readTable(ctx context.Context, path string) (rows [][]string, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	r := tsv.NewReader(in.Reader(ctx))
	r.LazyQuotes = true
	r.FieldsPerRecord = 0
	// Rows are retained.
	r.ReuseRecord = false
	for {
		row, err := r.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "merge: read", path)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

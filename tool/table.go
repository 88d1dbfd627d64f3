// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tool

import (
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Table is a tool report: a header and rows of raw text cells.  Every row has
// exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Get returns the cell of the given row under column col, or "" if the table
// has no such column.
func (t *Table) Get(row int, col string) string {
	for i, c := range t.Columns {
		if c == col {
			return t.Rows[row][i]
		}
	}
	return ""
}

// ParseTable parses a tab-delimited report whose first line is the header.
// Cells are trimmed of surrounding whitespace and blank lines are skipped.
// Repeated header names get ".1", ".2", ... suffixes in order of appearance,
// so "interval p-value interval p-value" becomes
// "interval p-value interval.1 p-value.1".
func ParseTable(text string) (*Table, error) {
	r := tsv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = 0
	t := &Table{}
	for line := 1; ; line++ {
		rec, err := r.Reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("parse tool report line %d", line))
		}
		cells := make([]string, len(rec))
		for i, c := range rec {
			cells[i] = strings.TrimSpace(c)
		}
		if t.Columns == nil {
			t.Columns = uniqueColumns(cells)
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if t.Columns == nil {
		return nil, errors.E(errors.Invalid, "parse tool report: no header line")
	}
	return t, nil
}

func uniqueColumns(names []string) []string {
	seen := make(map[string]int, len(names))
	cols := make([]string, len(names))
	for i, name := range names {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			cols[i] = name
			continue
		}
		cols[i] = fmt.Sprintf("%s.%d", name, n)
	}
	return cols
}

// CleanOutput scans a tool's standard output line by line.  A line
// containing "error" (in any case) aborts with an error carrying the line.
// Lines containing "warning" are reported through warn and dropped.  The
// remaining lines are returned unchanged.
func CleanOutput(name, input, stdout string, warn func(string, ...interface{})) (string, error) {
	if warn == nil {
		warn = log.Error.Printf
	}
	var b strings.Builder
	for _, line := range strings.Split(stdout, "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "error"):
			return "", errors.E(fmt.Sprintf("%s returned error for: %s message is: %s", name, input, line))
		case strings.Contains(lower, "warning"):
			warn("%s returned warning for: %s message is: %s", name, input, line)
		default:
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

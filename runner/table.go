// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package runner

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/snpstruct/tool"
)

// IDColumn is the header of the record identifier column.
const IDColumn = "ID"

// ProvenanceColumn returns the header of the trailing column that records the
// run parameters.  Its cells are left empty.
func ProvenanceColumn(window int) string {
	return fmt.Sprintf("tool-parameters:window=%d", window)
}

// resultTable accumulates the reports of one tool across records.  Rows are
// aligned by column name; columns a report adds beyond the expected schema
// are appended in first-seen order and older rows get empty cells for them.
type resultTable struct {
	columns []string
	index   map[string]int
	ids     []string
	rows    [][]string
}

func newResultTable(columns []string) *resultTable {
	t := &resultTable{index: map[string]int{}}
	for _, c := range columns {
		t.column(c)
	}
	return t
}

// column returns the position of name, adding it if needed.
func (t *resultTable) column(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	return len(t.columns) - 1
}

func (t *resultTable) len() int { return len(t.rows) }

// append adds every row of report under the record id.
func (t *resultTable) append(id string, report *tool.Table) {
	pos := make([]int, len(report.Columns))
	for i, c := range report.Columns {
		if c == IDColumn {
			pos[i] = -1
			continue
		}
		pos[i] = t.column(c)
	}
	for _, r := range report.Rows {
		row := make([]string, len(t.columns))
		for i, cell := range r {
			if i < len(pos) && pos[i] >= 0 {
				row[pos[i]] = cell
			}
		}
		t.ids = append(t.ids, id)
		t.rows = append(t.rows, row)
	}
}

// write stores the table as tab-separated text at path.
func (t *resultTable) write(ctx context.Context, path string, window int) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	w := tsv.NewWriter(out.Writer(ctx))
	w.WriteString(IDColumn)
	for _, c := range t.columns {
		w.WriteString(c)
	}
	w.WriteString(ProvenanceColumn(window))
	if err = w.EndLine(); err != nil {
		return errors.E(err, "write header")
	}
	for i, row := range t.rows {
		w.WriteString(t.ids[i])
		for j := range t.columns {
			// Rows added before a column appeared are short.
			if j < len(row) {
				w.WriteString(row[j])
			} else {
				w.WriteString("")
			}
		}
		w.WriteString("")
		if err = w.EndLine(); err != nil {
			return errors.E(err, fmt.Sprintf("write row %d", i))
		}
	}
	return w.Flush()
}

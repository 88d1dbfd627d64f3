// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package runner

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/snpstruct/shard"
)

// EventKind identifies a progress step.
type EventKind int

const (
	// RangeStart is sent once the shard's record range is known.
	RangeStart EventKind = iota
	// RecordStart is sent before the tools run on a record.
	RecordStart
	// ToolDone is sent after one tool finished a record.
	ToolDone
	// RecordDone is sent after all tools finished a record.
	RecordDone
	// TableWritten is sent after a tool's output table was written.
	TableWritten
)

func (k EventKind) String() string {
	switch k {
	case RangeStart:
		return "range-start"
	case RecordStart:
		return "record-start"
	case ToolDone:
		return "tool-done"
	case RecordDone:
		return "record-done"
	case TableWritten:
		return "table-written"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event reports progress of a run.  Fields not relevant to Kind are zero.
type Event struct {
	Kind       EventKind
	SplitIndex int
	// Index is the record index in the input (for RangeStart, the first index
	// of the range).
	Index int
	// Total is the record count of the input for RangeStart, and the row
	// count of the report or table for ToolDone and TableWritten.
	Total    int
	Range    shard.Range
	RecordID string
	Tag      string
	Tool     string
	Path     string
}

// LogProgress logs ev.  Per-tool steps are logged at debug level.
func LogProgress(ev Event) {
	switch ev.Kind {
	case RangeStart:
		log.Printf("split %d: %d of %d records in range %v", ev.SplitIndex, ev.Range.Len(), ev.Total, ev.Range)
	case RecordStart:
		log.Printf("split %d: processing record %d %s (%s)", ev.SplitIndex, ev.Index, ev.RecordID, ev.Tag)
	case ToolDone:
		log.Debug.Printf("split %d: %s done for %s: %d rows", ev.SplitIndex, ev.Tool, ev.RecordID, ev.Total)
	case RecordDone:
		log.Debug.Printf("split %d: record %d done", ev.SplitIndex, ev.Index)
	case TableWritten:
		log.Printf("split %d: wrote %d rows to %s", ev.SplitIndex, ev.Total, ev.Path)
	}
}

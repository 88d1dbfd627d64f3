// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package shard splits a record sequence into contiguous ranges so that
// independent invocations can each process one of them.
package shard

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Range is a 0-based half-open interval [Start, End) of record indexes.
type Range struct {
	Start, End int
}

// Len returns the number of records in the range.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range contains no records.
func (r Range) Empty() bool { return r.End <= r.Start }

// String implements fmt.Stringer.
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Stride returns ceil(total/count), the number of records per shard.
func Stride(total, count int) int {
	return (total + count - 1) / count
}

// Validate checks the arguments of Partition.
func Validate(total, count, index int) error {
	if total < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("shard: negative record count %d", total))
	}
	if count <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("shard: split count must be positive, got %d", count))
	}
	if index < 0 || index >= count {
		return errors.E(errors.Invalid, fmt.Sprintf("shard: split index %d out of range [0, %d)", index, count))
	}
	return nil
}

// Boundaries returns the shard boundaries [0, stride, 2*stride, ..., total].
// The last boundary is always total.  For total == 0 it returns [0, 0].
func Boundaries(total, count int) []int {
	stride := Stride(total, count)
	if stride == 0 {
		return []int{0, 0}
	}
	var b []int
	for off := 0; off < total; off += stride {
		b = append(b, off)
	}
	return append(b, total)
}

// Partition returns the range assigned to shard index out of count shards
// over total records.  The ranges for indexes 0..count-1 are contiguous and
// cover [0, total) exactly once.  Shards past the last boundary get the empty
// range [total, total).
func Partition(total, count, index int) (Range, error) {
	if err := Validate(total, count, index); err != nil {
		return Range{}, err
	}
	b := Boundaries(total, count)
	if index+1 >= len(b) {
		return Range{Start: total, End: total}, nil
	}
	return Range{Start: b[index], End: b[index+1]}, nil
}

// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tool

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/snpstruct/snp"
)

const (
	// RNAsnpName is the name of the RNAsnp adapter.
	RNAsnpName = "rnasnp"
	// RNAsnpMaxWindow is the largest window RNAsnp accepts.
	RNAsnpMaxWindow = 800
)

// RNAsnpColumns is the RNAsnp report header.  RNAsnp repeats the interval and
// p-value columns for its two distance measures.
var RNAsnpColumns = []string{"SNP", "w", "Slen", "GC", "interval", "d_max", "p-value", "interval.1", "r_min", "p-value.1"}

// NewRNAsnp returns an adapter for RNAsnp, run as
//
//   exe -f <fasta> -s <tag file> [-w <window>]
//
// The tag file lists one SNP tag per line.  Windows larger than
// RNAsnpMaxWindow are clamped.  RNAsnp is chatty on standard error, so its
// standard error is only logged.
func NewRNAsnp(exe string) *Tool {
	return &Tool{
		Exe:       exe,
		name:      RNAsnpName,
		columns:   RNAsnpColumns,
		maxWindow: RNAsnpMaxWindow,
		stderr:    LogOnly,
		suffix:    ".snp",
		stage: func(_ context.Context, w io.Writer, _ string, tags []snp.Tag) error {
			_, err := io.WriteString(w, strings.Join(snp.Strings(tags), "\n")+"\n")
			return err
		},
		args: func(faPath, stagedPath string, window int) []string {
			args := []string{"-f", faPath, "-s", stagedPath}
			if window > 0 {
				args = append(args, "-w", strconv.Itoa(window))
			}
			return args
		},
	}
}

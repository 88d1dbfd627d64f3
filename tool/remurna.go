// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tool

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/snpstruct/snp"
)

// RemuRNAName is the name of the remuRNA adapter.
const RemuRNAName = "remurna"

// RemuRNAColumns is the remuRNA report header.
var RemuRNAColumns = []string{"SNP", "MFE(wt)", "MFE(mu)", "dMFE", "H(wt||mu)", "GCratio"}

// NewRemuRNA returns an adapter for remuRNA, run as
//
//   exe <staged fasta> -p=1 [-w=<window>]
//
// The staged fasta is the input sequence followed by one "*<tag>" line.
// remuRNA evaluates a single tag per call, and any standard error output is
// fatal.
func NewRemuRNA(exe string) *Tool {
	return &Tool{
		Exe:     exe,
		name:    RemuRNAName,
		columns: RemuRNAColumns,
		maxTags: 1,
		stderr:  FatalOnAny,
		suffix:  ".fa",
		stage: func(ctx context.Context, w io.Writer, faPath string, tags []snp.Tag) error {
			in, err := file.Open(ctx, faPath)
			if err != nil {
				return err
			}
			data, err := ioutil.ReadAll(in.Reader(ctx))
			if e := in.Close(ctx); e != nil && err == nil {
				err = e
			}
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			buf.Write(data)
			if len(data) > 0 && data[len(data)-1] != '\n' {
				buf.WriteByte('\n')
			}
			for _, tag := range tags {
				buf.WriteString("*" + tag.String() + "\n")
			}
			_, err = w.Write(buf.Bytes())
			return err
		},
		args: func(_, stagedPath string, window int) []string {
			args := []string{stagedPath, "-p=1"}
			if window > 0 {
				args = append(args, "-w="+strconv.Itoa(window))
			}
			return args
		},
	}
}

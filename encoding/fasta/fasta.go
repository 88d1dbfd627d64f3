// Package fasta contains code for reading and writing FASTA files whose
// header lines carry free-text descriptions.  FASTA files consist of a number
// of named sequences that may be interrupted by newlines.  For example:
//
// >var1 wild-type hairpin G20C
// ACGUAC
// GAGGAC
// >var2 loop variant A3U
// ACGU
//
// The record ID is the stretch of characters excluding spaces immediately
// after '>', and the description is the whole header line after '>'.  For
// example, '>var1 wild-type hairpin G20C' has ID 'var1' and description
// 'var1 wild-type hairpin G20C'.
package fasta

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const (
	bufferInitSize = 1024 * 1024 * 300 // 300 MB
)

// Record is one FASTA entry.  Records are immutable once read.
type Record struct {
	// ID is the first whitespace-delimited token of the header line.
	ID string
	// Description is the full header line, without the leading '>'.
	Description string
	// Seq is the concatenation of all sequence lines.
	Seq string
}

// ReadRecords reads all records from r, in the order of appearance.
func ReadRecords(r io.Reader) ([]Record, error) {
	var (
		records []Record
		cur     *Record
		seq     strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Seq = seq.String()
			records = append(records, *cur)
			seq.Reset()
		}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new record.
			flush()
			desc := strings.TrimSpace(line[1:])
			if desc == "" {
				return nil, errors.Errorf("malformed FASTA file: empty header line after %d records", len(records))
			}
			cur = &Record{ID: strings.Fields(desc)[0], Description: desc}
			continue
		}
		if cur == nil {
			return nil, errors.Errorf("malformed FASTA file: sequence data before the first header")
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	flush()
	return records, nil
}

// Load reads all records of the FASTA file at path.  Paths ending in ".gz"
// are decompressed on the fly.
func Load(ctx context.Context, path string) (records []Record, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(r); err != nil {
			return nil, errors.Wrapf(err, "%s: gzip", path)
		}
		defer func() {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}()
		r = gz
	}
	if records, err = ReadRecords(r); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return records, nil
}

// WriteRecord writes r to w as a single-line FASTA entry.
func WriteRecord(w io.Writer, r Record) error {
	if _, err := io.WriteString(w, ">"+r.Description+"\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, r.Seq+"\n")
	return err
}

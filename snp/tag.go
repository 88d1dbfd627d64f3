// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package snp extracts single-nucleotide substitution tags such as "G20C"
// from free-text FASTA descriptions.
package snp

import (
	"regexp"
	"strconv"

	"github.com/grailbio/base/errors"
)

var (
	// A tag ends the description: one non-digit, digits, one non-digit.
	trailingTagRE = regexp.MustCompile(`(\D)(\d+)(\D)$`)
	bareTagRE     = regexp.MustCompile(`^(\D)(\d+)(\D)$`)
)

// Tag is a single-nucleotide substitution at a 1-based position.
type Tag struct {
	Ref string
	Pos int
	Alt string

	// raw is the matched text, kept so that String round-trips zero-padded
	// positions.
	raw string
}

// String returns the tag as it appeared in the description, e.g. "G20C".
func (t Tag) String() string {
	if t.raw != "" {
		return t.raw
	}
	return t.Ref + strconv.Itoa(t.Pos) + t.Alt
}

// Pos0 returns the 0-based offset of the substituted base.
func (t Tag) Pos0() int { return t.Pos - 1 }

// Extract returns the tag at the end of desc.  It returns an error of kind
// errors.NotExist if desc does not end in a tag.
func Extract(desc string) (Tag, error) {
	m := trailingTagRE.FindStringSubmatch(desc)
	if m == nil {
		return Tag{}, errors.E(errors.NotExist, "SNP tag not found for desc:", desc)
	}
	return newTag(m)
}

// ParseTag parses s, which must consist of a tag only.
func ParseTag(s string) (Tag, error) {
	m := bareTagRE.FindStringSubmatch(s)
	if m == nil {
		return Tag{}, errors.E(errors.Invalid, "malformed SNP tag:", s)
	}
	return newTag(m)
}

func newTag(m []string) (Tag, error) {
	pos, err := strconv.Atoi(m[2])
	if err != nil {
		return Tag{}, errors.E(errors.Invalid, err, "SNP tag position:", m[0])
	}
	return Tag{Ref: m[1], Pos: pos, Alt: m[3], raw: m[0]}, nil
}

// Strings returns the textual form of each tag.
func Strings(tags []Tag) []string {
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = t.String()
	}
	return s
}

// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tool

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
)

var constructors = map[string]func(exe string) *Tool{
	RNAsnpName:  NewRNAsnp,
	RemuRNAName: NewRemuRNA,
}

// Names lists the known tools in their default run order.
func Names() []string { return []string{RNAsnpName, RemuRNAName} }

// New returns the adapter registered under name, running exe.
func New(name, exe string) (*Tool, error) {
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown tool %q, expect one of %v", name, Names()))
	}
	return ctor(exe), nil
}

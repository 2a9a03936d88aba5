// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"strings"

	"periph.io/x/conn/v3"
)

// Lines is a set of bus control lines.
//
// Bits are ordered in the sequence a Port applies them, so DC settles before
// CS is asserted and WR moves last.
type Lines uint8

const (
	// DC selects data when High and command when Low.
	DC Lines = 1 << iota
	// CS is the active low chip select.
	CS
	// WR is the active low write strobe.
	WR
	// RD is the active low read strobe.
	RD

	// AllLines is every control line.
	AllLines = DC | CS | WR | RD
)

var lineNames = [...]string{"DC", "CS", "WR", "RD"}

func (l Lines) String() string {
	if l == 0 {
		return "0"
	}
	var parts []string
	for i, n := range lineNames {
		if l&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// Port drives the physical lines of a bus.
//
// Every call must take effect on the hardware before it returns. Bus relies
// on the call order to produce valid strobes.
type Port interface {
	conn.Resource
	// Control drives the lines in mask. A line goes High when its bit is set
	// in level.
	Control(level, mask Lines) error
	// Data drives v onto D0-D7. Bit 0 is D0.
	Data(v byte) error
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidMapping is returned when a Mapping cannot describe a bus.
var ErrInvalidMapping = errors.New("bus8080: invalid mapping")

// Bit locates one line in a set of registers.
type Bit struct {
	// Reg is the index of the register passed to NewDirectPort.
	Reg int
	// Mask has exactly one bit set.
	Mask uint32
}

// Mapping assigns each bus line to a register bit.
//
// RD may be left zero, in which case it is not driven.
type Mapping struct {
	Name string
	DC   Bit
	CS   Bit
	WR   Bit
	RD   Bit
	D    [8]Bit
}

// Validate checks that every line owns a distinct single bit in one of n
// registers.
func (m *Mapping) Validate(n int) error {
	seen := map[Bit]string{}
	check := func(name string, b Bit) error {
		if bits.OnesCount32(b.Mask) != 1 {
			return fmt.Errorf("%w: %s: mask 0x%x is not a single bit", ErrInvalidMapping, name, b.Mask)
		}
		if b.Reg < 0 || b.Reg >= n {
			return fmt.Errorf("%w: %s: register %d out of range [0, %d)", ErrInvalidMapping, name, b.Reg, n)
		}
		if other, ok := seen[b]; ok {
			return fmt.Errorf("%w: %s and %s share register %d bit 0x%x", ErrInvalidMapping, other, name, b.Reg, b.Mask)
		}
		seen[b] = name
		return nil
	}
	for i, b := range [...]Bit{m.DC, m.CS, m.WR} {
		if err := check(lineNames[i], b); err != nil {
			return err
		}
	}
	if m.RD.Mask != 0 {
		if err := check("RD", m.RD); err != nil {
			return err
		}
	}
	for i, b := range m.D {
		if err := check(fmt.Sprintf("D%d", i), b); err != nil {
			return err
		}
	}
	return nil
}

// Register indices used by the Texas Instruments LaunchPad mappings.
const (
	P1 = iota
	P2
	P3
	P4
	P5
	P6
)

// F5529BoosterPack is the MSP430F5529 LaunchPad with the BoosterPack plugged
// directly in.
var F5529BoosterPack = Mapping{
	Name: "F5529BoosterPack",
	DC:   Bit{P4, 0x04},
	CS:   Bit{P4, 0x02},
	WR:   Bit{P2, 0x80},
	D: [8]Bit{
		{P3, 0x10},
		{P3, 0x08},
		{P2, 0x01},
		{P1, 0x20},
		{P3, 0x04},
		{P6, 0x20},
		{P3, 0x02},
		{P3, 0x01},
	},
}

// F5529InterfaceBoard is the MSP430F5529 LaunchPad with the BoosterPack on
// the interface board. Every data bit is aligned.
var F5529InterfaceBoard = Mapping{
	Name: "F5529InterfaceBoard",
	DC:   Bit{P1, 0x10},
	CS:   Bit{P1, 0x08},
	WR:   Bit{P1, 0x20},
	D: [8]Bit{
		{P6, 0x01},
		{P6, 0x02},
		{P6, 0x04},
		{P6, 0x08},
		{P6, 0x10},
		{P3, 0x20},
		{P3, 0x40},
		{P3, 0x80},
	},
}

// MSP432BoosterPack is the MSP432P401R LaunchPad with the BoosterPack
// plugged directly in.
var MSP432BoosterPack = Mapping{
	Name: "MSP432BoosterPack",
	DC:   Bit{P6, 0x20},
	CS:   Bit{P6, 0x10},
	WR:   Bit{P4, 0x40},
	D: [8]Bit{
		{P3, 0x04},
		{P3, 0x08},
		{P2, 0x20},
		{P2, 0x10},
		{P1, 0x20},
		{P6, 0x01},
		{P1, 0x80},
		{P1, 0x40},
	},
}

// BCMMapping returns a single register Mapping for bcm283x GPIO numbers, to
// be used with BCMBank0. Pass a negative rd when RD is not wired.
func BCMMapping(dc, cs, wr, rd int, d [8]int) Mapping {
	bit := func(n int) Bit {
		if n < 0 || n > 31 {
			return Bit{}
		}
		return Bit{Mask: 1 << uint(n)}
	}
	m := Mapping{
		Name: fmt.Sprintf("BCM(DC:%d CS:%d WR:%d)", dc, cs, wr),
		DC:   bit(dc),
		CS:   bit(cs),
		WR:   bit(wr),
		RD:   bit(rd),
	}
	for i, n := range d {
		m.D[i] = bit(n)
	}
	return m
}

// route moves one data bit to one register bit.
type route struct {
	from byte
	to   uint32
}

// spread computes the register bits for v one bit at a time.
func spread(v byte, routes []route) uint32 {
	var out uint32
	for _, r := range routes {
		if v&r.from != 0 {
			out |= r.to
		}
	}
	return out
}

func buildTable(routes []route) *[256]uint32 {
	t := new([256]uint32)
	for v := range 256 {
		t[v] = spread(byte(v), routes)
	}
	return t
}

// dataPlan writes the data bits held by one register.
//
// Aligned bits are masked through. A lone misaligned bit is tested. Two or
// more misaligned bits go through a table.
type dataPlan struct {
	reg     int
	all     uint32
	aligned uint32
	single  route
	table   *[256]uint32
}

func (p *dataPlan) bits(v byte) uint32 {
	out := uint32(v) & p.aligned
	switch {
	case p.table != nil:
		out |= p.table[v]
	case v&p.single.from != 0:
		out |= p.single.to
	}
	return out
}

func planData(m *Mapping) []dataPlan {
	var plans []dataPlan
	var misaligned [][]route
	index := map[int]int{}
	for i, b := range m.D {
		j, ok := index[b.Reg]
		if !ok {
			j = len(plans)
			index[b.Reg] = j
			plans = append(plans, dataPlan{reg: b.Reg})
			misaligned = append(misaligned, nil)
		}
		p := &plans[j]
		p.all |= b.Mask
		if b.Mask == 1<<uint(i) {
			p.aligned |= b.Mask
		} else {
			misaligned[j] = append(misaligned[j], route{from: 1 << uint(i), to: b.Mask})
		}
	}
	for j, r := range misaligned {
		switch len(r) {
		case 0:
		case 1:
			plans[j].single = r[0]
		default:
			plans[j].table = buildTable(r)
		}
	}
	return plans
}

// DirectPort is a Port that writes output registers directly.
type DirectPort struct {
	name string
	regs []Register
	ctrl [4]Bit
	data []dataPlan
}

// NewDirectPort returns a Port driving regs according to m.
//
// Registers not referenced by m may be nil.
func NewDirectPort(regs []Register, m *Mapping) (*DirectPort, error) {
	if err := m.Validate(len(regs)); err != nil {
		return nil, err
	}
	d := &DirectPort{
		name: m.Name,
		regs: regs,
		ctrl: [4]Bit{m.DC, m.CS, m.WR, m.RD},
		data: planData(m),
	}
	for _, b := range d.ctrl {
		if b.Mask != 0 && regs[b.Reg] == nil {
			return nil, fmt.Errorf("%w: register %d is nil", ErrInvalidMapping, b.Reg)
		}
	}
	for _, p := range d.data {
		if regs[p.reg] == nil {
			return nil, fmt.Errorf("%w: register %d is nil", ErrInvalidMapping, p.reg)
		}
	}
	return d, nil
}

// Control implements Port.
//
// Lines sharing a register are written together, set before clear.
func (d *DirectPort) Control(level, mask Lines) error {
	type op struct {
		reg      int
		set, clr uint32
	}
	var ops [4]op
	n := 0
	for i, b := range d.ctrl {
		bit := Lines(1 << i)
		if mask&bit == 0 || b.Mask == 0 {
			continue
		}
		j := 0
		for j < n && ops[j].reg != b.Reg {
			j++
		}
		if j == n {
			ops[n] = op{reg: b.Reg}
			n++
		}
		if level&bit != 0 {
			ops[j].set |= b.Mask
		} else {
			ops[j].clr |= b.Mask
		}
	}
	for _, o := range ops[:n] {
		r := d.regs[o.reg]
		if o.set != 0 {
			if err := r.Set(o.set); err != nil {
				return err
			}
		}
		if o.clr != 0 {
			if err := r.Clear(o.clr); err != nil {
				return err
			}
		}
	}
	return nil
}

// Data implements Port.
func (d *DirectPort) Data(v byte) error {
	for i := range d.data {
		p := &d.data[i]
		r := d.regs[p.reg]
		if err := r.Clear(p.all); err != nil {
			return err
		}
		if b := p.bits(v); b != 0 {
			if err := r.Set(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// Halt implements conn.Resource.
func (d *DirectPort) Halt() error {
	return d.Control(AllLines, CS|WR|RD)
}

func (d *DirectPort) String() string {
	return "DirectPort{" + d.name + "}"
}

var _ Port = &DirectPort{}

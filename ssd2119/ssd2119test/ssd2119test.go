// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd2119test emulates an SSD2119 panel behind a bus8080.Port.
//
// Panel decodes the bus traffic into register writes and GRAM updates. It
// honors the entry mode scan direction, the window registers and the RAM
// address counters, so the pixels end up where the real panel would show
// them.
package ssd2119test

import (
	"image"

	"github.com/GermanBionicSystems/kentec35/bus8080/bus8080test"
	"github.com/GermanBionicSystems/kentec35/image565"
	"github.com/GermanBionicSystems/kentec35/ssd2119"
)

// Write is one register write.
type Write struct {
	Reg   ssd2119.Reg
	Value uint16
}

// Panel implements bus8080.Port.
//
// Grab the embedded Record's Mutex before reading the Record fields directly.
type Panel struct {
	*bus8080test.Record

	regs   [256]uint16
	index  ssd2119.Reg
	hi     byte
	half   bool
	x, y   int
	log    []Write
	pixels int
	gram   *image565.Image
}

// NewPanel returns a Panel with the controller reset values and a black
// GRAM.
func NewPanel() *Panel {
	p := &Panel{
		Record: bus8080test.NewRecord(),
		gram:   image565.NewImage(image.Rect(0, 0, ssd2119.Width, ssd2119.Height)),
	}
	p.regs[ssd2119.RegEntryMode] = ssd2119.EntryModeDefault
	p.regs[ssd2119.RegSleepMode] = 1
	p.regs[ssd2119.RegHRAMEnd] = ssd2119.Width - 1
	p.regs[ssd2119.RegVRAMPos] = (ssd2119.Height - 1) << 8
	p.Record.OnTransfer = p.transfer
	return p
}

func (p *Panel) transfer(t bus8080test.Transfer) {
	if !t.Data {
		p.index = ssd2119.Reg(t.Value)
		p.half = false
		return
	}
	if !p.half {
		p.hi = t.Value
		p.half = true
		return
	}
	p.half = false
	v := uint16(p.hi)<<8 | uint16(t.Value)
	if p.index == ssd2119.RegRAMData {
		p.pixel(image565.Color(v))
		return
	}
	p.regs[p.index] = v
	p.log = append(p.log, Write{Reg: p.index, Value: v})
	switch p.index {
	case ssd2119.RegXRAMAddr:
		p.x = int(v)
	case ssd2119.RegYRAMAddr:
		p.y = int(v)
	}
}

// pixel stores c at the cursor and advances it inside the window.
func (p *Panel) pixel(c image565.Color) {
	p.gram.SetColor565(p.x, p.y, c)
	p.pixels++
	e := p.regs[ssd2119.RegEntryMode]
	hs, he := int(p.regs[ssd2119.RegHRAMStart]), int(p.regs[ssd2119.RegHRAMEnd])
	vs, ve := int(p.regs[ssd2119.RegVRAMPos]&0xFF), int(p.regs[ssd2119.RegVRAMPos]>>8)
	stepX := func() bool {
		return step(&p.x, hs, he, e&ssd2119.EntryID0 != 0)
	}
	stepY := func() bool {
		return step(&p.y, vs, ve, e&ssd2119.EntryID1 != 0)
	}
	if e&ssd2119.EntryAM != 0 {
		if stepY() {
			stepX()
		}
	} else if stepX() {
		stepY()
	}
}

// step moves v one unit and wraps it inside [lo, hi]. It returns true on
// wrap.
func step(v *int, lo, hi int, inc bool) bool {
	if inc {
		*v++
		if *v > hi {
			*v = lo
			return true
		}
		return false
	}
	*v--
	if *v < lo {
		*v = hi
		return true
	}
	return false
}

// Reg returns the last value written to r, or its reset value.
func (p *Panel) Reg(r ssd2119.Reg) uint16 {
	p.Lock()
	defer p.Unlock()
	return p.regs[r]
}

// Writes returns the register writes so far, RAM data excluded.
func (p *Panel) Writes() []Write {
	p.Lock()
	defer p.Unlock()
	return append([]Write(nil), p.log...)
}

// Pixels returns the number of pixels written so far.
func (p *Panel) Pixels() int {
	p.Lock()
	defer p.Unlock()
	return p.pixels
}

// Cursor returns the GRAM address counter.
func (p *Panel) Cursor() image.Point {
	p.Lock()
	defer p.Unlock()
	return image.Pt(p.x, p.y)
}

// Sleeping is true while the sleep mode register is set.
func (p *Panel) Sleeping() bool {
	return p.Reg(ssd2119.RegSleepMode)&1 != 0
}

// Reset forgets the register writes, pixel count and bus transfers. GRAM and
// registers are kept.
func (p *Panel) Reset() {
	p.Lock()
	defer p.Unlock()
	p.log = nil
	p.pixels = 0
	p.Record.Transfers = nil
}

// At returns the GRAM pixel in controller coordinates.
func (p *Panel) At(x, y int) image565.Color {
	p.Lock()
	defer p.Unlock()
	return p.gram.Color565At(x, y)
}

// Image returns a copy of the GRAM in controller coordinates.
func (p *Panel) Image() *image565.Image {
	p.Lock()
	defer p.Unlock()
	img := image565.NewImage(p.gram.Rect)
	copy(img.Pix, p.gram.Pix)
	return img
}

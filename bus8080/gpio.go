// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"
)

// ErrMissingPin is returned when a required line has no pin.
var ErrMissingPin = errors.New("bus8080: missing pin")

// Pins assigns one gpio.PinOut to each bus line.
//
// RD is optional. When set, it is held High.
type Pins struct {
	DC gpio.PinOut
	CS gpio.PinOut
	WR gpio.PinOut
	RD gpio.PinOut
	D  [8]gpio.PinOut
}

func isMissing(p gpio.PinOut) bool {
	return p == nil || p == gpio.INVALID
}

func (p *Pins) validate(needData bool) error {
	for i, c := range [...]gpio.PinOut{p.DC, p.CS, p.WR} {
		if isMissing(c) {
			return fmt.Errorf("%w: %s", ErrMissingPin, lineNames[i])
		}
	}
	if !needData {
		return nil
	}
	for i, d := range p.D {
		if isMissing(d) {
			return fmt.Errorf("%w: D%d", ErrMissingPin, i)
		}
	}
	return nil
}

// controlPins drives the control lines, indexed by Lines bit position.
type controlPins [4]gpio.PinOut

func newControlPins(p *Pins) controlPins {
	c := controlPins{p.DC, p.CS, p.WR, p.RD}
	if isMissing(c[3]) {
		c[3] = nil
	}
	return c
}

func (c *controlPins) drive(level, mask Lines) error {
	for i, p := range c {
		bit := Lines(1 << i)
		if mask&bit == 0 || p == nil {
			continue
		}
		if err := p.Out(level&bit != 0); err != nil {
			return err
		}
	}
	return nil
}

func (c *controlPins) String() string {
	var parts []string
	for i, p := range c {
		if p != nil {
			parts = append(parts, lineNames[i]+":"+p.Name())
		}
	}
	return strings.Join(parts, ", ")
}

// GPIOPort is a Port that toggles individual pins.
type GPIOPort struct {
	ctrl controlPins
	d    [8]gpio.PinOut
}

// NewGPIOPort returns a Port using one pin per line.
func NewGPIOPort(p *Pins) (*GPIOPort, error) {
	if err := p.validate(true); err != nil {
		return nil, err
	}
	return &GPIOPort{ctrl: newControlPins(p), d: p.D}, nil
}

// Control implements Port.
func (g *GPIOPort) Control(level, mask Lines) error {
	return g.ctrl.drive(level, mask)
}

// Data implements Port.
func (g *GPIOPort) Data(v byte) error {
	for i, p := range g.d {
		if err := p.Out(v&(1<<i) != 0); err != nil {
			return err
		}
	}
	return nil
}

// Halt implements conn.Resource.
//
// It releases the chip select.
func (g *GPIOPort) Halt() error {
	return g.ctrl.drive(AllLines, CS|WR|RD)
}

func (g *GPIOPort) String() string {
	var names [8]string
	for i, p := range g.d {
		names[i] = p.Name()
	}
	return fmt.Sprintf("GPIOPort{%s, D:%s}", g.ctrl.String(), strings.Join(names[:], ","))
}

var _ Port = &GPIOPort{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// GroupPort is a Port that writes D0-D7 as a single gpio.Group operation.
//
// Offset 0 of the group is D0.
type GroupPort struct {
	ctrl controlPins
	data gpio.Group
}

// NewGroupPort returns a Port using discrete control pins and a group of at
// least eight data pins. p.D is ignored.
func NewGroupPort(p *Pins, data gpio.Group) (*GroupPort, error) {
	if err := p.validate(false); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: data group", ErrMissingPin)
	}
	if n := len(data.Pins()); n < 8 {
		return nil, fmt.Errorf("bus8080: data group has %d pins, need 8", n)
	}
	return &GroupPort{ctrl: newControlPins(p), data: data}, nil
}

// Control implements Port.
func (g *GroupPort) Control(level, mask Lines) error {
	return g.ctrl.drive(level, mask)
}

// Data implements Port.
func (g *GroupPort) Data(v byte) error {
	return g.data.Out(gpio.GPIOValue(v), 0xff)
}

// Halt implements conn.Resource.
func (g *GroupPort) Halt() error {
	if err := g.ctrl.drive(AllLines, CS|WR|RD); err != nil {
		return err
	}
	return g.data.Halt()
}

func (g *GroupPort) String() string {
	return fmt.Sprintf("GroupPort{%s, D:%s}", g.ctrl.String(), g.data)
}

var _ Port = &GroupPort{}

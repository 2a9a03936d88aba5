// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"errors"
	"fmt"

	"periph.io/x/host/v3/bcm283x"
	"periph.io/x/host/v3/pmem"
)

// Register is a handle on a hardware output register shared by several
// lines.
//
// The handle does not own the register. Bits outside mask must not change.
type Register interface {
	// Set drives the bits in mask High.
	Set(mask uint32) error
	// Clear drives the bits in mask Low.
	Clear(mask uint32) error
}

// MemRegister is a Register held in memory.
//
// It is useful to compute what a DirectPort writes without hardware.
type MemRegister struct {
	V uint32
}

// Set implements Register.
func (m *MemRegister) Set(mask uint32) error {
	m.V |= mask
	return nil
}

// Clear implements Register.
func (m *MemRegister) Clear(mask uint32) error {
	m.V &^= mask
	return nil
}

// BCMBank0 drives GPIO0 to GPIO31 of a Broadcom bcm283x through its set and
// clear registers.
//
// host.Init() must have been called. The pins must already be outputs.
type BCMBank0 struct{}

// NewBCMBank0 returns a Register for the first bcm283x GPIO bank.
func NewBCMBank0() (BCMBank0, error) {
	if !bcm283x.Present() {
		return BCMBank0{}, errors.New("bus8080: bcm283x not present")
	}
	return BCMBank0{}, nil
}

// Set implements Register.
func (BCMBank0) Set(mask uint32) error {
	bcm283x.PinsSet0To31(mask)
	return nil
}

// Clear implements Register.
func (BCMBank0) Clear(mask uint32) error {
	bcm283x.PinsClear0To31(mask)
	return nil
}

// MapRegister is a 32 bit output register reached through /dev/mem.
//
// Writes are read-modify-write and are not atomic with respect to other
// users of the register.
type MapRegister struct {
	view *pmem.View
	reg  *uint32
}

// MapOutputRegister maps the 32 bit register at physical address phys.
func MapOutputRegister(phys uint64) (*MapRegister, error) {
	v, err := pmem.Map(phys, 4)
	if err != nil {
		return nil, fmt.Errorf("bus8080: mapping 0x%x: %w", phys, err)
	}
	return &MapRegister{view: v, reg: &v.Uint32()[0]}, nil
}

// Set implements Register.
func (m *MapRegister) Set(mask uint32) error {
	*m.reg |= mask
	return nil
}

// Clear implements Register.
func (m *MapRegister) Clear(mask uint32) error {
	*m.reg &^= mask
	return nil
}

// Close unmaps the register.
func (m *MapRegister) Close() error {
	return m.view.Close()
}

var _ Register = &MemRegister{}
var _ Register = BCMBank0{}
var _ Register = &MapRegister{}

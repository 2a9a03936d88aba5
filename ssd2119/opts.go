// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

import (
	"fmt"
	"strconv"

	"github.com/GermanBionicSystems/kentec35/bus8080"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	BacklightFreq: 500 * physic.Hertz,
	TouchRetries:  16,
}

// Opts defines the options for the device.
type Opts struct {
	// Reset, when set, is pulsed Low for 20µs by Init. On the LaunchPad it is
	// wired to the board reset and can be left nil.
	Reset gpio.PinOut
	// Backlight, when set, is driven with PWM by SetIntensity.
	Backlight gpio.PinOut
	// BacklightFreq is the PWM frequency of Backlight.
	BacklightFreq physic.Frequency
	// Touch enables RawTouch and Touch when set.
	Touch *TouchPins
	// TouchRetries bounds the number of measurements RawTouch makes before
	// giving up with ErrTouchUnstable.
	TouchRetries int
	// Clock provides the delays. It defaults to the real clock.
	Clock clockwork.Clock
}

// Electrode is one electrode of the resistive overlay.
//
// IO drives the electrode or floats it. ADC samples it and is required on
// the electrodes that are measured: XP, YP and XN.
type Electrode struct {
	IO  gpio.PinIO
	ADC analog.PinADC
}

// TouchPins are the four overlay electrodes.
type TouchPins struct {
	XP Electrode
	YP Electrode
	XN Electrode
	YN Electrode
}

func (t *TouchPins) validate() error {
	for _, e := range []struct {
		name   string
		e      Electrode
		needAD bool
	}{
		{"XP", t.XP, true},
		{"YP", t.YP, true},
		{"XN", t.XN, true},
		{"YN", t.YN, false},
	} {
		if e.e.IO == nil || e.e.IO == gpio.INVALID {
			return fmt.Errorf("ssd2119: touch %s: missing pin", e.name)
		}
		if e.needAD && e.e.ADC == nil {
			return fmt.Errorf("ssd2119: touch %s: missing ADC", e.name)
		}
	}
	return nil
}

// Board is a pin assignment in LaunchPad header numbers.
type Board struct {
	Name           string
	DC, CS, WR, RD int
	D              [8]int
	XP, YP, XN, YN int
	// Mapping is the direct register mapping of the MSP430F5529 LaunchPad
	// for this board.
	Mapping *bus8080.Mapping
}

// BoosterPack is the BoosterPack plugged directly on the LaunchPad.
var BoosterPack = Board{
	Name:    "BoosterPack",
	DC:      9,
	CS:      10,
	WR:      8,
	RD:      13,
	D:       [8]int{3, 4, 19, 38, 7, 2, 14, 15},
	XP:      5,
	YP:      6,
	XN:      12,
	YN:      11,
	Mapping: &bus8080.F5529BoosterPack,
}

// InterfaceBoard is the BoosterPack on the F5529 interface board.
var InterfaceBoard = Board{
	Name:    "InterfaceBoard",
	DC:      37,
	CS:      36,
	WR:      38,
	RD:      13,
	D:       [8]int{23, 24, 25, 26, 27, 30, 29, 32},
	XP:      2,
	YP:      6,
	XN:      12,
	YN:      11,
	Mapping: &bus8080.F5529InterfaceBoard,
}

// BusPins resolves the bus pins with lookup, which receives the header
// number as a string, as gpioreg.ByName does.
func (b *Board) BusPins(lookup func(name string) gpio.PinIO) (*bus8080.Pins, error) {
	get := func(what string, n int) (gpio.PinIO, error) {
		p := lookup(strconv.Itoa(n))
		if p == nil || p == gpio.INVALID {
			return nil, fmt.Errorf("ssd2119: %s: %s pin %d not found", b.Name, what, n)
		}
		return p, nil
	}
	p := &bus8080.Pins{}
	var err error
	if p.DC, err = get("DC", b.DC); err != nil {
		return nil, err
	}
	if p.CS, err = get("CS", b.CS); err != nil {
		return nil, err
	}
	if p.WR, err = get("WR", b.WR); err != nil {
		return nil, err
	}
	if p.RD, err = get("RD", b.RD); err != nil {
		return nil, err
	}
	for i, n := range b.D {
		if p.D[i], err = get(fmt.Sprintf("D%d", i), n); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// TouchPins resolves the electrode pins with lookup. adc returns the ADC
// behind a header number, or nil.
func (b *Board) TouchPins(lookup func(name string) gpio.PinIO, adc func(name string) analog.PinADC) (*TouchPins, error) {
	e := func(n int) Electrode {
		name := strconv.Itoa(n)
		var a analog.PinADC
		if adc != nil {
			a = adc(name)
		}
		return Electrode{IO: lookup(name), ADC: a}
	}
	t := &TouchPins{XP: e(b.XP), YP: e(b.YP), XN: e(b.XN), YN: e(b.YN)}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

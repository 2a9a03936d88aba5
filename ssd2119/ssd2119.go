// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/kentec35/bus8080"
	"github.com/GermanBionicSystems/kentec35/image565"
	"github.com/GermanBionicSystems/kentec35/screen"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrNotInitialized is returned by drawing operations before Init.
	ErrNotInitialized = errors.New("ssd2119: not initialized")
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("ssd2119: already initialized")
	// ErrOutOfBounds is returned for coordinates outside the logical screen.
	ErrOutOfBounds = errors.New("ssd2119: out of bounds")
	// ErrInvalidOrientation is returned by SetOrientation.
	ErrInvalidOrientation = screen.ErrInvalidOrientation
	// ErrNoBacklightPin is returned by SetIntensity without Opts.Backlight.
	ErrNoBacklightPin = errors.New("ssd2119: no backlight pin")
	// ErrHalted is returned after Halt.
	ErrHalted = errors.New("ssd2119: halted")
)

const (
	whoAmI = "Kentec 3.5\" Parallel screen"

	// resetPulse is above the 15µs minimum.
	resetPulse = 20 * time.Microsecond
	// wakeDelay is above the 30ms the panel needs after leaving sleep mode.
	wakeDelay = 31 * time.Millisecond
)

type state uint8

const (
	uninitialized state = iota
	initializing
	ready
)

// Dev is an open handle to the display controller.
type Dev struct {
	bus   *bus8080.Bus
	opts  Opts
	clock clockwork.Clock

	state       state
	orientation screen.Orientation
	cal         Calibration
	halted      bool
	// buf is reused by Draw.
	buf []byte
}

// New returns a Dev writing through p. Call Init before drawing.
//
// A nil opts selects DefaultOpts.
func New(p bus8080.Port, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, errors.New("ssd2119: nil port")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Touch != nil {
		if err := o.Touch.validate(); err != nil {
			return nil, err
		}
	}
	if o.TouchRetries <= 0 {
		o.TouchRetries = DefaultOpts.TouchRetries
	}
	if o.BacklightFreq == 0 {
		o.BacklightFreq = DefaultOpts.BacklightFreq
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return &Dev{
		bus:         bus8080.NewBus(p),
		opts:        o,
		clock:       o.Clock,
		orientation: screen.Landscape,
	}, nil
}

// NewGPIO returns a Dev on individual gpio pins.
func NewGPIO(pins *bus8080.Pins, opts *Opts) (*Dev, error) {
	p, err := bus8080.NewGPIOPort(pins)
	if err != nil {
		return nil, fmt.Errorf("ssd2119: %w", err)
	}
	return New(p, opts)
}

// Init resets and configures the panel, selects the Landscape orientation
// and clears the screen to black.
//
// It must be called exactly once.
func (d *Dev) Init() error {
	if d.halted {
		return ErrHalted
	}
	if d.state != uninitialized {
		return ErrAlreadyInitialized
	}
	d.state = initializing
	if err := d.init(); err != nil {
		d.state = uninitialized
		return fmt.Errorf("ssd2119: init: %w", err)
	}
	d.state = ready
	return nil
}

func (d *Dev) init() error {
	if err := d.bus.Idle(); err != nil {
		return err
	}
	if d.opts.Reset != nil {
		if err := d.opts.Reset.Out(gpio.Low); err != nil {
			return err
		}
		d.clock.Sleep(resetPulse)
		if err := d.opts.Reset.Out(gpio.High); err != nil {
			return err
		}
	}
	eh := errorHandler{d: d}
	eh.writeRegisters(powerOn)
	if eh.err != nil {
		return eh.err
	}
	d.clock.Sleep(wakeDelay)
	eh.writeRegisters(afterWake)
	if eh.err != nil {
		return eh.err
	}
	if err := d.setOrientation(screen.Landscape); err != nil {
		return err
	}
	if d.opts.Touch != nil {
		d.cal = calibrationFor(d.opts.Touch.YP.ADC)
	}
	return d.clear(image565.Black)
}

func (d *Dev) checkReady() error {
	if d.halted {
		return ErrHalted
	}
	if d.state != ready {
		return ErrNotInitialized
	}
	return nil
}

// WhoAmI returns the name of the screen.
func (d *Dev) WhoAmI() string {
	return whoAmI
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd2119.Dev{%s, %s}", d.bus, d.orientation)
}

// SizeX returns the logical width for the current orientation.
func (d *Dev) SizeX() int {
	if d.orientation.IsLandscape() {
		return Width
	}
	return Height
}

// SizeY returns the logical height for the current orientation.
func (d *Dev) SizeY() int {
	if d.orientation.IsLandscape() {
		return Height
	}
	return Width
}

// Orientation returns the current orientation.
func (d *Dev) Orientation() screen.Orientation {
	return d.orientation
}

// Clear fills the whole screen with c.
func (d *Dev) Clear(c image565.Color) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return wrap(d.clear(c))
}

func (d *Dev) clear(c image565.Color) error {
	return d.fastFill(0, 0, d.SizeX()-1, d.SizeY()-1, c)
}

// SetBacklight wakes the panel when on is true and puts it to sleep
// otherwise.
func (d *Dev) SetBacklight(on bool) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	v := sleepOn
	if on {
		v = sleepOff
	}
	return wrap(d.bus.WriteCommandAndData16(byte(RegSleepMode), v))
}

// SetIntensity sets the backlight PWM duty cycle, 255 being fully on.
func (d *Dev) SetIntensity(level uint8) error {
	if d.halted {
		return ErrHalted
	}
	if d.opts.Backlight == nil {
		return ErrNoBacklightPin
	}
	duty := gpio.Duty(int64(level) * int64(gpio.DutyMax) / 255)
	return wrap(d.opts.Backlight.PWM(duty, d.opts.BacklightFreq))
}

// Backlight implements display.DisplayBacklight.
//
// Zero puts the panel to sleep. Other values wake it and, when a backlight
// pin is configured, set the intensity, clamped to 255.
func (d *Dev) Backlight(intensity display.Intensity) error {
	if intensity <= 0 {
		return d.SetBacklight(false)
	}
	if err := d.SetBacklight(true); err != nil {
		return err
	}
	if d.opts.Backlight == nil {
		return nil
	}
	if intensity > 255 {
		intensity = 255
	}
	return d.SetIntensity(uint8(intensity))
}

// Halt implements conn.Resource.
//
// It puts the panel to sleep and releases the bus. The Dev cannot be used
// afterward.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	var err error
	if d.state == ready {
		err = d.bus.WriteCommandAndData16(byte(RegSleepMode), sleepOn)
	}
	if herr := d.bus.Halt(); err == nil {
		err = herr
	}
	d.halted = true
	return wrap(err)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ssd2119: %w", err)
}

var _ conn.Resource = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ screen.Driver = &Dev{}

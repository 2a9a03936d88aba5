// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/GermanBionicSystems/kentec35/screen"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrTouchNotSupported is returned when Opts.Touch was not set.
	ErrTouchNotSupported = errors.New("ssd2119: touch not supported")
	// ErrTouchUnstable is returned when every measurement was too noisy.
	ErrTouchUnstable = errors.New("ssd2119: touch measurement unstable")
)

const (
	// touchNoise is the largest difference tolerated between two samples of
	// the same axis.
	touchNoise = 8
	// touchSettle precedes every sample.
	touchSettle = time.Millisecond
	// touchTrim is the pressure threshold for a 10 bit ADC.
	touchTrim = 0x10
)

// Calibration relates raw touch readings to the panel edges.
//
// XMin and XMax are the raw X readings at controller columns 0 and
// Width-1, YMin and YMax at rows 0 and Height-1.
type Calibration struct {
	FullScale  uint16
	XMin, XMax uint16
	YMin, YMax uint16
	// Trim is the pressure above which the screen is considered pressed.
	Trim uint16
}

var (
	calibration10 = Calibration{FullScale: 1023, XMin: 837, XMax: 160, YMin: 898, YMax: 114, Trim: touchTrim}
	calibration12 = Calibration{FullScale: 4095, XMin: 3077, XMax: 881, YMin: 3354, YMax: 639, Trim: touchTrim * 4}
)

// calibrationFor picks the constants matching the ADC resolution. ADCs wider
// than 10 bits are assumed to be configured for 12 bits.
func calibrationFor(adc analog.PinADC) Calibration {
	if _, hi := adc.Range(); hi.Raw > 1023 {
		return calibration12
	}
	return calibration10
}

// Calibration returns the touch calibration in use.
func (d *Dev) Calibration() Calibration {
	return d.cal
}

// SetCalibration replaces the touch calibration.
func (d *Dev) SetCalibration(c Calibration) error {
	if c.XMin == c.XMax || c.YMin == c.YMax {
		return fmt.Errorf("ssd2119: degenerate calibration %+v", c)
	}
	d.cal = c
	return nil
}

// RawTouch measures the overlay.
//
// Each measurement drives one electrode pair and floats the other, then
// samples twice per axis. A measurement where two samples of the same axis
// differ by more than 8 counts is discarded. After Opts.TouchRetries
// discarded measurements, ErrTouchUnstable is returned.
func (d *Dev) RawTouch() (screen.TouchSample, error) {
	if err := d.checkReady(); err != nil {
		return screen.TouchSample{}, err
	}
	if d.opts.Touch == nil {
		return screen.TouchSample{}, ErrTouchNotSupported
	}
	for range d.opts.TouchRetries {
		s, stable, err := d.measure()
		if err != nil {
			return screen.TouchSample{}, wrap(err)
		}
		if stable {
			return s, nil
		}
	}
	return screen.TouchSample{}, fmt.Errorf("%w after %d measurements", ErrTouchUnstable, d.opts.TouchRetries)
}

// touchReader runs electrode operations until the first failure.
type touchReader struct {
	d   *Dev
	err error
}

func (r *touchReader) float(e Electrode) {
	if r.err == nil {
		r.err = e.IO.In(gpio.Float, gpio.NoEdge)
	}
}

func (r *touchReader) drive(e Electrode, l gpio.Level) {
	if r.err == nil {
		r.err = e.IO.Out(l)
	}
}

func (r *touchReader) sample(e Electrode) int32 {
	if r.err != nil {
		return 0
	}
	r.d.clock.Sleep(touchSettle)
	s, err := e.ADC.Read()
	r.err = err
	return s.Raw
}

func (d *Dev) measure() (screen.TouchSample, bool, error) {
	t := d.opts.Touch
	r := touchReader{d: d}
	stable := true
	agree := func(a, b int32) {
		if a-b > touchNoise || b-a > touchNoise {
			stable = false
		}
	}
	var s screen.TouchSample

	// X: XP at Vref, XN grounded, YP measures.
	r.float(t.YP)
	r.float(t.YN)
	r.drive(t.XP, gpio.High)
	r.drive(t.XN, gpio.Low)
	a := r.sample(t.YP)
	b := r.sample(t.YP)
	agree(a, b)
	s.X = d.invert(a)

	// Y: YP at Vref, YN grounded, XP measures.
	r.float(t.XP)
	r.float(t.XN)
	r.drive(t.YP, gpio.High)
	r.drive(t.YN, gpio.Low)
	a = r.sample(t.XP)
	b = r.sample(t.XP)
	agree(a, b)
	s.Y = d.invert(a)

	// Z: XP grounded, YN at Vref, XN and YP measure.
	r.drive(t.XP, gpio.Low)
	r.drive(t.YN, gpio.High)
	r.float(t.XN)
	r.float(t.YP)
	a = r.sample(t.XN)
	c := r.sample(t.YP)
	b = r.sample(t.XN)
	e := r.sample(t.YP)
	agree(a, b)
	agree(c, e)
	s.Z = d.invert(c)

	return s, stable, r.err
}

// invert returns full scale minus raw, clamped to the ADC range.
func (d *Dev) invert(raw int32) uint16 {
	v := int32(d.cal.FullScale) - raw
	if v < 0 {
		return 0
	}
	return uint16(v)
}

// Touch returns the logical point pressed. ok is false when the pressure is
// at or below the calibration trim.
func (d *Dev) Touch() (p image.Point, ok bool, err error) {
	s, err := d.RawTouch()
	if err != nil {
		return image.Point{}, false, err
	}
	if s.Z <= d.cal.Trim {
		return image.Point{}, false, nil
	}
	px := scale(s.X, d.cal.XMin, d.cal.XMax, Width)
	py := scale(s.Y, d.cal.YMin, d.cal.YMax, Height)
	x, y := unorient(d.orientation, px, py)
	return image.Pt(x, y), true, nil
}

// scale maps raw linearly so that lo is 0 and hi is n-1, clamped.
func scale(raw, lo, hi uint16, n int) int {
	v := (int(raw) - int(lo)) * (n - 1) / (int(hi) - int(lo))
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return n - 1
	}
	return v
}

// unorient is the inverse of orient.
func unorient(o screen.Orientation, px, py int) (int, int) {
	switch o {
	case screen.Portrait:
		return py, Width - 1 - px
	case screen.Landscape:
		return Width - 1 - px, Height - 1 - py
	case screen.PortraitFlipped:
		return Height - 1 - py, px
	}
	return px, py
}

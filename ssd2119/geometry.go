// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

import (
	"fmt"

	"github.com/GermanBionicSystems/kentec35/image565"
	"github.com/GermanBionicSystems/kentec35/screen"
)

// SetOrientation selects the logical coordinate system and the matching
// controller scan direction.
func (d *Dev) SetOrientation(o screen.Orientation) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if err := o.Valid(); err != nil {
		return err
	}
	return wrap(d.setOrientation(o))
}

func (d *Dev) setOrientation(o screen.Orientation) error {
	if err := d.bus.WriteCommandAndData16(byte(RegEntryMode), entryModes[o]); err != nil {
		return err
	}
	d.orientation = o
	return nil
}

// OrientCoordinates maps a logical point to controller coordinates.
//
// Portrait swaps the axes and mirrors vertically, Landscape mirrors both
// axes, PortraitFlipped swaps the axes and mirrors horizontally and
// LandscapeFlipped is the identity.
func (d *Dev) OrientCoordinates(x, y int) (int, int) {
	return orient(d.orientation, x, y)
}

func orient(o screen.Orientation, x, y int) (int, int) {
	switch o {
	case screen.Portrait:
		return Width - 1 - y, x
	case screen.Landscape:
		return Width - 1 - x, Height - 1 - y
	case screen.PortraitFlipped:
		return y, Height - 1 - x
	}
	return x, y
}

func (d *Dev) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < d.SizeX() && y < d.SizeY()
}

func (d *Dev) checkRect(x1, y1, x2, y2 int) error {
	if !d.inBounds(x1, y1) || !d.inBounds(x2, y2) {
		return fmt.Errorf("%w: (%d,%d)-(%d,%d) on %dx%d", ErrOutOfBounds, x1, y1, x2, y2, d.SizeX(), d.SizeY())
	}
	return nil
}

func sort2(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// SetWindow restricts GRAM writes to the inclusive logical rectangle and
// leaves the controller waiting for pixel data.
//
// Corners may be given in any order. Pixels then fill the window in logical
// row-major order.
func (d *Dev) SetWindow(x1, y1, x2, y2 int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if err := d.checkRect(x1, y1, x2, y2); err != nil {
		return err
	}
	return wrap(d.setWindow(x1, y1, x2, y2))
}

func (d *Dev) setWindow(x1, y1, x2, y2 int) error {
	x1, x2 = sort2(x1, x2)
	y1, y2 = sort2(y1, y2)
	// The logical top left corner is the first pixel of the scan.
	cx, cy := orient(d.orientation, x1, y1)
	px1, py1 := cx, cy
	px2, py2 := orient(d.orientation, x2, y2)
	px1, px2 = sort2(px1, px2)
	py1, py2 = sort2(py1, py2)

	eh := errorHandler{d: d}
	eh.writeRegister(RegHRAMStart, uint16(px1))
	eh.writeRegister(RegHRAMEnd, uint16(px2))
	eh.writeRegister(RegVRAMPos, uint16(py2)<<8|uint16(py1))
	eh.writeRegister(RegXRAMAddr, uint16(cx))
	eh.writeRegister(RegYRAMAddr, uint16(cy))
	eh.writeCommand(RegRAMData)
	return eh.err
}

// CloseWindow restores the full screen window.
func (d *Dev) CloseWindow() error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return wrap(d.closeWindow())
}

func (d *Dev) closeWindow() error {
	return d.setWindow(0, 0, d.SizeX()-1, d.SizeY()-1)
}

// SetCursor moves the GRAM address to a logical point and leaves the
// controller waiting for pixel data.
func (d *Dev) SetCursor(x, y int) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if !d.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	px, py := d.OrientCoordinates(x, y)
	eh := errorHandler{d: d}
	eh.writeRegister(RegXRAMAddr, uint16(px))
	eh.writeRegister(RegYRAMAddr, uint16(py))
	eh.writeCommand(RegRAMData)
	return wrap(eh.err)
}

// SetPoint writes one pixel. The window is left unchanged.
func (d *Dev) SetPoint(x, y int, c image565.Color) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if !d.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	px, py := d.OrientCoordinates(x, y)
	eh := errorHandler{d: d}
	eh.writeRegister(RegXRAMAddr, uint16(px))
	eh.writeRegister(RegYRAMAddr, uint16(py))
	eh.writeRegister(RegRAMData, uint16(c))
	return wrap(eh.err)
}

// FastFill paints the inclusive logical rectangle with c.
//
// The window is left set to the rectangle.
func (d *Dev) FastFill(x1, y1, x2, y2 int, c image565.Color) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	if err := d.checkRect(x1, y1, x2, y2); err != nil {
		return err
	}
	return wrap(d.fastFill(x1, y1, x2, y2, c))
}

func (d *Dev) fastFill(x1, y1, x2, y2 int, c image565.Color) error {
	x1, x2 = sort2(x1, x2)
	y1, y2 = sort2(y1, y2)
	if err := d.setWindow(x1, y1, x2, y2); err != nil {
		return err
	}
	hi, lo := c.Bytes()
	return d.bus.Fill(hi, lo, (x2-x1+1)*(y2-y1+1))
}

// WriteData88 sends one pixel, hi then lo, to the current window.
func (d *Dev) WriteData88(hi, lo byte) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	return wrap(d.bus.WriteData88(hi, lo))
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen defines the primitives a TFT screen driver provides to the
// drawing layers above it.
//
// Coordinates are logical: they follow the current Orientation, with 0, 0 at
// the top left as seen by the user.
package screen

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/kentec35/image565"
)

// Orientation is the rotation of the logical coordinate system relative to
// the panel.
type Orientation uint8

// Supported orientations.
const (
	Portrait         Orientation = 0
	Landscape        Orientation = 1
	PortraitFlipped  Orientation = 2
	LandscapeFlipped Orientation = 3
)

// ErrInvalidOrientation is returned for values above LandscapeFlipped.
var ErrInvalidOrientation = errors.New("screen: invalid orientation")

// Valid returns an error unless o is one of the four orientations.
func (o Orientation) Valid() error {
	if o > LandscapeFlipped {
		return fmt.Errorf("%w: %d", ErrInvalidOrientation, o)
	}
	return nil
}

// IsLandscape is true when the long side is horizontal.
func (o Orientation) IsLandscape() bool {
	return o&1 == 1
}

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "Portrait"
	case Landscape:
		return "Landscape"
	case PortraitFlipped:
		return "PortraitFlipped"
	case LandscapeFlipped:
		return "LandscapeFlipped"
	}
	return fmt.Sprintf("Orientation(%d)", uint8(o))
}

// TouchSample is a raw touch reading, in ADC units inverted against full
// scale. Z is the pressure, larger when pressed harder.
type TouchSample struct {
	X, Y, Z uint16
}

// Driver is what a screen provides to generic drawing code.
type Driver interface {
	// SetOrientation selects the logical coordinate system.
	SetOrientation(o Orientation) error
	// OrientCoordinates maps a logical point to panel coordinates.
	OrientCoordinates(x, y int) (int, int)
	// SetWindow restricts GRAM writes to the logical rectangle with corners
	// x1, y1 and x2, y2, inclusive, and readies the panel for pixel data.
	SetWindow(x1, y1, x2, y2 int) error
	// CloseWindow restores the full screen window.
	CloseWindow() error
	// SetPoint writes one pixel.
	SetPoint(x, y int, c image565.Color) error
	// FastFill paints the inclusive rectangle with c.
	FastFill(x1, y1, x2, y2 int, c image565.Color) error
	// WriteData88 sends one pixel worth of data, high byte first, into the
	// current window.
	WriteData88(hi, lo byte) error
	// RawTouch reads the touch overlay.
	RawTouch() (TouchSample, error)
}

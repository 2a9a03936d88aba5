// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

import (
	"fmt"
	"image"
	"image/color"

	"github.com/GermanBionicSystems/kentec35/image565"
	"periph.io/x/conn/v3/display"
)

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image565.Model
}

// Bounds implements display.Drawer. Min is always {0, 0} and Max follows the
// orientation.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.SizeX(), d.SizeY())
}

// Draw implements display.Drawer.
//
// Only the intersection of r with the screen and with the source is sent. It
// draws synchronously and restores the full screen window before returning.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if err := d.checkReady(); err != nil {
		return err
	}
	clip(d.Bounds(), &r, src.Bounds(), &sp)
	if r.Empty() {
		return nil
	}
	w, h := r.Dx(), r.Dy()
	buf := d.pixels(2 * w * h)
	i := 0
	if img, ok := src.(*image565.Image); ok {
		for y := range h {
			for x := range w {
				buf[i], buf[i+1] = img.Color565At(sp.X+x, sp.Y+y).Bytes()
				i += 2
			}
		}
	} else {
		for y := range h {
			for x := range w {
				c := image565.Model.Convert(src.At(sp.X+x, sp.Y+y)).(image565.Color)
				buf[i], buf[i+1] = c.Bytes()
				i += 2
			}
		}
	}
	if err := d.setWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return wrap(err)
	}
	if err := d.bus.Stream(buf); err != nil {
		return wrap(err)
	}
	return wrap(d.closeWindow())
}

// Write sends a full frame of big endian 5-6-5 pixels in logical row-major
// order.
func (d *Dev) Write(pixels []byte) (int, error) {
	if err := d.checkReady(); err != nil {
		return 0, err
	}
	if want := 2 * d.SizeX() * d.SizeY(); len(pixels) != want {
		return 0, fmt.Errorf("ssd2119: invalid pixel stream length; expected %d bytes, got %d bytes", want, len(pixels))
	}
	if err := d.closeWindow(); err != nil {
		return 0, wrap(err)
	}
	if err := d.bus.Stream(pixels); err != nil {
		return 0, wrap(err)
	}
	return len(pixels), nil
}

func (d *Dev) pixels(n int) []byte {
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	return d.buf[:n]
}

// clip is image/draw's clipping of a draw operation.
func clip(dst image.Rectangle, r *image.Rectangle, src image.Rectangle, sp *image.Point) {
	orig := r.Min
	*r = r.Intersect(dst)
	*r = r.Intersect(src.Add(orig.Sub(*sp)))
	sp.X += r.Min.X - orig.X
	sp.Y += r.Min.Y - orig.Y
}

var _ display.Drawer = &Dev{}

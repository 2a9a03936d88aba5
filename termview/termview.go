// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that outputs a downsampled
// picture of the screen to a terminal using ANSI color codes.
//
// Useful to try drawing code without the BoosterPack at hand.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/kentec35/image565"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// W and H are the size of the emulated screen in pixels.
	W, H int
	// Scale is the side of the square of pixels averaged into one terminal
	// cell. It defaults to 8.
	Scale int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Out defaults to a colorable stdout.
	Out io.Writer

	_ struct{}
}

// Dev is a screen emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette

	img *image565.Image
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("termview: invalid size %dx%d", opts.W, opts.H)
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	s := opts.Scale
	if s <= 0 {
		s = 8
	}
	return &Dev{
		w:       w,
		scale:   s,
		palette: *p,
		img:     image565.NewImage(image.Rect(0, 0, opts.W, opts.H)),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermView{%dx%d, 1/%d}", d.img.Rect.Dx(), d.img.Rect.Dy(), d.scale)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts a full frame of big endian 5-6-5 pixels, as ssd2119.Dev
// does, and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != 2*len(d.img.Pix) {
		return 0, errors.New("termview: invalid pixel stream length")
	}
	for i := range d.img.Pix {
		d.img.Pix[i] = image565.Color(pixels[2*i])<<8 | image565.Color(pixels[2*i+1])
	}
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image565.Model
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.img.Draw(r, src, sp)
	return d.refresh()
}

// Frame returns the emulated screen content.
func (d *Dev) Frame() *image565.Image {
	return d.img
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	// Home the cursor so successive frames overwrite each other.
	_, _ = d.buf.WriteString("\033[H\033[0m")
	b := d.img.Rect
	for y := b.Min.Y; y < b.Max.Y; y += d.scale {
		for x := b.Min.X; x < b.Max.X; x += d.scale {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.average(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// average returns the mean color of the cell whose top left pixel is (x, y).
func (d *Dev) average(x, y int) color.NRGBA {
	cell := image.Rect(x, y, x+d.scale, y+d.scale).Intersect(d.img.Rect)
	var r, g, b, n int
	for py := cell.Min.Y; py < cell.Max.Y; py++ {
		for px := cell.Min.X; px < cell.Max.X; px++ {
			cr, cg, cb := d.img.Color565At(px, py).RGB()
			r += int(cr)
			g += int(cg)
			b += int(cb)
			n++
		}
	}
	return color.NRGBA{uint8(r / n), uint8(g / n), uint8(b / n), 255}
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}

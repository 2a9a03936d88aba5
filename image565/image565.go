// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image565 implements a 16 bit RGB 5-6-5 image, the native pixel
// format of the SSD2119 and most small TFT controllers.
package image565

import (
	"image"
	"image/color"
	"image/draw"
)

// Color is a 16 bit 5-6-5 color: red in bits 15-11, green in 10-5, blue in
// 4-0. It is sent to the controller high byte first.
type Color uint16

// Common colors.
const (
	Black   Color = 0x0000
	White   Color = 0xFFFF
	Red     Color = 0xF800
	Green   Color = 0x07E0
	Blue    Color = 0x001F
	Yellow  Color = 0xFFE0
	Cyan    Color = 0x07FF
	Magenta Color = 0xF81F
	Gray    Color = 0x8410
)

// New packs 8 bit components, keeping the most significant bits.
func New(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// RGB expands c to 8 bit components, replicating the top bits into the low
// ones so that White maps to 0xFF.
func (c Color) RGB() (r, g, b uint8) {
	r = uint8(c>>8) & 0xF8
	r |= r >> 5
	g = uint8(c>>3) & 0xFC
	g |= g >> 6
	b = uint8(c << 3)
	b |= b >> 5
	return
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xFFFF
}

// Bytes returns c in wire order.
func (c Color) Bytes() (hi, lo byte) {
	return byte(c >> 8), byte(c)
}

// Model converts any color to Color.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	return toColor(c)
}

func toColor(c color.Color) Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return New(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Image is an in-memory image of Color pixels.
type Image struct {
	Pix    []Color
	Stride int
	Rect   image.Rectangle
}

// NewImage returns an Image covering r, filled with Black.
func NewImage(r image.Rectangle) *Image {
	return &Image{
		Pix:    make([]Color, r.Dx()*r.Dy()),
		Stride: r.Dx(),
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.Color565At(x, y)
}

// Color565At returns the pixel at x, y or Black when out of bounds.
func (p *Image) Color565At(x, y int) Color {
	if !(image.Point{x, y}).In(p.Rect) {
		return Black
	}
	return p.Pix[p.PixOffset(x, y)]
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetColor565(x, y, toColor(c))
}

// SetColor565 sets the pixel at x, y. Out of bounds writes are ignored.
func (p *Image) SetColor565(x, y int, c Color) {
	if !(image.Point{x, y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = c
}

// PixOffset returns the index of the pixel at x, y in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Opaque implements the optional image interface used by image/draw.
func (p *Image) Opaque() bool {
	return true
}

// Draw copies src into p, with fast paths for uniform and 565 sources.
//
// Pixels of dr that src does not cover are left unchanged.
func (p *Image) Draw(dr image.Rectangle, src image.Image, sp image.Point) {
	orig := dr.Min
	dr = dr.Intersect(p.Rect)
	dr = dr.Intersect(src.Bounds().Add(orig.Sub(sp)))
	if dr.Empty() {
		return
	}
	sp = sp.Add(dr.Min.Sub(orig))
	switch s := src.(type) {
	case *image.Uniform:
		c := toColor(s.C)
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			row := p.Pix[p.PixOffset(dr.Min.X, y):]
			for x := range dr.Dx() {
				row[x] = c
			}
		}
		return
	case *Image:
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			for x := dr.Min.X; x < dr.Max.X; x++ {
				p.Pix[p.PixOffset(x, y)] = s.Color565At(sp.X+x-dr.Min.X, sp.Y+y-dr.Min.Y)
			}
		}
		return
	}
	draw.Draw(p, dr, src, sp, draw.Src)
}

var _ draw.Image = &Image{}
var _ color.Color = Color(0)

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package webview implements a display.Drawer served over HTTP.
//
// Each GET request receives the current frame as PNG, then a new frame on
// every change as a "multipart/x-mixed-replace" stream, which browsers show
// as a live picture. Add "?once=1" to get a single PNG.
//
// It mirrors a simulated panel while developing on a host machine.
package webview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sync"

	"github.com/GermanBionicSystems/kentec35/image565"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// W and H are the size of the frame in pixels.
	W, H int
}

// Dev is a frame buffer with an HTTP handler.
type Dev struct {
	mu      sync.Mutex
	img     *image565.Image
	clients map[*client]struct{}
	halted  bool
	// snapshot is the PNG of img, nil once img changed.
	snapshot []byte
}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

// New returns a black frame of the requested size.
func New(opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("webview: invalid size %dx%d", opts.W, opts.H)
	}
	return &Dev{
		img:     image565.NewImage(image.Rect(0, 0, opts.W, opts.H)),
		clients: map[*client]struct{}{},
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("WebView{%dx%d}", d.img.Rect.Dx(), d.img.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It ends the running streams. Later requests are refused with 503.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.halted = true
	for c := range d.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
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
	d.mu.Lock()
	defer d.mu.Unlock()
	d.img.Draw(r, src, sp)
	d.changedLocked()
	return nil
}

// Write accepts a full frame of big endian 5-6-5 pixels.
func (d *Dev) Write(pixels []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(pixels) != 2*len(d.img.Pix) {
		return 0, fmt.Errorf("webview: invalid pixel stream length; expected %d bytes, got %d bytes", 2*len(d.img.Pix), len(pixels))
	}
	for i := range d.img.Pix {
		d.img.Pix[i] = image565.Color(pixels[2*i])<<8 | image565.Color(pixels[2*i+1])
	}
	d.changedLocked()
	return len(pixels), nil
}

func (d *Dev) changedLocked() {
	d.snapshot = nil
	for c := range d.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

// frame returns the PNG of the current frame. The returned slice must not be
// modified.
func (d *Dev) frame() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snapshot == nil {
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(&buf, d.img); err != nil {
			return nil, err
		}
		d.snapshot = buf.Bytes()
	}
	return d.snapshot, nil
}

var _ display.Drawer = &Dev{}
var _ http.Handler = &Dev{}

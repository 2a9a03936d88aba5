// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"sync"
)

// Bus frames command and data writes on a Port.
//
// Each write asserts CS and releases it before returning. A command followed
// by data in WriteCommandAndData16 shares a single CS assertion.
type Bus struct {
	mu sync.Mutex
	p  Port
}

// NewBus returns a Bus on p. Call Idle before the first write.
func NewBus(p Port) *Bus {
	return &Bus{p: p}
}

// Port returns the underlying Port.
func (b *Bus) Port() Port {
	return b.p
}

// Idle drives every control line to its inactive level and clears D0-D7.
func (b *Bus) Idle() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	eh := errorHandler{p: b.p}
	eh.control(AllLines, AllLines)
	eh.data(0)
	return eh.err
}

// WriteCommand sends one command byte.
func (b *Bus) WriteCommand(cmd byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	eh := errorHandler{p: b.p}
	eh.begin(false)
	eh.strobe(cmd)
	eh.end()
	return eh.err
}

// WriteData16 sends v as two data bytes, high byte first.
func (b *Bus) WriteData16(v uint16) error {
	return b.WriteData88(byte(v>>8), byte(v))
}

// WriteData88 sends hi then lo as data.
func (b *Bus) WriteData88(hi, lo byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	eh := errorHandler{p: b.p}
	eh.begin(true)
	eh.strobe(hi)
	eh.strobe(lo)
	eh.end()
	return eh.err
}

// WriteCommandAndData16 sends cmd followed by v, high byte first, without
// releasing CS in between.
func (b *Bus) WriteCommandAndData16(cmd byte, v uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	eh := errorHandler{p: b.p}
	eh.begin(false)
	eh.strobe(cmd)
	eh.control(DC, DC)
	eh.strobe(byte(v >> 8))
	eh.strobe(byte(v))
	eh.end()
	return eh.err
}

// Fill sends the pair hi, lo as data n times in one CS assertion.
func (b *Bus) Fill(hi, lo byte, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	eh := errorHandler{p: b.p}
	eh.begin(true)
	for i := 0; i < n && eh.err == nil; i++ {
		eh.strobe(hi)
		eh.strobe(lo)
	}
	eh.end()
	return eh.err
}

// Stream sends p as data in one CS assertion.
func (b *Bus) Stream(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	eh := errorHandler{p: b.p}
	eh.begin(true)
	for i := 0; i < len(p) && eh.err == nil; i++ {
		eh.strobe(p[i])
	}
	eh.end()
	return eh.err
}

// Halt implements conn.Resource.
func (b *Bus) Halt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.p.Halt()
}

func (b *Bus) String() string {
	return "8080(" + b.p.String() + ")"
}

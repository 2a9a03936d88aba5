// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/spi"
)

// ShiftPort is a Port that drives D0-D7 through a 74HC595 serial shift
// register.
//
// QA..QH of the register are D0..D7. The SPI chip select is wired to RCLK so
// the outputs update when a transfer completes. Use MSB first, mode 0.
type ShiftPort struct {
	ctrl controlPins

	mu    sync.Mutex
	conn  spi.Conn
	value uint16
	buf   [1]byte
}

// NewShiftPort returns a Port using discrete control pins and a 74HC595 on
// conn for the data lines. p.D is ignored.
func NewShiftPort(p *Pins, conn spi.Conn) (*ShiftPort, error) {
	if err := p.validate(false); err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: spi connection", ErrMissingPin)
	}
	// Out of byte range so the first write always goes out.
	return &ShiftPort{ctrl: newControlPins(p), conn: conn, value: 1 << 9}, nil
}

// Control implements Port.
func (s *ShiftPort) Control(level, mask Lines) error {
	return s.ctrl.drive(level, mask)
}

// Data implements Port.
//
// The register latches its outputs, so repeating the current value costs no
// transfer.
func (s *ShiftPort) Data(v byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == uint16(v) {
		return nil
	}
	s.buf[0] = v
	if err := s.conn.Tx(s.buf[:], nil); err != nil {
		return err
	}
	s.value = uint16(v)
	return nil
}

// Halt implements conn.Resource.
func (s *ShiftPort) Halt() error {
	return s.ctrl.drive(AllLines, CS|WR|RD)
}

func (s *ShiftPort) String() string {
	return fmt.Sprintf("ShiftPort{%s, D:74HC595(%s)}", s.ctrl.String(), s.conn)
}

var _ Port = &ShiftPort{}

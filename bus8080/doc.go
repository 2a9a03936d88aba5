// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bus8080 drives an 8-bit Intel 8080 style parallel write bus.
//
// A write cycle selects command or data with DC, asserts CS, then strobes WR
// once per byte. The controller latches D0-D7 on the rising edge of WR.
//
// Bus implements the framing on top of a Port. Several Port implementations
// are provided:
//
//   - GPIOPort toggles one gpio.PinOut per line. It works everywhere and is
//     the slowest.
//   - GroupPort drives D0-D7 with a single gpio.Group write.
//   - ShiftPort drives D0-D7 through a 74HC595 shift register on SPI.
//   - DirectPort writes output registers directly, using a Mapping that
//     assigns each line to a register bit. Misaligned data bits are moved
//     with lookup tables computed when the port is created.
//
// Read cycles are not supported. RD is held High when it is wired.
package bus8080

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd2119 controls the Kentec 3.5" BoosterPack (K350QVG-V2-F), a
// 320x240 TFT panel driven by a Solomon Systech SSD2119 over an 8-bit 8080
// parallel bus, with an optional 4-wire resistive touch overlay.
//
// The driver writes the controller through a bus8080.Bus and never reads it
// back. Pixels are 16 bit RGB 5-6-5 (image565.Color).
//
// # Datasheet
//
// Solomon Systech SSD2119, 396 source and 240 gate driver with integrated
// power circuit for a-Si TFT LCD.
package ssd2119

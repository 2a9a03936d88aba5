// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package kentec35 is a container for the Kentec 3.5" BoosterPack display
// driver and its supporting packages.
//
// The panel is a 320x240 TFT driven by a Solomon Systech SSD2119 controller
// over an 8-bit 8080 parallel bus, with a 4-wire resistive touch overlay.
//
// See ssd2119 for the driver, bus8080 for the bus engines, and cmd/k35demo
// for a runnable example.
package kentec35

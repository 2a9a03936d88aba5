// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

// errorHandler skips the remaining bus writes after the first failure.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) writeRegister(r Reg, v uint16) {
	if eh.err == nil {
		eh.err = eh.d.bus.WriteCommandAndData16(byte(r), v)
	}
}

func (eh *errorHandler) writeCommand(r Reg) {
	if eh.err == nil {
		eh.err = eh.d.bus.WriteCommand(byte(r))
	}
}

func (eh *errorHandler) writeRegisters(seq []regValue) {
	for _, rv := range seq {
		eh.writeRegister(rv.reg, rv.v)
	}
}

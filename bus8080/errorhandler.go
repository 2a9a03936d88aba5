// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus8080

// errorHandler turns the Port calls of one bus cycle into no-ops after the
// first failure.
type errorHandler struct {
	p   Port
	err error
}

func (eh *errorHandler) control(level, mask Lines) {
	if eh.err == nil {
		eh.err = eh.p.Control(level, mask)
	}
}

func (eh *errorHandler) data(v byte) {
	if eh.err == nil {
		eh.err = eh.p.Data(v)
	}
}

// begin selects data or command and asserts CS.
func (eh *errorHandler) begin(data bool) {
	var level Lines
	if data {
		level = DC
	}
	eh.control(level, DC|CS)
}

// strobe latches v with one WR pulse.
func (eh *errorHandler) strobe(v byte) {
	eh.control(0, WR)
	eh.data(v)
	eh.control(WR, WR)
}

// end releases CS. After a failure it still tries, so the controller is
// not left selected.
func (eh *errorHandler) end() {
	if eh.err != nil {
		_ = eh.p.Control(CS|WR, CS|WR)
		return
	}
	eh.err = eh.p.Control(CS, CS)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bus8080test provides a bus decoder to test code using bus8080.
//
// Record observes line levels the way a controller would and keeps every
// byte latched on a WR rising edge. It can be driven as a bus8080.Port, or
// through the fake pins, data group, registers and SPI connection it hands
// out, so each bus8080 Port implementation can be checked against the same
// decoder.
package bus8080test

import (
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/kentec35/bus8080"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/spi"
)

// Transfer is one byte latched by the controller.
type Transfer struct {
	// Data is true when DC was High.
	Data  bool
	Value byte
}

func (t Transfer) String() string {
	if t.Data {
		return fmt.Sprintf("D:0x%02X", t.Value)
	}
	return fmt.Sprintf("C:0x%02X", t.Value)
}

// Record implements bus8080.Port and decodes the bus.
//
// Grab the Mutex before accessing the fields.
type Record struct {
	sync.Mutex
	// OnTransfer is called for each latched byte with the Mutex held.
	OnTransfer func(Transfer)
	// Err, when set, is returned by Control and Data without touching the
	// lines.
	Err error

	Level      bus8080.Lines
	D          byte
	Transfers  []Transfer
	Violations []string
	// Ops counts line changes requests.
	Ops int
}

// NewRecord returns a Record with every control line inactive.
func NewRecord() *Record {
	return &Record{Level: bus8080.AllLines}
}

// Control implements bus8080.Port.
func (r *Record) Control(level, mask bus8080.Lines) error {
	r.Lock()
	defer r.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.apply((r.Level&^mask)|(level&mask), r.D)
	return nil
}

// Data implements bus8080.Port.
func (r *Record) Data(v byte) error {
	r.Lock()
	defer r.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.apply(r.Level, v)
	return nil
}

// Halt implements conn.Resource.
func (r *Record) Halt() error {
	return nil
}

func (r *Record) String() string {
	return "bus8080test.Record"
}

// Commands returns the values of the command bytes latched so far.
func (r *Record) Commands() []byte {
	r.Lock()
	defer r.Unlock()
	var out []byte
	for _, t := range r.Transfers {
		if !t.Data {
			out = append(out, t.Value)
		}
	}
	return out
}

// apply moves the lines to level and D0-D7 to data.
func (r *Record) apply(level bus8080.Lines, data byte) {
	prev := r.Level
	r.Ops++
	selected := prev&bus8080.CS == 0 && level&bus8080.CS == 0
	strobing := prev&bus8080.WR == 0 && level&bus8080.WR == 0
	if (prev^level)&bus8080.DC != 0 && selected && strobing {
		r.violate("DC changed while WR was low")
	}
	if prev&bus8080.RD != 0 && level&bus8080.RD == 0 {
		r.violate("RD asserted")
	}
	r.Level = level
	r.D = data
	if prev&bus8080.WR == 0 && level&bus8080.WR != 0 {
		if level&bus8080.CS != 0 {
			r.violate("WR rising edge with CS inactive")
			return
		}
		t := Transfer{Data: level&bus8080.DC != 0, Value: data}
		r.Transfers = append(r.Transfers, t)
		if r.OnTransfer != nil {
			r.OnTransfer(t)
		}
	}
}

func (r *Record) violate(msg string) {
	r.Violations = append(r.Violations, fmt.Sprintf("op %d: %s", r.Ops, msg))
}

// Pins returns one fake pin per line, all driving r.
func (r *Record) Pins() *bus8080.Pins {
	mk := func(name string, num int, line bus8080.Lines, bit byte) *linePin {
		return &linePin{Pin: gpiotest.Pin{N: name, Num: num, L: gpio.High}, r: r, line: line, bit: bit}
	}
	p := &bus8080.Pins{
		DC: mk("DC", 100, bus8080.DC, 0),
		CS: mk("CS", 101, bus8080.CS, 0),
		WR: mk("WR", 102, bus8080.WR, 0),
		RD: mk("RD", 103, bus8080.RD, 0),
	}
	for i := range p.D {
		p.D[i] = mk(fmt.Sprintf("D%d", i), i, 0, 1<<uint(i))
	}
	return p
}

// linePin is a gpio.PinIO bound to one line of a Record.
type linePin struct {
	gpiotest.Pin
	r    *Record
	line bus8080.Lines
	bit  byte
}

// Out implements gpio.PinOut.
func (p *linePin) Out(l gpio.Level) error {
	_ = p.Pin.Out(l)
	p.r.Lock()
	defer p.r.Unlock()
	if p.r.Err != nil {
		return p.r.Err
	}
	level, data := p.r.Level, p.r.D
	if p.line != 0 {
		level = set(level, p.line, l)
	} else if l {
		data |= p.bit
	} else {
		data &^= p.bit
	}
	p.r.apply(level, data)
	return nil
}

func set(level, line bus8080.Lines, l gpio.Level) bus8080.Lines {
	if l {
		return level | line
	}
	return level &^ line
}

// DataGroup returns a gpio.Group of eight pins driving D0-D7 of r.
func (r *Record) DataGroup() gpio.Group {
	g := &dataGroup{r: r}
	for i := range g.pins {
		g.pins[i] = &gpiotest.Pin{N: fmt.Sprintf("GD%d", i), Num: i}
	}
	return g
}

type dataGroup struct {
	r    *Record
	pins [8]*gpiotest.Pin
}

func (g *dataGroup) Pins() []pin.Pin {
	out := make([]pin.Pin, len(g.pins))
	for i, p := range g.pins {
		out[i] = p
	}
	return out
}

func (g *dataGroup) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(g.pins) {
		return nil
	}
	return g.pins[offset]
}

func (g *dataGroup) ByName(name string) pin.Pin {
	for _, p := range g.pins {
		if p.N == name {
			return p
		}
	}
	return nil
}

func (g *dataGroup) ByNumber(number int) pin.Pin {
	return g.ByOffset(number)
}

func (g *dataGroup) Out(value, mask gpio.GPIOValue) error {
	g.r.Lock()
	defer g.r.Unlock()
	if g.r.Err != nil {
		return g.r.Err
	}
	m := byte(mask)
	g.r.apply(g.r.Level, (g.r.D&^m)|(byte(value)&m))
	return nil
}

func (g *dataGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	g.r.Lock()
	defer g.r.Unlock()
	return gpio.GPIOValue(g.r.D) & mask, nil
}

func (g *dataGroup) WaitForEdge(timeout time.Duration) (int, gpio.Edge, error) {
	return 0, gpio.NoEdge, gpio.ErrGroupFeatureNotImplemented
}

func (g *dataGroup) Halt() error {
	return nil
}

func (g *dataGroup) String() string {
	return "bus8080test.DataGroup"
}

// SPI returns a connection emulating a 74HC595 whose outputs drive D0-D7 of
// r. Every transfer updates the outputs with the last byte written.
func (r *Record) SPI() spi.Conn {
	return &shiftConn{r: r}
}

type shiftConn struct {
	r *Record
}

func (s *shiftConn) String() string {
	return "bus8080test.SPI"
}

func (s *shiftConn) Duplex() conn.Duplex {
	return conn.Half
}

func (s *shiftConn) Tx(w, read []byte) error {
	if len(read) != 0 {
		return fmt.Errorf("bus8080test: read unsupported")
	}
	if len(w) == 0 {
		return nil
	}
	s.r.Lock()
	defer s.r.Unlock()
	if s.r.Err != nil {
		return s.r.Err
	}
	s.r.apply(s.r.Level, w[len(w)-1])
	return nil
}

func (s *shiftConn) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if err := s.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// Registers returns n fake registers whose bits drive r as m describes.
//
// Control line bits start High.
func (r *Record) Registers(n int, m *bus8080.Mapping) []bus8080.Register {
	f := &regFile{r: r, m: *m, v: make([]uint32, n)}
	for _, b := range [...]bus8080.Bit{m.DC, m.CS, m.WR, m.RD} {
		if b.Mask != 0 && b.Reg >= 0 && b.Reg < n {
			f.v[b.Reg] |= b.Mask
		}
	}
	out := make([]bus8080.Register, n)
	for i := range out {
		out[i] = &fakeRegister{f: f, i: i}
	}
	return out
}

type regFile struct {
	r *Record
	m bus8080.Mapping
	v []uint32
}

// sync decodes the register contents into line levels.
func (f *regFile) sync() {
	level := f.r.Level
	for i, b := range [...]bus8080.Bit{f.m.DC, f.m.CS, f.m.WR, f.m.RD} {
		if b.Mask != 0 {
			level = set(level, bus8080.Lines(1<<uint(i)), f.v[b.Reg]&b.Mask != 0)
		}
	}
	var data byte
	for i, b := range f.m.D {
		if f.v[b.Reg]&b.Mask != 0 {
			data |= 1 << uint(i)
		}
	}
	f.r.apply(level, data)
}

type fakeRegister struct {
	f *regFile
	i int
}

func (g *fakeRegister) Set(mask uint32) error {
	g.f.r.Lock()
	defer g.f.r.Unlock()
	if g.f.r.Err != nil {
		return g.f.r.Err
	}
	g.f.v[g.i] |= mask
	g.f.sync()
	return nil
}

func (g *fakeRegister) Clear(mask uint32) error {
	g.f.r.Lock()
	defer g.f.r.Unlock()
	if g.f.r.Err != nil {
		return g.f.r.Err
	}
	g.f.v[g.i] &^= mask
	g.f.sync()
	return nil
}

var _ bus8080.Port = &Record{}
var _ gpio.PinIO = &linePin{}
var _ gpio.Group = &dataGroup{}
var _ spi.Conn = &shiftConn{}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119_test

import (
	"errors"
	"image"
	"image/color"
	"strconv"
	"testing"
	"time"

	"github.com/GermanBionicSystems/kentec35/bus8080"
	"github.com/GermanBionicSystems/kentec35/bus8080/bus8080test"
	"github.com/GermanBionicSystems/kentec35/image565"
	"github.com/GermanBionicSystems/kentec35/screen"
	"github.com/GermanBionicSystems/kentec35/ssd2119"
	"github.com/GermanBionicSystems/kentec35/ssd2119/ssd2119test"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type W = ssd2119test.Write

var powerOnWant = []W{
	{ssd2119.RegPowerCtrl5, 0x00BA},
	{ssd2119.RegVCOMOTP1, 0x0006},
	{ssd2119.RegOscStart, 0x0001},
	{ssd2119.RegOutputCtrl, 0x30EF},
	{ssd2119.RegLCDDriveAC, 0x0600},
	{ssd2119.RegSleepMode, 0x0000},
}

var afterWakeWant = []W{
	{ssd2119.RegEntryMode, 0x6830},
	{ssd2119.RegDisplayCtrl, 0x0033},
	{ssd2119.RegPowerCtrl2, 0x0005},
	{ssd2119.RegGamma1, 0x0000},
	{ssd2119.RegGamma2, 0x0400},
	{ssd2119.RegGamma3, 0x0106},
	{ssd2119.RegGamma4, 0x0700},
	{ssd2119.RegGamma5, 0x0002},
	{ssd2119.RegGamma6, 0x0702},
	{ssd2119.RegGamma7, 0x0707},
	{ssd2119.RegGamma8, 0x0203},
	{ssd2119.RegGamma9, 0x1400},
	{ssd2119.RegGamma10, 0x0F03},
	{ssd2119.RegPowerCtrl3, 0x0007},
	{ssd2119.RegPowerCtrl4, 0x3100},
	{ssd2119.RegVRAMPos, 0xEF00},
	{ssd2119.RegHRAMStart, 0x0000},
	{ssd2119.RegHRAMEnd, 0x013F},
	{ssd2119.RegXRAMAddr, 0x0000},
	{ssd2119.RegYRAMAddr, 0x0000},
	// Landscape.
	{ssd2119.RegEntryMode, 0x6800},
	// Clear: full window, cursor on the logical origin.
	{ssd2119.RegHRAMStart, 0},
	{ssd2119.RegHRAMEnd, 319},
	{ssd2119.RegVRAMPos, 239 << 8},
	{ssd2119.RegXRAMAddr, 319},
	{ssd2119.RegYRAMAddr, 239},
}

func newDev(t *testing.T, p bus8080.Port, opts *ssd2119.Opts) *ssd2119.Dev {
	if opts == nil {
		o := ssd2119.DefaultOpts
		opts = &o
	}
	d, err := ssd2119.New(p, opts)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// initPanel returns an initialized Dev on a fresh Panel, with the Panel log
// reset.
func initPanel(t *testing.T) (*ssd2119.Dev, *ssd2119test.Panel) {
	p := ssd2119test.NewPanel()
	d := newDev(t, p, nil)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	p.Reset()
	return d, p
}

func TestInitSequence(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := ssd2119test.NewPanel()
	opts := ssd2119.DefaultOpts
	opts.Clock = clock
	d := newDev(t, p, &opts)

	done := make(chan error)
	go func() {
		done <- d.Init()
	}()
	// Init blocks on the wake delay right after leaving sleep mode.
	clock.BlockUntil(1)
	if diff := cmp.Diff(powerOnWant, p.Writes()); diff != "" {
		t.Fatalf("before the wake delay (-want +got):\n%s", diff)
	}
	clock.Advance(30 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Init did not wait 31ms after leaving sleep mode")
	case <-time.After(10 * time.Millisecond):
	}
	if n := len(p.Writes()); n != len(powerOnWant) {
		t.Fatalf("%d writes during the wake delay", n-len(powerOnWant))
	}
	clock.Advance(time.Millisecond)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	want := append(append([]W{}, powerOnWant...), afterWakeWant...)
	if diff := cmp.Diff(want, p.Writes()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if n := p.Pixels(); n != ssd2119.Width*ssd2119.Height {
		t.Fatalf("clear wrote %d pixels", n)
	}
	if p.Sleeping() {
		t.Fatal("panel still sleeping")
	}
	if o := d.Orientation(); o != screen.Landscape {
		t.Fatalf("orientation %s", o)
	}
	if err := d.Init(); !errors.Is(err, ssd2119.ErrAlreadyInitialized) {
		t.Fatalf("second Init: %v", err)
	}
}

func TestInitReset(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reset := &gpiotest.Pin{N: "RST", L: gpio.High}
	opts := ssd2119.DefaultOpts
	opts.Clock = clock
	opts.Reset = reset
	p := ssd2119test.NewPanel()
	d := newDev(t, p, &opts)

	done := make(chan error)
	go func() {
		done <- d.Init()
	}()
	clock.BlockUntil(1)
	if reset.Read() != gpio.Low {
		t.Fatal("reset not asserted")
	}
	if n := len(p.Writes()); n != 0 {
		t.Fatalf("%d writes during reset", n)
	}
	clock.Advance(20 * time.Microsecond)
	clock.BlockUntil(1)
	if reset.Read() != gpio.High {
		t.Fatal("reset not released")
	}
	clock.Advance(31 * time.Millisecond)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestNotInitialized(t *testing.T) {
	p := ssd2119test.NewPanel()
	d := newDev(t, p, nil)
	for name, f := range map[string]func() error{
		"SetPoint":       func() error { return d.SetPoint(0, 0, image565.White) },
		"FastFill":       func() error { return d.FastFill(0, 0, 1, 1, image565.White) },
		"SetWindow":      func() error { return d.SetWindow(0, 0, 1, 1) },
		"CloseWindow":    d.CloseWindow,
		"WriteData88":    func() error { return d.WriteData88(0, 0) },
		"SetOrientation": func() error { return d.SetOrientation(screen.Portrait) },
		"SetBacklight":   func() error { return d.SetBacklight(true) },
		"Clear":          func() error { return d.Clear(image565.Black) },
		"Draw":           func() error { return d.Draw(d.Bounds(), image.Black, image.Point{}) },
	} {
		if err := f(); !errors.Is(err, ssd2119.ErrNotInitialized) {
			t.Errorf("%s: got %v", name, err)
		}
	}
	if n := len(p.Transfers); n != 0 {
		t.Fatalf("%d transfers before Init", n)
	}
}

// TestSetPointEndToEnd writes the logical origin in the default orientation,
// which is the bottom right corner of the controller.
func TestSetPointEndToEnd(t *testing.T) {
	d, p := initPanel(t)
	if err := d.SetPoint(0, 0, 0xFFFF); err != nil {
		t.Fatal(err)
	}
	want := []W{{ssd2119.RegXRAMAddr, 319}, {ssd2119.RegYRAMAddr, 239}}
	if diff := cmp.Diff(want, p.Writes()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	wantT := []bus8080test.Transfer{
		{Value: 0x4E}, {Data: true, Value: 0x01}, {Data: true, Value: 0x3F},
		{Value: 0x4F}, {Data: true, Value: 0x00}, {Data: true, Value: 0xEF},
		{Value: 0x22}, {Data: true, Value: 0xFF}, {Data: true, Value: 0xFF},
	}
	if diff := cmp.Diff(wantT, p.Transfers); diff != "" {
		t.Fatalf("transfers (-want +got):\n%s", diff)
	}
	if c := p.At(319, 239); c != image565.White {
		t.Fatalf("pixel %04x", c)
	}
	if len(p.Violations) != 0 {
		t.Fatal(p.Violations)
	}
}

func TestSetWindowOrderIndependent(t *testing.T) {
	d, p := initPanel(t)
	type rect struct{ x1, y1, x2, y2 int }
	for o := screen.Portrait; o <= screen.LandscapeFlipped; o++ {
		if err := d.SetOrientation(o); err != nil {
			t.Fatal(err)
		}
		for _, r := range []rect{{3, 5, 40, 60}, {0, 0, 0, 0}, {10, 2, 11, 200}} {
			var logs [][]W
			for _, c := range []rect{
				{r.x1, r.y1, r.x2, r.y2},
				{r.x2, r.y1, r.x1, r.y2},
				{r.x1, r.y2, r.x2, r.y1},
				{r.x2, r.y2, r.x1, r.y1},
			} {
				p.Reset()
				if err := d.SetWindow(c.x1, c.y1, c.x2, c.y2); err != nil {
					t.Fatal(err)
				}
				logs = append(logs, p.Writes())
			}
			for i := 1; i < len(logs); i++ {
				if diff := cmp.Diff(logs[0], logs[i]); diff != "" {
					t.Errorf("%s %v permutation %d (-sorted +got):\n%s", o, r, i, diff)
				}
			}
		}
	}
}

func TestCloseWindow(t *testing.T) {
	d, p := initPanel(t)
	for _, tc := range []struct {
		o    screen.Orientation
		want []W
	}{
		{screen.Portrait, []W{
			{ssd2119.RegHRAMStart, 0}, {ssd2119.RegHRAMEnd, 319}, {ssd2119.RegVRAMPos, 239 << 8},
			{ssd2119.RegXRAMAddr, 319}, {ssd2119.RegYRAMAddr, 0},
		}},
		{screen.Landscape, []W{
			{ssd2119.RegHRAMStart, 0}, {ssd2119.RegHRAMEnd, 319}, {ssd2119.RegVRAMPos, 239 << 8},
			{ssd2119.RegXRAMAddr, 319}, {ssd2119.RegYRAMAddr, 239},
		}},
		{screen.PortraitFlipped, []W{
			{ssd2119.RegHRAMStart, 0}, {ssd2119.RegHRAMEnd, 319}, {ssd2119.RegVRAMPos, 239 << 8},
			{ssd2119.RegXRAMAddr, 0}, {ssd2119.RegYRAMAddr, 239},
		}},
		{screen.LandscapeFlipped, []W{
			{ssd2119.RegHRAMStart, 0}, {ssd2119.RegHRAMEnd, 319}, {ssd2119.RegVRAMPos, 239 << 8},
			{ssd2119.RegXRAMAddr, 0}, {ssd2119.RegYRAMAddr, 0},
		}},
	} {
		if err := d.SetOrientation(tc.o); err != nil {
			t.Fatal(err)
		}
		p.Reset()
		if err := d.CloseWindow(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.want, p.Writes()); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.o, diff)
		}
		if cmds := p.Commands(); cmds[len(cmds)-1] != byte(ssd2119.RegRAMData) {
			t.Errorf("%s: last command 0x%02X", tc.o, cmds[len(cmds)-1])
		}
	}
}

func TestFastFillTransfers(t *testing.T) {
	d, p := initPanel(t)
	if err := d.FastFill(10, 20, 3, 5, image565.Red); err != nil {
		t.Fatal(err)
	}
	if n := p.Pixels(); n != 8*16 {
		t.Fatalf("got %d pixels, want %d", n, 8*16)
	}
	// Everything after the RAM data command is the color, high byte first.
	var data []byte
	for _, tr := range p.Transfers {
		if !tr.Data {
			data = data[:0]
			continue
		}
		data = append(data, tr.Value)
	}
	if len(data) != 2*8*16 {
		t.Fatalf("got %d data bytes", len(data))
	}
	for i := 0; i < len(data); i += 2 {
		if data[i] != 0xF8 || data[i+1] != 0x00 {
			t.Fatalf("byte %d: %02x %02x", i, data[i], data[i+1])
		}
	}
}

func TestFastFillGeometry(t *testing.T) {
	d, p := initPanel(t)
	for o := screen.Portrait; o <= screen.LandscapeFlipped; o++ {
		if err := d.SetOrientation(o); err != nil {
			t.Fatal(err)
		}
		if err := d.Clear(image565.Black); err != nil {
			t.Fatal(err)
		}
		r := image.Rect(7, 30, 52, 61)
		if err := d.FastFill(r.Max.X-1, r.Min.Y, r.Min.X, r.Max.Y-1, image565.Green); err != nil {
			t.Fatal(err)
		}
		for y := range d.SizeY() {
			for x := range d.SizeX() {
				px, py := d.OrientCoordinates(x, y)
				want := image565.Black
				if image.Pt(x, y).In(r) {
					want = image565.Green
				}
				if got := p.At(px, py); got != want {
					t.Fatalf("%s: logical (%d,%d) got %04x want %04x", o, x, y, got, want)
				}
			}
		}
		// The cursor wrapped back to the start of the window.
		if c, want := p.Cursor(), image.Pt(d.OrientCoordinates(r.Min.X, r.Min.Y)); c != want {
			t.Errorf("%s: cursor %v, want %v", o, c, want)
		}
	}
}

func TestDraw(t *testing.T) {
	d, p := initPanel(t)
	src := image565.NewImage(image.Rect(0, 0, 40, 30))
	for y := range 30 {
		for x := range 40 {
			src.SetColor565(x, y, image565.Color(y<<8|x))
		}
	}
	for o := screen.Portrait; o <= screen.LandscapeFlipped; o++ {
		if err := d.SetOrientation(o); err != nil {
			t.Fatal(err)
		}
		dst := image.Rect(100, 200, 140, 230)
		if err := d.Draw(dst, src, image.Point{}); err != nil {
			t.Fatal(err)
		}
		for y := range 30 {
			for x := range 40 {
				px, py := d.OrientCoordinates(dst.Min.X+x, dst.Min.Y+y)
				if got, want := p.At(px, py), src.Color565At(x, y); got != want {
					t.Fatalf("%s: (%d,%d) got %04x want %04x", o, x, y, got, want)
				}
			}
		}
	}
}

func TestDrawClipped(t *testing.T) {
	d, p := initPanel(t)
	if err := d.Draw(image.Rect(310, 230, 330, 250), &image.Uniform{C: color.White}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if n := p.Pixels(); n != 100 {
		t.Fatalf("got %d pixels, want 100", n)
	}
	// Logical (319, 239) is the controller origin in Landscape.
	if c := p.At(0, 0); c != image565.White {
		t.Fatalf("got %04x", c)
	}
	if c := p.At(10, 10); c != image565.Black {
		t.Fatalf("got %04x", c)
	}
	p.Reset()
	if err := d.Draw(image.Rect(400, 400, 500, 500), image.White, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if n := len(p.Transfers); n != 0 {
		t.Fatalf("%d transfers for an empty draw", n)
	}
}

func TestWrite(t *testing.T) {
	d, p := initPanel(t)
	if _, err := d.Write(make([]byte, 10)); err == nil {
		t.Fatal("expected length error")
	}
	frame := make([]byte, 2*ssd2119.Width*ssd2119.Height)
	// Logical pixel (1, 0).
	frame[2], frame[3] = image565.Blue.Bytes()
	if n, err := d.Write(frame); err != nil || n != len(frame) {
		t.Fatalf("got %d, %v", n, err)
	}
	if c := p.At(318, 239); c != image565.Blue {
		t.Fatalf("got %04x", c)
	}
}

func TestOutOfBounds(t *testing.T) {
	d, _ := initPanel(t)
	for name, err := range map[string]error{
		"SetPoint":  d.SetPoint(320, 0, 0),
		"Negative":  d.SetPoint(-1, 0, 0),
		"FastFill":  d.FastFill(0, 0, 10, 240, 0),
		"SetWindow": d.SetWindow(0, 0, 320, 10),
		"SetCursor": d.SetCursor(0, 240),
	} {
		if !errors.Is(err, ssd2119.ErrOutOfBounds) {
			t.Errorf("%s: got %v", name, err)
		}
	}
	if err := d.SetOrientation(screen.Portrait); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPoint(239, 319, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPoint(240, 0, 0); !errors.Is(err, ssd2119.ErrOutOfBounds) {
		t.Fatalf("got %v", err)
	}
	if err := d.SetOrientation(4); !errors.Is(err, ssd2119.ErrInvalidOrientation) {
		t.Fatalf("got %v", err)
	}
	if d.Orientation() != screen.Portrait {
		t.Fatal("orientation changed")
	}
}

func TestSizes(t *testing.T) {
	d, _ := initPanel(t)
	for o, want := range map[screen.Orientation]image.Rectangle{
		screen.Portrait:         image.Rect(0, 0, 240, 320),
		screen.Landscape:        image.Rect(0, 0, 320, 240),
		screen.PortraitFlipped:  image.Rect(0, 0, 240, 320),
		screen.LandscapeFlipped: image.Rect(0, 0, 320, 240),
	} {
		if err := d.SetOrientation(o); err != nil {
			t.Fatal(err)
		}
		if got := d.Bounds(); got != want || d.SizeX() != want.Dx() || d.SizeY() != want.Dy() {
			t.Errorf("%s: got %v", o, got)
		}
	}
}

func TestSetCursor(t *testing.T) {
	d, p := initPanel(t)
	if err := d.SetCursor(5, 6); err != nil {
		t.Fatal(err)
	}
	want := []W{{ssd2119.RegXRAMAddr, 314}, {ssd2119.RegYRAMAddr, 233}}
	if diff := cmp.Diff(want, p.Writes()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if err := d.WriteData88(0x07, 0xE0); err != nil {
		t.Fatal(err)
	}
	if c := p.At(314, 233); c != image565.Green {
		t.Fatalf("got %04x", c)
	}
}

func TestBacklight(t *testing.T) {
	pwm := &gpiotest.Pin{N: "BL"}
	opts := ssd2119.DefaultOpts
	opts.Backlight = pwm
	p := ssd2119test.NewPanel()
	d := newDev(t, p, &opts)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetBacklight(false); err != nil || !p.Sleeping() {
		t.Fatalf("sleep: %v", err)
	}
	if err := d.SetBacklight(true); err != nil || p.Sleeping() {
		t.Fatalf("wake: %v", err)
	}
	if err := d.SetIntensity(255); err != nil {
		t.Fatal(err)
	}
	if pwm.D != gpio.DutyMax || pwm.F != ssd2119.DefaultOpts.BacklightFreq {
		t.Fatalf("got %s at %s", pwm.D, pwm.F)
	}
	if err := d.Backlight(0); err != nil || !p.Sleeping() {
		t.Fatalf("Backlight(0): %v", err)
	}
	if err := d.Backlight(1000); err != nil || p.Sleeping() || pwm.D != gpio.DutyMax {
		t.Fatalf("Backlight(1000): %v %s", err, pwm.D)
	}
	if err := d.Backlight(0x80); err != nil {
		t.Fatal(err)
	}
	if want := gpio.Duty(0x80 * int64(gpio.DutyMax) / 255); pwm.D != want {
		t.Fatalf("got %d, want %d", pwm.D, want)
	}

	d2 := newDev(t, ssd2119test.NewPanel(), nil)
	if err := d2.SetIntensity(10); !errors.Is(err, ssd2119.ErrNoBacklightPin) {
		t.Fatalf("got %v", err)
	}
}

func TestHalt(t *testing.T) {
	d, p := initPanel(t)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !p.Sleeping() {
		t.Fatal("panel awake after Halt")
	}
	if err := d.SetPoint(0, 0, 0); !errors.Is(err, ssd2119.ErrHalted) {
		t.Fatalf("got %v", err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestBusError(t *testing.T) {
	d, p := initPanel(t)
	errFail := errors.New("fail")
	p.Err = errFail
	if err := d.FastFill(0, 0, 319, 239, 0); !errors.Is(err, errFail) {
		t.Fatalf("got %v", err)
	}
	p2 := ssd2119test.NewPanel()
	p2.Err = errFail
	d2 := newDev(t, p2, nil)
	if err := d2.Init(); !errors.Is(err, errFail) {
		t.Fatalf("got %v", err)
	}
	p2.Err = nil
	if err := d2.Init(); err != nil {
		t.Fatalf("Init after a failed Init: %v", err)
	}
}

func TestDirectPortPanel(t *testing.T) {
	for _, m := range []*bus8080.Mapping{&bus8080.F5529BoosterPack, &bus8080.F5529InterfaceBoard, &bus8080.MSP432BoosterPack} {
		t.Run(m.Name, func(t *testing.T) {
			p := ssd2119test.NewPanel()
			port, err := bus8080.NewDirectPort(p.Registers(6, m), m)
			if err != nil {
				t.Fatal(err)
			}
			d := newDev(t, port, nil)
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			if err := d.SetPoint(0, 0, image565.Magenta); err != nil {
				t.Fatal(err)
			}
			if c := p.At(319, 239); c != image565.Magenta {
				t.Fatalf("got %04x", c)
			}
			if diff := cmp.Diff([]string(nil), p.Violations, cmpopts.EquateEmpty()); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestWhoAmI(t *testing.T) {
	d := newDev(t, ssd2119test.NewPanel(), nil)
	if s := d.WhoAmI(); s != "Kentec 3.5\" Parallel screen" {
		t.Fatalf("got %q", s)
	}
	if s := d.String(); s != "ssd2119.Dev{8080(bus8080test.Record), Landscape}" {
		t.Fatalf("got %q", s)
	}
}

func TestBoardBusPins(t *testing.T) {
	pins := map[string]gpio.PinIO{}
	for _, n := range []int{2, 3, 4, 7, 8, 9, 10, 13, 14, 15, 19, 38} {
		name := strconv.Itoa(n)
		pins[name] = &gpiotest.Pin{N: name}
	}
	lookup := func(name string) gpio.PinIO {
		if p, ok := pins[name]; ok {
			return p
		}
		return nil
	}
	p, err := ssd2119.BoosterPack.BusPins(lookup)
	if err != nil {
		t.Fatal(err)
	}
	if p.DC.Name() != "9" || p.CS.Name() != "10" || p.D[3].Name() != "38" {
		t.Fatalf("got DC=%s CS=%s D3=%s", p.DC, p.CS, p.D[3])
	}
	if _, err := ssd2119.InterfaceBoard.BusPins(lookup); err == nil {
		t.Fatal("expected missing pin")
	}
	if _, err := ssd2119.BoosterPack.TouchPins(lookup, nil); err == nil {
		t.Fatal("expected missing ADC")
	}
}

func TestNewNilOpts(t *testing.T) {
	p := ssd2119test.NewPanel()
	d, err := ssd2119.New(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetIntensity(10); !errors.Is(err, ssd2119.ErrNoBacklightPin) {
		t.Fatalf("got %v", err)
	}
	if _, err := d.RawTouch(); !errors.Is(err, ssd2119.ErrTouchNotSupported) {
		t.Fatalf("got %v", err)
	}
	if _, err := ssd2119.NewGPIO(bus8080test.NewRecord().Pins(), nil); err != nil {
		t.Fatal(err)
	}
}

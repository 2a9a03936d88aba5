// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// k35demo draws a test screen on the Kentec 3.5" BoosterPack.
//
// With -sim, it drives an emulated panel and prints it to the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/kentec35/bus8080"
	"github.com/GermanBionicSystems/kentec35/image565"
	"github.com/GermanBionicSystems/kentec35/screen"
	"github.com/GermanBionicSystems/kentec35/ssd2119"
	"github.com/GermanBionicSystems/kentec35/ssd2119/ssd2119test"
	"github.com/GermanBionicSystems/kentec35/termview"
	"github.com/GermanBionicSystems/kentec35/webview"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	boardName   = flag.String("board", "boosterpack", "pin assignment, boosterpack or interface")
	bcm         = flag.String("bcm", "", "drive a bcm283x directly; DC,CS,WR,RD,D0,...,D7 GPIO numbers")
	spiName     = flag.String("spi", "", "SPI port of a 74HC595 holding D0-D7")
	orientation = flag.Int("o", int(screen.Landscape), "orientation, 0 to 3")
	text        = flag.String("text", "Hello from periph!", "text to draw")
	sim         = flag.Bool("sim", false, "emulate the panel in the terminal")
	scale       = flag.Int("scale", 8, "terminal downsampling with -sim")
	httpAddr    = flag.String("http", "", "with -sim, also serve the screen on this address")
	verbose     = flag.Bool("v", false, "verbose")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(nopWriter{})
	}
	log.SetFlags(log.Lmicroseconds)
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "k35demo: %s.\n", err)
		os.Exit(1)
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func mainImpl() error {
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	o := screen.Orientation(*orientation)
	if err := o.Valid(); err != nil {
		return err
	}
	var panel *ssd2119test.Panel
	var port bus8080.Port
	if *sim {
		panel = ssd2119test.NewPanel()
		port = panel
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		var sp spi.Port
		if *spiName != "" {
			p, err := spireg.Open(*spiName)
			if err != nil {
				return err
			}
			defer p.Close()
			sp = p
		}
		var err error
		if port, err = openPort(sp); err != nil {
			return err
		}
	}
	log.Printf("using %s", port)

	dev, err := ssd2119.New(port, &ssd2119.DefaultOpts)
	if err != nil {
		return err
	}
	defer dev.Halt()
	start := time.Now()
	if err := dev.Init(); err != nil {
		return err
	}
	log.Printf("Init() took %s", time.Since(start))
	if err := dev.SetOrientation(o); err != nil {
		return err
	}
	img, err := compose(dev.Bounds(), *text)
	if err != nil {
		return err
	}
	start = time.Now()
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	log.Printf("Draw() took %s", time.Since(start))
	// Corner markers check the orientation.
	for i, c := range []image565.Color{image565.Red, image565.Green, image565.Blue, image565.Yellow} {
		x := (i & 1) * (dev.SizeX() - 8)
		y := (i >> 1) * (dev.SizeY() - 8)
		if err := dev.FastFill(x, y, x+7, y+7, c); err != nil {
			return err
		}
	}
	if panel != nil {
		return show(dev, panel)
	}
	return nil
}

// openPort returns the port selected by the flags. sp, when not nil, holds
// the 74HC595 driving D0-D7.
func openPort(sp spi.Port) (bus8080.Port, error) {
	if *bcm != "" {
		return openBCM(*bcm)
	}
	var b *ssd2119.Board
	switch *boardName {
	case "boosterpack":
		b = &ssd2119.BoosterPack
	case "interface":
		b = &ssd2119.InterfaceBoard
	default:
		return nil, fmt.Errorf("unknown board %q", *boardName)
	}
	pins, err := b.BusPins(func(name string) gpio.PinIO {
		return gpioreg.ByName(name)
	})
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return bus8080.NewGPIOPort(pins)
	}
	c, err := sp.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return bus8080.NewShiftPort(pins, c)
}

// openBCM sets the twelve GPIOs as outputs and returns a DirectPort on them.
func openBCM(list string) (bus8080.Port, error) {
	f := strings.Split(list, ",")
	if len(f) != 12 {
		return nil, fmt.Errorf("-bcm wants 12 GPIO numbers, got %d", len(f))
	}
	var n [12]int
	for i, s := range f {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		n[i] = v
		if v < 0 {
			continue
		}
		p := gpioreg.ByName("GPIO" + strconv.Itoa(v))
		if p == nil {
			return nil, fmt.Errorf("GPIO%d not found", v)
		}
		if err := p.Out(gpio.High); err != nil {
			return nil, err
		}
	}
	r, err := bus8080.NewBCMBank0()
	if err != nil {
		return nil, err
	}
	m := bus8080.BCMMapping(n[0], n[1], n[2], n[3], [8]int(n[4:]))
	return bus8080.NewDirectPort([]bus8080.Register{r}, &m)
}

// compose renders the test screen.
func compose(r image.Rectangle, s string) (image.Image, error) {
	w, h := r.Dx(), r.Dy()
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0.2)
	dc.Clear()
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 20}))
	tw, th := dc.MeasureString(s)
	const padding = 8.0
	x := (float64(w) - tw) / 2
	y := float64(h)/2 - th
	dc.SetRGB(1, 1, 1)
	dc.DrawRoundedRectangle(x-padding, y-padding, tw+2*padding, th+2*padding, 10)
	dc.Stroke()
	dc.DrawString(s, x, y+th)
	for i := 0; i < 10; i++ {
		dc.SetRGB(float64(i)/9, 1-float64(i)/9, 0.5)
		dc.DrawCircle(float64(w)/2+float64(i-5)*20, float64(h)*3/4, 6)
		dc.Fill()
	}
	return dc.Image(), nil
}

// show prints the emulated panel as seen by the user and, with -http, serves
// it until interrupted.
func show(dev *ssd2119.Dev, panel *ssd2119test.Panel) error {
	gram := panel.Image()
	logical := image565.NewImage(dev.Bounds())
	for y := 0; y < dev.SizeY(); y++ {
		for x := 0; x < dev.SizeX(); x++ {
			logical.SetColor565(x, y, gram.Color565At(dev.OrientCoordinates(x, y)))
		}
	}
	log.Printf("%d pixels written", panel.Pixels())

	v, err := termview.New(&termview.Opts{W: dev.SizeX(), H: dev.SizeY(), Scale: *scale})
	if err != nil {
		return err
	}
	if err := v.Draw(v.Bounds(), logical, image.Point{}); err != nil {
		return err
	}
	if err := v.Halt(); err != nil {
		return err
	}
	if *httpAddr == "" {
		return nil
	}
	w, err := webview.New(&webview.Opts{W: dev.SizeX(), H: dev.SizeY()})
	if err != nil {
		return err
	}
	if err := w.Draw(w.Bounds(), logical, image.Point{}); err != nil {
		return err
	}
	fmt.Printf("Serving on http://%s/\n", *httpAddr)
	return http.ListenAndServe(*httpAddr, w)
}

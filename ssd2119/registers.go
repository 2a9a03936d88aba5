// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd2119

import "fmt"

// Reg is an SSD2119 register index.
type Reg byte

// Registers used by the driver.
const (
	RegOscStart       Reg = 0x00 // Write. Reading returns the device code.
	RegOutputCtrl     Reg = 0x01
	RegLCDDriveAC     Reg = 0x02
	RegPowerCtrl1     Reg = 0x03
	RegDisplayCtrl    Reg = 0x07
	RegFrameCycleCtrl Reg = 0x0B
	RegPowerCtrl2     Reg = 0x0C
	RegPowerCtrl3     Reg = 0x0D
	RegPowerCtrl4     Reg = 0x0E
	RegGateScanStart  Reg = 0x0F
	RegSleepMode      Reg = 0x10
	RegEntryMode      Reg = 0x11
	RegGenIfCtrl      Reg = 0x15
	RegPowerCtrl5     Reg = 0x1E
	RegRAMData        Reg = 0x22
	RegFrameFreq      Reg = 0x25
	RegVCOMOTP1       Reg = 0x28
	RegVCOMOTP2       Reg = 0x29
	RegGamma1         Reg = 0x30
	RegGamma2         Reg = 0x31
	RegGamma3         Reg = 0x32
	RegGamma4         Reg = 0x33
	RegGamma5         Reg = 0x34
	RegGamma6         Reg = 0x35
	RegGamma7         Reg = 0x36
	RegGamma8         Reg = 0x37
	RegGamma9         Reg = 0x3A
	RegGamma10        Reg = 0x3B
	RegVRAMPos        Reg = 0x44 // End row in the high byte, start row in the low byte.
	RegHRAMStart      Reg = 0x45
	RegHRAMEnd        Reg = 0x46
	RegXRAMAddr       Reg = 0x4E
	RegYRAMAddr       Reg = 0x4F
)

var regNames = map[Reg]string{
	RegOscStart:       "OSC_START",
	RegOutputCtrl:     "OUTPUT_CTRL",
	RegLCDDriveAC:     "LCD_DRIVE_AC",
	RegPowerCtrl1:     "PWR_CTRL_1",
	RegDisplayCtrl:    "DISPLAY_CTRL",
	RegFrameCycleCtrl: "FRAME_CYCLE",
	RegPowerCtrl2:     "PWR_CTRL_2",
	RegPowerCtrl3:     "PWR_CTRL_3",
	RegPowerCtrl4:     "PWR_CTRL_4",
	RegGateScanStart:  "GATE_SCAN_START",
	RegSleepMode:      "SLEEP_MODE",
	RegEntryMode:      "ENTRY_MODE",
	RegGenIfCtrl:      "GEN_IF_CTRL",
	RegPowerCtrl5:     "PWR_CTRL_5",
	RegRAMData:        "RAM_DATA",
	RegFrameFreq:      "FRAME_FREQ",
	RegVCOMOTP1:       "VCOM_OTP_1",
	RegVCOMOTP2:       "VCOM_OTP_2",
	RegGamma1:         "GAMMA_1",
	RegGamma2:         "GAMMA_2",
	RegGamma3:         "GAMMA_3",
	RegGamma4:         "GAMMA_4",
	RegGamma5:         "GAMMA_5",
	RegGamma6:         "GAMMA_6",
	RegGamma7:         "GAMMA_7",
	RegGamma8:         "GAMMA_8",
	RegGamma9:         "GAMMA_9",
	RegGamma10:        "GAMMA_10",
	RegVRAMPos:        "V_RAM_POS",
	RegHRAMStart:      "H_RAM_START",
	RegHRAMEnd:        "H_RAM_END",
	RegXRAMAddr:       "X_RAM_ADDR",
	RegYRAMAddr:       "Y_RAM_ADDR",
}

func (r Reg) String() string {
	if n, ok := regNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Reg(0x%02X)", byte(r))
}

// Entry mode bits.
const (
	// EntryModeBase selects 65k colors with the data bus in 8 bit mode.
	EntryModeBase uint16 = 0x6800
	// EntryAM advances the address vertically first.
	EntryAM uint16 = 0x0008
	// EntryID0 increments the horizontal address.
	EntryID0 uint16 = 0x0010
	// EntryID1 increments the vertical address.
	EntryID1 uint16 = 0x0020
	// EntryModeDefault scans left to right, top to bottom.
	EntryModeDefault = EntryModeBase | EntryID1 | EntryID0
)

// Panel geometry in controller coordinates.
const (
	Width  = 320
	Height = 240
)

// Sleep mode register values.
const (
	sleepOff uint16 = 0x0000
	sleepOn  uint16 = 0x0001
)

type regValue struct {
	reg Reg
	v   uint16
}

// powerOn is written before leaving sleep mode.
var powerOn = []regValue{
	{RegPowerCtrl5, 0x00BA},
	{RegVCOMOTP1, 0x0006},
	{RegOscStart, 0x0001},
	{RegOutputCtrl, 0x30EF},
	{RegLCDDriveAC, 0x0600},
	{RegSleepMode, sleepOff},
}

// afterWake is written once the panel had time to leave sleep mode. It ends
// with a full screen window and the cursor at the origin.
var afterWake = []regValue{
	{RegEntryMode, EntryModeDefault},
	{RegDisplayCtrl, 0x0033},
	{RegPowerCtrl2, 0x0005},
	{RegGamma1, 0x0000},
	{RegGamma2, 0x0400},
	{RegGamma3, 0x0106},
	{RegGamma4, 0x0700},
	{RegGamma5, 0x0002},
	{RegGamma6, 0x0702},
	{RegGamma7, 0x0707},
	{RegGamma8, 0x0203},
	{RegGamma9, 0x1400},
	{RegGamma10, 0x0F03},
	{RegPowerCtrl3, 0x0007},
	{RegPowerCtrl4, 0x3100},
	{RegVRAMPos, (Height - 1) << 8},
	{RegHRAMStart, 0x0000},
	{RegHRAMEnd, Width - 1},
	{RegXRAMAddr, 0x0000},
	{RegYRAMAddr, 0x0000},
}

// entryModes holds the scan direction per screen.Orientation so that the
// controller fills a window in logical row-major order.
var entryModes = [4]uint16{
	EntryModeBase | EntryID1 | EntryAM,
	EntryModeBase,
	EntryModeBase | EntryID0 | EntryAM,
	EntryModeBase | EntryID1 | EntryID0,
}

package mira220

import "time"

// Chip identification.
const (
	Name     = "mira220"
	PartID   = 0x0130
	SCCBAddr = 0x54
)

// Register map.
const (
	RegSensorIDH uint16 = 0x0025
	RegSensorIDL uint16 = 0x0026

	RegStart uint16 = 0x1000 // 0x01 start, 0x00 stop
	RegMode  uint16 = 0x1003 // 0x10 streaming, 0x02 standby

	RegGroupHold      uint16 = 0x1001
	RegGroupHoldDelay uint16 = 0x1002

	RegExposureL uint16 = 0x100C
	RegExposureH uint16 = 0x100D

	RegHTSL    uint16 = 0x1010
	RegHTSH    uint16 = 0x1011
	RegVBlankL uint16 = 0x1012
	RegVBlankH uint16 = 0x1013

	RegYStartH uint16 = 0x107D
	RegYStartL uint16 = 0x107E
	RegHeightH uint16 = 0x1087
	RegHeightL uint16 = 0x1088
	RegXStartH uint16 = 0x1089
	RegXStartL uint16 = 0x108A
	RegWidthH  uint16 = 0x108B
	RegWidthL  uint16 = 0x108C

	RegVFlip       uint16 = 0x1095
	RegTestPattern uint16 = 0x2091
	RegHMirror     uint16 = 0x209C
	RegBitDepth    uint16 = 0x209E

	RegDigitalGain uint16 = 0x0024
	RegAnalogGain  uint16 = 0x400A

	RegMIPILanes uint16 = 0x5004
)

// Register values.
const (
	modeStreaming uint8 = 0x10
	modeStandby   uint8 = 0x02
	startTrigger  uint8 = 0x01
	stopTrigger   uint8 = 0x00

	GroupHoldStart         uint8 = 0x00
	GroupHoldEnd           uint8 = 0x30
	DefaultHoldDelayFrames uint8 = 0x01

	bitDepth8  uint8 = 0x04
	bitDepth10 uint8 = 0x02
	bitDepth12 uint8 = 0x00
)

// Exposure limits, in lines. The longest exposure is VTS minus a fixed
// margin the sensor needs for readout.
const (
	ExposureMin       = 0x0F
	ExposureMaxOffset = 0x06
	VTSMax            = 0x7FFF
)

// Settle delays.
const (
	formatSettle = 100 * time.Millisecond
	streamSettle = 10 * time.Millisecond
)

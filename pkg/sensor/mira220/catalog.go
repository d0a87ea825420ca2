package mira220

import "github.com/smazurov/sensorctl/pkg/sensor"

// Index of the format selected by sensor.FormatDefault.
const defaultFormatIndex = 0

// Analog and PLL setup shared by every mode.
var commonInit = []sensor.Register{
	{Addr: 0x6006, Val: 0x00},
	{Addr: 0x6012, Val: 0x01},
	{Addr: 0x6013, Val: 0x00},
	{Addr: 0x6006, Val: 0x01},
	{Addr: 0x205D, Val: 0x00},
	{Addr: 0x2063, Val: 0x00},
	{Addr: 0x24DC, Val: 0x13},
	{Addr: 0x24DD, Val: 0x03},
	{Addr: 0x24DE, Val: 0x03},
	{Addr: 0x24DF, Val: 0x00},
	{Addr: 0x400B, Val: 0x0C},
	{Addr: 0x401A, Val: 0x08},
	{Addr: 0x4015, Val: 0x03},
	{Addr: 0x4016, Val: 0x06},
	{Addr: 0x1094, Val: 0x01},
}

type mode struct {
	name     string
	pixfmt   sensor.PixelFormat
	bitDepth uint8
	width    uint32
	height   uint32
	fps      uint32
	hts      uint32
	vts      uint32
	mipiClk  uint32
	expDef   uint32
}

var modes = []mode{
	{
		name:     "MIPI_2lane_RAW8_1024_600_6fps",
		pixfmt:   sensor.PixelFormatRAW8,
		bitDepth: bitDepth8,
		width:    1024,
		height:   600,
		fps:      6,
		hts:      1500,
		vts:      4100,
		mipiClk:  400000000,
		expDef:   0x0400,
	},
	{
		name:     "MIPI_2lane_RAW10_1600_1400_30fps",
		pixfmt:   sensor.PixelFormatRAW10,
		bitDepth: bitDepth10,
		width:    1600,
		height:   1400,
		fps:      30,
		hts:      1500,
		vts:      1450,
		mipiClk:  750000000,
		expDef:   0x0200,
	},
	{
		name:     "MIPI_2lane_RAW12_1600_1400_15fps",
		pixfmt:   sensor.PixelFormatRAW12,
		bitDepth: bitDepth12,
		width:    1600,
		height:   1400,
		fps:      15,
		hts:      1500,
		vts:      2900,
		mipiClk:  750000000,
		expDef:   0x0400,
	},
}

var catalog = buildCatalog()

func buildCatalog() sensor.Catalog {
	formats := make([]sensor.FormatDescriptor, 0, len(modes))
	for _, m := range modes {
		formats = append(formats, sensor.FormatDescriptor{
			Name:        m.name,
			PixelFormat: m.pixfmt,
			Port:        sensor.PortMIPICSI,
			XClk:        38400000,
			Width:       m.width,
			Height:      m.height,
			FPS:         m.fps,
			Program:     m.program(),
			ISP: sensor.ISPInfo{
				HTS:    m.hts,
				VTS:    m.vts,
				PClk:   m.hts * m.vts * m.fps,
				Bayer:  sensor.BayerBGGR,
				ExpDef: m.expDef,
			},
			MIPI: sensor.MIPIInfo{
				Clock: m.mipiClk,
				Lanes: 2,
			},
		})
	}
	return sensor.Catalog{Formats: formats, Default: defaultFormatIndex}
}

// program builds the register program for m: common setup, window and
// timing, output depth, then the parameter registers at their defaults so
// the controller cache matches the chip after a format change.
func (m mode) program() sensor.RegisterProgram {
	const fullWidth, fullHeight = 1600, 1400
	xstart := (fullWidth - m.width) / 2
	ystart := (fullHeight - m.height) / 2
	vblank := m.vts - m.height
	expLo, expHi := splitExposure(m.expDef)
	gain := gainTable[0]

	p := make(sensor.RegisterProgram, 0, len(commonInit)+32)
	p = append(p, commonInit...)
	p = append(p,
		sensor.Register{Addr: RegHTSL, Val: uint8(m.hts)},
		sensor.Register{Addr: RegHTSH, Val: uint8(m.hts >> 8)},
		sensor.Register{Addr: RegVBlankL, Val: uint8(vblank)},
		sensor.Register{Addr: RegVBlankH, Val: uint8(vblank >> 8)},
		sensor.Register{Addr: RegYStartH, Val: uint8(ystart >> 8)},
		sensor.Register{Addr: RegYStartL, Val: uint8(ystart)},
		sensor.Register{Addr: RegHeightH, Val: uint8(m.height >> 8)},
		sensor.Register{Addr: RegHeightL, Val: uint8(m.height)},
		sensor.Register{Addr: RegXStartH, Val: uint8(xstart >> 8)},
		sensor.Register{Addr: RegXStartL, Val: uint8(xstart)},
		sensor.Register{Addr: RegWidthH, Val: uint8(m.width >> 8)},
		sensor.Register{Addr: RegWidthL, Val: uint8(m.width)},
		sensor.Register{Addr: RegBitDepth, Val: m.bitDepth},
		sensor.Register{Addr: RegMIPILanes, Val: 0x01},
		sensor.Register{Addr: RegExposureL, Val: expLo},
		sensor.Register{Addr: RegExposureH, Val: expHi},
		sensor.Register{Addr: RegDigitalGain, Val: gain.Digital},
		sensor.Register{Addr: RegAnalogGain, Val: gain.Analog},
		sensor.Register{Addr: RegHMirror, Val: 0x00},
		sensor.Register{Addr: RegVFlip, Val: 0x00},
		sensor.Register{Addr: RegTestPattern, Val: 0x00},
		sensor.EndOfProgram,
	)
	return p
}

// Catalog returns the supported formats.
func Catalog() sensor.Catalog {
	return catalog.Clone()
}

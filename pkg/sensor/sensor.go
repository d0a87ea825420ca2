// Package sensor defines the types shared by camera sensor controllers:
// register programs, output format descriptors, live parameters and the
// Ops capability set a controller exposes to its host.
//
// A controller is attached by a sensor specific Detect function, which
// verifies the part id over the register bus before returning. After that
// the host selects a format, toggles streaming and adjusts parameters:
//
//	ctrl, err := mira220.Detect(bus, mira220.WithPower(pwr))
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Close()
//	if err := ctrl.SetFormat(sensor.FormatDefault); err != nil {
//	    return err
//	}
//	if err := ctrl.EnableStreaming(true); err != nil {
//	    return err
//	}
//
// Controllers are not safe for concurrent use; hosts that share one must
// serialize every call.
package sensor

import "slices"

// PixelFormat identifies the sensor output encoding.
type PixelFormat string

// Pixel formats.
const (
	PixelFormatRAW8  PixelFormat = "RAW8"
	PixelFormatRAW10 PixelFormat = "RAW10"
	PixelFormatRAW12 PixelFormat = "RAW12"
)

// Port is the physical output interface.
type Port string

// Output ports.
const (
	PortMIPICSI Port = "MIPI_CSI"
	PortDVP     Port = "DVP"
)

// Bayer is the color filter layout of the first pixel row pair.
type Bayer string

// Bayer layouts.
const (
	BayerRGGB Bayer = "RGGB"
	BayerGRBG Bayer = "GRBG"
	BayerGBRG Bayer = "GBRG"
	BayerBGGR Bayer = "BGGR"
)

// ISPInfo carries the timing a downstream ISP needs.
type ISPInfo struct {
	HTS     uint32 `json:"hts" yaml:"hts"`   // line length in pixel clocks
	VTS     uint32 `json:"vts" yaml:"vts"`   // frame length in lines
	PClk    uint32 `json:"pclk" yaml:"pclk"` // pixel clock, Hz
	Bayer   Bayer  `json:"bayer" yaml:"bayer"`
	ExpDef  uint32 `json:"exp_def" yaml:"exp_def"`
	GainDef uint32 `json:"gain_def" yaml:"gain_def"`
}

// MIPIInfo describes the CSI-2 link.
type MIPIInfo struct {
	Clock    uint32 `json:"clock" yaml:"clock"`
	Lanes    uint8  `json:"lanes" yaml:"lanes"`
	LineSync bool   `json:"line_sync" yaml:"line_sync"`
}

// FormatDescriptor is an immutable output format bound to the register
// program that configures it.
type FormatDescriptor struct {
	Name        string          `json:"name" yaml:"name"`
	PixelFormat PixelFormat     `json:"pixel_format" yaml:"pixel_format"`
	Port        Port            `json:"port" yaml:"port"`
	XClk        uint32          `json:"xclk" yaml:"xclk"`
	Width       uint32          `json:"width" yaml:"width"`
	Height      uint32          `json:"height" yaml:"height"`
	FPS         uint32          `json:"fps" yaml:"fps"`
	Program     RegisterProgram `json:"-" yaml:"-"`
	ISP         ISPInfo         `json:"isp" yaml:"isp"`
	MIPI        MIPIInfo        `json:"mipi" yaml:"mipi"`
}

// Clone returns a copy of f that shares no memory with it.
func (f FormatDescriptor) Clone() FormatDescriptor {
	f.Program = slices.Clone(f.Program)
	return f
}

// FormatID selects an entry of a Catalog.
type FormatID int

// FormatDefault selects the catalog's configured default entry.
const FormatDefault FormatID = -1

// Catalog is the fixed set of formats a sensor supports.
type Catalog struct {
	Formats []FormatDescriptor
	Default int
}

// Clone returns a deep copy of c.
func (c Catalog) Clone() Catalog {
	formats := make([]FormatDescriptor, len(c.Formats))
	for i, f := range c.Formats {
		formats[i] = f.Clone()
	}
	return Catalog{Formats: formats, Default: c.Default}
}

// Lookup resolves id, mapping FormatDefault to the default entry. The
// returned descriptor is a copy.
func (c Catalog) Lookup(id FormatID) (*FormatDescriptor, error) {
	idx := int(id)
	if id == FormatDefault {
		idx = c.Default
	}
	if idx < 0 || idx >= len(c.Formats) {
		return nil, &FormatLookupError{ID: id}
	}
	f := c.Formats[idx].Clone()
	return &f, nil
}

// ByName returns the id of the named format.
func (c Catalog) ByName(name string) (FormatID, bool) {
	for i := range c.Formats {
		if c.Formats[i].Name == name {
			return FormatID(i), true
		}
	}
	return 0, false
}

// Identity is the chip identification read during detection.
type Identity struct {
	PartID uint16 `json:"part_id"`
	Name   string `json:"name"`
}

// Capability lists the output encodings a sensor can produce.
type Capability struct {
	RAW  bool `json:"raw"`
	YUV  bool `json:"yuv"`
	RGB  bool `json:"rgb"`
	JPEG bool `json:"jpeg"`
}

// PowerControl sequences the sensor supply, reset and clock lines.
type PowerControl interface {
	PowerOn() error
	PowerOff() error
}

// Ops is the capability set of an attached sensor controller.
type Ops interface {
	Name() string
	Identity() Identity
	Capability() Capability
	Formats() []FormatDescriptor
	SetFormat(id FormatID) error
	Format() (FormatDescriptor, error)
	EnableStreaming(enable bool) error
	Streaming() bool
	QueryParam(id ParamID) (ParamDescriptor, error)
	Param(id ParamID) (Value, error)
	SetParam(id ParamID, v Value) error
	ApplyGroup(changes []ParamChange, holdDelayFrames uint8) error
	ReadRegister(addr uint16) (uint8, error)
	WriteRegister(addr uint16, val uint8) error
	Close() error
}

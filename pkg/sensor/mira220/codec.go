package mira220

import (
	"math"

	"github.com/smazurov/sensorctl/pkg/sensor"
)

// Analog gain only has coarse 1x/2x/4x steps. Digital gain, in 1/16 units,
// fills the space between them so the total response stays monotonic and
// AGC does not oscillate around an analog boundary.
const (
	digitalGainUnit = 16
	digitalGainMax  = 4 * digitalGainUnit
)

// GainEntry is one row of the gain table.
type GainEntry struct {
	Total   uint32 // total gain x1000
	Analog  uint8  // analog gain register code
	Digital uint8  // digital gain register value, 1/16 units
}

type analogStage struct {
	code       uint8
	multiplier uint32
	digitalTop uint8 // highest digital value used at this stage
}

var analogStages = []analogStage{
	{code: 0x00, multiplier: 1, digitalTop: 2*digitalGainUnit - 1},
	{code: 0x01, multiplier: 2, digitalTop: 2*digitalGainUnit - 1},
	{code: 0x02, multiplier: 4, digitalTop: digitalGainMax},
}

var gainTable = buildGainTable()

func buildGainTable() []GainEntry {
	var table []GainEntry
	for _, st := range analogStages {
		for d := uint8(digitalGainUnit); d <= st.digitalTop; d++ {
			table = append(table, GainEntry{
				Total:   st.multiplier * uint32(d) * 1000 / digitalGainUnit,
				Analog:  st.code,
				Digital: d,
			})
		}
	}
	return table
}

// GainTable returns a copy of the gain table, ordered by total gain.
func GainTable() []GainEntry {
	out := make([]GainEntry, len(gainTable))
	copy(out, gainTable)
	return out
}

// GainAt returns the table entry for index.
func GainAt(index int) (GainEntry, bool) {
	if index < 0 || index >= len(gainTable) {
		return GainEntry{}, false
	}
	return gainTable[index], true
}

// GainIndexFor returns the highest index whose total gain does not exceed
// total (x1000). Totals below unity map to index 0.
func GainIndexFor(total uint32) int {
	idx := 0
	for i, e := range gainTable {
		if e.Total > total {
			break
		}
		idx = i
	}
	return idx
}

// ExposureLimits returns the valid exposure range in lines for f.
func ExposureLimits(f *sensor.FormatDescriptor) (lo, hi uint32) {
	vts := f.ISP.VTS
	if vts > VTSMax {
		vts = VTSMax
	}
	if vts <= ExposureMin+ExposureMaxOffset {
		return ExposureMin, ExposureMin
	}
	return ExposureMin, vts - ExposureMaxOffset
}

// LinesFromMicroseconds converts an exposure time to lines for f.
func LinesFromMicroseconds(us uint32, f *sensor.FormatDescriptor) uint32 {
	return uint32(math.Floor(float64(us)*float64(f.FPS)*float64(f.ISP.VTS)/1e6 + 0.5))
}

// MicrosecondsFromLines converts an exposure in lines to microseconds for f.
func MicrosecondsFromLines(lines uint32, f *sensor.FormatDescriptor) uint32 {
	if f.FPS == 0 || f.ISP.VTS == 0 {
		return 0
	}
	return uint32(math.Floor(float64(lines)*1e6/float64(f.FPS)/float64(f.ISP.VTS) + 0.5))
}

func splitExposure(lines uint32) (lo, hi uint8) {
	return uint8(lines), uint8(lines >> 8)
}

func exposureDescriptor(f *sensor.FormatDescriptor) sensor.ParamDescriptor {
	lo, hi := ExposureLimits(f)
	return sensor.ParamDescriptor{
		ID:      sensor.ParamExposure,
		Name:    sensor.ParamExposure.String(),
		Type:    sensor.ParamTypeNumber,
		Min:     int64(lo),
		Max:     int64(hi),
		Step:    1,
		Default: int64(clampExposure(f.ISP.ExpDef, lo, hi)),
	}
}

func exposureUSDescriptor(f *sensor.FormatDescriptor) sensor.ParamDescriptor {
	lo, hi := ExposureLimits(f)
	return sensor.ParamDescriptor{
		ID:      sensor.ParamExposureUS,
		Name:    sensor.ParamExposureUS.String(),
		Type:    sensor.ParamTypeNumber,
		Min:     int64(MicrosecondsFromLines(lo, f)),
		Max:     int64(MicrosecondsFromLines(hi, f)),
		Step:    1,
		Default: int64(MicrosecondsFromLines(clampExposure(f.ISP.ExpDef, lo, hi), f)),
	}
}

func gainDescriptor(def uint32) sensor.ParamDescriptor {
	elements := make([]int64, len(gainTable))
	for i, e := range gainTable {
		elements[i] = int64(e.Total)
	}
	if int(def) >= len(gainTable) {
		def = 0
	}
	return sensor.ParamDescriptor{
		ID:       sensor.ParamGain,
		Name:     sensor.ParamGain.String(),
		Type:     sensor.ParamTypeEnumeration,
		Min:      0,
		Max:      int64(len(gainTable) - 1),
		Step:     1,
		Default:  int64(def),
		Elements: elements,
	}
}

func boolDescriptor(id sensor.ParamID) sensor.ParamDescriptor {
	return sensor.ParamDescriptor{
		ID:   id,
		Name: id.String(),
		Type: sensor.ParamTypeBool,
		Min:  0,
		Max:  1,
		Step: 1,
	}
}

func clampExposure(v, lo, hi uint32) uint32 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

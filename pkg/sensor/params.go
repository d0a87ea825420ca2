package sensor

import "fmt"

// ParamID names a live sensor parameter.
type ParamID uint32

// Parameters understood by the host. A sensor implements a subset.
const (
	ParamExposure ParamID = iota + 1 // native exposure, lines
	ParamExposureUS
	ParamGain // gain table index
	ParamVFlip
	ParamHMirror
	ParamTestPattern
	ParamBrightness
	ParamContrast
	ParamSaturation
	ParamSharpness
)

var paramNames = map[ParamID]string{
	ParamExposure:    "exposure",
	ParamExposureUS:  "exposure_us",
	ParamGain:        "gain",
	ParamVFlip:       "vflip",
	ParamHMirror:     "hmirror",
	ParamTestPattern: "test_pattern",
	ParamBrightness:  "brightness",
	ParamContrast:    "contrast",
	ParamSaturation:  "saturation",
	ParamSharpness:   "sharpness",
}

func (id ParamID) String() string {
	if name, ok := paramNames[id]; ok {
		return name
	}
	return fmt.Sprintf("param(%d)", uint32(id))
}

// ParseParamID resolves a parameter name as printed by ParamID.String.
func ParseParamID(name string) (ParamID, bool) {
	for id, n := range paramNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// ParamType describes how a parameter value is interpreted.
type ParamType string

// Parameter types.
const (
	ParamTypeNumber      ParamType = "number"
	ParamTypeEnumeration ParamType = "enumeration"
	ParamTypeBool        ParamType = "bool"
)

// Value is a parameter value. Booleans are 0 or 1.
type Value int64

// BoolValue converts b to a Value.
func BoolValue(b bool) Value {
	if b {
		return 1
	}
	return 0
}

// ParamDescriptor reports the range of a parameter.
type ParamDescriptor struct {
	ID       ParamID   `json:"id"`
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Min      int64     `json:"min"`
	Max      int64     `json:"max"`
	Step     int64     `json:"step"`
	Default  int64     `json:"default"`
	Elements []int64   `json:"elements,omitempty"` // enumeration values, by index
}

// Contains reports whether v is inside the descriptor range.
func (d ParamDescriptor) Contains(v Value) bool {
	return int64(v) >= d.Min && int64(v) <= d.Max
}

// ParamChange is one entry of a group-hold update.
type ParamChange struct {
	ID    ParamID `json:"id"`
	Value Value   `json:"value"`
}

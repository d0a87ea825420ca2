package events

// Event type constants for kelindar/event.
const (
	TypeSensorAttached uint32 = iota + 1
	TypeSensorDetached
	TypeFormatApplied
	TypeStreamStateChanged
	TypeParamChanged
	TypeGroupApplied
	TypeOperationFailed
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// SensorAttachedEvent is published after detection succeeds.
type SensorAttachedEvent struct {
	Sensor    string `json:"sensor" example:"mira220" doc:"Sensor name"`
	PartID    uint16 `json:"part_id" example:"304" doc:"Part id read from the chip"`
	Transport string `json:"transport" example:"i2c" doc:"Register transport kind"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SensorAttachedEvent.
func (e SensorAttachedEvent) Type() uint32 { return TypeSensorAttached }

// SensorDetachedEvent is published when the controller is closed.
type SensorDetachedEvent struct {
	Sensor    string `json:"sensor" example:"mira220" doc:"Sensor name"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SensorDetachedEvent.
func (e SensorDetachedEvent) Type() uint32 { return TypeSensorDetached }

// FormatAppliedEvent is published after a register program completed.
type FormatAppliedEvent struct {
	FormatID  int    `json:"format_id" example:"0" doc:"Catalog index"`
	Name      string `json:"name" example:"MIPI_2lane_RAW8_1024_600_6fps" doc:"Format name"`
	Width     uint32 `json:"width" example:"1024" doc:"Frame width"`
	Height    uint32 `json:"height" example:"600" doc:"Frame height"`
	FPS       uint32 `json:"fps" example:"6" doc:"Frame rate"`
	Registers int    `json:"registers" example:"37" doc:"Register pairs written"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FormatAppliedEvent.
func (e FormatAppliedEvent) Type() uint32 { return TypeFormatApplied }

// StreamStateChangedEvent is published after a streaming transition.
type StreamStateChangedEvent struct {
	Streaming bool   `json:"streaming" example:"true" doc:"Whether the sensor is streaming"`
	State     string `json:"state" example:"streaming" doc:"Lifecycle state"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StreamStateChangedEvent.
func (e StreamStateChangedEvent) Type() uint32 { return TypeStreamStateChanged }

// ParamChangedEvent is published for each single parameter write.
type ParamChangedEvent struct {
	Param     string `json:"param" example:"exposure" doc:"Parameter name"`
	Value     int64  `json:"value" example:"1024" doc:"New value"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ParamChangedEvent.
func (e ParamChangedEvent) Type() uint32 { return TypeParamChanged }

// ParamValue is one entry of a group update.
type ParamValue struct {
	Param string `json:"param" example:"gain" doc:"Parameter name"`
	Value int64  `json:"value" example:"12" doc:"Value"`
}

// GroupAppliedEvent is published after a group-hold transaction.
type GroupAppliedEvent struct {
	Changes         []ParamValue `json:"changes" doc:"Parameters latched together"`
	HoldDelayFrames uint8        `json:"hold_delay_frames" example:"1" doc:"Frames before the change takes effect"`
	Source          string       `json:"source" example:"api" doc:"api or preset"`
	Timestamp       string       `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for GroupAppliedEvent.
func (e GroupAppliedEvent) Type() uint32 { return TypeGroupApplied }

// OperationFailedEvent reports a failed sensor operation.
type OperationFailedEvent struct {
	Operation string `json:"operation" example:"set_format" doc:"Failed operation"`
	Error     string `json:"error" example:"format MIPI_2lane_RAW8_1024_600_6fps apply failed after 3 registers" doc:"Error text"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for OperationFailedEvent.
func (e OperationFailedEvent) Type() uint32 { return TypeOperationFailed }

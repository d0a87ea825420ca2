// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/smazurov/sensorctl/internal/control"
	"github.com/smazurov/sensorctl/internal/logging"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

// Health check models
type HealthData struct {
	Status   string `json:"status" example:"ok" doc:"Service status"`
	Attached bool   `json:"attached" example:"true" doc:"Whether a sensor is attached"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"a1b2c3d" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2026-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"42" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Sensor models
type SensorResponse struct {
	Body control.Status
}

type AttachRequest struct {
	Body struct {
		Attached bool `json:"attached" example:"true" doc:"Attach (true) or detach (false) the sensor"`
	}
}

// Format models
type FormatData struct {
	ID int `json:"id" example:"0" doc:"Catalog index"`
	sensor.FormatDescriptor
	Registers int `json:"registers" example:"37" doc:"Register pairs in the format program"`
}

type FormatListData struct {
	Formats []FormatData `json:"formats" doc:"Supported formats"`
	Count   int          `json:"count" example:"3" doc:"Number of formats"`
}

type FormatListResponse struct {
	Body FormatListData
}

type FormatResponse struct {
	Body FormatData
}

type SetFormatRequest struct {
	Body struct {
		ID   *int   `json:"id,omitempty" minimum:"0" example:"0" doc:"Catalog index"`
		Name string `json:"name,omitempty" example:"MIPI_2lane_RAW8_1024_600_6fps" doc:"Format name, used when id is absent"`
	}
}

// Stream models
type StreamRequest struct {
	Body struct {
		Streaming bool `json:"streaming" example:"true" doc:"Start (true) or stop (false) the sensor output"`
	}
}

type StreamData struct {
	Streaming bool   `json:"streaming" example:"true" doc:"Whether the sensor is streaming"`
	State     string `json:"state" example:"streaming" doc:"Lifecycle state"`
}

type StreamResponse struct {
	Body StreamData
}

// Parameter models
type ParamListData struct {
	Params []control.ParamState `json:"params" doc:"Supported parameters with their values"`
}

type ParamListResponse struct {
	Body ParamListData
}

type ParamPath struct {
	Name string `path:"name" example:"gain" doc:"Parameter name (exposure, exposure_us, gain, hmirror, vflip, test_pattern)"`
}

type ParamResponse struct {
	Body control.ParamState
}

type SetParamRequest struct {
	ParamPath
	Body struct {
		Value int64 `json:"value" example:"12" doc:"New value"`
	}
}

type GroupChange struct {
	Param string `json:"param" example:"exposure" doc:"Parameter name"`
	Value int64  `json:"value" example:"1024" doc:"New value"`
}

type GroupRequest struct {
	Body struct {
		Changes         []GroupChange `json:"changes" doc:"Parameters to latch together"`
		HoldDelayFrames *uint8        `json:"hold_delay_frames,omitempty" example:"1" doc:"Frames before the change takes effect"`
	}
}

type GroupData struct {
	Applied         int   `json:"applied" example:"2" doc:"Number of parameters written"`
	HoldDelayFrames uint8 `json:"hold_delay_frames" example:"1" doc:"Hold delay used"`
}

type GroupResponse struct {
	Body GroupData
}

// Register models
type RegisterPath struct {
	Addr string `path:"addr" example:"0x209C" doc:"Register address, hex with 0x prefix or decimal"`
}

type SetRegisterRequest struct {
	RegisterPath
	Body struct {
		Value uint8 `json:"value" example:"1" doc:"Byte to write"`
	}
}

type RegisterData struct {
	Addr  string `json:"addr" example:"0x209C" doc:"Register address"`
	Value uint8  `json:"value" example:"1" doc:"Register value"`
}

type RegisterResponse struct {
	Body RegisterData
}

// Log models
type LogsRequest struct {
	Limit int `query:"limit" minimum:"0" default:"100" doc:"Maximum entries, 0 for all"`
}

type LogsData struct {
	Entries []logging.LogEntry `json:"entries" doc:"Most recent log entries, oldest first"`
	Count   int                `json:"count" example:"100" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}

type LogLevelRequest struct {
	Body struct {
		Module string `json:"module" example:"sensor" doc:"Logger module"`
		Level  string `json:"level" enum:"debug,info,warn,error" example:"debug" doc:"New level"`
	}
}

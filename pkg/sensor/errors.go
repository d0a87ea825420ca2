package sensor

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentityMismatch means the part id read from the chip is not the expected one.
	ErrIdentityMismatch = errors.New("sensor identity mismatch")
	// ErrNoFormatSet is returned before any format has been applied successfully.
	ErrNoFormatSet = errors.New("no format set")
	// ErrUnsupportedParameter is returned for parameter ids the sensor does not implement.
	ErrUnsupportedParameter = errors.New("unsupported parameter")
	// ErrOutOfRange is returned when a parameter value is outside its descriptor range.
	ErrOutOfRange = errors.New("parameter value out of range")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("sensor controller closed")
	// ErrUnknownFormat is returned for format ids outside the catalog.
	ErrUnknownFormat = errors.New("unknown format")
)

// IdentityError carries the mismatching part ids.
type IdentityError struct {
	Got  uint16
	Want uint16
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("sensor identity mismatch: part id 0x%04X, want 0x%04X", e.Got, e.Want)
}

func (e *IdentityError) Is(target error) bool { return target == ErrIdentityMismatch }

// FormatLookupError reports a format id that is not in the catalog.
type FormatLookupError struct {
	ID FormatID
}

func (e *FormatLookupError) Error() string {
	return fmt.Sprintf("unknown format %d", e.ID)
}

func (e *FormatLookupError) Is(target error) bool { return target == ErrUnknownFormat }

// FormatError reports a register program that stopped part way.
// Offset is the number of pairs written successfully.
type FormatError struct {
	Format string
	Offset int
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %s apply failed after %d registers: %v", e.Format, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Stream transition stages.
const (
	StreamStageMode    = "mode"
	StreamStageTrigger = "trigger"
)

// StreamError reports an aborted streaming transition.
type StreamError struct {
	Enable bool
	Stage  string
	Err    error
}

func (e *StreamError) Error() string {
	verb := "stop"
	if e.Enable {
		verb = "start"
	}
	return fmt.Sprintf("stream %s failed at %s write: %v", verb, e.Stage, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ParamError attaches the parameter id to a parameter failure.
type ParamError struct {
	ID    ParamID
	Value Value
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %v", e.ID, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// GroupStage names a step of the group-hold protocol.
type GroupStage string

// Group-hold stages in protocol order.
const (
	GroupStageStart  GroupStage = "start"
	GroupStageUpdate GroupStage = "update"
	GroupStageDelay  GroupStage = "delay"
	GroupStageEnd    GroupStage = "end"
)

// GroupError reports a group-hold transaction aborted at Stage. Nothing is
// rolled back; the sensor state must be treated as unknown.
type GroupError struct {
	Stage GroupStage
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("group hold aborted at %s: %v", e.Stage, e.Err)
}

func (e *GroupError) Unwrap() error { return e.Err }

package control

import (
	"fmt"

	"github.com/smazurov/sensorctl/internal/events"
	"github.com/smazurov/sensorctl/internal/metrics"
	"github.com/smazurov/sensorctl/pkg/sensor"
	"github.com/smazurov/sensorctl/pkg/sensor/mira220"
)

// Status is a snapshot of the attached sensor.
type Status struct {
	Attached  bool                     `json:"attached"`
	Transport string                   `json:"transport"`
	Identity  *sensor.Identity         `json:"identity,omitempty"`
	Output    *sensor.Capability       `json:"output,omitempty"`
	Format    *sensor.FormatDescriptor `json:"format,omitempty"`
	Streaming bool                     `json:"streaming"`
	State     string                   `json:"state"`
	HoldDelay uint8                    `json:"hold_delay_frames"`
}

// ParamState is a parameter descriptor with its current value.
type ParamState struct {
	sensor.ParamDescriptor
	Value int64 `json:"value"`
}

// Status returns the current sensor state. It never fails.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Transport: transportKind(s.opts.Transport),
		State:     sensor.StreamStopped.String(),
		HoldDelay: s.holdDelay,
	}
	if s.sensor == nil {
		return st
	}
	id := s.sensor.Identity()
	st.Attached = true
	st.Identity = &id
	capability := s.sensor.Capability()
	st.Output = &capability
	if f, err := s.sensor.Format(); err == nil {
		st.Format = &f
	}
	st.Streaming = s.sensor.Streaming()
	st.State = s.sensor.StreamState().String()
	return st
}

// Formats lists the supported formats.
func (s *Service) Formats() ([]sensor.FormatDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return nil, err
	}
	return ctrl.Formats(), nil
}

// Format returns the applied format.
func (s *Service) Format() (sensor.FormatDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return sensor.FormatDescriptor{}, err
	}
	return ctrl.Format()
}

// SetFormat applies the format with the given catalog index.
func (s *Service) SetFormat(id sensor.FormatID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return err
	}
	return s.setFormat(ctrl, id)
}

// SetFormatByName applies the named format.
func (s *Service) SetFormatByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return err
	}
	id, ok := sensor.Catalog{Formats: ctrl.Formats()}.ByName(name)
	if !ok {
		return fmt.Errorf("format %q: %w", name, sensor.ErrUnknownFormat)
	}
	return s.setFormat(ctrl, id)
}

// setFormat requires s.mu.
func (s *Service) setFormat(ctrl *mira220.Controller, id sensor.FormatID) error {
	if err := ctrl.SetFormat(id); err != nil {
		s.failed("set_format", err)
		return err
	}
	metrics.ObserveOperation("set_format", nil)
	s.publishFormat(ctrl)
	return nil
}

// SetStreaming starts or stops the sensor output.
func (s *Service) SetStreaming(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return err
	}
	if err := ctrl.EnableStreaming(enable); err != nil {
		s.failed("set_streaming", err)
		return err
	}
	metrics.ObserveOperation("set_streaming", nil)
	s.bus.Publish(events.StreamStateChangedEvent{
		Streaming: ctrl.Streaming(),
		State:     ctrl.StreamState().String(),
		Timestamp: events.Now(),
	})
	return nil
}

// Params returns every supported parameter with its value. Parameters
// that are unavailable in the current state are left out.
func (s *Service) Params() ([]ParamState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return nil, err
	}

	var out []ParamState
	for _, id := range []sensor.ParamID{
		sensor.ParamExposure,
		sensor.ParamExposureUS,
		sensor.ParamGain,
		sensor.ParamHMirror,
		sensor.ParamVFlip,
		sensor.ParamTestPattern,
	} {
		st, err := paramState(ctrl, id)
		if err != nil {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// Param returns one parameter with its value.
func (s *Service) Param(id sensor.ParamID) (ParamState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return ParamState{}, err
	}
	return paramState(ctrl, id)
}

func paramState(ctrl sensor.Ops, id sensor.ParamID) (ParamState, error) {
	desc, err := ctrl.QueryParam(id)
	if err != nil {
		return ParamState{}, err
	}
	v, err := ctrl.Param(id)
	if err != nil {
		return ParamState{}, err
	}
	return ParamState{ParamDescriptor: desc, Value: int64(v)}, nil
}

// SetParam writes one parameter.
func (s *Service) SetParam(id sensor.ParamID, v sensor.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return err
	}
	if err := ctrl.SetParam(id, v); err != nil {
		s.failed("set_param", err)
		return err
	}
	metrics.ObserveOperation("set_param", nil)
	s.bus.Publish(events.ParamChangedEvent{
		Param:     id.String(),
		Value:     int64(v),
		Timestamp: events.Now(),
	})
	return nil
}

// ApplyGroup latches changes together after holdDelayFrames frames.
// source is reported in the published event.
func (s *Service) ApplyGroup(changes []sensor.ParamChange, holdDelayFrames uint8, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return err
	}
	if err := ctrl.ApplyGroup(changes, holdDelayFrames); err != nil {
		s.failed("apply_group", err)
		return err
	}
	metrics.ObserveOperation("apply_group", nil)
	if len(changes) == 0 {
		return nil
	}

	values := make([]events.ParamValue, len(changes))
	for i, ch := range changes {
		values[i] = events.ParamValue{Param: ch.ID.String(), Value: int64(ch.Value)}
	}
	s.bus.Publish(events.GroupAppliedEvent{
		Changes:         values,
		HoldDelayFrames: holdDelayFrames,
		Source:          source,
		Timestamp:       events.Now(),
	})
	return nil
}

// ReadRegister reads a raw register.
func (s *Service) ReadRegister(addr uint16) (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return 0, err
	}
	v, err := ctrl.ReadRegister(addr)
	metrics.ObserveOperation("read_register", err)
	return v, err
}

// WriteRegister writes a raw register. Cached parameter values are not
// updated.
func (s *Service) WriteRegister(addr uint16, val uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.attached()
	if err != nil {
		return err
	}
	if err := ctrl.WriteRegister(addr, val); err != nil {
		s.failed("write_register", err)
		return err
	}
	metrics.ObserveOperation("write_register", nil)
	s.logger.Debug("Raw register written", "addr", fmt.Sprintf("0x%04X", addr), "val", fmt.Sprintf("0x%02X", val))
	return nil
}

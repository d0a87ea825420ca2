package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/sensorctl/internal/api/models"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

func (s *Server) registerSensorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-sensor",
		Method:      http.MethodGet,
		Path:        "/api/sensor",
		Summary:     "Sensor Status",
		Description: "Identity, applied format and stream state of the attached sensor",
		Tags:        []string{"sensor"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.SensorResponse, error) {
		return &models.SensorResponse{Body: s.service.Status()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "attach-sensor",
		Method:      http.MethodPut,
		Path:        "/api/sensor",
		Summary:     "Attach or Detach",
		Description: "Detect and attach the sensor, or stop and power it off",
		Tags:        []string{"sensor"},
		Security:    withAuth(),
		Errors:      []int{401, 502},
	}, func(ctx context.Context, input *models.AttachRequest) (*models.SensorResponse, error) {
		var err error
		if input.Body.Attached {
			err = s.service.Attach(ctx)
		} else {
			err = s.service.Detach()
		}
		if err != nil {
			return nil, sensorError("Failed to change attachment", err)
		}
		return &models.SensorResponse{Body: s.service.Status()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-formats",
		Method:      http.MethodGet,
		Path:        "/api/formats",
		Summary:     "List Formats",
		Description: "Formats supported by the attached sensor",
		Tags:        []string{"formats"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(_ context.Context, _ *struct{}) (*models.FormatListResponse, error) {
		formats, err := s.service.Formats()
		if err != nil {
			return nil, sensorError("Failed to list formats", err)
		}
		out := make([]models.FormatData, len(formats))
		for i, f := range formats {
			out[i] = formatData(i, f)
		}
		return &models.FormatListResponse{
			Body: models.FormatListData{Formats: out, Count: len(out)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-format",
		Method:      http.MethodGet,
		Path:        "/api/format",
		Summary:     "Current Format",
		Description: "The last successfully applied format",
		Tags:        []string{"formats"},
		Security:    withAuth(),
		Errors:      []int{401, 409, 503},
	}, func(_ context.Context, _ *struct{}) (*models.FormatResponse, error) {
		f, err := s.service.Format()
		if err != nil {
			return nil, sensorError("No format applied", err)
		}
		return &models.FormatResponse{Body: s.currentFormatData(f)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-format",
		Method:      http.MethodPut,
		Path:        "/api/format",
		Summary:     "Apply Format",
		Description: "Write the register program of a format selected by id or name",
		Tags:        []string{"formats"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 502, 503},
	}, func(_ context.Context, input *models.SetFormatRequest) (*models.FormatResponse, error) {
		var err error
		switch {
		case input.Body.ID != nil:
			err = s.service.SetFormat(sensor.FormatID(*input.Body.ID))
		case input.Body.Name != "":
			err = s.service.SetFormatByName(input.Body.Name)
		default:
			return nil, huma.Error400BadRequest("Either id or name is required")
		}
		if err != nil {
			return nil, sensorError("Failed to apply format", err)
		}
		f, err := s.service.Format()
		if err != nil {
			return nil, sensorError("Format not applied", err)
		}
		return &models.FormatResponse{Body: s.currentFormatData(f)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-stream",
		Method:      http.MethodPut,
		Path:        "/api/stream",
		Summary:     "Start or Stop Streaming",
		Description: "Switch the sensor output on or off",
		Tags:        []string{"stream"},
		Security:    withAuth(),
		Errors:      []int{401, 502, 503},
	}, func(_ context.Context, input *models.StreamRequest) (*models.StreamResponse, error) {
		if err := s.service.SetStreaming(input.Body.Streaming); err != nil {
			return nil, sensorError("Failed to change stream state", err)
		}
		st := s.service.Status()
		return &models.StreamResponse{
			Body: models.StreamData{Streaming: st.Streaming, State: st.State},
		}, nil
	})
}

func formatData(id int, f sensor.FormatDescriptor) models.FormatData {
	return models.FormatData{ID: id, FormatDescriptor: f, Registers: f.Program.Len()}
}

func (s *Server) currentFormatData(f sensor.FormatDescriptor) models.FormatData {
	formats, _ := s.service.Formats()
	id, _ := sensor.Catalog{Formats: formats}.ByName(f.Name)
	return formatData(int(id), f)
}

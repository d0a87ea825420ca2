package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/sensorctl/internal/api/models"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

func (s *Server) registerParamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-params",
		Method:      http.MethodGet,
		Path:        "/api/params",
		Summary:     "List Parameters",
		Description: "Supported live parameters with their ranges and current values",
		Tags:        []string{"params"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(_ context.Context, _ *struct{}) (*models.ParamListResponse, error) {
		params, err := s.service.Params()
		if err != nil {
			return nil, sensorError("Failed to list parameters", err)
		}
		return &models.ParamListResponse{Body: models.ParamListData{Params: params}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-param",
		Method:      http.MethodGet,
		Path:        "/api/params/{name}",
		Summary:     "Get Parameter",
		Tags:        []string{"params"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 409, 503},
	}, func(_ context.Context, input *models.ParamPath) (*models.ParamResponse, error) {
		id, err := parseParam(input.Name)
		if err != nil {
			return nil, err
		}
		p, err := s.service.Param(id)
		if err != nil {
			return nil, sensorError("Failed to read parameter", err)
		}
		return &models.ParamResponse{Body: p}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-param",
		Method:      http.MethodPut,
		Path:        "/api/params/{name}",
		Summary:     "Set Parameter",
		Description: "Write one parameter. Exposure and gain are latched through a group hold.",
		Tags:        []string{"params"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 409, 422, 502, 503},
	}, func(_ context.Context, input *models.SetParamRequest) (*models.ParamResponse, error) {
		id, err := parseParam(input.Name)
		if err != nil {
			return nil, err
		}
		if err := s.service.SetParam(id, sensor.Value(input.Body.Value)); err != nil {
			return nil, sensorError("Failed to set parameter", err)
		}
		p, err := s.service.Param(id)
		if err != nil {
			return nil, sensorError("Failed to read parameter", err)
		}
		return &models.ParamResponse{Body: p}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "apply-group",
		Method:      http.MethodPost,
		Path:        "/api/params/group",
		Summary:     "Apply Group",
		Description: "Latch several parameters on the same frame. Every value is validated before the first register write.",
		Tags:        []string{"params"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 409, 422, 502, 503},
	}, func(_ context.Context, input *models.GroupRequest) (*models.GroupResponse, error) {
		changes := make([]sensor.ParamChange, len(input.Body.Changes))
		for i, ch := range input.Body.Changes {
			id, err := parseParam(ch.Param)
			if err != nil {
				return nil, err
			}
			changes[i] = sensor.ParamChange{ID: id, Value: sensor.Value(ch.Value)}
		}

		delay := s.service.HoldDelay()
		if input.Body.HoldDelayFrames != nil {
			delay = *input.Body.HoldDelayFrames
		}
		if err := s.service.ApplyGroup(changes, delay, "api"); err != nil {
			return nil, sensorError("Failed to apply group", err)
		}
		return &models.GroupResponse{
			Body: models.GroupData{Applied: len(changes), HoldDelayFrames: delay},
		}, nil
	})
}

func parseParam(name string) (sensor.ParamID, error) {
	id, ok := sensor.ParseParamID(name)
	if !ok {
		return 0, huma.Error404NotFound(fmt.Sprintf("Unknown parameter %q", name))
	}
	return id, nil
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/sensorctl/internal/api/models"
)

func (s *Server) registerRegisterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "read-register",
		Method:      http.MethodGet,
		Path:        "/api/registers/{addr}",
		Summary:     "Read Register",
		Tags:        []string{"registers"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 502, 503},
	}, func(_ context.Context, input *models.RegisterPath) (*models.RegisterResponse, error) {
		addr, err := parseAddr(input.Addr)
		if err != nil {
			return nil, err
		}
		v, err := s.service.ReadRegister(addr)
		if err != nil {
			return nil, sensorError("Failed to read register", err)
		}
		return &models.RegisterResponse{Body: registerData(addr, v)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "write-register",
		Method:      http.MethodPut,
		Path:        "/api/registers/{addr}",
		Summary:     "Write Register",
		Description: "Write a raw register. Cached parameter values are not updated.",
		Tags:        []string{"registers"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 502, 503},
	}, func(_ context.Context, input *models.SetRegisterRequest) (*models.RegisterResponse, error) {
		addr, err := parseAddr(input.Addr)
		if err != nil {
			return nil, err
		}
		if err := s.service.WriteRegister(addr, input.Body.Value); err != nil {
			return nil, sensorError("Failed to write register", err)
		}
		return &models.RegisterResponse{Body: registerData(addr, input.Body.Value)}, nil
	})
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, huma.Error400BadRequest(fmt.Sprintf("Invalid register address %q", s), err)
	}
	return uint16(v), nil
}

func registerData(addr uint16, v uint8) models.RegisterData {
	return models.RegisterData{Addr: fmt.Sprintf("0x%04X", addr), Value: v}
}

package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/sensorctl/internal/control"
	"github.com/smazurov/sensorctl/pkg/sccb"
	"github.com/smazurov/sensorctl/pkg/sensor"
)

// sensorError maps a sensor operation error to an HTTP status.
func sensorError(msg string, err error) error {
	switch {
	case errors.Is(err, control.ErrNotAttached):
		return huma.Error503ServiceUnavailable(msg, err)
	case errors.Is(err, sensor.ErrUnknownFormat),
		errors.Is(err, sensor.ErrUnsupportedParameter):
		return huma.Error404NotFound(msg, err)
	case errors.Is(err, sensor.ErrOutOfRange):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, sensor.ErrNoFormatSet),
		errors.Is(err, sensor.ErrClosed):
		return huma.Error409Conflict(msg, err)
	case errors.Is(err, sensor.ErrIdentityMismatch),
		sccb.IsTransportError(err):
		return huma.Error502BadGateway(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

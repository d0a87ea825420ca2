package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/sensorctl/internal/events"
)

// registerSSERoutes registers the sensor event stream.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time sensor events: attachment, format, stream state and parameter changes",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"sensor-attached":      events.SensorAttachedEvent{},
		"sensor-detached":      events.SensorDetachedEvent{},
		"format-applied":       events.FormatAppliedEvent{},
		"stream-state-changed": events.StreamStateChangedEvent{},
		"param-changed":        events.ParamChangedEvent{},
		"group-applied":        events.GroupAppliedEvent{},
		"operation-failed":     events.OperationFailedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 16)
		unsubscribe := events.SubscribeAll(s.eventBus, eventCh)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}

package control

import (
	"context"

	"github.com/smazurov/sensorctl/internal/hotplug"
)

// FollowHotplug attaches when the configured bus device node appears and
// detaches when it is removed. It returns when ctx is done or events is
// closed.
func (s *Service) FollowHotplug(ctx context.Context, events <-chan hotplug.Event) {
	device := s.opts.Transport.Device
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !ev.Matches(device) {
				continue
			}
			switch ev.Action {
			case hotplug.ActionAdd:
				s.logger.Info("Bus device appeared", "device", device)
				if err := s.Attach(ctx); err != nil {
					s.logger.Warn("Attach after hotplug failed", "device", device, "error", err)
				}
			case hotplug.ActionRemove:
				s.logger.Info("Bus device removed", "device", device)
				if err := s.Detach(); err != nil {
					s.logger.Warn("Detach after hotplug failed", "device", device, "error", err)
				}
			}
		}
	}
}

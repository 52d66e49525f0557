package telemetry

import (
	"context"

	"github.com/rogerbox/rogerbox/internal/ports"
)

// CountBusEvents compte les events du bus par topic jusqu'à l'annulation de ctx.
func (m *Metrics) CountBusEvents(ctx context.Context, bus ports.EventBus) {
	events, cancel := bus.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.BusEvents.WithLabelValues(ev.Topic).Inc()
		}
	}
}

package app

import (
	"encoding/json"

	"github.com/rogerbox/rogerbox/internal/ports"
)

// publish diffuse v en JSON sur le bus. Best-effort : sans bus, rien n'est envoyé.
func publish(bus ports.EventBus, topic string, v any) {
	if bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil || len(b) == 0 {
		return
	}
	bus.Publish(topic, b)
}

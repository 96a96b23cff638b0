package mqtt

import (
	"context"
	"encoding/json"

	"github.com/Djelibeybi/lifx-emulator/internal/events"
)

// Logger is the narrow logging interface the bridge needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// Bridge mirrors bus events onto MQTT topics.
type Bridge struct {
	client *Client
	logger Logger
}

// NewBridge wraps a connected client.
func NewBridge(client *Client, logger Logger) *Bridge {
	return &Bridge{client: client, logger: logger}
}

// Run consumes events until the context is cancelled or the channel
// closes. Publish failures are logged and skipped; the bridge never
// pushes back on the event bus.
func (b *Bridge) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				b.logger.Warn("marshalling event for mqtt", "type", evt.Type, "error", err)
				continue
			}
			if err := b.client.PublishEvent(evt.Type, payload); err != nil {
				b.logger.Warn("publishing event to mqtt", "type", evt.Type, "error", err)
			}
		}
	}
}

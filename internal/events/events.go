// Package events selects the review event publisher.
package events

import (
	"insurevis/internal/config"
	"insurevis/internal/events/cloudevents"
	"insurevis/internal/events/noop"
	"insurevis/internal/port"
)

// NewPublisher returns a CloudEvents publisher when a sink is configured and a
// logging no-op otherwise.
func NewPublisher(cfg config.EventsConfig) (port.EventPublisher, error) {
	if cfg.SinkURL == "" {
		return noop.NewPublisher(), nil
	}
	return cloudevents.NewPublisher(cfg.SinkURL, cfg.Source)
}

// Package cloudevents publishes review events as structured CloudEvents over HTTP.
package cloudevents

import (
	"context"
	"fmt"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

type publisher struct {
	client cloudevents.Client
	sink   string
	source string
}

// NewPublisher creates an EventPublisher that POSTs to sinkURL.
func NewPublisher(sinkURL, source string) (port.EventPublisher, error) {
	client, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, fmt.Errorf("creating cloudevents client: %w", err)
	}
	return NewPublisherWithClient(client, sinkURL, source), nil
}

// NewPublisherWithClient creates an EventPublisher around an existing client.
func NewPublisherWithClient(client cloudevents.Client, sinkURL, source string) port.EventPublisher {
	return &publisher{client: client, sink: sinkURL, source: source}
}

// ToCloudEvent converts a review event into a CloudEvent.
func ToCloudEvent(source string, ev domain.ReviewEvent) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(source)
	e.SetType(ev.Type)
	e.SetSubject(ev.ClaimID.String())
	e.SetTime(ev.OccurredAt)
	if ev.Role != "" {
		e.SetExtension("role", string(ev.Role))
	}
	if err := e.SetData(cloudevents.ApplicationJSON, ev); err != nil {
		return e, fmt.Errorf("encoding event data: %w", err)
	}
	return e, nil
}

func (p *publisher) Publish(ctx context.Context, ev domain.ReviewEvent) error {
	e, err := ToCloudEvent(p.source, ev)
	if err != nil {
		return err
	}
	ctx = cloudevents.ContextWithTarget(ctx, p.sink)
	ctx = cloudevents.WithEncodingStructured(ctx)

	res := p.client.Send(ctx, e)
	if cloudevents.IsUndelivered(res) {
		return fmt.Errorf("cloudevents.Publish %s: undelivered: %w", ev.Type, res)
	}
	if !cloudevents.IsACK(res) {
		return fmt.Errorf("cloudevents.Publish %s: not acknowledged: %w", ev.Type, res)
	}
	return nil
}

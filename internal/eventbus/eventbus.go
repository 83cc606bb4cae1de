// Package eventbus carries events raised while serving requests to
// handlers running off the request path. Click recording is its only user:
// a redirect publishes and returns, a router goroutine writes the click.
package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"linkstats/internal/conf"
	"linkstats/internal/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// ClickEventsTopic carries click.recorded events.
	ClickEventsTopic = "link.clicks"
	// LinkEventsTopic carries every other link event.
	LinkEventsTopic = "link.events"
)

// TopicFor returns the topic an event name is published on.
func TopicFor(eventName string) string {
	if eventName == event.ClickRecordedName {
		return ClickEventsTopic
	}
	return LinkEventsTopic
}

// EventBus is an in-process pub/sub. Messages are lost on shutdown or when
// no handler is subscribed; nothing is persisted.
type EventBus struct {
	ch *gochannel.GoChannel
}

// NewEventBus buffers up to c.BufferSize messages per subscriber and never
// waits for a handler ack, so a slow click store cannot stall redirects.
func NewEventBus(c *conf.Clicks, logger watermill.LoggerAdapter) *EventBus {
	return &EventBus{
		ch: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            c.BufferSize,
			BlockPublishUntilSubscriberAck: false,
			PreserveContext:                true,
		}, logger),
	}
}

func (b *EventBus) Subscriber() message.Subscriber {
	return b.ch
}

// Publish encodes e and sends it on its topic. Handlers receive ctx as is,
// so callers detach it from the request before publishing.
func (b *EventBus) Publish(ctx context.Context, e event.Event) error {
	msg, err := Encode(e)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	return b.ch.Publish(TopicFor(e.EventName()), msg)
}

func (b *EventBus) Close() error {
	return b.ch.Close()
}

// Envelope is the wire form of an event: routing data plus the JSON
// encoded event itself.
type Envelope struct {
	EventID     string          `json:"event_id"`
	EventName   string          `json:"event_name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Encode wraps e in an Envelope. The message UUID is the event ID.
func Encode(e event.Event) (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(Envelope{
		EventID:     e.EventID(),
		EventName:   e.EventName(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		Payload:     payload,
	})
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(e.EventID(), data)
	msg.Metadata.Set("event_name", e.EventName())
	msg.Metadata.Set("aggregate_id", e.AggregateID())
	return msg, nil
}

// Decode reads the Envelope carried by msg.
func Decode(msg *message.Message) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

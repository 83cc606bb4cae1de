package eventbus

import (
	"context"

	"linkstats/internal/conf"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventHandler consumes one event name.
type EventHandler interface {
	// HandlerName must be unique within a Router.
	HandlerName() string
	EventName() string
	Handle(ctx context.Context, env *Envelope) error
}

// Router runs the subscribed handlers on their own goroutines.
type Router struct {
	router *message.Router
	bus    *EventBus
	logger watermill.LoggerAdapter
}

// NewRouter creates a router whose Close waits up to c.CloseTimeout for
// handlers that are still writing.
func NewRouter(c *conf.Clicks, bus *EventBus, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: c.CloseTimeout.AsDuration(),
	}, logger)
	if err != nil {
		return nil, err
	}
	return &Router{router: router, bus: bus, logger: logger}, nil
}

// AddHandler subscribes h to the topic of its event. Call it before Run.
func (r *Router) AddHandler(h EventHandler) {
	r.router.AddNoPublisherHandler(
		h.HandlerName(),
		TopicFor(h.EventName()),
		r.bus.Subscriber(),
		r.dispatch(h),
	)
}

// dispatch always acks: a failed click is logged and dropped, and a nack
// would make the gochannel subscriber redeliver it forever.
func (r *Router) dispatch(h EventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		env, err := Decode(msg)
		if err != nil {
			r.logger.Error("dropping undecodable message", err, watermill.LogFields{"message_uuid": msg.UUID})
			return nil
		}
		if env.EventName != h.EventName() {
			return nil
		}

		if err := h.Handle(msg.Context(), env); err != nil {
			r.logger.Error("event handler failed", err, watermill.LogFields{
				"handler":      h.HandlerName(),
				"event_name":   env.EventName,
				"event_id":     env.EventID,
				"aggregate_id": env.AggregateID,
			})
		}
		return nil
	}
}

// Run blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

func (r *Router) Close() error {
	return r.router.Close()
}

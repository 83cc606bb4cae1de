package biz

import (
	"context"
	"encoding/json"
	"time"

	"linkstats/internal/conf"
	"linkstats/internal/event"
	"linkstats/internal/eventbus"

	"github.com/go-kratos/kratos/v2/log"
)

var _ eventbus.EventHandler = (*ClickEventHandler)(nil)

// SourceClassifier maps a user agent to the bucket reported as "device".
type SourceClassifier interface {
	Classify(userAgent string) string
}

// ClickEventHandler persists ClickRecorded events.
type ClickEventHandler struct {
	repo         ClickRepo
	classifier   SourceClassifier
	writeTimeout time.Duration
	log          *log.Helper
}

// NewClickEventHandler creates a new click event handler.
func NewClickEventHandler(c *conf.Clicks, repo ClickRepo, classifier SourceClassifier, logger log.Logger) *ClickEventHandler {
	return &ClickEventHandler{
		repo:         repo,
		classifier:   classifier,
		writeTimeout: c.WriteTimeout.AsDuration(),
		log:          log.NewHelper(log.With(logger, "module", "biz/clicks")),
	}
}

func (h *ClickEventHandler) HandlerName() string {
	return "click_recorder"
}

func (h *ClickEventHandler) EventName() string {
	return event.ClickRecordedName
}

// Handle stores the click. Failures are logged and dropped; a lost click
// is never retried.
func (h *ClickEventHandler) Handle(ctx context.Context, envelope *eventbus.Envelope) error {
	var evt event.ClickRecorded
	if err := json.Unmarshal(envelope.Payload, &evt); err != nil {
		h.log.Warnf("failed to unmarshal ClickRecorded event %s: %v", envelope.EventID, err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.writeTimeout)
	defer cancel()

	click := &ClickEvent{
		ShortCode: evt.ShortCode,
		Timestamp: evt.Timestamp,
		Referrer:  evt.Referrer,
		UserAgent: evt.UserAgent,
		Source:    h.classifier.Classify(evt.Source),
		IPAddress: evt.IPAddress,
		Location: Location{
			Country:   evt.Location.Country,
			Region:    evt.Location.Region,
			City:      evt.Location.City,
			Latitude:  evt.Location.Latitude,
			Longitude: evt.Location.Longitude,
		},
	}
	if err := h.repo.Create(ctx, click); err != nil {
		h.log.Errorf("failed to record click for %s: %v", evt.ShortCode, err)
		return nil
	}
	return nil
}

// RegisterEventHandlers registers all event handlers with the router.
func RegisterEventHandlers(router *eventbus.Router, clicks *ClickEventHandler) {
	router.AddHandler(clicks)
}

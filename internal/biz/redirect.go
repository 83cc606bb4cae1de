package biz

import (
	"context"
	"time"

	"linkstats/internal/event"

	"github.com/go-kratos/kratos/v2/log"
)

// ClickPublisher hands click events to the detached recording path.
// Publish must not wait for the event to be persisted.
type ClickPublisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// Visit describes the client following a short link. Empty fields are
// replaced by sentinels when the click is recorded.
type Visit struct {
	UserAgent string
	Referrer  string
	IPAddress string
}

// RedirectUsecase resolves short codes for redirection.
type RedirectUsecase struct {
	repo      URLRepo
	publisher ClickPublisher
	now       func() time.Time
	log       *log.Helper
}

// NewRedirectUsecase creates a new RedirectUsecase.
func NewRedirectUsecase(repo URLRepo, publisher ClickPublisher, logger log.Logger) *RedirectUsecase {
	return &RedirectUsecase{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
		log:       log.NewHelper(log.With(logger, "module", "biz/redirect")),
	}
}

// Resolve returns the original URL of code and records the click in the
// background. Expired links are rejected without recording a click.
func (uc *RedirectUsecase) Resolve(ctx context.Context, code string, visit Visit) (string, error) {
	u, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return "", storageError(err)
	}

	now := uc.now().UTC()
	if u.IsExpired(now) {
		return "", ErrExpired
	}

	uc.recordClick(ctx, u.Code, now, visit)
	return u.OriginalURL, nil
}

func (uc *RedirectUsecase) recordClick(ctx context.Context, code string, at time.Time, visit Visit) {
	userAgent := visit.UserAgent
	if userAgent == "" {
		userAgent = UnknownUserAgent
	}
	referrer := visit.Referrer
	if referrer == "" {
		referrer = DirectReferrer
	}

	evt := event.NewClickRecorded(code, at, referrer, userAgent, userAgent, visit.IPAddress, event.Location{
		Country: UnknownLocation,
		Region:  UnknownLocation,
		City:    UnknownLocation,
	})
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		uc.log.WithContext(ctx).Errorf("failed to publish click for %s: %v", code, err)
	}
}

package biz

import (
	"context"
	"time"
)

// Sentinels recorded when a visit carries no referrer or user agent.
const (
	DirectReferrer   = "direct"
	UnknownUserAgent = "unknown"
	// UnknownLocation fills every textual location field.
	UnknownLocation = "unknown"
)

// ShortURL maps a short code to its target. Records are never mutated.
type ShortURL struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired reports whether the link is past its validity at now.
// A link is expired from the instant of expiresAt onwards.
func (u *ShortURL) IsExpired(now time.Time) bool {
	return !now.Before(u.ExpiresAt)
}

// Location is the unresolved origin of a click.
type Location struct {
	Country   string
	Region    string
	City      string
	Latitude  *float64
	Longitude *float64
}

// ClickEvent is one recorded redirect.
type ClickEvent struct {
	ID        int64
	ShortCode string
	Timestamp time.Time
	Referrer  string
	UserAgent string
	Source    string
	IPAddress string
	Location  Location
}

// URLRepo is the URL record store.
type URLRepo interface {
	// Create inserts u and sets its ID. A taken code yields ErrCodeConflict.
	Create(ctx context.Context, u *ShortURL) error
	// GetByCode returns ErrNotFound when no record has code.
	GetByCode(ctx context.Context, code string) (*ShortURL, error)
	Exists(ctx context.Context, code string) (bool, error)
}

// ClickRepo is the click event store.
type ClickRepo interface {
	Create(ctx context.Context, c *ClickEvent) error
	// ListByCode returns every click for code, newest first.
	ListByCode(ctx context.Context, code string) ([]*ClickEvent, error)
}

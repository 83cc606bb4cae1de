// Package v1 defines the JSON contract of the shortener HTTP API.
package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Validity is a number of minutes. Clients send it either as a JSON number
// or as a numeric string; it is kept in textual form for validation. The
// number 0 reads as absent, while the string "0" is kept.
type Validity string

func (v *Validity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Validity(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("validity must be a number: %w", err)
		}
		if f, err := n.Float64(); err == nil && f == 0 {
			*v = ""
			return nil
		}
		*v = Validity(n.String())
	}
	return nil
}

type ShortenRequest struct {
	Url       string   `json:"url"`
	Validity  Validity `json:"validity"`
	Shortcode string   `json:"shortcode,omitempty"`
}

type ShortenReply struct {
	ShortLink string    `json:"shortLink"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RedirectRequest struct {
	Code      string `json:"code"`
	UserAgent string `json:"-"`
	Referrer  string `json:"-"`
	Ip        string `json:"-"`
}

type RedirectReply struct {
	Location string `json:"location"`
}

type GetStatsRequest struct {
	Code string `json:"code"`
}

type GetStatsReply struct {
	UrlInfo      *UrlInfo       `json:"urlInfo"`
	ClickStats   *ClickStats    `json:"clickStats"`
	ClickDetails []*ClickDetail `json:"clickDetails"`
}

type UrlInfo struct {
	OriginalUrl string    `json:"originalUrl"`
	Shortcode   string    `json:"shortcode"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	IsExpired   bool      `json:"isExpired"`
}

type ClickStats struct {
	Total     int64         `json:"total"`
	Referrers []*GroupCount `json:"referrers"`
	Devices   []*GroupCount `json:"devices"`
}

type GroupCount struct {
	Id    string `json:"id"`
	Count int64  `json:"count"`
}

type ClickDetail struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"userAgent"`
	Ip        string    `json:"ip"`
}

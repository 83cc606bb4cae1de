package event

import "time"

// ClickRecordedName is the bus name of ClickRecorded.
const ClickRecordedName = "click.recorded"

// Location is the coarse, IP-derived origin of a click. It is carried for
// wire compatibility and is never resolved.
type Location struct {
	Country   string   `json:"country"`
	Region    string   `json:"region"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ClickRecorded is raised when a visitor is redirected through a short code.
type ClickRecorded struct {
	Base
	ShortCode string    `json:"short_code"`
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"user_agent"`
	Source    string    `json:"source"`
	IPAddress string    `json:"ip_address"`
	Location  Location  `json:"location"`
}

// NewClickRecorded creates a new ClickRecorded event.
func NewClickRecorded(shortCode string, at time.Time, referrer, userAgent, source, ipAddress string, location Location) ClickRecorded {
	return ClickRecorded{
		Base:      NewBase(shortCode, at),
		ShortCode: shortCode,
		Timestamp: at.UTC(),
		Referrer:  referrer,
		UserAgent: userAgent,
		Source:    source,
		IPAddress: ipAddress,
		Location:  location,
	}
}

// EventName returns the event name.
func (e ClickRecorded) EventName() string {
	return ClickRecordedName
}

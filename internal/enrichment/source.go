package enrichment

import (
	"linkstats/internal/biz"
	"linkstats/internal/conf"

	"github.com/google/wire"
	ua "github.com/mileusna/useragent"
)

// ProviderSet is enrichment providers.
var ProviderSet = wire.NewSet(NewSourceClassifier)

// Device buckets reported by DeviceClassifier.
const (
	DeviceBot     = "Bot"
	DeviceTablet  = "Tablet"
	DeviceMobile  = "Mobile"
	DeviceDesktop = "Desktop"
	DeviceUnknown = "Unknown"
)

// NewSourceClassifier returns the classifier selected by
// clicks.classify_devices. By default clicks are grouped by raw user agent.
func NewSourceClassifier(c *conf.Clicks) biz.SourceClassifier {
	if c.ClassifyDevices {
		return NewDeviceClassifier()
	}
	return RawClassifier{}
}

// RawClassifier uses the user agent itself as the bucket.
type RawClassifier struct{}

func (RawClassifier) Classify(userAgent string) string {
	return userAgent
}

// DeviceClassifier detects the device type from User-Agent strings.
type DeviceClassifier struct{}

// NewDeviceClassifier creates a new DeviceClassifier.
func NewDeviceClassifier() *DeviceClassifier {
	return &DeviceClassifier{}
}

// Classify returns "Desktop", "Mobile", "Tablet", "Bot", or "Unknown".
func (d *DeviceClassifier) Classify(userAgent string) string {
	if userAgent == "" || userAgent == biz.UnknownUserAgent {
		return DeviceUnknown
	}

	parsed := ua.Parse(userAgent)

	// Bots first: crawlers often claim a mobile or desktop platform too.
	switch {
	case parsed.Bot:
		return DeviceBot
	case parsed.Tablet:
		return DeviceTablet
	case parsed.Mobile:
		return DeviceMobile
	case parsed.Desktop:
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}

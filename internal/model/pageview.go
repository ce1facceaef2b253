package model

import (
	"strings"
	"time"
)

// Device type labels recorded with each page view.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// DeviceTypeFromUserAgent classifies a User-Agent header into one of the
// three device buckets used by the visit-statistics reports.  Tablets are
// checked before mobile because iPad user agents also contain "mobile".
func DeviceTypeFromUserAgent(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return DeviceTablet
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return DeviceMobile
	}
	return DeviceDesktop
}

// PageView is the aggregated view counter for one page, keyed by page id.
type PageView struct {
	PageID       string     // page_views.page_id
	Views        uint64     // page_views.views
	LastViewedAt *time.Time // page_views.last_viewed_at (nullable)
}

// PageViewLog is one raw view event with its classified device type.
type PageViewLog struct {
	ID         uint64    // page_view_logs.id
	PageID     string    // page_view_logs.page_id
	DeviceType string    // page_view_logs.device_type
	ViewedAt   time.Time // page_view_logs.viewed_at
}

// Package useragent classifies a raw User-Agent string into browser, OS,
// and device-class labels. It is a pure, deterministic function with no
// side effects.
package useragent

import (
	"strings"

	"github.com/mssola/useragent"
)

// Classification is the (browser, os, device) triple derived from a UA.
type Classification struct {
	Browser string
	OS      string
	Device  string
}

var tabletMarkers = []string{"ipad", "tablet", "playbook", "silk", "kindle"}

// Classify derives a Classification from ua. An empty ua yields an empty
// Classification. Otherwise an unknown browser or OS produces the empty
// string, never "Unknown"; Device is always "mobile", "tablet" or, when
// neither applies, "desktop".
func Classify(ua string) Classification {
	if strings.TrimSpace(ua) == "" {
		return Classification{}
	}

	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	os := parsed.OS()

	device := "desktop"
	if parsed.Mobile() {
		device = "mobile"
	} else if isTablet(ua) {
		device = "tablet"
	}

	return Classification{
		Browser: browser,
		OS:      os,
		Device:  device,
	}
}

func isTablet(ua string) bool {
	lower := strings.ToLower(ua)
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

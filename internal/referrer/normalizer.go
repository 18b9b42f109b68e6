// Package referrer normalizes a raw Referer string into a stored host. It
// never rewrites or validates the raw value itself — the raw referrer is
// kept verbatim alongside the derived host.
package referrer

import "net/url"

// Host extracts the host portion of raw. An empty, unparseable, or
// schemeless referrer yields an empty string rather than an error — the
// source page not sending one (or sending garbage) is routine, not a
// failure worth surfacing.
func Host(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return parsed.Hostname()
}

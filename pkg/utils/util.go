package utils

import (
	"regexp"
	"strings"
	"time"
)

var locationCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeLocationCode uppercases and trims a location code. Returns the
// empty string when the result is not a three-letter IATA-style code.
func NormalizeLocationCode(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !locationCodeRe.MatchString(normalized) {
		return ""
	}
	return normalized
}

// RouteKey builds the canonical "FROM-TO" route key
func RouteKey(from, to string) string {
	return from + "-" + to
}

// SplitRouteKey returns the endpoints of a canonical route key
func SplitRouteKey(route string) (string, string) {
	parts := strings.SplitN(route, "-", 2)
	if len(parts) != 2 {
		return route, ""
	}
	return parts[0], parts[1]
}

// NormalizeDate parses a date in either the ISO or human layout and returns
// the canonical ISO form; empty string when unparsable.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(ISO_DATE_LAYOUT, raw); err == nil {
		return t.Format(ISO_DATE_LAYOUT)
	}
	if t, err := time.Parse(DATE_LAYOUT, raw); err == nil {
		return t.Format(ISO_DATE_LAYOUT)
	}
	return ""
}

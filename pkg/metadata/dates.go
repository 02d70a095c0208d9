package metadata

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical textual date form attached to pages.
const DateLayout = "January 2, 2006"

// FormatDate normalizes a recognized date string to the canonical
// "Month DD, YYYY" form. Unparseable strings and the literal "unknown" pass
// through unchanged.
func FormatDate(raw string) string {
	if strings.EqualFold(raw, "unknown") {
		return raw
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return parsed.Format(DateLayout)
}

// ParseDate parses a canonical-form date back into a time. Unparseable
// strings yield the zero time, which sorts before every real date and so
// positions undated sources first in chronological ordering.
func ParseDate(s string) time.Time {
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

package summarizer

import (
	"fmt"
	"regexp"
	"strconv"
)

// Provenance is threaded through the cross-source selection call as a
// trailing parenthesized page identity on every line. The numeric-suffix
// format is a fragile text protocol; it is isolated here so it can be
// swapped for a structured carrier without touching the summarizer.

var taggedLine = regexp.MustCompile(`^(.*) \((\d+)\)$`)

// TaggedLine is one selected line with its parsed source page identity.
type TaggedLine struct {
	Text   string
	PageID int
}

// AppendTag suffixes a line with its page identity.
func AppendTag(line string, pageID int) string {
	return fmt.Sprintf("%s (%d)", line, pageID)
}

// ParseTaggedLine extracts the page identity from a line. Lines without a
// valid trailing tag report ok=false and are dropped by the caller.
func ParseTaggedLine(line string) (TaggedLine, bool) {
	m := taggedLine.FindStringSubmatch(line)
	if m == nil {
		return TaggedLine{}, false
	}
	id, err := strconv.Atoi(m[2])
	if err != nil {
		return TaggedLine{}, false
	}
	return TaggedLine{Text: m[1], PageID: id}, true
}

// Package report renders the surviving source pages into the final evidence
// report.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/openpredict/evidence/models"
	"github.com/openpredict/evidence/pkg/metadata"
)

// Assemble renders each page with a non-empty final text as a two-line
// block, blank-line separated, and appends a timestamped disclaimer. Callers
// are expected to have sorted the pages chronologically. Returns the empty
// string when no sources survive; that is a valid, degraded result.
func Assemble(pages []*models.SourcePage, now time.Time) string {
	var sb strings.Builder
	n := 0
	for _, page := range pages {
		if page.FinalText == "" {
			continue
		}
		n++
		fmt.Fprintf(&sb, "ARTICLE %d: PUBLISHER: %s, PUBLICATION_DATE: %s\n", n, page.Publisher, page.PublicationDate)
		sb.WriteString(page.FinalText)
		sb.WriteString("\n\n")
	}
	if n == 0 {
		return ""
	}

	fmt.Fprintf(&sb,
		"Disclaimer: This search output was retrieved on %s and does not claim to be exhaustive or definitive.",
		now.Format(metadata.DateLayout))
	return sb.String()
}

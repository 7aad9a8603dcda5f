package catalog

import (
	"time"

	"shelfapi/internal/platform/openlibrary"
)

// SelectEdition picks the representative edition for a work. A declared
// primary edition wins if it is among the candidates; otherwise the candidate
// with the greatest effective date does. Ties keep the first maximal
// candidate encountered. An empty candidate list yields nil.
func SelectEdition(primarySourceID string, candidates []openlibrary.EditionDetails) *openlibrary.EditionDetails {
	if len(candidates) == 0 {
		return nil
	}

	if primarySourceID != "" {
		for i := range candidates {
			if candidates[i].SourceID == primarySourceID {
				return &candidates[i]
			}
		}
	}

	best := 0
	bestDate := effectiveDate(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if d := effectiveDate(candidates[i]); d.After(bestDate) {
			best = i
			bestDate = d
		}
	}
	return &candidates[best]
}

// effectiveDate orders candidates: a parseable publish date, else December 31
// of the publish year, else the zero time (sorts below everything).
func effectiveDate(e openlibrary.EditionDetails) time.Time {
	if t, ok := openlibrary.ParseDate(e.PublishDate); ok {
		return t
	}
	if e.PublishYear != nil {
		return time.Date(*e.PublishYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

package review

import (
	"time"

	"github.com/rpattn/reviewstore/internal/dates"
	"github.com/rpattn/reviewstore/internal/domain"
)

// DefaultOverdueMonths is how far back a review date may lie before the
// row is flagged overdue, used when no window is configured.
const DefaultOverdueMonths = 12

// MergedRow is a catalog row joined with its active edit and the
// derived status. Rows are recomputed on every read and never persisted.
type MergedRow struct {
	domain.CatalogRecord

	ActiveEntryID string
	ReviewDate    string
	LayerDate     string
	TestDate      string
	Comment       string
	Status        domain.Status
	StatusLabel   string
}

// StatusFor derives the status from one review date string, given a
// fixed notion of today. Unparseable or blank dates are MISSING; dates
// on or before today minus overdueMonths are OVERDUE; anything newer is
// ACTIVE. A non-positive window falls back to DefaultOverdueMonths.
func StatusFor(reviewDate string, today time.Time, overdueMonths int) domain.Status {
	if overdueMonths <= 0 {
		overdueMonths = DefaultOverdueMonths
	}
	parsed, ok := dates.Parse(reviewDate)
	if !ok {
		return domain.StatusMissing
	}
	cutoff := today.AddDate(0, -overdueMonths, 0)
	if !parsed.After(cutoff) {
		return domain.StatusOverdue
	}
	return domain.StatusActive
}

// Merge left-joins the deduplicated catalog with the active edit per
// client. Clients without an active edit get empty-string edit fields.
// The status is computed from the edit's review date against today,
// using the given overdue window in months.
func Merge(catalog []domain.CatalogRecord, active map[string]domain.EditEntry, today time.Time, overdueMonths int) []MergedRow {
	rows := make([]MergedRow, 0, len(catalog))
	for _, record := range catalog {
		row := MergedRow{CatalogRecord: record}
		if entry, ok := active[record.ClientID]; ok {
			row.ActiveEntryID = entry.EntryID
			row.ReviewDate = entry.Values.ReviewDate
			row.LayerDate = entry.Values.LayerDate
			row.TestDate = entry.Values.TestDate
			row.Comment = entry.Values.Comment
		}
		row.Status = StatusFor(row.ReviewDate, today, overdueMonths)
		row.StatusLabel = row.Status.Label()
		rows = append(rows, row)
	}
	return rows
}

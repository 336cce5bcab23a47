package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpattn/reviewstore/internal/domain"
)

func TestStatusForBoundaries(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		reviewDate string
		want       domain.Status
	}{
		{"empty is missing", "", domain.StatusMissing},
		{"unparseable is missing", "soon", domain.StatusMissing},
		{"twelve months minus a day is active", "2023-06-16", domain.StatusActive},
		{"exactly twelve months is overdue", "2023-06-15", domain.StatusOverdue},
		{"older than twelve months is overdue", "2020-01-01", domain.StatusOverdue},
		{"today is active", "2024-06-15", domain.StatusActive},
		{"partial date participates", "2023-01", domain.StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StatusFor(tt.reviewDate, today, DefaultOverdueMonths))
		})
	}
}

func TestStatusForConfigurableWindow(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Six-month window: a nine-month-old review flips to overdue.
	require.Equal(t, domain.StatusOverdue, StatusFor("2023-09-15", today, 6))
	require.Equal(t, domain.StatusActive, StatusFor("2023-09-15", today, DefaultOverdueMonths))

	// Non-positive window falls back to the default.
	require.Equal(t, domain.StatusActive, StatusFor("2023-09-15", today, 0))
}

func TestStatusLabels(t *testing.T) {
	require.Equal(t, "🔴 MISSING", domain.StatusMissing.Label())
	require.Equal(t, "🟠 OVERDUE", domain.StatusOverdue.Label())
	require.Equal(t, "🟢 ACTIVE", domain.StatusActive.Label())
}

func TestMergeJoinsActiveEdits(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	catalogRows := []domain.CatalogRecord{
		{ClientID: "c1", Tag: "G", Region: "EMEA"},
		{ClientID: "c2", Tag: "U"},
	}
	active := map[string]domain.EditEntry{
		"c1": {
			EntryID: "e1",
			Values: domain.EditValues{
				ReviewDate: "2024-05-01",
				LayerDate:  "2024-04-01",
				TestDate:   "2024-03-01",
				Comment:    "reviewed",
			},
		},
	}

	rows := Merge(catalogRows, active, today, DefaultOverdueMonths)
	require.Len(t, rows, 2)

	require.Equal(t, "e1", rows[0].ActiveEntryID)
	require.Equal(t, "2024-05-01", rows[0].ReviewDate)
	require.Equal(t, "reviewed", rows[0].Comment)
	require.Equal(t, domain.StatusActive, rows[0].Status)
	require.Equal(t, "🟢 ACTIVE", rows[0].StatusLabel)

	// No active edit: empty defaults and MISSING status.
	require.Equal(t, "", rows[1].ActiveEntryID)
	require.Equal(t, "", rows[1].ReviewDate)
	require.Equal(t, "", rows[1].Comment)
	require.Equal(t, domain.StatusMissing, rows[1].Status)
}

func TestMergeStatusComesFromEditNotCatalog(t *testing.T) {
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	catalogRows := []domain.CatalogRecord{
		{ClientID: "c1", ReviewCAWB: "2024-06-01"},
	}

	rows := Merge(catalogRows, nil, today, DefaultOverdueMonths)
	require.Equal(t, domain.StatusMissing, rows[0].Status)
}

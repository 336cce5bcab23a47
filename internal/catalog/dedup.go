package catalog

import (
	"sort"

	"github.com/rpattn/reviewstore/internal/dates"
	"github.com/rpattn/reviewstore/internal/domain"
)

// Deduplicate collapses catalog rows to one per client id.
//
// The chosen row is the one with the latest parseable review date; rows
// sharing that date are broken by the largest row order (last occurrence
// wins). When no row for a client has a parseable date, the row with the
// largest row order wins outright. The region, sub-region, and pod
// display fields are then always taken from the client's last physical
// occurrence in the source file, so the value of record and the value
// for display can come from two different rows.
//
// Output is sorted by client id for deterministic downstream rendering.
func Deduplicate(records []domain.CatalogRecord) []domain.CatalogRecord {
	if len(records) == 0 {
		return []domain.CatalogRecord{}
	}

	groups := make(map[string][]domain.CatalogRecord)
	order := make([]string, 0)
	for _, record := range records {
		if _, seen := groups[record.ClientID]; !seen {
			order = append(order, record.ClientID)
		}
		groups[record.ClientID] = append(groups[record.ClientID], record)
	}

	result := make([]domain.CatalogRecord, 0, len(order))
	for _, clientID := range order {
		group := groups[clientID]
		chosen := pickLatest(group)

		last := group[0]
		for _, candidate := range group[1:] {
			if candidate.RowOrder > last.RowOrder {
				last = candidate
			}
		}
		chosen.Region = last.Region
		chosen.Region1 = last.Region1
		chosen.Region2 = last.Region2
		chosen.Pod = last.Pod

		result = append(result, chosen)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ClientID < result[j].ClientID
	})
	return result
}

// pickLatest applies the dedup tie-break rule to one client's rows.
func pickLatest(group []domain.CatalogRecord) domain.CatalogRecord {
	var (
		chosen   domain.CatalogRecord
		hasDated bool
	)
	for _, candidate := range group {
		parsed, ok := dates.Parse(candidate.ReviewCAWB)
		if !ok {
			continue
		}
		if !hasDated {
			chosen, hasDated = candidate, true
			continue
		}
		chosenDate, _ := dates.Parse(chosen.ReviewCAWB)
		switch {
		case parsed.After(chosenDate):
			chosen = candidate
		case parsed.Equal(chosenDate) && candidate.RowOrder > chosen.RowOrder:
			chosen = candidate
		}
	}
	if hasDated {
		return chosen
	}

	chosen = group[0]
	for _, candidate := range group[1:] {
		if candidate.RowOrder > chosen.RowOrder {
			chosen = candidate
		}
	}
	return chosen
}

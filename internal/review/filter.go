package review

import (
	"sort"
	"strings"
)

// Filters selects merged rows. Dimensions combine with AND logic; the
// values inside one dimension combine with OR. Search matches a
// case-insensitive substring of the client id or comment.
type Filters struct {
	Region  []string
	Region1 []string
	Region2 []string
	Pod     []string
	CA      []string
	RM      []string
	SG      []string
	Status  []string
	Search  string
}

// FilterRows returns the rows matching every populated dimension.
func FilterRows(rows []MergedRow, filters Filters) []MergedRow {
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	filtered := make([]MergedRow, 0, len(rows))
	for _, row := range rows {
		if !matchDimension(row.Region, filters.Region) ||
			!matchDimension(row.Region1, filters.Region1) ||
			!matchDimension(row.Region2, filters.Region2) ||
			!matchDimension(row.Pod, filters.Pod) ||
			!matchDimension(row.CA, filters.CA) ||
			!matchDimension(row.RM, filters.RM) ||
			!matchDimension(row.SG, filters.SG) ||
			!matchDimension(string(row.Status), filters.Status) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.ClientID), search) &&
			!strings.Contains(strings.ToLower(row.Comment), search) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func matchDimension(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, candidate := range selected {
		if value == candidate {
			return true
		}
	}
	return false
}

// FilterOptions builds the sorted, de-duplicated, non-empty values for
// one filterable dimension of the merged view.
func FilterOptions(rows []MergedRow, value func(MergedRow) string) []string {
	seen := make(map[string]struct{})
	options := make([]string, 0)
	for _, row := range rows {
		v := strings.TrimSpace(value(row))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		options = append(options, v)
	}
	sort.Strings(options)
	return options
}

// Paginate slices rows for one page. The page number is clamped into
// the valid range and pageSize falls back to len(rows) when not
// positive. It returns the page slice, the clamped page number, and the
// total page count.
func Paginate(rows []MergedRow, page, pageSize int) ([]MergedRow, int, int) {
	if pageSize <= 0 {
		return rows, 1, 1
	}
	totalPages := (len(rows) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], page, totalPages
}

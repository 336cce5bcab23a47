package domain

// Status is the derived review state of one client row.
type Status string

const (
	// StatusMissing means the row has no parseable review date.
	StatusMissing Status = "MISSING"
	// StatusOverdue means the review date is at least the configured
	// overdue window in the past.
	StatusOverdue Status = "OVERDUE"
	// StatusActive means the review date is within the overdue window.
	StatusActive Status = "ACTIVE"
)

var statusLabels = map[Status]string{
	StatusMissing: "🔴 MISSING",
	StatusOverdue: "🟠 OVERDUE",
	StatusActive:  "🟢 ACTIVE",
}

// Label returns the display label used by the dashboard table.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

package domain

// CatalogRecord is one row of the externally produced client catalog.
// The catalog file is replaced wholesale by an upstream process and is
// read-only to this system; every field is kept as the source string.
type CatalogRecord struct {
	ClientID   string `json:"client_id"`
	Tag        string `json:"tag"`
	Region     string `json:"region"`
	Region1    string `json:"region1"`
	Region2    string `json:"region2"`
	Pod        string `json:"pod"`
	CA         string `json:"ca"`
	RM         string `json:"rm"`
	ReviewCAWB string `json:"review_cawb"`
	SG         string `json:"sg"`
	Layer      string `json:"layer"`

	// RowOrder is the physical position in the source file, assigned at
	// load time. It breaks ties deterministically during deduplication.
	RowOrder int `json:"-"`
}

// EditValues carries the editable fields of one client edit. Dates are
// normalized YYYY-MM-DD strings or empty; the comment is trimmed text.
type EditValues struct {
	ReviewDate string `json:"review_date"`
	LayerDate  string `json:"layer_date"`
	TestDate   string `json:"test_date"`
	Comment    string `json:"comment"`
}

// IsZero reports whether no field carries a value.
func (v EditValues) IsZero() bool {
	return v.ReviewDate == "" && v.LayerDate == "" && v.TestDate == "" && v.Comment == ""
}

// EditEntry is one immutable row of the edit log. Entries are never
// deleted or rewritten; IsActive is the only field that ever changes,
// and only from true to false when a newer entry supersedes this one.
type EditEntry struct {
	EntryID         string
	ClientID        string
	Values          EditValues
	ChangedBy       string
	ChangeTimestamp string
	IsActive        bool
	PreviousEntryID string
}

// AuditEntry is one immutable row of the audit trail, recording the
// old and new value snapshots of an accepted edit.
type AuditEntry struct {
	AuditID         string
	EntryID         string
	ClientID        string
	ChangedBy       string
	ChangeTimestamp string
	OldValues       EditValues
	NewValues       EditValues
}

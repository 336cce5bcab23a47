// Package review holds the edit validation rules, the merge and status
// engine, and the service that drives the edit-acceptance protocol.
package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpattn/reviewstore/internal/dates"
	"github.com/rpattn/reviewstore/internal/domain"
)

// EditPayload is the raw, unvalidated input for one edit as the UI
// layer supplies it.
type EditPayload struct {
	ReviewDate string
	LayerDate  string
	TestDate   string
	Comment    string
}

// Validator normalizes and validates edit payloads. Validation is pure:
// it touches no files and runs before any lock is taken.
type Validator struct {
	minDate        time.Time
	strictTestDate bool
	now            func() time.Time
}

// NewValidator creates a validator. minDate is the earliest date any
// field accepts; strictTestDate restricts test_date to the full
// YYYY-MM-DD form, rejecting the partial shapes other fields allow.
func NewValidator(minDate time.Time, strictTestDate bool, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{minDate: minDate, strictTestDate: strictTestDate, now: now}
}

// ValidatePayload validates every field of payload and returns the
// normalized values. The whole payload is rejected on the first failing
// field; there is no partial acceptance.
func (v *Validator) ValidatePayload(payload EditPayload) (domain.EditValues, error) {
	reviewDate, err := v.validateOptionalDate(payload.ReviewDate, "review_date", false)
	if err != nil {
		return domain.EditValues{}, err
	}
	layerDate, err := v.validateOptionalDate(payload.LayerDate, "layer_date", false)
	if err != nil {
		return domain.EditValues{}, err
	}
	testDate, err := v.validateOptionalDate(payload.TestDate, "test_date", v.strictTestDate)
	if err != nil {
		return domain.EditValues{}, err
	}
	return domain.EditValues{
		ReviewDate: reviewDate,
		LayerDate:  layerDate,
		TestDate:   testDate,
		Comment:    strings.TrimSpace(payload.Comment),
	}, nil
}

// validateOptionalDate normalizes one date field. Blank input is valid
// and normalizes to the empty string; anything else must parse and fall
// inside [minDate, today].
func (v *Validator) validateOptionalDate(value, field string, strict bool) (string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", nil
	}

	var (
		parsed time.Time
		ok     bool
	)
	if strict {
		parsed, ok = dates.ParseStrict(raw)
		if !ok {
			return "", &domain.ValidationError{
				Field:   field,
				Message: "must be a full date in YYYY-MM-DD form",
			}
		}
	} else {
		parsed, ok = dates.Parse(raw)
		if !ok {
			return "", &domain.ValidationError{
				Field:   field,
				Message: "must be a valid date (YYYY-MM-DD, YYYY-MM, or YYYY)",
			}
		}
	}

	if parsed.Before(v.minDate) {
		return "", &domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("cannot be earlier than %s", dates.Format(v.minDate)),
		}
	}
	today := v.now().UTC().Truncate(24 * time.Hour)
	if parsed.After(today) {
		return "", &domain.ValidationError{
			Field:   field,
			Message: "cannot be in the future",
		}
	}
	return dates.Format(parsed), nil
}

package review

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/audit"
	"github.com/rpattn/reviewstore/internal/catalog"
	"github.com/rpattn/reviewstore/internal/domain"
	"github.com/rpattn/reviewstore/internal/editlog"
)

// Service wires the catalog, edit log, audit trail, and validator into
// the operations the dashboard calls. It is stateless over the files:
// every read reconstructs its view from disk, so independent processes
// always agree.
type Service struct {
	catalogPath   string
	loader        *catalog.Loader
	edits         *editlog.Store
	audits        *audit.Trail
	validator     *Validator
	overdueMonths int
	now           func() time.Time
	logger        *zap.Logger
}

// NewService creates the review service. A non-positive overdueMonths
// falls back to DefaultOverdueMonths.
func NewService(
	catalogPath string,
	loader *catalog.Loader,
	edits *editlog.Store,
	audits *audit.Trail,
	validator *Validator,
	overdueMonths int,
	now func() time.Time,
	logger *zap.Logger,
) *Service {
	if overdueMonths <= 0 {
		overdueMonths = DefaultOverdueMonths
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalogPath:   catalogPath,
		loader:        loader,
		edits:         edits,
		audits:        audits,
		validator:     validator,
		overdueMonths: overdueMonths,
		now:           now,
		logger:        logger,
	}
}

// EnsureDataFiles creates the writable data files when absent. The
// catalog must already exist; it is produced upstream and never created
// here.
func (s *Service) EnsureDataFiles() error {
	if err := s.edits.EnsureFile(); err != nil {
		return fmt.Errorf("failed to ensure edit log: %w", err)
	}
	if err := s.audits.EnsureFile(); err != nil {
		return fmt.Errorf("failed to ensure audit trail: %w", err)
	}
	return nil
}

// MergedView loads the catalog, deduplicates it, joins the active edit
// per client, and computes each row's status.
func (s *Service) MergedView() ([]MergedRow, error) {
	records, err := s.loader.Load(s.catalogPath)
	if err != nil {
		return nil, err
	}
	deduped := catalog.Deduplicate(records)

	active, err := s.edits.ActiveEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to load active edits: %w", err)
	}
	return Merge(deduped, active, s.now().UTC(), s.overdueMonths), nil
}

// ApplyEdit validates payload, appends it to the edit log, and mirrors
// the accepted transition into the audit trail. Validation failures
// abort before any lock is taken, so rejected edits leave no trace in
// either file.
func (s *Service) ApplyEdit(clientID, changedBy string, payload EditPayload) (string, error) {
	values, err := s.validator.ValidatePayload(payload)
	if err != nil {
		return "", err
	}

	result, err := s.edits.Append(clientID, changedBy, values)
	if err != nil {
		return "", err
	}

	if err := s.audits.Append(result.EntryID, clientID, changedBy, result.OldValues, result.NewValues); err != nil {
		// The edit itself is committed; surface the audit failure so the
		// caller knows the trail is behind.
		return result.EntryID, err
	}
	return result.EntryID, nil
}

// BulkEditResult reports the outcome of one client within a bulk edit.
type BulkEditResult struct {
	ClientID string
	EntryID  string
	Err      error
}

// BulkApplyEdit applies one payload to every client in the selection.
// The payload is validated once up front; a validation failure rejects
// the whole bulk operation before any write. Append failures after that
// are reported per client, and earlier successes stand.
func (s *Service) BulkApplyEdit(clientIDs []string, changedBy string, payload EditPayload) ([]BulkEditResult, error) {
	values, err := s.validator.ValidatePayload(payload)
	if err != nil {
		return nil, err
	}

	results := make([]BulkEditResult, 0, len(clientIDs))
	for _, clientID := range clientIDs {
		result, err := s.edits.Append(clientID, changedBy, values)
		if err != nil {
			results = append(results, BulkEditResult{ClientID: clientID, Err: err})
			continue
		}
		if err := s.audits.Append(result.EntryID, clientID, changedBy, result.OldValues, result.NewValues); err != nil {
			results = append(results, BulkEditResult{ClientID: clientID, EntryID: result.EntryID, Err: err})
			continue
		}
		results = append(results, BulkEditResult{ClientID: clientID, EntryID: result.EntryID})
	}

	s.logger.Info("applied bulk edit",
		zap.Int("clients", len(clientIDs)),
		zap.String("changed_by", changedBy))
	return results, nil
}

// History returns every edit log entry for one client, oldest first.
func (s *Service) History(clientID string) ([]domain.EditEntry, error) {
	return s.edits.History(clientID)
}

// AuditLog returns audit entries, optionally restricted to one client.
func (s *Service) AuditLog(clientID string) ([]domain.AuditEntry, error) {
	if clientID == "" {
		return s.audits.List()
	}
	return s.audits.ListByClient(clientID)
}

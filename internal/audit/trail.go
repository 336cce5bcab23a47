// Package audit keeps the immutable history of accepted edit
// transitions. The trail is a pure append log: it has no active flag and
// is never rewritten except to add one row per accepted edit.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/codec"
	"github.com/rpattn/reviewstore/internal/domain"
	"github.com/rpattn/reviewstore/internal/fileio"
)

// Columns is the audit trail wire schema, in column order.
var Columns = []string{
	"audit_id",
	"entry_id",
	"client_id",
	"changed_by",
	"change_timestamp",
	"old_values",
	"new_values",
}

const timestampLayout = "2006-01-02T15:04:05Z"

// Trail is the audit log backed by one flat file, guarded by its own
// lock scope so audit appends never contend with edit log appends.
type Trail struct {
	path        string
	locker      fileio.Locker
	lockTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// Option configures a Trail.
type Option func(*Trail)

// WithLocker swaps the lock implementation.
func WithLocker(locker fileio.Locker) Option {
	return func(t *Trail) { t.locker = locker }
}

// WithLockTimeout overrides the lock acquisition timeout.
func WithLockTimeout(timeout time.Duration) Option {
	return func(t *Trail) {
		if timeout > 0 {
			t.lockTimeout = timeout
		}
	}
}

// WithClock injects the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Trail) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Trail) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTrail creates an audit trail over the file at path.
func NewTrail(path string, opts ...Option) *Trail {
	t := &Trail{
		path:        path,
		locker:      fileio.NewFileLocker(),
		lockTimeout: 10 * time.Second,
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the file this trail writes to.
func (t *Trail) Path() string {
	return t.path
}

// EnsureFile creates an empty audit file with the expected header when
// missing.
func (t *Trail) EnsureFile() error {
	entries, err := codec.ReadFile(t.path, Columns)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	data, err := codec.Encode(Columns, nil)
	if err != nil {
		return err
	}
	return fileio.WriteAtomic(t.path, data)
}

// Append records one accepted edit transition. It must be called only
// after the corresponding edit log append succeeded, with the values
// that append returned, so the trail stays a faithful ordered history:
// rejected edits never reach it.
func (t *Trail) Append(entryID, clientID, changedBy string, oldValues, newValues domain.EditValues) error {
	oldSnapshot, err := encodeSnapshot(oldValues)
	if err != nil {
		return fmt.Errorf("failed to encode old values for client %s: %w", clientID, err)
	}
	newSnapshot, err := encodeSnapshot(newValues)
	if err != nil {
		return fmt.Errorf("failed to encode new values for client %s: %w", clientID, err)
	}

	err = t.locker.WithLock(t.path, t.lockTimeout, func() error {
		records, err := codec.ReadFile(t.path, Columns)
		if err != nil {
			return err
		}
		records = append(records, codec.Record{
			"audit_id":         uuid.New().String(),
			"entry_id":         entryID,
			"client_id":        clientID,
			"changed_by":       changedBy,
			"change_timestamp": t.now().UTC().Format(timestampLayout),
			"old_values":       oldSnapshot,
			"new_values":       newSnapshot,
		})
		data, err := codec.Encode(Columns, records)
		if err != nil {
			return err
		}
		return fileio.WriteAtomic(t.path, data)
	})
	if err != nil {
		return fmt.Errorf("failed to append audit entry for client %s: %w", clientID, err)
	}

	t.logger.Info("appended audit entry",
		zap.String("client_id", clientID),
		zap.String("entry_id", entryID))
	return nil
}

// List returns every audit entry in file order.
func (t *Trail) List() ([]domain.AuditEntry, error) {
	records, err := codec.ReadFile(t.path, Columns)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.AuditEntry, 0, len(records))
	for _, record := range records {
		entry := domain.AuditEntry{
			AuditID:         record["audit_id"],
			EntryID:         record["entry_id"],
			ClientID:        record["client_id"],
			ChangedBy:       record["changed_by"],
			ChangeTimestamp: record["change_timestamp"],
		}
		// Tolerate malformed snapshots: the surrounding row is still a
		// useful audit fact.
		entry.OldValues, _ = decodeSnapshot(record["old_values"])
		entry.NewValues, _ = decodeSnapshot(record["new_values"])
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListByClient returns the audit entries for one client in file order.
func (t *Trail) ListByClient(clientID string) ([]domain.AuditEntry, error) {
	entries, err := t.List()
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.AuditEntry, 0)
	for _, entry := range entries {
		if entry.ClientID == clientID {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

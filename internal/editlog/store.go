// Package editlog persists the soft-versioned, append-only log of user
// edits. Entries are immutable once written; superseding an entry only
// flips its active flag from true to false, so among all entries for one
// client at most one is active at any time.
package editlog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/codec"
	"github.com/rpattn/reviewstore/internal/domain"
	"github.com/rpattn/reviewstore/internal/fileio"
)

// Columns is the edit log wire schema, in column order.
var Columns = []string{
	"entry_id",
	"client_id",
	"review_date",
	"layer_date",
	"comment",
	"test_date",
	"changed_by",
	"change_timestamp",
	"is_active",
	"previous_entry_id",
}

// DefaultLockTimeout bounds how long an append waits for the edit log
// lock before failing with domain.ErrLockTimeout.
const DefaultLockTimeout = 10 * time.Second

// timestampLayout is ISO-8601 UTC at second precision. Timestamps in
// this form sort lexicographically.
const timestampLayout = "2006-01-02T15:04:05Z"

// Result is what Append returns to the caller so it can drive the audit
// trail with the exact transition that was persisted.
type Result struct {
	EntryID   string
	OldValues domain.EditValues
	NewValues domain.EditValues
}

// Store is the edit log backed by one flat file. All methods are safe
// against concurrent callers in other processes: writes serialize on the
// file's cross-process lock and commit through atomic replacement.
type Store struct {
	path        string
	locker      fileio.Locker
	lockTimeout time.Duration
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLocker swaps the lock implementation.
func WithLocker(locker fileio.Locker) Option {
	return func(s *Store) { s.locker = locker }
}

// WithLockTimeout overrides the lock acquisition timeout.
func WithLockTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.lockTimeout = timeout
		}
	}
}

// WithClock injects the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an edit log store over the file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:        path,
		locker:      fileio.NewFileLocker(),
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file this store writes to.
func (s *Store) Path() string {
	return s.path
}

// EnsureFile creates an empty edit log with the expected header when the
// file does not exist yet.
func (s *Store) EnsureFile() error {
	entries, err := codec.ReadFile(s.path, Columns)
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
	return fileio.WriteAtomic(s.path, data)
}

// Append accepts a new edit for clientID under the edit log lock.
//
// The full log is read, every currently active entry for the client is
// flipped inactive (the most recent by timestamp is canonical for the
// old-values diff, in case prior corruption left more than one), and a
// fresh active entry referencing the superseded one is appended. The
// whole log is then rewritten atomically, so a failure at any point
// leaves the previous file content intact.
func (s *Store) Append(clientID, changedBy string, values domain.EditValues) (Result, error) {
	var result Result
	err := s.locker.WithLock(s.path, s.lockTimeout, func() error {
		records, err := codec.ReadFile(s.path, Columns)
		if err != nil {
			return err
		}

		var canonical codec.Record
		for _, record := range records {
			if record["client_id"] != clientID || !parseActive(record["is_active"]) {
				continue
			}
			if canonical == nil || record["change_timestamp"] > canonical["change_timestamp"] {
				canonical = record
			}
		}

		previousEntryID := ""
		oldValues := domain.EditValues{}
		if canonical != nil {
			previousEntryID = canonical["entry_id"]
			oldValues = domain.EditValues{
				ReviewDate: canonical["review_date"],
				LayerDate:  canonical["layer_date"],
				TestDate:   canonical["test_date"],
				Comment:    canonical["comment"],
			}
		}

		// Supersession is monotonic: active only ever flips to false.
		for _, record := range records {
			if record["client_id"] == clientID && parseActive(record["is_active"]) {
				record["is_active"] = "false"
			}
		}

		entryID := s.newID()
		records = append(records, codec.Record{
			"entry_id":          entryID,
			"client_id":         clientID,
			"review_date":       values.ReviewDate,
			"layer_date":        values.LayerDate,
			"comment":           values.Comment,
			"test_date":         values.TestDate,
			"changed_by":        changedBy,
			"change_timestamp":  s.now().UTC().Format(timestampLayout),
			"is_active":         "true",
			"previous_entry_id": previousEntryID,
		})

		data, err := codec.Encode(Columns, records)
		if err != nil {
			return err
		}
		if err := fileio.WriteAtomic(s.path, data); err != nil {
			return err
		}

		result = Result{EntryID: entryID, OldValues: oldValues, NewValues: values}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to append edit for client %s: %w", clientID, err)
	}

	s.logger.Info("appended edit",
		zap.String("client_id", clientID),
		zap.String("entry_id", result.EntryID),
		zap.String("changed_by", changedBy))
	return result, nil
}

// ActiveEntry returns the active edit for clientID, if any.
func (s *Store) ActiveEntry(clientID string) (domain.EditEntry, bool, error) {
	active, err := s.ActiveEntries()
	if err != nil {
		return domain.EditEntry{}, false, err
	}
	entry, ok := active[clientID]
	return entry, ok, nil
}

// ActiveEntries returns the active edit per client. When corruption left
// several active entries for one client, the latest by timestamp wins,
// matching the canonical choice Append makes.
func (s *Store) ActiveEntries() (map[string]domain.EditEntry, error) {
	records, err := codec.ReadFile(s.path, Columns)
	if err != nil {
		return nil, err
	}
	active := make(map[string]domain.EditEntry)
	for _, record := range records {
		if !parseActive(record["is_active"]) {
			continue
		}
		entry := entryFromRecord(record)
		current, seen := active[entry.ClientID]
		if !seen || entry.ChangeTimestamp > current.ChangeTimestamp {
			active[entry.ClientID] = entry
		}
	}
	return active, nil
}

// History returns every entry for clientID ordered by timestamp, oldest
// first.
func (s *Store) History(clientID string) ([]domain.EditEntry, error) {
	records, err := codec.ReadFile(s.path, Columns)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.EditEntry, 0)
	for _, record := range records {
		if record["client_id"] == clientID {
			entries = append(entries, entryFromRecord(record))
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangeTimestamp < entries[j].ChangeTimestamp
	})
	return entries, nil
}

func entryFromRecord(record codec.Record) domain.EditEntry {
	return domain.EditEntry{
		EntryID:  record["entry_id"],
		ClientID: record["client_id"],
		Values: domain.EditValues{
			ReviewDate: record["review_date"],
			LayerDate:  record["layer_date"],
			TestDate:   record["test_date"],
			Comment:    record["comment"],
		},
		ChangedBy:       record["changed_by"],
		ChangeTimestamp: record["change_timestamp"],
		IsActive:        parseActive(record["is_active"]),
		PreviousEntryID: record["previous_entry_id"],
	}
}

// parseActive interprets the serialized active flag. Accepted truthy
// forms are "true", "1", and "yes", case-insensitive.
func parseActive(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

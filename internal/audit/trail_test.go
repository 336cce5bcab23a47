package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpattn/reviewstore/internal/domain"
)

func newTestTrail(t *testing.T) *Trail {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit_log.csv")
	fixed := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return NewTrail(path, WithClock(func() time.Time { return fixed }))
}

func TestAppendRecordsTransition(t *testing.T) {
	trail := newTestTrail(t)
	oldValues := domain.EditValues{ReviewDate: "2023-01-01", Comment: "before"}
	newValues := domain.EditValues{ReviewDate: "2024-01-01", Comment: "after"}

	require.NoError(t, trail.Append("e1", "c1", "alice", oldValues, newValues))

	entries, err := trail.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotEmpty(t, entries[0].AuditID)
	require.Equal(t, "e1", entries[0].EntryID)
	require.Equal(t, "c1", entries[0].ClientID)
	require.Equal(t, "alice", entries[0].ChangedBy)
	require.Equal(t, "2024-03-01T12:00:00Z", entries[0].ChangeTimestamp)
	require.Equal(t, oldValues, entries[0].OldValues)
	require.Equal(t, newValues, entries[0].NewValues)
}

func TestAppendEmptyOldSnapshotForFirstEdit(t *testing.T) {
	trail := newTestTrail(t)

	require.NoError(t, trail.Append("e1", "c1", "alice", domain.EditValues{}, domain.EditValues{Comment: "first"}))

	entries, err := trail.List()
	require.NoError(t, err)
	require.Equal(t, domain.EditValues{}, entries[0].OldValues)
	require.Equal(t, "first", entries[0].NewValues.Comment)
}

func TestAppendIsPureAppend(t *testing.T) {
	trail := newTestTrail(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, trail.Append("e1", "c1", "alice", domain.EditValues{}, domain.EditValues{}))
	}

	entries, err := trail.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestListByClient(t *testing.T) {
	trail := newTestTrail(t)
	require.NoError(t, trail.Append("e1", "c1", "alice", domain.EditValues{}, domain.EditValues{}))
	require.NoError(t, trail.Append("e2", "c2", "bob", domain.EditValues{}, domain.EditValues{}))
	require.NoError(t, trail.Append("e3", "c1", "alice", domain.EditValues{}, domain.EditValues{}))

	entries, err := trail.ListByClient("c1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "e1", entries[0].EntryID)
	require.Equal(t, "e3", entries[1].EntryID)
}

func TestSnapshotsAreASCIISafe(t *testing.T) {
	trail := newTestTrail(t)
	values := domain.EditValues{Comment: "süß 日本語"}

	require.NoError(t, trail.Append("e1", "c1", "alice", domain.EditValues{}, values))

	raw, err := os.ReadFile(trail.Path())
	require.NoError(t, err)
	for _, b := range raw {
		require.LessOrEqual(t, b, byte(0x7F), "audit file must be pure ASCII")
	}

	entries, err := trail.List()
	require.NoError(t, err)
	require.Equal(t, "süß 日本語", entries[0].NewValues.Comment)
}

func TestSnapshotRoundTrip(t *testing.T) {
	values := domain.EditValues{
		ReviewDate: "2024-01-15",
		LayerDate:  "2024-02-01",
		TestDate:   "2024-03-05",
		Comment:    `quote " comma , newline`,
	}
	encoded, err := encodeSnapshot(values)
	require.NoError(t, err)
	decoded, err := decodeSnapshot(encoded)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestDecodeSnapshotEmpty(t *testing.T) {
	decoded, err := decodeSnapshot("")
	require.NoError(t, err)
	require.Equal(t, domain.EditValues{}, decoded)
}

func TestEnsureFileWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_log.csv")
	trail := NewTrail(path)

	require.NoError(t, trail.EnsureFile())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Join(Columns, ",")+"\n", string(data))
}

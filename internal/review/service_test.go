package review

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/audit"
	"github.com/rpattn/reviewstore/internal/catalog"
	"github.com/rpattn/reviewstore/internal/domain"
	"github.com/rpattn/reviewstore/internal/editlog"
)

const catalogContent = "client_id,tag,region,region1,region2,pod,CA,RM,review_cawb,SG,layer\n" +
	"c1,G,EMEA,UK,London,p1,alice,rob,2024-01-10,sg1,l1\n" +
	"c2,U,APAC,JP,Tokyo,p2,bob,sue,,sg2,l2\n" +
	"c2,U,APAC,JP,Osaka,p2,bob,sue,,sg2,l2\n" +
	"c3,X,EMEA,DE,Berlin,p3,carol,tim,2024-02-01,sg3,l3\n"

func newTestService(t *testing.T) (*Service, *editlog.Store, *audit.Trail) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "clients.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogContent), 0o644))

	now := func() time.Time {
		return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	}
	edits := editlog.NewStore(filepath.Join(dir, "user_inputs.csv"))
	audits := audit.NewTrail(filepath.Join(dir, "audit_log.csv"))
	loader := catalog.NewLoader([]string{"G", "U", "P"}, zap.NewNop())
	minDate := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	validator := NewValidator(minDate, true, now)

	service := NewService(catalogPath, loader, edits, audits, validator, DefaultOverdueMonths, now, zap.NewNop())
	require.NoError(t, service.EnsureDataFiles())
	return service, edits, audits
}

func TestMergedViewJoinsCatalogAndEdits(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.ApplyEdit("c1", "alice", EditPayload{ReviewDate: "2024-05-01", Comment: "done"})
	require.NoError(t, err)

	rows, err := service.MergedView()
	require.NoError(t, err)
	// c3 is dropped by the tag allow-set; c2's duplicates collapse.
	require.Len(t, rows, 2)
	require.Equal(t, "c1", rows[0].ClientID)
	require.Equal(t, "2024-05-01", rows[0].ReviewDate)
	require.Equal(t, domain.StatusActive, rows[0].Status)
	require.Equal(t, "c2", rows[1].ClientID)
	require.Equal(t, "Osaka", rows[1].Region2)
	require.Equal(t, domain.StatusMissing, rows[1].Status)
}

func TestApplyEditWritesEditLogAndAudit(t *testing.T) {
	service, edits, audits := newTestService(t)

	entryID, err := service.ApplyEdit("c1", "alice", EditPayload{ReviewDate: "2024-05-01"})
	require.NoError(t, err)
	require.NotEmpty(t, entryID)

	entry, ok, err := edits.ActiveEntry("c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entryID, entry.EntryID)

	auditEntries, err := audits.List()
	require.NoError(t, err)
	require.Len(t, auditEntries, 1)
	require.Equal(t, entryID, auditEntries[0].EntryID)
	require.Equal(t, domain.EditValues{}, auditEntries[0].OldValues)
	require.Equal(t, "2024-05-01", auditEntries[0].NewValues.ReviewDate)
}

func TestApplyEditAuditsOldValuesOnSupersession(t *testing.T) {
	service, _, audits := newTestService(t)

	_, err := service.ApplyEdit("c1", "alice", EditPayload{ReviewDate: "2024-01-01", Comment: "first"})
	require.NoError(t, err)
	_, err = service.ApplyEdit("c1", "bob", EditPayload{ReviewDate: "2024-05-01"})
	require.NoError(t, err)

	auditEntries, err := audits.List()
	require.NoError(t, err)
	require.Len(t, auditEntries, 2)
	require.Equal(t, "2024-01-01", auditEntries[1].OldValues.ReviewDate)
	require.Equal(t, "first", auditEntries[1].OldValues.Comment)
	require.Equal(t, "2024-05-01", auditEntries[1].NewValues.ReviewDate)
}

// A rejected edit must leave both files untouched.
func TestApplyEditRejectionWritesNothing(t *testing.T) {
	service, edits, audits := newTestService(t)

	_, err := service.ApplyEdit("c1", "alice", EditPayload{ReviewDate: "2000-01-01"})
	verr, ok := domain.AsValidationError(err)
	require.True(t, ok)
	require.Equal(t, "review_date", verr.Field)

	_, err = service.ApplyEdit("c1", "alice", EditPayload{TestDate: "tomorrow"})
	require.Error(t, err)

	history, err := edits.History("c1")
	require.NoError(t, err)
	require.Empty(t, history)

	auditEntries, err := audits.List()
	require.NoError(t, err)
	require.Empty(t, auditEntries)
}

func TestBulkApplyEdit(t *testing.T) {
	service, edits, audits := newTestService(t)

	results, err := service.BulkApplyEdit([]string{"c1", "c2"}, "alice", EditPayload{
		LayerDate: "2024-04",
		Comment:   "bulk update",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		require.NoError(t, result.Err)
		require.NotEmpty(t, result.EntryID)
	}

	for _, clientID := range []string{"c1", "c2"} {
		entry, ok, err := edits.ActiveEntry(clientID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "2024-04-01", entry.Values.LayerDate)
		require.Equal(t, "bulk update", entry.Values.Comment)
	}

	auditEntries, err := audits.List()
	require.NoError(t, err)
	require.Len(t, auditEntries, 2)
}

func TestBulkApplyEditValidationRejectsWholeBatch(t *testing.T) {
	service, edits, _ := newTestService(t)

	_, err := service.BulkApplyEdit([]string{"c1", "c2"}, "alice", EditPayload{ReviewDate: "bad"})
	require.Error(t, err)

	for _, clientID := range []string{"c1", "c2"} {
		history, err := edits.History(clientID)
		require.NoError(t, err)
		require.Empty(t, history)
	}
}

func TestMergedViewFailsWithoutCatalog(t *testing.T) {
	dir := t.TempDir()
	now := time.Now
	edits := editlog.NewStore(filepath.Join(dir, "user_inputs.csv"))
	audits := audit.NewTrail(filepath.Join(dir, "audit_log.csv"))
	loader := catalog.NewLoader([]string{"G"}, zap.NewNop())
	validator := NewValidator(time.Time{}, true, now)
	service := NewService(filepath.Join(dir, "clients.csv"), loader, edits, audits, validator, DefaultOverdueMonths, now, zap.NewNop())

	_, err := service.MergedView()
	require.ErrorIs(t, err, domain.ErrCatalogMissing)
}

func TestHistoryAndAuditLogReaders(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.ApplyEdit("c1", "alice", EditPayload{Comment: "one"})
	require.NoError(t, err)
	_, err = service.ApplyEdit("c1", "alice", EditPayload{Comment: "two"})
	require.NoError(t, err)
	_, err = service.ApplyEdit("c2", "bob", EditPayload{Comment: "other"})
	require.NoError(t, err)

	history, err := service.History("c1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	all, err := service.AuditLog("")
	require.NoError(t, err)
	require.Len(t, all, 3)

	filtered, err := service.AuditLog("c2")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "other", filtered[0].NewValues.Comment)
}

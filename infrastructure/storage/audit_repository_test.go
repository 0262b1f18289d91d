package storage

import (
	"context"
	"log/slog"
	"testing"
	"time"
	"vision-pilot/domain"
	"vision-pilot/domain/event"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func newAuditRepository(t *testing.T) (*AuditRepository, *badger.DB) {
	t.Helper()
	db, err := OpenAuditDB("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewAuditRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug), 0), db
}

func TestAuditRepository_SaveAndListRecent(t *testing.T) {
	req := require.New(t)
	repo, _ := newAuditRepository(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Given two decisions and one analysis
	req.NoError(repo.SaveDecision(event.SafetyDecision{
		ActionID: "a1", Command: "click ok", Status: domain.APPROVED, Risk: domain.LOW,
	}, base))
	req.NoError(repo.SaveDecision(event.SafetyDecision{
		ActionID: "a2", Command: "delete everything", Status: domain.BLOCKED, Risk: domain.CRITICAL, Reason: "blocked keyword",
	}, base.Add(time.Second)))
	req.NoError(repo.SaveAnalysis(event.AnalysisOutcome{
		ResultID: "r1", Command: "click ok", Mode: domain.FALLBACK, Targets: 2, Confidence: 0.4, Duration: 1500 * time.Millisecond,
	}, base.Add(2*time.Second)))

	// When listing decisions
	decisions, err := repo.ListRecent(PrefixDecision, 10)

	// Then the newest comes first
	req.NoError(err)
	req.Len(decisions, 2)
	req.Equal("decision", decisions[0].Kind)
	req.Equal("a2", decisions[0].Fields["action_id"])
	req.Equal("CRITICAL", decisions[0].Fields["risk"])
	req.Equal(base.Add(time.Second), decisions[0].CreatedAt)
	req.Equal("a1", decisions[1].Fields["action_id"])

	analyses, err := repo.ListRecent(PrefixAnalysis, 10)
	req.NoError(err)
	req.Len(analyses, 1)
	req.Equal("fallback", analyses[0].Fields["mode"])
	req.Equal(float64(2), analyses[0].Fields["targets"])
	req.Equal(float64(1500), analyses[0].Fields["duration_ms"])

	// An empty prefix scans every kind, the limit applies
	all, err := repo.ListRecent("", 2)
	req.NoError(err)
	req.Len(all, 2)
	req.Equal("a2", all[0].Fields["action_id"])
}

func TestAuditRepository_SkipsUnreadableRecords(t *testing.T) {
	req := require.New(t)
	repo, db := newAuditRepository(t)

	req.NoError(repo.SaveDecision(event.SafetyDecision{ActionID: "a1"}, time.Now()))
	valid, err := proto.Marshal(&structpb.Struct{})
	req.NoError(err)
	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(PrefixDecision+"not-a-time"), valid); err != nil {
			return err
		}
		return txn.Set([]byte(PrefixDecision+"00000000000000000001:x"), []byte{0xFF, 0x01})
	}))

	records, err := repo.ListRecent(PrefixDecision, 0)

	req.NoError(err)
	req.Len(records, 1)
	req.Equal("a1", records[0].Fields["action_id"])
}

func TestAuditRepository_Search(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := OpenAuditDB("")
	req.NoError(err)
	defer db.Close()
	writer, err := OpenAuditIndex("")
	req.NoError(err)
	defer writer.Close()
	repo := NewAuditRepository(db, log, 0, WithIndex(NewAuditIndex(writer, log)))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Given two decisions and one analysis
	req.NoError(repo.SaveDecision(event.SafetyDecision{
		ActionID: "a1", Command: "click ok", Status: domain.APPROVED, Risk: domain.LOW,
	}, base))
	req.NoError(repo.SaveDecision(event.SafetyDecision{
		ActionID: "a2", Command: "delete everything", Status: domain.BLOCKED, Risk: domain.CRITICAL, Reason: "blocked keyword",
	}, base.Add(time.Second)))
	req.NoError(repo.SaveAnalysis(event.AnalysisOutcome{
		ResultID: "r1", Command: "click ok", Mode: domain.FULL,
	}, base.Add(2*time.Second)))

	// When searching a word of the command, case does not matter
	records, err := repo.Search(ctx, "DELETE", "", 10)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal("a2", records[0].Fields["action_id"])

	// Then the kind narrows the hits
	records, err = repo.Search(ctx, "click", "", 10)
	req.NoError(err)
	req.Len(records, 2)
	records, err = repo.Search(ctx, "click", "analysis", 10)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal("r1", records[0].Fields["result_id"])

	// The reason is searchable too
	records, err = repo.Search(ctx, "keyword", "decision", 10)
	req.NoError(err)
	req.Len(records, 1)

	records, err = repo.Search(ctx, "scroll", "", 10)
	req.NoError(err)
	req.Empty(records)
}

func TestAuditRepository_SearchWithoutIndex(t *testing.T) {
	req := require.New(t)
	repo, _ := newAuditRepository(t)

	_, err := repo.Search(context.Background(), "click", "", 10)
	req.Error(err)
}

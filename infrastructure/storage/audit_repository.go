package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"vision-pilot/contract"
	"vision-pilot/domain/event"
	"vision-pilot/errors"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	PrefixAudit    = "audit:"
	PrefixDecision = "audit:decision:"
	PrefixAnalysis = "audit:analysis:"
)

var (
	_ contract.AuditRepository = (*AuditRepository)(nil)
	_ contract.AuditSearcher   = (*AuditRepository)(nil)
)

// AuditRepository appends safety decisions and analysis outcomes to badger.
// Keys are "audit:<kind>:<unix nano>:<id>" so a prefix scan is time ordered.
type AuditRepository struct {
	db        *badger.DB
	log       *slog.Logger
	retention time.Duration
	index     *AuditIndex
}

type AuditOption func(*AuditRepository)

// WithIndex makes saved records searchable.
func WithIndex(index *AuditIndex) AuditOption {
	return func(a *AuditRepository) { a.index = index }
}

// OpenAuditDB opens the audit store at path, in memory when path is empty.
func OpenAuditDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening audit store: %w", err)
	}
	return db, nil
}

// NewAuditRepository keeps records forever when retention is zero.
func NewAuditRepository(db *badger.DB, log *slog.Logger, retention time.Duration, opts ...AuditOption) *AuditRepository {
	a := &AuditRepository{db: db, log: log, retention: retention}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AuditRepository) SaveDecision(decision event.SafetyDecision, at time.Time) error {
	key, err := a.save(PrefixDecision, decision.ActionID, at, map[string]any{
		"action_id":       decision.ActionID,
		"command":         decision.Command,
		"status":          string(decision.Status),
		"risk":            decision.Risk.String(),
		"reason":          decision.Reason,
		"confirmation_id": decision.ConfirmationID,
		"expires_in_ms":   float64(decision.ExpiresIn.Milliseconds()),
	})
	if err != nil {
		return err
	}
	a.indexRecord(key, "decision", decision.Command, string(decision.Status), decision.Risk.String(), decision.Reason)
	return nil
}

func (a *AuditRepository) SaveAnalysis(outcome event.AnalysisOutcome, at time.Time) error {
	key, err := a.save(PrefixAnalysis, outcome.ResultID, at, map[string]any{
		"result_id":   outcome.ResultID,
		"command":     outcome.Command,
		"mode":        string(outcome.Mode),
		"targets":     float64(outcome.Targets),
		"confidence":  outcome.Confidence,
		"duration_ms": float64(outcome.Duration.Milliseconds()),
		"cache_hit":   outcome.CacheHit,
		"stage":       string(outcome.Stage),
		"reason":      outcome.Reason,
	})
	if err != nil {
		return err
	}
	a.indexRecord(key, "analysis", outcome.Command, string(outcome.Mode), string(outcome.Stage), outcome.Reason)
	return nil
}

// The record is already stored, a failed index write only costs searchability.
func (a *AuditRepository) indexRecord(key, kind string, parts ...string) {
	if a.index == nil {
		return
	}
	if err := a.index.Index(key, kind, parts...); err != nil {
		a.log.Warn("Audit index write failed", "key", key, "error", err)
	}
}

func (a *AuditRepository) save(prefix, id string, at time.Time, fields map[string]any) (string, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}
	data, err := proto.Marshal(s)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s%020d:%s", prefix, at.UnixNano(), id)
	return key, a.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data)
		if a.retention > 0 {
			entry = entry.WithTTL(a.retention)
		}
		return txn.SetEntry(entry)
	})
}

// Search returns the records whose command or reason match query, best match
// first. kind is "decision", "analysis" or empty for both. Records that
// expired from badger are dropped.
func (a *AuditRepository) Search(ctx context.Context, query, kind string, limit int) ([]contract.AuditRecord, error) {
	if a.index == nil {
		return nil, fmt.Errorf("audit search is not enabled")
	}
	keys, err := a.index.Search(ctx, query, kind, limit)
	if err != nil {
		return nil, err
	}
	var records []contract.AuditRecord
	err = a.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				record, err := toRecord(key, val)
				if err != nil {
					a.log.Debug("Skipping unreadable audit record", "key", key, "error", err)
					return nil
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// ListRecent returns at most limit records under prefix, newest first.
func (a *AuditRepository) ListRecent(prefix string, limit int) ([]contract.AuditRecord, error) {
	if prefix == "" {
		prefix = PrefixAudit
	}
	var records []contract.AuditRecord
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts from the last key sharing the prefix
		seek := append([]byte(prefix), bytes.Repeat([]byte{0xFF}, 8)...)
		for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if limit > 0 && len(records) == limit {
				break
			}
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				record, err := toRecord(key, val)
				if err != nil {
					a.log.Debug("Skipping unreadable audit record", "key", key, "error", err)
					return nil
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

func toRecord(key string, val []byte) (contract.AuditRecord, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(val, &s); err != nil {
		return contract.AuditRecord{}, err
	}
	parts := strings.SplitN(strings.TrimPrefix(key, PrefixAudit), ":", 3)
	if len(parts) != 3 {
		return contract.AuditRecord{}, fmt.Errorf("malformed audit key %q", key)
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return contract.AuditRecord{}, fmt.Errorf("malformed audit key %q: %w", key, err)
	}
	return contract.AuditRecord{
		Key:       key,
		Kind:      parts[0],
		CreatedAt: time.Unix(0, nanos).UTC(),
		Fields:    s.AsMap(),
	}, nil
}

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
)

const (
	fieldText = "text"
	fieldKind = "kind"
)

// AuditIndex is a full-text index over audit records. Document ids are the
// badger keys, the records themselves stay in badger.
type AuditIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// OpenAuditIndex opens the index at path, in memory when path is empty.
func OpenAuditIndex(path string) (*bluge.Writer, error) {
	cfg := bluge.InMemoryOnlyConfig()
	if path != "" {
		cfg = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening audit index: %w", err)
	}
	return writer, nil
}

func NewAuditIndex(writer *bluge.Writer, log *slog.Logger) *AuditIndex {
	return &AuditIndex{writer: writer, log: log}
}

// Index makes the non-empty parts searchable under key.
func (i *AuditIndex) Index(key, kind string, parts ...string) error {
	var text []string
	for _, p := range parts {
		if p != "" {
			text = append(text, p)
		}
	}
	doc := bluge.NewDocument(key).
		AddField(bluge.NewTextField(fieldText, strings.Join(text, " "))).
		AddField(bluge.NewKeywordField(fieldKind, kind).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the keys matching query, best match first. An empty kind
// searches every kind.
func (i *AuditIndex) Search(ctx context.Context, query, kind string, limit int) ([]string, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().AddMust(bluge.NewMatchQuery(strings.ToLower(query)).SetField(fieldText))
	if kind != "" {
		q.AddMust(bluge.NewTermQuery(kind).SetField(fieldKind))
	}
	it, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var keys []string
	match, err := it.Next()
	for err == nil && match != nil {
		verr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				keys = append(keys, string(value))
				return false
			}
			return true
		})
		if verr != nil {
			return nil, verr
		}
		match, err = it.Next()
	}
	if err != nil {
		return nil, err
	}
	i.log.Debug("Audit search", "query", query, "kind", kind, "hits", len(keys))
	return keys, nil
}

// Package postgres implements the word-index store on PostgreSQL. Entries
// live in a single table keyed by word with a text[] documents column;
// appends are a single conditional UPDATE so they stay atomic under
// concurrent writers.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/femitubosun/codygo-task/internal/index"
	"github.com/femitubosun/codygo-task/pkg/postgres"
)

// Schema is the DDL for the index table. Applied out of band (migrations
// are not managed by the service).
const Schema = `
CREATE TABLE IF NOT EXISTS index_entries (
    word      TEXT PRIMARY KEY,
    documents TEXT[] NOT NULL
);`

// Store implements index.Store on PostgreSQL.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore creates a Store on the given client.
func NewStore(client *postgres.Client) *Store {
	return &Store{
		db:     client.DB,
		logger: slog.Default().With("component", "postgres-index-store"),
	}
}

func (s *Store) GetEntry(ctx context.Context, word string) (*index.Entry, error) {
	var docs pq.StringArray
	err := s.db.QueryRowContext(ctx,
		`SELECT documents FROM index_entries WHERE word = $1`,
		word,
	).Scan(&docs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry for %q: %w", word, err)
	}
	return &index.Entry{Word: word, Documents: docs}, nil
}

// AppendDocument appends in a single UPDATE; the WHERE clause keeps the
// operation idempotent even if two writers race on the same (word, document)
// pair.
func (s *Store) AppendDocument(ctx context.Context, word, document string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE index_entries
		    SET documents = array_append(documents, $2)
		  WHERE word = $1 AND NOT $2 = ANY(documents)`,
		word, document,
	)
	if err != nil {
		return fmt.Errorf("appending %q to %q: %w", document, word, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		// Entry missing, or the document was already present (lost race).
		s.logger.Debug("append was a no-op", "word", word, "document", document)
	}
	return nil
}

// CreateEntries inserts new entries in chunks of index.CreateBatchSize using
// one multi-row INSERT per chunk. ON CONFLICT DO NOTHING makes re-creation
// of an existing word harmless. A failing chunk is logged and skipped.
func (s *Store) CreateEntries(ctx context.Context, entries []index.NewEntry) error {
	for _, chunk := range index.Chunk(entries, index.CreateBatchSize) {
		query, args := buildInsert(chunk)
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			s.logger.Error("batch create failed, skipping chunk",
				"chunk_size", len(chunk),
				"error", err,
			)
			continue
		}
	}
	return nil
}

func buildInsert(chunk []index.NewEntry) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO index_entries (word, documents) VALUES `)
	args := make([]any, 0, len(chunk)*2)
	for i, e := range chunk {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, ARRAY[$%d])", i*2+1, i*2+2)
		args = append(args, e.Word, e.Document)
	}
	sb.WriteString(` ON CONFLICT (word) DO NOTHING`)
	return sb.String(), args
}

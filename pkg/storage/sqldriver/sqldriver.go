// Package sqldriver implements the shared SQL persistence logic used by
// the sqlite and postgres storage backends. The two differ only in driver
// registration, placeholder style, and schema DDL.
package sqldriver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/storage"
)

// Dialect selects placeholder rendering for the underlying driver.
type Dialect int

const (
	// SQLite uses ? placeholders.
	SQLite Dialect = iota
	// Postgres uses $1..$n placeholders.
	Postgres
)

// Store implements storage.Driver over a database/sql handle.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

// rebind rewrites ? placeholders into the dialect's style.
func (s *Store) rebind(query string) string {
	if s.Dialect == SQLite {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveDocument upserts a document row.
func (s *Store) SaveDocument(ctx context.Context, doc *analysis.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("document with ID is required")
	}

	query := s.rebind(`
		INSERT INTO documents (id, thinker, title, source_file, content, word_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			thinker = excluded.thinker,
			title = excluded.title,
			source_file = excluded.source_file,
			content = excluded.content,
			word_count = excluded.word_count`)

	_, err := s.DB.ExecContext(ctx, query,
		doc.ID, doc.Thinker, doc.Title, doc.SourceFile, doc.Content, doc.WordCount, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument fetches a document row by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*analysis.Document, error) {
	query := s.rebind(`
		SELECT id, thinker, title, source_file, content, word_count, created_at
		FROM documents WHERE id = ?`)

	doc := &analysis.Document{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.Thinker, &doc.Title, &doc.SourceFile, &doc.Content, &doc.WordCount, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("fetching document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]*analysis.Document, error) {
	query := `
		SELECT id, thinker, title, source_file, content, word_count, created_at
		FROM documents ORDER BY created_at DESC, id`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*analysis.Document
	for rows.Next() {
		doc := &analysis.Document{}
		if err := rows.Scan(&doc.ID, &doc.Thinker, &doc.Title, &doc.SourceFile,
			&doc.Content, &doc.WordCount, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SavePositions inserts position rows in one transaction.
func (s *Store) SavePositions(ctx context.Context, positions []analysis.Position) error {
	return s.insertAll(ctx, len(positions),
		`INSERT INTO positions (thinker, position_text, topic) VALUES (?, ?, ?)`,
		func(i int) []any {
			p := positions[i]
			return []any{p.Thinker, p.Text, p.Topic}
		})
}

// SaveQuotes inserts quote rows in one transaction.
func (s *Store) SaveQuotes(ctx context.Context, quotes []analysis.Quote) error {
	return s.insertAll(ctx, len(quotes),
		`INSERT INTO quotes (thinker, quote_text, topic) VALUES (?, ?, ?)`,
		func(i int) []any {
			q := quotes[i]
			return []any{q.Thinker, q.Text, q.Topic}
		})
}

// SaveArguments inserts argument rows in one transaction. Premises are
// stored JSON-encoded, matching the corpus schema.
func (s *Store) SaveArguments(ctx context.Context, arguments []analysis.Argument) error {
	return s.insertAll(ctx, len(arguments),
		`INSERT INTO arguments (thinker, argument_type, premises, conclusion, topic, importance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		func(i int) []any {
			a := arguments[i]
			premises, _ := json.Marshal(a.Premises)
			return []any{a.Thinker, a.Type, string(premises), a.Conclusion, a.Topic, a.Importance}
		})
}

// SaveChunks inserts chunk rows in one transaction.
func (s *Store) SaveChunks(ctx context.Context, chunks []analysis.Chunk) error {
	return s.insertAll(ctx, len(chunks),
		`INSERT INTO text_chunks (thinker, source_file, chunk_text, chunk_index) VALUES (?, ?, ?, ?)`,
		func(i int) []any {
			c := chunks[i]
			return []any{c.Thinker, c.SourceFile, c.Text, c.Index}
		})
}

// SaveQAs inserts question/answer rows in one transaction.
func (s *Store) SaveQAs(ctx context.Context, qas []analysis.QA) error {
	return s.insertAll(ctx, len(qas),
		`INSERT INTO qas (thinker, question, answer, topic) VALUES (?, ?, ?, ?)`,
		func(i int) []any {
			q := qas[i]
			return []any{q.Thinker, q.Question, q.Answer, q.Topic}
		})
}

// SaveTrends inserts trend rows in one transaction.
func (s *Store) SaveTrends(ctx context.Context, trends []analysis.Trend) error {
	return s.insertAll(ctx, len(trends),
		`INSERT INTO trends (thinker, theme, mentions) VALUES (?, ?, ?)`,
		func(i int) []any {
			t := trends[i]
			return []any{t.Thinker, t.Theme, t.Mentions}
		})
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.DB.Close()
}

// insertAll runs the same insert for n rows inside a transaction, rolling
// back on the first failure.
func (s *Store) insertAll(ctx context.Context, n int, query string, args func(int) []any) error {
	if n == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(query))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range n {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	return nil
}

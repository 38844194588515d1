// Package inmemory provides a map-backed storage driver for tests and
// ephemeral runs.
package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/storage"
)

// Driver implements storage.Driver using in-memory maps and slices.
type Driver struct {
	// mu guards every collection below.
	mu sync.RWMutex

	documents map[string]*analysis.Document
	positions []analysis.Position
	quotes    []analysis.Quote
	arguments []analysis.Argument
	chunks    []analysis.Chunk
	qas       []analysis.QA
	trends    []analysis.Trend
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		documents: make(map[string]*analysis.Document),
	}
}

// SaveDocument stores a document, overwriting any existing entry with the
// same ID.
func (d *Driver) SaveDocument(_ context.Context, doc *analysis.Document) error {
	if doc == nil {
		return errors.New("cannot store nil document")
	}
	if doc.ID == "" {
		return errors.New("document ID is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.documents[doc.ID] = doc
	return nil
}

// GetDocument retrieves a document by ID.
func (d *Driver) GetDocument(_ context.Context, id string) (*analysis.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	doc, ok := d.documents[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}

	return doc, nil
}

// ListDocuments returns all documents, newest first.
func (d *Driver) ListDocuments(_ context.Context) ([]*analysis.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	docs := make([]*analysis.Document, 0, len(d.documents))
	for _, doc := range d.documents {
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})

	return docs, nil
}

// SavePositions appends position records.
func (d *Driver) SavePositions(_ context.Context, positions []analysis.Position) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.positions = append(d.positions, positions...)
	return nil
}

// SaveQuotes appends quote records.
func (d *Driver) SaveQuotes(_ context.Context, quotes []analysis.Quote) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.quotes = append(d.quotes, quotes...)
	return nil
}

// SaveArguments appends argument records.
func (d *Driver) SaveArguments(_ context.Context, arguments []analysis.Argument) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.arguments = append(d.arguments, arguments...)
	return nil
}

// SaveChunks appends chunk records.
func (d *Driver) SaveChunks(_ context.Context, chunks []analysis.Chunk) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.chunks = append(d.chunks, chunks...)
	return nil
}

// SaveQAs appends question/answer records.
func (d *Driver) SaveQAs(_ context.Context, qas []analysis.QA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.qas = append(d.qas, qas...)
	return nil
}

// SaveTrends appends trend records.
func (d *Driver) SaveTrends(_ context.Context, trends []analysis.Trend) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.trends = append(d.trends, trends...)
	return nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

// Counts returns the number of stored records per collection. Used by
// tests and the ingest summary.
func (d *Driver) Counts() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]int{
		"documents": len(d.documents),
		"positions": len(d.positions),
		"quotes":    len(d.quotes),
		"arguments": len(d.arguments),
		"chunks":    len(d.chunks),
		"qas":       len(d.qas),
		"trends":    len(d.trends),
	}
}

// Positions returns a copy of the stored positions.
func (d *Driver) Positions() []analysis.Position {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]analysis.Position(nil), d.positions...)
}

// Arguments returns a copy of the stored arguments.
func (d *Driver) Arguments() []analysis.Argument {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]analysis.Argument(nil), d.arguments...)
}

// Chunks returns a copy of the stored chunks.
func (d *Driver) Chunks() []analysis.Chunk {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]analysis.Chunk(nil), d.chunks...)
}

// Quotes returns a copy of the stored quotes.
func (d *Driver) Quotes() []analysis.Quote {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]analysis.Quote(nil), d.quotes...)
}

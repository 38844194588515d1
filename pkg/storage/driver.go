// Package storage defines the persistence interface for the corpus system.
// Backends live in subpackages: inmemory for tests and ephemeral runs,
// sqlite for single-node deployments, postgres for the shared corpus
// database.
package storage

import (
	"context"

	"github.com/thinkhaus/corpus/pkg/analysis"
)

// Driver persists and retrieves corpus material. All methods are safe for
// concurrent use.
type Driver interface {
	// SaveDocument stores a document. Saving an existing ID overwrites it.
	SaveDocument(ctx context.Context, doc *analysis.Document) error

	// GetDocument retrieves a document by ID. Returns NotFoundError when
	// no such document exists.
	GetDocument(ctx context.Context, id string) (*analysis.Document, error)

	// ListDocuments returns all stored documents, newest first.
	ListDocuments(ctx context.Context) ([]*analysis.Document, error)

	// SavePositions appends position records.
	SavePositions(ctx context.Context, positions []analysis.Position) error

	// SaveQuotes appends quote records.
	SaveQuotes(ctx context.Context, quotes []analysis.Quote) error

	// SaveArguments appends argument records.
	SaveArguments(ctx context.Context, arguments []analysis.Argument) error

	// SaveChunks appends text chunk records.
	SaveChunks(ctx context.Context, chunks []analysis.Chunk) error

	// SaveQAs appends question/answer records.
	SaveQAs(ctx context.Context, qas []analysis.QA) error

	// SaveTrends appends trend records.
	SaveTrends(ctx context.Context, trends []analysis.Trend) error

	// Close closes the store and releases any resources.
	Close() error
}

// SaveResult persists every collection of an analysis result through the
// driver, the document first.
func SaveResult(ctx context.Context, d Driver, result *analysis.Result) error {
	if err := d.SaveDocument(ctx, result.Document); err != nil {
		return err
	}
	if err := d.SavePositions(ctx, result.Positions); err != nil {
		return err
	}
	if err := d.SaveQuotes(ctx, result.Quotes); err != nil {
		return err
	}
	if err := d.SaveArguments(ctx, result.Arguments); err != nil {
		return err
	}
	if err := d.SaveQAs(ctx, result.QAs); err != nil {
		return err
	}
	if err := d.SaveTrends(ctx, result.Trends); err != nil {
		return err
	}

	chunks := analysis.BuildChunks(
		result.Document.Thinker,
		result.Document.SourceFile,
		result.Document.Content,
	)
	return d.SaveChunks(ctx, chunks)
}

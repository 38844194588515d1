// Package ingest processes corpus drop-folder files. File names carry the
// routing: author_positions_n.txt, author_quotes_n.txt, author_works_n.txt,
// author_arguments_n.txt; anything else with an author prefix is chunked
// for retrieval.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/storage"
)

// FileType classifies a drop-folder file by its name.
type FileType string

const (
	FileTypePositions FileType = "positions"
	FileTypeQuotes    FileType = "quotes"
	FileTypeWorks     FileType = "works"
	FileTypeArguments FileType = "arguments"
	FileTypeChunks    FileType = "chunks"
)

// FileTypeFor routes a file name to its ingestion handler. Files without a
// recognized marker fall through to chunking.
func FileTypeFor(fileName string) FileType {
	lower := strings.ToLower(fileName)
	switch {
	case strings.Contains(lower, "_positions_"):
		return FileTypePositions
	case strings.Contains(lower, "_quotes_"):
		return FileTypeQuotes
	case strings.Contains(lower, "_works_"):
		return FileTypeWorks
	case strings.Contains(lower, "_arguments_"):
		return FileTypeArguments
	default:
		return FileTypeChunks
	}
}

// ParseThinker extracts the lowercased author prefix from a file name like
// "freud_quotes_8.txt".
func ParseThinker(fileName string) (string, error) {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	thinker, _, found := strings.Cut(name, "_")
	if !found {
		return "", fmt.Errorf("invalid file name %q: expected AUTHOR_title format", fileName)
	}
	return strings.ToLower(thinker), nil
}

// Config configures an Ingestor.
type Config struct {
	// Driver is the storage backend ingested material is written to.
	Driver storage.Driver

	// RemoveAfterIngest deletes files once their content is stored.
	RemoveAfterIngest bool

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Ingestor reads drop-folder files into the corpus store.
type Ingestor struct {
	driver      storage.Driver
	removeAfter bool
	logger      *zap.Logger
}

// NewIngestor creates an Ingestor. A nil logger disables logging.
func NewIngestor(c Config) *Ingestor {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		driver:      c.Driver,
		removeAfter: c.RemoveAfterIngest,
		logger:      logger,
	}
}

// IngestFolder processes every routable file in dir. A file that fails is
// logged and skipped; the rest still proceed. Returns the number of files
// ingested successfully.
func (in *Ingestor) IngestFolder(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading ingest folder: %w", err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), "_") {
			continue
		}
		if err := in.IngestFile(ctx, filepath.Join(dir, entry.Name())); err != nil {
			in.logger.Warn("failed to ingest file",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		ingested++
	}
	return ingested, nil
}

// IngestFile routes a single file by name and stores its content.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	fileName := filepath.Base(path)
	thinker, err := ParseThinker(fileName)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fileName, err)
	}
	text := string(raw)

	fileType := FileTypeFor(fileName)
	switch fileType {
	case FileTypePositions:
		err = in.ingestPositions(ctx, thinker, text)
	case FileTypeQuotes:
		err = in.ingestQuotes(ctx, thinker, text)
	case FileTypeWorks:
		err = in.ingestWork(ctx, thinker, fileName, text)
	case FileTypeArguments:
		err = in.ingestArguments(ctx, thinker, text)
	default:
		err = in.ingestChunks(ctx, thinker, fileName, text)
	}
	if err != nil {
		return err
	}

	in.logger.Info("ingested file",
		zap.String("file", fileName),
		zap.String("type", string(fileType)),
		zap.String("thinker", thinker),
	)

	if in.removeAfter {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", fileName, err)
		}
	}
	return nil
}

func (in *Ingestor) ingestPositions(ctx context.Context, thinker, text string) error {
	entries := analysis.ExtractPipeDelimited(text)
	positions := make([]analysis.Position, 0, len(entries))
	for _, e := range entries {
		positions = append(positions, analysis.Position{
			Thinker: entryThinker(e, thinker),
			Text:    e.Content,
			Topic:   e.Topic,
		})
	}
	return in.driver.SavePositions(ctx, positions)
}

func (in *Ingestor) ingestQuotes(ctx context.Context, thinker, text string) error {
	entries := analysis.ExtractPipeDelimited(text)
	quotes := make([]analysis.Quote, 0, len(entries))
	for _, e := range entries {
		quotes = append(quotes, analysis.Quote{
			Thinker: entryThinker(e, thinker),
			Text:    e.Content,
			Topic:   e.Topic,
		})
	}
	return in.driver.SaveQuotes(ctx, quotes)
}

func (in *Ingestor) ingestArguments(ctx context.Context, thinker, text string) error {
	return in.driver.SaveArguments(ctx, analysis.ExtractArguments(text, thinker))
}

// ingestWork stores a complete text as a document. The title comes from
// the file name: author_works_1_beyond_good.txt -> "beyond good".
func (in *Ingestor) ingestWork(ctx context.Context, thinker, fileName, text string) error {
	doc := &analysis.Document{
		ID:         uuid.NewString(),
		Thinker:    thinker,
		Title:      workTitle(fileName),
		SourceFile: fileName,
		Content:    text,
		WordCount:  analysis.CountWords(text),
		CreatedAt:  time.Now().UTC(),
	}
	return in.driver.SaveDocument(ctx, doc)
}

func (in *Ingestor) ingestChunks(ctx context.Context, thinker, fileName, text string) error {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	_, source, found := strings.Cut(name, "_")
	if !found {
		source = name
	}
	return in.driver.SaveChunks(ctx, analysis.BuildChunks(thinker, source, text))
}

func entryThinker(e analysis.PipeEntry, fallback string) string {
	if e.Thinker != "" {
		return strings.ToLower(e.Thinker)
	}
	return fallback
}

// workTitle derives a display title from author_works_n_rest names: the
// author, the works marker, and bare numbers are dropped.
func workTitle(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	parts := strings.Split(name, "_")

	var titleParts []string
	for _, p := range parts[min(2, len(parts)):] {
		if p == "" || isDigits(p) {
			continue
		}
		titleParts = append(titleParts, p)
	}
	if len(titleParts) == 0 {
		return name
	}
	return strings.Join(titleParts, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

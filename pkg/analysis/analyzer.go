package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Progress is one analysis progress notification. The analyzer reports
// phases through PhaseQAs; the caller owns saving and completion.
type Progress struct {
	Phase   Phase
	Status  string
	Percent float64
}

// ProgressFunc receives progress notifications synchronously, in order.
// Returning an error aborts the run.
type ProgressFunc func(p Progress) error

// Input is one document submitted for analysis.
type Input struct {
	// Thinker is the author name as supplied by the uploader.
	Thinker string

	// FileName is the original upload file name, used for title derivation.
	FileName string

	// Content is the document text.
	Content string
}

// Analyzer runs the phased analysis pipeline over uploaded documents.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger disables logging.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Run analyzes the input, reporting each phase through report before the
// phase executes. The context is checked between phases; a cancelled run
// returns ctx.Err() without a partial result.
func (a *Analyzer) Run(ctx context.Context, input Input, report ProgressFunc) (*Result, error) {
	thinker := strings.ToLower(strings.TrimSpace(input.Thinker))
	if thinker == "" {
		return nil, fmt.Errorf("thinker name is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("document is empty")
	}

	if report == nil {
		report = func(Progress) error { return nil }
	}

	start := time.Now()

	phase := func(p Phase, status string, percent float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return report(Progress{Phase: p, Status: status, Percent: percent})
	}

	if err := phase(PhaseOutline, "Extracting outline", 5); err != nil {
		return nil, err
	}
	sections := ExtractOutline(input.Content)

	if err := phase(PhasePositions, "Detecting positions", 25); err != nil {
		return nil, err
	}
	positions := ExtractPositions(input.Content, thinker)
	quotes := ExtractQuotes(input.Content, thinker)

	if err := phase(PhaseArguments, "Detecting arguments", 45); err != nil {
		return nil, err
	}
	arguments := ExtractArguments(input.Content, thinker)

	if err := phase(PhaseTrends, "Detecting trends", 60); err != nil {
		return nil, err
	}
	trends := DetectTrends(input.Content, thinker)

	if err := phase(PhaseQAs, "Generating questions", 75); err != nil {
		return nil, err
	}
	title := DeriveTitle(input.FileName, sections)
	qas := GenerateQAs(thinker, title, positions, arguments, sections)

	doc := &Document{
		ID:         uuid.NewString(),
		Thinker:    thinker,
		Title:      title,
		SourceFile: input.FileName,
		Content:    input.Content,
		WordCount:  CountWords(input.Content),
		CreatedAt:  time.Now().UTC(),
	}

	result := &Result{
		Document:  doc,
		Sections:  sections,
		Positions: positions,
		Quotes:    quotes,
		Arguments: arguments,
		Trends:    trends,
		QAs:       qas,
		Stats: ProcessingStats{
			WordCount: doc.WordCount,
			Positions: len(positions),
			Arguments: len(arguments),
			Trends:    len(trends),
			QAs:       len(qas),
			Sections:  len(sections),
		},
	}

	a.logger.Debug("analysis complete",
		zap.String("thinker", thinker),
		zap.String("title", title),
		zap.Int("word_count", doc.WordCount),
		zap.Int("positions", len(positions)),
		zap.Int("arguments", len(arguments)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

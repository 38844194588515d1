package api

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/eventstream"
	"github.com/thinkhaus/corpus/pkg/sse"
	"github.com/thinkhaus/corpus/pkg/storage"
)

// allowedExtensions are the upload file types accepted for processing.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
	".md":   true,
}

// handleProcess accepts a multipart document upload and streams analysis
// progress back as newline-delimited "data:" frames, ending with the
// [DONE] sentinel.
func (s *Server) handleProcess(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "file is required"})
	}

	authorName := strings.TrimSpace(c.FormValue("authorName"))
	if authorName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "authorName is required"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unsupported file type: " + ext})
	}

	if fileHeader.Size > s.config.MaxUploadBytes {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: "file too large"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "failed to open upload"})
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "failed to read upload"})
	}

	input := analysis.Input{
		Thinker:  authorName,
		FileName: fileHeader.Filename,
		Content:  string(content),
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// io.Pipe + SetBodyStream gives direct backpressure: pw.Write blocks
	// until fasthttp's chunked writer has flushed the frame to the socket,
	// so each progress event reaches the client as it happens. A client
	// disconnect fails the next write, which aborts the pipeline through
	// the progress callback.
	pr, pw := io.Pipe()
	go s.runProcessStream(pw, input)

	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// runProcessStream drives the analysis pipeline, forwarding each phase to
// the client, persisting the result, and publishing the processed event.
// The fiber context is not used here: it is recycled when the handler
// returns, before streaming finishes.
func (s *Server) runProcessStream(pw *io.PipeWriter, input analysis.Input) {
	defer pw.Close()

	ctx := context.Background()
	w := sse.NewWriter(pw)

	report := func(p analysis.Progress) error {
		progress := p.Percent
		return w.Send(&sse.Event{
			Status:   p.Status,
			Phase:    p.Phase,
			Progress: &progress,
		})
	}

	result, err := s.analyzer.Run(ctx, input, report)
	if err != nil {
		s.logger.Warn("analysis failed",
			zap.String("thinker", input.Thinker),
			zap.String("file", input.FileName),
			zap.Error(err),
		)
		s.finishWithError(w, "analysis failed: "+err.Error())
		return
	}

	saving := 90.0
	if err := w.Send(&sse.Event{
		Status:   "Saving to corpus database",
		Phase:    analysis.PhaseSaving,
		Progress: &saving,
	}); err != nil {
		return
	}

	if err := storage.SaveResult(ctx, s.storer, result); err != nil {
		s.logger.Error("failed to save analysis result",
			zap.String("document_id", result.Document.ID),
			zap.Error(err),
		)
		s.finishWithError(w, "failed to save document")
		return
	}

	s.publishProcessed(ctx, result)

	complete := 100.0
	if err := w.Send(&sse.Event{
		Status:        "Processing complete",
		Phase:         analysis.PhaseComplete,
		Progress:      &complete,
		DocumentTitle: result.Document.Title,
		Stats:         &result.Stats,
	}); err != nil {
		return
	}

	if err := w.Done(); err != nil {
		s.logger.Debug("client disconnected before sentinel", zap.Error(err))
	}
}

// finishWithError emits a terminal error frame followed by the sentinel.
// Write failures mean the client is gone; there is nothing left to do.
func (s *Server) finishWithError(w *sse.Writer, message string) {
	if err := w.SendError(message); err != nil {
		return
	}
	_ = w.Done()
}

// publishProcessed emits the document processed event. Publish failures
// are logged but do not fail the upload: the document is already saved.
func (s *Server) publishProcessed(ctx context.Context, result *analysis.Result) {
	if s.publisher == nil {
		return
	}

	event := &eventstream.DocumentProcessedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeDocumentProcessed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source: eventstream.EventSource{
			Thinker: result.Document.Thinker,
			Origin:  "upload",
		},
		Document: eventstream.DocumentMeta{
			ID:         result.Document.ID,
			Title:      result.Document.Title,
			SourceFile: result.Document.SourceFile,
			WordCount:  result.Document.WordCount,
		},
		Stats: result.Stats,
	}

	if err := s.publisher.PublishDocument(ctx, event); err != nil {
		s.logger.Warn("failed to publish document event",
			zap.String("document_id", result.Document.ID),
			zap.Error(err),
		)
	}
}

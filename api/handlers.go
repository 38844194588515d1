package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/storage"
)

// DocumentSummary is the list representation of a stored document. The
// full text is omitted; fetch a single document for it.
type DocumentSummary struct {
	ID         string `json:"id"`
	Thinker    string `json:"thinker"`
	Title      string `json:"title"`
	SourceFile string `json:"sourceFile,omitempty"`
	WordCount  int    `json:"wordCount"`
	CreatedAt  string `json:"createdAt"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListDocuments returns summaries of all stored documents, newest first.
func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	docs, err := s.storer.ListDocuments(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list documents"})
	}

	summaries := make([]DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, summarize(doc))
	}

	return c.JSON(map[string]any{
		"count":     len(summaries),
		"documents": summaries,
	})
}

// handleGetDocument returns a single stored document, full text included.
func (s *Server) handleGetDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "id parameter required"})
	}

	doc, err := s.storer.GetDocument(c.Context(), id)
	if err != nil {
		var notFound storage.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "document not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get document"})
	}

	return c.JSON(doc)
}

func summarize(doc *analysis.Document) DocumentSummary {
	return DocumentSummary{
		ID:         doc.ID,
		Thinker:    doc.Thinker,
		Title:      doc.Title,
		SourceFile: doc.SourceFile,
		WordCount:  doc.WordCount,
		CreatedAt:  doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

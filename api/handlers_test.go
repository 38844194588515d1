package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/eventstream/nop"
	"github.com/thinkhaus/corpus/pkg/logger"
	"github.com/thinkhaus/corpus/pkg/storage/inmemory"
)

var _ = Describe("Document endpoints", func() {
	var (
		server *Server
		store  *inmemory.Driver
	)

	BeforeEach(func() {
		store = inmemory.NewDriver()
		server = NewServer(Config{ListenAddr: ":0"}, store, nop.NewPublisher(), logger.Nop())
	})

	get := func(path string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := server.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	It("answers ping", func() {
		resp := get("/ping")
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	Context("with stored documents", func() {
		BeforeEach(func() {
			docs := []*analysis.Document{
				{
					ID:        "doc-1",
					Thinker:   "freud",
					Title:     "The Interpretation of Dreams",
					WordCount: 1200,
					Content:   "dream content",
					CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				},
				{
					ID:        "doc-2",
					Thinker:   "nietzsche",
					Title:     "Beyond Good and Evil",
					WordCount: 900,
					Content:   "aphorisms",
					CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				},
			}
			for _, doc := range docs {
				Expect(store.SaveDocument(context.Background(), doc)).To(Succeed())
			}
		})

		It("lists summaries newest first without content", func() {
			resp := get("/api/documents")
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Count     int               `json:"count"`
				Documents []DocumentSummary `json:"documents"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Count).To(Equal(2))
			Expect(body.Documents[0].ID).To(Equal("doc-2"))
			Expect(body.Documents[1].ID).To(Equal("doc-1"))
		})

		It("fetches a single document with content", func() {
			resp := get("/api/documents/doc-1")
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var doc analysis.Document
			Expect(json.NewDecoder(resp.Body).Decode(&doc)).To(Succeed())
			Expect(doc.ID).To(Equal("doc-1"))
			Expect(doc.Content).To(Equal("dream content"))
		})

		It("returns 404 for unknown documents", func() {
			resp := get("/api/documents/missing")
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})

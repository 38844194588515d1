package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/client"
)

// streamServer answers /api/process with the given frames as an event
// stream, one write per frame.
func streamServer(frames ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer GinkgoRecover()
		Expect(r.Method).To(Equal(http.MethodPost))
		Expect(r.URL.Path).To(Equal("/api/process"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frame := range frames {
			_, err := w.Write([]byte(frame))
			Expect(err).NotTo(HaveOccurred())
			flusher.Flush()
		}
	}))
}

func validRequest() client.ProcessRequest {
	return client.ProcessRequest{
		FileName:   "CORE_FREUD_3.md",
		File:       strings.NewReader("# The Interpretation of Dreams\n\nDream content."),
		AuthorName: "Freud",
	}
}

// collectStates records every state change for later assertions.
func collectStates() (*[]client.State, client.StateFunc) {
	states := &[]client.State{}
	return states, func(s client.State) {
		*states = append(*states, s)
	}
}

func kinds(states []client.State) []client.Kind {
	out := make([]client.Kind, len(states))
	for i, s := range states {
		out[i] = s.Kind
	}
	return out
}

var _ = Describe("Client", func() {
	Describe("local validation", func() {
		It("rejects a missing file without touching the network", func() {
			c := client.NewClient("http://127.0.0.1:1", nil)
			states, onState := collectStates()

			req := validRequest()
			req.File = nil
			req.FileName = ""
			_, err := c.Process(context.Background(), req, onState)

			Expect(err).To(MatchError(client.ErrMissingFile))
			Expect(kinds(*states)).To(Equal([]client.Kind{
				client.KindValidating, client.KindFailed,
			}))
		})

		It("rejects a blank author name", func() {
			c := client.NewClient("http://127.0.0.1:1", nil)
			req := validRequest()
			req.AuthorName = "   "
			_, err := c.Process(context.Background(), req, nil)
			Expect(err).To(MatchError(client.ErrMissingAuthor))
		})

		It("rejects disallowed extensions", func() {
			c := client.NewClient("http://127.0.0.1:1", nil)
			req := validRequest()
			req.FileName = "notes.exe"
			_, err := c.Process(context.Background(), req, nil)

			var unsupported client.UnsupportedFileTypeError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.Ext).To(Equal(".exe"))
		})
	})

	Describe("request errors", func() {
		It("carries the server's error message for a 422 response", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"error": "file too large"}`))
			}))
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			states, onState := collectStates()
			_, err := c.Process(context.Background(), validRequest(), onState)

			var reqErr client.RequestError
			Expect(errors.As(err, &reqErr)).To(BeTrue())
			Expect(reqErr.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(reqErr.Message).To(Equal("file too large"))
			Expect(kinds(*states)).To(Equal([]client.Kind{
				client.KindValidating, client.KindUploading, client.KindFailed,
			}))
		})

		It("falls back to a generic message for unparseable bodies", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("<html>oops</html>"))
			}))
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			_, err := c.Process(context.Background(), validRequest(), nil)

			var reqErr client.RequestError
			Expect(errors.As(err, &reqErr)).To(BeTrue())
			Expect(reqErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(reqErr.Message).To(BeEmpty())
		})

		It("fails on transport errors distinctly from server errors", func() {
			c := client.NewClient("http://127.0.0.1:1", nil)
			_, err := c.Process(context.Background(), validRequest(), nil)

			Expect(err).To(HaveOccurred())
			var reqErr client.RequestError
			Expect(errors.As(err, &reqErr)).To(BeFalse())
		})

		It("rejects a success response that is not an event stream", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			_, err := c.Process(context.Background(), validRequest(), nil)
			Expect(err).To(MatchError(ContainSubstring("content type")))
		})
	})

	Describe("streaming", func() {
		It("succeeds on a complete stream and reports phases in order", func() {
			srv := streamServer(
				"data: {\"status\": \"Extracting outline\", \"phase\": \"outline\", \"progress\": 5}\n",
				"data: {\"status\": \"Detecting positions\", \"phase\": \"positions\", \"progress\": 25}\n",
				"data: {\"status\": \"Saving to corpus database\", \"phase\": \"saving\", \"progress\": 90}\n",
				"data: {\"status\": \"Processing complete\", \"phase\": \"complete\", \"progress\": 100, \"documentTitle\": \"The Interpretation of Dreams\", \"stats\": {\"wordCount\": 15420, \"positions\": 47, \"arguments\": 23, \"trends\": 8, \"qas\": 31, \"sections\": 12}}\n",
				"data: [DONE]\n",
			)
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			states, onState := collectStates()
			result, err := c.Process(context.Background(), validRequest(), onState)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.DocumentTitle).To(Equal("The Interpretation of Dreams"))
			Expect(result.Stats.WordCount).To(Equal(15420))
			Expect(result.Stats.Positions).To(Equal(47))

			Expect(kinds(*states)).To(Equal([]client.Kind{
				client.KindValidating,
				client.KindUploading,
				client.KindStreaming, // stream opened
				client.KindStreaming, // outline
				client.KindStreaming, // positions
				client.KindStreaming, // saving
				client.KindStreaming, // complete
				client.KindSucceeded,
			}))

			phases := []analysis.Phase{}
			for _, s := range *states {
				if s.Kind == client.KindStreaming && s.Phase != "" {
					phases = append(phases, s.Phase)
				}
			}
			Expect(phases).To(Equal([]analysis.Phase{
				analysis.PhaseOutline,
				analysis.PhasePositions,
				analysis.PhaseSaving,
				analysis.PhaseComplete,
			}))

			final := (*states)[len(*states)-1]
			Expect(final.Result).To(Equal(result))
		})

		It("retains earlier field values when an event omits them", func() {
			srv := streamServer(
				"data: {\"status\": \"Extracting outline\", \"phase\": \"outline\", \"progress\": 5}\n",
				"data: {\"progress\": 10}\n",
				"data: {\"phase\": \"complete\", \"progress\": 100, \"documentTitle\": \"T\"}\n",
				"data: [DONE]\n",
			)
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			states, onState := collectStates()
			_, err := c.Process(context.Background(), validRequest(), onState)
			Expect(err).NotTo(HaveOccurred())

			var sparse client.State
			for _, s := range *states {
				if s.Kind == client.KindStreaming && s.Progress == 10 {
					sparse = s
				}
			}
			Expect(sparse.Phase).To(Equal(analysis.PhaseOutline))
			Expect(sparse.Status).To(Equal("Extracting outline"))
		})

		It("fails with StreamError on an application error event", func() {
			srv := streamServer(
				"data: {\"status\": \"Extracting outline\", \"phase\": \"outline\", \"progress\": 5}\n",
				"data: {\"error\": \"analysis failed: document is empty\"}\n",
				"data: [DONE]\n",
			)
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			states, onState := collectStates()
			_, err := c.Process(context.Background(), validRequest(), onState)

			var streamErr client.StreamError
			Expect(errors.As(err, &streamErr)).To(BeTrue())
			Expect(streamErr.Message).To(Equal("analysis failed: document is empty"))

			final := (*states)[len(*states)-1]
			Expect(final.Kind).To(Equal(client.KindFailed))
			Expect(final.Err).To(MatchError(err))
		})

		It("fails with ErrTruncatedStream when the stream ends early", func() {
			srv := streamServer(
				"data: {\"status\": \"Extracting outline\", \"phase\": \"outline\", \"progress\": 5}\n",
			)
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			_, err := c.Process(context.Background(), validRequest(), nil)
			Expect(err).To(MatchError(client.ErrTruncatedStream))
		})

		It("skips malformed frames and still completes", func() {
			srv := streamServer(
				"data: {not json}\n",
				"data: {\"phase\": \"complete\", \"progress\": 100, \"documentTitle\": \"T\"}\n",
				"data: [DONE]\n",
			)
			defer srv.Close()

			c := client.NewClient(srv.URL, nil)
			result, err := c.Process(context.Background(), validRequest(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.DocumentTitle).To(Equal("T"))
		})

		It("fails when the context is cancelled mid-stream", func() {
			ctx, cancel := context.WithCancel(context.Background())
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				flusher := w.(http.Flusher)
				_, _ = w.Write([]byte("data: {\"phase\": \"outline\", \"progress\": 5}\n"))
				flusher.Flush()
				cancel()
				<-r.Context().Done()
			}))
			defer srv.Close()

			_, err := client.NewClient(srv.URL, nil).Process(ctx, validRequest(), nil)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})

var _ = Describe("CanTransition", func() {
	It("permits the success path", func() {
		Expect(client.CanTransition(client.KindIdle, client.KindValidating)).To(BeTrue())
		Expect(client.CanTransition(client.KindValidating, client.KindUploading)).To(BeTrue())
		Expect(client.CanTransition(client.KindUploading, client.KindStreaming)).To(BeTrue())
		Expect(client.CanTransition(client.KindStreaming, client.KindStreaming)).To(BeTrue())
		Expect(client.CanTransition(client.KindStreaming, client.KindSucceeded)).To(BeTrue())
	})

	It("permits failure from every working state", func() {
		for _, from := range []client.Kind{
			client.KindValidating, client.KindUploading, client.KindStreaming,
		} {
			Expect(client.CanTransition(from, client.KindFailed)).To(BeTrue())
		}
	})

	It("forbids leaving terminal states", func() {
		for _, from := range []client.Kind{client.KindSucceeded, client.KindFailed} {
			for _, to := range []client.Kind{
				client.KindIdle, client.KindValidating, client.KindUploading,
				client.KindStreaming, client.KindSucceeded, client.KindFailed,
			} {
				Expect(client.CanTransition(from, to)).To(BeFalse())
			}
		}
	})

	It("forbids skipping validation", func() {
		Expect(client.CanTransition(client.KindIdle, client.KindUploading)).To(BeFalse())
		Expect(client.CanTransition(client.KindIdle, client.KindStreaming)).To(BeFalse())
	})
})

// Package client uploads documents to the corpus API and tracks processing
// through a validated state machine: Idle, Validating, Uploading,
// Streaming, then Succeeded or Failed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/sse"
)

// allowedExtensions are the file types the server accepts; validated
// locally so obvious mistakes never hit the network.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
	".md":   true,
}

// ProcessRequest is one document upload.
type ProcessRequest struct {
	// FileName is the name of the uploaded file, extension included.
	FileName string

	// File is the document content.
	File io.Reader

	// AuthorName is the thinker the document belongs to.
	AuthorName string
}

// Result is the outcome of a completed processing run.
type Result struct {
	DocumentTitle string
	Stats         analysis.ProcessingStats
}

// Client talks to the corpus API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the API server at baseURL. A nil logger
// disables logging.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Large documents take a while to analyze
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

// Process uploads the document and consumes the progress stream until it
// terminates. Every state change is reported through onState before
// Process acts on it; the terminal state always matches the return values.
// Malformed stream frames are skipped, never fatal.
func (c *Client) Process(ctx context.Context, req ProcessRequest, onState StateFunc) (*Result, error) {
	m := newMachine(onState)

	if err := m.to(State{Kind: KindValidating}); err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, m.fail(err)
	}

	if err := m.to(State{Kind: KindUploading}); err != nil {
		return nil, err
	}
	resp, err := c.upload(ctx, req)
	if err != nil {
		return nil, m.fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, m.fail(decodeRequestError(resp))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		return nil, m.fail(fmt.Errorf("unexpected response content type %q", ct))
	}

	if err := m.to(State{Kind: KindStreaming}); err != nil {
		return nil, err
	}
	return c.consumeStream(ctx, resp.Body, m)
}

func validate(req ProcessRequest) error {
	if req.File == nil || req.FileName == "" {
		return ErrMissingFile
	}
	if strings.TrimSpace(req.AuthorName) == "" {
		return ErrMissingAuthor
	}
	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedExtensions[ext] {
		return UnsupportedFileTypeError{Ext: ext}
	}
	return nil
}

// upload posts the document as multipart/form-data.
func (c *Client) upload(ctx context.Context, req ProcessRequest) (*http.Response, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if err := mw.WriteField("authorName", req.AuthorName); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	url := c.baseURL + "/api/process"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug("uploading document",
		zap.String("url", url),
		zap.String("file", req.FileName),
		zap.String("author", req.AuthorName),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return resp, nil
}

// decodeRequestError turns a non-2xx response into a RequestError,
// preferring the server's JSON error field over a generic message.
func decodeRequestError(resp *http.Response) error {
	reqErr := RequestError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return reqErr
	}

	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		reqErr.Message = parsed.Error
	}
	return reqErr
}

// consumeStream reads progress events until the stream terminates, driving
// the state machine as phases arrive.
func (c *Client) consumeStream(ctx context.Context, body io.Reader, m *machine) (*Result, error) {
	r := sse.NewReader(body)

	var (
		streaming State
		result    *Result
	)
	streaming.Kind = KindStreaming

	for {
		ev, err := r.Next(ctx)
		if err != nil {
			return nil, m.fail(fmt.Errorf("reading stream: %w", err))
		}
		if ev == nil {
			break
		}

		if ev.Error != "" {
			return nil, m.fail(StreamError{Message: ev.Error})
		}

		// Fields are cumulative across the stream: an event omitting
		// one leaves the previous value standing.
		if ev.Phase != "" {
			streaming.Phase = ev.Phase
		}
		if ev.Status != "" {
			streaming.Status = ev.Status
		}
		if ev.Progress != nil {
			streaming.Progress = *ev.Progress
		}

		if ev.Phase == analysis.PhaseComplete {
			result = &Result{DocumentTitle: ev.DocumentTitle}
			if ev.Stats != nil {
				result.Stats = *ev.Stats
			}
		}

		if err := m.to(streaming); err != nil {
			return nil, err
		}
	}

	if skipped := r.Malformed(); skipped > 0 {
		c.logger.Debug("skipped malformed stream frames", zap.Int("count", skipped))
	}

	if result == nil {
		return nil, m.fail(ErrTruncatedStream)
	}

	if err := m.to(State{Kind: KindSucceeded, Result: result}); err != nil {
		return nil, err
	}
	return result, nil
}

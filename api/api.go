package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/thinkhaus/corpus/pkg/analysis"
	"github.com/thinkhaus/corpus/pkg/eventstream"
	"github.com/thinkhaus/corpus/pkg/storage"
)

// ErrorResponse is the JSON body for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP API server for the corpus system.
type Server struct {
	config    Config
	storer    storage.Driver
	analyzer  *analysis.Analyzer
	publisher eventstream.Publisher
	logger    *zap.Logger
	app       *fiber.App
}

// NewServer creates a new API server. The storer and publisher are
// injected to allow sharing with other components (e.g., the ingestor).
func NewServer(config Config, storer storage.Driver, publisher eventstream.Publisher, logger *zap.Logger) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// Fiber rejects oversize bodies before the handler runs; keep
		// headroom above the upload cap so the handler can answer with
		// the documented 422 instead of fiber's 413.
		BodyLimit: int(config.MaxUploadBytes) + 1<<20,
	})

	s := &Server{
		config:    config,
		storer:    storer,
		analyzer:  analysis.NewAnalyzer(logger),
		publisher: publisher,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/api/process", s.handleProcess)
	app.Get("/api/documents", s.handleListDocuments)
	app.Get("/api/documents/:id", s.handleGetDocument)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

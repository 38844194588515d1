// Package api provides the HTTP server for uploading documents, streaming
// analysis progress, and querying the stored corpus.
package api

// DefaultMaxUploadBytes caps accepted upload size at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// MaxUploadBytes is the largest accepted upload in bytes.
	// Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

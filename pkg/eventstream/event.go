// Package eventstream defines transport-neutral events emitted after a
// document is processed and persisted, and the Publisher interface that
// delivers them to an event stream backend.
package eventstream

import (
	"time"

	"github.com/thinkhaus/corpus/pkg/analysis"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDocumentProcessed is emitted after a document's analysis
	// has been persisted.
	EventTypeDocumentProcessed = "corpus.document.processed"
)

// DocumentProcessedEvent is a transport-neutral event payload for a
// processed document.
type DocumentProcessedEvent struct {
	SchemaVersion int                      `json:"schema_version"`
	EventType     string                   `json:"event_type"`
	EventID       string                   `json:"event_id"`
	EmittedAt     time.Time                `json:"emitted_at"`
	Source        EventSource              `json:"source"`
	Document      DocumentMeta             `json:"document"`
	Stats         analysis.ProcessingStats `json:"stats"`
}

// EventSource identifies where the document entered the system.
type EventSource struct {
	Thinker string `json:"thinker"`
	Origin  string `json:"origin,omitempty"` // "upload" or "ingest"
}

// DocumentMeta captures the persisted document's identity.
type DocumentMeta struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SourceFile string `json:"source_file,omitempty"`
	WordCount  int    `json:"word_count"`
}

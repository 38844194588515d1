// Package sse provides a minimal, purpose-built reader and writer for the
// corpus progress stream. The server encodes analysis progress as
// newline-delimited frames of the form
//
//	data: <JSON object>\n
//
// terminated by the sentinel frame
//
//	data: [DONE]\n
//
// The reader parses frames incrementally from arbitrarily chunked transport
// reads; the writer emits them with a flush per frame.
//
// This package intentionally does NOT implement the full SSE specification:
// event types, ids, retry fields, and blank-line event delimiting are not
// part of the corpus wire contract.
package sse

import "github.com/thinkhaus/corpus/pkg/analysis"

const (
	// DataPrefix marks a significant frame. Lines without it are ignored.
	DataPrefix = "data: "

	// DoneSentinel is the frame payload that terminates the stream.
	DoneSentinel = "[DONE]"
)

// Event is the JSON payload carried by a significant frame. All fields are
// optional; across a stream the last value wins.
type Event struct {
	// Status is a free-text progress message for display.
	Status string `json:"status,omitempty"`

	// Phase identifies the analysis stage the server is in.
	Phase analysis.Phase `json:"phase,omitempty"`

	// Progress is a percentage in [0, 100]. A pointer distinguishes
	// "absent" from an explicit 0.
	Progress *float64 `json:"progress,omitempty"`

	// Error terminates processing with a message when non-empty.
	Error string `json:"error,omitempty"`

	// DocumentTitle is set on the completion event.
	DocumentTitle string `json:"documentTitle,omitempty"`

	// Stats is set on the completion event (phase == "complete").
	Stats *analysis.ProcessingStats `json:"stats,omitempty"`
}

// Terminal reports whether the event ends processing: either an
// application error or the completion phase.
func (e *Event) Terminal() bool {
	return e.Error != "" || e.Phase == analysis.PhaseComplete
}

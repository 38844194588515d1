package sse

import (
	"encoding/json"
	"fmt"
	"io"
)

// flusher is the subset of http.Flusher / bufio.Writer the Writer uses to
// push a frame to the transport immediately. Destinations that cannot
// flush (pipes, buffers) may omit it.
type flusher interface {
	Flush() error
}

// Writer emits corpus progress frames in the wire format the Reader
// consumes: one "data: <JSON>" line per event, a "data: [DONE]" line to
// terminate.
type Writer struct {
	dst io.Writer
}

// NewWriter returns a Writer emitting frames to dst. When dst implements
// Flush() error, every frame is flushed as it is written.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// Send marshals ev and writes it as a single significant frame.
func (w *Writer) Send(ev *Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	return w.writeFrame(string(payload))
}

// SendError writes a terminal application-error frame.
func (w *Writer) SendError(message string) error {
	return w.Send(&Event{Error: message})
}

// Done writes the [DONE] sentinel frame.
func (w *Writer) Done() error {
	return w.writeFrame(DoneSentinel)
}

func (w *Writer) writeFrame(payload string) error {
	if _, err := io.WriteString(w.dst, DataPrefix+payload+"\n"); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if f, ok := w.dst.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing frame: %w", err)
		}
	}
	return nil
}

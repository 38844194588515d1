package sse

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const readChunkSize = 32 * 1024

// Reader consumes a corpus progress stream from an io.Reader, delivering
// parsed events one at a time. It owns the source for the duration of the
// read loop: exactly one pull loop may be active per stream.
//
// Guarantees:
//   - events are delivered in frame order, each at most once;
//   - no event is delivered before all bytes of its line have arrived;
//   - once the [DONE] sentinel is seen, no further events are delivered
//     and no further reads are issued, even if data remains buffered.
type Reader struct {
	src    io.Reader
	framer Framer
	buf    []byte

	// pending holds complete lines not yet consumed by Next.
	pending []string

	done      bool
	pulled    bool
	malformed int
}

// NewReader returns a Reader over src. The caller remains responsible for
// closing src (when it is a closer) after the loop exits on any path.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src: src,
		buf: make([]byte, readChunkSize),
	}
}

// Next returns the next parsed event from the stream. It blocks until a
// complete significant frame is available. Next returns nil, nil when the
// stream has ended, either via the [DONE] sentinel or source exhaustion.
//
// Lines that do not begin with "data: " are discarded. A frame whose
// payload fails to parse as JSON is counted (see Malformed) and skipped;
// a single corrupt frame never terminates an otherwise valid stream.
//
// The context is checked before every pull after the first, so a caller
// can abandon a stream whose server has gone silent; a frame already in
// flight when the caller cancels is still delivered.
func (r *Reader) Next(ctx context.Context) (*Event, error) {
	for {
		if r.done {
			return nil, nil
		}

		for len(r.pending) > 0 {
			line := r.pending[0]
			r.pending = r.pending[1:]

			payload, ok := strings.CutPrefix(line, DataPrefix)
			if !ok {
				continue
			}

			if payload == DoneSentinel {
				r.done = true
				r.pending = nil
				return nil, nil
			}

			var ev Event
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				r.malformed++
				continue
			}

			return &ev, nil
		}

		if r.pulled {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		n, err := r.src.Read(r.buf)
		r.pulled = true
		if n > 0 {
			r.pending = r.framer.Feed(r.buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Natural end of stream without a sentinel. Drain any
				// complete lines already framed, then report exhaustion.
				if len(r.pending) > 0 {
					continue
				}
				r.done = true
				return nil, nil
			}
			return nil, err
		}
	}
}

// Done reports whether the stream has terminated, via sentinel or EOF.
func (r *Reader) Done() bool {
	return r.done
}

// Malformed returns the number of significant frames that were skipped
// because their payload was not valid JSON.
func (r *Reader) Malformed() int {
	return r.malformed
}

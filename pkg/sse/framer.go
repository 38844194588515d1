package sse

import "bytes"

// Framer incrementally splits a byte stream into complete lines. Chunks fed
// to it may break anywhere, including in the middle of a multi-byte UTF-8
// sequence; because the framer buffers raw bytes and only materializes a
// string once a full line has arrived, split runes are never corrupted.
//
// The tail buffer holds at most the text pending between the last newline
// and the end of the received data.
type Framer struct {
	tail []byte
}

// Feed appends a chunk and returns every complete line it closes, in order,
// with the trailing newline (and an optional preceding carriage return)
// stripped. The final incomplete piece is retained for the next call.
func (f *Framer) Feed(p []byte) []string {
	if len(p) == 0 {
		return nil
	}

	f.tail = append(f.tail, p...)

	var lines []string
	for {
		i := bytes.IndexByte(f.tail, '\n')
		if i < 0 {
			break
		}

		line := f.tail[:i]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		lines = append(lines, string(line))

		f.tail = f.tail[i+1:]
	}

	// Re-slice into a fresh buffer so consumed bytes do not pin the old
	// backing array across long streams.
	if len(f.tail) > 0 && cap(f.tail) > 4*len(f.tail) {
		f.tail = append([]byte(nil), f.tail...)
	}

	return lines
}

// Pending returns the buffered incomplete line, if any.
func (f *Framer) Pending() string {
	return string(f.tail)
}

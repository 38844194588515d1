package client

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile indicates no file was provided for processing.
	ErrMissingFile = errors.New("no file provided")

	// ErrMissingAuthor indicates the author name was empty after trimming.
	ErrMissingAuthor = errors.New("author name is required")

	// ErrTruncatedStream indicates the progress stream ended before a
	// completion event or the terminating sentinel arrived.
	ErrTruncatedStream = errors.New("stream ended before completion")
)

// UnsupportedFileTypeError indicates an upload with a disallowed extension.
type UnsupportedFileTypeError struct {
	Ext string
}

func (e UnsupportedFileTypeError) Error() string {
	if e.Ext == "" {
		return "unsupported file type"
	}
	return "unsupported file type: " + e.Ext
}

// RequestError is a non-2xx server response to the upload request. Message
// carries the server's error field when the body was parseable JSON.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// StreamError is an application error event received on an otherwise
// healthy stream: the server reported that processing itself failed.
type StreamError struct {
	Message string
}

func (e StreamError) Error() string {
	return "processing failed: " + e.Message
}

package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by store reads when no row matches.
var ErrNotFound = errors.New("not found")

// InputError reports a missing or invalid user input. No side effects have
// been performed when it is returned.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// ExtractionError reports a document that could not be turned into text.
type ExtractionError struct {
	Document string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("extract text: %v", e.Err)
	}
	return fmt.Sprintf("extract text from %s: %v", e.Document, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// GenerationError reports a failed call to the language model.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate questions: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PersistError reports a failed store write. Questions generated before the
// failure are still returned to the caller alongside it.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// HTTPError wraps a non-200 status returned by a model endpoint.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

package model

import (
	"context"
	"time"
)

// Candidate is a person whose résumé has been processed. Rows are append-only:
// every Generate action creates a new one, even for a name seen before.
type Candidate struct {
	ID         int64
	Name       string
	ResumeText string
	CreatedAt  time.Time
}

// JobDescription is the role a candidate is being interviewed for. One row is
// created per Generate action.
type JobDescription struct {
	ID          int64
	Title       string
	Description string
	CreatedAt   time.Time
}

// QuestionSet is the ordered list of questions generated for a
// (candidate, job) pair. It is created once and overwritten on regeneration.
type QuestionSet struct {
	ID          int64
	CandidateID int64
	JobID       int64
	Questions   []string
	UpdatedAt   time.Time
}

// QuestionSetSummary is a QuestionSet joined with the names it refers to,
// used for history listings.
type QuestionSetSummary struct {
	CandidateID   int64
	JobID         int64
	CandidateName string
	JobTitle      string
	QuestionCount int
	UpdatedAt     time.Time
}

// NewRecord is the input to QuestionStore.CreateRecord.
type NewRecord struct {
	CandidateName string
	ResumeText    string
	JobTitle      string
	JobText       string
	// Questions seeds a QuestionSet row when non-nil. An empty, non-nil slice
	// creates an empty set that later updates can address.
	Questions []string
}

// Document is an uploaded file: its display name and raw bytes.
type Document struct {
	Name string
	Data []byte
}

// Empty reports whether the document is missing or has no content.
func (d *Document) Empty() bool {
	return d == nil || len(d.Data) == 0
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc Document) (string, error)
}

// QuestionStore is the write side of persistence used by the session
// orchestrator.
type QuestionStore interface {
	CreateRecord(ctx context.Context, rec NewRecord) (candidateID, jobID int64, err error)
	UpdateQuestions(ctx context.Context, candidateID, jobID int64, questions []string) error
}

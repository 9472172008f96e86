package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/firstround/internal/model"
)

// MaxQuestions is the largest question count a single action may request.
const MaxQuestions = 10

// State is the transient session the interaction surface carries between
// actions. The zero value is an empty session.
type State struct {
	CandidateID int64
	JobID       int64
	Questions   []string
}

// HasRecord reports whether a Generate action has stored a record that
// Regenerate can address.
func (s State) HasRecord() bool {
	return s.CandidateID != 0 && s.JobID != 0
}

// Generator produces interview questions from extracted text.
type Generator interface {
	Generate(ctx context.Context, resumeText, jdText string, numQuestions int, customPrompt string) ([]string, error)
}

// GenerateInput carries the user's inputs for a Generate action.
type GenerateInput struct {
	CandidateName  string
	Resume         *model.Document
	JobDescription *model.Document
	NumQuestions   int
}

// RegenerateInput carries the user's inputs for a Regenerate action.
type RegenerateInput struct {
	CustomPrompt   string
	Resume         *model.Document
	JobDescription *model.Document
	NumQuestions   int
}

// Orchestrator runs the document-to-questions pipeline:
// extract → store → generate → update.
type Orchestrator struct {
	extractor model.TextExtractor
	store     model.QuestionStore
	generator Generator
	jobTitle  string
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator wired with all its dependencies.
func NewOrchestrator(
	extractor model.TextExtractor,
	store model.QuestionStore,
	generator Generator,
	jobTitle string,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		store:     store,
		generator: generator,
		jobTitle:  jobTitle,
		logger:    logger,
	}
}

// Generate stores a new candidate and job description, asks the model for
// questions and saves them against the new pair. On an input, extraction or
// generation error prev is returned unchanged. A failed save returns the new
// state together with a *model.PersistError.
func (o *Orchestrator) Generate(ctx context.Context, prev State, in GenerateInput) (State, error) {
	name := strings.TrimSpace(in.CandidateName)
	if name == "" {
		return prev, &model.InputError{Field: "candidate_name", Reason: "must not be empty"}
	}
	if err := checkDocuments(in.Resume, in.JobDescription); err != nil {
		return prev, err
	}
	if err := checkCount(in.NumQuestions); err != nil {
		return prev, err
	}

	resumeText, jdText, err := o.extractBoth(ctx, in.Resume, in.JobDescription)
	if err != nil {
		return prev, err
	}

	candidateID, jobID, err := o.store.CreateRecord(ctx, model.NewRecord{
		CandidateName: name,
		ResumeText:    resumeText,
		JobTitle:      o.jobTitle,
		JobText:       jdText,
		Questions:     []string{},
	})
	if err != nil {
		return prev, &model.PersistError{Op: "create record", Err: err}
	}

	questions, err := o.generator.Generate(ctx, resumeText, jdText, in.NumQuestions, "")
	if err != nil {
		return prev, err
	}

	next := State{CandidateID: candidateID, JobID: jobID, Questions: questions}
	if err := o.store.UpdateQuestions(ctx, candidateID, jobID, questions); err != nil {
		return next, &model.PersistError{Op: "save questions", Err: err}
	}

	o.logger.Info("generated questions",
		"candidate", name,
		"candidate_id", candidateID,
		"job_id", jobID,
		"requested", in.NumQuestions,
		"questions", len(questions),
	)
	return next, nil
}

// Regenerate re-extracts both documents, sends the custom prompt verbatim and
// overwrites the stored questions of the current pair. The ids in prev are
// never changed.
func (o *Orchestrator) Regenerate(ctx context.Context, prev State, in RegenerateInput) (State, error) {
	if strings.TrimSpace(in.CustomPrompt) == "" {
		return prev, &model.InputError{Field: "custom_prompt", Reason: "must not be empty"}
	}
	if !prev.HasRecord() {
		return prev, &model.InputError{Field: "session", Reason: "generate questions before regenerating"}
	}
	if err := checkDocuments(in.Resume, in.JobDescription); err != nil {
		return prev, err
	}
	if err := checkCount(in.NumQuestions); err != nil {
		return prev, err
	}

	resumeText, jdText, err := o.extractBoth(ctx, in.Resume, in.JobDescription)
	if err != nil {
		return prev, err
	}

	questions, err := o.generator.Generate(ctx, resumeText, jdText, in.NumQuestions, in.CustomPrompt)
	if err != nil {
		return prev, err
	}

	next := State{CandidateID: prev.CandidateID, JobID: prev.JobID, Questions: questions}
	if err := o.store.UpdateQuestions(ctx, next.CandidateID, next.JobID, questions); err != nil {
		return next, &model.PersistError{Op: "save questions", Err: err}
	}

	o.logger.Info("regenerated questions",
		"candidate_id", next.CandidateID,
		"job_id", next.JobID,
		"requested", in.NumQuestions,
		"questions", len(questions),
	)
	return next, nil
}

func (o *Orchestrator) extractBoth(ctx context.Context, resume, jd *model.Document) (string, string, error) {
	resumeText, err := o.extractor.ExtractText(ctx, *resume)
	if err != nil {
		return "", "", fmt.Errorf("resume: %w", err)
	}
	jdText, err := o.extractor.ExtractText(ctx, *jd)
	if err != nil {
		return "", "", fmt.Errorf("job description: %w", err)
	}
	return resumeText, jdText, nil
}

func checkDocuments(resume, jd *model.Document) error {
	if resume.Empty() {
		return &model.InputError{Field: "resume", Reason: "no document uploaded"}
	}
	if jd.Empty() {
		return &model.InputError{Field: "job_description", Reason: "no document uploaded"}
	}
	return nil
}

func checkCount(n int) error {
	if n < 1 || n > MaxQuestions {
		return &model.InputError{Field: "num_questions", Reason: fmt.Sprintf("must be between 1 and %d, got %d", MaxQuestions, n)}
	}
	return nil
}

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/amishk599/firstround/internal/model"
	"github.com/amishk599/firstround/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeExtractor returns the document's bytes as its text.
type fakeExtractor struct {
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(_ context.Context, doc model.Document) (string, error) {
	f.calls++
	if f.err != nil {
		return "", &model.ExtractionError{Document: doc.Name, Err: f.err}
	}
	return string(doc.Data), nil
}

type generateCall struct {
	resumeText, jdText string
	n                  int
	customPrompt       string
}

type mockGenerator struct {
	questions []string
	err       error
	calls     []generateCall
}

func (m *mockGenerator) Generate(_ context.Context, resumeText, jdText string, n int, customPrompt string) ([]string, error) {
	m.calls = append(m.calls, generateCall{resumeText, jdText, n, customPrompt})
	if m.err != nil {
		return nil, m.err
	}
	return m.questions, nil
}

type updateCall struct {
	candidateID, jobID int64
	questions          []string
}

// recordingStore hands out fixed ids and records every update.
type recordingStore struct {
	candidateID, jobID int64
	creates            []model.NewRecord
	updates            []updateCall
	updateErr          error
}

func (r *recordingStore) CreateRecord(_ context.Context, rec model.NewRecord) (int64, int64, error) {
	r.creates = append(r.creates, rec)
	return r.candidateID, r.jobID, nil
}

func (r *recordingStore) UpdateQuestions(_ context.Context, candidateID, jobID int64, questions []string) error {
	r.updates = append(r.updates, updateCall{candidateID, jobID, questions})
	return r.updateErr
}

func doc(name, text string) *model.Document {
	return &model.Document{Name: name, Data: []byte(text)}
}

func TestGenerate_JaneRoeEndToEnd(t *testing.T) {
	ctx := context.Background()
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "interview.sqlite"), discardLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	questions := []string{"1. Q1", "2. Q2", "3. Q3", "4. Q4", "5. Q5"}
	gen := &mockGenerator{questions: questions}
	o := NewOrchestrator(&fakeExtractor{}, db, gen, "Job Title", discardLogger())

	state, err := o.Generate(ctx, State{}, GenerateInput{
		CandidateName:  "Jane Roe",
		Resume:         doc("resume.pdf", "R"),
		JobDescription: doc("jd.pdf", "J"),
		NumQuestions:   5,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !state.HasRecord() {
		t.Fatalf("state has no record: %+v", state)
	}
	if !reflect.DeepEqual(state.Questions, questions) {
		t.Errorf("state questions = %q, want %q", state.Questions, questions)
	}

	cand, err := db.Candidate(ctx, state.CandidateID)
	if err != nil {
		t.Fatalf("read candidate: %v", err)
	}
	if cand.Name != "Jane Roe" || cand.ResumeText != "R" {
		t.Errorf("candidate = %+v", cand)
	}

	jd, err := db.JobDescription(ctx, state.JobID)
	if err != nil {
		t.Fatalf("read job description: %v", err)
	}
	if jd.Title != "Job Title" || jd.Description != "J" {
		t.Errorf("job description = %+v", jd)
	}

	set, err := db.QuestionSet(ctx, state.CandidateID, state.JobID)
	if err != nil {
		t.Fatalf("read question set: %v", err)
	}
	if !reflect.DeepEqual(set.Questions, questions) {
		t.Errorf("stored questions = %q, want %q", set.Questions, questions)
	}

	if len(gen.calls) != 1 || gen.calls[0].customPrompt != "" || gen.calls[0].n != 5 {
		t.Errorf("generator calls = %+v", gen.calls)
	}
}

func TestRegenerate_PreservesIdentity(t *testing.T) {
	st := &recordingStore{}
	gen := &mockGenerator{questions: []string{"1. Lead?", "2. Mentor?"}}
	o := NewOrchestrator(&fakeExtractor{}, st, gen, "Job Title", discardLogger())

	prev := State{CandidateID: 7, JobID: 9, Questions: []string{"1. old"}}
	next, err := o.Regenerate(context.Background(), prev, RegenerateInput{
		CustomPrompt:   "Focus on leadership",
		Resume:         doc("resume.pdf", "R"),
		JobDescription: doc("jd.pdf", "J"),
		NumQuestions:   2,
	})
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if next.CandidateID != 7 || next.JobID != 9 {
		t.Errorf("ids = (%d, %d), want (7, 9)", next.CandidateID, next.JobID)
	}
	if len(st.creates) != 0 {
		t.Errorf("CreateRecord called %d times, want 0", len(st.creates))
	}
	want := []updateCall{{7, 9, []string{"1. Lead?", "2. Mentor?"}}}
	if !reflect.DeepEqual(st.updates, want) {
		t.Errorf("updates = %+v, want %+v", st.updates, want)
	}
	if gen.calls[0].customPrompt != "Focus on leadership" {
		t.Errorf("custom prompt = %q", gen.calls[0].customPrompt)
	}
}

func TestGenerate_InputErrorsHaveNoSideEffects(t *testing.T) {
	tests := []struct {
		name string
		in   GenerateInput
	}{
		{"blank name", GenerateInput{CandidateName: "   ", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 5}},
		{"missing resume", GenerateInput{CandidateName: "A", JobDescription: doc("j", "J"), NumQuestions: 5}},
		{"empty jd", GenerateInput{CandidateName: "A", Resume: doc("r", "R"), JobDescription: doc("j", ""), NumQuestions: 5}},
		{"zero count", GenerateInput{CandidateName: "A", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 0}},
		{"count too large", GenerateInput{CandidateName: "A", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &fakeExtractor{}
			st := &recordingStore{candidateID: 1, jobID: 1}
			gen := &mockGenerator{}
			o := NewOrchestrator(ext, st, gen, "Job Title", discardLogger())

			prev := State{CandidateID: 3, JobID: 4, Questions: []string{"1. keep"}}
			got, err := o.Generate(context.Background(), prev, tt.in)
			var inErr *model.InputError
			if !errors.As(err, &inErr) {
				t.Fatalf("expected *model.InputError, got %v", err)
			}
			if !reflect.DeepEqual(got, prev) {
				t.Errorf("state changed: %+v", got)
			}
			if ext.calls != 0 || len(st.creates) != 0 || len(gen.calls) != 0 {
				t.Errorf("side effects: extract=%d creates=%d generate=%d", ext.calls, len(st.creates), len(gen.calls))
			}
		})
	}
}

func TestRegenerate_InputErrors(t *testing.T) {
	o := NewOrchestrator(&fakeExtractor{}, &recordingStore{}, &mockGenerator{}, "Job Title", discardLogger())
	ctx := context.Background()
	full := State{CandidateID: 7, JobID: 9}

	tests := []struct {
		name  string
		state State
		in    RegenerateInput
	}{
		{"blank prompt", full, RegenerateInput{CustomPrompt: " \t", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 5}},
		{"no prior generate", State{}, RegenerateInput{CustomPrompt: "p", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 5}},
		{"missing jd", full, RegenerateInput{CustomPrompt: "p", Resume: doc("r", "R"), NumQuestions: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := o.Regenerate(ctx, tt.state, tt.in)
			var inErr *model.InputError
			if !errors.As(err, &inErr) {
				t.Fatalf("expected *model.InputError, got %v", err)
			}
			if !reflect.DeepEqual(got, tt.state) {
				t.Errorf("state changed: %+v", got)
			}
		})
	}
}

func TestGenerate_ExtractionErrorKeepsState(t *testing.T) {
	st := &recordingStore{candidateID: 1, jobID: 2}
	o := NewOrchestrator(&fakeExtractor{err: errors.New("not a pdf")}, st, &mockGenerator{}, "Job Title", discardLogger())

	prev := State{CandidateID: 3, JobID: 4}
	got, err := o.Generate(context.Background(), prev, GenerateInput{
		CandidateName: "A", Resume: doc("resume.pdf", "x"), JobDescription: doc("jd.pdf", "y"), NumQuestions: 5,
	})
	var exErr *model.ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected *model.ExtractionError, got %v", err)
	}
	if exErr.Document != "resume.pdf" {
		t.Errorf("document = %q, want resume.pdf", exErr.Document)
	}
	if !reflect.DeepEqual(got, prev) {
		t.Errorf("state changed: %+v", got)
	}
	if len(st.creates) != 0 {
		t.Errorf("CreateRecord called after extraction failure")
	}
}

func TestGenerate_GenerationErrorKeepsState(t *testing.T) {
	st := &recordingStore{candidateID: 1, jobID: 2}
	gen := &mockGenerator{err: &model.GenerationError{Err: errors.New("quota")}}
	o := NewOrchestrator(&fakeExtractor{}, st, gen, "Job Title", discardLogger())

	got, err := o.Generate(context.Background(), State{}, GenerateInput{
		CandidateName: "A", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 5,
	})
	var genErr *model.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *model.GenerationError, got %v", err)
	}
	if got.HasRecord() {
		t.Errorf("state = %+v, want empty", got)
	}
	if len(st.updates) != 0 {
		t.Errorf("UpdateQuestions called after generation failure")
	}
}

func TestGenerate_PersistFailureKeepsQuestions(t *testing.T) {
	st := &recordingStore{candidateID: 1, jobID: 2, updateErr: errors.New("disk full")}
	gen := &mockGenerator{questions: []string{"1. A"}}
	o := NewOrchestrator(&fakeExtractor{}, st, gen, "Job Title", discardLogger())

	got, err := o.Generate(context.Background(), State{}, GenerateInput{
		CandidateName: "A", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 1,
	})
	var pErr *model.PersistError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *model.PersistError, got %v", err)
	}
	want := State{CandidateID: 1, JobID: 2, Questions: []string{"1. A"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestGenerate_SeedsEmptyQuestionSet(t *testing.T) {
	st := &recordingStore{candidateID: 1, jobID: 2}
	o := NewOrchestrator(&fakeExtractor{}, st, &mockGenerator{questions: []string{}}, "Senior Engineer", discardLogger())

	_, err := o.Generate(context.Background(), State{}, GenerateInput{
		CandidateName: "  Jane Roe  ", Resume: doc("r", "R"), JobDescription: doc("j", "J"), NumQuestions: 3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rec := st.creates[0]
	if rec.Questions == nil {
		t.Error("CreateRecord got nil Questions, want empty seed")
	}
	if rec.CandidateName != "Jane Roe" || rec.JobTitle != "Senior Engineer" {
		t.Errorf("record = %+v", rec)
	}
}

package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/firstround/internal/model"
)

type mockProvider struct {
	response string
	err      error
	calls    int
	prompt   string
	block    bool
}

func (m *mockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func newTestGenerator(p LLMProvider, timeout time.Duration) *QuestionGenerator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewQuestionGenerator(p, InterviewQuestionsTemplate, timeout, logger)
}

func TestGenerate_DefaultPrompt(t *testing.T) {
	p := &mockProvider{response: "Sure!\n1. Describe your Go work.\n2. How do you test SQL code?\nThanks"}
	g := newTestGenerator(p, time.Second)

	got, err := g.Generate(context.Background(), "RESUME-TEXT", "JD-TEXT", 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1. Describe your Go work.", "2. How do you test SQL code?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	for _, s := range []string{"RESUME-TEXT", "JD-TEXT", "Generate 2 tailored"} {
		if !strings.Contains(p.prompt, s) {
			t.Errorf("prompt missing %q", s)
		}
	}
}

func TestGenerate_CustomPromptVerbatim(t *testing.T) {
	p := &mockProvider{response: "1. Leadership?"}
	g := newTestGenerator(p, time.Second)

	custom := "Focus on leadership"
	if _, err := g.Generate(context.Background(), "RESUME-TEXT", "JD-TEXT", 3, custom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.prompt != custom {
		t.Errorf("prompt = %q, want %q", p.prompt, custom)
	}
}

func TestGenerate_BlankCustomPromptUsesDefault(t *testing.T) {
	p := &mockProvider{response: "1. q"}
	g := newTestGenerator(p, time.Second)

	if _, err := g.Generate(context.Background(), "RESUME-TEXT", "JD-TEXT", 1, "   \n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(p.prompt, "RESUME-TEXT") {
		t.Errorf("expected default prompt, got %q", p.prompt)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	p := &mockProvider{err: errors.New("quota exceeded")}
	g := newTestGenerator(p, time.Second)

	_, err := g.Generate(context.Background(), "r", "j", 5, "")
	var genErr *model.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *model.GenerationError, got %v", err)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	p := &mockProvider{block: true}
	g := newTestGenerator(p, 10*time.Millisecond)

	_, err := g.Generate(context.Background(), "r", "j", 5, "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGenerate_RejectsNonPositiveCount(t *testing.T) {
	p := &mockProvider{response: "1. q"}
	g := newTestGenerator(p, time.Second)

	_, err := g.Generate(context.Background(), "r", "j", 0, "")
	var inErr *model.InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("expected *model.InputError, got %v", err)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times, want 0", p.calls)
	}
}

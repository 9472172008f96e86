package ai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/firstround/internal/model"
)

// QuestionGenerator turns a résumé and a job description into interview
// questions using an LLM.
type QuestionGenerator struct {
	provider LLMProvider
	tmpl     *template.Template
	timeout  time.Duration
	logger   *slog.Logger
}

// NewQuestionGenerator creates a generator. A zero timeout leaves the call
// bounded only by ctx.
func NewQuestionGenerator(provider LLMProvider, tmpl *template.Template, timeout time.Duration, logger *slog.Logger) *QuestionGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionGenerator{
		provider: provider,
		tmpl:     tmpl,
		timeout:  timeout,
		logger:   logger,
	}
}

// Generate asks the model for numQuestions questions and returns the numbered
// lines of its answer. A non-blank customPrompt is sent verbatim instead of the
// default prompt; the résumé and job description are not injected into it.
func (g *QuestionGenerator) Generate(ctx context.Context, resumeText, jdText string, numQuestions int, customPrompt string) ([]string, error) {
	if numQuestions < 1 {
		return nil, &model.InputError{Field: "num_questions", Reason: fmt.Sprintf("must be at least 1, got %d", numQuestions)}
	}

	prompt := customPrompt
	if strings.TrimSpace(customPrompt) == "" {
		var err error
		prompt, err = g.BuildPrompt(resumeText, jdText, numQuestions)
		if err != nil {
			return nil, &model.GenerationError{Err: err}
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, &model.GenerationError{Err: fmt.Errorf("llm complete: %w", err)}
	}

	questions := ParseQuestions(raw, numQuestions)
	g.logger.Debug("generated questions",
		"custom_prompt", prompt == customPrompt,
		"requested", numQuestions,
		"parsed", len(questions),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return questions, nil
}

// BuildPrompt renders the default prompt.
func (g *QuestionGenerator) BuildPrompt(resumeText, jdText string, numQuestions int) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, promptData{
		NumQuestions:   numQuestions,
		JobDescription: jdText,
		Resume:         resumeText,
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/interview_questions.md
var interviewQuestionsPromptRaw string

// InterviewQuestionsTemplate is the parsed default prompt. It is rendered with
// a promptData value.
var InterviewQuestionsTemplate = template.Must(template.New("interview_questions").Parse(interviewQuestionsPromptRaw))

type promptData struct {
	NumQuestions   int
	JobDescription string
	Resume         string
}

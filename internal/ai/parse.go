package ai

import (
	"strconv"
	"strings"
)

// LineVerdict is the classification of one line of a model response.
type LineVerdict struct {
	Line    string // trimmed line
	Kept    bool
	Ordinal int // matched list number, zero when dropped
}

// ClassifyLine keeps a line when, after trimming, it starts with "<i>." for
// some i in 1..numQuestions.
func ClassifyLine(line string, numQuestions int) LineVerdict {
	trimmed := strings.TrimSpace(line)
	for i := 1; i <= numQuestions; i++ {
		if strings.HasPrefix(trimmed, strconv.Itoa(i)+".") {
			return LineVerdict{Line: trimmed, Kept: true, Ordinal: i}
		}
	}
	return LineVerdict{Line: trimmed}
}

// ClassifyResponse returns one verdict per line of text, in order.
func ClassifyResponse(text string, numQuestions int) []LineVerdict {
	lines := strings.Split(text, "\n")
	verdicts := make([]LineVerdict, len(lines))
	for i, line := range lines {
		verdicts[i] = ClassifyLine(line, numQuestions)
	}
	return verdicts
}

// ParseQuestions returns the kept lines of text in order. The count is best
// effort: a model that skips or repeats numbers yields fewer or more lines.
func ParseQuestions(text string, numQuestions int) []string {
	questions := []string{}
	for _, v := range ClassifyResponse(text, numQuestions) {
		if v.Kept {
			questions = append(questions, v.Line)
		}
	}
	return questions
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/firstround/internal/model"
	"github.com/amishk599/firstround/internal/session"
)

// Orchestrator runs the two session actions offered by the form.
type Orchestrator interface {
	Generate(ctx context.Context, prev session.State, in session.GenerateInput) (session.State, error)
	Regenerate(ctx context.Context, prev session.State, in session.RegenerateInput) (session.State, error)
}

type field int

const (
	fieldName field = iota
	fieldResume
	fieldJD
	fieldNumQuestions
	fieldPrompt
	numFields
)

var fieldLabels = [numFields]string{
	fieldName:         "Candidate Name",
	fieldResume:       "Resume (PDF)",
	fieldJD:           "Job Description (PDF)",
	fieldNumQuestions: "Number of Questions",
	fieldPrompt:       "Custom Prompt",
}

type action int

const (
	actionGenerate action = iota
	actionRegenerate
)

// Lines taken by everything except the results pane.
const formChromeHeight = 18

// actionDoneMsg is sent when an async Generate or Regenerate completes.
type actionDoneMsg struct {
	action action
	state  session.State
	err    error
}

type formModel struct {
	orch   Orchestrator
	state  session.State
	inputs [fieldPrompt]textinput.Model
	prompt textarea.Model
	focus  field

	results viewport.Model
	width   int
	height  int
	ready   bool

	busy    bool
	frame   int
	errMsg  string
	success string
}

func newFormModel(orch Orchestrator, defaultNumQuestions int) formModel {
	m := formModel{orch: orch}

	placeholders := [fieldPrompt]string{
		fieldName:         "Jane Roe",
		fieldResume:       "path/to/resume.pdf",
		fieldJD:           "path/to/job_description.pdf",
		fieldNumQuestions: "1-10",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.Width = 48
		m.inputs[i] = ti
	}
	m.inputs[fieldNumQuestions].CharLimit = 2
	m.inputs[fieldNumQuestions].Width = 4
	m.inputs[fieldNumQuestions].SetValue(strconv.Itoa(defaultNumQuestions))

	m.prompt = textarea.New()
	m.prompt.Placeholder = "e.g. Focus on leadership and system design"
	m.prompt.ShowLineNumbers = false
	m.prompt.SetWidth(60)
	m.prompt.SetHeight(3)

	m.results = viewport.New(60, 5)
	m.inputs[fieldName].Focus()
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.Width = max(m.width-4, 20)
		m.results.Height = max(m.height-formChromeHeight, 5)
		m.prompt.SetWidth(max(m.width-28, 20))
		m.ready = true
		m.results.SetContent(m.renderResults())
		return m, nil

	case actionDoneMsg:
		return m.finishAction(msg), nil

	case spinnerTickMsg:
		if !m.busy {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+g":
			return m.startAction(actionGenerate)
		case "ctrl+r":
			return m.startAction(actionRegenerate)
		case "tab":
			cmd := m.setFocus((m.focus + 1) % numFields)
			return m, cmd
		case "shift+tab":
			cmd := m.setFocus((m.focus + numFields - 1) % numFields)
			return m, cmd
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		case "up", "down":
			if m.focus == fieldNumQuestions {
				m.stepNumQuestions(msg.String())
				return m, nil
			}
		}
	}

	cmd := m.updateFocused(msg)
	return m, cmd
}

func (m *formModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == fieldPrompt {
		m.prompt, cmd = m.prompt.Update(msg)
		return cmd
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *formModel) setFocus(f field) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.prompt.Blur()
	m.focus = f
	if f == fieldPrompt {
		return m.prompt.Focus()
	}
	return m.inputs[f].Focus()
}

// stepNumQuestions moves the question count like a slider, within 1..MaxQuestions.
func (m *formModel) stepNumQuestions(key string) {
	n, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldNumQuestions].Value()))
	if err != nil {
		n = 1
	} else if key == "up" {
		n++
	} else {
		n--
	}
	n = clamp(n, 1, session.MaxQuestions)
	m.inputs[fieldNumQuestions].SetValue(strconv.Itoa(n))
}

func (m formModel) startAction(a action) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.frame = 0
	m.errMsg = ""
	m.success = ""
	return m, tea.Batch(m.actionCmd(a), tick())
}

func (m formModel) actionCmd(a action) tea.Cmd {
	orch := m.orch
	prev := m.state
	name := m.inputs[fieldName].Value()
	resumePath := m.inputs[fieldResume].Value()
	jdPath := m.inputs[fieldJD].Value()
	customPrompt := m.prompt.Value()
	n, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldNumQuestions].Value()))
	if err != nil {
		n = 0
	}

	return func() tea.Msg {
		resume, err := loadDocument("resume", resumePath)
		if err != nil {
			return actionDoneMsg{action: a, state: prev, err: err}
		}
		jd, err := loadDocument("job_description", jdPath)
		if err != nil {
			return actionDoneMsg{action: a, state: prev, err: err}
		}

		ctx := context.Background()
		var next session.State
		if a == actionGenerate {
			next, err = orch.Generate(ctx, prev, session.GenerateInput{
				CandidateName:  name,
				Resume:         resume,
				JobDescription: jd,
				NumQuestions:   n,
			})
		} else {
			next, err = orch.Regenerate(ctx, prev, session.RegenerateInput{
				CustomPrompt:   customPrompt,
				Resume:         resume,
				JobDescription: jd,
				NumQuestions:   n,
			})
		}
		return actionDoneMsg{action: a, state: next, err: err}
	}
}

func (m formModel) finishAction(msg actionDoneMsg) formModel {
	m.busy = false
	m.state = msg.state
	if msg.err != nil {
		m.errMsg = describeError(msg.err)
	} else if msg.action == actionRegenerate {
		m.success = "Questions regenerated successfully!"
	} else {
		m.success = fmt.Sprintf("Generated %d questions.", len(msg.state.Questions))
	}
	m.results.SetContent(m.renderResults())
	m.results.GotoTop()
	return m
}

// loadDocument reads the file at path. A blank path yields a nil document so
// the orchestrator reports it as missing.
func loadDocument(name, path string) (*model.Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.InputError{Field: name, Reason: err.Error()}
	}
	return &model.Document{Name: filepath.Base(path), Data: data}, nil
}

func describeError(err error) string {
	var inErr *model.InputError
	var exErr *model.ExtractionError
	var genErr *model.GenerationError
	var pErr *model.PersistError
	switch {
	case errors.As(err, &inErr):
		return "Please check your input: " + inErr.Error()
	case errors.As(err, &exErr):
		return "Could not read document: " + exErr.Error()
	case errors.As(err, &genErr):
		return "Error generating questions: " + genErr.Err.Error()
	case errors.As(err, &pErr):
		return "Questions were generated but not saved: " + pErr.Error()
	default:
		return err.Error()
	}
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Interview Question Generator"))
	b.WriteByte('\n')

	for f := fieldName; f < numFields; f++ {
		label := labelStyle
		if f == m.focus {
			label = focusedLabelStyle
		}
		var input string
		if f == fieldPrompt {
			input = m.prompt.View()
		} else {
			input = m.inputs[f].View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fieldLabels[f]), input))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	switch {
	case m.busy:
		b.WriteString("  " + spinnerStyle.Render(spinnerFrames[m.frame]) + " Generating questions...")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render("⚠ " + m.errMsg))
	case m.success != "":
		b.WriteString(successStyle.Render("✓ " + m.success))
	}
	b.WriteByte('\n')

	border := inactiveBorderStyle
	if len(m.state.Questions) > 0 {
		border = activeBorderStyle
	}
	b.WriteString(border.Width(m.results.Width).Render(m.results.View()))
	b.WriteByte('\n')

	status := " tab/shift+tab move  ↑/↓ count  ctrl+g generate  ctrl+r regenerate  pgup/pgdn scroll  esc quit"
	b.WriteString(statusBarStyle.Width(max(m.width, len(status))).Render(status))
	return b.String()
}

func (m formModel) renderResults() string {
	if len(m.state.Questions) == 0 {
		return hintStyle.Render("  Generated questions will appear here.")
	}
	wrapWidth := max(m.results.Width-2, 20)
	var b strings.Builder
	b.WriteString(hintStyle.Render(fmt.Sprintf("  candidate #%d · job #%d", m.state.CandidateID, m.state.JobID)))
	b.WriteString("\n\n")
	for _, q := range m.state.Questions {
		b.WriteString(questionStyle.Render(wordWrap(q, wrapWidth)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run launches the interactive question generator form in the alt screen.
func Run(orch Orchestrator, defaultNumQuestions int) error {
	p := tea.NewProgram(newFormModel(orch, defaultNumQuestions), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/quote"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/wizard"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const (
	fieldSpecies = iota
	fieldSize
	fieldFeatures
	fieldName
	fieldEmail
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Species", "Size", "Features (comma separated)", "Name", "Email", "Notes"}

// fields shown on each wizard step
var stepFields = [wizard.LastStep][]int{
	{fieldSpecies},
	{fieldSize, fieldFeatures},
	{fieldName, fieldEmail, fieldNotes},
}

// Model is the bubbletea model of the enclosure configurator.
type Model struct {
	wiz    wizard.Wizard
	inputs [fieldCount]textinput.Model
	focus  int

	keys keyMap
	help help.Model
	err  string

	done    bool
	aborted bool
}

// New builds a configurator prefilled from initial.
func New(initial quote.Request) Model {
	m := Model{wiz: wizard.New(), keys: defaultKeys(), help: help.New()}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		ti.Width = 48
		m.inputs[i] = ti
	}
	m.inputs[fieldSpecies].Placeholder = "Ball Python"
	m.inputs[fieldSize].Placeholder = "4x2x2"
	m.inputs[fieldFeatures].Placeholder = "heat panel, bioactive"

	m.inputs[fieldSpecies].SetValue(initial.Species)
	m.inputs[fieldSize].SetValue(initial.Size)
	m.inputs[fieldFeatures].SetValue(strings.Join(initial.Features, ", "))
	m.inputs[fieldName].SetValue(initial.Name)
	m.inputs[fieldEmail].SetValue(initial.Email)
	m.inputs[fieldNotes].SetValue(initial.Notes)

	m.focusCurrent()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m.next()
		case key.Matches(msg, m.keys.Back):
			m.err = ""
			m.wiz, _ = m.wiz.Prev()
			m.focus = 0
			cmd := m.focusCurrent()
			return m, cmd
		case key.Matches(msg, m.keys.Field):
			n := len(stepFields[m.wiz.Step()-1])
			if msg.String() == "up" {
				m.focus = (m.focus + n - 1) % n
			} else {
				m.focus = (m.focus + 1) % n
			}
			cmd := m.focusCurrent()
			return m, cmd
		}
	}

	idx := m.focusedField()
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m Model) next() (tea.Model, tea.Cmd) {
	if msg := m.validateStep(); msg != "" {
		m.err = msg
		return m, nil
	}
	m.err = ""

	w, t := m.wiz.Next()
	m.wiz = w
	logx.Debug().Int("step", w.Step()).Str("transition", t.String()).Msg("configurator step")
	if t == wizard.TransitionQuote {
		m.done = true
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		return m, tea.Quit
	}
	m.focus = 0
	cmd := m.focusCurrent()
	return m, cmd
}

func (m Model) validateStep() string {
	switch m.wiz.Step() {
	case 1:
		if strings.TrimSpace(m.inputs[fieldSpecies].Value()) == "" {
			return "Please tell us which species the enclosure is for."
		}
	case 2:
		if strings.TrimSpace(m.inputs[fieldSize].Value()) == "" {
			return "Please pick an enclosure size."
		}
	}
	return ""
}

func (m *Model) focusCurrent() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.inputs[m.focusedField()].Focus()
}

func (m Model) focusedField() int {
	fields := stepFields[m.wiz.Step()-1]
	if m.focus >= len(fields) {
		return fields[0]
	}
	return fields[m.focus]
}

func (m Model) View() string {
	v := m.wiz.View()

	indicators := make([]string, 0, len(v.Indicators))
	for i, ind := range v.Indicators {
		label := fmt.Sprintf("%d %s", i+1, v.Panels[i].Title)
		indicators = append(indicators, indicatorStyles[ind].Render(label))
	}

	panel := v.Current()
	var body strings.Builder
	body.WriteString(titleStyle.Render(panel.Title) + "\n")
	body.WriteString(promptStyle.Render(panel.Prompt) + "\n\n")
	for _, f := range stepFields[panel.Step-1] {
		body.WriteString(fieldLabels[f] + "\n")
		body.WriteString(m.inputs[f].View() + "\n")
	}

	back := buttonStyle.Render("Back")
	if v.BackDisabled {
		back = disabledStyle.Render("Back")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, back, " ", buttonStyle.Render(v.NextLabel))

	parts := []string{
		titleStyle.Render("Enclosure Configurator"),
		lipgloss.JoinHorizontal(lipgloss.Top, indicators...),
		panelStyle.Render(body.String()),
	}
	if m.err != "" {
		parts = append(parts, errorStyle.Render(m.err))
	}
	parts = append(parts, buttons, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// Step is the wizard step on screen.
func (m Model) Step() int { return m.wiz.Step() }

// Done reports that the quote was requested from the last step.
func (m Model) Done() bool { return m.done }

func (m Model) Aborted() bool { return m.aborted }

// Request returns the answers collected so far.
func (m Model) Request() quote.Request {
	var features []string
	for _, f := range strings.Split(m.inputs[fieldFeatures].Value(), ",") {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return quote.Request{
		Species:  strings.TrimSpace(m.inputs[fieldSpecies].Value()),
		Size:     strings.TrimSpace(m.inputs[fieldSize].Value()),
		Features: features,
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Notes:    strings.TrimSpace(m.inputs[fieldNotes].Value()),
	}
}

// Run shows the configurator until the quote is requested or the user quits.
func Run(ctx context.Context, initial quote.Request) (quote.Request, error) {
	final, err := tea.NewProgram(New(initial), tea.WithContext(ctx)).Run()
	if err != nil {
		return quote.Request{}, fmt.Errorf("run configurator: %w", err)
	}
	m, ok := final.(Model)
	if !ok || !m.Done() {
		return quote.Request{}, errx.Validation("quote request cancelled")
	}
	return m.Request(), nil
}

package wizard

// Indicator styles for the step header.
const (
	IndicatorPending   = "pending"
	IndicatorActive    = "active"
	IndicatorCompleted = "completed"
)

// Panel is one configurator step.
type Panel struct {
	Step    int
	Title   string
	Prompt  string
	Visible bool
}

// View is the render projection of a wizard position.
type View struct {
	Step         int
	Panels       []Panel
	Indicators   []string
	BackDisabled bool
	NextLabel    string
}

var panels = [LastStep]struct{ title, prompt string }{
	{"Species", "Which animal is the enclosure for?"},
	{"Enclosure", "Pick a size and the features you need."},
	{"Details", "Anything else we should know before drafting the quote?"},
}

// View projects the wizard into panel visibility, indicator styling and
// button state. It has no side effects.
func (w Wizard) View() View {
	cur := w.Step()
	v := View{
		Step:         cur,
		Panels:       make([]Panel, 0, LastStep),
		Indicators:   make([]string, 0, LastStep),
		BackDisabled: cur == FirstStep,
		NextLabel:    LabelNext,
	}
	if cur == LastStep {
		v.NextLabel = LabelRequest
	}

	for i, p := range panels {
		step := i + 1
		v.Panels = append(v.Panels, Panel{Step: step, Title: p.title, Prompt: p.prompt, Visible: step == cur})

		switch {
		case step == cur:
			v.Indicators = append(v.Indicators, IndicatorActive)
		case step < cur:
			v.Indicators = append(v.Indicators, IndicatorCompleted)
		default:
			v.Indicators = append(v.Indicators, IndicatorPending)
		}
	}
	return v
}

// Current returns the visible panel.
func (v View) Current() Panel {
	return v.Panels[v.Step-1]
}

package wizard

const (
	FirstStep = 1
	LastStep  = 3
)

const (
	LabelNext    = "Next Step"
	LabelRequest = "Request Quote"
)

// Transition reports what a Next call did.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionAdvanced
	TransitionBack
	// TransitionQuote means Next was pressed on the last step; the caller should
	// open the quote request instead of advancing.
	TransitionQuote
)

func (t Transition) String() string {
	switch t {
	case TransitionAdvanced:
		return "advanced"
	case TransitionBack:
		return "back"
	case TransitionQuote:
		return "quote"
	default:
		return "none"
	}
}

// Wizard is the configurator step counter. The zero value is normalised to
// the first step by every method.
type Wizard struct {
	step int
}

func New() Wizard { return Wizard{step: FirstStep} }

// At returns a wizard positioned at step, clamped to the valid range.
func At(step int) Wizard { return Wizard{step: clamp(step)} }

func (w Wizard) Step() int { return clamp(w.step) }

func (w Wizard) Next() (Wizard, Transition) {
	cur := w.Step()
	if cur == LastStep {
		return Wizard{step: cur}, TransitionQuote
	}
	return Wizard{step: clamp(cur + 1)}, TransitionAdvanced
}

func (w Wizard) Prev() (Wizard, Transition) {
	cur := w.Step()
	if cur == FirstStep {
		return Wizard{step: cur}, TransitionNone
	}
	return Wizard{step: clamp(cur - 1)}, TransitionBack
}

func clamp(step int) int {
	switch {
	case step < FirstStep:
		return FirstStep
	case step > LastStep:
		return LastStep
	default:
		return step
	}
}

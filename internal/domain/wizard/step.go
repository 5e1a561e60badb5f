package wizard

import "fmt"

// Step is a position in the fixed four-step wizard sequence.
type Step int

const (
	StepPersonal Step = iota + 1
	StepContact
	StepSocial
	StepProfessional
)

const (
	FirstStep = StepPersonal
	LastStep  = StepProfessional
	StepCount = int(LastStep)
)

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Next saturates at the last step.
func (s Step) Next() Step {
	if s >= LastStep {
		return LastStep
	}
	return s + 1
}

// Prev saturates at the first step.
func (s Step) Prev() Step {
	if s <= FirstStep {
		return FirstStep
	}
	return s - 1
}

func (s Step) IsLast() bool {
	return s == LastStep
}

// Progress is the completion percentage shown above the form.
func (s Step) Progress() int {
	return int(s) * 100 / StepCount
}

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepContact:
		return "contact"
	case StepSocial:
		return "social"
	case StepProfessional:
		return "professional"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

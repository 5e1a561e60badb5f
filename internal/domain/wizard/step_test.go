package wizard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStep_NextPrevSaturate(t *testing.T) {
	for p := FirstStep; p <= LastStep; p++ {
		assert.Equal(t, min(p+1, LastStep), p.Next(), "next of %s", p)
		assert.Equal(t, max(p-1, FirstStep), p.Prev(), "prev of %s", p)
	}
}

func TestStep_ProgressAndNames(t *testing.T) {
	assert.Equal(t, 25, StepPersonal.Progress())
	assert.Equal(t, 100, StepProfessional.Progress())
	assert.Equal(t, "social", StepSocial.String())
	assert.Equal(t, "step(9)", Step(9).String())
	assert.False(t, Step(0).Valid())
	assert.True(t, LastStep.IsLast())
}

func TestSession_Normalize(t *testing.T) {
	s := NewSession(uuid.New(), time.Now())
	s.Step = 7
	s.Phase = PhaseSubmitting
	s.Draft.Skills = nil

	s.Normalize()

	assert.Equal(t, LastStep, s.Step)
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.NotNil(t, s.Draft.Skills)

	s.Step = -1
	s.Phase = "bogus"
	s.Normalize()
	assert.Equal(t, FirstStep, s.Step)
	assert.Equal(t, PhaseEditing, s.Phase)
}

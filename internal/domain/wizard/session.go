package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/personal-card/internal/domain/profile"
)

var ErrSessionNotFound = errors.New("wizard session not found")

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
	PhaseFailed     Phase = "failed"
)

// Session is the persisted state of one wizard run between requests.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Step      Step          `json:"step"`
	Phase     Phase         `json:"phase"`
	Draft     profile.Draft `json:"draft"`
	Notice    string        `json:"notice,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewSession(ownerID uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Step:      FirstStep,
		Phase:     PhaseEditing,
		Draft:     profile.NewDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize repairs a session decoded from storage: out-of-range steps are clamped and an
// interrupted submission is treated as failed.
func (s *Session) Normalize() {
	switch {
	case s.Step < FirstStep:
		s.Step = FirstStep
	case s.Step > LastStep:
		s.Step = LastStep
	}
	switch s.Phase {
	case PhaseEditing, PhaseSubmitted, PhaseFailed:
	case PhaseSubmitting:
		s.Phase = PhaseFailed
	default:
		s.Phase = PhaseEditing
	}
	s.Draft = s.Draft.Normalize()
}

type Repository interface {
	Save(ctx context.Context, s *Session) error
	// FindByID returns ErrSessionNotFound for sessions that expired or belong to another owner.
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

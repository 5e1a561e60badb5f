package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/personal-card/internal/domain/profile"
)

type ProfileEventType string

const (
	ProfileEventTypeCreated ProfileEventType = "profile.created"
	ProfileEventTypeDeleted ProfileEventType = "profile.deleted"
)

type ProfileEventPayload struct {
	EventType     ProfileEventType `json:"event_type"`
	ProfileID     uuid.UUID        `json:"profile_id"`
	OwnerID       uuid.UUID        `json:"owner_id"`
	PictureURL    string           `json:"picture_url,omitempty"`
	PictureObject string           `json:"picture_object,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

func newProfilePayload(t ProfileEventType, r *profile.Record, at time.Time) ProfileEventPayload {
	return ProfileEventPayload{
		EventType:     t,
		ProfileID:     r.ID,
		OwnerID:       r.UserID,
		PictureURL:    r.PictureURL,
		PictureObject: r.PictureObject,
		OccurredAt:    at.UTC(),
	}
}

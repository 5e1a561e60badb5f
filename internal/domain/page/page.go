package page

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPageNotFound = errors.New("page not found")

// Page is the dashboard entry created alongside each submitted profile.
type Page struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SharePath is the public path of the page, relative to the site origin.
func (p *Page) SharePath() string {
	return "/page/" + p.ID.String()
}

type Repository interface {
	// ListByOwner returns pages newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Page, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Page, error)
}

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// Record is a profile row in the shape the store expects. Experiences and Education are
// free-form JSON array columns; everything that reads them goes through Deserialize.
type Record struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	FullName            string `json:"full_name"`
	Position            string `json:"position"`
	Organization        string `json:"organization"`
	Bio                 string `json:"bio"`
	PictureURL          string `json:"profile_picture_url"`
	PictureObject       string `json:"profile_picture_object"`
	PictureThumbnailURL string `json:"picture_thumbnail_url"`

	Phone    string `json:"phone"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`

	LinkedIn string `json:"linkedin"`
	TikTok   string `json:"tiktok"`
	Twitter  string `json:"twitter"`
	Facebook string `json:"facebook"`
	YouTube  string `json:"youtube"`
	Website  string `json:"website"`

	Skills      []string        `json:"skills"`
	Interests   []string        `json:"interests"`
	Experiences json.RawMessage `json:"experiences"`
	Education   json.RawMessage `json:"education"`

	CreatedAt time.Time `json:"created_at"`

	// PageID is the dashboard page created with the profile. Set by Insert.
	PageID uuid.UUID `json:"page_id"`
}

// PageTitle is the dashboard title for the page created alongside the profile.
func (r *Record) PageTitle() string {
	if r.FullName == "" {
		return "Untitled page"
	}
	return r.FullName
}

type Repository interface {
	// Insert stores the profile together with its dashboard page.
	Insert(ctx context.Context, r *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	SetThumbnail(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Record, error)
}

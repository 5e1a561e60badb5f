package http

import (
	"time"

	"github.com/google/uuid"

	dashboardUC "github.com/khoahotran/personal-card/internal/application/usecase/dashboard"
	"github.com/khoahotran/personal-card/internal/domain/page"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/internal/domain/wizard"
)

// Wizard DTOs

type PictureDTO struct {
	Kind     profile.PictureKind `json:"kind"`
	Filename string              `json:"filename,omitempty"`
	URL      string              `json:"url,omitempty"`
}

// DraftDTO mirrors profile.Draft without the raw bytes of a staged picture.
type DraftDTO struct {
	FullName     string     `json:"full_name"`
	Position     string     `json:"position"`
	Organization string     `json:"organization"`
	Bio          string     `json:"bio"`
	Picture      PictureDTO `json:"picture"`

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

	Skills      []string             `json:"skills"`
	Interests   []string             `json:"interests"`
	Experiences []profile.Experience `json:"experiences"`
	Education   []profile.Education  `json:"education"`
}

type SessionDTO struct {
	ID        uuid.UUID    `json:"id"`
	Step      int          `json:"step"`
	StepName  string       `json:"step_name"`
	StepCount int          `json:"step_count"`
	Progress  int          `json:"progress"`
	Phase     wizard.Phase `json:"phase"`
	Notice    string       `json:"notice,omitempty"`
	Draft     DraftDTO     `json:"draft"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next back skip"`
}

type EditListRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type SubmitResponse struct {
	ProfileID uuid.UUID `json:"profile_id"`
	PageID    uuid.UUID `json:"page_id"`
	Redirect  string    `json:"redirect"`
}

func toPictureDTO(p profile.Picture) PictureDTO {
	dto := PictureDTO{Kind: p.Kind()}
	if _, filename, ok := p.Pending(); ok {
		dto.Filename = filename
	}
	if url, ok := p.URL(); ok {
		dto.URL = url
	}
	return dto
}

func ToDraftDTO(d profile.Draft) DraftDTO {
	d = d.Normalize()
	return DraftDTO{
		FullName:     d.FullName,
		Position:     d.Position,
		Organization: d.Organization,
		Bio:          d.Bio,
		Picture:      toPictureDTO(d.Picture),
		Phone:        d.Phone,
		Email:        d.Email,
		WhatsApp:     d.WhatsApp,
		Telegram:     d.Telegram,
		LinkedIn:     d.LinkedIn,
		TikTok:       d.TikTok,
		Twitter:      d.Twitter,
		Facebook:     d.Facebook,
		YouTube:      d.YouTube,
		Website:      d.Website,
		Skills:       d.Skills,
		Interests:    d.Interests,
		Experiences:  d.Experiences,
		Education:    d.Education,
	}
}

func ToSessionDTO(s *wizard.Session) SessionDTO {
	return SessionDTO{
		ID:        s.ID,
		Step:      int(s.Step),
		StepName:  s.Step.String(),
		StepCount: wizard.StepCount,
		Progress:  s.Step.Progress(),
		Phase:     s.Phase,
		Notice:    s.Notice,
		Draft:     ToDraftDTO(s.Draft),
		UpdatedAt: s.UpdatedAt,
	}
}

// Dashboard DTOs

type PageDTO struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Title     string    `json:"title"`
	SharePath string    `json:"share_path"`
	CreatedAt time.Time `json:"created_at"`
}

func ToPageDTO(p *page.Page) PageDTO {
	return PageDTO{
		ID:        p.ID,
		ProfileID: p.ProfileID,
		Title:     p.Title,
		SharePath: p.SharePath(),
		CreatedAt: p.CreatedAt,
	}
}

type PublicPageDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Profile      DraftDTO  `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToPublicPageDTO(out *dashboardUC.GetPublicPageOutput) PublicPageDTO {
	return PublicPageDTO{
		ID:           out.Page.ID,
		Title:        out.Page.Title,
		ThumbnailURL: out.ThumbnailURL,
		Profile:      ToDraftDTO(out.Profile),
		CreatedAt:    out.Page.CreatedAt,
	}
}

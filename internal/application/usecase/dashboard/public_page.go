package dashboard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/domain/page"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

// GetPublicPageUseCase renders a shared page for anonymous visitors.
type GetPublicPageUseCase struct {
	pages    page.Repository
	profiles profile.Repository
	policy   *bluemonday.Policy
	logger   logger.Logger
}

func NewGetPublicPageUseCase(pages page.Repository, profiles profile.Repository, log logger.Logger) *GetPublicPageUseCase {
	return &GetPublicPageUseCase{
		pages:    pages,
		profiles: profiles,
		policy:   bluemonday.StrictPolicy(),
		logger:   log,
	}
}

type GetPublicPageOutput struct {
	Page         *page.Page
	Profile      profile.Draft
	ThumbnailURL string
}

func (uc *GetPublicPageUseCase) Execute(ctx context.Context, pageID uuid.UUID) (*GetPublicPageOutput, error) {
	ctx, span := tracer.Start(ctx, "GetPublicPage")
	defer span.End()

	p, err := uc.pages.FindByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, page.ErrPageNotFound) {
			return nil, apperror.NewNotFound("page", pageID.String())
		}
		return nil, apperror.NewInternal("failed to load page", err)
	}

	rec, err := uc.profiles.FindByID(ctx, p.ProfileID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound("page", pageID.String())
		}
		uc.logger.Error("Failed to load profile for public page", err, zap.String("page_id", pageID.String()))
		return nil, apperror.NewInternal("failed to load profile", err)
	}

	// the repository already reported any dropped list entries
	d := profile.Deserialize(rec)
	d.Bio = uc.policy.Sanitize(d.Bio)

	return &GetPublicPageOutput{Page: p, Profile: d, ThumbnailURL: rec.PictureThumbnailURL}, nil
}

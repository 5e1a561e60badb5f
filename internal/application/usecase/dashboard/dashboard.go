package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/domain/page"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var tracer = otel.Tracer("dashboard_usecase")

// DeletionNotifier is told about removed profiles so their stored files can be cleaned up.
type DeletionNotifier interface {
	ProfileDeleted(ctx context.Context, r *profile.Record) error
}

type DashboardUseCase struct {
	pages        page.Repository
	profiles     profile.Repository
	notifier     DeletionNotifier
	publicOrigin string
	logger       logger.Logger
}

func NewDashboardUseCase(pages page.Repository, profiles profile.Repository, notifier DeletionNotifier, publicOrigin string, log logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		pages:        pages,
		profiles:     profiles,
		notifier:     notifier,
		publicOrigin: strings.TrimSuffix(publicOrigin, "/"),
		logger:       log,
	}
}

type ListPagesInput struct {
	Identity auth.Identity
	Limit    int
	Offset   int
}

func (uc *DashboardUseCase) ListPages(ctx context.Context, in ListPagesInput) ([]*page.Page, error) {
	if in.Identity.IsZero() {
		return nil, apperror.NewUnauthorized("sign in to view your pages", nil)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	limit = min(limit, maxPageLimit)
	offset := max(in.Offset, 0)

	pages, err := uc.pages.ListByOwner(ctx, in.Identity.UserID, limit, offset)
	if err != nil {
		return nil, apperror.NewInternal("failed to list pages", err)
	}
	return pages, nil
}

// DeletePage removes the page together with the profile behind it.
func (uc *DashboardUseCase) DeletePage(ctx context.Context, identity auth.Identity, pageID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeletePage")
	defer span.End()

	p, err := uc.ownedPage(ctx, identity, pageID)
	if err != nil {
		return err
	}

	rec, err := uc.profiles.Delete(ctx, p.ProfileID, identity.UserID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, profile.ErrProfileNotFound) {
			return apperror.NewNotFound("page", pageID.String())
		}
		return apperror.NewInternal("failed to delete page", err)
	}

	l := uc.logger.With(zap.String("page_id", pageID.String()), zap.String("profile_id", rec.ID.String()))
	l.Info("Page deleted")

	if uc.notifier != nil {
		if err := uc.notifier.ProfileDeleted(ctx, rec); err != nil {
			l.Error("Failed to publish profile deletion", err)
		}
	}
	return nil
}

type ShareOutput struct {
	URL string
}

// SharePage returns the public link of one of the caller's pages.
func (uc *DashboardUseCase) SharePage(ctx context.Context, identity auth.Identity, pageID uuid.UUID) (*ShareOutput, error) {
	p, err := uc.ownedPage(ctx, identity, pageID)
	if err != nil {
		return nil, err
	}
	return &ShareOutput{URL: uc.publicOrigin + p.SharePath()}, nil
}

func (uc *DashboardUseCase) ownedPage(ctx context.Context, identity auth.Identity, pageID uuid.UUID) (*page.Page, error) {
	if identity.IsZero() {
		return nil, apperror.NewUnauthorized("sign in to manage your pages", nil)
	}
	p, err := uc.pages.FindByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, page.ErrPageNotFound) {
			return nil, apperror.NewNotFound("page", pageID.String())
		}
		return nil, apperror.NewInternal("failed to load page", err)
	}
	// someone else's page is reported as missing
	if p.UserID != identity.UserID {
		return nil, apperror.NewNotFound("page", pageID.String())
	}
	return p, nil
}

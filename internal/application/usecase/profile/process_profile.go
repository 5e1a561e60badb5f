package profile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/adapters/event"
	"github.com/khoahotran/personal-card/internal/application/service"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/logger"
)

// ThumbnailTransformation crops a square around the detected face.
const ThumbnailTransformation = "c_fill,g_face,w_400,h_400"

// ProcessProfileUseCase handles profile events in the worker.
type ProcessProfileUseCase struct {
	profileRepo profile.Repository
	store       service.ObjectStore
	logger      logger.Logger
}

func NewProcessProfileUseCase(r profile.Repository, s service.ObjectStore, log logger.Logger) *ProcessProfileUseCase {
	return &ProcessProfileUseCase{profileRepo: r, store: s, logger: log}
}

func (uc *ProcessProfileUseCase) Execute(ctx context.Context, payload event.ProfileEventPayload) error {
	l := uc.logger.With(zap.String("profile_id", payload.ProfileID.String()), zap.String("event_type", string(payload.EventType)))
	l.Info("Worker UseCase processing profile event")

	switch payload.EventType {
	case event.ProfileEventTypeCreated:
		return uc.makeThumbnail(ctx, l, payload)
	case event.ProfileEventTypeDeleted:
		return uc.removePicture(ctx, l, payload)
	default:
		l.Warn("Unknown profile event type, skipping")
		return nil
	}
}

func (uc *ProcessProfileUseCase) makeThumbnail(ctx context.Context, l logger.Logger, payload event.ProfileEventPayload) error {
	p, err := uc.profileRepo.FindByID(ctx, payload.ProfileID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			l.Warn("Profile not found, skipping event")
			return nil
		}
		return apperror.NewInternal("failed to get profile", err)
	}

	if p.PictureObject == "" {
		l.Info("Profile has no uploaded picture, skipping")
		return nil
	}
	if p.PictureThumbnailURL != "" {
		l.Info("Profile already has a thumbnail, skipping")
		return nil
	}

	thumbURL, err := uc.store.PublicURL(p.PictureObject, ThumbnailTransformation)
	if err != nil {
		return apperror.NewInternal("failed to build thumbnail URL", err)
	}

	if err := uc.profileRepo.SetThumbnail(ctx, p.ID, thumbURL); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			l.Warn("Profile deleted while processing, skipping")
			return nil
		}
		return apperror.NewInternal("failed to store thumbnail URL", err)
	}

	l.Info("Successfully processed profile picture", zap.String("thumbnail_url", thumbURL))
	return nil
}

func (uc *ProcessProfileUseCase) removePicture(ctx context.Context, l logger.Logger, payload event.ProfileEventPayload) error {
	if payload.PictureObject == "" {
		return nil
	}
	if err := uc.store.Delete(ctx, payload.PictureObject); err != nil {
		return apperror.NewInternal("failed to delete stored picture", err)
	}
	l.Info("Removed stored picture", zap.String("object", payload.PictureObject))
	return nil
}

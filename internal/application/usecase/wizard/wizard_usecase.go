package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/internal/application/service"
	"github.com/khoahotran/personal-card/internal/domain/profile"
	"github.com/khoahotran/personal-card/internal/domain/wizard"
	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

// DashboardPath is where the client goes after a successful submission.
const DashboardPath = "/dashboard"

type Options struct {
	PictureFolder   string
	MaxPictureBytes int64
}

// WizardUseCase runs controller operations against sessions kept in a wizard.Repository:
// load, apply one operation, save.
type WizardUseCase struct {
	sessions wizard.Repository
	store    service.ObjectStore
	profiles profile.Repository
	notifier Notifier
	opts     Options
	logger   logger.Logger
	now      func() time.Time
}

func NewWizardUseCase(
	sessions wizard.Repository,
	store service.ObjectStore,
	profiles profile.Repository,
	notifier Notifier,
	opts Options,
	log logger.Logger,
) *WizardUseCase {
	return &WizardUseCase{
		sessions: sessions,
		store:    store,
		profiles: profiles,
		notifier: notifier,
		opts:     opts,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Leave ends a finished wizard. The submitted state is stored before the session is dropped, so
// a failed delete still leaves a closed session behind and a replayed submit is refused.
func (uc *WizardUseCase) Leave(ctx context.Context, s *wizard.Session) error {
	saveErr := uc.save(ctx, s)
	if saveErr != nil {
		uc.logger.Error("Failed to store submitted wizard session", saveErr, zap.String("session_id", s.ID.String()))
	}
	if err := uc.sessions.Delete(ctx, s.ID); err != nil {
		return errors.Join(saveErr, err)
	}
	return nil
}

func (uc *WizardUseCase) Start(ctx context.Context, identity auth.Identity) (*wizard.Session, error) {
	if identity.IsZero() {
		return nil, apperror.NewUnauthorized("sign in to create a profile", nil)
	}
	s := wizard.NewSession(identity.UserID, uc.now())
	if err := uc.sessions.Save(ctx, s); err != nil {
		return nil, apperror.NewInternal("failed to save wizard session", err)
	}
	uc.logger.Info("Wizard started", zap.String("session_id", s.ID.String()), zap.String("user_id", identity.UserID.String()))
	return s, nil
}

func (uc *WizardUseCase) Get(ctx context.Context, identity auth.Identity, sessionID uuid.UUID) (*wizard.Session, error) {
	c, err := uc.load(ctx, identity, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Session(), nil
}

type Direction string

const (
	DirectionNext Direction = "next"
	DirectionBack Direction = "back"
	DirectionSkip Direction = "skip"
)

type NavigateInput struct {
	Identity  auth.Identity
	SessionID uuid.UUID
	Direction Direction
}

func (uc *WizardUseCase) Navigate(ctx context.Context, in NavigateInput) (*wizard.Session, error) {
	var op func(*Controller) error
	switch in.Direction {
	case DirectionNext:
		op = (*Controller).Advance
	case DirectionBack:
		op = (*Controller).Retreat
	case DirectionSkip:
		op = (*Controller).Skip
	default:
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown direction %q", in.Direction), nil)
	}
	return uc.apply(ctx, in.Identity, in.SessionID, op)
}

type UpdateDraftInput struct {
	Identity  auth.Identity
	SessionID uuid.UUID
	Patch     profile.Patch
}

func (uc *WizardUseCase) UpdateDraft(ctx context.Context, in UpdateDraftInput) (*wizard.Session, error) {
	return uc.apply(ctx, in.Identity, in.SessionID, func(c *Controller) error {
		return c.MergePartial(in.Patch)
	})
}

type SetPictureInput struct {
	Identity  auth.Identity
	SessionID uuid.UUID
	Data      []byte
	Filename  string
}

// SetPicture stages a picture for upload at submission time.
func (uc *WizardUseCase) SetPicture(ctx context.Context, in SetPictureInput) (*wizard.Session, error) {
	if len(in.Data) == 0 {
		return nil, apperror.NewInvalidInput("picture is empty", nil)
	}
	if uc.opts.MaxPictureBytes > 0 && int64(len(in.Data)) > uc.opts.MaxPictureBytes {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("picture exceeds %d bytes", uc.opts.MaxPictureBytes), nil)
	}
	if mt := mimetype.Detect(in.Data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("picture must be an image, got %s", mt.String()), nil)
	}

	pic := profile.PendingPicture(in.Data, in.Filename)
	return uc.apply(ctx, in.Identity, in.SessionID, func(c *Controller) error {
		return c.MergePartial(profile.Patch{Picture: &pic})
	})
}

func (uc *WizardUseCase) ClearPicture(ctx context.Context, identity auth.Identity, sessionID uuid.UUID) (*wizard.Session, error) {
	pic := profile.NoPicture()
	return uc.apply(ctx, identity, sessionID, func(c *Controller) error {
		return c.MergePartial(profile.Patch{Picture: &pic})
	})
}

type SubmitOutput struct {
	ProfileID uuid.UUID
	PageID    uuid.UUID
	Redirect  string
}

func (uc *WizardUseCase) Submit(ctx context.Context, identity auth.Identity, sessionID uuid.UUID) (*SubmitOutput, error) {
	c, err := uc.load(ctx, identity, sessionID)
	if err != nil {
		return nil, err
	}

	rec, err := c.Submit(ctx)
	if err != nil {
		var se *SubmitError
		if !errors.As(err, &se) {
			return nil, toAppError(err)
		}
		if saveErr := uc.save(ctx, c.Session()); saveErr != nil {
			uc.logger.Error("Failed to save failed wizard session", saveErr, zap.String("session_id", sessionID.String()))
		}
		return nil, toAppError(err)
	}

	return &SubmitOutput{ProfileID: rec.ID, PageID: rec.PageID, Redirect: DashboardPath}, nil
}

func (uc *WizardUseCase) Discard(ctx context.Context, identity auth.Identity, sessionID uuid.UUID) error {
	if _, err := uc.load(ctx, identity, sessionID); err != nil {
		return err
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return apperror.NewInternal("failed to delete wizard session", err)
	}
	return nil
}

func (uc *WizardUseCase) apply(ctx context.Context, identity auth.Identity, sessionID uuid.UUID, op func(*Controller) error) (*wizard.Session, error) {
	c, err := uc.load(ctx, identity, sessionID)
	if err != nil {
		return nil, err
	}
	if err := op(c); err != nil {
		return nil, toAppError(err)
	}
	if err := uc.save(ctx, c.Session()); err != nil {
		return nil, apperror.NewInternal("failed to save wizard session", err)
	}
	return c.Session(), nil
}

func (uc *WizardUseCase) load(ctx context.Context, identity auth.Identity, sessionID uuid.UUID) (*Controller, error) {
	if identity.IsZero() {
		return nil, apperror.NewUnauthorized("sign in to continue", nil)
	}
	s, err := uc.sessions.FindByID(ctx, sessionID, identity.UserID)
	if err != nil {
		if errors.Is(err, wizard.ErrSessionNotFound) {
			return nil, apperror.NewNotFound("wizard session", sessionID.String())
		}
		return nil, apperror.NewInternal("failed to load wizard session", err)
	}
	return NewController(identity, s, Dependencies{
		Store:         uc.store,
		Profiles:      uc.profiles,
		Notifier:      uc.notifier,
		Navigator:     uc,
		Logger:        uc.logger,
		PictureFolder: uc.opts.PictureFolder,
	}), nil
}

func (uc *WizardUseCase) save(ctx context.Context, s *wizard.Session) error {
	s.UpdatedAt = uc.now()
	return uc.sessions.Save(ctx, s)
}

func toAppError(err error) error {
	var (
		ae *apperror.AppError
		se *SubmitError
	)
	switch {
	case errors.As(err, &se) && se.Kind == AuthMissing:
		return apperror.NewAppError(apperror.ErrUnauthorized, FailureNotice, string(se.Kind), err)
	case errors.As(err, &se):
		return apperror.NewUnavailable(FailureNotice, string(se.Kind), err)
	case errors.As(err, &ae):
		return err
	case errors.Is(err, ErrWizardClosed):
		return apperror.NewAppError(apperror.ErrConflict, "wizard already submitted", "", err)
	case errors.Is(err, ErrNotFinalStep):
		return apperror.NewInvalidInput(err.Error(), err)
	case errors.Is(err, profile.ErrUnknownField):
		return apperror.NewInvalidInput(err.Error(), err)
	default:
		return apperror.NewInternal("wizard operation failed", err)
	}
}
